package runtime

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"
	"strings"
	"sync"
)

const redactedPanicMsg = "panic recovered (details redacted)"

// maxStackLen bounds the stack kept on a PanicError.
const maxStackLen = 4096

var (
	// productionMode controls whether panic details are redacted.
	productionMode   bool
	productionModeMu sync.RWMutex
)

// SetProductionMode enables or disables production mode.
func SetProductionMode(enabled bool) {
	productionModeMu.Lock()
	defer productionModeMu.Unlock()

	productionMode = enabled
}

// IsProductionMode returns whether production mode is enabled, either explicitly or
// through the ENV / GO_ENV environment variables.
func IsProductionMode() bool {
	productionModeMu.RLock()
	enabled := productionMode
	productionModeMu.RUnlock()

	if enabled {
		return true
	}

	env := strings.TrimSpace(os.Getenv("ENV"))
	goEnv := strings.TrimSpace(os.Getenv("GO_ENV"))

	return strings.EqualFold(env, "production") || strings.EqualFold(goEnv, "production")
}

// PanicError is a recovered panic.
type PanicError struct {
	// Source names the operation that panicked.
	Source string
	// Value is the value passed to panic. Nil in production mode.
	Value any
	// Stack is the goroutine stack at recovery time. Empty in production mode.
	Stack []byte

	redacted bool
}

// Error returns the panic message.
func (e *PanicError) Error() string {
	if e == nil {
		return "panic"
	}

	if e.redacted {
		return redactedPanicMsg
	}

	return "panic: " + FormatPanicValue(e.Value)
}

// Message returns the panic value as text without the "panic: " prefix.
func (e *PanicError) Message() string {
	if e == nil || e.redacted {
		return redactedPanicMsg
	}

	return FormatPanicValue(e.Value)
}

// Unwrap exposes an error panic value (for example a runtime.Error) to errors.Is/As.
func (e *PanicError) Unwrap() error {
	if e == nil {
		return nil
	}

	if err, ok := e.Value.(error); ok {
		return err
	}

	return nil
}

// IsPanic reports whether err carries a recovered panic.
func IsPanic(err error) bool {
	var pe *PanicError

	return errors.As(err, &pe)
}

// Capture runs fn and converts a panic into a *PanicError. Errors returned by fn
// pass through unchanged.
//
// Example:
//
//	err := runtime.Capture("evaluate", func() error {
//	    value, err = thunk()
//	    return err
//	})
func Capture(source string, fn func() error) (err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err = newPanicError(source, recovered)
		}
	}()

	return fn()
}

// CaptureValue is Capture for functions that produce a value.
func CaptureValue[T any](source string, fn func() (T, error)) (value T, err error) {
	err = Capture(source, func() error {
		var innerErr error

		value, innerErr = fn()

		return innerErr
	})

	return value, err
}

func newPanicError(source string, recovered any) *PanicError {
	if IsProductionMode() {
		return &PanicError{Source: source, redacted: true}
	}

	stack := debug.Stack()
	if len(stack) > maxStackLen {
		stack = stack[:maxStackLen]
	}

	return &PanicError{Source: source, Value: recovered, Stack: stack}
}

// FormatPanicValue formats a panic value as a string.
func FormatPanicValue(value any) string {
	switch v := value.(type) {
	case nil:
		return "nil"
	case error:
		return v.Error()
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}
