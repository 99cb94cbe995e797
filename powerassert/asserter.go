package powerassert

import (
	"context"
	"errors"
	"fmt"
	"os"
	goruntime "runtime"
	"runtime/debug"
	"strings"
	"time"

	"github.com/LerianStudio/lib-powerassert/powerassert/expr"
	"github.com/LerianStudio/lib-powerassert/powerassert/gosyntax"
	"github.com/LerianStudio/lib-powerassert/powerassert/log"
	"github.com/LerianStudio/lib-powerassert/powerassert/runtime"

	constant "github.com/LerianStudio/lib-powerassert/powerassert/constants"
)

// Logger is the part of log.Logger an Asserter writes failures to.
type Logger interface {
	Log(ctx context.Context, level log.Level, msg string, fields ...log.Field)
}

// Asserter checks predicates in running code and emits telemetry on failure.
type Asserter struct {
	ctx       context.Context
	logger    Logger
	component string
	operation string
	opts      []Option
}

// ErrAssertionFailed is the sentinel error for failed assertions.
var ErrAssertionFailed = errors.New("assertion failed")

// AssertionError is a failed assertion with its diagram and context.
type AssertionError struct {
	Assertion string
	Message   string
	// Expression is the rendered diagram; empty for assertions without a
	// predicate.
	Expression string
	Hint       string
	Component  string
	Operation  string
	Details    string
}

// Error returns the message, the diagram and the key-value details.
func (entry *AssertionError) Error() string {
	if entry == nil {
		return ErrAssertionFailed.Error()
	}

	var sb strings.Builder

	sb.WriteString("assertion failed: ")
	sb.WriteString(entry.Message)

	if entry.Expression != "" {
		sb.WriteString("\n\n")
		sb.WriteString(entry.Expression)
		sb.WriteString("\n")
	}

	if entry.Details != "" {
		sb.WriteString("\n")
		sb.WriteString(entry.Details)
	}

	return sb.String()
}

// Unwrap returns ErrAssertionFailed for errors.Is.
func (entry *AssertionError) Unwrap() error {
	return ErrAssertionFailed
}

// New creates an Asserter. component and operation label its telemetry; opts
// apply to every diagram it builds.
//
//nolint:contextcheck // Intentionally creates a fallback context when nil is passed
func New(ctx context.Context, logger Logger, component, operation string, opts ...Option) *Asserter {
	if ctx == nil {
		ctx = context.Background()
	}

	return &Asserter{
		ctx:       ctx,
		logger:    logger,
		component: component,
		operation: operation,
		opts:      opts,
	}
}

// That returns an *AssertionError carrying the diagram of pred when it does not
// hold. A predicate that cannot be explained is reported with its source only.
//
// Example:
//
//	pred := expr.Lambda("balance >= 0", expr.GreaterEqual(expr.Local("balance", &balance), expr.Constant(0)))
//	if err := asserter.That(ctx, pred, "account_id", id); err != nil {
//		return err
//	}
func (asserter *Asserter) That(ctx context.Context, pred *expr.LambdaExpr, kv ...any) error {
	o := newOptions(asserter.options())

	v, err := evaluate(pred, o)
	if err == nil && v.holds() {
		return nil
	}

	start := time.Now()

	var d Diagnostic
	if err == nil {
		d, err = explain(pred, o, v)
	}

	if err != nil {
		msg := "predicate could not be explained"
		if pred != nil {
			msg = source(pred)
		}

		return asserter.fail(ctx, failure{assertion: "That", msg: msg}, append(kv[:len(kv):len(kv)], "explain_error", err.Error())...)
	}

	recordExplainDuration(ctx, asserter.labels(), time.Since(start))

	if d.Err != nil {
		kv = append(kv[:len(kv):len(kv)], "evaluation_error", d.Err.Error())
	}

	return asserter.fail(ctx, failure{assertion: "That", msg: d.Source, expression: d.Text, hint: d.Hint}, kv...)
}

// Check parses src against scope and asserts it like That. A parse error is
// returned as is; it is a bug in the caller, not a failed assertion.
func (asserter *Asserter) Check(ctx context.Context, src string, scope *gosyntax.Scope, kv ...any) error {
	if scope == nil {
		scope = gosyntax.Std()
	}

	pred, err := gosyntax.Parse(src, scope)
	if err != nil {
		return fmt.Errorf("parse assertion %q: %w", src, err)
	}

	return asserter.That(ctx, pred, kv...)
}

// NoError returns an error if err is not nil. The error message and type are
// automatically included in the assertion context for debugging.
func (asserter *Asserter) NoError(ctx context.Context, err error, msg string, kv ...any) error {
	if err == nil {
		return nil
	}

	// errorKVPairs: 2 pairs added (error + error_type), each pair = 2 elements
	const errorKVPairs = 4

	kvWithError := make([]any, 0, len(kv)+errorKVPairs)
	kvWithError = append(kvWithError, "error", err.Error())
	kvWithError = append(kvWithError, "error_type", fmt.Sprintf("%T", err))
	kvWithError = append(kvWithError, kv...)

	return asserter.fail(ctx, failure{assertion: "NoError", msg: msg}, kvWithError...)
}

// Never always returns an error. Use for code paths that should be unreachable.
func (asserter *Asserter) Never(ctx context.Context, msg string, kv ...any) error {
	return asserter.fail(ctx, failure{assertion: "Never", msg: msg}, kv...)
}

// Halt terminates the current goroutine if err is not nil.
func (asserter *Asserter) Halt(err error) {
	if err != nil {
		goruntime.Goexit()
	}
}

type failure struct {
	assertion  string
	msg        string
	expression string
	hint       string
}

type labels struct {
	component string
	operation string
}

func (asserter *Asserter) options() []Option {
	if asserter == nil {
		return nil
	}

	return asserter.opts
}

func (asserter *Asserter) labels() labels {
	if asserter == nil {
		return labels{}
	}

	return labels{component: asserter.component, operation: asserter.operation}
}

func (asserter *Asserter) fail(ctx context.Context, f failure, kv ...any) error {
	ctx, logger := asserter.values(ctx)
	l := asserter.labels()
	o := newOptions(asserter.options())

	contextPairs := withContextPairs(f.assertion, l, f.hint, kv)
	details := formatKeyValueLines(contextPairs)

	stack := []byte(nil)
	if o.cfg.IncludeStack && shouldIncludeStack() {
		stack = debug.Stack()
	}

	logAssertion(ctx, logger, formatLogMessage(f, details, stack))
	recordAssertionObservability(ctx, f, stack, l)

	return &AssertionError{
		Assertion:  f.assertion,
		Message:    f.msg,
		Expression: f.expression,
		Hint:       f.hint,
		Component:  l.component,
		Operation:  l.operation,
		Details:    details,
	}
}

func (asserter *Asserter) values(ctx context.Context) (context.Context, Logger) {
	if asserter == nil {
		if ctx == nil {
			ctx = context.Background()
		}

		return ctx, nil
	}

	if ctx == nil {
		ctx = asserter.ctx
	}

	if ctx == nil {
		ctx = context.Background()
	}

	return ctx, asserter.logger
}

func shouldIncludeStack() bool {
	if runtime.IsProductionMode() {
		return false
	}

	env := strings.TrimSpace(os.Getenv(constant.EnvEnvironment))
	goEnv := strings.TrimSpace(os.Getenv(constant.EnvGoEnvironment))

	return !strings.EqualFold(env, "production") && !strings.EqualFold(goEnv, "production")
}

// contextPairsCapacity is the capacity for the fixed context pairs (assertion, component, operation, hint).
const contextPairsCapacity = 8

func withContextPairs(assertion string, l labels, hint string, kv []any) []any {
	contextPairs := make([]any, 0, len(kv)+contextPairsCapacity)
	contextPairs = append(contextPairs, "assertion", assertion)

	if l.component != "" {
		contextPairs = append(contextPairs, "component", l.component)
	}

	if l.operation != "" {
		contextPairs = append(contextPairs, "operation", l.operation)
	}

	if hint != "" {
		contextPairs = append(contextPairs, "hint", hint)
	}

	contextPairs = append(contextPairs, kv...)

	return contextPairs
}

const maxValueLength = 200

func truncateValue(v any) string {
	s := fmt.Sprintf("%v", v)
	if len(s) <= maxValueLength {
		return s
	}

	return s[:maxValueLength] + fmt.Sprintf("... (truncated %d chars)", len(s)-maxValueLength)
}

func formatKeyValueLines(kv []any) string {
	if len(kv) == 0 {
		return ""
	}

	var sb strings.Builder

	for i := 0; i < len(kv); i += 2 {
		if i > 0 {
			sb.WriteString("\n")
		}

		var value any
		if i+1 < len(kv) {
			value = kv[i+1]
		} else {
			value = "MISSING_VALUE"
		}

		fmt.Fprintf(&sb, "    %v=%v", kv[i], truncateValue(value))
	}

	return sb.String()
}

func formatLogMessage(f failure, details string, stack []byte) string {
	var sb strings.Builder

	sb.WriteString("ASSERTION FAILED: ")
	sb.WriteString(f.msg)

	if f.expression != "" {
		sb.WriteString("\n\n")
		sb.WriteString(f.expression)
		sb.WriteString("\n")
	}

	if details != "" {
		sb.WriteString("\n")
		sb.WriteString(details)
	}

	if len(stack) > 0 {
		sb.WriteString("\nstack trace:\n")
		sb.Write(stack)
	}

	return sb.String()
}

// fallbackLogger receives failures of an Asserter built without a logger.
var fallbackLogger log.Logger = log.NewGoLogger(log.LevelError)

func logAssertion(ctx context.Context, logger Logger, message string) {
	if logger == nil {
		logger = fallbackLogger
	}

	logger.Log(ctx, log.LevelError, message)
}
