package log

import (
	"context"
	"fmt"
	"strings"
)

// Logger is implemented by every logging backend. Components take a Logger and
// default to NewNop.
type Logger interface {
	Log(ctx context.Context, level Level, msg string, fields ...Field)
	With(fields ...Field) Logger
	WithGroup(name string) Logger
	Enabled(level Level) bool
	Sync(ctx context.Context) error
}

// Level is a log severity. Smaller is more severe; a logger set to a level emits
// it and every smaller one.
type Level uint8

const (
	LevelError Level = iota
	LevelWarn
	LevelInfo
	LevelDebug
)

var levelNames = [...]string{
	LevelError: "error",
	LevelWarn:  "warn",
	LevelInfo:  "info",
	LevelDebug: "debug",
}

func (level Level) String() string {
	if int(level) < len(levelNames) {
		return levelNames[level]
	}

	return "unknown"
}

// ParseLevel accepts the level names, "warning", any case and surrounding spaces.
func ParseLevel(lvl string) (Level, error) {
	name := strings.ToLower(strings.TrimSpace(lvl))
	if name == "warning" {
		return LevelWarn, nil
	}

	for level, known := range levelNames {
		if name == known {
			return Level(level), nil
		}
	}

	return 0, fmt.Errorf("not a valid Level: %q", lvl)
}

// Field is a key/value attribute of a log entry.
type Field struct {
	Key   string
	Value any
}

// Keys shared by the components that log about expressions.
const (
	KeyExpression = "expression"
	KeyHint       = "hint"
	KeyDetector   = "detector"
)

// String creates a string field.
func String(key, value string) Field {
	return Field{Key: key, Value: value}
}

// Bool creates a boolean field.
func Bool(key string, value bool) Field {
	return Field{Key: key, Value: value}
}

// Err creates the conventional `error` field.
func Err(err error) Field {
	return Field{Key: "error", Value: err}
}

// Expression records the source or printed form of an expression.
func Expression(src string) Field {
	return String(KeyExpression, src)
}

// Hint records the text a hint detector produced.
func Hint(text string) Field {
	return String(KeyHint, text)
}

// Detector records the name of a hint detector.
func Detector(name string) Field {
	return String(KeyDetector, name)
}

// SafeError logs err at error level. In production only its type is recorded,
// since errors raised by evaluated code may quote the values they saw.
func SafeError(logger Logger, ctx context.Context, msg string, err error, production bool) {
	if logger == nil || err == nil || !logger.Enabled(LevelError) {
		return
	}

	field := Err(err)
	if production {
		field = String("error_type", fmt.Sprintf("%T", err))
	}

	logger.Log(ctx, LevelError, msg, field)
}
