package log

import (
	"context"
	"fmt"
	"log"
	"strings"
)

// logControlCharReplacer escapes control characters that can be used for log injection (CWE-117).
// Rendered assertion diagrams are multi-line; they are escaped like any other value so a
// failing expression cannot forge extra log entries.
var logControlCharReplacer = strings.NewReplacer(
	"\n", `\n`,
	"\r", `\r`,
	"\t", `\t`,
)

// sanitizeLogString escapes control characters in a single string value.
func sanitizeLogString(s string) string {
	return logControlCharReplacer.Replace(s)
}

// GoLogger is the Go built-in (log) implementation of the Logger interface.
//
// All string values are sanitized to prevent log injection (CWE-117).
type GoLogger struct {
	Level  Level
	fields []Field
	group  string
	out    *log.Logger
}

// Compile-time assertion: *GoLogger implements Logger.
var _ Logger = (*GoLogger)(nil)

// NewGoLogger returns a GoLogger writing through the standard library's default logger.
func NewGoLogger(level Level) *GoLogger {
	return &GoLogger{Level: level}
}

func (l *GoLogger) printer() *log.Logger {
	if l.out != nil {
		return l.out
	}

	return log.Default()
}

// Enabled reports whether the logger emits entries at level.
func (l *GoLogger) Enabled(level Level) bool {
	if l == nil {
		return false
	}

	return l.Level >= level
}

// Log writes one line: `[level] msg key=value ...`.
func (l *GoLogger) Log(_ context.Context, level Level, msg string, fields ...Field) {
	if !l.Enabled(level) {
		return
	}

	l.printer().Print(l.hydrate(level, msg, fields))
}

// With returns a child logger carrying additional fields.
//
//nolint:ireturn
func (l *GoLogger) With(fields ...Field) Logger {
	if l == nil {
		return &GoLogger{}
	}

	newFields := make([]Field, 0, len(l.fields)+len(fields))
	newFields = append(newFields, l.fields...)
	newFields = append(newFields, fields...)

	return &GoLogger{Level: l.Level, fields: newFields, group: l.group, out: l.out}
}

// WithGroup returns a child logger whose subsequent field keys are prefixed with name.
//
//nolint:ireturn
func (l *GoLogger) WithGroup(name string) Logger {
	if l == nil {
		return &GoLogger{}
	}

	group := name
	if l.group != "" {
		group = l.group + "." + name
	}

	return &GoLogger{Level: l.Level, fields: l.fields, group: group, out: l.out}
}

// Sync is a no-op: the standard logger writes synchronously.
func (l *GoLogger) Sync(_ context.Context) error { return nil }

func (l *GoLogger) hydrate(level Level, msg string, fields []Field) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "[%s] %s", level.String(), sanitizeLogString(msg))

	for _, f := range l.fields {
		l.writeField(&sb, f)
	}

	for _, f := range fields {
		l.writeField(&sb, f)
	}

	return sb.String()
}

func (l *GoLogger) writeField(sb *strings.Builder, f Field) {
	key := f.Key
	if l.group != "" {
		key = l.group + "." + key
	}

	fmt.Fprintf(sb, " %s=%s", sanitizeLogString(key), sanitizeLogString(fmt.Sprint(f.Value)))
}
