package zap

import (
	"context"
	"strings"

	logpkg "github.com/LerianStudio/lib-powerassert/powerassert/log"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// DiagramKey is the field that carries everything after the first line of a
// multi-line message, such as the diagram of a failed assertion.
const DiagramKey = "diagram"

// Logger implements log.Logger on top of zap.
type Logger struct {
	logger      *zap.Logger
	atomicLevel zap.AtomicLevel
}

var _ logpkg.Logger = (*Logger)(nil)

// NewWithCore wraps an existing zap core. Tests use it with zaptest/observer.
func NewWithCore(core zapcore.Core) *Logger {
	return &Logger{logger: zap.New(core), atomicLevel: zap.NewAtomicLevelAt(zapcore.DebugLevel)}
}

func (l *Logger) must() *zap.Logger {
	if l == nil || l.logger == nil {
		return zap.NewNop()
	}

	return l.logger
}

// Log writes one entry. The first line of msg is the message; any further lines
// go to the DiagramKey field so a diagram stays one value in JSON sinks. A span
// in ctx adds trace_id and span_id.
func (l *Logger) Log(ctx context.Context, level logpkg.Level, msg string, fields ...logpkg.Field) {
	ce := l.must().Check(logLevelToZap(level), firstLine(msg))
	if ce == nil {
		return
	}

	zapFields := logFieldsToZap(fields)

	if _, rest, ok := strings.Cut(msg, "\n"); ok {
		if rest = strings.TrimLeft(rest, "\n"); rest != "" {
			zapFields = append(zapFields, zap.String(DiagramKey, rest))
		}
	}

	if ctx != nil {
		if sc := trace.SpanFromContext(ctx).SpanContext(); sc.IsValid() {
			zapFields = append(zapFields,
				zap.String("trace_id", sc.TraceID().String()),
				zap.String("span_id", sc.SpanID().String()),
			)
		}
	}

	ce.Write(zapFields...)
}

func firstLine(msg string) string {
	line, _, _ := strings.Cut(msg, "\n")

	return line
}

// With returns a child logger with additional structured fields.
//
//nolint:ireturn
func (l *Logger) With(fields ...logpkg.Field) logpkg.Logger {
	return &Logger{
		logger:      l.must().With(logFieldsToZap(fields)...),
		atomicLevel: l.level(),
	}
}

// WithGroup returns a child logger that nests subsequent fields under name.
//
//nolint:ireturn
func (l *Logger) WithGroup(name string) logpkg.Logger {
	return &Logger{
		logger:      l.must().With(zap.Namespace(name)),
		atomicLevel: l.level(),
	}
}

func (l *Logger) Enabled(level logpkg.Level) bool {
	return l.must().Core().Enabled(logLevelToZap(level))
}

// Sync flushes buffered entries. It returns early when ctx is done; the flush
// itself keeps running.
func (l *Logger) Sync(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	done := make(chan error, 1)

	go func() {
		done <- l.must().Sync()
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		return err
	}
}

// Raw returns the underlying zap logger.
func (l *Logger) Raw() *zap.Logger {
	return l.must()
}

// Level returns the runtime-adjustable level handle.
func (l *Logger) Level() zap.AtomicLevel {
	return l.level()
}

func (l *Logger) level() zap.AtomicLevel {
	if l == nil {
		return zap.AtomicLevel{}
	}

	return l.atomicLevel
}

var zapLevels = map[logpkg.Level]zapcore.Level{
	logpkg.LevelError: zapcore.ErrorLevel,
	logpkg.LevelWarn:  zapcore.WarnLevel,
	logpkg.LevelInfo:  zapcore.InfoLevel,
	logpkg.LevelDebug: zapcore.DebugLevel,
}

func logLevelToZap(level logpkg.Level) zapcore.Level {
	if zl, ok := zapLevels[level]; ok {
		return zl
	}

	return zapcore.InfoLevel
}

func logFieldsToZap(fields []logpkg.Field) []zap.Field {
	zapFields := make([]zap.Field, 0, len(fields))

	for _, f := range fields {
		switch v := f.Value.(type) {
		case error:
			if f.Key == "error" {
				zapFields = append(zapFields, zap.Error(v))
				continue
			}
		case string:
			zapFields = append(zapFields, zap.String(f.Key, v))
			continue
		}

		zapFields = append(zapFields, zap.Any(f.Key, f.Value))
	}

	return zapFields
}
