//go:build unit

package zap

import (
	"context"
	"errors"
	"testing"

	logpkg "github.com/LerianStudio/lib-powerassert/powerassert/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogger_LogDispatchesLevels(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.DebugLevel)
	logger := NewWithCore(core)

	logger.Log(context.Background(), logpkg.LevelDebug, "debug")
	logger.Log(context.Background(), logpkg.LevelInfo, "info")
	logger.Log(context.Background(), logpkg.LevelWarn, "warn")
	logger.Log(context.Background(), logpkg.LevelError, "error")

	entries := logs.All()
	require.Len(t, entries, 4)
	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	assert.Equal(t, zapcore.InfoLevel, entries[1].Level)
	assert.Equal(t, zapcore.WarnLevel, entries[2].Level)
	assert.Equal(t, zapcore.ErrorLevel, entries[3].Level)
}

func TestLogger_FieldsAndGroups(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.DebugLevel)
	logger := NewWithCore(core).With(logpkg.String("component", "transform"))

	logger.Log(context.Background(), logpkg.LevelError, "assertion failed",
		logpkg.String("expression", "x == y"),
		logpkg.Err(errors.New("boom")),
	)

	entries := logs.All()
	require.Len(t, entries, 1)

	ctx := entries[0].ContextMap()
	assert.Equal(t, "transform", ctx["component"])
	assert.Equal(t, "x == y", ctx["expression"])
	assert.Equal(t, "boom", ctx["error"])
}

func TestLogger_Enabled(t *testing.T) {
	t.Parallel()

	core, _ := observer.New(zapcore.WarnLevel)
	logger := NewWithCore(core)

	assert.True(t, logger.Enabled(logpkg.LevelError))
	assert.True(t, logger.Enabled(logpkg.LevelWarn))
	assert.False(t, logger.Enabled(logpkg.LevelInfo))
}

func TestLogger_NilSafe(t *testing.T) {
	t.Parallel()

	var logger *Logger
	logger.Log(context.Background(), logpkg.LevelError, "dropped")
	assert.NotNil(t, logger.Raw())
	require.NoError(t, logger.Sync(context.Background()))
}

func TestLogger_SyncHonorsCancelledContext(t *testing.T) {
	t.Parallel()

	core, _ := observer.New(zapcore.DebugLevel)
	logger := NewWithCore(core)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.ErrorIs(t, logger.Sync(ctx), context.Canceled)
}

func TestNew_ValidatesConfig(t *testing.T) {
	t.Parallel()

	_, err := New(Config{Environment: EnvironmentLocal})
	require.ErrorIs(t, err, ErrInvalidConfig)

	_, err = New(Config{Environment: "staging", OTelLibraryName: "powerassert"})
	require.ErrorIs(t, err, ErrInvalidConfig)

	_, err = New(Config{Environment: EnvironmentLocal, Level: "loud", OTelLibraryName: "powerassert"})
	require.ErrorIs(t, err, ErrInvalidConfig)
}

func TestNew_LevelFromEnvironment(t *testing.T) {
	t.Parallel()

	logger, err := New(Config{Environment: EnvironmentProduction, OTelLibraryName: "powerassert"})
	require.NoError(t, err)
	assert.Equal(t, zapcore.InfoLevel, logger.Level().Level())

	logger, err = New(Config{Environment: EnvironmentTest, OTelLibraryName: "powerassert"})
	require.NoError(t, err)
	assert.Equal(t, zapcore.DebugLevel, logger.Level().Level())

	logger, err = New(Config{Environment: EnvironmentLocal, Level: "error", OTelLibraryName: "powerassert"})
	require.NoError(t, err)
	assert.Equal(t, zapcore.ErrorLevel, logger.Level().Level())
}

func TestLogger_DiagramField(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.DebugLevel)
	logger := NewWithCore(core)

	logger.Log(context.Background(), logpkg.LevelError, "ASSERTION FAILED: x == 2\n\nx == 2\n| |\n1 false")
	logger.Log(context.Background(), logpkg.LevelInfo, "single line")

	entries := logs.All()
	require.Len(t, entries, 2)

	assert.Equal(t, "ASSERTION FAILED: x == 2", entries[0].Message)
	assert.Equal(t, "x == 2\n| |\n1 false", entries[0].ContextMap()[DiagramKey])

	assert.Equal(t, "single line", entries[1].Message)
	assert.NotContains(t, entries[1].ContextMap(), DiagramKey)
}

func TestLogger_DropsBelowLevel(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.WarnLevel)
	logger := NewWithCore(core)

	logger.Log(context.Background(), logpkg.LevelDebug, "hidden\ndiagram")
	logger.Log(context.Background(), logpkg.Level(9), "unknown levels log at info")

	assert.Zero(t, logs.Len())
}
