package zap

import (
	"errors"
	"fmt"
	"strings"

	"go.opentelemetry.io/contrib/bridges/otelzap"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const callerSkipFrames = 1

// ErrInvalidConfig is returned when a logger Config fails validation.
var ErrInvalidConfig = errors.New("invalid zap config")

// Environment controls the baseline logger profile.
type Environment string

const (
	EnvironmentProduction  Environment = "production"
	EnvironmentDevelopment Environment = "development"
	EnvironmentLocal       Environment = "local"
	EnvironmentTest        Environment = "test"
)

// Config contains all required logger initialization inputs.
type Config struct {
	Environment     Environment
	Level           string
	OTelLibraryName string
}

func (c Config) validate() error {
	if c.OTelLibraryName == "" {
		return fmt.Errorf("%w: OTelLibraryName is required", ErrInvalidConfig)
	}

	switch c.Environment {
	case EnvironmentProduction, EnvironmentDevelopment, EnvironmentLocal, EnvironmentTest:
		return nil
	default:
		return fmt.Errorf("%w: invalid environment %q", ErrInvalidConfig, c.Environment)
	}
}

// New creates a structured logger. Entries are tee'd into the OpenTelemetry log
// bridge so assertion failures reach the same pipeline as traces.
func New(cfg Config) (*Logger, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	baseConfig := buildConfigByEnvironment(cfg.Environment)

	level, err := resolveLevel(cfg)
	if err != nil {
		return nil, err
	}

	baseConfig.Level = level
	baseConfig.DisableStacktrace = true

	coreOptions := []zap.Option{
		zap.AddCallerSkip(callerSkipFrames),
		zap.WrapCore(func(core zapcore.Core) zapcore.Core {
			return zapcore.NewTee(core, otelzap.NewCore(cfg.OTelLibraryName))
		}),
	}

	built, err := baseConfig.Build(coreOptions...)
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	return &Logger{logger: built, atomicLevel: level}, nil
}

func resolveLevel(cfg Config) (zap.AtomicLevel, error) {
	if strings.TrimSpace(cfg.Level) != "" {
		var parsed zapcore.Level
		if err := parsed.Set(cfg.Level); err != nil {
			return zap.AtomicLevel{}, fmt.Errorf("%w: invalid level %q: %w", ErrInvalidConfig, cfg.Level, err)
		}

		return zap.NewAtomicLevelAt(parsed), nil
	}

	switch cfg.Environment {
	case EnvironmentDevelopment, EnvironmentLocal, EnvironmentTest:
		return zap.NewAtomicLevelAt(zapcore.DebugLevel), nil
	default:
		return zap.NewAtomicLevelAt(zapcore.InfoLevel), nil
	}
}

func buildConfigByEnvironment(environment Environment) zap.Config {
	if environment == EnvironmentProduction {
		cfg := zap.NewProductionConfig()
		cfg.Encoding = "json"
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

		return cfg
	}

	// Local runs print diagrams to a terminal, where the console encoder keeps
	// them readable.
	cfg := zap.NewDevelopmentConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder

	return cfg
}
