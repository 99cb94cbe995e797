package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	constant "github.com/LerianStudio/lib-powerassert/powerassert/constants"
	"github.com/LerianStudio/lib-powerassert/powerassert/format"
	"github.com/LerianStudio/lib-powerassert/powerassert/hint"
	"github.com/LerianStudio/lib-powerassert/powerassert/log"
	"github.com/LerianStudio/lib-powerassert/powerassert/zap"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is returned for a file, variable or field that fails validation.
var ErrInvalidConfig = errors.New("invalid powerassert config")

// Config is the full set of settings.
type Config struct {
	MaxValueLength int      `yaml:"max_value_length"`
	MaxDepth       int      `yaml:"max_depth"`
	MaxItems       int      `yaml:"max_items"`
	DisabledHints  []string `yaml:"disabled_hints"`
	// IncludeStack attaches the stack of a failed assertion to its log entry and
	// span event outside production.
	IncludeStack bool      `yaml:"include_stack"`
	Log          LogConfig `yaml:"log"`
}

// LogConfig configures the zap logger built by the command line tool.
type LogConfig struct {
	Level       string `yaml:"level"`
	Environment string `yaml:"environment"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		MaxValueLength: format.DefaultMaxValueLength,
		MaxDepth:       format.DefaultMaxDepth,
		MaxItems:       format.DefaultMaxItems,
		IncludeStack:   true,
		Log: LogConfig{
			Level:       "info",
			Environment: string(zap.EnvironmentLocal),
		},
	}
}

// Load reads path over the defaults, applies environment overrides and validates
// the result. A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)

	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("%w: failed to parse %s: %w", ErrInvalidConfig, path, err)
		}
	}

	if err := cfg.ApplyEnv(); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// ApplyEnv overrides fields from POWERASSERT_* variables. ENV or GO_ENV set to
// production selects the production log environment.
func (c *Config) ApplyEnv() error {
	for _, o := range []struct {
		name string
		dst  *int
	}{
		{constant.EnvMaxValueLength, &c.MaxValueLength},
		{constant.EnvMaxDepth, &c.MaxDepth},
		{constant.EnvMaxItems, &c.MaxItems},
	} {
		raw := strings.TrimSpace(os.Getenv(o.name))
		if raw == "" {
			continue
		}

		n, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not an integer", ErrInvalidConfig, o.name, raw)
		}

		*o.dst = n
	}

	if raw := os.Getenv(constant.EnvDisableHints); raw != "" {
		for _, name := range strings.Split(raw, ",") {
			if name = strings.TrimSpace(name); name != "" {
				c.DisabledHints = append(c.DisabledHints, name)
			}
		}
	}

	if level := strings.TrimSpace(os.Getenv(constant.EnvLogLevel)); level != "" {
		c.Log.Level = level
	}

	for _, name := range []string{constant.EnvEnvironment, constant.EnvGoEnvironment} {
		if strings.EqualFold(strings.TrimSpace(os.Getenv(name)), string(zap.EnvironmentProduction)) {
			c.Log.Environment = string(zap.EnvironmentProduction)
		}
	}

	return nil
}

// Validate checks limits, hint names and log settings.
func (c Config) Validate() error {
	var errs []error

	if c.MaxValueLength <= 0 {
		errs = append(errs, fmt.Errorf("max_value_length must be positive, got %d", c.MaxValueLength))
	}

	if c.MaxDepth <= 0 {
		errs = append(errs, fmt.Errorf("max_depth must be positive, got %d", c.MaxDepth))
	}

	if c.MaxItems <= 0 {
		errs = append(errs, fmt.Errorf("max_items must be positive, got %d", c.MaxItems))
	}

	known := make(map[string]struct{})
	for _, d := range hint.Defaults() {
		known[hint.NameOf(d)] = struct{}{}
	}

	for _, name := range c.DisabledHints {
		if _, ok := known[name]; !ok {
			errs = append(errs, fmt.Errorf("unknown hint %q in disabled_hints", name))
		}
	}

	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}

	switch zap.Environment(c.Log.Environment) {
	case zap.EnvironmentProduction, zap.EnvironmentDevelopment, zap.EnvironmentLocal, zap.EnvironmentTest:
	default:
		errs = append(errs, fmt.Errorf("log.environment: unknown environment %q", c.Log.Environment))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}

	return nil
}

// Formatter returns a value formatter with the configured limits.
func (c Config) Formatter() *format.Formatter {
	return format.New(
		format.WithMaxValueLength(c.MaxValueLength),
		format.WithMaxDepth(c.MaxDepth),
		format.WithMaxItems(c.MaxItems),
	)
}

// HintEngine returns the default detectors minus the disabled ones.
func (c Config) HintEngine(eval hint.Evaluator, formatter *format.Formatter) *hint.Engine {
	return hint.New(eval, formatter, hint.Defaults()...).Without(c.DisabledHints...)
}

// LogLevel returns the configured level, or info when it does not parse.
func (c Config) LogLevel() log.Level {
	level, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.LevelInfo
	}

	return level
}

// ZapConfig returns the settings for zap.New.
func (c Config) ZapConfig() zap.Config {
	return zap.Config{
		Environment:     zap.Environment(c.Log.Environment),
		Level:           c.Log.Level,
		OTelLibraryName: constant.TelemetrySDKName,
	}
}
