package powerassert

import (
	"reflect"

	"github.com/LerianStudio/lib-powerassert/powerassert/config"
	"github.com/LerianStudio/lib-powerassert/powerassert/format"
	"github.com/LerianStudio/lib-powerassert/powerassert/log"
	"github.com/LerianStudio/lib-powerassert/powerassert/transform"
)

// Option configures Explain, IsTrue, Check and an Asserter.
type Option func(*options)

type options struct {
	cfg       config.Config
	testType  reflect.Type
	logger    log.Logger
	formatter *format.Formatter
	hints     transform.HintFinder
	evaluator transform.Evaluator
}

// WithTestType names the type of the test fixture. Values of that type are
// shown by name instead of by their contents.
func WithTestType(t reflect.Type) Option {
	return func(o *options) {
		o.testType = t
	}
}

// WithConfig applies value limits, disabled hints and stack settings.
func WithConfig(cfg config.Config) Option {
	return func(o *options) {
		o.cfg = cfg
	}
}

// WithLogger sets the logger for debug output and, on an Asserter, for failures.
func WithLogger(logger log.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithFormatter overrides the formatter built from the config.
func WithFormatter(f *format.Formatter) Option {
	return func(o *options) {
		if f != nil {
			o.formatter = f
		}
	}
}

// WithHintEngine overrides the hint engine built from the config.
func WithHintEngine(h transform.HintFinder) Option {
	return func(o *options) {
		if h != nil {
			o.hints = h
		}
	}
}

// WithEvaluator replaces the compiled evaluator.
func WithEvaluator(eval transform.Evaluator) Option {
	return func(o *options) {
		if eval != nil {
			o.evaluator = eval
		}
	}
}

func newOptions(opts []Option) *options {
	o := &options{
		cfg:       config.Default(),
		logger:    log.NewNop(),
		evaluator: transform.CompiledEvaluator{},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}

	if o.formatter == nil {
		o.formatter = o.cfg.Formatter()
	}

	if o.hints == nil {
		o.hints = o.cfg.HintEngine(o.evaluator, o.formatter).WithLogger(o.logger)
	}

	return o
}

func (o *options) transformer() *transform.Transformer {
	return transform.New(
		transform.WithEvaluator(o.evaluator),
		transform.WithFormatter(o.formatter),
		transform.WithHints(o.hints),
		transform.WithLogger(o.logger),
	)
}
