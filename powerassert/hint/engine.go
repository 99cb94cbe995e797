package hint

import (
	"context"

	"github.com/LerianStudio/lib-powerassert/powerassert/expr"
	"github.com/LerianStudio/lib-powerassert/powerassert/format"
	"github.com/LerianStudio/lib-powerassert/powerassert/log"
	"github.com/LerianStudio/lib-powerassert/powerassert/runtime"
)

// Evaluator evaluates a subexpression on its own.
type Evaluator interface {
	Evaluate(e expr.Expr) (any, error)
}

// EvaluatorFunc adapts a function to Evaluator.
type EvaluatorFunc func(e expr.Expr) (any, error)

// Evaluate calls f.
func (f EvaluatorFunc) Evaluate(e expr.Expr) (any, error) {
	return f(e)
}

// Env is what a detector may use: re-evaluation of the operands it picked out,
// and the formatter used for the surrounding tree.
type Env struct {
	Eval   Evaluator
	Format *format.Formatter
}

// Detector inspects an expression that evaluated to false and returns a hint, or
// false when the expression does not have the shape it knows about.
type Detector interface {
	Detect(env Env, e expr.Expr) (string, bool)
}

// DetectorFunc adapts a function to Detector.
type DetectorFunc func(env Env, e expr.Expr) (string, bool)

// Detect calls f.
func (f DetectorFunc) Detect(env Env, e expr.Expr) (string, bool) {
	return f(env, e)
}

type namedDetector struct {
	name string
	Detector
}

func (d namedDetector) Name() string { return d.name }

// Named attaches a name to d, so it can be removed with Engine.Without.
func Named(name string, d Detector) Detector {
	return namedDetector{name: name, Detector: d}
}

// NameOf returns the name of d, or "" when it has none.
func NameOf(d Detector) string {
	if n, ok := d.(interface{ Name() string }); ok {
		return n.Name()
	}

	return ""
}

// Detector names, in default priority order.
const (
	PointerEquality = "pointer-equality"
	DynamicType     = "dynamic-type"
	StringEquality  = "string-equality"
	SequenceOrder   = "sequence-order"
	FuncNotCalled   = "func-not-called"
	FloatEquality   = "float-equality"
	BrokenEquality  = "broken-equality"
	EnumErasure     = "enum-erasure"
	DurationUnits   = "duration-units"
)

// Defaults returns the built-in detectors in priority order.
func Defaults() []Detector {
	return []Detector{
		Named(PointerEquality, DetectorFunc(detectPointerEquality)),
		Named(DynamicType, DetectorFunc(detectDynamicType)),
		Named(StringEquality, DetectorFunc(detectStringEquality)),
		Named(SequenceOrder, DetectorFunc(detectSequenceOrder)),
		Named(FuncNotCalled, DetectorFunc(detectFuncNotCalled)),
		Named(FloatEquality, DetectorFunc(detectFloatEquality)),
		Named(BrokenEquality, DetectorFunc(detectBrokenEquality)),
		Named(EnumErasure, DetectorFunc(detectEnumErasure)),
		Named(DurationUnits, DetectorFunc(detectDurationUnits)),
	}
}

// Engine runs detectors in order.
type Engine struct {
	env       Env
	detectors []Detector
	logger    log.Logger
}

// New returns an Engine over detectors. A nil formatter uses format defaults.
func New(eval Evaluator, formatter *format.Formatter, detectors ...Detector) *Engine {
	if formatter == nil {
		formatter = format.New()
	}

	return &Engine{
		env:       Env{Eval: eval, Format: formatter},
		detectors: append([]Detector(nil), detectors...),
		logger:    log.NewNop(),
	}
}

// WithLogger returns a copy of the engine that logs declined detectors at debug level.
func (en *Engine) WithLogger(logger log.Logger) *Engine {
	if en == nil {
		return nil
	}

	if logger == nil {
		logger = log.NewNop()
	}

	out := *en
	out.logger = logger

	return &out
}

// Without returns a copy of the engine without the named detectors.
func (en *Engine) Without(names ...string) *Engine {
	if en == nil {
		return nil
	}

	drop := make(map[string]struct{}, len(names))
	for _, name := range names {
		drop[name] = struct{}{}
	}

	out := *en
	out.detectors = make([]Detector, 0, len(en.detectors))

	for _, d := range en.detectors {
		if _, ok := drop[NameOf(d)]; ok {
			continue
		}

		out.detectors = append(out.detectors, d)
	}

	return &out
}

// Detectors returns the names of the engine's detectors in order.
func (en *Engine) Detectors() []string {
	if en == nil {
		return nil
	}

	names := make([]string, 0, len(en.detectors))
	for _, d := range en.detectors {
		names = append(names, NameOf(d))
	}

	return names
}

// Find returns the hint of the first detector that matches e. Callers only ask
// about expressions that evaluated to false.
func (en *Engine) Find(e expr.Expr) (string, bool) {
	if en == nil || e == nil || en.env.Eval == nil {
		return "", false
	}

	for _, d := range en.detectors {
		text, ok := en.detect(d, e)
		if ok && text != "" {
			return text, true
		}
	}

	return "", false
}

func (en *Engine) detect(d Detector, e expr.Expr) (string, bool) {
	var matched bool

	text, err := runtime.CaptureValue("hint "+NameOf(d), func() (string, error) {
		var text string

		text, matched = d.Detect(en.env, e)

		return text, nil
	})
	if err != nil {
		en.logger.Log(context.Background(), log.LevelDebug, "hint detector panicked",
			log.Detector(NameOf(d)),
			log.Err(err),
		)

		return "", false
	}

	return text, matched
}
