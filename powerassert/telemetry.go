package powerassert

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	constant "github.com/LerianStudio/lib-powerassert/powerassert/constants"
	"github.com/LerianStudio/lib-powerassert/powerassert/log"
	"github.com/LerianStudio/lib-powerassert/powerassert/opentelemetry/metrics"
	"github.com/LerianStudio/lib-powerassert/powerassert/runtime"
)

// AssertionSpanEventName is the event name used when recording assertion failures on spans.
const AssertionSpanEventName = constant.EventAssertionFailed

// AssertionMetrics records assertion failures and diagram build times.
type AssertionMetrics struct {
	factory *metrics.MetricsFactory
}

var (
	assertionMetricsInstance *AssertionMetrics
	assertionMetricsMu       sync.RWMutex
)

// InitAssertionMetrics installs the factory used by every Asserter. Later calls
// are ignored until ResetAssertionMetrics.
func InitAssertionMetrics(factory *metrics.MetricsFactory) {
	assertionMetricsMu.Lock()
	defer assertionMetricsMu.Unlock()

	if factory == nil || assertionMetricsInstance != nil {
		return
	}

	assertionMetricsInstance = &AssertionMetrics{factory: factory}
}

// GetAssertionMetrics returns the installed metrics, or nil.
func GetAssertionMetrics() *AssertionMetrics {
	assertionMetricsMu.RLock()
	defer assertionMetricsMu.RUnlock()

	return assertionMetricsInstance
}

// ResetAssertionMetrics clears the assertion metrics singleton (useful for tests).
func ResetAssertionMetrics() {
	assertionMetricsMu.Lock()
	defer assertionMetricsMu.Unlock()

	assertionMetricsInstance = nil
}

// RecordAssertionFailed increments assertion_failed_total. It is a no-op on nil.
func (am *AssertionMetrics) RecordAssertionFailed(ctx context.Context, component, operation, assertion string) {
	if am == nil || am.factory == nil {
		return
	}

	if err := am.factory.RecordAssertionFailed(ctx, component, operation, assertion); err != nil {
		log.SafeError(fallbackLogger, ctx, "failed to record assertion metric", err, runtime.IsProductionMode())
	}
}

// RecordExplainDuration records how long a diagram took to build. It is a no-op on nil.
func (am *AssertionMetrics) RecordExplainDuration(ctx context.Context, component string, elapsed time.Duration) {
	if am == nil || am.factory == nil {
		return
	}

	if err := am.factory.RecordExplainDuration(ctx, component, elapsed); err != nil {
		log.SafeError(fallbackLogger, ctx, "failed to record explain duration", err, runtime.IsProductionMode())
	}
}

func recordExplainDuration(ctx context.Context, l labels, elapsed time.Duration) {
	if am := GetAssertionMetrics(); am != nil {
		am.RecordExplainDuration(ctx, l.component, elapsed)
	}
}

func recordAssertionObservability(ctx context.Context, f failure, stack []byte, l labels) {
	if am := GetAssertionMetrics(); am != nil {
		am.RecordAssertionFailed(ctx, l.component, l.operation, f.assertion)
	}

	recordAssertionToSpan(ctx, f, stack, l)
}

func recordAssertionToSpan(ctx context.Context, f failure, stack []byte, l labels) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String(constant.AttrAssertionName, f.assertion),
		attribute.String(constant.AttrAssertionMessage, f.msg),
	}

	if f.expression != "" {
		attrs = append(attrs, attribute.String(constant.AttrAssertionExpression, f.expression))
	}

	if f.hint != "" {
		attrs = append(attrs, attribute.String(constant.AttrAssertionHint, f.hint))
	}

	if l.component != "" {
		attrs = append(attrs, attribute.String(constant.AttrAssertionComponent, l.component))
	}

	if l.operation != "" {
		attrs = append(attrs, attribute.String(constant.AttrAssertionOperation, l.operation))
	}

	if len(stack) > 0 {
		attrs = append(attrs, attribute.String(constant.AttrAssertionStack, string(stack)))
	}

	span.AddEvent(AssertionSpanEventName, trace.WithAttributes(attrs...))
	span.RecordError(fmt.Errorf("%w: %s", ErrAssertionFailed, f.msg))
	span.SetStatus(codes.Error, assertionStatusMessage(l))
}

func assertionStatusMessage(l labels) string {
	switch {
	case l.component != "" && l.operation != "":
		return fmt.Sprintf("assertion failed in %s/%s", l.component, l.operation)
	case l.component != "":
		return "assertion failed in " + l.component
	case l.operation != "":
		return "assertion failed in " + l.operation
	default:
		return "assertion failed"
	}
}
