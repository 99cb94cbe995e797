package metrics

import (
	"context"
	"time"

	constant "github.com/LerianStudio/lib-powerassert/powerassert/constants"
)

// MetricAssertionFailed counts assertions that evaluated to false.
var MetricAssertionFailed = Metric{
	Name:        constant.MetricAssertionFailedTotal,
	Unit:        "1",
	Description: "Number of failed assertions.",
}

// MetricExplainDuration measures the time spent building a failure diagnostic.
var MetricExplainDuration = Metric{
	Name:        constant.MetricAssertionExplainDuration,
	Unit:        "ms",
	Description: "Time spent transforming and rendering a failed assertion.",
}

// RecordAssertionFailed increments assertion_failed_total with sanitized labels.
func (f *MetricsFactory) RecordAssertionFailed(ctx context.Context, component, operation, assertion string) error {
	counter, err := f.Counter(MetricAssertionFailed)
	if err != nil {
		return err
	}

	return counter.WithLabels(map[string]string{
		"component": constant.SanitizeMetricLabel(component),
		"operation": constant.SanitizeMetricLabel(operation),
		"assertion": constant.SanitizeMetricLabel(assertion),
	}).AddOne(ctx)
}

// RecordExplainDuration records how long a diagnostic took to build.
func (f *MetricsFactory) RecordExplainDuration(ctx context.Context, component string, elapsed time.Duration) error {
	histogram, err := f.Histogram(MetricExplainDuration)
	if err != nil {
		return err
	}

	return histogram.WithLabels(map[string]string{
		"component": constant.SanitizeMetricLabel(component),
	}).Record(ctx, elapsed.Milliseconds())
}
