package constant

// TelemetrySDKName identifies this library in OTEL instrumentation scopes.
const TelemetrySDKName = "lib-powerassert"

// MaxMetricLabelLength is the maximum length for metric labels to prevent cardinality explosion.
const MaxMetricLabelLength = 64

// Telemetry attribute key prefixes.
const (
	// AttrPrefixAssertion is the prefix for assertion event attributes.
	AttrPrefixAssertion = "assertion."
)

// Telemetry attribute keys recorded on assertion failure events.
const (
	AttrAssertionName       = AttrPrefixAssertion + "name"
	AttrAssertionMessage    = AttrPrefixAssertion + "message"
	AttrAssertionExpression = AttrPrefixAssertion + "expression"
	AttrAssertionComponent  = AttrPrefixAssertion + "component"
	AttrAssertionOperation  = AttrPrefixAssertion + "operation"
	AttrAssertionHint       = AttrPrefixAssertion + "hint"
	AttrAssertionStack      = AttrPrefixAssertion + "stack"
)

// Metric names.
const (
	// MetricAssertionFailedTotal is the counter metric for failed assertions.
	MetricAssertionFailedTotal = "assertion_failed_total"
	// MetricAssertionExplainDuration records how long rendering a diagnostic took.
	MetricAssertionExplainDuration = "assertion_explain_duration_ms"
)

// Telemetry event names.
const (
	// EventAssertionFailed is the span event name for assertion failures.
	EventAssertionFailed = "assertion.failed"
)

// SanitizeMetricLabel truncates a label value to MaxMetricLabelLength
// to prevent metric cardinality explosion in OTEL backends.
func SanitizeMetricLabel(value string) string {
	if len(value) > MaxMetricLabelLength {
		return value[:MaxMetricLabelLength]
	}

	return value
}
