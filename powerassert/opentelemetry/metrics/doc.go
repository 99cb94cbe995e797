// Package metrics provides a fluent factory for OpenTelemetry metric instruments.
//
// MetricsFactory caches instruments and exposes builder-style APIs for counters
// and histograms. Convenience methods record the assertion metrics emitted by
// the powerassert Asserter.
package metrics
