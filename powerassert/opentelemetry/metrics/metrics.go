package metrics

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/LerianStudio/lib-powerassert/powerassert/log"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// MetricsFactory provides a thread-safe factory for creating and managing OpenTelemetry metrics
// with lazy initialization using sync.Map for concurrent access.
type MetricsFactory struct {
	meter      metric.Meter
	counters   sync.Map // string -> metric.Int64Counter
	histograms sync.Map // string -> metric.Int64Histogram
	logger     log.Logger
}

// ErrNilMeter indicates that a nil OTEL meter was provided.
var ErrNilMeter = errors.New("metric meter cannot be nil")

// Metric describes an instrument.
type Metric struct {
	Name        string
	Description string
	Unit        string
	// For histograms: bucket boundaries
	Buckets []float64
}

// DefaultLatencyBuckets are used for histograms without explicit buckets, in milliseconds.
var DefaultLatencyBuckets = []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25, 50, 100, 250}

// NewMetricsFactory creates a new MetricsFactory instance.
func NewMetricsFactory(meter metric.Meter, logger log.Logger) (*MetricsFactory, error) {
	if meter == nil {
		return nil, ErrNilMeter
	}

	if logger == nil {
		logger = log.NewNop()
	}

	return &MetricsFactory{
		meter:  meter,
		logger: logger,
	}, nil
}

// NewNopFactory returns a MetricsFactory backed by OpenTelemetry's no-op meter.
func NewNopFactory() *MetricsFactory {
	return &MetricsFactory{
		meter:  noop.NewMeterProvider().Meter("nop"),
		logger: log.NewNop(),
	}
}

// Counter creates or retrieves a counter metric and returns a builder for fluent API usage.
func (f *MetricsFactory) Counter(m Metric) (*CounterBuilder, error) {
	counter, err := f.getOrCreateCounter(m)
	if err != nil {
		return nil, err
	}

	return &CounterBuilder{counter: counter, name: m.Name}, nil
}

// Histogram creates or retrieves a histogram metric and returns a builder for fluent API usage.
func (f *MetricsFactory) Histogram(m Metric) (*HistogramBuilder, error) {
	if m.Buckets == nil {
		m.Buckets = DefaultLatencyBuckets
	}

	histogram, err := f.getOrCreateHistogram(m)
	if err != nil {
		return nil, err
	}

	return &HistogramBuilder{histogram: histogram, name: m.Name}, nil
}

// cached returns the instrument stored under key, creating it on first use. Two
// goroutines racing on a new key both create one; the first stored wins.
func cached[T any](f *MetricsFactory, cache *sync.Map, kind, key string, create func() (T, error)) (T, error) {
	var zero T

	if v, ok := cache.Load(key); ok {
		if inst, ok := v.(T); ok {
			return inst, nil
		}

		return zero, fmt.Errorf("%s cache contains invalid type for %q", kind, key)
	}

	inst, err := create()
	if err != nil {
		f.logger.Log(context.Background(), log.LevelError, "failed to create "+kind+" metric",
			log.String("metric_name", key),
			log.Err(err),
		)

		return zero, fmt.Errorf("create %s %q: %w", kind, key, err)
	}

	actual, _ := cache.LoadOrStore(key, inst)
	if stored, ok := actual.(T); ok {
		return stored, nil
	}

	return zero, fmt.Errorf("%s cache contains invalid type for %q", kind, key)
}

func (f *MetricsFactory) getOrCreateCounter(m Metric) (metric.Int64Counter, error) {
	return cached(f, &f.counters, "counter", m.Name, func() (metric.Int64Counter, error) {
		return f.meter.Int64Counter(m.Name,
			metric.WithDescription(m.Description),
			metric.WithUnit(m.Unit),
		)
	})
}

// getOrCreateHistogram keys the cache by name and bucket layout, so the same name
// with other buckets is another instrument.
func (f *MetricsFactory) getOrCreateHistogram(m Metric) (metric.Int64Histogram, error) {
	return cached(f, &f.histograms, "histogram", histogramCacheKey(m.Name, m.Buckets), func() (metric.Int64Histogram, error) {
		return f.meter.Int64Histogram(m.Name,
			metric.WithDescription(m.Description),
			metric.WithUnit(m.Unit),
			metric.WithExplicitBucketBoundaries(m.Buckets...),
		)
	})
}

func histogramCacheKey(name string, buckets []float64) string {
	if len(buckets) == 0 {
		return name
	}

	sorted := make([]float64, len(buckets))
	copy(sorted, buckets)
	sort.Float64s(sorted)

	parts := make([]string, len(sorted))
	for i, b := range sorted {
		parts[i] = strconv.FormatFloat(b, 'g', -1, 64)
	}

	return name + ":" + strings.Join(parts, ",")
}
