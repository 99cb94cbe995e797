//go:build unit

package powerassert

import (
	"context"
	"errors"
	"testing"

	"github.com/LerianStudio/lib-powerassert/powerassert/config"
	"github.com/LerianStudio/lib-powerassert/powerassert/gosyntax"
	"github.com/LerianStudio/lib-powerassert/powerassert/log"
	"github.com/LerianStudio/lib-powerassert/powerassert/opentelemetry/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	constant "github.com/LerianStudio/lib-powerassert/powerassert/constants"
	libZap "github.com/LerianStudio/lib-powerassert/powerassert/zap"
)

func newObservedAsserter(opts ...Option) (*Asserter, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)

	return New(context.Background(), libZap.NewWithCore(core), "ledger", "post", opts...), logs
}

func withoutStack() Option {
	cfg := config.Default()
	cfg.IncludeStack = false

	return WithConfig(cfg)
}

func TestAssertionError_Error(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		entry *AssertionError
		want  string
	}{
		{name: "nil receiver", entry: nil, want: "assertion failed"},
		{name: "message only", entry: &AssertionError{Message: "m"}, want: "assertion failed: m"},
		{
			name:  "details",
			entry: &AssertionError{Message: "m", Details: "    k=v"},
			want:  "assertion failed: m\n    k=v",
		},
		{
			name:  "diagram and details",
			entry: &AssertionError{Message: "m", Expression: "x\n|\n1", Details: "    k=v"},
			want:  "assertion failed: m\n\nx\n|\n1\n\n    k=v",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, tt.entry.Error())
		})
	}
}

func TestAsserter_ThatPasses(t *testing.T) {
	t.Parallel()

	a, logs := newObservedAsserter()

	require.NoError(t, a.That(context.Background(), xEquals2(2)))
	assert.Zero(t, logs.Len())
}

func TestAsserter_ThatFails(t *testing.T) {
	t.Parallel()

	a, logs := newObservedAsserter(withoutStack())

	err := a.That(context.Background(), xEquals2(1), "account_id", 42)
	require.ErrorIs(t, err, ErrAssertionFailed)

	var entry *AssertionError
	require.ErrorAs(t, err, &entry)
	assert.Equal(t, "That", entry.Assertion)
	assert.Equal(t, "x == 2", entry.Message)
	assert.Equal(t, xEquals2Diagram, entry.Expression)
	assert.Equal(t, "ledger", entry.Component)
	assert.Equal(t, "post", entry.Operation)
	assert.Equal(t, "    assertion=That\n    component=ledger\n    operation=post\n    account_id=42", entry.Details)

	require.Equal(t, 1, logs.Len())
	logged := logs.All()[0]
	assert.Equal(t, zapcore.ErrorLevel, logged.Level)
	assert.Equal(t, "ASSERTION FAILED: x == 2", logged.Message)
	assert.Equal(t, xEquals2Diagram+"\n\n"+entry.Details, logged.ContextMap()[libZap.DiagramKey])
}

func TestAsserter_ThatCarriesHint(t *testing.T) {
	t.Parallel()

	a, _ := newObservedAsserter(withoutStack())

	var entry *AssertionError
	require.ErrorAs(t, a.That(context.Background(), erasedEnum()), &entry)
	assert.Equal(t, "EnumA.Foo != EnumA.Bar", entry.Hint)
	assert.Contains(t, entry.Details, "    hint=EnumA.Foo != EnumA.Bar")
}

func TestAsserter_ThatUnexplainable(t *testing.T) {
	t.Parallel()

	a, _ := newObservedAsserter(withoutStack())

	var entry *AssertionError
	require.ErrorAs(t, a.That(context.Background(), nil), &entry)
	assert.Equal(t, "predicate could not be explained", entry.Message)
	assert.Empty(t, entry.Expression)
	assert.Contains(t, entry.Details, "explain_error=nil predicate")
}

func TestAsserter_Check(t *testing.T) {
	t.Parallel()

	a, _ := newObservedAsserter(withoutStack())
	scope := gosyntax.NewScope().Value("x", 1)

	err := a.Check(context.Background(), "x == 2", scope)
	var entry *AssertionError
	require.ErrorAs(t, err, &entry)
	assert.Equal(t, xEquals2Diagram, entry.Expression)

	require.NoError(t, a.Check(context.Background(), "x == 1", scope))

	err = a.Check(context.Background(), "x ==", scope)
	require.ErrorIs(t, err, gosyntax.ErrSyntax)
	assert.NotErrorIs(t, err, ErrAssertionFailed)
}

func TestAsserter_NoError(t *testing.T) {
	t.Parallel()

	a, _ := newObservedAsserter(withoutStack())

	require.NoError(t, a.NoError(context.Background(), nil, "must not fail"))

	err := a.NoError(context.Background(), errors.New("boom"), "must not fail", "id", 7)

	var entry *AssertionError
	require.ErrorAs(t, err, &entry)
	assert.Equal(t, "NoError", entry.Assertion)
	assert.Contains(t, entry.Details, "    error=boom")
	assert.Contains(t, entry.Details, "    error_type=*errors.errorString")
	assert.Contains(t, entry.Details, "    id=7")
}

func TestAsserter_Never(t *testing.T) {
	t.Parallel()

	a, logs := newObservedAsserter(withoutStack())

	err := a.Never(context.Background(), "unhandled status", "status")
	require.ErrorIs(t, err, ErrAssertionFailed)
	assert.Contains(t, err.Error(), "    status=MISSING_VALUE")
	assert.Equal(t, 1, logs.Len())
}

func TestAsserter_NilReceiver(t *testing.T) {
	t.Parallel()

	var a *Asserter

	err := a.Never(context.Background(), "unreachable")
	require.ErrorIs(t, err, ErrAssertionFailed)

	var entry *AssertionError
	require.ErrorAs(t, err, &entry)
	assert.Empty(t, entry.Component)
}

func TestAsserter_Halt(t *testing.T) {
	t.Parallel()

	a, _ := newObservedAsserter(withoutStack())

	done := make(chan struct{})
	reached := false

	go func() {
		defer close(done)

		a.Halt(a.Never(context.Background(), "stop"))

		reached = true
	}()

	<-done
	assert.False(t, reached)
}

func TestAsserter_TruncatesLongValues(t *testing.T) {
	t.Parallel()

	a, _ := newObservedAsserter(withoutStack())
	long := make([]byte, 300)

	for i := range long {
		long[i] = 'a'
	}

	err := a.Never(context.Background(), "long", "payload", string(long))
	assert.Contains(t, err.Error(), "... (truncated 100 chars)")
}

func TestAsserter_SpanEvent(t *testing.T) {
	t.Parallel()

	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	a, _ := newObservedAsserter(withoutStack())

	ctx, span := provider.Tracer("test").Start(context.Background(), "post")
	require.Error(t, a.That(ctx, erasedEnum()))
	span.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)

	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Equal(t, "assertion failed in ledger/post", spans[0].Status().Description)

	var event *sdktrace.Event

	for i := range spans[0].Events() {
		if spans[0].Events()[i].Name == AssertionSpanEventName {
			event = &spans[0].Events()[i]
		}
	}

	require.NotNil(t, event)

	attrs := attribute.NewSet(event.Attributes...)

	got, ok := attrs.Value(constant.AttrAssertionMessage)
	require.True(t, ok)
	assert.Equal(t, "int(Foo) == two", got.AsString())

	got, ok = attrs.Value(constant.AttrAssertionHint)
	require.True(t, ok)
	assert.Equal(t, "EnumA.Foo != EnumA.Bar", got.AsString())

	got, ok = attrs.Value(constant.AttrAssertionExpression)
	require.True(t, ok)
	assert.Contains(t, got.AsString(), "int(Foo) == two\n")

	_, ok = attrs.Value(constant.AttrAssertionStack)
	assert.False(t, ok)
}

func TestAsserter_Metrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	factory, err := metrics.NewMetricsFactory(provider.Meter("test"), log.NewNop())
	require.NoError(t, err)

	ResetAssertionMetrics()
	InitAssertionMetrics(factory)

	t.Cleanup(func() {
		ResetAssertionMetrics()
		_ = provider.Shutdown(context.Background())
	})

	a, _ := newObservedAsserter(withoutStack())

	require.Error(t, a.That(context.Background(), xEquals2(1)))
	require.Error(t, a.Never(context.Background(), "unreachable"))

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	var failed, explained *metricdata.Metrics

	for _, sm := range rm.ScopeMetrics {
		for i := range sm.Metrics {
			switch sm.Metrics[i].Name {
			case constant.MetricAssertionFailedTotal:
				failed = &sm.Metrics[i]
			case constant.MetricAssertionExplainDuration:
				explained = &sm.Metrics[i]
			}
		}
	}

	require.NotNil(t, failed)
	require.NotNil(t, explained)

	sum, ok := failed.Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, sum.DataPoints, 2, "one series per assertion label")

	for _, dp := range sum.DataPoints {
		assert.Equal(t, int64(1), dp.Value)

		component, _ := dp.Attributes.Value("component")
		assert.Equal(t, "ledger", component.AsString())
	}

	hist, ok := explained.Data.(metricdata.Histogram[int64])
	require.True(t, ok)
	require.Len(t, hist.DataPoints, 1)
	assert.Equal(t, uint64(1), hist.DataPoints[0].Count, "only predicates are explained")
}

func TestAsserter_StackOutsideProduction(t *testing.T) {
	t.Setenv(constant.EnvEnvironment, "")
	t.Setenv(constant.EnvGoEnvironment, "")

	a, logs := newObservedAsserter()
	require.Error(t, a.Never(context.Background(), "unreachable"))
	require.Equal(t, 1, logs.Len())
	assert.Contains(t, logs.All()[0].ContextMap()[libZap.DiagramKey], "stack trace:")

	t.Setenv(constant.EnvEnvironment, "production")

	a, logs = newObservedAsserter()
	require.Error(t, a.Never(context.Background(), "unreachable"))
	require.Equal(t, 1, logs.Len())
	assert.NotContains(t, logs.All()[0].ContextMap()[libZap.DiagramKey], "stack trace:")
}
