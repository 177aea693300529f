package middleware

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/longbridgeapp/assert"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/hyp3rd/binstat"
	"github.com/hyp3rd/binstat/internal/telemetry/attrs"
)

var edges = [][]float64{{-1, 0, 1}, {-1, 0, 1}}

type recordingLogger struct {
	mu    sync.Mutex
	lines []string
}

func (l *recordingLogger) Printf(format string, v ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.lines = append(l.lines, fmt.Sprintf(format, v...))
}

func (l *recordingLogger) contains(substr string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, line := range l.lines {
		if strings.Contains(line, substr) {
			return true
		}
	}

	return false
}

func newService(t *testing.T) binstat.Service {
	t.Helper()

	r, err := binstat.NewRegistry()
	assert.NoError(t, err)

	return r
}

func exercise(t *testing.T, svc binstat.Service) {
	t.Helper()

	ctx := context.Background()

	assert.NoError(t, svc.Create(ctx, "a", edges))
	assert.NoError(t, svc.Create(ctx, "b", edges))
	assert.NoError(t, svc.Observe(ctx, "a", []float64{0.5, 0.5}, 1))
	assert.True(t, binstat.IsBinNotFound(svc.Observe(ctx, "a", []float64{5, 5}, 1)))

	accepted, err := svc.ObserveBatch(ctx, "b", [][]float64{{0.5, 0.5}, {7, 7}}, []float64{2, 3})
	assert.NoError(t, err)
	assert.Equal(t, 1, accepted)

	assert.NoError(t, svc.Merge(ctx, "a", "b"))

	report, err := svc.Report(ctx, "a")
	assert.NoError(t, err)
	assert.Equal(t, uint64(2), report.Total)

	_, err = svc.Snapshot(ctx, "a")
	assert.NoError(t, err)

	assert.True(t, svc.Persist(ctx, "a") != nil)
	assert.True(t, svc.Load(ctx, "a") != nil)

	_, err = svc.Persisted(ctx)
	assert.True(t, errors.Is(err, binstat.ErrBackendNotFound))

	assert.True(t, svc.Drop(ctx, "missing") != nil)
	assert.NoError(t, svc.Drop(ctx, "b"))
	assert.Equal(t, []string{"a"}, svc.Names(ctx))
	assert.Equal(t, uint64(2), svc.GetStats().SamplesAccepted)
	assert.NoError(t, svc.Stop(ctx))
}

func TestLoggingMiddleware(t *testing.T) {
	logger := &recordingLogger{}
	svc := binstat.ApplyMiddleware(newService(t), func(next binstat.Service) binstat.Service {
		return NewLoggingMiddleware(next, logger)
	})

	exercise(t, svc)

	assert.True(t, logger.contains("Create method invoked with name: a axes: 2"))
	assert.True(t, logger.contains("method Merge took"))
	assert.True(t, logger.contains("method Drop took"))
	assert.True(t, logger.contains("store not found"))
	assert.False(t, logger.contains("method Observe took"))
}

func TestOTelMetricsMiddleware(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	svc, err := NewOTelMetricsMiddleware(newService(t), provider.Meter("test"))
	assert.NoError(t, err)

	exercise(t, svc)

	var rm metricdata.ResourceMetrics
	assert.NoError(t, reader.Collect(context.Background(), &rm))

	samples := map[string]int64{}
	calls := map[string]int64{}

	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				continue
			}

			for _, dp := range sum.DataPoints {
				switch m.Name {
				case "binstat.samples":
					o, _ := dp.Attributes.Value(attribute.Key(attrs.AttrOutcome))
					samples[o.AsString()] += dp.Value
				case "binstat.calls":
					method, _ := dp.Attributes.Value(attribute.Key(attrs.AttrMethod))
					calls[method.AsString()] += dp.Value
				}
			}
		}
	}

	assert.Equal(t, int64(2), samples["ok"])
	assert.Equal(t, int64(2), samples["outside"])
	assert.Equal(t, int64(2), calls["Create"])
	assert.Equal(t, int64(1), calls["Merge"])
	assert.Equal(t, int64(2), calls["Drop"])
}

func TestOTelTracingMiddleware(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	svc := NewOTelTracingMiddleware(newService(t), provider.Tracer("test"),
		WithCommonAttributes(attribute.String("component", "binstat")))

	exercise(t, svc)

	byName := map[string][]sdktrace.ReadOnlySpan{}
	for _, span := range recorder.Ended() {
		byName[span.Name()] = append(byName[span.Name()], span)
	}

	assert.Equal(t, 2, len(byName["binstat.Create"]))
	assert.Equal(t, 2, len(byName["binstat.Observe"]))
	assert.Equal(t, 1, len(byName["binstat.Merge"]))

	// a point outside the grid is not a failure
	for _, span := range byName["binstat.Observe"] {
		assert.True(t, span.Status().Code != codes.Error)
	}

	persist := byName["binstat.Persist"][0]
	assert.Equal(t, codes.Error, persist.Status().Code)

	hasComponent := false

	for _, kv := range persist.Attributes() {
		if kv.Key == "component" && kv.Value.AsString() == "binstat" {
			hasComponent = true
		}
	}

	assert.True(t, hasComponent)
}
