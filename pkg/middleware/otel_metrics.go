package middleware

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/hyp3rd/binstat"
	"github.com/hyp3rd/binstat/internal/telemetry/attrs"
	"github.com/hyp3rd/binstat/pkg/stats"
)

// OTelMetricsMiddleware emits OpenTelemetry metrics for service methods.
type OTelMetricsMiddleware struct {
	next  binstat.Service
	meter metric.Meter

	// instruments
	calls     metric.Int64Counter
	durations metric.Float64Histogram
	samples   metric.Int64Counter
}

// NewOTelMetricsMiddleware constructs a metrics middleware using the provided meter.
func NewOTelMetricsMiddleware(next binstat.Service, meter metric.Meter) (binstat.Service, error) {
	calls, err := meter.Int64Counter("binstat.calls")
	if err != nil {
		return nil, fmt.Errorf("create counter: %w", err)
	}

	durations, err := meter.Float64Histogram("binstat.duration.ms")
	if err != nil {
		return nil, fmt.Errorf("create histogram: %w", err)
	}

	samples, err := meter.Int64Counter("binstat.samples")
	if err != nil {
		return nil, fmt.Errorf("create counter: %w", err)
	}

	return &OTelMetricsMiddleware{next: next, meter: meter, calls: calls, durations: durations, samples: samples}, nil
}

// Create implements Service.Create with metrics.
func (mw *OTelMetricsMiddleware) Create(ctx context.Context, name string, edges [][]float64, opts ...binstat.StoreOption) error {
	start := time.Now()
	err := mw.next.Create(ctx, name, edges, opts...)
	mw.rec(ctx, "Create", start, err, attribute.Int(attrs.AttrAxesCount, len(edges)))

	return err
}

// Drop implements Service.Drop with metrics.
func (mw *OTelMetricsMiddleware) Drop(ctx context.Context, name string) error {
	start := time.Now()
	err := mw.next.Drop(ctx, name)
	mw.rec(ctx, "Drop", start, err)

	return err
}

// Names returns the store names.
func (mw *OTelMetricsMiddleware) Names(ctx context.Context) []string { return mw.next.Names(ctx) }

// Observe implements Service.Observe with metrics.
func (mw *OTelMetricsMiddleware) Observe(ctx context.Context, name string, point []float64, value float64) error {
	err := mw.next.Observe(ctx, name, point, value)
	mw.samples.Add(ctx, 1, metric.WithAttributes(
		attribute.String(attrs.AttrStoreName, name),
		attribute.String(attrs.AttrOutcome, outcome(err)),
	))

	return err
}

// ObserveBatch implements Service.ObserveBatch with metrics.
func (mw *OTelMetricsMiddleware) ObserveBatch(ctx context.Context, name string, points [][]float64, values []float64) (int, error) {
	start := time.Now()
	accepted, err := mw.next.ObserveBatch(ctx, name, points, values)
	mw.rec(ctx, "ObserveBatch", start, err, attribute.Int(attrs.AttrRowsCount, len(points)))

	store := attribute.String(attrs.AttrStoreName, name)
	mw.samples.Add(ctx, int64(accepted), metric.WithAttributes(store, attribute.String(attrs.AttrOutcome, "ok")))

	if err == nil {
		mw.samples.Add(ctx, int64(len(points)-accepted), metric.WithAttributes(store, attribute.String(attrs.AttrOutcome, "outside")))
	}

	return accepted, err
}

// Report implements Service.Report with metrics.
func (mw *OTelMetricsMiddleware) Report(ctx context.Context, name string) (binstat.Report, error) {
	start := time.Now()
	report, err := mw.next.Report(ctx, name)
	mw.rec(ctx, "Report", start, err)

	return report, err
}

// Snapshot implements Service.Snapshot with metrics.
func (mw *OTelMetricsMiddleware) Snapshot(ctx context.Context, name string) (*binstat.Snapshot, error) {
	start := time.Now()
	snap, err := mw.next.Snapshot(ctx, name)
	mw.rec(ctx, "Snapshot", start, err)

	return snap, err
}

// Merge implements Service.Merge with metrics.
func (mw *OTelMetricsMiddleware) Merge(ctx context.Context, dst, src string) error {
	start := time.Now()
	err := mw.next.Merge(ctx, dst, src)
	mw.rec(ctx, "Merge", start, err, attribute.String(attrs.AttrSourceName, src))

	return err
}

// Persist implements Service.Persist with metrics.
func (mw *OTelMetricsMiddleware) Persist(ctx context.Context, name string) error {
	start := time.Now()
	err := mw.next.Persist(ctx, name)
	mw.rec(ctx, "Persist", start, err)

	return err
}

// Load implements Service.Load with metrics.
func (mw *OTelMetricsMiddleware) Load(ctx context.Context, name string) error {
	start := time.Now()
	err := mw.next.Load(ctx, name)
	mw.rec(ctx, "Load", start, err)

	return err
}

// Persisted implements Service.Persisted with metrics.
func (mw *OTelMetricsMiddleware) Persisted(ctx context.Context) ([]string, error) {
	start := time.Now()
	names, err := mw.next.Persisted(ctx)
	mw.rec(ctx, "Persisted", start, err)

	return names, err
}

// GetStats returns stats.
func (mw *OTelMetricsMiddleware) GetStats() stats.Stats { return mw.next.GetStats() }

// Stop stops the underlying service.
func (mw *OTelMetricsMiddleware) Stop(ctx context.Context) error { return mw.next.Stop(ctx) }

// rec records call count and duration with attributes.
func (mw *OTelMetricsMiddleware) rec(ctx context.Context, method string, start time.Time, err error, extra ...attribute.KeyValue) {
	base := []attribute.KeyValue{
		attribute.String(attrs.AttrMethod, method),
		attribute.String(attrs.AttrOutcome, outcome(err)),
	}
	if len(extra) > 0 {
		base = append(base, extra...)
	}

	mw.calls.Add(ctx, 1, metric.WithAttributes(base...))
	mw.durations.Record(ctx, float64(time.Since(start).Microseconds())/1000, metric.WithAttributes(base...))
}
