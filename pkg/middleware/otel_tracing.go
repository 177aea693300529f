package middleware

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/hyp3rd/binstat"
	"github.com/hyp3rd/binstat/internal/telemetry/attrs"
	"github.com/hyp3rd/binstat/pkg/stats"
)

// OTelTracingMiddleware wraps binstat.Service methods with OpenTelemetry spans.
type OTelTracingMiddleware struct {
	next   binstat.Service
	tracer trace.Tracer
	// static attributes applied to all spans
	commonAttrs []attribute.KeyValue
}

// OTelTracingOption allows configuring the tracing middleware.
type OTelTracingOption func(*OTelTracingMiddleware)

// WithCommonAttributes sets attributes applied to all spans.
func WithCommonAttributes(attributes ...attribute.KeyValue) OTelTracingOption {
	return func(m *OTelTracingMiddleware) { m.commonAttrs = append(m.commonAttrs, attributes...) }
}

// NewOTelTracingMiddleware creates a tracing middleware.
func NewOTelTracingMiddleware(next binstat.Service, tracer trace.Tracer, opts ...OTelTracingOption) binstat.Service {
	mw := &OTelTracingMiddleware{next: next, tracer: tracer}
	for _, o := range opts {
		o(mw)
	}

	return mw
}

// Create implements Service.Create with tracing.
func (mw OTelTracingMiddleware) Create(ctx context.Context, name string, edges [][]float64, opts ...binstat.StoreOption) error {
	ctx, span := mw.startSpan(ctx, "binstat.Create",
		attribute.String(attrs.AttrStoreName, name),
		attribute.Int(attrs.AttrAxesCount, len(edges)))
	defer span.End()

	err := mw.next.Create(ctx, name, edges, opts...)
	recordErr(span, err)

	return err
}

// Drop implements Service.Drop with tracing.
func (mw OTelTracingMiddleware) Drop(ctx context.Context, name string) error {
	ctx, span := mw.startSpan(ctx, "binstat.Drop", attribute.String(attrs.AttrStoreName, name))
	defer span.End()

	err := mw.next.Drop(ctx, name)
	recordErr(span, err)

	return err
}

// Names returns the store names.
func (mw OTelTracingMiddleware) Names(ctx context.Context) []string { return mw.next.Names(ctx) }

// Observe implements Service.Observe with tracing.
//
// Points outside the grid are tagged on the span but not recorded as errors.
func (mw OTelTracingMiddleware) Observe(ctx context.Context, name string, point []float64, value float64) error {
	ctx, span := mw.startSpan(ctx, "binstat.Observe", attribute.String(attrs.AttrStoreName, name))
	defer span.End()

	err := mw.next.Observe(ctx, name, point, value)
	span.SetAttributes(attribute.String(attrs.AttrOutcome, outcome(err)))

	if !binstat.IsBinNotFound(err) {
		recordErr(span, err)
	}

	return err
}

// ObserveBatch implements Service.ObserveBatch with tracing.
func (mw OTelTracingMiddleware) ObserveBatch(ctx context.Context, name string, points [][]float64, values []float64) (int, error) {
	ctx, span := mw.startSpan(ctx, "binstat.ObserveBatch",
		attribute.String(attrs.AttrStoreName, name),
		attribute.Int(attrs.AttrRowsCount, len(points)))
	defer span.End()

	accepted, err := mw.next.ObserveBatch(ctx, name, points, values)
	span.SetAttributes(attribute.Int(attrs.AttrAcceptedCount, accepted))
	recordErr(span, err)

	return accepted, err
}

// Report implements Service.Report with tracing.
func (mw OTelTracingMiddleware) Report(ctx context.Context, name string) (binstat.Report, error) {
	ctx, span := mw.startSpan(ctx, "binstat.Report", attribute.String(attrs.AttrStoreName, name))
	defer span.End()

	report, err := mw.next.Report(ctx, name)
	recordErr(span, err)

	return report, err
}

// Snapshot implements Service.Snapshot with tracing.
func (mw OTelTracingMiddleware) Snapshot(ctx context.Context, name string) (*binstat.Snapshot, error) {
	ctx, span := mw.startSpan(ctx, "binstat.Snapshot", attribute.String(attrs.AttrStoreName, name))
	defer span.End()

	snap, err := mw.next.Snapshot(ctx, name)
	recordErr(span, err)

	return snap, err
}

// Merge implements Service.Merge with tracing.
func (mw OTelTracingMiddleware) Merge(ctx context.Context, dst, src string) error {
	ctx, span := mw.startSpan(ctx, "binstat.Merge",
		attribute.String(attrs.AttrStoreName, dst),
		attribute.String(attrs.AttrSourceName, src))
	defer span.End()

	err := mw.next.Merge(ctx, dst, src)
	recordErr(span, err)

	return err
}

// Persist implements Service.Persist with tracing.
func (mw OTelTracingMiddleware) Persist(ctx context.Context, name string) error {
	ctx, span := mw.startSpan(ctx, "binstat.Persist", attribute.String(attrs.AttrStoreName, name))
	defer span.End()

	err := mw.next.Persist(ctx, name)
	recordErr(span, err)

	return err
}

// Load implements Service.Load with tracing.
func (mw OTelTracingMiddleware) Load(ctx context.Context, name string) error {
	ctx, span := mw.startSpan(ctx, "binstat.Load", attribute.String(attrs.AttrStoreName, name))
	defer span.End()

	err := mw.next.Load(ctx, name)
	recordErr(span, err)

	return err
}

// Persisted implements Service.Persisted with tracing.
func (mw OTelTracingMiddleware) Persisted(ctx context.Context) ([]string, error) {
	ctx, span := mw.startSpan(ctx, "binstat.Persisted")
	defer span.End()

	names, err := mw.next.Persisted(ctx)
	recordErr(span, err)

	return names, err
}

// Stop stops the service with a span.
func (mw OTelTracingMiddleware) Stop(ctx context.Context) error {
	ctx, span := mw.startSpan(ctx, "binstat.Stop")
	defer span.End()

	err := mw.next.Stop(ctx)
	recordErr(span, err)

	return err
}

// GetStats returns stats.
func (mw OTelTracingMiddleware) GetStats() stats.Stats { return mw.next.GetStats() }

// startSpan starts a span with common and provided attributes.
func (mw OTelTracingMiddleware) startSpan(ctx context.Context, name string, attributes ...attribute.KeyValue) (context.Context, trace.Span) {
	ctx, span := mw.tracer.Start(ctx, name, trace.WithSpanKind(trace.SpanKindInternal))
	if len(mw.commonAttrs) > 0 {
		span.SetAttributes(mw.commonAttrs...)
	}

	if len(attributes) > 0 {
		span.SetAttributes(attributes...)
	}

	return ctx, span
}

func recordErr(span trace.Span, err error) {
	if err == nil {
		return
	}

	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
