// Package middleware provides various middleware implementations for the binstat service.
// This package includes logging middleware that wraps the service to provide
// execution time logging and method call tracing for debugging and monitoring purposes,
// and OpenTelemetry metrics and tracing middlewares.
package middleware

import (
	"context"
	"time"

	"github.com/hyp3rd/binstat"
	"github.com/hyp3rd/binstat/pkg/stats"
)

// LoggingMiddleware is a middleware that logs the time it takes to execute the next middleware.
// Must implement the binstat.Service interface.
type LoggingMiddleware struct {
	next   binstat.Service
	logger binstat.Logger
}

// NewLoggingMiddleware returns a new LoggingMiddleware.
func NewLoggingMiddleware(next binstat.Service, logger binstat.Logger) binstat.Service {
	return &LoggingMiddleware{next: next, logger: logger}
}

func (mw LoggingMiddleware) took(method string, begin time.Time, err error) {
	if err != nil {
		mw.logger.Printf("method %s took: %s, error: %v", method, time.Since(begin), err)

		return
	}

	mw.logger.Printf("method %s took: %s", method, time.Since(begin))
}

// Create logs the time it takes to execute the next middleware.
func (mw LoggingMiddleware) Create(ctx context.Context, name string, edges [][]float64, opts ...binstat.StoreOption) (err error) {
	defer func(begin time.Time) { mw.took("Create", begin, err) }(time.Now())

	mw.logger.Printf("Create method invoked with name: %s axes: %d", name, len(edges))

	return mw.next.Create(ctx, name, edges, opts...)
}

// Drop logs the time it takes to execute the next middleware.
func (mw LoggingMiddleware) Drop(ctx context.Context, name string) (err error) {
	defer func(begin time.Time) { mw.took("Drop", begin, err) }(time.Now())

	mw.logger.Printf("Drop method invoked with name: %s", name)

	return mw.next.Drop(ctx, name)
}

// Names returns the store names.
func (mw LoggingMiddleware) Names(ctx context.Context) []string {
	return mw.next.Names(ctx)
}

// Observe logs the time it takes to execute the next middleware.
// Only unexpected failures are logged; points outside the grid stay quiet.
func (mw LoggingMiddleware) Observe(ctx context.Context, name string, point []float64, value float64) error {
	begin := time.Now()
	err := mw.next.Observe(ctx, name, point, value)

	if err != nil && !binstat.IsBinNotFound(err) {
		mw.took("Observe", begin, err)
	}

	return err
}

// ObserveBatch logs the time it takes to execute the next middleware.
func (mw LoggingMiddleware) ObserveBatch(ctx context.Context, name string, points [][]float64, values []float64) (accepted int, err error) {
	defer func(begin time.Time) { mw.took("ObserveBatch", begin, err) }(time.Now())

	mw.logger.Printf("ObserveBatch method invoked with name: %s rows: %d", name, len(points))

	return mw.next.ObserveBatch(ctx, name, points, values)
}

// Report logs the time it takes to execute the next middleware.
func (mw LoggingMiddleware) Report(ctx context.Context, name string) (report binstat.Report, err error) {
	defer func(begin time.Time) { mw.took("Report", begin, err) }(time.Now())

	return mw.next.Report(ctx, name)
}

// Snapshot logs the time it takes to execute the next middleware.
func (mw LoggingMiddleware) Snapshot(ctx context.Context, name string) (snap *binstat.Snapshot, err error) {
	defer func(begin time.Time) { mw.took("Snapshot", begin, err) }(time.Now())

	return mw.next.Snapshot(ctx, name)
}

// Merge logs the time it takes to execute the next middleware.
func (mw LoggingMiddleware) Merge(ctx context.Context, dst, src string) (err error) {
	defer func(begin time.Time) { mw.took("Merge", begin, err) }(time.Now())

	mw.logger.Printf("Merge method invoked with dst: %s src: %s", dst, src)

	return mw.next.Merge(ctx, dst, src)
}

// Persist logs the time it takes to execute the next middleware.
func (mw LoggingMiddleware) Persist(ctx context.Context, name string) (err error) {
	defer func(begin time.Time) { mw.took("Persist", begin, err) }(time.Now())

	mw.logger.Printf("Persist method invoked with name: %s", name)

	return mw.next.Persist(ctx, name)
}

// Load logs the time it takes to execute the next middleware.
func (mw LoggingMiddleware) Load(ctx context.Context, name string) (err error) {
	defer func(begin time.Time) { mw.took("Load", begin, err) }(time.Now())

	mw.logger.Printf("Load method invoked with name: %s", name)

	return mw.next.Load(ctx, name)
}

// Persisted logs the time it takes to execute the next middleware.
func (mw LoggingMiddleware) Persisted(ctx context.Context) (names []string, err error) {
	defer func(begin time.Time) { mw.took("Persisted", begin, err) }(time.Now())

	return mw.next.Persisted(ctx)
}

// GetStats returns the operation counters.
func (mw LoggingMiddleware) GetStats() stats.Stats {
	return mw.next.GetStats()
}

// Stop logs the time it takes to execute the next middleware.
func (mw LoggingMiddleware) Stop(ctx context.Context) (err error) {
	defer func(begin time.Time) { mw.took("Stop", begin, err) }(time.Now())

	mw.logger.Printf("Stop method invoked")

	return mw.next.Stop(ctx)
}
