package binstat

import (
	"context"

	"github.com/hyp3rd/binstat/pkg/stats"
)

// Service is the service interface over a set of named stores.
// It enables middleware to be added to the service.
type Service interface {
	ingest
	// Create adds an empty store over the grid described by edges (one boundary list per axis).
	Create(ctx context.Context, name string, edges [][]float64, opts ...StoreOption) error
	// Drop removes a store
	Drop(ctx context.Context, name string) error
	// Names returns the store names in ascending order
	Names(ctx context.Context) []string
	// Report returns a copy of every statistic of a store
	Report(ctx context.Context, name string) (Report, error)
	// Snapshot returns a copy of the state of a store
	Snapshot(ctx context.Context, name string) (*Snapshot, error)
	// Merge folds the store named src into the store named dst
	Merge(ctx context.Context, dst, src string) error
	// Persist writes the snapshot of a store to the backend
	Persist(ctx context.Context, name string) error
	// Load replaces (or creates) a store from its snapshot in the backend
	Load(ctx context.Context, name string) error
	// Persisted returns the names of the snapshots held by the backend
	Persisted(ctx context.Context) ([]string, error)
	// GetStats returns the operation counters
	GetStats() stats.Stats
	// Stop persists every store when a backend is configured
	Stop(ctx context.Context) error
}

type ingest interface {
	// Observe folds one sample into a store; a point outside the grid yields ErrBinNotFound
	Observe(ctx context.Context, name string, point []float64, value float64) error
	// ObserveBatch folds rows of points into a store, dropping rows outside the grid, and returns the accepted count
	ObserveBatch(ctx context.Context, name string, points [][]float64, values []float64) (accepted int, err error)
}

// Middleware describes a service middleware.
type Middleware func(Service) Service

// ApplyMiddleware applies middlewares to a service.
func ApplyMiddleware(svc Service, mw ...Middleware) Service {
	// Apply each middleware in the chain
	for _, m := range mw {
		svc = m(svc)
	}
	// Return the decorated service
	return svc
}
