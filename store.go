// Package binstat maintains per-bin running statistics over a stream of
// multidimensional samples.
//
// A Store is laid over a grid.Grid and keeps, for every bin, the count, sum,
// mean, variance, standard deviation, minimum and maximum of the values that
// landed in it. Every sample is folded in with Welford's one-pass update, so
// no sample is retained and long streams stay numerically stable. Bins that
// never received a sample are absent rather than zero.
//
// A Store has a single writer and no internal locking. Independently
// accumulated stores over the same grid can be combined with Merge; the
// Registry type wraps named stores for concurrent use.
package binstat

import (
	"golang.org/x/exp/constraints"

	"github.com/hyp3rd/binstat/internal/layout"
	"github.com/hyp3rd/binstat/pkg/grid"
)

// Store holds the per-bin aggregates of one (grid, value type, ddof) combination.
//
// Every aggregate lives in a flat row-major slice shaped like the grid. One
// presence bitmap marks the bins that received at least one sample; the
// count, sum, mean, variance, standard deviation, min and max of a bin are
// present or absent together.
type Store[T constraints.Float] struct {
	grid  grid.Grid
	shape layout.Shape
	ddof  uint

	present  []bool
	counts   []uint64
	sum      []T
	m1       []T // running mean
	m2       []T // running sum of squared deviations
	mean     []T
	variance []T
	stddev   []T
	min      []T
	max      []T
}

// StoreOption configures a Store at construction.
type StoreOption func(*storeConfig)

type storeConfig struct {
	ddof uint
}

// WithDDOF sets the degrees-of-freedom adjustment subtracted from the count
// before dividing the second moment. It defaults to 0 (population variance);
// use 1 for the unbiased sample variance.
func WithDDOF(ddof uint) StoreOption {
	return func(cfg *storeConfig) {
		cfg.ddof = ddof
	}
}

// New allocates a store over g with every bin absent.
// The grid is trusted to report a valid, non-empty shape.
func New[T constraints.Float](g grid.Grid, opts ...StoreOption) *Store[T] {
	cfg := storeConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	shape := layout.New(g.Shape())
	size := shape.Size()

	return &Store[T]{
		grid:     g,
		shape:    shape,
		ddof:     cfg.ddof,
		present:  make([]bool, size),
		counts:   make([]uint64, size),
		sum:      make([]T, size),
		m1:       make([]T, size),
		m2:       make([]T, size),
		mean:     make([]T, size),
		variance: make([]T, size),
		stddev:   make([]T, size),
		min:      make([]T, size),
		max:      make([]T, size),
	}
}

// NDim returns the dimensionality of the space the store covers.
// It always equals the grid's.
func (s *Store[T]) NDim() int { return s.shape.NDim() }

// Shape returns the number of bins per axis.
func (s *Store[T]) Shape() []int { return s.shape.Dims() }

// Len returns the total number of bins.
func (s *Store[T]) Len() int { return s.shape.Size() }

// DDOF returns the degrees-of-freedom adjustment fixed at construction.
func (s *Store[T]) DDOF() uint { return s.ddof }

// Grid returns the partition the store is laid over. Grids are immutable.
func (s *Store[T]) Grid() grid.Grid { return s.grid }

// Total returns the number of accepted samples across all bins.
func (s *Store[T]) Total() uint64 {
	var total uint64
	for _, c := range s.counts {
		total += c
	}

	return total
}

// Counts returns a read-only view of the per-bin sample counts.
// This is the plain histogram of the accepted points.
func (s *Store[T]) Counts() View[uint64] { return newView(s.shape, s.counts, s.present) }

// Sum returns a read-only view of the per-bin sums.
func (s *Store[T]) Sum() View[T] { return newView(s.shape, s.sum, s.present) }

// Mean returns a read-only view of the per-bin means.
func (s *Store[T]) Mean() View[T] { return newView(s.shape, s.mean, s.present) }

// Variance returns a read-only view of the per-bin variances.
func (s *Store[T]) Variance() View[T] { return newView(s.shape, s.variance, s.present) }

// StandardDeviation returns a read-only view of the per-bin standard deviations.
func (s *Store[T]) StandardDeviation() View[T] { return newView(s.shape, s.stddev, s.present) }

// Min returns a read-only view of the per-bin minima.
func (s *Store[T]) Min() View[T] { return newView(s.shape, s.min, s.present) }

// Max returns a read-only view of the per-bin maxima.
func (s *Store[T]) Max() View[T] { return newView(s.shape, s.max, s.present) }

// Clone returns a deep copy sharing only the immutable grid.
func (s *Store[T]) Clone() *Store[T] {
	return &Store[T]{
		grid:     s.grid,
		shape:    s.shape,
		ddof:     s.ddof,
		present:  append([]bool(nil), s.present...),
		counts:   append([]uint64(nil), s.counts...),
		sum:      append([]T(nil), s.sum...),
		m1:       append([]T(nil), s.m1...),
		m2:       append([]T(nil), s.m2...),
		mean:     append([]T(nil), s.mean...),
		variance: append([]T(nil), s.variance...),
		stddev:   append([]T(nil), s.stddev...),
		min:      append([]T(nil), s.min...),
		max:      append([]T(nil), s.max...),
	}
}
