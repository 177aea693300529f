package binstat

import (
	"errors"

	"github.com/hyp3rd/ewrap"
	"golang.org/x/exp/constraints"
	"gonum.org/v1/gonum/mat"

	"github.com/hyp3rd/binstat/internal/sentinel"
	"github.com/hyp3rd/binstat/pkg/grid"
)

// FromSamples builds a store from a matrix of points and their values.
//
// Each row of samples is one point and each column one grid axis; values[i]
// belongs to row i. Rows outside the grid are dropped silently. Any other
// failure aborts the build and is returned.
func FromSamples[T constraints.Float](g grid.Grid, samples mat.Matrix, values []T, opts ...StoreOption) (*Store[T], error) {
	if g == nil {
		return nil, sentinel.ErrNilGrid
	}

	store := New[T](g, opts...)

	_, err := store.AddSamples(samples, values)
	if err != nil {
		return nil, err
	}

	return store, nil
}

// AddSamples applies AddSample to every row of samples in order and returns
// how many rows landed in a bin. Out-of-domain rows are skipped. The first
// other error stops the run; rows before it stay applied.
func (s *Store[T]) AddSamples(samples mat.Matrix, values []T) (int, error) {
	rows, cols := samples.Dims()
	if cols != s.shape.NDim() {
		return 0, ewrap.Wrapf(sentinel.ErrDimensionMismatch, "samples have %d columns, grid has %d axes", cols, s.shape.NDim())
	}

	if rows != len(values) {
		return 0, ewrap.Wrapf(sentinel.ErrLengthMismatch, "%d samples, %d values", rows, len(values))
	}

	accepted := 0
	point := make([]float64, cols)

	for i := range rows {
		mat.Row(point, i, samples)

		err := s.AddSample(point, values[i])
		if errors.Is(err, sentinel.ErrBinNotFound) {
			continue
		}

		if err != nil {
			return accepted, ewrap.Wrapf(err, "row %d", i)
		}

		accepted++
	}

	return accepted, nil
}
