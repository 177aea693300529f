package binstat

import (
	"math"

	"github.com/hyp3rd/ewrap"
	"golang.org/x/exp/constraints"

	"github.com/hyp3rd/binstat/internal/sentinel"
	"github.com/hyp3rd/binstat/pkg/grid"
)

// AddSample folds value into the bin containing point.
//
// The point must carry one coordinate per grid axis. A point outside the grid
// yields ErrBinNotFound. Every error leaves the store exactly as it was: the
// new cell values are computed first and written only once all checks pass.
func (s *Store[T]) AddSample(point []float64, value T) error {
	if len(point) != s.shape.NDim() {
		return ewrap.Wrapf(sentinel.ErrDimensionMismatch, "point has %d coordinates, grid has %d axes", len(point), s.shape.NDim())
	}

	index, ok := s.grid.IndexOf(point)
	if !ok {
		return sentinel.ErrBinNotFound
	}

	return s.AddSampleAt(index, value)
}

// AddSampleAt folds value into an already resolved bin.
func (s *Store[T]) AddSampleAt(index grid.BinIndex, value T) error {
	off, err := s.shape.Offset(index)
	if err != nil {
		return ewrap.Wrapf(err, "bin %v", []int(index))
	}

	return s.update(off, value)
}

func (s *Store[T]) update(off int, value T) error {
	if !finite(value) {
		return ewrap.Wrapf(sentinel.ErrInvalidValue, "value %v", value)
	}

	n1 := s.counts[off]
	n := n1 + 1

	delta := value - s.m1[off]
	deltaN := delta / T(n)
	term1 := delta * deltaN * T(n1)

	m1 := s.m1[off] + deltaN
	m2 := s.m2[off] + term1

	variance, stddev, err := moments(m2, n, s.ddof)
	if err != nil {
		return ewrap.Wrapf(err, "bin %v", s.shape.Unravel(off))
	}

	sum, lo, hi := value, value, value
	if s.present[off] {
		sum = s.sum[off] + value
		lo = min(s.min[off], value)
		hi = max(s.max[off], value)
	}

	s.present[off] = true
	s.counts[off] = n
	s.m1[off] = m1
	s.m2[off] = m2
	s.mean[off] = m1
	s.variance[off] = variance
	s.stddev[off] = stddev
	s.sum[off] = sum
	s.min[off] = lo
	s.max[off] = hi

	return nil
}

// moments derives variance and standard deviation from the second moment of n
// observations. dof == 0 yields exactly zero.
func moments[T constraints.Float](m2 T, n uint64, ddof uint) (variance, stddev T, err error) {
	dof := int64(n) - int64(ddof)

	switch {
	case dof < 0:
		return 0, 0, ewrap.Wrapf(sentinel.ErrInvalidDegreesOfFreedom, "%d observations, ddof %d", n, ddof)
	case dof == 0:
		variance = 0
	default:
		variance = m2 / T(dof)
	}

	if variance < 0 {
		return 0, 0, ewrap.Wrapf(sentinel.ErrNegativeVariance, "variance %v", variance)
	}

	return variance, T(math.Sqrt(float64(variance))), nil
}

func finite[T constraints.Float](v T) bool {
	f := float64(v)

	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
