package binstat

import (
	"github.com/hyp3rd/ewrap"
	"golang.org/x/exp/constraints"

	"github.com/hyp3rd/binstat/internal/sentinel"
)

// Merge combines two stores accumulated independently over the same grid into
// a new store. Neither input is modified.
//
// Count and sum are added pointwise, and min and max take the pointwise
// extrema; these are exact and order independent. Mean, variance and standard
// deviation are combined with Chan's pairwise update of the moment
// accumulators. That combination is exact in real arithmetic but rounds
// differently from a single sequential pass over the concatenated samples.
//
// Stores over different grids, or with different ddof, are rejected before
// any bin is touched.
func Merge[T constraints.Float](a, b *Store[T]) (*Store[T], error) {
	if a == nil || b == nil {
		return nil, ewrap.Wrap(sentinel.ErrGridMismatch, "nil store")
	}

	out := a.Clone()

	err := out.MergeFrom(b)
	if err != nil {
		return nil, err
	}

	return out, nil
}

// MergeFrom folds other into s. It is all-or-nothing: on error s is unchanged.
func (s *Store[T]) MergeFrom(other *Store[T]) error {
	err := s.compatible(other)
	if err != nil {
		return err
	}

	// every bin is merged into scratch space first so a failure can't leave s half merged
	merged := s.Clone()

	for off, ok := range other.present {
		if !ok {
			continue
		}

		err = merged.combine(off, other, off)
		if err != nil {
			return ewrap.Wrapf(err, "bin %v", s.shape.Unravel(off))
		}
	}

	*s = *merged

	return nil
}

func (s *Store[T]) compatible(other *Store[T]) error {
	if other == nil || !s.grid.Equal(other.grid) {
		return sentinel.ErrGridMismatch
	}

	if !s.shape.Equal(other.shape) {
		return ewrap.Wrap(sentinel.ErrGridMismatch, "shape")
	}

	if s.ddof != other.ddof {
		return ewrap.Wrapf(sentinel.ErrDDOFMismatch, "%d != %d", s.ddof, other.ddof)
	}

	return nil
}

// combine folds bin src of other into bin dst of s.
func (s *Store[T]) combine(dst int, other *Store[T], src int) error {
	if !s.present[dst] {
		s.copyCell(dst, other, src)

		return nil
	}

	na, nb := s.counts[dst], other.counts[src]
	n := na + nb

	delta := other.m1[src] - s.m1[dst]
	m1 := s.m1[dst] + delta*T(nb)/T(n)
	m2 := s.m2[dst] + other.m2[src] + delta*delta*T(na)*T(nb)/T(n)

	variance, stddev, err := moments(m2, n, s.ddof)
	if err != nil {
		return err
	}

	s.counts[dst] = n
	s.sum[dst] += other.sum[src]
	s.m1[dst] = m1
	s.m2[dst] = m2
	s.mean[dst] = m1
	s.variance[dst] = variance
	s.stddev[dst] = stddev
	s.min[dst] = min(s.min[dst], other.min[src])
	s.max[dst] = max(s.max[dst], other.max[src])

	return nil
}

func (s *Store[T]) copyCell(dst int, other *Store[T], src int) {
	s.present[dst] = true
	s.counts[dst] = other.counts[src]
	s.sum[dst] = other.sum[src]
	s.m1[dst] = other.m1[src]
	s.m2[dst] = other.m2[src]
	s.mean[dst] = other.mean[src]
	s.variance[dst] = other.variance[src]
	s.stddev[dst] = other.stddev[src]
	s.min[dst] = other.min[src]
	s.max[dst] = other.max[src]
}
