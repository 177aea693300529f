package binstat

import (
	"errors"
	"math"

	"github.com/hyp3rd/ewrap"
	"golang.org/x/exp/constraints"

	"github.com/hyp3rd/binstat/internal/sentinel"
	"github.com/hyp3rd/binstat/pkg/grid"
)

// Snapshot is the serializable state of a Store.
//
// Only the accumulators are kept; mean, variance and standard deviation are
// derived again on Restore. Slices are row-major and shaped like the grid.
type Snapshot struct {
	Edges   [][]float64 `json:"edges"   msgpack:"edges"`
	DDOF    uint        `json:"ddof"    msgpack:"ddof"`
	Present []bool      `json:"present" msgpack:"present"`
	Counts  []uint64    `json:"counts"  msgpack:"counts"`
	Sum     []float64   `json:"sum"     msgpack:"sum"`
	M1      []float64   `json:"m1"      msgpack:"m1"`
	M2      []float64   `json:"m2"      msgpack:"m2"`
	Min     []float64   `json:"min"     msgpack:"min"`
	Max     []float64   `json:"max"     msgpack:"max"`
}

// edgeSource is implemented by grids that can be rebuilt from their edges.
type edgeSource interface {
	EdgeSets() [][]float64
}

// Snapshot copies the store's state. The grid must expose its edges
// (grid.Rectilinear does).
func (s *Store[T]) Snapshot() (*Snapshot, error) {
	src, ok := s.grid.(edgeSource)
	if !ok {
		return nil, ewrap.Newf("grid %T cannot be snapshotted", s.grid)
	}

	return &Snapshot{
		Edges:   src.EdgeSets(),
		DDOF:    s.ddof,
		Present: append([]bool(nil), s.present...),
		Counts:  append([]uint64(nil), s.counts...),
		Sum:     toFloat64(s.sum),
		M1:      toFloat64(s.m1),
		M2:      toFloat64(s.m2),
		Min:     toFloat64(s.min),
		Max:     toFloat64(s.max),
	}, nil
}

// Restore rebuilds a store from a snapshot, checking every store invariant.
func Restore[T constraints.Float](snap *Snapshot) (*Store[T], error) {
	if snap == nil {
		return nil, ewrap.Wrap(sentinel.ErrCorruptSnapshot, "nil snapshot")
	}

	g, err := grid.FromEdges(snap.Edges...)
	if err != nil {
		return nil, ewrap.Wrap(errors.Join(sentinel.ErrCorruptSnapshot, err), "edges")
	}

	store := New[T](g, WithDDOF(snap.DDOF))
	size := store.Len()

	for name, n := range map[string]int{
		"present": len(snap.Present),
		"counts":  len(snap.Counts),
		"sum":     len(snap.Sum),
		"m1":      len(snap.M1),
		"m2":      len(snap.M2),
		"min":     len(snap.Min),
		"max":     len(snap.Max),
	} {
		if n != size {
			return nil, ewrap.Wrapf(sentinel.ErrCorruptSnapshot, "%s has %d bins, grid has %d", name, n, size)
		}
	}

	for off := range size {
		err = store.restoreCell(off, snap)
		if err != nil {
			return nil, ewrap.Wrapf(errors.Join(sentinel.ErrCorruptSnapshot, err), "bin %v", store.shape.Unravel(off))
		}
	}

	return store, nil
}

func (s *Store[T]) restoreCell(off int, snap *Snapshot) error {
	if !snap.Present[off] {
		if snap.Counts[off] != 0 || snap.Sum[off] != 0 || snap.M1[off] != 0 || snap.M2[off] != 0 ||
			snap.Min[off] != 0 || snap.Max[off] != 0 {
			return ewrap.New("absent bin holds data")
		}

		return nil
	}

	for _, v := range []float64{snap.Sum[off], snap.M1[off], snap.M2[off], snap.Min[off], snap.Max[off]} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return ewrap.New("non-finite accumulator")
		}
	}

	switch {
	case snap.Counts[off] == 0:
		return ewrap.New("present bin has no observations")
	case snap.M2[off] < 0:
		return sentinel.ErrNegativeVariance
	case snap.Min[off] > snap.Max[off]:
		return ewrap.New("min exceeds max")
	}

	m2 := T(snap.M2[off])

	variance, stddev, err := moments(m2, snap.Counts[off], s.ddof)
	if err != nil {
		return err
	}

	s.present[off] = true
	s.counts[off] = snap.Counts[off]
	s.sum[off] = T(snap.Sum[off])
	s.m1[off] = T(snap.M1[off])
	s.m2[off] = m2
	s.mean[off] = s.m1[off]
	s.variance[off] = variance
	s.stddev[off] = stddev
	s.min[off] = T(snap.Min[off])
	s.max[off] = T(snap.Max[off])

	return nil
}

func toFloat64[T constraints.Float](in []T) []float64 {
	out := make([]float64, len(in))
	for i, v := range in {
		out[i] = float64(v)
	}

	return out
}
