package binstat

import (
	"iter"

	"github.com/hyp3rd/binstat/internal/layout"
	"github.com/hyp3rd/binstat/pkg/grid"
)

// Cell is one bin of a view: its value and whether the bin holds any observation.
type Cell[E any] struct {
	Value E
	Valid bool
}

// View is a read-only window over one per-bin aggregate.
// It shares the store's memory, so it reflects later updates; it never copies
// unless asked to through Filled or Optional.
type View[E any] struct {
	shape   layout.Shape
	data    []E
	present []bool
}

func newView[E any](shape layout.Shape, data []E, present []bool) View[E] {
	return View[E]{shape: shape, data: data, present: present}
}

// Shape returns the number of bins per axis.
func (v View[E]) Shape() []int { return v.shape.Dims() }

// NDim returns the number of axes.
func (v View[E]) NDim() int { return v.shape.NDim() }

// Len returns the number of bins.
func (v View[E]) Len() int { return len(v.data) }

// At returns the value of the bin at index, and false when the bin is absent
// or the index is out of range.
func (v View[E]) At(index ...int) (E, bool) {
	off, err := v.shape.Offset(index)
	if err != nil {
		var zero E

		return zero, false
	}

	return v.AtFlat(off)
}

// AtFlat is At addressed by row-major offset.
func (v View[E]) AtFlat(off int) (E, bool) {
	if off < 0 || off >= len(v.data) || !v.present[off] {
		var zero E

		return zero, false
	}

	return v.data[off], true
}

// Filled copies the view into a row-major slice, writing fill into absent bins.
func (v View[E]) Filled(fill E) []E {
	out := make([]E, len(v.data))
	for i, val := range v.data {
		if v.present[i] {
			out[i] = val
		} else {
			out[i] = fill
		}
	}

	return out
}

// Optional copies the view into a row-major slice of pointers, nil for absent bins.
func (v View[E]) Optional() []*E {
	out := make([]*E, len(v.data))
	for i := range v.data {
		if v.present[i] {
			val := v.data[i]
			out[i] = &val
		}
	}

	return out
}

// All iterates every bin in row-major order.
func (v View[E]) All() iter.Seq2[grid.BinIndex, Cell[E]] {
	return func(yield func(grid.BinIndex, Cell[E]) bool) {
		for off, val := range v.data {
			if !yield(v.shape.Unravel(off), Cell[E]{Value: val, Valid: v.present[off]}) {
				return
			}
		}
	}
}
