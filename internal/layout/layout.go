// Package layout maps multidimensional bin indices onto flat row-major buffers.
package layout

import "github.com/hyp3rd/binstat/internal/sentinel"

// Shape is the per-axis extent of a dense array together with its row-major strides.
type Shape struct {
	dims    []int
	strides []int
	size    int
}

// New builds a Shape from per-axis extents. Extents are copied.
func New(dims []int) Shape {
	shape := Shape{
		dims:    make([]int, len(dims)),
		strides: make([]int, len(dims)),
		size:    1,
	}

	copy(shape.dims, dims)

	for axis := len(dims) - 1; axis >= 0; axis-- {
		shape.strides[axis] = shape.size
		shape.size *= dims[axis]
	}

	return shape
}

// Dims returns a copy of the per-axis extents.
func (s Shape) Dims() []int {
	out := make([]int, len(s.dims))
	copy(out, s.dims)

	return out
}

// NDim returns the number of axes.
func (s Shape) NDim() int { return len(s.dims) }

// Size returns the number of cells.
func (s Shape) Size() int { return s.size }

// Equal reports whether two shapes have the same extents.
func (s Shape) Equal(other Shape) bool {
	if len(s.dims) != len(other.dims) {
		return false
	}

	for i, d := range s.dims {
		if other.dims[i] != d {
			return false
		}
	}

	return true
}

// Offset converts a per-axis index into a flat offset, bounds-checking every axis.
func (s Shape) Offset(index []int) (int, error) {
	if len(index) != len(s.dims) {
		return 0, sentinel.ErrDimensionMismatch
	}

	off := 0

	for axis, i := range index {
		if i < 0 || i >= s.dims[axis] {
			return 0, sentinel.ErrIndexOutOfRange
		}

		off += i * s.strides[axis]
	}

	return off, nil
}

// Unravel converts a flat offset back into a per-axis index.
func (s Shape) Unravel(off int) []int {
	index := make([]int, len(s.dims))
	for axis, stride := range s.strides {
		index[axis] = off / stride
		off %= stride
	}

	return index
}
