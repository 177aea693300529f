package layout

import (
	"errors"
	"testing"

	"github.com/longbridgeapp/assert"

	"github.com/hyp3rd/binstat/internal/sentinel"
)

func TestShape_RowMajor(t *testing.T) {
	shape := New([]int{2, 3, 4})

	assert.Equal(t, 3, shape.NDim())
	assert.Equal(t, 24, shape.Size())
	assert.Equal(t, []int{2, 3, 4}, shape.Dims())

	tests := []struct {
		index []int
		off   int
	}{
		{[]int{0, 0, 0}, 0},
		{[]int{0, 0, 3}, 3},
		{[]int{0, 1, 0}, 4},
		{[]int{1, 0, 0}, 12},
		{[]int{1, 2, 3}, 23},
	}

	for _, tt := range tests {
		off, err := shape.Offset(tt.index)
		assert.NoError(t, err)
		assert.Equal(t, tt.off, off)
		assert.Equal(t, tt.index, shape.Unravel(off))
	}
}

func TestShape_OffsetErrors(t *testing.T) {
	shape := New([]int{2, 2})

	_, err := shape.Offset([]int{0})
	assert.True(t, errors.Is(err, sentinel.ErrDimensionMismatch))

	_, err = shape.Offset([]int{0, 2})
	assert.True(t, errors.Is(err, sentinel.ErrIndexOutOfRange))

	_, err = shape.Offset([]int{-1, 0})
	assert.True(t, errors.Is(err, sentinel.ErrIndexOutOfRange))
}

func TestShape_DimsAreCopied(t *testing.T) {
	dims := []int{3, 1}
	shape := New(dims)
	dims[0] = 9

	out := shape.Dims()
	out[1] = 7

	assert.Equal(t, []int{3, 1}, shape.Dims())
}

func TestShape_Equal(t *testing.T) {
	assert.True(t, New([]int{2, 3}).Equal(New([]int{2, 3})))
	assert.False(t, New([]int{2, 3}).Equal(New([]int{3, 2})))
	assert.False(t, New([]int{6}).Equal(New([]int{2, 3})))
}
