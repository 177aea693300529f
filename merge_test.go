package binstat

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/longbridgeapp/assert"

	"github.com/hyp3rd/binstat/pkg/grid"
)

type sample struct {
	point []float64
	value float64
}

func randomSamples(seed uint64, n int) []sample {
	rng := rand.New(rand.NewPCG(seed, seed+1))
	out := make([]sample, n)

	for i := range out {
		out[i] = sample{
			point: []float64{rng.Float64()*2.2 - 1.1, rng.Float64()*2.2 - 1.1},
			value: rng.NormFloat64()*10 + 50,
		}
	}

	return out
}

func fill(t *testing.T, s *Store[float64], samples []sample) {
	t.Helper()

	for _, smp := range samples {
		err := s.AddSample(smp.point, smp.value)
		if !IsBinNotFound(err) {
			assert.NoError(t, err)
		}
	}
}

func TestMerge_EqualsConcatenation(t *testing.T) {
	g := square(t)
	first, second := randomSamples(1, 400), randomSamples(2, 300)

	for _, ddof := range []uint{0, 1} {
		a := New[float64](g, WithDDOF(ddof))
		b := New[float64](g, WithDDOF(ddof))
		all := New[float64](g, WithDDOF(ddof))

		fill(t, a, first)
		fill(t, b, second)
		fill(t, all, append(append([]sample(nil), first...), second...))

		for _, merged := range []func() (*Store[float64], error){
			func() (*Store[float64], error) { return Merge(a, b) },
			func() (*Store[float64], error) { return Merge(b, a) },
		} {
			out, err := merged()
			assert.NoError(t, err)

			// count and sum are exact and order independent
			assert.Equal(t, all.Counts().Filled(0), out.Counts().Filled(0))
			assert.Equal(t, all.Total(), out.Total())

			for off := range all.Len() {
				want, ok := all.Sum().AtFlat(off)
				got, gotOK := out.Sum().AtFlat(off)
				assert.Equal(t, ok, gotOK)
				assert.True(t, closeTo(want, got))

				wantMin, _ := all.Min().AtFlat(off)
				gotMin, _ := out.Min().AtFlat(off)
				assert.Equal(t, wantMin, gotMin)

				wantMax, _ := all.Max().AtFlat(off)
				gotMax, _ := out.Max().AtFlat(off)
				assert.Equal(t, wantMax, gotMax)

				wantMean, _ := all.Mean().AtFlat(off)
				gotMean, _ := out.Mean().AtFlat(off)
				assert.True(t, closeTo(wantMean, gotMean))

				wantVar, _ := all.Variance().AtFlat(off)
				gotVar, _ := out.Variance().AtFlat(off)
				assert.True(t, closeTo(wantVar, gotVar))
			}
		}
	}
}

func TestMerge_InputsUntouched(t *testing.T) {
	g := square(t)
	a, b := New[float64](g), New[float64](g)
	fill(t, a, randomSamples(3, 50))
	fill(t, b, randomSamples(4, 50))

	beforeA, beforeB := a.Clone(), b.Clone()

	_, err := Merge(a, b)
	assert.NoError(t, err)

	assert.True(t, cmp.Equal(state(beforeA), state(a)))
	assert.True(t, cmp.Equal(state(beforeB), state(b)))
}

func TestMerge_WithEmptyStore(t *testing.T) {
	g := square(t)
	a := New[float64](g)
	fill(t, a, randomSamples(5, 100))

	out, err := Merge(a, New[float64](g))
	assert.NoError(t, err)
	assert.True(t, cmp.Equal(state(a), state(out)))

	out, err = Merge(New[float64](g), a)
	assert.NoError(t, err)
	assert.True(t, cmp.Equal(state(a), state(out)))
}

func TestMerge_Rejections(t *testing.T) {
	g := square(t)

	other, err := grid.FromEdges([]float64{-1, 0, 1}, []float64{-1, 0.5, 1})
	assert.NoError(t, err)

	a := New[float64](g)
	fill(t, a, randomSamples(6, 20))

	before := a.Clone()

	err = a.MergeFrom(New[float64](other))
	assert.True(t, errors.Is(err, ErrGridMismatch))

	err = a.MergeFrom(New[float64](g, WithDDOF(1)))
	assert.True(t, errors.Is(err, ErrDDOFMismatch))

	err = a.MergeFrom(nil)
	assert.True(t, errors.Is(err, ErrGridMismatch))

	_, err = Merge(a, nil)
	assert.True(t, errors.Is(err, ErrGridMismatch))

	assert.True(t, cmp.Equal(state(before), state(a)))
}

func TestMerge_CopiesIntoAbsentBins(t *testing.T) {
	g := square(t)
	a := New[float64](g, WithDDOF(1))
	b := New[float64](g, WithDDOF(1))

	assert.NoError(t, a.AddSample([]float64{0.5, 0.5}, 1))
	assert.NoError(t, b.AddSample([]float64{-0.5, -0.5}, 2))

	assert.NoError(t, a.MergeFrom(b))

	count, _ := a.Counts().At(0, 0)
	assert.Equal(t, uint64(1), count)

	variance, ok := a.Variance().At(0, 0)
	assert.True(t, ok)
	assert.Equal(t, 0.0, variance)
}
