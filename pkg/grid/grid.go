// Package grid provides the spatial partition that binned statistics are
// accumulated over.
//
// The engine only depends on the Grid interface: a shape, a dimensionality,
// a point-to-bin mapping and an equality check. Rectilinear is the concrete
// partition built from explicit per-axis edges; choosing those edges (Scott's
// rule, square-root choice, ...) is left to the caller.
package grid

import (
	"encoding/binary"
	"math"
	"sort"

	"github.com/cespare/xxhash/v2"
	"github.com/hyp3rd/ewrap"
	"gonum.org/v1/gonum/floats"

	"github.com/hyp3rd/binstat/internal/sentinel"
)

// BinIndex identifies a bin by one offset per grid axis.
type BinIndex []int

// Grid is the partition collaborator consumed by the statistics engine.
type Grid interface {
	// Shape returns the number of bins along each axis.
	Shape() []int
	// NDim returns the number of axes.
	NDim() int
	// IndexOf maps a point to its bin, reporting false when the point lies outside the grid.
	IndexOf(point []float64) (BinIndex, bool)
	// Equal reports whether other partitions space with identical edges.
	Equal(other Grid) bool
	// Fingerprint returns a digest of the edges, equal for equal grids.
	Fingerprint() uint64
}

// Edges are the sorted, finite, strictly increasing boundaries of the bins along one axis.
type Edges struct {
	values []float64
}

// NewEdges validates and copies the given boundaries.
// At least two boundaries are required to form one bin.
func NewEdges(values ...float64) (Edges, error) {
	if len(values) < 2 {
		return Edges{}, ewrap.Wrapf(sentinel.ErrInvalidEdges, "need at least 2 edges, got %d", len(values))
	}

	if floats.HasNaN(values) {
		return Edges{}, ewrap.Wrap(sentinel.ErrInvalidEdges, "edges contain NaN")
	}

	out := make([]float64, len(values))
	for i, v := range values {
		if math.IsInf(v, 0) {
			return Edges{}, ewrap.Wrapf(sentinel.ErrInvalidEdges, "edge %d is infinite", i)
		}

		if i > 0 && v <= values[i-1] {
			return Edges{}, ewrap.Wrapf(sentinel.ErrInvalidEdges, "edge %d is not strictly increasing", i)
		}

		// -0 and +0 must fingerprint identically.
		if v == 0 {
			v = 0
		}

		out[i] = v
	}

	return Edges{values: out}, nil
}

// Len returns the number of boundaries.
func (e Edges) Len() int { return len(e.values) }

// At returns the i-th boundary.
func (e Edges) At(i int) float64 { return e.values[i] }

// Values returns a copy of the boundaries.
func (e Edges) Values() []float64 {
	out := make([]float64, len(e.values))
	copy(out, e.values)

	return out
}

// Bins partitions one axis into left-closed, right-open intervals [e_i, e_{i+1}).
type Bins struct {
	edges Edges
}

// NewBins wraps edges into bins.
func NewBins(edges Edges) Bins { return Bins{edges: edges} }

// Len returns the number of bins.
func (b Bins) Len() int { return b.edges.Len() - 1 }

// Edges returns the bin boundaries.
func (b Bins) Edges() Edges { return b.edges }

// IndexOf returns the bin containing x, or false when x is outside [first, last).
func (b Bins) IndexOf(x float64) (int, bool) {
	values := b.edges.values
	i := sort.Search(len(values), func(j int) bool { return values[j] > x }) - 1

	if i < 0 || i >= len(values)-1 {
		return 0, false
	}

	return i, true
}

// Range returns the [lower, upper) interval of bin i.
func (b Bins) Range(i int) (lower, upper float64) {
	return b.edges.values[i], b.edges.values[i+1]
}

// Rectilinear is the cartesian product of per-axis Bins.
type Rectilinear struct {
	axes        []Bins
	shape       []int
	fingerprint uint64
}

// New builds a Rectilinear grid with one Bins per axis.
func New(axes ...Bins) (*Rectilinear, error) {
	if len(axes) == 0 {
		return nil, ewrap.Wrap(sentinel.ErrInvalidEdges, "grid needs at least one axis")
	}

	g := &Rectilinear{
		axes:  make([]Bins, len(axes)),
		shape: make([]int, len(axes)),
	}

	for i, axis := range axes {
		if axis.Len() < 1 {
			return nil, ewrap.Wrapf(sentinel.ErrInvalidEdges, "axis %d has no bins", i)
		}

		g.axes[i] = axis
		g.shape[i] = axis.Len()
	}

	g.fingerprint = fingerprint(g.axes)

	return g, nil
}

// FromEdges is a shorthand building a grid from raw per-axis boundaries.
func FromEdges(edges ...[]float64) (*Rectilinear, error) {
	axes := make([]Bins, 0, len(edges))

	for i, values := range edges {
		e, err := NewEdges(values...)
		if err != nil {
			return nil, ewrap.Wrapf(err, "axis %d", i)
		}

		axes = append(axes, NewBins(e))
	}

	return New(axes...)
}

// Shape implements Grid.
func (g *Rectilinear) Shape() []int {
	out := make([]int, len(g.shape))
	copy(out, g.shape)

	return out
}

// NDim implements Grid.
func (g *Rectilinear) NDim() int { return len(g.axes) }

// Axis returns the bins of axis i.
func (g *Rectilinear) Axis(i int) Bins { return g.axes[i] }

// IndexOf implements Grid. The point must carry one coordinate per axis.
func (g *Rectilinear) IndexOf(point []float64) (BinIndex, bool) {
	if len(point) != len(g.axes) {
		return nil, false
	}

	index := make(BinIndex, len(g.axes))

	for axis, bins := range g.axes {
		i, ok := bins.IndexOf(point[axis])
		if !ok {
			return nil, false
		}

		index[axis] = i
	}

	return index, true
}

// Equal implements Grid.
func (g *Rectilinear) Equal(other Grid) bool {
	if other == nil {
		return false
	}

	if g.fingerprint != other.Fingerprint() {
		return false
	}

	o, ok := other.(*Rectilinear)
	if !ok {
		// foreign implementations are compared by shape and digest only
		return sameShape(g.shape, other.Shape())
	}

	if len(o.axes) != len(g.axes) {
		return false
	}

	for i := range g.axes {
		if !floats.Equal(g.axes[i].edges.values, o.axes[i].edges.values) {
			return false
		}
	}

	return true
}

// Fingerprint implements Grid.
func (g *Rectilinear) Fingerprint() uint64 { return g.fingerprint }

// EdgeSets returns a copy of every axis' boundaries.
func (g *Rectilinear) EdgeSets() [][]float64 {
	out := make([][]float64, len(g.axes))
	for i, axis := range g.axes {
		out[i] = axis.edges.Values()
	}

	return out
}

func sameShape(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}

	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}

	return true
}

func fingerprint(axes []Bins) uint64 {
	digest := xxhash.New()

	var buf [8]byte

	binary.LittleEndian.PutUint64(buf[:], uint64(len(axes)))
	_, _ = digest.Write(buf[:])

	for _, axis := range axes {
		binary.LittleEndian.PutUint64(buf[:], uint64(axis.edges.Len()))
		_, _ = digest.Write(buf[:])

		for _, v := range axis.edges.values {
			binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
			_, _ = digest.Write(buf[:])
		}
	}

	return digest.Sum64()
}
