package binstat

import "golang.org/x/exp/constraints"

// Report is a flattened, JSON friendly copy of every statistic of a store.
// Absent bins are nil.
type Report struct {
	Shape             []int      `json:"shape"`
	DDOF              uint       `json:"ddof"`
	Total             uint64     `json:"total"`
	Counts            []uint64   `json:"counts"`
	Sum               []*float64 `json:"sum"`
	Mean              []*float64 `json:"mean"`
	Variance          []*float64 `json:"variance"`
	StandardDeviation []*float64 `json:"standard_deviation"`
	Min               []*float64 `json:"min"`
	Max               []*float64 `json:"max"`
}

// NewReport copies the statistics of s. Counts of absent bins are reported as 0.
func NewReport[T constraints.Float](s *Store[T]) Report {
	return Report{
		Shape:             s.Shape(),
		DDOF:              s.ddof,
		Total:             s.Total(),
		Counts:            s.Counts().Filled(0),
		Sum:               optional(s.Sum()),
		Mean:              optional(s.Mean()),
		Variance:          optional(s.Variance()),
		StandardDeviation: optional(s.StandardDeviation()),
		Min:               optional(s.Min()),
		Max:               optional(s.Max()),
	}
}

func optional[T constraints.Float](v View[T]) []*float64 {
	out := make([]*float64, v.Len())
	for i := range out {
		if val, ok := v.AtFlat(i); ok {
			f := float64(val)
			out[i] = &f
		}
	}

	return out
}
