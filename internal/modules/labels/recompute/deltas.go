package recompute

import (
	"math"
	"sort"
)

const (
	SignificantPercent  = 0.05
	SignificantAbsolute = 1.0
)

type Delta struct {
	Nutrient        string   `json:"nutrient"`
	FrozenValue     float64  `json:"frozen_value"`
	RecomputedValue float64  `json:"recomputed_value"`
	AbsoluteDelta   float64  `json:"absolute_delta"`
	PercentDelta    *float64 `json:"percent_delta"`
	Significant     bool     `json:"significant"`
}

// ComputeNutrientDeltas compares every key present on either side; a missing
// key counts as 0. PercentDelta is nil when the frozen value is 0. A delta is
// significant when either threshold is met.
func ComputeNutrientDeltas(frozen, recomputed map[string]float64) []Delta {
	keys := make(map[string]struct{}, len(frozen)+len(recomputed))
	for k := range frozen {
		keys[k] = struct{}{}
	}
	for k := range recomputed {
		keys[k] = struct{}{}
	}

	out := make([]Delta, 0, len(keys))
	for k := range keys {
		f, r := frozen[k], recomputed[k]
		d := Delta{
			Nutrient:        k,
			FrozenValue:     f,
			RecomputedValue: r,
			AbsoluteDelta:   r - f,
		}
		if f != 0 {
			pct := d.AbsoluteDelta / f
			d.PercentDelta = &pct
		}
		d.Significant = math.Abs(d.AbsoluteDelta) >= SignificantAbsolute ||
			(d.PercentDelta != nil && math.Abs(*d.PercentDelta) >= SignificantPercent)
		out = append(out, d)
	}

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Significant != b.Significant {
			return a.Significant
		}
		aa, ba := math.Abs(a.AbsoluteDelta), math.Abs(b.AbsoluteDelta)
		if aa != ba {
			return aa > ba
		}
		return a.Nutrient < b.Nutrient
	})
	return out
}

func significantOnly(deltas []Delta) []Delta {
	out := []Delta{}
	for _, d := range deltas {
		if d.Significant {
			out = append(out, d)
		}
	}
	return out
}
