package recompute

import (
	"fmt"
	"strings"
)

const (
	CategoryServingWeight = "serving_weight_change"
	CategoryProvisional   = "provisional_status_change"
	CategoryReasonCode    = "reason_code_change"
	CategoryNutrientValue = "nutrient_value_change"
)

type Explanation struct {
	Category  string   `json:"category"`
	Message   string   `json:"message"`
	Nutrients []string `json:"nutrients,omitempty"`
}

// GenerateDeltaExplanations describes what changed between the frozen and
// recomputed label. Insignificant nutrient deltas are never explained.
func GenerateDeltaExplanations(snapshot SnapshotData, recomputed RecomputedData, deltas []Delta) []Explanation {
	out := []Explanation{}

	if snapshot.ServingWeightG != recomputed.ServingWeightG {
		out = append(out, Explanation{
			Category: CategoryServingWeight,
			Message: fmt.Sprintf("Serving weight changed from %sg to %sg",
				formatNumber(snapshot.ServingWeightG), formatNumber(recomputed.ServingWeightG)),
		})
	}

	switch {
	case !snapshot.Provisional && recomputed.Provisional:
		out = append(out, Explanation{
			Category: CategoryProvisional,
			Message:  "Label became provisional: recomputed values rely on unverified evidence",
		})
	case snapshot.Provisional && !recomputed.Provisional:
		out = append(out, Explanation{
			Category: CategoryProvisional,
			Message:  "Label resolved to final: recomputed values no longer rely on unverified evidence",
		})
	}

	added, removed := diffCodes(snapshot.ReasonCodes, recomputed.ReasonCodes)
	for _, c := range added {
		out = append(out, Explanation{Category: CategoryReasonCode, Message: "New: " + c})
	}
	for _, c := range removed {
		out = append(out, Explanation{Category: CategoryReasonCode, Message: "Resolved: " + c})
	}

	sig := significantOnly(deltas)
	if len(sig) > 0 {
		parts := make([]string, 0, len(sig))
		keys := make([]string, 0, len(sig))
		for _, d := range sig {
			keys = append(keys, d.Nutrient)
			parts = append(parts, describeDelta(d))
		}
		out = append(out, Explanation{
			Category:  CategoryNutrientValue,
			Message:   fmt.Sprintf("%d nutrient value(s) changed significantly: %s", len(sig), strings.Join(parts, ", ")),
			Nutrients: keys,
		})
	}
	return out
}

// diffCodes returns codes only in b (added) and only in a (removed), each in
// first-seen order without duplicates.
func diffCodes(a, b []string) (added, removed []string) {
	inA := toSet(a)
	inB := toSet(b)
	seen := map[string]struct{}{}
	for _, c := range b {
		if _, ok := inA[c]; ok {
			continue
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		added = append(added, c)
	}
	seen = map[string]struct{}{}
	for _, c := range a {
		if _, ok := inB[c]; ok {
			continue
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		removed = append(removed, c)
	}
	return added, removed
}

func toSet(codes []string) map[string]struct{} {
	out := make(map[string]struct{}, len(codes))
	for _, c := range codes {
		out[c] = struct{}{}
	}
	return out
}

func describeDelta(d Delta) string {
	if d.PercentDelta == nil {
		return fmt.Sprintf("%s %s -> %s (%+.2f)", d.Nutrient,
			formatNumber(d.FrozenValue), formatNumber(d.RecomputedValue), d.AbsoluteDelta)
	}
	return fmt.Sprintf("%s %s -> %s (%+.2f, %+.1f%%)", d.Nutrient,
		formatNumber(d.FrozenValue), formatNumber(d.RecomputedValue), d.AbsoluteDelta, *d.PercentDelta*100)
}

func formatNumber(v float64) string {
	return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.2f", v), "0"), ".")
}
