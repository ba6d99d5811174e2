package recompute

import (
	"fmt"
	"strings"
)

const SummaryNoDifferences = "No significant differences"

type Diff struct {
	HasDifferences    bool          `json:"has_differences"`
	SignificantDeltas []Delta       `json:"significant_deltas"`
	Deltas            []Delta       `json:"deltas"`
	Explanations      []Explanation `json:"explanations"`
	IntegrityChecks   []Check       `json:"integrity_checks"`
	Summary           string        `json:"summary"`
}

// BuildRecomputeDiff compares a frozen label with its recomputed equivalent.
// Integrity checks always run against the frozen side.
func BuildRecomputeDiff(snapshot SnapshotData, recomputed RecomputedData) Diff {
	deltas := ComputeNutrientDeltas(numeric(snapshot.PerServing), numeric(recomputed.PerServing))
	sig := significantOnly(deltas)
	meta := metadataChanges(snapshot, recomputed)

	d := Diff{
		HasDifferences:    len(sig) > 0 || len(meta) > 0,
		SignificantDeltas: sig,
		Deltas:            deltas,
		Explanations:      GenerateDeltaExplanations(snapshot, recomputed, deltas),
		IntegrityChecks:   RunIntegrityChecks(snapshot),
	}

	switch {
	case len(sig) > 0:
		keys := make([]string, 0, len(sig))
		for _, s := range sig {
			keys = append(keys, s.Nutrient)
		}
		d.Summary = fmt.Sprintf("%d significant nutrient difference(s): %s", len(sig), strings.Join(keys, ", "))
		if len(meta) > 0 {
			d.Summary += "; metadata changed: " + strings.Join(meta, ", ")
		}
	case len(meta) > 0:
		d.Summary = "Metadata changed: " + strings.Join(meta, ", ")
	default:
		d.Summary = SummaryNoDifferences
	}
	return d
}

func metadataChanges(snapshot SnapshotData, recomputed RecomputedData) []string {
	var out []string
	if snapshot.ServingWeightG != recomputed.ServingWeightG {
		out = append(out, "serving weight")
	}
	if snapshot.Provisional != recomputed.Provisional {
		out = append(out, "provisional status")
	}
	added, removed := diffCodes(snapshot.ReasonCodes, recomputed.ReasonCodes)
	if len(added) > 0 || len(removed) > 0 {
		out = append(out, "reason codes")
	}
	return out
}
