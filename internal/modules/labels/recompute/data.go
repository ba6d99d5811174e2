// Package recompute diffs a frozen label against a freshly recomputed one.
package recompute

import (
	"time"

	"github.com/yungbote/mealprep-backend/internal/domain"
)

// CoreNutrients must be present on every frozen label.
var CoreNutrients = []string{"kcal", "protein_g", "carb_g", "fat_g"}

// SnapshotData is the frozen side of a diff.
type SnapshotData struct {
	FrozenAt        *time.Time             `json:"frozen_at,omitempty"`
	ServingWeightG  float64                `json:"serving_weight_g"`
	Servings        float64                `json:"servings"`
	PerServing      map[string]*float64    `json:"per_serving"`
	Provisional     bool                   `json:"provisional"`
	ReasonCodes     []string               `json:"reason_codes"`
	EvidenceSummary domain.EvidenceSummary `json:"evidence_summary"`
}

// RecomputedData is the freshly computed side of a diff.
type RecomputedData struct {
	ServingWeightG  float64                `json:"serving_weight_g"`
	Servings        float64                `json:"servings"`
	PerServing      map[string]*float64    `json:"per_serving"`
	Provisional     bool                   `json:"provisional"`
	ReasonCodes     []string               `json:"reason_codes"`
	EvidenceSummary domain.EvidenceSummary `json:"evidence_summary"`
}

// SnapshotFromLabel decodes a stored label into diff input.
func SnapshotFromLabel(l *domain.LabelSnapshot) (SnapshotData, error) {
	p, err := domain.DecodeRenderPayload(l.RenderPayload)
	if err != nil {
		return SnapshotData{}, err
	}
	return SnapshotData{
		FrozenAt:        l.FrozenAt,
		ServingWeightG:  p.ServingWeightG,
		Servings:        p.Servings,
		PerServing:      p.PerServing,
		Provisional:     p.Provisional,
		ReasonCodes:     p.ReasonCodes,
		EvidenceSummary: p.EvidenceSummary,
	}, nil
}

// numeric keeps the recorded, finite per-serving values.
func numeric(m map[string]*float64) map[string]float64 {
	return domain.RenderPayload{PerServing: m}.NumericPerServing()
}
