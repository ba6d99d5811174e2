package labels

import (
	"encoding/json"
	"fmt"
	"math"

	"gorm.io/datatypes"
)

// RenderPayload is the decoded form of LabelSnapshot.RenderPayload. Keys follow the
// payload written by the freeze job, which is why they are camelCase.
type RenderPayload struct {
	PerServing      map[string]*float64 `json:"perServing"`
	ServingWeightG  float64             `json:"servingWeightG"`
	Servings        float64             `json:"servings"`
	Provisional     bool                `json:"provisional"`
	ReasonCodes     []string            `json:"reasonCodes"`
	EvidenceSummary EvidenceSummary     `json:"evidenceSummary"`
}

type EvidenceSummary struct {
	VerifiedCount  int            `json:"verifiedCount"`
	InferredCount  int            `json:"inferredCount"`
	ExceptionCount int            `json:"exceptionCount"`
	SourceRefs     []string       `json:"sourceRefs"`
	GradeBreakdown map[string]int `json:"gradeBreakdown"`
}

// DecodeRenderPayload parses a stored payload. An empty payload decodes to the
// zero value rather than an error; older LOT/INGREDIENT labels carry no nutrients.
func DecodeRenderPayload(raw datatypes.JSON) (RenderPayload, error) {
	out := RenderPayload{}
	if len(raw) == 0 || string(raw) == "null" {
		return out, nil
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return RenderPayload{}, fmt.Errorf("decode render payload: %w", err)
	}
	return out, nil
}

// NumericPerServing drops null and non-finite entries so callers only see values
// that were actually recorded.
func (p RenderPayload) NumericPerServing() map[string]float64 {
	out := make(map[string]float64, len(p.PerServing))
	for k, v := range p.PerServing {
		if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
			continue
		}
		out[k] = *v
	}
	return out
}
