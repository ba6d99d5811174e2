package labels

import (
	"testing"

	"gorm.io/datatypes"
)

func TestDecodeRenderPayload(t *testing.T) {
	raw := datatypes.JSON([]byte(`{
		"perServing": {"kcal": 520, "protein_g": 38.5, "fat_g": null},
		"servingWeightG": 350,
		"servings": 4,
		"provisional": true,
		"reasonCodes": ["MISSING_SODIUM"],
		"evidenceSummary": {"verifiedCount": 9, "inferredCount": 2, "exceptionCount": 1, "sourceRefs": ["usda:123"], "gradeBreakdown": {"INFERRED_FROM_INGREDIENT": 2}}
	}`))
	p, err := DecodeRenderPayload(raw)
	if err != nil {
		t.Fatalf("DecodeRenderPayload: %v", err)
	}
	if p.ServingWeightG != 350 || p.Servings != 4 || !p.Provisional {
		t.Fatalf("unexpected scalar fields: %+v", p)
	}
	if len(p.ReasonCodes) != 1 || p.ReasonCodes[0] != "MISSING_SODIUM" {
		t.Fatalf("unexpected reason codes: %v", p.ReasonCodes)
	}
	if p.EvidenceSummary.VerifiedCount != 9 || p.EvidenceSummary.GradeBreakdown[GradeInferredFromIngredient] != 2 {
		t.Fatalf("unexpected evidence summary: %+v", p.EvidenceSummary)
	}
	nums := p.NumericPerServing()
	if len(nums) != 2 || nums["kcal"] != 520 || nums["protein_g"] != 38.5 {
		t.Fatalf("unexpected numeric per serving: %v", nums)
	}
	if _, ok := nums["fat_g"]; ok {
		t.Fatalf("expected null fat_g to be dropped")
	}
}

func TestDecodeRenderPayloadEmptyAndInvalid(t *testing.T) {
	if p, err := DecodeRenderPayload(nil); err != nil || p.PerServing != nil {
		t.Fatalf("empty payload: p=%+v err=%v", p, err)
	}
	if _, err := DecodeRenderPayload(datatypes.JSON([]byte(`{"perServing": 3}`))); err == nil {
		t.Fatalf("expected error for malformed perServing")
	}
}
