package recompute

import (
	"encoding/json"
	"math"
	"strings"
	"testing"
	"time"

	"gorm.io/datatypes"

	"github.com/yungbote/mealprep-backend/internal/domain"
)

func f(v float64) *float64 { return &v }

func baseSnapshot() SnapshotData {
	frozen := time.Date(2026, 4, 2, 9, 0, 0, 0, time.UTC)
	return SnapshotData{
		FrozenAt:       &frozen,
		ServingWeightG: 350,
		Servings:       1,
		PerServing: map[string]*float64{
			"kcal":      f(520),
			"protein_g": f(42),
			"carb_g":    f(48),
			"fat_g":     f(16),
			"sodium_mg": f(610),
		},
		ReasonCodes: []string{"MISSING_FIBER"},
	}
}

func equivalent(s SnapshotData) RecomputedData {
	per := make(map[string]*float64, len(s.PerServing))
	for k, v := range s.PerServing {
		per[k] = f(*v)
	}
	return RecomputedData{
		ServingWeightG:  s.ServingWeightG,
		Servings:        s.Servings,
		PerServing:      per,
		Provisional:     s.Provisional,
		ReasonCodes:     append([]string(nil), s.ReasonCodes...),
		EvidenceSummary: s.EvidenceSummary,
	}
}

func TestComputeNutrientDeltasThresholds(t *testing.T) {
	small := ComputeNutrientDeltas(map[string]float64{"kcal": 520}, map[string]float64{"kcal": 520.5})
	if len(small) != 1 || small[0].Significant {
		t.Fatalf("expected insignificant delta, got %+v", small)
	}
	large := ComputeNutrientDeltas(map[string]float64{"kcal": 520}, map[string]float64{"kcal": 580})
	if len(large) != 1 || !large[0].Significant || large[0].AbsoluteDelta != 60 {
		t.Fatalf("expected significant 60 kcal delta, got %+v", large)
	}
	// 0.8 of 4 is 20%: percent alone makes it significant.
	pct := ComputeNutrientDeltas(map[string]float64{"fiber_g": 4}, map[string]float64{"fiber_g": 4.8})
	if !pct[0].Significant {
		t.Fatalf("expected percent threshold to trigger")
	}
	// 3 of 2000 is 0.15%: absolute alone makes it significant.
	abs := ComputeNutrientDeltas(map[string]float64{"sodium_mg": 2000}, map[string]float64{"sodium_mg": 2003})
	if !abs[0].Significant {
		t.Fatalf("expected absolute threshold to trigger")
	}
}

func TestComputeNutrientDeltasMissingKeysDefaultToZero(t *testing.T) {
	deltas := ComputeNutrientDeltas(map[string]float64{"kcal": 500}, map[string]float64{"kcal": 500, "fiber_g": 3})
	var fiber *Delta
	for i := range deltas {
		if deltas[i].Nutrient == "fiber_g" {
			fiber = &deltas[i]
		}
	}
	if fiber == nil {
		t.Fatalf("expected fiber_g in union of keys")
	}
	if fiber.FrozenValue != 0 || fiber.AbsoluteDelta != 3 || fiber.PercentDelta != nil || !fiber.Significant {
		t.Fatalf("unexpected fiber delta: %+v", *fiber)
	}
}

func TestComputeNutrientDeltasOrdering(t *testing.T) {
	deltas := ComputeNutrientDeltas(
		map[string]float64{"kcal": 500, "protein_g": 40, "fat_g": 20, "carb_g": 50},
		map[string]float64{"kcal": 530, "protein_g": 40.2, "fat_g": 24, "carb_g": 50},
	)
	want := []string{"kcal", "fat_g", "protein_g", "carb_g"}
	for i, k := range want {
		if deltas[i].Nutrient != k {
			t.Fatalf("position %d: want %s, got %s (%+v)", i, k, deltas[i].Nutrient, deltas)
		}
	}
}

func TestComputeNutrientDeltasSymmetry(t *testing.T) {
	a := map[string]float64{"kcal": 520, "protein_g": 40, "fat_g": 18, "sodium_mg": 600, "fiber_g": 0}
	b := map[string]float64{"kcal": 580, "protein_g": 40.1, "fat_g": 15, "sodium_mg": 600.2, "fiber_g": 2}

	index := func(ds []Delta) map[string]Delta {
		m := map[string]Delta{}
		for _, d := range ds {
			m[d.Nutrient] = d
		}
		return m
	}
	ab := index(ComputeNutrientDeltas(a, b))
	ba := index(ComputeNutrientDeltas(b, a))
	if len(ab) != len(ba) {
		t.Fatalf("key sets differ")
	}
	for k, d := range ab {
		r := ba[k]
		if d.AbsoluteDelta != -r.AbsoluteDelta {
			t.Fatalf("%s: absolute deltas not negated: %v vs %v", k, d.AbsoluteDelta, r.AbsoluteDelta)
		}
		if d.Significant != r.Significant {
			t.Fatalf("%s: significance differs", k)
		}
		if d.PercentDelta != nil && r.PercentDelta != nil && math.Signbit(*d.PercentDelta) == math.Signbit(*r.PercentDelta) && *d.PercentDelta != 0 {
			t.Fatalf("%s: percent delta sign not flipped", k)
		}
	}
}

// Percent deltas divide by the frozen value, so swapping sides can move a delta
// across the threshold.
func TestComputeNutrientDeltasThresholdEdges(t *testing.T) {
	cases := []struct {
		name        string
		frozen      float64
		recomputed  float64
		significant bool
	}{
		{"just over 5% up", 10, 10.52, true},
		{"same pair reversed", 10.52, 10, false},
		{"from zero below absolute", 0, 0.5, false},
		{"to zero is -100%", 0.5, 0, true},
		{"exactly absolute", 100, 101, true},
		{"exactly percent", 10, 10.5, true},
	}
	for _, tc := range cases {
		deltas := ComputeNutrientDeltas(map[string]float64{"kcal": tc.frozen}, map[string]float64{"kcal": tc.recomputed})
		if len(deltas) != 1 {
			t.Fatalf("%s: expected one delta, got %d", tc.name, len(deltas))
		}
		if deltas[0].Significant != tc.significant {
			t.Fatalf("%s: significant=%v, want %v (%+v)", tc.name, deltas[0].Significant, tc.significant, deltas[0])
		}
	}
}

func TestNumericDropsUnrecordedValues(t *testing.T) {
	got := numeric(map[string]*float64{"kcal": f(500), "fiber_g": nil, "sodium_mg": f(math.NaN()), "sugar_g": f(math.Inf(1))})
	if len(got) != 1 || got["kcal"] != 500 {
		t.Fatalf("unexpected values %v", got)
	}
}

func TestRunIntegrityChecksServingWeightZero(t *testing.T) {
	s := baseSnapshot()
	s.ServingWeightG = 0
	checks := RunIntegrityChecks(s)
	if len(checks) != 4 {
		t.Fatalf("expected 4 checks, got %d", len(checks))
	}
	for _, c := range checks {
		want := c.Check != CheckServingWeightPositive
		if c.Passed != want {
			t.Fatalf("%s: passed=%v, want %v", c.Check, c.Passed, want)
		}
		if !c.Passed && c.Message == "" {
			t.Fatalf("%s: failing check needs a message", c.Check)
		}
	}
}

func TestRunIntegrityChecksEachIndependent(t *testing.T) {
	s := SnapshotData{PerServing: map[string]*float64{"kcal": f(100), "protein_g": nil}}
	checks := RunIntegrityChecks(s)
	for _, c := range checks {
		if c.Passed {
			t.Fatalf("%s: expected failure on empty snapshot", c.Check)
		}
	}
	core := checks[3]
	if core.Check != CheckCoreNutrientsPresent || !strings.Contains(core.Message, "protein_g") || strings.Contains(core.Message, "kcal") {
		t.Fatalf("unexpected core nutrient message: %q", core.Message)
	}
}

func TestGenerateDeltaExplanations(t *testing.T) {
	s := baseSnapshot()
	r := equivalent(s)
	r.ServingWeightG = 340
	r.Provisional = true
	r.ReasonCodes = []string{"INFERRED_PROTEIN"}
	r.PerServing["kcal"] = f(580)
	r.PerServing["protein_g"] = f(42.1)

	deltas := ComputeNutrientDeltas(numeric(s.PerServing), numeric(r.PerServing))
	ex := GenerateDeltaExplanations(s, r, deltas)

	byCat := map[string][]Explanation{}
	for _, e := range ex {
		byCat[e.Category] = append(byCat[e.Category], e)
	}
	if len(byCat[CategoryServingWeight]) != 1 {
		t.Fatalf("expected serving weight explanation")
	}
	if p := byCat[CategoryProvisional]; len(p) != 1 || !strings.Contains(p[0].Message, "became provisional") {
		t.Fatalf("unexpected provisional explanation: %+v", p)
	}
	codes := byCat[CategoryReasonCode]
	if len(codes) != 2 || codes[0].Message != "New: INFERRED_PROTEIN" || codes[1].Message != "Resolved: MISSING_FIBER" {
		t.Fatalf("unexpected reason code explanations: %+v", codes)
	}
	nv := byCat[CategoryNutrientValue]
	if len(nv) != 1 || len(nv[0].Nutrients) != 1 || nv[0].Nutrients[0] != "kcal" {
		t.Fatalf("expected only kcal in nutrient explanation: %+v", nv)
	}
}

func TestGenerateDeltaExplanationsResolvedToFinal(t *testing.T) {
	s := baseSnapshot()
	s.Provisional = true
	r := equivalent(s)
	r.Provisional = false
	ex := GenerateDeltaExplanations(s, r, nil)
	if len(ex) != 1 || !strings.Contains(ex[0].Message, "resolved to final") {
		t.Fatalf("unexpected explanations: %+v", ex)
	}
}

func TestGenerateDeltaExplanationsIgnoresInsignificant(t *testing.T) {
	s := baseSnapshot()
	r := equivalent(s)
	r.PerServing["kcal"] = f(520.5)
	deltas := ComputeNutrientDeltas(numeric(s.PerServing), numeric(r.PerServing))
	if ex := GenerateDeltaExplanations(s, r, deltas); len(ex) != 0 {
		t.Fatalf("expected no explanations, got %+v", ex)
	}
}

func TestBuildRecomputeDiffEquivalent(t *testing.T) {
	s := baseSnapshot()
	d := BuildRecomputeDiff(s, equivalent(s))
	if d.HasDifferences {
		t.Fatalf("expected no differences")
	}
	if !strings.Contains(d.Summary, "No significant differences") {
		t.Fatalf("unexpected summary: %q", d.Summary)
	}
	if len(d.IntegrityChecks) != 4 {
		t.Fatalf("integrity checks must always be present")
	}
	if d.SignificantDeltas == nil || len(d.SignificantDeltas) != 0 {
		t.Fatalf("expected empty significant deltas")
	}
}

func TestBuildRecomputeDiffProvisionalOnly(t *testing.T) {
	s := baseSnapshot()
	r := equivalent(s)
	r.Provisional = true
	d := BuildRecomputeDiff(s, r)
	if !d.HasDifferences || len(d.SignificantDeltas) != 0 {
		t.Fatalf("unexpected diff: %+v", d)
	}
	if !strings.HasPrefix(d.Summary, "Metadata changed") {
		t.Fatalf("unexpected summary: %q", d.Summary)
	}
	if len(d.IntegrityChecks) != 4 {
		t.Fatalf("integrity checks must always be present")
	}
}

func TestBuildRecomputeDiffSignificantNutrients(t *testing.T) {
	s := baseSnapshot()
	r := equivalent(s)
	r.PerServing["kcal"] = f(580)
	r.PerServing["fat_g"] = f(19)
	d := BuildRecomputeDiff(s, r)
	if !d.HasDifferences || len(d.SignificantDeltas) != 2 {
		t.Fatalf("unexpected diff: %+v", d)
	}
	if !strings.Contains(d.Summary, "kcal") || !strings.Contains(d.Summary, "fat_g") {
		t.Fatalf("summary should enumerate keys: %q", d.Summary)
	}
	if strings.Contains(d.Summary, "protein_g") {
		t.Fatalf("summary should not mention unchanged keys: %q", d.Summary)
	}
}

func TestSnapshotFromLabel(t *testing.T) {
	frozen := time.Date(2026, 4, 2, 9, 0, 0, 0, time.UTC)
	raw, _ := json.Marshal(map[string]any{
		"perServing":     map[string]any{"kcal": 410, "protein_g": 30, "carb_g": nil},
		"servingWeightG": 300,
		"servings":       2,
		"provisional":    true,
		"reasonCodes":    []string{"MISSING_CARB"},
	})
	s, err := SnapshotFromLabel(&domain.LabelSnapshot{FrozenAt: &frozen, RenderPayload: datatypes.JSON(raw)})
	if err != nil {
		t.Fatalf("SnapshotFromLabel: %v", err)
	}
	if s.ServingWeightG != 300 || s.Servings != 2 || !s.Provisional || len(s.ReasonCodes) != 1 {
		t.Fatalf("unexpected snapshot: %+v", s)
	}
	if s.PerServing["carb_g"] != nil || *s.PerServing["kcal"] != 410 {
		t.Fatalf("unexpected per serving: %+v", s.PerServing)
	}

	if _, err := SnapshotFromLabel(&domain.LabelSnapshot{RenderPayload: datatypes.JSON(`{"perServing":`)}); err == nil {
		t.Fatalf("expected decode error")
	}
}
