package yield

import "time"

// BatchOutcome is the raw shape read from completed batches.
type BatchOutcome struct {
	BatchID        string
	RawInputG      float64
	ExpectedYieldG float64
	ActualYieldG   *float64
	Method         string
	CutForm        string
	CreatedAt      time.Time
}

// SamplesFromOutcomes converts batch weights into percent-of-raw samples. Rows
// without a recorded actual weight or with a non-positive raw or expected weight
// cannot produce a meaningful sample and are skipped.
func SamplesFromOutcomes(outcomes []BatchOutcome) []YieldSample {
	out := make([]YieldSample, 0, len(outcomes))
	for _, o := range outcomes {
		if o.ActualYieldG == nil || o.RawInputG <= 0 || o.ExpectedYieldG <= 0 {
			continue
		}
		expectedPct := o.ExpectedYieldG / o.RawInputG * 100
		actualPct := *o.ActualYieldG / o.RawInputG * 100
		out = append(out, YieldSample{
			BatchID:          o.BatchID,
			ExpectedYieldPct: expectedPct,
			ActualYieldPct:   actualPct,
			VariancePct:      (actualPct - expectedPct) / expectedPct,
			Method:           o.Method,
			CutForm:          o.CutForm,
			CreatedAt:        o.CreatedAt,
		})
	}
	return out
}
