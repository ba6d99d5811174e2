package yield

import (
	"time"

	"github.com/yungbote/mealprep-backend/internal/modules/production/stats"
)

// YieldSample is one historical batch outcome. Percentages are of raw input
// weight; VariancePct is the fraction (actual-expected)/expected.
type YieldSample struct {
	BatchID          string    `json:"batch_id"`
	ExpectedYieldPct float64   `json:"expected_yield_pct"`
	ActualYieldPct   float64   `json:"actual_yield_pct"`
	VariancePct      float64   `json:"variance_pct"`
	Method           string    `json:"method,omitempty"`
	CutForm          string    `json:"cut_form,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

type OutlierResult struct {
	Clean    []YieldSample `json:"clean"`
	Outliers []YieldSample `json:"outliers"`
	Mean     float64       `json:"mean"`
	StdDev   float64       `json:"std_dev"`
}

// DetectOutliers splits samples on the z-score of ActualYieldPct. Input order is
// preserved in both halves.
func DetectOutliers(samples []YieldSample, p Params) OutlierResult {
	values := actuals(samples)
	out := OutlierResult{
		Clean:    make([]YieldSample, 0, len(samples)),
		Outliers: []YieldSample{},
		Mean:     stats.Mean(values),
		StdDev:   stats.SampleStdDev(values),
	}
	if len(samples) < p.MinSamplesForOutliers || out.StdDev == 0 {
		out.Clean = append(out.Clean, samples...)
		return out
	}
	for _, s := range samples {
		if stats.ZScore(s.ActualYieldPct, out.Mean, out.StdDev) > p.OutlierZThreshold {
			out.Outliers = append(out.Outliers, s)
			continue
		}
		out.Clean = append(out.Clean, s)
	}
	return out
}

func actuals(samples []YieldSample) []float64 {
	out := make([]float64, 0, len(samples))
	for _, s := range samples {
		out = append(out, s.ActualYieldPct)
	}
	return out
}
