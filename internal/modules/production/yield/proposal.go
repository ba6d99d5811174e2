package yield

import (
	"fmt"
	"strings"

	"github.com/yungbote/mealprep-backend/internal/modules/production/stats"
)

const (
	BasisCalibrated = "calibrated"
	BasisDefault    = "default"

	ReasonNoData = "No yield data available"
)

// CalibrationProposal is advisory until a reviewer accepts it.
type CalibrationProposal struct {
	ComponentID            string  `json:"component_id"`
	ComponentName          string  `json:"component_name"`
	Method                 string  `json:"method,omitempty"`
	CutForm                string  `json:"cut_form,omitempty"`
	CurrentDefaultYieldPct float64 `json:"current_default_yield_pct"`
	ProposedYieldPct       float64 `json:"proposed_yield_pct"`
	Confidence             float64 `json:"confidence"`
	SampleCount            int     `json:"sample_count"`
	CleanSampleCount       int     `json:"clean_sample_count"`
	OutlierCount           int     `json:"outlier_count"`
	CleanMeanYieldPct      float64 `json:"clean_mean_yield_pct"`
	CleanStdDev            float64 `json:"clean_std_dev"`
	Basis                  string  `json:"basis"`
	Reason                 string  `json:"reason"`
}

// GenerateCalibrationProposal proposes a yield percent for a component from its
// batch history. The calibrated mean replaces the default only when both the
// clean-sample count and the confidence clear their minimums.
func GenerateCalibrationProposal(componentID, name string, currentDefaultYieldPct float64, samples []YieldSample, method, cutForm string, p Params) CalibrationProposal {
	prop := CalibrationProposal{
		ComponentID:            componentID,
		ComponentName:          name,
		Method:                 strings.TrimSpace(method),
		CutForm:                strings.TrimSpace(cutForm),
		CurrentDefaultYieldPct: currentDefaultYieldPct,
		ProposedYieldPct:       currentDefaultYieldPct,
		Basis:                  BasisDefault,
	}

	samples = filterSamples(samples, prop.Method, prop.CutForm)
	prop.SampleCount = len(samples)
	if len(samples) == 0 {
		prop.Reason = ReasonNoData
		return prop
	}

	detected := DetectOutliers(samples, p)
	cleanValues := actuals(detected.Clean)
	cleanMean := stats.Mean(cleanValues)
	cleanSD := stats.SampleStdDev(cleanValues)

	prop.CleanSampleCount = len(detected.Clean)
	prop.OutlierCount = len(detected.Outliers)
	prop.CleanMeanYieldPct = stats.Round(cleanMean, 2)
	prop.CleanStdDev = stats.Round(cleanSD, 2)
	prop.Confidence = ComputeConfidence(detected.Clean, cleanSD, p)

	switch {
	case prop.CleanSampleCount < p.MinCalibrateSamples:
		prop.Reason = fmt.Sprintf("Insufficient samples: %d clean of %d required; keeping default %.2f%%",
			prop.CleanSampleCount, p.MinCalibrateSamples, currentDefaultYieldPct)
	case prop.Confidence < p.MinConfidence:
		prop.Reason = fmt.Sprintf("Low confidence: %.2f below %.2f; keeping default %.2f%%",
			prop.Confidence, p.MinConfidence, currentDefaultYieldPct)
	default:
		prop.Basis = BasisCalibrated
		prop.ProposedYieldPct = stats.Round(cleanMean, 2)
		prop.Reason = fmt.Sprintf("Calibrated from %d samples (%d outliers excluded), mean %.2f%% vs default %.2f%%",
			prop.CleanSampleCount, prop.OutlierCount, prop.ProposedYieldPct, currentDefaultYieldPct)
	}
	return prop
}

// filterSamples keeps samples matching the requested method and cut form.
// Empty filters match everything.
func filterSamples(samples []YieldSample, method, cutForm string) []YieldSample {
	if method == "" && cutForm == "" {
		return samples
	}
	out := make([]YieldSample, 0, len(samples))
	for _, s := range samples {
		if method != "" && !strings.EqualFold(strings.TrimSpace(s.Method), method) {
			continue
		}
		if cutForm != "" && !strings.EqualFold(strings.TrimSpace(s.CutForm), cutForm) {
			continue
		}
		out = append(out, s)
	}
	return out
}
