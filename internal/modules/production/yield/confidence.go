package yield

import (
	"math"

	"github.com/yungbote/mealprep-backend/internal/modules/production/stats"
)

// ComputeConfidence blends sample size and spread into a score in [0,1]:
//
//	sampleFactor      = min(1, base + (n-1)*step)
//	consistencyFactor = max(floor, 1 - stddev/scale)
//	confidence        = round(sampleFactor*consistencyFactor, 2)
//
// It is a heuristic, not a confidence interval.
func ComputeConfidence(clean []YieldSample, stddev float64, p Params) float64 {
	n := len(clean)
	if n == 0 {
		return 0
	}
	sampleFactor := math.Min(1, p.SampleFactorBase+float64(n-1)*p.SampleFactorStep)
	consistencyFactor := math.Max(p.ConsistencyFloor, 1-stddev/p.ConsistencyScale)
	return stats.Round(sampleFactor*consistencyFactor, 2)
}
