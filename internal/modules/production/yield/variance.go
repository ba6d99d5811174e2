package yield

import "math"

const (
	VarianceNormal   = "normal"
	VarianceWarning  = "warning"
	VarianceCritical = "critical"
)

// ClassifyVariance buckets a variance fraction: |v| > critical, then > warning.
func ClassifyVariance(variancePct float64, p Params) string {
	abs := math.Abs(variancePct)
	switch {
	case abs > p.CriticalVariance:
		return VarianceCritical
	case abs > p.WarningVariance:
		return VarianceWarning
	default:
		return VarianceNormal
	}
}
