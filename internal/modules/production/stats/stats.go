// Package stats holds the small set of descriptive statistics used by yield
// calibration.
package stats

import "math"

func Mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// SampleStdDev uses Bessel's correction (divisor n-1). Fewer than two values
// yield 0.
func SampleStdDev(xs []float64) float64 {
	n := len(xs)
	if n < 2 {
		return 0
	}
	m := Mean(xs)
	ss := 0.0
	for _, x := range xs {
		d := x - m
		ss += d * d
	}
	return math.Sqrt(ss / float64(n-1))
}

// ZScore returns |x-mean|/sd, or 0 when sd is 0.
func ZScore(x, mean, sd float64) float64 {
	if sd == 0 {
		return 0
	}
	return math.Abs(x-mean) / sd
}

// Round rounds half away from zero to the given number of decimal places.
func Round(x float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(x*p) / p
}
