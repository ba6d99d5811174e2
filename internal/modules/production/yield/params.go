package yield

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Params holds every tunable used by calibration. The defaults were tuned
// together with downstream review thresholds; change them via config, not code.
type Params struct {
	// OutlierZThreshold flags samples whose |z| exceeds it.
	OutlierZThreshold float64 `yaml:"outlier_z_threshold"`
	// MinSamplesForOutliers is the population size below which nothing is flagged.
	MinSamplesForOutliers int `yaml:"min_samples_for_outliers"`

	SampleFactorBase float64 `yaml:"sample_factor_base"`
	SampleFactorStep float64 `yaml:"sample_factor_step"`
	// ConsistencyScale is the stddev (in yield percentage points) at which
	// consistency reaches zero before flooring.
	ConsistencyScale float64 `yaml:"consistency_scale"`
	ConsistencyFloor float64 `yaml:"consistency_floor"`

	MinConfidence       float64 `yaml:"min_confidence"`
	MinCalibrateSamples int     `yaml:"min_calibrate_samples"`

	WarningVariance  float64 `yaml:"warning_variance"`
	CriticalVariance float64 `yaml:"critical_variance"`
}

func DefaultParams() Params {
	return Params{
		OutlierZThreshold:     2.0,
		MinSamplesForOutliers: 3,
		SampleFactorBase:      0.3,
		SampleFactorStep:      0.175,
		ConsistencyScale:      15,
		ConsistencyFloor:      0.3,
		MinConfidence:         0.6,
		MinCalibrateSamples:   3,
		WarningVariance:       0.15,
		CriticalVariance:      0.30,
	}
}

// LoadParams reads YAML overrides on top of DefaultParams. An empty path returns
// the defaults. Keys absent from the file keep their default value.
func LoadParams(path string) (Params, error) {
	p := DefaultParams()
	path = strings.TrimSpace(path)
	if path == "" {
		return p, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return p, fmt.Errorf("read calibration params: %w", err)
	}
	if err := yaml.Unmarshal(raw, &p); err != nil {
		return DefaultParams(), fmt.Errorf("parse calibration params: %w", err)
	}
	if err := p.Validate(); err != nil {
		return DefaultParams(), err
	}
	return p, nil
}

func (p Params) Validate() error {
	switch {
	case p.OutlierZThreshold <= 0:
		return fmt.Errorf("calibration params: outlier_z_threshold must be > 0")
	case p.ConsistencyScale <= 0:
		return fmt.Errorf("calibration params: consistency_scale must be > 0")
	case p.MinConfidence < 0 || p.MinConfidence > 1:
		return fmt.Errorf("calibration params: min_confidence must be within [0,1]")
	case p.WarningVariance < 0 || p.CriticalVariance < p.WarningVariance:
		return fmt.Errorf("calibration params: need 0 <= warning_variance <= critical_variance")
	}
	return nil
}
