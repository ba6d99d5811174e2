package recompute

import (
	"fmt"
	"math"
	"strings"
)

const (
	CheckFrozenTimestampPresent = "frozen_timestamp_present"
	CheckServingsPositive       = "servings_positive"
	CheckServingWeightPositive  = "serving_weight_positive"
	CheckCoreNutrientsPresent   = "core_nutrients_present"
)

type Check struct {
	Check   string `json:"check"`
	Passed  bool   `json:"passed"`
	Message string `json:"message,omitempty"`
}

// RunIntegrityChecks evaluates each check independently; failures are reported,
// never returned as errors.
func RunIntegrityChecks(snapshot SnapshotData) []Check {
	checks := make([]Check, 0, 4)

	c := Check{Check: CheckFrozenTimestampPresent, Passed: snapshot.FrozenAt != nil && !snapshot.FrozenAt.IsZero()}
	if !c.Passed {
		c.Message = "Snapshot has no frozen timestamp"
	}
	checks = append(checks, c)

	c = Check{Check: CheckServingsPositive, Passed: snapshot.Servings > 0}
	if !c.Passed {
		c.Message = fmt.Sprintf("Servings must be positive, got %s", formatNumber(snapshot.Servings))
	}
	checks = append(checks, c)

	c = Check{Check: CheckServingWeightPositive, Passed: snapshot.ServingWeightG > 0}
	if !c.Passed {
		c.Message = fmt.Sprintf("Serving weight must be positive, got %sg", formatNumber(snapshot.ServingWeightG))
	}
	checks = append(checks, c)

	var missing []string
	for _, k := range CoreNutrients {
		v, ok := snapshot.PerServing[k]
		if !ok || v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
			missing = append(missing, k)
		}
	}
	c = Check{Check: CheckCoreNutrientsPresent, Passed: len(missing) == 0}
	if !c.Passed {
		c.Message = "Missing core nutrients: " + strings.Join(missing, ", ")
	}
	checks = append(checks, c)

	return checks
}
