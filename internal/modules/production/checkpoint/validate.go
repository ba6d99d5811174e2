package checkpoint

import (
	"fmt"
	"strings"
)

type Result struct {
	TargetStatus string   `json:"target_status"`
	Valid        bool     `json:"valid"`
	Missing      []string `json:"missing"`
	Warnings     []string `json:"warnings"`
}

// ValidateGate checks existing checkpoint types against the gate for
// targetStatus. Missing and Warnings follow gate table order.
func ValidateGate(targetStatus string, existing []string) Result {
	targetStatus = strings.ToUpper(strings.TrimSpace(targetStatus))
	res := Result{
		TargetStatus: targetStatus,
		Valid:        true,
		Missing:      []string{},
		Warnings:     []string{},
	}
	gate, ok := gates[targetStatus]
	if !ok {
		return res
	}

	have := make(map[string]struct{}, len(existing))
	for _, ct := range existing {
		have[strings.ToUpper(strings.TrimSpace(ct))] = struct{}{}
	}
	for _, req := range gate.Required {
		if _, ok := have[req]; !ok {
			res.Missing = append(res.Missing, req)
		}
	}
	for _, opt := range gate.Optional {
		if _, ok := have[opt]; !ok {
			res.Warnings = append(res.Warnings, fmt.Sprintf("Optional checkpoint %s not recorded before %s", opt, targetStatus))
		}
	}
	res.Valid = len(res.Missing) == 0
	return res
}
