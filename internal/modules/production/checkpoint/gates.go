// Package checkpoint validates batch status transitions against the checkpoints
// a batch must have recorded first.
package checkpoint

import (
	"github.com/yungbote/mealprep-backend/internal/domain/production"
)

// Gate lists the checkpoint types a batch needs before entering a status.
// Optional checkpoints never block; their absence is reported as a warning.
type Gate struct {
	Required []string `json:"required_checkpoints"`
	Optional []string `json:"optional_checkpoints"`
}

// gates is keyed by target batch status. Statuses without an entry are ungated.
var gates = map[string]Gate{
	production.BatchStatusInPrep: {
		Required: []string{},
		Optional: []string{production.CheckpointPrepStart},
	},
	production.BatchStatusCooking: {
		Required: []string{production.CheckpointCookStart},
		Optional: []string{production.CheckpointTempCheck},
	},
	production.BatchStatusChilling: {
		Required: []string{production.CheckpointCookEnd, production.CheckpointTempCheck},
		Optional: []string{production.CheckpointChillStart},
	},
	production.BatchStatusPortioning: {
		Required: []string{production.CheckpointChillComplete},
		Optional: []string{production.CheckpointWeightCheck},
	},
	production.BatchStatusReady: {
		Required: []string{production.CheckpointPortionComplete},
		Optional: []string{production.CheckpointQualityCheck},
	},
	production.BatchStatusCompleted: {
		Required: []string{production.CheckpointWeightCheck},
		Optional: []string{production.CheckpointLabelPrinted},
	},
}

// GateFor returns a copy of the gate for a status, so callers cannot mutate the table.
func GateFor(status string) (Gate, bool) {
	g, ok := gates[status]
	if !ok {
		return Gate{}, false
	}
	return Gate{
		Required: append([]string(nil), g.Required...),
		Optional: append([]string(nil), g.Optional...),
	}, true
}
