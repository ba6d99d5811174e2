package sweep

import (
	"fmt"
	"strings"
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"
)

// Workflow runs one provenance sweep for a single organization: a staleness scan,
// then optionally yield calibration proposals. Both steps are read-only.
func Workflow(ctx workflow.Context, in Input) (Result, error) {
	res := Result{OrganizationID: strings.TrimSpace(in.OrganizationID)}
	if res.OrganizationID == "" {
		return res, fmt.Errorf("sweep: missing organization_id")
	}

	ctx = workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: 5 * time.Minute,
		HeartbeatTimeout:    time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    5 * time.Second,
			BackoffCoefficient: 2,
			MaximumInterval:    time.Minute,
			MaximumAttempts:    5,
		},
	})

	if err := workflow.ExecuteActivity(ctx, ActivityListStale, in).Get(ctx, &res.Stale); err != nil {
		return res, err
	}

	if in.Calibrate {
		var cal CalibrationSummary
		if err := workflow.ExecuteActivity(ctx, ActivityCalibrate, in).Get(ctx, &cal); err != nil {
			return res, err
		}
		res.Calibration = &cal
	}

	workflow.GetLogger(ctx).Info("Provenance sweep finished",
		"organization_id", res.OrganizationID,
		"stale", res.Stale.Count,
		"calibrated", in.Calibrate,
	)
	return res, nil
}

// WorkflowID is stable per organization so a scheduled sweep is started at most once.
func WorkflowID(orgID string) string {
	return "provenance-sweep-" + strings.TrimSpace(orgID)
}
