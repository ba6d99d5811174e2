package sweep

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	"github.com/yungbote/mealprep-backend/internal/modules/labels/lineage"
	"github.com/yungbote/mealprep-backend/internal/modules/production/yield"
	"github.com/yungbote/mealprep-backend/internal/platform/apierr"
	"github.com/yungbote/mealprep-backend/internal/platform/ctxutil"
	"github.com/yungbote/mealprep-backend/internal/platform/logger"
)

type StaleLister interface {
	ListStale(ctx context.Context, limit int) ([]lineage.StaleLabel, error)
}

type Calibrator interface {
	ProposeAll(ctx context.Context) ([]yield.CalibrationProposal, error)
}

// Activities run the read-only halves of a sweep under the swept organization's identity.
type Activities struct {
	Log    *logger.Logger
	Labels StaleLister
	Yield  Calibrator
}

func (a *Activities) ListStale(ctx context.Context, in Input) (StaleSummary, error) {
	var out StaleSummary
	if a == nil || a.Labels == nil {
		return out, temporal.NewNonRetryableApplicationError("sweep: stale lister not configured", "config", nil)
	}
	orgCtx, err := orgContext(ctx, in.OrganizationID)
	if err != nil {
		return out, err
	}

	stale, err := a.Labels.ListStale(orgCtx, in.StaleLimit)
	if err != nil {
		return out, classify("list stale labels", err)
	}
	out.Count = len(stale)
	for _, s := range stale {
		out.LabelIDs = append(out.LabelIDs, s.LabelID.String())
		if s.StaleDays > out.MaxDays {
			out.MaxDays = s.StaleDays
		}
	}
	if a.Log != nil && out.Count > 0 {
		a.Log.Info("Provenance sweep found stale labels", "organization_id", in.OrganizationID, "count", out.Count, "max_stale_days", out.MaxDays)
	}
	return out, nil
}

func (a *Activities) Calibrate(ctx context.Context, in Input) (CalibrationSummary, error) {
	var out CalibrationSummary
	if a == nil || a.Yield == nil {
		return out, temporal.NewNonRetryableApplicationError("sweep: calibrator not configured", "config", nil)
	}
	orgCtx, err := orgContext(ctx, in.OrganizationID)
	if err != nil {
		return out, err
	}

	props, err := a.Yield.ProposeAll(orgCtx)
	if err != nil {
		return out, classify("propose calibrations", err)
	}
	out.Proposals = len(props)
	for _, p := range props {
		if p.Basis != yield.BasisCalibrated {
			continue
		}
		out.Calibrated++
		if p.ProposedYieldPct != p.CurrentDefaultYieldPct {
			out.Drifted++
		}
	}
	return out, nil
}

func orgContext(ctx context.Context, raw string) (context.Context, error) {
	orgID, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil || orgID == uuid.Nil {
		return nil, temporal.NewNonRetryableApplicationError(fmt.Sprintf("sweep: invalid organization_id %q", raw), "invalid_input", err)
	}
	if activity.IsActivity(ctx) {
		activity.RecordHeartbeat(ctx, orgID.String())
	}
	return ctxutil.WithRequestData(ctx, &ctxutil.RequestData{OrganizationID: orgID}), nil
}

// classify marks client errors non-retryable so a bad org or missing row does not loop.
func classify(op string, err error) error {
	var ae *apierr.Error
	if errors.As(err, &ae) && ae.Status >= 400 && ae.Status < 500 {
		return temporal.NewNonRetryableApplicationError(fmt.Sprintf("sweep: %s: %v", op, err), ae.Code, err)
	}
	return fmt.Errorf("sweep: %s: %w", op, err)
}
