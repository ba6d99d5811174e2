package sweep

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/testsuite"

	"github.com/yungbote/mealprep-backend/internal/modules/labels/lineage"
	"github.com/yungbote/mealprep-backend/internal/modules/production/yield"
	"github.com/yungbote/mealprep-backend/internal/platform/apierr"
	"github.com/yungbote/mealprep-backend/internal/platform/ctxutil"
	"github.com/yungbote/mealprep-backend/internal/platform/logger"
)

type stubLabels struct {
	seenOrg   uuid.UUID
	seenLimit int
	out       []lineage.StaleLabel
	err       error
}

func (s *stubLabels) ListStale(ctx context.Context, limit int) ([]lineage.StaleLabel, error) {
	if rd := ctxutil.GetRequestData(ctx); rd != nil {
		s.seenOrg = rd.OrganizationID
	}
	s.seenLimit = limit
	return s.out, s.err
}

type stubYield struct {
	calls int
	out   []yield.CalibrationProposal
}

func (s *stubYield) ProposeAll(context.Context) ([]yield.CalibrationProposal, error) {
	s.calls++
	return s.out, nil
}

func newEnv(t *testing.T, acts *Activities) *testsuite.TestWorkflowEnvironment {
	t.Helper()
	var suite testsuite.WorkflowTestSuite
	env := suite.NewTestWorkflowEnvironment()
	env.RegisterActivityWithOptions(acts.ListStale, activity.RegisterOptions{Name: ActivityListStale})
	env.RegisterActivityWithOptions(acts.Calibrate, activity.RegisterOptions{Name: ActivityCalibrate})
	return env
}

func TestWorkflowStaleAndCalibrate(t *testing.T) {
	orgID := uuid.New()
	first, second := uuid.New(), uuid.New()
	labels := &stubLabels{out: []lineage.StaleLabel{
		{LabelID: first, StaleDays: 3},
		{LabelID: second, StaleDays: 12},
	}}
	cal := &stubYield{out: []yield.CalibrationProposal{
		{Basis: yield.BasisDefault, CurrentDefaultYieldPct: 80, ProposedYieldPct: 80},
		{Basis: yield.BasisCalibrated, CurrentDefaultYieldPct: 80, ProposedYieldPct: 74.5},
		{Basis: yield.BasisCalibrated, CurrentDefaultYieldPct: 90, ProposedYieldPct: 90},
	}}
	env := newEnv(t, &Activities{Log: logger.Nop(), Labels: labels, Yield: cal})

	env.ExecuteWorkflow(Workflow, Input{OrganizationID: orgID.String(), StaleLimit: 25, Calibrate: true})
	if !env.IsWorkflowCompleted() {
		t.Fatalf("workflow did not complete")
	}
	if err := env.GetWorkflowError(); err != nil {
		t.Fatalf("workflow error: %v", err)
	}
	var res Result
	if err := env.GetWorkflowResult(&res); err != nil {
		t.Fatalf("result: %v", err)
	}

	if labels.seenOrg != orgID || labels.seenLimit != 25 {
		t.Fatalf("activity ran as org=%s limit=%d", labels.seenOrg, labels.seenLimit)
	}
	if res.Stale.Count != 2 || res.Stale.MaxDays != 12 {
		t.Fatalf("stale summary: %+v", res.Stale)
	}
	if len(res.Stale.LabelIDs) != 2 || res.Stale.LabelIDs[0] != first.String() {
		t.Fatalf("stale label ids out of order: %v", res.Stale.LabelIDs)
	}
	if res.Calibration == nil {
		t.Fatalf("expected calibration summary")
	}
	if *res.Calibration != (CalibrationSummary{Proposals: 3, Calibrated: 2, Drifted: 1}) {
		t.Fatalf("calibration summary: %+v", *res.Calibration)
	}
}

func TestWorkflowSkipsCalibrationUnlessAsked(t *testing.T) {
	cal := &stubYield{}
	env := newEnv(t, &Activities{Labels: &stubLabels{}, Yield: cal})

	env.ExecuteWorkflow(Workflow, Input{OrganizationID: uuid.NewString()})
	var res Result
	if err := env.GetWorkflowResult(&res); err != nil {
		t.Fatalf("result: %v", err)
	}
	if cal.calls != 0 || res.Calibration != nil {
		t.Fatalf("calibration should not run: calls=%d res=%+v", cal.calls, res.Calibration)
	}
}

func TestWorkflowRejectsInvalidOrg(t *testing.T) {
	labels := &stubLabels{}
	env := newEnv(t, &Activities{Labels: labels, Yield: &stubYield{}})

	env.ExecuteWorkflow(Workflow, Input{OrganizationID: "not-a-uuid"})
	err := env.GetWorkflowError()
	if err == nil {
		t.Fatalf("expected workflow error for invalid org")
	}
	var appErr *temporal.ApplicationError
	if !errors.As(err, &appErr) || !appErr.NonRetryable() {
		t.Fatalf("expected non-retryable application error, got %v", err)
	}
	if labels.seenOrg != uuid.Nil {
		t.Fatalf("lister must not run for an invalid org")
	}
}

func TestWorkflowMissingOrg(t *testing.T) {
	env := newEnv(t, &Activities{Labels: &stubLabels{}, Yield: &stubYield{}})
	env.ExecuteWorkflow(Workflow, Input{})
	if env.GetWorkflowError() == nil {
		t.Fatalf("expected error for missing organization_id")
	}
}

func TestClassify(t *testing.T) {
	var appErr *temporal.ApplicationError

	err := classify("list", apierr.New(http.StatusForbidden, "forbidden", errors.New("nope")))
	if !errors.As(err, &appErr) || !appErr.NonRetryable() {
		t.Fatalf("4xx should be non-retryable, got %v", err)
	}

	timeout := apierr.New(http.StatusGatewayTimeout, "stale_query_timeout", context.DeadlineExceeded)
	err = classify("list", timeout)
	if errors.As(err, &appErr) {
		t.Fatalf("5xx should stay retryable, got %v", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("cause should be preserved: %v", err)
	}
}

func TestWorkflowID(t *testing.T) {
	if got := WorkflowID(" abc "); got != "provenance-sweep-abc" {
		t.Fatalf("workflow id: %q", got)
	}
}
