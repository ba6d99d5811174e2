package services

import (
	"net/http"
	"testing"

	"github.com/google/uuid"

	types "github.com/yungbote/mealprep-backend/internal/domain"
	"github.com/yungbote/mealprep-backend/internal/platform/logger"
)

func TestCheckGate(t *testing.T) {
	orgID := uuid.New()
	batch := &types.Batch{ID: uuid.New(), OrganizationID: orgID, Status: "IN_PREP"}
	cps := &fakeCheckpointRepo{byBatch: map[uuid.UUID][]string{}}
	svc := NewBatchGateService(nil, logger.Nop(), &fakeBatchRepo{batches: []*types.Batch{batch}}, cps)

	res, err := svc.CheckGate(orgCtx(orgID), batch.ID, "COOKING")
	if err != nil {
		t.Fatalf("CheckGate: %v", err)
	}
	if res.Valid || len(res.Missing) != 1 || res.Missing[0] != "COOK_START" || len(res.Warnings) != 1 {
		t.Fatalf("unexpected result: %+v", res)
	}

	cps.byBatch[batch.ID] = []string{"COOK_START", "TEMP_CHECK"}
	res, err = svc.CheckGate(orgCtx(orgID), batch.ID, "cooking")
	if err != nil {
		t.Fatalf("CheckGate: %v", err)
	}
	if !res.Valid || len(res.Warnings) != 0 {
		t.Fatalf("expected gate to pass: %+v", res)
	}
}

func TestCheckGateErrors(t *testing.T) {
	orgID := uuid.New()
	batch := &types.Batch{ID: uuid.New(), OrganizationID: orgID}
	svc := NewBatchGateService(nil, logger.Nop(), &fakeBatchRepo{batches: []*types.Batch{batch}}, &fakeCheckpointRepo{})

	if _, err := svc.CheckGate(orgCtx(orgID), batch.ID, " "); statusOf(err) != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
	if _, err := svc.CheckGate(orgCtx(orgID), uuid.New(), "COOKING"); statusOf(err) != http.StatusNotFound {
		t.Fatalf("expected 404 for missing batch, got %v", err)
	}
	if _, err := svc.CheckGate(orgCtx(uuid.New()), batch.ID, "COOKING"); statusOf(err) != http.StatusNotFound {
		t.Fatalf("expected 404 for another org, got %v", err)
	}
}
