package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"

	"github.com/yungbote/mealprep-backend/internal/data/repos"
	"github.com/yungbote/mealprep-backend/internal/modules/production/checkpoint"
	"github.com/yungbote/mealprep-backend/internal/observability"
	"github.com/yungbote/mealprep-backend/internal/platform/apierr"
	"github.com/yungbote/mealprep-backend/internal/platform/dbctx"
	"github.com/yungbote/mealprep-backend/internal/platform/logger"
)

var (
	errBatchNotFound       = errors.New("batch not found")
	errMissingTargetStatus = errors.New("target_status is required")
)

type BatchGateService interface {
	CheckGate(ctx context.Context, batchID uuid.UUID, targetStatus string) (*checkpoint.Result, error)
}

type batchGateService struct {
	db          *gorm.DB
	log         *logger.Logger
	batches     repos.BatchRepo
	checkpoints repos.BatchCheckpointRepo
}

func NewBatchGateService(db *gorm.DB, log *logger.Logger, batches repos.BatchRepo, checkpoints repos.BatchCheckpointRepo) BatchGateService {
	return &batchGateService{
		db:          db,
		log:         log.With("service", "BatchGateService"),
		batches:     batches,
		checkpoints: checkpoints,
	}
}

func (s *batchGateService) CheckGate(ctx context.Context, batchID uuid.UUID, targetStatus string) (out *checkpoint.Result, err error) {
	ctx, span := startSpan(ctx, "BatchGate.CheckGate",
		attribute.String("batch.id", batchID.String()),
		attribute.String("batch.target_status", targetStatus),
	)
	defer func() { endSpan(span, err) }()

	if strings.TrimSpace(targetStatus) == "" {
		return nil, apierr.BadRequest("missing_target_status", errMissingTargetStatus)
	}
	rd, err := requireOrg(ctx)
	if err != nil {
		return nil, err
	}
	dbc := dbctx.Context{Ctx: ctx, Tx: s.db}
	batch, err := s.batches.GetByID(dbc, batchID)
	if err != nil {
		return nil, apierr.Internal("batch_lookup_failed", err)
	}
	if batch == nil || batch.OrganizationID != rd.OrganizationID {
		return nil, apierr.NotFound("batch_not_found", errBatchNotFound)
	}
	existing, err := s.checkpoints.ListTypesByBatchID(dbc, batchID)
	if err != nil {
		return nil, apierr.Internal("checkpoint_lookup_failed", err)
	}

	res := checkpoint.ValidateGate(targetStatus, existing)
	span.SetAttributes(attribute.Bool("gate.valid", res.Valid), attribute.Int("gate.missing", len(res.Missing)))
	observability.Current().IncGateCheck(res.TargetStatus, res.Valid)
	if !res.Valid {
		s.log.Info("Batch gate blocked",
			"batch_id", batchID.String(),
			"from_status", batch.Status,
			"target_status", res.TargetStatus,
			"missing", res.Missing,
		)
	}
	return &res, nil
}
