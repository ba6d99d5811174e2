package production

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/mealprep-backend/internal/domain"
	"github.com/yungbote/mealprep-backend/internal/platform/dbctx"
	"github.com/yungbote/mealprep-backend/internal/platform/logger"
)

type BatchCheckpointRepo interface {
	ListByBatchID(dbc dbctx.Context, batchID uuid.UUID) ([]*types.BatchCheckpoint, error)
	ListTypesByBatchID(dbc dbctx.Context, batchID uuid.UUID) ([]string, error)
}

type batchCheckpointRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewBatchCheckpointRepo(db *gorm.DB, baseLog *logger.Logger) BatchCheckpointRepo {
	return &batchCheckpointRepo{
		db:  db,
		log: baseLog.With("repo", "BatchCheckpointRepo"),
	}
}

func (r *batchCheckpointRepo) ListByBatchID(dbc dbctx.Context, batchID uuid.UUID) ([]*types.BatchCheckpoint, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	out := []*types.BatchCheckpoint{}
	if batchID == uuid.Nil {
		return out, nil
	}
	if err := transaction.WithContext(dbc.Ctx).
		Where("batch_id = ?", batchID).
		Order("recorded_at ASC, id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// ListTypesByBatchID returns the distinct checkpoint types recorded for a batch,
// in the order they were first recorded.
func (r *batchCheckpointRepo) ListTypesByBatchID(dbc dbctx.Context, batchID uuid.UUID) ([]string, error) {
	rows, err := r.ListByBatchID(dbc, batchID)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(rows))
	seen := map[string]struct{}{}
	for _, cp := range rows {
		if _, ok := seen[cp.CheckpointType]; ok {
			continue
		}
		seen[cp.CheckpointType] = struct{}{}
		out = append(out, cp.CheckpointType)
	}
	return out, nil
}
