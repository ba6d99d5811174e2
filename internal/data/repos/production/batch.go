package production

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/mealprep-backend/internal/domain"
	"github.com/yungbote/mealprep-backend/internal/platform/dbctx"
	"github.com/yungbote/mealprep-backend/internal/platform/logger"
)

const defaultYieldOutcomeLimit = 200

type BatchRepo interface {
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Batch, error)
	ListYieldOutcomes(dbc dbctx.Context, prepComponentID uuid.UUID, limit int) ([]*types.Batch, error)
}

type batchRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewBatchRepo(db *gorm.DB, baseLog *logger.Logger) BatchRepo {
	return &batchRepo{
		db:  db,
		log: baseLog.With("repo", "BatchRepo"),
	}
}

func (r *batchRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Batch, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if id == uuid.Nil {
		return nil, nil
	}
	var out types.Batch
	if err := transaction.WithContext(dbc.Ctx).
		Where("id = ?", id).
		Limit(1).
		Find(&out).Error; err != nil {
		return nil, err
	}
	if out.ID == uuid.Nil {
		return nil, nil
	}
	return &out, nil
}

// ListYieldOutcomes returns the most recent completed batches of a prep component
// that recorded an actual yield.
func (r *batchRepo) ListYieldOutcomes(dbc dbctx.Context, prepComponentID uuid.UUID, limit int) ([]*types.Batch, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	out := []*types.Batch{}
	if prepComponentID == uuid.Nil {
		return out, nil
	}
	if limit <= 0 {
		limit = defaultYieldOutcomeLimit
	}
	if err := transaction.WithContext(dbc.Ctx).
		Where("prep_component_id = ? AND status = ? AND actual_yield_g IS NOT NULL AND raw_input_g > 0",
			prepComponentID, types.BatchStatusCompleted).
		Order("created_at DESC, id ASC").
		Limit(limit).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
