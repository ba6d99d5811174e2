package labels

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/mealprep-backend/internal/domain"
	"github.com/yungbote/mealprep-backend/internal/platform/dbctx"
	"github.com/yungbote/mealprep-backend/internal/platform/logger"
)

type LabelLineageEdgeRepo interface {
	ListByParentID(dbc dbctx.Context, parentID uuid.UUID) ([]*types.LabelLineageEdge, error)
}

type labelLineageEdgeRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLabelLineageEdgeRepo(db *gorm.DB, baseLog *logger.Logger) LabelLineageEdgeRepo {
	return &labelLineageEdgeRepo{
		db:  db,
		log: baseLog.With("repo", "LabelLineageEdgeRepo"),
	}
}

func (r *labelLineageEdgeRepo) ListByParentID(dbc dbctx.Context, parentID uuid.UUID) ([]*types.LabelLineageEdge, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	out := []*types.LabelLineageEdge{}
	if parentID == uuid.Nil {
		return out, nil
	}
	if err := transaction.WithContext(dbc.Ctx).
		Where("parent_label_id = ?", parentID).
		Order("created_at ASC, id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
