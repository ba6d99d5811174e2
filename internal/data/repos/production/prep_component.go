package production

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/mealprep-backend/internal/domain"
	"github.com/yungbote/mealprep-backend/internal/platform/dbctx"
	"github.com/yungbote/mealprep-backend/internal/platform/logger"
)

type PrepComponentRepo interface {
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.PrepComponent, error)
	ListByOrganization(dbc dbctx.Context, orgID uuid.UUID) ([]*types.PrepComponent, error)
}

type prepComponentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPrepComponentRepo(db *gorm.DB, baseLog *logger.Logger) PrepComponentRepo {
	return &prepComponentRepo{
		db:  db,
		log: baseLog.With("repo", "PrepComponentRepo"),
	}
}

func (r *prepComponentRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.PrepComponent, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if id == uuid.Nil {
		return nil, nil
	}
	var out types.PrepComponent
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

func (r *prepComponentRepo) ListByOrganization(dbc dbctx.Context, orgID uuid.UUID) ([]*types.PrepComponent, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	out := []*types.PrepComponent{}
	if orgID == uuid.Nil {
		return out, nil
	}
	if err := transaction.WithContext(dbc.Ctx).
		Where("organization_id = ?", orgID).
		Order("name ASC, id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
