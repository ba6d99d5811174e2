package labels

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/mealprep-backend/internal/data/db"
	types "github.com/yungbote/mealprep-backend/internal/domain"
	"github.com/yungbote/mealprep-backend/internal/platform/dbctx"
	"github.com/yungbote/mealprep-backend/internal/platform/logger"
)

// StaleLabelRow is one stale SKU label with its most recent offending nutrient edit.
type StaleLabelRow struct {
	LabelID           uuid.UUID
	Title             string
	FrozenAt          time.Time
	ProductID         uuid.UUID
	ProductName       string
	NutrientUpdatedAt time.Time
}

type LabelSnapshotRepo interface {
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.LabelSnapshot, error)
	GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.LabelSnapshot, error)
	ListByKey(dbc dbctx.Context, orgID uuid.UUID, labelType string, externalRefID string) ([]*types.LabelSnapshot, error)
	ListStale(dbc dbctx.Context, orgID uuid.UUID, maxDepth int, limit int) ([]StaleLabelRow, error)
}

type labelSnapshotRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLabelSnapshotRepo(db *gorm.DB, baseLog *logger.Logger) LabelSnapshotRepo {
	return &labelSnapshotRepo{
		db:  db,
		log: baseLog.With("repo", "LabelSnapshotRepo"),
	}
}

func (r *labelSnapshotRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.LabelSnapshot, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if id == uuid.Nil {
		return nil, nil
	}
	var out types.LabelSnapshot
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

func (r *labelSnapshotRepo) GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.LabelSnapshot, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	out := []*types.LabelSnapshot{}
	if len(ids) == 0 {
		return out, nil
	}
	if err := transaction.WithContext(dbc.Ctx).
		Where("id IN ?", ids).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// ListByKey returns every version of a label, newest first.
func (r *labelSnapshotRepo) ListByKey(dbc dbctx.Context, orgID uuid.UUID, labelType string, externalRefID string) ([]*types.LabelSnapshot, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	out := []*types.LabelSnapshot{}
	if orgID == uuid.Nil || labelType == "" || externalRefID == "" {
		return out, nil
	}
	if err := transaction.WithContext(dbc.Ctx).
		Where("organization_id = ? AND label_type = ? AND external_ref_id = ?", orgID, labelType, externalRefID).
		Order("COALESCE(frozen_at, created_at) DESC, id DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// staleLabelsSQL walks lineage edges from every frozen SKU label of an
// organization up to a depth bound, keeps PRODUCT descendants whose product has
// a nutrient row edited after the SKU was frozen, and reports the most recent
// such edit per SKU label.
const staleLabelsSQL = `
WITH RECURSIVE descendants AS (
  SELECT l.id AS root_id, e.child_label_id AS label_id, 1 AS depth
  FROM label_snapshot l
  JOIN label_lineage_edge e ON e.parent_label_id = l.id
  WHERE l.organization_id = ? AND l.label_type = ? AND l.frozen_at IS NOT NULL
  UNION
  SELECT d.root_id, e.child_label_id, d.depth + 1
  FROM descendants d
  JOIN label_lineage_edge e ON e.parent_label_id = d.label_id
  WHERE d.depth < ?
),
offending AS (
  SELECT d.root_id, pc.id AS product_id, pc.name AS product_name, MAX(pnv.updated_at) AS nutrient_updated_at
  FROM descendants d
  JOIN label_snapshot child ON child.id = d.label_id AND child.label_type = ?
  JOIN product_catalog pc ON CAST(pc.id AS TEXT) = child.external_ref_id
  JOIN product_nutrient_value pnv ON pnv.product_id = pc.id
  JOIN label_snapshot root ON root.id = d.root_id
  WHERE pnv.updated_at > root.frozen_at
  GROUP BY d.root_id, pc.id, pc.name
),
ranked AS (
  SELECT o.*, ROW_NUMBER() OVER (
    PARTITION BY o.root_id ORDER BY o.nutrient_updated_at DESC, o.product_id ASC
  ) AS rn
  FROM offending o
)
SELECT root.id AS label_id, root.title AS title, root.frozen_at AS frozen_at,
  r.product_id AS product_id, r.product_name AS product_name, r.nutrient_updated_at AS nutrient_updated_at
FROM ranked r
JOIN label_snapshot root ON root.id = r.root_id
WHERE r.rn = 1
ORDER BY r.nutrient_updated_at DESC, root.id ASC
LIMIT ?
`

func (r *labelSnapshotRepo) ListStale(dbc dbctx.Context, orgID uuid.UUID, maxDepth int, limit int) ([]StaleLabelRow, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	out := []StaleLabelRow{}
	if orgID == uuid.Nil {
		return out, nil
	}
	if maxDepth <= 0 {
		maxDepth = 16
	}
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	var scanned []staleLabelScan
	if err := transaction.WithContext(dbc.Ctx).
		Raw(staleLabelsSQL, orgID, types.LabelTypeSKU, maxDepth, types.LabelTypeProduct, limit).
		Scan(&scanned).Error; err != nil {
		if db.IsQueryCanceled(err) {
			return nil, fmt.Errorf("list stale labels: %w: %w", context.DeadlineExceeded, err)
		}
		return nil, err
	}
	for _, s := range scanned {
		out = append(out, StaleLabelRow{
			LabelID:           s.LabelID,
			Title:             s.Title,
			FrozenAt:          s.FrozenAt.Time,
			ProductID:         s.ProductID,
			ProductName:       s.ProductName,
			NutrientUpdatedAt: s.NutrientUpdatedAt.Time,
		})
	}
	return out, nil
}

// staleLabelScan receives ListStale rows. SQLite returns MAX(updated_at) as text.
type staleLabelScan struct {
	LabelID           uuid.UUID    `gorm:"column:label_id"`
	Title             string       `gorm:"column:title"`
	FrozenAt          db.Timestamp `gorm:"column:frozen_at"`
	ProductID         uuid.UUID    `gorm:"column:product_id"`
	ProductName       string       `gorm:"column:product_name"`
	NutrientUpdatedAt db.Timestamp `gorm:"column:nutrient_updated_at"`
}
