package labels

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	LabelTypeSKU        = "SKU"
	LabelTypeRecipe     = "RECIPE"
	LabelTypeProduct    = "PRODUCT"
	LabelTypeMeal       = "MEAL"
	LabelTypeIngredient = "INGREDIENT"
	LabelTypeLot        = "LOT"
)

// LabelSnapshot is a frozen nutrition label. Rows are append-only: a changed label
// is a new row sharing (organization_id, label_type, external_ref_id).
type LabelSnapshot struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	OrganizationID uuid.UUID `gorm:"type:uuid;not null;index:idx_label_snapshot_key,priority:1" json:"organization_id"`
	LabelType      string    `gorm:"column:label_type;not null;index:idx_label_snapshot_key,priority:2" json:"label_type"`
	ExternalRefID  string    `gorm:"column:external_ref_id;not null;index:idx_label_snapshot_key,priority:3" json:"external_ref_id"`

	Title string `gorm:"column:title;not null;default:''" json:"title"`

	// RenderPayload holds perServing, servingWeightG, servings, provisional,
	// reasonCodes and evidenceSummary. See RenderPayload.
	RenderPayload datatypes.JSON `gorm:"column:render_payload" json:"render_payload"`

	FrozenAt *time.Time `gorm:"column:frozen_at;index" json:"frozen_at,omitempty"`

	Version   int       `gorm:"column:version;not null;default:1" json:"version"`
	CreatedBy string    `gorm:"column:created_by;not null;default:''" json:"created_by"`
	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (LabelSnapshot) TableName() string { return "label_snapshot" }

func (l *LabelSnapshot) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// VersionTime is the timestamp used to order versions of the same label key:
// frozen_at when set, created_at otherwise.
func (l *LabelSnapshot) VersionTime() time.Time {
	if l == nil {
		return time.Time{}
	}
	if l.FrozenAt != nil && !l.FrozenAt.IsZero() {
		return *l.FrozenAt
	}
	return l.CreatedAt
}
