package labels

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	EdgeSkuContainsIngredient       = "SKU_CONTAINS_INGREDIENT"
	EdgeSkuContainsRecipe           = "SKU_CONTAINS_RECIPE"
	EdgeRecipeUsesProduct           = "RECIPE_USES_PRODUCT"
	EdgeIngredientResolvedToProduct = "INGREDIENT_RESOLVED_TO_PRODUCT"
	EdgeProductConsumedFromLot      = "PRODUCT_CONSUMED_FROM_LOT"
)

// LabelLineageEdge links a label to a label it was computed from. Written once at
// freeze time.
type LabelLineageEdge struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	ParentLabelID uuid.UUID `gorm:"type:uuid;column:parent_label_id;not null;index" json:"parent_label_id"`
	ChildLabelID  uuid.UUID `gorm:"type:uuid;column:child_label_id;not null;index" json:"child_label_id"`
	EdgeType      string    `gorm:"column:edge_type;not null;default:''" json:"edge_type"`

	CreatedBy string    `gorm:"column:created_by;not null;default:''" json:"created_by"`
	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
}

func (LabelLineageEdge) TableName() string { return "label_lineage_edge" }

func (e *LabelLineageEdge) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
