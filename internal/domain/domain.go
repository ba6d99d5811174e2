package domain

import (
	"github.com/yungbote/mealprep-backend/internal/domain/labels"
	"github.com/yungbote/mealprep-backend/internal/domain/production"
)

type LabelSnapshot = labels.LabelSnapshot
type LabelLineageEdge = labels.LabelLineageEdge
type ProductCatalog = labels.ProductCatalog
type ProductNutrientValue = labels.ProductNutrientValue
type RenderPayload = labels.RenderPayload
type EvidenceSummary = labels.EvidenceSummary

var DecodeRenderPayload = labels.DecodeRenderPayload

const (
	EdgeSkuContainsIngredient       = labels.EdgeSkuContainsIngredient
	EdgeSkuContainsRecipe           = labels.EdgeSkuContainsRecipe
	EdgeRecipeUsesProduct           = labels.EdgeRecipeUsesProduct
	EdgeIngredientResolvedToProduct = labels.EdgeIngredientResolvedToProduct
)

const (
	LabelTypeSKU        = labels.LabelTypeSKU
	LabelTypeRecipe     = labels.LabelTypeRecipe
	LabelTypeProduct    = labels.LabelTypeProduct
	LabelTypeMeal       = labels.LabelTypeMeal
	LabelTypeIngredient = labels.LabelTypeIngredient
	LabelTypeLot        = labels.LabelTypeLot
)

type PrepComponent = production.PrepComponent
type Batch = production.Batch
type BatchCheckpoint = production.BatchCheckpoint

const (
	BatchStatusCompleted = production.BatchStatusCompleted
	BatchStatusCancelled = production.BatchStatusCancelled
)

// Models lists every table owned by this service, in migration order.
func Models() []any {
	return []any{
		&LabelSnapshot{},
		&LabelLineageEdge{},
		&ProductCatalog{},
		&ProductNutrientValue{},
		&PrepComponent{},
		&Batch{},
		&BatchCheckpoint{},
	}
}
