package labels

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Evidence grades for a nutrient value, strongest first.
const (
	GradeVerifiedLabel              = "VERIFIED_LABEL"
	GradeVerifiedLab                = "VERIFIED_LAB"
	GradePublicDatabase             = "PUBLIC_DATABASE"
	GradeInferredFromIngredient     = "INFERRED_FROM_INGREDIENT"
	GradeInferredFromSimilarProduct = "INFERRED_FROM_SIMILAR_PRODUCT"
	GradeHistoricalException        = "HISTORICAL_EXCEPTION"
)

const (
	VerificationVerified    = "VERIFIED"
	VerificationNeedsReview = "NEEDS_REVIEW"
)

// ProductCatalog is a purchasable product an ingredient resolves to. PRODUCT-level
// labels carry the product id as their external_ref_id.
type ProductCatalog struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	OrganizationID uuid.UUID `gorm:"type:uuid;not null;index" json:"organization_id"`
	IngredientID   uuid.UUID `gorm:"type:uuid;column:ingredient_id;index" json:"ingredient_id"`
	Name           string    `gorm:"column:name;not null" json:"name"`
	UPC            string    `gorm:"column:upc;index" json:"upc,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (ProductCatalog) TableName() string { return "product_catalog" }

func (p *ProductCatalog) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// ProductNutrientValue is one nutrient per 100 g for a product. Edits bump
// updated_at, which is what staleness detection compares against frozen labels.
type ProductNutrientValue struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	ProductID   uuid.UUID `gorm:"type:uuid;column:product_id;not null;index:idx_pnv_product_key,unique,priority:1" json:"product_id"`
	NutrientKey string    `gorm:"column:nutrient_key;not null;index:idx_pnv_product_key,unique,priority:2" json:"nutrient_key"`

	ValuePer100g *float64 `gorm:"column:value_per_100g" json:"value_per_100g,omitempty"`

	SourceType         string  `gorm:"column:source_type;not null;default:''" json:"source_type"`
	SourceRef          string  `gorm:"column:source_ref;not null;default:''" json:"source_ref"`
	EvidenceGrade      string  `gorm:"column:evidence_grade;not null;default:''" json:"evidence_grade"`
	VerificationStatus string  `gorm:"column:verification_status;not null;default:''" json:"verification_status"`
	Confidence         float64 `gorm:"column:confidence;not null;default:0" json:"confidence"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;index" json:"updated_at"`
}

func (ProductNutrientValue) TableName() string { return "product_nutrient_value" }

func (v *ProductNutrientValue) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}
