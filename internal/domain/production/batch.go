package production

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	BatchStatusPlanned    = "PLANNED"
	BatchStatusInPrep     = "IN_PREP"
	BatchStatusCooking    = "COOKING"
	BatchStatusChilling   = "CHILLING"
	BatchStatusPortioning = "PORTIONING"
	BatchStatusReady      = "READY"
	BatchStatusCompleted  = "COMPLETED"
	BatchStatusCancelled  = "CANCELLED"
)

// Batch is one production run of a prep component.
type Batch struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	OrganizationID  uuid.UUID `gorm:"type:uuid;not null;index" json:"organization_id"`
	PrepComponentID uuid.UUID `gorm:"type:uuid;column:prep_component_id;not null;index" json:"prep_component_id"`
	Status          string    `gorm:"column:status;not null;default:'PLANNED';index" json:"status"`

	RawInputG      float64  `gorm:"column:raw_input_g;not null;default:0" json:"raw_input_g"`
	ExpectedYieldG float64  `gorm:"column:expected_yield_g;not null;default:0" json:"expected_yield_g"`
	ActualYieldG   *float64 `gorm:"column:actual_yield_g" json:"actual_yield_g,omitempty"`

	Method  string `gorm:"column:method;not null;default:''" json:"method,omitempty"`
	CutForm string `gorm:"column:cut_form;not null;default:''" json:"cut_form,omitempty"`

	CompletedAt *time.Time `gorm:"column:completed_at;index" json:"completed_at,omitempty"`
	Version     int        `gorm:"column:version;not null;default:1" json:"version"`
	CreatedAt   time.Time  `gorm:"not null;index" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"not null" json:"updated_at"`
}

func (Batch) TableName() string { return "batch" }

func (b *Batch) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}
