package production

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PrepComponent is a prepared element (roasted chicken thigh, cooked rice) with a
// default yield factor expressed as a percent of raw input weight.
type PrepComponent struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	OrganizationID  uuid.UUID `gorm:"type:uuid;not null;index" json:"organization_id"`
	Name            string    `gorm:"column:name;not null" json:"name"`
	DefaultYieldPct float64   `gorm:"column:default_yield_pct;not null;default:100" json:"default_yield_pct"`
	Method          string    `gorm:"column:method;not null;default:''" json:"method,omitempty"`
	CutForm         string    `gorm:"column:cut_form;not null;default:''" json:"cut_form,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (PrepComponent) TableName() string { return "prep_component" }

func (p *PrepComponent) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
