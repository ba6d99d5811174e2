package production

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	CheckpointPrepStart       = "PREP_START"
	CheckpointCookStart       = "COOK_START"
	CheckpointTempCheck       = "TEMP_CHECK"
	CheckpointCookEnd         = "COOK_END"
	CheckpointChillStart      = "CHILL_START"
	CheckpointChillComplete   = "CHILL_COMPLETE"
	CheckpointWeightCheck     = "WEIGHT_CHECK"
	CheckpointPortionComplete = "PORTION_COMPLETE"
	CheckpointQualityCheck    = "QUALITY_CHECK"
	CheckpointLabelPrinted    = "LABEL_PRINTED"
)

// BatchCheckpoint records that a workflow step happened for a batch.
type BatchCheckpoint struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	BatchID        uuid.UUID `gorm:"type:uuid;column:batch_id;not null;index" json:"batch_id"`
	CheckpointType string    `gorm:"column:checkpoint_type;not null;index" json:"checkpoint_type"`
	RecordedBy     string    `gorm:"column:recorded_by;not null;default:''" json:"recorded_by"`
	Notes          string    `gorm:"column:notes;type:text" json:"notes,omitempty"`

	RecordedAt time.Time `gorm:"not null" json:"recorded_at"`
	CreatedAt  time.Time `gorm:"not null" json:"created_at"`
}

func (BatchCheckpoint) TableName() string { return "batch_checkpoint" }

func (c *BatchCheckpoint) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
