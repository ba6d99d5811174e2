package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/mealprep-backend/internal/data/repos/labels"
	"github.com/yungbote/mealprep-backend/internal/data/repos/production"
	"github.com/yungbote/mealprep-backend/internal/platform/logger"
)

type LabelSnapshotRepo = labels.LabelSnapshotRepo
type LabelLineageEdgeRepo = labels.LabelLineageEdgeRepo
type StaleLabelRow = labels.StaleLabelRow

type PrepComponentRepo = production.PrepComponentRepo
type BatchRepo = production.BatchRepo
type BatchCheckpointRepo = production.BatchCheckpointRepo

func NewLabelSnapshotRepo(db *gorm.DB, baseLog *logger.Logger) LabelSnapshotRepo {
	return labels.NewLabelSnapshotRepo(db, baseLog)
}

func NewLabelLineageEdgeRepo(db *gorm.DB, baseLog *logger.Logger) LabelLineageEdgeRepo {
	return labels.NewLabelLineageEdgeRepo(db, baseLog)
}

func NewPrepComponentRepo(db *gorm.DB, baseLog *logger.Logger) PrepComponentRepo {
	return production.NewPrepComponentRepo(db, baseLog)
}

func NewBatchRepo(db *gorm.DB, baseLog *logger.Logger) BatchRepo {
	return production.NewBatchRepo(db, baseLog)
}

func NewBatchCheckpointRepo(db *gorm.DB, baseLog *logger.Logger) BatchCheckpointRepo {
	return production.NewBatchCheckpointRepo(db, baseLog)
}
