package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/mealprep-backend/internal/data/repos"
	"github.com/yungbote/mealprep-backend/internal/platform/logger"
)

type LabelRepos struct {
	Snapshot    repos.LabelSnapshotRepo
	LineageEdge repos.LabelLineageEdgeRepo
}

type ProductionRepos struct {
	PrepComponent repos.PrepComponentRepo
	Batch         repos.BatchRepo
	Checkpoint    repos.BatchCheckpointRepo
}

type Repos struct {
	Labels     LabelRepos
	Production ProductionRepos
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Labels: LabelRepos{
			Snapshot:    repos.NewLabelSnapshotRepo(db, log),
			LineageEdge: repos.NewLabelLineageEdgeRepo(db, log),
		},
		Production: ProductionRepos{
			PrepComponent: repos.NewPrepComponentRepo(db, log),
			Batch:         repos.NewBatchRepo(db, log),
			Checkpoint:    repos.NewBatchCheckpointRepo(db, log),
		},
	}
}
