package app

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/mealprep-backend/internal/modules/production/yield"
	"github.com/yungbote/mealprep-backend/internal/platform/logger"
	"github.com/yungbote/mealprep-backend/internal/services"
)

type Services struct {
	Auth             services.AuthService
	LabelProvenance  services.LabelProvenanceService
	YieldCalibration services.YieldCalibrationService
	BatchGate        services.BatchGateService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, repos Repos, clients Clients) (Services, error) {
	log.Info("Wiring services...")

	params, err := yield.LoadParams(cfg.CalibrationConfigPath)
	if err != nil {
		return Services{}, fmt.Errorf("load calibration params: %w", err)
	}

	return Services{
		Auth: services.NewAuthService(log, cfg.JWTSecretKey, cfg.AccessTokenTTL),
		LabelProvenance: services.NewLabelProvenanceService(
			db,
			log,
			repos.Labels.Snapshot,
			repos.Labels.LineageEdge,
			clients.LineageCache,
			clients.projector(),
			services.LabelProvenanceConfig{
				MaxDepth:         cfg.LineageMaxDepth,
				StalenessTimeout: cfg.StalenessQueryTimeout,
			},
		),
		YieldCalibration: services.NewYieldCalibrationService(
			db,
			log,
			repos.Production.PrepComponent,
			repos.Production.Batch,
			services.YieldCalibrationConfig{
				Params:        params,
				SampleLimit:   cfg.CalibrationSamples,
				MaxConcurrent: cfg.CalibrationWorkers,
			},
		),
		BatchGate: services.NewBatchGateService(db, log, repos.Production.Batch, repos.Production.Checkpoint),
	}, nil
}
