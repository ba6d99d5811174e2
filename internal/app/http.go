package app

import (
	"context"

	"gorm.io/gorm"

	"github.com/yungbote/mealprep-backend/internal/http"
	httpH "github.com/yungbote/mealprep-backend/internal/http/handlers"
	httpMW "github.com/yungbote/mealprep-backend/internal/http/middleware"
	"github.com/yungbote/mealprep-backend/internal/observability"
	"github.com/yungbote/mealprep-backend/internal/platform/logger"
)

type Middleware struct {
	Auth *httpMW.AuthMiddleware
}

type Handlers struct {
	Health *httpH.HealthHandler
	Label  *httpH.LabelHandler
	Yield  *httpH.YieldHandler
	Batch  *httpH.BatchHandler
}

func wireHandlers(log *logger.Logger, db *gorm.DB, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health: httpH.NewHealthHandler(dbPinger(db)),
		Label:  httpH.NewLabelHandler(services.LabelProvenance),
		Yield:  httpH.NewYieldHandler(services.YieldCalibration),
		Batch:  httpH.NewBatchHandler(services.BatchGate),
	}
}

func wireMiddleware(log *logger.Logger, services Services) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth: httpMW.NewAuthMiddleware(log, services.Auth),
	}
}

func wireServer(log *logger.Logger, cfg Config, handlers Handlers, middleware Middleware, metrics *observability.Metrics) *http.Server {
	serviceName := ""
	if cfg.Otel.Enabled {
		serviceName = observability.ServiceName(cfg.Otel)
	}
	return http.NewServer(http.RouterConfig{
		Log:          log,
		ServiceName:  serviceName,
		AllowOrigins: cfg.AllowOrigins,
		Metrics:      metrics,
		// A dedicated METRICS_ADDR listener serves the exposition instead.
		ExposeMetrics:  cfg.Metrics.Addr == "",
		AuthMiddleware: middleware.Auth,
		HealthHandler:  handlers.Health,
		LabelHandler:   handlers.Label,
		YieldHandler:   handlers.Yield,
		BatchHandler:   handlers.Batch,
	})
}

func dbPinger(db *gorm.DB) httpH.Pinger {
	if db == nil {
		return nil
	}
	return func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}
}
