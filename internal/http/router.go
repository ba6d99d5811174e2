package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/mealprep-backend/internal/http/handlers"
	httpMW "github.com/yungbote/mealprep-backend/internal/http/middleware"
	"github.com/yungbote/mealprep-backend/internal/observability"
	"github.com/yungbote/mealprep-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	ServiceName    string
	AllowOrigins   []string
	Metrics        *observability.Metrics
	ExposeMetrics  bool
	AuthMiddleware *httpMW.AuthMiddleware

	HealthHandler *httpH.HealthHandler
	LabelHandler  *httpH.LabelHandler
	YieldHandler  *httpH.YieldHandler
	BatchHandler  *httpH.BatchHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.CORS(cfg.AllowOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.Metrics != nil && cfg.ExposeMetrics {
		r.GET("/metrics", gin.WrapF(cfg.Metrics.WriteHTTP))
	}

	protected := r.Group("/api")
	{
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}

		// Labels
		if cfg.LabelHandler != nil {
			protected.GET("/labels/stale", cfg.LabelHandler.ListStale)
			protected.GET("/labels/:id/lineage", cfg.LabelHandler.GetLineage)
			protected.GET("/labels/:id/versions", cfg.LabelHandler.ListVersions)
			protected.POST("/labels/:id/recompute-diff", cfg.LabelHandler.RecomputeDiff)
		}

		// Yield calibration
		if cfg.YieldHandler != nil {
			protected.GET("/prep-components/yield-calibration", cfg.YieldHandler.ListCalibrations)
			protected.GET("/prep-components/:id/yield-calibration", cfg.YieldHandler.GetCalibration)
		}

		// Batch checkpoints
		if cfg.BatchHandler != nil {
			protected.POST("/batches/:id/gate-check", cfg.BatchHandler.CheckGate)
		}
	}

	return r
}
