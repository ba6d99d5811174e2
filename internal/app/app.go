package app

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/yungbote/mealprep-backend/internal/data/db"
	"github.com/yungbote/mealprep-backend/internal/http"
	"github.com/yungbote/mealprep-backend/internal/modules/production/yield"
	"github.com/yungbote/mealprep-backend/internal/observability"
	"github.com/yungbote/mealprep-backend/internal/platform/envutil"
	"github.com/yungbote/mealprep-backend/internal/platform/filewatch"
	"github.com/yungbote/mealprep-backend/internal/platform/logger"
	"github.com/yungbote/mealprep-backend/internal/temporalx/temporalworker"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Server   *http.Server
	Cfg      Config
	Repos    Repos
	Services Services
	Clients  Clients
	Metrics  *observability.Metrics

	otelShutdown func(context.Context) error
	cancel       context.CancelFunc
}

func New() (*App, error) {
	log, err := logger.New(envutil.String("LOG_MODE", "development"))
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("Loading environment variables...")
	cfg := LoadConfig(log)
	if err := cfg.Validate(); err != nil {
		log.Sync()
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	otelShutdown := observability.InitOTel(context.Background(), log, cfg.Otel)
	metrics := observability.Init(log, cfg.Metrics)

	store, err := db.Open(cfg.DB, log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init database: %w", err)
	}
	theDB := store.DB()
	if err := db.AutoMigrateAll(theDB); err != nil {
		log.Sync()
		return nil, fmt.Errorf("database automigrate: %w", err)
	}

	clients, err := wireClients(log, cfg)
	if err != nil {
		log.Sync()
		return nil, err
	}

	reposet := wireRepos(theDB, log)

	serviceset, err := wireServices(theDB, log, cfg, reposet, clients)
	if err != nil {
		clients.Close()
		log.Sync()
		return nil, err
	}

	handlerset := wireHandlers(log, theDB, serviceset)
	middleware := wireMiddleware(log, serviceset)
	server := wireServer(log, cfg, handlerset, middleware, metrics)

	return &App{
		Log:          log,
		DB:           theDB,
		Server:       server,
		Cfg:          cfg,
		Repos:        reposet,
		Services:     serviceset,
		Clients:      clients,
		Metrics:      metrics,
		otelShutdown: otelShutdown,
	}, nil
}

// Start launches background collectors, the params watcher and the sweep worker. Safe to call once.
func (a *App) Start() {
	if a == nil || a.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel

	if a.Metrics != nil {
		a.Metrics.StartServer(ctx, a.Log, a.Cfg.Metrics.Addr)
		a.Metrics.StartDBCollector(ctx, a.Log, a.DB)
		a.Metrics.StartRedisCollector(ctx, a.Log, a.Cfg.RedisAddr)
	}
	a.watchCalibrationParams(ctx)
	a.startSweepWorker(ctx)
}

// watchCalibrationParams reloads yield params when the YAML file changes.
// A file that fails to parse leaves the current params in place.
func (a *App) watchCalibrationParams(ctx context.Context) {
	path := a.Cfg.CalibrationConfigPath
	if path == "" || a.Services.YieldCalibration == nil {
		return
	}
	err := filewatch.Watch(ctx, a.Log, path, filewatch.DefaultDebounce, func() {
		p, err := yield.LoadParams(path)
		if err != nil {
			a.Log.Warn("Calibration params reload skipped", "path", path, "error", err)
			return
		}
		if err := a.Services.YieldCalibration.ReloadParams(p); err != nil {
			a.Log.Warn("Calibration params rejected", "path", path, "error", err)
		}
	})
	if err != nil {
		a.Log.Warn("Calibration params watcher not started", "path", path, "error", err)
	}
}

func (a *App) startSweepWorker(ctx context.Context) {
	if a.Clients.Temporal == nil {
		return
	}
	runner, err := temporalworker.NewRunner(
		a.Log,
		a.Clients.Temporal,
		a.Cfg.Temporal,
		a.Services.LabelProvenance,
		a.Services.YieldCalibration,
	)
	if err != nil {
		a.Log.Error("Provenance sweep worker not started", "error", err)
		return
	}
	go func() {
		if err := runner.Start(ctx); err != nil && ctx.Err() == nil {
			a.Log.Error("Provenance sweep worker failed", "error", err)
		}
	}()
}

func (a *App) Run() error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	addr := ":" + a.Cfg.Port
	a.Log.Info("HTTP server listening", "addr", addr)
	return a.Server.Run(addr)
}

// Close drains the HTTP server then releases clients and exporters.
func (a *App) Close() {
	if a == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if a.Server != nil {
		if err := a.Server.Shutdown(ctx); err != nil && a.Log != nil {
			a.Log.Warn("HTTP server shutdown failed", "error", err)
		}
	}
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	a.Clients.Close()
	if a.otelShutdown != nil {
		if err := a.otelShutdown(ctx); err != nil && a.Log != nil {
			a.Log.Warn("otel shutdown failed", "error", err)
		}
	}
	if a.DB != nil {
		if sqlDB, err := a.DB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
