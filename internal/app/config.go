package app

import (
	"fmt"
	"time"

	"github.com/yungbote/mealprep-backend/internal/data/db"
	"github.com/yungbote/mealprep-backend/internal/modules/labels/lineage"
	"github.com/yungbote/mealprep-backend/internal/observability"
	"github.com/yungbote/mealprep-backend/internal/platform/envutil"
	"github.com/yungbote/mealprep-backend/internal/platform/logger"
	"github.com/yungbote/mealprep-backend/internal/platform/neo4jdb"
	"github.com/yungbote/mealprep-backend/internal/temporalx"
)

type Config struct {
	Port         string
	Environment  string
	Version      string
	AllowOrigins []string

	DB db.Config

	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	LineageCacheTTL time.Duration

	Neo4j neo4jdb.Config

	Temporal temporalx.Config

	JWTSecretKey   string
	AccessTokenTTL time.Duration

	LineageMaxDepth       int
	StalenessQueryTimeout time.Duration
	CalibrationConfigPath string
	CalibrationSamples    int
	CalibrationWorkers    int

	Metrics observability.MetricsConfig
	Otel    observability.OtelConfig
}

func LoadConfig(log *logger.Logger) Config {
	cfg := Config{
		Port:         envutil.String("PORT", "8080"),
		Environment:  envutil.String("APP_ENV", "development"),
		Version:      envutil.String("APP_VERSION", "dev"),
		AllowOrigins: envutil.List("CORS_ALLOW_ORIGINS", nil),

		DB: db.Config{
			Driver:           envutil.String("DB_DRIVER", db.DriverPostgres),
			PostgresHost:     envutil.String("POSTGRES_HOST", "localhost"),
			PostgresPort:     envutil.String("POSTGRES_PORT", "5432"),
			PostgresUser:     envutil.String("POSTGRES_USER", "postgres"),
			PostgresPassword: envutil.String("POSTGRES_PASSWORD", ""),
			PostgresName:     envutil.String("POSTGRES_NAME", "mealprep"),
			PostgresSSLMode:  envutil.String("POSTGRES_SSLMODE", "disable"),
			SQLitePath:       envutil.String("SQLITE_PATH", "mealprep.db"),
		},

		RedisAddr:       envutil.String("REDIS_ADDR", ""),
		RedisPassword:   envutil.String("REDIS_PASSWORD", ""),
		RedisDB:         envutil.Int("REDIS_DB", 0),
		LineageCacheTTL: envutil.Duration("LINEAGE_CACHE_TTL", 24*time.Hour),

		Neo4j: neo4jdb.Config{
			URI:         envutil.String("NEO4J_URI", ""),
			User:        envutil.String("NEO4J_USER", "neo4j"),
			Password:    envutil.String("NEO4J_PASSWORD", ""),
			Database:    envutil.String("NEO4J_DATABASE", ""),
			Timeout:     envutil.Duration("NEO4J_TIMEOUT", 10*time.Second),
			MaxPoolSize: envutil.Int("NEO4J_MAX_POOL_SIZE", 50),
		},

		Temporal: temporalx.Config{
			Address:                envutil.String("TEMPORAL_ADDRESS", ""),
			Namespace:              envutil.String("TEMPORAL_NAMESPACE", "mealprep"),
			TaskQueue:              envutil.String("TEMPORAL_TASK_QUEUE", "mealprep-provenance"),
			ClientCertPath:         envutil.String("TEMPORAL_CLIENT_CERT_PATH", ""),
			ClientKeyPath:          envutil.String("TEMPORAL_CLIENT_KEY_PATH", ""),
			ClientCAPath:           envutil.String("TEMPORAL_CLIENT_CA_PATH", ""),
			DialTimeout:            envutil.Duration("TEMPORAL_DIAL_TIMEOUT", 5*time.Second),
			DialMaxWait:            envutil.Duration("TEMPORAL_DIAL_MAX_WAIT", time.Minute),
			AutoRegisterNamespace:  envutil.Bool("TEMPORAL_AUTO_REGISTER_NAMESPACE", false),
			NamespaceRetentionDays: envutil.Int("TEMPORAL_NAMESPACE_RETENTION_DAYS", 7),
			WorkerConcurrency:      envutil.Int("TEMPORAL_WORKER_CONCURRENCY", 4),
			SweepCron:              envutil.String("PROVENANCE_SWEEP_CRON", ""),
			SweepOrgs:              temporalx.ParseOrgs(envutil.String("PROVENANCE_SWEEP_ORGS", "")),
			SweepStaleLimit:        envutil.Int("PROVENANCE_SWEEP_STALE_LIMIT", lineage.MaxStaleResults),
			SweepCalibrate:         envutil.Bool("PROVENANCE_SWEEP_CALIBRATE", true),
		},

		JWTSecretKey:   envutil.String("JWT_SECRET_KEY", ""),
		AccessTokenTTL: envutil.Duration("ACCESS_TOKEN_TTL", time.Hour),

		LineageMaxDepth:       envutil.Int("LINEAGE_MAX_DEPTH", lineage.DefaultMaxDepth),
		StalenessQueryTimeout: envutil.Duration("STALENESS_QUERY_TIMEOUT", 10*time.Second),
		CalibrationConfigPath: envutil.String("CALIBRATION_CONFIG_PATH", ""),
		CalibrationSamples:    envutil.Int("CALIBRATION_SAMPLE_LIMIT", 200),
		CalibrationWorkers:    envutil.Int("CALIBRATION_MAX_CONCURRENT", 4),

		Metrics: observability.MetricsConfig{
			Enabled:        envutil.Bool("METRICS_ENABLED", false),
			Addr:           envutil.String("METRICS_ADDR", ""),
			ScrapeInterval: envutil.Duration("METRICS_SCRAPE_INTERVAL", 10*time.Second),
		},
		Otel: observability.OtelConfig{
			Enabled:     envutil.Bool("OTEL_ENABLED", false),
			ServiceName: envutil.String("OTEL_SERVICE_NAME", "mealprep"),
			Endpoint:    envutil.String("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
			Headers:     observability.ParseHeaders(envutil.String("OTEL_EXPORTER_OTLP_HEADERS", "")),
			Insecure:    envutil.Bool("OTEL_EXPORTER_OTLP_INSECURE", false),
			SampleRatio: envutil.Float("OTEL_SAMPLER_RATIO", 0.1),
		},
	}
	cfg.Otel.Environment = cfg.Environment
	cfg.Otel.Version = cfg.Version

	if log != nil {
		log.Info("Configuration loaded",
			"port", cfg.Port,
			"db_driver", cfg.DB.Driver,
			"redis_enabled", cfg.RedisAddr != "",
			"neo4j_enabled", cfg.Neo4j.URI != "",
			"temporal_enabled", cfg.Temporal.Enabled(),
			"sweep_orgs", len(cfg.Temporal.SweepOrgs),
			"metrics_enabled", cfg.Metrics.Enabled,
			"otel_enabled", cfg.Otel.Enabled,
			"lineage_max_depth", cfg.LineageMaxDepth,
		)
	}
	return cfg
}

// Validate rejects settings the service cannot start with.
func (c Config) Validate() error {
	if c.JWTSecretKey == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if c.LineageMaxDepth <= 0 {
		return fmt.Errorf("LINEAGE_MAX_DEPTH must be positive, got %d", c.LineageMaxDepth)
	}
	if c.StalenessQueryTimeout <= 0 {
		return fmt.Errorf("STALENESS_QUERY_TIMEOUT must be positive")
	}
	if c.Temporal.SweepCron != "" && len(c.Temporal.SweepOrgs) == 0 {
		return fmt.Errorf("PROVENANCE_SWEEP_CRON is set but PROVENANCE_SWEEP_ORGS has no valid organization ids")
	}
	switch c.DB.Driver {
	case db.DriverPostgres, db.DriverSQLite:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DB.Driver)
	}
	return nil
}
