package app

import (
	"strings"
	"testing"
	"time"

	"github.com/yungbote/mealprep-backend/internal/data/db"
	"github.com/yungbote/mealprep-backend/internal/modules/labels/lineage"
	"github.com/yungbote/mealprep-backend/internal/platform/logger"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "DB_DRIVER", "LINEAGE_MAX_DEPTH", "STALENESS_QUERY_TIMEOUT", "METRICS_ENABLED", "CORS_ALLOW_ORIGINS", "TEMPORAL_ADDRESS", "PROVENANCE_SWEEP_ORGS"} {
		t.Setenv(k, "")
	}
	cfg := LoadConfig(logger.Nop())
	if cfg.Port != "8080" {
		t.Fatalf("port: got %q", cfg.Port)
	}
	if cfg.DB.Driver != db.DriverPostgres {
		t.Fatalf("driver: got %q", cfg.DB.Driver)
	}
	if cfg.LineageMaxDepth != lineage.DefaultMaxDepth {
		t.Fatalf("max depth: got %d", cfg.LineageMaxDepth)
	}
	if cfg.StalenessQueryTimeout != 10*time.Second {
		t.Fatalf("staleness timeout: got %s", cfg.StalenessQueryTimeout)
	}
	if cfg.Metrics.Enabled {
		t.Fatalf("metrics should be off by default")
	}
	if cfg.AllowOrigins != nil {
		t.Fatalf("origins should fall back to middleware defaults, got %v", cfg.AllowOrigins)
	}
	if cfg.Temporal.Enabled() || cfg.Temporal.SweepOrgs != nil {
		t.Fatalf("temporal should be off by default: %+v", cfg.Temporal)
	}
	if cfg.Temporal.SweepStaleLimit != lineage.MaxStaleResults || !cfg.Temporal.SweepCalibrate {
		t.Fatalf("sweep defaults: %+v", cfg.Temporal)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", "/tmp/mp.db")
	t.Setenv("LINEAGE_MAX_DEPTH", "8")
	t.Setenv("STALENESS_QUERY_TIMEOUT", "2500ms")
	t.Setenv("LINEAGE_CACHE_TTL", "3600")
	t.Setenv("METRICS_ENABLED", "true")
	t.Setenv("CORS_ALLOW_ORIGINS", "https://kitchen.example.com")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "x-api-key=abc")
	t.Setenv("APP_ENV", "staging")
	t.Setenv("TEMPORAL_ADDRESS", "temporal:7233")
	t.Setenv("PROVENANCE_SWEEP_CRON", "0 4 * * *")
	t.Setenv("PROVENANCE_SWEEP_ORGS", "3f1c2d4e-5a6b-4c7d-8e9f-0a1b2c3d4e5f, junk")

	cfg := LoadConfig(nil)
	if cfg.DB.Driver != db.DriverSQLite || cfg.DB.SQLitePath != "/tmp/mp.db" {
		t.Fatalf("db config: %+v", cfg.DB)
	}
	if cfg.LineageMaxDepth != 8 {
		t.Fatalf("max depth: got %d", cfg.LineageMaxDepth)
	}
	if cfg.StalenessQueryTimeout != 2500*time.Millisecond {
		t.Fatalf("staleness timeout: got %s", cfg.StalenessQueryTimeout)
	}
	if cfg.LineageCacheTTL != time.Hour {
		t.Fatalf("cache ttl: got %s", cfg.LineageCacheTTL)
	}
	if !cfg.Metrics.Enabled {
		t.Fatalf("metrics should be enabled")
	}
	if len(cfg.AllowOrigins) != 1 || cfg.AllowOrigins[0] != "https://kitchen.example.com" {
		t.Fatalf("origins: %v", cfg.AllowOrigins)
	}
	if cfg.Otel.Headers["x-api-key"] != "abc" || cfg.Otel.Environment != "staging" {
		t.Fatalf("otel config: %+v", cfg.Otel)
	}
	if !cfg.Temporal.Enabled() || cfg.Temporal.SweepCron != "0 4 * * *" || len(cfg.Temporal.SweepOrgs) != 1 {
		t.Fatalf("temporal config: %+v", cfg.Temporal)
	}
}

func TestConfigValidate(t *testing.T) {
	valid := Config{
		JWTSecretKey:          "s",
		LineageMaxDepth:       16,
		StalenessQueryTimeout: time.Second,
		DB:                    db.Config{Driver: db.DriverSQLite},
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"missing secret", func(c *Config) { c.JWTSecretKey = "" }, "JWT_SECRET_KEY"},
		{"zero depth", func(c *Config) { c.LineageMaxDepth = 0 }, "LINEAGE_MAX_DEPTH"},
		{"zero timeout", func(c *Config) { c.StalenessQueryTimeout = 0 }, "STALENESS_QUERY_TIMEOUT"},
		{"bad driver", func(c *Config) { c.DB.Driver = "mysql" }, "DB_DRIVER"},
		{"sweep without orgs", func(c *Config) { c.Temporal.SweepCron = "@daily" }, "PROVENANCE_SWEEP_ORGS"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := valid
			tc.mutate(&c)
			err := c.Validate()
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error mentioning %s, got %v", tc.want, err)
			}
		})
	}
}

func TestDBPinger(t *testing.T) {
	if dbPinger(nil) != nil {
		t.Fatalf("nil db should produce nil pinger")
	}
}
