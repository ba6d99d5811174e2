package observability

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/common/expfmt"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/yungbote/mealprep-backend/internal/platform/logger"
)

const namespace = "mealprep"

type MetricsConfig struct {
	Enabled        bool
	Addr           string
	ScrapeInterval time.Duration
}

type Metrics struct {
	registry *prometheus.Registry

	apiRequests *prometheus.CounterVec
	apiLatency  *prometheus.HistogramVec
	apiInflight prometheus.Gauge

	lineageBuilds  *prometheus.CounterVec
	lineageNodes   prometheus.Histogram
	staleScans     *prometheus.CounterVec
	staleScanDur   *prometheus.HistogramVec
	staleFound     *prometheus.GaugeVec
	recomputeDiffs *prometheus.CounterVec
	gateChecks     *prometheus.CounterVec
	calibrations   *prometheus.CounterVec

	dbStats   *prometheus.GaugeVec
	redisUp   prometheus.Gauge
	redisPing prometheus.Gauge

	scrapeInterval time.Duration
}

var (
	initOnce sync.Once
	instance *Metrics
)

// Init builds the process-wide registry. Returns nil when metrics are disabled.
func Init(log *logger.Logger, cfg MetricsConfig) *Metrics {
	if !cfg.Enabled {
		return nil
	}
	initOnce.Do(func() {
		instance = New(cfg.ScrapeInterval)
		instance.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		if log != nil {
			log.Info("metrics enabled", "addr", cfg.Addr)
		}
	})
	return instance
}

// Current returns the registry created by Init, or nil.
func Current() *Metrics {
	return instance
}

// New builds an independent registry without runtime collectors. Tests use it directly.
func New(scrapeInterval time.Duration) *Metrics {
	if scrapeInterval <= 0 {
		scrapeInterval = 10 * time.Second
	}
	requestLabels := []string{"method", "route", "status"}
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		apiRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "api_requests_total",
			Help:      "Total API requests by method/route/status.",
		}, requestLabels),
		apiLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "api_request_duration_seconds",
			Help:      "API request latency in seconds by method/route/status.",
			Buckets:   []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		}, requestLabels),
		apiInflight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "api_inflight_requests",
			Help:      "In-flight API requests.",
		}),

		lineageBuilds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lineage_builds_total",
			Help:      "Lineage tree lookups by cache outcome.",
		}, []string{"cache"}),
		lineageNodes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "lineage_tree_nodes",
			Help:      "Node count of built lineage trees.",
			Buckets:   []float64{1, 2, 5, 10, 25, 50, 100, 250},
		}),
		staleScans: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stale_scans_total",
			Help:      "Staleness scans by status.",
		}, []string{"status"}),
		staleScanDur: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stale_scan_duration_seconds",
			Help:      "Staleness scan latency in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		}, []string{"status"}),
		staleFound: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "stale_labels",
			Help:      "Stale labels found by the last scan per organization.",
		}, []string{"organization_id"}),
		recomputeDiffs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "recompute_diffs_total",
			Help:      "Recompute diffs by outcome.",
		}, []string{"outcome"}),
		gateChecks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "gate_checks_total",
			Help:      "Checkpoint gate checks by target status and result.",
		}, []string{"target_status", "valid"}),
		calibrations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "yield_calibrations_total",
			Help:      "Yield proposals by basis.",
		}, []string{"basis"}),

		dbStats: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "db_pool",
			Help:      "Database pool stats.",
		}, []string{"stat"}),
		redisUp: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "redis_up",
			Help:      "Redis reachability (1 up, 0 down).",
		}),
		redisPing: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "redis_ping_seconds",
			Help:      "Redis ping latency in seconds.",
		}),

		scrapeInterval: scrapeInterval,
	}
	m.registry.MustRegister(
		m.apiRequests, m.apiLatency, m.apiInflight,
		m.lineageBuilds, m.lineageNodes,
		m.staleScans, m.staleScanDur, m.staleFound,
		m.recomputeDiffs, m.gateChecks, m.calibrations,
		m.dbStats, m.redisUp, m.redisPing,
	)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) StartServer(ctx context.Context, log *logger.Logger, addr string) {
	if m == nil {
		return
	}
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           http.HandlerFunc(m.WriteHTTP),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		_ = srv.Shutdown(shutdownCtx)
		cancel()
	}()
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			if log != nil {
				log.Error("metrics server failed", "error", err, "addr", addr)
			}
		}
	}()
}

func (m *Metrics) WriteHTTP(w http.ResponseWriter, r *http.Request) {
	if m == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}).ServeHTTP(w, r)
}

// WritePrometheus writes the text exposition of every registered family.
func (m *Metrics) WritePrometheus(w io.Writer) error {
	if m == nil {
		return nil
	}
	families, err := m.registry.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}

func (m *Metrics) ObserveAPI(method, route, status string, dur time.Duration) {
	if m == nil {
		return
	}
	if method == "" {
		method = "UNKNOWN"
	}
	if route == "" {
		route = "unknown"
	}
	if status == "" {
		status = "0"
	}
	m.apiRequests.WithLabelValues(method, route, status).Inc()
	m.apiLatency.WithLabelValues(method, route, status).Observe(dur.Seconds())
}

func (m *Metrics) ApiInflightInc() {
	if m == nil {
		return
	}
	m.apiInflight.Inc()
}

func (m *Metrics) ApiInflightDec() {
	if m == nil {
		return
	}
	m.apiInflight.Dec()
}

// ObserveLineage records a lineage lookup. nodes is ignored on cache hits.
func (m *Metrics) ObserveLineage(cacheHit bool, nodes int) {
	if m == nil {
		return
	}
	if cacheHit {
		m.lineageBuilds.WithLabelValues("hit").Inc()
		return
	}
	m.lineageBuilds.WithLabelValues("miss").Inc()
	m.lineageNodes.Observe(float64(nodes))
}

// ObserveStaleScan records a staleness scan. found is only recorded for status "ok".
func (m *Metrics) ObserveStaleScan(orgID, status string, found int, dur time.Duration) {
	if m == nil {
		return
	}
	m.staleScans.WithLabelValues(status).Inc()
	m.staleScanDur.WithLabelValues(status).Observe(dur.Seconds())
	if status == "ok" {
		m.staleFound.WithLabelValues(orgID).Set(float64(found))
	}
}

func (m *Metrics) IncRecomputeDiff(hasDifferences bool) {
	if m == nil {
		return
	}
	if hasDifferences {
		m.recomputeDiffs.WithLabelValues("changed").Inc()
		return
	}
	m.recomputeDiffs.WithLabelValues("unchanged").Inc()
}

func (m *Metrics) IncGateCheck(targetStatus string, valid bool) {
	if m == nil {
		return
	}
	m.gateChecks.WithLabelValues(targetStatus, strconv.FormatBool(valid)).Inc()
}

func (m *Metrics) IncCalibration(basis string) {
	if m == nil {
		return
	}
	m.calibrations.WithLabelValues(basis).Inc()
}

func (m *Metrics) StartDBCollector(ctx context.Context, log *logger.Logger, db *gorm.DB) {
	if m == nil || db == nil {
		return
	}
	go func() {
		ticker := time.NewTicker(m.scrapeInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				sqlDB, err := db.DB()
				if err != nil {
					if log != nil {
						log.Warn("metrics: db stats unavailable", "error", err)
					}
					continue
				}
				stats := sqlDB.Stats()
				m.dbStats.WithLabelValues("open_connections").Set(float64(stats.OpenConnections))
				m.dbStats.WithLabelValues("in_use").Set(float64(stats.InUse))
				m.dbStats.WithLabelValues("idle").Set(float64(stats.Idle))
				m.dbStats.WithLabelValues("wait_count").Set(float64(stats.WaitCount))
				m.dbStats.WithLabelValues("wait_duration_seconds").Set(stats.WaitDuration.Seconds())
				m.dbStats.WithLabelValues("max_open_connections").Set(float64(stats.MaxOpenConnections))
			}
		}
	}()
}

func (m *Metrics) StartRedisCollector(ctx context.Context, log *logger.Logger, addr string) {
	if m == nil {
		return
	}
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	go func() {
		ticker := time.NewTicker(m.scrapeInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				_ = rdb.Close()
				return
			case <-ticker.C:
				start := time.Now()
				if err := rdb.Ping(ctx).Err(); err != nil {
					m.redisUp.Set(0)
					if log != nil {
						log.Warn("metrics: redis ping failed", "error", err)
					}
					continue
				}
				m.redisUp.Set(1)
				m.redisPing.Set(time.Since(start).Seconds())
			}
		}
	}()
}
