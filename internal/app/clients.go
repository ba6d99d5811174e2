package app

import (
	"context"
	"fmt"
	"time"

	temporalsdkclient "go.temporal.io/sdk/client"

	"github.com/yungbote/mealprep-backend/internal/clients/redis"
	"github.com/yungbote/mealprep-backend/internal/data/graph"
	"github.com/yungbote/mealprep-backend/internal/platform/logger"
	"github.com/yungbote/mealprep-backend/internal/platform/neo4jdb"
	"github.com/yungbote/mealprep-backend/internal/services"
	"github.com/yungbote/mealprep-backend/internal/temporalx"
)

type Clients struct {
	LineageCache redis.LineageCache
	Neo4j        *neo4jdb.Client
	LineageGraph *graph.LabelLineageGraph
	Temporal     temporalsdkclient.Client
}

// wireClients connects optional backing services. Without REDIS_ADDR lineage
// trees are rebuilt on every request; without NEO4J_URI no graph projection runs;
// without TEMPORAL_ADDRESS no provenance sweeps are scheduled.
func wireClients(log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")

	var cache redis.LineageCache
	if cfg.RedisAddr != "" {
		c, err := redis.NewLineageCache(log, redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			TTL:      cfg.LineageCacheTTL,
		})
		if err != nil {
			return Clients{}, fmt.Errorf("init redis lineage cache: %w", err)
		}
		cache = c
	}

	neo, err := neo4jdb.New(log, cfg.Neo4j)
	if err != nil {
		if cache != nil {
			_ = cache.Close()
		}
		return Clients{}, fmt.Errorf("init neo4j: %w", err)
	}

	out := Clients{
		LineageCache: cache,
		Neo4j:        neo,
		LineageGraph: graph.NewLabelLineageGraph(neo, log),
	}

	tc, err := temporalx.NewClient(context.Background(), log, cfg.Temporal)
	if err != nil {
		out.Close()
		return Clients{}, fmt.Errorf("init temporal: %w", err)
	}
	out.Temporal = tc
	return out, nil
}

// projector keeps a nil graph from becoming a non-nil interface.
func (c Clients) projector() services.LineageProjector {
	if c.LineageGraph == nil {
		return nil
	}
	return c.LineageGraph
}

func (c *Clients) Close() {
	if c == nil {
		return
	}
	if c.LineageCache != nil {
		_ = c.LineageCache.Close()
	}
	if c.Neo4j != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = c.Neo4j.Close(ctx)
	}
	if c.Temporal != nil {
		c.Temporal.Close()
	}
}
