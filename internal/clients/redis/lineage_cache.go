package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/mealprep-backend/internal/modules/labels/lineage"
	"github.com/yungbote/mealprep-backend/internal/platform/logger"
)

const defaultKeyPrefix = "mealprep:lineage:"

// LineageCache stores built lineage trees. Snapshots and edges are write-once,
// so a tree for a label id never changes and entries only expire by TTL.
type LineageCache interface {
	Get(ctx context.Context, labelID uuid.UUID) (*lineage.Node, bool, error)
	Set(ctx context.Context, labelID uuid.UUID, tree *lineage.Node) error
	Close() error
}

type Options struct {
	Addr      string
	Password  string
	DB        int
	TTL       time.Duration
	KeyPrefix string
}

type lineageCache struct {
	log    *logger.Logger
	rdb    goredis.UniversalClient
	ttl    time.Duration
	prefix string
}

func NewLineageCache(log *logger.Logger, opts Options) (LineageCache, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	addr := strings.TrimSpace(opts.Addr)
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		Password:    opts.Password,
		DB:          opts.DB,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return newLineageCache(log, rdb, opts), nil
}

func newLineageCache(log *logger.Logger, rdb goredis.UniversalClient, opts Options) *lineageCache {
	prefix := opts.KeyPrefix
	if prefix == "" {
		prefix = defaultKeyPrefix
	}
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &lineageCache{
		log:    log.With("service", "RedisLineageCache"),
		rdb:    rdb,
		ttl:    ttl,
		prefix: prefix,
	}
}

func (c *lineageCache) key(labelID uuid.UUID) string {
	return c.prefix + labelID.String()
}

func (c *lineageCache) Get(ctx context.Context, labelID uuid.UUID) (*lineage.Node, bool, error) {
	if c == nil || c.rdb == nil {
		return nil, false, fmt.Errorf("redis lineage cache not initialized")
	}
	raw, err := c.rdb.Get(ctx, c.key(labelID)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var tree lineage.Node
	if err := json.Unmarshal(raw, &tree); err != nil {
		// Treated as a miss; the next Set overwrites it.
		c.log.Warn("Discarding undecodable lineage cache entry", "label_id", labelID.String(), "error", err)
		return nil, false, nil
	}
	return &tree, true, nil
}

func (c *lineageCache) Set(ctx context.Context, labelID uuid.UUID, tree *lineage.Node) error {
	if c == nil || c.rdb == nil {
		return fmt.Errorf("redis lineage cache not initialized")
	}
	if tree == nil {
		return nil
	}
	raw, err := json.Marshal(tree)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, c.key(labelID), raw, c.ttl).Err()
}

func (c *lineageCache) Close() error {
	if c == nil || c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}
