package graph

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/sony/gobreaker"

	"github.com/yungbote/mealprep-backend/internal/modules/labels/lineage"
	"github.com/yungbote/mealprep-backend/internal/platform/logger"
	"github.com/yungbote/mealprep-backend/internal/platform/neo4jdb"
)

// LabelLineageGraph mirrors built lineage trees into Neo4j for ad hoc
// provenance exploration. Postgres stays the source of truth.
type LabelLineageGraph struct {
	client  *neo4jdb.Client
	log     *logger.Logger
	breaker *gobreaker.CircuitBreaker
	write   func(ctx context.Context, nodes, edges []map[string]any) error

	initSchema  func(ctx context.Context) error
	schemaMu    sync.Mutex
	schemaReady bool
}

// NewLabelLineageGraph returns nil when client is nil so callers can skip the projection.
func NewLabelLineageGraph(client *neo4jdb.Client, log *logger.Logger) *LabelLineageGraph {
	if client == nil || client.Driver == nil {
		return nil
	}
	g := &LabelLineageGraph{client: client, log: log.With("graph", "LabelLineage")}
	g.breaker = newProjectionBreaker(g.log)
	g.write = g.writeNeo4j
	g.initSchema = g.createSchema
	return g
}

const (
	breakerTripAfter = 3
	breakerCoolDown  = 30 * time.Second
)

// newProjectionBreaker stops hammering an unreachable graph: after breakerTripAfter
// consecutive failures projections are skipped until the cool-down elapses.
func newProjectionBreaker(log *logger.Logger) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "neo4j-label-lineage",
		MaxRequests: 1,
		Timeout:     breakerCoolDown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= breakerTripAfter
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			if log != nil {
				log.Warn("Lineage graph breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
			}
		},
	})
}

// lineageRows flattens a tree into deduplicated node and edge parameter rows.
func lineageRows(tree *lineage.Node, syncedAt string) ([]map[string]any, []map[string]any) {
	nodes := []map[string]any{}
	edges := []map[string]any{}
	if tree == nil || tree.Label == nil {
		return nodes, edges
	}
	seenNodes := map[string]bool{}
	seenEdges := map[string]bool{}

	var walk func(n *lineage.Node)
	walk = func(n *lineage.Node) {
		id := n.Label.ID.String()
		if !seenNodes[id] {
			seenNodes[id] = true
			row := map[string]any{
				"id":              id,
				"organization_id": n.Label.OrganizationID.String(),
				"label_type":      n.Label.LabelType,
				"external_ref_id": n.Label.ExternalRefID,
				"title":           n.Label.Title,
				"frozen_at":       nil,
				"synced_at":       syncedAt,
			}
			if n.Label.FrozenAt != nil {
				row["frozen_at"] = n.Label.FrozenAt.UTC().Format(time.RFC3339Nano)
			}
			nodes = append(nodes, row)
		}
		for _, child := range n.Children {
			if child == nil || child.Label == nil {
				continue
			}
			key := id + "|" + child.Label.ID.String() + "|" + child.EdgeType
			if !seenEdges[key] {
				seenEdges[key] = true
				edges = append(edges, map[string]any{
					"parent_id": id,
					"child_id":  child.Label.ID.String(),
					"edge_type": child.EdgeType,
				})
			}
			walk(child)
		}
	}
	walk(tree)
	return nodes, edges
}

// Upsert merges every label and edge of tree. Trees are immutable once frozen,
// so repeated upserts converge.
func (g *LabelLineageGraph) Upsert(ctx context.Context, tree *lineage.Node) error {
	if g == nil {
		return nil
	}
	if tree == nil || tree.Label == nil {
		return fmt.Errorf("neo4j label lineage sync: missing tree")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	nodes, edges := lineageRows(tree, time.Now().UTC().Format(time.RFC3339Nano))

	_, err := g.breaker.Execute(func() (any, error) {
		g.ensureSchema(ctx)
		return nil, g.write(ctx, nodes, edges)
	})
	if err != nil {
		return fmt.Errorf("neo4j label lineage sync: %w", err)
	}
	return nil
}

// ensureSchema runs the schema init until it succeeds once. Failures are
// logged and retried on the next upsert.
func (g *LabelLineageGraph) ensureSchema(ctx context.Context) {
	g.schemaMu.Lock()
	defer g.schemaMu.Unlock()
	if g.schemaReady || g.initSchema == nil {
		return
	}
	if err := g.initSchema(ctx); err != nil {
		g.log.Warn("neo4j schema init failed (continuing)", "error", err)
		return
	}
	g.schemaReady = true
}

func (g *LabelLineageGraph) createSchema(ctx context.Context) error {
	session := g.client.Driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeWrite,
		DatabaseName: g.client.Database,
	})
	defer session.Close(ctx)

	res, err := session.Run(ctx, `CREATE CONSTRAINT label_snapshot_id_unique IF NOT EXISTS FOR (l:LabelSnapshot) REQUIRE l.id IS UNIQUE`, nil)
	if err != nil {
		return err
	}
	_, err = res.Consume(ctx)
	return err
}

func (g *LabelLineageGraph) writeNeo4j(ctx context.Context, nodes, edges []map[string]any) error {
	session := g.client.Driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeWrite,
		DatabaseName: g.client.Database,
	})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, `
UNWIND $nodes AS n
MERGE (l:LabelSnapshot {id: n.id})
SET l += n
`, map[string]any{"nodes": nodes})
		if err != nil {
			return nil, err
		}
		if _, err := res.Consume(ctx); err != nil {
			return nil, err
		}

		if len(edges) > 0 {
			res, err := tx.Run(ctx, `
UNWIND $edges AS e
MATCH (p:LabelSnapshot {id: e.parent_id})
MATCH (c:LabelSnapshot {id: e.child_id})
MERGE (p)-[r:DERIVED_FROM {edge_type: e.edge_type}]->(c)
`, map[string]any{"edges": edges})
			if err != nil {
				return nil, err
			}
			if _, err := res.Consume(ctx); err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
	return err
}
