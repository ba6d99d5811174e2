// Package lineage walks the label lineage DAG: display trees, version resolution
// and staleness against product nutrient edits.
package lineage

import (
	"bytes"
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/yungbote/mealprep-backend/internal/domain"
)

// Source loads labels and their outgoing lineage edges. Not-found labels are
// returned as nil with a nil error.
type Source interface {
	GetLabel(ctx context.Context, id uuid.UUID) (*domain.LabelSnapshot, error)
	ListChildEdges(ctx context.Context, parentID uuid.UUID) ([]*domain.LabelLineageEdge, error)
}

// Graph is an in-memory adjacency map over a fixed set of labels and edges.
// It is read-only after NewGraph and safe for concurrent use.
type Graph struct {
	labels   map[uuid.UUID]*domain.LabelSnapshot
	order    []uuid.UUID
	children map[uuid.UUID][]*domain.LabelLineageEdge
}

func NewGraph(labels []*domain.LabelSnapshot, edges []*domain.LabelLineageEdge) *Graph {
	g := &Graph{
		labels:   make(map[uuid.UUID]*domain.LabelSnapshot, len(labels)),
		children: make(map[uuid.UUID][]*domain.LabelLineageEdge),
	}
	for _, l := range labels {
		if l == nil {
			continue
		}
		if _, dup := g.labels[l.ID]; !dup {
			g.order = append(g.order, l.ID)
		}
		g.labels[l.ID] = l
	}
	for _, e := range edges {
		if e == nil {
			continue
		}
		g.children[e.ParentLabelID] = append(g.children[e.ParentLabelID], e)
	}
	for _, list := range g.children {
		SortEdges(list)
	}
	return g
}

func (g *Graph) GetLabel(_ context.Context, id uuid.UUID) (*domain.LabelSnapshot, error) {
	if g == nil {
		return nil, nil
	}
	return g.labels[id], nil
}

func (g *Graph) ListChildEdges(_ context.Context, parentID uuid.UUID) ([]*domain.LabelLineageEdge, error) {
	if g == nil {
		return nil, nil
	}
	return g.children[parentID], nil
}

// Labels returns every label in insertion order.
func (g *Graph) Labels() []*domain.LabelSnapshot {
	if g == nil {
		return nil
	}
	out := make([]*domain.LabelSnapshot, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, g.labels[id])
	}
	return out
}

// SortEdges orders edges by (created_at, id), the order edge rows are read from storage.
func SortEdges(edges []*domain.LabelLineageEdge) {
	sort.SliceStable(edges, func(i, j int) bool {
		a, b := edges[i], edges[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return bytes.Compare(a.ID[:], b.ID[:]) < 0
	})
}
