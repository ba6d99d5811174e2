package lineage

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/yungbote/mealprep-backend/internal/domain"
)

const DefaultMaxDepth = 16

type Node struct {
	Label     *domain.LabelSnapshot `json:"label"`
	EdgeType  string                `json:"edge_type,omitempty"`
	Truncated bool                  `json:"truncated,omitempty"`
	Children  []*Node               `json:"children"`
}

// Count returns the number of nodes in the subtree rooted at n.
func (n *Node) Count() int {
	if n == nil {
		return 0
	}
	c := 1
	for _, ch := range n.Children {
		c += ch.Count()
	}
	return c
}

type Builder struct {
	Source   Source
	MaxDepth int
}

func NewBuilder(src Source, maxDepth int) *Builder {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return &Builder{Source: src, MaxDepth: maxDepth}
}

// Build loads the label and its descendants. It returns nil, nil when the root
// label does not exist. Nodes at MaxDepth that still have children are returned
// without them and marked Truncated.
func (b *Builder) Build(ctx context.Context, labelID uuid.UUID) (*Node, error) {
	if b == nil || b.Source == nil {
		return nil, fmt.Errorf("lineage builder has no source")
	}
	maxDepth := b.MaxDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	root, err := b.Source.GetLabel(ctx, labelID)
	if err != nil {
		return nil, fmt.Errorf("load label %s: %w", labelID, err)
	}
	if root == nil {
		return nil, nil
	}
	node := &Node{Label: root, Children: []*Node{}}
	if err := b.expand(ctx, node, 0, maxDepth); err != nil {
		return nil, err
	}
	return node, nil
}

func (b *Builder) expand(ctx context.Context, n *Node, depth, maxDepth int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	edges, err := b.Source.ListChildEdges(ctx, n.Label.ID)
	if err != nil {
		return fmt.Errorf("load edges for %s: %w", n.Label.ID, err)
	}
	if len(edges) == 0 {
		return nil
	}
	if depth >= maxDepth {
		n.Truncated = true
		return nil
	}
	for _, e := range edges {
		if e == nil {
			continue
		}
		child, err := b.Source.GetLabel(ctx, e.ChildLabelID)
		if err != nil {
			return fmt.Errorf("load label %s: %w", e.ChildLabelID, err)
		}
		if child == nil {
			continue
		}
		cn := &Node{Label: child, EdgeType: e.EdgeType, Children: []*Node{}}
		if err := b.expand(ctx, cn, depth+1, maxDepth); err != nil {
			return err
		}
		n.Children = append(n.Children, cn)
	}
	return nil
}
