package lineage

import (
	"bytes"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/mealprep-backend/internal/domain"
)

// MaxStaleResults caps a staleness page.
const MaxStaleResults = 100

type StaleLabel struct {
	LabelID           uuid.UUID `json:"label_id"`
	Title             string    `json:"title"`
	FrozenAt          time.Time `json:"frozen_at"`
	ProductID         uuid.UUID `json:"product_id"`
	ProductName       string    `json:"product_name"`
	NutrientUpdatedAt time.Time `json:"nutrient_updated_at"`
	StaleDays         int       `json:"stale_days"`
}

// StaleDays is the number of whole days from frozenAt to updatedAt, never negative.
func StaleDays(frozenAt, updatedAt time.Time) int {
	d := updatedAt.Sub(frozenAt)
	if d <= 0 {
		return 0
	}
	return int(math.Floor(d.Hours() / 24))
}

// FinalizeStale fills StaleDays, orders rows newest edit first (label id breaks
// ties) and applies the page cap.
func FinalizeStale(rows []StaleLabel, limit int) []StaleLabel {
	if limit <= 0 || limit > MaxStaleResults {
		limit = MaxStaleResults
	}
	for i := range rows {
		rows[i].StaleDays = StaleDays(rows[i].FrozenAt, rows[i].NutrientUpdatedAt)
	}
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if !a.NutrientUpdatedAt.Equal(b.NutrientUpdatedAt) {
			return a.NutrientUpdatedAt.After(b.NutrientUpdatedAt)
		}
		return bytes.Compare(a.LabelID[:], b.LabelID[:]) < 0
	})
	if len(rows) > limit {
		rows = rows[:limit]
	}
	return rows
}

// DetectStale walks every frozen SKU label of orgID in g and reports those with a
// descendant PRODUCT label whose product had a nutrient row updated after the
// label was frozen. Each stale label is reported once, against its most recent
// offending edit.
func DetectStale(
	g *Graph,
	products []*domain.ProductCatalog,
	values []*domain.ProductNutrientValue,
	orgID uuid.UUID,
	limit int,
) []StaleLabel {
	if g == nil {
		return []StaleLabel{}
	}
	names := make(map[uuid.UUID]string, len(products))
	for _, p := range products {
		if p != nil {
			names[p.ID] = p.Name
		}
	}
	lastEdit := map[uuid.UUID]time.Time{}
	for _, v := range values {
		if v == nil {
			continue
		}
		if cur, ok := lastEdit[v.ProductID]; !ok || v.UpdatedAt.After(cur) {
			lastEdit[v.ProductID] = v.UpdatedAt
		}
	}

	out := []StaleLabel{}
	for _, l := range g.Labels() {
		if l.OrganizationID != orgID || l.LabelType != domain.LabelTypeSKU || l.FrozenAt == nil {
			continue
		}
		frozenAt := *l.FrozenAt
		var (
			found     bool
			productID uuid.UUID
			updatedAt time.Time
		)
		for _, pid := range descendantProducts(g, l.ID, DefaultMaxDepth) {
			edited, ok := lastEdit[pid]
			if !ok || !edited.After(frozenAt) {
				continue
			}
			if !found || edited.After(updatedAt) ||
				(edited.Equal(updatedAt) && bytes.Compare(pid[:], productID[:]) < 0) {
				found, productID, updatedAt = true, pid, edited
			}
		}
		if !found {
			continue
		}
		out = append(out, StaleLabel{
			LabelID:           l.ID,
			Title:             l.Title,
			FrozenAt:          frozenAt,
			ProductID:         productID,
			ProductName:       names[productID],
			NutrientUpdatedAt: updatedAt,
		})
	}
	return FinalizeStale(out, limit)
}

// descendantProducts returns the product ids referenced by PRODUCT labels reachable
// from rootID within maxDepth hops. A node reached again at a shallower depth is
// re-expanded so the result matches a depth-bounded tree walk.
func descendantProducts(g *Graph, rootID uuid.UUID, maxDepth int) []uuid.UUID {
	seenDepth := map[uuid.UUID]int{rootID: 0}
	seenProduct := map[uuid.UUID]struct{}{}
	var out []uuid.UUID

	var walk func(id uuid.UUID, depth int)
	walk = func(id uuid.UUID, depth int) {
		if depth >= maxDepth {
			return
		}
		for _, e := range g.children[id] {
			child := g.labels[e.ChildLabelID]
			if child == nil {
				continue
			}
			d := depth + 1
			if prev, ok := seenDepth[child.ID]; ok && prev <= d {
				continue
			}
			seenDepth[child.ID] = d
			if child.LabelType == domain.LabelTypeProduct {
				if pid, err := uuid.Parse(child.ExternalRefID); err == nil {
					if _, dup := seenProduct[pid]; !dup {
						seenProduct[pid] = struct{}{}
						out = append(out, pid)
					}
				}
			}
			walk(child.ID, d)
		}
	}
	walk(rootID, 0)
	return out
}
