package lineage

import (
	"bytes"

	"github.com/google/uuid"

	"github.com/yungbote/mealprep-backend/internal/domain"
)

type Version struct {
	Label               *domain.LabelSnapshot `json:"label"`
	IsLatest            bool                  `json:"is_latest"`
	SupersededByLabelID *uuid.UUID            `json:"superseded_by_label_id,omitempty"`
}

type versionKey struct {
	org    uuid.UUID
	typ    string
	extRef string
}

func keyOf(l *domain.LabelSnapshot) versionKey {
	return versionKey{org: l.OrganizationID, typ: l.LabelType, extRef: l.ExternalRefID}
}

// newer reports whether a sorts after b by (version time, id).
func newer(a, b *domain.LabelSnapshot) bool {
	ta, tb := a.VersionTime(), b.VersionTime()
	if !ta.Equal(tb) {
		return ta.After(tb)
	}
	return bytes.Compare(a.ID[:], b.ID[:]) > 0
}

// Latest returns the current label among candidates, ignoring key boundaries.
func Latest(candidates []*domain.LabelSnapshot) *domain.LabelSnapshot {
	var best *domain.LabelSnapshot
	for _, l := range candidates {
		if l == nil {
			continue
		}
		if best == nil || newer(l, best) {
			best = l
		}
	}
	return best
}

// ResolveVersions marks, per (organization, label type, external ref), the newest
// label as latest and points every other label at it. Output keeps input order.
func ResolveVersions(labels []*domain.LabelSnapshot) []Version {
	latest := map[versionKey]*domain.LabelSnapshot{}
	for _, l := range labels {
		if l == nil {
			continue
		}
		k := keyOf(l)
		if cur, ok := latest[k]; !ok || newer(l, cur) {
			latest[k] = l
		}
	}
	out := make([]Version, 0, len(labels))
	for _, l := range labels {
		if l == nil {
			continue
		}
		cur := latest[keyOf(l)]
		v := Version{Label: l}
		if cur.ID == l.ID {
			v.IsLatest = true
		} else {
			id := cur.ID
			v.SupersededByLabelID = &id
		}
		out = append(out, v)
	}
	return out
}
