package services

import (
	"context"
	"errors"
	"sort"

	"github.com/google/uuid"

	"github.com/yungbote/mealprep-backend/internal/data/repos"
	types "github.com/yungbote/mealprep-backend/internal/domain"
	"github.com/yungbote/mealprep-backend/internal/modules/labels/lineage"
	"github.com/yungbote/mealprep-backend/internal/platform/ctxutil"
	"github.com/yungbote/mealprep-backend/internal/platform/dbctx"
)

func orgCtx(orgID uuid.UUID) context.Context {
	return ctxutil.WithRequestData(context.Background(), &ctxutil.RequestData{UserID: uuid.New(), OrganizationID: orgID})
}

type fakeSnapshotRepo struct {
	labels    map[uuid.UUID]*types.LabelSnapshot
	staleRows []repos.StaleLabelRow
	staleErr  error
	getCalls  int
}

func (f *fakeSnapshotRepo) GetByID(_ dbctx.Context, id uuid.UUID) (*types.LabelSnapshot, error) {
	f.getCalls++
	return f.labels[id], nil
}

func (f *fakeSnapshotRepo) GetByIDs(_ dbctx.Context, ids []uuid.UUID) ([]*types.LabelSnapshot, error) {
	out := []*types.LabelSnapshot{}
	for _, id := range ids {
		if l, ok := f.labels[id]; ok {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakeSnapshotRepo) ListByKey(_ dbctx.Context, orgID uuid.UUID, labelType, ref string) ([]*types.LabelSnapshot, error) {
	out := []*types.LabelSnapshot{}
	for _, l := range f.labels {
		if l.OrganizationID == orgID && l.LabelType == labelType && l.ExternalRefID == ref {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].VersionTime().After(out[j].VersionTime()) })
	return out, nil
}

func (f *fakeSnapshotRepo) ListStale(dbc dbctx.Context, _ uuid.UUID, _ int, _ int) ([]repos.StaleLabelRow, error) {
	if f.staleErr != nil {
		return nil, f.staleErr
	}
	if err := dbc.Ctx.Err(); err != nil {
		return nil, err
	}
	return f.staleRows, nil
}

type fakeEdgeRepo struct {
	children map[uuid.UUID][]*types.LabelLineageEdge
}

func (f *fakeEdgeRepo) ListByParentID(_ dbctx.Context, parentID uuid.UUID) ([]*types.LabelLineageEdge, error) {
	return f.children[parentID], nil
}

type memoryCache struct {
	trees map[uuid.UUID]*lineage.Node
	sets  int
}

func (m *memoryCache) Get(_ context.Context, id uuid.UUID) (*lineage.Node, bool, error) {
	t, ok := m.trees[id]
	return t, ok, nil
}

func (m *memoryCache) Set(_ context.Context, id uuid.UUID, tree *lineage.Node) error {
	if m.trees == nil {
		m.trees = map[uuid.UUID]*lineage.Node{}
	}
	m.trees[id] = tree
	m.sets++
	return nil
}

func (m *memoryCache) Close() error { return nil }

type fakeComponentRepo struct {
	comps []*types.PrepComponent
}

func (f *fakeComponentRepo) GetByID(_ dbctx.Context, id uuid.UUID) (*types.PrepComponent, error) {
	for _, c := range f.comps {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, nil
}

func (f *fakeComponentRepo) ListByOrganization(_ dbctx.Context, orgID uuid.UUID) ([]*types.PrepComponent, error) {
	out := []*types.PrepComponent{}
	for _, c := range f.comps {
		if c.OrganizationID == orgID {
			out = append(out, c)
		}
	}
	return out, nil
}

type fakeBatchRepo struct {
	batches  []*types.Batch
	outcomes map[uuid.UUID][]*types.Batch
	err      error
}

func (f *fakeBatchRepo) GetByID(_ dbctx.Context, id uuid.UUID) (*types.Batch, error) {
	for _, b := range f.batches {
		if b.ID == id {
			return b, nil
		}
	}
	return nil, nil
}

func (f *fakeBatchRepo) ListYieldOutcomes(_ dbctx.Context, componentID uuid.UUID, _ int) ([]*types.Batch, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.outcomes[componentID], nil
}

type fakeCheckpointRepo struct {
	byBatch map[uuid.UUID][]string
}

func (f *fakeCheckpointRepo) ListByBatchID(_ dbctx.Context, batchID uuid.UUID) ([]*types.BatchCheckpoint, error) {
	out := []*types.BatchCheckpoint{}
	for _, ct := range f.byBatch[batchID] {
		out = append(out, &types.BatchCheckpoint{BatchID: batchID, CheckpointType: ct})
	}
	return out, nil
}

func (f *fakeCheckpointRepo) ListTypesByBatchID(_ dbctx.Context, batchID uuid.UUID) ([]string, error) {
	return f.byBatch[batchID], nil
}

var errBoom = errors.New("boom")
