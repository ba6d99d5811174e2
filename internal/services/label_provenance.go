package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"

	"github.com/yungbote/mealprep-backend/internal/clients/redis"
	"github.com/yungbote/mealprep-backend/internal/data/repos"
	types "github.com/yungbote/mealprep-backend/internal/domain"
	"github.com/yungbote/mealprep-backend/internal/modules/labels/lineage"
	"github.com/yungbote/mealprep-backend/internal/modules/labels/recompute"
	"github.com/yungbote/mealprep-backend/internal/observability"
	"github.com/yungbote/mealprep-backend/internal/platform/apierr"
	"github.com/yungbote/mealprep-backend/internal/platform/dbctx"
	"github.com/yungbote/mealprep-backend/internal/platform/logger"
)

var (
	errMissingRequestData = errors.New("request data not set in context")
	errLabelNotFound      = errors.New("label not found")
)

type LabelProvenanceService interface {
	GetLineage(ctx context.Context, labelID uuid.UUID) (*lineage.Node, error)
	ListVersions(ctx context.Context, labelID uuid.UUID) ([]lineage.Version, error)
	ListStale(ctx context.Context, limit int) ([]lineage.StaleLabel, error)
	RecomputeDiff(ctx context.Context, labelID uuid.UUID, recomputed recompute.RecomputedData) (*recompute.Diff, error)
}

// LineageProjector mirrors freshly built trees into a secondary store.
type LineageProjector interface {
	Upsert(ctx context.Context, tree *lineage.Node) error
}

type LabelProvenanceConfig struct {
	MaxDepth         int
	StalenessTimeout time.Duration
}

type labelProvenanceService struct {
	db        *gorm.DB
	log       *logger.Logger
	snapshots repos.LabelSnapshotRepo
	edges     repos.LabelLineageEdgeRepo
	cache     redis.LineageCache
	projector LineageProjector
	cfg       LabelProvenanceConfig
}

// NewLabelProvenanceService wires label lookups. cache and projector may be nil.
func NewLabelProvenanceService(
	db *gorm.DB,
	log *logger.Logger,
	snapshots repos.LabelSnapshotRepo,
	edges repos.LabelLineageEdgeRepo,
	cache redis.LineageCache,
	projector LineageProjector,
	cfg LabelProvenanceConfig,
) LabelProvenanceService {
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = lineage.DefaultMaxDepth
	}
	if cfg.StalenessTimeout <= 0 {
		cfg.StalenessTimeout = 10 * time.Second
	}
	return &labelProvenanceService{
		db:        db,
		log:       log.With("service", "LabelProvenanceService"),
		snapshots: snapshots,
		edges:     edges,
		cache:     cache,
		projector: projector,
		cfg:       cfg,
	}
}

// repoSource reads the lineage DAG through the label repos.
type repoSource struct {
	db        *gorm.DB
	snapshots repos.LabelSnapshotRepo
	edges     repos.LabelLineageEdgeRepo
}

func (s repoSource) GetLabel(ctx context.Context, id uuid.UUID) (*types.LabelSnapshot, error) {
	return s.snapshots.GetByID(dbctx.Context{Ctx: ctx, Tx: s.db}, id)
}

func (s repoSource) ListChildEdges(ctx context.Context, parentID uuid.UUID) ([]*types.LabelLineageEdge, error) {
	return s.edges.ListByParentID(dbctx.Context{Ctx: ctx, Tx: s.db}, parentID)
}

func (s *labelProvenanceService) GetLineage(ctx context.Context, labelID uuid.UUID) (tree *lineage.Node, err error) {
	ctx, span := startSpan(ctx, "LabelProvenance.GetLineage", attribute.String("label.id", labelID.String()))
	defer func() { endSpan(span, err) }()

	rd, err := requireOrg(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		cached, ok, cerr := s.cache.Get(ctx, labelID)
		if cerr != nil {
			s.log.Warn("Lineage cache read failed", "label_id", labelID.String(), "error", cerr)
		} else if ok {
			span.SetAttributes(attribute.Bool("cache.hit", true))
			observability.Current().ObserveLineage(true, 0)
			if cached.Label == nil || cached.Label.OrganizationID != rd.OrganizationID {
				return nil, apierr.NotFound("label_not_found", errLabelNotFound)
			}
			return cached, nil
		}
	}

	builder := lineage.NewBuilder(repoSource{db: s.db, snapshots: s.snapshots, edges: s.edges}, s.cfg.MaxDepth)
	tree, err = builder.Build(ctx, labelID)
	if err != nil {
		return nil, apierr.Internal("lineage_build_failed", err)
	}
	if tree == nil || tree.Label.OrganizationID != rd.OrganizationID {
		return nil, apierr.NotFound("label_not_found", errLabelNotFound)
	}
	span.SetAttributes(attribute.Int("lineage.nodes", tree.Count()))
	observability.Current().ObserveLineage(false, tree.Count())

	if s.cache != nil {
		if cerr := s.cache.Set(ctx, labelID, tree); cerr != nil {
			s.log.Warn("Lineage cache write failed", "label_id", labelID.String(), "error", cerr)
		}
	}
	if s.projector != nil {
		s.project(ctx, tree)
	}
	return tree, nil
}

// projectionTimeout bounds one background lineage projection.
const projectionTimeout = 15 * time.Second

// project mirrors tree in the background. It outlives the request context but
// not projectionTimeout.
func (s *labelProvenanceService) project(ctx context.Context, tree *lineage.Node) {
	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), projectionTimeout)
	go func() {
		defer cancel()
		if err := s.projector.Upsert(pctx, tree); err != nil {
			s.log.Warn("Lineage graph projection failed", "label_id", tree.Label.ID.String(), "error", err)
		}
	}()
}

func (s *labelProvenanceService) ListVersions(ctx context.Context, labelID uuid.UUID) (out []lineage.Version, err error) {
	ctx, span := startSpan(ctx, "LabelProvenance.ListVersions", attribute.String("label.id", labelID.String()))
	defer func() { endSpan(span, err) }()

	label, err := s.ownedLabel(ctx, labelID)
	if err != nil {
		return nil, err
	}
	all, err := s.snapshots.ListByKey(dbctx.Context{Ctx: ctx, Tx: s.db}, label.OrganizationID, label.LabelType, label.ExternalRefID)
	if err != nil {
		return nil, apierr.Internal("label_versions_failed", err)
	}
	return lineage.ResolveVersions(all), nil
}

func (s *labelProvenanceService) ListStale(ctx context.Context, limit int) (out []lineage.StaleLabel, err error) {
	ctx, span := startSpan(ctx, "LabelProvenance.ListStale")
	defer func() { endSpan(span, err) }()

	rd, err := requireOrg(ctx)
	if err != nil {
		return nil, err
	}
	if limit <= 0 || limit > lineage.MaxStaleResults {
		limit = lineage.MaxStaleResults
	}

	qctx, cancel := context.WithTimeout(ctx, s.cfg.StalenessTimeout)
	defer cancel()

	start := time.Now()
	rows, err := s.snapshots.ListStale(dbctx.Context{Ctx: qctx, Tx: s.db}, rd.OrganizationID, s.cfg.MaxDepth, limit)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(qctx.Err(), context.DeadlineExceeded) {
			observability.Current().ObserveStaleScan(rd.OrganizationID.String(), "timeout", 0, time.Since(start))
			return nil, apierr.New(http.StatusGatewayTimeout, "staleness_timeout", fmt.Errorf("staleness query exceeded %s", s.cfg.StalenessTimeout))
		}
		observability.Current().ObserveStaleScan(rd.OrganizationID.String(), "error", 0, time.Since(start))
		return nil, apierr.Internal("staleness_query_failed", err)
	}

	out = make([]lineage.StaleLabel, 0, len(rows))
	for _, r := range rows {
		out = append(out, lineage.StaleLabel{
			LabelID:           r.LabelID,
			Title:             r.Title,
			FrozenAt:          r.FrozenAt,
			ProductID:         r.ProductID,
			ProductName:       r.ProductName,
			NutrientUpdatedAt: r.NutrientUpdatedAt,
		})
	}
	out = lineage.FinalizeStale(out, limit)
	span.SetAttributes(attribute.Int("stale.count", len(out)))
	if metrics := observability.Current(); metrics != nil {
		metrics.ObserveStaleScan(rd.OrganizationID.String(), "ok", len(out), time.Since(start))
	}
	s.log.Debug("Staleness query complete",
		"organization_id", rd.OrganizationID.String(),
		"count", len(out),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return out, nil
}

func (s *labelProvenanceService) RecomputeDiff(ctx context.Context, labelID uuid.UUID, recomputed recompute.RecomputedData) (out *recompute.Diff, err error) {
	ctx, span := startSpan(ctx, "LabelProvenance.RecomputeDiff", attribute.String("label.id", labelID.String()))
	defer func() { endSpan(span, err) }()

	label, err := s.ownedLabel(ctx, labelID)
	if err != nil {
		return nil, err
	}
	snap, err := recompute.SnapshotFromLabel(label)
	if err != nil {
		return nil, apierr.Internal("render_payload_invalid", err)
	}
	diff := recompute.BuildRecomputeDiff(snap, recomputed)
	span.SetAttributes(
		attribute.Bool("diff.has_differences", diff.HasDifferences),
		attribute.Int("diff.significant_deltas", len(diff.SignificantDeltas)),
	)
	observability.Current().IncRecomputeDiff(diff.HasDifferences)
	if diff.HasDifferences {
		s.log.Info("Recompute diff found differences",
			"label_id", labelID.String(),
			"significant_deltas", len(diff.SignificantDeltas),
			"summary", diff.Summary,
		)
	}
	return &diff, nil
}

func (s *labelProvenanceService) ownedLabel(ctx context.Context, labelID uuid.UUID) (*types.LabelSnapshot, error) {
	rd, err := requireOrg(ctx)
	if err != nil {
		return nil, err
	}
	label, err := s.snapshots.GetByID(dbctx.Context{Ctx: ctx, Tx: s.db}, labelID)
	if err != nil {
		return nil, apierr.Internal("label_lookup_failed", err)
	}
	if label == nil || label.OrganizationID != rd.OrganizationID {
		return nil, apierr.NotFound("label_not_found", errLabelNotFound)
	}
	return label, nil
}
