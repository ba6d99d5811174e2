package services

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/yungbote/mealprep-backend/internal/data/repos"
	types "github.com/yungbote/mealprep-backend/internal/domain"
	"github.com/yungbote/mealprep-backend/internal/modules/production/yield"
	"github.com/yungbote/mealprep-backend/internal/observability"
	"github.com/yungbote/mealprep-backend/internal/platform/apierr"
	"github.com/yungbote/mealprep-backend/internal/platform/dbctx"
	"github.com/yungbote/mealprep-backend/internal/platform/logger"
)

var errPrepComponentNotFound = errors.New("prep component not found")

type YieldCalibrationService interface {
	Propose(ctx context.Context, componentID uuid.UUID, method, cutForm string) (*yield.CalibrationProposal, error)
	ProposeAll(ctx context.Context) ([]yield.CalibrationProposal, error)
	// ReloadParams swaps the thresholds used by subsequent proposals. Invalid params are rejected.
	ReloadParams(p yield.Params) error
}

type YieldCalibrationConfig struct {
	Params        yield.Params
	SampleLimit   int
	MaxConcurrent int
}

type yieldCalibrationService struct {
	db         *gorm.DB
	log        *logger.Logger
	components repos.PrepComponentRepo
	batches    repos.BatchRepo
	cfg        YieldCalibrationConfig
	params     atomic.Pointer[yield.Params]
}

func NewYieldCalibrationService(
	db *gorm.DB,
	log *logger.Logger,
	components repos.PrepComponentRepo,
	batches repos.BatchRepo,
	cfg YieldCalibrationConfig,
) YieldCalibrationService {
	if cfg.Params == (yield.Params{}) {
		cfg.Params = yield.DefaultParams()
	}
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = 4
	}
	s := &yieldCalibrationService{
		db:         db,
		log:        log.With("service", "YieldCalibrationService"),
		components: components,
		batches:    batches,
		cfg:        cfg,
	}
	params := cfg.Params
	s.params.Store(&params)
	return s
}

func (s *yieldCalibrationService) ReloadParams(p yield.Params) error {
	if err := p.Validate(); err != nil {
		return err
	}
	s.params.Store(&p)
	s.log.Info("Calibration params reloaded",
		"outlier_z_threshold", p.OutlierZThreshold,
		"min_confidence", p.MinConfidence,
	)
	return nil
}

func (s *yieldCalibrationService) Propose(ctx context.Context, componentID uuid.UUID, method, cutForm string) (out *yield.CalibrationProposal, err error) {
	ctx, span := startSpan(ctx, "YieldCalibration.Propose", attribute.String("prep_component.id", componentID.String()))
	defer func() { endSpan(span, err) }()

	rd, err := requireOrg(ctx)
	if err != nil {
		return nil, err
	}
	comp, err := s.components.GetByID(dbctx.Context{Ctx: ctx, Tx: s.db}, componentID)
	if err != nil {
		return nil, apierr.Internal("prep_component_lookup_failed", err)
	}
	if comp == nil || comp.OrganizationID != rd.OrganizationID {
		return nil, apierr.NotFound("prep_component_not_found", errPrepComponentNotFound)
	}
	prop, err := s.propose(ctx, comp, method, cutForm)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(
		attribute.String("calibration.basis", prop.Basis),
		attribute.Float64("calibration.confidence", prop.Confidence),
	)
	return &prop, nil
}

// ProposeAll calibrates every prep component of the caller's organization using
// each component's own method and cut form. Output follows component order.
func (s *yieldCalibrationService) ProposeAll(ctx context.Context) (out []yield.CalibrationProposal, err error) {
	ctx, span := startSpan(ctx, "YieldCalibration.ProposeAll")
	defer func() { endSpan(span, err) }()

	rd, err := requireOrg(ctx)
	if err != nil {
		return nil, err
	}
	comps, err := s.components.ListByOrganization(dbctx.Context{Ctx: ctx, Tx: s.db}, rd.OrganizationID)
	if err != nil {
		return nil, apierr.Internal("prep_component_list_failed", err)
	}

	out = make([]yield.CalibrationProposal, len(comps))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.MaxConcurrent)
	for i, comp := range comps {
		g.Go(func() error {
			prop, err := s.propose(gctx, comp, comp.Method, comp.CutForm)
			if err != nil {
				return err
			}
			out[i] = prop
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	calibrated := 0
	for _, p := range out {
		if p.Basis == yield.BasisCalibrated {
			calibrated++
		}
	}
	span.SetAttributes(attribute.Int("calibration.components", len(out)), attribute.Int("calibration.calibrated", calibrated))
	s.log.Info("Yield calibration sweep complete",
		"organization_id", rd.OrganizationID.String(),
		"components", len(out),
		"calibrated", calibrated,
	)
	return out, nil
}

func (s *yieldCalibrationService) propose(ctx context.Context, comp *types.PrepComponent, method, cutForm string) (yield.CalibrationProposal, error) {
	rows, err := s.batches.ListYieldOutcomes(dbctx.Context{Ctx: ctx, Tx: s.db}, comp.ID, s.cfg.SampleLimit)
	if err != nil {
		return yield.CalibrationProposal{}, apierr.Internal("yield_outcomes_failed", err)
	}
	outcomes := make([]yield.BatchOutcome, 0, len(rows))
	for _, b := range rows {
		outcomes = append(outcomes, yield.BatchOutcome{
			BatchID:        b.ID.String(),
			RawInputG:      b.RawInputG,
			ExpectedYieldG: b.ExpectedYieldG,
			ActualYieldG:   b.ActualYieldG,
			Method:         b.Method,
			CutForm:        b.CutForm,
			CreatedAt:      b.CreatedAt,
		})
	}
	samples := yield.SamplesFromOutcomes(outcomes)
	prop := yield.GenerateCalibrationProposal(
		comp.ID.String(),
		comp.Name,
		comp.DefaultYieldPct,
		samples,
		method,
		cutForm,
		*s.params.Load(),
	)
	observability.Current().IncCalibration(prop.Basis)
	return prop, nil
}
