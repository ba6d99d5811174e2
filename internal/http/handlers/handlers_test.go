package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/mealprep-backend/internal/domain"
	"github.com/yungbote/mealprep-backend/internal/modules/labels/lineage"
	"github.com/yungbote/mealprep-backend/internal/modules/labels/recompute"
	"github.com/yungbote/mealprep-backend/internal/modules/production/checkpoint"
	"github.com/yungbote/mealprep-backend/internal/modules/production/yield"
	"github.com/yungbote/mealprep-backend/internal/platform/apierr"
)

type stubLabels struct {
	tree       *lineage.Node
	err        error
	recomputed recompute.RecomputedData
	staleLimit int
}

func (s *stubLabels) GetLineage(context.Context, uuid.UUID) (*lineage.Node, error) {
	return s.tree, s.err
}

func (s *stubLabels) ListVersions(context.Context, uuid.UUID) ([]lineage.Version, error) {
	return []lineage.Version{{Label: s.tree.Label, IsLatest: true}}, s.err
}

func (s *stubLabels) ListStale(_ context.Context, limit int) ([]lineage.StaleLabel, error) {
	s.staleLimit = limit
	return []lineage.StaleLabel{}, s.err
}

func (s *stubLabels) RecomputeDiff(_ context.Context, _ uuid.UUID, r recompute.RecomputedData) (*recompute.Diff, error) {
	s.recomputed = r
	return &recompute.Diff{Summary: recompute.SummaryNoDifferences}, s.err
}

type stubCalibration struct {
	method, cutForm string
}

func (s *stubCalibration) Propose(_ context.Context, id uuid.UUID, method, cutForm string) (*yield.CalibrationProposal, error) {
	s.method, s.cutForm = method, cutForm
	return &yield.CalibrationProposal{ComponentID: id.String(), Basis: yield.BasisDefault}, nil
}

func (s *stubCalibration) ProposeAll(context.Context) ([]yield.CalibrationProposal, error) {
	return []yield.CalibrationProposal{{Basis: yield.BasisCalibrated}}, nil
}

func (s *stubCalibration) ReloadParams(yield.Params) error { return nil }

type stubGates struct {
	target string
}

func (s *stubGates) CheckGate(_ context.Context, _ uuid.UUID, target string) (*checkpoint.Result, error) {
	s.target = target
	res := checkpoint.ValidateGate(target, nil)
	return &res, nil
}

func newTestRouter(labels *stubLabels, cal *stubCalibration, gates *stubGates) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	lh := NewLabelHandler(labels)
	r.GET("/api/labels/stale", lh.ListStale)
	r.GET("/api/labels/:id/lineage", lh.GetLineage)
	r.GET("/api/labels/:id/versions", lh.ListVersions)
	r.POST("/api/labels/:id/recompute-diff", lh.RecomputeDiff)
	yh := NewYieldHandler(cal)
	r.GET("/api/prep-components/yield-calibration", yh.ListCalibrations)
	r.GET("/api/prep-components/:id/yield-calibration", yh.GetCalibration)
	r.POST("/api/batches/:id/gate-check", NewBatchHandler(gates).CheckGate)
	r.GET("/healthcheck", NewHealthHandler(nil).HealthCheck)
	return r
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestLabelHandlerLineage(t *testing.T) {
	id := uuid.New()
	labels := &stubLabels{tree: &lineage.Node{Label: &domain.LabelSnapshot{ID: id, Title: "Bowl"}, Children: []*lineage.Node{}}}
	r := newTestRouter(labels, &stubCalibration{}, &stubGates{})

	rec := do(r, http.MethodGet, "/api/labels/"+id.String()+"/lineage", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}
	var body struct {
		Lineage struct {
			Label struct {
				ID    string `json:"id"`
				Title string `json:"title"`
			} `json:"label"`
		} `json:"lineage"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Lineage.Label.ID != id.String() || body.Lineage.Label.Title != "Bowl" {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}

	if rec := do(r, http.MethodGet, "/api/labels/not-a-uuid/lineage", ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad id, got %d", rec.Code)
	}

	labels.err = apierr.NotFound("label_not_found", errors.New("label not found"))
	if rec := do(r, http.MethodGet, "/api/labels/"+id.String()+"/lineage", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestLabelHandlerStaleLimit(t *testing.T) {
	labels := &stubLabels{}
	r := newTestRouter(labels, &stubCalibration{}, &stubGates{})
	if rec := do(r, http.MethodGet, "/api/labels/stale?limit=25", ""); rec.Code != http.StatusOK {
		t.Fatalf("status=%d", rec.Code)
	}
	if labels.staleLimit != 25 {
		t.Fatalf("expected limit 25, got %d", labels.staleLimit)
	}
	if rec := do(r, http.MethodGet, "/api/labels/stale?limit=abc", ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	rec := do(r, http.MethodGet, "/api/labels/stale?limit=-1", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for a negative limit, got %d", rec.Code)
	}
	var body struct {
		Error struct {
			Message string `json:"message"`
			Code    string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Error.Code != "invalid_limit" || body.Error.Message != "limit must be >= 0" {
		t.Fatalf("unexpected error body: %s", rec.Body.String())
	}
}

func TestLabelHandlerRecomputeDiffBindsBody(t *testing.T) {
	labels := &stubLabels{}
	r := newTestRouter(labels, &stubCalibration{}, &stubGates{})
	body := `{"serving_weight_g":340,"servings":1,"per_serving":{"kcal":510,"fat_g":null},"provisional":true,"reason_codes":["INFERRED_FAT"]}`
	rec := do(r, http.MethodPost, "/api/labels/"+uuid.NewString()+"/recompute-diff", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}
	got := labels.recomputed
	if got.ServingWeightG != 340 || !got.Provisional || len(got.ReasonCodes) != 1 || *got.PerServing["kcal"] != 510 || got.PerServing["fat_g"] != nil {
		t.Fatalf("unexpected bound body: %+v", got)
	}
	if rec := do(r, http.MethodPost, "/api/labels/"+uuid.NewString()+"/recompute-diff", `{"per_serving":`); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed body, got %d", rec.Code)
	}
}

func TestYieldHandlerPassesFilters(t *testing.T) {
	cal := &stubCalibration{}
	r := newTestRouter(&stubLabels{}, cal, &stubGates{})
	rec := do(r, http.MethodGet, "/api/prep-components/"+uuid.NewString()+"/yield-calibration?method=roast&cut_form=diced", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d", rec.Code)
	}
	if cal.method != "roast" || cal.cutForm != "diced" {
		t.Fatalf("filters not forwarded: %q %q", cal.method, cal.cutForm)
	}
	if rec := do(r, http.MethodGet, "/api/prep-components/yield-calibration", ""); rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"proposals"`) {
		t.Fatalf("unexpected list response: %d %s", rec.Code, rec.Body.String())
	}
}

func TestBatchHandlerGateCheck(t *testing.T) {
	gates := &stubGates{}
	r := newTestRouter(&stubLabels{}, &stubCalibration{}, gates)
	rec := do(r, http.MethodPost, "/api/batches/"+uuid.NewString()+"/gate-check", `{"target_status":"COOKING"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}
	var res checkpoint.Result
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.Valid || len(res.Missing) != 1 || res.Missing[0] != "COOK_START" {
		t.Fatalf("unexpected result: %+v", res)
	}
	if rec := do(r, http.MethodPost, "/api/batches/"+uuid.NewString()+"/gate-check", `{}`); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without target_status, got %d", rec.Code)
	}
}

func TestHealthCheck(t *testing.T) {
	r := newTestRouter(&stubLabels{}, &stubCalibration{}, &stubGates{})
	if rec := do(r, http.MethodGet, "/healthcheck", ""); rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Fatalf("unexpected health response: %d %q", rec.Code, rec.Body.String())
	}
}

func TestHealthCheckDatabaseDown(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/healthcheck", NewHealthHandler(func(context.Context) error { return errors.New("dial refused") }).HealthCheck)
	rec := do(r, http.MethodGet, "/healthcheck", "")
	if rec.Code != http.StatusServiceUnavailable || !strings.Contains(rec.Body.String(), "database_unavailable") {
		t.Fatalf("unexpected health response: %d %q", rec.Code, rec.Body.String())
	}
}
