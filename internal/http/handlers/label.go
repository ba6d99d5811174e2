package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/mealprep-backend/internal/http/response"
	"github.com/yungbote/mealprep-backend/internal/modules/labels/recompute"
	"github.com/yungbote/mealprep-backend/internal/services"
)

var errNegativeLimit = errors.New("limit must be >= 0")

type LabelHandler struct {
	labels services.LabelProvenanceService
}

func NewLabelHandler(labels services.LabelProvenanceService) *LabelHandler {
	return &LabelHandler{labels: labels}
}

// GET /api/labels/:id/lineage
func (h *LabelHandler) GetLineage(c *gin.Context) {
	labelID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_label_id", err)
		return
	}
	tree, err := h.labels.GetLineage(c.Request.Context(), labelID)
	if err != nil {
		response.RespondServiceError(c, "lineage_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"lineage": tree})
}

// GET /api/labels/:id/versions
func (h *LabelHandler) ListVersions(c *gin.Context) {
	labelID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_label_id", err)
		return
	}
	versions, err := h.labels.ListVersions(c.Request.Context(), labelID)
	if err != nil {
		response.RespondServiceError(c, "label_versions_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"versions": versions})
}

// GET /api/labels/stale?limit=
func (h *LabelHandler) ListStale(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_limit", err)
			return
		}
		if n < 0 {
			response.RespondError(c, http.StatusBadRequest, "invalid_limit", errNegativeLimit)
			return
		}
		limit = n
	}
	rows, err := h.labels.ListStale(c.Request.Context(), limit)
	if err != nil {
		response.RespondServiceError(c, "stale_labels_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"stale_labels": rows})
}

// POST /api/labels/:id/recompute-diff
func (h *LabelHandler) RecomputeDiff(c *gin.Context) {
	labelID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_label_id", err)
		return
	}
	var body recompute.RecomputedData
	if err := c.ShouldBindJSON(&body); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	diff, err := h.labels.RecomputeDiff(c.Request.Context(), labelID, body)
	if err != nil {
		response.RespondServiceError(c, "recompute_diff_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"diff": diff})
}
