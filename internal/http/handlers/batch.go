package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/mealprep-backend/internal/http/response"
	"github.com/yungbote/mealprep-backend/internal/services"
)

type BatchHandler struct {
	gates services.BatchGateService
}

func NewBatchHandler(gates services.BatchGateService) *BatchHandler {
	return &BatchHandler{gates: gates}
}

type gateCheckRequest struct {
	TargetStatus string `json:"target_status" binding:"required"`
}

// POST /api/batches/:id/gate-check
func (h *BatchHandler) CheckGate(c *gin.Context) {
	batchID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_batch_id", err)
		return
	}
	var req gateCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	res, err := h.gates.CheckGate(c.Request.Context(), batchID, req.TargetStatus)
	if err != nil {
		response.RespondServiceError(c, "gate_check_failed", err)
		return
	}
	response.RespondOK(c, res)
}
