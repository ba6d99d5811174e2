package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/mealprep-backend/internal/http/response"
	"github.com/yungbote/mealprep-backend/internal/services"
)

type YieldHandler struct {
	calibration services.YieldCalibrationService
}

func NewYieldHandler(calibration services.YieldCalibrationService) *YieldHandler {
	return &YieldHandler{calibration: calibration}
}

// GET /api/prep-components/:id/yield-calibration?method=&cut_form=
func (h *YieldHandler) GetCalibration(c *gin.Context) {
	componentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_prep_component_id", err)
		return
	}
	prop, err := h.calibration.Propose(c.Request.Context(), componentID, c.Query("method"), c.Query("cut_form"))
	if err != nil {
		response.RespondServiceError(c, "yield_calibration_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"proposal": prop})
}

// GET /api/prep-components/yield-calibration
func (h *YieldHandler) ListCalibrations(c *gin.Context) {
	props, err := h.calibration.ProposeAll(c.Request.Context())
	if err != nil {
		response.RespondServiceError(c, "yield_calibration_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"proposals": props})
}
