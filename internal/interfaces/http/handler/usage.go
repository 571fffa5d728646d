package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/equipment/backend/internal/application/extraction"
	appmetering "github.com/equipment/backend/internal/application/metering"
	"github.com/equipment/backend/internal/domain/metering"
)

// UsageHandler handles API usage metering endpoints
type UsageHandler struct {
	BaseHandler
	svc *appmetering.Service
}

// NewUsageHandler creates a new UsageHandler
func NewUsageHandler(svc *appmetering.Service) *UsageHandler {
	return &UsageHandler{svc: svc}
}

// apiName resolves the metered API from the path, defaulting to the OCR API
func apiName(c *gin.Context) string {
	if name := c.Param("api"); name != "" {
		return name
	}
	return extraction.VisionAPIName
}

// GetStats godoc
// @ID           getAPIUsageStats
// @Summary      Get the current-month usage of a metered API
// @Tags         usage
// @Produce      json
// @Param        api path string true "API name" default(cloud-vision)
// @Success      200 {object} APIResponse[appmetering.Stats]
// @Failure      500 {object} ErrorResponse
// @Router       /api-usage/{api} [get]
func (h *UsageHandler) GetStats(c *gin.Context) {
	stats, err := h.svc.Stats(c.Request.Context(), apiName(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stats)
}

// GetHistory godoc
// @ID           getAPIUsageHistory
// @Summary      Get up to twelve months of usage for a metered API
// @Tags         usage
// @Produce      json
// @Param        api path string true "API name" default(cloud-vision)
// @Success      200 {object} APIResponse[[]metering.ApiUsage]
// @Failure      500 {object} ErrorResponse
// @Router       /api-usage/{api}/history [get]
func (h *UsageHandler) GetHistory(c *gin.Context) {
	history, err := h.svc.History(c.Request.Context(), apiName(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if history == nil {
		history = []*metering.ApiUsage{}
	}
	h.Success(c, history)
}

// Reset godoc
// @ID           resetAPIUsage
// @Summary      Reset the current-month counter of a metered API
// @Tags         usage
// @Produce      json
// @Param        api path string true "API name" default(cloud-vision)
// @Success      200 {object} SuccessResponse
// @Failure      500 {object} ErrorResponse
// @Router       /api-usage/{api}/reset [post]
func (h *UsageHandler) Reset(c *gin.Context) {
	if err := h.svc.Reset(c.Request.Context(), apiName(c)); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, nil)
}
