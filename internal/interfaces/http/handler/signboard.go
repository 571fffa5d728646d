package handler

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appsignboard "github.com/equipment/backend/internal/application/signboard"
	"github.com/equipment/backend/internal/domain/signboard"
	"github.com/equipment/backend/internal/infrastructure/excel"
	"github.com/equipment/backend/internal/interfaces/http/dto"
)

// SignboardHandler handles signboard API endpoints
type SignboardHandler struct {
	BaseHandler
	svc      *appsignboard.Service
	exporter *excel.Exporter
	logger   *zap.Logger
}

// NewSignboardHandler creates a new SignboardHandler
func NewSignboardHandler(svc *appsignboard.Service, exporter *excel.Exporter, logger *zap.Logger) *SignboardHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SignboardHandler{svc: svc, exporter: exporter, logger: logger}
}

// signboardListRequest carries the list query parameters
type signboardListRequest struct {
	dto.ListRequest
	Status string `form:"status"`
}

// ListSignboards godoc
// @ID           listSignboards
// @Summary      List signboards
// @Description  Returns signboards with search, status filter, sorting and pagination
// @Tags         signboards
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Param        search query string false "Search in comment, description and location"
// @Param        status query string false "Filter by status"
// @Param        sort_by query string false "Sort field" default(created_at)
// @Param        sort_order query string false "Sort direction" Enums(asc, desc)
// @Success      200 {object} APIResponse[[]signboard.Signboard]
// @Failure      400 {object} ErrorResponse
// @Router       /signboards [get]
func (h *SignboardHandler) ListSignboards(c *gin.Context) {
	req := signboardListRequest{ListRequest: dto.DefaultListRequest()}
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	items, total, err := h.svc.List(c.Request.Context(), signboard.ListQuery{
		Search:    req.Search,
		Status:    req.Status,
		SortBy:    req.SortBy,
		SortOrder: req.SortOrder,
		Limit:     req.PageSize,
		Offset:    (req.Page - 1) * req.PageSize,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, items, total, req.Page, req.PageSize)
}

// GetSignboard godoc
// @ID           getSignboard
// @Summary      Get one signboard
// @Tags         signboards
// @Produce      json
// @Param        id path int true "Signboard ID"
// @Success      200 {object} APIResponse[signboard.Signboard]
// @Failure      404 {object} ErrorResponse
// @Router       /signboards/{id} [get]
func (h *SignboardHandler) GetSignboard(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	sb, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, sb)
}

// CreateSignboard godoc
// @ID           createSignboard
// @Summary      Create a signboard
// @Tags         signboards
// @Accept       json
// @Produce      json
// @Param        request body appsignboard.CreateInput true "Signboard fields"
// @Success      201 {object} APIResponse[signboard.Signboard]
// @Failure      400 {object} ErrorResponse
// @Router       /signboards [post]
func (h *SignboardHandler) CreateSignboard(c *gin.Context) {
	var in appsignboard.CreateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidJSON, err.Error())
		return
	}
	sb, err := h.svc.Create(c.Request.Context(), in)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, sb)
}

// UpdateSignboard godoc
// @ID           updateSignboard
// @Summary      Update a signboard
// @Description  Partial update of descriptive fields; quantity changes go through the quantity endpoints
// @Tags         signboards
// @Accept       json
// @Produce      json
// @Param        id path int true "Signboard ID"
// @Param        request body appsignboard.UpdateInput true "Fields to change"
// @Success      200 {object} APIResponse[signboard.Signboard]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /signboards/{id} [put]
func (h *SignboardHandler) UpdateSignboard(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	var in appsignboard.UpdateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidJSON, err.Error())
		return
	}
	sb, err := h.svc.Update(c.Request.Context(), id, in)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, sb)
}

// DeleteSignboard godoc
// @ID           deleteSignboard
// @Summary      Delete a signboard and its quantity history
// @Tags         signboards
// @Produce      json
// @Param        id path int true "Signboard ID"
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Router       /signboards/{id} [delete]
func (h *SignboardHandler) DeleteSignboard(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// quantityChangeRequest carries an audited quantity change
type quantityChangeRequest struct {
	Amount int    `json:"amount" binding:"required"`
	Reason string `json:"reason" binding:"required,notblank"`
}

// AddQuantity godoc
// @ID           addSignboardQuantity
// @Summary      Add stock with an audit trail entry
// @Tags         signboards
// @Accept       json
// @Produce      json
// @Param        id path int true "Signboard ID"
// @Param        request body quantityChangeRequest true "Amount and reason"
// @Success      200 {object} APIResponse[signboard.Signboard]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Router       /signboards/{id}/quantity/add [post]
func (h *SignboardHandler) AddQuantity(c *gin.Context) {
	h.changeQuantity(c, h.svc.AddQuantity)
}

// SubtractQuantity godoc
// @ID           subtractSignboardQuantity
// @Summary      Remove stock with an audit trail entry
// @Description  The resulting quantity never goes below zero
// @Tags         signboards
// @Accept       json
// @Produce      json
// @Param        id path int true "Signboard ID"
// @Param        request body quantityChangeRequest true "Amount and reason"
// @Success      200 {object} APIResponse[signboard.Signboard]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Router       /signboards/{id}/quantity/subtract [post]
func (h *SignboardHandler) SubtractQuantity(c *gin.Context) {
	h.changeQuantity(c, h.svc.SubtractQuantity)
}

func (h *SignboardHandler) changeQuantity(c *gin.Context, apply func(ctx context.Context, id int64, amount int, reason string) (*signboard.Signboard, error)) {
	id, err := pathID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	var req quantityChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidJSON, err.Error())
		return
	}
	sb, err := apply(c.Request.Context(), id, req.Amount, req.Reason)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, sb)
}

// Increment godoc
// @ID           incrementSignboardQuantity
// @Summary      Quick +1 without an audit trail entry
// @Tags         signboards
// @Produce      json
// @Param        id path int true "Signboard ID"
// @Success      200 {object} APIResponse[signboard.Signboard]
// @Failure      404 {object} ErrorResponse
// @Router       /signboards/{id}/increment [post]
func (h *SignboardHandler) Increment(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	sb, err := h.svc.Increment(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, sb)
}

// Decrement godoc
// @ID           decrementSignboardQuantity
// @Summary      Quick -1 without an audit trail entry, floored at zero
// @Tags         signboards
// @Produce      json
// @Param        id path int true "Signboard ID"
// @Success      200 {object} APIResponse[signboard.Signboard]
// @Failure      404 {object} ErrorResponse
// @Router       /signboards/{id}/decrement [post]
func (h *SignboardHandler) Decrement(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	sb, err := h.svc.Decrement(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, sb)
}

// GetHistory godoc
// @ID           getSignboardHistory
// @Summary      Get the quantity change history of a signboard
// @Tags         signboards
// @Produce      json
// @Param        id path int true "Signboard ID"
// @Param        limit query int false "Maximum entries" default(50)
// @Success      200 {object} APIResponse[[]signboard.QuantityHistory]
// @Failure      404 {object} ErrorResponse
// @Router       /signboards/{id}/history [get]
func (h *SignboardHandler) GetHistory(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	entries, err := h.svc.History(c.Request.Context(), id, limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, entries)
}

// GetAllHistory godoc
// @ID           getAllSignboardHistory
// @Summary      Get the quantity change history across all signboards
// @Tags         signboards
// @Produce      json
// @Param        limit query int false "Maximum entries" default(50)
// @Success      200 {object} APIResponse[[]signboard.QuantityHistory]
// @Failure      500 {object} ErrorResponse
// @Router       /signboards/history/all [get]
func (h *SignboardHandler) GetAllHistory(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	entries, err := h.svc.AllHistory(c.Request.Context(), limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, entries)
}

// resetQuantitiesResponse reports how many signboards were zeroed
type resetQuantitiesResponse struct {
	Affected int64 `json:"affected"`
}

// ResetQuantities godoc
// @ID           resetSignboardQuantities
// @Summary      Zero all signboard quantities and clear the audit trail
// @Tags         signboards
// @Produce      json
// @Success      200 {object} APIResponse[resetQuantitiesResponse]
// @Failure      500 {object} ErrorResponse
// @Router       /signboards/reset-quantities [post]
func (h *SignboardHandler) ResetQuantities(c *gin.Context) {
	n, err := h.svc.ResetAll(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resetQuantitiesResponse{Affected: n})
}

// ExportExcel godoc
// @ID           exportSignboardExcel
// @Summary      Export the signboard list as an xlsx workbook
// @Tags         signboards
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success      200 {file} binary
// @Failure      500 {object} ErrorResponse
// @Router       /signboards/export/excel [get]
func (h *SignboardHandler) ExportExcel(c *gin.Context) {
	items, _, err := h.svc.List(c.Request.Context(), signboard.ListQuery{
		SortBy:    "created_at",
		SortOrder: "desc",
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	data, err := h.exporter.ExportSignboards(items)
	if err != nil {
		h.logger.Error("signboard excel export failed", zap.Error(err))
		h.InternalError(c, "failed to build workbook")
		return
	}

	filename := fmt.Sprintf("signboards_%s.xlsx", time.Now().Format("20060102_150405"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
