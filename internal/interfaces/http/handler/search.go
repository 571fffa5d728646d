package handler

import (
	"strings"

	"github.com/gin-gonic/gin"

	appsearch "github.com/equipment/backend/internal/application/search"
)

// SearchHandler handles external document search endpoints
type SearchHandler struct {
	BaseHandler
	svc *appsearch.Service
}

// NewSearchHandler creates a new SearchHandler
func NewSearchHandler(svc *appsearch.Service) *SearchHandler {
	return &SearchHandler{svc: svc}
}

// documentSearchRequest carries the document search parameters. A free-text
// query wins over the structured fields when both are sent.
type documentSearchRequest struct {
	Query        string `form:"query"`
	Name         string `form:"name"`
	Model        string `form:"model"`
	Manufacturer string `form:"manufacturer"`
	DocType      string `form:"search_type" binding:"omitempty,oneof=manual spec parts"`
}

// documentSearchResponse returns the normalized results together with the
// query that was actually sent to the provider.
type documentSearchResponse struct {
	Results []appsearch.Result `json:"results"`
	Query   string             `json:"query"`
}

// SearchDocuments godoc
// @ID           searchDocuments
// @Summary      Search the web for equipment documents
// @Description  Looks up manuals, specification sheets or parts lists, either from a free-text query or from the structured equipment fields
// @Tags         search
// @Produce      json
// @Param        query query string false "Free-text search query"
// @Param        name query string false "Equipment name"
// @Param        model query string false "Model number"
// @Param        manufacturer query string false "Manufacturer"
// @Param        search_type query string false "Document type" Enums(manual, spec, parts)
// @Success      200 {object} APIResponse[documentSearchResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      502 {object} ErrorResponse
// @Router       /search/documents [get]
func (h *SearchHandler) SearchDocuments(c *gin.Context) {
	var req documentSearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if req.DocType == "" {
		// Older clients send the document type as "type".
		req.DocType = c.Query("type")
	}

	var effective string
	if q := strings.TrimSpace(req.Query); q != "" {
		effective = appsearch.BuildQuery(q, "", "", req.DocType)
	} else if strings.TrimSpace(req.Name) != "" || strings.TrimSpace(req.Model) != "" || strings.TrimSpace(req.Manufacturer) != "" {
		effective = appsearch.BuildQuery(req.Name, req.Model, req.Manufacturer, req.DocType)
	} else {
		h.BadRequest(c, "query or at least one of name, model or manufacturer is required")
		return
	}

	results, err := h.svc.Search(c.Request.Context(), effective)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if results == nil {
		results = []appsearch.Result{}
	}
	h.Success(c, documentSearchResponse{Results: results, Query: effective})
}
