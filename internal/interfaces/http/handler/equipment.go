package handler

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appequipment "github.com/equipment/backend/internal/application/equipment"
	"github.com/equipment/backend/internal/application/extraction"
	"github.com/equipment/backend/internal/domain/equipment"
	"github.com/equipment/backend/internal/infrastructure/excel"
	"github.com/equipment/backend/internal/interfaces/http/dto"
)

// maxUploadSize bounds a single uploaded image
const maxUploadSize = 10 << 20

// EquipmentHandler handles equipment API endpoints
type EquipmentHandler struct {
	BaseHandler
	svc      *appequipment.Service
	pipeline *extraction.Pipeline
	exporter *excel.Exporter
	jsonDir  string
	logger   *zap.Logger
}

// NewEquipmentHandler creates a new EquipmentHandler. jsonDir points at the
// server-side folder scanned for pre-extracted JSON import files.
func NewEquipmentHandler(svc *appequipment.Service, pipeline *extraction.Pipeline, exporter *excel.Exporter, jsonDir string, logger *zap.Logger) *EquipmentHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EquipmentHandler{svc: svc, pipeline: pipeline, exporter: exporter, jsonDir: jsonDir, logger: logger}
}

// equipmentListRequest carries the list query parameters
type equipmentListRequest struct {
	dto.ListRequest
	Category string `form:"category"`
}

// ListEquipment godoc
// @ID           listEquipment
// @Summary      List equipment
// @Description  Returns equipment records with search, category filter, sorting and pagination
// @Tags         equipment
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Param        search query string false "Search in name, model, manufacturer and serial"
// @Param        category query string false "Filter by tool category"
// @Param        sort_by query string false "Sort field" default(created_at)
// @Param        sort_order query string false "Sort direction" Enums(asc, desc)
// @Success      200 {object} APIResponse[[]equipment.Equipment]
// @Failure      400 {object} ErrorResponse
// @Router       /equipment [get]
func (h *EquipmentHandler) ListEquipment(c *gin.Context) {
	req := equipmentListRequest{ListRequest: dto.DefaultListRequest()}
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	items, total, err := h.svc.List(c.Request.Context(), equipment.ListQuery{
		Search:    req.Search,
		Category:  req.Category,
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

// GetEquipment godoc
// @ID           getEquipment
// @Summary      Get one equipment record
// @Tags         equipment
// @Produce      json
// @Param        id path int true "Equipment ID"
// @Success      200 {object} APIResponse[equipment.Equipment]
// @Failure      404 {object} ErrorResponse
// @Router       /equipment/{id} [get]
func (h *EquipmentHandler) GetEquipment(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	eq, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, eq)
}

// CreateEquipment godoc
// @ID           createEquipment
// @Summary      Create an equipment record manually
// @Tags         equipment
// @Accept       json
// @Produce      json
// @Param        request body appequipment.CreateInput true "Equipment fields"
// @Success      201 {object} APIResponse[equipment.Equipment]
// @Failure      400 {object} ErrorResponse
// @Router       /equipment [post]
func (h *EquipmentHandler) CreateEquipment(c *gin.Context) {
	var in appequipment.CreateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidJSON, err.Error())
		return
	}
	eq, err := h.svc.Create(c.Request.Context(), in)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, eq)
}

// UpdateEquipment godoc
// @ID           updateEquipment
// @Summary      Update an equipment record
// @Description  Partial update; omitted fields keep their stored values
// @Tags         equipment
// @Accept       json
// @Produce      json
// @Param        id path int true "Equipment ID"
// @Param        request body appequipment.UpdateInput true "Fields to change"
// @Success      200 {object} APIResponse[equipment.Equipment]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /equipment/{id} [put]
func (h *EquipmentHandler) UpdateEquipment(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	var in appequipment.UpdateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidJSON, err.Error())
		return
	}
	eq, err := h.svc.Update(c.Request.Context(), id, in)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, eq)
}

// DeleteEquipment godoc
// @ID           deleteEquipment
// @Summary      Delete an equipment record
// @Tags         equipment
// @Produce      json
// @Param        id path int true "Equipment ID"
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Router       /equipment/{id} [delete]
func (h *EquipmentHandler) DeleteEquipment(c *gin.Context) {
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

// deleteAllResponse reports how many records a bulk delete removed
type deleteAllResponse struct {
	Deleted int64 `json:"deleted"`
}

// DeleteAllEquipment godoc
// @ID           deleteAllEquipment
// @Summary      Delete every equipment record
// @Tags         equipment
// @Produce      json
// @Success      200 {object} APIResponse[deleteAllResponse]
// @Failure      500 {object} ErrorResponse
// @Router       /equipment [delete]
func (h *EquipmentHandler) DeleteAllEquipment(c *gin.Context) {
	n, err := h.svc.DeleteAll(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, deleteAllResponse{Deleted: n})
}

// Increment godoc
// @ID           incrementEquipmentQuantity
// @Summary      Raise the quantity of an equipment record by one
// @Tags         equipment
// @Produce      json
// @Param        id path int true "Equipment ID"
// @Success      200 {object} APIResponse[equipment.Equipment]
// @Failure      404 {object} ErrorResponse
// @Router       /equipment/{id}/increment [post]
func (h *EquipmentHandler) Increment(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	eq, err := h.svc.Increment(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, eq)
}

// Decrement godoc
// @ID           decrementEquipmentQuantity
// @Summary      Lower the quantity of an equipment record by one, flooring at zero
// @Tags         equipment
// @Produce      json
// @Param        id path int true "Equipment ID"
// @Success      200 {object} APIResponse[equipment.Equipment]
// @Failure      404 {object} ErrorResponse
// @Router       /equipment/{id}/decrement [post]
func (h *EquipmentHandler) Decrement(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	eq, err := h.svc.Decrement(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, eq)
}

// ListCategories godoc
// @ID           listEquipmentCategories
// @Summary      List tool categories in use
// @Tags         equipment
// @Produce      json
// @Success      200 {object} APIResponse[[]string]
// @Router       /equipment/categories [get]
func (h *EquipmentHandler) ListCategories(c *gin.Context) {
	categories, err := h.svc.Categories(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, categories)
}

// UploadImage godoc
// @ID           uploadEquipmentImage
// @Summary      Extract and register equipment from a signboard photo
// @Description  Runs the OCR and language-model extraction pipeline on the uploaded image
// @Tags         equipment
// @Accept       multipart/form-data
// @Produce      json
// @Param        image formData file true "Signboard photo"
// @Success      201 {object} APIResponse[equipment.Equipment]
// @Failure      400 {object} ErrorResponse
// @Failure      502 {object} ErrorResponse
// @Router       /equipment/upload [post]
func (h *EquipmentHandler) UploadImage(c *gin.Context) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		h.BadRequest(c, "image file is required")
		return
	}
	if fileHeader.Size > maxUploadSize {
		h.Error(c, http.StatusRequestEntityTooLarge, dto.ErrCodePayloadTooLarge,
			fmt.Sprintf("image exceeds %d bytes", maxUploadSize))
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		h.InternalError(c, "failed to read upload")
		return
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		h.InternalError(c, "failed to read upload")
		return
	}

	eq, err := h.pipeline.ProcessImage(c.Request.Context(), fileHeader.Filename, data)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, eq)
}

// importJSONRequest wraps the import payload
type importJSONRequest struct {
	Items []appequipment.ImportItem `json:"items" binding:"required"`
}

// importJSONResponse reports the import outcome
type importJSONResponse struct {
	Imported int                        `json:"imported"`
	Failed   int                        `json:"failed"`
	Errors   []appequipment.ImportError `json:"errors,omitempty"`
}

// ImportJSON godoc
// @ID           importEquipmentJSON
// @Summary      Import equipment from pre-extracted JSON
// @Description  Creates records from data extracted offline; invalid items are skipped and reported
// @Tags         equipment
// @Accept       json
// @Produce      json
// @Param        request body importJSONRequest true "Items to import"
// @Success      200 {object} APIResponse[importJSONResponse]
// @Failure      400 {object} ErrorResponse
// @Router       /equipment/import/json [post]
func (h *EquipmentHandler) ImportJSON(c *gin.Context) {
	var req importJSONRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidJSON, err.Error())
		return
	}
	imported, errs := h.svc.ImportJSON(c.Request.Context(), req.Items)
	h.Success(c, importJSONResponse{Imported: imported, Failed: len(errs), Errors: errs})
}

// ImportJSONUpload godoc
// @ID           importEquipmentJSONUpload
// @Summary      Import equipment from an uploaded JSON file
// @Tags         equipment
// @Accept       multipart/form-data
// @Produce      json
// @Param        file formData file true "JSON array of extracted items"
// @Success      200 {object} APIResponse[importJSONResponse]
// @Failure      400 {object} ErrorResponse
// @Router       /equipment/import/upload [post]
func (h *EquipmentHandler) ImportJSONUpload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.BadRequest(c, "file is required")
		return
	}
	f, err := fileHeader.Open()
	if err != nil {
		h.InternalError(c, "failed to read upload")
		return
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxUploadSize))
	if err != nil {
		h.InternalError(c, "failed to read upload")
		return
	}

	var items []appequipment.ImportItem
	if err := json.Unmarshal(data, &items); err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidJSON,
			fmt.Sprintf("%s is not a valid import file: %v", fileHeader.Filename, err))
		return
	}

	imported, errs := h.svc.ImportJSON(c.Request.Context(), items)
	h.logger.Info("json upload imported",
		zap.String("file", fileHeader.Filename),
		zap.Int("imported", imported),
		zap.Int("failed", len(errs)))
	h.Success(c, importJSONResponse{Imported: imported, Failed: len(errs), Errors: errs})
}

// importFileInfo describes one JSON file available for server-side import
type importFileInfo struct {
	Name    string    `json:"name"`
	Size    int64     `json:"size"`
	ModTime time.Time `json:"mod_time"`
}

// importFilesResponse lists the JSON files in the import folder
type importFilesResponse struct {
	Files []importFileInfo `json:"files"`
	Count int              `json:"count"`
}

// ListImportFiles godoc
// @ID           listEquipmentImportFiles
// @Summary      List JSON files staged in the server-side import folder
// @Tags         equipment
// @Produce      json
// @Success      200 {object} APIResponse[importFilesResponse]
// @Failure      500 {object} ErrorResponse
// @Router       /equipment/import/files [get]
func (h *EquipmentHandler) ListImportFiles(c *gin.Context) {
	entries, err := os.ReadDir(h.jsonDir)
	if err != nil {
		if os.IsNotExist(err) {
			h.Success(c, importFilesResponse{Files: []importFileInfo{}})
			return
		}
		h.logger.Error("reading json import folder failed", zap.String("dir", h.jsonDir), zap.Error(err))
		h.InternalError(c, "failed to read import folder")
		return
	}

	files := make([]importFileInfo, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".json") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, importFileInfo{Name: entry.Name(), Size: info.Size(), ModTime: info.ModTime()})
	}
	h.Success(c, importFilesResponse{Files: files, Count: len(files)})
}

// importJSONFileRequest names a staged JSON file to import
type importJSONFileRequest struct {
	FileName string `json:"file_name" binding:"required"`
}

// ImportJSONFile godoc
// @ID           importEquipmentJSONFile
// @Summary      Import a staged JSON file from the server-side import folder
// @Description  Reads the named file from the import folder and creates equipment records from it
// @Tags         equipment
// @Accept       json
// @Produce      json
// @Param        request body importJSONFileRequest true "File to import"
// @Success      200 {object} APIResponse[importJSONResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /equipment/import/file [post]
func (h *EquipmentHandler) ImportJSONFile(c *gin.Context) {
	var req importJSONFileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidJSON, err.Error())
		return
	}

	// Reject anything that is not a bare file name inside the import folder.
	name := req.FileName
	if name != filepath.Base(name) || !strings.EqualFold(filepath.Ext(name), ".json") {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidInput, "file_name must be a .json file in the import folder")
		return
	}

	data, err := os.ReadFile(filepath.Join(h.jsonDir, name))
	if err != nil {
		if os.IsNotExist(err) {
			h.Error(c, http.StatusNotFound, dto.ErrCodeNotFound, fmt.Sprintf("import file %s not found", name))
			return
		}
		h.logger.Error("reading import file failed", zap.String("file", name), zap.Error(err))
		h.InternalError(c, "failed to read import file")
		return
	}

	var items []appequipment.ImportItem
	if err := json.Unmarshal(data, &items); err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidJSON, fmt.Sprintf("%s is not a valid import file: %v", name, err))
		return
	}

	imported, errs := h.svc.ImportJSON(c.Request.Context(), items)
	h.logger.Info("json file imported",
		zap.String("file", name),
		zap.Int("imported", imported),
		zap.Int("failed", len(errs)))
	h.Success(c, importJSONResponse{Imported: imported, Failed: len(errs), Errors: errs})
}

// ExportExcel godoc
// @ID           exportEquipmentExcel
// @Summary      Export the equipment list as an xlsx workbook
// @Tags         equipment
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success      200 {file} binary
// @Failure      500 {object} ErrorResponse
// @Router       /equipment/export/excel [get]
func (h *EquipmentHandler) ExportExcel(c *gin.Context) {
	items, _, err := h.svc.List(c.Request.Context(), equipment.ListQuery{
		SortBy:    "created_at",
		SortOrder: "desc",
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	data, err := h.exporter.ExportEquipment(items)
	if err != nil {
		h.logger.Error("equipment excel export failed", zap.Error(err))
		h.InternalError(c, "failed to build workbook")
		return
	}

	filename := fmt.Sprintf("equipment_%s.xlsx", time.Now().Format("20060102_150405"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
