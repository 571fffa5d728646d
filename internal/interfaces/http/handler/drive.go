package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/equipment/backend/internal/application/batch"
	"github.com/equipment/backend/internal/infrastructure/drive"
	"github.com/equipment/backend/internal/interfaces/http/dto"
)

// DriveHandler handles Google Drive integration endpoints
type DriveHandler struct {
	BaseHandler
	client             *drive.Client
	runner             *batch.Runner
	signboardFolderID  string
	equipmentFolderIDs []string
	logger             *zap.Logger
}

// NewDriveHandler creates a new DriveHandler
func NewDriveHandler(client *drive.Client, runner *batch.Runner, signboardFolderID string, equipmentFolderIDs []string, logger *zap.Logger) *DriveHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DriveHandler{
		client:             client,
		runner:             runner,
		signboardFolderID:  signboardFolderID,
		equipmentFolderIDs: equipmentFolderIDs,
		logger:             logger,
	}
}

// driveStatusResponse reports the Drive connection state
type driveStatusResponse struct {
	Connected bool `json:"connected"`
}

// GetStatus godoc
// @ID           getDriveStatus
// @Summary      Check whether Drive access is authorized
// @Tags         drive
// @Produce      json
// @Success      200 {object} APIResponse[driveStatusResponse]
// @Router       /drive/status [get]
func (h *DriveHandler) GetStatus(c *gin.Context) {
	h.Success(c, driveStatusResponse{Connected: h.client.Connected()})
}

// authURLResponse carries the OAuth consent URL
type authURLResponse struct {
	AuthURL string `json:"auth_url"`
}

// GetAuthURL godoc
// @ID           getDriveAuthURL
// @Summary      Get the OAuth consent URL for Drive access
// @Tags         drive
// @Produce      json
// @Success      200 {object} APIResponse[authURLResponse]
// @Failure      422 {object} ErrorResponse
// @Router       /drive/auth-url [get]
func (h *DriveHandler) GetAuthURL(c *gin.Context) {
	url, err := h.client.AuthURL()
	if err != nil {
		h.ErrorWithCode(c, dto.ErrCodeInvalidState, err.Error())
		return
	}
	h.Success(c, authURLResponse{AuthURL: url})
}

// connectRequest carries the OAuth authorization code
type connectRequest struct {
	Code string `json:"code" binding:"required"`
}

// Connect godoc
// @ID           connectDrive
// @Summary      Complete the OAuth flow with an authorization code
// @Tags         drive
// @Accept       json
// @Produce      json
// @Param        request body connectRequest true "Authorization code"
// @Success      200 {object} SuccessResponse
// @Failure      400 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Router       /drive/connect [post]
func (h *DriveHandler) Connect(c *gin.Context) {
	var req connectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidJSON, err.Error())
		return
	}
	if err := h.client.Exchange(c.Request.Context(), req.Code); err != nil {
		h.ErrorWithCode(c, dto.ErrCodeInvalidState, err.Error())
		return
	}
	h.Success(c, nil)
}

// folderInfoResponse describes a Drive folder and its importable content
type folderInfoResponse struct {
	FolderID   string `json:"folder_id"`
	FolderName string `json:"folder_name"`
	ImageCount int    `json:"image_count"`
}

// GetFolderInfo godoc
// @ID           getDriveFolderInfo
// @Summary      Inspect a Drive folder before importing
// @Description  Accepts a folder id or a full Drive folder URL
// @Tags         drive
// @Produce      json
// @Param        folder query string true "Folder id or URL"
// @Success      200 {object} APIResponse[folderInfoResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      502 {object} ErrorResponse
// @Router       /drive/folder-info [get]
func (h *DriveHandler) GetFolderInfo(c *gin.Context) {
	folderID := drive.ExtractFolderID(c.Query("folder"))
	if folderID == "" {
		h.BadRequest(c, "folder is required")
		return
	}

	name, err := h.client.FolderName(c.Request.Context(), folderID)
	if err != nil {
		h.ErrorWithCode(c, dto.ErrCodeUpstreamFailure, err.Error())
		return
	}
	files, err := h.client.ListImages(c.Request.Context(), folderID)
	if err != nil {
		h.ErrorWithCode(c, dto.ErrCodeUpstreamFailure, err.Error())
		return
	}
	h.Success(c, folderInfoResponse{FolderID: folderID, FolderName: name, ImageCount: len(files)})
}

// driveImportRequest names the folder to import
type driveImportRequest struct {
	Folder string `json:"folder" binding:"required"`
}

// StartImport godoc
// @ID           startDriveImport
// @Summary      Import every image in a Drive folder
// @Description  Downloads the folder's images and runs the extraction pipeline on each; a background job id is returned
// @Tags         drive
// @Accept       json
// @Produce      json
// @Param        request body driveImportRequest true "Folder id or URL"
// @Success      202 {object} APIResponse[startJobResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      502 {object} ErrorResponse
// @Router       /drive/import [post]
func (h *DriveHandler) StartImport(c *gin.Context) {
	var req driveImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidJSON, err.Error())
		return
	}
	folderID := drive.ExtractFolderID(req.Folder)

	files, err := h.client.ListImages(c.Request.Context(), folderID)
	if err != nil {
		h.ErrorWithCode(c, dto.ErrCodeUpstreamFailure, err.Error())
		return
	}
	if len(files) == 0 {
		h.ErrorWithCode(c, dto.ErrCodeInvalidInput, "no images in folder")
		return
	}

	sources := make([]batch.Source, 0, len(files))
	for _, f := range files {
		sources = append(sources, driveSource{client: h.client, file: f})
	}
	jobID, err := h.runner.RunSources(c.Request.Context(), sources)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.logger.Info("Drive import started",
		zap.String("job_id", jobID),
		zap.String("folder_id", folderID),
		zap.Int("files", len(files)),
	)
	c.JSON(http.StatusAccepted, dto.NewSuccessResponse(startJobResponse{JobID: jobID}))
}

// driveFileImportRequest names a single file to import
type driveFileImportRequest struct {
	FileID string `json:"file_id" binding:"required"`
}

// ImportFile godoc
// @ID           importDriveFile
// @Summary      Import a single Drive image
// @Tags         drive
// @Accept       json
// @Produce      json
// @Param        request body driveFileImportRequest true "File id"
// @Success      202 {object} APIResponse[startJobResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      502 {object} ErrorResponse
// @Router       /drive/import-file [post]
func (h *DriveHandler) ImportFile(c *gin.Context) {
	var req driveFileImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidJSON, err.Error())
		return
	}

	file, err := h.client.FileInfo(c.Request.Context(), req.FileID)
	if err != nil {
		h.ErrorWithCode(c, dto.ErrCodeUpstreamFailure, err.Error())
		return
	}
	if !batch.SupportedImage(file.Name) {
		h.ErrorWithCode(c, dto.ErrCodeInvalidInput, "not a supported image file")
		return
	}

	jobID, err := h.runner.RunSources(c.Request.Context(), []batch.Source{driveSource{client: h.client, file: *file}})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, dto.NewSuccessResponse(startJobResponse{JobID: jobID}))
}

// driveFilesResponse lists importable files in a configured folder
type driveFilesResponse struct {
	Files []drive.File `json:"files"`
	Count int          `json:"count"`
}

// ListSignboardTemplates godoc
// @ID           listSignboardTemplates
// @Summary      List template images in the configured signboard folder
// @Tags         drive
// @Produce      json
// @Success      200 {object} APIResponse[driveFilesResponse]
// @Failure      422 {object} ErrorResponse
// @Failure      502 {object} ErrorResponse
// @Router       /drive/signboards [get]
func (h *DriveHandler) ListSignboardTemplates(c *gin.Context) {
	if h.signboardFolderID == "" {
		h.ErrorWithCode(c, dto.ErrCodeInvalidState, "no signboard folder is configured")
		return
	}
	files, err := h.client.ListImages(c.Request.Context(), h.signboardFolderID)
	if err != nil {
		h.ErrorWithCode(c, dto.ErrCodeUpstreamFailure, err.Error())
		return
	}
	if files == nil {
		files = []drive.File{}
	}
	h.Success(c, driveFilesResponse{Files: files, Count: len(files)})
}

// equipmentFolderInfo describes one configured equipment folder
type equipmentFolderInfo struct {
	FolderID   string `json:"folder_id"`
	FolderName string `json:"folder_name"`
	ImageCount int    `json:"image_count"`
}

// ListEquipmentFolders godoc
// @ID           listEquipmentFolders
// @Summary      Describe the configured equipment folders
// @Tags         drive
// @Produce      json
// @Success      200 {object} APIResponse[[]equipmentFolderInfo]
// @Failure      502 {object} ErrorResponse
// @Router       /drive/equipment-folders [get]
func (h *DriveHandler) ListEquipmentFolders(c *gin.Context) {
	infos := make([]equipmentFolderInfo, 0, len(h.equipmentFolderIDs))
	for _, folderID := range h.equipmentFolderIDs {
		name, err := h.client.FolderName(c.Request.Context(), folderID)
		if err != nil {
			h.ErrorWithCode(c, dto.ErrCodeUpstreamFailure, err.Error())
			return
		}
		files, err := h.client.ListImages(c.Request.Context(), folderID)
		if err != nil {
			h.ErrorWithCode(c, dto.ErrCodeUpstreamFailure, err.Error())
			return
		}
		infos = append(infos, equipmentFolderInfo{FolderID: folderID, FolderName: name, ImageCount: len(files)})
	}
	h.Success(c, infos)
}

// GetImage godoc
// @ID           getDriveImage
// @Summary      Proxy a Drive image to the client
// @Tags         drive
// @Produce      image/jpeg
// @Param        file_id path string true "File id"
// @Success      200 {file} binary
// @Failure      502 {object} ErrorResponse
// @Router       /drive/images/{file_id} [get]
func (h *DriveHandler) GetImage(c *gin.Context) {
	fileID := c.Param("file_id")

	file, err := h.client.FileInfo(c.Request.Context(), fileID)
	if err != nil {
		h.ErrorWithCode(c, dto.ErrCodeUpstreamFailure, err.Error())
		return
	}
	data, err := h.client.Download(c.Request.Context(), fileID)
	if err != nil {
		h.ErrorWithCode(c, dto.ErrCodeUpstreamFailure, err.Error())
		return
	}

	contentType := file.MimeType
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	c.Header("Cache-Control", "public, max-age=3600")
	c.Data(http.StatusOK, contentType, data)
}

// driveSource downloads one Drive file on demand
type driveSource struct {
	client *drive.Client
	file   drive.File
}

func (s driveSource) Name() string { return s.file.Name }

func (s driveSource) Open(ctx context.Context) ([]byte, error) {
	return s.client.Download(ctx, s.file.ID)
}
