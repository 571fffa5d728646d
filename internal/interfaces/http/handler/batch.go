package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/equipment/backend/internal/application/batch"
	"github.com/equipment/backend/internal/interfaces/http/dto"
)

// BatchHandler handles bulk image import endpoints
type BatchHandler struct {
	BaseHandler
	runner *batch.Runner
}

// NewBatchHandler creates a new BatchHandler
func NewBatchHandler(runner *batch.Runner) *BatchHandler {
	return &BatchHandler{runner: runner}
}

// startJobResponse returns the id of a started job
type startJobResponse struct {
	JobID string `json:"job_id"`
}

// StartLocalImport godoc
// @ID           startLocalBatchImport
// @Summary      Import every image in the server's import directory
// @Description  Starts a background job; poll the progress endpoints with the returned job id
// @Tags         batch
// @Produce      json
// @Success      202 {object} APIResponse[startJobResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Router       /batch/import [post]
func (h *BatchHandler) StartLocalImport(c *gin.Context) {
	jobID, err := h.runner.RunLocal(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, dto.NewSuccessResponse(startJobResponse{JobID: jobID}))
}

// GetProgress godoc
// @ID           getBatchProgress
// @Summary      Get the progress of the most recent batch job
// @Tags         batch
// @Produce      json
// @Success      200 {object} APIResponse[batch.Snapshot]
// @Router       /batch/progress [get]
func (h *BatchHandler) GetProgress(c *gin.Context) {
	h.Success(c, h.runner.Tracker().Latest())
}

// GetJobProgress godoc
// @ID           getBatchJobProgress
// @Summary      Get the progress of one batch job
// @Tags         batch
// @Produce      json
// @Param        job_id path string true "Job ID"
// @Success      200 {object} APIResponse[batch.Snapshot]
// @Failure      404 {object} ErrorResponse
// @Router       /batch/progress/{job_id} [get]
func (h *BatchHandler) GetJobProgress(c *gin.Context) {
	snap, ok := h.runner.Tracker().Snapshot(c.Param("job_id"))
	if !ok {
		h.NotFound(c, "unknown job id")
		return
	}
	h.Success(c, snap)
}

// localFilesResponse lists the importable files on the server
type localFilesResponse struct {
	Files []string `json:"files"`
	Count int      `json:"count"`
}

// ListLocalFiles godoc
// @ID           listBatchLocalFiles
// @Summary      List the images waiting in the server's import directory
// @Tags         batch
// @Produce      json
// @Success      200 {object} APIResponse[localFilesResponse]
// @Failure      500 {object} ErrorResponse
// @Router       /batch/local-files [get]
func (h *BatchHandler) ListLocalFiles(c *gin.Context) {
	files, err := h.runner.ListLocalImages()
	if err != nil {
		h.InternalError(c, "failed to read import directory")
		return
	}
	if files == nil {
		files = []string{}
	}
	h.Success(c, localFilesResponse{Files: files, Count: len(files)})
}
