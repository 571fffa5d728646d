package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/equipment/backend/internal/infrastructure/drive"
	"github.com/equipment/backend/internal/interfaces/http/dto"
)

// configuredChecker reports whether an optional integration is usable
type configuredChecker interface {
	Configured() bool
}

// settingStore persists runtime-changeable settings
type settingStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

// driveFolderSettingKey is the settings key holding the imports folder id.
const driveFolderSettingKey = "google_drive_folder_id"

// ConfigHandler manages runtime-replaceable credentials and folder settings
type ConfigHandler struct {
	BaseHandler
	visionCredentialsFile string
	oauthCredentialsFile  string
	oauthTokenFile        string
	llm                   configuredChecker
	drive                 *drive.Client
	settings              settingStore
	defaultDriveFolderID  string
	logger                *zap.Logger
}

// NewConfigHandler creates a new ConfigHandler. defaultDriveFolderID is the
// folder id from the config file, used until one is stored through the API.
func NewConfigHandler(visionCredentialsFile, oauthCredentialsFile, oauthTokenFile string, llm configuredChecker, driveClient *drive.Client, settings settingStore, defaultDriveFolderID string, logger *zap.Logger) *ConfigHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConfigHandler{
		visionCredentialsFile: visionCredentialsFile,
		oauthCredentialsFile:  oauthCredentialsFile,
		oauthTokenFile:        oauthTokenFile,
		llm:                   llm,
		drive:                 driveClient,
		settings:              settings,
		defaultDriveFolderID:  defaultDriveFolderID,
		logger:                logger,
	}
}

// serviceAccountKey is the subset of a Google service account key needed
// to validate an upload.
type serviceAccountKey struct {
	Type        string `json:"type"`
	ClientEmail string `json:"client_email"`
	PrivateKey  string `json:"private_key"`
}

// visionCredentialsStatus reports whether OCR credentials are installed
type visionCredentialsStatus struct {
	Configured  bool   `json:"configured"`
	ClientEmail string `json:"client_email,omitempty"`
}

// GetVisionCredentialsStatus godoc
// @ID           getVisionCredentialsStatus
// @Summary      Check whether Vision OCR credentials are installed
// @Tags         config
// @Produce      json
// @Success      200 {object} APIResponse[visionCredentialsStatus]
// @Router       /config/vision-credentials [get]
func (h *ConfigHandler) GetVisionCredentialsStatus(c *gin.Context) {
	data, err := os.ReadFile(h.visionCredentialsFile)
	if err != nil {
		h.Success(c, visionCredentialsStatus{Configured: false})
		return
	}
	var key serviceAccountKey
	if err := json.Unmarshal(data, &key); err != nil || key.Type != "service_account" {
		h.Success(c, visionCredentialsStatus{Configured: false})
		return
	}
	h.Success(c, visionCredentialsStatus{Configured: true, ClientEmail: key.ClientEmail})
}

// UploadVisionCredentials godoc
// @ID           uploadVisionCredentials
// @Summary      Install a Vision OCR service account key
// @Description  Validates the uploaded JSON is a service account key before saving it
// @Tags         config
// @Accept       multipart/form-data
// @Produce      json
// @Param        credentials formData file true "Service account key JSON"
// @Success      200 {object} APIResponse[visionCredentialsStatus]
// @Failure      400 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /config/vision-credentials [post]
func (h *ConfigHandler) UploadVisionCredentials(c *gin.Context) {
	fileHeader, err := c.FormFile("credentials")
	if err != nil {
		h.BadRequest(c, "credentials file is required")
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

	var key serviceAccountKey
	if err := json.Unmarshal(data, &key); err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidJSON, "not a valid JSON file")
		return
	}
	if key.Type != "service_account" || key.ClientEmail == "" || key.PrivateKey == "" {
		h.ErrorWithCode(c, dto.ErrCodeInvalidInput, "not a service account key")
		return
	}

	if err := os.MkdirAll(filepath.Dir(h.visionCredentialsFile), 0o755); err != nil {
		h.InternalError(c, "failed to save credentials")
		return
	}
	if err := os.WriteFile(h.visionCredentialsFile, data, 0o600); err != nil {
		h.InternalError(c, "failed to save credentials")
		return
	}

	h.logger.Info("Vision credentials replaced", zap.String("client_email", key.ClientEmail))
	h.Success(c, visionCredentialsStatus{Configured: true, ClientEmail: key.ClientEmail})
}

// oauthClientSecret is the subset of a Google OAuth client secret file
// needed to validate an upload. Desktop clients use "installed", web
// clients use "web".
type oauthClientSecret struct {
	Installed *struct {
		ClientID string `json:"client_id"`
	} `json:"installed"`
	Web *struct {
		ClientID string `json:"client_id"`
	} `json:"web"`
}

// oauthCredentialsStatus reports whether Drive OAuth credentials are installed
type oauthCredentialsStatus struct {
	Configured bool `json:"configured"`
}

// UploadOAuthCredentials godoc
// @ID           uploadOAuthCredentials
// @Summary      Install a Drive OAuth client secret
// @Description  Replacing the client secret invalidates any stored token, so it is removed
// @Tags         config
// @Accept       multipart/form-data
// @Produce      json
// @Param        credentials formData file true "OAuth client secret JSON"
// @Success      200 {object} APIResponse[oauthCredentialsStatus]
// @Failure      400 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /config/oauth-credentials [post]
func (h *ConfigHandler) UploadOAuthCredentials(c *gin.Context) {
	fileHeader, err := c.FormFile("credentials")
	if err != nil {
		h.BadRequest(c, "credentials file is required")
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

	var secret oauthClientSecret
	if err := json.Unmarshal(data, &secret); err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidJSON, "not a valid JSON file")
		return
	}
	if secret.Installed == nil && secret.Web == nil {
		h.ErrorWithCode(c, dto.ErrCodeInvalidInput, "not an OAuth client secret")
		return
	}

	if err := os.MkdirAll(filepath.Dir(h.oauthCredentialsFile), 0o755); err != nil {
		h.InternalError(c, "failed to save credentials")
		return
	}
	if err := os.WriteFile(h.oauthCredentialsFile, data, 0o600); err != nil {
		h.InternalError(c, "failed to save credentials")
		return
	}

	// A token issued under the old client is useless now.
	if err := os.Remove(h.oauthTokenFile); err != nil && !os.IsNotExist(err) {
		h.logger.Warn("failed to remove stale OAuth token", zap.Error(err))
	}

	h.logger.Info("Drive OAuth credentials replaced")
	h.Success(c, oauthCredentialsStatus{Configured: true})
}

// apiStatusResponse reports which external integrations are usable
type apiStatusResponse struct {
	VisionConfigured bool `json:"vision_configured"`
	GeminiConfigured bool `json:"gemini_configured"`
	DriveConnected   bool `json:"drive_connected"`
}

// GetAPIStatus godoc
// @ID           getAPIStatus
// @Summary      Report the status of all external integrations
// @Tags         config
// @Produce      json
// @Success      200 {object} APIResponse[apiStatusResponse]
// @Router       /config/api-status [get]
func (h *ConfigHandler) GetAPIStatus(c *gin.Context) {
	status := apiStatusResponse{}

	if data, err := os.ReadFile(h.visionCredentialsFile); err == nil {
		var key serviceAccountKey
		if json.Unmarshal(data, &key) == nil && key.Type == "service_account" {
			status.VisionConfigured = true
		}
	}
	if h.llm != nil {
		status.GeminiConfigured = h.llm.Configured()
	}
	if h.drive != nil {
		status.DriveConnected = h.drive.Connected()
	}

	h.Success(c, status)
}

// folderIDRequest carries a Drive folder URL or id
type folderIDRequest struct {
	Folder string `json:"folder" binding:"required"`
}

// folderIDResponse carries the extracted folder id
type folderIDResponse struct {
	FolderID string `json:"folder_id"`
}

// GetDriveFolder godoc
// @ID           getDriveFolder
// @Summary      Get the Drive folder imports read from
// @Description  Returns the folder id stored through the API, falling back to the one from the config file
// @Tags         config
// @Produce      json
// @Success      200 {object} APIResponse[folderIDResponse]
// @Failure      500 {object} ErrorResponse
// @Router       /config/drive-folder [get]
func (h *ConfigHandler) GetDriveFolder(c *gin.Context) {
	id := h.defaultDriveFolderID
	if h.settings != nil {
		stored, err := h.settings.Get(c.Request.Context(), driveFolderSettingKey)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		if stored != "" {
			id = stored
		}
	}
	h.Success(c, folderIDResponse{FolderID: id})
}

// SetDriveFolder godoc
// @ID           setDriveFolder
// @Summary      Set the Drive folder imports read from
// @Description  Accepts a folder id or a full Drive folder URL, extracts the id and stores it
// @Tags         config
// @Accept       json
// @Produce      json
// @Param        request body folderIDRequest true "Folder URL or id"
// @Success      200 {object} APIResponse[folderIDResponse]
// @Failure      400 {object} ErrorResponse
// @Router       /config/drive-folder [post]
func (h *ConfigHandler) SetDriveFolder(c *gin.Context) {
	var req folderIDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidJSON, err.Error())
		return
	}
	id := drive.ExtractFolderID(req.Folder)
	if id == "" {
		h.ErrorWithCode(c, dto.ErrCodeInvalidInput, "could not extract a folder id")
		return
	}
	if h.settings != nil {
		if err := h.settings.Set(c.Request.Context(), driveFolderSettingKey, id); err != nil {
			h.HandleError(c, err)
			return
		}
	}
	h.logger.Info("drive folder configured", zap.String("folder_id", id))
	h.Success(c, folderIDResponse{FolderID: id})
}
