package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/user-management-console/internal/config"
	"github.com/user-management-console/internal/models"
	"github.com/user-management-console/internal/service"
)

// UploadHandler handles file upload endpoints
type UploadHandler struct {
	services *service.Services
	config   *config.Config
	log      zerolog.Logger
}

// NewUploadHandler creates a new UploadHandler
func NewUploadHandler(services *service.Services, cfg *config.Config, log zerolog.Logger) *UploadHandler {
	return &UploadHandler{
		services: services,
		config:   cfg,
		log:      log.With().Str("handler", "upload").Logger(),
	}
}

// Upload handles POST /v1/uploads
// Accepts one or more files in the multipart field "files"
func (h *UploadHandler) Upload(c *gin.Context) {
	ctx := c.Request.Context()
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.config.Upload.MaxUploadSize)

	form, err := c.MultipartForm()
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "upload exceeds maximum size"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "multipart form with field 'files' is required"})
		return
	}

	files := form.File["files"]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no files uploaded"})
		return
	}

	snap := h.services.Session.Snapshot(currentSession(c))
	username := ""
	if snap.CurrentUser != nil {
		username = snap.CurrentUser.Username
	}

	receipts := make([]*models.UploadReceipt, 0, len(files))
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			h.log.Error().Err(err).Str("filename", fh.Filename).Msg("Failed to open uploaded file")
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read uploaded file"})
			return
		}

		receipt, err := h.services.Upload.Receive(ctx, username, fh.Filename, f)
		f.Close()
		if err != nil {
			respondError(c, h.log, err)
			return
		}
		receipts = append(receipts, receipt)
	}

	h.log.Info().
		Str("username", username).
		Int("files", len(receipts)).
		Msg("Files uploaded")

	c.JSON(http.StatusCreated, gin.H{
		"message": "Files uploaded successfully",
		"uploads": receipts,
	})
}

// ListUploads handles GET /v1/uploads
func (h *UploadHandler) ListUploads(c *gin.Context) {
	uploads, err := h.services.Upload.List(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":   len(uploads),
		"uploads": uploads,
	})
}
