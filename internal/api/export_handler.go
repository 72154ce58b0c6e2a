package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/user-management-console/internal/service"
)

// ExportHandler handles roster export endpoints
type ExportHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewExportHandler creates a new ExportHandler
func NewExportHandler(services *service.Services, log zerolog.Logger) *ExportHandler {
	return &ExportHandler{
		services: services,
		log:      log.With().Str("handler", "export").Logger(),
	}
}

// ExportUsers handles GET /v1/users/export?format=...&role=...
// Streams the filtered roster directly to the response
func (h *ExportHandler) ExportUsers(c *gin.Context) {
	ctx := c.Request.Context()

	format := c.DefaultQuery("format", "csv")
	if format != "ndjson" && format != "json" && format != "csv" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "format must be one of: ndjson, json, csv"})
		return
	}
	role := c.DefaultQuery("role", "All")

	if err := h.services.Export.StreamUsers(ctx, c.Writer, format, role); err != nil {
		if !c.Writer.Written() {
			respondError(c, h.log, err)
			return
		}
		// Can't return error JSON after streaming has started
		h.log.Error().Err(err).Str("format", format).Msg("Export failed")
	}
}
