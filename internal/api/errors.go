package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/user-management-console/internal/models"
	"github.com/user-management-console/internal/validation"
)

// respondError maps service errors to status codes. Unexpected errors are
// logged and reported without detail.
func respondError(c *gin.Context, log zerolog.Logger, err error) {
	var verrs validation.Errors
	switch {
	case errors.As(err, &verrs):
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "errors": verrs})
	case errors.Is(err, models.ErrAuthenticationFailed):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username or password"})
	case errors.Is(err, models.ErrNotLoggedIn):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "login required"})
	case errors.Is(err, models.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	case errors.Is(err, models.ErrUnknownPage):
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown page", "pages": models.MenuPages})
	default:
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
