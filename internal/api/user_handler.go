package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/user-management-console/internal/models"
	"github.com/user-management-console/internal/service"
)

// UserHandler handles roster endpoints
type UserHandler struct {
	services *service.Services
	metrics  *consoleMetrics
	log      zerolog.Logger
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(services *service.Services, metrics *consoleMetrics, log zerolog.Logger) *UserHandler {
	return &UserHandler{
		services: services,
		metrics:  metrics,
		log:      log.With().Str("handler", "users").Logger(),
	}
}

// ListUsers handles GET /v1/users?role=...
func (h *UserHandler) ListUsers(c *gin.Context) {
	role := c.DefaultQuery("role", models.RoleAll)

	users, err := h.services.Directory.FilterByRole(c.Request.Context(), role)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"role":  role,
		"count": len(users),
		"users": users,
	})
}

// RoleOptions handles GET /v1/users/roles
func (h *UserHandler) RoleOptions(c *gin.Context) {
	roles, err := h.services.Directory.RoleOptions(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"roles": roles})
}

// AddUser handles POST /v1/users
func (h *UserHandler) AddUser(c *gin.Context) {
	var req models.NewUser
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	user, err := h.services.Session.AddUser(c.Request.Context(), currentSession(c), &req)
	if err != nil {
		h.metrics.mutation("add", false)
		respondError(c, h.log, err)
		return
	}
	h.metrics.mutation("add", true)

	c.JSON(http.StatusCreated, gin.H{
		"message": fmt.Sprintf("User '%s' added with role '%s' and email '%s'", user.Username, user.Role.Label(), user.Email),
		"user":    user,
	})
}

// ClearAllUsers handles DELETE /v1/users
func (h *UserHandler) ClearAllUsers(c *gin.Context) {
	if err := h.services.Session.ClearAllUsers(c.Request.Context(), currentSession(c)); err != nil {
		h.metrics.mutation("clear", false)
		respondError(c, h.log, err)
		return
	}
	h.metrics.mutation("clear", true)

	c.JSON(http.StatusOK, gin.H{"message": "All user data has been cleared."})
}
