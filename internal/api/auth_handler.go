package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/user-management-console/internal/models"
	"github.com/user-management-console/internal/service"
)

// AuthHandler handles login, sign-up and session navigation
type AuthHandler struct {
	services *service.Services
	metrics  *consoleMetrics
	log      zerolog.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(services *service.Services, metrics *consoleMetrics, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		services: services,
		metrics:  metrics,
		log:      log.With().Str("handler", "auth").Logger(),
	}
}

// GetSession handles GET /v1/session
func (h *AuthHandler) GetSession(c *gin.Context) {
	c.JSON(http.StatusOK, h.services.Session.Snapshot(currentSession(c)))
}

// Login handles POST /v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	sess := currentSession(c)
	user, err := h.services.Session.Login(c.Request.Context(), sess, req.Identifier, req.Password)
	if err != nil {
		if errors.Is(err, models.ErrAuthenticationFailed) {
			h.metrics.login(false)
		}
		respondError(c, h.log, err)
		return
	}
	h.metrics.login(true)

	c.JSON(http.StatusOK, gin.H{
		"message": "Welcome, " + user.Username + "!",
		"user":    user,
		"session": h.services.Session.Snapshot(sess),
	})
}

// SignUp handles POST /v1/auth/signup
func (h *AuthHandler) SignUp(c *gin.Context) {
	var req models.SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	user, err := h.services.Session.SignUp(c.Request.Context(), currentSession(c), &req)
	if err != nil {
		h.metrics.mutation("signup", false)
		respondError(c, h.log, err)
		return
	}
	h.metrics.mutation("signup", true)

	c.JSON(http.StatusCreated, gin.H{
		"message": "Sign up successful! Please log in.",
		"user":    user,
	})
}

// Logout handles POST /v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	sess := currentSession(c)
	h.services.Session.Logout(sess)
	c.JSON(http.StatusOK, gin.H{
		"message": "Logged out",
		"session": h.services.Session.Snapshot(sess),
	})
}

// Navigate handles PUT /v1/session/page
func (h *AuthHandler) Navigate(c *gin.Context) {
	var req struct {
		Page string `json:"page"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	sess := currentSession(c)
	if err := h.services.Session.Navigate(sess, req.Page); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, h.services.Session.Snapshot(sess))
}
