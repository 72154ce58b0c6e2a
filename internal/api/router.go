package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/user-management-console/internal/auth"
	"github.com/user-management-console/internal/config"
	"github.com/user-management-console/internal/service"
)

// HealthChecker reports whether the backing storage is usable
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// NewRouter creates and configures the Gin router
func NewRouter(services *service.Services, storage HealthChecker, tokens *auth.Tokens, cfg *config.Config, log zerolog.Logger) *gin.Engine {
	// Set Gin mode
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	metrics := newConsoleMetrics()

	// Middleware
	router.Use(recoveryMiddleware(log))
	router.Use(loggingMiddleware(log))
	router.Use(corsMiddleware())

	// Handlers
	authHandler := NewAuthHandler(services, metrics, log)
	userHandler := NewUserHandler(services, metrics, log)
	exportHandler := NewExportHandler(services, log)
	uploadHandler := NewUploadHandler(services, cfg, log)

	// Health check
	router.GET("/health", healthCheck(storage, log))
	router.GET("/metrics", metricsHandler(services))
	router.GET("/metrics/prometheus", gin.WrapH(metrics.handler()))

	// API v1
	v1 := router.Group("/v1")
	v1.Use(sessionMiddleware(services.Session, tokens, cfg.Auth.CookieSecure, log))
	{
		// Session and authentication
		v1.GET("/session", authHandler.GetSession)
		v1.PUT("/session/page", authHandler.Navigate)

		authGroup := v1.Group("/auth")
		{
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/signup", authHandler.SignUp)
			authGroup.POST("/logout", authHandler.Logout)
		}

		// Roster endpoints
		users := v1.Group("/users", requireLogin(services.Session))
		{
			users.GET("", userHandler.ListUsers)
			users.GET("/roles", userHandler.RoleOptions)
			users.GET("/export", exportHandler.ExportUsers)
			users.POST("", userHandler.AddUser)
			users.DELETE("", userHandler.ClearAllUsers)
		}

		// Upload endpoints
		uploads := v1.Group("/uploads", requireLogin(services.Session))
		{
			uploads.POST("", uploadHandler.Upload)
			uploads.GET("", uploadHandler.ListUploads)
		}
	}

	return router
}

// healthCheck returns the health status
func healthCheck(storage HealthChecker, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		status, code := "healthy", http.StatusOK
		if err := storage.HealthCheck(c.Request.Context()); err != nil {
			log.Error().Err(err).Msg("Storage health check failed")
			status, code = "unhealthy", http.StatusServiceUnavailable
		}

		c.JSON(code, gin.H{
			"status":    status,
			"timestamp": time.Now().Format(time.RFC3339),
			"service":   "user-management-console",
		})
	}
}

// metricsHandler returns roster and upload metrics
func metricsHandler(services *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		usersCount, _ := services.Directory.Count(ctx)
		uploadsCount, _ := services.Upload.Count(ctx)
		distribution, _ := services.Directory.RoleDistribution(ctx)

		c.JSON(http.StatusOK, gin.H{
			"roster": gin.H{
				"users":             usersCount,
				"uploads":           uploadsCount,
				"role_distribution": distribution,
			},
			"sessions":  services.Session.Active(),
			"timestamp": time.Now().Format(time.RFC3339),
		})
	}
}

// recoveryMiddleware handles panics
func recoveryMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error().Interface("error", err).Msg("Panic recovered")
				c.JSON(http.StatusInternalServerError, gin.H{
					"error": "Internal server error",
				})
				c.Abort()
			}
		}()
		c.Next()
	}
}

// loggingMiddleware logs requests
func loggingMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		duration := time.Since(start)
		statusCode := c.Writer.Status()

		event := log.Info()
		if statusCode >= 400 {
			event = log.Warn()
		}
		if statusCode >= 500 {
			event = log.Error()
		}

		event.
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", statusCode).
			Dur("duration", duration).
			Str("client_ip", c.ClientIP()).
			Msg("Request completed")
	}
}

// corsMiddleware handles CORS
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
