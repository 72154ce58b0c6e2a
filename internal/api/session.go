package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/user-management-console/internal/auth"
	"github.com/user-management-console/internal/models"
	"github.com/user-management-console/internal/service"
)

const (
	sessionCookie = "console_session"
	sessionKey    = "session"
	// SessionHeader carries the token for clients that do not keep cookies
	SessionHeader = "X-Session-Token"
)

// sessionMiddleware resolves the request's session from the cookie or a
// Bearer token, starting a new logged-out session when there is none. A
// signed token whose session is not registered resumes as logged out.
func sessionMiddleware(sessions service.SessionService, tokens *auth.Tokens, secure bool, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var sess *models.Session
		if tok := sessionToken(c); tok != "" {
			if id, err := tokens.Parse(tok); err == nil {
				sess = sessions.Resume(id)
			} else {
				log.Debug().Err(err).Msg("Ignoring invalid session token")
			}
		}

		if sess == nil {
			sess = sessions.Start()
			tok, err := tokens.Issue(sess.ID)
			if err != nil {
				log.Error().Err(err).Msg("Failed to issue session token")
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to start session"})
				return
			}
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(sessionCookie, tok, 0, "/", "", secure, true)
			c.Header(SessionHeader, tok)
		}

		c.Set(sessionKey, sess)
		c.Next()
	}
}

// requireLogin rejects requests from logged-out sessions
func requireLogin(sessions service.SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		snap := sessions.Snapshot(currentSession(c))
		if !snap.LoggedIn {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "login required"})
			return
		}
		c.Next()
	}
}

func sessionToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if parts := strings.SplitN(authHeader, " ", 2); len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	if tok, err := c.Cookie(sessionCookie); err == nil {
		return tok
	}
	return ""
}

func currentSession(c *gin.Context) *models.Session {
	return c.MustGet(sessionKey).(*models.Session)
}
