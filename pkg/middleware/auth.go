package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/epasal/epasal-backend/internal/model"
	"github.com/epasal/epasal-backend/internal/service"
)

type AuthMiddleware struct {
	authService *service.AuthService
}

func NewAuthMiddleware(authService *service.AuthService) *AuthMiddleware {
	return &AuthMiddleware{authService: authService}
}

// SessionAuth resolves the X-Session-ID header against the sessions table and
// puts the user identity on the request context.
func (m *AuthMiddleware) SessionAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetHeader("X-Session-ID")
		if sessionID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "No session ID provided",
			})
			return
		}

		session, err := m.authService.GetSession(c.Request.Context(), sessionID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid or expired session",
			})
			return
		}

		var sessionData map[string]any
		if err := json.Unmarshal(session.Data, &sessionData); err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to parse session data",
			})
			return
		}

		c.Set("session", session)
		c.Set("user_id", session.UserID)
		c.Set("user_email", sessionData["email"])
		c.Set("user_status", sessionData["status"])

		c.Next()
	}
}

// RequireStatus allows only the given account statuses through.
func (m *AuthMiddleware) RequireStatus(statuses ...model.Status) gin.HandlerFunc {
	return func(c *gin.Context) {
		userStatus, exists := c.Get("user_status")
		if !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "No status information found",
			})
			return
		}

		statusStr, ok := userStatus.(string)
		if !ok {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error": "Invalid status format",
			})
			return
		}

		current := model.Status(statusStr)
		allowed := false
		for _, status := range statuses {
			if current == status {
				allowed = true
				break
			}
		}

		if !allowed {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "Insufficient permissions",
			})
			return
		}

		c.Next()
	}
}
