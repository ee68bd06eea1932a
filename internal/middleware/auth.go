package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/fivemhub/backend/internal/auth"
)

// AuthMiddleware validates the bearer token and stores the caller's id and
// role on the context.
func AuthMiddleware(jwtService *auth.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractToken(c)
		if tokenString == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing authorization token"})
			c.Abort()
			return
		}

		claims, err := jwtService.ValidateToken(tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("role", claims.Role)
		c.Next()
	}
}

// RequireCapability rejects callers whose role does not grant the capability.
// Runs after AuthMiddleware.
func RequireCapability(capability auth.Capability) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("role")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing authorization token"})
			c.Abort()
			return
		}

		r, ok := role.(auth.Role)
		if !ok || !r.Can(capability) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
			c.Abort()
			return
		}

		c.Next()
	}
}

// extractToken reads the token from the Authorization header, falling back
// to the "token" query parameter for websocket upgrades.
func extractToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return c.Query("token")
}

// CallerID returns the authenticated user's id from the context.
func CallerID(c *gin.Context) uuid.UUID {
	userID, _ := c.Get("user_id")
	uid, _ := userID.(uuid.UUID)
	return uid
}

// CallerRole returns the authenticated user's role from the context.
func CallerRole(c *gin.Context) auth.Role {
	role, _ := c.Get("role")
	r, _ := role.(auth.Role)
	return r
}
