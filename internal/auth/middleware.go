package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/fnutaifi/custody-sheets/internal/models"
)

const identityKey = "auth_identity"

// Identity is the authenticated caller attached to the request context.
type Identity struct {
	UserID string
	Email  string
	Role   string
}

// IsLead reports whether the caller may access admin-only routes.
func (id Identity) IsLead() bool {
	return id.Role == models.RoleAdmin || id.Role == models.RoleTeamLead
}

// Middleware validates the bearer token and stores the caller identity in
// the gin context. A missing token is 401; an invalid or expired token is 403.
func Middleware(tm *TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}

		claims, err := tm.Parse(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "invalid token"})
			return
		}

		c.Set(identityKey, Identity{
			UserID: claims.UserID,
			Email:  claims.Email,
			Role:   claims.Role,
		})
		c.Next()
	}
}

// RequireLead denies callers whose role is not Admin or TeamLead.
func RequireLead() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := IdentityFromContext(c)
		if !ok || !id.IsLead() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "غير مصرح لك للوصول"})
			return
		}
		c.Next()
	}
}

// IdentityFromContext retrieves the caller identity set by Middleware.
func IdentityFromContext(c *gin.Context) (Identity, bool) {
	v, exists := c.Get(identityKey)
	if !exists {
		return Identity{}, false
	}
	id, ok := v.(Identity)
	return id, ok
}
