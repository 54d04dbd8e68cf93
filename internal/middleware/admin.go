package middleware

import (
	"context"  // Request scoped lookups
	"net/http" // HTTP status codes

	"food_app/internal/domain" // Importing domain models

	"github.com/gin-gonic/gin" // Gin web framework
)

// UserLookup loads the current state of a user
type UserLookup interface {
	Get(ctx context.Context, id uint) (*domain.User, error)
}

// AdminOnlyMiddleware checks the user's role from the database on each request,
// so a demoted admin loses access before the token expires
func AdminOnlyMiddleware(users UserLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get(CtxUserID) // Get userID from context
		if !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"status": "error", "message": "Unauthorized"})
			return
		}
		id, _ := userID.(uint)
		user, err := users.Get(c.Request.Context(), id) // Fetch user from database
		if err != nil || user.Role != domain.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"status": "error", "message": "Admin access required"})
			return
		}
		c.Set(CtxRole, user.Role) // Fresh role for downstream handlers
		c.Next()
	}
}
