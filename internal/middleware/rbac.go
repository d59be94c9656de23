package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/web-academy/academy-api/internal/models"
	appErrors "github.com/web-academy/academy-api/pkg/errors"
	"github.com/web-academy/academy-api/pkg/response"
)

// CurrentUser extracts the authenticated principal set by Authenticate or
// OptionalAuth. Returns nil for anonymous callers.
func CurrentUser(c *gin.Context) *models.User {
	value, exists := c.Get(ContextUserKey)
	if !exists {
		return nil
	}
	user, ok := value.(*models.User)
	if !ok {
		return nil
	}
	return user
}

// RequireAdmin allows only admins through (institute-bound or super-admin).
func RequireAdmin() gin.HandlerFunc {
	return requireRoles(models.RoleAdmin)
}

// RequireAdminOrInstructor allows admins and formateurs through.
func RequireAdminOrInstructor() gin.HandlerFunc {
	return requireRoles(models.RoleAdmin, models.RoleInstructor)
}

// RequireSuperAdmin allows only the unbound admin through.
func RequireSuperAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		if !user.IsSuperAdmin() {
			response.Error(c, appErrors.ErrForbidden)
			c.Abort()
			return
		}
		c.Next()
	}
}

func requireRoles(roles ...models.Role) gin.HandlerFunc {
	allowed := make(map[models.Role]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		if _, ok := allowed[user.Role]; !ok {
			response.Error(c, appErrors.ErrForbidden)
			c.Abort()
			return
		}
		c.Next()
	}
}
