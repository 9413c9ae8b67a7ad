package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/discora/label-admin-api/internal/models"
	appErrors "github.com/discora/label-admin-api/pkg/errors"
	"github.com/discora/label-admin-api/pkg/response"
)

// RequireRoles enforces role-based access control. The "SELF" marker
// additionally allows a user through when the route's :id parameter is
// their own user id.
func RequireRoles(allowed ...string) gin.HandlerFunc {
	allowSelf := false
	allowedRoles := make(map[models.UserRole]struct{}, len(allowed))
	for _, a := range allowed {
		if a == "SELF" {
			allowSelf = true
			continue
		}
		allowedRoles[models.UserRole(a)] = struct{}{}
	}

	return func(c *gin.Context) {
		claims := CurrentUser(c)
		if claims == nil {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}

		if _, ok := allowedRoles[claims.Role]; ok {
			c.Next()
			return
		}

		if allowSelf {
			if targetID := c.Param("id"); targetID != "" && targetID == claims.UserID {
				c.Next()
				return
			}
		}

		response.Error(c, appErrors.ErrForbidden)
		c.Abort()
	}
}

// StaffOnly admits admins and managers, the two roles allowed to mutate
// catalog data.
func StaffOnly() gin.HandlerFunc {
	return RequireRoles(string(models.RoleAdmin), string(models.RoleManager))
}

// AdminOnly admits admins.
func AdminOnly() gin.HandlerFunc {
	return RequireRoles(string(models.RoleAdmin))
}
