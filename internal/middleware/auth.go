package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"clinic-api-server/internal/config"
	"clinic-api-server/internal/models"
	"clinic-api-server/internal/scheduling"
	"clinic-api-server/internal/utils"
)

const principalKey = "principal"

// AuthMiddleware creates a middleware for JWT authentication. It builds
// the Principal from the token claims and stores it in the request
// context; handlers pass it explicitly into the rule functions.
func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.Unauthorized(c, "Authorization header required")
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			utils.Unauthorized(c, "Invalid authorization header format")
			c.Abort()
			return
		}

		claims, err := utils.ValidateToken(parts[1], cfg.JWTSecret)
		if err != nil {
			utils.Unauthorized(c, "Invalid token")
			c.Abort()
			return
		}

		c.Set(principalKey, scheduling.Principal{
			UserID:       claims.UserID,
			Role:         claims.Role,
			RoleScopedID: claims.RoleScopedID,
		})

		c.Next()
	}
}

// RoleAuthMiddleware creates a middleware for role-based authorization.
// It should be used *after* AuthMiddleware.
func RoleAuthMiddleware(allowedRoles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := GetPrincipal(c)
		if !ok {
			utils.Forbidden(c)
			c.Abort()
			return
		}

		for _, role := range allowedRoles {
			if principal.Role == role {
				c.Next()
				return
			}
		}

		utils.Forbidden(c)
		c.Abort()
	}
}

// GetPrincipal retrieves the authenticated caller from the request
// context.
func GetPrincipal(c *gin.Context) (scheduling.Principal, bool) {
	value, exists := c.Get(principalKey)
	if !exists {
		return scheduling.Principal{}, false
	}
	principal, ok := value.(scheduling.Principal)
	return principal, ok
}
