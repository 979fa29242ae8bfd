package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-outcomes-api/internal/models"
	appErrors "github.com/noah-isme/sma-outcomes-api/pkg/errors"
	"github.com/noah-isme/sma-outcomes-api/pkg/response"
)

// RequireRoles only lets requests through whose token carries one of roles.
func RequireRoles(roles ...models.UserRole) gin.HandlerFunc {
	allowed := make(map[models.UserRole]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}
	return func(c *gin.Context) {
		claims, ok := Claims(c)
		if !ok {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		if _, permitted := allowed[claims.Role]; !permitted {
			response.Error(c, appErrors.ErrForbidden)
			c.Abort()
			return
		}
		c.Next()
	}
}
