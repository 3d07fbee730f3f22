package middleware

import (
	"net/http"

	"levi/models"
	"levi/utils"

	"github.com/gin-gonic/gin"
)

// RequireRole lets the request through only for the listed roles. It must run after
// JWTAuthMiddleware.
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		_, role := Actor(c)
		for _, r := range roles {
			if r == role {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, utils.ErrorResponse{
			Error: "Insufficient role",
		})
	}
}
