package middleware

import (
	"net/http"
	"strings"

	"levi/models"
	"levi/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Context keys set by JWTAuthMiddleware.
const (
	ActorIDKey = "actorID"
	RoleKey    = "role"
)

// JWTAuthMiddleware verifies the bearer token and stores the actor id and role in the
// request context.
func JWTAuthMiddleware(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, utils.ErrorResponse{Error: "Missing or invalid Authorization header"})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		claims, err := utils.ValidateToken(secret, tokenString)
		if err != nil {
			utils.GetLogger().Debug("Rejected token", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, utils.ErrorResponse{Error: "Invalid token"})
			return
		}
		role, err := models.ParseRole(claims.Role)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, utils.ErrorResponse{Error: "Invalid token", Details: err.Error()})
			return
		}

		c.Set(ActorIDKey, claims.Subject)
		c.Set(RoleKey, role)
		c.Next()
	}
}

// Actor returns the authenticated actor of the request.
func Actor(c *gin.Context) (id string, role models.Role) {
	id = c.GetString(ActorIDKey)
	if v, ok := c.Get(RoleKey); ok {
		role, _ = v.(models.Role)
	}
	return id, role
}
