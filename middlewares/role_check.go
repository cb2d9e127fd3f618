package middlewares

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"little-lemon-api/policy"
	"little-lemon-api/utils"
)

// RequireManager gates the staff-directory endpoints. Must run after
// AuthMiddleware.
func RequireManager() gin.HandlerFunc {
	return func(c *gin.Context) {
		userIDInterface, exists := c.Get("user_id")
		if !exists {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("unauthorized"))
			c.Abort()
			return
		}

		userID, ok := userIDInterface.(uint)
		if !ok {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid user id type"))
			c.Abort()
			return
		}

		role, err := policy.ResolveRole(utils.GetDB(), userID)
		if err != nil {
			utils.RespondError(c, http.StatusInternalServerError, err)
			c.Abort()
			return
		}

		if role != policy.RoleManager {
			utils.RespondError(c, http.StatusForbidden, errors.New("manager access required"))
			c.Abort()
			return
		}

		c.Set("role", role)
		c.Next()
	}
}
