package middlewares

import (
	"github.com/gin-gonic/gin"

	"github.com/platemate/dinein-api/utils"
)

// WebSocketAuthMiddleware authenticates websocket upgrades; browsers cannot
// set an Authorization header on the handshake, so the token rides in the
// query string.
func WebSocketAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			c.AbortWithStatus(401)
			return
		}

		claims, err := utils.ParseToken(token)
		if err != nil {
			c.AbortWithStatus(401)
			return
		}

		c.Set("role", claims.Role)
		c.Set("userID", claims.UserID)

		c.Next()
	}
}
