package api

import (
	"crypto/subtle"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lysyi3m/link-digest/app/posts"
)

// adminAuth rejects the request unless the admin header equals the shared secret.
// With no secret configured every request is rejected.
func adminAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		provided := c.GetHeader(AdminHeader)

		if secret == "" || subtle.ConstantTimeCompare([]byte(provided), []byte(secret)) != 1 {
			slog.Warn("Unauthorized admin request", "method", c.Request.Method, "path", c.Request.URL.Path, "client_ip", c.ClientIP())
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse{
				Error: "Unauthorized",
				Code:  posts.ErrCodeUnauthorized,
			})
			return
		}

		c.Next()
	}
}
