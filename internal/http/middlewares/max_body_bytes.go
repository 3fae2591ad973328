package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// MaxBodyBytes caps request bodies at max bytes. A declared Content-Length
// over the cap is refused up front; otherwise the reader fails once the cap
// is crossed and BindJSON turns that into a 413.
func MaxBodyBytes(max int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body == nil || c.Request.Body == http.NoBody {
			c.Next()
			return
		}

		if c.Request.ContentLength > max {
			abortWithError(c, http.StatusRequestEntityTooLarge, "payload_too_large", "Request body is too large")
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, max)
		c.Next()
	}
}
