package middleware

import (
	"net/http"

	"notetasks/utils"

	"github.com/gin-gonic/gin"
)

// RequestSizeLimiter caps the request body at maxSize bytes
func RequestSizeLimiter(maxSize int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxSize {
			utils.RequestTooLarge(c, "Upload exceeds the maximum allowed size")
			return
		}

		var w http.ResponseWriter = c.Writer
		c.Request.Body = http.MaxBytesReader(w, c.Request.Body, maxSize)
		c.Next()
	}
}
