package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/MatForge/pkg/errors"
)

// MaxBodySize rejects requests declaring a larger Content-Length up front and
// caps the readable body for the rest. Non-positive limits disable the check.
func MaxBodySize(limit int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limit <= 0 {
			c.Next()
			return
		}
		if c.Request.ContentLength > limit {
			abortWithCode(c, errors.ErrCodeBadRequest, "request body too large")
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		c.Next()
	}
}
