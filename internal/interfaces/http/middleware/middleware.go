// Package middleware holds the gin middleware chain shared by every route:
// request IDs, panic recovery, access logging, metrics, body limits, CORS and
// the oracle rate limiter.
package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/turtacn/MatForge/pkg/errors"
)

// abortWithCode ends the request with the standard {code, message} envelope.
func abortWithCode(c *gin.Context, code errors.ErrorCode, message string) {
	c.AbortWithStatusJSON(errors.HTTPStatusForCode(code), gin.H{
		"code":    string(code),
		"message": message,
	})
}
