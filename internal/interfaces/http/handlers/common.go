// Package handlers implements the REST endpoints. Handlers decode the
// request, call one application or domain operation and render the result;
// every failure is rendered through respondError.
package handlers

import (
	stderrors "errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/MatForge/pkg/errors"
)

// ErrorResponse is the standard error response body.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

// respondError maps err to its HTTP status. Errors without a code, and
// server-side storage failures, are masked as internal errors.
func respondError(c *gin.Context, err error) {
	_ = c.Error(err)

	var appErr *errors.AppError
	if !stderrors.As(err, &appErr) || appErr.Code == errors.CodeUnknown {
		c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
			Code:    string(errors.ErrCodeInternal),
			Message: errors.DefaultMessageForCode(errors.ErrCodeInternal),
		})
		return
	}

	resp := ErrorResponse{Code: string(appErr.Code), Message: appErr.Message, Detail: appErr.Detail}
	switch appErr.Code {
	case errors.ErrCodeInternal, errors.ErrCodeDatabaseError, errors.ErrCodeCacheError, errors.ErrCodeSerialization:
		resp.Message = errors.DefaultMessageForCode(appErr.Code)
		resp.Detail = ""
	}
	c.AbortWithStatusJSON(errors.HTTPStatusForCode(appErr.Code), resp)
}

// bindJSON decodes the body into dst and renders a 400 on failure.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, errors.Wrap(err, errors.ErrCodeBadRequest, "invalid request body").WithDetail(err.Error()))
		return false
	}
	return true
}

// queryInt parses an optional non-negative integer query parameter.
func queryInt(c *gin.Context, key string, def int) (int, error) {
	v := c.Query(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, errors.InvalidParam(key + " must be a non-negative integer").WithDetail(v)
	}
	return n, nil
}

// chain returns mw followed by h without sharing mw's backing array.
func chain(mw []gin.HandlerFunc, h gin.HandlerFunc) []gin.HandlerFunc {
	out := make([]gin.HandlerFunc, 0, len(mw)+1)
	return append(append(out, mw...), h)
}
