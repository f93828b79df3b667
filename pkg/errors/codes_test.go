package errors

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorCode_String(t *testing.T) {
	assert.Equal(t, "COMMON_001", ErrCodeInternal.String())
}

func TestHTTPStatusForCode(t *testing.T) {
	tests := []struct {
		code     ErrorCode
		expected int
	}{
		{ErrCodeInternal, 500},
		{ErrCodeBadRequest, 400},
		{ErrCodeNotFound, 404},
		{ErrCodeValidation, 422},
		{ErrCodeCompositionInvalid, 422},
		{ErrCodePolymerInvalid, 422},
		{ErrCodeOracleCallFailed, 502},
		{ErrCodeOracleMalformed, 502},
		{ErrCodeOracleNotConfigured, 503},
		{ErrCodeMaterialNotFound, 404},
		{ErrorCode("UNKNOWN"), 500},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, HTTPStatusForCode(tt.code), tt.code)
	}
}

func TestDefaultMessageForCode(t *testing.T) {
	assert.Equal(t, "internal server error", DefaultMessageForCode(ErrCodeInternal))
	assert.Equal(t, "composition must sum to 100%", DefaultMessageForCode(ErrCodeCompositionInvalid))
	assert.Equal(t, "unknown error", DefaultMessageForCode(ErrorCode("UNKNOWN")))
}

func TestIsClientAndServerError(t *testing.T) {
	assert.True(t, IsClientError(ErrCodeCompositionEmpty))
	assert.False(t, IsClientError(ErrCodeInternal))
	assert.True(t, IsServerError(ErrCodeOracleCallFailed))
	assert.False(t, IsServerError(ErrCodeBadRequest))
}

func TestModuleForCode(t *testing.T) {
	assert.Equal(t, "COMMON", ModuleForCode(ErrCodeInternal))
	assert.Equal(t, "COMP", ModuleForCode(ErrCodeCompositionInvalid))
	assert.Equal(t, "POLY", ModuleForCode(ErrCodePolymerInvalid))
	assert.Equal(t, "ORC", ModuleForCode(ErrCodeOracleMalformed))
	assert.Equal(t, "MAT", ModuleForCode(ErrCodeMaterialNotFound))
	assert.Equal(t, "REF", ModuleForCode(ErrCodeElementNotFound))
	assert.Equal(t, "UNKNOWN", ModuleForCode(ErrorCode("")))
}

func TestErrorCodeFormat_Convention(t *testing.T) {
	pattern := regexp.MustCompile(`^[A-Z]+_\d{3}$`)
	for code := range ErrorCodeHTTPStatus {
		assert.Regexp(t, pattern, string(code))
		_, hasMsg := ErrorCodeMessage[code]
		assert.True(t, hasMsg, "missing default message for %s", code)
	}
}
