package errors

import (
	"net/http"
	"strings"
)

// ErrorCode is a string representation of a specific error condition.
// Codes are prefixed with the module that owns them, e.g. "COMP_001".
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common Error Codes
const (
	ErrCodeInternal           ErrorCode = "COMMON_001"
	ErrCodeBadRequest         ErrorCode = "COMMON_002"
	ErrCodeUnauthorized       ErrorCode = "COMMON_003"
	ErrCodeForbidden          ErrorCode = "COMMON_004"
	ErrCodeNotFound           ErrorCode = "COMMON_005"
	ErrCodeConflict           ErrorCode = "COMMON_006"
	ErrCodeTooManyRequests    ErrorCode = "COMMON_007"
	ErrCodeServiceUnavailable ErrorCode = "COMMON_008"
	ErrCodeTimeout            ErrorCode = "COMMON_009"
	ErrCodeValidation         ErrorCode = "COMMON_010"
	ErrCodeSerialization      ErrorCode = "COMMON_011"
	ErrCodeDatabaseError      ErrorCode = "COMMON_012"
	ErrCodeCacheError         ErrorCode = "COMMON_013"
	ErrCodeExternalService    ErrorCode = "COMMON_014"
	ErrCodeFeatureDisabled    ErrorCode = "COMMON_015"
	ErrCodeNotImplemented     ErrorCode = "COMMON_016"
)

// Short aliases used at call sites.
const (
	CodeOK           = ErrorCode("OK")
	CodeUnknown      = ErrorCode("UNKNOWN")
	CodeInternal     = ErrCodeInternal
	CodeInvalidParam = ErrCodeBadRequest
	CodeNotFound     = ErrCodeNotFound
	CodeConflict     = ErrCodeConflict
)

// Composition Module Error Codes
const (
	ErrCodeCompositionInvalid ErrorCode = "COMP_001"
	ErrCodeCompositionEmpty   ErrorCode = "COMP_002"
	ErrCodeUnknownElement     ErrorCode = "COMP_003"
)

// Polymer Module Error Codes
const (
	ErrCodePolymerInvalid       ErrorCode = "POLY_001"
	ErrCodeMonomerNotFound      ErrorCode = "POLY_002"
	ErrCodeMonomersIncompatible ErrorCode = "POLY_003"
	ErrCodeArchitectureInvalid  ErrorCode = "POLY_004"
)

// Oracle Module Error Codes
const (
	ErrCodeOracleCallFailed    ErrorCode = "ORC_001"
	ErrCodeOracleMalformed     ErrorCode = "ORC_002"
	ErrCodeOracleNotConfigured ErrorCode = "ORC_003"
	ErrCodeOraclePromptInvalid ErrorCode = "ORC_004"
)

// Material Library Error Codes
const (
	ErrCodeMaterialNotFound     ErrorCode = "MAT_001"
	ErrCodeMaterialInvalid      ErrorCode = "MAT_002"
	ErrCodeExportFailed         ErrorCode = "MAT_003"
	ErrCodePreferenceInvalid    ErrorCode = "MAT_004"
	ErrCodeCatalogEntryNotFound ErrorCode = "MAT_005"
)

// Reference Data Error Codes
const (
	ErrCodeElementNotFound ErrorCode = "REF_001"
	ErrCodeCategoryInvalid ErrorCode = "REF_002"
)

// ErrorCodeHTTPStatus maps ErrorCodes to HTTP status codes.
var ErrorCodeHTTPStatus = map[ErrorCode]int{
	ErrCodeInternal:           http.StatusInternalServerError,
	ErrCodeBadRequest:         http.StatusBadRequest,
	ErrCodeUnauthorized:       http.StatusUnauthorized,
	ErrCodeForbidden:          http.StatusForbidden,
	ErrCodeNotFound:           http.StatusNotFound,
	ErrCodeConflict:           http.StatusConflict,
	ErrCodeTooManyRequests:    http.StatusTooManyRequests,
	ErrCodeServiceUnavailable: http.StatusServiceUnavailable,
	ErrCodeTimeout:            http.StatusGatewayTimeout,
	ErrCodeValidation:         http.StatusUnprocessableEntity,
	ErrCodeSerialization:      http.StatusInternalServerError,
	ErrCodeDatabaseError:      http.StatusInternalServerError,
	ErrCodeCacheError:         http.StatusInternalServerError,
	ErrCodeExternalService:    http.StatusBadGateway,
	ErrCodeFeatureDisabled:    http.StatusForbidden,
	ErrCodeNotImplemented:     http.StatusNotImplemented,

	ErrCodeCompositionInvalid: http.StatusUnprocessableEntity,
	ErrCodeCompositionEmpty:   http.StatusBadRequest,
	ErrCodeUnknownElement:     http.StatusBadRequest,

	ErrCodePolymerInvalid:       http.StatusUnprocessableEntity,
	ErrCodeMonomerNotFound:      http.StatusNotFound,
	ErrCodeMonomersIncompatible: http.StatusUnprocessableEntity,
	ErrCodeArchitectureInvalid:  http.StatusBadRequest,

	ErrCodeOracleCallFailed:    http.StatusBadGateway,
	ErrCodeOracleMalformed:     http.StatusBadGateway,
	ErrCodeOracleNotConfigured: http.StatusServiceUnavailable,
	ErrCodeOraclePromptInvalid: http.StatusInternalServerError,

	ErrCodeMaterialNotFound:     http.StatusNotFound,
	ErrCodeMaterialInvalid:      http.StatusBadRequest,
	ErrCodeExportFailed:         http.StatusInternalServerError,
	ErrCodePreferenceInvalid:    http.StatusBadRequest,
	ErrCodeCatalogEntryNotFound: http.StatusNotFound,

	ErrCodeElementNotFound: http.StatusNotFound,
	ErrCodeCategoryInvalid: http.StatusBadRequest,
}

// ErrorCodeMessage maps ErrorCodes to default messages.
var ErrorCodeMessage = map[ErrorCode]string{
	ErrCodeInternal:           "internal server error",
	ErrCodeBadRequest:         "bad request",
	ErrCodeUnauthorized:       "unauthorized",
	ErrCodeForbidden:          "forbidden",
	ErrCodeNotFound:           "resource not found",
	ErrCodeConflict:           "resource conflict",
	ErrCodeTooManyRequests:    "too many requests",
	ErrCodeServiceUnavailable: "service unavailable",
	ErrCodeTimeout:            "request timeout",
	ErrCodeValidation:         "validation failed",
	ErrCodeSerialization:      "serialization failed",
	ErrCodeDatabaseError:      "database error",
	ErrCodeCacheError:         "cache error",
	ErrCodeExternalService:    "external service error",
	ErrCodeFeatureDisabled:    "feature disabled",
	ErrCodeNotImplemented:     "not implemented",

	ErrCodeCompositionInvalid: "composition must sum to 100%",
	ErrCodeCompositionEmpty:   "composition is empty",
	ErrCodeUnknownElement:     "unknown element symbol",

	ErrCodePolymerInvalid:       "invalid polymer composition",
	ErrCodeMonomerNotFound:      "monomer not found",
	ErrCodeMonomersIncompatible: "selected monomers are incompatible",
	ErrCodeArchitectureInvalid:  "unsupported polymer architecture",

	ErrCodeOracleCallFailed:    "prediction service call failed",
	ErrCodeOracleMalformed:     "prediction service returned a malformed response",
	ErrCodeOracleNotConfigured: "prediction service is not configured",
	ErrCodeOraclePromptInvalid: "failed to build prediction prompt",

	ErrCodeMaterialNotFound:     "material not found",
	ErrCodeMaterialInvalid:      "invalid material",
	ErrCodeExportFailed:         "material export failed",
	ErrCodePreferenceInvalid:    "invalid preference value",
	ErrCodeCatalogEntryNotFound: "catalog material not found",

	ErrCodeElementNotFound: "element not found",
	ErrCodeCategoryInvalid: "unknown category",
}

// HTTPStatusForCode returns the HTTP status code for an ErrorCode.
func HTTPStatusForCode(code ErrorCode) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DefaultMessageForCode returns the default message for an ErrorCode.
func DefaultMessageForCode(code ErrorCode) string {
	if msg, ok := ErrorCodeMessage[code]; ok {
		return msg
	}
	return "unknown error"
}

// IsClientError returns true if the ErrorCode corresponds to a 4xx HTTP status.
func IsClientError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 400 && status < 500
}

// IsServerError returns true if the ErrorCode corresponds to a 5xx HTTP status.
func IsServerError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 500 && status < 600
}

// ModuleForCode returns the module prefix of an ErrorCode.
func ModuleForCode(code ErrorCode) string {
	parts := strings.Split(string(code), "_")
	if len(parts) > 0 && parts[0] != "" {
		return parts[0]
	}
	return "UNKNOWN"
}
