package dto

import (
	"errors"
	"net/http"

	"github.com/orderdesk/backend/internal/domain/shared"
	"github.com/orderdesk/backend/internal/infrastructure/upstream"
)

// Error code constants
const (
	// ErrCodeUnknown is used when the error type is unknown
	ErrCodeUnknown = "ERR_UNKNOWN"
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "ERR_INTERNAL"
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	// ErrCodeValidation is used for validation failures
	ErrCodeValidation = "ERR_VALIDATION"
	// ErrCodeUnauthorized is used when authentication is required but missing/invalid
	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	// ErrCodeForbidden is used when the user lacks permission
	ErrCodeForbidden = "ERR_FORBIDDEN"
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "ERR_NOT_FOUND"
	// ErrCodeConflict is used for resource conflicts
	ErrCodeConflict = "ERR_CONFLICT"
	// ErrCodeRequestTooLarge is used when the request body exceeds the
	// configured size limit
	ErrCodeRequestTooLarge = "ERR_REQUEST_TOO_LARGE"
	// ErrCodeSaveInProgress is used when a save is already running
	ErrCodeSaveInProgress = "ERR_SAVE_IN_PROGRESS"
	// ErrCodeUpstream is used when the system of record failed
	ErrCodeUpstream = "ERR_UPSTREAM"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:         http.StatusInternalServerError,
	ErrCodeInternal:        http.StatusInternalServerError,
	ErrCodeBadRequest:      http.StatusBadRequest,
	ErrCodeValidation:      http.StatusBadRequest,
	ErrCodeUnauthorized:    http.StatusUnauthorized,
	ErrCodeForbidden:       http.StatusForbidden,
	ErrCodeNotFound:        http.StatusNotFound,
	ErrCodeConflict:        http.StatusConflict,
	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,
	ErrCodeSaveInProgress:  http.StatusConflict,
	ErrCodeUpstream:        http.StatusBadGateway,
}

// GetHTTPStatus returns the HTTP status code for an error code
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// FromError maps an application error to an (error code, message) pair
// for the response envelope.
func FromError(err error) (string, string) {
	switch {
	case errors.Is(err, shared.ErrSessionNotFound):
		return ErrCodeNotFound, shared.ErrSessionNotFound.Message
	case errors.Is(err, shared.ErrRecordNotFound):
		return ErrCodeNotFound, shared.ErrRecordNotFound.Message
	case errors.Is(err, shared.ErrSaveInProgress):
		return ErrCodeSaveInProgress, shared.ErrSaveInProgress.Message
	case errors.Is(err, shared.ErrAdminItemForbidden):
		return ErrCodeForbidden, shared.ErrAdminItemForbidden.Message
	case errors.Is(err, shared.ErrNotFound):
		return ErrCodeNotFound, shared.ErrNotFound.Message
	case errors.Is(err, upstream.ErrRequestFailed), errors.Is(err, upstream.ErrBadResponse):
		return ErrCodeUpstream, err.Error()
	}

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		return ErrCodeValidation, domainErr.Message
	}
	return ErrCodeInternal, err.Error()
}
