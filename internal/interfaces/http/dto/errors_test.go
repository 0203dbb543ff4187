package dto

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/orderdesk/backend/internal/domain/shared"
	"github.com/orderdesk/backend/internal/infrastructure/upstream"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code   string
		status int
	}{
		{ErrCodeBadRequest, http.StatusBadRequest},
		{ErrCodeValidation, http.StatusBadRequest},
		{ErrCodeUnauthorized, http.StatusUnauthorized},
		{ErrCodeForbidden, http.StatusForbidden},
		{ErrCodeNotFound, http.StatusNotFound},
		{ErrCodeConflict, http.StatusConflict},
		{ErrCodeSaveInProgress, http.StatusConflict},
		{ErrCodeUpstream, http.StatusBadGateway},
		{ErrCodeInternal, http.StatusInternalServerError},
		{"ERR_NOBODY_KNOWS", http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.status, GetHTTPStatus(tt.code))
		})
	}
}

func TestFromError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code string
	}{
		{"session not found", shared.ErrSessionNotFound, ErrCodeNotFound},
		{"record not found", shared.ErrRecordNotFound, ErrCodeNotFound},
		{"save in progress", shared.ErrSaveInProgress, ErrCodeSaveInProgress},
		{"admin item forbidden", shared.ErrAdminItemForbidden, ErrCodeForbidden},
		{"wrapped upstream failure", fmt.Errorf("update order: %w", upstream.ErrRequestFailed), ErrCodeUpstream},
		{"bad upstream response", upstream.ErrBadResponse, ErrCodeUpstream},
		{"domain validation", shared.NewDomainError("VALIDATION_FAILED", "bad quantity"), ErrCodeValidation},
		{"unknown error", fmt.Errorf("disk on fire"), ErrCodeInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, message := FromError(tt.err)
			assert.Equal(t, tt.code, code)
			assert.NotEmpty(t, message)
		})
	}
}

func TestResponseEnvelope(t *testing.T) {
	ok := NewSuccessResponse(map[string]int{"n": 1})
	assert.True(t, ok.Success)
	assert.Nil(t, ok.Error)

	fail := NewErrorResponseWithRequestID(ErrCodeNotFound, "gone", "req-1")
	assert.False(t, fail.Success)
	assert.Equal(t, ErrCodeNotFound, fail.Error.Code)
	assert.Equal(t, "req-1", fail.Error.RequestID)
}
