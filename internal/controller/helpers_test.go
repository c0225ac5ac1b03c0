package controller

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	domainErrors "github.com/cassiomorais/reconciler/internal/domain/errors"
	"github.com/stretchr/testify/assert"
)

func TestWriteJSON(t *testing.T) {
	tests := []struct {
		name         string
		status       int
		payload      any
		expectedBody string
	}{
		{
			name:         "ack",
			status:       http.StatusOK,
			payload:      AckResponse{Received: true},
			expectedBody: `{"received":true}`,
		},
		{
			name:         "error response",
			status:       http.StatusBadRequest,
			payload:      ErrorResponse{Error: "bad request"},
			expectedBody: `{"error":"bad request"}`,
		},
		{
			name:         "health without reason",
			status:       http.StatusOK,
			payload:      HealthResponse{Status: "ok"},
			expectedBody: `{"status":"ok"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			writeJSON(w, tt.status, tt.payload)

			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
			assert.JSONEq(t, tt.expectedBody, w.Body.String())
		})
	}
}

func TestWriteError_Mappings(t *testing.T) {
	tests := []struct {
		err     error
		status  int
		message string
	}{
		{domainErrors.ErrMissingSignature, http.StatusUnauthorized, "Missing webhook signature"},
		{domainErrors.ErrAmbiguousSignature, http.StatusUnauthorized, "Ambiguous webhook signature"},
		{domainErrors.ErrInvalidSignature, http.StatusUnauthorized, "Invalid webhook signature"},
		{domainErrors.ErrMissingSecret, http.StatusInternalServerError, "Webhook secret not configured"},
		{domainErrors.ErrMalformedBody, http.StatusBadRequest, "Invalid JSON body"},
		{fmt.Errorf("normalize: %w", domainErrors.ErrInvalidReference), http.StatusBadRequest, "Invalid reference format"},
		{fmt.Errorf("parse: %w", domainErrors.ErrSchemaViolation), http.StatusBadRequest, "Invalid webhook payload"},
		{&http.MaxBytesError{Limit: 10}, http.StatusRequestEntityTooLarge, "Request body too large"},
		{errors.New("boom"), http.StatusInternalServerError, "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			w := httptest.NewRecorder()
			writeError(w, tt.err)

			assert.Equal(t, tt.status, w.Code)
			assert.JSONEq(t, fmt.Sprintf(`{"error":%q}`, tt.message), w.Body.String())
		})
	}
}

func TestWriteError_DoesNotLeakDetails(t *testing.T) {
	w := httptest.NewRecorder()
	writeError(w, fmt.Errorf("metadata.appointment_id %q: %w", "secret-ish", domainErrors.ErrInvalidReference))

	assert.NotContains(t, w.Body.String(), "secret-ish")
	assert.NotContains(t, w.Body.String(), "appointment_id")
}
