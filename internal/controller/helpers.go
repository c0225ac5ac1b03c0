package controller

import (
	"encoding/json"
	"errors"
	"net/http"

	domainErrors "github.com/cassiomorais/reconciler/internal/domain/errors"
	"github.com/rs/zerolog/log"
)

type errorMapping struct {
	err     error
	status  int
	message string
}

// Response messages are fixed so nothing about the failed check leaks to the
// caller.
var errorMappings = []errorMapping{
	{domainErrors.ErrMissingSignature, http.StatusUnauthorized, "Missing webhook signature"},
	{domainErrors.ErrAmbiguousSignature, http.StatusUnauthorized, "Ambiguous webhook signature"},
	{domainErrors.ErrInvalidSignature, http.StatusUnauthorized, "Invalid webhook signature"},
	{domainErrors.ErrMissingSecret, http.StatusInternalServerError, "Webhook secret not configured"},
	{domainErrors.ErrMalformedBody, http.StatusBadRequest, "Invalid JSON body"},
	{domainErrors.ErrInvalidReference, http.StatusBadRequest, "Invalid reference format"},
	{domainErrors.ErrSchemaViolation, http.StatusBadRequest, "Invalid webhook payload"},
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	for _, m := range errorMappings {
		if errors.Is(err, m.err) {
			writeJSON(w, m.status, ErrorResponse{Error: m.message})
			return
		}
	}

	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		writeJSON(w, http.StatusRequestEntityTooLarge, ErrorResponse{Error: "Request body too large"})
		return
	}

	log.Error().Err(err).Msg("unhandled error in handler")
	writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
}
