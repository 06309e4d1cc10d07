package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/secmon-lab/doubleblind/pkg/usecase"
	"github.com/secmon-lab/doubleblind/pkg/utils/errutil"
)

type errorMapping struct {
	target error
	status int
	code   string
}

// errorMappings is checked in order; the first match wins
var errorMappings = []errorMapping{
	{usecase.ErrForbiddenUser, http.StatusForbidden, "not_allowed"},
	{usecase.ErrUnauthorized, http.StatusUnauthorized, "unauthorized"},
	{usecase.ErrNotFound, http.StatusNotFound, "not_found"},
	{usecase.ErrAlreadySubmitted, http.StatusConflict, "already_submitted"},
	{usecase.ErrResponseNotSubmitted, http.StatusConflict, "response_not_submitted"},
	{usecase.ErrActorNotSubmitted, http.StatusConflict, "actor_not_submitted"},
	{usecase.ErrSelfAcknowledgment, http.StatusForbidden, "self_acknowledgment"},
	{usecase.ErrValidation, http.StatusBadRequest, "validation_error"},
	{usecase.ErrStorageUnavailable, http.StatusServiceUnavailable, "storage_unavailable"},
}

// statusOf maps a use case error to its HTTP status and error code
func statusOf(err error) (int, string) {
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			return m.status, m.code
		}
	}
	return http.StatusInternalServerError, "internal_error"
}

// writeError maps err to its status and code and writes the JSON error body
func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	status, code := statusOf(err)
	errutil.HandleHTTP(ctx, w, err, status, code)
}

// writeJSON writes a JSON response with proper error handling
func writeJSON(ctx context.Context, w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		_ = errutil.Handle(ctx, err, "failed to encode JSON response")
	}
}
