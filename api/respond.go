// Package api holds the helpers shared by the HTTP handlers of the dashboard
// and the JSON API.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/greenfleet/greenfleet/core/fleet"
	"github.com/greenfleet/greenfleet/core/ledger"
	"github.com/greenfleet/greenfleet/core/planner"
	"github.com/greenfleet/greenfleet/core/quota"
)

// ErrorResponse is the JSON body of every API error.
type ErrorResponse struct {
	Error string `json:"error"`
	// Index is the 0-based year index of a validation failure.
	Index *int `json:"index,omitempty"`
}

// StatusFor maps a domain error to an HTTP status code.
func StatusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, planner.ErrRunNotFound):
		return http.StatusNotFound
	case errors.Is(err, ledger.ErrInvalidPlan),
		errors.Is(err, quota.ErrInvalidLimit),
		errors.Is(err, fleet.ErrMissingColumn):
		return http.StatusBadRequest
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// WriteJSON encodes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError writes err as an ErrorResponse. Internal errors are not echoed.
func WriteError(w http.ResponseWriter, err error) {
	status := StatusFor(err)
	resp := ErrorResponse{Error: err.Error()}
	if status >= http.StatusInternalServerError {
		resp.Error = http.StatusText(status)
	}
	var verr *ledger.ValidationError
	var lerr *quota.LimitError
	switch {
	case errors.As(err, &verr):
		resp.Index = &verr.Index
	case errors.As(err, &lerr):
		resp.Index = &lerr.Index
	}
	WriteJSON(w, status, resp)
}
