// Package handlers exposes the session service over HTTP with JSON
// request and response bodies.
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/campaignkit/session-api/internal/errors"
)

// ErrorResponse is the JSON body returned for all failed requests
type ErrorResponse struct {
	Error string `json:"error"`
}

var errInvalidPath = errors.InvalidArgument("invalid path encoding")

// writeJSON encodes v as the response body with the given status
func writeJSON(w http.ResponseWriter, log *slog.Logger, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("failed to encode response", "error", err)
	}
}

// writeError maps a service error onto an HTTP status and JSON body
func writeError(w http.ResponseWriter, log *slog.Logger, err error) {
	status := errors.GetCode(err).HTTPStatus()
	if status >= http.StatusInternalServerError {
		log.Error("request failed", "error", err, "status", status)
	}
	writeJSON(w, log, status, ErrorResponse{Error: errors.GetMessage(err)})
}

// decodeBody parses a JSON request body into dst
func decodeBody(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errors.InvalidArgumentf("invalid request body: %v", err)
	}
	return nil
}

// methodNotAllowed rejects a request with an unsupported method
func methodNotAllowed(w http.ResponseWriter, log *slog.Logger, method string) {
	writeJSON(w, log, http.StatusMethodNotAllowed, ErrorResponse{
		Error: "method " + method + " not allowed",
	})
}
