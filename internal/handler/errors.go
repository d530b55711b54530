package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/nvaldez/trip-analytics/internal/domain"
	"github.com/nvaldez/trip-analytics/internal/geo"
)

// errorResponse is the JSON body for every error status.
type errorResponse struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// respondError maps a service error onto an HTTP status and writes the error
// body. Parse failures are the client's fault (400), empty result sets are
// 404 per the API contract, and everything else is a store failure passed
// through as 500 with no retry or local recovery.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", unwrapMessage(err))
	case errors.Is(err, geo.ErrMalformedGeometry),
		errors.Is(err, domain.ErrMalformedTimestamp),
		errors.Is(err, domain.ErrMalformedInput):
		writeError(w, http.StatusBadRequest, "malformed_input", unwrapMessage(err))
	default:
		slog.ErrorContext(r.Context(), "store error", "error", err, "path", r.URL.Path)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

// badRequest writes a 400 for requests rejected before reaching the service
// layer (missing body, bad id segment, broken multipart upload).
func badRequest(w http.ResponseWriter, message string) {
	writeError(w, http.StatusBadRequest, "malformed_input", message)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Error: errorDetail{Code: code, Message: message}})
}

// writeJSON writes v as a JSON response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}

// unwrapMessage strips the internal call-chain prefixes from a wrapped error,
// leaving the part that names the offending field, row, or lookup key.
// e.g. "service.TripService.Create: origin_coord: malformed geometry: ..."
// → "origin_coord: malformed geometry: ...".
func unwrapMessage(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	for _, layer := range []string{"service.", "repo."} {
		for strings.HasPrefix(msg, layer) {
			idx := strings.Index(msg, ": ")
			if idx < 0 || idx+2 >= len(msg) {
				break
			}
			msg = msg[idx+2:]
		}
	}
	return msg
}
