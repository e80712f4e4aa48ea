package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Muostafa/Chat-app-system-sub001/internal/db"
	"github.com/Muostafa/Chat-app-system-sub001/internal/logs"
	"github.com/Muostafa/Chat-app-system-sub001/internal/seq"
)

type errorResponse struct {
	Error string `json:"error"`
	// Retryable marks failures a client may safely retry with the same
	// request; a fresh allocation always yields a new unique number.
	Retryable bool `json:"retryable,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logs.Logger.Warningf("encoding response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string, retryable bool) {
	writeJSON(w, status, errorResponse{Error: msg, Retryable: retryable})
}

// writeServiceError maps the core error taxonomy onto HTTP statuses:
// missing scopes/entities to 404, exhaustion to a retryable 503, ambiguous
// or persistence failures to a retryable 500.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, db.ErrNotFound), errors.Is(err, seq.ErrScopeNotFound):
		writeError(w, http.StatusNotFound, "not found", false)
	case errors.Is(err, seq.ErrAllocationExhausted):
		writeError(w, http.StatusServiceUnavailable, "sequence allocation exhausted, retry shortly", true)
	default:
		var aerr *seq.AmbiguousCommitError
		if errors.As(err, &aerr) {
			writeError(w, http.StatusInternalServerError, "commit outcome unknown, safe to retry", true)
			return
		}
		logs.Logger.Errorf("request failed: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error", true)
	}
}
