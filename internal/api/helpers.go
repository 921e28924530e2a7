package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/stagelight/simcore/internal/domain"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{
		"error": msg,
	})
}

// writeErrorForErr maps a domain error to its documented HTTP status
// (§7): ConfigInvalid -> 400, NotFound -> 404, StoreUnavailable -> 503,
// lifecycle-state errors (NotRunning, NotPaused, AlreadyRunning,
// AlreadyStopped) -> 409, anything else -> 500.
func writeErrorForErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrConfigInvalid):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrStoreUnavailable):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, domain.ErrNotRunning),
		errors.Is(err, domain.ErrNotPaused),
		errors.Is(err, domain.ErrAlreadyRunning),
		errors.Is(err, domain.ErrAlreadyStopped):
		writeError(w, http.StatusConflict, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
