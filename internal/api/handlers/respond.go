package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/kliksy/kliksy-be/internal/apperr"
)

type errorBody struct {
	Error string `json:"error"`
}

// respondJSON writes the payload with the given status. The CORS headers are
// applied by router middleware.
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			log.Error().Err(err).Msg("Failed to encode response body")
		}
	}
}

// respondError maps an error onto the wire contract: apperr statuses pass
// through with their client-safe message, anything else becomes a generic
// 500. Internal detail is only ever logged.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	var ae *apperr.Error
	if errors.As(err, &ae) {
		if ae.Status >= http.StatusInternalServerError {
			log.Error().Err(err).Str("path", r.URL.Path).Msg("Request failed")
		}
		respondJSON(w, ae.Status, errorBody{Error: ae.Message})
		return
	}
	log.Error().Err(err).Str("path", r.URL.Path).Msg("Request failed")
	respondJSON(w, http.StatusInternalServerError, errorBody{Error: "Internal server error"})
}
