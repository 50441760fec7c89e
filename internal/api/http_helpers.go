package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"

	apperrors "macrolog/internal/errors"
)

func decodeJSON(r *http.Request, dest any) error {
	if r.Body == nil {
		return errors.New("request body required")
	}
	defer r.Body.Close()

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dest)
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

// respondError maps a domain error onto its HTTP status. Anything outside
// the taxonomy is reported as an internal error without leaking its cause.
func respondError(w http.ResponseWriter, err error) {
	var domainErr *apperrors.Error
	if !errors.As(err, &domainErr) {
		domainErr = apperrors.Internal("internal server error", err)
	}

	if domainErr.Code == apperrors.CodeInternal {
		log.Error().Err(err).Msg("request failed")
		respondJSON(w, http.StatusInternalServerError, map[string]any{"error": "Internal Server Error"})
		return
	}

	body := map[string]any{"error": domainErr.Message}
	if domainErr.Details != nil {
		body["details"] = domainErr.Details
	}
	respondJSON(w, domainErr.Code.HTTPStatus(), body)
}

func respondBadRequest(w http.ResponseWriter, err error) {
	respondError(w, apperrors.Validation(err.Error()))
}

func atoiOrZero(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
