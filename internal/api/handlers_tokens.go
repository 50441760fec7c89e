package api

import (
	"net/http"

	apperrors "macrolog/internal/errors"
)

type revokeTokenRequest struct {
	TokenToRevoke string `json:"tokenToRevoke" validate:"required"`
}

func (a *API) handleRevokeToken(w http.ResponseWriter, r *http.Request) {
	identity, ok := currentIdentity(r.Context())
	if !ok {
		respondError(w, apperrors.Unauthorized("unauthorized"))
		return
	}

	var req revokeTokenRequest
	if err := decodeJSON(r, &req); err != nil {
		respondBadRequest(w, err)
		return
	}
	if err := a.validate.Validate(req); err != nil {
		respondError(w, err)
		return
	}

	if err := a.store.RevokeToken(r.Context(), identity.UserID, req.TokenToRevoke); err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"message": "Token revoked successfully"})
}
