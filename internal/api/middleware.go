package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	apperrors "macrolog/internal/errors"
)

type contextKey int

const identityKey contextKey = iota

// Identity is the authenticated caller attached to a request context.
type Identity struct {
	UserID uuid.UUID
	Email  string
	Token  string
}

// authenticate verifies the Bearer credential on protected routes. Both
// checks must pass: the JWT signature, and a live row in the tokens table.
// A well-signed token without its row has been revoked.
func (a *API) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			respondError(w, apperrors.Unauthorized("authorization header required"))
			return
		}
		tokenString := strings.TrimPrefix(header, "Bearer ")

		record, err := a.store.TokenByValue(r.Context(), tokenString)
		if err != nil {
			if apperrors.Is(err, apperrors.ErrNotFound) {
				respondError(w, apperrors.Forbidden("token is revoked or unauthorized"))
				return
			}
			respondError(w, err)
			return
		}

		claims, err := a.tokens.Verify(tokenString)
		if err != nil {
			respondError(w, apperrors.Forbidden("invalid token"))
			return
		}

		identity := Identity{
			UserID: record.UserID,
			Email:  claims.Email,
			Token:  tokenString,
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), identityKey, identity)))
	})
}

// currentIdentity returns the caller set by the authenticate middleware.
func currentIdentity(ctx context.Context) (Identity, bool) {
	identity, ok := ctx.Value(identityKey).(Identity)
	return identity, ok
}
