package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"macrolog/internal/auth"
	apperrors "macrolog/internal/errors"
	"macrolog/internal/models"
)

type signupRequest struct {
	Username string `json:"username" validate:"required,min=1,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type userResponse struct {
	ID              uuid.UUID `json:"id"`
	Username        string    `json:"username"`
	Email           string    `json:"email"`
	IsEmailVerified bool      `json:"is_email_verified"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func toUserResponse(m models.User) userResponse {
	return userResponse{
		ID:              m.ID,
		Username:        m.Username,
		Email:           m.Email,
		IsEmailVerified: m.IsEmailVerified,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

func (a *API) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := decodeJSON(r, &req); err != nil {
		respondBadRequest(w, err)
		return
	}
	if err := a.validate.Validate(req); err != nil {
		respondError(w, err)
		return
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		respondError(w, apperrors.Internal("hash password", err))
		return
	}

	user := models.User{
		ID:       uuid.New(),
		Username: req.Username,
		Password: hashed,
		Email:    req.Email,
	}
	if err := a.store.CreateUser(r.Context(), &user); err != nil {
		respondError(w, err)
		return
	}

	verificationToken, err := auth.NewVerificationToken()
	if err != nil {
		respondError(w, apperrors.Internal("generate verification token", err))
		return
	}
	record := models.VerificationToken{
		UserID:    user.ID,
		Token:     verificationToken,
		ExpiresAt: time.Now().Add(a.config.VerificationTokenTTL),
	}
	if err := a.store.CreateVerificationToken(r.Context(), &record); err != nil {
		respondError(w, err)
		return
	}

	verificationURL := fmt.Sprintf("%s/api/users/verify-email/%s", a.config.AppBaseURL, verificationToken)
	if err := a.mailer.SendVerification(r.Context(), user.Email, verificationURL); err != nil {
		respondError(w, apperrors.Internal("send verification mail", err))
		return
	}

	log.Info().Str("user_id", user.ID.String()).Msg("user created, verification mail sent")
	respondJSON(w, http.StatusCreated, map[string]any{
		"message": "User created and verification email sent",
	})
}

func (a *API) handleVerifyEmail(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "verificationToken")
	if token == "" {
		respondError(w, apperrors.Validation("verification token is required"))
		return
	}

	if err := a.store.VerifyEmail(r.Context(), token); err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"message": "Email verified successfully"})
}

func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondBadRequest(w, err)
		return
	}
	if err := a.validate.Validate(req); err != nil {
		respondError(w, err)
		return
	}

	user, err := a.store.UserByEmail(r.Context(), req.Email)
	if err != nil {
		respondError(w, err)
		return
	}
	if !user.IsEmailVerified {
		respondError(w, apperrors.Forbidden("email not verified"))
		return
	}
	if !auth.CheckPassword(user.Password, req.Password) {
		respondError(w, apperrors.Unauthorized("incorrect password"))
		return
	}

	signed, err := a.tokens.Sign(user.ID, user.Email)
	if err != nil {
		respondError(w, apperrors.Internal("sign token", err))
		return
	}

	record := models.Token{
		ID:     uuid.New(),
		UserID: user.ID,
		Token:  signed,
	}
	if agent := r.UserAgent(); agent != "" {
		record.UserAgent = &agent
	}
	if err := a.store.CreateToken(r.Context(), &record); err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"token": signed})
}

func (a *API) handleCurrentUser(w http.ResponseWriter, r *http.Request) {
	identity, ok := currentIdentity(r.Context())
	if !ok {
		respondError(w, apperrors.Unauthorized("unauthorized"))
		return
	}

	user, err := a.store.UserByID(r.Context(), identity.UserID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, toUserResponse(user))
}
