package store

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "macrolog/internal/errors"
	"macrolog/internal/models"
)

// CreateToken records a freshly issued bearer credential.
func (s *Store) CreateToken(ctx context.Context, token *models.Token) error {
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(token).Error; err != nil {
		return translateWrite(err, "token")
	}
	return nil
}

// TokenByValue fetches the live row backing a bearer credential. Absence of
// the row means the otherwise well-signed credential has been revoked.
func (s *Store) TokenByValue(ctx context.Context, value string) (models.Token, error) {
	var token models.Token
	err := s.db.WithContext(ctx).Where("token = ?", value).First(&token).Error
	if apperrors.Is(err, gorm.ErrRecordNotFound) {
		return models.Token{}, apperrors.NotFound("token not found")
	}
	if err != nil {
		return models.Token{}, apperrors.Internal("fetch token", err)
	}
	return token, nil
}

// RevokeToken deletes the caller's row for the given token value. Tokens the
// caller does not own are reported invalid, not revealed.
func (s *Store) RevokeToken(ctx context.Context, userID uuid.UUID, value string) error {
	res := s.db.WithContext(ctx).
		Where("token = ? AND user_id = ?", value, userID).
		Delete(&models.Token{})
	if res.Error != nil {
		return apperrors.Internal("revoke token", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.Validation("invalid token or not owned by the user")
	}
	return nil
}
