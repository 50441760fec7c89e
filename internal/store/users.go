package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "macrolog/internal/errors"
	"macrolog/internal/models"
)

// CreateUser inserts a fresh account row.
func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(user).Error; err != nil {
		if apperrors.Is(err, gorm.ErrDuplicatedKey) {
			return apperrors.Conflict("email is already registered")
		}
		return apperrors.Internal("create user", err)
	}
	return nil
}

// UserByEmail fetches an account by its unique email.
func (s *Store) UserByEmail(ctx context.Context, email string) (models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if apperrors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, apperrors.NotFound("user not found")
	}
	if err != nil {
		return models.User{}, apperrors.Internal("fetch user", err)
	}
	return user, nil
}

// UserByID fetches an account by id.
func (s *Store) UserByID(ctx context.Context, id uuid.UUID) (models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if apperrors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, apperrors.NotFound("user not found")
	}
	if err != nil {
		return models.User{}, apperrors.Internal("fetch user", err)
	}
	return user, nil
}

// CreateVerificationToken records the pending email verification for a signup.
func (s *Store) CreateVerificationToken(ctx context.Context, token *models.VerificationToken) error {
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(token).Error; err != nil {
		return translateWrite(err, "verification token")
	}
	return nil
}

// VerifyEmail consumes a verification token: the owning user is flagged
// verified and the token row deleted, in one transaction.
func (s *Store) VerifyEmail(ctx context.Context, token string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var record models.VerificationToken
		if err := tx.Where("token = ?", token).First(&record).Error; err != nil {
			return err
		}

		res := tx.Model(&models.User{}).
			Where("id = ?", record.UserID).
			Update("is_email_verified", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		return tx.Where("user_id = ? AND token = ?", record.UserID, record.Token).
			Delete(&models.VerificationToken{}).Error
	})
	if apperrors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.NotFound("verification token not found")
	}
	if err != nil {
		return apperrors.Internal("verify email", err)
	}
	return nil
}

// ExpiredVerificationTokens lists verification tokens whose expiry has passed.
func (s *Store) ExpiredVerificationTokens(ctx context.Context, now time.Time) ([]models.VerificationToken, error) {
	var tokens []models.VerificationToken
	err := s.db.WithContext(ctx).Where("expires_at < ?", now).Find(&tokens).Error
	if err != nil {
		return nil, apperrors.Internal("list expired verification tokens", err)
	}
	return tokens, nil
}

// RemoveExpiredSignup deletes a never-verified user together with its expired
// verification token. Both rows go or neither does.
func (s *Store) RemoveExpiredSignup(ctx context.Context, token models.VerificationToken) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", token.UserID).Delete(&models.User{}).Error; err != nil {
			return err
		}
		return tx.Where("user_id = ? AND token = ?", token.UserID, token.Token).
			Delete(&models.VerificationToken{}).Error
	})
	if err != nil {
		return apperrors.Internal("remove expired signup", err)
	}
	return nil
}
