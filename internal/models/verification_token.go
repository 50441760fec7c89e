package models

import (
	"time"

	"github.com/google/uuid"
)

// VerificationToken is a single-use, time-limited credential proving control
// of an email address. Deleted on successful verification or by the expiry sweep.
type VerificationToken struct {
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	Token     string    `gorm:"type:text;primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	ExpiresAt time.Time `gorm:"not null"`

	User User `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID"`
}

func (VerificationToken) TableName() string { return "email_verification_tokens" }
