package models

import (
	"time"

	"github.com/google/uuid"
)

// Token tracks an issued bearer credential. A signed JWT is only accepted
// while its matching row exists; revocation is row deletion.
type Token struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Token     string    `gorm:"type:text;uniqueIndex;not null"`
	UserAgent *string   `gorm:"type:text"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	User User `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID"`
}

func (Token) TableName() string { return "tokens" }
