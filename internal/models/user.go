package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents a registered account that owns products, recipes, and tokens.
type User struct {
	ID              uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Username        string    `gorm:"type:text;not null"`
	Password        string    `gorm:"type:text;not null"`
	Email           string    `gorm:"type:text;uniqueIndex;not null"`
	IsEmailVerified bool      `gorm:"not null;default:false"`
	CreatedAt       time.Time `gorm:"autoCreateTime"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime"`

	Products           []Product           `gorm:"constraint:OnDelete:CASCADE"`
	Recipes            []Recipe            `gorm:"constraint:OnDelete:CASCADE"`
	Tokens             []Token             `gorm:"constraint:OnDelete:CASCADE"`
	VerificationTokens []VerificationToken `gorm:"constraint:OnDelete:CASCADE"`
}

func (User) TableName() string { return "users" }
