package models

import (
	"time"

	"github.com/google/uuid"
)

// Recipe groups weighted product quantities under a per-user unique title.
type Recipe struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Title       string    `gorm:"type:varchar(50);not null;uniqueIndex:uq_recipe_owner_title,priority:2"`
	Description *string   `gorm:"type:text"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_recipe_owner_title,priority:1"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`

	User        User            `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID"`
	Ingredients []RecipeProduct `gorm:"foreignKey:RecipeID"`
}

func (Recipe) TableName() string { return "recipes" }
