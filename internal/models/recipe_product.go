package models

import "github.com/google/uuid"

// RecipeProduct joins a recipe to one ingredient product with its weight in grams.
// Rows cascade away when either parent is deleted.
type RecipeProduct struct {
	ProductID uuid.UUID `gorm:"type:uuid;primaryKey"`
	RecipeID  uuid.UUID `gorm:"type:uuid;primaryKey"`
	Quantity  float64   `gorm:"type:real;not null;check:quantity > 0"`

	Product Product `gorm:"constraint:OnDelete:CASCADE;foreignKey:ProductID;references:ID"`
	Recipe  Recipe  `gorm:"constraint:OnDelete:CASCADE;foreignKey:RecipeID;references:ID"`
}

func (RecipeProduct) TableName() string { return "recipe_product" }
