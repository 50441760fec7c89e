package models

import (
	"time"

	"github.com/google/uuid"
)

// Product is a food item described by macro-nutrient grams per 100g.
// Calories are derived from the macro fields on every read and never stored.
type Product struct {
	ID            uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Proteins      float64   `gorm:"type:real;not null;check:proteins >= 0;uniqueIndex:uq_product_combination,priority:1"`
	Carbohydrates float64   `gorm:"type:real;not null;check:carbohydrates >= 0;uniqueIndex:uq_product_combination,priority:2"`
	Fats          float64   `gorm:"type:real;not null;check:fats >= 0;uniqueIndex:uq_product_combination,priority:3"`
	Title         string    `gorm:"type:varchar(50);not null;uniqueIndex:uq_product_combination,priority:4"`
	UserID        uuid.UUID `gorm:"type:uuid;not null;index"`
	Barcode       *string   `gorm:"type:varchar(20)"`
	Description   *string   `gorm:"type:text"`
	CreatedAt     time.Time `gorm:"autoCreateTime"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime"`

	User User `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID"`
}

func (Product) TableName() string { return "products" }
