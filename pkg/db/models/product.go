package models

import (
	"time"

	"github.com/google/uuid"
)

// Product is the master catalog listing. Stock here is the master counter;
// shops may carry their own counter via ShopInventory.
type Product struct {
	ID          uuid.UUID        `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	CategoryID  *uuid.UUID       `gorm:"column:category_id;type:uuid"`
	Name        string           `gorm:"column:name;not null"`
	Description *string          `gorm:"column:description"`
	Unit        string           `gorm:"column:unit;not null;default:'piece'"`
	PriceCents  int              `gorm:"column:price_cents;not null"`
	Stock       int              `gorm:"column:stock;not null;default:0"`
	ImageURL    *string          `gorm:"column:image_url"`
	IsActive    bool             `gorm:"column:is_active;not null"`
	Variants    []ProductVariant `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
