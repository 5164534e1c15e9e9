package models

import (
	"time"

	"github.com/google/uuid"
)

// ProductVariant is a purchasable size/weight option of a product. A nil
// PriceCents falls back to the parent product price.
type ProductVariant struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID  uuid.UUID `gorm:"column:product_id;type:uuid;not null"`
	Label      string    `gorm:"column:label;not null"`
	PriceCents *int      `gorm:"column:price_cents"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
