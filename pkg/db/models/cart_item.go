package models

import (
	"time"

	"github.com/google/uuid"
)

// CartItem is one line of a user's active cart. VariantID uses the zero
// UUID for "no variant" so the (user, product, variant) key stays unique
// and upsertable; nullable columns would defeat the composite index.
type CartItem struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:ux_cart_user_product_variant"`
	ProductID uuid.UUID `gorm:"column:product_id;type:uuid;not null;uniqueIndex:ux_cart_user_product_variant"`
	VariantID uuid.UUID `gorm:"column:variant_id;type:uuid;not null;default:'00000000-0000-0000-0000-000000000000';uniqueIndex:ux_cart_user_product_variant"`
	Quantity  int       `gorm:"column:quantity;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
