package models

import (
	"time"

	"github.com/google/uuid"
)

// ShopInventory overrides master catalog data for one shop. The
// (shop, product) pair is unique; Stock counts shop-local inventory
// independent of the master product counter.
type ShopInventory struct {
	ID                 uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ShopID             uuid.UUID  `gorm:"column:shop_id;type:uuid;not null;uniqueIndex:ux_shop_inventory_shop_product"`
	ProductID          uuid.UUID  `gorm:"column:product_id;type:uuid;not null;uniqueIndex:ux_shop_inventory_shop_product"`
	IsEnabled          bool       `gorm:"column:is_enabled;not null"`
	PriceOverrideCents *int       `gorm:"column:price_override_cents"`
	Stock              int        `gorm:"column:stock;not null;default:0"`
	CreatedAt          time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
