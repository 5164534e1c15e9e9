package models

import (
	"time"

	"github.com/google/uuid"
)

// DeliveryZone records where the platform delivers. A zone matches either
// by exact pincode or by haversine distance when Lat/Lng/RadiusKM are set.
type DeliveryZone struct {
	ID               uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Pincode          string     `gorm:"column:pincode;not null;default:'';index"`
	Lat              *float64   `gorm:"column:lat"`
	Lng              *float64   `gorm:"column:lng"`
	RadiusKM         *float64   `gorm:"column:radius_km"`
	IsActive         bool       `gorm:"column:is_active;not null"`
	FastDelivery     bool       `gorm:"column:fast_delivery;not null;default:false"`
	ShopID           *uuid.UUID `gorm:"column:shop_id;type:uuid"`
	DeliveryFeeCents int        `gorm:"column:delivery_fee_cents;not null;default:0"`
	CreatedAt        time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
