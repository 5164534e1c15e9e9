package models

import (
	"time"

	"github.com/google/uuid"
)

// Shop is a fulfillment location. Franchise is the legacy name for the
// same entity; FranchiseID derives from ID rather than being stored twice.
type Shop struct {
	ID               uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name             string    `gorm:"column:name;not null"`
	Address          string    `gorm:"column:address;not null"`
	Pincode          string    `gorm:"column:pincode;not null"`
	Lat              float64   `gorm:"column:lat;not null;default:0"`
	Lng              float64   `gorm:"column:lng;not null;default:0"`
	DeliveryRadiusKM float64   `gorm:"column:delivery_radius_km;not null;default:0"`
	IsActive         bool      `gorm:"column:is_active;not null"`
	CreatedAt        time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// FranchiseID is the legacy alias some clients still expect.
func (s Shop) FranchiseID() uuid.UUID {
	return s.ID
}
