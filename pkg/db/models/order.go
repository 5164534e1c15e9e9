package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/freshkart/freshkart-backend/pkg/enums"
	"github.com/freshkart/freshkart-backend/pkg/types"
)

// Order represents one checkout. Line items and monetary fields are fixed
// at creation; only status, assignment, and the delivery workflow flags
// mutate afterwards.
type Order struct {
	ID                    uuid.UUID             `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID                *uuid.UUID            `gorm:"column:user_id;type:uuid"`
	ShopID                *uuid.UUID            `gorm:"column:shop_id;type:uuid"`
	DeliveryPersonID      *uuid.UUID            `gorm:"column:delivery_person_id;type:uuid"`
	Status                enums.OrderStatus     `gorm:"column:status;type:text;not null;default:'pending'"`
	DeliveryType          enums.DeliveryType    `gorm:"column:delivery_type;type:text;not null;default:'standard'"`
	PaymentStatus         enums.PaymentStatus   `gorm:"column:payment_status;type:text;not null;default:'pending'"`
	DeliveryAddress       types.DeliveryAddress `gorm:"column:delivery_address;type:text"`
	SubtotalCents         int                   `gorm:"column:subtotal_cents;not null"`
	GSTCents              int                   `gorm:"column:gst_cents;not null;default:0"`
	DeliveryFeeCents      int                   `gorm:"column:delivery_fee_cents;not null;default:0"`
	HandlingFeeCents      int                   `gorm:"column:handling_fee_cents;not null;default:0"`
	TotalCents            int                   `gorm:"column:total_cents;not null"`
	ReachedConfirmed      bool                  `gorm:"column:reached_confirmed;not null;default:false"`
	CashCollected         bool                  `gorm:"column:cash_collected;not null;default:false"`
	AmountCollected1Cents *int                  `gorm:"column:amount_collected_1_cents"`
	AmountCollected2Cents *int                  `gorm:"column:amount_collected_2_cents"`
	RejectionReason       *string               `gorm:"column:rejection_reason"`
	AcceptedAt            *time.Time            `gorm:"column:accepted_at"`
	RejectedAt            *time.Time            `gorm:"column:rejected_at"`
	CancelledAt           *time.Time            `gorm:"column:cancelled_at"`
	DeliveredAt           *time.Time            `gorm:"column:delivered_at"`
	Items                 []OrderLineItem       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt             time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt             time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}

// FranchiseID is the legacy alias of the fulfilling shop id.
func (o Order) FranchiseID() *uuid.UUID {
	return o.ShopID
}
