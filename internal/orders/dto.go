package orders

import (
	"time"

	"github.com/google/uuid"

	"github.com/freshkart/freshkart-backend/pkg/db/models"
	"github.com/freshkart/freshkart-backend/pkg/enums"
	"github.com/freshkart/freshkart-backend/pkg/types"
)

// Actor is the authenticated identity driving a lifecycle command.
type Actor struct {
	UserID uuid.UUID
	Role   enums.Role
	ShopID *uuid.UUID
}

// CreateItemInput is one explicit line of a guest checkout. Authenticated
// checkouts normally omit Items and draw from the user's cart instead.
type CreateItemInput struct {
	ProductID uuid.UUID  `json:"product_id"`
	VariantID *uuid.UUID `json:"variant_id"`
	Quantity  int        `json:"quantity"`
}

// CreateInput carries everything needed to build an order.
type CreateInput struct {
	UserID          *uuid.UUID
	ShopID          *uuid.UUID
	Items           []CreateItemInput
	DeliveryAddress types.DeliveryAddress
	DeliveryType    enums.DeliveryType
}

// CollectCashInput records the two-stage cash handover amounts in cents.
// Amount2Cents covers split payments and is usually nil.
type CollectCashInput struct {
	Amount1Cents int  `json:"amount_1_cents"`
	Amount2Cents *int `json:"amount_2_cents"`
}

// TrackView is the public projection served to guests tracking an order.
type TrackView struct {
	OrderID          uuid.UUID         `json:"order_id"`
	Status           enums.OrderStatus `json:"status"`
	DeliveryType     enums.DeliveryType `json:"delivery_type"`
	ReachedConfirmed bool              `json:"reached_confirmed"`
	CashCollected    bool              `json:"cash_collected"`
	TotalCents       int               `json:"total_cents"`
	CreatedAt        time.Time         `json:"created_at"`
	DeliveredAt      *time.Time        `json:"delivered_at,omitempty"`
}

// ListResult wraps a page of orders with the cursor for the next page.
type ListResult struct {
	Items  []models.Order `json:"items"`
	Cursor string         `json:"cursor"`
}

// NewTrackView projects an order down to its guest-visible fields.
func NewTrackView(order *models.Order) *TrackView {
	return &TrackView{
		OrderID:          order.ID,
		Status:           order.Status,
		DeliveryType:     order.DeliveryType,
		ReachedConfirmed: order.ReachedConfirmed,
		CashCollected:    order.CashCollected,
		TotalCents:       order.TotalCents,
		CreatedAt:        order.CreatedAt,
		DeliveredAt:      order.DeliveredAt,
	}
}
