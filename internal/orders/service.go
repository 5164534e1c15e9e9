package orders

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/freshkart/freshkart-backend/internal/cart"
	"github.com/freshkart/freshkart-backend/internal/catalog"
	"github.com/freshkart/freshkart-backend/internal/notifications"
	"github.com/freshkart/freshkart-backend/internal/users"
	"github.com/freshkart/freshkart-backend/internal/zones"
	"github.com/freshkart/freshkart-backend/pkg/config"
	"github.com/freshkart/freshkart-backend/pkg/db"
	"github.com/freshkart/freshkart-backend/pkg/db/models"
	"github.com/freshkart/freshkart-backend/pkg/enums"
	pkgerrors "github.com/freshkart/freshkart-backend/pkg/errors"
	"github.com/freshkart/freshkart-backend/pkg/logger"
	"github.com/freshkart/freshkart-backend/pkg/metrics"
	"github.com/freshkart/freshkart-backend/pkg/pagination"
)

// Service drives the order lifecycle. Every transition command loads the
// order under a row lock so racing commands on the same order serialize,
// and every guard failure leaves the order untouched.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.Order, error)
	Get(ctx context.Context, actor Actor, orderID uuid.UUID) (*models.Order, error)
	Track(ctx context.Context, orderID uuid.UUID) (*TrackView, error)
	ListMine(ctx context.Context, userID uuid.UUID, params pagination.Params) (*ListResult, error)
	ListAdmin(ctx context.Context, actor Actor, params pagination.Params) (*ListResult, error)
	ListAssigned(ctx context.Context, deliveryPersonID uuid.UUID, params pagination.Params) (*ListResult, error)

	Assign(ctx context.Context, actor Actor, orderID, deliveryPersonID uuid.UUID) (*models.Order, error)
	Accept(ctx context.Context, actor Actor, orderID uuid.UUID) (*models.Order, error)
	Reject(ctx context.Context, actor Actor, orderID uuid.UUID, reason string) (*models.Order, error)
	MarkOutForDelivery(ctx context.Context, actor Actor, orderID uuid.UUID) (*models.Order, error)
	MarkReached(ctx context.Context, actor Actor, orderID uuid.UUID) (*models.Order, error)
	CollectCash(ctx context.Context, actor Actor, orderID uuid.UUID, input CollectCashInput) (*models.Order, error)
	MarkDelivered(ctx context.Context, actor Actor, orderID uuid.UUID) (*models.Order, error)
	Cancel(ctx context.Context, actor Actor, orderID uuid.UUID) (*models.Order, error)
	UpdateStatus(ctx context.Context, actor Actor, orderID uuid.UUID, status string) (*models.Order, error)
}

// ServiceParams lists the lifecycle manager's dependencies.
type ServiceParams struct {
	Tx       db.TxRunner
	Repo     Repository
	Cart     cart.Service
	Catalog  catalog.Service
	Zones    zones.Service
	Users    users.Repository
	Notifier notifications.Service
	Metrics  *metrics.OrderMetrics
	Delivery config.DeliveryConfig
	Logger   *logger.Logger
}

type service struct {
	tx       db.TxRunner
	repo     Repository
	cart     cart.Service
	catalog  catalog.Service
	zones    zones.Service
	users    users.Repository
	notifier notifications.Service
	metrics  *metrics.OrderMetrics
	cfg      config.DeliveryConfig
	logg     *logger.Logger
}

// NewService validates and wires the lifecycle manager.
func NewService(params ServiceParams) (Service, error) {
	switch {
	case params.Tx == nil:
		return nil, fmt.Errorf("transaction runner required")
	case params.Repo == nil:
		return nil, fmt.Errorf("order repository required")
	case params.Cart == nil:
		return nil, fmt.Errorf("cart service required")
	case params.Catalog == nil:
		return nil, fmt.Errorf("catalog service required")
	case params.Zones == nil:
		return nil, fmt.Errorf("zones service required")
	case params.Users == nil:
		return nil, fmt.Errorf("users repository required")
	}
	return &service{
		tx:       params.Tx,
		repo:     params.Repo,
		cart:     params.Cart,
		catalog:  params.Catalog,
		zones:    params.Zones,
		users:    params.Users,
		notifier: params.Notifier,
		metrics:  params.Metrics,
		cfg:      params.Delivery,
		logg:     params.Logger,
	}, nil
}

type pricedLine struct {
	item  models.OrderLineItem
	stock catalog.StockRequest
}

// Create builds an order from the cart snapshot or an explicit item list,
// reserves stock for every line inside one transaction, and clears the
// cart. Stock failure aborts the whole creation before any row persists.
func (s *service) Create(ctx context.Context, input CreateInput) (*models.Order, error) {
	if err := input.DeliveryAddress.Validate(); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid delivery address")
	}

	deliveryType := input.DeliveryType
	if deliveryType == "" {
		deliveryType = enums.DeliveryTypeStandard
	}
	if !deliveryType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid delivery type")
	}

	items, fromCart, err := s.resolveItems(ctx, input)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	match, err := s.zones.Match(ctx, zones.MatchQuery{Pincode: input.DeliveryAddress.Pincode})
	if err != nil {
		return nil, err
	}
	if !match.Available {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "delivery is not available for this pincode")
	}
	if deliveryType == enums.DeliveryTypeFast && !match.FastEligible {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "fast delivery is not available for this pincode")
	}

	shopID := input.ShopID
	if shopID == nil {
		shopID = match.ShopID
	}

	lines, subtotalCents, err := s.priceLines(ctx, items, shopID)
	if err != nil {
		return nil, err
	}

	order := &models.Order{
		ID:               uuid.New(),
		UserID:           input.UserID,
		ShopID:           shopID,
		Status:           enums.OrderStatusPending,
		DeliveryType:     deliveryType,
		PaymentStatus:    enums.PaymentStatusPending,
		DeliveryAddress:  input.DeliveryAddress,
		SubtotalCents:    subtotalCents,
		GSTCents:         gstCents(subtotalCents, s.cfg.GSTPercent),
		DeliveryFeeCents: s.deliveryFee(match, deliveryType),
		HandlingFeeCents: s.cfg.HandlingFeeCents,
	}
	order.TotalCents = order.SubtotalCents + order.GSTCents + order.DeliveryFeeCents + order.HandlingFeeCents
	for _, line := range lines {
		item := line.item
		item.OrderID = order.ID
		order.Items = append(order.Items, item)
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		for _, line := range lines {
			ok, err := catalog.ReserveStock(ctx, tx, line.stock)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reserve stock")
			}
			if !ok {
				s.metrics.IncOutOfStock()
				return pkgerrors.New(pkgerrors.CodeOutOfStock, fmt.Sprintf("insufficient stock for %s", line.item.Name)).
					WithDetails(map[string]any{"product_id": line.item.ProductID, "name": line.item.Name})
			}
		}
		if err := s.repo.WithTx(tx).Create(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist order")
		}
		if fromCart {
			if err := cart.ClearTx(ctx, tx, *input.UserID); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncTransition("create")
	s.emit(ctx, notifications.Event{
		Type:    enums.NotificationTypeOrderConfirmed,
		OrderID: order.ID,
		UserID:  order.UserID,
		Title:   "Order confirmed",
		Body:    fmt.Sprintf("Your order %s has been placed.", order.ID),
	})
	s.emit(ctx, notifications.Event{
		Type:    enums.NotificationTypeNewOrder,
		OrderID: order.ID,
		ShopID:  order.ShopID,
		Title:   "New order",
		Body:    fmt.Sprintf("Order %s is awaiting assignment.", order.ID),
	})
	return order, nil
}

func (s *service) resolveItems(ctx context.Context, input CreateInput) ([]CreateItemInput, bool, error) {
	if len(input.Items) > 0 {
		for _, item := range input.Items {
			if item.Quantity < 1 {
				return nil, false, pkgerrors.New(pkgerrors.CodeValidation, "item quantity must be at least 1")
			}
		}
		return input.Items, false, nil
	}
	if input.UserID == nil {
		return nil, false, pkgerrors.New(pkgerrors.CodeValidation, "guest checkout requires an explicit item list")
	}

	cartItems, err := s.cart.List(ctx, *input.UserID)
	if err != nil {
		return nil, false, err
	}
	items := make([]CreateItemInput, 0, len(cartItems))
	for _, row := range cartItems {
		item := CreateItemInput{ProductID: row.ProductID, Quantity: row.Quantity}
		if row.VariantID != uuid.Nil {
			variantID := row.VariantID
			item.VariantID = &variantID
		}
		items = append(items, item)
	}
	return items, true, nil
}

func (s *service) priceLines(ctx context.Context, items []CreateItemInput, shopID *uuid.UUID) ([]pricedLine, int, error) {
	lines := make([]pricedLine, 0, len(items))
	subtotal := 0
	for _, item := range items {
		priced, err := s.catalog.Pricing(ctx, item.ProductID, item.VariantID, shopID)
		if err != nil {
			return nil, 0, err
		}
		lineTotal := priced.UnitPriceCents * item.Quantity
		subtotal += lineTotal
		lines = append(lines, pricedLine{
			item: models.OrderLineItem{
				ID:             uuid.New(),
				ProductID:      item.ProductID,
				VariantID:      priced.VariantID,
				Name:           priced.Name,
				Quantity:       item.Quantity,
				UnitPriceCents: priced.UnitPriceCents,
				TotalCents:     lineTotal,
			},
			stock: catalog.StockRequest{ProductID: item.ProductID, ShopID: shopID, Qty: item.Quantity},
		})
	}
	return lines, subtotal, nil
}

func gstCents(subtotalCents int, percent float64) int {
	if percent <= 0 || subtotalCents <= 0 {
		return 0
	}
	gst := decimal.NewFromInt(int64(subtotalCents)).
		Mul(decimal.NewFromFloat(percent)).
		Div(decimal.NewFromInt(100)).
		Round(0)
	return int(gst.IntPart())
}

func (s *service) deliveryFee(match *zones.MatchResult, deliveryType enums.DeliveryType) int {
	if match.DeliveryFeeCents > 0 {
		return match.DeliveryFeeCents
	}
	if deliveryType == enums.DeliveryTypeFast {
		return s.cfg.FastFeeCents
	}
	return s.cfg.DefaultFeeCents
}

// transition runs one lifecycle command under a per-order row lock. The
// mutate callback applies guards and field changes; any error it returns
// rolls the transaction back with the order untouched.
func (s *service) transition(ctx context.Context, orderID uuid.UUID, command string, mutate func(tx *gorm.DB, order *models.Order) error) (*models.Order, error) {
	var updated *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := repo.FindForUpdate(ctx, orderID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}
		if order == nil {
			return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		if err := mutate(tx, order); err != nil {
			return err
		}
		if err := repo.Save(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist order")
		}
		updated = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.metrics.IncTransition(command)
	return updated, nil
}

// Assign binds a delivery person to an order awaiting shop action.
func (s *service) Assign(ctx context.Context, actor Actor, orderID, deliveryPersonID uuid.UUID) (*models.Order, error) {
	if err := requireOrderAdmin(actor); err != nil {
		return nil, err
	}

	courier, err := s.users.FindByID(ctx, deliveryPersonID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load delivery person")
	}
	if courier == nil || courier.Role != enums.RoleDeliveryPerson {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "delivery person not found")
	}

	order, err := s.transition(ctx, orderID, "assign", func(_ *gorm.DB, order *models.Order) error {
		if err := requireShopScope(actor, order); err != nil {
			return err
		}
		if !order.Status.AwaitingAssignment() {
			return stateConflict("assign", order.Status)
		}
		order.Status = enums.OrderStatusAssigned
		order.DeliveryPersonID = &deliveryPersonID
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.emit(ctx, notifications.Event{
		Type:    enums.NotificationTypeOrderAssigned,
		OrderID: order.ID,
		UserID:  &deliveryPersonID,
		Title:   "Delivery assigned",
		Body:    fmt.Sprintf("Order %s has been assigned to you.", order.ID),
	})
	return order, nil
}

// Accept lets the assigned delivery person claim the order.
func (s *service) Accept(ctx context.Context, actor Actor, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.transition(ctx, orderID, "accept", func(_ *gorm.DB, order *models.Order) error {
		if err := requireAssignee(actor, order); err != nil {
			return err
		}
		if order.Status != enums.OrderStatusAssigned {
			return stateConflict("accept", order.Status)
		}
		now := time.Now().UTC()
		order.Status = enums.OrderStatusAccepted
		order.AcceptedAt = &now
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.emit(ctx, notifications.Event{
		Type:    enums.NotificationTypeOrderAccepted,
		OrderID: order.ID,
		UserID:  order.UserID,
		Title:   "Order accepted",
		Body:    fmt.Sprintf("Order %s was accepted by your delivery partner.", order.ID),
	})
	return order, nil
}

// Reject declines an assignment. The delivery person id is kept on the
// order for audit and the reservation stays in place; operators recover
// the order by cancelling it (restoring stock) or resetting its status
// for re-assignment.
func (s *service) Reject(ctx context.Context, actor Actor, orderID uuid.UUID, reason string) (*models.Order, error) {
	if reason == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rejection reason is required")
	}

	order, err := s.transition(ctx, orderID, "reject", func(_ *gorm.DB, order *models.Order) error {
		if err := requireAssignee(actor, order); err != nil {
			return err
		}
		if order.Status != enums.OrderStatusAssigned {
			return stateConflict("reject", order.Status)
		}
		now := time.Now().UTC()
		order.Status = enums.OrderStatusRejected
		order.RejectedAt = &now
		order.RejectionReason = &reason
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.emit(ctx, notifications.Event{
		Type:    enums.NotificationTypeOrderRejected,
		OrderID: order.ID,
		ShopID:  order.ShopID,
		Title:   "Assignment rejected",
		Body:    fmt.Sprintf("Order %s was rejected: %s", order.ID, reason),
	})
	return order, nil
}

// MarkOutForDelivery moves an accepted order onto the road.
func (s *service) MarkOutForDelivery(ctx context.Context, actor Actor, orderID uuid.UUID) (*models.Order, error) {
	return s.transition(ctx, orderID, "out_for_delivery", func(_ *gorm.DB, order *models.Order) error {
		if err := requireAssignee(actor, order); err != nil {
			return err
		}
		if order.Status != enums.OrderStatusAccepted {
			return stateConflict("out_for_delivery", order.Status)
		}
		order.Status = enums.OrderStatusOutForDelivery
		return nil
	})
}

// MarkReached records arrival at the customer address. The status stays
// out_for_delivery; the step tracker reads the flag.
func (s *service) MarkReached(ctx context.Context, actor Actor, orderID uuid.UUID) (*models.Order, error) {
	return s.transition(ctx, orderID, "reached", func(_ *gorm.DB, order *models.Order) error {
		if err := requireAssignee(actor, order); err != nil {
			return err
		}
		if order.Status != enums.OrderStatusOutForDelivery {
			return stateConflict("reached", order.Status)
		}
		order.ReachedConfirmed = true
		return nil
	})
}

// CollectCash records the handover amounts once the courier has reached
// the customer. Marks the order paid.
func (s *service) CollectCash(ctx context.Context, actor Actor, orderID uuid.UUID, input CollectCashInput) (*models.Order, error) {
	if input.Amount1Cents <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "collected amount must be positive")
	}

	return s.transition(ctx, orderID, "collect_cash", func(_ *gorm.DB, order *models.Order) error {
		if err := requireAssignee(actor, order); err != nil {
			return err
		}
		if order.Status != enums.OrderStatusOutForDelivery {
			return stateConflict("collect_cash", order.Status)
		}
		if !order.ReachedConfirmed {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "cash collection requires a reached confirmation")
		}
		if order.CashCollected {
			return pkgerrors.New(pkgerrors.CodeConflict, "cash has already been collected for this order")
		}
		amount1 := input.Amount1Cents
		order.CashCollected = true
		order.AmountCollected1Cents = &amount1
		order.AmountCollected2Cents = input.Amount2Cents
		order.PaymentStatus = enums.PaymentStatusPaid
		return nil
	})
}

// MarkDelivered completes the delivery.
func (s *service) MarkDelivered(ctx context.Context, actor Actor, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.transition(ctx, orderID, "deliver", func(_ *gorm.DB, order *models.Order) error {
		if err := requireAssignee(actor, order); err != nil {
			return err
		}
		if order.Status != enums.OrderStatusOutForDelivery {
			return stateConflict("deliver", order.Status)
		}
		now := time.Now().UTC()
		order.Status = enums.OrderStatusDelivered
		order.DeliveredAt = &now
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.emit(ctx, notifications.Event{
		Type:    enums.NotificationTypeOrderDelivered,
		OrderID: order.ID,
		UserID:  order.UserID,
		Title:   "Order delivered",
		Body:    fmt.Sprintf("Order %s has been delivered.", order.ID),
	})
	return order, nil
}

// Cancel voids a pre-delivery order and returns its reserved stock. Staff
// may cancel any pre-delivery order; a customer may cancel their own order
// only while it still awaits assignment.
func (s *service) Cancel(ctx context.Context, actor Actor, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.transition(ctx, orderID, "cancel", func(tx *gorm.DB, order *models.Order) error {
		if err := requireCancelRights(actor, order); err != nil {
			return err
		}
		if order.Status.IsTerminal() {
			return stateConflict("cancel", order.Status)
		}
		for _, item := range order.Items {
			release := catalog.StockRequest{ProductID: item.ProductID, ShopID: order.ShopID, Qty: item.Quantity}
			if err := catalog.ReleaseStock(ctx, tx, release); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "restore stock")
			}
		}
		now := time.Now().UTC()
		order.Status = enums.OrderStatusCancelled
		order.CancelledAt = &now
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.emit(ctx, notifications.Event{
		Type:    enums.NotificationTypeOrderCancelled,
		OrderID: order.ID,
		UserID:  order.UserID,
		Title:   "Order cancelled",
		Body:    fmt.Sprintf("Order %s has been cancelled.", order.ID),
	})
	return order, nil
}

// UpdateStatus is the staff escape hatch. It validates the target status
// and refuses to touch terminal orders but performs no stock, payment, or
// notification side effects.
func (s *service) UpdateStatus(ctx context.Context, actor Actor, orderID uuid.UUID, status string) (*models.Order, error) {
	if err := requireOrderAdmin(actor); err != nil {
		return nil, err
	}
	target, err := enums.ParseOrderStatus(status)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status")
	}

	return s.transition(ctx, orderID, "admin_update_status", func(_ *gorm.DB, order *models.Order) error {
		if err := requireShopScope(actor, order); err != nil {
			return err
		}
		if order.Status.IsTerminal() {
			return stateConflict("admin_update_status", order.Status)
		}
		order.Status = target
		return nil
	})
}

func (s *service) Get(ctx context.Context, actor Actor, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	if order == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	if err := requireReadRights(actor, order); err != nil {
		return nil, err
	}
	return order, nil
}

// Track serves the public tracking projection. No authentication; only
// guest-safe fields leave this method.
func (s *service) Track(ctx context.Context, orderID uuid.UUID) (*TrackView, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	if order == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return NewTrackView(order), nil
}

func (s *service) ListMine(ctx context.Context, userID uuid.UUID, params pagination.Params) (*ListResult, error) {
	rows, next, err := s.repo.ListByUser(ctx, userID, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return newListResult(rows, next), nil
}

// ListAdmin lists all orders for platform staff; shop admins see only
// their shop's orders.
func (s *service) ListAdmin(ctx context.Context, actor Actor, params pagination.Params) (*ListResult, error) {
	if err := requireOrderAdmin(actor); err != nil {
		return nil, err
	}
	var scope *uuid.UUID
	if actor.Role == enums.RoleShopAdmin {
		if actor.ShopID == nil {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "shop admin has no shop scope")
		}
		scope = actor.ShopID
	}
	rows, next, err := s.repo.ListByShop(ctx, scope, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return newListResult(rows, next), nil
}

func (s *service) ListAssigned(ctx context.Context, deliveryPersonID uuid.UUID, params pagination.Params) (*ListResult, error) {
	rows, next, err := s.repo.ListByDeliveryPerson(ctx, deliveryPersonID, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return newListResult(rows, next), nil
}

func newListResult(rows []models.Order, next *pagination.Cursor) *ListResult {
	cursor := ""
	if next != nil {
		cursor = pagination.EncodeCursor(*next)
	}
	if rows == nil {
		rows = []models.Order{}
	}
	return &ListResult{Items: rows, Cursor: cursor}
}

// emit hands a notification to the dispatcher off the request path. The
// background context survives the response being written; the notifier
// logs and swallows its own failures.
func (s *service) emit(ctx context.Context, event notifications.Event) {
	if s.notifier == nil {
		return
	}
	bg := context.WithoutCancel(ctx)
	go s.notifier.Notify(bg, event)
}

func stateConflict(command string, current enums.OrderStatus) error {
	return pkgerrors.New(pkgerrors.CodeStateConflict,
		fmt.Sprintf("cannot %s an order in status %s", command, current))
}

func requireOrderAdmin(actor Actor) error {
	switch actor.Role {
	case enums.RoleAdmin, enums.RoleSuperAdmin, enums.RoleShopAdmin:
		return nil
	default:
		return pkgerrors.New(pkgerrors.CodeForbidden, "insufficient role for order management")
	}
}

// requireShopScope limits shop admins to orders their own shop fulfills.
func requireShopScope(actor Actor, order *models.Order) error {
	if actor.Role != enums.RoleShopAdmin {
		return nil
	}
	if actor.ShopID == nil || order.ShopID == nil || *actor.ShopID != *order.ShopID {
		return pkgerrors.New(pkgerrors.CodeForbidden, "order belongs to another shop")
	}
	return nil
}

// requireAssignee enforces that delivery-scoped commands come from the
// delivery person bound to the order. Wrong assignee is Forbidden, never
// NotFound; the order's existence is not a secret once authenticated.
func requireAssignee(actor Actor, order *models.Order) error {
	if actor.Role != enums.RoleDeliveryPerson {
		return pkgerrors.New(pkgerrors.CodeForbidden, "delivery commands require the delivery role")
	}
	if order.DeliveryPersonID == nil || *order.DeliveryPersonID != actor.UserID {
		return pkgerrors.New(pkgerrors.CodeForbidden, "order is assigned to another delivery person")
	}
	return nil
}

func requireCancelRights(actor Actor, order *models.Order) error {
	switch actor.Role {
	case enums.RoleAdmin, enums.RoleSuperAdmin:
		return nil
	case enums.RoleShopAdmin:
		return requireShopScope(actor, order)
	case enums.RoleUser:
		if order.UserID == nil || *order.UserID != actor.UserID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "order belongs to another user")
		}
		if !order.Status.AwaitingAssignment() {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order can no longer be cancelled by the customer")
		}
		return nil
	default:
		return pkgerrors.New(pkgerrors.CodeForbidden, "insufficient role to cancel orders")
	}
}

func requireReadRights(actor Actor, order *models.Order) error {
	switch actor.Role {
	case enums.RoleAdmin, enums.RoleSuperAdmin:
		return nil
	case enums.RoleShopAdmin:
		return requireShopScope(actor, order)
	case enums.RoleDeliveryPerson:
		if order.DeliveryPersonID != nil && *order.DeliveryPersonID == actor.UserID {
			return nil
		}
		return pkgerrors.New(pkgerrors.CodeForbidden, "order is assigned to another delivery person")
	default:
		if order.UserID != nil && *order.UserID == actor.UserID {
			return nil
		}
		return pkgerrors.New(pkgerrors.CodeForbidden, "order belongs to another user")
	}
}
