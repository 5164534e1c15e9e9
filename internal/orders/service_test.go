package orders

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/freshkart/freshkart-backend/internal/cart"
	"github.com/freshkart/freshkart-backend/internal/catalog"
	"github.com/freshkart/freshkart-backend/internal/users"
	"github.com/freshkart/freshkart-backend/internal/zones"
	"github.com/freshkart/freshkart-backend/pkg/config"
	"github.com/freshkart/freshkart-backend/pkg/db"
	"github.com/freshkart/freshkart-backend/pkg/db/models"
	"github.com/freshkart/freshkart-backend/pkg/enums"
	pkgerrors "github.com/freshkart/freshkart-backend/pkg/errors"
	"github.com/freshkart/freshkart-backend/pkg/types"
)

// sqlite cannot evaluate gen_random_uuid defaults, so the schema is
// written by hand; the services under test set every id explicitly.
var lifecycleSchema = []string{
	`CREATE TABLE users (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL DEFAULT '',
		name TEXT NOT NULL DEFAULT '',
		phone TEXT,
		role TEXT NOT NULL DEFAULT 'user',
		shop_id TEXT,
		is_active INTEGER NOT NULL DEFAULT 1,
		last_login_at DATETIME,
		created_at DATETIME,
		updated_at DATETIME
	)`,
	`CREATE TABLE products (
		id TEXT PRIMARY KEY,
		category_id TEXT,
		name TEXT NOT NULL,
		description TEXT,
		unit TEXT NOT NULL DEFAULT 'piece',
		price_cents INTEGER NOT NULL,
		stock INTEGER NOT NULL DEFAULT 0,
		image_url TEXT,
		is_active INTEGER NOT NULL DEFAULT 1,
		created_at DATETIME,
		updated_at DATETIME
	)`,
	`CREATE TABLE product_variants (
		id TEXT PRIMARY KEY,
		product_id TEXT NOT NULL,
		label TEXT NOT NULL,
		price_cents INTEGER,
		created_at DATETIME,
		updated_at DATETIME
	)`,
	`CREATE TABLE shop_inventories (
		id TEXT PRIMARY KEY,
		shop_id TEXT NOT NULL,
		product_id TEXT NOT NULL,
		is_enabled INTEGER NOT NULL DEFAULT 1,
		price_override_cents INTEGER,
		stock INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME,
		updated_at DATETIME,
		UNIQUE (shop_id, product_id)
	)`,
	`CREATE TABLE cart_items (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		product_id TEXT NOT NULL,
		variant_id TEXT NOT NULL DEFAULT '00000000-0000-0000-0000-000000000000',
		quantity INTEGER NOT NULL,
		created_at DATETIME,
		updated_at DATETIME,
		UNIQUE (user_id, product_id, variant_id)
	)`,
	`CREATE TABLE delivery_zones (
		id TEXT PRIMARY KEY,
		pincode TEXT NOT NULL DEFAULT '',
		lat REAL,
		lng REAL,
		radius_km REAL,
		is_active INTEGER NOT NULL DEFAULT 1,
		fast_delivery INTEGER NOT NULL DEFAULT 0,
		shop_id TEXT,
		delivery_fee_cents INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME,
		updated_at DATETIME
	)`,
	`CREATE TABLE orders (
		id TEXT PRIMARY KEY,
		user_id TEXT,
		shop_id TEXT,
		delivery_person_id TEXT,
		status TEXT NOT NULL DEFAULT 'pending',
		delivery_type TEXT NOT NULL DEFAULT 'standard',
		payment_status TEXT NOT NULL DEFAULT 'pending',
		delivery_address TEXT,
		subtotal_cents INTEGER NOT NULL DEFAULT 0,
		gst_cents INTEGER NOT NULL DEFAULT 0,
		delivery_fee_cents INTEGER NOT NULL DEFAULT 0,
		handling_fee_cents INTEGER NOT NULL DEFAULT 0,
		total_cents INTEGER NOT NULL DEFAULT 0,
		reached_confirmed INTEGER NOT NULL DEFAULT 0,
		cash_collected INTEGER NOT NULL DEFAULT 0,
		amount_collected_1_cents INTEGER,
		amount_collected_2_cents INTEGER,
		rejection_reason TEXT,
		accepted_at DATETIME,
		rejected_at DATETIME,
		cancelled_at DATETIME,
		delivered_at DATETIME,
		created_at DATETIME,
		updated_at DATETIME
	)`,
	`CREATE TABLE order_line_items (
		id TEXT PRIMARY KEY,
		order_id TEXT NOT NULL,
		product_id TEXT NOT NULL,
		variant_id TEXT NOT NULL DEFAULT '00000000-0000-0000-0000-000000000000',
		name TEXT NOT NULL,
		quantity INTEGER NOT NULL,
		unit_price_cents INTEGER NOT NULL,
		total_cents INTEGER NOT NULL,
		created_at DATETIME
	)`,
}

type lifecycleFixture struct {
	conn    *gorm.DB
	svc     Service
	cart    cart.Service
	catalog catalog.Service
}

func newLifecycleFixture(t *testing.T) *lifecycleFixture {
	t.Helper()

	dsn := "file:orders_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	for _, stmt := range lifecycleSchema {
		if err := conn.Exec(stmt).Error; err != nil {
			t.Fatalf("create schema: %v", err)
		}
	}

	catalogSvc, err := catalog.NewService(catalog.NewRepository(conn))
	if err != nil {
		t.Fatalf("catalog service: %v", err)
	}
	cartSvc, err := cart.NewService(cart.NewRepository(conn), catalogSvc)
	if err != nil {
		t.Fatalf("cart service: %v", err)
	}
	zonesSvc, err := zones.NewService(zones.NewRepository(conn))
	if err != nil {
		t.Fatalf("zones service: %v", err)
	}

	svc, err := NewService(ServiceParams{
		Tx:      db.NewFromConn(conn),
		Repo:    NewRepository(conn),
		Cart:    cartSvc,
		Catalog: catalogSvc,
		Zones:   zonesSvc,
		Users:   users.NewRepository(conn),
		Delivery: config.DeliveryConfig{
			DefaultFeeCents:  4000,
			FastFeeCents:     8000,
			HandlingFeeCents: 500,
			GSTPercent:       5,
		},
	})
	if err != nil {
		t.Fatalf("orders service: %v", err)
	}

	return &lifecycleFixture{conn: conn, svc: svc, cart: cartSvc, catalog: catalogSvc}
}

func (f *lifecycleFixture) seedUser(t *testing.T, role enums.Role, shopID *uuid.UUID) *models.User {
	t.Helper()
	user := &models.User{
		ID:           uuid.New(),
		Email:        uuid.NewString() + "@example.com",
		PasswordHash: "x",
		Name:         "Test " + string(role),
		Role:         role,
		ShopID:       shopID,
		IsActive:     true,
	}
	if err := f.conn.Create(user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func (f *lifecycleFixture) seedProduct(t *testing.T, name string, priceCents, stock int) *models.Product {
	t.Helper()
	product := &models.Product{
		ID:         uuid.New(),
		Name:       name,
		Unit:       "kg",
		PriceCents: priceCents,
		Stock:      stock,
		IsActive:   true,
	}
	if err := f.conn.Create(product).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return product
}

func (f *lifecycleFixture) seedZone(t *testing.T, pincode string, feeCents int, fast bool, shopID *uuid.UUID) {
	t.Helper()
	zone := &models.DeliveryZone{
		ID:               uuid.New(),
		Pincode:          pincode,
		IsActive:         true,
		FastDelivery:     fast,
		ShopID:           shopID,
		DeliveryFeeCents: feeCents,
	}
	if err := f.conn.Create(zone).Error; err != nil {
		t.Fatalf("seed zone: %v", err)
	}
}

func (f *lifecycleFixture) productStock(t *testing.T, productID uuid.UUID) int {
	t.Helper()
	var product models.Product
	if err := f.conn.First(&product, "id = ?", productID).Error; err != nil {
		t.Fatalf("load product: %v", err)
	}
	return product.Stock
}

func (f *lifecycleFixture) reload(t *testing.T, orderID uuid.UUID) *models.Order {
	t.Helper()
	var order models.Order
	if err := f.conn.Preload("Items").First(&order, "id = ?", orderID).Error; err != nil {
		t.Fatalf("load order: %v", err)
	}
	return &order
}

func testAddress() types.DeliveryAddress {
	return types.DeliveryAddress{Street: "12 MG Road", City: "Bengaluru", Pincode: "560001"}
}

func errCode(t *testing.T, err error) pkgerrors.Code {
	t.Helper()
	if err == nil {
		t.Fatal("expected an error")
	}
	var typed *pkgerrors.Error
	if !errors.As(err, &typed) {
		t.Fatalf("expected a typed error, got %v", err)
	}
	return typed.Code()
}

func TestCreateGuestOrderComputesTotals(t *testing.T) {
	f := newLifecycleFixture(t)
	ctx := context.Background()
	product := f.seedProduct(t, "Chicken Curry Cut", 12000, 50)
	f.seedZone(t, "560001", 0, false, nil)

	order, err := f.svc.Create(ctx, CreateInput{
		Items:           []CreateItemInput{{ProductID: product.ID, Quantity: 3}},
		DeliveryAddress: testAddress(),
	})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}

	if order.UserID != nil {
		t.Fatalf("guest order should carry no user id, got %v", order.UserID)
	}
	if order.Status != enums.OrderStatusPending {
		t.Fatalf("expected pending, got %s", order.Status)
	}
	if order.PaymentStatus != enums.PaymentStatusPending {
		t.Fatalf("expected payment pending, got %s", order.PaymentStatus)
	}
	if order.SubtotalCents != 36000 {
		t.Fatalf("expected subtotal 36000, got %d", order.SubtotalCents)
	}
	if order.GSTCents != 1800 {
		t.Fatalf("expected gst 1800, got %d", order.GSTCents)
	}
	if order.DeliveryFeeCents != 4000 {
		t.Fatalf("expected default delivery fee 4000, got %d", order.DeliveryFeeCents)
	}
	if order.HandlingFeeCents != 500 {
		t.Fatalf("expected handling fee 500, got %d", order.HandlingFeeCents)
	}
	if want := 36000 + 1800 + 4000 + 500; order.TotalCents != want {
		t.Fatalf("expected total %d, got %d", want, order.TotalCents)
	}

	stored := f.reload(t, order.ID)
	if len(stored.Items) != 1 {
		t.Fatalf("expected 1 line item, got %d", len(stored.Items))
	}
	line := stored.Items[0]
	if line.Name != "Chicken Curry Cut" || line.Quantity != 3 || line.UnitPriceCents != 12000 || line.TotalCents != 36000 {
		t.Fatalf("unexpected line item: %+v", line)
	}
	if got := f.productStock(t, product.ID); got != 47 {
		t.Fatalf("expected stock 47 after reservation, got %d", got)
	}
}

func TestCreateOrderFromCartClearsCart(t *testing.T) {
	f := newLifecycleFixture(t)
	ctx := context.Background()
	customer := f.seedUser(t, enums.RoleUser, nil)
	product := f.seedProduct(t, "Mutton Boneless", 45000, 10)
	f.seedZone(t, "560001", 0, false, nil)

	if _, err := f.cart.AddItem(ctx, customer.ID, cart.AddItemInput{ProductID: product.ID, Quantity: 2}); err != nil {
		t.Fatalf("seed cart: %v", err)
	}

	order, err := f.svc.Create(ctx, CreateInput{
		UserID:          &customer.ID,
		DeliveryAddress: testAddress(),
	})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	if order.UserID == nil || *order.UserID != customer.ID {
		t.Fatalf("expected order bound to customer")
	}
	if len(order.Items) != 1 || order.Items[0].Quantity != 2 {
		t.Fatalf("expected cart snapshot of qty 2, got %+v", order.Items)
	}
	if got := f.productStock(t, product.ID); got != 8 {
		t.Fatalf("expected stock 8, got %d", got)
	}

	remaining, err := f.cart.List(ctx, customer.ID)
	if err != nil {
		t.Fatalf("list cart: %v", err)
	}
	if len(remaining) != 0 {
		t.Fatalf("expected cart cleared, got %d items", len(remaining))
	}
}

func TestCreateGuestOrderRequiresItems(t *testing.T) {
	f := newLifecycleFixture(t)
	f.seedZone(t, "560001", 0, false, nil)

	_, err := f.svc.Create(context.Background(), CreateInput{DeliveryAddress: testAddress()})
	if code := errCode(t, err); code != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %s", code)
	}
}

func TestCreateOrderOutOfStockAbortsWholeOrder(t *testing.T) {
	f := newLifecycleFixture(t)
	ctx := context.Background()
	plenty := f.seedProduct(t, "Eggs Tray", 9000, 5)
	scarce := f.seedProduct(t, "Prawns Large", 60000, 1)
	f.seedZone(t, "560001", 0, false, nil)

	_, err := f.svc.Create(ctx, CreateInput{
		Items: []CreateItemInput{
			{ProductID: plenty.ID, Quantity: 2},
			{ProductID: scarce.ID, Quantity: 3},
		},
		DeliveryAddress: testAddress(),
	})
	if code := errCode(t, err); code != pkgerrors.CodeOutOfStock {
		t.Fatalf("expected out-of-stock error, got %s", code)
	}

	// The first line's decrement must roll back with the failed order.
	if got := f.productStock(t, plenty.ID); got != 5 {
		t.Fatalf("expected stock 5 after rollback, got %d", got)
	}
	if got := f.productStock(t, scarce.ID); got != 1 {
		t.Fatalf("expected stock 1 after rollback, got %d", got)
	}
	var count int64
	if err := f.conn.Model(&models.Order{}).Count(&count).Error; err != nil {
		t.Fatalf("count orders: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected no persisted orders, got %d", count)
	}
}

func TestCreateOrderRejectsUnservedPincode(t *testing.T) {
	f := newLifecycleFixture(t)
	product := f.seedProduct(t, "Fish Fillet", 30000, 5)
	f.seedZone(t, "110011", 0, false, nil)

	_, err := f.svc.Create(context.Background(), CreateInput{
		Items:           []CreateItemInput{{ProductID: product.ID, Quantity: 1}},
		DeliveryAddress: testAddress(),
	})
	if code := errCode(t, err); code != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %s", code)
	}
}

func TestCreateOrderFastDeliveryNeedsEligibleZone(t *testing.T) {
	f := newLifecycleFixture(t)
	ctx := context.Background()
	product := f.seedProduct(t, "Chicken Wings", 15000, 20)
	f.seedZone(t, "560001", 0, false, nil)

	_, err := f.svc.Create(ctx, CreateInput{
		Items:           []CreateItemInput{{ProductID: product.ID, Quantity: 1}},
		DeliveryAddress: testAddress(),
		DeliveryType:    enums.DeliveryTypeFast,
	})
	if code := errCode(t, err); code != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %s", code)
	}

	f.seedZone(t, "560002", 0, true, nil)
	address := testAddress()
	address.Pincode = "560002"
	order, err := f.svc.Create(ctx, CreateInput{
		Items:           []CreateItemInput{{ProductID: product.ID, Quantity: 1}},
		DeliveryAddress: address,
		DeliveryType:    enums.DeliveryTypeFast,
	})
	if err != nil {
		t.Fatalf("create fast order: %v", err)
	}
	if order.DeliveryFeeCents != 8000 {
		t.Fatalf("expected fast fee 8000, got %d", order.DeliveryFeeCents)
	}
}

func TestCreateOrderUsesZoneShopAndPriceOverride(t *testing.T) {
	f := newLifecycleFixture(t)
	ctx := context.Background()
	shopID := uuid.New()
	product := f.seedProduct(t, "Lamb Chops", 50000, 3)
	f.seedZone(t, "560001", 2500, false, &shopID)

	inventory := &models.ShopInventory{
		ID:        uuid.New(),
		ShopID:    shopID,
		ProductID: product.ID,
		IsEnabled: true,
		Stock:     10,
	}
	override := 48000
	inventory.PriceOverrideCents = &override
	if err := f.conn.Create(inventory).Error; err != nil {
		t.Fatalf("seed shop inventory: %v", err)
	}

	order, err := f.svc.Create(ctx, CreateInput{
		Items:           []CreateItemInput{{ProductID: product.ID, Quantity: 2}},
		DeliveryAddress: testAddress(),
	})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	if order.ShopID == nil || *order.ShopID != shopID {
		t.Fatalf("expected order routed to zone shop")
	}
	if order.Items[0].UnitPriceCents != 48000 {
		t.Fatalf("expected shop override price 48000, got %d", order.Items[0].UnitPriceCents)
	}
	if order.DeliveryFeeCents != 2500 {
		t.Fatalf("expected zone fee 2500, got %d", order.DeliveryFeeCents)
	}

	// Shop-scoped orders draw down the shop counter, not the master one.
	var stored models.ShopInventory
	if err := f.conn.First(&stored, "shop_id = ? AND product_id = ?", shopID, product.ID).Error; err != nil {
		t.Fatalf("load shop inventory: %v", err)
	}
	if stored.Stock != 8 {
		t.Fatalf("expected shop stock 8, got %d", stored.Stock)
	}
	if got := f.productStock(t, product.ID); got != 3 {
		t.Fatalf("expected master stock untouched at 3, got %d", got)
	}
}

func TestCreateOrderShopZoneFallsBackToMasterStock(t *testing.T) {
	f := newLifecycleFixture(t)
	ctx := context.Background()
	shopID := uuid.New()
	product := f.seedProduct(t, "Country Eggs", 9000, 50)
	f.seedZone(t, "560001", 0, false, &shopID)

	// The zone routes to a shop that carries no inventory row for the
	// product, so the master counter serves the order.
	order, err := f.svc.Create(ctx, CreateInput{
		Items:           []CreateItemInput{{ProductID: product.ID, Quantity: 2}},
		DeliveryAddress: testAddress(),
	})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	if order.ShopID == nil || *order.ShopID != shopID {
		t.Fatal("expected order routed to zone shop")
	}
	if got := f.productStock(t, product.ID); got != 48 {
		t.Fatalf("expected master stock 48, got %d", got)
	}

	admin := f.seedUser(t, enums.RoleAdmin, nil)
	if _, err := f.svc.Cancel(ctx, adminActor(admin.ID), order.ID); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if got := f.productStock(t, product.ID); got != 50 {
		t.Fatalf("expected master stock restored to 50, got %d", got)
	}
}

// placeOrder seeds a minimal catalog and creates one pending order for the
// given customer.
func (f *lifecycleFixture) placeOrder(t *testing.T, customerID *uuid.UUID) *models.Order {
	t.Helper()
	product := f.seedProduct(t, "Chicken Breast", 20000, 50)
	f.seedZone(t, "560001", 0, false, nil)

	order, err := f.svc.Create(context.Background(), CreateInput{
		UserID:          customerID,
		Items:           []CreateItemInput{{ProductID: product.ID, Quantity: 3}},
		DeliveryAddress: testAddress(),
	})
	if err != nil {
		t.Fatalf("place order: %v", err)
	}
	return order
}

func adminActor(id uuid.UUID) Actor {
	return Actor{UserID: id, Role: enums.RoleAdmin}
}

func courierActor(id uuid.UUID) Actor {
	return Actor{UserID: id, Role: enums.RoleDeliveryPerson}
}

func TestAssignAndAcceptFlow(t *testing.T) {
	f := newLifecycleFixture(t)
	ctx := context.Background()
	admin := f.seedUser(t, enums.RoleAdmin, nil)
	courier := f.seedUser(t, enums.RoleDeliveryPerson, nil)
	order := f.placeOrder(t, nil)

	assigned, err := f.svc.Assign(ctx, adminActor(admin.ID), order.ID, courier.ID)
	if err != nil {
		t.Fatalf("assign: %v", err)
	}
	if assigned.Status != enums.OrderStatusAssigned {
		t.Fatalf("expected assigned, got %s", assigned.Status)
	}
	if assigned.DeliveryPersonID == nil || *assigned.DeliveryPersonID != courier.ID {
		t.Fatal("expected delivery person bound to order")
	}

	accepted, err := f.svc.Accept(ctx, courierActor(courier.ID), order.ID)
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	if accepted.Status != enums.OrderStatusAccepted {
		t.Fatalf("expected accepted, got %s", accepted.Status)
	}
	if accepted.AcceptedAt == nil {
		t.Fatal("expected accepted_at to be stamped")
	}
}

func TestAssignValidatesActorAndCourier(t *testing.T) {
	f := newLifecycleFixture(t)
	ctx := context.Background()
	admin := f.seedUser(t, enums.RoleAdmin, nil)
	customer := f.seedUser(t, enums.RoleUser, nil)
	order := f.placeOrder(t, nil)

	_, err := f.svc.Assign(ctx, Actor{UserID: customer.ID, Role: enums.RoleUser}, order.ID, customer.ID)
	if code := errCode(t, err); code != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden for customer actor, got %s", code)
	}

	// The assignee must hold the delivery role.
	_, err = f.svc.Assign(ctx, adminActor(admin.ID), order.ID, customer.ID)
	if code := errCode(t, err); code != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for non-courier assignee, got %s", code)
	}
}

func TestAcceptTwiceConflictsWithoutStateChange(t *testing.T) {
	f := newLifecycleFixture(t)
	ctx := context.Background()
	admin := f.seedUser(t, enums.RoleAdmin, nil)
	courier := f.seedUser(t, enums.RoleDeliveryPerson, nil)
	order := f.placeOrder(t, nil)

	if _, err := f.svc.Assign(ctx, adminActor(admin.ID), order.ID, courier.ID); err != nil {
		t.Fatalf("assign: %v", err)
	}
	if _, err := f.svc.Accept(ctx, courierActor(courier.ID), order.ID); err != nil {
		t.Fatalf("accept: %v", err)
	}

	_, err := f.svc.Accept(ctx, courierActor(courier.ID), order.ID)
	if code := errCode(t, err); code != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %s", code)
	}
	if stored := f.reload(t, order.ID); stored.Status != enums.OrderStatusAccepted {
		t.Fatalf("expected status unchanged at accepted, got %s", stored.Status)
	}
}

func TestWrongAssigneeIsForbidden(t *testing.T) {
	f := newLifecycleFixture(t)
	ctx := context.Background()
	admin := f.seedUser(t, enums.RoleAdmin, nil)
	courier := f.seedUser(t, enums.RoleDeliveryPerson, nil)
	other := f.seedUser(t, enums.RoleDeliveryPerson, nil)
	order := f.placeOrder(t, nil)

	if _, err := f.svc.Assign(ctx, adminActor(admin.ID), order.ID, courier.ID); err != nil {
		t.Fatalf("assign: %v", err)
	}

	_, err := f.svc.Accept(ctx, courierActor(other.ID), order.ID)
	if code := errCode(t, err); code != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden for wrong assignee, got %s", code)
	}

	stored := f.reload(t, order.ID)
	if stored.Status != enums.OrderStatusAssigned {
		t.Fatalf("expected status unchanged at assigned, got %s", stored.Status)
	}
	if stored.DeliveryPersonID == nil || *stored.DeliveryPersonID != courier.ID {
		t.Fatal("expected assignment unchanged")
	}
}

func TestFullDeliveryFlow(t *testing.T) {
	f := newLifecycleFixture(t)
	ctx := context.Background()
	admin := f.seedUser(t, enums.RoleAdmin, nil)
	courier := f.seedUser(t, enums.RoleDeliveryPerson, nil)
	order := f.placeOrder(t, nil)
	actor := courierActor(courier.ID)

	if _, err := f.svc.Assign(ctx, adminActor(admin.ID), order.ID, courier.ID); err != nil {
		t.Fatalf("assign: %v", err)
	}
	if _, err := f.svc.Accept(ctx, actor, order.ID); err != nil {
		t.Fatalf("accept: %v", err)
	}
	if _, err := f.svc.MarkOutForDelivery(ctx, actor, order.ID); err != nil {
		t.Fatalf("out for delivery: %v", err)
	}

	reached, err := f.svc.MarkReached(ctx, actor, order.ID)
	if err != nil {
		t.Fatalf("reached: %v", err)
	}
	if reached.Status != enums.OrderStatusOutForDelivery {
		t.Fatalf("reached must not change status, got %s", reached.Status)
	}
	if !reached.ReachedConfirmed {
		t.Fatal("expected reached flag set")
	}

	collected, err := f.svc.CollectCash(ctx, actor, order.ID, CollectCashInput{Amount1Cents: order.TotalCents})
	if err != nil {
		t.Fatalf("collect cash: %v", err)
	}
	if !collected.CashCollected {
		t.Fatal("expected cash collected flag set")
	}
	if collected.AmountCollected1Cents == nil || *collected.AmountCollected1Cents != order.TotalCents {
		t.Fatalf("expected collected amount %d, got %v", order.TotalCents, collected.AmountCollected1Cents)
	}
	if collected.PaymentStatus != enums.PaymentStatusPaid {
		t.Fatalf("expected payment paid, got %s", collected.PaymentStatus)
	}

	delivered, err := f.svc.MarkDelivered(ctx, actor, order.ID)
	if err != nil {
		t.Fatalf("deliver: %v", err)
	}
	if delivered.Status != enums.OrderStatusDelivered {
		t.Fatalf("expected delivered, got %s", delivered.Status)
	}
	if delivered.DeliveredAt == nil {
		t.Fatal("expected delivered_at to be stamped")
	}
}

func TestCollectCashRequiresReachedConfirmation(t *testing.T) {
	f := newLifecycleFixture(t)
	ctx := context.Background()
	admin := f.seedUser(t, enums.RoleAdmin, nil)
	courier := f.seedUser(t, enums.RoleDeliveryPerson, nil)
	order := f.placeOrder(t, nil)
	actor := courierActor(courier.ID)

	if _, err := f.svc.Assign(ctx, adminActor(admin.ID), order.ID, courier.ID); err != nil {
		t.Fatalf("assign: %v", err)
	}
	if _, err := f.svc.Accept(ctx, actor, order.ID); err != nil {
		t.Fatalf("accept: %v", err)
	}
	if _, err := f.svc.MarkOutForDelivery(ctx, actor, order.ID); err != nil {
		t.Fatalf("out for delivery: %v", err)
	}

	_, err := f.svc.CollectCash(ctx, actor, order.ID, CollectCashInput{Amount1Cents: 100})
	if code := errCode(t, err); code != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict before reached, got %s", code)
	}
	if stored := f.reload(t, order.ID); stored.CashCollected {
		t.Fatal("expected cash collected flag untouched")
	}
}

func TestCollectCashTwiceConflicts(t *testing.T) {
	f := newLifecycleFixture(t)
	ctx := context.Background()
	admin := f.seedUser(t, enums.RoleAdmin, nil)
	courier := f.seedUser(t, enums.RoleDeliveryPerson, nil)
	order := f.placeOrder(t, nil)
	actor := courierActor(courier.ID)

	if _, err := f.svc.Assign(ctx, adminActor(admin.ID), order.ID, courier.ID); err != nil {
		t.Fatalf("assign: %v", err)
	}
	if _, err := f.svc.Accept(ctx, actor, order.ID); err != nil {
		t.Fatalf("accept: %v", err)
	}
	if _, err := f.svc.MarkOutForDelivery(ctx, actor, order.ID); err != nil {
		t.Fatalf("out for delivery: %v", err)
	}
	if _, err := f.svc.MarkReached(ctx, actor, order.ID); err != nil {
		t.Fatalf("reached: %v", err)
	}
	if _, err := f.svc.CollectCash(ctx, actor, order.ID, CollectCashInput{Amount1Cents: order.TotalCents}); err != nil {
		t.Fatalf("collect cash: %v", err)
	}

	_, err := f.svc.CollectCash(ctx, actor, order.ID, CollectCashInput{Amount1Cents: 1})
	if code := errCode(t, err); code != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict on repeat collection, got %s", code)
	}
	stored := f.reload(t, order.ID)
	if stored.AmountCollected1Cents == nil || *stored.AmountCollected1Cents != order.TotalCents {
		t.Fatalf("expected recorded amount %d untouched, got %v", order.TotalCents, stored.AmountCollected1Cents)
	}
}

func TestRejectRecordsReason(t *testing.T) {
	f := newLifecycleFixture(t)
	ctx := context.Background()
	admin := f.seedUser(t, enums.RoleAdmin, nil)
	courier := f.seedUser(t, enums.RoleDeliveryPerson, nil)
	order := f.placeOrder(t, nil)

	if _, err := f.svc.Assign(ctx, adminActor(admin.ID), order.ID, courier.ID); err != nil {
		t.Fatalf("assign: %v", err)
	}

	_, err := f.svc.Reject(ctx, courierActor(courier.ID), order.ID, "")
	if code := errCode(t, err); code != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for empty reason, got %s", code)
	}

	rejected, err := f.svc.Reject(ctx, courierActor(courier.ID), order.ID, "vehicle breakdown")
	if err != nil {
		t.Fatalf("reject: %v", err)
	}
	if rejected.Status != enums.OrderStatusRejected {
		t.Fatalf("expected rejected, got %s", rejected.Status)
	}
	if rejected.RejectionReason == nil || *rejected.RejectionReason != "vehicle breakdown" {
		t.Fatalf("expected reason recorded, got %v", rejected.RejectionReason)
	}
	if rejected.RejectedAt == nil {
		t.Fatal("expected rejected_at to be stamped")
	}
}

func TestRejectedOrderRecoverableByOperators(t *testing.T) {
	f := newLifecycleFixture(t)
	ctx := context.Background()
	admin := f.seedUser(t, enums.RoleAdmin, nil)
	courier := f.seedUser(t, enums.RoleDeliveryPerson, nil)

	// Cancelling a rejected order releases its reservation.
	first := f.placeOrder(t, nil)
	productID := first.Items[0].ProductID
	if _, err := f.svc.Assign(ctx, adminActor(admin.ID), first.ID, courier.ID); err != nil {
		t.Fatalf("assign: %v", err)
	}
	if _, err := f.svc.Reject(ctx, courierActor(courier.ID), first.ID, "vehicle breakdown"); err != nil {
		t.Fatalf("reject: %v", err)
	}
	if got := f.productStock(t, productID); got != 47 {
		t.Fatalf("expected reservation held through rejection, got stock %d", got)
	}
	cancelled, err := f.svc.Cancel(ctx, adminActor(admin.ID), first.ID)
	if err != nil {
		t.Fatalf("cancel rejected order: %v", err)
	}
	if cancelled.Status != enums.OrderStatusCancelled {
		t.Fatalf("expected cancelled, got %s", cancelled.Status)
	}
	if got := f.productStock(t, productID); got != 50 {
		t.Fatalf("expected stock restored to 50, got %d", got)
	}

	// Alternatively the order goes back to the pool for a fresh courier.
	second := f.placeOrder(t, nil)
	if _, err := f.svc.Assign(ctx, adminActor(admin.ID), second.ID, courier.ID); err != nil {
		t.Fatalf("assign second: %v", err)
	}
	if _, err := f.svc.Reject(ctx, courierActor(courier.ID), second.ID, "too far"); err != nil {
		t.Fatalf("reject second: %v", err)
	}
	if _, err := f.svc.UpdateStatus(ctx, adminActor(admin.ID), second.ID, "pending"); err != nil {
		t.Fatalf("reset rejected order: %v", err)
	}
	replacement := f.seedUser(t, enums.RoleDeliveryPerson, nil)
	reassigned, err := f.svc.Assign(ctx, adminActor(admin.ID), second.ID, replacement.ID)
	if err != nil {
		t.Fatalf("re-assign: %v", err)
	}
	if reassigned.DeliveryPersonID == nil || *reassigned.DeliveryPersonID != replacement.ID {
		t.Fatal("expected order handed to the replacement courier")
	}
}

func TestCancelRestoresStock(t *testing.T) {
	f := newLifecycleFixture(t)
	ctx := context.Background()
	admin := f.seedUser(t, enums.RoleAdmin, nil)
	order := f.placeOrder(t, nil)

	productID := order.Items[0].ProductID
	if got := f.productStock(t, productID); got != 47 {
		t.Fatalf("expected stock 47 after order, got %d", got)
	}

	cancelled, err := f.svc.Cancel(ctx, adminActor(admin.ID), order.ID)
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if cancelled.Status != enums.OrderStatusCancelled {
		t.Fatalf("expected cancelled, got %s", cancelled.Status)
	}
	if cancelled.CancelledAt == nil {
		t.Fatal("expected cancelled_at to be stamped")
	}
	if got := f.productStock(t, productID); got != 50 {
		t.Fatalf("expected stock restored to 50, got %d", got)
	}
}

func TestCustomerCancelRights(t *testing.T) {
	f := newLifecycleFixture(t)
	ctx := context.Background()
	admin := f.seedUser(t, enums.RoleAdmin, nil)
	courier := f.seedUser(t, enums.RoleDeliveryPerson, nil)
	customer := f.seedUser(t, enums.RoleUser, nil)
	stranger := f.seedUser(t, enums.RoleUser, nil)
	order := f.placeOrder(t, &customer.ID)

	_, err := f.svc.Cancel(ctx, Actor{UserID: stranger.ID, Role: enums.RoleUser}, order.ID)
	if code := errCode(t, err); code != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden for another customer, got %s", code)
	}

	if _, err := f.svc.Assign(ctx, adminActor(admin.ID), order.ID, courier.ID); err != nil {
		t.Fatalf("assign: %v", err)
	}

	// Once assigned the customer window has closed.
	_, err = f.svc.Cancel(ctx, Actor{UserID: customer.ID, Role: enums.RoleUser}, order.ID)
	if code := errCode(t, err); code != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict after assignment, got %s", code)
	}

	second := f.placeOrder(t, &customer.ID)
	cancelled, err := f.svc.Cancel(ctx, Actor{UserID: customer.ID, Role: enums.RoleUser}, second.ID)
	if err != nil {
		t.Fatalf("customer cancel: %v", err)
	}
	if cancelled.Status != enums.OrderStatusCancelled {
		t.Fatalf("expected cancelled, got %s", cancelled.Status)
	}
}

func TestCancelTerminalOrderConflicts(t *testing.T) {
	f := newLifecycleFixture(t)
	ctx := context.Background()
	admin := f.seedUser(t, enums.RoleAdmin, nil)
	order := f.placeOrder(t, nil)

	if _, err := f.svc.Cancel(ctx, adminActor(admin.ID), order.ID); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	_, err := f.svc.Cancel(ctx, adminActor(admin.ID), order.ID)
	if code := errCode(t, err); code != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict on second cancel, got %s", code)
	}
}

func TestUpdateStatusEscapeHatch(t *testing.T) {
	f := newLifecycleFixture(t)
	ctx := context.Background()
	admin := f.seedUser(t, enums.RoleAdmin, nil)
	order := f.placeOrder(t, nil)

	updated, err := f.svc.UpdateStatus(ctx, adminActor(admin.ID), order.ID, "processing")
	if err != nil {
		t.Fatalf("update status: %v", err)
	}
	if updated.Status != enums.OrderStatusProcessing {
		t.Fatalf("expected processing, got %s", updated.Status)
	}

	_, err = f.svc.UpdateStatus(ctx, adminActor(admin.ID), order.ID, "teleported")
	if code := errCode(t, err); code != pkgerrors.CodeValidation {
		t.Fatalf("expected validation for unknown status, got %s", code)
	}

	otherShop := uuid.New()
	shopAdmin := Actor{UserID: uuid.New(), Role: enums.RoleShopAdmin, ShopID: &otherShop}
	_, err = f.svc.UpdateStatus(ctx, shopAdmin, order.ID, "assigned")
	if code := errCode(t, err); code != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden for out-of-scope shop admin, got %s", code)
	}

	if _, err := f.svc.Cancel(ctx, adminActor(admin.ID), order.ID); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	_, err = f.svc.UpdateStatus(ctx, adminActor(admin.ID), order.ID, "pending")
	if code := errCode(t, err); code != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict on terminal order, got %s", code)
	}
}

func TestTrackServesGuestProjection(t *testing.T) {
	f := newLifecycleFixture(t)
	ctx := context.Background()
	order := f.placeOrder(t, nil)

	view, err := f.svc.Track(ctx, order.ID)
	if err != nil {
		t.Fatalf("track: %v", err)
	}
	if view.OrderID != order.ID || view.Status != enums.OrderStatusPending {
		t.Fatalf("unexpected tracking view: %+v", view)
	}
	if view.TotalCents != order.TotalCents {
		t.Fatalf("expected total %d, got %d", order.TotalCents, view.TotalCents)
	}

	_, err = f.svc.Track(ctx, uuid.New())
	if code := errCode(t, err); code != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %s", code)
	}
}

func TestGetEnforcesReadRights(t *testing.T) {
	f := newLifecycleFixture(t)
	ctx := context.Background()
	customer := f.seedUser(t, enums.RoleUser, nil)
	courier := f.seedUser(t, enums.RoleDeliveryPerson, nil)
	order := f.placeOrder(t, &customer.ID)

	if _, err := f.svc.Get(ctx, Actor{UserID: customer.ID, Role: enums.RoleUser}, order.ID); err != nil {
		t.Fatalf("owner read: %v", err)
	}

	_, err := f.svc.Get(ctx, Actor{UserID: uuid.New(), Role: enums.RoleUser}, order.ID)
	if code := errCode(t, err); code != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden for stranger, got %s", code)
	}

	// Couriers see only orders assigned to them.
	_, err = f.svc.Get(ctx, courierActor(courier.ID), order.ID)
	if code := errCode(t, err); code != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden for unassigned courier, got %s", code)
	}
}
