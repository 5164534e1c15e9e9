package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/freshkart/freshkart-backend/pkg/db/models"
	pkgerrors "github.com/freshkart/freshkart-backend/pkg/errors"
)

func newCatalogService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	conn := newCatalogDB(t)
	svc, err := NewService(NewRepository(conn))
	if err != nil {
		t.Fatalf("catalog service: %v", err)
	}
	return svc, conn
}

func intPtr(v int) *int { return &v }

func catalogCode(t *testing.T, err error) pkgerrors.Code {
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

func seedPricedProduct(t *testing.T, conn *gorm.DB) *models.Product {
	t.Helper()
	product := &models.Product{
		ID:         uuid.New(),
		Name:       "Chicken Curry Cut",
		Unit:       "kg",
		PriceCents: 12000,
		Stock:      50,
		IsActive:   true,
	}
	if err := conn.Create(product).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return product
}

func TestPricingFallsBackToMasterPrice(t *testing.T) {
	svc, conn := newCatalogService(t)
	product := seedPricedProduct(t, conn)

	priced, err := svc.Pricing(context.Background(), product.ID, nil, nil)
	if err != nil {
		t.Fatalf("pricing: %v", err)
	}
	if priced.UnitPriceCents != 12000 {
		t.Fatalf("expected master price 12000, got %d", priced.UnitPriceCents)
	}
	if priced.Name != "Chicken Curry Cut" {
		t.Fatalf("unexpected name %q", priced.Name)
	}
	if priced.VariantID != uuid.Nil {
		t.Fatal("expected zero variant id without a variant")
	}
}

func TestPricingUsesVariantPriceAndLabel(t *testing.T) {
	svc, conn := newCatalogService(t)
	ctx := context.Background()
	product := seedPricedProduct(t, conn)

	priced500 := &models.ProductVariant{ID: uuid.New(), ProductID: product.ID, Label: "500g", PriceCents: intPtr(6500)}
	unpriced := &models.ProductVariant{ID: uuid.New(), ProductID: product.ID, Label: "1kg"}
	for _, v := range []*models.ProductVariant{priced500, unpriced} {
		if err := conn.Create(v).Error; err != nil {
			t.Fatalf("seed variant: %v", err)
		}
	}

	priced, err := svc.Pricing(ctx, product.ID, &priced500.ID, nil)
	if err != nil {
		t.Fatalf("pricing variant: %v", err)
	}
	if priced.UnitPriceCents != 6500 {
		t.Fatalf("expected variant price 6500, got %d", priced.UnitPriceCents)
	}
	if priced.Name != "Chicken Curry Cut 500g" {
		t.Fatalf("expected label appended, got %q", priced.Name)
	}

	// A variant without its own price inherits the master price.
	fallback, err := svc.Pricing(ctx, product.ID, &unpriced.ID, nil)
	if err != nil {
		t.Fatalf("pricing unpriced variant: %v", err)
	}
	if fallback.UnitPriceCents != 12000 {
		t.Fatalf("expected master price 12000, got %d", fallback.UnitPriceCents)
	}
}

func TestPricingShopOverrideWinsOverVariant(t *testing.T) {
	svc, conn := newCatalogService(t)
	ctx := context.Background()
	product := seedPricedProduct(t, conn)
	shopID := uuid.New()

	variant := &models.ProductVariant{ID: uuid.New(), ProductID: product.ID, Label: "500g", PriceCents: intPtr(6500)}
	if err := conn.Create(variant).Error; err != nil {
		t.Fatalf("seed variant: %v", err)
	}
	inv := &models.ShopInventory{
		ID:                 uuid.New(),
		ShopID:             shopID,
		ProductID:          product.ID,
		IsEnabled:          true,
		PriceOverrideCents: intPtr(5900),
		Stock:              10,
	}
	if err := conn.Create(inv).Error; err != nil {
		t.Fatalf("seed inventory: %v", err)
	}

	priced, err := svc.Pricing(ctx, product.ID, &variant.ID, &shopID)
	if err != nil {
		t.Fatalf("pricing: %v", err)
	}
	if priced.UnitPriceCents != 5900 {
		t.Fatalf("expected shop override 5900, got %d", priced.UnitPriceCents)
	}
}

func TestPricingRejectsDisabledShopRow(t *testing.T) {
	svc, conn := newCatalogService(t)
	product := seedPricedProduct(t, conn)
	shopID := uuid.New()

	inv := &models.ShopInventory{ID: uuid.New(), ShopID: shopID, ProductID: product.ID, IsEnabled: false, Stock: 10}
	if err := conn.Create(inv).Error; err != nil {
		t.Fatalf("seed inventory: %v", err)
	}

	_, err := svc.Pricing(context.Background(), product.ID, nil, &shopID)
	if code := catalogCode(t, err); code != pkgerrors.CodeValidation {
		t.Fatalf("expected validation for disabled shop row, got %s", code)
	}
}

func TestPricingRejectsInactiveProductAndForeignVariant(t *testing.T) {
	svc, conn := newCatalogService(t)
	ctx := context.Background()
	product := seedPricedProduct(t, conn)
	other := seedPricedProduct2(t, conn)

	foreign := &models.ProductVariant{ID: uuid.New(), ProductID: other.ID, Label: "1kg"}
	if err := conn.Create(foreign).Error; err != nil {
		t.Fatalf("seed variant: %v", err)
	}
	_, err := svc.Pricing(ctx, product.ID, &foreign.ID, nil)
	if code := catalogCode(t, err); code != pkgerrors.CodeValidation {
		t.Fatalf("expected validation for foreign variant, got %s", code)
	}

	if err := conn.Model(&models.Product{}).Where("id = ?", product.ID).Update("is_active", false).Error; err != nil {
		t.Fatalf("deactivate product: %v", err)
	}
	_, err = svc.Pricing(ctx, product.ID, nil, nil)
	if code := catalogCode(t, err); code != pkgerrors.CodeValidation {
		t.Fatalf("expected validation for inactive product, got %s", code)
	}

	_, err = svc.Pricing(ctx, uuid.New(), nil, nil)
	if code := catalogCode(t, err); code != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for unknown product, got %s", code)
	}
}

func seedPricedProduct2(t *testing.T, conn *gorm.DB) *models.Product {
	t.Helper()
	product := &models.Product{ID: uuid.New(), Name: "Prawns Large", Unit: "kg", PriceCents: 60000, Stock: 5, IsActive: true}
	if err := conn.Create(product).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return product
}

func TestCreateProductValidation(t *testing.T) {
	svc, _ := newCatalogService(t)
	ctx := context.Background()

	_, err := svc.CreateProduct(ctx, CreateProductInput{Name: "  ", PriceCents: 100})
	if code := catalogCode(t, err); code != pkgerrors.CodeValidation {
		t.Fatalf("expected validation for blank name, got %s", code)
	}
	_, err = svc.CreateProduct(ctx, CreateProductInput{Name: "Eggs Tray", PriceCents: 0})
	if code := catalogCode(t, err); code != pkgerrors.CodeValidation {
		t.Fatalf("expected validation for zero price, got %s", code)
	}
	_, err = svc.CreateProduct(ctx, CreateProductInput{Name: "Eggs Tray", PriceCents: 9000, Stock: -1})
	if code := catalogCode(t, err); code != pkgerrors.CodeValidation {
		t.Fatalf("expected validation for negative stock, got %s", code)
	}

	product, err := svc.CreateProduct(ctx, CreateProductInput{Name: " Eggs Tray ", PriceCents: 9000, Stock: 30})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if product.Name != "Eggs Tray" {
		t.Fatalf("expected trimmed name, got %q", product.Name)
	}
	if product.Unit != "piece" {
		t.Fatalf("expected default unit, got %q", product.Unit)
	}
	if !product.IsActive {
		t.Fatal("expected new products to be active")
	}
}

func TestUpdateProductPartialUpdates(t *testing.T) {
	svc, conn := newCatalogService(t)
	ctx := context.Background()
	product := seedPricedProduct(t, conn)

	newPrice := 13500
	updated, err := svc.UpdateProduct(ctx, product.ID, UpdateProductInput{PriceCents: &newPrice})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.PriceCents != 13500 {
		t.Fatalf("expected price 13500, got %d", updated.PriceCents)
	}
	if updated.Name != product.Name || updated.Stock != product.Stock {
		t.Fatal("expected untouched fields to survive a partial update")
	}

	badPrice := 0
	_, err = svc.UpdateProduct(ctx, product.ID, UpdateProductInput{PriceCents: &badPrice})
	if code := catalogCode(t, err); code != pkgerrors.CodeValidation {
		t.Fatalf("expected validation for zero price, got %s", code)
	}

	// An empty update is a plain read.
	same, err := svc.UpdateProduct(ctx, product.ID, UpdateProductInput{})
	if err != nil {
		t.Fatalf("empty update: %v", err)
	}
	if same.PriceCents != 13500 {
		t.Fatalf("expected price unchanged, got %d", same.PriceCents)
	}
}

func TestSetShopInventoryStoresDisabledRow(t *testing.T) {
	svc, conn := newCatalogService(t)
	ctx := context.Background()
	shopID := uuid.New()

	product, err := svc.CreateProduct(ctx, CreateProductInput{Name: "Duck Whole", PriceCents: 52000, Stock: 8})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}

	// First write for the pair inserts; the disabled flag must survive it.
	inv, err := svc.SetShopInventory(ctx, ShopInventoryInput{
		ShopID:    shopID,
		ProductID: product.ID,
		IsEnabled: false,
		Stock:     3,
	})
	if err != nil {
		t.Fatalf("set inventory: %v", err)
	}

	var stored models.ShopInventory
	if err := conn.First(&stored, "id = ?", inv.ID).Error; err != nil {
		t.Fatalf("load inventory: %v", err)
	}
	if stored.IsEnabled {
		t.Fatal("expected the inserted row to keep is_enabled=false")
	}

	_, err = svc.Pricing(ctx, product.ID, nil, &shopID)
	if code := catalogCode(t, err); code != pkgerrors.CodeValidation {
		t.Fatalf("expected pricing to reject the disabled row, got %s", code)
	}
}

func TestSetShopInventoryUpserts(t *testing.T) {
	svc, _ := newCatalogService(t)
	ctx := context.Background()
	shopID := uuid.New()

	product, err := svc.CreateProduct(ctx, CreateProductInput{Name: "Fish Fillet", PriceCents: 30000, Stock: 20})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}

	inv, err := svc.SetShopInventory(ctx, ShopInventoryInput{
		ShopID:             shopID,
		ProductID:          product.ID,
		IsEnabled:          true,
		PriceOverrideCents: intPtr(28000),
		Stock:              15,
	})
	if err != nil {
		t.Fatalf("set inventory: %v", err)
	}
	if inv.Stock != 15 || inv.PriceOverrideCents == nil || *inv.PriceOverrideCents != 28000 {
		t.Fatalf("unexpected inventory row: %+v", inv)
	}

	// Second write replaces the same row instead of inserting another.
	again, err := svc.SetShopInventory(ctx, ShopInventoryInput{
		ShopID:    shopID,
		ProductID: product.ID,
		IsEnabled: false,
		Stock:     0,
	})
	if err != nil {
		t.Fatalf("second set: %v", err)
	}
	if again.ID != inv.ID {
		t.Fatal("expected upsert to reuse the existing row")
	}
	if again.IsEnabled || again.PriceOverrideCents != nil {
		t.Fatalf("expected override cleared and row disabled: %+v", again)
	}

	_, err = svc.SetShopInventory(ctx, ShopInventoryInput{ShopID: shopID, ProductID: uuid.New(), Stock: 1})
	if code := catalogCode(t, err); code != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for unknown product, got %s", code)
	}
	_, err = svc.SetShopInventory(ctx, ShopInventoryInput{ShopID: uuid.Nil, ProductID: product.ID})
	if code := catalogCode(t, err); code != pkgerrors.CodeValidation {
		t.Fatalf("expected validation for nil shop, got %s", code)
	}
}
