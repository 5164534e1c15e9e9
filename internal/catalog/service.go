package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/freshkart/freshkart-backend/pkg/db/models"
	pkgerrors "github.com/freshkart/freshkart-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service exposes catalog reads, pricing resolution, and admin writes.
type Service interface {
	ListProducts(ctx context.Context, categoryID *uuid.UUID) ([]models.Product, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
	Pricing(ctx context.Context, productID uuid.UUID, variantID *uuid.UUID, shopID *uuid.UUID) (*PricedProduct, error)

	CreateProduct(ctx context.Context, input CreateProductInput) (*models.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*models.Product, error)
	SetShopInventory(ctx context.Context, input ShopInventoryInput) (*models.ShopInventory, error)
}

type service struct {
	repo Repository
}

// NewService builds the catalog service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &service{repo: repo}, nil
}

// PricedProduct resolves the sell price of a (product, variant) pair in an
// optional shop context: shop price override first, then variant price,
// then the master price.
type PricedProduct struct {
	Product        *models.Product
	VariantID      uuid.UUID
	Name           string
	UnitPriceCents int
}

// CreateProductInput carries the admin payload for a new listing.
type CreateProductInput struct {
	CategoryID  *uuid.UUID
	Name        string
	Description *string
	Unit        string
	PriceCents  int
	Stock       int
	ImageURL    *string
}

// UpdateProductInput lists the mutable listing fields; nil means unchanged.
type UpdateProductInput struct {
	CategoryID  *uuid.UUID
	Name        *string
	Description *string
	Unit        *string
	PriceCents  *int
	Stock       *int
	ImageURL    *string
	IsActive    *bool
}

// ShopInventoryInput sets a shop's override row for a product.
type ShopInventoryInput struct {
	ShopID             uuid.UUID
	ProductID          uuid.UUID
	IsEnabled          bool
	PriceOverrideCents *int
	Stock              int
}

func (s *service) ListProducts(ctx context.Context, categoryID *uuid.UUID) ([]models.Product, error) {
	products, err := s.repo.ListProducts(ctx, categoryID, true)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return products, nil
}

func (s *service) ListCategories(ctx context.Context) ([]models.Category, error) {
	categories, err := s.repo.ListCategories(ctx, true)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list categories")
	}
	return categories, nil
}

func (s *service) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, err := s.repo.FindProduct(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return product, nil
}

func (s *service) Pricing(ctx context.Context, productID uuid.UUID, variantID *uuid.UUID, shopID *uuid.UUID) (*PricedProduct, error) {
	product, err := s.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !product.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product is not available").
			WithDetails(map[string]any{"product": product.Name})
	}

	priced := &PricedProduct{
		Product:        product,
		Name:           product.Name,
		UnitPriceCents: product.PriceCents,
	}

	if variantID != nil && *variantID != uuid.Nil {
		variant, err := s.repo.FindVariant(ctx, *variantID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product variant not found")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load variant")
		}
		if variant.ProductID != productID {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "variant does not belong to product")
		}
		priced.VariantID = variant.ID
		priced.Name = product.Name + " " + variant.Label
		if variant.PriceCents != nil {
			priced.UnitPriceCents = *variant.PriceCents
		}
	}

	if shopID != nil {
		inv, err := s.repo.FindShopInventory(ctx, *shopID, productID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load shop inventory")
		}
		if inv != nil {
			if !inv.IsEnabled {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, "product is not available at this shop").
					WithDetails(map[string]any{"product": product.Name})
			}
			if inv.PriceOverrideCents != nil {
				priced.UnitPriceCents = *inv.PriceOverrideCents
			}
		}
	}

	return priced, nil
}

func (s *service) CreateProduct(ctx context.Context, input CreateProductInput) (*models.Product, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name is required")
	}
	if input.PriceCents <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product price must be positive")
	}
	if input.Stock < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product stock cannot be negative")
	}

	unit := input.Unit
	if unit == "" {
		unit = "piece"
	}
	product := &models.Product{
		ID:          uuid.New(),
		CategoryID:  input.CategoryID,
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
		Unit:        unit,
		PriceCents:  input.PriceCents,
		Stock:       input.Stock,
		ImageURL:    input.ImageURL,
		IsActive:    true,
	}
	if err := s.repo.CreateProduct(ctx, product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}
	return product, nil
}

func (s *service) UpdateProduct(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*models.Product, error) {
	updates := map[string]any{}
	if input.CategoryID != nil {
		updates["category_id"] = *input.CategoryID
	}
	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name cannot be empty")
		}
		updates["name"] = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.Unit != nil {
		updates["unit"] = *input.Unit
	}
	if input.PriceCents != nil {
		if *input.PriceCents <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "product price must be positive")
		}
		updates["price_cents"] = *input.PriceCents
	}
	if input.Stock != nil {
		if *input.Stock < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "product stock cannot be negative")
		}
		updates["stock"] = *input.Stock
	}
	if input.ImageURL != nil {
		updates["image_url"] = *input.ImageURL
	}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
	}
	if len(updates) == 0 {
		return s.GetProduct(ctx, id)
	}

	if err := s.repo.UpdateProduct(ctx, id, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
	}
	return s.GetProduct(ctx, id)
}

func (s *service) SetShopInventory(ctx context.Context, input ShopInventoryInput) (*models.ShopInventory, error) {
	if input.ShopID == uuid.Nil || input.ProductID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shop id and product id are required")
	}
	if input.Stock < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shop stock cannot be negative")
	}
	if _, err := s.GetProduct(ctx, input.ProductID); err != nil {
		return nil, err
	}

	inv, err := s.repo.FindShopInventory(ctx, input.ShopID, input.ProductID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load shop inventory")
	}
	if inv == nil {
		inv = &models.ShopInventory{
			ID:        uuid.New(),
			ShopID:    input.ShopID,
			ProductID: input.ProductID,
		}
	}
	inv.IsEnabled = input.IsEnabled
	inv.PriceOverrideCents = input.PriceOverrideCents
	inv.Stock = input.Stock

	if err := s.repo.UpsertShopInventory(ctx, inv); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save shop inventory")
	}
	return inv, nil
}
