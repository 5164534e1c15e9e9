package cart

import (
	"context"
	"fmt"

	"github.com/freshkart/freshkart-backend/internal/catalog"
	"github.com/freshkart/freshkart-backend/pkg/db/models"
	pkgerrors "github.com/freshkart/freshkart-backend/pkg/errors"
	"github.com/google/uuid"
)

// Service exposes cart mutation for authenticated users.
//
// AddItem uses set semantics: the caller always sends the final desired
// quantity for the (product, variant) key and the engine overwrites.
// Clients that want accumulation add the existing quantity before calling.
// Stock is not validated here; order creation is the only stock gate.
type Service interface {
	AddItem(ctx context.Context, userID uuid.UUID, input AddItemInput) ([]models.CartItem, error)
	RemoveItem(ctx context.Context, userID, productID uuid.UUID, variantID *uuid.UUID) ([]models.CartItem, error)
	Clear(ctx context.Context, userID uuid.UUID) error
	List(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error)
}

type service struct {
	repo    Repository
	catalog catalog.Service
}

// NewService builds a cart service backed by the provided stack.
func NewService(repo Repository, catalogSvc catalog.Service) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if catalogSvc == nil {
		return nil, fmt.Errorf("catalog service required")
	}
	return &service{repo: repo, catalog: catalogSvc}, nil
}

// AddItemInput carries one cart mutation.
type AddItemInput struct {
	ProductID uuid.UUID
	VariantID *uuid.UUID
	Quantity  int
}

func (s *service) AddItem(ctx context.Context, userID uuid.UUID, input AddItemInput) ([]models.CartItem, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if input.ProductID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if input.Quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be a positive integer")
	}

	// Validates existence, active flag, and variant ownership.
	if _, err := s.catalog.Pricing(ctx, input.ProductID, input.VariantID, nil); err != nil {
		return nil, err
	}

	item := &models.CartItem{
		ID:        uuid.New(),
		UserID:    userID,
		ProductID: input.ProductID,
		VariantID: variantKey(input.VariantID),
		Quantity:  input.Quantity,
	}
	if err := s.repo.UpsertItem(ctx, item); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart item")
	}

	return s.List(ctx, userID)
}

// RemoveItem deletes the keyed row. Removing an absent key is not an
// error; the unchanged cart is returned.
func (s *service) RemoveItem(ctx context.Context, userID, productID uuid.UUID, variantID *uuid.UUID) ([]models.CartItem, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}

	if err := s.repo.DeleteItem(ctx, userID, productID, variantKey(variantID)); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove cart item")
	}
	return s.List(ctx, userID)
}

func (s *service) Clear(ctx context.Context, userID uuid.UUID) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if err := s.repo.Clear(ctx, userID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
	}
	return nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	items, err := s.repo.ListItems(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list cart items")
	}
	if items == nil {
		items = []models.CartItem{}
	}
	return items, nil
}

func variantKey(variantID *uuid.UUID) uuid.UUID {
	if variantID == nil {
		return uuid.Nil
	}
	return *variantID
}
