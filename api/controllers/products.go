package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/freshkart/freshkart-backend/api/responses"
	"github.com/freshkart/freshkart-backend/api/validators"
	"github.com/freshkart/freshkart-backend/internal/catalog"
	"github.com/freshkart/freshkart-backend/pkg/logger"
)

type createProductRequest struct {
	CategoryID  *uuid.UUID `json:"category_id"`
	Name        string     `json:"name" validate:"required,min=1,max=200"`
	Description *string    `json:"description"`
	Unit        string     `json:"unit" validate:"required,min=1,max=40"`
	PriceCents  int        `json:"price_cents" validate:"required,min=1"`
	Stock       int        `json:"stock" validate:"min=0"`
	ImageURL    *string    `json:"image_url"`
}

type updateProductRequest struct {
	CategoryID  *uuid.UUID `json:"category_id"`
	Name        *string    `json:"name" validate:"omitempty,min=1,max=200"`
	Description *string    `json:"description"`
	Unit        *string    `json:"unit" validate:"omitempty,min=1,max=40"`
	PriceCents  *int       `json:"price_cents" validate:"omitempty,min=1"`
	Stock       *int       `json:"stock" validate:"omitempty,min=0"`
	ImageURL    *string    `json:"image_url"`
	IsActive    *bool      `json:"is_active"`
}

type shopInventoryRequest struct {
	ShopID             uuid.UUID `json:"shop_id" validate:"required"`
	ProductID          uuid.UUID `json:"product_id" validate:"required"`
	Stock              int       `json:"stock" validate:"min=0"`
	PriceOverrideCents *int      `json:"price_override_cents" validate:"omitempty,min=1"`
	IsEnabled          bool      `json:"is_enabled"`
}

func ProductList(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var categoryID *uuid.UUID
		if raw := r.URL.Query().Get("category_id"); raw != "" {
			parsed, err := validators.ParsePathUUID(raw, "category id")
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			categoryID = &parsed
		}

		items, err := svc.ListProducts(r.Context(), categoryID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, items)
	}
}

func ProductDetail(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := validators.ParsePathUUID(chi.URLParam(r, "productId"), "product id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		product, err := svc.GetProduct(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

func CategoryList(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListCategories(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, items)
	}
}

func AdminCreateProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createProductRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.CreateProduct(r.Context(), catalog.CreateProductInput{
			CategoryID:  req.CategoryID,
			Name:        req.Name,
			Description: req.Description,
			Unit:        req.Unit,
			PriceCents:  req.PriceCents,
			Stock:       req.Stock,
			ImageURL:    req.ImageURL,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

func AdminUpdateProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := validators.ParsePathUUID(chi.URLParam(r, "productId"), "product id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req updateProductRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.UpdateProduct(r.Context(), productID, catalog.UpdateProductInput{
			CategoryID:  req.CategoryID,
			Name:        req.Name,
			Description: req.Description,
			Unit:        req.Unit,
			PriceCents:  req.PriceCents,
			Stock:       req.Stock,
			ImageURL:    req.ImageURL,
			IsActive:    req.IsActive,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

// AdminSetShopInventory writes a shop's override row for one product.
func AdminSetShopInventory(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req shopInventoryRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		row, err := svc.SetShopInventory(r.Context(), catalog.ShopInventoryInput{
			ShopID:             req.ShopID,
			ProductID:          req.ProductID,
			Stock:              req.Stock,
			PriceOverrideCents: req.PriceOverrideCents,
			IsEnabled:          req.IsEnabled,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, row)
	}
}
