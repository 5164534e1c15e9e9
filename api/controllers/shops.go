package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/freshkart/freshkart-backend/api/responses"
	"github.com/freshkart/freshkart-backend/api/validators"
	"github.com/freshkart/freshkart-backend/internal/shops"
	"github.com/freshkart/freshkart-backend/pkg/logger"
)

type shopCreateRequest struct {
	Name             string  `json:"name" validate:"required,min=2,max=120"`
	Address          string  `json:"address" validate:"required,min=4"`
	Pincode          string  `json:"pincode" validate:"omitempty,min=4,max=10"`
	Lat              float64 `json:"lat"`
	Lng              float64 `json:"lng"`
	DeliveryRadiusKM float64 `json:"delivery_radius_km" validate:"min=0"`
	IsActive         bool    `json:"is_active"`
}

// ShopList serves active fulfillment shops to any caller.
func ShopList(svc shops.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.List(r.Context(), true)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, items)
	}
}

func AdminListShops(svc shops.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.List(r.Context(), false)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, items)
	}
}

func AdminShopDetail(svc shops.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		shopID, err := validators.ParsePathUUID(chi.URLParam(r, "shopId"), "shop id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		shop, err := svc.Get(r.Context(), shopID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, shop)
	}
}

func AdminCreateShop(svc shops.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req shopCreateRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		shop, err := svc.Create(r.Context(), shops.CreateInput{
			Name:             req.Name,
			Address:          req.Address,
			Pincode:          req.Pincode,
			Lat:              req.Lat,
			Lng:              req.Lng,
			DeliveryRadiusKM: req.DeliveryRadiusKM,
			IsActive:         req.IsActive,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, shop)
	}
}
