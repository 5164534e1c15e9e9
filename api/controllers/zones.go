package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/freshkart/freshkart-backend/api/responses"
	"github.com/freshkart/freshkart-backend/api/validators"
	"github.com/freshkart/freshkart-backend/internal/zones"
	"github.com/freshkart/freshkart-backend/pkg/logger"
)

type zoneCheckRequest struct {
	Pincode string   `json:"pincode"`
	Lat     *float64 `json:"lat"`
	Lng     *float64 `json:"lng"`
}

type zoneWriteRequest struct {
	Pincode          string     `json:"pincode" validate:"required,min=4,max=10"`
	Lat              *float64   `json:"lat"`
	Lng              *float64   `json:"lng"`
	RadiusKM         *float64   `json:"radius_km" validate:"omitempty,gt=0"`
	IsActive         bool       `json:"is_active"`
	FastDelivery     bool       `json:"fast_delivery"`
	ShopID           *uuid.UUID `json:"shop_id"`
	DeliveryFeeCents int        `json:"delivery_fee_cents" validate:"min=0"`
}

func (req zoneWriteRequest) toInput() zones.ZoneInput {
	return zones.ZoneInput{
		Pincode:          req.Pincode,
		Lat:              req.Lat,
		Lng:              req.Lng,
		RadiusKM:         req.RadiusKM,
		IsActive:         req.IsActive,
		FastDelivery:     req.FastDelivery,
		ShopID:           req.ShopID,
		DeliveryFeeCents: req.DeliveryFeeCents,
	}
}

func ZoneList(svc zones.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, items)
	}
}

// ZoneCheck classifies an address without touching any state.
func ZoneCheck(svc zones.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req zoneCheckRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Match(r.Context(), zones.MatchQuery{
			Pincode: req.Pincode,
			Lat:     req.Lat,
			Lng:     req.Lng,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func AdminCreateZone(svc zones.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req zoneWriteRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		zone, err := svc.Create(r.Context(), req.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, zone)
	}
}

func AdminUpdateZone(svc zones.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		zoneID, err := validators.ParsePathUUID(chi.URLParam(r, "zoneId"), "zone id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var req zoneWriteRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		zone, err := svc.Update(r.Context(), zoneID, req.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, zone)
	}
}

func AdminDeleteZone(svc zones.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		zoneID, err := validators.ParsePathUUID(chi.URLParam(r, "zoneId"), "zone id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Delete(r.Context(), zoneID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
