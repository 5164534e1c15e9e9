package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/freshkart/freshkart-backend/api/responses"
	"github.com/freshkart/freshkart-backend/api/validators"
	internalorders "github.com/freshkart/freshkart-backend/internal/orders"
	"github.com/freshkart/freshkart-backend/pkg/db/models"
	"github.com/freshkart/freshkart-backend/pkg/logger"
)

type rejectOrderRequest struct {
	Reason string `json:"reason" validate:"required,min=1,max=500"`
}

type collectCashRequest struct {
	Amount1Cents int  `json:"amount_1_cents" validate:"required,min=1"`
	Amount2Cents *int `json:"amount_2_cents" validate:"omitempty,min=1"`
}

// DeliveryListOrders lists the orders assigned to the acting courier.
func DeliveryListOrders(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := userIDFromContext(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		params, err := listParamsFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		result, err := svc.ListAssigned(r.Context(), userID, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func DeliveryAcceptOrder(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return deliveryTransition(logg, func(r *http.Request, actor internalorders.Actor, orderID uuid.UUID) (*models.Order, error) {
		return svc.Accept(r.Context(), actor, orderID)
	})
}

func DeliveryRejectOrder(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorFromContext(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		orderID, err := validators.ParsePathUUID(chi.URLParam(r, "orderId"), "order id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req rejectOrderRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Reject(r.Context(), actor, orderID, req.Reason)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

func DeliveryOutForDelivery(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return deliveryTransition(logg, func(r *http.Request, actor internalorders.Actor, orderID uuid.UUID) (*models.Order, error) {
		return svc.MarkOutForDelivery(r.Context(), actor, orderID)
	})
}

func DeliveryMarkReached(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return deliveryTransition(logg, func(r *http.Request, actor internalorders.Actor, orderID uuid.UUID) (*models.Order, error) {
		return svc.MarkReached(r.Context(), actor, orderID)
	})
}

func DeliveryCollectCash(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorFromContext(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		orderID, err := validators.ParsePathUUID(chi.URLParam(r, "orderId"), "order id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req collectCashRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.CollectCash(r.Context(), actor, orderID, internalorders.CollectCashInput{
			Amount1Cents: req.Amount1Cents,
			Amount2Cents: req.Amount2Cents,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

func DeliveryMarkDelivered(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return deliveryTransition(logg, func(r *http.Request, actor internalorders.Actor, orderID uuid.UUID) (*models.Order, error) {
		return svc.MarkDelivered(r.Context(), actor, orderID)
	})
}

func deliveryTransition(logg *logger.Logger, apply func(*http.Request, internalorders.Actor, uuid.UUID) (*models.Order, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorFromContext(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		orderID, err := validators.ParsePathUUID(chi.URLParam(r, "orderId"), "order id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		order, err := apply(r, actor, orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}
