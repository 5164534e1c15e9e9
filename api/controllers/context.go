package controllers

import (
	"context"

	"github.com/google/uuid"

	"github.com/freshkart/freshkart-backend/api/middleware"
	"github.com/freshkart/freshkart-backend/internal/orders"
	"github.com/freshkart/freshkart-backend/pkg/enums"
	pkgerrors "github.com/freshkart/freshkart-backend/pkg/errors"
)

// actorFromContext rebuilds the authenticated actor from context values the
// auth middleware seeded.
func actorFromContext(ctx context.Context) (orders.Actor, error) {
	rawUser := middleware.UserIDFromContext(ctx)
	if rawUser == "" {
		return orders.Actor{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials")
	}
	userID, err := uuid.Parse(rawUser)
	if err != nil {
		return orders.Actor{}, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid user identity")
	}
	role, err := enums.ParseRole(middleware.RoleFromContext(ctx))
	if err != nil {
		return orders.Actor{}, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid actor role")
	}

	actor := orders.Actor{UserID: userID, Role: role}
	if rawShop := middleware.ShopIDFromContext(ctx); rawShop != "" {
		shopID, err := uuid.Parse(rawShop)
		if err != nil {
			return orders.Actor{}, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid shop identity")
		}
		actor.ShopID = &shopID
	}
	return actor, nil
}

// userIDFromContext is the short form for routes that only need identity.
func userIDFromContext(ctx context.Context) (uuid.UUID, error) {
	actor, err := actorFromContext(ctx)
	if err != nil {
		return uuid.Nil, err
	}
	return actor.UserID, nil
}
