package notifications

import (
	"context"
	"fmt"

	"github.com/freshkart/freshkart-backend/pkg/db/models"
	"github.com/freshkart/freshkart-backend/pkg/enums"
	pkgerrors "github.com/freshkart/freshkart-backend/pkg/errors"
	"github.com/freshkart/freshkart-backend/pkg/logger"
	"github.com/freshkart/freshkart-backend/pkg/pagination"
	"github.com/google/uuid"
)

// Dispatcher delivers a notification out of band (WhatsApp, email, push).
// Implementations must not block; failures are the caller's to log, never
// to surface.
type Dispatcher interface {
	Dispatch(ctx context.Context, event Event) error
}

// Event carries one order notification to be fanned out.
type Event struct {
	Type    enums.NotificationType
	OrderID uuid.UUID
	UserID  *uuid.UUID
	ShopID  *uuid.UUID
	Title   string
	Body    string
}

// Service records and serves notifications.
type Service interface {
	Notify(ctx context.Context, event Event)
	List(ctx context.Context, params ListParams) (*ListResult, error)
	MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error
}

type service struct {
	repo       Repository
	dispatcher Dispatcher
	logg       *logger.Logger
}

// NewService wires notification dependencies. Dispatcher may be nil; the
// persisted row is then the only delivery channel.
func NewService(repo Repository, dispatcher Dispatcher, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("notifications repository required")
	}
	return &service{repo: repo, dispatcher: dispatcher, logg: logg}, nil
}

// ListParams configures pagination for notifications.
type ListParams struct {
	UserID     uuid.UUID
	Limit      int
	Cursor     string
	UnreadOnly bool
}

// ListResult wraps returned notifications and the cursor for the next page.
type ListResult struct {
	Items  []models.Notification `json:"items"`
	Cursor string                `json:"cursor"`
}

// Notify stores the event and hands it to the dispatcher. Fire-and-forget:
// every failure is swallowed after logging so callers never fail on
// notification problems.
func (s *service) Notify(ctx context.Context, event Event) {
	defer func() {
		if rec := recover(); rec != nil && s.logg != nil {
			s.logg.Error(ctx, "notification.panic", fmt.Errorf("panic: %v", rec))
		}
	}()

	orderID := event.OrderID
	row := &models.Notification{
		ID:      uuid.New(),
		UserID:  event.UserID,
		ShopID:  event.ShopID,
		OrderID: &orderID,
		Type:    event.Type,
		Title:   event.Title,
		Body:    event.Body,
	}
	if err := s.repo.Create(ctx, row); err != nil {
		if s.logg != nil {
			s.logg.Error(ctx, "notification.store_failed", err)
		}
		return
	}

	if s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.Dispatch(ctx, event); err != nil && s.logg != nil {
		s.logg.Error(ctx, "notification.dispatch_failed", err)
	}
}

func (s *service) List(ctx context.Context, params ListParams) (*ListResult, error) {
	if params.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	query := listParams{
		UserID:     params.UserID,
		Limit:      pagination.LimitWithBuffer(params.Limit),
		UnreadOnly: params.UnreadOnly,
	}
	if params.Cursor != "" {
		cursor, err := pagination.ParseCursor(params.Cursor)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		query.Cursor = cursor
	}

	rows, next, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list notifications")
	}

	cursor := ""
	if next != nil {
		cursor = pagination.EncodeCursor(*next)
	}
	if rows == nil {
		rows = []models.Notification{}
	}
	return &ListResult{Items: rows, Cursor: cursor}, nil
}

func (s *service) MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	affected, err := s.repo.MarkRead(ctx, userID, notificationID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark notification read")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "notification not found")
	}
	return nil
}
