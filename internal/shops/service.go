package shops

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/freshkart/freshkart-backend/pkg/db/models"
	pkgerrors "github.com/freshkart/freshkart-backend/pkg/errors"
)

// Service exposes fulfillment shop reads and the minimal admin write.
type Service interface {
	List(ctx context.Context, activeOnly bool) ([]models.Shop, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Shop, error)
	Create(ctx context.Context, input CreateInput) (*models.Shop, error)
}

type service struct {
	repo Repository
}

// NewService builds the shop service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("shop repository required")
	}
	return &service{repo: repo}, nil
}

// CreateInput carries the operator payload for a new fulfillment shop.
type CreateInput struct {
	Name             string
	Address          string
	Pincode          string
	Lat              float64
	Lng              float64
	DeliveryRadiusKM float64
	IsActive         bool
}

func (s *service) List(ctx context.Context, activeOnly bool) ([]models.Shop, error) {
	shops, err := s.repo.List(ctx, activeOnly)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list shops")
	}
	if shops == nil {
		shops = []models.Shop{}
	}
	return shops, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Shop, error) {
	shop, err := s.repo.Find(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "shop not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load shop")
	}
	return shop, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.Shop, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shop name is required")
	}
	if strings.TrimSpace(input.Address) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shop address is required")
	}
	if input.DeliveryRadiusKM < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "delivery radius cannot be negative")
	}

	shop := &models.Shop{
		ID:               uuid.New(),
		Name:             strings.TrimSpace(input.Name),
		Address:          strings.TrimSpace(input.Address),
		Pincode:          strings.TrimSpace(input.Pincode),
		Lat:              input.Lat,
		Lng:              input.Lng,
		DeliveryRadiusKM: input.DeliveryRadiusKM,
		IsActive:         input.IsActive,
	}
	if err := s.repo.Create(ctx, shop); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create shop")
	}
	return shop, nil
}
