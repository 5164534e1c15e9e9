package zones

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/freshkart/freshkart-backend/pkg/db/models"
	pkgerrors "github.com/freshkart/freshkart-backend/pkg/errors"
	"github.com/freshkart/freshkart-backend/pkg/geo"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service decides delivery availability for an address.
type Service interface {
	Match(ctx context.Context, query MatchQuery) (*MatchResult, error)
	List(ctx context.Context) ([]models.DeliveryZone, error)
	Create(ctx context.Context, input ZoneInput) (*models.DeliveryZone, error)
	Update(ctx context.Context, id uuid.UUID, input ZoneInput) (*models.DeliveryZone, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo Repository
}

// NewService builds the zone matcher.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("zones repository required")
	}
	return &service{repo: repo}, nil
}

// MatchQuery identifies the address being classified. Pincode and
// coordinates are both optional but at least one must be present.
type MatchQuery struct {
	Pincode string
	Lat     *float64
	Lng     *float64
}

// MatchResult classifies the queried address.
type MatchResult struct {
	Available        bool       `json:"available"`
	FastEligible     bool       `json:"fast_eligible"`
	ShopID           *uuid.UUID `json:"shop_id,omitempty"`
	DeliveryFeeCents int        `json:"delivery_fee_cents"`
}

// ZoneInput carries the admin payload for zone writes.
type ZoneInput struct {
	Pincode          string
	Lat              *float64
	Lng              *float64
	RadiusKM         *float64
	IsActive         bool
	FastDelivery     bool
	ShopID           *uuid.UUID
	DeliveryFeeCents int
}

// Match classifies the address against active zones. Exact pincode match
// takes precedence over radius matches. When several zones match, a
// fast-delivery zone wins; ties break on the smallest radius.
func (s *service) Match(ctx context.Context, query MatchQuery) (*MatchResult, error) {
	pincode := strings.TrimSpace(query.Pincode)
	hasCoords := query.Lat != nil && query.Lng != nil
	if pincode == "" && !hasCoords {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "pincode or coordinates are required")
	}

	active, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load delivery zones")
	}

	var matched []models.DeliveryZone
	if pincode != "" {
		for _, zone := range active {
			if zone.Pincode == pincode {
				matched = append(matched, zone)
			}
		}
	}
	if len(matched) == 0 && hasCoords {
		for _, zone := range active {
			if zone.Lat == nil || zone.Lng == nil || zone.RadiusKM == nil {
				continue
			}
			if geo.IsWithinRadiusKM(*query.Lat, *query.Lng, *zone.Lat, *zone.Lng, *zone.RadiusKM) {
				matched = append(matched, zone)
			}
		}
	}

	if len(matched) == 0 {
		return &MatchResult{}, nil
	}

	best := pickBest(matched)
	return &MatchResult{
		Available:        true,
		FastEligible:     best.FastDelivery,
		ShopID:           best.ShopID,
		DeliveryFeeCents: best.DeliveryFeeCents,
	}, nil
}

func pickBest(matched []models.DeliveryZone) models.DeliveryZone {
	best := matched[0]
	for _, zone := range matched[1:] {
		if zone.FastDelivery != best.FastDelivery {
			if zone.FastDelivery {
				best = zone
			}
			continue
		}
		if zoneRadius(zone) < zoneRadius(best) {
			best = zone
		}
	}
	return best
}

func zoneRadius(zone models.DeliveryZone) float64 {
	if zone.RadiusKM == nil {
		return math.MaxFloat64
	}
	return *zone.RadiusKM
}

func (s *service) List(ctx context.Context) ([]models.DeliveryZone, error) {
	zones, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list delivery zones")
	}
	return zones, nil
}

func (s *service) Create(ctx context.Context, input ZoneInput) (*models.DeliveryZone, error) {
	if err := validateZoneInput(input); err != nil {
		return nil, err
	}
	zone := &models.DeliveryZone{
		ID:               uuid.New(),
		Pincode:          strings.TrimSpace(input.Pincode),
		Lat:              input.Lat,
		Lng:              input.Lng,
		RadiusKM:         input.RadiusKM,
		IsActive:         input.IsActive,
		FastDelivery:     input.FastDelivery,
		ShopID:           input.ShopID,
		DeliveryFeeCents: input.DeliveryFeeCents,
	}
	if err := s.repo.Create(ctx, zone); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create delivery zone")
	}
	return zone, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input ZoneInput) (*models.DeliveryZone, error) {
	if err := validateZoneInput(input); err != nil {
		return nil, err
	}
	if _, err := s.repo.Find(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "delivery zone not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load delivery zone")
	}

	updates := map[string]any{
		"pincode":            strings.TrimSpace(input.Pincode),
		"lat":                input.Lat,
		"lng":                input.Lng,
		"radius_km":          input.RadiusKM,
		"is_active":          input.IsActive,
		"fast_delivery":      input.FastDelivery,
		"shop_id":            input.ShopID,
		"delivery_fee_cents": input.DeliveryFeeCents,
	}
	if err := s.repo.Update(ctx, id, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update delivery zone")
	}
	return s.repo.Find(ctx, id)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete delivery zone")
	}
	return nil
}

func validateZoneInput(input ZoneInput) error {
	hasPincode := strings.TrimSpace(input.Pincode) != ""
	hasRadius := input.Lat != nil && input.Lng != nil && input.RadiusKM != nil
	if !hasPincode && !hasRadius {
		return pkgerrors.New(pkgerrors.CodeValidation, "zone needs a pincode or coordinates with a radius")
	}
	if input.RadiusKM != nil && *input.RadiusKM <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "zone radius must be positive")
	}
	if input.DeliveryFeeCents < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "delivery fee cannot be negative")
	}
	return nil
}
