package shops

import (
	"context"

	"github.com/freshkart/freshkart-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository reads fulfillment shops.
type Repository interface {
	List(ctx context.Context, activeOnly bool) ([]models.Shop, error)
	Find(ctx context.Context, id uuid.UUID) (*models.Shop, error)
	Create(ctx context.Context, shop *models.Shop) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a shop repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) List(ctx context.Context, activeOnly bool) ([]models.Shop, error) {
	query := r.db.WithContext(ctx).Order("name ASC")
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	var shops []models.Shop
	if err := query.Find(&shops).Error; err != nil {
		return nil, err
	}
	return shops, nil
}

func (r *repository) Find(ctx context.Context, id uuid.UUID) (*models.Shop, error) {
	var shop models.Shop
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&shop).Error; err != nil {
		return nil, err
	}
	return &shop, nil
}

func (r *repository) Create(ctx context.Context, shop *models.Shop) error {
	return r.db.WithContext(ctx).Create(shop).Error
}
