package catalog

import (
	"context"
	"errors"

	"github.com/freshkart/freshkart-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StockRequest identifies one stock adjustment. A non-nil ShopID prefers
// the shop-local counter when the shop carries an inventory row for the
// product; otherwise the master product counter applies, mirroring how
// Pricing resolves the selling shop.
type StockRequest struct {
	ProductID uuid.UUID
	ShopID    *uuid.UUID
	Qty       int
}

// stockCounter names which row holds the quantity for a request.
type stockCounter int

const (
	counterMaster stockCounter = iota
	counterShop
	counterNone
)

// resolveCounter picks the row a stock adjustment applies to. A disabled
// shop row means the shop does not sell the product, so nothing can be
// reserved there; Pricing rejects the same case before orders get here.
func resolveCounter(ctx context.Context, tx *gorm.DB, req StockRequest) (stockCounter, error) {
	if req.ShopID == nil {
		return counterMaster, nil
	}
	var inv models.ShopInventory
	err := tx.WithContext(ctx).
		Select("id", "is_enabled").
		Where("shop_id = ? AND product_id = ?", *req.ShopID, req.ProductID).
		First(&inv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return counterMaster, nil
	}
	if err != nil {
		return counterNone, err
	}
	if !inv.IsEnabled {
		return counterNone, nil
	}
	return counterShop, nil
}

// ReserveStock decrements the resolved stock counter for one request as a
// single conditional update. Returns false without error when the
// remaining stock is insufficient; the caller decides how to surface that.
func ReserveStock(ctx context.Context, tx *gorm.DB, req StockRequest) (bool, error) {
	if req.Qty <= 0 {
		return false, nil
	}

	counter, err := resolveCounter(ctx, tx, req)
	if err != nil {
		return false, err
	}

	var res *gorm.DB
	switch counter {
	case counterShop:
		res = tx.WithContext(ctx).
			Model(&models.ShopInventory{}).
			Where("shop_id = ? AND product_id = ? AND is_enabled = ? AND stock >= ?", *req.ShopID, req.ProductID, true, req.Qty).
			UpdateColumn("stock", gorm.Expr("stock - ?", req.Qty))
	case counterMaster:
		res = tx.WithContext(ctx).
			Model(&models.Product{}).
			Where("id = ? AND stock >= ?", req.ProductID, req.Qty).
			UpdateColumn("stock", gorm.Expr("stock - ?", req.Qty))
	default:
		return false, nil
	}
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// ReleaseStock returns previously reserved quantity to the counter the
// same resolution picks, so cancellations credit the row ReserveStock
// debited.
func ReleaseStock(ctx context.Context, tx *gorm.DB, req StockRequest) error {
	if req.Qty <= 0 {
		return nil
	}

	counter, err := resolveCounter(ctx, tx, req)
	if err != nil {
		return err
	}

	switch counter {
	case counterShop:
		return tx.WithContext(ctx).
			Model(&models.ShopInventory{}).
			Where("shop_id = ? AND product_id = ?", *req.ShopID, req.ProductID).
			UpdateColumn("stock", gorm.Expr("stock + ?", req.Qty)).Error
	case counterMaster:
		return tx.WithContext(ctx).
			Model(&models.Product{}).
			Where("id = ?", req.ProductID).
			UpdateColumn("stock", gorm.Expr("stock + ?", req.Qty)).Error
	default:
		return nil
	}
}
