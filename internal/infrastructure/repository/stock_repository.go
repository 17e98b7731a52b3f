package repository

import (
	"context"
	"errors"

	"github.com/sangkips/pos-billing/internal/domain/entity"
	domainRepo "github.com/sangkips/pos-billing/internal/domain/repository"
	"gorm.io/gorm"
)

type stockLedger struct {
	db *gorm.DB
}

// NewStockLedger creates a new stock ledger backed by the stock_units table
func NewStockLedger(db *gorm.DB) domainRepo.StockLedger {
	return &stockLedger{db: db}
}

func (r *stockLedger) GetAvailable(ctx context.Context, unitKey string) (int, error) {
	var quantities []int
	err := r.db.WithContext(ctx).Model(&entity.StockUnit{}).
		Scopes(byUnitKey(unitKey)).
		Limit(1).
		Pluck("quantity", &quantities).Error
	if err != nil || len(quantities) == 0 {
		return 0, err
	}
	return quantities[0], nil
}

func (r *stockLedger) GetByUnitKey(ctx context.Context, unitKey string) (*entity.StockUnit, error) {
	var unit entity.StockUnit
	err := r.db.WithContext(ctx).Scopes(byUnitKey(unitKey)).First(&unit).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &unit, err
}

// Adjust applies delta only if the result stays non-negative.
// Uses: UPDATE stock_units SET quantity = quantity + delta WHERE unit_key = ? AND quantity + delta >= 0
func (r *stockLedger) Adjust(ctx context.Context, unitKey string, delta int) (bool, error) {
	result := r.db.WithContext(ctx).Model(&entity.StockUnit{}).
		Scopes(byUnitKey(unitKey)).
		Where("quantity + ? >= 0", delta).
		Update("quantity", gorm.Expr("quantity + ?", delta))

	if result.Error != nil {
		return false, result.Error
	}

	// No rows affected: unit missing or not enough stock
	return result.RowsAffected > 0, nil
}
