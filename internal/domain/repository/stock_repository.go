package repository

import (
	"context"

	"github.com/sangkips/pos-billing/internal/domain/entity"
)

// StockLedger defines the interface for per-unit stock quantities
type StockLedger interface {
	// GetAvailable returns the quantity on hand for unitKey. Unknown units report 0.
	GetAvailable(ctx context.Context, unitKey string) (int, error)
	// Adjust atomically applies delta to the unit's quantity.
	// Returns (true, nil) if applied, (false, nil) if the quantity would go negative
	// or the unit does not exist, (false, err) on error.
	Adjust(ctx context.Context, unitKey string, delta int) (bool, error)
	// GetByUnitKey returns the unit or nil if it does not exist
	GetByUnitKey(ctx context.Context, unitKey string) (*entity.StockUnit, error)
}
