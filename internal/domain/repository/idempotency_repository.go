package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/pos-billing/internal/domain/entity"
)

// IdempotencyRepository defines the interface for replayable checkout responses
type IdempotencyRepository interface {
	// GetByKey retrieves a stored response by key and user, or nil if none
	GetByKey(ctx context.Context, key string, userID uuid.UUID) (*entity.IdempotencyKey, error)
	Create(ctx context.Context, ikey *entity.IdempotencyKey) error
	// DeleteExpired purges keys that expired before now and reports how many
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
