package request

import (
	"github.com/sangkips/pos-billing/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// CartRequest carries the caller-held cart
type CartRequest struct {
	Cart entity.Cart `json:"cart"`
}

// AddCartItemRequest represents the add-to-cart request body
type AddCartItemRequest struct {
	Cart    entity.Cart `json:"cart"`
	UnitKey string      `json:"unit_key" binding:"required,max=64"`
}

// UpdateDiscountRequest represents a discount edit on one cart line
type UpdateDiscountRequest struct {
	Cart      entity.Cart      `json:"cart"`
	Value     *decimal.Decimal `json:"value" binding:"required"`
	IsPercent bool             `json:"is_percent"`
}

// SetCartDeliveryRequest toggles whether a line is handed over at billing
type SetCartDeliveryRequest struct {
	Cart         entity.Cart `json:"cart"`
	DeliveredNow *bool       `json:"delivered_now" binding:"required"`
}
