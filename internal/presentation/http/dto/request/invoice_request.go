package request

import (
	"github.com/sangkips/pos-billing/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// CreateInvoiceRequest represents a checkout submission
type CreateInvoiceRequest struct {
	Cart           entity.Cart     `json:"cart"`
	CustomerMobile string          `json:"customer_mobile" binding:"required"`
	CustomerName   string          `json:"customer_name" binding:"max=255"`
	CustomerState  string          `json:"customer_state" binding:"max=64"`
	GSTType        string          `json:"gst_type" binding:"omitempty,oneof=CGST_SGST IGST"`
	AmountPaid     decimal.Decimal `json:"amount_paid"`
	PaymentMode    string          `json:"payment_mode" binding:"omitempty,oneof=cash card upi credit mixed"`
}

// UpdateItemDeliveryRequest sets the delivered flag of a billed unit
type UpdateItemDeliveryRequest struct {
	Delivered *bool `json:"delivered" binding:"required"`
}
