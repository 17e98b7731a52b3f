package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/pos-billing/internal/domain/enum"
	"gorm.io/gorm"
)

// Booking is a customer's reservation of a stock unit ahead of billing
type Booking struct {
	ID             uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	CustomerMobile string             `gorm:"size:10;not null;index" json:"customer_mobile"`
	UnitKey        string             `gorm:"size:64;not null;index" json:"unit_key"`
	Status         enum.BookingStatus `gorm:"default:0;index" json:"status"`
	InvoiceNumber  *string            `gorm:"size:32" json:"invoice_number,omitempty"`
	InvoicedAt     *time.Time         `json:"invoiced_at,omitempty"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
}

// BeforeCreate generates a UUID before creating a new booking
func (b *Booking) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Booking model
func (Booking) TableName() string {
	return "bookings"
}
