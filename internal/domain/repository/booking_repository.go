package repository

import (
	"context"
)

// BookingRepository defines the interface for customer reservations
type BookingRepository interface {
	// MarkInvoiced moves the customer's open bookings for unitKeys to invoiced
	// and returns how many bookings changed
	MarkInvoiced(ctx context.Context, customerMobile string, unitKeys []string, invoiceNumber string) (int64, error)
}
