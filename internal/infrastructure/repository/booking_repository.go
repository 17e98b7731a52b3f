package repository

import (
	"context"
	"time"

	"github.com/sangkips/pos-billing/internal/domain/entity"
	"github.com/sangkips/pos-billing/internal/domain/enum"
	domainRepo "github.com/sangkips/pos-billing/internal/domain/repository"
	"gorm.io/gorm"
)

type bookingRepository struct {
	db *gorm.DB
}

// NewBookingRepository creates a new booking repository
func NewBookingRepository(db *gorm.DB) domainRepo.BookingRepository {
	return &bookingRepository{db: db}
}

func (r *bookingRepository) MarkInvoiced(ctx context.Context, customerMobile string, unitKeys []string, invoiceNumber string) (int64, error) {
	result := r.db.WithContext(ctx).Model(&entity.Booking{}).
		Scopes(openBookings(customerMobile, unitKeys)).
		Updates(map[string]interface{}{
			"status":         enum.BookingStatusInvoiced,
			"invoice_number": invoiceNumber,
			"invoiced_at":    time.Now(),
		})
	return result.RowsAffected, result.Error
}
