package repository

import (
	"github.com/sangkips/pos-billing/internal/domain/enum"
	"gorm.io/gorm"
)

// byUnitKey filters a query to one stock unit
func byUnitKey(unitKey string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("unit_key = ?", unitKey)
	}
}

// openBookings filters bookings still waiting to be billed for a customer.
// An empty key list matches nothing.
func openBookings(customerMobile string, unitKeys []string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if len(unitKeys) == 0 {
			return db.Where("1 = 0")
		}
		return db.Where("customer_mobile = ? AND unit_key IN ? AND status = ?",
			customerMobile, unitKeys, enum.BookingStatusOpen)
	}
}

// withItems loads billed lines in a stable order
func withItems(db *gorm.DB) *gorm.DB {
	return db.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("line_no ASC")
	})
}
