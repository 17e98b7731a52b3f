package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/pos-billing/internal/domain/enum"
	"github.com/sangkips/pos-billing/pkg/gst"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// StockUnit is a single sellable unit tracked by the stock ledger
type StockUnit struct {
	ID                uuid.UUID         `gorm:"type:uuid;primary_key" json:"id"`
	UnitKey           string            `gorm:"size:64;uniqueIndex;not null" json:"unit_key"`
	ItemName          string            `gorm:"size:255;not null" json:"item_name"`
	Brand             string            `gorm:"size:100" json:"brand"`
	Size              string            `gorm:"size:20" json:"size"`
	Color             string            `gorm:"size:50" json:"color"`
	HSNCode           string            `gorm:"size:8" json:"hsn_code,omitempty"`
	MRP               decimal.Decimal   `gorm:"type:numeric(12,2);not null" json:"mrp"`
	Quantity          int               `gorm:"not null;default:0;check:chk_stock_units_quantity,quantity >= 0" json:"quantity"`
	TaxLogic          gst.Logic         `gorm:"size:16;not null;default:'AUTO_5_18'" json:"tax_logic"`
	DiscountType      enum.DiscountType `gorm:"default:0" json:"discount_type"`
	DiscountValue     decimal.Decimal   `gorm:"type:numeric(12,2);not null;default:0" json:"discount_value"`
	DiscountStartDate *time.Time        `gorm:"type:date" json:"discount_start_date,omitempty"`
	DiscountEndDate   *time.Time        `gorm:"type:date" json:"discount_end_date,omitempty"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
	DeletedAt         gorm.DeletedAt    `gorm:"index" json:"-"`
}

// BeforeCreate generates a UUID before creating a new stock unit
func (s *StockUnit) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the StockUnit model
func (StockUnit) TableName() string {
	return "stock_units"
}
