package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/pos-billing/internal/domain/enum"
	"github.com/sangkips/pos-billing/pkg/gst"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Persistence paths recorded on an invoice
const (
	PathAtomic   = "atomic"
	PathFallback = "fallback"
)

// Invoice is a persisted GST bill header. Invoices are hard-deleted only
// when a fallback checkout is compensated.
type Invoice struct {
	ID              uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	InvoiceNumber   string             `gorm:"size:32;uniqueIndex;not null" json:"invoice_number"`
	InvoiceDate     time.Time          `gorm:"not null" json:"invoice_date"`
	CustomerMobile  string             `gorm:"size:10;not null;index" json:"customer_mobile"`
	CustomerName    string             `gorm:"size:255" json:"customer_name"`
	CustomerState   string             `gorm:"size:64" json:"customer_state"`
	SupplierState   string             `gorm:"size:64" json:"supplier_state"`
	GSTType         gst.Type           `gorm:"column:gst_type;size:16;not null" json:"gst_type"`
	TotalMRP        decimal.Decimal    `gorm:"column:total_mrp;type:numeric(12,2);not null" json:"total_mrp"`
	TotalDiscount   decimal.Decimal    `gorm:"type:numeric(12,2);not null" json:"total_discount"`
	TaxableValue    decimal.Decimal    `gorm:"type:numeric(12,2);not null" json:"taxable_value"`
	TotalGST        decimal.Decimal    `gorm:"column:total_gst;type:numeric(12,2);not null" json:"total_gst"`
	RoundOff        decimal.Decimal    `gorm:"type:numeric(12,2);not null;default:0" json:"round_off"`
	NetPayable      decimal.Decimal    `gorm:"type:numeric(12,2);not null" json:"net_payable"`
	CGST5           decimal.Decimal    `gorm:"column:cgst_5;type:numeric(12,2);not null;default:0" json:"cgst_5"`
	SGST5           decimal.Decimal    `gorm:"column:sgst_5;type:numeric(12,2);not null;default:0" json:"sgst_5"`
	CGST18          decimal.Decimal    `gorm:"column:cgst_18;type:numeric(12,2);not null;default:0" json:"cgst_18"`
	SGST18          decimal.Decimal    `gorm:"column:sgst_18;type:numeric(12,2);not null;default:0" json:"sgst_18"`
	IGST5           decimal.Decimal    `gorm:"column:igst_5;type:numeric(12,2);not null;default:0" json:"igst_5"`
	IGST18          decimal.Decimal    `gorm:"column:igst_18;type:numeric(12,2);not null;default:0" json:"igst_18"`
	AmountPaid      decimal.Decimal    `gorm:"type:numeric(12,2);not null;default:0" json:"amount_paid"`
	AmountPending   decimal.Decimal    `gorm:"type:numeric(12,2);not null;default:0" json:"amount_pending"`
	PaymentStatus   enum.PaymentStatus `gorm:"default:0" json:"payment_status"`
	PaymentMode     string             `gorm:"size:32" json:"payment_mode"`
	PersistencePath string             `gorm:"size:16;not null" json:"persistence_path"`
	CreatedBy       *uuid.UUID         `gorm:"type:uuid;index" json:"created_by,omitempty"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`

	Items []InvoiceItem `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

// BeforeCreate generates a UUID before creating a new invoice
func (i *Invoice) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Invoice model
func (Invoice) TableName() string {
	return "invoices"
}

// InvoiceItem is the immutable snapshot of a billed line. Only the
// delivery flag changes after the invoice is written.
type InvoiceItem struct {
	ID              uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	InvoiceID       uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_invoice_items_unit" json:"invoice_id"`
	LineNo          int             `gorm:"not null;default:0" json:"line_no"`
	UnitKey         string          `gorm:"size:64;not null;uniqueIndex:idx_invoice_items_unit" json:"unit_key"`
	ItemName        string          `gorm:"size:255;not null" json:"item_name"`
	Brand           string          `gorm:"size:100" json:"brand"`
	Size            string          `gorm:"size:20" json:"size"`
	Color           string          `gorm:"size:50" json:"color"`
	HSNCode         string          `gorm:"column:hsn_code;size:8;not null" json:"hsn_code"`
	MRP             decimal.Decimal `gorm:"column:mrp;type:numeric(12,2);not null" json:"mrp"`
	DiscountAmount  decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"discount_amount"`
	DiscountPercent decimal.Decimal `gorm:"type:numeric(7,2);not null;default:0" json:"discount_percent"`
	NetValue        decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"net_value"`
	TaxableValue    decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"taxable_value"`
	GSTRate         int             `gorm:"column:gst_rate;not null" json:"gst_rate"`
	GSTAmount       decimal.Decimal `gorm:"column:gst_amount;type:numeric(12,2);not null" json:"gst_amount"`
	CGSTAmount      decimal.Decimal `gorm:"column:cgst_amount;type:numeric(12,2);not null;default:0" json:"cgst_amount"`
	SGSTAmount      decimal.Decimal `gorm:"column:sgst_amount;type:numeric(12,2);not null;default:0" json:"sgst_amount"`
	IGSTAmount      decimal.Decimal `gorm:"column:igst_amount;type:numeric(12,2);not null;default:0" json:"igst_amount"`
	TaxLogic        gst.Logic       `gorm:"size:16;not null" json:"tax_logic"`
	DeliveredNow    bool            `gorm:"not null;default:false" json:"delivered_now"`
	DeliveredAt     *time.Time      `json:"delivered_at,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// BeforeCreate generates a UUID before creating a new invoice item
func (it *InvoiceItem) BeforeCreate(tx *gorm.DB) error {
	if it.ID == uuid.Nil {
		it.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the InvoiceItem model
func (InvoiceItem) TableName() string {
	return "invoice_items"
}
