package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/pos-billing/internal/domain/entity"
)

// InvoiceRepository defines the interface for invoice data operations
type InvoiceRepository interface {
	// Count returns the number of invoices ever kept, used for fallback numbering
	Count(ctx context.Context) (int64, error)
	// Create inserts the header only; items are written with CreateItems
	Create(ctx context.Context, invoice *entity.Invoice) error
	CreateItems(ctx context.Context, items []entity.InvoiceItem) error
	// Delete removes the header and any items written for it
	Delete(ctx context.Context, id uuid.UUID) error
	GetByNumber(ctx context.Context, invoiceNumber string) (*entity.Invoice, error)
	// UpdateItemDelivery sets the delivered flag of one billed unit.
	// Returns false if no such item exists.
	UpdateItemDelivery(ctx context.Context, invoiceNumber, unitKey string, delivered bool) (bool, error)
}
