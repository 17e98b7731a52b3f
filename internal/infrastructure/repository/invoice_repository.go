package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/pos-billing/internal/domain/entity"
	domainRepo "github.com/sangkips/pos-billing/internal/domain/repository"
	"gorm.io/gorm"
)

type invoiceRepository struct {
	db *gorm.DB
}

// NewInvoiceRepository creates a new invoice repository
func NewInvoiceRepository(db *gorm.DB) domainRepo.InvoiceRepository {
	return &invoiceRepository{db: db}
}

func (r *invoiceRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&entity.Invoice{}).Count(&total).Error
	return total, err
}

func (r *invoiceRepository) Create(ctx context.Context, invoice *entity.Invoice) error {
	return r.db.WithContext(ctx).Omit("Items").Create(invoice).Error
}

func (r *invoiceRepository) CreateItems(ctx context.Context, items []entity.InvoiceItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

// Delete removes items explicitly so it does not depend on the FK cascade
func (r *invoiceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("invoice_id = ?", id).Delete(&entity.InvoiceItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&entity.Invoice{}, "id = ?", id).Error
	})
}

func (r *invoiceRepository) GetByNumber(ctx context.Context, invoiceNumber string) (*entity.Invoice, error) {
	var invoice entity.Invoice
	err := r.db.WithContext(ctx).
		Scopes(withItems).
		First(&invoice, "invoice_number = ?", invoiceNumber).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &invoice, err
}

func (r *invoiceRepository) UpdateItemDelivery(ctx context.Context, invoiceNumber, unitKey string, delivered bool) (bool, error) {
	var deliveredAt *time.Time
	if delivered {
		now := time.Now()
		deliveredAt = &now
	}

	db := r.db.WithContext(ctx)
	invoiceIDs := db.Model(&entity.Invoice{}).
		Select("id").
		Where("invoice_number = ?", invoiceNumber)

	result := db.Model(&entity.InvoiceItem{}).
		Where("invoice_id IN (?) AND unit_key = ?", invoiceIDs, unitKey).
		Updates(map[string]interface{}{
			"delivered_now": delivered,
			"delivered_at":  deliveredAt,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
