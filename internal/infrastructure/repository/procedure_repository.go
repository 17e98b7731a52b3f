package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sangkips/pos-billing/internal/domain/entity"
	domainRepo "github.com/sangkips/pos-billing/internal/domain/repository"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SQLSTATE codes the procedure adapter distinguishes
const (
	pgUndefinedFunction = "42883"
	pgRaiseException    = "P0001"
	pgUniqueViolation   = "23505"
	pgCheckViolation    = "23514"
)

type invoiceProcedure struct {
	db *gorm.DB
}

// NewInvoiceProcedure creates an adapter for the create_invoice_atomic database function
func NewInvoiceProcedure(db *gorm.DB) domainRepo.InvoiceProcedure {
	return &invoiceProcedure{db: db}
}

type disabledProcedure struct{}

// NewDisabledInvoiceProcedure returns a procedure that always reports itself
// unavailable, forcing the sequential path
func NewDisabledInvoiceProcedure() domainRepo.InvoiceProcedure {
	return disabledProcedure{}
}

func (disabledProcedure) Create(context.Context, *entity.Invoice, []entity.InvoiceItem) (*domainRepo.ProcedureResult, error) {
	return nil, domainRepo.ErrProcedureUnavailable
}

// procedureHeader carries enum columns as their stored integers
type procedureHeader struct {
	entity.Invoice
	PaymentStatus int `json:"payment_status"`
}

type procedurePayload struct {
	Invoice procedureHeader      `json:"invoice"`
	Items   []entity.InvoiceItem `json:"items"`
}

type procedureRow struct {
	InvoiceNumber string
	InvoiceID     uuid.UUID
}

func (p *invoiceProcedure) Create(ctx context.Context, invoice *entity.Invoice, items []entity.InvoiceItem) (*domainRepo.ProcedureResult, error) {
	payload, err := buildProcedurePayload(invoice, items)
	if err != nil {
		return nil, err
	}

	var row procedureRow
	err = p.db.WithContext(ctx).
		Raw("SELECT invoice_number, invoice_id FROM create_invoice_atomic(?::jsonb)", payload).
		Scan(&row).Error
	if err != nil {
		return nil, classifyProcedureError(err)
	}
	if row.InvoiceNumber == "" {
		return nil, errors.New("create_invoice_atomic returned no invoice")
	}

	return &domainRepo.ProcedureResult{
		InvoiceNumber: row.InvoiceNumber,
		InvoiceID:     row.InvoiceID,
	}, nil
}

func buildProcedurePayload(invoice *entity.Invoice, items []entity.InvoiceItem) (datatypes.JSON, error) {
	header := *invoice
	header.Items = nil
	if header.ID == uuid.Nil {
		header.ID = uuid.New()
	}

	raw, err := json.Marshal(procedurePayload{
		Invoice: procedureHeader{Invoice: header, PaymentStatus: int(invoice.PaymentStatus)},
		Items:   items,
	})
	if err != nil {
		return nil, fmt.Errorf("encode invoice payload: %w", err)
	}
	return datatypes.JSON(raw), nil
}

// classifyProcedureError maps driver errors to the procedure's error contract
func classifyProcedureError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case pgUndefinedFunction:
		return fmt.Errorf("%w: %s", domainRepo.ErrProcedureUnavailable, pgErr.Message)
	case pgRaiseException, pgUniqueViolation, pgCheckViolation:
		return &domainRepo.ProcedureRejectedError{Code: pgErr.Code, Message: pgErr.Message}
	}
	return err
}
