package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/pos-billing/internal/domain/entity"
)

// ErrProcedureUnavailable means the atomic invoice procedure is not installed
// or is disabled. Callers may fall back to the sequential path.
var ErrProcedureUnavailable = errors.New("atomic invoice procedure unavailable")

// ProcedureRejectedError is returned when the procedure ran and refused the
// invoice. Nothing was persisted.
type ProcedureRejectedError struct {
	Code    string
	Message string
}

func (e *ProcedureRejectedError) Error() string {
	if e.Code == "" {
		return e.Message
	}
	return e.Message + " (" + e.Code + ")"
}

// ProcedureResult identifies the invoice written by the procedure
type ProcedureResult struct {
	InvoiceNumber string
	InvoiceID     uuid.UUID
}

// InvoiceProcedure persists header, items and stock decrements as one unit
type InvoiceProcedure interface {
	// Create returns ErrProcedureUnavailable when the procedure cannot be
	// called, *ProcedureRejectedError when it refused, or another error on failure.
	Create(ctx context.Context, invoice *entity.Invoice, items []entity.InvoiceItem) (*ProcedureResult, error)
}
