package service

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/sangkips/pos-billing/internal/domain/repository"
	"github.com/sangkips/pos-billing/pkg/apperror"
)

// ValidationError lists every field that blocked a checkout
type ValidationError struct {
	Fields []apperror.FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Field + ": " + f.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) HTTPStatus() int { return http.StatusUnprocessableEntity }

func (e *ValidationError) FieldErrors() []apperror.FieldError { return e.Fields }

func (e *ValidationError) add(field, message string) {
	e.Fields = append(e.Fields, apperror.FieldError{Field: field, Message: message})
}

// DuplicateItemError is returned when a unit is added to a cart twice
type DuplicateItemError struct {
	UnitKey string
}

func (e *DuplicateItemError) Error() string {
	return fmt.Sprintf("unit %s is already in the cart", e.UnitKey)
}

func (e *DuplicateItemError) HTTPStatus() int { return http.StatusConflict }

// OutOfStockError is returned when the ledger reports no stock for a unit
type OutOfStockError struct {
	UnitKey string
}

func (e *OutOfStockError) Error() string {
	return fmt.Sprintf("unit %s is out of stock", e.UnitKey)
}

func (e *OutOfStockError) HTTPStatus() int { return http.StatusConflict }

// PersistenceError wraps a storage failure. The message is the
// underlying error's, unchanged.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string { return e.Err.Error() }

func (e *PersistenceError) Unwrap() error { return e.Err }

// HTTPStatus is 409 when the atomic procedure refused the invoice, for
// example on insufficient stock, and 500 otherwise
func (e *PersistenceError) HTTPStatus() int {
	var rejected *repository.ProcedureRejectedError
	if errors.As(e.Err, &rejected) {
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// ItemWriteError means the invoice lines could not be written. The header
// has been removed.
type ItemWriteError struct {
	Err error
}

func (e *ItemWriteError) Error() string {
	return "failed to write invoice items: " + e.Err.Error()
}

func (e *ItemWriteError) Unwrap() error { return e.Err }

func (e *ItemWriteError) HTTPStatus() int { return http.StatusInternalServerError }

// StockDecrementError names the unit whose stock could not be taken.
// Earlier decrements have been reversed and the invoice removed.
type StockDecrementError struct {
	UnitKey string
	Err     error
}

func (e *StockDecrementError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("stock update failed for unit %s: %v", e.UnitKey, e.Err)
	}
	return fmt.Sprintf("insufficient stock for unit %s", e.UnitKey)
}

func (e *StockDecrementError) Unwrap() error { return e.Err }

func (e *StockDecrementError) HTTPStatus() int { return http.StatusConflict }

// BookingUpdateWarning records a booking status update that failed after the
// invoice was already persisted. It is reported, never returned as an error.
type BookingUpdateWarning struct {
	InvoiceNumber string
	Err           error
}

func (w *BookingUpdateWarning) Error() string {
	return fmt.Sprintf("invoice %s created but bookings were not updated: %v", w.InvoiceNumber, w.Err)
}

func (w *BookingUpdateWarning) Unwrap() error { return w.Err }
