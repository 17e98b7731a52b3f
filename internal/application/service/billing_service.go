package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/pos-billing/internal/domain/entity"
	"github.com/sangkips/pos-billing/internal/domain/enum"
	"github.com/sangkips/pos-billing/internal/domain/repository"
	"github.com/sangkips/pos-billing/internal/telemetry"
	"github.com/sangkips/pos-billing/pkg/apperror"
	"github.com/sangkips/pos-billing/pkg/gst"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// HSN codes printed on billed lines, chosen by GST slab
const (
	HSNLowSlab  = "6404"
	HSNHighSlab = "6403"
)

var mobilePattern = regexp.MustCompile(`^\d{10}$`)

// BillingOptions configures invoice creation
type BillingOptions struct {
	SupplierState string
	// InterStateIGST bills customers from a different known state as IGST
	InterStateIGST bool
}

// BillingService creates invoices from carts and serves them afterwards
type BillingService struct {
	invoices  repository.InvoiceRepository
	ledger    repository.StockLedger
	bookings  repository.BookingRepository
	procedure repository.InvoiceProcedure
	metrics   *telemetry.Metrics
	log       *zap.Logger

	supplierState string
	deriveType    func(supplierState, customerState string) gst.Type
	now           func() time.Time
}

// NewBillingService creates a new billing service
func NewBillingService(
	invoices repository.InvoiceRepository,
	ledger repository.StockLedger,
	bookings repository.BookingRepository,
	procedure repository.InvoiceProcedure,
	metrics *telemetry.Metrics,
	log *zap.Logger,
	opts BillingOptions,
) *BillingService {
	if log == nil {
		log = zap.NewNop()
	}
	return &BillingService{
		invoices:      invoices,
		ledger:        ledger,
		bookings:      bookings,
		procedure:     procedure,
		metrics:       metrics,
		log:           log.Named("billing"),
		supplierState: opts.SupplierState,
		deriveType:    gst.Deriver(opts.InterStateIGST),
		now:           time.Now,
	}
}

// CheckoutInput is a cart submitted for invoicing
type CheckoutInput struct {
	Cart           entity.Cart
	CustomerMobile string
	CustomerName   string
	CustomerState  string
	// GSTType overrides the type derived from supplier and customer state
	GSTType     gst.Type
	AmountPaid  decimal.Decimal
	PaymentMode string
	CreatedBy   *uuid.UUID
}

// CheckoutResult describes a persisted invoice
type CheckoutResult struct {
	InvoiceNumber   string             `json:"invoice_number"`
	InvoiceID       uuid.UUID          `json:"invoice_id"`
	Path            string             `json:"path"`
	GSTType         gst.Type           `json:"gst_type"`
	Totals          InvoiceTotals      `json:"totals"`
	AmountPaid      decimal.Decimal    `json:"amount_paid"`
	AmountPending   decimal.Decimal    `json:"amount_pending"`
	PaymentStatus   enum.PaymentStatus `json:"payment_status"`
	BookingsUpdated int64              `json:"bookings_updated"`
	Warnings        []string           `json:"warnings,omitempty"`

	// BookingWarning is set when the booking update failed
	BookingWarning *BookingUpdateWarning `json:"-"`
}

type checkoutState int

const (
	stateValidating checkoutState = iota
	statePersistingAtomic
	stateFallbackHeaderWrite
	stateFallbackItemsWrite
	stateFallbackStockDecrement
	stateRollbackDecrements
	stateRollbackHeader
	stateBookingUpdate
	stateDone
	stateFailed
)

func (s checkoutState) String() string {
	names := [...]string{
		"validating",
		"persisting_atomic",
		"fallback_header_write",
		"fallback_items_write",
		"fallback_stock_decrement",
		"rollback_decrements",
		"rollback_header",
		"booking_update",
		"done",
		"failed",
	}
	if int(s) < 0 || int(s) >= len(names) {
		return "unknown"
	}
	return names[s]
}

// checkoutRun carries one submission through the state machine
type checkoutRun struct {
	input       *CheckoutInput
	header      *entity.Invoice
	items       []entity.InvoiceItem
	totals      InvoiceTotals
	path        string
	units       map[string]*entity.StockUnit
	decremented []string
	err         error
	result      *CheckoutResult
}

// CreateInvoice validates the cart and persists it, first through the atomic
// procedure and, if that is unavailable, through sequential writes that are
// undone on failure. The cart itself is never modified.
func (s *BillingService) CreateInvoice(ctx context.Context, input *CheckoutInput) (*CheckoutResult, error) {
	started := s.now()
	run := &checkoutRun{input: input, path: "none"}

	state := stateValidating
	for state != stateDone && state != stateFailed {
		next := s.step(ctx, run, state)
		s.log.Debug("checkout transition",
			zap.String("from", state.String()),
			zap.String("to", next.String()),
			zap.String("invoice_number", run.invoiceNumber()),
		)
		state = next
	}

	elapsed := s.now().Sub(started)
	if state == stateFailed {
		s.metrics.RecordCheckout(run.path, "failed", elapsed)
		s.log.Warn("checkout failed",
			zap.String("path", run.path),
			zap.String("customer_mobile", input.CustomerMobile),
			zap.Error(run.err),
		)
		return nil, run.err
	}

	s.metrics.RecordCheckout(run.path, "created", elapsed)
	s.log.Info("invoice created",
		zap.String("invoice_number", run.result.InvoiceNumber),
		zap.String("path", run.path),
		zap.String("net_payable", run.totals.NetPayable.String()),
		zap.Int("items", len(run.items)),
	)
	return run.result, nil
}

func (s *BillingService) step(ctx context.Context, run *checkoutRun, state checkoutState) checkoutState {
	switch state {
	case stateValidating:
		return s.validate(ctx, run)
	case statePersistingAtomic:
		return s.persistAtomic(ctx, run)
	case stateFallbackHeaderWrite:
		return s.writeHeader(ctx, run)
	case stateFallbackItemsWrite:
		return s.writeItems(ctx, run)
	case stateFallbackStockDecrement:
		return s.decrementStock(ctx, run)
	case stateRollbackDecrements:
		return s.rollbackDecrements(ctx, run)
	case stateRollbackHeader:
		return s.rollbackHeader(ctx, run)
	case stateBookingUpdate:
		return s.updateBookings(ctx, run)
	}
	run.err = fmt.Errorf("unexpected checkout state %s", state)
	return stateFailed
}

func (s *BillingService) validate(ctx context.Context, run *checkoutRun) checkoutState {
	if verr := validateCheckout(run.input); verr != nil {
		run.err = verr
		return stateFailed
	}

	units, verr, err := s.matchLedger(ctx, run.input.Cart)
	if err != nil {
		run.err = &PersistenceError{Err: err}
		return stateFailed
	}
	if verr != nil {
		run.err = verr
		return stateFailed
	}
	run.units = units

	s.buildDraft(run)
	return statePersistingAtomic
}

// matchLedger checks every line against its stock unit. Price, tax logic and
// HSN belong to the unit; only discount and delivery are set at the counter.
func (s *BillingService) matchLedger(ctx context.Context, cart entity.Cart) (map[string]*entity.StockUnit, *ValidationError, error) {
	verr := &ValidationError{}
	units := make(map[string]*entity.StockUnit, len(cart.Items))

	for i, item := range cart.Items {
		field := fmt.Sprintf("items[%d]", i)
		unit, err := s.ledger.GetByUnitKey(ctx, item.UnitKey)
		if err != nil {
			return nil, nil, err
		}
		if unit == nil {
			verr.add(field+".unit_key", "unit "+item.UnitKey+" does not exist")
			continue
		}
		units[item.UnitKey] = unit

		if !item.MRP.Equal(unit.MRP) {
			verr.add(field+".mrp", "does not match the stock unit price "+unit.MRP.StringFixed(2))
		}
		if item.TaxLogic != unitLogic(unit) {
			verr.add(field+".tax_logic", "does not match the stock unit tax logic "+unitLogic(unit).String())
		}
		if item.HSNCode != "" && item.HSNCode != unit.HSNCode {
			verr.add(field+".hsn_code", "does not match the stock unit HSN code")
		}
	}

	if len(verr.Fields) > 0 {
		return nil, verr, nil
	}
	return units, nil, nil
}

func unitLogic(unit *entity.StockUnit) gst.Logic {
	if unit.TaxLogic == "" {
		return gst.LogicAuto518
	}
	return unit.TaxLogic
}

func (s *BillingService) persistAtomic(ctx context.Context, run *checkoutRun) checkoutState {
	run.path = entity.PathAtomic
	res, err := s.procedure.Create(ctx, run.header, run.items)
	if err == nil {
		run.header.ID = res.InvoiceID
		run.header.InvoiceNumber = res.InvoiceNumber
		return stateBookingUpdate
	}

	if errors.Is(err, repository.ErrProcedureUnavailable) {
		s.log.Info("atomic invoice procedure unavailable, using sequential path", zap.Error(err))
		run.path = entity.PathFallback
		run.header.PersistencePath = entity.PathFallback
		return stateFallbackHeaderWrite
	}

	run.err = &PersistenceError{Err: err}
	return stateFailed
}

func (s *BillingService) writeHeader(ctx context.Context, run *checkoutRun) checkoutState {
	count, err := s.invoices.Count(ctx)
	if err != nil {
		run.err = &PersistenceError{Err: err}
		return stateFailed
	}

	run.header.InvoiceNumber = FormatInvoiceNumber(run.header.InvoiceDate.Year(), count+1)
	if err := s.invoices.Create(ctx, run.header); err != nil {
		run.err = &PersistenceError{Err: err}
		return stateFailed
	}
	return stateFallbackItemsWrite
}

func (s *BillingService) writeItems(ctx context.Context, run *checkoutRun) checkoutState {
	for i := range run.items {
		run.items[i].InvoiceID = run.header.ID
	}
	if err := s.invoices.CreateItems(ctx, run.items); err != nil {
		run.err = &ItemWriteError{Err: err}
		return stateRollbackHeader
	}
	return stateFallbackStockDecrement
}

// decrementStock takes one unit per line in cart order and stops at the first failure
func (s *BillingService) decrementStock(ctx context.Context, run *checkoutRun) checkoutState {
	for _, key := range run.input.Cart.UnitKeys() {
		ok, err := s.ledger.Adjust(ctx, key, -1)
		if err != nil || !ok {
			run.err = &StockDecrementError{UnitKey: key, Err: err}
			return stateRollbackDecrements
		}
		run.decremented = append(run.decremented, key)
	}
	return stateBookingUpdate
}

func (s *BillingService) rollbackDecrements(ctx context.Context, run *checkoutRun) checkoutState {
	ctx = context.WithoutCancel(ctx)
	for _, key := range run.decremented {
		ok, err := s.ledger.Adjust(ctx, key, 1)
		if err == nil && !ok {
			err = fmt.Errorf("unit %s not found", key)
		}
		s.metrics.RecordCompensation("restore_stock", err == nil)
		if err != nil {
			s.log.Error("failed to restore stock during rollback",
				zap.String("unit_key", key),
				zap.String("invoice_number", run.invoiceNumber()),
				zap.Error(err),
			)
			run.err = errors.Join(run.err, fmt.Errorf("restore stock for unit %s: %w", key, err))
		}
	}
	run.decremented = nil
	return stateRollbackHeader
}

func (s *BillingService) rollbackHeader(ctx context.Context, run *checkoutRun) checkoutState {
	ctx = context.WithoutCancel(ctx)
	err := s.invoices.Delete(ctx, run.header.ID)
	s.metrics.RecordCompensation("delete_invoice", err == nil)
	if err != nil {
		s.log.Error("failed to delete invoice during rollback",
			zap.String("invoice_number", run.invoiceNumber()),
			zap.Error(err),
		)
		run.err = errors.Join(run.err, fmt.Errorf("delete invoice %s: %w", run.invoiceNumber(), err))
	}
	return stateFailed
}

// updateBookings is best effort: the invoice already exists either way
func (s *BillingService) updateBookings(ctx context.Context, run *checkoutRun) checkoutState {
	run.result = &CheckoutResult{
		InvoiceNumber: run.header.InvoiceNumber,
		InvoiceID:     run.header.ID,
		Path:          run.path,
		GSTType:       run.header.GSTType,
		Totals:        run.totals,
		AmountPaid:    run.header.AmountPaid,
		AmountPending: run.header.AmountPending,
		PaymentStatus: run.header.PaymentStatus,
	}

	n, err := s.bookings.MarkInvoiced(ctx, run.input.CustomerMobile, run.input.Cart.UnitKeys(), run.header.InvoiceNumber)
	if err != nil {
		warning := &BookingUpdateWarning{InvoiceNumber: run.header.InvoiceNumber, Err: err}
		s.metrics.RecordBookingWarning()
		s.log.Warn("booking update failed", zap.String("invoice_number", run.header.InvoiceNumber), zap.Error(err))
		run.result.BookingWarning = warning
		run.result.Warnings = append(run.result.Warnings, warning.Error())
		return stateDone
	}
	run.result.BookingsUpdated = n
	return stateDone
}

func (run *checkoutRun) invoiceNumber() string {
	if run.header == nil {
		return ""
	}
	return run.header.InvoiceNumber
}

// buildDraft snapshots the cart into an invoice header and lines
func (s *BillingService) buildDraft(run *checkoutRun) {
	in := run.input
	totals := ComputeTotals(in.Cart)

	gstType := in.GSTType
	if gstType == "" {
		gstType = s.deriveType(s.supplierState, in.CustomerState)
	}

	header := &entity.Invoice{
		InvoiceDate:     s.now(),
		CustomerMobile:  in.CustomerMobile,
		CustomerName:    in.CustomerName,
		CustomerState:   in.CustomerState,
		SupplierState:   s.supplierState,
		GSTType:         gstType,
		TotalMRP:        totals.TotalMRP,
		TotalDiscount:   totals.TotalDiscount,
		TaxableValue:    totals.TaxableValue,
		TotalGST:        totals.TotalGST,
		RoundOff:        totals.RoundOff,
		NetPayable:      totals.NetPayable,
		CGST5:           decimal.Zero,
		SGST5:           decimal.Zero,
		CGST18:          decimal.Zero,
		SGST18:          decimal.Zero,
		IGST5:           decimal.Zero,
		IGST18:          decimal.Zero,
		PaymentMode:     in.PaymentMode,
		PersistencePath: entity.PathAtomic,
		CreatedBy:       in.CreatedBy,
	}

	items := make([]entity.InvoiceItem, len(in.Cart.Items))
	for i, line := range in.Cart.Items {
		tax := totals.Items[i]
		split := gst.Split(tax.GSTAmount, gstType)
		addToSlab(header, tax.GSTPercentage, split)

		hsn := line.HSNCode
		if unit := run.units[line.UnitKey]; hsn == "" && unit != nil {
			hsn = unit.HSNCode
		}
		if hsn == "" {
			hsn = HSNForRate(tax.GSTPercentage)
		}

		items[i] = entity.InvoiceItem{
			LineNo:          i + 1,
			UnitKey:         line.UnitKey,
			ItemName:        line.ItemName,
			Brand:           line.Brand,
			Size:            line.Size,
			Color:           line.Color,
			HSNCode:         hsn,
			MRP:             line.MRP,
			DiscountAmount:  line.DiscountAmount,
			DiscountPercent: line.DiscountPercent,
			NetValue:        tax.NetValue,
			TaxableValue:    tax.TaxableValue,
			GSTRate:         tax.GSTPercentage,
			GSTAmount:       tax.GSTAmount,
			CGSTAmount:      split.CGSTAmount,
			SGSTAmount:      split.SGSTAmount,
			IGSTAmount:      split.IGSTAmount,
			TaxLogic:        line.TaxLogic,
			DeliveredNow:    line.DeliveredNow,
		}
		if line.DeliveredNow {
			at := header.InvoiceDate
			items[i].DeliveredAt = &at
		}
	}

	header.AmountPaid = in.AmountPaid
	header.AmountPending, header.PaymentStatus = paymentState(totals.NetPayable, in.AmountPaid)

	run.header = header
	run.items = items
	run.totals = totals
}

func addToSlab(header *entity.Invoice, rate int, split gst.Breakdown) {
	if rate == gst.RateLow {
		header.CGST5 = header.CGST5.Add(split.CGSTAmount)
		header.SGST5 = header.SGST5.Add(split.SGSTAmount)
		header.IGST5 = header.IGST5.Add(split.IGSTAmount)
		return
	}
	header.CGST18 = header.CGST18.Add(split.CGSTAmount)
	header.SGST18 = header.SGST18.Add(split.SGSTAmount)
	header.IGST18 = header.IGST18.Add(split.IGSTAmount)
}

// HSNForRate returns the HSN code used for lines without an explicit one
func HSNForRate(rate int) string {
	if rate == gst.RateLow {
		return HSNLowSlab
	}
	return HSNHighSlab
}

// FormatInvoiceNumber renders INV<year><6-digit sequence>
func FormatInvoiceNumber(year int, seq int64) string {
	return fmt.Sprintf("INV%d%06d", year, seq)
}

func paymentState(net, paid decimal.Decimal) (decimal.Decimal, enum.PaymentStatus) {
	pending := net.Sub(paid)
	if pending.IsNegative() {
		pending = decimal.Zero
	}

	switch {
	case paid.GreaterThanOrEqual(net):
		return pending, enum.PaymentStatusPaid
	case paid.IsPositive():
		return pending, enum.PaymentStatusPartial
	default:
		return pending, enum.PaymentStatusPending
	}
}

func validateCheckout(in *CheckoutInput) *ValidationError {
	verr := &ValidationError{}

	if len(in.Cart.Items) == 0 {
		verr.add("items", "cart is empty")
	}
	if !mobilePattern.MatchString(in.CustomerMobile) {
		verr.add("customer_mobile", "must be a 10-digit mobile number")
	}
	if in.AmountPaid.IsNegative() {
		verr.add("amount_paid", "must not be negative")
	}
	if in.GSTType != "" && !in.GSTType.Valid() {
		verr.add("gst_type", "must be CGST_SGST or IGST")
	}

	seen := make(map[string]bool, len(in.Cart.Items))
	for i, item := range in.Cart.Items {
		field := fmt.Sprintf("items[%d]", i)
		switch {
		case item.UnitKey == "":
			verr.add(field+".unit_key", "is required")
		case seen[item.UnitKey]:
			verr.add(field+".unit_key", "unit "+item.UnitKey+" appears more than once")
		}
		seen[item.UnitKey] = true

		if item.MRP.IsNegative() {
			verr.add(field+".mrp", "must not be negative")
		}
		if item.DiscountAmount.IsNegative() || item.DiscountAmount.GreaterThan(item.MRP) {
			verr.add(field+".discount_amount", "must be between 0 and mrp")
		}
		if !item.TaxLogic.Valid() {
			verr.add(field+".tax_logic", "must be AUTO_5_18 or FLAT_5")
		}
	}

	if len(verr.Fields) > 0 {
		return verr
	}
	return nil
}

// GetInvoice returns an invoice with its lines
func (s *BillingService) GetInvoice(ctx context.Context, invoiceNumber string) (*entity.Invoice, error) {
	invoice, err := s.invoices.GetByNumber(ctx, invoiceNumber)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, apperror.NewNotFoundError("Invoice")
	}
	return invoice, nil
}

// SetItemDelivered records whether a billed unit has been handed over
func (s *BillingService) SetItemDelivered(ctx context.Context, invoiceNumber, unitKey string, delivered bool) error {
	ok, err := s.invoices.UpdateItemDelivery(ctx, invoiceNumber, unitKey, delivered)
	if err != nil {
		return err
	}
	if !ok {
		return apperror.NewNotFoundError("Invoice item")
	}
	s.log.Info("invoice item delivery updated",
		zap.String("invoice_number", invoiceNumber),
		zap.String("unit_key", unitKey),
		zap.Bool("delivered", delivered),
	)
	return nil
}
