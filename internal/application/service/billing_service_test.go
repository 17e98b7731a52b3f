package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sangkips/pos-billing/internal/domain/entity"
	"github.com/sangkips/pos-billing/internal/domain/enum"
	"github.com/sangkips/pos-billing/internal/domain/repository"
	"github.com/sangkips/pos-billing/internal/telemetry"
	"github.com/sangkips/pos-billing/pkg/apperror"
	"github.com/sangkips/pos-billing/pkg/gst"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const mobile = "9876543210"

var billingDay = time.Date(2026, 3, 15, 11, 30, 0, 0, time.UTC)

type billingFixture struct {
	svc       *BillingService
	invoices  *invoiceRepoMock
	ledger    *ledgerMock
	bookings  *bookingRepoMock
	procedure *procedureMock
	registry  *prometheus.Registry
}

func newBillingFixture(t *testing.T, opts BillingOptions) *billingFixture {
	t.Helper()
	f := &billingFixture{
		invoices:  new(invoiceRepoMock),
		ledger:    new(ledgerMock),
		bookings:  new(bookingRepoMock),
		procedure: new(procedureMock),
		registry:  prometheus.NewRegistry(),
	}
	f.svc = NewBillingService(f.invoices, f.ledger, f.bookings, f.procedure,
		telemetry.NewMetrics(f.registry), zap.NewNop(), opts)
	f.svc.now = func() time.Time { return billingDay }
	return f
}

func (f *billingFixture) assertExpectations(t *testing.T) {
	f.invoices.AssertExpectations(t)
	f.ledger.AssertExpectations(t)
	f.bookings.AssertExpectations(t)
	f.procedure.AssertExpectations(t)
}

// procedureMissing makes the atomic path report itself unavailable
func (f *billingFixture) procedureMissing() {
	f.procedure.On("Create", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("%w: function create_invoice_atomic(jsonb) does not exist", repository.ErrProcedureUnavailable))
}

// headerWritten expects the fallback header insert and assigns id to it
func (f *billingFixture) headerWritten(count int64, id uuid.UUID) {
	f.invoices.On("Count", mock.Anything).Return(count, nil)
	f.invoices.On("Create", mock.Anything, mock.AnythingOfType("*entity.Invoice")).
		Run(func(args mock.Arguments) { args.Get(1).(*entity.Invoice).ID = id }).
		Return(nil)
}

func cartOf(keys ...string) entity.Cart {
	cart := entity.Cart{}
	for _, k := range keys {
		cart.Items = append(cart.Items, line(k, "1000", "0"))
	}
	return cart
}

func checkout(cart entity.Cart) *CheckoutInput {
	return &CheckoutInput{Cart: cart, CustomerMobile: mobile, CustomerName: "Asha"}
}

// stocked registers a ledger unit matching each cart line
func (f *billingFixture) stocked(cart entity.Cart) {
	for _, li := range cart.Items {
		unit := &entity.StockUnit{
			UnitKey:  li.UnitKey,
			ItemName: li.ItemName,
			HSNCode:  li.HSNCode,
			MRP:      li.MRP,
			Quantity: 1,
			TaxLogic: li.TaxLogic,
		}
		f.ledger.On("GetByUnitKey", mock.Anything, li.UnitKey).Return(unit, nil).Maybe()
	}
}

// checkout is a submission of cart whose lines all exist in the ledger
func (f *billingFixture) checkout(cart entity.Cart) *CheckoutInput {
	f.stocked(cart)
	return checkout(cart)
}

func TestCreateInvoice_AtomicPath(t *testing.T) {
	ctx := context.Background()
	f := newBillingFixture(t, BillingOptions{SupplierState: "Karnataka"})
	id := uuid.New()

	var sent *entity.Invoice
	f.procedure.On("Create", mock.Anything, mock.AnythingOfType("*entity.Invoice"), mock.Anything).
		Run(func(args mock.Arguments) { sent = args.Get(1).(*entity.Invoice) }).
		Return(&repository.ProcedureResult{InvoiceNumber: "INV2026000007", InvoiceID: id}, nil)
	f.bookings.On("MarkInvoiced", mock.Anything, mobile, []string{"A", "B"}, "INV2026000007").Return(int64(2), nil)

	res, err := f.svc.CreateInvoice(ctx, f.checkout(cartOf("A", "B")))
	require.NoError(t, err)

	assert.Equal(t, "INV2026000007", res.InvoiceNumber)
	assert.Equal(t, id, res.InvoiceID)
	assert.Equal(t, entity.PathAtomic, res.Path)
	assert.Equal(t, gst.TypeCGSTSGST, res.GSTType)
	assert.EqualValues(t, 2, res.BookingsUpdated)
	assert.Empty(t, res.Warnings)
	assert.True(t, res.Totals.NetPayable.Equal(d("2000")))

	require.NotNil(t, sent)
	assert.Equal(t, "Karnataka", sent.SupplierState)
	assert.Equal(t, entity.PathAtomic, sent.PersistencePath)

	f.invoices.AssertNotCalled(t, "Count", mock.Anything)
	f.ledger.AssertNotCalled(t, "Adjust", mock.Anything, mock.Anything, mock.Anything)
	f.assertExpectations(t)

	assert.Equal(t, 1.0, checkoutCount(t, f.registry, "atomic", "created"))
}

func TestCreateInvoice_FallbackWhenProcedureMissing(t *testing.T) {
	ctx := context.Background()
	f := newBillingFixture(t, BillingOptions{})
	id := uuid.New()

	f.procedureMissing()
	f.headerWritten(41, id)
	f.invoices.On("CreateItems", mock.Anything, mock.MatchedBy(func(items []entity.InvoiceItem) bool {
		return len(items) == 2 && items[0].InvoiceID == id && items[1].InvoiceID == id
	})).Return(nil)
	f.ledger.On("Adjust", mock.Anything, "A", -1).Return(true, nil).Once()
	f.ledger.On("Adjust", mock.Anything, "B", -1).Return(true, nil).Once()
	f.bookings.On("MarkInvoiced", mock.Anything, mobile, []string{"A", "B"}, "INV2026000042").Return(int64(0), nil)

	res, err := f.svc.CreateInvoice(ctx, f.checkout(cartOf("A", "B")))
	require.NoError(t, err)

	assert.Equal(t, "INV2026000042", res.InvoiceNumber)
	assert.Equal(t, id, res.InvoiceID)
	assert.Equal(t, entity.PathFallback, res.Path)

	header := f.invoices.Calls[1].Arguments.Get(1).(*entity.Invoice)
	assert.Equal(t, entity.PathFallback, header.PersistencePath)
	f.invoices.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	f.assertExpectations(t)

	assert.Equal(t, 1.0, checkoutCount(t, f.registry, "fallback", "created"))
}

func TestCreateInvoice_FallbackStockFailureRollsBack(t *testing.T) {
	ctx := context.Background()
	f := newBillingFixture(t, BillingOptions{})
	id := uuid.New()

	f.procedureMissing()
	f.headerWritten(0, id)
	f.invoices.On("CreateItems", mock.Anything, mock.Anything).Return(nil)
	f.ledger.On("Adjust", mock.Anything, "A", -1).Return(true, nil).Once()
	f.ledger.On("Adjust", mock.Anything, "B", -1).Return(true, nil).Once()
	f.ledger.On("Adjust", mock.Anything, "C", -1).Return(false, nil).Once()
	f.ledger.On("Adjust", mock.Anything, "A", 1).Return(true, nil).Once()
	f.ledger.On("Adjust", mock.Anything, "B", 1).Return(true, nil).Once()
	f.invoices.On("Delete", mock.Anything, id).Return(nil)

	res, err := f.svc.CreateInvoice(ctx, f.checkout(cartOf("A", "B", "C", "D", "E")))
	require.Error(t, err)
	assert.Nil(t, res)

	var stockErr *StockDecrementError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "C", stockErr.UnitKey)
	assert.Contains(t, err.Error(), "C")
	assert.Equal(t, http.StatusConflict, apperror.GetAppError(err).Code)

	// decrements in cart order, then restores in the order taken
	var adjusts []string
	for _, call := range f.ledger.Calls {
		if call.Method != "Adjust" {
			continue
		}
		adjusts = append(adjusts, fmt.Sprintf("%s%+d", call.Arguments.String(1), call.Arguments.Int(2)))
	}
	assert.Equal(t, []string{"A-1", "B-1", "C-1", "A+1", "B+1"}, adjusts)

	f.ledger.AssertNotCalled(t, "Adjust", mock.Anything, "D", mock.Anything)
	f.ledger.AssertNotCalled(t, "Adjust", mock.Anything, "E", mock.Anything)
	f.bookings.AssertNotCalled(t, "MarkInvoiced", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.assertExpectations(t)

	assert.Equal(t, 1.0, checkoutCount(t, f.registry, "fallback", "failed"))
}

func TestCreateInvoice_RollbackFailuresAreJoined(t *testing.T) {
	ctx := context.Background()
	f := newBillingFixture(t, BillingOptions{})
	id := uuid.New()

	f.procedureMissing()
	f.headerWritten(0, id)
	f.invoices.On("CreateItems", mock.Anything, mock.Anything).Return(nil)
	f.ledger.On("Adjust", mock.Anything, "A", -1).Return(true, nil).Once()
	f.ledger.On("Adjust", mock.Anything, "B", -1).Return(false, errors.New("deadlock detected")).Once()
	f.ledger.On("Adjust", mock.Anything, "A", 1).Return(false, errors.New("connection lost")).Once()
	f.invoices.On("Delete", mock.Anything, id).Return(errors.New("connection lost"))

	_, err := f.svc.CreateInvoice(ctx, f.checkout(cartOf("A", "B")))
	require.Error(t, err)

	var stockErr *StockDecrementError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "B", stockErr.UnitKey)
	assert.Contains(t, err.Error(), "deadlock detected")
	assert.Contains(t, err.Error(), "restore stock for unit A")
	assert.Contains(t, err.Error(), "delete invoice INV2026000001")
	f.assertExpectations(t)
}

func TestCreateInvoice_ItemWriteFailureDeletesHeader(t *testing.T) {
	ctx := context.Background()
	f := newBillingFixture(t, BillingOptions{})
	id := uuid.New()

	f.procedureMissing()
	f.headerWritten(3, id)
	f.invoices.On("CreateItems", mock.Anything, mock.Anything).Return(errors.New("value too long"))
	f.invoices.On("Delete", mock.Anything, id).Return(nil)

	_, err := f.svc.CreateInvoice(ctx, f.checkout(cartOf("A")))

	var itemErr *ItemWriteError
	require.ErrorAs(t, err, &itemErr)
	assert.Contains(t, err.Error(), "value too long")
	f.ledger.AssertNotCalled(t, "Adjust", mock.Anything, mock.Anything, mock.Anything)
	f.assertExpectations(t)
}

func TestCreateInvoice_HeaderWriteFailure(t *testing.T) {
	f := newBillingFixture(t, BillingOptions{})

	f.procedureMissing()
	f.invoices.On("Count", mock.Anything).Return(int64(9), nil)
	f.invoices.On("Create", mock.Anything, mock.Anything).Return(errors.New("duplicate key value violates unique constraint"))

	_, err := f.svc.CreateInvoice(context.Background(), f.checkout(cartOf("A")))

	var perr *PersistenceError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "duplicate key value violates unique constraint", err.Error())
	f.invoices.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	f.assertExpectations(t)
}

func TestCreateInvoice_AtomicErrorIsFinal(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"rejected by procedure", &repository.ProcedureRejectedError{Code: "P0001", Message: "insufficient stock for unit B"}, http.StatusConflict},
		{"database failure", errors.New("connection refused"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newBillingFixture(t, BillingOptions{})
			f.procedure.On("Create", mock.Anything, mock.Anything, mock.Anything).Return(nil, tt.err)

			_, err := f.svc.CreateInvoice(context.Background(), f.checkout(cartOf("A", "B")))

			var perr *PersistenceError
			require.ErrorAs(t, err, &perr)
			assert.Equal(t, tt.err.Error(), err.Error())
			assert.Equal(t, tt.status, apperror.GetAppError(err).Code)
			f.invoices.AssertNotCalled(t, "Count", mock.Anything)
			f.ledger.AssertNotCalled(t, "Adjust", mock.Anything, mock.Anything, mock.Anything)
			f.bookings.AssertNotCalled(t, "MarkInvoiced", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestCreateInvoice_BookingFailureIsAWarning(t *testing.T) {
	f := newBillingFixture(t, BillingOptions{})
	f.procedure.On("Create", mock.Anything, mock.Anything, mock.Anything).
		Return(&repository.ProcedureResult{InvoiceNumber: "INV2026000003", InvoiceID: uuid.New()}, nil)
	f.bookings.On("MarkInvoiced", mock.Anything, mobile, []string{"A"}, "INV2026000003").
		Return(int64(0), errors.New("bookings table locked"))

	res, err := f.svc.CreateInvoice(context.Background(), f.checkout(cartOf("A")))
	require.NoError(t, err)

	assert.Equal(t, "INV2026000003", res.InvoiceNumber)
	require.NotNil(t, res.BookingWarning)
	assert.Equal(t, "INV2026000003", res.BookingWarning.InvoiceNumber)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "bookings table locked")
	f.assertExpectations(t)
}

func TestCreateInvoice_Validation(t *testing.T) {
	badLine := line("B", "-5", "0")
	badLine.TaxLogic = "GST_12"

	tests := []struct {
		name   string
		input  *CheckoutInput
		fields []string
	}{
		{"empty cart", checkout(entity.Cart{}), []string{"items"}},
		{"bad mobile", &CheckoutInput{Cart: cartOf("A"), CustomerMobile: "12345"}, []string{"customer_mobile"}},
		{"negative payment", &CheckoutInput{Cart: cartOf("A"), CustomerMobile: mobile, AmountPaid: d("-1")}, []string{"amount_paid"}},
		{"unknown gst type", &CheckoutInput{Cart: cartOf("A"), CustomerMobile: mobile, GSTType: "VAT"}, []string{"gst_type"}},
		{"duplicate unit", checkout(cartOf("A", "A")), []string{"items[1].unit_key"}},
		{"discount above mrp", checkout(entity.Cart{Items: []entity.LineItem{line("A", "100", "101")}}), []string{"items[0].discount_amount"}},
		{"bad line", checkout(entity.Cart{Items: []entity.LineItem{badLine}}), []string{"items[0].mrp", "items[0].discount_amount", "items[0].tax_logic"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newBillingFixture(t, BillingOptions{})

			_, err := f.svc.CreateInvoice(context.Background(), tt.input)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			var fields []string
			for _, fe := range verr.Fields {
				fields = append(fields, fe.Field)
			}
			assert.Equal(t, tt.fields, fields)

			appErr := apperror.GetAppError(err)
			assert.Equal(t, http.StatusUnprocessableEntity, appErr.Code)
			assert.NotEmpty(t, appErr.Errors)
			f.procedure.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestCreateInvoice_SlabBucketsAndHSN(t *testing.T) {
	cart := entity.Cart{Items: []entity.LineItem{
		line("A", "1000", "0"),
		line("B", "3000", "0"),
	}}
	cart.Items[1].DeliveredNow = true

	tests := []struct {
		name    string
		opts    BillingOptions
		input   func(*CheckoutInput)
		gstType gst.Type
		check   func(t *testing.T, h *entity.Invoice)
	}{
		{
			name:    "intra-state",
			opts:    BillingOptions{SupplierState: "Karnataka"},
			gstType: gst.TypeCGSTSGST,
			check: func(t *testing.T, h *entity.Invoice) {
				assert.True(t, h.CGST5.Equal(d("23.81")), h.CGST5.String())
				assert.True(t, h.SGST5.Equal(d("23.81")), h.SGST5.String())
				assert.True(t, h.CGST18.Equal(d("228.82")), h.CGST18.String())
				assert.True(t, h.SGST18.Equal(d("228.81")), h.SGST18.String())
				assert.True(t, h.IGST5.IsZero())
				assert.True(t, h.IGST18.IsZero())
			},
		},
		{
			name:    "explicit IGST",
			input:   func(in *CheckoutInput) { in.GSTType = gst.TypeIGST },
			gstType: gst.TypeIGST,
			check: func(t *testing.T, h *entity.Invoice) {
				assert.True(t, h.IGST5.Equal(d("47.62")))
				assert.True(t, h.IGST18.Equal(d("457.63")))
				assert.True(t, h.CGST5.IsZero())
				assert.True(t, h.SGST18.IsZero())
			},
		},
		{
			name:    "inter-state derivation enabled",
			opts:    BillingOptions{SupplierState: "Karnataka", InterStateIGST: true},
			input:   func(in *CheckoutInput) { in.CustomerState = "Kerala" },
			gstType: gst.TypeIGST,
			check: func(t *testing.T, h *entity.Invoice) {
				assert.True(t, h.IGST18.Equal(d("457.63")))
			},
		},
		{
			name:    "inter-state derivation disabled",
			opts:    BillingOptions{SupplierState: "Karnataka"},
			input:   func(in *CheckoutInput) { in.CustomerState = "Kerala" },
			gstType: gst.TypeCGSTSGST,
			check: func(t *testing.T, h *entity.Invoice) {
				assert.True(t, h.IGST18.IsZero())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newBillingFixture(t, tt.opts)
			var header *entity.Invoice
			var items []entity.InvoiceItem
			f.procedure.On("Create", mock.Anything, mock.Anything, mock.Anything).
				Run(func(args mock.Arguments) {
					header = args.Get(1).(*entity.Invoice)
					items = args.Get(2).([]entity.InvoiceItem)
				}).
				Return(&repository.ProcedureResult{InvoiceNumber: "INV2026000001", InvoiceID: uuid.New()}, nil)
			f.bookings.On("MarkInvoiced", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(int64(0), nil)

			in := f.checkout(cart)
			if tt.input != nil {
				tt.input(in)
			}
			res, err := f.svc.CreateInvoice(context.Background(), in)
			require.NoError(t, err)
			assert.Equal(t, tt.gstType, res.GSTType)

			require.NotNil(t, header)
			assert.Equal(t, tt.gstType, header.GSTType)
			assert.True(t, header.TotalGST.Equal(d("505.25")), header.TotalGST.String())
			assert.True(t, header.NetPayable.Equal(d("4000")))
			assert.True(t, header.InvoiceDate.Equal(billingDay))
			tt.check(t, header)

			require.Len(t, items, 2)
			assert.Equal(t, 1, items[0].LineNo)
			assert.Equal(t, "6404", items[0].HSNCode)
			assert.Equal(t, 5, items[0].GSTRate)
			assert.Nil(t, items[0].DeliveredAt)
			assert.Equal(t, 2, items[1].LineNo)
			assert.Equal(t, "6403", items[1].HSNCode)
			assert.Equal(t, 18, items[1].GSTRate)
			assert.True(t, items[1].DeliveredNow)
			require.NotNil(t, items[1].DeliveredAt)
			for _, it := range items {
				assert.True(t, it.CGSTAmount.Add(it.SGSTAmount).Add(it.IGSTAmount).Equal(it.GSTAmount))
			}
		})
	}
}

func TestCreateInvoice_LineHSNOverride(t *testing.T) {
	f := newBillingFixture(t, BillingOptions{})
	var items []entity.InvoiceItem
	f.procedure.On("Create", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { items = args.Get(2).([]entity.InvoiceItem) }).
		Return(&repository.ProcedureResult{InvoiceNumber: "INV2026000001", InvoiceID: uuid.New()}, nil)
	f.bookings.On("MarkInvoiced", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(int64(0), nil)

	cart := cartOf("A", "B")
	cart.Items[0].HSNCode = "6402"
	f.stocked(cart)
	// a line may omit the code and still get the unit's
	cart.Items[0].HSNCode = ""
	_, err := f.svc.CreateInvoice(context.Background(), checkout(cart))
	require.NoError(t, err)

	require.Len(t, items, 2)
	assert.Equal(t, "6402", items[0].HSNCode)
	assert.Equal(t, "6404", items[1].HSNCode)
}

func TestCreateInvoice_LinesMustMatchLedger(t *testing.T) {
	stocked := entity.StockUnit{UnitKey: "A", ItemName: "Runner A", HSNCode: "6403", MRP: d("3000"), Quantity: 1, TaxLogic: gst.LogicAuto518}

	tests := []struct {
		name   string
		edit   func(li *entity.LineItem)
		fields []string
	}{
		{"price lowered", func(li *entity.LineItem) { li.MRP = d("1") }, []string{"items[0].mrp"}},
		{"price and logic changed", func(li *entity.LineItem) {
			li.MRP = d("1")
			li.TaxLogic = gst.LogicFlat5
		}, []string{"items[0].mrp", "items[0].tax_logic"}},
		{"hsn changed", func(li *entity.LineItem) { li.HSNCode = "6404" }, []string{"items[0].hsn_code"}},
		{"unknown unit", func(li *entity.LineItem) { li.UnitKey = "GHOST" }, []string{"items[0].unit_key"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newBillingFixture(t, BillingOptions{})
			unit := stocked
			f.ledger.On("GetByUnitKey", mock.Anything, "A").Return(&unit, nil).Maybe()
			f.ledger.On("GetByUnitKey", mock.Anything, "GHOST").Return(nil, nil).Maybe()

			li := line("A", "3000", "0")
			li.HSNCode = "6403"
			tt.edit(&li)

			res, err := f.svc.CreateInvoice(context.Background(), checkout(entity.Cart{Items: []entity.LineItem{li}}))
			assert.Nil(t, res)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			var fields []string
			for _, fe := range verr.Fields {
				fields = append(fields, fe.Field)
			}
			assert.Equal(t, tt.fields, fields)
			assert.Equal(t, http.StatusUnprocessableEntity, apperror.GetAppError(err).Code)

			f.procedure.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
			f.ledger.AssertNotCalled(t, "Adjust", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestCreateInvoice_LedgerLookupFailure(t *testing.T) {
	f := newBillingFixture(t, BillingOptions{})
	f.ledger.On("GetByUnitKey", mock.Anything, "A").Return(nil, errors.New("connection reset"))

	_, err := f.svc.CreateInvoice(context.Background(), checkout(cartOf("A")))

	var perr *PersistenceError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "connection reset", err.Error())
	f.procedure.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	f.assertExpectations(t)
}

func TestPaymentState(t *testing.T) {
	tests := []struct {
		paid    string
		pending string
		status  enum.PaymentStatus
	}{
		{"0", "1000", enum.PaymentStatusPending},
		{"400", "600", enum.PaymentStatusPartial},
		{"1000", "0", enum.PaymentStatusPaid},
		{"1200", "0", enum.PaymentStatusPaid},
	}

	for _, tt := range tests {
		t.Run(tt.paid, func(t *testing.T) {
			pending, status := paymentState(d("1000"), d(tt.paid))
			assert.True(t, pending.Equal(d(tt.pending)), pending.String())
			assert.Equal(t, tt.status, status)
		})
	}
}

func TestFormatInvoiceNumber(t *testing.T) {
	assert.Equal(t, "INV2026000001", FormatInvoiceNumber(2026, 1))
	assert.Equal(t, "INV2026000042", FormatInvoiceNumber(2026, 42))
	assert.Equal(t, "INV20261234567", FormatInvoiceNumber(2026, 1234567))
}

func TestBillingService_GetInvoice(t *testing.T) {
	f := newBillingFixture(t, BillingOptions{})
	f.invoices.On("GetByNumber", mock.Anything, "INV2026000001").Return(&entity.Invoice{InvoiceNumber: "INV2026000001"}, nil)
	f.invoices.On("GetByNumber", mock.Anything, "INV2026000404").Return(nil, nil)

	inv, err := f.svc.GetInvoice(context.Background(), "INV2026000001")
	require.NoError(t, err)
	assert.Equal(t, "INV2026000001", inv.InvoiceNumber)

	_, err = f.svc.GetInvoice(context.Background(), "INV2026000404")
	assert.Equal(t, http.StatusNotFound, apperror.GetAppError(err).Code)
}

func TestBillingService_SetItemDelivered(t *testing.T) {
	f := newBillingFixture(t, BillingOptions{})
	f.invoices.On("UpdateItemDelivery", mock.Anything, "INV2026000001", "A", true).Return(true, nil)
	f.invoices.On("UpdateItemDelivery", mock.Anything, "INV2026000001", "Z", true).Return(false, nil)

	require.NoError(t, f.svc.SetItemDelivered(context.Background(), "INV2026000001", "A", true))

	err := f.svc.SetItemDelivered(context.Background(), "INV2026000001", "Z", true)
	assert.Equal(t, http.StatusNotFound, apperror.GetAppError(err).Code)
}

func TestCheckoutStateNames(t *testing.T) {
	assert.Equal(t, "validating", stateValidating.String())
	assert.Equal(t, "rollback_header", stateRollbackHeader.String())
	assert.Equal(t, "failed", stateFailed.String())
	assert.Equal(t, "unknown", checkoutState(99).String())
}

func checkoutCount(t *testing.T, reg *prometheus.Registry, path, outcome string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != "pos_billing_checkouts_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			labels := map[string]string{}
			for _, lp := range m.GetLabel() {
				labels[lp.GetName()] = lp.GetValue()
			}
			if labels["path"] == path && labels["outcome"] == outcome {
				return m.GetCounter().GetValue()
			}
		}
	}
	return 0
}
