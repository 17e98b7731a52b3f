package service

import (
	"context"
	"time"

	"github.com/sangkips/pos-billing/internal/domain/entity"
	"github.com/sangkips/pos-billing/internal/domain/enum"
	"github.com/sangkips/pos-billing/internal/domain/repository"
	"github.com/sangkips/pos-billing/pkg/apperror"
	"github.com/sangkips/pos-billing/pkg/gst"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// CartService builds carts against the stock ledger. Carts are values held
// by the caller; the service keeps no per-cart state.
type CartService struct {
	ledger repository.StockLedger
	now    func() time.Time
}

// NewCartService creates a new cart service
func NewCartService(ledger repository.StockLedger) *CartService {
	return &CartService{ledger: ledger, now: time.Now}
}

// AutoDiscount is the promotional discount active on a unit today
type AutoDiscount struct {
	Amount  decimal.Decimal `json:"amount"`
	Percent decimal.Decimal `json:"percent"`
}

// ItemTax is the reverse-mode tax on one cart line
type ItemTax struct {
	UnitKey       string          `json:"unit_key"`
	NetValue      decimal.Decimal `json:"net_value"`
	TaxableValue  decimal.Decimal `json:"taxable_value"`
	GSTAmount     decimal.Decimal `json:"gst_amount"`
	GSTPercentage int             `json:"gst_percentage"`
}

// InvoiceTotals aggregates a cart. TaxableValue + TotalGST may differ from
// the unrounded net by a few paise; RoundOff shows the whole-rupee adjustment.
type InvoiceTotals struct {
	TotalMRP      decimal.Decimal `json:"total_mrp"`
	TotalDiscount decimal.Decimal `json:"total_discount"`
	TaxableValue  decimal.Decimal `json:"taxable_value"`
	TotalGST      decimal.Decimal `json:"total_gst"`
	RoundOff      decimal.Decimal `json:"round_off"`
	NetPayable    decimal.Decimal `json:"net_payable"`
	Items         []ItemTax       `json:"items"`
}

// AddUnit looks up unitKey and appends it to the cart
func (s *CartService) AddUnit(ctx context.Context, cart entity.Cart, unitKey string) (entity.Cart, error) {
	if cart.Contains(unitKey) {
		return cart, &DuplicateItemError{UnitKey: unitKey}
	}

	unit, err := s.ledger.GetByUnitKey(ctx, unitKey)
	if err != nil {
		return cart, err
	}
	if unit == nil {
		return cart, apperror.NewNotFoundError("Stock unit " + unitKey)
	}
	return s.AddItem(ctx, cart, unit)
}

// AddItem appends unit to a copy of cart, pre-filled with any active
// promotional discount. The duplicate check runs before the stock lookup.
func (s *CartService) AddItem(ctx context.Context, cart entity.Cart, unit *entity.StockUnit) (entity.Cart, error) {
	if cart.Contains(unit.UnitKey) {
		return cart, &DuplicateItemError{UnitKey: unit.UnitKey}
	}

	available, err := s.ledger.GetAvailable(ctx, unit.UnitKey)
	if err != nil {
		return cart, err
	}
	if available <= 0 {
		return cart, &OutOfStockError{UnitKey: unit.UnitKey}
	}

	auto := ComputeAutoDiscount(unit, s.now())

	out := cart.Clone()
	out.Items = append(out.Items, entity.LineItem{
		UnitKey:             unit.UnitKey,
		ItemName:            unit.ItemName,
		Brand:               unit.Brand,
		Size:                unit.Size,
		Color:               unit.Color,
		HSNCode:             unit.HSNCode,
		MRP:                 unit.MRP,
		DiscountAmount:      auto.Amount,
		DiscountPercent:     auto.Percent,
		AutoDiscountAmount:  auto.Amount,
		AutoDiscountPercent: auto.Percent,
		TaxLogic:            unitLogic(unit),
	})
	return out, nil
}

// ApplyDiscount sets the discount on one line of a copy of cart
func (s *CartService) ApplyDiscount(cart entity.Cart, unitKey string, value decimal.Decimal, isPercent bool) (entity.Cart, error) {
	idx := cart.IndexOf(unitKey)
	if idx < 0 {
		return cart, apperror.NewNotFoundError("Cart item " + unitKey)
	}
	out := cart.Clone()
	out.Items[idx] = UpdateDiscount(out.Items[idx], value, isPercent)
	return out, nil
}

// SetDelivered marks whether a line is handed over at the counter
func (s *CartService) SetDelivered(cart entity.Cart, unitKey string, delivered bool) (entity.Cart, error) {
	idx := cart.IndexOf(unitKey)
	if idx < 0 {
		return cart, apperror.NewNotFoundError("Cart item " + unitKey)
	}
	out := cart.Clone()
	out.Items[idx].DeliveredNow = delivered
	return out, nil
}

// RemoveItem drops a line from a copy of cart
func (s *CartService) RemoveItem(cart entity.Cart, unitKey string) (entity.Cart, error) {
	idx := cart.IndexOf(unitKey)
	if idx < 0 {
		return cart, apperror.NewNotFoundError("Cart item " + unitKey)
	}
	out := entity.Cart{Items: make([]entity.LineItem, 0, len(cart.Items)-1)}
	out.Items = append(out.Items, cart.Items[:idx]...)
	out.Items = append(out.Items, cart.Items[idx+1:]...)
	return out, nil
}

// ComputeAutoDiscount returns the unit's promotional discount if today falls
// inside its window. Missing bounds are open-ended; dates compare by day.
func ComputeAutoDiscount(unit *entity.StockUnit, today time.Time) AutoDiscount {
	none := AutoDiscount{Amount: decimal.Zero, Percent: decimal.Zero}
	if unit.DiscountType == enum.DiscountTypeNone || !unit.DiscountValue.IsPositive() {
		return none
	}

	day := dayOf(today)
	if unit.DiscountStartDate != nil && day.Before(dayOf(*unit.DiscountStartDate)) {
		return none
	}
	if unit.DiscountEndDate != nil && day.After(dayOf(*unit.DiscountEndDate)) {
		return none
	}

	switch unit.DiscountType {
	case enum.DiscountTypePercent:
		return AutoDiscount{
			Amount:  gst.Round2(unit.MRP.Mul(unit.DiscountValue).Div(hundred)),
			Percent: unit.DiscountValue,
		}
	case enum.DiscountTypeFlat:
		return AutoDiscount{
			Amount:  unit.DiscountValue,
			Percent: percentOf(unit.DiscountValue, unit.MRP),
		}
	}
	return none
}

// UpdateDiscount sets either the percent or the amount and recomputes the
// other. Values are not clamped; range checks happen at checkout.
func UpdateDiscount(item entity.LineItem, value decimal.Decimal, isPercent bool) entity.LineItem {
	if isPercent {
		item.DiscountPercent = value
		item.DiscountAmount = gst.Round2(item.MRP.Mul(value).Div(hundred))
		return item
	}
	item.DiscountAmount = value
	item.DiscountPercent = percentOf(value, item.MRP)
	return item
}

// ComputeTotals runs every line through reverse-mode GST on mrp - discount
// and rounds the payable amount to whole rupees, half away from zero.
func ComputeTotals(cart entity.Cart) InvoiceTotals {
	totals := InvoiceTotals{
		TotalMRP:      decimal.Zero,
		TotalDiscount: decimal.Zero,
		TaxableValue:  decimal.Zero,
		TotalGST:      decimal.Zero,
		Items:         make([]ItemTax, 0, len(cart.Items)),
	}

	for _, item := range cart.Items {
		net := item.NetValue()
		rev := gst.ComputeReverse(net, item.TaxLogic)

		totals.TotalMRP = totals.TotalMRP.Add(item.MRP)
		totals.TotalDiscount = totals.TotalDiscount.Add(item.DiscountAmount)
		totals.TaxableValue = totals.TaxableValue.Add(rev.BasePrice)
		totals.TotalGST = totals.TotalGST.Add(rev.GSTAmount)
		totals.Items = append(totals.Items, ItemTax{
			UnitKey:       item.UnitKey,
			NetValue:      net,
			TaxableValue:  rev.BasePrice,
			GSTAmount:     rev.GSTAmount,
			GSTPercentage: rev.GSTPercentage,
		})
	}

	gross := totals.TotalMRP.Sub(totals.TotalDiscount)
	net := gross.Round(0)
	if net.IsNegative() {
		net = decimal.Zero
	}
	totals.NetPayable = net
	totals.RoundOff = net.Sub(gross)
	return totals
}

func percentOf(amount, mrp decimal.Decimal) decimal.Decimal {
	if mrp.IsZero() {
		return decimal.Zero
	}
	return gst.Round2(amount.Div(mrp).Mul(hundred))
}

func dayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
