package entity

import (
	"github.com/sangkips/pos-billing/pkg/gst"
	"github.com/shopspring/decimal"
)

// LineItem is one stock unit in a cart. Each unit key appears at most once.
type LineItem struct {
	UnitKey             string          `json:"unit_key"`
	ItemName            string          `json:"item_name"`
	Brand               string          `json:"brand,omitempty"`
	Size                string          `json:"size,omitempty"`
	Color               string          `json:"color,omitempty"`
	HSNCode             string          `json:"hsn_code,omitempty"`
	MRP                 decimal.Decimal `json:"mrp"`
	DiscountAmount      decimal.Decimal `json:"discount_amount"`
	DiscountPercent     decimal.Decimal `json:"discount_percent"`
	AutoDiscountAmount  decimal.Decimal `json:"auto_discount_amount"`
	AutoDiscountPercent decimal.Decimal `json:"auto_discount_percent"`
	TaxLogic            gst.Logic       `json:"tax_logic"`
	DeliveredNow        bool            `json:"delivered_now"`
}

// NetValue is the tax-inclusive amount charged for the line
func (li LineItem) NetValue() decimal.Decimal {
	return li.MRP.Sub(li.DiscountAmount)
}

// Cart is the caller-held set of lines being billed. It is a value:
// operations return a modified copy and never mutate the receiver.
type Cart struct {
	Items []LineItem `json:"items"`
}

// IndexOf returns the position of unitKey in the cart, or -1
func (c Cart) IndexOf(unitKey string) int {
	for i := range c.Items {
		if c.Items[i].UnitKey == unitKey {
			return i
		}
	}
	return -1
}

// Contains reports whether unitKey is already in the cart
func (c Cart) Contains(unitKey string) bool {
	return c.IndexOf(unitKey) >= 0
}

// Clone returns a copy whose item slice can be modified independently
func (c Cart) Clone() Cart {
	items := make([]LineItem, len(c.Items))
	copy(items, c.Items)
	return Cart{Items: items}
}

// UnitKeys lists the cart's unit keys in cart order
func (c Cart) UnitKeys() []string {
	keys := make([]string, len(c.Items))
	for i := range c.Items {
		keys[i] = c.Items[i].UnitKey
	}
	return keys
}
