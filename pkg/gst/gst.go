package gst

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Logic selects how the GST rate for a line is chosen
type Logic string

const (
	// LogicAuto518 charges 5% below the threshold and 18% at or above it
	LogicAuto518 Logic = "AUTO_5_18"
	// LogicFlat5 always charges 5%
	LogicFlat5 Logic = "FLAT_5"
)

// Rates in percent
const (
	RateLow  = 5
	RateHigh = 18
)

// Threshold is the value at which AUTO_5_18 switches to the higher slab
var Threshold = decimal.NewFromInt(2500)

var hundred = decimal.NewFromInt(100)

// Valid reports whether l is a known tax logic
func (l Logic) Valid() bool {
	return l == LogicAuto518 || l == LogicFlat5
}

func (l Logic) String() string {
	return string(l)
}

// ParseLogic parses a tax logic name, case-insensitively
func ParseLogic(s string) (Logic, error) {
	l := Logic(strings.ToUpper(strings.TrimSpace(s)))
	if !l.Valid() {
		return "", fmt.Errorf("unknown tax logic %q", s)
	}
	return l, nil
}

// Rate returns the GST percentage for value under logic.
// Unknown logic falls back to the AUTO_5_18 slabs.
func Rate(value decimal.Decimal, logic Logic) int {
	if logic == LogicFlat5 {
		return RateLow
	}
	if value.LessThan(Threshold) {
		return RateLow
	}
	return RateHigh
}

// Round2 rounds to paise, half away from zero
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// ForwardResult is the tax on a tax-exclusive amount
type ForwardResult struct {
	GSTPercentage int             `json:"gst_percentage"`
	CGSTAmount    decimal.Decimal `json:"cgst_amount"`
	SGSTAmount    decimal.Decimal `json:"sgst_amount"`
	TotalGST      decimal.Decimal `json:"total_gst"`
}

// ComputeForward computes GST on top of a tax-exclusive taxable value.
// Each output is rounded to 2 decimals on its own.
func ComputeForward(taxable decimal.Decimal, logic Logic) ForwardResult {
	rate := Rate(taxable, logic)
	res := ForwardResult{
		GSTPercentage: rate,
		CGSTAmount:    decimal.Zero,
		SGSTAmount:    decimal.Zero,
		TotalGST:      decimal.Zero,
	}
	if !taxable.IsPositive() {
		return res
	}

	raw := taxable.Mul(decimal.NewFromInt(int64(rate))).Div(hundred)
	half := Round2(raw.Div(decimal.NewFromInt(2)))
	res.TotalGST = Round2(raw)
	res.CGSTAmount = half
	res.SGSTAmount = half
	return res
}

// ReverseResult splits a tax-inclusive amount into base and tax
type ReverseResult struct {
	BasePrice     decimal.Decimal `json:"base_price"`
	GSTAmount     decimal.Decimal `json:"gst_amount"`
	GSTPercentage int             `json:"gst_percentage"`
}

// ComputeReverse extracts the GST already contained in inclusive.
// BasePrice + GSTAmount always equals inclusive rounded to 2 decimals.
func ComputeReverse(inclusive decimal.Decimal, logic Logic) ReverseResult {
	// the slab follows the amount actually billed
	gross := Round2(inclusive)
	rate := Rate(gross, logic)
	res := ReverseResult{
		BasePrice:     decimal.Zero,
		GSTAmount:     decimal.Zero,
		GSTPercentage: rate,
	}
	if !gross.IsPositive() {
		return res
	}

	divisor := decimal.NewFromInt(int64(100 + rate)).Div(hundred)
	res.BasePrice = Round2(gross.Div(divisor))
	res.GSTAmount = gross.Sub(res.BasePrice)
	return res
}
