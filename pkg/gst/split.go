package gst

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Type is the statutory split of a GST amount
type Type string

const (
	// TypeCGSTSGST splits tax equally between central and state (intra-state supply)
	TypeCGSTSGST Type = "CGST_SGST"
	// TypeIGST charges the whole tax as integrated GST (inter-state supply)
	TypeIGST Type = "IGST"
)

// Valid reports whether t is a known transaction type
func (t Type) Valid() bool {
	return t == TypeCGSTSGST || t == TypeIGST
}

// ParseType parses a transaction type name, case-insensitively
func ParseType(s string) (Type, error) {
	t := Type(strings.ToUpper(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("unknown gst type %q", s)
	}
	return t, nil
}

// Breakdown is a GST amount split into its statutory parts
type Breakdown struct {
	CGSTAmount decimal.Decimal `json:"cgst_amount"`
	SGSTAmount decimal.Decimal `json:"sgst_amount"`
	IGSTAmount decimal.Decimal `json:"igst_amount"`
}

// Split divides amount according to t. For CGST_SGST the state share
// absorbs the odd paisa so that CGST + SGST == amount.
func Split(amount decimal.Decimal, t Type) Breakdown {
	if t == TypeIGST {
		return Breakdown{
			CGSTAmount: decimal.Zero,
			SGSTAmount: decimal.Zero,
			IGSTAmount: amount,
		}
	}

	cgst := Round2(amount.Div(decimal.NewFromInt(2)))
	return Breakdown{
		CGSTAmount: cgst,
		SGSTAmount: amount.Sub(cgst),
		IGSTAmount: decimal.Zero,
	}
}

// DeriveType picks the transaction type for a supplier/customer pair.
// Missing or mismatched data never produces IGST.
func DeriveType(supplierState, customerState string) Type {
	return TypeCGSTSGST
}

// DeriveInterState is the stricter variant used when inter-state billing
// is enabled: two known, different states produce IGST.
func DeriveInterState(supplierState, customerState string) Type {
	s := normalizeState(supplierState)
	c := normalizeState(customerState)
	if s == "" || c == "" || s == c {
		return TypeCGSTSGST
	}
	return TypeIGST
}

// Deriver returns the derivation function for the given mode
func Deriver(interState bool) func(supplierState, customerState string) Type {
	if interState {
		return DeriveInterState
	}
	return DeriveType
}

func normalizeState(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
