package gst

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitCGSTSGST(t *testing.T) {
	for _, v := range []string{"0", "0.01", "47.62", "381.36", "100.05", "999.99"} {
		b := Split(d(v), TypeCGSTSGST)
		assert.True(t, d(v).Equal(b.CGSTAmount.Add(b.SGSTAmount)), v)
		assert.True(t, b.IGSTAmount.IsZero(), v)
		assert.True(t, b.CGSTAmount.Sub(b.SGSTAmount).Abs().LessThanOrEqual(d("0.01")), v)
	}

	b := Split(d("47.62"), TypeCGSTSGST)
	assert.Equal(t, "23.81", b.CGSTAmount.String())
	assert.Equal(t, "23.81", b.SGSTAmount.String())
}

func TestSplitIGST(t *testing.T) {
	b := Split(d("381.36"), TypeIGST)
	assert.Equal(t, "381.36", b.IGSTAmount.String())
	assert.True(t, b.CGSTAmount.IsZero())
	assert.True(t, b.SGSTAmount.IsZero())
}

func TestDeriveType(t *testing.T) {
	assert.Equal(t, TypeCGSTSGST, DeriveType("Karnataka", "karnataka"))
	assert.Equal(t, TypeCGSTSGST, DeriveType("Karnataka", ""))
	assert.Equal(t, TypeCGSTSGST, DeriveType("", ""))
	assert.Equal(t, TypeCGSTSGST, DeriveType("Karnataka", "Kerala"))
}

func TestDeriveInterState(t *testing.T) {
	assert.Equal(t, TypeCGSTSGST, DeriveInterState("Karnataka", " KARNATAKA "))
	assert.Equal(t, TypeCGSTSGST, DeriveInterState("Karnataka", ""))
	assert.Equal(t, TypeCGSTSGST, DeriveInterState("", "Kerala"))
	assert.Equal(t, TypeIGST, DeriveInterState("Karnataka", "Kerala"))

	assert.Equal(t, TypeIGST, Deriver(true)("Karnataka", "Kerala"))
	assert.Equal(t, TypeCGSTSGST, Deriver(false)("Karnataka", "Kerala"))
}

func TestParseType(t *testing.T) {
	typ, err := ParseType("igst")
	assert.NoError(t, err)
	assert.Equal(t, TypeIGST, typ)

	_, err = ParseType("VAT")
	assert.Error(t, err)
}
