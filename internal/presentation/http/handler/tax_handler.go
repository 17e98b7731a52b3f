package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/pos-billing/internal/presentation/http/dto/request"
	"github.com/sangkips/pos-billing/internal/presentation/http/dto/response"
	"github.com/sangkips/pos-billing/pkg/apperror"
	"github.com/sangkips/pos-billing/pkg/gst"
	"github.com/shopspring/decimal"
)

// TaxHandler exposes the GST calculator
type TaxHandler struct{}

// NewTaxHandler creates a new tax handler
func NewTaxHandler() *TaxHandler {
	return &TaxHandler{}
}

// TaxQuote is the calculator answer for one amount
type TaxQuote struct {
	Mode          string          `json:"mode"`
	Logic         gst.Logic       `json:"logic"`
	GSTType       gst.Type        `json:"gst_type"`
	GSTPercentage int             `json:"gst_percentage"`
	BasePrice     decimal.Decimal `json:"base_price"`
	GSTAmount     decimal.Decimal `json:"gst_amount"`
	GrossAmount   decimal.Decimal `json:"gross_amount"`
	gst.Breakdown
}

// Quote handles GET /tax/quote. Forward mode treats value as taxable,
// reverse mode as GST-inclusive.
func (h *TaxHandler) Quote(c *gin.Context) {
	var q request.TaxQuoteQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindError(c, err)
		return
	}

	value, err := decimal.NewFromString(q.Value)
	if err != nil {
		response.Error(c, apperror.NewValidationError([]apperror.FieldError{{Field: "value", Message: "must be a decimal amount"}}))
		return
	}

	gstType := gst.TypeCGSTSGST
	if q.GSTType != "" {
		gstType = gst.Type(q.GSTType)
	}

	quote := TaxQuote{Mode: "forward", Logic: gst.Logic(q.Logic), GSTType: gstType}
	if q.Mode == "reverse" {
		r := gst.ComputeReverse(value, quote.Logic)
		quote.Mode = "reverse"
		quote.GSTPercentage = r.GSTPercentage
		quote.BasePrice = r.BasePrice
		quote.GSTAmount = r.GSTAmount
		quote.GrossAmount = r.BasePrice.Add(r.GSTAmount)
		quote.Breakdown = gst.Split(r.GSTAmount, gstType)
	} else {
		f := gst.ComputeForward(value, quote.Logic)
		quote.GSTPercentage = f.GSTPercentage
		quote.BasePrice = gst.Round2(value)
		quote.GSTAmount = f.TotalGST
		quote.GrossAmount = quote.BasePrice.Add(f.TotalGST)
		// forward halves are rounded independently of the total
		quote.Breakdown = gst.Breakdown{CGSTAmount: f.CGSTAmount, SGSTAmount: f.SGSTAmount, IGSTAmount: decimal.Zero}
		if gstType == gst.TypeIGST {
			quote.Breakdown = gst.Split(f.TotalGST, gstType)
		}
	}

	response.OK(c, "Tax computed", quote)
}
