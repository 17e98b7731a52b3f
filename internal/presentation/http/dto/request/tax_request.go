package request

// TaxQuoteQuery represents the tax calculator query string
type TaxQuoteQuery struct {
	Value   string `form:"value" binding:"required"`
	Logic   string `form:"logic" binding:"required,oneof=AUTO_5_18 FLAT_5"`
	Mode    string `form:"mode" binding:"omitempty,oneof=forward reverse"`
	GSTType string `form:"gst_type" binding:"omitempty,oneof=CGST_SGST IGST"`
}
