package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/pos-billing/internal/application/service"
	"github.com/sangkips/pos-billing/internal/presentation/http/dto/request"
	"github.com/sangkips/pos-billing/internal/presentation/http/dto/response"
	"github.com/sangkips/pos-billing/pkg/gst"
)

// InvoiceHandler handles invoice HTTP requests
type InvoiceHandler struct {
	billingService *service.BillingService
}

// NewInvoiceHandler creates a new invoice handler
func NewInvoiceHandler(billingService *service.BillingService) *InvoiceHandler {
	return &InvoiceHandler{billingService: billingService}
}

// Create handles checkout of a cart into an invoice
func (h *InvoiceHandler) Create(c *gin.Context) {
	var req request.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	input := &service.CheckoutInput{
		Cart:           req.Cart,
		CustomerMobile: req.CustomerMobile,
		CustomerName:   req.CustomerName,
		CustomerState:  req.CustomerState,
		GSTType:        gst.Type(req.GSTType),
		AmountPaid:     req.AmountPaid,
		PaymentMode:    req.PaymentMode,
		CreatedBy:      GetUserID(c),
	}

	result, err := h.billingService.CreateInvoice(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Invoice created successfully", result)
}

// Get handles fetching an invoice by number
func (h *InvoiceHandler) Get(c *gin.Context) {
	invoice, err := h.billingService.GetInvoice(c.Request.Context(), c.Param("number"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Invoice retrieved successfully", invoice)
}

// UpdateItemDelivery handles marking a billed unit as delivered or pending
func (h *InvoiceHandler) UpdateItemDelivery(c *gin.Context) {
	var req request.UpdateItemDeliveryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	number := c.Param("number")
	if err := h.billingService.SetItemDelivered(c.Request.Context(), number, c.Param("unitKey"), *req.Delivered); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Delivery status updated", gin.H{
		"invoice_number": number,
		"unit_key":       c.Param("unitKey"),
		"delivered":      *req.Delivered,
	})
}
