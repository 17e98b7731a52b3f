package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/pos-billing/internal/application/service"
	"github.com/sangkips/pos-billing/internal/domain/entity"
	"github.com/sangkips/pos-billing/internal/presentation/http/dto/request"
	"github.com/sangkips/pos-billing/internal/presentation/http/dto/response"
)

// CartHandler handles cart HTTP requests. The cart lives with the caller and
// is echoed back after every edit together with its recomputed totals.
type CartHandler struct {
	cartService *service.CartService
}

// NewCartHandler creates a new cart handler
func NewCartHandler(cartService *service.CartService) *CartHandler {
	return &CartHandler{cartService: cartService}
}

type cartView struct {
	Cart   entity.Cart           `json:"cart"`
	Totals service.InvoiceTotals `json:"totals"`
}

func newCartView(cart entity.Cart) cartView {
	if cart.Items == nil {
		cart.Items = []entity.LineItem{}
	}
	return cartView{Cart: cart, Totals: service.ComputeTotals(cart)}
}

// AddItem handles scanning a unit into the cart
func (h *CartHandler) AddItem(c *gin.Context) {
	var req request.AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	cart, err := h.cartService.AddUnit(c.Request.Context(), req.Cart, req.UnitKey)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Item added to cart", newCartView(cart))
}

// UpdateDiscount handles a manual discount edit on one line
func (h *CartHandler) UpdateDiscount(c *gin.Context) {
	var req request.UpdateDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	cart, err := h.cartService.ApplyDiscount(req.Cart, c.Param("unitKey"), *req.Value, req.IsPercent)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Discount updated", newCartView(cart))
}

// SetDelivery handles toggling the deliver-now flag of a line
func (h *CartHandler) SetDelivery(c *gin.Context) {
	var req request.SetCartDeliveryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	cart, err := h.cartService.SetDelivered(req.Cart, c.Param("unitKey"), *req.DeliveredNow)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Delivery updated", newCartView(cart))
}

// RemoveItem handles dropping a line from the cart
func (h *CartHandler) RemoveItem(c *gin.Context) {
	var req request.CartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	cart, err := h.cartService.RemoveItem(req.Cart, c.Param("unitKey"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Item removed from cart", newCartView(cart))
}

// Totals handles recomputing the totals of a cart
func (h *CartHandler) Totals(c *gin.Context) {
	var req request.CartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	response.OK(c, "Cart totals computed", newCartView(req.Cart))
}
