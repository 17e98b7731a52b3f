package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sangkips/pos-billing/internal/config"
	domainRepo "github.com/sangkips/pos-billing/internal/domain/repository"
	"github.com/sangkips/pos-billing/internal/presentation/http/handler"
	"github.com/sangkips/pos-billing/internal/presentation/http/middleware"
	"github.com/sangkips/pos-billing/internal/telemetry"
	"github.com/sangkips/pos-billing/pkg/utils"
	"go.uber.org/zap"
)

// Permissions carried in cashier tokens
const (
	PermissionBilling        = "billing"
	PermissionManageInvoices = "manage-invoices"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Cart    *handler.CartHandler
	Invoice *handler.InvoiceHandler
	Tax     *handler.TaxHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
	RateLimiter     *middleware.UserRateLimiter
	Metrics         *telemetry.Metrics
	Gatherer        prometheus.Gatherer
	Log             *zap.Logger
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	if deps.Log == nil {
		deps.Log = zap.NewNop()
	}

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware(deps.Log, deps.Metrics))
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	router.GET("/health", func(c *gin.Context) {
		body := gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		}
		if deps.RateLimiter != nil {
			body["rate_limiter"] = deps.RateLimiter.Stats()
		}
		c.JSON(http.StatusOK, body)
	})
	if deps.Gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	v1 := router.Group("/api/v1")
	{
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))
		if deps.RateLimiter != nil {
			protected.Use(deps.RateLimiter.Middleware())
		}

		registerTaxRoutes(protected, h)
		registerCartRoutes(protected, h)
		registerInvoiceRoutes(protected, h, deps)
	}

	return router
}

func registerTaxRoutes(protected *gin.RouterGroup, h *Handlers) {
	protected.GET("/tax/quote", h.Tax.Quote)
}

func registerCartRoutes(protected *gin.RouterGroup, h *Handlers) {
	cart := protected.Group("/cart")
	cart.Use(middleware.RequirePermission(PermissionBilling))
	{
		cart.POST("/items", h.Cart.AddItem)
		cart.PATCH("/items/:unitKey/discount", h.Cart.UpdateDiscount)
		cart.PATCH("/items/:unitKey/delivery", h.Cart.SetDelivery)
		cart.DELETE("/items/:unitKey", h.Cart.RemoveItem)
		cart.POST("/totals", h.Cart.Totals)
	}
}

func registerInvoiceRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	invoices := protected.Group("/invoices")
	{
		// a repeated Idempotency-Key replays the first invoice instead of billing twice
		invoices.POST("", middleware.RequirePermission(PermissionBilling), middleware.Idempotency(middleware.IdempotencyConfig{
			Repo:     deps.IdempotencyRepo,
			TTL:      deps.Cfg.Billing.IdempotencyTTL,
			Required: deps.Cfg.Billing.IdempotencyRequired,
			Log:      deps.Log,
		}), h.Invoice.Create)
		invoices.GET("/:number", middleware.RequirePermission(PermissionManageInvoices), h.Invoice.Get)
		invoices.PATCH("/:number/items/:unitKey/delivery", middleware.RequirePermission(PermissionManageInvoices), h.Invoice.UpdateItemDelivery)
	}
}
