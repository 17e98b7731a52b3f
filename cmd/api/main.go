package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sangkips/pos-billing/internal/application/service"
	"github.com/sangkips/pos-billing/internal/config"
	domainRepo "github.com/sangkips/pos-billing/internal/domain/repository"
	"github.com/sangkips/pos-billing/internal/infrastructure/database"
	"github.com/sangkips/pos-billing/internal/infrastructure/repository"
	"github.com/sangkips/pos-billing/internal/logger"
	"github.com/sangkips/pos-billing/internal/presentation/http/handler"
	"github.com/sangkips/pos-billing/internal/presentation/http/middleware"
	"github.com/sangkips/pos-billing/internal/presentation/http/routes"
	"github.com/sangkips/pos-billing/internal/telemetry"
	"github.com/sangkips/pos-billing/pkg/utils"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	zlog, err := logger.New(cfg.Log.Level)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgresDB(&cfg.Database, zlog)
	if err != nil {
		zlog.Fatal("failed to connect to database", zap.Error(err))
	}

	if err := database.AutoMigrate(db, zlog); err != nil {
		zlog.Fatal("failed to run migrations", zap.Error(err))
	}

	// checkout still works without the function, through the sequential path
	if cfg.Billing.AtomicEnabled && cfg.Billing.InstallProcedure {
		if err := database.InstallInvoiceProcedure(db, zlog); err != nil {
			zlog.Warn("failed to install invoice procedure", zap.Error(err))
		}
	}

	stockLedger := repository.NewStockLedger(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)

	procedure := repository.NewDisabledInvoiceProcedure()
	if cfg.Billing.AtomicEnabled {
		procedure = repository.NewInvoiceProcedure(db)
	}

	metrics := telemetry.NewMetrics(prometheus.DefaultRegisterer)

	cartService := service.NewCartService(stockLedger)
	billingService := service.NewBillingService(
		invoiceRepo,
		stockLedger,
		bookingRepo,
		procedure,
		metrics,
		zlog,
		service.BillingOptions{
			SupplierState:  cfg.Billing.SupplierState,
			InterStateIGST: cfg.Billing.InterStateIGST,
		},
	)

	rateLimiter := middleware.NewUserRateLimiter(middleware.RateLimiterConfig{
		RequestsPerSecond: float64(cfg.RateLimit.Requests) / float64(max(cfg.RateLimit.Duration, 1)),
		BurstSize:         cfg.RateLimit.Requests,
		CleanupInterval:   5 * time.Minute,
		EntryTTL:          10 * time.Minute,
	})
	defer rateLimiter.Stop()

	handlers := &routes.Handlers{
		Cart:    handler.NewCartHandler(cartService),
		Invoice: handler.NewInvoiceHandler(billingService),
		Tax:     handler.NewTaxHandler(),
	}

	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      utils.NewJWTManager(cfg.JWT.Secret, cfg.JWT.Issuer),
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
		RateLimiter:     rateLimiter,
		Metrics:         metrics,
		Gatherer:        prometheus.DefaultGatherer,
		Log:             zlog,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go purgeIdempotencyKeys(ctx, idempotencyRepo, zlog)

	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zlog.Info("starting server",
			zap.String("service", cfg.App.Name),
			zap.String("port", port),
			zap.String("env", cfg.App.Env),
			zap.Bool("atomic_checkout", cfg.Billing.AtomicEnabled),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zlog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zlog.Error("graceful shutdown failed", zap.Error(err))
	}
}

// purgeIdempotencyKeys drops stored checkout responses once they can no longer be replayed
func purgeIdempotencyKeys(ctx context.Context, repo domainRepo.IdempotencyRepository, log *zap.Logger) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			n, err := repo.DeleteExpired(ctx, now)
			if err != nil {
				log.Warn("idempotency purge failed", zap.Error(err))
				continue
			}
			if n > 0 {
				log.Info("purged idempotency keys", zap.Int64("deleted", n))
			}
		}
	}
}
