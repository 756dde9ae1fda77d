package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/Faroffcode/gst-zen-lovable-sub000/internal/application/billing"
	"github.com/Faroffcode/gst-zen-lovable-sub000/internal/application/inventory"
	"github.com/Faroffcode/gst-zen-lovable-sub000/internal/application/usecase"
	"github.com/Faroffcode/gst-zen-lovable-sub000/internal/cache"
	"github.com/Faroffcode/gst-zen-lovable-sub000/internal/infrastructure/notify"
	"github.com/Faroffcode/gst-zen-lovable-sub000/internal/infrastructure/postgres"
	httpRouter "github.com/Faroffcode/gst-zen-lovable-sub000/internal/interfaces/http"
	"github.com/Faroffcode/gst-zen-lovable-sub000/pkg/config"
	"github.com/Faroffcode/gst-zen-lovable-sub000/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("load configuration: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("starting application")

	ctx := context.Background()

	if cfg.DB.Migrate {
		if err := postgres.RunMigrations(cfg.DB.ConnectionString(), log); err != nil {
			log.Fatal().Err(err).Msg("database migrations")
		}
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("PostgreSQL connection")
	}
	defer pool.Close()

	productRepo := postgres.NewProductRepository(pool)
	customerRepo := postgres.NewCustomerRepository(pool)
	ledgerRepo := postgres.NewLedgerRepository(pool)
	invoiceRepo := postgres.NewInvoiceRepository(pool)
	sequenceRepo := postgres.NewSequenceRepository(pool)

	var statements cache.StatementCache = cache.NoopStatementCache{}
	if cfg.Cache.RedisAddr != "" {
		redisCache := cache.NewRedisStatementCache(cfg.Cache.RedisAddr, cfg.Cache.RedisPassword, cfg.Cache.RedisDB)
		if err := redisCache.Ping(ctx); err != nil {
			log.Warn().Err(err).Msg("Redis unreachable, statement cache disabled")
		} else {
			defer redisCache.Close()
			statements = redisCache
			log.Info().Str("addr", cfg.Cache.RedisAddr).Msg("statement cache enabled")
		}
	}

	stockUC := inventory.NewStockLedgerUseCase(productRepo, ledgerRepo, statements, cfg.Cache.StatementTTL, log)
	productUC := usecase.NewProductUseCase(productRepo, ledgerRepo, invoiceRepo, stockUC, log)
	customerUC := billing.NewCustomerUseCase(customerRepo, invoiceRepo, log)

	allocator := billing.NewNumberAllocator(
		sequenceRepo, invoiceRepo,
		cfg.Billing.InvoicePrefix, cfg.Billing.NumberPadding, log,
	)

	var notifier billing.NotificationSink
	if cfg.Notify.WebhookURL != "" {
		notifier = notify.NewWebhookNotifier(cfg.Notify.WebhookURL, cfg.Notify.Timeout, log)
		log.Info().Str("url", cfg.Notify.WebhookURL).Msg("invoice webhook enabled")
	}

	invoiceUC := billing.NewInvoiceUseCase(
		invoiceRepo, productRepo, customerRepo,
		stockUC, allocator, notifier, log,
	)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	httpRouter.Router(app, httpRouter.RouterDeps{
		ProductUC:  productUC,
		CustomerUC: customerUC,
		LedgerUC:   stockUC,
		InvoiceUC:  invoiceUC,
		APIKey:     cfg.Auth.APIKey,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("HTTP server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutdown signal received, stopping server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}

	log.Info().Msg("application stopped")
}
