package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	billingapp "github.com/distributor/backend/internal/application/billing"
	catalogapp "github.com/distributor/backend/internal/application/catalog"
	commissionapp "github.com/distributor/backend/internal/application/commission"
	identityapp "github.com/distributor/backend/internal/application/identity"
	inventoryapp "github.com/distributor/backend/internal/application/inventory"
	partnerapp "github.com/distributor/backend/internal/application/partner"
	procurementapp "github.com/distributor/backend/internal/application/procurement"
	salesapp "github.com/distributor/backend/internal/application/sales"
	"github.com/distributor/backend/internal/domain/shared"
	"github.com/distributor/backend/internal/infrastructure/auth"
	"github.com/distributor/backend/internal/infrastructure/cache"
	"github.com/distributor/backend/internal/infrastructure/config"
	"github.com/distributor/backend/internal/infrastructure/event"
	"github.com/distributor/backend/internal/infrastructure/logger"
	"github.com/distributor/backend/internal/infrastructure/persistence"
	"github.com/distributor/backend/internal/interfaces/http/handler"
	"github.com/distributor/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting distributor backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Database with zap-backed GORM logging
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected")

	// Submission idempotency store: Redis when configured so replays
	// are rejected across instances, in-memory otherwise
	var idempotencyStore shared.IdempotencyStore
	switch cfg.Idempotency.Backend {
	case "redis":
		store, err := cache.NewRedisIdempotencyStore(cache.RedisConfig{
			Addr:     cfg.Redis.RedisAddr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Fatal("Failed to connect to redis", zap.Error(err))
		}
		idempotencyStore = store
		log.Info("Idempotency store: redis")
	default:
		idempotencyStore = cache.NewInMemoryIdempotencyStore()
		log.Info("Idempotency store: in-memory")
	}
	defer func() {
		if err := idempotencyStore.Close(); err != nil {
			log.Error("Error closing idempotency store", zap.Error(err))
		}
	}()

	// Repositories
	supplierRepo := persistence.NewGormSupplierRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	quotationRepo := persistence.NewGormQuotationRepository(db.DB)
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB)
	batchRepo := persistence.NewGormBatchRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	ledgerRepo := persistence.NewGormLedgerRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	groupRepo := persistence.NewGormUserGroupRepository(db.DB)

	// Application services
	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(userRepo, jwtService, log)
	userService := identityapp.NewUserService(userRepo, groupRepo)
	groupService := identityapp.NewUserGroupService(groupRepo)
	supplierService := partnerapp.NewSupplierService(supplierRepo)
	productService := catalogapp.NewProductService(productRepo)
	costService := catalogapp.NewProductCostService(quotationRepo, batchRepo)
	importService := catalogapp.NewProductImportService(productRepo, log)
	quotationService := procurementapp.NewQuotationService(quotationRepo, supplierRepo, productRepo, invoiceRepo)
	invoiceService := billingapp.NewInvoiceService(invoiceRepo, quotationRepo, supplierRepo, productRepo)
	receivingService := inventoryapp.NewReceivingService(db, batchRepo, invoiceRepo, log)
	ledgerService := commissionapp.NewLedgerService(ledgerRepo, log)
	orderService := salesapp.NewOrderService(db, orderRepo, userRepo, productRepo, ledgerRepo, costService, idempotencyStore, log)

	// Event bus for order lifecycle events
	eventBus := event.NewInMemoryEventBus(log)
	eventBus.Subscribe(salesapp.NewOrderActivityHandler(log))
	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()
	orderService.SetEventPublisher(eventBus)

	// Router and handlers
	r := router.New(router.Config{
		AppEnv:     cfg.App.Env,
		HTTP:       cfg.HTTP,
		JWTService: jwtService,
		Logger:     log,
	})

	systemHandler := handler.NewSystemHandler(db, cfg.App.Name, cfg.App.Env)
	r.RegisterRoot(systemHandler)
	r.Register(
		handler.NewAuthHandler(authService, userService),
		handler.NewUserHandler(userService),
		handler.NewUserGroupHandler(groupService),
		handler.NewSupplierHandler(supplierService),
		handler.NewProductHandler(productService, costService, importService),
		handler.NewQuotationHandler(quotationService),
		handler.NewInvoiceHandler(invoiceService),
		handler.NewInventoryHandler(receivingService),
		handler.NewOrderHandler(orderService),
		handler.NewCommissionHandler(ledgerService),
	)

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        r.Engine(),
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
