package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	financeapp "github.com/omnia/backend/internal/application/finance"
	shippingapp "github.com/omnia/backend/internal/application/shipping"
	"github.com/omnia/backend/internal/infrastructure/config"
	"github.com/omnia/backend/internal/infrastructure/courier"
	"github.com/omnia/backend/internal/infrastructure/credentials"
	"github.com/omnia/backend/internal/infrastructure/logger"
	"github.com/omnia/backend/internal/infrastructure/persistence"
	"github.com/omnia/backend/internal/infrastructure/scheduler"
	"github.com/omnia/backend/internal/interfaces/http/handler"
	"github.com/omnia/backend/internal/interfaces/http/router"
)

// developmentEncryptionKey is used when no key is configured. Load() rejects
// a missing key in production.
const developmentEncryptionKey = "0000000000000000000000000000000000000000000000000000000000000000"

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

	log.Info("Starting shipment sync engine",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithGormLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Initialize repositories
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	shipmentRepo := persistence.NewGormShipmentRepository(db.DB)
	skuCostRepo := persistence.NewGormSkuCostRepository(db.DB)
	adSpendRepo := persistence.NewGormAdSpendRepository(db.DB)
	profitRepo := persistence.NewGormOrderProfitRepository(db.DB)
	credentialRepo := persistence.NewGormProviderCredentialRepository(db.DB)

	// Credential encryption and resolution
	encryptionKey := cfg.Credentials.EncryptionKey
	if encryptionKey == "" {
		log.Warn("No credential encryption key configured, using development key")
		encryptionKey = developmentEncryptionKey
	}
	cipher, err := credentials.NewCipher(encryptionKey)
	if err != nil {
		log.Fatal("Failed to initialize credential cipher", zap.Error(err))
	}
	resolver := credentials.NewResolver(credentialRepo, cipher, cfg.Couriers, log)

	// Courier clients
	registry := courier.NewRegistry(cfg.Couriers, log)

	// Application services
	profitService := financeapp.NewProfitService(
		orderRepo, shipmentRepo, skuCostRepo, adSpendRepo, profitRepo, log.Named("profit"),
	)
	syncService := shippingapp.NewSyncService(
		shipmentRepo, resolver, registry, profitService, cfg.Sync.MaxErrors, log.Named("sync"),
	)

	// Background sync scheduler
	if cfg.Sync.Enabled {
		syncScheduler := scheduler.NewShipmentSyncScheduler(scheduler.ShipmentSyncSchedulerConfig{
			Interval:   cfg.Sync.Interval,
			RunTimeout: cfg.Sync.RunTimeout,
		}, syncService, log.Named("scheduler"))
		if err := syncScheduler.Start(context.Background()); err != nil {
			log.Fatal("Failed to start sync scheduler", zap.Error(err))
		}
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := syncScheduler.Stop(stopCtx); err != nil {
				log.Error("Error stopping sync scheduler", zap.Error(err))
			}
		}()
		log.Info("Sync scheduler started",
			zap.Duration("interval", cfg.Sync.Interval),
			zap.Duration("run_timeout", cfg.Sync.RunTimeout),
		)
	}

	// HTTP handlers
	syncHandler := handler.NewSyncHandler(syncService, handler.SchedulerInfo{
		Enabled:  cfg.Sync.Enabled,
		Interval: cfg.Sync.Interval,
	})
	credentialHandler := handler.NewCredentialHandler(resolver)
	healthHandler := handler.NewHealthHandler(db)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(logger.RequestID())
	engine.Use(logger.GinMiddleware(log))
	engine.Use(logger.Recovery(log))
	engine.GET("/healthz", healthHandler.Healthz)

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(syncHandler)
	r.Register(credentialHandler)
	r.Setup()

	server := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown failed", zap.Error(err))
	}
}
