package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	httpapi "github.com/Jalbyte/Mercador-Backend-sub000/internal/api/http"
	"github.com/Jalbyte/Mercador-Backend-sub000/internal/config"
	"github.com/Jalbyte/Mercador-Backend-sub000/internal/logger"
	"github.com/Jalbyte/Mercador-Backend-sub000/internal/payment"
	"github.com/Jalbyte/Mercador-Backend-sub000/internal/repository/postgres"
	"github.com/Jalbyte/Mercador-Backend-sub000/internal/security"
	"github.com/Jalbyte/Mercador-Backend-sub000/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.yaml", "Path to configuration file")
	flag.Parse()

	// Load .env if present; real env vars still win
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Mercador backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)

	// Initialize Database
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Test database connection
	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Initialize Repositories
	store := postgres.NewStore(db)

	// Initialize Security
	tokenManager := security.NewTokenManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry, cfg.JWT.RefreshTokenExpiry)

	// Payment gateway client and webhook verifier
	gateway := payment.NewClient(cfg.Payment.BaseURL, cfg.Payment.APIKey)
	verifier := payment.NewVerifier(cfg.Payment.WebhookSecret, 5*time.Minute)

	// Initialize Services
	outboxSvc := service.NewOutboxService(store.OutboxRepository)
	pointsSvc := service.NewPointsService(store.PointsRepository, store.OrderPointsRepository)
	authSvc := service.NewAuthService(store.ProfileRepository, tokenManager)
	productSvc := service.NewProductService(store.ProductRepository, store.ProductKeyRepository)
	cartSvc := service.NewCartService(store.CartRepository, store.ProductRepository, store.ProductKeyRepository)
	orderSvc := service.NewOrderService(store.OrderRepository, store.CartRepository, store.ProductKeyRepository)
	checkoutSvc := service.NewCheckoutService(
		store.OrderRepository,
		store.OrderPointsRepository,
		store.ProfileRepository,
		pointsSvc,
		outboxSvc,
		gateway,
		cfg.Payment.RedirectURL,
	)
	returnSvc := service.NewReturnService(
		store.ReturnRepository,
		store.OrderRepository,
		store.OrderPointsRepository,
		pointsSvc,
		outboxSvc,
	)
	adminSvc := service.NewAdminPointsService(store.PointsRepository, pointsSvc)

	// Build the router
	router := httpapi.NewRouter(&httpapi.Services{
		Auth:     authSvc,
		Product:  productSvc,
		Cart:     cartSvc,
		Order:    orderSvc,
		Points:   pointsSvc,
		Checkout: checkoutSvc,
		Returns:  returnSvc,
		Admin:    adminSvc,
	}, tokenManager, verifier)

	server := &http.Server{
		Addr:         cfg.GetServerAddress(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", "address", cfg.GetServerAddress())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server error", "error", err)
			log.Fatalf("Failed to serve: %v", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// Graceful shutdown
	logger.Info("Shutting down HTTP server...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Forced shutdown", "error", err)
	}
	logger.Info("Server stopped. Goodbye!")
}
