package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bookinghub/config"
	_ "bookinghub/docs"
	"bookinghub/internal/adapters/auth"
	"bookinghub/internal/adapters/crm"
	"bookinghub/internal/adapters/razorpay"
	delivery "bookinghub/internal/delivery/http"
	"bookinghub/internal/delivery/http/controllers"
	"bookinghub/internal/delivery/http/middleware"
	"bookinghub/internal/repository/postgres"
	"bookinghub/internal/services"
	"bookinghub/migrations"

	_ "github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
)

const serviceTimeout = 10 * time.Second

// @title Booking API
// @version 1.0
// @description Event booking platform with payment-gated bookings and CRM notifications.
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger := config.NewLogger("booking-api")

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		log.Fatalf("ping database: %v", err)
	}
	if err := migrations.Up(db); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	userRepo := postgres.NewUserRepository(db)
	eventRepo := postgres.NewEventRepository(db)
	bookingRepo := postgres.NewBookingRepository(db)
	txRepo := postgres.NewTransactionRepository(db)
	crmRepo := postgres.NewCRMNotificationRepository(db)

	hasher := auth.NewBcryptHasher(bcrypt.DefaultCost)
	issuer, verifier := auth.NewJWTManager(cfg.JWTSecret)
	if !cfg.Razorpay.Configured() {
		logger.Warn("razorpay credentials missing or left at placeholders, booking payments will be rejected")
	}
	gateway := razorpay.NewClient(nil, "", cfg.Razorpay.KeyID, cfg.Razorpay.KeySecret)
	crmClient := crm.NewClient(nil, cfg.CRM.URL, cfg.CRM.BearerToken)

	notifier := services.NewNotificationService(crmClient, crmRepo, userRepo, eventRepo, logger)
	authService := services.NewAuthService(userRepo, hasher, issuer, cfg.JWTExpiry, serviceTimeout)
	eventService := services.NewEventService(eventRepo, userRepo, serviceTimeout)
	bookingService := services.NewBookingService(bookingRepo, eventRepo, userRepo, txRepo, gateway, notifier, serviceTimeout)

	mux := delivery.NewRouter(
		logger,
		verifier,
		controllers.NewAuthController(logger, authService),
		controllers.NewEventController(logger, eventService),
		controllers.NewBookingController(logger, bookingService),
		controllers.NewFacilitatorController(logger, bookingService),
		controllers.NewWebhookController(logger, bookingService),
	)

	handler := middleware.CORS(cfg.AllowedOrigins, middleware.LoggingMiddleware(logger, mux))
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("booking API listening", "port", cfg.Port, "env", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown", "err", err)
	}
	logger.Info("booking API stopped")
}
