package main

import (
	"context"   // Context for startup and shutdown
	"errors"    // Error inspection
	"net/http"  // HTTP server
	"os"        // Exit codes
	"os/signal" // Shutdown signals
	"syscall"   // SIGTERM
	"time"      // Server timeouts

	"table_booking/internal/api"        // Custom package for API handlers
	"table_booking/internal/config"     // Custom package for configuration
	"table_booking/internal/db"         // Database connection and migration
	"table_booking/internal/events"     // Booking event publisher
	"table_booking/internal/repository" // Data access
	"table_booking/internal/service"    // Business logic
	"table_booking/internal/utils"      // Redis client

	"github.com/sirupsen/logrus" // Logrus for structured logging
)

// Main function to set up and run the server
func main() {
	cfg := config.LoadConfig() // Load configuration

	// Setup logger
	if cfg.IsProd {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	if err := cfg.Validate(); err != nil {
		logrus.Fatalf("invalid configuration: %v", err)
	}

	if err := run(cfg); err != nil {
		logrus.WithError(err).Error("Server stopped with error")
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to the database and bring the schema up to date
	gdb, err := db.Open(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(gdb); err != nil {
			logrus.WithError(err).Warn("Failed to close database")
		}
	}()
	if err := db.Migrate(gdb); err != nil {
		return err
	}

	// Setup Redis client, caching is optional
	rdb, err := utils.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	if err != nil {
		return err
	}
	if rdb == nil {
		logrus.Info("REDIS_ADDR not set, caching disabled")
	} else {
		defer rdb.Close()
	}

	// Setup event publisher, events are optional
	var publisher events.Publisher = events.NopPublisher{}
	if cfg.RabbitMQURL != "" {
		amqpPub, err := events.NewAMQPPublisher(cfg.RabbitMQURL, cfg.RabbitMQExchange)
		if err != nil {
			return err
		}
		publisher = amqpPub
	} else {
		logrus.Info("RABBITMQ_URL not set, booking events disabled")
	}
	defer publisher.Close()

	// Wire repositories and services
	users := repository.NewUserRepository(gdb)
	paymentRepo := repository.NewPaymentRepository()
	router := api.NewRouter(api.Deps{
		Config: cfg,
		DB:     gdb,
		Redis:  rdb,
		Users:  users,
		Auth:   service.NewAuthService(users, cfg.JWTSecret, cfg.JWTTTL),
		Bookings: service.NewBookingService(
			repository.NewBookingRepository(gdb),
			repository.NewTableRepository(gdb),
			paymentRepo,
			publisher,
		),
		Payments: service.NewPaymentService(gdb, paymentRepo, repository.NewAdminLogRepository(gdb), publisher),
	})

	// Set trusted proxies for Gin
	if err := router.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logrus.WithField("port", cfg.AppPort).Info("Server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logrus.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
