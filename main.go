package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/codeGROOVE-dev/retry"
	"github.com/isdelr/waitlist-be/internal/api"
	"github.com/isdelr/waitlist-be/internal/api/handlers"
	"github.com/isdelr/waitlist-be/internal/auth"
	"github.com/isdelr/waitlist-be/internal/config"
	"github.com/isdelr/waitlist-be/internal/database"
	"github.com/isdelr/waitlist-be/internal/email"
	"github.com/isdelr/waitlist-be/internal/logger"
	"github.com/isdelr/waitlist-be/internal/scheduler"
	"github.com/isdelr/waitlist-be/internal/services"
	"github.com/isdelr/waitlist-be/internal/telemetry"
	"github.com/isdelr/waitlist-be/internal/websocket"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const serviceName = "waitlist-be"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	logger.Init(cfg.LogLevel, cfg.LogPretty)

	ctx := context.Background()
	shutdownTelemetry := telemetry.Setup(ctx, serviceName, cfg.OTLPEndpoint, cfg.OTLPInsecure)

	// Set up database
	db, err := connectDatabase(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.DatabaseDriver).Msg("Failed to initialize database")
	}
	defer db.Close()

	if err := database.Migrate(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply database migrations")
	}

	// Set up services
	eventService := services.NewEventService(db)
	adminService := services.NewAdminService(db)
	subscriberService := services.NewSubscriberService(db, services.NewFallbackStore(), eventService)

	provisionAdmin(ctx, adminService, cfg)

	secret := []byte(cfg.JWTSecret)
	if len(secret) == 0 {
		if secret, err = auth.RandomSecret(); err != nil {
			log.Fatal().Err(err).Msg("Failed to generate JWT secret")
		}
		log.Warn().Msg("JWT_SECRET is not set; using a random secret, sessions will not survive a restart")
	}
	issuer := auth.NewIssuer(secret, cfg.SessionTTL)

	// Set up email dispatcher
	provider, err := email.NewProvider(cfg.Email)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to configure email provider")
	}
	dispatcher := email.NewDispatcher(provider, eventService, email.Options{
		Workers:     cfg.Email.Workers,
		QueueSize:   cfg.Email.QueueSize,
		MaxAttempts: cfg.Email.MaxAttempts,
		AdminEmail:  cfg.Email.AdminEmail,
	})
	dispatcher.Start()

	// Set up WebSocket Hub
	hub := websocket.NewHub()
	go hub.Run()

	// Set up and run the fallback flusher
	flusher, err := scheduler.NewFallbackFlusher(subscriberService, cfg.FallbackFlushSchedule)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to configure fallback flusher")
	}
	go flusher.Run()

	// Set up router
	router := api.NewRouter(api.Dependencies{
		Subscribers:    subscriberService,
		Admins:         adminService,
		Events:         eventService,
		DB:             db,
		Issuer:         issuer,
		Notifier:       dispatcher,
		Hub:            hub,
		RateLimiter:    handlers.NewRateLimiter(cfg.SubscribeRatePerMinute, cfg.SubscribeBurst),
		AllowedOrigins: cfg.AllowedOrigins,
		SecureCookies:  cfg.IsProduction(),
	})

	// Set up server
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:           otelhttp.NewHandler(router, serviceName),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info().Int("port", cfg.ServerPort).Str("env", cfg.Env).Msg("Server starting")
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("ListenAndServe failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	flusher.Stop()
	// Last chance for signups taken during an outage.
	flusher.Flush()
	if pending := subscriberService.PendingFallback(); pending > 0 {
		log.Error().Int("pending", pending).Msg("Exiting with subscribers that never reached the database")
	}

	hub.Stop()
	dispatcher.Stop()

	if err := shutdownTelemetry(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("Failed to flush traces")
	}

	log.Info().Msg("Server exiting")
}

// connectDatabase retries the initial connection so the service can start
// alongside a database that is still booting.
func connectDatabase(ctx context.Context, cfg *config.Config) (*database.DB, error) {
	var db *database.DB
	err := retry.Do(
		func() error {
			var err error
			db, err = database.New(cfg.DatabaseDriver, cfg.DatabaseURL, cfg.DatabaseMaxConns)
			return err
		},
		retry.Attempts(5),
		retry.Delay(time.Second),
		retry.MaxDelay(10*time.Second),
		retry.MaxJitter(time.Second),
		retry.Context(ctx),
		retry.LastErrorOnly(true),
		retry.RetryIf(database.IsUnavailable),
		retry.OnRetry(func(n uint, err error) {
			log.Warn().Err(err).Uint("attempt", n+1).Msg("Database not reachable, retrying")
		}),
	)
	return db, err
}

// provisionAdmin creates the first admin account from configuration.
func provisionAdmin(ctx context.Context, admins *services.AdminService, cfg *config.Config) {
	created, err := admins.EnsureAdmin(ctx, cfg.AdminUsername, cfg.AdminPassword)
	switch {
	case errors.Is(err, services.ErrNoAdminCredentials):
		log.Warn().Msg("No admin account exists and ADMIN_PASSWORD is not set; admin login is disabled")
	case errors.Is(err, services.ErrWeakAdminPassword):
		log.Fatal().Err(err).Msg("Refusing to provision admin account")
	case err != nil:
		log.Fatal().Err(err).Msg("Failed to provision admin account")
	case created:
		log.Info().Str("username", cfg.AdminUsername).Msg("Provisioned admin account")
	}
}
