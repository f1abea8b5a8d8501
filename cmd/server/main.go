package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"

	"scamscope/internal/analysis"
	"scamscope/internal/api"
	"scamscope/internal/auth"
	"scamscope/internal/checker"
	"scamscope/internal/config"
	"scamscope/internal/log"
	"scamscope/internal/messagebus"
	"scamscope/internal/metrics"
	"scamscope/internal/notifications"
	"scamscope/internal/repository"
	"scamscope/internal/tracing"
)

func main() {
	ctx := context.Background()
	cfg := config.Load()

	// Setup logging
	logger := log.SetupFromEnv(cfg.Service.Name)
	logger.Info("Starting scamscope server")

	// Setup tracing
	otelShutdown, err := tracing.SetupOTelSDK(ctx, cfg.Tracing)
	if err != nil {
		logger.Error("Failed to setup tracing", slog.Any("error", err))
		os.Exit(1)
	}
	defer otelShutdown(ctx)

	// Initialize dependencies
	deps, cleanup, err := initializeDependencies(cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize dependencies", slog.Any("error", err))
		os.Exit(1)
	}
	defer cleanup()

	// Wire the checker to incoming check requests
	checkSub, err := deps.MessageBus.SubscribeToCheckRequest(deps.Checker.ProcessCheckMessage)
	if err != nil {
		logger.Error("Failed to subscribe to check requests", slog.Any("error", err))
		os.Exit(1)
	}
	defer checkSub.Unsubscribe()

	// Start the notification service bridging NATS to WebSocket clients
	if err := deps.Notifications.Start(ctx); err != nil {
		logger.Error("Failed to start notification service", slog.Any("error", err))
		os.Exit(1)
	}
	defer deps.Notifications.Stop()

	// Create API service
	apiService := api.NewAPI(
		deps.CheckRepo,
		deps.SubmissionRepo,
		deps.MessageBus,
		auth.New(cfg.Auth.AdminEmail),
		deps.Notifications.GetWebSocketHandler(),
		deps.APIMetrics,
		logger,
	)

	// Start server in goroutine
	go func() {
		if err := apiService.Start(ctx, cfg); err != nil && err != http.ErrServerClosed {
			logger.Error("Failed to start server", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh

	logger.Info("Shutting down", slog.String("signal", sig.String()))

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := apiService.Shutdown(shutdownCtx); err != nil {
		logger.Error("Failed to shutdown server gracefully", slog.Any("error", err))
	}

	logger.Info("Server stopped")
}

type dependencies struct {
	CheckRepo      *repository.CheckRepository
	SubmissionRepo *repository.SubmissionRepository
	MessageBus     *messagebus.MessageBus
	Checker        *checker.Checker
	Notifications  *notifications.NotificationService
	APIMetrics     *metrics.APIMetrics
	NC             *nats.Conn
}

func initializeDependencies(cfg *config.Config, logger *slog.Logger) (*dependencies, func(), error) {
	// Initialize metrics for each subsystem
	apiMetrics := metrics.NewAPIMetrics()
	apiMetrics.MustRegisterAPI()
	apiMetrics.SetServiceInfo(cfg.Service.Version, runtime.Version())

	checkerMetrics := metrics.NewCheckerMetrics()
	checkerMetrics.MustRegisterChecker()
	checkerMetrics.SetServiceInfo(cfg.Service.Version, runtime.Version())

	notificationsMetrics := metrics.NewNotificationsMetrics()
	notificationsMetrics.MustRegisterNotifications()
	notificationsMetrics.SetServiceInfo(cfg.Service.Version, runtime.Version())

	// Start metrics server
	metricsServer := apiMetrics.StartMetricsServer(cfg.Metrics.Port)

	// Initialize DynamoDB client
	ddb, err := repository.NewDynamoDBClient(cfg.DynamoDB)
	if err != nil {
		return nil, nil, err
	}

	// Seed tables
	if err := repository.SeedTables(ddb); err != nil {
		return nil, nil, err
	}

	// Create repositories
	cacheRepo := repository.NewCacheRepository(ddb, checkerMetrics)
	checkRepo := repository.NewCheckRepository(ddb, apiMetrics)
	submissionRepo := repository.NewSubmissionRepository(ddb, apiMetrics)

	// Connect to NATS
	nc, err := nats.Connect(cfg.NATS.URL)
	if err != nil {
		return nil, nil, err
	}

	// Create message bus
	mb := messagebus.New(nc, apiMetrics)

	// Analysis service client with tracing on outgoing calls
	analysisClient := analysis.New(cfg.Analysis.Endpoint, &http.Client{
		Timeout:   cfg.Analysis.Timeout,
		Transport: tracing.HTTPClientMiddleware()(http.DefaultTransport),
	})

	// Create the checker
	chk := checker.New(cacheRepo, checkRepo, analysisClient, mb,
		checker.WithLogger(logger),
		checker.WithMetrics(checkerMetrics),
		checker.WithTickInterval(cfg.Checker.ProgressInterval),
	)

	// Create the notification service
	hub := notifications.NewHub(
		notifications.WithHubMetrics(notificationsMetrics),
		notifications.WithHubLogger(logger),
	)
	notificationService := notifications.NewNotificationService(hub, mb,
		notifications.WithLogger(logger))

	deps := &dependencies{
		CheckRepo:      checkRepo,
		SubmissionRepo: submissionRepo,
		MessageBus:     mb,
		Checker:        chk,
		Notifications:  notificationService,
		APIMetrics:     apiMetrics,
		NC:             nc,
	}

	cleanup := func() {
		logger.Info("Cleaning up dependencies")

		// Shutdown metrics server
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("Failed to shutdown metrics server", slog.Any("error", err))
		}

		hub.Close()

		// Close NATS connection
		nc.Close()
	}

	return deps, cleanup, nil
}
