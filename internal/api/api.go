// Package api exposes the HTTP surface: submitting checks, reading
// results and risk summaries, user scam reports, and the WebSocket
// endpoint for live progress.
package api

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/yousuf64/shift"

	"scamscope/internal/auth"
	"scamscope/internal/config"
	"scamscope/internal/messagebus"
	"scamscope/internal/metrics"
	"scamscope/internal/middleware"
	"scamscope/internal/notifications"
	"scamscope/internal/repository"
	"scamscope/internal/tracing"
)

// API handles the HTTP server and routes
type API struct {
	checks      repository.CheckRepositoryInterface
	submissions repository.SubmissionRepositoryInterface
	mb          messagebus.MessageBusInterface
	authSvc     *auth.Service
	ws          *notifications.Handler
	metrics     *metrics.APIMetrics
	log         *slog.Logger
	srv         *http.Server
}

// CheckRequest is the request body for creating a check
type CheckRequest struct {
	URL  string `json:"url"`
	Mode string `json:"mode"`
}

// ReportRequest is the request body for submitting a scam report
type ReportRequest struct {
	URL           string `json:"url"`
	Description   string `json:"description"`
	ReporterEmail string `json:"reporter_email"`
}

// NewAPI creates a new API with all dependencies
func NewAPI(
	checks repository.CheckRepositoryInterface,
	submissions repository.SubmissionRepositoryInterface,
	mb messagebus.MessageBusInterface,
	authSvc *auth.Service,
	ws *notifications.Handler,
	metrics *metrics.APIMetrics,
	log *slog.Logger,
) *API {
	return &API{
		checks:      checks,
		submissions: submissions,
		mb:          mb,
		authSvc:     authSvc,
		ws:          ws,
		metrics:     metrics,
		log:         log,
	}
}

// Start starts the HTTP server
func (a *API) Start(ctx context.Context, cfg *config.Config) error {
	router := shift.New()
	router.Use(tracing.OtelMiddleware)
	router.Use(middleware.CORSMiddleware)
	if a.metrics != nil {
		router.Use(a.metrics.HTTPMiddleware)
	}
	router.Use(middleware.ErrorMiddleware(a.log))

	// Register routes
	router.OPTIONS("/*wildcard", middleware.OptionsHandler)
	router.POST("/checks", a.handleCreateCheck)
	router.GET("/checks/recent", a.handleGetRecentChecks)
	router.GET("/checks/:check_id", a.handleGetCheck)
	router.GET("/checks/:check_id/summary", a.handleGetCheckSummary)
	router.POST("/reports", a.handleSubmitReport)
	router.GET("/reports", a.adminOnly(a.handleGetReports))
	router.DELETE("/reports/:report_id", a.adminOnly(a.handleDeleteReport))
	router.GET("/ws", a.handleWebSocket)

	addr := ":8080"
	if cfg != nil && cfg.HTTP.Addr != "" {
		addr = cfg.HTTP.Addr
	}

	a.srv = &http.Server{
		Addr:         addr,
		Handler:      router.Serve(),
		BaseContext:  func(_ net.Listener) context.Context { return ctx },
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	a.log.Info("API server starting", slog.String("addr", addr))
	return a.srv.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (a *API) Shutdown(ctx context.Context) error {
	a.log.Info("Shutting down API server")
	if a.srv != nil {
		return a.srv.Shutdown(ctx)
	}
	return nil
}
