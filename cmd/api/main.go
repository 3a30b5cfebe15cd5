package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wolfman30/reservation-assistant/internal/api/router"
	"github.com/wolfman30/reservation-assistant/internal/app/bootstrap"
	"github.com/wolfman30/reservation-assistant/internal/bookings"
	appconfig "github.com/wolfman30/reservation-assistant/internal/config"
	"github.com/wolfman30/reservation-assistant/internal/conversation"
	httpmiddleware "github.com/wolfman30/reservation-assistant/internal/http/middleware"
	"github.com/wolfman30/reservation-assistant/internal/observability/metrics"
	"github.com/wolfman30/reservation-assistant/internal/webchat"
	"github.com/wolfman30/reservation-assistant/pkg/logging"
)

func main() {
	// Load configuration
	cfg := appconfig.Load()

	// Initialize logger
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting reservation-assistant API server",
		"env", cfg.Env,
		"port", cfg.Port,
		"booking_store", cfg.BookingStore,
		"recognizer", cfg.Recognizer,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	handler, cleanup, err := setup(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialise server", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			stop()
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	<-ctx.Done()
	logger.Info("shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		return
	}

	logger.Info("server stopped")
	fmt.Println("Server exited gracefully")
}

// setup builds the full HTTP handler. The cleanup releases store and model
// connections and must run after the server stops.
func setup(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) (http.Handler, func(), error) {
	metricsHandler, reservationMetrics := setupMetrics()

	store, closeStore, err := bootstrap.BuildBookingStore(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	engine, recognizerCloser, err := bootstrap.BuildEngine(ctx, cfg, logger, reservationMetrics)
	if err != nil {
		closeStore()
		return nil, nil, err
	}

	ledger := bookings.NewService(store, logger, reservationMetrics)
	service := conversation.NewTurnService(engine, ledger, logger, reservationMetrics)

	var limiter *httpmiddleware.RateLimiter
	if cfg.RateLimitRPS > 0 && cfg.RateLimitBurst > 0 {
		limiter = httpmiddleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
		go evictIdleBuckets(ctx, limiter, 10*time.Minute)
	}

	handler := router.New(&router.Config{
		Logger:              logger,
		ConversationHandler: conversation.NewHandler(service, logger),
		WebChatHandler:      webchat.NewHandler(service, logger),
		MetricsHandler:      metricsHandler,
		CORSAllowedOrigins:  cfg.CORSAllowedOrigins,
		OwnerCookie:         cfg.OwnerCookie,
		RateLimiter:         limiter,
	})

	cleanup := func() {
		if err := recognizerCloser.Close(); err != nil {
			logger.Warn("failed to close recognizer", "error", err)
		}
		closeStore()
	}
	return handler, cleanup, nil
}

// setupMetrics registers reservation and runtime collectors on a private registry.
func setupMetrics() (http.Handler, *metrics.ReservationMetrics) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{}), metrics.NewReservationMetrics(reg)
}

func evictIdleBuckets(ctx context.Context, limiter *httpmiddleware.RateLimiter, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			limiter.Evict(now.Add(-every))
		}
	}
}
