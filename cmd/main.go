package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/mstgnz/gosquare/handler"
	"github.com/mstgnz/gosquare/infra/config"
	"github.com/mstgnz/gosquare/infra/logger"
	"github.com/mstgnz/gosquare/infra/middle"
	"github.com/mstgnz/gosquare/infra/opensearch"
	"github.com/mstgnz/gosquare/infra/response"
	"github.com/mstgnz/gosquare/infra/transcript"
	"github.com/mstgnz/gosquare/infra/validate"
	"github.com/mstgnz/gosquare/provider"
	"github.com/mstgnz/gosquare/router"
	v1 "github.com/mstgnz/gosquare/router/v1"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// gateways lists the gateway names whose credentials are read from the environment
var gateways = []string{"square"}

func main() {
	// Load Env
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("Load Env Error: %v", err)
	}

	cfg := config.GetAppConfig()
	validate.CustomValidate()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// OpenSearch client and logger
	var openSearchLogger *opensearch.Logger
	if cfg.EnableLogging {
		osClient, err := opensearch.NewClient(cfg)
		if err != nil {
			log.Printf("OpenSearch setup failed: %v", err)
		}
		if osClient != nil {
			openSearchLogger = opensearch.NewLogger(osClient)
		}
	}
	logger.InitGlobalLogger(openSearchLogger)

	// Transcript capture must be configured before gateways are initialized
	var transcriptStore *transcript.SQLiteStore
	if cfg.TranscriptsEnabled {
		store, err := transcript.NewSQLiteStore(cfg.TranscriptDBPath)
		if err != nil {
			logger.Fatal("Failed to open transcript store", err)
		}
		transcriptStore = store
		defer transcriptStore.Close()

		var sinks []transcript.Sink
		sinks = append(sinks, transcriptStore)
		if openSearchLogger != nil {
			sinks = append(sinks, openSearchLogger)
		}
		provider.SetTranscriptSink(transcript.MultiSink(sinks...))

		go pruneTranscripts(ctx, transcriptStore, cfg.TranscriptRetentionDays)
	}

	// Gateway credentials
	providerConfig := config.NewProviderConfig()
	if err := providerConfig.LoadFromEnv(gateways...); err != nil {
		logger.Fatal("Failed to load gateway configuration", err)
	}

	var serviceOpts []provider.ServiceOption
	if openSearchLogger != nil {
		serviceOpts = append(serviceOpts, provider.WithOperationLogger(openSearchLogger))
	}
	paymentService := provider.NewPaymentService(providerConfig, serviceOpts...)

	for _, name := range gateways {
		if _, err := paymentService.Gateway(name); err != nil {
			logger.Warn("Payment gateway not available", logger.LogContext{
				Provider: name,
				Fields:   map[string]any{"error": err.Error()},
			})
			continue
		}
		logger.Info("Registered payment gateway", logger.LogContext{Provider: name})
	}

	// Handlers
	handlers := v1.Handlers{
		Payment: handler.NewPaymentHandler(paymentService, config.App().Validator),
		Config:  handler.NewConfigHandler(provider.DefaultRegistry, providerConfig),
	}
	var transcriptPinger handler.Pinger
	switch {
	case transcriptStore != nil && openSearchLogger != nil:
		handlers.Logs = handler.NewLogsHandler(transcriptStore, openSearchLogger)
		transcriptPinger = transcriptStore
	case transcriptStore != nil:
		handlers.Logs = handler.NewLogsHandler(transcriptStore, nil)
		transcriptPinger = transcriptStore
	case openSearchLogger != nil:
		handlers.Logs = handler.NewLogsHandler(nil, openSearchLogger)
	default:
		handlers.Logs = handler.NewLogsHandler(nil, nil)
	}
	healthHandler := handler.NewHealthHandler(paymentService, gateways, transcriptPinger, openSearchLogger != nil)

	// Chi Define Routes
	r := chi.NewRouter()

	// Basic Middleware
	r.Use(middleware.RequestID)
	r.Use(middle.RequestLoggingMiddleware())
	r.Use(middle.PanicRecoveryMiddleware())
	r.Use(middleware.Timeout(60 * time.Second))

	// Security Middleware
	proxies, err := middle.ParseTrustedProxies(cfg.TrustedProxies)
	if err != nil {
		logger.Fatal("Invalid TRUSTED_PROXIES", err)
	}
	rateLimiter := middle.NewRateLimiter(cfg.RateLimitPerMinute, time.Minute)
	go rateLimiter.Run(ctx)
	r.Use(middle.SecurityHeadersMiddleware())
	r.Use(middle.IPAllowlistMiddleware(cfg.AllowedIPs, proxies))
	r.Use(middle.RateLimitMiddleware(rateLimiter, proxies))

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "Idempotency-Key", "X-Request-ID"},
		ExposedHeaders: []string{"Content-Length", "Retry-After"},
		MaxAge:         300, // Preflight cache time (second)
	}))

	// Health and metrics (no auth required)
	r.Get("/health", healthHandler.CheckHealth)
	r.Handle("/metrics", promhttp.Handler())

	// API routes with authentication
	router.Routes(r, cfg.APIKey, handlers)

	// Not Found
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.Error(w, http.StatusNotFound, "Not Found", nil)
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           r,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      75 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server failed", err)
		}
	}()

	logger.Info("API is running", logger.LogContext{Fields: map[string]any{"port": cfg.Port}})

	// Block until a signal is received
	<-ctx.Done()

	logger.Info("Shutting down gracefully")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", err)
	}
}

// pruneTranscripts deletes transcripts older than the retention period once
// at startup and then daily.
func pruneTranscripts(ctx context.Context, store *transcript.SQLiteStore, retentionDays int) {
	if retentionDays <= 0 {
		return
	}

	prune := func() {
		cutoff := time.Now().UTC().AddDate(0, 0, -retentionDays)
		removed, err := store.DeleteOlderThan(ctx, cutoff)
		if err != nil {
			logger.Error("Failed to prune transcripts", err)
			return
		}
		if removed > 0 {
			logger.Info("Pruned transcripts", logger.LogContext{Fields: map[string]any{"removed": removed}})
		}
	}

	prune()
	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			prune()
		}
	}
}
