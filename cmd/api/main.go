// Package main is the entry point for the API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/gearline-ai/parts-assistant/internal/catalog"
	"github.com/gearline-ai/parts-assistant/internal/config"
	"github.com/gearline-ai/parts-assistant/internal/decision"
	"github.com/gearline-ai/parts-assistant/internal/directory"
	"github.com/gearline-ai/parts-assistant/internal/events"
	"github.com/gearline-ai/parts-assistant/internal/handler"
	"github.com/gearline-ai/parts-assistant/internal/llm"
	"github.com/gearline-ai/parts-assistant/internal/media"
	"github.com/gearline-ai/parts-assistant/internal/middleware"
	"github.com/gearline-ai/parts-assistant/internal/outbound"
	"github.com/gearline-ai/parts-assistant/internal/pipeline"
	"github.com/gearline-ai/parts-assistant/internal/product"
	"github.com/gearline-ai/parts-assistant/internal/session"
	"github.com/gearline-ai/parts-assistant/internal/vehicle"
	"github.com/gearline-ai/parts-assistant/internal/webhook"
	"github.com/gearline-ai/parts-assistant/pkg/logger"
	"github.com/gearline-ai/parts-assistant/pkg/tracing"
)

func main() {
	// Load .env if present, then configuration
	_ = godotenv.Load()
	cfg := config.Load()

	// Initialize logger
	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()
	logger.SetGlobal(log)

	log.Info("starting API server")

	// Initialize tracing if enabled
	ctx := context.Background()
	if cfg.TracingEnabled {
		tp, err := tracing.InitTracer(ctx, "parts-assistant", cfg.TracingEndpoint)
		if err != nil {
			log.Warn("failed to initialize tracing")
		} else {
			defer tracing.Shutdown(ctx, tp)
		}
	}

	// Session cache (Redis)
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer redisClient.Close()
	sessionCache := session.NewRedisCache(redisClient)
	sessions := session.NewStore(sessionCache, cfg.SessionTTL, cfg.SessionMaxMessages, log)

	// Catalog store (Postgres)
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("failed to create catalog pool")
		os.Exit(1)
	}
	defer pool.Close()
	catalogRepo := catalog.NewPostgresRepository(pool)

	// OpenAI collaborators
	openaiClient, err := llm.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.EmbeddingModel, cfg.ChatModel)
	if err != nil {
		log.Error("failed to create OpenAI client")
		os.Exit(1)
	}
	mediaProvider, err := media.NewOpenAIProvider(cfg.OpenAIAPIKey, cfg.ChatModel)
	if err != nil {
		log.Error("failed to create media provider")
		os.Exit(1)
	}

	// Directory and outbound gateway
	dir := directory.NewHTTPClient(cfg.DirectoryBaseURL, cfg.DirectoryAPIKey, cfg.CollaboratorTimeout)
	sender := outbound.NewHTTPSender(cfg.OutboundBaseURL, cfg.OutboundToken, cfg.CollaboratorTimeout)

	// Optional turn-event audit stream
	var publisher *events.Publisher
	if cfg.NATSURL != "" {
		natsClient, err := events.Connect(ctx, events.Config{
			URL:      cfg.NATSURL,
			CAFile:   cfg.NATSCAFile,
			CertFile: cfg.NATSCertFile,
			KeyFile:  cfg.NATSKeyFile,
			Token:    cfg.NATSToken,
		}, log)
		if err != nil {
			log.Warn("failed to connect to NATS, audit events disabled")
		} else {
			defer natsClient.Close()
			publisher = events.NewPublisher(natsClient)
			if err := publisher.EnsureStream(ctx); err != nil {
				log.Warn("failed to ensure audit stream, audit events disabled")
				publisher = nil
			}
		}
	}

	// Pipeline components
	matcher := catalog.NewMatcher(catalogRepo, openaiClient, cfg.CatalogStaleAfter, log)
	if err := matcher.Refresh(ctx, true); err != nil {
		log.Warn("initial catalog load failed, will retry lazily")
	}
	resolver := vehicle.NewResolver(dir, log)
	rules := product.NewRegistry()
	assembler := decision.NewAssembler(cfg.ClarifyThreshold)

	processor := pipeline.NewProcessor(
		sessions, resolver, matcher, dir, rules, assembler,
		mediaProvider, mediaProvider, openaiClient, sender, publisher,
		pipeline.Options{
			TopK:                cfg.MatchTopK,
			ContextWindow:       cfg.ContextWindow,
			CollaboratorTimeout: cfg.CollaboratorTimeout,
		},
		log,
	)

	// Normalizer and handlers
	normalizer := webhook.NewNormalizer(cfg.MediaStorageBaseURL, log)
	webhookHandler := handler.NewWebhookHandler(normalizer, processor, cfg.TurnTimeout, log)
	healthHandler := handler.NewHealthHandler(sessionCache, catalogRepo)
	adminHandler := handler.NewAdminHandler(matcher, log)

	// Create router
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging(log))
	r.Use(chimiddleware.Recoverer)

	// Health endpoints (no auth required)
	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)

	// Metrics endpoint
	r.Handle("/metrics", promhttp.Handler())

	// Inbound webhook: always acknowledged, never rate limited
	r.Post("/webhooks/inbound", webhookHandler.Receive)

	// Admin surface with authentication
	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWTSecret))
		r.Use(middleware.RequireScope("admin"))
		r.Use(middleware.RateLimit(cfg.RateLimitRequests, cfg.RateLimitWindow))

		r.Get("/catalog", adminHandler.CatalogStatus)
		r.Post("/catalog/refresh", adminHandler.RefreshCatalog)
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      r,
		ReadTimeout:  cfg.ServerReadTimeout,
		WriteTimeout: cfg.ServerWriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info("server listening on port " + cfg.ServerPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error")
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown")
	}

	log.Info("server stopped")
}
