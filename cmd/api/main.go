package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/tecnoclick/search-backend/internal/adapters/cache"
	"github.com/tecnoclick/search-backend/internal/adapters/database"
	"github.com/tecnoclick/search-backend/internal/adapters/events"
	"github.com/tecnoclick/search-backend/internal/api/handlers"
	"github.com/tecnoclick/search-backend/internal/api/routes"
	"github.com/tecnoclick/search-backend/internal/application/services"
	"github.com/tecnoclick/search-backend/internal/domain/providers"
	"github.com/tecnoclick/search-backend/internal/domain/repositories"
	"github.com/tecnoclick/search-backend/internal/infrastructure/clients/postgres"
	"github.com/tecnoclick/search-backend/internal/infrastructure/clients/redis"
	"github.com/tecnoclick/search-backend/internal/infrastructure/observability"
	"github.com/tecnoclick/search-backend/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Server.Env)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(ctx, cfg.OTEL.ServiceName, cfg.OTEL.ServiceVersion, cfg.OTEL.Endpoint)
		if err != nil {
			log.Warn().Err(err).Msg("failed to set up OpenTelemetry")
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					log.Warn().Err(err).Msg("error shutting down OpenTelemetry")
				}
			}()
			log.Info().Msg("OpenTelemetry initialized")
		}
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize metrics")
	}

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize PostgreSQL client")
	}
	defer pgClient.Close()
	log.Info().Msg("PostgreSQL client initialized")

	// the service degrades gracefully without Redis: no shared vocabulary
	// cache and no catalog-sync invalidation, TTL expiry still applies
	var cacheProvider providers.CacheProvider
	var eventBus providers.EventBus
	redisClient, err := redis.NewClient(&cfg.Redis)
	if err != nil {
		log.Warn().Err(err).Msg("Redis unavailable, continuing without shared cache")
	} else {
		defer redisClient.Close()
		cacheProvider = cache.NewRedisAdapter(redisClient)
		eventBus = events.NewRedisEventBus(redisClient)
		log.Info().Msg("Redis client initialized")
	}

	ledger := database.NewSearchLedgerAdapter(pgClient)
	corrections := database.NewCorrectionAdapter(pgClient)
	relevance := database.NewRelevanceAdapter(pgClient)
	sources := []repositories.CatalogSource{
		database.NewCvaCatalogAdapter(pgClient),
		database.NewManualCatalogAdapter(pgClient),
	}

	vocabulary := services.NewVocabularyService(sources, cacheProvider, cfg.Search.VocabularyTTLSeconds, metrics)
	rewriter := services.NewRewriteService(corrections, vocabulary, cfg.Search.ConfirmationThreshold, cfg.Search.MinSimilarityPercent)
	searchService := services.NewSearchService(ledger, relevance, rewriter, sources, cfg.Search.ResultLimit, metrics)
	selectionService := services.NewSelectionService(ledger, relevance, corrections, metrics)

	if eventBus != nil {
		defer eventBus.Close()
		invalidation := services.NewCacheInvalidationService(vocabulary, eventBus)
		if err := invalidation.Start(); err != nil {
			log.Warn().Err(err).Msg("failed to start cache invalidation service")
		} else {
			defer invalidation.Stop()
		}
	}

	searchHandler := handlers.NewSearchHandler(searchService, selectionService)
	var redisPinger handlers.Pinger
	if redisClient != nil {
		redisPinger = redisClient
	}
	healthHandler := handlers.NewHealthHandler(pgClient, redisPinger)

	router := routes.NewRouter(searchHandler, healthHandler, metrics)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("starting HTTP server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}
}
