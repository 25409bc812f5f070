package main

import (
	"context"
	"crypto/rsa"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/boddenberg/spendwise-api/internal/config"
	"github.com/boddenberg/spendwise-api/internal/domain"
	"github.com/boddenberg/spendwise-api/internal/handler"
	"github.com/boddenberg/spendwise-api/internal/infra/cache"
	"github.com/boddenberg/spendwise-api/internal/infra/clerk"
	"github.com/boddenberg/spendwise-api/internal/infra/events"
	"github.com/boddenberg/spendwise-api/internal/infra/memstore"
	"github.com/boddenberg/spendwise-api/internal/infra/observability"
	"github.com/boddenberg/spendwise-api/internal/infra/ratelimit"
	"github.com/boddenberg/spendwise-api/internal/infra/resilience"
	"github.com/boddenberg/spendwise-api/internal/infra/supabase"
	"github.com/boddenberg/spendwise-api/internal/port"
	"github.com/boddenberg/spendwise-api/internal/scheduler"
	"github.com/boddenberg/spendwise-api/internal/service"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	// --- Config ---
	cfg := config.Load()

	// --- Logger ---
	logger := observability.NewLogger(cfg.LogLevel, cfg.Version)
	defer logger.Sync()

	if err := cfg.Validate(); err != nil {
		logger.Fatal("invalid configuration", zap.Error(err))
	}

	logger.Info("configuration loaded",
		zap.Int("port", cfg.Port),
		zap.String("log_level", cfg.LogLevel),
		zap.String("store_backend", cfg.StoreBackend),
		zap.Strings("allowed_origins", cfg.AllowedOrigins),
		zap.Duration("rate_limit_window", cfg.RateLimitWindow),
		zap.Int("rate_limit_max", cfg.RateLimitMax),
		zap.Duration("http_timeout", cfg.HTTPTimeout),
		zap.Duration("cache_ttl", cfg.CacheTTL),
		zap.Int("max_retries", cfg.MaxRetries),
		zap.String("snapshot_schedule", cfg.SnapshotSchedule),
	)

	// --- Tracing ---
	shutdownTracer, err := observability.InitTracer(cfg.OTLPEndpoint, "spendwise-api", cfg.Version)
	if err != nil {
		logger.Fatal("failed to init tracer", zap.Error(err))
	}
	defer shutdownTracer(context.Background())

	// --- Metrics ---
	metrics := observability.NewMetrics()

	// --- Clients ---
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}

	// --- Store & auth ---
	var store port.Store
	var verifier port.TokenVerifier
	switch cfg.StoreBackend {
	case config.BackendMemory:
		logger.Warn("using in-memory store with dev tokens, data is lost on restart")
		store = memstore.New(time.Now)
		verifier = clerk.StaticVerifier{}
	default:
		logger.Info("using Supabase as data backend", zap.String("supabase_url", cfg.SupabaseURL))
		resilienceCfg := resilience.Config{
			MaxRetries:     cfg.MaxRetries,
			InitialBackoff: cfg.InitialBackoff,
			MaxConcurrency: cfg.MaxConcurrency,
		}
		cb := resilience.NewCircuitBreaker("supabase", supabase.IsSuccessful)
		store = supabase.NewClient(httpClient, cfg.SupabaseURL, cfg.SupabaseAnonKey, cfg.SupabaseServiceKey, cb, resilienceCfg, logger)

		jwksCache := cache.New[*rsa.PublicKey](time.Hour, 64)
		defer jwksCache.Close()
		verifier = clerk.NewVerifier(clerk.Config{
			JWKSURL:  cfg.ClerkJWKSURL,
			Issuer:   cfg.ClerkIssuer,
			Audience: cfg.ClerkAudience,
			Leeway:   5 * time.Second,
		}, httpClient, jwksCache, logger)
	}

	// --- Rate limiter ---
	var limiter port.RateLimiter
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.Fatal("invalid REDIS_URL", zap.Error(err))
		}
		rdb := redis.NewClient(opts)
		defer rdb.Close()
		limiter = ratelimit.NewRedis(rdb, "spendwise:ratelimit:", cfg.RateLimitMax, cfg.RateLimitWindow)
		logger.Info("rate limiting backed by redis")
	} else {
		limiter = ratelimit.NewMemory(cfg.RateLimitMax, cfg.RateLimitWindow, time.Now)
		logger.Info("rate limiting in memory (single instance)")
	}

	// --- Events ---
	var publisher port.EventPublisher = events.Noop{Logger: logger}
	if cfg.AMQPURL != "" {
		p, err := events.NewAMQPPublisher(cfg.AMQPURL, cfg.EventsExchange, logger)
		if err != nil {
			logger.Fatal("failed to connect to AMQP broker", zap.Error(err))
		}
		publisher = p
		logger.Info("publishing domain events", zap.String("exchange", cfg.EventsExchange))
	}
	defer publisher.Close()

	// --- Cache ---
	trendsCache := cache.New[*domain.Trends](cfg.CacheTTL, cfg.CacheMaxEntries)
	defer trendsCache.Close()

	// --- Services ---
	svc := service.NewFinanceService(store, metrics, logger,
		service.WithEvents(publisher),
		service.WithTrendsCache(trendsCache),
	)

	// --- Scheduler ---
	sched := scheduler.New(svc, 30*time.Minute, logger)
	if err := sched.Start(cfg.SnapshotSchedule); err != nil {
		logger.Fatal("failed to start scheduler", zap.Error(err))
	}

	// --- Router ---
	router := handler.NewRouter(svc, handler.RouterConfig{
		Verifier:            verifier,
		Limiter:             limiter,
		AllowedOrigins:      cfg.AllowedOrigins,
		AllowedOriginSuffix: cfg.AllowedOriginSuffix,
		MaxBodyBytes:        cfg.MaxBodyBytes,
		RequestTimeout:      25 * time.Second,
		Version:             cfg.Version,
	}, metrics, logger)

	// --- Server ---
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// --- Graceful shutdown ---
	go func() {
		logger.Info("server starting", zap.Int("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("server shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced shutdown", zap.Error(err))
	}

	select {
	case <-sched.Stop().Done():
	case <-ctx.Done():
		logger.Warn("snapshot job still running at shutdown")
	}

	logger.Info("server stopped")
}
