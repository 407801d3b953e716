package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/animequeens/storefront/internal/cart"
	"github.com/animequeens/storefront/internal/catalog"
	"github.com/animequeens/storefront/internal/config"
	"github.com/animequeens/storefront/internal/event"
	handler "github.com/animequeens/storefront/internal/handler/http"
	memorystore "github.com/animequeens/storefront/internal/store/memory"
	redisstore "github.com/animequeens/storefront/internal/store/redis"
	"github.com/animequeens/storefront/pkg/health"
	pkgkafka "github.com/animequeens/storefront/pkg/kafka"
	"github.com/animequeens/storefront/pkg/tracing"
)

// App wires together all dependencies and runs the storefront service.
type App struct {
	cfg        *config.Config
	logger     *slog.Logger
	rdb        *redis.Client
	producer   *pkgkafka.Producer
	httpServer *http.Server

	shutdownTracing func(context.Context) error
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	a := &App{cfg: cfg, logger: logger}

	// Tracing.
	shutdownTracing, err := tracing.Init(ctx, tracing.Config{
		ServiceName:    "storefront",
		ServiceVersion: "1.0.0",
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.OTLPEndpoint,
		SampleRate:     cfg.OTELSampleRate,
		Enabled:        cfg.TracingEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracing: %w", err)
	}
	a.shutdownTracing = shutdownTracing

	// Per-session cart storage.
	cartTTL := time.Duration(cfg.CartTTL) * time.Hour
	var newStore cart.StoreFactory
	switch cfg.StorageBackend {
	case config.BackendRedis:
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPass,
			DB:       cfg.RedisDB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		logger.Info("connected to Redis",
			slog.String("addr", cfg.RedisAddr),
			slog.Int("db", cfg.RedisDB),
		)
		a.rdb = rdb
		newStore = func(sessionID string) cart.Store {
			return redisstore.NewStore(rdb, sessionID, cartTTL)
		}
	case config.BackendMemory:
		logger.Warn("using in-memory cart storage, carts do not survive restarts")
		backend := memorystore.NewBackend()
		newStore = func(sessionID string) cart.Store {
			return backend.Store(sessionID)
		}
	default:
		return nil, fmt.Errorf("unknown cart storage backend: %q", cfg.StorageBackend)
	}

	// Kafka producer for cart change events.
	kafkaCfg := pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers)
	a.producer = pkgkafka.NewProducer(kafkaCfg, logger)
	logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))

	// Every session cart gets the event and metrics subscribers on creation.
	eventProducer := event.NewProducer(a.producer, logger)
	hub := cart.NewHub(newStore, logger, cart.WithOnCreate(func(sessionID string, m *cart.Manager) {
		eventProducer.Attach(sessionID, m)
		event.AttachMetrics(m)
	}))

	// Health checks.
	healthHandler := health.NewHandler()
	if a.rdb != nil {
		healthHandler.Register("redis", func(ctx context.Context) error {
			return a.rdb.Ping(ctx).Err()
		})
	}
	healthHandler.Register("kafka", func(ctx context.Context) error {
		return a.producer.Ping(ctx)
	})

	// HTTP router.
	router := handler.NewRouter(hub, catalog.Default(), healthHandler, logger)

	a.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return a, nil
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
	}

	if err := a.producer.Close(); err != nil {
		a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
	}

	if a.rdb != nil {
		if err := a.rdb.Close(); err != nil {
			a.logger.Error("redis close error", slog.String("error", err.Error()))
		}
	}

	if a.shutdownTracing != nil {
		if err := a.shutdownTracing(shutdownCtx); err != nil {
			a.logger.Error("tracing shutdown error", slog.String("error", err.Error()))
		}
	}

	a.logger.Info("application shutdown complete")
	return nil
}
