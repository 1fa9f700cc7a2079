// Package app wires every component of the worker together: storage, broker,
// upstream client, processing drivers, message router, and the metrics/health
// HTTP listener.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel"
	"golang.org/x/sync/errgroup"

	"github.com/osu-tournament-rating/otr-api-sub005/config"
	"github.com/osu-tournament-rating/otr-api-sub005/internal/eventbus"
	"github.com/osu-tournament-rating/otr-api-sub005/internal/handlers"
	"github.com/osu-tournament-rating/otr-api-sub005/internal/observability/pipelinemetrics"
	"github.com/osu-tournament-rating/otr-api-sub005/internal/osu"
	"github.com/osu-tournament-rating/otr-api-sub005/internal/processing"
	"github.com/osu-tournament-rating/otr-api-sub005/internal/repositories"
	"github.com/osu-tournament-rating/otr-api-sub005/internal/router"
)

// App owns the worker's long-lived components.
type App struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Registry *prometheus.Registry
	Router   *router.PipelineRouter

	db    *bun.DB
	redis *redis.Client
	bus   eventbus.EventBus
}

// NewApp builds the full dependency graph.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := newLogger(cfg.Observability.LogLevel)
	registry := prometheus.NewRegistry()
	metrics := pipelinemetrics.NewPrometheusMetrics(registry)

	db, err := repositories.NewBunDB(ctx, cfg.Postgres.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	repo := repositories.NewBunRepository(db)

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	bus, err := eventbus.New(cfg.NATS.URL, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize event bus: %w", err)
	}

	client := osu.NewHTTPClient(ctx, cfg.Osu.BaseURL, cfg.Osu.TokenURL, cfg.Osu.ClientID, cfg.Osu.ClientSecret)
	limiter := osu.NewRateLimiter(cfg.Osu.RateLimitBudget, cfg.Osu.RateLimitWindow, cfg.Osu.Cooldown)
	locker := osu.NewRedisLocker(redisClient)
	dedup := osu.NewRedisDeduplicator(redisClient, cfg.Osu.DedupPendingTTL, cfg.Osu.DedupProcessedTTL, cfg.Osu.DedupDisabledTypes)
	fetcher := osu.NewFetchService(client, limiter, locker, dedup, logger, metrics, cfg.Osu.LockTTL)

	processor := processing.NewProcessor(logger, metrics)
	tracer := otel.Tracer("otr-worker")
	pipelineHandlers := handlers.NewPipelineHandlers(repo, processor, fetcher, bus, logger, tracer, metrics)

	pipelineRouter, err := router.New(logger, bus, registry, cfg.Queues.Concurrency)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize router: %w", err)
	}
	if err := pipelineRouter.Configure(ctx, pipelineHandlers); err != nil {
		return nil, fmt.Errorf("failed to configure router: %w", err)
	}

	return &App{
		Cfg:      cfg,
		Logger:   logger,
		Registry: registry,
		Router:   pipelineRouter,
		db:       db,
		redis:    redisClient,
		bus:      bus,
	}, nil
}

// Run blocks until the context is cancelled or a component fails.
func (a *App) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return a.Router.Run(ctx)
	})

	if addr := a.Cfg.Observability.MetricsAddress; addr != "" {
		mux := chi.NewRouter()
		mux.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ok"))
		})
		mux.Handle("/metrics", promhttp.HandlerFor(a.Registry, promhttp.HandlerOpts{}))

		server := &http.Server{Addr: addr, Handler: mux}
		g.Go(func() error {
			a.Logger.Info("metrics listener started", slog.String("addr", addr))
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		})
	}

	return g.Wait()
}

// Close releases every connection. Safe to call after Run returns.
func (a *App) Close() {
	if err := a.Router.Close(); err != nil {
		a.Logger.Error("failed to close router", slog.Any("error", err))
	}
	if err := a.bus.Close(); err != nil {
		a.Logger.Error("failed to close event bus", slog.Any("error", err))
	}
	if err := a.redis.Close(); err != nil {
		a.Logger.Error("failed to close redis client", slog.Any("error", err))
	}
	if err := a.db.Close(); err != nil {
		a.Logger.Error("failed to close database", slog.Any("error", err))
	}
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}
