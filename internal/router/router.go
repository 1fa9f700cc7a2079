// Package router assembles the watermill message router: middleware, per-topic
// queue-group subscribers, and the handler registrations.
package router

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	wmmetrics "github.com/ThreeDotsLabs/watermill/components/metrics"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/osu-tournament-rating/otr-api-sub005/internal/eventbus"
	"github.com/osu-tournament-rating/otr-api-sub005/internal/events"
	"github.com/osu-tournament-rating/otr-api-sub005/internal/handlers"
)

const (
	// TestEnvironmentFlag skips the Prometheus router middleware when the flag
	// matches TestEnvironmentValue, keeping test registries clean.
	TestEnvironmentFlag  = "APP_ENV"
	TestEnvironmentValue = "test"
)

// PipelineRouter owns the watermill router and its topic registrations.
type PipelineRouter struct {
	logger *slog.Logger
	Router *message.Router
	bus    eventbus.EventBus

	metricsBuilder *wmmetrics.PrometheusMetricsBuilder
	metricsEnabled bool

	// concurrency maps topic to the subscriber count for its queue group.
	concurrency map[string]int
}

func New(
	logger *slog.Logger,
	bus eventbus.EventBus,
	registry *prometheus.Registry,
	concurrency map[string]int,
) (*PipelineRouter, error) {
	wmRouter, err := message.NewRouter(message.RouterConfig{}, watermill.NewSlogLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("failed to create router: %w", err)
	}

	inTestEnv := os.Getenv(TestEnvironmentFlag) == TestEnvironmentValue
	var metricsBuilder *wmmetrics.PrometheusMetricsBuilder
	if registry != nil && !inTestEnv {
		b := wmmetrics.NewPrometheusMetricsBuilder(registry, "", "")
		metricsBuilder = &b
	}

	return &PipelineRouter{
		logger:         logger,
		Router:         wmRouter,
		bus:            bus,
		metricsBuilder: metricsBuilder,
		metricsEnabled: metricsBuilder != nil,
		concurrency:    concurrency,
	}, nil
}

// Configure adds the middleware stack and registers one handler per topic.
func (r *PipelineRouter) Configure(_ context.Context, h *handlers.PipelineHandlers) error {
	if r.metricsEnabled && r.metricsBuilder != nil {
		r.metricsBuilder.AddPrometheusRouterMetrics(r.Router)
	} else {
		r.logger.Info("skipping Prometheus router metrics middleware")
	}

	r.Router.AddMiddleware(
		middleware.CorrelationID,
		middleware.Recoverer,
		middleware.Retry{
			MaxRetries:      3,
			InitialInterval: time.Second,
			Logger:          watermill.NewSlogLogger(r.logger),
		}.Middleware,
	)

	registrations := []struct {
		topic   string
		handler message.NoPublishHandlerFunc
	}{
		{events.FetchMatchTopic, h.HandleFetchMatch()},
		{events.FetchBeatmapTopic, h.HandleFetchBeatmap()},
		{events.FetchPlayerTopic, h.HandleFetchPlayer()},
		{events.FetchPlayerTrackHistoryTopic, h.HandleFetchPlayerTrackHistory()},
		{events.CheckScoreTopic, h.HandleCheckScore()},
		{events.CheckGameTopic, h.HandleCheckGame()},
		{events.CheckMatchTopic, h.HandleCheckMatch()},
		{events.CheckTournamentTopic, h.HandleCheckTournament()},
		{events.TournamentStatsTopic, h.HandleTournamentStats()},
		{events.TournamentProcessedTopic, h.HandleTournamentProcessed()},
	}
	for _, reg := range registrations {
		subscriber, err := r.bus.NewSubscriber("otr-"+reg.topic, r.concurrency[reg.topic])
		if err != nil {
			return fmt.Errorf("failed to build subscriber for %s: %w", reg.topic, err)
		}
		r.Router.AddNoPublisherHandler("otr."+reg.topic, reg.topic, subscriber, reg.handler)
	}
	return nil
}

// Run blocks until the context is cancelled or the router fails.
func (r *PipelineRouter) Run(ctx context.Context) error {
	return r.Router.Run(ctx)
}

func (r *PipelineRouter) Close() error {
	return r.Router.Close()
}
