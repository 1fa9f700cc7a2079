// Package handlers wires the message topics to the pipeline: fetch consumers
// that pull upstream data, check consumers that run the processing drivers, and
// the stat/report consumers that finish a tournament off.
package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"go.opentelemetry.io/otel/trace"

	"github.com/osu-tournament-rating/otr-api-sub005/internal/eventbus"
	"github.com/osu-tournament-rating/otr-api-sub005/internal/observability/attr"
	"github.com/osu-tournament-rating/otr-api-sub005/internal/observability/pipelinemetrics"
	"github.com/osu-tournament-rating/otr-api-sub005/internal/osu"
	"github.com/osu-tournament-rating/otr-api-sub005/internal/processing"
	"github.com/osu-tournament-rating/otr-api-sub005/internal/repositories"
)

// Fetcher is the slice of the fetch service the handlers need.
type Fetcher interface {
	FetchMatch(ctx context.Context, osuMatchID int64) (*osu.MatchData, error)
	FetchBeatmap(ctx context.Context, beatmapOsuID int64) (*osu.BeatmapData, error)
	FetchPlayer(ctx context.Context, playerOsuID int64) (*osu.PlayerData, error)
	FetchPlayerTrackHistory(ctx context.Context, playerOsuID int64) ([]osu.TrackHistoryEntry, error)
}

// PipelineHandlers holds every message handler of the worker.
type PipelineHandlers struct {
	repo      repositories.Repository
	processor *processing.Processor
	fetcher   Fetcher
	bus       eventbus.EventBus
	logger    *slog.Logger
	tracer    trace.Tracer
	metrics   pipelinemetrics.PipelineMetrics
}

func NewPipelineHandlers(
	repo repositories.Repository,
	processor *processing.Processor,
	fetcher Fetcher,
	bus eventbus.EventBus,
	logger *slog.Logger,
	tracer trace.Tracer,
	metrics pipelinemetrics.PipelineMetrics,
) *PipelineHandlers {
	return &PipelineHandlers{
		repo:      repo,
		processor: processor,
		fetcher:   fetcher,
		bus:       bus,
		logger:    logger,
		tracer:    tracer,
		metrics:   metrics,
	}
}

// wrap handles the common tracing, logging, metrics, and payload decoding for
// every handler. The payload pointer returned by newPayload receives the
// message body before handle runs.
func (h *PipelineHandlers) wrap(
	handlerName string,
	newPayload func() any,
	handle func(ctx context.Context, msg *message.Message, payload any) error,
) message.NoPublishHandlerFunc {
	return func(msg *message.Message) error {
		ctx, span := h.tracer.Start(msg.Context(), handlerName)
		defer span.End()
		ctx = attr.WithCorrelationID(ctx, middleware.MessageCorrelationID(msg))

		h.metrics.RecordHandlerAttempt(ctx, handlerName)
		start := time.Now()
		defer func() {
			h.metrics.RecordHandlerDuration(ctx, handlerName, time.Since(start))
		}()

		h.logger.InfoContext(ctx, handlerName+" triggered",
			attr.CorrelationIDFromMsg(msg),
			attr.String("message_id", msg.UUID),
		)

		payload := newPayload()
		if err := json.Unmarshal(msg.Payload, payload); err != nil {
			h.logger.ErrorContext(ctx, "failed to unmarshal payload",
				attr.CorrelationIDFromMsg(msg),
				attr.Error(err),
			)
			h.metrics.RecordHandlerFailure(ctx, handlerName)
			return fmt.Errorf("failed to unmarshal payload: %w", err)
		}

		if err := handle(ctx, msg, payload); err != nil {
			h.logger.ErrorContext(ctx, "error in "+handlerName,
				attr.CorrelationIDFromMsg(msg),
				attr.Error(err),
			)
			h.metrics.RecordHandlerFailure(ctx, handlerName)
			return err
		}

		h.logger.InfoContext(ctx, handlerName+" completed", attr.CorrelationIDFromMsg(msg))
		h.metrics.RecordHandlerSuccess(ctx, handlerName)
		return nil
	}
}

// publish forwards a follow-up message, carrying the inbound correlation id.
func (h *PipelineHandlers) publish(ctx context.Context, msg *message.Message, topic string, payload any) error {
	return h.bus.Publish(ctx, topic, middleware.MessageCorrelationID(msg), payload)
}
