package osu

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/osu-tournament-rating/otr-api-sub005/internal/observability/attr"
	"github.com/osu-tournament-rating/otr-api-sub005/internal/observability/pipelinemetrics"
)

// ErrFetchSkipped marks a fetch suppressed by the deduplication layer. It is a
// normal outcome: the message is acked without work.
var ErrFetchSkipped = errors.New("osu: fetch already in flight or recently processed")

const platformOsu = "osu"

// FetchService wraps the raw client with the cross-process coordination every
// fetch must go through: dedup reservation, distributed lock, local window
// throttling, and cooldown on explicit upstream rate-limit signals.
type FetchService struct {
	client  Client
	limiter *RateLimiter
	locker  Locker
	dedup   Deduplicator
	logger  *slog.Logger
	metrics pipelinemetrics.PipelineMetrics
	lockTTL time.Duration
}

func NewFetchService(
	client Client,
	limiter *RateLimiter,
	locker Locker,
	dedup Deduplicator,
	logger *slog.Logger,
	metrics pipelinemetrics.PipelineMetrics,
	lockTTL time.Duration,
) *FetchService {
	return &FetchService{
		client:  client,
		limiter: limiter,
		locker:  locker,
		dedup:   dedup,
		logger:  logger,
		metrics: metrics,
		lockTTL: lockTTL,
	}
}

func (s *FetchService) FetchMatch(ctx context.Context, osuMatchID int64) (*MatchData, error) {
	return fetchOne(ctx, s, "match", osuMatchID, s.client.FetchMatch)
}

func (s *FetchService) FetchBeatmap(ctx context.Context, beatmapOsuID int64) (*BeatmapData, error) {
	return fetchOne(ctx, s, "beatmap", beatmapOsuID, s.client.FetchBeatmap)
}

func (s *FetchService) FetchPlayer(ctx context.Context, playerOsuID int64) (*PlayerData, error) {
	return fetchOne(ctx, s, "player", playerOsuID, s.client.FetchPlayer)
}

func (s *FetchService) FetchPlayerTrackHistory(ctx context.Context, playerOsuID int64) ([]TrackHistoryEntry, error) {
	return fetchOne(ctx, s, "track_history", playerOsuID, s.client.FetchPlayerTrackHistory)
}

// fetchOne runs the shared coordination path around one upstream call.
// T is nil-able (pointer or slice); nil with nil error means not-found.
func fetchOne[T any](
	ctx context.Context,
	s *FetchService,
	fetchType string,
	id int64,
	fetch func(context.Context, int64) (T, error),
) (T, error) {
	var zero T

	reserved, err := s.dedup.TryReserve(ctx, fetchType, id)
	if err != nil {
		return zero, err
	}
	if !reserved {
		s.metrics.RecordFetchDeduplicated(ctx, fetchType)
		return zero, ErrFetchSkipped
	}

	succeeded := false
	defer func() {
		if !succeeded {
			// Drop the pending marker so a redelivery can retry.
			if releaseErr := s.dedup.Release(context.WithoutCancel(ctx), fetchType, id); releaseErr != nil {
				s.logger.ErrorContext(ctx, "failed to release fetch reservation",
					attr.String("fetch_type", fetchType),
					attr.Int64("id", id),
					attr.Error(releaseErr),
				)
			}
		}
	}()

	lease, err := s.locker.AcquireLock(ctx, platformOsu, s.lockTTL)
	if err != nil {
		return zero, err
	}
	defer func() {
		if releaseErr := lease.Release(context.WithoutCancel(ctx)); releaseErr != nil {
			s.logger.ErrorContext(ctx, "failed to release fetch lock", attr.Error(releaseErr))
		}
	}()

	if s.limiter.Throttled(platformOsu) {
		s.metrics.RecordFetchThrottled(ctx, platformOsu)
	}
	if err := s.limiter.Wait(ctx, platformOsu); err != nil {
		return zero, err
	}

	s.metrics.RecordFetchAttempt(ctx, platformOsu)
	result, err := fetch(ctx, id)
	if err != nil {
		if errors.Is(err, ErrRateLimited) {
			// Treat as not-found for this pass; a later retry may succeed.
			s.limiter.ForceCooldown(platformOsu)
			s.logger.WarnContext(ctx, "upstream rate limit hit, forcing cooldown",
				attr.String("fetch_type", fetchType),
				attr.Int64("id", id),
			)
			s.metrics.RecordFetchNotFound(ctx, platformOsu)
			return zero, nil
		}
		return zero, err
	}

	succeeded = true
	if err := s.dedup.MarkProcessed(ctx, fetchType, id); err != nil {
		s.logger.ErrorContext(ctx, "failed to mark fetch processed", attr.Error(err))
	}
	return result, nil
}
