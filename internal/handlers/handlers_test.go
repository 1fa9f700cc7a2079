package handlers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/mock/gomock"

	"github.com/osu-tournament-rating/otr-api-sub005/internal/domain"
	"github.com/osu-tournament-rating/otr-api-sub005/internal/events"
	"github.com/osu-tournament-rating/otr-api-sub005/internal/observability/pipelinemetrics"
	"github.com/osu-tournament-rating/otr-api-sub005/internal/osu"
	"github.com/osu-tournament-rating/otr-api-sub005/internal/processing"
	"github.com/osu-tournament-rating/otr-api-sub005/internal/repositories/mocks"
)

type fakeFetcher struct {
	match      *osu.MatchData
	matchErr   error
	player     *osu.PlayerData
	playerErr  error
	beatmap    *osu.BeatmapData
	beatmapErr error
	history    []osu.TrackHistoryEntry
	historyErr error
}

func (f *fakeFetcher) FetchMatch(context.Context, int64) (*osu.MatchData, error) {
	return f.match, f.matchErr
}

func (f *fakeFetcher) FetchBeatmap(context.Context, int64) (*osu.BeatmapData, error) {
	return f.beatmap, f.beatmapErr
}

func (f *fakeFetcher) FetchPlayer(context.Context, int64) (*osu.PlayerData, error) {
	return f.player, f.playerErr
}

func (f *fakeFetcher) FetchPlayerTrackHistory(context.Context, int64) ([]osu.TrackHistoryEntry, error) {
	return f.history, f.historyErr
}

type publishedMessage struct {
	topic         string
	correlationID string
	payload       any
}

type fakeBus struct {
	published []publishedMessage
}

func (b *fakeBus) Publish(_ context.Context, topic, correlationID string, payload any) error {
	b.published = append(b.published, publishedMessage{topic, correlationID, payload})
	return nil
}

func (b *fakeBus) NewSubscriber(string, int) (message.Subscriber, error) { return nil, nil }

func (b *fakeBus) Close() error { return nil }

func (b *fakeBus) topics() []string {
	out := make([]string, 0, len(b.published))
	for _, p := range b.published {
		out = append(out, p.topic)
	}
	return out
}

func newTestHandlers(repo *mocks.MockRepository, fetcher Fetcher) (*PipelineHandlers, *fakeBus) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	bus := &fakeBus{}
	processor := processing.NewProcessor(logger, pipelinemetrics.NoOpMetrics{})
	tracer := noop.NewTracerProvider().Tracer("test")
	h := NewPipelineHandlers(repo, processor, fetcher, bus, logger, tracer, pipelinemetrics.NoOpMetrics{})
	return h, bus
}

func newTestMessage(t *testing.T, payload any) *message.Message {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	msg := message.NewMessage(watermill.NewUUID(), body)
	middleware.SetCorrelationID(watermill.NewUUID(), msg)
	return msg
}

func pendingTournament(matchOsuID int64) *domain.Tournament {
	return &domain.Tournament{
		ID:           1,
		Name:         gofakeit.Sentence(3),
		Abbreviation: "OWC2023",
		Ruleset:      domain.RulesetOsu,
		LobbySize:    2,
		Matches: []*domain.Match{
			{ID: 1, OsuID: matchOsuID, TournamentID: 1},
		},
	}
}

func TestHandleFetchMatchNotFoundFlagsMatch(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockRepository(ctrl)
	tournament := pendingTournament(111)

	repo.EXPECT().TournamentByMatchOsuID(gomock.Any(), int64(111)).Return(tournament, nil)
	repo.EXPECT().SaveTournament(gomock.Any(), tournament).Return(nil)

	h, bus := newTestHandlers(repo, &fakeFetcher{match: nil})
	msg := newTestMessage(t, events.FetchMatchPayload{OsuMatchID: 111})

	require.NoError(t, h.HandleFetchMatch()(msg))

	match := tournament.Matches[0]
	assert.NotZero(t, match.RejectionReason&domain.MatchRejectionReasonNoData)
	assert.Equal(t, domain.VerificationStatusPreRejected, match.VerificationStatus)
	assert.Equal(t, []string{events.CheckTournamentTopic}, bus.topics())
}

func TestHandleFetchMatchAppliesUpstreamData(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockRepository(ctrl)
	tournament := pendingTournament(111)

	start := time.Date(2023, 6, 10, 18, 0, 0, 0, time.UTC)
	data := &osu.MatchData{
		OsuID:     111,
		Name:      "OWC2023: (A) vs (B)",
		StartTime: start,
		EndTime:   start.Add(time.Hour),
		Games: []osu.GameData{
			{
				OsuID:        900,
				BeatmapOsuID: 42,
				TeamType:     int(domain.TeamTypeTeamVs),
				ScoringType:  int(domain.ScoringTypeScoreV2),
				StartTime:    start,
				EndTime:      start.Add(5 * time.Minute),
				Scores: []osu.GameScoreData{
					{PlayerOsuID: 1, Team: int(domain.TeamRed), Score: 500_000, Passed: true},
					{PlayerOsuID: 2, Team: int(domain.TeamBlue), Score: 400_000, Passed: true},
				},
			},
		},
	}

	repo.EXPECT().TournamentByMatchOsuID(gomock.Any(), int64(111)).Return(tournament, nil)
	repo.EXPECT().SaveTournament(gomock.Any(), tournament).Return(nil)

	h, bus := newTestHandlers(repo, &fakeFetcher{match: data})
	msg := newTestMessage(t, events.FetchMatchPayload{OsuMatchID: 111})

	require.NoError(t, h.HandleFetchMatch()(msg))

	match := tournament.Matches[0]
	assert.Equal(t, "OWC2023: (A) vs (B)", match.Name)
	require.Len(t, match.Games, 1)
	require.Len(t, match.Games[0].Scores, 2)
	assert.Equal(t, match.Games[0].Ruleset, match.Games[0].Scores[0].Ruleset)

	assert.Equal(t, []string{
		events.FetchBeatmapTopic,
		events.FetchPlayerTopic,
		events.FetchPlayerTopic,
		events.CheckTournamentTopic,
	}, bus.topics())

	inbound := middleware.MessageCorrelationID(msg)
	for _, p := range bus.published {
		assert.Equal(t, inbound, p.correlationID, "follow-ups must carry the inbound correlation id")
	}
}

func TestHandleFetchMatchSkippedByDedup(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockRepository(ctrl)

	h, bus := newTestHandlers(repo, &fakeFetcher{matchErr: osu.ErrFetchSkipped})
	msg := newTestMessage(t, events.FetchMatchPayload{OsuMatchID: 111})

	require.NoError(t, h.HandleFetchMatch()(msg))
	assert.Empty(t, bus.published)
}

func TestHandleFetchMatchUnknownTournament(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockRepository(ctrl)
	repo.EXPECT().TournamentByMatchOsuID(gomock.Any(), int64(111)).Return(nil, nil)

	h, bus := newTestHandlers(repo, &fakeFetcher{match: &osu.MatchData{OsuID: 111}})
	msg := newTestMessage(t, events.FetchMatchPayload{OsuMatchID: 111})

	require.NoError(t, h.HandleFetchMatch()(msg))
	assert.Empty(t, bus.published)
}

func TestHandleFetchPlayerChainsTrackHistory(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockRepository(ctrl)
	player := &osu.PlayerData{OsuID: 1, Username: gofakeit.Username(), CountryCode: "US"}
	repo.EXPECT().UpsertPlayer(gomock.Any(), player).Return(nil)

	h, bus := newTestHandlers(repo, &fakeFetcher{player: player})
	msg := newTestMessage(t, events.FetchPlayerPayload{PlayerOsuID: 1, Priority: events.PriorityLow})

	require.NoError(t, h.HandleFetchPlayer()(msg))

	require.Len(t, bus.published, 1)
	assert.Equal(t, events.FetchPlayerTrackHistoryTopic, bus.published[0].topic)
	payload, ok := bus.published[0].payload.(events.FetchPlayerTrackHistoryPayload)
	require.True(t, ok)
	assert.Equal(t, int64(1), payload.PlayerOsuID)
	assert.Equal(t, events.PriorityLow, payload.Priority)
}

func TestHandleFetchPlayerTrackHistory(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockRepository(ctrl)
	entries := []osu.TrackHistoryEntry{
		{PlayerOsuID: 1, Rank: 1234, Timestamp: time.Date(2023, 6, 10, 0, 0, 0, 0, time.UTC)},
	}
	repo.EXPECT().ReplacePlayerRankHistory(gomock.Any(), int64(1), entries).Return(nil)

	h, bus := newTestHandlers(repo, &fakeFetcher{history: entries})
	msg := newTestMessage(t, events.FetchPlayerTrackHistoryPayload{PlayerOsuID: 1})

	require.NoError(t, h.HandleFetchPlayerTrackHistory()(msg))
	assert.Empty(t, bus.published)
}

func TestHandleFetchBeatmap(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockRepository(ctrl)
	beatmap := &osu.BeatmapData{OsuID: 42, DiffName: gofakeit.Word()}
	repo.EXPECT().UpsertBeatmap(gomock.Any(), beatmap).Return(nil)

	h, bus := newTestHandlers(repo, &fakeFetcher{beatmap: beatmap})
	msg := newTestMessage(t, events.FetchBeatmapPayload{BeatmapOsuID: 42})

	require.NoError(t, h.HandleFetchBeatmap()(msg))
	assert.Empty(t, bus.published)
}

func TestHandleCheckScoreBubblesToGame(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockRepository(ctrl)

	score := &domain.GameScore{
		ID: 5, GameID: 7, PlayerOsuID: 1,
		Team: domain.TeamRed, Score: 500_000,
		Ruleset: domain.RulesetOsu, Passed: true,
	}
	tournament := pendingTournament(111)
	tournament.Matches[0].Games = []*domain.Game{{ID: 7, MatchID: 1, Scores: []*domain.GameScore{score}}}

	repo.EXPECT().TournamentByScoreID(gomock.Any(), int64(5)).Return(tournament, nil)
	repo.EXPECT().SaveTournament(gomock.Any(), tournament).Return(nil)

	h, bus := newTestHandlers(repo, &fakeFetcher{})
	msg := newTestMessage(t, events.CheckScorePayload{ScoreID: 5})

	require.NoError(t, h.HandleCheckScore()(msg))

	assert.Equal(t, domain.ProcessingStatusNeedsVerification, score.ProcessingStatus)
	require.Len(t, bus.published, 1)
	assert.Equal(t, events.CheckGameTopic, bus.published[0].topic)
	assert.Equal(t, events.CheckGamePayload{GameID: 7}, bus.published[0].payload)
}

func TestHandleCheckTournamentSchedulesPendingFetches(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockRepository(ctrl)
	tournament := pendingTournament(2002)

	repo.EXPECT().TournamentByID(gomock.Any(), int64(1)).Return(tournament, nil)
	repo.EXPECT().RatingAdjustments(gomock.Any(), int64(1)).Return(nil, nil)
	repo.EXPECT().SaveTournament(gomock.Any(), tournament).Return(nil)

	h, bus := newTestHandlers(repo, &fakeFetcher{})
	msg := newTestMessage(t, events.CheckTournamentPayload{TournamentID: 1})

	require.NoError(t, h.HandleCheckTournament()(msg))

	require.Len(t, bus.published, 1)
	assert.Equal(t, events.FetchMatchTopic, bus.published[0].topic)
	assert.Equal(t, events.FetchMatchPayload{
		OsuMatchID: 2002,
		Priority:   events.PriorityNormal,
	}, bus.published[0].payload)
}

func TestHandleCheckTournamentAnnouncesCompletion(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockRepository(ctrl)
	tournament := pendingTournament(111)
	tournament.ProcessingStatus = domain.ProcessingStatusDone
	tournament.VerificationStatus = domain.VerificationStatusVerified

	repo.EXPECT().TournamentByID(gomock.Any(), int64(1)).Return(tournament, nil)
	repo.EXPECT().RatingAdjustments(gomock.Any(), int64(1)).Return(nil, nil)
	repo.EXPECT().SaveTournament(gomock.Any(), tournament).Return(nil)

	h, bus := newTestHandlers(repo, &fakeFetcher{})
	msg := newTestMessage(t, events.CheckTournamentPayload{TournamentID: 1})

	require.NoError(t, h.HandleCheckTournament()(msg))

	require.Len(t, bus.published, 1)
	assert.Equal(t, events.TournamentProcessedTopic, bus.published[0].topic)
	payload, ok := bus.published[0].payload.(events.TournamentProcessedPayload)
	require.True(t, ok)
	assert.Equal(t, int64(1), payload.TournamentID)
	assert.Equal(t, "verified", payload.Action)
	assert.False(t, payload.ProcessedAt.IsZero())
}

func TestHandleCheckTournamentUnknownTournament(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockRepository(ctrl)
	repo.EXPECT().TournamentByID(gomock.Any(), int64(404)).Return(nil, nil)

	h, bus := newTestHandlers(repo, &fakeFetcher{})
	msg := newTestMessage(t, events.CheckTournamentPayload{TournamentID: 404})

	require.NoError(t, h.HandleCheckTournament()(msg))
	assert.Empty(t, bus.published)
}

func TestWrapRejectsMalformedPayload(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockRepository(ctrl)

	h, _ := newTestHandlers(repo, &fakeFetcher{})
	msg := message.NewMessage(watermill.NewUUID(), []byte("not json"))

	assert.Error(t, h.HandleCheckScore()(msg))
}
