package processing

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osu-tournament-rating/otr-api-sub005/internal/domain"
	"github.com/osu-tournament-rating/otr-api-sub005/internal/observability/pipelinemetrics"
)

var testBase = time.Date(2023, 6, 10, 18, 0, 0, 0, time.UTC)

func newTestProcessor() *Processor {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewProcessor(logger, pipelinemetrics.NoOpMetrics{})
}

func passingScore(player int64, team domain.Team, value int64) *domain.GameScore {
	return &domain.GameScore{
		PlayerOsuID: player,
		Team:        team,
		Score:       value,
		Ruleset:     domain.RulesetOsu,
		Passed:      true,
	}
}

func validGame(id int64, minuteOffset int) *domain.Game {
	scores := []*domain.GameScore{
		passingScore(1, domain.TeamRed, 500_000),
		passingScore(2, domain.TeamRed, 400_000),
		passingScore(3, domain.TeamBlue, 450_000),
		passingScore(4, domain.TeamBlue, 350_000),
	}
	for _, s := range scores {
		s.GameID = id
	}
	return &domain.Game{
		ID:          id,
		OsuID:       id,
		Ruleset:     domain.RulesetOsu,
		ScoringType: domain.ScoringTypeScoreV2,
		TeamType:    domain.TeamTypeTeamVs,
		StartTime:   testBase.Add(time.Duration(minuteOffset) * time.Minute),
		EndTime:     testBase.Add(time.Duration(minuteOffset+5) * time.Minute),
		Scores:      scores,
	}
}

// validMatch is a clean five-game lobby named after the test tournament.
func validMatch(id int64) *domain.Match {
	games := make([]*domain.Game, 0, 5)
	for i := 0; i < 5; i++ {
		games = append(games, validGame(id*100+int64(i), i*10))
	}
	return &domain.Match{
		ID:           id,
		OsuID:        id + 1000,
		TournamentID: 1,
		Name:         "OWC2023: (United States) vs (South Korea)",
		StartTime:    testBase,
		EndTime:      testBase.Add(time.Hour),
		Games:        games,
	}
}

func testTournament(matches ...*domain.Match) *domain.Tournament {
	return &domain.Tournament{
		ID:           1,
		Name:         "osu! World Cup 2023",
		Abbreviation: "OWC2023",
		Ruleset:      domain.RulesetOsu,
		LobbySize:    2,
		Matches:      matches,
	}
}

func TestProcessScoreStopsAtVerification(t *testing.T) {
	p := newTestProcessor()
	tournament := testTournament()
	score := passingScore(1, domain.TeamRed, 500_000)

	p.ProcessScore(context.Background(), score, tournament)

	assert.Equal(t, domain.ProcessingStatusNeedsVerification, score.ProcessingStatus)
	assert.Equal(t, domain.VerificationStatusPreVerified, score.VerificationStatus)

	// Re-running the driver on a waiting score changes nothing.
	p.ProcessScore(context.Background(), score, tournament)
	assert.Equal(t, domain.ProcessingStatusNeedsVerification, score.ProcessingStatus)
	assert.Equal(t, domain.VerificationStatusPreVerified, score.VerificationStatus)
}

func TestProcessScoreFailedChecksPreReject(t *testing.T) {
	p := newTestProcessor()
	tournament := testTournament()
	score := passingScore(1, domain.TeamRed, 500)

	p.ProcessScore(context.Background(), score, tournament)

	assert.Equal(t, domain.ProcessingStatusNeedsVerification, score.ProcessingStatus)
	assert.Equal(t, domain.VerificationStatusPreRejected, score.VerificationStatus)
	assert.NotZero(t, score.RejectionReason&domain.ScoreRejectionReasonBelowMinimum)
}

func TestProcessScoreResolvedRunsToDone(t *testing.T) {
	p := newTestProcessor()
	tournament := testTournament()

	verified := passingScore(1, domain.TeamRed, 500_000)
	verified.ProcessingStatus = domain.ProcessingStatusNeedsVerification
	verified.VerificationStatus = domain.VerificationStatusVerified
	p.ProcessScore(context.Background(), verified, tournament)
	assert.Equal(t, domain.ProcessingStatusDone, verified.ProcessingStatus)

	rejected := passingScore(2, domain.TeamRed, 500_000)
	rejected.ProcessingStatus = domain.ProcessingStatusNeedsVerification
	rejected.VerificationStatus = domain.VerificationStatusRejected
	p.ProcessScore(context.Background(), rejected, tournament)
	assert.Equal(t, domain.ProcessingStatusDone, rejected.ProcessingStatus)
}

func TestProcessGameStopsAtVerification(t *testing.T) {
	p := newTestProcessor()
	game := validGame(10, 0)
	tournament := testTournament(&domain.Match{ID: 1, Games: []*domain.Game{game}})

	require.NoError(t, p.ProcessGame(context.Background(), game, tournament, false))

	assert.Equal(t, domain.ProcessingStatusNeedsVerification, game.ProcessingStatus)
	assert.Equal(t, domain.VerificationStatusPreVerified, game.VerificationStatus)
	for _, s := range game.Scores {
		assert.Equal(t, domain.ProcessingStatusNeedsVerification, s.ProcessingStatus)
		assert.Equal(t, domain.VerificationStatusPreVerified, s.VerificationStatus)
	}
}

func TestProcessGameVerifiedCascadesToDone(t *testing.T) {
	p := newTestProcessor()
	game := validGame(10, 0)
	tournament := testTournament(&domain.Match{ID: 1, Games: []*domain.Game{game}})

	require.NoError(t, p.ProcessGame(context.Background(), game, tournament, false))
	game.VerificationStatus = domain.VerificationStatusVerified
	require.NoError(t, p.ProcessGame(context.Background(), game, tournament, false))

	assert.Equal(t, domain.ProcessingStatusDone, game.ProcessingStatus)
	for _, s := range game.Scores {
		assert.Equal(t, domain.VerificationStatusVerified, s.VerificationStatus)
		assert.Equal(t, domain.ProcessingStatusDone, s.ProcessingStatus)
		assert.NotZero(t, s.Placement)
	}
	assert.Len(t, game.Rosters, 2)
	assert.NotNil(t, game.WinRecord)
}

func TestProcessGameRejectedShortCircuits(t *testing.T) {
	p := newTestProcessor()
	game := validGame(10, 0)
	tournament := testTournament(&domain.Match{ID: 1, Games: []*domain.Game{game}})

	require.NoError(t, p.ProcessGame(context.Background(), game, tournament, false))
	game.VerificationStatus = domain.VerificationStatusRejected
	require.NoError(t, p.ProcessGame(context.Background(), game, tournament, false))

	assert.Equal(t, domain.ProcessingStatusDone, game.ProcessingStatus)
	for _, s := range game.Scores {
		assert.Equal(t, domain.VerificationStatusRejected, s.VerificationStatus)
		assert.Equal(t, domain.ProcessingStatusDone, s.ProcessingStatus)
	}
	assert.Nil(t, game.Rosters, "rejected games compute no stats")
	assert.Nil(t, game.WinRecord)
}

func TestProcessGameOverrideRewritesVerification(t *testing.T) {
	p := newTestProcessor()
	game := validGame(10, 0)
	tournament := testTournament(&domain.Match{ID: 1, Games: []*domain.Game{game}})

	require.NoError(t, p.ProcessGame(context.Background(), game, tournament, false))
	// A reviewer rejected the game, but the automation checks pass.
	game.VerificationStatus = domain.VerificationStatusRejected

	require.NoError(t, p.ProcessGame(context.Background(), game, tournament, true))

	assert.Equal(t, domain.VerificationStatusPreVerified, game.VerificationStatus)
	assert.Equal(t, domain.ProcessingStatusNeedsVerification, game.ProcessingStatus,
		"override must not regress the processing status")
}

func TestProcessMatchWaitsForData(t *testing.T) {
	p := newTestProcessor()
	match := &domain.Match{ID: 1, OsuID: 111}
	tournament := testTournament(match)

	require.NoError(t, p.ProcessMatch(context.Background(), match, tournament))

	assert.Equal(t, domain.ProcessingStatusNeedsData, match.ProcessingStatus)
	assert.Equal(t, domain.VerificationStatusNone, match.VerificationStatus)
}

func TestProcessMatchNoDataFlagAdvances(t *testing.T) {
	p := newTestProcessor()
	match := &domain.Match{
		ID:              1,
		OsuID:           111,
		RejectionReason: domain.MatchRejectionReasonNoData,
	}
	tournament := testTournament(match)

	require.NoError(t, p.ProcessMatch(context.Background(), match, tournament))

	assert.Equal(t, domain.ProcessingStatusNeedsVerification, match.ProcessingStatus)
	assert.Equal(t, domain.VerificationStatusPreRejected, match.VerificationStatus)
	assert.NotZero(t, match.RejectionReason&domain.MatchRejectionReasonNoGames)
}

func TestProcessMatchFullFlow(t *testing.T) {
	p := newTestProcessor()
	match := validMatch(1)
	tournament := testTournament(match)

	require.NoError(t, p.ProcessMatch(context.Background(), match, tournament))
	assert.Equal(t, domain.ProcessingStatusNeedsVerification, match.ProcessingStatus)
	assert.Equal(t, domain.VerificationStatusPreVerified, match.VerificationStatus)

	match.VerificationStatus = domain.VerificationStatusVerified
	require.NoError(t, p.ProcessMatch(context.Background(), match, tournament))

	assert.Equal(t, domain.ProcessingStatusDone, match.ProcessingStatus)
	for _, g := range match.Games {
		assert.Equal(t, domain.VerificationStatusVerified, g.VerificationStatus)
		assert.Equal(t, domain.ProcessingStatusDone, g.ProcessingStatus)
	}
	assert.Len(t, match.Rosters, 2)
	assert.NotEmpty(t, match.PlayerMatchStats)

	// A redelivery after completion is a no-op.
	require.NoError(t, p.ProcessMatch(context.Background(), match, tournament))
	assert.Equal(t, domain.ProcessingStatusDone, match.ProcessingStatus)
}

func TestProcessTournamentCollectsPendingFetches(t *testing.T) {
	p := newTestProcessor()
	fetched := validMatch(1)
	pending := &domain.Match{ID: 2, OsuID: 2002}
	tournament := testTournament(fetched, pending)

	result, err := p.ProcessTournament(context.Background(), tournament, nil, false)
	require.NoError(t, err)

	assert.Equal(t, []int64{2002}, result.PendingMatchFetches)
	assert.Equal(t, domain.ProcessingStatusNeedsData, tournament.ProcessingStatus)
}

func TestProcessTournamentFullFlow(t *testing.T) {
	p := newTestProcessor()
	matches := make([]*domain.Match, 0, 5)
	for i := int64(1); i <= 5; i++ {
		matches = append(matches, validMatch(i))
	}
	tournament := testTournament(matches...)

	result, err := p.ProcessTournament(context.Background(), tournament, nil, false)
	require.NoError(t, err)
	assert.Empty(t, result.PendingMatchFetches)
	assert.Equal(t, domain.ProcessingStatusNeedsVerification, tournament.ProcessingStatus)
	assert.Equal(t, domain.VerificationStatusPreVerified, tournament.VerificationStatus)

	tournament.VerificationStatus = domain.VerificationStatusVerified
	_, err = p.ProcessTournament(context.Background(), tournament, nil, false)
	require.NoError(t, err)

	assert.Equal(t, domain.ProcessingStatusDone, tournament.ProcessingStatus)
	for _, m := range tournament.Matches {
		assert.Equal(t, domain.VerificationStatusVerified, m.VerificationStatus)
		assert.Equal(t, domain.ProcessingStatusDone, m.ProcessingStatus)
	}
	assert.NotEmpty(t, tournament.PlayerTournamentStats)

	before := tournament.PlayerTournamentStats
	_, err = p.ProcessTournament(context.Background(), tournament, nil, false)
	require.NoError(t, err)
	assert.Equal(t, before, tournament.PlayerTournamentStats, "redelivery must not recompute")
}

func TestProcessTournamentRejectedShortCircuits(t *testing.T) {
	p := newTestProcessor()
	match := validMatch(1)
	tournament := testTournament(match)

	_, err := p.ProcessTournament(context.Background(), tournament, nil, false)
	require.NoError(t, err)

	tournament.VerificationStatus = domain.VerificationStatusRejected
	_, err = p.ProcessTournament(context.Background(), tournament, nil, false)
	require.NoError(t, err)

	assert.Equal(t, domain.ProcessingStatusDone, tournament.ProcessingStatus)
	assert.Equal(t, domain.VerificationStatusRejected, match.VerificationStatus)
	assert.Equal(t, domain.ProcessingStatusDone, match.ProcessingStatus)
	assert.Nil(t, tournament.PlayerTournamentStats)
}

func TestProcessTournamentOverrideRewritesVerification(t *testing.T) {
	p := newTestProcessor()
	match := validMatch(1)
	tournament := testTournament(match)

	_, err := p.ProcessTournament(context.Background(), tournament, nil, false)
	require.NoError(t, err)
	tournament.VerificationStatus = domain.VerificationStatusRejected

	_, err = p.ProcessTournament(context.Background(), tournament, nil, true)
	require.NoError(t, err)

	assert.Equal(t, domain.VerificationStatusPreVerified, tournament.VerificationStatus)
	assert.Equal(t, domain.ProcessingStatusNeedsVerification, tournament.ProcessingStatus)
}
