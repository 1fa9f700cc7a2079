package stats

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osu-tournament-rating/otr-api-sub005/internal/domain"
)

var statsBase = time.Date(2023, 6, 10, 18, 0, 0, 0, time.UTC)

func verifiedScore(gameID, player int64, team domain.Team, value int64) *domain.GameScore {
	return &domain.GameScore{
		GameID:             gameID,
		PlayerOsuID:        player,
		Team:               team,
		Score:              value,
		Ruleset:            domain.RulesetOsu,
		Judgements:         domain.Judgements{Count300: 90, Count100: 10},
		VerificationStatus: domain.VerificationStatusVerified,
	}
}

func verifiedGame(id int64, minuteOffset int, scores ...*domain.GameScore) *domain.Game {
	return &domain.Game{
		ID:                 id,
		MatchID:            1,
		Ruleset:            domain.RulesetOsu,
		StartTime:          statsBase.Add(time.Duration(minuteOffset) * time.Minute),
		EndTime:            statsBase.Add(time.Duration(minuteOffset+5) * time.Minute),
		Scores:             scores,
		VerificationStatus: domain.VerificationStatusVerified,
	}
}

func TestProcessGameStatsPlacements(t *testing.T) {
	rejected := verifiedScore(10, 9, domain.TeamBlue, 999_999)
	rejected.VerificationStatus = domain.VerificationStatusRejected

	game := verifiedGame(10, 0,
		verifiedScore(10, 1, domain.TeamRed, 500_000),
		verifiedScore(10, 2, domain.TeamRed, 400_000),
		verifiedScore(10, 3, domain.TeamBlue, 450_000),
		verifiedScore(10, 4, domain.TeamBlue, 350_000),
		rejected,
	)

	require.NoError(t, ProcessGameStats(game))

	placements := map[int64]int{}
	for _, s := range game.Scores {
		placements[s.PlayerOsuID] = s.Placement
	}
	assert.Equal(t, 1, placements[1])
	assert.Equal(t, 2, placements[3])
	assert.Equal(t, 3, placements[2])
	assert.Equal(t, 4, placements[4])
	assert.Equal(t, 0, placements[9], "rejected score gets no placement")

	require.NotNil(t, game.WinRecord)
	assert.Equal(t, domain.TeamRed, game.WinRecord.WinnerTeam)
	assert.Equal(t, domain.TeamBlue, game.WinRecord.LoserTeam)
	assert.Equal(t, int64(900_000), game.WinRecord.WinnerScore)
	assert.Equal(t, int64(800_000), game.WinRecord.LoserScore)
}

func TestProcessGameStatsTieHasNoWinRecord(t *testing.T) {
	game := verifiedGame(10, 0,
		verifiedScore(10, 1, domain.TeamRed, 500_000),
		verifiedScore(10, 2, domain.TeamBlue, 500_000),
	)
	require.NoError(t, ProcessGameStats(game))
	assert.Nil(t, game.WinRecord)
	require.Len(t, game.Rosters, 2)
}

func TestProcessGameStatsNoVerifiedScores(t *testing.T) {
	game := verifiedGame(10, 0)
	game.Rosters = []*domain.GameRoster{{GameID: 10}}
	game.WinRecord = &domain.WinRecord{}

	require.NoError(t, ProcessGameStats(game))
	assert.Nil(t, game.Rosters)
	assert.Nil(t, game.WinRecord)
}

func TestCalculateMatchCosts(t *testing.T) {
	games := []*domain.Game{
		verifiedGame(10, 0,
			verifiedScore(10, 1, domain.TeamRed, 600_000),
			verifiedScore(10, 2, domain.TeamBlue, 400_000),
		),
		verifiedGame(11, 10,
			verifiedScore(11, 1, domain.TeamRed, 700_000),
			verifiedScore(11, 2, domain.TeamBlue, 300_000),
		),
	}

	costs := CalculateMatchCosts(games)
	require.Len(t, costs, 2)
	assert.Greater(t, costs[1], costs[2], "the dominant player must cost more")
	for id, c := range costs {
		assert.Greater(t, c, 0.0, "player %d", id)
		assert.Less(t, c, 2.0*(1.0+0.3)+0.001, "player %d", id)
	}

	again := CalculateMatchCosts(games)
	if diff := cmp.Diff(costs, again); diff != "" {
		t.Errorf("costs are not deterministic (-first +second):\n%s", diff)
	}
}

func TestCalculateMatchCostsPartialParticipation(t *testing.T) {
	games := []*domain.Game{
		verifiedGame(10, 0,
			verifiedScore(10, 1, domain.TeamRed, 500_000),
			verifiedScore(10, 2, domain.TeamBlue, 500_000),
		),
		verifiedGame(11, 10,
			verifiedScore(11, 1, domain.TeamRed, 500_000),
			verifiedScore(11, 3, domain.TeamBlue, 500_000),
		),
	}

	costs := CalculateMatchCosts(games)
	require.Len(t, costs, 3)
	// All composite metrics tie, so percentiles are equal and only the
	// participation weight separates the full-time player.
	assert.Greater(t, costs[1], costs[2])
	assert.InDelta(t, costs[2], costs[3], 1e-12)
}

func newVerifiedMatch() *domain.Match {
	g1 := verifiedGame(10, 0,
		verifiedScore(10, 1, domain.TeamRed, 500_000),
		verifiedScore(10, 2, domain.TeamRed, 400_000),
		verifiedScore(10, 3, domain.TeamBlue, 450_000),
		verifiedScore(10, 4, domain.TeamBlue, 350_000),
	)
	g2 := verifiedGame(11, 10,
		verifiedScore(11, 1, domain.TeamRed, 600_000),
		verifiedScore(11, 2, domain.TeamRed, 500_000),
		verifiedScore(11, 3, domain.TeamBlue, 550_000),
		verifiedScore(11, 4, domain.TeamBlue, 450_000),
	)
	m := &domain.Match{
		ID:                 1,
		VerificationStatus: domain.VerificationStatusVerified,
		Games:              []*domain.Game{g1, g2},
	}
	return m
}

func TestProcessMatchStats(t *testing.T) {
	match := newVerifiedMatch()
	for _, g := range match.Games {
		require.NoError(t, ProcessGameStats(g))
	}
	require.NoError(t, ProcessMatchStats(match))

	require.Len(t, match.Rosters, 2)
	require.NotNil(t, match.WinRecord)
	assert.Equal(t, domain.TeamRed, match.WinRecord.WinnerTeam)
	assert.Equal(t, int64(2), match.WinRecord.WinnerScore)
	assert.Equal(t, int64(0), match.WinRecord.LoserScore)

	require.Len(t, match.PlayerMatchStats, 4)
	byPlayer := map[int64]*domain.PlayerMatchStats{}
	for _, pms := range match.PlayerMatchStats {
		byPlayer[pms.PlayerOsuID] = pms
	}

	p1 := byPlayer[1]
	assert.Equal(t, 2, p1.GamesPlayed)
	assert.Equal(t, 2, p1.GamesWon)
	assert.Equal(t, 0, p1.GamesLost)
	assert.True(t, p1.Won)
	assert.InDelta(t, 550_000, p1.AverageScore, 1e-9)
	assert.InDelta(t, 1.0, p1.AveragePlacement, 1e-9)
	assert.Equal(t, []int64{2}, p1.TeammateIDs)
	assert.Equal(t, []int64{3, 4}, p1.OpponentIDs)

	p4 := byPlayer[4]
	assert.Equal(t, 0, p4.GamesWon)
	assert.Equal(t, 2, p4.GamesLost)
	assert.False(t, p4.Won)
}

func TestProcessMatchStatsNoVerifiedGames(t *testing.T) {
	match := newVerifiedMatch()
	for _, g := range match.Games {
		g.VerificationStatus = domain.VerificationStatusRejected
	}
	match.Rosters = []*domain.MatchRoster{{MatchID: 1}}
	match.PlayerMatchStats = []*domain.PlayerMatchStats{{PlayerOsuID: 1}}

	require.NoError(t, ProcessMatchStats(match))
	assert.Nil(t, match.Rosters)
	assert.Nil(t, match.WinRecord)
	assert.Nil(t, match.PlayerMatchStats)
}

func TestProcessTournamentStats(t *testing.T) {
	m1 := newVerifiedMatch()
	m1.ID = 1
	m2 := newVerifiedMatch()
	m2.ID = 2
	for _, g := range m2.Games {
		g.MatchID = 2
	}
	unverified := newVerifiedMatch()
	unverified.ID = 3
	unverified.VerificationStatus = domain.VerificationStatusRejected

	for _, m := range []*domain.Match{m1, m2, unverified} {
		for _, g := range m.Games {
			require.NoError(t, ProcessGameStats(g))
		}
		require.NoError(t, ProcessMatchStats(m))
	}

	tournament := &domain.Tournament{
		ID:      1,
		Matches: []*domain.Match{m1, m2, unverified},
	}
	adjustments := []domain.RatingAdjustment{
		{PlayerOsuID: 1, MatchID: 1, RatingDelta: 12},
		{PlayerOsuID: 1, MatchID: 2, RatingDelta: -4},
		{PlayerOsuID: 2, MatchID: 1, RatingDelta: 6},
		// Player 2 has no adjustment for match 2: restricted there.
	}

	ProcessTournamentStats(tournament, adjustments)

	require.Len(t, tournament.PlayerTournamentStats, 4)
	byPlayer := map[int64]*domain.PlayerTournamentStats{}
	for _, pts := range tournament.PlayerTournamentStats {
		byPlayer[pts.PlayerOsuID] = pts
	}

	p1 := byPlayer[1]
	assert.Equal(t, 2, p1.MatchesPlayed, "rejected match must not count")
	assert.Equal(t, 2, p1.MatchesWon)
	assert.Equal(t, 0, p1.MatchesLost)
	assert.Equal(t, 4, p1.GamesPlayed)
	assert.InDelta(t, 4.0, p1.AverageRatingDelta, 1e-9)

	p2 := byPlayer[2]
	assert.InDelta(t, 6.0, p2.AverageRatingDelta, 1e-9,
		"matches without an adjustment are excluded from the average")

	p4 := byPlayer[4]
	assert.Equal(t, 2, p4.MatchesPlayed)
	assert.Equal(t, 0, p4.MatchesWon)
	assert.Equal(t, 2, p4.MatchesLost)
	assert.Zero(t, p4.AverageRatingDelta)
}
