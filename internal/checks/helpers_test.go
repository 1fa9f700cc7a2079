package checks

import (
	"time"

	"github.com/osu-tournament-rating/otr-api-sub005/internal/domain"
)

var testBase = time.Date(2023, 6, 10, 18, 0, 0, 0, time.UTC)

func time0() time.Time { return time.Time{} }

func vsScore(player int64, team domain.Team, score int64) *domain.GameScore {
	return &domain.GameScore{
		PlayerOsuID: player,
		Team:        team,
		Score:       score,
		Ruleset:     domain.RulesetOsu,
		Passed:      true,
	}
}

// teamVsGame builds a well-formed ScoreV2 TeamVs game starting minuteOffset
// minutes into the match.
func teamVsGame(id int64, minuteOffset int, scores ...*domain.GameScore) *domain.Game {
	for _, s := range scores {
		s.GameID = id
	}
	return &domain.Game{
		ID:          id,
		OsuID:       id,
		MatchID:     1,
		Ruleset:     domain.RulesetOsu,
		ScoringType: domain.ScoringTypeScoreV2,
		TeamType:    domain.TeamTypeTeamVs,
		StartTime:   testBase.Add(time.Duration(minuteOffset) * time.Minute),
		EndTime:     testBase.Add(time.Duration(minuteOffset+5) * time.Minute),
		Scores:      scores,
	}
}

// twoVsTwoGame is a 2v2 game with four passing scores.
func twoVsTwoGame(id int64, minuteOffset int) *domain.Game {
	return teamVsGame(id, minuteOffset,
		vsScore(1, domain.TeamRed, 500_000),
		vsScore(2, domain.TeamRed, 400_000),
		vsScore(3, domain.TeamBlue, 450_000),
		vsScore(4, domain.TeamBlue, 350_000),
	)
}

func vsTournament(lobbySize int, matches ...*domain.Match) *domain.Tournament {
	return &domain.Tournament{
		ID:           1,
		Name:         "osu! World Cup 2023",
		Abbreviation: "OWC2023",
		Ruleset:      domain.RulesetOsu,
		LobbySize:    lobbySize,
		Matches:      matches,
	}
}

func vsMatch(games ...*domain.Game) *domain.Match {
	return &domain.Match{
		ID:           1,
		OsuID:        111,
		TournamentID: 1,
		Name:         "OWC2023: (United States) vs (South Korea)",
		StartTime:    testBase,
		EndTime:      testBase.Add(time.Hour),
		Games:        games,
	}
}
