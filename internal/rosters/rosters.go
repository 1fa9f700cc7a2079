// Package rosters derives (team, player set, aggregate score) records from
// scores and games. Rosters are derived data: callers discard any previous
// generation before storing a new one so two generations never coexist.
package rosters

import (
	"errors"
	"fmt"
	"sort"

	"github.com/osu-tournament-rating/otr-api-sub005/internal/domain"
)

var (
	// ErrMixedGameScores indicates scores from more than one game were passed
	// to a single-game roster generation. This is a driver sequencing bug, not
	// a data problem.
	ErrMixedGameScores = errors.New("rosters: scores span multiple games")

	// ErrMissingGameRosters indicates match roster generation ran before every
	// game had rosters generated.
	ErrMissingGameRosters = errors.New("rosters: game is missing generated rosters")
)

// GenerateGameRosters builds per-team rosters for one game. A player appearing
// more than once on a team is represented once with their scores summed; the
// roster's aggregate score is the sum of all member scores.
func GenerateGameRosters(scores []*domain.GameScore) ([]*domain.GameRoster, error) {
	if len(scores) == 0 {
		return nil, nil
	}

	gameID := scores[0].GameID
	type teamAgg struct {
		players map[int64]int64
		total   int64
	}
	teams := make(map[domain.Team]*teamAgg)

	for _, s := range scores {
		if s.GameID != gameID {
			return nil, fmt.Errorf("%w: saw game ids %d and %d", ErrMixedGameScores, gameID, s.GameID)
		}
		agg, ok := teams[s.Team]
		if !ok {
			agg = &teamAgg{players: make(map[int64]int64)}
			teams[s.Team] = agg
		}
		agg.players[s.PlayerOsuID] += s.Score
		agg.total += s.Score
	}

	out := make([]*domain.GameRoster, 0, len(teams))
	for team, agg := range teams {
		roster := make([]int64, 0, len(agg.players))
		for id := range agg.players {
			roster = append(roster, id)
		}
		sort.Slice(roster, func(i, j int) bool { return roster[i] < roster[j] })
		out = append(out, &domain.GameRoster{
			GameID: gameID,
			Team:   team,
			Roster: roster,
			Score:  agg.total,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Team < out[j].Team })
	return out, nil
}

// GenerateMatchRosters builds per-team rosters for one match from its games'
// rosters. Player ids are the distinct union per team across games; the roster
// score is the count of games that team won, where a game's winner is the team
// with the higher roster score (no winner on a tie).
func GenerateMatchRosters(games []*domain.Game) ([]*domain.MatchRoster, error) {
	if len(games) == 0 {
		return nil, nil
	}

	matchID := games[0].MatchID
	type teamAgg struct {
		players map[int64]struct{}
		wins    int
	}
	teams := make(map[domain.Team]*teamAgg)

	aggFor := func(team domain.Team) *teamAgg {
		agg, ok := teams[team]
		if !ok {
			agg = &teamAgg{players: make(map[int64]struct{})}
			teams[team] = agg
		}
		return agg
	}

	for _, g := range games {
		if len(g.Rosters) == 0 {
			return nil, fmt.Errorf("%w: game %d", ErrMissingGameRosters, g.ID)
		}
		var winner *domain.GameRoster
		tied := false
		for _, r := range g.Rosters {
			agg := aggFor(r.Team)
			for _, id := range r.Roster {
				agg.players[id] = struct{}{}
			}
			switch {
			case winner == nil || r.Score > winner.Score:
				winner = r
				tied = false
			case r.Score == winner.Score && r != winner:
				tied = true
			}
		}
		if winner != nil && !tied && len(g.Rosters) > 1 {
			aggFor(winner.Team).wins++
		}
	}

	out := make([]*domain.MatchRoster, 0, len(teams))
	for team, agg := range teams {
		roster := make([]int64, 0, len(agg.players))
		for id := range agg.players {
			roster = append(roster, id)
		}
		sort.Slice(roster, func(i, j int) bool { return roster[i] < roster[j] })
		out = append(out, &domain.MatchRoster{
			MatchID: matchID,
			Team:    team,
			Roster:  roster,
			Score:   agg.wins,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Team < out[j].Team })
	return out, nil
}
