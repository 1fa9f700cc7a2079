package stats

import (
	"sort"

	"github.com/osu-tournament-rating/otr-api-sub005/internal/domain"
	"github.com/osu-tournament-rating/otr-api-sub005/internal/rosters"
)

// ProcessMatchStats regenerates the match's rosters from its verified games,
// records the match winner, and computes per-player match stats. The game
// stat-calculation stage must have completed for every verified game first;
// missing game rosters surface as an error from roster generation.
func ProcessMatchStats(match *domain.Match) error {
	games := verifiedGames(match)
	if len(games) == 0 {
		match.Rosters = nil
		match.WinRecord = nil
		match.PlayerMatchStats = nil
		return nil
	}

	matchRosters, err := rosters.GenerateMatchRosters(games)
	if err != nil {
		return err
	}
	match.Rosters = matchRosters
	match.WinRecord = matchWinRecord(matchRosters)

	costs := CalculateMatchCosts(games)
	match.PlayerMatchStats = buildPlayerMatchStats(match, games, costs)
	return nil
}

func verifiedGames(match *domain.Match) []*domain.Game {
	var out []*domain.Game
	for _, g := range match.GamesByStartTime() {
		if g.VerificationStatus == domain.VerificationStatusVerified {
			out = append(out, g)
		}
	}
	return out
}

func matchWinRecord(matchRosters []*domain.MatchRoster) *domain.WinRecord {
	if len(matchRosters) != 2 {
		return nil
	}
	winner, loser := matchRosters[0], matchRosters[1]
	if loser.Score > winner.Score {
		winner, loser = loser, winner
	}
	if winner.Score == loser.Score {
		return nil
	}
	return &domain.WinRecord{
		WinnerTeam:   winner.Team,
		LoserTeam:    loser.Team,
		WinnerRoster: winner.Roster,
		LoserRoster:  loser.Roster,
		WinnerScore:  int64(winner.Score),
		LoserScore:   int64(loser.Score),
	}
}

func buildPlayerMatchStats(match *domain.Match, games []*domain.Game, costs map[int64]float64) []*domain.PlayerMatchStats {
	type playerAgg struct {
		scoreSum     int64
		placementSum int
		missSum      int
		accuracySum  float64
		gamesPlayed  int
		gamesWon     int
		gamesLost    int
	}
	players := make(map[int64]*playerAgg)

	for _, g := range games {
		for _, s := range verifiedScores(g) {
			agg, ok := players[s.PlayerOsuID]
			if !ok {
				agg = &playerAgg{}
				players[s.PlayerOsuID] = agg
			}
			agg.scoreSum += s.Score
			agg.placementSum += s.Placement
			agg.missSum += s.Judgements.CountMiss
			agg.accuracySum += s.Accuracy()
			agg.gamesPlayed++
			if g.WinRecord != nil {
				switch s.Team {
				case g.WinRecord.WinnerTeam:
					agg.gamesWon++
				case g.WinRecord.LoserTeam:
					agg.gamesLost++
				}
			}
		}
	}

	maxRosterScore := 0
	for _, r := range match.Rosters {
		if r.Score > maxRosterScore {
			maxRosterScore = r.Score
		}
	}

	out := make([]*domain.PlayerMatchStats, 0, len(players))
	for id, agg := range players {
		n := float64(agg.gamesPlayed)
		teammates, opponents, teamScore := rosterRelations(match.Rosters, id)
		out = append(out, &domain.PlayerMatchStats{
			PlayerOsuID:      id,
			MatchID:          match.ID,
			MatchCost:        costs[id],
			AverageScore:     float64(agg.scoreSum) / n,
			AveragePlacement: float64(agg.placementSum) / n,
			AverageMisses:    float64(agg.missSum) / n,
			AverageAccuracy:  agg.accuracySum / n,
			GamesPlayed:      agg.gamesPlayed,
			GamesWon:         agg.gamesWon,
			GamesLost:        agg.gamesLost,
			Won:              teamScore == maxRosterScore,
			TeammateIDs:      teammates,
			OpponentIDs:      opponents,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PlayerOsuID < out[j].PlayerOsuID })
	return out
}

// rosterRelations splits the match rosters into the player's teammates and
// opponents and returns their team's roster score.
func rosterRelations(matchRosters []*domain.MatchRoster, playerID int64) (teammates, opponents []int64, teamScore int) {
	var own *domain.MatchRoster
	for _, r := range matchRosters {
		for _, id := range r.Roster {
			if id == playerID {
				own = r
				break
			}
		}
		if own != nil {
			break
		}
	}
	for _, r := range matchRosters {
		for _, id := range r.Roster {
			if id == playerID {
				continue
			}
			if own != nil && r.Team == own.Team {
				teammates = append(teammates, id)
			} else {
				opponents = append(opponents, id)
			}
		}
	}
	if own != nil {
		teamScore = own.Score
	}
	sortInt64s(teammates)
	sortInt64s(opponents)
	return teammates, opponents, teamScore
}

func sortInt64s(ids []int64) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
}
