package stats

import (
	"sort"

	"github.com/osu-tournament-rating/otr-api-sub005/internal/domain"
)

// ProcessTournamentStats aggregates player match stats across the tournament's
// verified matches and folds in externally produced rating deltas. A player
// with no rating adjustment for a match is treated as restricted for that
// match: the match contributes nothing to their rating-delta average.
func ProcessTournamentStats(tournament *domain.Tournament, adjustments []domain.RatingAdjustment) {
	// (player, match) -> summed delta for that match
	deltas := make(map[int64]map[int64]float64)
	for _, adj := range adjustments {
		byMatch, ok := deltas[adj.PlayerOsuID]
		if !ok {
			byMatch = make(map[int64]float64)
			deltas[adj.PlayerOsuID] = byMatch
		}
		byMatch[adj.MatchID] += adj.RatingDelta
	}

	type playerAgg struct {
		matchCostSum  float64
		scoreSum      float64
		placementSum  float64
		accuracySum   float64
		deltaSum      float64
		deltaMatches  int
		matchesPlayed int
		matchesWon    int
		gamesPlayed   int
		gamesWon      int
		gamesLost     int
		teammates     map[int64]struct{}
		opponents     map[int64]struct{}
	}
	players := make(map[int64]*playerAgg)

	for _, m := range tournament.VerifiedMatches() {
		for _, pms := range m.PlayerMatchStats {
			agg, ok := players[pms.PlayerOsuID]
			if !ok {
				agg = &playerAgg{
					teammates: make(map[int64]struct{}),
					opponents: make(map[int64]struct{}),
				}
				players[pms.PlayerOsuID] = agg
			}
			agg.matchCostSum += pms.MatchCost
			agg.scoreSum += pms.AverageScore
			agg.placementSum += pms.AveragePlacement
			agg.accuracySum += pms.AverageAccuracy
			agg.matchesPlayed++
			if pms.Won {
				agg.matchesWon++
			}
			agg.gamesPlayed += pms.GamesPlayed
			agg.gamesWon += pms.GamesWon
			agg.gamesLost += pms.GamesLost
			for _, id := range pms.TeammateIDs {
				agg.teammates[id] = struct{}{}
			}
			for _, id := range pms.OpponentIDs {
				agg.opponents[id] = struct{}{}
			}
			if delta, ok := deltas[pms.PlayerOsuID][pms.MatchID]; ok {
				agg.deltaSum += delta
				agg.deltaMatches++
			}
		}
	}

	out := make([]*domain.PlayerTournamentStats, 0, len(players))
	for id, agg := range players {
		n := float64(agg.matchesPlayed)
		pts := &domain.PlayerTournamentStats{
			PlayerOsuID:      id,
			TournamentID:     tournament.ID,
			AverageMatchCost: agg.matchCostSum / n,
			AverageScore:     agg.scoreSum / n,
			AveragePlacement: agg.placementSum / n,
			AverageAccuracy:  agg.accuracySum / n,
			MatchesPlayed:    agg.matchesPlayed,
			MatchesWon:       agg.matchesWon,
			MatchesLost:      agg.matchesPlayed - agg.matchesWon,
			GamesPlayed:      agg.gamesPlayed,
			GamesWon:         agg.gamesWon,
			GamesLost:        agg.gamesLost,
			TeammateIDs:      setToSlice(agg.teammates),
			OpponentIDs:      setToSlice(agg.opponents),
		}
		if agg.deltaMatches > 0 {
			pts.AverageRatingDelta = agg.deltaSum / float64(agg.deltaMatches)
		}
		out = append(out, pts)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PlayerOsuID < out[j].PlayerOsuID })
	tournament.PlayerTournamentStats = out
}

func setToSlice(set map[int64]struct{}) []int64 {
	out := make([]int64, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sortInt64s(out)
	return out
}
