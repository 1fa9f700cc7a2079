// Package stats computes per-entity aggregate statistics once verification has
// resolved. All aggregates are computed over Verified entities only; anything
// else is excluded rather than zero-filled.
package stats

import (
	"math"

	"github.com/osu-tournament-rating/otr-api-sub005/internal/domain"
)

// Weighting of the per-game composite metric and the participation bonus.
const (
	scoreWeight         = 0.9
	accuracyWeight      = 0.1
	participationFactor = 0.3
	costScale           = 2.0
)

// CalculateMatchCosts derives one performance-cost scalar per player from a
// match's verified games. Per game each player's composite metric (weighted
// score and accuracy) is z-scored against the field and mapped through the
// normal CDF; a player's cost is their mean percentile scaled by a
// participation weight that rewards playing more of the match.
func CalculateMatchCosts(games []*domain.Game) map[int64]float64 {
	type playerAgg struct {
		percentileSum float64
		gamesPlayed   int
	}
	players := make(map[int64]*playerAgg)
	totalGames := 0

	for _, g := range games {
		scores := verifiedScores(g)
		if len(scores) == 0 {
			continue
		}
		totalGames++

		metrics := make([]float64, len(scores))
		for i, s := range scores {
			metrics[i] = scoreWeight*float64(s.Score) + accuracyWeight*s.Accuracy()*float64(s.Score)/100
		}
		mean, stddev := meanStddev(metrics)

		for i, s := range scores {
			z := 0.0
			if stddev > 0 {
				z = (metrics[i] - mean) / stddev
			}
			agg, ok := players[s.PlayerOsuID]
			if !ok {
				agg = &playerAgg{}
				players[s.PlayerOsuID] = agg
			}
			agg.percentileSum += normalCDF(z)
			agg.gamesPlayed++
		}
	}

	costs := make(map[int64]float64, len(players))
	for id, agg := range players {
		if agg.gamesPlayed == 0 {
			continue
		}
		performance := agg.percentileSum / float64(agg.gamesPlayed)
		weight := 1.0
		if totalGames > 1 {
			weight += participationFactor * math.Sqrt(float64(agg.gamesPlayed-1)/float64(totalGames-1))
		}
		costs[id] = costScale * performance * weight
	}
	return costs
}

func verifiedScores(g *domain.Game) []*domain.GameScore {
	var out []*domain.GameScore
	for _, s := range g.Scores {
		if s.VerificationStatus == domain.VerificationStatusVerified {
			out = append(out, s)
		}
	}
	return out
}

func meanStddev(values []float64) (mean, stddev float64) {
	if len(values) == 0 {
		return 0, 0
	}
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))
	var variance float64
	for _, v := range values {
		variance += (v - mean) * (v - mean)
	}
	variance /= float64(len(values))
	return mean, math.Sqrt(variance)
}

func normalCDF(z float64) float64 {
	return 0.5 * math.Erfc(-z/math.Sqrt2)
}
