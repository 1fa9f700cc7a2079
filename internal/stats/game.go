package stats

import (
	"sort"

	"github.com/osu-tournament-rating/otr-api-sub005/internal/domain"
	"github.com/osu-tournament-rating/otr-api-sub005/internal/rosters"
)

// ProcessGameStats assigns placements over a game's verified scores,
// regenerates the game's rosters from them, and records the winning side.
// Prior roster generations are discarded wholesale.
func ProcessGameStats(game *domain.Game) error {
	scores := verifiedScores(game)
	if len(scores) == 0 {
		game.Rosters = nil
		game.WinRecord = nil
		return nil
	}

	ranked := make([]*domain.GameScore, len(scores))
	copy(ranked, scores)
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Score > ranked[j].Score })
	for i, s := range ranked {
		s.Placement = i + 1
	}

	generated, err := rosters.GenerateGameRosters(scores)
	if err != nil {
		return err
	}
	game.Rosters = generated
	game.WinRecord = gameWinRecord(generated)
	return nil
}

// gameWinRecord compares roster score sums; a tie yields no record.
func gameWinRecord(gameRosters []*domain.GameRoster) *domain.WinRecord {
	if len(gameRosters) != 2 {
		return nil
	}
	winner, loser := gameRosters[0], gameRosters[1]
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
		WinnerScore:  winner.Score,
		LoserScore:   loser.Score,
	}
}
