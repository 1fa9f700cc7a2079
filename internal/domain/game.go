package domain

import "time"

// Game is one played beatmap within a match. EndTime's zero value means the
// upstream source reported a placeholder timestamp.
type Game struct {
	ID      int64
	OsuID   int64
	MatchID int64

	Ruleset     Ruleset
	ScoringType ScoringType
	TeamType    TeamType
	Mods        Mods

	// BeatmapOsuID is zero when the upstream source had no beatmap on record.
	BeatmapOsuID int64

	StartTime time.Time
	EndTime   time.Time

	Scores []*GameScore

	Rosters   []*GameRoster
	WinRecord *WinRecord

	VerificationStatus VerificationStatus
	RejectionReason    GameRejectionReason
	WarningFlags       GameWarningFlags
	ProcessingStatus   ProcessingStatus
}

// ValidScores returns the scores whose verification state is not rejected.
func (g *Game) ValidScores() []*GameScore {
	var out []*GameScore
	for _, s := range g.Scores {
		if !s.VerificationStatus.IsRejected() {
			out = append(out, s)
		}
	}
	return out
}

// PlayerIDs returns the distinct player ids across the given scores, ascending.
func PlayerIDs(scores []*GameScore) []int64 {
	seen := make(map[int64]struct{}, len(scores))
	var ids []int64
	for _, s := range scores {
		if _, ok := seen[s.PlayerOsuID]; ok {
			continue
		}
		seen[s.PlayerOsuID] = struct{}{}
		ids = append(ids, s.PlayerOsuID)
	}
	sortInt64s(ids)
	return ids
}

// GameRoster is the derived (team, players, score sum) record for one game.
type GameRoster struct {
	GameID int64
	Team   Team
	Roster []int64
	Score  int64
}
