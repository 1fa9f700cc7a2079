package domain

// Tournament is the root of one submission's entity graph. It owns its matches
// outright; the pipeline mutates the graph in place and persists it as a single
// unit of work.
type Tournament struct {
	ID           int64
	Name         string
	Abbreviation string
	Ruleset      Ruleset
	// LobbySize is the configured number of players per team.
	LobbySize           int
	RankRangeLowerBound int

	// PooledBeatmaps is the submitted mappool, keyed by osu! beatmap id.
	// An empty pool means no pool was submitted.
	PooledBeatmaps []int64

	Matches []*Match

	PlayerTournamentStats []*PlayerTournamentStats

	VerificationStatus VerificationStatus
	RejectionReason    TournamentRejectionReason
	ProcessingStatus   ProcessingStatus
}

// HasPooledBeatmaps reports whether a mappool was submitted for the tournament.
func (t *Tournament) HasPooledBeatmaps() bool {
	return len(t.PooledBeatmaps) > 0
}

// IsBeatmapPooled reports whether the given beatmap id is part of the pool.
func (t *Tournament) IsBeatmapPooled(beatmapOsuID int64) bool {
	for _, id := range t.PooledBeatmaps {
		if id == beatmapOsuID {
			return true
		}
	}
	return false
}

// MatchesWithGames returns only the matches that contain at least one game.
// Data-less matches are excluded from the verification gate.
func (t *Tournament) MatchesWithGames() []*Match {
	var out []*Match
	for _, m := range t.Matches {
		if len(m.Games) > 0 {
			out = append(out, m)
		}
	}
	return out
}

// VerifiedMatches returns the matches resolved as Verified.
func (t *Tournament) VerifiedMatches() []*Match {
	var out []*Match
	for _, m := range t.Matches {
		if m.VerificationStatus == VerificationStatusVerified {
			out = append(out, m)
		}
	}
	return out
}
