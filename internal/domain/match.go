package domain

import (
	"sort"
	"time"
)

// Match is one lobby of a tournament. EndTime's zero value means the upstream
// source never reported an end time.
type Match struct {
	ID           int64
	OsuID        int64
	TournamentID int64
	Name         string
	StartTime    time.Time
	EndTime      time.Time

	Games []*Game

	Rosters          []*MatchRoster
	PlayerMatchStats []*PlayerMatchStats
	WinRecord        *WinRecord

	VerificationStatus VerificationStatus
	RejectionReason    MatchRejectionReason
	WarningFlags       MatchWarningFlags
	ProcessingStatus   ProcessingStatus
}

// ValidGames returns the games whose verification state is not rejected,
// ordered by start time.
func (m *Match) ValidGames() []*Game {
	var out []*Game
	for _, g := range m.GamesByStartTime() {
		if !g.VerificationStatus.IsRejected() {
			out = append(out, g)
		}
	}
	return out
}

// GamesByStartTime returns the games sorted ascending by start time.
func (m *Match) GamesByStartTime() []*Game {
	games := make([]*Game, len(m.Games))
	copy(games, m.Games)
	sort.SliceStable(games, func(i, j int) bool {
		return games[i].StartTime.Before(games[j].StartTime)
	})
	return games
}

// MatchRoster is the derived (team, players, score) record for one match.
// Score counts the games the team won, not a score sum.
type MatchRoster struct {
	MatchID int64
	Team    Team
	Roster  []int64
	Score   int
}

// WinRecord captures the winning and losing side of a match or game. A tie
// produces no record.
type WinRecord struct {
	WinnerTeam   Team
	LoserTeam    Team
	WinnerRoster []int64
	LoserRoster  []int64
	WinnerScore  int64
	LoserScore   int64
}
