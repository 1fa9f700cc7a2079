package checks

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/osu-tournament-rating/otr-api-sub005/internal/domain"
)

// fiveGameMatch is a clean match with five distinct 2v2 games.
func fiveGameMatch() *domain.Match {
	games := make([]*domain.Game, 0, 5)
	for i := 0; i < 5; i++ {
		games = append(games, twoVsTwoGame(int64(10+i), i*10))
	}
	return vsMatch(games...)
}

func TestCheckMatch(t *testing.T) {
	tests := []struct {
		name       string
		setup      func() (*domain.Match, *domain.Tournament)
		wantReason domain.MatchRejectionReason
		wantStatus domain.VerificationStatus
	}{
		{
			name: "clean match is pre-verified",
			setup: func() (*domain.Match, *domain.Tournament) {
				m := fiveGameMatch()
				return m, vsTournament(2, m)
			},
			wantReason: domain.MatchRejectionReasonNone,
			wantStatus: domain.VerificationStatusPreVerified,
		},
		{
			name: "no games",
			setup: func() (*domain.Match, *domain.Tournament) {
				m := vsMatch()
				return m, vsTournament(2, m)
			},
			wantReason: domain.MatchRejectionReasonNoGames,
			wantStatus: domain.VerificationStatusPreRejected,
		},
		{
			name: "all games rejected",
			setup: func() (*domain.Match, *domain.Tournament) {
				m := fiveGameMatch()
				for _, g := range m.Games {
					g.VerificationStatus = domain.VerificationStatusPreRejected
				}
				return m, vsTournament(2, m)
			},
			wantReason: domain.MatchRejectionReasonNoValidGames,
			wantStatus: domain.VerificationStatusPreRejected,
		},
		{
			name: "two valid games is an unexpected count",
			setup: func() (*domain.Match, *domain.Tournament) {
				m := vsMatch(twoVsTwoGame(10, 0), twoVsTwoGame(11, 10))
				return m, vsTournament(2, m)
			},
			wantReason: domain.MatchRejectionReasonUnexpectedGameCount,
			wantStatus: domain.VerificationStatusPreRejected,
		},
		{
			name: "missing end time",
			setup: func() (*domain.Match, *domain.Tournament) {
				m := fiveGameMatch()
				m.EndTime = time.Time{}
				return m, vsTournament(2, m)
			},
			wantReason: domain.MatchRejectionReasonNoEndTime,
			wantStatus: domain.VerificationStatusPreRejected,
		},
		{
			name: "name does not start with tournament abbreviation",
			setup: func() (*domain.Match, *domain.Tournament) {
				m := fiveGameMatch()
				m.Name = "XYZ: (A) vs (B)"
				return m, vsTournament(2, m)
			},
			wantReason: domain.MatchRejectionReasonNamePrefixMismatch,
			wantStatus: domain.VerificationStatusPreRejected,
		},
		{
			name: "abbreviation prefix check is case-insensitive",
			setup: func() (*domain.Match, *domain.Tournament) {
				m := fiveGameMatch()
				m.Name = "owc2023: (A) vs (B)"
				return m, vsTournament(2, m)
			},
			wantReason: domain.MatchRejectionReasonNone,
			wantStatus: domain.VerificationStatusPreVerified,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			match, tournament := tt.setup()
			got := CheckMatch(match, tournament)
			assert.Equal(t, tt.wantReason, got)
			assert.Equal(t, tt.wantStatus, match.VerificationStatus)
		})
	}
}

func TestCheckMatchWarnings(t *testing.T) {
	t.Run("low game count", func(t *testing.T) {
		m := vsMatch(twoVsTwoGame(10, 0), twoVsTwoGame(11, 10), twoVsTwoGame(12, 20))
		got := CheckMatch(m, vsTournament(2, m))
		assert.Equal(t, domain.MatchRejectionReasonNone, got)
		assert.NotZero(t, m.WarningFlags&domain.MatchWarningFlagsLowGameCount)
		assert.Equal(t, domain.VerificationStatusPreVerified, m.VerificationStatus)
	})

	t.Run("unexpected name format", func(t *testing.T) {
		m := fiveGameMatch()
		m.Name = "OWC2023 weekly practice lobby"
		got := CheckMatch(m, vsTournament(2, m))
		assert.Equal(t, domain.MatchRejectionReasonNone, got)
		assert.NotZero(t, m.WarningFlags&domain.MatchWarningFlagsUnexpectedNameFormat)
	})

	t.Run("unpooled beatmap after warmup slots", func(t *testing.T) {
		m := fiveGameMatch()
		m.Games[3].RejectionReason |= domain.GameRejectionReasonBeatmapNotPooled
		CheckMatch(m, vsTournament(2, m))
		assert.NotZero(t, m.WarningFlags&domain.MatchWarningFlagsUnexpectedBeatmapsFound)
	})

	t.Run("unpooled beatmap within warmup slots is fine", func(t *testing.T) {
		m := fiveGameMatch()
		m.Games[0].RejectionReason |= domain.GameRejectionReasonBeatmapNotPooled
		CheckMatch(m, vsTournament(2, m))
		assert.Zero(t, m.WarningFlags&domain.MatchWarningFlagsUnexpectedBeatmapsFound)
	})

	t.Run("player on both teams across games", func(t *testing.T) {
		m := fiveGameMatch()
		// Player 1 swaps to blue in the last game.
		last := m.Games[4]
		last.Scores[0].Team = domain.TeamBlue
		last.Scores[2].Team = domain.TeamRed
		CheckMatch(m, vsTournament(2, m))
		assert.NotZero(t, m.WarningFlags&domain.MatchWarningFlagsOverlappingRosters)
	})
}

func TestIsTournamentLobbyName(t *testing.T) {
	valid := []string{
		"OWC2023: (United States) vs (South Korea)",
		"ABC: Player1 vs Player2",
		"t5v5: [Team A] vs [Team B]",
		"OWC2023: (US) VS. (KR)",
	}
	for _, name := range valid {
		assert.True(t, IsTournamentLobbyName(name), name)
	}

	invalid := []string{
		"practice lobby",
		"OWC2023 United States South Korea",
		"",
	}
	for _, name := range invalid {
		assert.False(t, IsTournamentLobbyName(name), name)
	}
}
