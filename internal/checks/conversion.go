package checks

import (
	"github.com/osu-tournament-rating/otr-api-sub005/internal/domain"
)

// ConvertHeadToHead rewrites head-to-head games of a 1v1 tournament into
// TeamVs so they survive the game team-type rule. Conversion is all-or-nothing:
// any inconsistency flags the offending entities and leaves every game
// untouched. It must run before the game checks.
func ConvertHeadToHead(match *domain.Match, tournament *domain.Tournament) {
	if tournament.LobbySize != 1 || len(match.Games) == 0 {
		return
	}

	eligible := eligibleForConversion(match)
	if len(eligible) == 0 {
		return
	}

	globalPlayers := matchPlayerIDs(match)
	if len(globalPlayers) != 2 {
		match.RejectionReason |= domain.MatchRejectionReasonFailedTeamVsConversion
		for _, g := range eligible {
			g.RejectionReason |= domain.GameRejectionReasonFailedTeamVsConversion
		}
		return
	}

	for _, g := range match.Games {
		if g.VerificationStatus.IsRejected() {
			continue
		}
		ids := domain.PlayerIDs(g.ValidScores())
		if len(ids) > 2 || !subsetOf(ids, globalPlayers) {
			g.RejectionReason |= domain.GameRejectionReasonFailedTeamVsConversion |
				domain.GameRejectionReasonLobbySizeMismatch
			return
		}
	}

	red, blue := pickTeamAssignment(match, globalPlayers)

	for _, g := range eligible {
		for _, s := range g.Scores {
			switch s.PlayerOsuID {
			case red:
				s.Team = domain.TeamRed
			case blue:
				s.Team = domain.TeamBlue
			}
		}
		g.TeamType = domain.TeamTypeTeamVs
	}
}

// eligibleForConversion selects the head-to-head games that can carry a team
// assignment: not rejected, with exactly 1 or 2 non-rejected scores.
func eligibleForConversion(match *domain.Match) []*domain.Game {
	var out []*domain.Game
	for _, g := range match.Games {
		if g.TeamType != domain.TeamTypeHeadToHead || g.VerificationStatus.IsRejected() {
			continue
		}
		n := len(g.ValidScores())
		if n == 1 || n == 2 {
			out = append(out, g)
		}
	}
	return out
}

// pickTeamAssignment decides which of the two players is red and which is blue
// using the game at the numeric midpoint of the time-ordered game list.
//
// TODO: when the midpoint game has zero non-rejected scores this falls through
// to sorting the two global ids, which may not reflect the actual in-game
// teams. Confirm against real tournament data before changing.
func pickTeamAssignment(match *domain.Match, globalPlayers []int64) (red, blue int64) {
	ordered := match.GamesByStartTime()
	midpoint := ordered[len(ordered)/2]

	ids := domain.PlayerIDs(midpoint.ValidScores())
	switch {
	case len(ids) >= 2:
		return ids[0], ids[1]
	case len(ids) == 1:
		red = ids[0]
		for _, id := range globalPlayers {
			if id != red {
				return red, id
			}
		}
		return red, globalPlayers[1]
	default:
		return globalPlayers[0], globalPlayers[1]
	}
}

// matchPlayerIDs returns the distinct player ids across all non-rejected
// scores of every game in the match, ascending.
func matchPlayerIDs(match *domain.Match) []int64 {
	var scores []*domain.GameScore
	for _, g := range match.Games {
		scores = append(scores, g.ValidScores()...)
	}
	return domain.PlayerIDs(scores)
}

func subsetOf(ids, of []int64) bool {
	set := make(map[int64]struct{}, len(of))
	for _, id := range of {
		set[id] = struct{}{}
	}
	for _, id := range ids {
		if _, ok := set[id]; !ok {
			return false
		}
	}
	return true
}
