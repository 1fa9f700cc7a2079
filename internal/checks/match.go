package checks

import (
	"strings"

	"github.com/osu-tournament-rating/otr-api-sub005/internal/domain"
)

// CheckMatch runs the match-level rules and assigns the match's provisional
// verification status. The head-to-head conversion and the per-game checks
// must already have run for this pass; this function only evaluates the match
// itself against its (already checked) games.
func CheckMatch(match *domain.Match, tournament *domain.Tournament) domain.MatchRejectionReason {
	var reason domain.MatchRejectionReason

	checkMatchBeatmapWarnings(match)

	if !IsTournamentLobbyName(match.Name) {
		match.WarningFlags |= domain.MatchWarningFlagsUnexpectedNameFormat
	}

	checkMatchRosterOverlap(match)

	if match.EndTime.IsZero() {
		reason |= domain.MatchRejectionReasonNoEndTime
	}

	reason |= checkMatchGameCount(match)

	if !strings.HasPrefix(strings.ToLower(match.Name), strings.ToLower(tournament.Abbreviation)) {
		reason |= domain.MatchRejectionReasonNamePrefixMismatch
	}

	match.RejectionReason |= reason

	// FailedTeamVsConversion from the converter counts toward the final call;
	// flags accumulate across the whole pass.
	if match.RejectionReason == domain.MatchRejectionReasonNone {
		match.VerificationStatus = domain.VerificationStatusPreVerified
	} else {
		match.VerificationStatus = domain.VerificationStatusPreRejected
	}
	return reason
}

// checkMatchBeatmapWarnings surfaces unpooled beatmaps showing up after the
// usual two warmup slots.
func checkMatchBeatmapWarnings(match *domain.Match) {
	for i, g := range match.GamesByStartTime() {
		if i < 2 {
			continue
		}
		if g.RejectionReason&domain.GameRejectionReasonBeatmapNotPooled != 0 {
			match.WarningFlags |= domain.MatchWarningFlagsUnexpectedBeatmapsFound
			return
		}
	}
}

// checkMatchRosterOverlap warns when a player shows up on more than one team
// across the match's non-rejected games.
func checkMatchRosterOverlap(match *domain.Match) {
	teamPlayers := make(map[domain.Team]map[int64]struct{})
	for _, g := range match.ValidGames() {
		for _, s := range g.ValidScores() {
			set, ok := teamPlayers[s.Team]
			if !ok {
				set = make(map[int64]struct{})
				teamPlayers[s.Team] = set
			}
			set[s.PlayerOsuID] = struct{}{}
		}
	}
	for teamA, playersA := range teamPlayers {
		for teamB, playersB := range teamPlayers {
			if teamA >= teamB {
				continue
			}
			for id := range playersA {
				if _, ok := playersB[id]; ok {
					match.WarningFlags |= domain.MatchWarningFlagsOverlappingRosters
					return
				}
			}
		}
	}
}

func checkMatchGameCount(match *domain.Match) domain.MatchRejectionReason {
	if len(match.Games) == 0 {
		return domain.MatchRejectionReasonNoGames
	}
	valid := len(match.ValidGames())
	switch {
	case valid == 0:
		return domain.MatchRejectionReasonNoValidGames
	case valid <= 2:
		return domain.MatchRejectionReasonUnexpectedGameCount
	case valid <= 4:
		match.WarningFlags |= domain.MatchWarningFlagsLowGameCount
		return domain.MatchRejectionReasonNone
	default:
		return domain.MatchRejectionReasonNone
	}
}
