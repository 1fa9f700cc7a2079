package checks

import "github.com/osu-tournament-rating/otr-api-sub005/internal/domain"

// VerifiedMatchesThreshold is the minimum share of matches-with-games that
// must be pre-verified or verified for a tournament to pass.
const VerifiedMatchesThreshold = 0.8

// CheckTournament evaluates the verification gate over the tournament's
// matches and assigns its provisional verification status. Only matches with
// at least one game count toward the gate.
func CheckTournament(tournament *domain.Tournament) domain.TournamentRejectionReason {
	reason := checkTournamentGate(tournament)

	tournament.RejectionReason |= reason
	if tournament.RejectionReason == domain.TournamentRejectionReasonNone {
		tournament.VerificationStatus = domain.VerificationStatusPreVerified
	} else {
		tournament.VerificationStatus = domain.VerificationStatusPreRejected
	}
	return reason
}

func checkTournamentGate(tournament *domain.Tournament) domain.TournamentRejectionReason {
	withGames := tournament.MatchesWithGames()
	if len(withGames) == 0 {
		return domain.TournamentRejectionReasonNoVerifiedMatches
	}

	verified := 0
	for _, m := range withGames {
		if m.VerificationStatus.IsPreVerifiedOrVerified() {
			verified++
		}
	}
	switch {
	case verified == 0:
		return domain.TournamentRejectionReasonNoVerifiedMatches
	case float64(verified)/float64(len(withGames)) < VerifiedMatchesThreshold:
		return domain.TournamentRejectionReasonNotEnoughVerifiedMatches
	default:
		return domain.TournamentRejectionReasonNone
	}
}
