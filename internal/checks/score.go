// Package checks implements the automated legitimacy rules for scores, games,
// matches and tournaments. Every rule in a pass always runs; results are
// OR-combined into the entity's rejection reason. Checks move entities from
// None to PreRejected/PreVerified only — final resolution belongs to a human
// reviewer.
package checks

import "github.com/osu-tournament-rating/otr-api-sub005/internal/domain"

// CheckScore runs every score rule against one score and OR-combines the
// results into its rejection reason. The bitmask is advisory input to the game
// check; the score's verification status is assigned by its driver.
func CheckScore(score *domain.GameScore, tournamentRuleset domain.Ruleset) domain.ScoreRejectionReason {
	var reason domain.ScoreRejectionReason

	if score.Score <= domain.ScoreMinimum {
		reason |= domain.ScoreRejectionReasonBelowMinimum
	}
	if score.Mods.HasAny(domain.InvalidMods) {
		reason |= domain.ScoreRejectionReasonInvalidMods
	}
	if score.Ruleset != tournamentRuleset {
		reason |= domain.ScoreRejectionReasonRulesetMismatch
	}

	score.RejectionReason |= reason
	return reason
}
