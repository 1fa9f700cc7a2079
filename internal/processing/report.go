package processing

import (
	"fmt"
	"strings"

	"github.com/osu-tournament-rating/otr-api-sub005/internal/domain"
)

// BuildAuditReport renders a human-readable summary of a tournament's current
// pipeline state for audit logs. Purely observational.
func BuildAuditReport(tournament *domain.Tournament) string {
	var b strings.Builder

	fmt.Fprintf(&b, "tournament %d %q [%s]: verification=%s processing=%s rejection=%s\n",
		tournament.ID, tournament.Abbreviation, tournament.Ruleset,
		tournament.VerificationStatus, tournament.ProcessingStatus, tournament.RejectionReason)

	matchStatuses := make(map[domain.VerificationStatus]int)
	matchReasons := make(map[string]int)
	gameStatuses := make(map[domain.VerificationStatus]int)
	gameReasons := make(map[string]int)
	scoreStatuses := make(map[domain.VerificationStatus]int)
	scoreReasons := make(map[string]int)

	games, scores := 0, 0
	for _, m := range tournament.Matches {
		matchStatuses[m.VerificationStatus]++
		if m.RejectionReason != domain.MatchRejectionReasonNone {
			matchReasons[m.RejectionReason.String()]++
		}
		for _, g := range m.Games {
			games++
			gameStatuses[g.VerificationStatus]++
			if g.RejectionReason != domain.GameRejectionReasonNone {
				gameReasons[g.RejectionReason.String()]++
			}
			for _, s := range g.Scores {
				scores++
				scoreStatuses[s.VerificationStatus]++
				if s.RejectionReason != domain.ScoreRejectionReasonNone {
					scoreReasons[s.RejectionReason.String()]++
				}
			}
		}
	}

	writeSection(&b, "matches", len(tournament.Matches), matchStatuses, matchReasons)
	writeSection(&b, "games", games, gameStatuses, gameReasons)
	writeSection(&b, "scores", scores, scoreStatuses, scoreReasons)

	return strings.TrimRight(b.String(), "\n")
}

func writeSection(b *strings.Builder, name string, total int, statuses map[domain.VerificationStatus]int, reasons map[string]int) {
	fmt.Fprintf(b, "  %s: %d total", name, total)
	for _, status := range []domain.VerificationStatus{
		domain.VerificationStatusNone,
		domain.VerificationStatusPreRejected,
		domain.VerificationStatusPreVerified,
		domain.VerificationStatusRejected,
		domain.VerificationStatusVerified,
	} {
		if n := statuses[status]; n > 0 {
			fmt.Fprintf(b, " %s=%d", status, n)
		}
	}
	b.WriteString("\n")
	for reason, n := range reasons {
		fmt.Fprintf(b, "    rejected(%s)=%d\n", reason, n)
	}
}
