package processing

import (
	"context"

	"github.com/osu-tournament-rating/otr-api-sub005/internal/checks"
	"github.com/osu-tournament-rating/otr-api-sub005/internal/domain"
	"github.com/osu-tournament-rating/otr-api-sub005/internal/observability/attr"
	"github.com/osu-tournament-rating/otr-api-sub005/internal/stats"
)

// ProcessMatch runs the match through every stage it can currently pass. The
// head-to-head conversion runs before the game cascade so converted games do
// not trip the team-type rule. A match without data stays at NeedsData until
// the fetch consumer fills it in.
func (p *Processor) ProcessMatch(ctx context.Context, match *domain.Match, tournament *domain.Tournament) error {
	for {
		prev := match.ProcessingStatus
		switch match.ProcessingStatus {
		case domain.ProcessingStatusNeedsData:
			if len(match.Games) == 0 && match.RejectionReason&domain.MatchRejectionReasonNoData == 0 {
				return nil
			}
			p.advanceMatch(ctx, match, domain.ProcessingStatusNeedsAutomationChecks)

		case domain.ProcessingStatusNeedsAutomationChecks:
			checks.ConvertHeadToHead(match, tournament)
			for _, g := range match.Games {
				if err := p.ProcessGame(ctx, g, tournament, false); err != nil {
					return err
				}
			}
			checks.CheckMatch(match, tournament)
			if match.VerificationStatus == domain.VerificationStatusPreRejected {
				p.metrics.RecordRejection(ctx, "match", match.RejectionReason.String())
			}
			p.advanceMatch(ctx, match, domain.ProcessingStatusNeedsVerification)

		case domain.ProcessingStatusNeedsVerification:
			if !match.VerificationStatus.IsResolved() {
				return nil
			}
			verified := match.VerificationStatus == domain.VerificationStatusVerified
			for _, g := range match.Games {
				g.VerificationStatus = resolveChildStatus(g.VerificationStatus, verified)
				if err := p.ProcessGame(ctx, g, tournament, false); err != nil {
					return err
				}
			}
			if !p.gamesBeyondVerification(match) {
				return nil
			}
			if verified {
				p.advanceMatch(ctx, match, domain.ProcessingStatusNeedsStatCalculation)
			} else {
				p.advanceMatch(ctx, match, domain.ProcessingStatusDone)
			}

		case domain.ProcessingStatusNeedsStatCalculation:
			for _, g := range match.Games {
				if err := p.ProcessGame(ctx, g, tournament, false); err != nil {
					return err
				}
			}
			if !p.gamesBeyondVerification(match) {
				return nil
			}
			if err := stats.ProcessMatchStats(match); err != nil {
				return err
			}
			p.advanceMatch(ctx, match, domain.ProcessingStatusDone)
		}

		if match.ProcessingStatus == prev {
			return nil
		}
	}
}

// gamesBeyondVerification reports whether every game has left the
// verification-wait stage.
func (p *Processor) gamesBeyondVerification(match *domain.Match) bool {
	for _, g := range match.Games {
		if g.ProcessingStatus <= domain.ProcessingStatusNeedsVerification {
			return false
		}
	}
	return true
}

func (p *Processor) advanceMatch(ctx context.Context, match *domain.Match, to domain.ProcessingStatus) {
	match.ProcessingStatus = to
	p.metrics.RecordStageAdvance(ctx, "match", to.String())
	p.logger.InfoContext(ctx, "match advanced",
		attr.ExtractCorrelationID(ctx),
		attr.Int64("match_id", match.ID),
		attr.Stringer("stage", to),
	)
}
