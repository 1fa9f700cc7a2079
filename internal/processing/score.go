package processing

import (
	"context"

	"github.com/osu-tournament-rating/otr-api-sub005/internal/checks"
	"github.com/osu-tournament-rating/otr-api-sub005/internal/domain"
	"github.com/osu-tournament-rating/otr-api-sub005/internal/observability/attr"
)

// ProcessScore runs the score through every stage it can currently pass.
// Scores carry no external data of their own and receive their placement
// during the game's stat pass, so the data and stat stages advance directly.
func (p *Processor) ProcessScore(ctx context.Context, score *domain.GameScore, tournament *domain.Tournament) {
	for {
		prev := score.ProcessingStatus
		switch score.ProcessingStatus {
		case domain.ProcessingStatusNeedsData:
			p.advanceScore(ctx, score, domain.ProcessingStatusNeedsAutomationChecks)

		case domain.ProcessingStatusNeedsAutomationChecks:
			checks.CheckScore(score, tournament.Ruleset)
			if score.VerificationStatus == domain.VerificationStatusNone {
				score.VerificationStatus = provisionalStatus(score.RejectionReason != domain.ScoreRejectionReasonNone)
			}
			if score.VerificationStatus == domain.VerificationStatusPreRejected {
				p.metrics.RecordRejection(ctx, "score", score.RejectionReason.String())
			}
			p.advanceScore(ctx, score, domain.ProcessingStatusNeedsVerification)

		case domain.ProcessingStatusNeedsVerification:
			switch score.VerificationStatus {
			case domain.VerificationStatusVerified:
				p.advanceScore(ctx, score, domain.ProcessingStatusNeedsStatCalculation)
			case domain.VerificationStatusRejected:
				p.advanceScore(ctx, score, domain.ProcessingStatusDone)
			}

		case domain.ProcessingStatusNeedsStatCalculation:
			p.advanceScore(ctx, score, domain.ProcessingStatusDone)
		}

		if score.ProcessingStatus == prev {
			return
		}
	}
}

func (p *Processor) advanceScore(ctx context.Context, score *domain.GameScore, to domain.ProcessingStatus) {
	score.ProcessingStatus = to
	p.metrics.RecordStageAdvance(ctx, "score", to.String())
	p.logger.DebugContext(ctx, "score advanced",
		attr.ExtractCorrelationID(ctx),
		attr.Int64("score_id", score.ID),
		attr.Stringer("stage", to),
	)
}
