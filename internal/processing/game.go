package processing

import (
	"context"

	"github.com/osu-tournament-rating/otr-api-sub005/internal/checks"
	"github.com/osu-tournament-rating/otr-api-sub005/internal/domain"
	"github.com/osu-tournament-rating/otr-api-sub005/internal/observability/attr"
	"github.com/osu-tournament-rating/otr-api-sub005/internal/stats"
)

// ProcessGame runs the game through every stage it can currently pass,
// cascading into its scores first at each stage. With overrideVerification the
// automation checks re-run regardless of the game's current stage and their
// outcome overwrites even a reviewer-resolved verification state; the
// processing status itself never regresses.
func (p *Processor) ProcessGame(ctx context.Context, game *domain.Game, tournament *domain.Tournament, overrideVerification bool) error {
	if overrideVerification && game.ProcessingStatus > domain.ProcessingStatusNeedsAutomationChecks {
		if err := p.checkGame(ctx, game, tournament, true); err != nil {
			return err
		}
	}

	for {
		prev := game.ProcessingStatus
		switch game.ProcessingStatus {
		case domain.ProcessingStatusNeedsData:
			// Game data arrives embedded in the match payload.
			p.advanceGame(ctx, game, domain.ProcessingStatusNeedsAutomationChecks)

		case domain.ProcessingStatusNeedsAutomationChecks:
			if err := p.checkGame(ctx, game, tournament, false); err != nil {
				return err
			}
			p.advanceGame(ctx, game, domain.ProcessingStatusNeedsVerification)

		case domain.ProcessingStatusNeedsVerification:
			if !game.VerificationStatus.IsResolved() {
				return nil
			}
			verified := game.VerificationStatus == domain.VerificationStatusVerified
			for _, s := range game.Scores {
				s.VerificationStatus = resolveChildStatus(s.VerificationStatus, verified)
				p.ProcessScore(ctx, s, tournament)
			}
			if verified {
				p.advanceGame(ctx, game, domain.ProcessingStatusNeedsStatCalculation)
			} else {
				// Rejected games carry no derived data; the check pass may
				// have generated rosters, so drop them here.
				game.Rosters = nil
				game.WinRecord = nil
				p.advanceGame(ctx, game, domain.ProcessingStatusDone)
			}

		case domain.ProcessingStatusNeedsStatCalculation:
			if err := stats.ProcessGameStats(game); err != nil {
				return err
			}
			for _, s := range game.Scores {
				p.ProcessScore(ctx, s, tournament)
			}
			p.advanceGame(ctx, game, domain.ProcessingStatusDone)
		}

		if game.ProcessingStatus == prev {
			return nil
		}
	}
}

// checkGame cascades the score checks and then evaluates the game itself.
func (p *Processor) checkGame(ctx context.Context, game *domain.Game, tournament *domain.Tournament, override bool) error {
	for _, s := range game.Scores {
		if s.ProcessingStatus == domain.ProcessingStatusNeedsData ||
			s.ProcessingStatus == domain.ProcessingStatusNeedsAutomationChecks {
			p.ProcessScore(ctx, s, tournament)
		}
	}

	if _, err := checks.CheckGame(game, tournament); err != nil {
		return err
	}
	rejected := game.RejectionReason != domain.GameRejectionReasonNone
	if override || game.VerificationStatus == domain.VerificationStatusNone {
		game.VerificationStatus = provisionalStatus(rejected)
	}
	if rejected {
		p.metrics.RecordRejection(ctx, "game", game.RejectionReason.String())
	}
	return nil
}

func (p *Processor) advanceGame(ctx context.Context, game *domain.Game, to domain.ProcessingStatus) {
	game.ProcessingStatus = to
	p.metrics.RecordStageAdvance(ctx, "game", to.String())
	p.logger.DebugContext(ctx, "game advanced",
		attr.ExtractCorrelationID(ctx),
		attr.Int64("game_id", game.ID),
		attr.Stringer("stage", to),
	)
}
