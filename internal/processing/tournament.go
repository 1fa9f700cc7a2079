package processing

import (
	"context"

	"github.com/osu-tournament-rating/otr-api-sub005/internal/checks"
	"github.com/osu-tournament-rating/otr-api-sub005/internal/domain"
	"github.com/osu-tournament-rating/otr-api-sub005/internal/observability/attr"
	"github.com/osu-tournament-rating/otr-api-sub005/internal/stats"
)

// TournamentResult reports follow-up work the caller must schedule.
type TournamentResult struct {
	// PendingMatchFetches lists the osu! match ids still awaiting upstream data.
	PendingMatchFetches []int64
}

// ProcessTournament runs the tournament through every stage it can currently
// pass, cascading into match drivers. With overrideVerification the
// verification-gate check re-runs regardless of stage and overwrites even a
// reviewer-resolved status.
func (p *Processor) ProcessTournament(
	ctx context.Context,
	tournament *domain.Tournament,
	adjustments []domain.RatingAdjustment,
	overrideVerification bool,
) (TournamentResult, error) {
	var result TournamentResult

	if overrideVerification && tournament.ProcessingStatus > domain.ProcessingStatusNeedsAutomationChecks {
		p.checkTournament(ctx, tournament, true)
	}

	for {
		prev := tournament.ProcessingStatus
		switch tournament.ProcessingStatus {
		case domain.ProcessingStatusNeedsData:
			for _, m := range tournament.Matches {
				if m.ProcessingStatus == domain.ProcessingStatusNeedsData && len(m.Games) == 0 {
					result.PendingMatchFetches = append(result.PendingMatchFetches, m.OsuID)
				}
			}
			if len(result.PendingMatchFetches) > 0 {
				return result, nil
			}
			p.advanceTournament(ctx, tournament, domain.ProcessingStatusNeedsAutomationChecks)

		case domain.ProcessingStatusNeedsAutomationChecks:
			for _, m := range tournament.Matches {
				if err := p.ProcessMatch(ctx, m, tournament); err != nil {
					return result, err
				}
			}
			if !p.matchesBeyondChecks(tournament) {
				return result, nil
			}
			p.checkTournament(ctx, tournament, false)
			p.advanceTournament(ctx, tournament, domain.ProcessingStatusNeedsVerification)

		case domain.ProcessingStatusNeedsVerification:
			if !tournament.VerificationStatus.IsResolved() {
				return result, nil
			}
			verified := tournament.VerificationStatus == domain.VerificationStatusVerified
			for _, m := range tournament.Matches {
				m.VerificationStatus = resolveChildStatus(m.VerificationStatus, verified)
				if err := p.ProcessMatch(ctx, m, tournament); err != nil {
					return result, err
				}
			}
			if !p.matchesBeyondVerification(tournament) {
				return result, nil
			}
			if verified {
				p.advanceTournament(ctx, tournament, domain.ProcessingStatusNeedsStatCalculation)
			} else {
				p.advanceTournament(ctx, tournament, domain.ProcessingStatusDone)
			}

		case domain.ProcessingStatusNeedsStatCalculation:
			for _, m := range tournament.Matches {
				if err := p.ProcessMatch(ctx, m, tournament); err != nil {
					return result, err
				}
			}
			if !p.matchesBeyondVerification(tournament) {
				return result, nil
			}
			stats.ProcessTournamentStats(tournament, adjustments)
			p.advanceTournament(ctx, tournament, domain.ProcessingStatusDone)
		}

		if tournament.ProcessingStatus == prev {
			return result, nil
		}
	}
}

func (p *Processor) checkTournament(ctx context.Context, tournament *domain.Tournament, override bool) {
	checks.CheckTournament(tournament)
	if override {
		tournament.VerificationStatus = provisionalStatus(
			tournament.RejectionReason != domain.TournamentRejectionReasonNone)
	}
	if tournament.VerificationStatus == domain.VerificationStatusPreRejected {
		p.metrics.RecordRejection(ctx, "tournament", tournament.RejectionReason.String())
	}
}

func (p *Processor) matchesBeyondChecks(tournament *domain.Tournament) bool {
	for _, m := range tournament.Matches {
		if m.ProcessingStatus < domain.ProcessingStatusNeedsVerification {
			return false
		}
	}
	return true
}

func (p *Processor) matchesBeyondVerification(tournament *domain.Tournament) bool {
	for _, m := range tournament.Matches {
		if m.ProcessingStatus <= domain.ProcessingStatusNeedsVerification {
			return false
		}
	}
	return true
}

func (p *Processor) advanceTournament(ctx context.Context, tournament *domain.Tournament, to domain.ProcessingStatus) {
	tournament.ProcessingStatus = to
	p.metrics.RecordStageAdvance(ctx, "tournament", to.String())
	p.logger.InfoContext(ctx, "tournament advanced",
		attr.ExtractCorrelationID(ctx),
		attr.Int64("tournament_id", tournament.ID),
		attr.Stringer("stage", to),
	)
}
