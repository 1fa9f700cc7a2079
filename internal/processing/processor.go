// Package processing drives each entity through its processing stages:
// NeedsData → NeedsAutomationChecks → NeedsVerification → NeedsStatCalculation
// → Done. Every stage handler is guarded on the entity's current status, so
// redelivered messages re-running a driver are no-ops. NeedsVerification is a
// hard stop until an external reviewer resolves the entity; Verified advances
// to stat calculation and Rejected short-circuits to Done.
package processing

import (
	"log/slog"

	"github.com/osu-tournament-rating/otr-api-sub005/internal/domain"
	"github.com/osu-tournament-rating/otr-api-sub005/internal/observability/pipelinemetrics"
)

// Processor hosts the per-entity stage drivers. Drivers mutate the entity
// graph in place; persistence happens once per unit of work in the caller.
type Processor struct {
	logger  *slog.Logger
	metrics pipelinemetrics.PipelineMetrics
}

func NewProcessor(logger *slog.Logger, metrics pipelinemetrics.PipelineMetrics) *Processor {
	return &Processor{
		logger:  logger,
		metrics: metrics,
	}
}

// resolveChildStatus cascades a parent's resolution onto a provisional child.
// Already-resolved children are left alone.
func resolveChildStatus(child domain.VerificationStatus, parentVerified bool) domain.VerificationStatus {
	if child.IsResolved() {
		return child
	}
	if parentVerified && child == domain.VerificationStatusPreVerified {
		return domain.VerificationStatusVerified
	}
	return domain.VerificationStatusRejected
}

// provisionalStatus is the automation-check outcome: PreVerified when nothing
// fatal accumulated, PreRejected otherwise.
func provisionalStatus(rejected bool) domain.VerificationStatus {
	if rejected {
		return domain.VerificationStatusPreRejected
	}
	return domain.VerificationStatusPreVerified
}
