package handlers

import (
	"context"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/osu-tournament-rating/otr-api-sub005/internal/events"
	"github.com/osu-tournament-rating/otr-api-sub005/internal/observability/attr"
	"github.com/osu-tournament-rating/otr-api-sub005/internal/processing"
)

// HandleTournamentProcessed emits the audit report for a finished tournament.
func (h *PipelineHandlers) HandleTournamentProcessed() message.NoPublishHandlerFunc {
	return h.wrap("HandleTournamentProcessed", func() any { return &events.TournamentProcessedPayload{} },
		func(ctx context.Context, _ *message.Message, payload any) error {
			p := payload.(*events.TournamentProcessedPayload)

			tournament, err := h.repo.TournamentByID(ctx, p.TournamentID)
			if err != nil {
				return err
			}
			if tournament == nil {
				h.logUnknownEntity(ctx, "tournament", p.TournamentID)
				return nil
			}

			h.logger.InfoContext(ctx, "tournament processing finished",
				attr.ExtractCorrelationID(ctx),
				attr.Int64("tournament_id", tournament.ID),
				attr.String("action", p.Action),
				attr.String("report", processing.BuildAuditReport(tournament)),
			)
			return nil
		})
}
