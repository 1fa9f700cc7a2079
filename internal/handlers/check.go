package handlers

import (
	"context"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/osu-tournament-rating/otr-api-sub005/internal/domain"
	"github.com/osu-tournament-rating/otr-api-sub005/internal/events"
	"github.com/osu-tournament-rating/otr-api-sub005/internal/observability/attr"
)

// HandleCheckScore runs the score driver and bubbles up to the owning game.
func (h *PipelineHandlers) HandleCheckScore() message.NoPublishHandlerFunc {
	return h.wrap("HandleCheckScore", func() any { return &events.CheckScorePayload{} },
		func(ctx context.Context, msg *message.Message, payload any) error {
			p := payload.(*events.CheckScorePayload)

			tournament, err := h.repo.TournamentByScoreID(ctx, p.ScoreID)
			if err != nil {
				return err
			}
			if tournament == nil {
				h.logUnknownEntity(ctx, "score", p.ScoreID)
				return nil
			}
			score := findScore(tournament, p.ScoreID)
			if score == nil {
				h.logUnknownEntity(ctx, "score", p.ScoreID)
				return nil
			}

			h.processor.ProcessScore(ctx, score, tournament)
			if err := h.repo.SaveTournament(ctx, tournament); err != nil {
				return err
			}
			return h.publish(ctx, msg, events.CheckGameTopic, events.CheckGamePayload{GameID: score.GameID})
		})
}

// HandleCheckGame runs the game driver and bubbles up to the owning match.
func (h *PipelineHandlers) HandleCheckGame() message.NoPublishHandlerFunc {
	return h.wrap("HandleCheckGame", func() any { return &events.CheckGamePayload{} },
		func(ctx context.Context, msg *message.Message, payload any) error {
			p := payload.(*events.CheckGamePayload)

			tournament, err := h.repo.TournamentByGameID(ctx, p.GameID)
			if err != nil {
				return err
			}
			if tournament == nil {
				h.logUnknownEntity(ctx, "game", p.GameID)
				return nil
			}
			game, match := findGame(tournament, p.GameID)
			if game == nil {
				h.logUnknownEntity(ctx, "game", p.GameID)
				return nil
			}

			if err := h.processor.ProcessGame(ctx, game, tournament, p.OverrideVerifiedState); err != nil {
				return err
			}
			if err := h.repo.SaveTournament(ctx, tournament); err != nil {
				return err
			}
			return h.publish(ctx, msg, events.CheckMatchTopic, events.CheckMatchPayload{MatchID: match.ID})
		})
}

// HandleCheckMatch runs the match driver and bubbles up to the owning
// tournament.
func (h *PipelineHandlers) HandleCheckMatch() message.NoPublishHandlerFunc {
	return h.wrap("HandleCheckMatch", func() any { return &events.CheckMatchPayload{} },
		func(ctx context.Context, msg *message.Message, payload any) error {
			p := payload.(*events.CheckMatchPayload)

			tournament, err := h.repo.TournamentByMatchID(ctx, p.MatchID)
			if err != nil {
				return err
			}
			if tournament == nil {
				h.logUnknownEntity(ctx, "match", p.MatchID)
				return nil
			}
			match := findMatch(tournament, p.MatchID)
			if match == nil {
				h.logUnknownEntity(ctx, "match", p.MatchID)
				return nil
			}

			if err := h.processor.ProcessMatch(ctx, match, tournament); err != nil {
				return err
			}
			if err := h.repo.SaveTournament(ctx, tournament); err != nil {
				return err
			}
			return h.publish(ctx, msg, events.CheckTournamentTopic, events.CheckTournamentPayload{
				TournamentID: tournament.ID,
			})
		})
}

// HandleCheckTournament runs the top-level driver over the whole graph. It
// schedules fetches for data-less matches and announces the tournament once the
// driver reaches the terminal stage.
func (h *PipelineHandlers) HandleCheckTournament() message.NoPublishHandlerFunc {
	return h.wrap("HandleCheckTournament", func() any { return &events.CheckTournamentPayload{} },
		func(ctx context.Context, msg *message.Message, payload any) error {
			p := payload.(*events.CheckTournamentPayload)
			return h.runTournament(ctx, msg, p.TournamentID, p.OverrideVerifiedState)
		})
}

// HandleTournamentStats re-runs the driver for the stat stage. The driver is
// idempotent, so a redelivered or stale message is a no-op.
func (h *PipelineHandlers) HandleTournamentStats() message.NoPublishHandlerFunc {
	return h.wrap("HandleTournamentStats", func() any { return &events.TournamentStatsPayload{} },
		func(ctx context.Context, msg *message.Message, payload any) error {
			p := payload.(*events.TournamentStatsPayload)
			return h.runTournament(ctx, msg, p.TournamentID, false)
		})
}

func (h *PipelineHandlers) runTournament(ctx context.Context, msg *message.Message, tournamentID int64, override bool) error {
	tournament, err := h.repo.TournamentByID(ctx, tournamentID)
	if err != nil {
		return err
	}
	if tournament == nil {
		h.logUnknownEntity(ctx, "tournament", tournamentID)
		return nil
	}

	adjustments, err := h.repo.RatingAdjustments(ctx, tournament.ID)
	if err != nil {
		return err
	}

	result, err := h.processor.ProcessTournament(ctx, tournament, adjustments, override)
	if err != nil {
		return err
	}
	if err := h.repo.SaveTournament(ctx, tournament); err != nil {
		return err
	}

	for _, osuMatchID := range result.PendingMatchFetches {
		if err := h.publish(ctx, msg, events.FetchMatchTopic, events.FetchMatchPayload{
			OsuMatchID: osuMatchID,
			Priority:   events.PriorityNormal,
		}); err != nil {
			return err
		}
	}

	if tournament.ProcessingStatus == domain.ProcessingStatusDone {
		action := "rejected"
		if tournament.VerificationStatus == domain.VerificationStatusVerified {
			action = "verified"
		}
		return h.publish(ctx, msg, events.TournamentProcessedTopic, events.TournamentProcessedPayload{
			TournamentID: tournament.ID,
			Action:       action,
			ProcessedAt:  time.Now().UTC(),
		})
	}
	return nil
}

func (h *PipelineHandlers) logUnknownEntity(ctx context.Context, entityType string, id int64) {
	h.logger.WarnContext(ctx, "message references unknown entity",
		attr.ExtractCorrelationID(ctx),
		attr.String("entity_type", entityType),
		attr.Int64("id", id),
	)
}

func findMatch(tournament *domain.Tournament, matchID int64) *domain.Match {
	for _, m := range tournament.Matches {
		if m.ID == matchID {
			return m
		}
	}
	return nil
}

func findGame(tournament *domain.Tournament, gameID int64) (*domain.Game, *domain.Match) {
	for _, m := range tournament.Matches {
		for _, g := range m.Games {
			if g.ID == gameID {
				return g, m
			}
		}
	}
	return nil, nil
}

func findScore(tournament *domain.Tournament, scoreID int64) *domain.GameScore {
	for _, m := range tournament.Matches {
		for _, g := range m.Games {
			for _, s := range g.Scores {
				if s.ID == scoreID {
					return s
				}
			}
		}
	}
	return nil
}
