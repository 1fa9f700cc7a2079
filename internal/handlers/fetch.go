package handlers

import (
	"context"
	"errors"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/osu-tournament-rating/otr-api-sub005/internal/domain"
	"github.com/osu-tournament-rating/otr-api-sub005/internal/events"
	"github.com/osu-tournament-rating/otr-api-sub005/internal/observability/attr"
	"github.com/osu-tournament-rating/otr-api-sub005/internal/osu"
)

// HandleFetchMatch pulls one multiplayer match from upstream and fills the
// owning tournament's graph in. A not-found outcome is terminal for the match:
// it is flagged as having no data so the drivers can reject it instead of
// waiting forever.
func (h *PipelineHandlers) HandleFetchMatch() message.NoPublishHandlerFunc {
	return h.wrap("HandleFetchMatch", func() any { return &events.FetchMatchPayload{} },
		func(ctx context.Context, msg *message.Message, payload any) error {
			p := payload.(*events.FetchMatchPayload)

			data, err := h.fetcher.FetchMatch(ctx, p.OsuMatchID)
			if errors.Is(err, osu.ErrFetchSkipped) {
				return nil
			}
			if err != nil {
				return err
			}

			tournament, err := h.repo.TournamentByMatchOsuID(ctx, p.OsuMatchID)
			if err != nil {
				return err
			}
			if tournament == nil {
				h.logger.WarnContext(ctx, "fetched match belongs to no known tournament",
					attr.ExtractCorrelationID(ctx),
					attr.Int64("osu_match_id", p.OsuMatchID),
				)
				return nil
			}
			match := findMatchByOsuID(tournament, p.OsuMatchID)
			if match == nil {
				return nil
			}

			if data == nil {
				h.metrics.RecordFetchNotFound(ctx, "osu")
				match.RejectionReason |= domain.MatchRejectionReasonNoData
				if !match.VerificationStatus.IsResolved() {
					match.VerificationStatus = domain.VerificationStatusPreRejected
				}
			} else {
				applyMatchData(match, data)
				for _, beatmapOsuID := range newBeatmapIDs(data) {
					if err := h.publish(ctx, msg, events.FetchBeatmapTopic, events.FetchBeatmapPayload{
						BeatmapOsuID: beatmapOsuID,
						Priority:     events.PriorityLow,
					}); err != nil {
						return err
					}
				}
				for _, playerOsuID := range newPlayerIDs(data) {
					if err := h.publish(ctx, msg, events.FetchPlayerTopic, events.FetchPlayerPayload{
						PlayerOsuID: playerOsuID,
						Priority:    events.PriorityLow,
					}); err != nil {
						return err
					}
				}
			}

			if err := h.repo.SaveTournament(ctx, tournament); err != nil {
				return err
			}
			return h.publish(ctx, msg, events.CheckTournamentTopic, events.CheckTournamentPayload{
				TournamentID: tournament.ID,
			})
		})
}

// HandleFetchBeatmap pulls one beatmap from upstream into the local store.
// Not-found beatmaps are simply dropped; the game checks work off the
// tournament's pool, not the store.
func (h *PipelineHandlers) HandleFetchBeatmap() message.NoPublishHandlerFunc {
	return h.wrap("HandleFetchBeatmap", func() any { return &events.FetchBeatmapPayload{} },
		func(ctx context.Context, _ *message.Message, payload any) error {
			p := payload.(*events.FetchBeatmapPayload)

			data, err := h.fetcher.FetchBeatmap(ctx, p.BeatmapOsuID)
			if errors.Is(err, osu.ErrFetchSkipped) {
				return nil
			}
			if err != nil {
				return err
			}
			if data == nil {
				h.metrics.RecordFetchNotFound(ctx, "osu")
				h.logger.InfoContext(ctx, "beatmap not found upstream",
					attr.ExtractCorrelationID(ctx),
					attr.Int64("beatmap_osu_id", p.BeatmapOsuID),
				)
				return nil
			}
			return h.repo.UpsertBeatmap(ctx, data)
		})
}

// HandleFetchPlayer pulls one player profile from upstream into the local store
// and schedules their rank-history fetch.
func (h *PipelineHandlers) HandleFetchPlayer() message.NoPublishHandlerFunc {
	return h.wrap("HandleFetchPlayer", func() any { return &events.FetchPlayerPayload{} },
		func(ctx context.Context, msg *message.Message, payload any) error {
			p := payload.(*events.FetchPlayerPayload)

			data, err := h.fetcher.FetchPlayer(ctx, p.PlayerOsuID)
			if errors.Is(err, osu.ErrFetchSkipped) {
				return nil
			}
			if err != nil {
				return err
			}
			if data == nil {
				h.metrics.RecordFetchNotFound(ctx, "osu")
				h.logger.InfoContext(ctx, "player not found upstream",
					attr.ExtractCorrelationID(ctx),
					attr.Int64("player_osu_id", p.PlayerOsuID),
				)
				return nil
			}
			if err := h.repo.UpsertPlayer(ctx, data); err != nil {
				return err
			}
			return h.publish(ctx, msg, events.FetchPlayerTrackHistoryTopic, events.FetchPlayerTrackHistoryPayload{
				PlayerOsuID: p.PlayerOsuID,
				Priority:    p.Priority,
			})
		})
}

// HandleFetchPlayerTrackHistory replaces a player's stored rank history with
// the upstream one.
func (h *PipelineHandlers) HandleFetchPlayerTrackHistory() message.NoPublishHandlerFunc {
	return h.wrap("HandleFetchPlayerTrackHistory", func() any { return &events.FetchPlayerTrackHistoryPayload{} },
		func(ctx context.Context, _ *message.Message, payload any) error {
			p := payload.(*events.FetchPlayerTrackHistoryPayload)

			entries, err := h.fetcher.FetchPlayerTrackHistory(ctx, p.PlayerOsuID)
			if errors.Is(err, osu.ErrFetchSkipped) {
				return nil
			}
			if err != nil {
				return err
			}
			if entries == nil {
				h.metrics.RecordFetchNotFound(ctx, "osu")
				return nil
			}
			return h.repo.ReplacePlayerRankHistory(ctx, p.PlayerOsuID, entries)
		})
}

// applyMatchData copies the upstream match shape onto the stored match. Games
// and scores are fresh entities entering the pipeline at the start.
func applyMatchData(match *domain.Match, data *osu.MatchData) {
	match.Name = data.Name
	match.StartTime = data.StartTime
	match.EndTime = data.EndTime

	match.Games = make([]*domain.Game, 0, len(data.Games))
	for _, gd := range data.Games {
		game := &domain.Game{
			OsuID:        gd.OsuID,
			MatchID:      match.ID,
			Ruleset:      domain.Ruleset(gd.Ruleset),
			ScoringType:  domain.ScoringType(gd.ScoringType),
			TeamType:     domain.TeamType(gd.TeamType),
			Mods:         domain.Mods(gd.Mods),
			BeatmapOsuID: gd.BeatmapOsuID,
			StartTime:    gd.StartTime,
			EndTime:      gd.EndTime,
		}
		for _, sd := range gd.Scores {
			game.Scores = append(game.Scores, &domain.GameScore{
				PlayerOsuID: sd.PlayerOsuID,
				Team:        domain.Team(sd.Team),
				Score:       sd.Score,
				MaxCombo:    sd.MaxCombo,
				Mods:        domain.Mods(sd.Mods),
				Ruleset:     game.Ruleset,
				Passed:      sd.Passed,
				Judgements: domain.Judgements{
					Count300:  sd.Count300,
					Count100:  sd.Count100,
					Count50:   sd.Count50,
					CountMiss: sd.CountMiss,
					CountGeki: sd.CountGeki,
					CountKatu: sd.CountKatu,
				},
			})
		}
		match.Games = append(match.Games, game)
	}
}

func newBeatmapIDs(data *osu.MatchData) []int64 {
	seen := make(map[int64]struct{})
	var ids []int64
	for _, g := range data.Games {
		if g.BeatmapOsuID == 0 {
			continue
		}
		if _, ok := seen[g.BeatmapOsuID]; ok {
			continue
		}
		seen[g.BeatmapOsuID] = struct{}{}
		ids = append(ids, g.BeatmapOsuID)
	}
	return ids
}

func newPlayerIDs(data *osu.MatchData) []int64 {
	seen := make(map[int64]struct{})
	var ids []int64
	for _, g := range data.Games {
		for _, s := range g.Scores {
			if _, ok := seen[s.PlayerOsuID]; ok {
				continue
			}
			seen[s.PlayerOsuID] = struct{}{}
			ids = append(ids, s.PlayerOsuID)
		}
	}
	return ids
}

func findMatchByOsuID(tournament *domain.Tournament, osuMatchID int64) *domain.Match {
	for _, m := range tournament.Matches {
		if m.OsuID == osuMatchID {
			return m
		}
	}
	return nil
}
