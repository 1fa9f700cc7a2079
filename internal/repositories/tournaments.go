package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/osu-tournament-rating/otr-api-sub005/internal/domain"
	"github.com/osu-tournament-rating/otr-api-sub005/internal/osu"
)

// BunRepository implements Repository on Postgres via bun.
type BunRepository struct {
	DB *bun.DB
}

func NewBunRepository(db *bun.DB) *BunRepository {
	return &BunRepository{DB: db}
}

func (r *BunRepository) TournamentByID(ctx context.Context, id int64) (*domain.Tournament, error) {
	var model tournamentModel
	err := r.DB.NewSelect().
		Model(&model).
		Relation("Matches").
		Relation("Matches.Games").
		Relation("Matches.Games.Scores").
		Where("t.id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load tournament %d: %w", id, err)
	}
	return model.toDomain(), nil
}

func (r *BunRepository) TournamentByMatchID(ctx context.Context, matchID int64) (*domain.Tournament, error) {
	return r.tournamentIDFromQuery(ctx,
		r.DB.NewSelect().Model((*matchModel)(nil)).Column("tournament_id").Where("m.id = ?", matchID))
}

func (r *BunRepository) TournamentByGameID(ctx context.Context, gameID int64) (*domain.Tournament, error) {
	return r.tournamentIDFromQuery(ctx,
		r.DB.NewSelect().Model((*matchModel)(nil)).Column("tournament_id").
			Join("JOIN games AS g ON g.match_id = m.id").
			Where("g.id = ?", gameID))
}

func (r *BunRepository) TournamentByScoreID(ctx context.Context, scoreID int64) (*domain.Tournament, error) {
	return r.tournamentIDFromQuery(ctx,
		r.DB.NewSelect().Model((*matchModel)(nil)).Column("tournament_id").
			Join("JOIN games AS g ON g.match_id = m.id").
			Join("JOIN game_scores AS s ON s.game_id = g.id").
			Where("s.id = ?", scoreID))
}

func (r *BunRepository) TournamentByMatchOsuID(ctx context.Context, osuMatchID int64) (*domain.Tournament, error) {
	return r.tournamentIDFromQuery(ctx,
		r.DB.NewSelect().Model((*matchModel)(nil)).Column("tournament_id").Where("m.osu_id = ?", osuMatchID))
}

func (r *BunRepository) tournamentIDFromQuery(ctx context.Context, query *bun.SelectQuery) (*domain.Tournament, error) {
	var tournamentID int64
	if err := query.Scan(ctx, &tournamentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to resolve owning tournament: %w", err)
	}
	return r.TournamentByID(ctx, tournamentID)
}

func (r *BunRepository) RatingAdjustments(ctx context.Context, tournamentID int64) ([]domain.RatingAdjustment, error) {
	var models []ratingAdjustmentModel
	err := r.DB.NewSelect().
		Model(&models).
		Join("JOIN matches AS m ON m.id = ra.match_id").
		Where("m.tournament_id = ?", tournamentID).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load rating adjustments for tournament %d: %w", tournamentID, err)
	}
	out := make([]domain.RatingAdjustment, 0, len(models))
	for _, m := range models {
		out = append(out, domain.RatingAdjustment{
			PlayerOsuID: m.PlayerOsuID,
			MatchID:     m.MatchID,
			RatingDelta: m.RatingDelta,
		})
	}
	return out, nil
}

// SaveTournament persists the whole graph in one transaction. New entities
// (zero id) are inserted with their generated ids written back onto the
// domain objects; existing rows are updated in place.
func (r *BunRepository) SaveTournament(ctx context.Context, t *domain.Tournament) error {
	return r.DB.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		tm := tournamentFromDomain(t)
		if err := upsertRow(ctx, tx, tm, tm.ID == 0); err != nil {
			return fmt.Errorf("failed to save tournament %d: %w", t.ID, err)
		}
		t.ID = tm.ID

		for _, m := range t.Matches {
			m.TournamentID = t.ID
			mm := matchFromDomain(m)
			if err := upsertRow(ctx, tx, mm, mm.ID == 0); err != nil {
				return fmt.Errorf("failed to save match %d: %w", m.ID, err)
			}
			m.ID = mm.ID

			for _, g := range m.Games {
				g.MatchID = m.ID
				gm := gameFromDomain(g)
				if err := upsertRow(ctx, tx, gm, gm.ID == 0); err != nil {
					return fmt.Errorf("failed to save game %d: %w", g.ID, err)
				}
				g.ID = gm.ID

				for _, s := range g.Scores {
					s.GameID = g.ID
					sm := scoreFromDomain(s)
					if err := upsertRow(ctx, tx, sm, sm.ID == 0); err != nil {
						return fmt.Errorf("failed to save score %d: %w", s.ID, err)
					}
					s.ID = sm.ID
				}
			}
		}
		return nil
	})
}

func upsertRow(ctx context.Context, tx bun.Tx, model any, isNew bool) error {
	if isNew {
		_, err := tx.NewInsert().Model(model).Exec(ctx)
		return err
	}
	_, err := tx.NewUpdate().Model(model).WherePK().Exec(ctx)
	return err
}

func (r *BunRepository) UpsertPlayer(ctx context.Context, player *osu.PlayerData) error {
	model := &playerModel{
		OsuID:       player.OsuID,
		Username:    player.Username,
		CountryCode: player.CountryCode,
	}
	_, err := r.DB.NewInsert().
		Model(model).
		On("CONFLICT (osu_id) DO UPDATE").
		Set("username = EXCLUDED.username, country_code = EXCLUDED.country_code").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to upsert player %d: %w", player.OsuID, err)
	}
	return nil
}

func (r *BunRepository) UpsertBeatmap(ctx context.Context, beatmap *osu.BeatmapData) error {
	model := &beatmapModel{
		OsuID:           beatmap.OsuID,
		BeatmapsetOsuID: beatmap.BeatmapsetOsuID,
		StarRating:      beatmap.StarRating,
		TotalLength:     beatmap.TotalLength,
		RankedStatus:    beatmap.RankedStatus,
		DiffName:        beatmap.DiffName,
	}
	_, err := r.DB.NewInsert().
		Model(model).
		On("CONFLICT (osu_id) DO UPDATE").
		Set("beatmapset_osu_id = EXCLUDED.beatmapset_osu_id, star_rating = EXCLUDED.star_rating, total_length = EXCLUDED.total_length, ranked_status = EXCLUDED.ranked_status, diff_name = EXCLUDED.diff_name").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to upsert beatmap %d: %w", beatmap.OsuID, err)
	}
	return nil
}

func (r *BunRepository) ReplacePlayerRankHistory(ctx context.Context, playerOsuID int64, entries []osu.TrackHistoryEntry) error {
	return r.DB.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().
			Model((*playerRankHistoryModel)(nil)).
			Where("player_osu_id = ?", playerOsuID).
			Exec(ctx); err != nil {
			return fmt.Errorf("failed to clear rank history for player %d: %w", playerOsuID, err)
		}
		if len(entries) == 0 {
			return nil
		}
		models := make([]playerRankHistoryModel, 0, len(entries))
		for _, e := range entries {
			models = append(models, playerRankHistoryModel{
				PlayerOsuID: playerOsuID,
				Rank:        e.Rank,
				Timestamp:   e.Timestamp,
			})
		}
		if _, err := tx.NewInsert().Model(&models).Exec(ctx); err != nil {
			return fmt.Errorf("failed to insert rank history for player %d: %w", playerOsuID, err)
		}
		return nil
	})
}
