package repositories

import (
	"context"

	"github.com/osu-tournament-rating/otr-api-sub005/internal/domain"
	"github.com/osu-tournament-rating/otr-api-sub005/internal/osu"
)

//go:generate mockgen -source=interface.go -destination=mocks/repository_mock.go -package=mocks

// Repository loads and persists the pipeline's entity graphs. Loads return the
// full owning tournament graph so drivers can cascade; a nil tournament with a
// nil error means the entity does not exist. SaveTournament is the single
// batched persist at the end of one message's unit of work.
type Repository interface {
	TournamentByID(ctx context.Context, id int64) (*domain.Tournament, error)
	TournamentByMatchID(ctx context.Context, matchID int64) (*domain.Tournament, error)
	TournamentByGameID(ctx context.Context, gameID int64) (*domain.Tournament, error)
	TournamentByScoreID(ctx context.Context, scoreID int64) (*domain.Tournament, error)
	TournamentByMatchOsuID(ctx context.Context, osuMatchID int64) (*domain.Tournament, error)

	RatingAdjustments(ctx context.Context, tournamentID int64) ([]domain.RatingAdjustment, error)

	SaveTournament(ctx context.Context, tournament *domain.Tournament) error

	UpsertPlayer(ctx context.Context, player *osu.PlayerData) error
	UpsertBeatmap(ctx context.Context, beatmap *osu.BeatmapData) error
	ReplacePlayerRankHistory(ctx context.Context, playerOsuID int64, entries []osu.TrackHistoryEntry) error
}
