package migrations

import (
	"context"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		_, err := db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS tournaments (
	id BIGSERIAL PRIMARY KEY,
	name TEXT NOT NULL,
	abbreviation TEXT NOT NULL,
	ruleset INT NOT NULL,
	lobby_size INT NOT NULL,
	rank_range_lower_bound INT,
	pooled_beatmaps BIGINT[],
	verification_status INT NOT NULL DEFAULT 0,
	rejection_reason BIGINT NOT NULL DEFAULT 0,
	processing_status INT NOT NULL DEFAULT 0,
	player_stats JSONB
);

CREATE TABLE IF NOT EXISTS matches (
	id BIGSERIAL PRIMARY KEY,
	osu_id BIGINT NOT NULL,
	tournament_id BIGINT NOT NULL REFERENCES tournaments (id) ON DELETE CASCADE,
	name TEXT,
	start_time TIMESTAMPTZ,
	end_time TIMESTAMPTZ,
	verification_status INT NOT NULL DEFAULT 0,
	rejection_reason BIGINT NOT NULL DEFAULT 0,
	warning_flags BIGINT NOT NULL DEFAULT 0,
	processing_status INT NOT NULL DEFAULT 0,
	rosters JSONB,
	player_stats JSONB,
	win_record JSONB
);
CREATE INDEX IF NOT EXISTS matches_tournament_id_idx ON matches (tournament_id);
CREATE UNIQUE INDEX IF NOT EXISTS matches_osu_id_idx ON matches (osu_id);

CREATE TABLE IF NOT EXISTS games (
	id BIGSERIAL PRIMARY KEY,
	osu_id BIGINT NOT NULL,
	match_id BIGINT NOT NULL REFERENCES matches (id) ON DELETE CASCADE,
	ruleset INT NOT NULL,
	scoring_type INT NOT NULL,
	team_type INT NOT NULL,
	mods BIGINT NOT NULL DEFAULT 0,
	beatmap_osu_id BIGINT,
	start_time TIMESTAMPTZ,
	end_time TIMESTAMPTZ,
	verification_status INT NOT NULL DEFAULT 0,
	rejection_reason BIGINT NOT NULL DEFAULT 0,
	warning_flags BIGINT NOT NULL DEFAULT 0,
	processing_status INT NOT NULL DEFAULT 0,
	rosters JSONB,
	win_record JSONB
);
CREATE INDEX IF NOT EXISTS games_match_id_idx ON games (match_id);

CREATE TABLE IF NOT EXISTS game_scores (
	id BIGSERIAL PRIMARY KEY,
	game_id BIGINT NOT NULL REFERENCES games (id) ON DELETE CASCADE,
	player_osu_id BIGINT NOT NULL,
	team INT NOT NULL DEFAULT 0,
	score BIGINT NOT NULL DEFAULT 0,
	max_combo INT,
	mods BIGINT NOT NULL DEFAULT 0,
	ruleset INT NOT NULL,
	passed BOOLEAN NOT NULL DEFAULT TRUE,
	placement INT,
	count_300 INT,
	count_100 INT,
	count_50 INT,
	count_miss INT,
	count_geki INT,
	count_katu INT,
	verification_status INT NOT NULL DEFAULT 0,
	rejection_reason BIGINT NOT NULL DEFAULT 0,
	processing_status INT NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS game_scores_game_id_idx ON game_scores (game_id);

CREATE TABLE IF NOT EXISTS players (
	osu_id BIGINT PRIMARY KEY,
	username TEXT,
	country_code TEXT
);

CREATE TABLE IF NOT EXISTS beatmaps (
	osu_id BIGINT PRIMARY KEY,
	beatmapset_osu_id BIGINT,
	star_rating DOUBLE PRECISION,
	total_length INT,
	ranked_status INT,
	diff_name TEXT
);

CREATE TABLE IF NOT EXISTS player_rank_history (
	id BIGSERIAL PRIMARY KEY,
	player_osu_id BIGINT NOT NULL,
	rank INT NOT NULL,
	timestamp TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS player_rank_history_player_idx ON player_rank_history (player_osu_id);

CREATE TABLE IF NOT EXISTS rating_adjustments (
	id BIGSERIAL PRIMARY KEY,
	player_osu_id BIGINT NOT NULL,
	match_id BIGINT NOT NULL REFERENCES matches (id) ON DELETE CASCADE,
	rating_delta DOUBLE PRECISION NOT NULL
);
CREATE INDEX IF NOT EXISTS rating_adjustments_match_idx ON rating_adjustments (match_id);
`)
		return err
	}, func(ctx context.Context, db *bun.DB) error {
		_, err := db.ExecContext(ctx, `
DROP TABLE IF EXISTS rating_adjustments;
DROP TABLE IF EXISTS player_rank_history;
DROP TABLE IF EXISTS beatmaps;
DROP TABLE IF EXISTS players;
DROP TABLE IF EXISTS game_scores;
DROP TABLE IF EXISTS games;
DROP TABLE IF EXISTS matches;
DROP TABLE IF EXISTS tournaments;
`)
		return err
	})
}
