package repositories

import (
	"time"

	"github.com/uptrace/bun"

	"github.com/osu-tournament-rating/otr-api-sub005/internal/domain"
)

// Row models. Derived collections (rosters, stats, win records) live in jsonb
// columns since they are regenerated wholesale and never queried relationally.

type tournamentModel struct {
	bun.BaseModel `bun:"table:tournaments,alias:t"`

	ID                  int64   `bun:"id,pk,autoincrement"`
	Name                string  `bun:"name,notnull"`
	Abbreviation        string  `bun:"abbreviation,notnull"`
	Ruleset             int     `bun:"ruleset,notnull"`
	LobbySize           int     `bun:"lobby_size,notnull"`
	RankRangeLowerBound int     `bun:"rank_range_lower_bound"`
	PooledBeatmaps      []int64 `bun:"pooled_beatmaps,array"`

	VerificationStatus int    `bun:"verification_status,notnull"`
	RejectionReason    uint32 `bun:"rejection_reason,notnull"`
	ProcessingStatus   int    `bun:"processing_status,notnull"`

	PlayerStats []*domain.PlayerTournamentStats `bun:"player_stats,type:jsonb,nullzero"`

	Matches []*matchModel `bun:"rel:has-many,join:id=tournament_id"`
}

type matchModel struct {
	bun.BaseModel `bun:"table:matches,alias:m"`

	ID           int64     `bun:"id,pk,autoincrement"`
	OsuID        int64     `bun:"osu_id,notnull"`
	TournamentID int64     `bun:"tournament_id,notnull"`
	Name         string    `bun:"name"`
	StartTime    time.Time `bun:"start_time,nullzero"`
	EndTime      time.Time `bun:"end_time,nullzero"`

	VerificationStatus int    `bun:"verification_status,notnull"`
	RejectionReason    uint32 `bun:"rejection_reason,notnull"`
	WarningFlags       uint32 `bun:"warning_flags,notnull"`
	ProcessingStatus   int    `bun:"processing_status,notnull"`

	Rosters     []*domain.MatchRoster      `bun:"rosters,type:jsonb,nullzero"`
	PlayerStats []*domain.PlayerMatchStats `bun:"player_stats,type:jsonb,nullzero"`
	WinRecord   *domain.WinRecord          `bun:"win_record,type:jsonb,nullzero"`

	Games []*gameModel `bun:"rel:has-many,join:id=match_id"`
}

type gameModel struct {
	bun.BaseModel `bun:"table:games,alias:g"`

	ID           int64     `bun:"id,pk,autoincrement"`
	OsuID        int64     `bun:"osu_id,notnull"`
	MatchID      int64     `bun:"match_id,notnull"`
	Ruleset      int       `bun:"ruleset,notnull"`
	ScoringType  int       `bun:"scoring_type,notnull"`
	TeamType     int       `bun:"team_type,notnull"`
	Mods         uint32    `bun:"mods,notnull"`
	BeatmapOsuID int64     `bun:"beatmap_osu_id"`
	StartTime    time.Time `bun:"start_time,nullzero"`
	EndTime      time.Time `bun:"end_time,nullzero"`

	VerificationStatus int    `bun:"verification_status,notnull"`
	RejectionReason    uint32 `bun:"rejection_reason,notnull"`
	WarningFlags       uint32 `bun:"warning_flags,notnull"`
	ProcessingStatus   int    `bun:"processing_status,notnull"`

	Rosters   []*domain.GameRoster `bun:"rosters,type:jsonb,nullzero"`
	WinRecord *domain.WinRecord    `bun:"win_record,type:jsonb,nullzero"`

	Scores []*scoreModel `bun:"rel:has-many,join:id=game_id"`
}

type scoreModel struct {
	bun.BaseModel `bun:"table:game_scores,alias:s"`

	ID          int64 `bun:"id,pk,autoincrement"`
	GameID      int64 `bun:"game_id,notnull"`
	PlayerOsuID int64 `bun:"player_osu_id,notnull"`

	Team      int    `bun:"team,notnull"`
	Score     int64  `bun:"score,notnull"`
	MaxCombo  int    `bun:"max_combo"`
	Mods      uint32 `bun:"mods,notnull"`
	Ruleset   int    `bun:"ruleset,notnull"`
	Passed    bool   `bun:"passed,notnull"`
	Placement int    `bun:"placement"`

	Count300  int `bun:"count_300"`
	Count100  int `bun:"count_100"`
	Count50   int `bun:"count_50"`
	CountMiss int `bun:"count_miss"`
	CountGeki int `bun:"count_geki"`
	CountKatu int `bun:"count_katu"`

	VerificationStatus int    `bun:"verification_status,notnull"`
	RejectionReason    uint32 `bun:"rejection_reason,notnull"`
	ProcessingStatus   int    `bun:"processing_status,notnull"`
}

type playerModel struct {
	bun.BaseModel `bun:"table:players,alias:p"`

	OsuID       int64  `bun:"osu_id,pk"`
	Username    string `bun:"username"`
	CountryCode string `bun:"country_code"`
}

type beatmapModel struct {
	bun.BaseModel `bun:"table:beatmaps,alias:b"`

	OsuID           int64   `bun:"osu_id,pk"`
	BeatmapsetOsuID int64   `bun:"beatmapset_osu_id"`
	StarRating      float64 `bun:"star_rating"`
	TotalLength     int     `bun:"total_length"`
	RankedStatus    int     `bun:"ranked_status"`
	DiffName        string  `bun:"diff_name"`
}

type playerRankHistoryModel struct {
	bun.BaseModel `bun:"table:player_rank_history,alias:prh"`

	ID          int64     `bun:"id,pk,autoincrement"`
	PlayerOsuID int64     `bun:"player_osu_id,notnull"`
	Rank        int       `bun:"rank,notnull"`
	Timestamp   time.Time `bun:"timestamp,notnull"`
}

type ratingAdjustmentModel struct {
	bun.BaseModel `bun:"table:rating_adjustments,alias:ra"`

	ID          int64   `bun:"id,pk,autoincrement"`
	PlayerOsuID int64   `bun:"player_osu_id,notnull"`
	MatchID     int64   `bun:"match_id,notnull"`
	RatingDelta float64 `bun:"rating_delta,notnull"`
}

func (m *tournamentModel) toDomain() *domain.Tournament {
	t := &domain.Tournament{
		ID:                    m.ID,
		Name:                  m.Name,
		Abbreviation:          m.Abbreviation,
		Ruleset:               domain.Ruleset(m.Ruleset),
		LobbySize:             m.LobbySize,
		RankRangeLowerBound:   m.RankRangeLowerBound,
		PooledBeatmaps:        m.PooledBeatmaps,
		VerificationStatus:    domain.VerificationStatus(m.VerificationStatus),
		RejectionReason:       domain.TournamentRejectionReason(m.RejectionReason),
		ProcessingStatus:      domain.ProcessingStatus(m.ProcessingStatus),
		PlayerTournamentStats: m.PlayerStats,
	}
	for _, mm := range m.Matches {
		t.Matches = append(t.Matches, mm.toDomain())
	}
	return t
}

func (m *matchModel) toDomain() *domain.Match {
	match := &domain.Match{
		ID:                 m.ID,
		OsuID:              m.OsuID,
		TournamentID:       m.TournamentID,
		Name:               m.Name,
		StartTime:          m.StartTime,
		EndTime:            m.EndTime,
		Rosters:            m.Rosters,
		PlayerMatchStats:   m.PlayerStats,
		WinRecord:          m.WinRecord,
		VerificationStatus: domain.VerificationStatus(m.VerificationStatus),
		RejectionReason:    domain.MatchRejectionReason(m.RejectionReason),
		WarningFlags:       domain.MatchWarningFlags(m.WarningFlags),
		ProcessingStatus:   domain.ProcessingStatus(m.ProcessingStatus),
	}
	for _, g := range m.Games {
		match.Games = append(match.Games, g.toDomain())
	}
	return match
}

func (m *gameModel) toDomain() *domain.Game {
	g := &domain.Game{
		ID:                 m.ID,
		OsuID:              m.OsuID,
		MatchID:            m.MatchID,
		Ruleset:            domain.Ruleset(m.Ruleset),
		ScoringType:        domain.ScoringType(m.ScoringType),
		TeamType:           domain.TeamType(m.TeamType),
		Mods:               domain.Mods(m.Mods),
		BeatmapOsuID:       m.BeatmapOsuID,
		StartTime:          m.StartTime,
		EndTime:            m.EndTime,
		Rosters:            m.Rosters,
		WinRecord:          m.WinRecord,
		VerificationStatus: domain.VerificationStatus(m.VerificationStatus),
		RejectionReason:    domain.GameRejectionReason(m.RejectionReason),
		WarningFlags:       domain.GameWarningFlags(m.WarningFlags),
		ProcessingStatus:   domain.ProcessingStatus(m.ProcessingStatus),
	}
	for _, s := range m.Scores {
		g.Scores = append(g.Scores, s.toDomain())
	}
	return g
}

func (m *scoreModel) toDomain() *domain.GameScore {
	return &domain.GameScore{
		ID:          m.ID,
		GameID:      m.GameID,
		PlayerOsuID: m.PlayerOsuID,
		Team:        domain.Team(m.Team),
		Score:       m.Score,
		MaxCombo:    m.MaxCombo,
		Mods:        domain.Mods(m.Mods),
		Ruleset:     domain.Ruleset(m.Ruleset),
		Passed:      m.Passed,
		Placement:   m.Placement,
		Judgements: domain.Judgements{
			Count300:  m.Count300,
			Count100:  m.Count100,
			Count50:   m.Count50,
			CountMiss: m.CountMiss,
			CountGeki: m.CountGeki,
			CountKatu: m.CountKatu,
		},
		VerificationStatus: domain.VerificationStatus(m.VerificationStatus),
		RejectionReason:    domain.ScoreRejectionReason(m.RejectionReason),
		ProcessingStatus:   domain.ProcessingStatus(m.ProcessingStatus),
	}
}

func tournamentFromDomain(t *domain.Tournament) *tournamentModel {
	return &tournamentModel{
		ID:                  t.ID,
		Name:                t.Name,
		Abbreviation:        t.Abbreviation,
		Ruleset:             int(t.Ruleset),
		LobbySize:           t.LobbySize,
		RankRangeLowerBound: t.RankRangeLowerBound,
		PooledBeatmaps:      t.PooledBeatmaps,
		VerificationStatus:  int(t.VerificationStatus),
		RejectionReason:     uint32(t.RejectionReason),
		ProcessingStatus:    int(t.ProcessingStatus),
		PlayerStats:         t.PlayerTournamentStats,
	}
}

func matchFromDomain(m *domain.Match) *matchModel {
	return &matchModel{
		ID:                 m.ID,
		OsuID:              m.OsuID,
		TournamentID:       m.TournamentID,
		Name:               m.Name,
		StartTime:          m.StartTime,
		EndTime:            m.EndTime,
		Rosters:            m.Rosters,
		PlayerStats:        m.PlayerMatchStats,
		WinRecord:          m.WinRecord,
		VerificationStatus: int(m.VerificationStatus),
		RejectionReason:    uint32(m.RejectionReason),
		WarningFlags:       uint32(m.WarningFlags),
		ProcessingStatus:   int(m.ProcessingStatus),
	}
}

func gameFromDomain(g *domain.Game) *gameModel {
	return &gameModel{
		ID:                 g.ID,
		OsuID:              g.OsuID,
		MatchID:            g.MatchID,
		Ruleset:            int(g.Ruleset),
		ScoringType:        int(g.ScoringType),
		TeamType:           int(g.TeamType),
		Mods:               uint32(g.Mods),
		BeatmapOsuID:       g.BeatmapOsuID,
		StartTime:          g.StartTime,
		EndTime:            g.EndTime,
		Rosters:            g.Rosters,
		WinRecord:          g.WinRecord,
		VerificationStatus: int(g.VerificationStatus),
		RejectionReason:    uint32(g.RejectionReason),
		WarningFlags:       uint32(g.WarningFlags),
		ProcessingStatus:   int(g.ProcessingStatus),
	}
}

func scoreFromDomain(s *domain.GameScore) *scoreModel {
	return &scoreModel{
		ID:                 s.ID,
		GameID:             s.GameID,
		PlayerOsuID:        s.PlayerOsuID,
		Team:               int(s.Team),
		Score:              s.Score,
		MaxCombo:           s.MaxCombo,
		Mods:               uint32(s.Mods),
		Ruleset:            int(s.Ruleset),
		Passed:             s.Passed,
		Placement:          s.Placement,
		Count300:           s.Judgements.Count300,
		Count100:           s.Judgements.Count100,
		Count50:            s.Judgements.Count50,
		CountMiss:          s.Judgements.CountMiss,
		CountGeki:          s.Judgements.CountGeki,
		CountKatu:          s.Judgements.CountKatu,
		VerificationStatus: int(s.VerificationStatus),
		RejectionReason:    uint32(s.RejectionReason),
		ProcessingStatus:   int(s.ProcessingStatus),
	}
}
