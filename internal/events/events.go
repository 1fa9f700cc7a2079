// Package events defines the inbound message topics and payloads of the
// pipeline. Every payload travels as JSON with a watermill correlation id in
// the message metadata.
package events

import "time"

// Topics, one consumer each.
const (
	FetchBeatmapTopic            = "fetch.beatmap"
	FetchMatchTopic              = "fetch.match"
	FetchPlayerTopic             = "fetch.player"
	FetchPlayerTrackHistoryTopic = "fetch.player.trackhistory"

	CheckScoreTopic      = "check.score"
	CheckGameTopic       = "check.game"
	CheckMatchTopic      = "check.match"
	CheckTournamentTopic = "check.tournament"

	TournamentStatsTopic     = "stats.tournament"
	TournamentProcessedTopic = "tournament.processed"
)

// MessagePriority is a routing hint for fetch messages.
type MessagePriority int

const (
	PriorityLow MessagePriority = iota
	PriorityNormal
	PriorityHigh
)

type FetchBeatmapPayload struct {
	BeatmapOsuID int64           `json:"beatmap_osu_id"`
	Priority     MessagePriority `json:"priority"`
}

type FetchMatchPayload struct {
	OsuMatchID int64           `json:"osu_match_id"`
	Priority   MessagePriority `json:"priority"`
}

type FetchPlayerPayload struct {
	PlayerOsuID int64           `json:"player_osu_id"`
	Priority    MessagePriority `json:"priority"`
}

type FetchPlayerTrackHistoryPayload struct {
	PlayerOsuID int64           `json:"player_osu_id"`
	Priority    MessagePriority `json:"priority"`
}

type CheckScorePayload struct {
	ScoreID int64 `json:"score_id"`
}

type CheckGamePayload struct {
	GameID                int64 `json:"game_id"`
	OverrideVerifiedState bool  `json:"override_verified_state,omitempty"`
}

type CheckMatchPayload struct {
	MatchID int64 `json:"match_id"`
}

type CheckTournamentPayload struct {
	TournamentID          int64 `json:"tournament_id"`
	OverrideVerifiedState bool  `json:"override_verified_state,omitempty"`
}

type TournamentStatsPayload struct {
	TournamentID int64 `json:"tournament_id"`
}

type TournamentProcessedPayload struct {
	TournamentID int64     `json:"tournament_id"`
	Action       string    `json:"action"`
	ProcessedAt  time.Time `json:"processed_at"`
}
