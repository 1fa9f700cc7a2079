// Package osu talks to the upstream osu! API: a raw client plus the fetch
// orchestration (rate limiting, distributed locking, deduplication) that keeps
// concurrent consumers inside the upstream's rate budget.
package osu

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2/clientcredentials"
)

// ErrRateLimited signals the upstream explicitly refused the request for rate
// reasons. The fetch service converts it into a limiter cooldown plus a
// not-found outcome for this pass.
var ErrRateLimited = errors.New("osu: upstream rate limit signalled")

// Client fetches domain objects from the upstream data source. A nil result
// with a nil error means not-found, which is a normal outcome; a non-nil error
// is a transport failure and should propagate for redelivery.
type Client interface {
	FetchMatch(ctx context.Context, osuMatchID int64) (*MatchData, error)
	FetchBeatmap(ctx context.Context, beatmapOsuID int64) (*BeatmapData, error)
	FetchPlayer(ctx context.Context, playerOsuID int64) (*PlayerData, error)
	FetchPlayerTrackHistory(ctx context.Context, playerOsuID int64) ([]TrackHistoryEntry, error)
}

// MatchData is the upstream shape of one multiplayer match.
type MatchData struct {
	OsuID     int64      `json:"id"`
	Name      string     `json:"name"`
	StartTime time.Time  `json:"start_time"`
	EndTime   time.Time  `json:"end_time"`
	Games     []GameData `json:"games"`
}

// GameData is the upstream shape of one played beatmap inside a match.
type GameData struct {
	OsuID        int64           `json:"id"`
	BeatmapOsuID int64           `json:"beatmap_id"`
	Ruleset      int             `json:"mode_int"`
	ScoringType  int             `json:"scoring_type"`
	TeamType     int             `json:"team_type"`
	Mods         uint32          `json:"mods"`
	StartTime    time.Time       `json:"start_time"`
	EndTime      time.Time       `json:"end_time"`
	Scores       []GameScoreData `json:"scores"`
}

// GameScoreData is the upstream shape of one player's score.
type GameScoreData struct {
	PlayerOsuID int64  `json:"user_id"`
	Team        int    `json:"team"`
	Score       int64  `json:"score"`
	MaxCombo    int    `json:"max_combo"`
	Mods        uint32 `json:"mods"`
	Passed      bool   `json:"passed"`
	Count300    int    `json:"count_300"`
	Count100    int    `json:"count_100"`
	Count50     int    `json:"count_50"`
	CountMiss   int    `json:"count_miss"`
	CountGeki   int    `json:"count_geki"`
	CountKatu   int    `json:"count_katu"`
}

// BeatmapData is the upstream shape of one beatmap.
type BeatmapData struct {
	OsuID           int64   `json:"id"`
	BeatmapsetOsuID int64   `json:"beatmapset_id"`
	StarRating      float64 `json:"difficulty_rating"`
	TotalLength     int     `json:"total_length"`
	RankedStatus    int     `json:"ranked"`
	DiffName        string  `json:"version"`
}

// PlayerData is the upstream shape of one user.
type PlayerData struct {
	OsuID       int64  `json:"id"`
	Username    string `json:"username"`
	CountryCode string `json:"country_code"`
}

// TrackHistoryEntry is one day of a player's rank history.
type TrackHistoryEntry struct {
	PlayerOsuID int64     `json:"player_osu_id"`
	Rank        int       `json:"rank"`
	Timestamp   time.Time `json:"timestamp"`
}

// HTTPClient implements Client against the osu! v2 API using the
// client-credentials grant.
type HTTPClient struct {
	baseURL string
	http    *http.Client
}

// NewHTTPClient sets up the oauth2 token source and API client.
func NewHTTPClient(ctx context.Context, baseURL, tokenURL, clientID, clientSecret string) *HTTPClient {
	cfg := clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     tokenURL,
		Scopes:       []string{"public"},
	}
	return &HTTPClient{
		baseURL: baseURL,
		http:    cfg.Client(ctx),
	}
}

func (c *HTTPClient) FetchMatch(ctx context.Context, osuMatchID int64) (*MatchData, error) {
	var out MatchData
	found, err := c.getJSON(ctx, fmt.Sprintf("%s/matches/%d", c.baseURL, osuMatchID), &out)
	if err != nil || !found {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) FetchBeatmap(ctx context.Context, beatmapOsuID int64) (*BeatmapData, error) {
	var out BeatmapData
	found, err := c.getJSON(ctx, fmt.Sprintf("%s/beatmaps/%d", c.baseURL, beatmapOsuID), &out)
	if err != nil || !found {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) FetchPlayer(ctx context.Context, playerOsuID int64) (*PlayerData, error) {
	var out PlayerData
	found, err := c.getJSON(ctx, fmt.Sprintf("%s/users/%d", c.baseURL, playerOsuID), &out)
	if err != nil || !found {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) FetchPlayerTrackHistory(ctx context.Context, playerOsuID int64) ([]TrackHistoryEntry, error) {
	var out []TrackHistoryEntry
	found, err := c.getJSON(ctx, fmt.Sprintf("%s/users/%d/rank-history", c.baseURL, playerOsuID), &out)
	if err != nil || !found {
		return nil, err
	}
	return out, nil
}

// getJSON performs a GET and decodes the body. Returns found=false on 404.
func (c *HTTPClient) getJSON(ctx context.Context, url string, out any) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, fmt.Errorf("failed to build request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return false, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return false, fmt.Errorf("failed to decode response: %w", err)
		}
		return true, nil
	case http.StatusNotFound:
		return false, nil
	case http.StatusTooManyRequests:
		return false, ErrRateLimited
	default:
		return false, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
	}
}
