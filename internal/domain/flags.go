// flags.go holds the rejection-reason and warning bit flags accumulated by the
// automation checks. Within one check pass flags are only ever OR-combined;
// individual bits are never cleared mid-pass.
package domain

import "strings"

// ScoreRejectionReason flags a score that failed one or more automated rules.
type ScoreRejectionReason uint32

const (
	ScoreRejectionReasonNone            ScoreRejectionReason = 0
	ScoreRejectionReasonBelowMinimum    ScoreRejectionReason = 1 << 0
	ScoreRejectionReasonInvalidMods     ScoreRejectionReason = 1 << 1
	ScoreRejectionReasonRulesetMismatch ScoreRejectionReason = 1 << 2
)

func (r ScoreRejectionReason) String() string {
	return flagString(uint32(r), []flagName{
		{uint32(ScoreRejectionReasonBelowMinimum), "score_below_minimum"},
		{uint32(ScoreRejectionReasonInvalidMods), "invalid_mods"},
		{uint32(ScoreRejectionReasonRulesetMismatch), "ruleset_mismatch"},
	})
}

// GameRejectionReason flags a game that failed one or more automated rules.
type GameRejectionReason uint32

const (
	GameRejectionReasonNone                   GameRejectionReason = 0
	GameRejectionReasonNoScores               GameRejectionReason = 1 << 0
	GameRejectionReasonInvalidMods            GameRejectionReason = 1 << 1
	GameRejectionReasonNoEndTime              GameRejectionReason = 1 << 2
	GameRejectionReasonInvalidScoringType     GameRejectionReason = 1 << 3
	GameRejectionReasonInvalidTeamType        GameRejectionReason = 1 << 4
	GameRejectionReasonFailedTeamVsConversion GameRejectionReason = 1 << 5
	GameRejectionReasonNoValidScores          GameRejectionReason = 1 << 6
	GameRejectionReasonLobbySizeMismatch      GameRejectionReason = 1 << 7
	GameRejectionReasonRulesetMismatch        GameRejectionReason = 1 << 8
	GameRejectionReasonBeatmapNotPooled       GameRejectionReason = 1 << 9
	GameRejectionReasonNoData                 GameRejectionReason = 1 << 10
)

func (r GameRejectionReason) String() string {
	return flagString(uint32(r), []flagName{
		{uint32(GameRejectionReasonNoScores), "no_scores"},
		{uint32(GameRejectionReasonInvalidMods), "invalid_mods"},
		{uint32(GameRejectionReasonNoEndTime), "no_end_time"},
		{uint32(GameRejectionReasonInvalidScoringType), "invalid_scoring_type"},
		{uint32(GameRejectionReasonInvalidTeamType), "invalid_team_type"},
		{uint32(GameRejectionReasonFailedTeamVsConversion), "failed_team_vs_conversion"},
		{uint32(GameRejectionReasonNoValidScores), "no_valid_scores"},
		{uint32(GameRejectionReasonLobbySizeMismatch), "lobby_size_mismatch"},
		{uint32(GameRejectionReasonRulesetMismatch), "ruleset_mismatch"},
		{uint32(GameRejectionReasonBeatmapNotPooled), "beatmap_not_pooled"},
		{uint32(GameRejectionReasonNoData), "no_data"},
	})
}

// GameWarningFlags are non-fatal signals surfaced for reviewer attention.
type GameWarningFlags uint32

const (
	GameWarningFlagsNone            GameWarningFlags = 0
	GameWarningFlagsBeatmapUsedOnce GameWarningFlags = 1 << 0
)

func (w GameWarningFlags) String() string {
	return flagString(uint32(w), []flagName{
		{uint32(GameWarningFlagsBeatmapUsedOnce), "beatmap_used_once"},
	})
}

// MatchRejectionReason flags a match that failed one or more automated rules.
type MatchRejectionReason uint32

const (
	MatchRejectionReasonNone                   MatchRejectionReason = 0
	MatchRejectionReasonNoData                 MatchRejectionReason = 1 << 0
	MatchRejectionReasonNoGames                MatchRejectionReason = 1 << 1
	MatchRejectionReasonNamePrefixMismatch     MatchRejectionReason = 1 << 2
	MatchRejectionReasonFailedTeamVsConversion MatchRejectionReason = 1 << 3
	MatchRejectionReasonNoEndTime              MatchRejectionReason = 1 << 4
	MatchRejectionReasonNoValidGames           MatchRejectionReason = 1 << 5
	MatchRejectionReasonUnexpectedGameCount    MatchRejectionReason = 1 << 6
)

func (r MatchRejectionReason) String() string {
	return flagString(uint32(r), []flagName{
		{uint32(MatchRejectionReasonNoData), "no_data"},
		{uint32(MatchRejectionReasonNoGames), "no_games"},
		{uint32(MatchRejectionReasonNamePrefixMismatch), "name_prefix_mismatch"},
		{uint32(MatchRejectionReasonFailedTeamVsConversion), "failed_team_vs_conversion"},
		{uint32(MatchRejectionReasonNoEndTime), "no_end_time"},
		{uint32(MatchRejectionReasonNoValidGames), "no_valid_games"},
		{uint32(MatchRejectionReasonUnexpectedGameCount), "unexpected_game_count"},
	})
}

// MatchWarningFlags are non-fatal signals surfaced for reviewer attention.
type MatchWarningFlags uint32

const (
	MatchWarningFlagsNone                    MatchWarningFlags = 0
	MatchWarningFlagsUnexpectedNameFormat    MatchWarningFlags = 1 << 0
	MatchWarningFlagsLowGameCount            MatchWarningFlags = 1 << 1
	MatchWarningFlagsUnexpectedBeatmapsFound MatchWarningFlags = 1 << 2
	MatchWarningFlagsOverlappingRosters      MatchWarningFlags = 1 << 3
)

func (w MatchWarningFlags) String() string {
	return flagString(uint32(w), []flagName{
		{uint32(MatchWarningFlagsUnexpectedNameFormat), "unexpected_name_format"},
		{uint32(MatchWarningFlagsLowGameCount), "low_game_count"},
		{uint32(MatchWarningFlagsUnexpectedBeatmapsFound), "unexpected_beatmaps_found"},
		{uint32(MatchWarningFlagsOverlappingRosters), "overlapping_rosters"},
	})
}

// TournamentRejectionReason flags a tournament that failed the verification gate.
type TournamentRejectionReason uint32

const (
	TournamentRejectionReasonNone                     TournamentRejectionReason = 0
	TournamentRejectionReasonNoVerifiedMatches        TournamentRejectionReason = 1 << 0
	TournamentRejectionReasonNotEnoughVerifiedMatches TournamentRejectionReason = 1 << 1
	TournamentRejectionReasonNoData                   TournamentRejectionReason = 1 << 2
)

func (r TournamentRejectionReason) String() string {
	return flagString(uint32(r), []flagName{
		{uint32(TournamentRejectionReasonNoVerifiedMatches), "no_verified_matches"},
		{uint32(TournamentRejectionReasonNotEnoughVerifiedMatches), "not_enough_verified_matches"},
		{uint32(TournamentRejectionReasonNoData), "no_data"},
	})
}

type flagName struct {
	bit  uint32
	name string
}

func flagString(v uint32, names []flagName) string {
	if v == 0 {
		return "none"
	}
	var parts []string
	for _, n := range names {
		if v&n.bit != 0 {
			parts = append(parts, n.name)
		}
	}
	return strings.Join(parts, "|")
}
