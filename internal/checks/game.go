package checks

import (
	"github.com/osu-tournament-rating/otr-api-sub005/internal/domain"
	"github.com/osu-tournament-rating/otr-api-sub005/internal/rosters"
)

// CheckGame runs every game rule and OR-combines the results into the game's
// rejection reason. It must run after the game's scores have been checked,
// since the score-count rule inspects score verification state. The score-count
// rule regenerates the game's rosters from its valid scores as a side effect.
func CheckGame(game *domain.Game, tournament *domain.Tournament) (domain.GameRejectionReason, error) {
	var reason domain.GameRejectionReason

	reason |= checkGameBeatmapUsage(game, tournament)

	if game.EndTime.IsZero() {
		reason |= domain.GameRejectionReasonNoEndTime
	}
	if game.Mods.HasAny(domain.InvalidMods) {
		reason |= domain.GameRejectionReasonInvalidMods
	}
	if game.Ruleset != tournament.Ruleset {
		reason |= domain.GameRejectionReasonRulesetMismatch
	}

	scoreCountReason, err := checkGameScoreCount(game, tournament)
	if err != nil {
		return reason, err
	}
	reason |= scoreCountReason

	if game.ScoringType != domain.ScoringTypeScoreV2 {
		reason |= domain.GameRejectionReasonInvalidScoringType
	}
	if game.TeamType != domain.TeamTypeTeamVs {
		reason |= domain.GameRejectionReasonInvalidTeamType
	}

	game.RejectionReason |= reason
	return reason, nil
}

// checkGameBeatmapUsage rejects games played on beatmaps outside a submitted
// pool. Without a pool, a beatmap appearing in exactly one game across the
// tournament only warrants a warning.
func checkGameBeatmapUsage(game *domain.Game, tournament *domain.Tournament) domain.GameRejectionReason {
	if tournament.HasPooledBeatmaps() {
		if !tournament.IsBeatmapPooled(game.BeatmapOsuID) {
			return domain.GameRejectionReasonBeatmapNotPooled
		}
		return domain.GameRejectionReasonNone
	}

	if game.BeatmapOsuID == 0 {
		return domain.GameRejectionReasonNone
	}

	usages := 0
	for _, m := range tournament.Matches {
		for _, g := range m.Games {
			if g.BeatmapOsuID == game.BeatmapOsuID {
				usages++
			}
		}
	}
	if usages == 1 {
		game.WarningFlags |= domain.GameWarningFlagsBeatmapUsedOnce
	}
	return domain.GameRejectionReasonNone
}

// checkGameScoreCount validates the shape of the lobby and regenerates the
// game's rosters from its valid scores.
func checkGameScoreCount(game *domain.Game, tournament *domain.Tournament) (domain.GameRejectionReason, error) {
	if len(game.Scores) == 0 {
		return domain.GameRejectionReasonNoScores, nil
	}

	valid := game.ValidScores()
	if len(valid) == 0 {
		return domain.GameRejectionReasonNoValidScores, nil
	}

	generated, err := rosters.GenerateGameRosters(valid)
	if err != nil {
		return domain.GameRejectionReasonNone, err
	}
	game.Rosters = generated

	if len(valid)%2 != 0 || len(valid)/2 != tournament.LobbySize || len(generated) <= 1 {
		return domain.GameRejectionReasonLobbySizeMismatch, nil
	}
	size := len(generated[0].Roster)
	for _, r := range generated[1:] {
		if len(r.Roster) != size {
			return domain.GameRejectionReasonLobbySizeMismatch, nil
		}
	}
	return domain.GameRejectionReasonNone, nil
}
