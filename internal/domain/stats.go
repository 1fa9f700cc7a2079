package domain

// PlayerMatchStats aggregates one player's performance across a match's
// verified games. Computed during the match stat-calculation stage.
type PlayerMatchStats struct {
	PlayerOsuID int64
	MatchID     int64

	MatchCost        float64
	AverageScore     float64
	AveragePlacement float64
	AverageMisses    float64
	AverageAccuracy  float64

	GamesPlayed int
	GamesWon    int
	GamesLost   int
	Won         bool

	TeammateIDs []int64
	OpponentIDs []int64
}

// PlayerTournamentStats aggregates a player's match stats across all of a
// tournament's verified matches.
type PlayerTournamentStats struct {
	PlayerOsuID  int64
	TournamentID int64

	AverageRatingDelta float64
	AverageMatchCost   float64
	AverageScore       float64
	AveragePlacement   float64
	AverageAccuracy    float64

	MatchesPlayed int
	MatchesWon    int
	MatchesLost   int
	GamesPlayed   int
	GamesWon      int
	GamesLost     int

	TeammateIDs []int64
	OpponentIDs []int64
}

// RatingAdjustment is one externally produced rating delta for a player in a
// match. The rating algorithm itself is an external producer; the pipeline
// only consumes its output during tournament-level aggregation.
type RatingAdjustment struct {
	PlayerOsuID int64
	MatchID     int64
	RatingDelta float64
}
