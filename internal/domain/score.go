package domain

import "sort"

// ScoreMinimum is the lowest raw score accepted by the automation checks.
const ScoreMinimum = 1000

// Judgements holds the hit counts reported for a score. Geki and Katu carry
// ruleset-specific meanings (mania 320s/200s, catch droplet misses).
type Judgements struct {
	Count300  int
	Count100  int
	Count50   int
	CountMiss int
	CountGeki int
	CountKatu int
}

// GameScore is a single player's result in one game.
type GameScore struct {
	ID          int64
	GameID      int64
	PlayerOsuID int64

	Team       Team
	Score      int64
	MaxCombo   int
	Judgements Judgements
	Mods       Mods
	Ruleset    Ruleset
	Passed     bool

	// Placement is assigned during stat calculation, 1-based by descending score.
	Placement int

	VerificationStatus VerificationStatus
	RejectionReason    ScoreRejectionReason
	ProcessingStatus   ProcessingStatus
}

// Accuracy returns the score's accuracy in percent per its ruleset's formula.
func (s *GameScore) Accuracy() float64 {
	j := s.Judgements
	switch s.Ruleset {
	case RulesetTaiko:
		total := j.Count300 + j.Count100 + j.CountMiss
		if total == 0 {
			return 0
		}
		return 100 * (float64(j.Count300) + 0.5*float64(j.Count100)) / float64(total)
	case RulesetCatch:
		caught := j.Count300 + j.Count100 + j.Count50
		total := caught + j.CountKatu + j.CountMiss
		if total == 0 {
			return 0
		}
		return 100 * float64(caught) / float64(total)
	case RulesetMania4K, RulesetMania7K:
		total := j.CountGeki + j.Count300 + j.CountKatu + j.Count100 + j.Count50 + j.CountMiss
		if total == 0 {
			return 0
		}
		weighted := 300*(j.CountGeki+j.Count300) + 200*j.CountKatu + 100*j.Count100 + 50*j.Count50
		return 100 * float64(weighted) / float64(300*total)
	default:
		total := j.Count300 + j.Count100 + j.Count50 + j.CountMiss
		if total == 0 {
			return 0
		}
		weighted := 300*j.Count300 + 100*j.Count100 + 50*j.Count50
		return 100 * float64(weighted) / float64(300*total)
	}
}

func sortInt64s(ids []int64) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
}
