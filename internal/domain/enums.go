// enums.go
package domain

// Ruleset represents the game mode a score or match is played under.
type Ruleset int

const (
	RulesetOsu Ruleset = iota
	RulesetTaiko
	RulesetCatch
	RulesetMania4K
	RulesetMania7K
)

func (r Ruleset) String() string {
	switch r {
	case RulesetOsu:
		return "osu"
	case RulesetTaiko:
		return "taiko"
	case RulesetCatch:
		return "catch"
	case RulesetMania4K:
		return "mania4k"
	case RulesetMania7K:
		return "mania7k"
	default:
		return "unknown"
	}
}

// ScoringType represents the scoring mode a game was played with.
type ScoringType int

const (
	ScoringTypeScore ScoringType = iota
	ScoringTypeAccuracy
	ScoringTypeCombo
	ScoringTypeScoreV2
)

func (s ScoringType) String() string {
	switch s {
	case ScoringTypeScore:
		return "score"
	case ScoringTypeAccuracy:
		return "accuracy"
	case ScoringTypeCombo:
		return "combo"
	case ScoringTypeScoreV2:
		return "scorev2"
	default:
		return "unknown"
	}
}

// TeamType represents the team arrangement of a game lobby.
type TeamType int

const (
	TeamTypeHeadToHead TeamType = iota
	TeamTypeTagCoop
	TeamTypeTeamVs
	TeamTypeTagTeamVs
)

func (t TeamType) String() string {
	switch t {
	case TeamTypeHeadToHead:
		return "head_to_head"
	case TeamTypeTagCoop:
		return "tag_coop"
	case TeamTypeTeamVs:
		return "team_vs"
	case TeamTypeTagTeamVs:
		return "tag_team_vs"
	default:
		return "unknown"
	}
}

// Team is the side a score was set for. NoTeam is used in head-to-head lobbies.
type Team int

const (
	TeamNone Team = iota
	TeamBlue
	TeamRed
)

func (t Team) String() string {
	switch t {
	case TeamNone:
		return "none"
	case TeamBlue:
		return "blue"
	case TeamRed:
		return "red"
	default:
		return "unknown"
	}
}

// VerificationStatus tracks how far an entity has moved through review.
//
// Automation checks may only move an entity from None to PreRejected or
// PreVerified. Only an external reviewer resolves a provisional state to
// Rejected or Verified.
type VerificationStatus int

const (
	VerificationStatusNone VerificationStatus = iota
	VerificationStatusPreRejected
	VerificationStatusPreVerified
	VerificationStatusRejected
	VerificationStatusVerified
)

func (v VerificationStatus) String() string {
	switch v {
	case VerificationStatusNone:
		return "none"
	case VerificationStatusPreRejected:
		return "pre_rejected"
	case VerificationStatusPreVerified:
		return "pre_verified"
	case VerificationStatusRejected:
		return "rejected"
	case VerificationStatusVerified:
		return "verified"
	default:
		return "unknown"
	}
}

// IsResolved reports whether an external reviewer has made a final call.
func (v VerificationStatus) IsResolved() bool {
	return v == VerificationStatusRejected || v == VerificationStatusVerified
}

// IsRejected reports whether the entity is provisionally or finally rejected.
func (v VerificationStatus) IsRejected() bool {
	return v == VerificationStatusPreRejected || v == VerificationStatusRejected
}

// IsPreVerifiedOrVerified reports whether the entity passed automation or review.
func (v VerificationStatus) IsPreVerifiedOrVerified() bool {
	return v == VerificationStatusPreVerified || v == VerificationStatusVerified
}

// ProcessingStatus is the stage gate for the per-entity drivers. It is
// monotonically increasing and never regresses.
type ProcessingStatus int

const (
	ProcessingStatusNeedsData ProcessingStatus = iota
	ProcessingStatusNeedsAutomationChecks
	ProcessingStatusNeedsVerification
	ProcessingStatusNeedsStatCalculation
	ProcessingStatusDone
)

func (p ProcessingStatus) String() string {
	switch p {
	case ProcessingStatusNeedsData:
		return "needs_data"
	case ProcessingStatusNeedsAutomationChecks:
		return "needs_automation_checks"
	case ProcessingStatusNeedsVerification:
		return "needs_verification"
	case ProcessingStatusNeedsStatCalculation:
		return "needs_stat_calculation"
	case ProcessingStatusDone:
		return "done"
	default:
		return "unknown"
	}
}
