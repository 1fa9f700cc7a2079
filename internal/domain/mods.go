package domain

import "strings"

// Mods is the legacy osu! mod bitmask carried on games and scores.
type Mods uint32

const (
	ModNone        Mods = 0
	ModNoFail      Mods = 1 << 0
	ModEasy        Mods = 1 << 1
	ModTouchDevice Mods = 1 << 2
	ModHidden      Mods = 1 << 3
	ModHardRock    Mods = 1 << 4
	ModSuddenDeath Mods = 1 << 5
	ModDoubleTime  Mods = 1 << 6
	ModRelax       Mods = 1 << 7
	ModHalfTime    Mods = 1 << 8
	ModNightcore   Mods = 1 << 9
	ModFlashlight  Mods = 1 << 10
	ModAutoplay    Mods = 1 << 11
	ModSpunOut     Mods = 1 << 12
	ModAutopilot   Mods = 1 << 13
	ModPerfect     Mods = 1 << 14
)

// InvalidMods is the assist/auto/relax family that disqualifies a score or game
// from tournament play.
const InvalidMods = ModSuddenDeath | ModPerfect | ModRelax | ModAutoplay | ModAutopilot

// HasAny reports whether any of the given mods are set.
func (m Mods) HasAny(other Mods) bool {
	return m&other != 0
}

func (m Mods) String() string {
	if m == ModNone {
		return "NM"
	}
	names := []struct {
		mod  Mods
		name string
	}{
		{ModNoFail, "NF"},
		{ModEasy, "EZ"},
		{ModTouchDevice, "TD"},
		{ModHidden, "HD"},
		{ModHardRock, "HR"},
		{ModSuddenDeath, "SD"},
		{ModDoubleTime, "DT"},
		{ModRelax, "RX"},
		{ModHalfTime, "HT"},
		{ModNightcore, "NC"},
		{ModFlashlight, "FL"},
		{ModAutoplay, "AT"},
		{ModSpunOut, "SO"},
		{ModAutopilot, "AP"},
		{ModPerfect, "PF"},
	}
	var parts []string
	for _, n := range names {
		if m.HasAny(n.mod) {
			parts = append(parts, n.name)
		}
	}
	return strings.Join(parts, "")
}
