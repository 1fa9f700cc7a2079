package checks

import "regexp"

// Recognized tournament-lobby naming shapes, e.g. "OWC2023: (United States) vs (South Korea)"
// or "ABC: Player1 vs Player2". Failing every pattern is a warning, never fatal.
var lobbyNamePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^.+:\s*\(.+\)\s+vs\.?\s+\(.+\)\s*$`),
	regexp.MustCompile(`(?i)^.+:\s*.+\s+vs\.?\s+.+$`),
	regexp.MustCompile(`(?i)^.+:\s*\[.+\]\s+vs\.?\s+\[.+\]\s*$`),
}

// IsTournamentLobbyName reports whether a match name matches any recognized
// tournament lobby naming pattern.
func IsTournamentLobbyName(name string) bool {
	for _, p := range lobbyNamePatterns {
		if p.MatchString(name) {
			return true
		}
	}
	return false
}
