package rules

import "strings"

type Settings struct {
	SeverityThreshold string
	Disabled          map[string]bool
}

var rsettings = Settings{
	SeverityThreshold: "low",
	Disabled:          map[string]bool{},
}

func SetSettings(s Settings) {
	// fill defaults
	if s.SeverityThreshold == "" {
		s.SeverityThreshold = rsettings.SeverityThreshold
	}
	if s.Disabled == nil {
		s.Disabled = map[string]bool{}
	}
	rsettings = s
}

func severityRank(sev string) int {
	switch strings.ToLower(strings.TrimSpace(sev)) {
	case "high":
		return 3
	case "medium":
		return 2
	default:
		return 1 // low or unknown
	}
}

func severityOK(sev string) bool {
	return severityRank(sev) >= severityRank(rsettings.SeverityThreshold)
}
