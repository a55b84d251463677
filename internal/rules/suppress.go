package rules

import (
	"strings"

	"github.com/codewithboateng/astrolift/internal/ir"
	"github.com/codewithboateng/astrolift/internal/storage"
)

// ApplySuppressions filters out findings that match any active suppression.
// Returns (kept, suppressedCount).
func ApplySuppressions(in []ir.Finding, sups []storage.Suppression) ([]ir.Finding, int) {
	if len(sups) == 0 || len(in) == 0 {
		return in, 0
	}
	var out []ir.Finding
	suppressed := 0
nextFinding:
	for _, f := range in {
		for _, s := range sups {
			if !eqCI(f.RuleID, s.RuleID) {
				continue
			}
			if s.File != "" && !eqCI(f.File, s.File) {
				continue
			}
			if s.PatternSub != "" {
				ps := strings.ToLower(s.PatternSub)
				if !strings.Contains(strings.ToLower(f.Message), ps) &&
					!strings.Contains(strings.ToLower(f.Suggestion), ps) {
					continue
				}
			}
			// matched, suppress it
			suppressed++
			continue nextFinding
		}
		out = append(out, f)
	}
	return out, suppressed
}

func eqCI(a, b string) bool { return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b)) }
