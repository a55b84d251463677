package rules

import (
	"strings"

	"github.com/codewithboateng/astrolift/internal/ir"
	"github.com/codewithboateng/astrolift/internal/project"
)

var trackingMarkers = []string{"analytics", "gtag", "gtm", "facebook", "pixel", "hotjar", "intercom", "crisp", "drift"}

func init() {
	Register(Rule{
		ID:         "script_tracking",
		Category:   "script",
		Severity:   ir.SeverityMedium,
		Risk:       ir.RiskRisky,
		Order:      41,
		Summary:    "Analytics/tracking loaded immediately competes with page content.",
		Suggestion: "Delay non-critical scripts with setTimeout or load on user interaction",
		Eval:       evalScriptTracking,
	})
}

func evalScriptTracking(p *project.Project) []ir.Finding {
	var out []ir.Finding
	for _, f := range p.FilesByExt(".astro") {
		low := strings.ToLower(f.Text)
		if !containsAny(low, trackingMarkers) {
			continue
		}
		if strings.Contains(f.Text, "setTimeout") || strings.Contains(f.Text, "requestIdleCallback") {
			continue
		}
		if !strings.Contains(f.Text, "<script") {
			continue
		}
		out = append(out, ir.Finding{
			RuleID:  "script_tracking",
			File:    f.Rel,
			Message: "Tracking/analytics script loaded immediately",
		})
	}
	return out
}
