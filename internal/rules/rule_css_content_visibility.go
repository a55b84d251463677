package rules

import (
	"strings"

	"github.com/codewithboateng/astrolift/internal/ir"
	"github.com/codewithboateng/astrolift/internal/project"
)

func init() {
	Register(Rule{
		ID:       "css_content_visibility",
		Category: "stylesheet",
		Severity: ir.SeverityLow,
		// Risky: content-visibility changes paint timing and scrollbar sizing.
		Risk:       ir.RiskRisky,
		Order:      50,
		Summary:    "No use of content-visibility for off-screen sections.",
		Suggestion: "Add content-visibility: auto to below-fold sections for paint performance",
		Eval:       evalCSSContentVisibility,
	})
}

func evalCSSContentVisibility(p *project.Project) []ir.Finding {
	for _, f := range p.FilesByExt(".css", ".scss") {
		if strings.Contains(f.Text, "content-visibility") {
			return nil
		}
	}
	return []ir.Finding{{
		RuleID:  "css_content_visibility",
		File:    "Global CSS",
		Message: "Not using content-visibility: auto for off-screen content",
	}}
}
