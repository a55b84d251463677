package rules

import (
	"strings"

	"github.com/codewithboateng/astrolift/internal/ir"
	"github.com/codewithboateng/astrolift/internal/project"
)

func init() {
	Register(Rule{
		ID:         "font_external",
		Category:   "resource",
		Severity:   ir.SeverityHigh,
		Risk:       ir.RiskRisky,
		Order:      20,
		Summary:    "Google Fonts adds an external dependency and DNS round trip.",
		Suggestion: "Self-host fonts for better performance. Download from google-webfonts-helper or fontsource",
		Eval:       evalFontExternal,
	})
}

func evalFontExternal(p *project.Project) []ir.Finding {
	var out []ir.Finding
	for _, f := range p.FilesByExt(".astro") {
		if !strings.Contains(f.Text, "fonts.googleapis.com") && !strings.Contains(f.Text, "fonts.gstatic.com") {
			continue
		}
		out = append(out, ir.Finding{
			RuleID:  "font_external",
			File:    f.Rel,
			Message: "Using Google Fonts (external dependency, extra DNS lookup)",
		})
	}
	return out
}
