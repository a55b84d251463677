package rules

import (
	"regexp"
	"strings"

	"github.com/codewithboateng/astrolift/internal/ir"
	"github.com/codewithboateng/astrolift/internal/project"
)

var fontFaceSrcRe = regexp.MustCompile(`(?is)@font-face\s*\{[^}]*src:\s*url\(["']?([^"')\s]+)["']?\)[^}]*\}`)

func init() {
	Register(Rule{
		ID:         "font_preload",
		Category:   "resource",
		Severity:   ir.SeverityHigh,
		Risk:       ir.RiskSafe,
		Order:      21,
		// Counts as mechanically resolvable: the preload generator emits
		// the exact link tags, even though no in-place rewrite exists.
		Fixable: true,
		Summary:    "Fonts declared in CSS but never preloaded arrive late and flash text.",
		Suggestion: "Add <link rel='preload' href='/fonts/your-font.woff2' as='font' type='font/woff2' crossorigin> in layout <head>",
		Eval:       evalFontPreload,
	})
}

// Project-scope rule: compares fonts declared across stylesheets with the
// preload links present in layout files.
func evalFontPreload(p *project.Project) []ir.Finding {
	declared := false
	for _, f := range p.FilesByExt(".css", ".scss") {
		if fontFaceSrcRe.MatchString(f.Text) {
			declared = true
			break
		}
	}
	if !declared {
		return nil
	}
	for _, layout := range p.Layouts() {
		if strings.Contains(layout.Text, `rel="preload"`) &&
			(strings.Contains(layout.Text, `as="font"`) || strings.Contains(layout.Text, `as='font'`)) {
			return nil
		}
	}
	return []ir.Finding{{
		RuleID:  "font_preload",
		File:    "src/layouts/",
		Message: "Fonts declared in CSS but not preloaded",
	}}
}
