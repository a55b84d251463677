package rules

import (
	"strings"

	"github.com/codewithboateng/astrolift/internal/ir"
	"github.com/codewithboateng/astrolift/internal/project"
)

func init() {
	Register(Rule{
		ID:         "font_display",
		Category:   "stylesheet",
		Severity:   ir.SeverityMedium,
		Risk:       ir.RiskSafe,
		Order:      22,
		Fixable:    true,
		Summary:    "@font-face without font-display blocks text rendering until the font loads.",
		Suggestion: "Add font-display: swap (or optional) to prevent FOIT",
		Eval:       evalFontDisplay,
		Exts:       []string{".css", ".scss"},
		Rewrite:    rewriteFontDisplay,
	})
}

func evalFontDisplay(p *project.Project) []ir.Finding {
	var out []ir.Finding
	for _, f := range p.FilesByExt(".css", ".scss") {
		if !strings.Contains(f.Text, "@font-face") || strings.Contains(f.Text, "font-display") {
			continue
		}
		out = append(out, ir.Finding{
			RuleID:  "font_display",
			File:    f.Rel,
			Message: "@font-face without font-display property",
		})
	}
	return out
}

func rewriteFontDisplay(text string) (string, []string) {
	var changes []string
	out := fontFaceRe.ReplaceAllStringFunc(text, func(block string) string {
		if strings.Contains(strings.ToLower(block), "font-display") {
			return block
		}
		if !strings.HasSuffix(block, "}") {
			return block
		}
		changes = append(changes, "Added font-display: swap to @font-face")
		return block[:len(block)-1] + "\n  font-display: swap;\n}"
	})
	return out, changes
}
