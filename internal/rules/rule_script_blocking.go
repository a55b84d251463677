package rules

import (
	"strings"

	"github.com/codewithboateng/astrolift/internal/ir"
	"github.com/codewithboateng/astrolift/internal/project"
)

func init() {
	Register(Rule{
		ID:       "script_blocking",
		Category: "script",
		Severity: ir.SeverityHigh,
		// Risky: defer changes execution order relative to inline scripts.
		Risk:       ir.RiskRisky,
		Order:      40,
		Fixable:    true,
		Summary:    "Third-party script without defer/async blocks rendering.",
		Suggestion: "Add defer or async attribute, or load on interaction",
		Eval:       evalScriptBlocking,
		Exts:       []string{".astro"},
		Rewrite:    rewriteScriptBlocking,
	})
}

func evalScriptBlocking(p *project.Project) []ir.Finding {
	var out []ir.Finding
	for _, f := range p.FilesByExt(".astro") {
		for _, loc := range extScriptRe.FindAllStringIndex(f.Text, -1) {
			tag := strings.ToLower(f.Text[loc[0]:loc[1]])
			if strings.Contains(tag, "defer") || strings.Contains(tag, "async") {
				continue
			}
			out = append(out, ir.Finding{
				RuleID:  "script_blocking",
				File:    f.Rel,
				Line:    lineOf(f.Text, loc[0]),
				Message: "Third-party script without defer/async (render-blocking)",
			})
			break
		}
	}
	return out
}

func rewriteScriptBlocking(text string) (string, []string) {
	var changes []string
	out := extScriptRe.ReplaceAllStringFunc(text, func(tag string) string {
		low := strings.ToLower(tag)
		if strings.Contains(low, "defer") || strings.Contains(low, "async") {
			return tag
		}
		edited := insertAttr(tag, "defer")
		if edited != tag {
			changes = append(changes, "Added defer to external script tag")
		}
		return edited
	})
	return out, changes
}
