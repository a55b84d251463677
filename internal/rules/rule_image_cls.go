package rules

import (
	"strings"

	"github.com/codewithboateng/astrolift/internal/ir"
	"github.com/codewithboateng/astrolift/internal/project"
)

func init() {
	Register(Rule{
		ID:         "image_cls",
		Category:   "markup",
		Severity:   ir.SeverityHigh,
		Risk:       ir.RiskSafe,
		Order:      10,
		Summary:    "Raw <img> without explicit dimensions shifts layout when it loads.",
		Suggestion: "Add width and height attributes or use Astro's <Image> component",
		Eval:       evalImageCLS,
	})
}

func evalImageCLS(p *project.Project) []ir.Finding {
	var out []ir.Finding
	for _, f := range p.FilesByExt(".astro") {
		for _, loc := range imgTagRe.FindAllStringIndex(f.Text, -1) {
			tag := f.Text[loc[0]:loc[1]]
			hasDims := (strings.Contains(tag, "width=") && strings.Contains(tag, "height=")) ||
				strings.Contains(tag, "aspect-ratio")
			if hasDims || strings.Contains(tag, "Image") {
				continue
			}
			out = append(out, ir.Finding{
				RuleID:  "image_cls",
				File:    f.Rel,
				Line:    lineOf(f.Text, loc[0]),
				Message: "Image missing width/height attributes (causes CLS)",
			})
			break // one finding per file; the suggestion is the same regardless of count
		}
	}
	return out
}
