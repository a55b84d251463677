package rules

import (
	"strings"

	"github.com/codewithboateng/astrolift/internal/ir"
	"github.com/codewithboateng/astrolift/internal/project"
)

func init() {
	Register(Rule{
		ID:         "image_decoding",
		Category:   "markup",
		Severity:   ir.SeverityLow,
		Risk:       ir.RiskSafe,
		Order:      13,
		Fixable:    true,
		Summary:    "Images decode on the main thread unless marked async.",
		Suggestion: "Add decoding='async' so image decode does not block rendering",
		Eval:       evalImageDecoding,
		Exts:       []string{".astro"},
		Rewrite:    rewriteImageDecoding,
	})
}

func evalImageDecoding(p *project.Project) []ir.Finding {
	var out []ir.Finding
	for _, f := range p.FilesByExt(".astro") {
		for _, loc := range imgTagRe.FindAllStringIndex(f.Text, -1) {
			tag := strings.ToLower(f.Text[loc[0]:loc[1]])
			if strings.Contains(tag, "decoding=") {
				continue
			}
			out = append(out, ir.Finding{
				RuleID:  "image_decoding",
				File:    f.Rel,
				Line:    lineOf(f.Text, loc[0]),
				Message: "Image without decoding attribute",
			})
			break
		}
	}
	return out
}

func rewriteImageDecoding(text string) (string, []string) {
	var changes []string
	out := imgTagRe.ReplaceAllStringFunc(text, func(tag string) string {
		if strings.Contains(strings.ToLower(tag), "decoding=") {
			return tag
		}
		edited := insertAttr(tag, `decoding="async"`)
		if edited != tag {
			changes = append(changes, "Added decoding='async' to img tag")
		}
		return edited
	})
	return out, changes
}
