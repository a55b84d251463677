package rules

import (
	"strings"

	"github.com/codewithboateng/astrolift/internal/ir"
	"github.com/codewithboateng/astrolift/internal/project"
)

func init() {
	Register(Rule{
		ID:         "image_loading",
		Category:   "markup",
		Severity:   ir.SeverityMedium,
		Risk:       ir.RiskSafe,
		Order:      12,
		Fixable:    true,
		Summary:    "Images with no explicit loading strategy are all fetched eagerly.",
		Suggestion: "Add loading='lazy' for below-fold images, loading='eager' for above-fold",
		Eval:       evalImageLoading,
		Exts:       []string{".astro"},
		Rewrite:    rewriteImageLoading,
	})
}

func evalImageLoading(p *project.Project) []ir.Finding {
	var out []ir.Finding
	for _, f := range p.FilesByExt(".astro") {
		if !strings.Contains(f.Text, "<img") || strings.Contains(f.Text, "loading=") {
			continue
		}
		out = append(out, ir.Finding{
			RuleID:  "image_loading",
			File:    f.Rel,
			Message: "Images without explicit loading strategy",
		})
	}
	return out
}

func rewriteImageLoading(text string) (string, []string) {
	var changes []string
	out := imgTagRe.ReplaceAllStringFunc(text, func(tag string) string {
		low := strings.ToLower(tag)
		// Skip already-annotated tags and anything hero-like: lazy-loading
		// the LCP image would hurt, not help.
		if strings.Contains(low, "loading=") || containsAny(low, heroIndicators) {
			return tag
		}
		edited := insertAttr(tag, `loading="lazy"`)
		if edited != tag {
			changes = append(changes, "Added loading='lazy' to img tag")
		}
		return edited
	})
	return out, changes
}
