package rules

import (
	"regexp"
	"sort"
	"strings"

	"github.com/codewithboateng/astrolift/internal/ir"
	"github.com/codewithboateng/astrolift/internal/project"
)

var originRe = regexp.MustCompile(`https?://[a-zA-Z0-9][a-zA-Z0-9.-]*\.[a-zA-Z]{2,}`)

func init() {
	Register(Rule{
		ID:         "preconnect",
		Category:   "resource",
		Severity:   ir.SeverityMedium,
		Risk:       ir.RiskSafe,
		Order:      31,
		Fixable:    true,
		Summary:    "Third-party origins referenced without a preconnect hint.",
		Suggestion: "Add <link rel='preconnect' href='ORIGIN'> for external resources",
		Eval:       evalPreconnect,
	})
}

// Project-scope rule: collects third-party origins across components and
// checks layouts for matching preconnect links.
func evalPreconnect(p *project.Project) []ir.Finding {
	origins := map[string]bool{}
	for _, f := range p.FilesByExt(".astro") {
		for _, m := range originRe.FindAllString(f.Text, -1) {
			if strings.Contains(m, "localhost") || strings.Contains(m, "127.0.0.1") {
				continue
			}
			origins[m] = true
		}
	}
	if len(origins) == 0 {
		return nil
	}

	for _, layout := range p.Layouts() {
		if !strings.Contains(layout.Text, `rel="preconnect"`) && !strings.Contains(layout.Text, `rel='preconnect'`) {
			continue
		}
		for origin := range origins {
			if strings.Contains(layout.Text, origin) {
				delete(origins, origin)
			}
		}
	}
	if len(origins) == 0 {
		return nil
	}

	missing := make([]string, 0, len(origins))
	for origin := range origins {
		missing = append(missing, origin)
	}
	sort.Strings(missing)
	if len(missing) > 3 {
		missing = missing[:3]
	}
	return []ir.Finding{{
		RuleID:  "preconnect",
		File:    "src/layouts/",
		Message: "Third-party origins without preconnect: " + strings.Join(missing, ", "),
	}}
}
