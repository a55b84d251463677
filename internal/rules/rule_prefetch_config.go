package rules

import (
	"strings"

	"github.com/codewithboateng/astrolift/internal/ir"
	"github.com/codewithboateng/astrolift/internal/project"
)

func init() {
	Register(Rule{
		ID:         "prefetch_config",
		Category:   "config",
		Severity:   ir.SeverityMedium,
		Risk:       ir.RiskSafe,
		Order:      30,
		Fixable:    true,
		Summary:    "Built-in link prefetching is not configured.",
		Suggestion: "Enable Astro's built-in prefetch: prefetch: { defaultStrategy: 'viewport' }",
		Eval:       evalPrefetchConfig,
	})
}

func evalPrefetchConfig(p *project.Project) []ir.Finding {
	if p.ConfigFile == "" || strings.Contains(p.ConfigText, "prefetch") {
		return nil
	}
	return []ir.Finding{{
		RuleID:  "prefetch_config",
		File:    p.ConfigFile,
		Message: "No prefetch configuration found",
	}}
}
