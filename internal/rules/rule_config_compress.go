package rules

import (
	"strings"

	"github.com/codewithboateng/astrolift/internal/ir"
	"github.com/codewithboateng/astrolift/internal/project"
)

func init() {
	Register(Rule{
		ID:         "config_compress",
		Category:   "config",
		Severity:   ir.SeverityLow,
		Risk:       ir.RiskSafe,
		Order:      61,
		Fixable:    true,
		Summary:    "HTML compression not explicitly enabled in config.",
		Suggestion: "Astro compresses HTML by default, but verify compressHTML: true in config",
		Eval:       evalConfigCompress,
	})
}

func evalConfigCompress(p *project.Project) []ir.Finding {
	if p.ConfigFile == "" {
		return nil
	}
	if strings.Contains(p.ConfigText, "compress") || strings.Contains(p.ConfigText, "compressHTML") {
		return nil
	}
	return []ir.Finding{{
		RuleID:  "config_compress",
		File:    p.ConfigFile,
		Message: "HTML compression not explicitly enabled",
	}}
}
