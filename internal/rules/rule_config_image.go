package rules

import (
	"strings"

	"github.com/codewithboateng/astrolift/internal/ir"
	"github.com/codewithboateng/astrolift/internal/project"
)

func init() {
	Register(Rule{
		ID:         "config_image",
		Category:   "config",
		Severity:   ir.SeverityMedium,
		Risk:       ir.RiskSafe,
		Order:      60,
		Fixable:    true,
		Summary:    "No image service configured; assets ship unoptimized.",
		Suggestion: "Configure image service for automatic optimization: image: { service: sharpImageService() }",
		Eval:       evalConfigImage,
	})
}

func evalConfigImage(p *project.Project) []ir.Finding {
	if p.ConfigFile == "" {
		return nil
	}
	if strings.Contains(p.ConfigText, "image:") || strings.Contains(p.ConfigText, "astro:assets") {
		return nil
	}
	return []ir.Finding{{
		RuleID:  "config_image",
		File:    p.ConfigFile,
		Message: "No explicit image optimization configuration",
	}}
}
