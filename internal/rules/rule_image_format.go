package rules

import (
	"path"
	"strings"

	"github.com/codewithboateng/astrolift/internal/ir"
	"github.com/codewithboateng/astrolift/internal/project"
)

var legacyImageExts = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".gif": true}

func init() {
	Register(Rule{
		ID:         "image_format",
		Category:   "resource",
		Severity:   ir.SeverityMedium,
		Risk:       ir.RiskSafe,
		Order:      14,
		Summary:    "Legacy image formats in public/ waste bytes vs AVIF/WebP.",
		Suggestion: "Convert to AVIF for best compression, WebP for broader support",
		Eval:       evalImageFormat,
	})
}

func evalImageFormat(p *project.Project) []ir.Finding {
	var out []ir.Finding
	for _, rel := range p.PublicAssets {
		if !legacyImageExts[strings.ToLower(path.Ext(rel))] {
			continue
		}
		out = append(out, ir.Finding{
			RuleID:  "image_format",
			File:    rel,
			Message: "Image could be converted to modern format (AVIF/WebP)",
		})
	}
	return out
}
