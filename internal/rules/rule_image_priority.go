package rules

import (
	"regexp"
	"strings"

	"github.com/codewithboateng/astrolift/internal/ir"
	"github.com/codewithboateng/astrolift/internal/project"
)

var (
	heroImgTagRe   = regexp.MustCompile(`(?i)<img[^>]*(?:class|id)=["'][^"']*(?:hero|banner|featured|lcp|main-image)[^"']*["'][^>]*/?>`)
	heroImageCmpRe = regexp.MustCompile(`(?i)<Image[^>]*(?:class|id)=["'][^"']*(?:hero|banner|featured|lcp|main-image)[^"']*["'][^>]*/?>`)
)

var heroContentMarkers = []string{"hero", "banner", "header-image", "main-image", "lcp"}

func init() {
	Register(Rule{
		ID:         "image_priority",
		Category:   "markup",
		Severity:   ir.SeverityHigh,
		Risk:       ir.RiskSafe,
		Order:      11,
		Fixable:    true,
		Summary:    "Likely LCP image is fetched at default priority.",
		Suggestion: "Add fetchpriority='high' to your main above-fold image",
		Eval:       evalImagePriority,
		Exts:       []string{".astro"},
		Rewrite:    rewriteImagePriority,
	})
}

func evalImagePriority(p *project.Project) []ir.Finding {
	var out []ir.Finding
	for _, f := range p.FilesByExt(".astro") {
		low := strings.ToLower(f.Text)
		if !containsAny(low, heroContentMarkers) || strings.Contains(low, "fetchpriority") {
			continue
		}
		out = append(out, ir.Finding{
			RuleID:  "image_priority",
			File:    f.Rel,
			Message: "Potential hero/LCP image without fetchpriority attribute",
		})
	}
	return out
}

func rewriteImagePriority(text string) (string, []string) {
	var changes []string
	apply := func(re *regexp.Regexp, desc string, in string) string {
		return re.ReplaceAllStringFunc(in, func(tag string) string {
			if strings.Contains(strings.ToLower(tag), "fetchpriority") {
				return tag
			}
			changes = append(changes, "Added fetchpriority='high' to "+desc)
			return insertAttr(tag, `fetchpriority="high"`)
		})
	}
	text = apply(heroImgTagRe, "hero/banner class", text)
	text = apply(heroImageCmpRe, "Astro Image component", text)
	return text, changes
}
