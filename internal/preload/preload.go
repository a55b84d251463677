// Package preload recommends early-fetch hints for critical resources:
// fonts declared in stylesheets, hero background images, and page-level
// hero imagery. It is read-only; inserting the generated tags is up to the
// consumer.
package preload

import (
	"fmt"
	"path"
	"regexp"
	"strings"

	"github.com/codewithboateng/astrolift/internal/ir"
	"github.com/codewithboateng/astrolift/internal/project"
)

var (
	fontFaceBlockRe = regexp.MustCompile(`(?i)@font-face\s*\{([^}]*)\}`)
	fontURLRe       = regexp.MustCompile(`(?i)url\(["']?([^"')\s]+\.(?:woff2?|ttf|otf|eot))["']?\)`)
	cssBgRuleRe     = regexp.MustCompile(`(?i)([^{}]+)\{([^{}]*background(?:-image)?:\s*url\(["']?([^"')\s]+)["']?\)[^{}]*)\}`)
	heroPageImgRe   = regexp.MustCompile(`(?i)<img[^>]*(?:class=["'][^"']*(?:hero|banner|featured)[^"']*["']|id=["'][^"']*(?:hero|banner|featured)[^"']*["'])[^>]*src=["']([^"']+)["'][^>]*>`)
)

// Selectors that suggest above-fold content.
var criticalSelectors = []string{"hero", "banner", "header", "masthead", "jumbotron", "above-fold", "splash"}

// Extract runs the full preload sub-analysis over a scanned project.
func Extract(p *project.Project) ir.PreloadReport {
	var all []ir.PreloadDirective
	for _, f := range p.FilesByExt(".css", ".scss") {
		all = append(all, fontsFromCSS(f)...)
		all = append(all, criticalImagesFromCSS(f)...)
	}

	pageSpecific := map[string][]ir.PreloadDirective{}
	for _, f := range p.FilesByExt(".astro") {
		if !strings.HasPrefix(f.Rel, "src/pages/") {
			continue
		}
		if ds := pageHeroImages(f); len(ds) > 0 {
			pageSpecific[f.Rel] = ds
		}
	}

	rep := ir.PreloadReport{
		Preloads:      all,
		PageSpecific:  pageSpecific,
		GeneratedHTML: renderHTML(all),
	}
	for _, d := range all {
		rep.Summary.TotalPreloads++
		if d.Scope == "layout" {
			rep.Summary.LayoutScope++
		} else {
			rep.Summary.PageScope++
		}
		switch d.AsType {
		case "font":
			rep.Summary.Fonts++
		case "image":
			rep.Summary.Images++
		}
	}
	return rep
}

// fontsFromCSS extracts font URLs from @font-face declarations.
func fontsFromCSS(f project.File) []ir.PreloadDirective {
	var out []ir.PreloadDirective
	for _, block := range fontFaceBlockRe.FindAllStringSubmatch(f.Text, -1) {
		for _, m := range fontURLRe.FindAllStringSubmatch(block[1], -1) {
			url := m[1]
			out = append(out, ir.PreloadDirective{
				Href:        resolveHref(url, f.Rel),
				AsType:      "font",
				TypeAttr:    fontType(url),
				Crossorigin: true, // fonts always need crossorigin
				Scope:       "layout",
				SourceFile:  f.Rel,
				Reason:      "Font declared in CSS - preloading prevents FOIT/FOUT",
			})
		}
	}
	return out
}

// criticalImagesFromCSS extracts background images behind selectors that
// suggest above-fold content.
func criticalImagesFromCSS(f project.File) []ir.PreloadDirective {
	var out []ir.PreloadDirective
	for _, m := range cssBgRuleRe.FindAllStringSubmatch(f.Text, -1) {
		selector := strings.ToLower(strings.TrimSpace(m[1]))
		url := m[3]
		critical := false
		for _, tok := range criticalSelectors {
			if strings.Contains(selector, tok) {
				critical = true
				break
			}
		}
		if !critical || strings.HasPrefix(url, "data:") {
			continue
		}
		href := url
		if !strings.HasPrefix(url, "/") && !strings.HasPrefix(url, "http") {
			href = "/" + url
		}
		scope := "page"
		if strings.Contains(selector, "header") {
			scope = "layout"
		}
		if len(selector) > 50 {
			selector = selector[:50]
		}
		out = append(out, ir.PreloadDirective{
			Href:       href,
			AsType:     "image",
			Scope:      scope,
			SourceFile: f.Rel,
			Reason:     "Critical background image in CSS selector: " + selector,
		})
	}
	return out
}

// pageHeroImages finds hero-tagged <img> elements on a single page.
func pageHeroImages(f project.File) []ir.PreloadDirective {
	var out []ir.PreloadDirective
	for _, m := range heroPageImgRe.FindAllStringSubmatch(f.Text, -1) {
		src := m[1]
		if strings.HasPrefix(src, "data:") {
			continue
		}
		href := src
		if !strings.HasPrefix(src, "/") {
			href = "/" + src
		}
		out = append(out, ir.PreloadDirective{
			Href:       href,
			AsType:     "image",
			Scope:      "page",
			SourceFile: f.Rel,
			Reason:     "Hero/banner image on this page",
		})
	}
	return out
}

// resolveHref normalizes a URL from a stylesheet. Root-relative and
// absolute URLs pass through; relative URLs resolve against the declaring
// file's directory and are re-rooted under public/ (then src/) when they
// land there, else passed through unresolved.
func resolveHref(url, sourceRel string) string {
	if strings.HasPrefix(url, "/") || strings.HasPrefix(url, "http") {
		return url
	}
	joined := path.Clean(path.Join(path.Dir(sourceRel), url))
	if rest, ok := strings.CutPrefix(joined, "public/"); ok {
		return "/" + rest
	}
	if rest, ok := strings.CutPrefix(joined, "src/"); ok {
		return "/" + rest
	}
	return url
}

func fontType(url string) string {
	low := strings.ToLower(url)
	switch {
	case strings.Contains(low, ".woff2"):
		return "font/woff2"
	case strings.Contains(low, ".woff"):
		return "font/woff"
	case strings.Contains(low, ".ttf"):
		return "font/ttf"
	}
	return ""
}

// renderHTML renders preload link tags grouped by scope, deduplicated
// globally by href.
func renderHTML(preloads []ir.PreloadDirective) ir.GeneratedHTML {
	var layout, page []string
	seen := map[string]bool{}
	for _, p := range preloads {
		if seen[p.Href] {
			continue
		}
		seen[p.Href] = true

		attrs := []string{`rel="preload"`, fmt.Sprintf("href=%q", p.Href), fmt.Sprintf("as=%q", p.AsType)}
		if p.TypeAttr != "" {
			attrs = append(attrs, fmt.Sprintf("type=%q", p.TypeAttr))
		}
		if p.Crossorigin {
			attrs = append(attrs, "crossorigin")
		}
		tag := "<link " + strings.Join(attrs, " ") + ">"
		if p.Scope == "layout" {
			layout = append(layout, tag)
		} else {
			page = append(page, tag)
		}
	}
	return ir.GeneratedHTML{
		Layout: strings.Join(layout, "\n"),
		Page:   strings.Join(page, "\n"),
	}
}
