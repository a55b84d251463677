package preload

import (
	"strings"
	"testing"

	"github.com/codewithboateng/astrolift/internal/project"
)

func TestExtract_FontsFromCSS(t *testing.T) {
	p := &project.Project{Files: []project.File{
		{Rel: "src/styles/fonts.css", Ext: ".css", Text: `
@font-face {
  font-family: "Inter";
  src: url("/fonts/inter.woff2") format("woff2");
}
@font-face {
  font-family: "Mono";
  src: url("../../public/fonts/mono.ttf");
}
`},
	}}

	rep := Extract(p)
	if rep.Summary.Fonts != 2 || rep.Summary.TotalPreloads != 2 {
		t.Fatalf("summary: %+v", rep.Summary)
	}
	byHref := map[string]int{}
	for i, d := range rep.Preloads {
		byHref[d.Href] = i
		if d.AsType != "font" || !d.Crossorigin || d.Scope != "layout" {
			t.Fatalf("font directive wrong: %+v", d)
		}
	}
	if _, ok := byHref["/fonts/inter.woff2"]; !ok {
		t.Fatalf("root-relative font href missing: %v", byHref)
	}
	// relative URL resolves against the stylesheet and re-roots under public/
	if _, ok := byHref["/fonts/mono.ttf"]; !ok {
		t.Fatalf("relative font href not resolved: %v", byHref)
	}
	if rep.Preloads[byHref["/fonts/inter.woff2"]].TypeAttr != "font/woff2" {
		t.Fatalf("woff2 type attr: %+v", rep.Preloads[byHref["/fonts/inter.woff2"]])
	}
	if rep.Preloads[byHref["/fonts/mono.ttf"]].TypeAttr != "font/ttf" {
		t.Fatalf("ttf type attr: %+v", rep.Preloads[byHref["/fonts/mono.ttf"]])
	}
}

func TestExtract_CriticalBackgroundImages(t *testing.T) {
	p := &project.Project{Files: []project.File{
		{Rel: "src/styles/site.css", Ext: ".css", Text: `
.hero {
  background-image: url("images/hero.jpg");
}
.site-header {
  background: url("/images/header.png") no-repeat;
}
.footer {
  background: url("/images/footer.png");
}
`},
	}}

	rep := Extract(p)
	if rep.Summary.Images != 2 {
		t.Fatalf("footer is not critical; summary: %+v", rep.Summary)
	}
	scopes := map[string]string{}
	for _, d := range rep.Preloads {
		scopes[d.Href] = d.Scope
	}
	if scopes["/images/hero.jpg"] != "page" {
		t.Fatalf("hero selector should be page scope: %v", scopes)
	}
	if scopes["/images/header.png"] != "layout" {
		t.Fatalf("header selector should be layout scope: %v", scopes)
	}
}

func TestExtract_PageHeroImages(t *testing.T) {
	p := &project.Project{Files: []project.File{
		{Rel: "src/pages/index.astro", Ext: ".astro",
			Text: `<img class="hero-shot" src="/images/hero.jpg" alt="">`},
		{Rel: "src/components/Card.astro", Ext: ".astro",
			Text: `<img class="hero-shot" src="/images/card.jpg" alt="">`},
	}}

	rep := Extract(p)
	ds, ok := rep.PageSpecific["src/pages/index.astro"]
	if !ok || len(ds) != 1 || ds[0].Href != "/images/hero.jpg" {
		t.Fatalf("page-specific: %+v", rep.PageSpecific)
	}
	if _, ok := rep.PageSpecific["src/components/Card.astro"]; ok {
		t.Fatalf("components must not contribute page-specific preloads")
	}
}

func TestExtract_GeneratedHTMLDedup(t *testing.T) {
	css := `
@font-face { font-family: A; src: url("/fonts/a.woff2"); }
@font-face { font-family: A-italic; src: url("/fonts/a.woff2"); }
`
	p := &project.Project{Files: []project.File{
		{Rel: "src/styles/fonts.css", Ext: ".css", Text: css},
	}}

	rep := Extract(p)
	// summary counts both declarations, rendered HTML collapses them
	if rep.Summary.TotalPreloads != 2 {
		t.Fatalf("summary should count pre-dedup: %+v", rep.Summary)
	}
	if n := strings.Count(rep.GeneratedHTML.Layout, "/fonts/a.woff2"); n != 1 {
		t.Fatalf("rendered HTML should dedup by href, found %d tags:\n%s", n, rep.GeneratedHTML.Layout)
	}
	tag := rep.GeneratedHTML.Layout
	for _, want := range []string{`rel="preload"`, `as="font"`, `type="font/woff2"`, "crossorigin"} {
		if !strings.Contains(tag, want) {
			t.Fatalf("tag missing %s:\n%s", want, tag)
		}
	}
}
