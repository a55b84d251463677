package rules

import (
	"strings"
	"testing"

	"github.com/codewithboateng/astrolift/internal/ir"
	"github.com/codewithboateng/astrolift/internal/project"
)

// countByRule evaluates the full catalog and indexes findings by rule id.
func countByRule(p *project.Project) map[string][]ir.Finding {
	out := map[string][]ir.Finding{}
	for _, f := range Evaluate(p) {
		out[f.RuleID] = append(out[f.RuleID], f)
	}
	return out
}

func TestImageCLS_DetectsMissingDimensions(t *testing.T) {
	p := sitePage("<img src=\"/a.jpg\" alt=\"\">\n<img src=\"/b.jpg\" alt=\"\">")
	found := countByRule(p)["image_cls"]
	if len(found) != 1 {
		t.Fatalf("expected one finding per file, got %d", len(found))
	}
	if found[0].Line == nil || *found[0].Line != 1 {
		t.Fatalf("expected line 1, got %v", found[0].Line)
	}

	p = sitePage(`<img src="/a.jpg" width="800" height="600" alt="">`)
	if fs := countByRule(p)["image_cls"]; len(fs) != 0 {
		t.Fatalf("dimensioned image still flagged: %+v", fs)
	}
}

func TestImageLoading_Detection(t *testing.T) {
	p := sitePage(`<img src="/a.jpg" alt="">`)
	if fs := countByRule(p)["image_loading"]; len(fs) != 1 {
		t.Fatalf("expected image_loading finding, got %+v", fs)
	}
	p = sitePage(`<img src="/a.jpg" loading="lazy" alt="">`)
	if fs := countByRule(p)["image_loading"]; len(fs) != 0 {
		t.Fatalf("annotated image still flagged: %+v", fs)
	}
}

func TestImagePriority_HeroDetection(t *testing.T) {
	p := sitePage(`<section class="hero"><img src="/hero.jpg" alt=""></section>`)
	if fs := countByRule(p)["image_priority"]; len(fs) != 1 {
		t.Fatalf("expected hero page flagged, got %+v", fs)
	}
	p = sitePage(`<section class="hero"><img src="/hero.jpg" fetchpriority="high" alt=""></section>`)
	if fs := countByRule(p)["image_priority"]; len(fs) != 0 {
		t.Fatalf("page with fetchpriority still flagged: %+v", fs)
	}
}

func TestFontExternal_GoogleFonts(t *testing.T) {
	p := sitePage(`<link href="https://fonts.googleapis.com/css2?family=Inter" rel="stylesheet">`)
	fs := countByRule(p)["font_external"]
	if len(fs) != 1 {
		t.Fatalf("expected google fonts flagged, got %+v", fs)
	}
	if fs[0].Risk != ir.RiskRisky {
		t.Fatalf("font_external should be risky, got %s", fs[0].Risk)
	}
}

func TestScriptBlocking_LineAndDeferSkip(t *testing.T) {
	text := "<html>\n<head>\n<script src=\"https://cdn.example.com/app.js\"></script>\n</head>\n</html>"
	p := sitePage(text)
	fs := countByRule(p)["script_blocking"]
	if len(fs) != 1 {
		t.Fatalf("expected blocking script flagged, got %+v", fs)
	}
	if fs[0].Line == nil || *fs[0].Line != 3 {
		t.Fatalf("expected line 3, got %v", fs[0].Line)
	}

	p = sitePage(`<script src="https://cdn.example.com/app.js" defer></script>`)
	if fs := countByRule(p)["script_blocking"]; len(fs) != 0 {
		t.Fatalf("deferred script still flagged: %+v", fs)
	}
}

func TestScriptTracking_DelayedLoadSkipped(t *testing.T) {
	p := sitePage(`<script>gtag('config', 'G-1');</script>`)
	if fs := countByRule(p)["script_tracking"]; len(fs) != 1 {
		t.Fatalf("expected tracking script flagged, got %+v", fs)
	}
	p = sitePage(`<script>setTimeout(() => gtag('config', 'G-1'), 3000);</script>`)
	if fs := countByRule(p)["script_tracking"]; len(fs) != 0 {
		t.Fatalf("delayed tracking still flagged: %+v", fs)
	}
}

func TestFontPreload_SatisfiedByLayout(t *testing.T) {
	css := project.File{Rel: "src/styles/fonts.css", Ext: ".css",
		Text: `@font-face { font-family: X; src: url("/fonts/x.woff2"); }`}

	p := &project.Project{Root: "/tmp/site", Files: []project.File{css}}
	if fs := countByRule(p)["font_preload"]; len(fs) != 1 {
		t.Fatalf("expected font_preload finding, got %+v", fs)
	}

	layout := project.File{Rel: "src/layouts/Base.astro", Ext: ".astro",
		Text: `<link rel="preload" href="/fonts/x.woff2" as="font" type="font/woff2" crossorigin>`}
	p = &project.Project{Root: "/tmp/site", Files: []project.File{css, layout}}
	if fs := countByRule(p)["font_preload"]; len(fs) != 0 {
		t.Fatalf("preloaded font still flagged: %+v", fs)
	}
}

func TestPreconnect_OriginAccounting(t *testing.T) {
	page := project.File{Rel: "src/pages/index.astro", Ext: ".astro",
		Text: `<script src="https://cdn.example.com/app.js" defer></script>`}

	p := &project.Project{Root: "/tmp/site", Files: []project.File{page}}
	fs := countByRule(p)["preconnect"]
	if len(fs) != 1 {
		t.Fatalf("expected preconnect finding, got %+v", fs)
	}
	if !strings.Contains(fs[0].Message, "https://cdn.example.com") {
		t.Fatalf("missing origin not named: %q", fs[0].Message)
	}

	layout := project.File{Rel: "src/layouts/Base.astro", Ext: ".astro",
		Text: `<link rel="preconnect" href="https://cdn.example.com">`}
	p = &project.Project{Root: "/tmp/site", Files: []project.File{page, layout}}
	if fs := countByRule(p)["preconnect"]; len(fs) != 0 {
		t.Fatalf("preconnected origin still flagged: %+v", fs)
	}
}

func TestConfigRules(t *testing.T) {
	p := &project.Project{
		Root:       "/tmp/site",
		ConfigFile: "astro.config.mjs",
		ConfigText: "export default defineConfig({});",
	}
	byRule := countByRule(p)
	for _, id := range []string{"prefetch_config", "config_image", "config_compress"} {
		fs := byRule[id]
		if len(fs) != 1 {
			t.Fatalf("expected %s finding, got %+v", id, fs)
		}
		if fs[0].File != "astro.config.mjs" {
			t.Fatalf("%s should target the config file, got %s", id, fs[0].File)
		}
		if !fs[0].AutoFixable {
			t.Fatalf("%s should be auto-fixable", id)
		}
	}

	p.ConfigText = "export default defineConfig({ prefetch: true, image: {}, compressHTML: true });"
	byRule = countByRule(p)
	for _, id := range []string{"prefetch_config", "config_image", "config_compress"} {
		if fs := byRule[id]; len(fs) != 0 {
			t.Fatalf("configured project still flagged by %s: %+v", id, fs)
		}
	}

	// No config marker at all: config rules stay silent.
	p = &project.Project{Root: "/tmp/site"}
	byRule = countByRule(p)
	for _, id := range []string{"prefetch_config", "config_image", "config_compress"} {
		if fs := byRule[id]; len(fs) != 0 {
			t.Fatalf("%s fired without a config file: %+v", id, fs)
		}
	}
}

func TestImageFormat_PublicAssets(t *testing.T) {
	p := &project.Project{
		Root:         "/tmp/site",
		PublicAssets: []string{"public/images/photo.JPG", "public/images/icon.svg", "public/hero.webp"},
	}
	fs := countByRule(p)["image_format"]
	if len(fs) != 1 {
		t.Fatalf("expected only the legacy-format asset flagged, got %+v", fs)
	}
	if fs[0].File != "public/images/photo.JPG" {
		t.Fatalf("wrong asset flagged: %s", fs[0].File)
	}
}

func TestCSSContentVisibility_ProjectScope(t *testing.T) {
	css := project.File{Rel: "src/styles/global.css", Ext: ".css", Text: "body { margin: 0; }"}
	p := &project.Project{Root: "/tmp/site", Files: []project.File{css}}
	if fs := countByRule(p)["css_content_visibility"]; len(fs) != 1 {
		t.Fatalf("expected css_content_visibility finding, got %+v", fs)
	}

	css.Text = ".below-fold { content-visibility: auto; }"
	p = &project.Project{Root: "/tmp/site", Files: []project.File{css}}
	if fs := countByRule(p)["css_content_visibility"]; len(fs) != 0 {
		t.Fatalf("project using content-visibility still flagged: %+v", fs)
	}
}
