package rulesdsl

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/codewithboateng/astrolift/internal/project"
	"github.com/codewithboateng/astrolift/internal/rules"
)

func writePack(t *testing.T, text string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pack.yaml")
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadAndRegister(t *testing.T) {
	pack := `
rules:
  - id: team_no_inline_styles
    category: markup
    severity: low
    risk: safe
    summary: Inline style attributes bypass the design system.
    message: Inline style attribute found
    suggestion: Move styles into a stylesheet
    where:
      ext: [".astro"]
      regex: 'style="'
`
	n, err := LoadAndRegister(writePack(t, pack))
	if err != nil || n != 1 {
		t.Fatalf("LoadAndRegister: n=%d err=%v", n, err)
	}

	r, ok := rules.Get("team_no_inline_styles")
	if !ok {
		t.Fatalf("pack rule not registered")
	}
	if r.Severity != "low" || r.Risk != "safe" || r.Rewrite != nil {
		t.Fatalf("pack rule misconfigured: %+v", r)
	}

	p := &project.Project{
		Root: "/tmp/site",
		Files: []project.File{
			{Rel: "src/pages/index.astro", Ext: ".astro", Text: "<div style=\"color: red\">x</div>\n"},
			{Rel: "src/styles/site.css", Ext: ".css", Text: "div { style=\"nope\" }"},
		},
	}
	var hits []string
	for _, f := range rules.Evaluate(p) {
		if f.RuleID == "team_no_inline_styles" {
			hits = append(hits, f.File)
			if f.Line == nil || *f.Line != 1 {
				t.Fatalf("line: %v", f.Line)
			}
			if f.Message != "Inline style attribute found" {
				t.Fatalf("message: %q", f.Message)
			}
		}
	}
	if len(hits) != 1 || hits[0] != "src/pages/index.astro" {
		t.Fatalf("ext filter not honored: %v", hits)
	}
}

func TestLoadAndRegister_NotRegex(t *testing.T) {
	pack := `
rules:
  - id: team_jquery
    severity: medium
    message: jQuery usage found
    where:
      regex: 'jquery'
      not_regex: 'jquery-migrate'
`
	if n, err := LoadAndRegister(writePack(t, pack)); err != nil || n != 1 {
		t.Fatalf("LoadAndRegister: n=%d err=%v", n, err)
	}

	p := &project.Project{
		Root: "/tmp/site",
		Files: []project.File{
			{Rel: "src/pages/a.astro", Ext: ".astro", Text: `<script src="/js/jquery.min.js"></script>`},
			{Rel: "src/pages/b.astro", Ext: ".astro", Text: `<script src="/js/jquery-migrate.js"></script>`},
		},
	}
	var hits []string
	for _, f := range rules.Evaluate(p) {
		if f.RuleID == "team_jquery" {
			hits = append(hits, f.File)
		}
	}
	if len(hits) != 1 || hits[0] != "src/pages/a.astro" {
		t.Fatalf("not_regex not honored: %v", hits)
	}
}

func TestCompile_Validation(t *testing.T) {
	bad := []dslRule{
		{},                           // everything missing
		{ID: "x", Severity: "low"},   // no message/regex
		{ID: "x", Severity: "loud", Message: "m"}, // bad severity
	}
	bad[1].Where.Regex = "y"
	bad[2].Where.Regex = "y"
	for i, r := range bad {
		if _, err := compile(r); err == nil {
			t.Fatalf("case %d: expected compile error", i)
		}
	}

	broken := dslRule{ID: "x", Severity: "low", Message: "m"}
	broken.Where.Regex = "("
	if _, err := compile(broken); err == nil {
		t.Fatalf("invalid regex must not compile")
	}
}
