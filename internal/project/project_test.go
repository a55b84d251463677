package project

import (
	"os"
	"path/filepath"
	"testing"
)

func scaffold(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, text := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func TestFindRoot_WalksUp(t *testing.T) {
	root := scaffold(t, map[string]string{
		"astro.config.mjs":      "export default {}",
		"src/pages/index.astro": "<html></html>",
	})

	got, marker, err := FindRoot(filepath.Join(root, "src", "pages"))
	if err != nil {
		t.Fatalf("FindRoot: %v", err)
	}
	if got != root || marker != "astro.config.mjs" {
		t.Fatalf("got root=%s marker=%s", got, marker)
	}

	// starting at a file resolves from its directory
	got, _, err = FindRoot(filepath.Join(root, "src", "pages", "index.astro"))
	if err != nil || got != root {
		t.Fatalf("from file: root=%s err=%v", got, err)
	}
}

func TestFindRoot_AmbiguousMarkerPicksFirstSorted(t *testing.T) {
	root := scaffold(t, map[string]string{
		"astro.config.ts":  "",
		"astro.config.mjs": "",
	})
	_, marker, err := FindRoot(root)
	if err != nil {
		t.Fatalf("FindRoot: %v", err)
	}
	if marker != "astro.config.mjs" {
		t.Fatalf("expected sorted-first marker astro.config.mjs, got %s", marker)
	}
}

func TestFindRoot_NoMarker(t *testing.T) {
	if _, _, err := FindRoot(t.TempDir()); err == nil {
		t.Fatalf("expected error with no astro.config.* anywhere up the tree")
	}
}

func TestLoad_ScansAndExcludes(t *testing.T) {
	root := scaffold(t, map[string]string{
		"astro.config.mjs":                      "export default {}",
		"src/pages/index.astro":                 "<html></html>",
		"src/styles/global.css":                 "body {}",
		"src/notes.md":                          "ignored extension",
		"src/node_modules/pkg/component.astro":  "excluded dir",
		"src/.astrolift-backups/index.astro.bak": "excluded dir",
		"public/images/photo.jpg":               "binary-ish",
	})

	p, err := Load(root, SourceExts, nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if p.ConfigFile != "astro.config.mjs" || p.ConfigText == "" {
		t.Fatalf("config not read: %+v", p.ConfigFile)
	}

	rels := map[string]bool{}
	for _, f := range p.Files {
		rels[f.Rel] = true
	}
	if !rels["src/pages/index.astro"] || !rels["src/styles/global.css"] {
		t.Fatalf("expected sources missing: %v", rels)
	}
	if len(p.Files) != 2 {
		t.Fatalf("excluded/ignored files leaked into scan: %v", rels)
	}
	if len(p.PublicAssets) != 1 || p.PublicAssets[0] != "public/images/photo.jpg" {
		t.Fatalf("public assets: %v", p.PublicAssets)
	}
}

func TestLayouts(t *testing.T) {
	p := &Project{Files: []File{
		{Rel: "src/layouts/Base.astro", Ext: ".astro"},
		{Rel: "src/components/LayoutShell.astro", Ext: ".astro"},
		{Rel: "src/pages/index.astro", Ext: ".astro"},
		{Rel: "src/layouts/tokens.css", Ext: ".css"},
	}}
	got := p.Layouts()
	if len(got) != 2 {
		t.Fatalf("layouts: %+v", got)
	}
}

func TestLine(t *testing.T) {
	text := "a\nbb\nccc"
	cases := []struct {
		off, want int
	}{
		{0, 1}, {1, 1}, {2, 2}, {5, 3}, {100, 3},
	}
	for _, c := range cases {
		if got := Line(text, c.off); got != c.want {
			t.Fatalf("Line(%d) = %d, want %d", c.off, got, c.want)
		}
	}
}
