package golden

import (
	"encoding/json"
	"flag"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/codewithboateng/astrolift/internal/ir"
	"github.com/codewithboateng/astrolift/internal/project"
	"github.com/codewithboateng/astrolift/internal/rules"
)

var update = flag.Bool("update", false, "rewrite the golden file from current output")

const goldenFile = "expected.json"

const configMJS = `import { defineConfig } from 'astro/config';

export default defineConfig({});
`

const indexAstro = `---
const title = 'Home';
---
<html>
<head>
<title>{title}</title>
</head>
<img src="/images/photo.jpg" alt="A photo">
</html>
`

const globalCSS = `@font-face {
  font-family: 'Inter';
  src: url('/fonts/inter.woff2') format('woff2');
}
body { margin: 0; }
`

func fixtureProject(t *testing.T) *project.Project {
	t.Helper()
	root := t.TempDir()
	files := map[string]string{
		"astro.config.mjs":      configMJS,
		"src/pages/index.astro": indexAstro,
		"src/styles/global.css": globalCSS,
	}
	for rel, text := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	p, err := project.Load(root, project.SourceExts, nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return p
}

// Full-pipeline snapshot: scan a small fixture site, run every detection
// rule, and compare the serialized report against a checked-in baseline.
// Refresh with: go test ./test/golden -update
func TestAnalyzeSnapshot(t *testing.T) {
	p := fixtureProject(t)

	report := &ir.Report{ProjectPath: "PROJECT_ROOT", Findings: rules.Evaluate(p)}
	report.Summarize()

	got, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		t.Fatal(err)
	}

	if *update {
		if err := os.WriteFile(goldenFile, got, 0o644); err != nil {
			t.Fatal(err)
		}
		return
	}

	want, err := os.ReadFile(goldenFile)
	if err != nil {
		t.Fatalf("read golden: %v (run with -update to create)", err)
	}

	var gotAny, wantAny any
	if err := json.Unmarshal(got, &gotAny); err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal(want, &wantAny); err != nil {
		t.Fatalf("golden file is not valid JSON: %v", err)
	}
	if !reflect.DeepEqual(gotAny, wantAny) {
		t.Errorf("report diverged from golden baseline\ngot:\n%s", got)
	}
}
