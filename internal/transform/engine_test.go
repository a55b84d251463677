package transform

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/codewithboateng/astrolift/internal/backup"
	"github.com/codewithboateng/astrolift/internal/project"
)

func writeSource(t *testing.T, dir, rel, text string) project.File {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		t.Fatal(err)
	}
	ext := strings.ToLower(filepath.Ext(rel))
	return project.File{Path: path, Rel: rel, Ext: ext, Text: text}
}

func newEngine(t *testing.T, dir string) *Engine {
	t.Helper()
	return &Engine{Backups: &backup.Store{Dir: filepath.Join(dir, ".astrolift-backups")}}
}

func TestFile_ModifiesWithBackup(t *testing.T) {
	dir := t.TempDir()
	f := writeSource(t, dir, "src/pages/index.astro", `<img src="/a.jpg" alt="">`)
	eng := newEngine(t, dir)

	res := eng.File(f, Policy{})
	if res.Err != nil {
		t.Fatalf("unexpected error: %v", res.Err)
	}
	if len(res.Changes) == 0 {
		t.Fatalf("expected changes for un-annotated image")
	}
	if res.Backup == "" {
		t.Fatalf("modified file must have a backup")
	}
	if got, _ := os.ReadFile(res.Backup); string(got) != f.Text {
		t.Fatalf("backup holds %q, want original", got)
	}
	onDisk, _ := os.ReadFile(f.Path)
	if !strings.Contains(string(onDisk), `loading="lazy"`) || !strings.Contains(string(onDisk), `decoding="async"`) {
		t.Fatalf("rewrites not applied:\n%s", onDisk)
	}
}

func TestFile_NoChangeTouchesNothing(t *testing.T) {
	dir := t.TempDir()
	f := writeSource(t, dir, "src/pages/plain.astro", "<p>hello</p>")
	eng := newEngine(t, dir)

	res := eng.File(f, Policy{})
	if res.Err != nil || len(res.Changes) != 0 || res.Backup != "" {
		t.Fatalf("no-op file produced %+v", res)
	}
	if _, err := os.Stat(eng.Backups.Dir); !os.IsNotExist(err) {
		t.Fatalf("backup dir created for an unmodified file")
	}
}

func TestFile_DryRunComputesWithoutWriting(t *testing.T) {
	dir := t.TempDir()
	f := writeSource(t, dir, "src/pages/index.astro", `<img src="/a.jpg" alt="">`)
	eng := newEngine(t, dir)

	res := eng.File(f, Policy{DryRun: true})
	if len(res.Changes) == 0 {
		t.Fatalf("dry run must still report the changes it would make")
	}
	if res.Backup != "" {
		t.Fatalf("dry run must not create backups")
	}
	onDisk, _ := os.ReadFile(f.Path)
	if string(onDisk) != f.Text {
		t.Fatalf("dry run wrote to disk:\n%s", onDisk)
	}
	if _, err := os.Stat(eng.Backups.Dir); !os.IsNotExist(err) {
		t.Fatalf("dry run created the backup dir")
	}
}

func TestFile_RiskyGate(t *testing.T) {
	dir := t.TempDir()
	text := `<script src="https://cdn.example.com/app.js"></script>`
	f := writeSource(t, dir, "src/pages/index.astro", text)
	eng := newEngine(t, dir)

	res := eng.File(f, Policy{})
	if len(res.Changes) != 0 {
		t.Fatalf("risky rewrite applied without opt-in: %v", res.Changes)
	}
	onDisk, _ := os.ReadFile(f.Path)
	if string(onDisk) != text {
		t.Fatalf("safe run touched a risky-only file")
	}

	res = eng.File(f, Policy{IncludeRisky: true})
	if len(res.Changes) != 1 {
		t.Fatalf("expected the defer rewrite with --include-risky, got %v", res.Changes)
	}
	onDisk, _ = os.ReadFile(f.Path)
	if !strings.Contains(string(onDisk), " defer>") {
		t.Fatalf("defer not applied:\n%s", onDisk)
	}
}

func TestFile_BackupFailureAbortsWrite(t *testing.T) {
	dir := t.TempDir()
	f := writeSource(t, dir, "src/pages/index.astro", `<img src="/a.jpg" alt="">`)

	// a regular file where the backup dir should be makes MkdirAll fail
	blocked := filepath.Join(dir, "blocked")
	if err := os.WriteFile(blocked, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	eng := &Engine{Backups: &backup.Store{Dir: blocked}}

	res := eng.File(f, Policy{})
	if res.Err == nil {
		t.Fatalf("expected backup failure to surface as the file's error")
	}
	if len(res.Changes) != 0 {
		t.Fatalf("aborted file must report no changes, got %v", res.Changes)
	}
	onDisk, _ := os.ReadFile(f.Path)
	if string(onDisk) != f.Text {
		t.Fatalf("file mutated despite failed backup:\n%s", onDisk)
	}
}

func TestRun_AggregatesPerFileResults(t *testing.T) {
	dir := t.TempDir()
	modifiable := writeSource(t, dir, "src/pages/index.astro", `<img src="/a.jpg" alt="">`)
	clean := writeSource(t, dir, "src/pages/about.astro", "<p>about</p>")
	p := &project.Project{Root: dir, Files: []project.File{modifiable, clean}}
	eng := newEngine(t, dir)

	rep := eng.Run(p, Policy{})
	if len(rep.FilesProcessed) != 2 {
		t.Fatalf("files processed: %v", rep.FilesProcessed)
	}
	if len(rep.FilesModified) != 1 || rep.FilesModified[0].File != "src/pages/index.astro" {
		t.Fatalf("files modified: %+v", rep.FilesModified)
	}
	if rep.FilesModified[0].Backup == nil {
		t.Fatalf("modified file entry missing backup path")
	}
	if rep.TotalChanges != len(rep.FilesModified[0].Changes) {
		t.Fatalf("total changes %d != %d", rep.TotalChanges, len(rep.FilesModified[0].Changes))
	}
	if len(rep.Errors) != 0 {
		t.Fatalf("unexpected errors: %+v", rep.Errors)
	}
	if rep.BackupDir != eng.Backups.Dir || rep.DryRun || rep.IncludeRisky {
		t.Fatalf("report metadata wrong: %+v", rep)
	}
}
