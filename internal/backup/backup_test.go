package backup

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSnapshotAndRestoreLatest(t *testing.T) {
	dir := t.TempDir()
	store := &Store{Dir: filepath.Join(dir, "backups")}
	target := filepath.Join(dir, "index.astro")

	if err := os.WriteFile(target, []byte("v1"), 0o644); err != nil {
		t.Fatal(err)
	}
	rec1, err := store.Snapshot(target)
	if err != nil {
		t.Fatalf("snapshot v1: %v", err)
	}
	if got, _ := os.ReadFile(rec1.BackupPath); string(got) != "v1" {
		t.Fatalf("backup holds %q, want v1", got)
	}

	if err := os.WriteFile(target, []byte("v2"), 0o644); err != nil {
		t.Fatal(err)
	}
	rec2, err := store.Snapshot(target)
	if err != nil {
		t.Fatalf("snapshot v2: %v", err)
	}
	if rec1.BackupPath == rec2.BackupPath {
		t.Fatalf("snapshots collided on %s", rec1.BackupPath)
	}

	names, err := store.List("index.astro")
	if err != nil || len(names) != 2 {
		t.Fatalf("List: %v %v", names, err)
	}
	if !strings.HasPrefix(names[0], "index.astro.") || !strings.HasSuffix(names[0], ".bak") {
		t.Fatalf("unexpected backup name %q", names[0])
	}

	// corrupt the file, then roll back to the newest snapshot
	if err := os.WriteFile(target, []byte("broken"), 0o644); err != nil {
		t.Fatal(err)
	}
	from, err := store.RestoreLatest(target)
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if filepath.Base(from) != names[1] {
		t.Fatalf("restored from %s, want newest %s", filepath.Base(from), names[1])
	}
	if got, _ := os.ReadFile(target); string(got) != "v2" {
		t.Fatalf("restored content %q, want v2", got)
	}
}

func TestSnapshot_MissingOriginalFails(t *testing.T) {
	dir := t.TempDir()
	store := &Store{Dir: filepath.Join(dir, "backups")}
	if _, err := store.Snapshot(filepath.Join(dir, "nope.astro")); err == nil {
		t.Fatalf("expected error for missing original")
	}
	if _, err := os.Stat(store.Dir); !os.IsNotExist(err) {
		t.Fatalf("failed snapshot should not create the backup dir")
	}
}

func TestList_FiltersByBase(t *testing.T) {
	dir := t.TempDir()
	store := &Store{Dir: filepath.Join(dir, "backups")}

	for _, name := range []string{"a.css", "b.css"} {
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, []byte(name), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := store.Snapshot(p); err != nil {
			t.Fatal(err)
		}
	}

	names, err := store.List("a.css")
	if err != nil || len(names) != 1 {
		t.Fatalf("filtered list: %v %v", names, err)
	}
	all, err := store.List("")
	if err != nil || len(all) != 2 {
		t.Fatalf("full list: %v %v", all, err)
	}
}

func TestRestoreLatest_NoBackups(t *testing.T) {
	store := &Store{Dir: filepath.Join(t.TempDir(), "backups")}
	if _, err := store.RestoreLatest("whatever.astro"); err == nil {
		t.Fatalf("expected error with no backups")
	}
}

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sub", "out.txt")

	if err := WriteFileAtomic(path, []byte("one")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := WriteFileAtomic(path, []byte("two")); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	if got, _ := os.ReadFile(path); string(got) != "two" {
		t.Fatalf("content %q, want two", got)
	}

	entries, _ := os.ReadDir(filepath.Dir(path))
	for _, e := range entries {
		if strings.Contains(e.Name(), ".tmp.") {
			t.Fatalf("temp file left behind: %s", e.Name())
		}
	}
}
