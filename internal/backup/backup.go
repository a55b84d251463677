// Package backup provides the append-only snapshot store consulted before
// any file mutation. Backups are never overwritten or deleted; retention is
// left to the operator.
package backup

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"
)

// Record describes one durable snapshot of a file about to be mutated.
type Record struct {
	OriginalPath string    `json:"original_path"`
	BackupPath   string    `json:"backup_path"`
	Timestamp    time.Time `json:"timestamp"`
}

// Store writes snapshots into a single project-local directory. The
// directory is excluded from scans, so backups never feed back into
// analysis.
type Store struct {
	Dir string
}

// Snapshot copies path's current on-disk bytes into the backup area,
// named <base>.<timestamp>.bak. The nanosecond timestamp plus exclusive
// create keeps names collision-free even when files are snapshotted
// concurrently. Must be called strictly before the new content is written.
func (s *Store) Snapshot(path string) (Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Record{}, fmt.Errorf("read original: %w", err)
	}
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return Record{}, err
	}
	base := filepath.Base(path)
	for {
		ts := time.Now().UTC()
		name := fmt.Sprintf("%s.%s.bak", base, ts.Format("20060102_150405.000000000"))
		dst := filepath.Join(s.Dir, name)
		f, err := os.OpenFile(dst, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
		if errors.Is(err, os.ErrExist) {
			continue
		}
		if err != nil {
			return Record{}, err
		}
		if _, err := f.Write(data); err != nil {
			f.Close()
			return Record{}, err
		}
		if err := f.Sync(); err != nil {
			f.Close()
			return Record{}, err
		}
		if err := f.Close(); err != nil {
			return Record{}, err
		}
		return Record{OriginalPath: path, BackupPath: dst, Timestamp: ts}, nil
	}
}

// List returns backup file names for base (all, oldest first), or every
// backup when base is empty.
func (s *Store) List(base string) ([]string, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".bak") {
			continue
		}
		if base != "" && !strings.HasPrefix(e.Name(), base+".") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

// RestoreLatest re-installs the newest backup of destPath's base name.
func (s *Store) RestoreLatest(destPath string) (string, error) {
	names, err := s.List(filepath.Base(destPath))
	if err != nil {
		return "", err
	}
	if len(names) == 0 {
		return "", fmt.Errorf("no backups for %s", filepath.Base(destPath))
	}
	latest := filepath.Join(s.Dir, names[len(names)-1])
	data, err := os.ReadFile(latest)
	if err != nil {
		return "", err
	}
	if err := WriteFileAtomic(destPath, data); err != nil {
		return "", err
	}
	return latest, nil
}

// WriteFileAtomic writes bytes to a temp file then renames into place,
// fsyncing data before the rename.
func WriteFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp := fmt.Sprintf("%s.tmp.%d", path, os.Getpid())
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return syncDir(dir)
}

func syncDir(dir string) error {
	if runtime.GOOS == "windows" {
		return nil
	}
	d, err := os.Open(dir)
	if err != nil {
		return nil
	}
	defer d.Close()
	return d.Sync()
}
