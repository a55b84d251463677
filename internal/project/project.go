package project

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// File is one scanned source file. Rel is slash-separated and relative to
// the project root. Text is a best-effort read: unreadable files carry
// empty text rather than failing the scan.
type File struct {
	Path string
	Rel  string
	Ext  string // lower-cased, with leading dot
	Text string
}

// Project is the scanned view of one Astro site.
type Project struct {
	Root         string
	ConfigFile   string // rel path of the astro.config.* marker
	ConfigText   string
	Files        []File
	PublicAssets []string // rel paths under public/, contents not read
}

// DefaultExcludes are directory names skipped during scans.
var DefaultExcludes = []string{"node_modules", "dist", ".astro", ".astrolift-backups"}

// SourceExts is the default extension set for detection and transform.
var SourceExts = []string{".astro", ".css", ".scss"}

// ScriptExts is the wider set scanned for JS-pattern detection.
var ScriptExts = []string{".js", ".ts", ".jsx", ".tsx", ".astro", ".vue", ".svelte", ".html"}

// FindRoot walks up from start looking for an astro.config.* marker file.
// When several match in one directory the first in read order wins; that
// ambiguity is deliberate and documented, not resolved. Returns the root
// directory and the marker's name.
func FindRoot(start string) (string, string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", "", err
	}
	if fi, err := os.Stat(dir); err == nil && !fi.IsDir() {
		dir = filepath.Dir(dir)
	} else if err != nil {
		return "", "", err
	}
	for {
		matches, _ := filepath.Glob(filepath.Join(dir, "astro.config.*"))
		if len(matches) > 0 {
			sort.Strings(matches)
			return dir, filepath.Base(matches[0]), nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", "", os.ErrNotExist
		}
		dir = parent
	}
}

// Load scans root's src/ subtree for files matching exts, reads the config
// marker, and lists public/ assets. Read failures on individual files are
// logged and tolerated.
func Load(root string, exts, excludes []string) (*Project, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	p := &Project{Root: abs}

	matches, _ := filepath.Glob(filepath.Join(abs, "astro.config.*"))
	if len(matches) > 0 {
		sort.Strings(matches)
		p.ConfigFile = filepath.Base(matches[0])
		p.ConfigText = readBestEffort(matches[0])
	}

	if len(excludes) == 0 {
		excludes = DefaultExcludes
	}
	skip := make(map[string]bool, len(excludes))
	for _, d := range excludes {
		skip[d] = true
	}

	srcDir := filepath.Join(abs, "src")
	_ = filepath.WalkDir(srcDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if skip[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		ext := strings.ToLower(filepath.Ext(d.Name()))
		if !hasExt(exts, ext) {
			return nil
		}
		rel, rerr := filepath.Rel(abs, path)
		if rerr != nil {
			return nil
		}
		p.Files = append(p.Files, File{
			Path: path,
			Rel:  filepath.ToSlash(rel),
			Ext:  ext,
			Text: readBestEffort(path),
		})
		return nil
	})

	publicDir := filepath.Join(abs, "public")
	_ = filepath.WalkDir(publicDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		rel, rerr := filepath.Rel(abs, path)
		if rerr != nil {
			return nil
		}
		p.PublicAssets = append(p.PublicAssets, filepath.ToSlash(rel))
		return nil
	})

	return p, nil
}

// FilesByExt returns the scanned files whose extension is in exts,
// preserving scan order.
func (p *Project) FilesByExt(exts ...string) []File {
	var out []File
	for _, f := range p.Files {
		if hasExt(exts, f.Ext) {
			out = append(out, f)
		}
	}
	return out
}

// Layouts returns the .astro files that act as site layouts: anything under
// a layouts/ directory, or whose base name starts with "Layout".
func (p *Project) Layouts() []File {
	var out []File
	for _, f := range p.Files {
		if f.Ext != ".astro" {
			continue
		}
		base := filepath.Base(f.Rel)
		if strings.Contains(f.Rel, "/layouts/") || strings.HasPrefix(base, "Layout") {
			out = append(out, f)
		}
	}
	return out
}

func hasExt(exts []string, ext string) bool {
	for _, e := range exts {
		if e == ext {
			return true
		}
	}
	return false
}

func readBestEffort(path string) string {
	b, err := os.ReadFile(path)
	if err != nil {
		slog.Warn("unreadable file, treating as empty", "path", path, "err", err)
		return ""
	}
	return string(b)
}

// Line computes the 1-based line number of a byte offset in text.
func Line(text string, offset int) int {
	if offset > len(text) {
		offset = len(text)
	}
	return 1 + strings.Count(text[:offset], "\n")
}
