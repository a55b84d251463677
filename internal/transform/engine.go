// Package transform applies the rewrite-capable, risk-gated subset of the
// rule catalog to project files, snapshotting originals before any write.
package transform

import (
	"fmt"
	"log/slog"

	"github.com/codewithboateng/astrolift/internal/backup"
	"github.com/codewithboateng/astrolift/internal/ir"
	"github.com/codewithboateng/astrolift/internal/project"
	"github.com/codewithboateng/astrolift/internal/rules"
)

// Policy gates which rewrites run and whether anything is persisted.
type Policy struct {
	IncludeRisky bool
	// DryRun computes the full transform result but skips backup and write.
	DryRun bool
}

type Engine struct {
	Backups *backup.Store
	Logger  *slog.Logger
}

// File applies every applicable rewrite rule to text, in catalog order.
// Each rule sees the current (possibly already-edited) text. If the final
// text differs from the original, the file is snapshotted and then written;
// otherwise nothing touches the disk. A failed snapshot aborts the write
// (fail-closed) and is reported as the file's error.
func (e *Engine) File(f project.File, pol Policy) ir.FileResult {
	res := ir.FileResult{File: f.Rel}
	cur := f.Text

	for _, r := range rules.Rewriters() {
		if !ruleApplies(r, f.Ext) {
			continue
		}
		if r.Risk == ir.RiskRisky && !pol.IncludeRisky {
			continue
		}
		next, changes, err := applyRewrite(r, cur)
		if err != nil {
			// One broken rewrite must not poison the other rules' edits.
			e.log().Warn("rewrite failed, skipping rule", "rule", r.ID, "file", f.Rel, "err", err)
			continue
		}
		cur = next
		res.Changes = append(res.Changes, changes...)
	}

	if cur == f.Text {
		// No edit took effect; change descriptions without a text delta
		// would break the backup-iff-modified invariant.
		res.Changes = nil
		return res
	}
	if pol.DryRun {
		return res
	}

	rec, err := e.Backups.Snapshot(f.Path)
	if err != nil {
		res.Changes = nil
		res.Err = fmt.Errorf("backup failed, mutation aborted: %w", err)
		return res
	}
	res.Backup = rec.BackupPath

	if err := backup.WriteFileAtomic(f.Path, []byte(cur)); err != nil {
		res.Changes = nil
		res.Err = fmt.Errorf("write: %w", err)
		return res
	}
	return res
}

// Run transforms every scanned source file and folds per-file results into
// the fix-mode report. Per-file errors are recorded and do not stop the run.
func (e *Engine) Run(p *project.Project, pol Policy) ir.TransformReport {
	rep := ir.TransformReport{
		ProjectPath:    p.Root,
		BackupDir:      e.Backups.Dir,
		IncludeRisky:   pol.IncludeRisky,
		DryRun:         pol.DryRun,
		FilesProcessed: []string{},
		FilesModified:  []ir.ModifiedFile{},
		Errors:         []ir.FileError{},
	}
	for _, f := range p.FilesByExt(project.SourceExts...) {
		res := e.File(f, pol)
		rep.FilesProcessed = append(rep.FilesProcessed, f.Rel)
		if res.Err != nil {
			rep.Errors = append(rep.Errors, ir.FileError{File: f.Rel, Error: res.Err.Error()})
			continue
		}
		if len(res.Changes) == 0 {
			continue
		}
		mf := ir.ModifiedFile{File: f.Rel, Changes: res.Changes}
		if res.Backup != "" {
			b := res.Backup
			mf.Backup = &b
		}
		rep.FilesModified = append(rep.FilesModified, mf)
		rep.TotalChanges += len(res.Changes)
	}
	return rep
}

func ruleApplies(r rules.Rule, ext string) bool {
	if len(r.Exts) == 0 {
		return true
	}
	for _, e := range r.Exts {
		if e == ext {
			return true
		}
	}
	return false
}

func applyRewrite(r rules.Rule, text string) (out string, changes []string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			out = text
			changes = nil
			err = fmt.Errorf("panic: %v", rec)
		}
	}()
	out, changes = r.Rewrite(text)
	return out, changes, nil
}

func (e *Engine) log() *slog.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return slog.Default()
}
