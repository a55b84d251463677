package main

import (
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/codewithboateng/astrolift/internal/ir"
	"github.com/codewithboateng/astrolift/internal/project"
	"github.com/codewithboateng/astrolift/internal/reporting"
	"github.com/codewithboateng/astrolift/internal/rules"
	"github.com/codewithboateng/astrolift/internal/shared"
)

func watchCmd(args []string) {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to YAML config (optional)")
	inPath := fs.String("path", "", "Path to the Astro project")
	outDir := fs.String("out", "", "Output directory for reports")
	minSeverity := fs.String("min-severity", "", "Minimum severity to report (low|medium|high)")
	_ = fs.Parse(args)

	cfg, _ := shared.LoadConfig(*configPath)
	shared.InitLogger(cfg.Logging.Format, cfg.Logging.Level)
	if *outDir == "" {
		*outDir = cfg.Reporting.OutDir
	}

	applyRuleConfig(cfg, *minSeverity, "")
	start := *inPath
	if start == "" {
		start = "."
	}
	root, _, err := project.FindRoot(start)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: no Astro project found at or above %s (missing astro.config.*)\n", start)
		os.Exit(1)
	}

	slog.Info("watching project", "root", root)
	runWatch(root, cfg, *outDir, nil)
}

// runWatch re-analyzes the project on every source change, debounced so a
// save burst triggers one scan. The backup and report directories are
// excluded to keep the tool's own writes from re-triggering it.
func runWatch(root string, cfg shared.Config, outDir string, stop <-chan struct{}) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		slog.Error("watch init failed", "err", err)
		os.Exit(1)
	}
	defer watcher.Close()

	if err := addWatchRecursive(watcher, filepath.Join(root, "src")); err != nil {
		slog.Error("watch failed", "err", err)
		os.Exit(1)
	}

	excludes := append(append([]string{}, project.DefaultExcludes...), cfg.Project.Exclude...)
	skip := func(path string) bool {
		for _, d := range excludes {
			if strings.Contains(path, string(filepath.Separator)+d+string(filepath.Separator)) ||
				strings.HasSuffix(path, string(filepath.Separator)+d) {
				return true
			}
		}
		return false
	}

	var timer *time.Timer
	debounce := 300 * time.Millisecond
	trigger := func() {
		p, err := project.Load(root, project.SourceExts, excludes)
		if err != nil {
			slog.Error("rescan failed", "err", err)
			return
		}
		rep := ir.Report{ProjectPath: p.Root, Findings: rules.Evaluate(p)}
		rep.Summarize()

		run := newRun("analyze", p.Root)
		run.Report = &rep
		if path, err := reporting.WriteJSON(run.ID, outDir, &run); err == nil {
			slog.Info("rescan complete", "findings", rep.Summary.Total, "report", path)
		} else {
			slog.Error("write report failed", "err", err)
		}

		// new directories appear between scans
		_ = addWatchRecursive(watcher, filepath.Join(root, "src"))
	}

	for {
		select {
		case <-stop:
			return
		case ev := <-watcher.Events:
			if skip(ev.Name) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounce, trigger)
		case err := <-watcher.Errors:
			slog.Error("watch error", "err", err)
		}
	}
}

func addWatchRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			for _, skip := range project.DefaultExcludes {
				if d.Name() == skip {
					return filepath.SkipDir
				}
			}
			return w.Add(path)
		}
		return nil
	})
}
