package main

import (
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/codewithboateng/astrolift/internal/api"
	"github.com/codewithboateng/astrolift/internal/backup"
	"github.com/codewithboateng/astrolift/internal/ir"
	"github.com/codewithboateng/astrolift/internal/patterns"
	"github.com/codewithboateng/astrolift/internal/preload"
	"github.com/codewithboateng/astrolift/internal/project"
	"github.com/codewithboateng/astrolift/internal/reporting"
	"github.com/codewithboateng/astrolift/internal/rules"
	"github.com/codewithboateng/astrolift/internal/rulesdsl"
	"github.com/codewithboateng/astrolift/internal/security"
	"github.com/codewithboateng/astrolift/internal/shared"
	"github.com/codewithboateng/astrolift/internal/storage"
	"github.com/codewithboateng/astrolift/internal/transform"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	switch os.Args[1] {
	case "analyze":
		analyzeCmd(os.Args[2:])
	case "optimize":
		optimizeCmd(os.Args[2:])
	case "preload":
		preloadCmd(os.Args[2:])
	case "patterns":
		patternsCmd(os.Args[2:])
	case "report":
		reportCmd(os.Args[2:])
	case "restore":
		restoreCmd(os.Args[2:])
	case "serve":
		serveCmd(os.Args[2:])
	case "watch":
		watchCmd(os.Args[2:])
	case "user":
		userCmd(os.Args[2:])
	case "version":
		fmt.Println("astrolift IR:", ir.Version)
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `astrolift – Astro site performance analyzer and fixer

Usage:
  astrolift analyze  --path <project-dir> [--out ./reports] [--db ./astrolift.db] [--min-severity low] [--pack rules.yaml] [--config ./astrolift.yaml]
  astrolift optimize --path <project-dir> [--include-risky] [--dry-run] [--backup-dir .astrolift-backups] [--out ./reports] [--db ./astrolift.db] [--config ./astrolift.yaml]
  astrolift preload  --path <project-dir> [--out ./reports] [--db ./astrolift.db] [--config ./astrolift.yaml]
  astrolift patterns --path <project-dir> [--out ./reports] [--db ./astrolift.db] [--config ./astrolift.yaml]
  astrolift report   --run <run-id> [--out ./reports] [--db ./astrolift.db] [--config ./astrolift.yaml]
  astrolift restore  --path <project-dir> [--file <rel-path>] [--list] [--backup-dir .astrolift-backups]
  astrolift serve    [--addr :8787] [--db ./astrolift.db] [--config ./astrolift.yaml]
  astrolift watch    --path <project-dir> [--config ./astrolift.yaml]
  astrolift user add --username <name> --password <pw> [--role viewer] [--db ./astrolift.db]
  astrolift version
`)
}

// resolveProject walks up from path to the astro.config.* marker and scans
// the tree. Any failure to locate the project is a hard exit.
func resolveProject(path string, exts []string, cfg shared.Config) *project.Project {
	if path == "" {
		path = "."
	}
	root, marker, err := project.FindRoot(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: no Astro project found at or above %s (missing astro.config.*)\n", path)
		os.Exit(1)
	}
	excludes := append(append([]string{}, project.DefaultExcludes...), cfg.Project.Exclude...)
	p, err := project.Load(root, exts, excludes)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: cannot scan project %s: %v\n", root, err)
		os.Exit(1)
	}
	slog.Info("project resolved", "root", root, "marker", marker, "files", len(p.Files))
	return p
}

func applyRuleConfig(cfg shared.Config, minSeverity, pack string) {
	st := rules.Settings{SeverityThreshold: cfg.Rules.SeverityThreshold, Disabled: map[string]bool{}}
	if minSeverity != "" {
		st.SeverityThreshold = minSeverity
	}
	for _, id := range cfg.Rules.Disabled {
		st.Disabled[id] = true
	}
	rules.SetSettings(st)

	packs := cfg.Rules.Packs
	if pack != "" {
		packs = append(packs, pack)
	}
	for _, p := range packs {
		n, err := rulesdsl.LoadAndRegister(p)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: rule pack %s: %v\n", p, err)
			os.Exit(1)
		}
		slog.Info("rule pack loaded", "pack", p, "rules", n)
	}
}

func openDB(dbPath string) *storage.DB {
	db, err := storage.OpenSQLite(dbPath)
	if err != nil {
		slog.Error("db open error", "err", err)
		os.Exit(1)
	}
	if err := db.CreateSchema(); err != nil {
		slog.Error("db schema error", "err", err)
		os.Exit(1)
	}
	return db
}

func saveAndReport(db *storage.DB, run *ir.Run, outDir string) {
	if err := db.SaveRun(run); err != nil {
		slog.Error("db save run error", "err", err)
		os.Exit(1)
	}
	jsonPath, err := reporting.WriteJSON(run.ID, outDir, run)
	if err != nil {
		slog.Error("write json report error", "err", err)
		os.Exit(1)
	}
	htmlPath, _ := reporting.WriteHTML(run.ID, outDir, run)
	fmt.Printf("OK\n  Run: %s\n  JSON: %s\n  HTML: %s\n", run.ID, jsonPath, htmlPath)
}

func newRun(kind, projectPath string) ir.Run {
	now := time.Now()
	return ir.Run{
		ID:          fmt.Sprintf("run-%d", now.UnixNano()),
		StartedAt:   now.UTC(),
		Kind:        kind,
		ProjectPath: projectPath,
		IRVersion:   ir.Version,
	}
}

func analyzeCmd(args []string) {
	fs := flag.NewFlagSet("analyze", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to YAML config (optional)")
	inPath := fs.String("path", "", "Path to the Astro project")
	outDir := fs.String("out", "", "Output directory for reports")
	dbPath := fs.String("db", "", "SQLite database path")
	minSeverity := fs.String("min-severity", "", "Minimum severity to report (low|medium|high)")
	pack := fs.String("pack", "", "Extra YAML rule pack")
	_ = fs.Parse(args)

	cfg, _ := shared.LoadConfig(*configPath)
	shared.InitLogger(cfg.Logging.Format, cfg.Logging.Level)
	if *outDir == "" {
		*outDir = cfg.Reporting.OutDir
	}
	if *dbPath == "" {
		*dbPath = cfg.Database.DSN
	}

	applyRuleConfig(cfg, *minSeverity, *pack)
	p := resolveProject(*inPath, project.SourceExts, cfg)

	findings := rules.Evaluate(p)

	db := openDB(*dbPath)
	defer db.Close()

	sups, err := db.ListSuppressions(true)
	if err != nil {
		slog.Warn("cannot load suppressions", "err", err)
	}
	kept, nsup := rules.ApplySuppressions(findings, sups)
	if nsup > 0 {
		slog.Info("findings suppressed", "count", nsup)
	}

	rep := ir.Report{ProjectPath: p.Root, Findings: kept}
	rep.Summarize()

	run := newRun("analyze", p.Root)
	run.Report = &rep
	saveAndReport(db, &run, *outDir)
	fmt.Printf("  Findings: %d (high=%d medium=%d low=%d, auto-fixable=%d)\n",
		rep.Summary.Total,
		rep.Summary.BySeverity.High, rep.Summary.BySeverity.Medium, rep.Summary.BySeverity.Low,
		rep.Summary.AutoFixable)
}

func optimizeCmd(args []string) {
	fs := flag.NewFlagSet("optimize", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to YAML config (optional)")
	inPath := fs.String("path", "", "Path to the Astro project")
	outDir := fs.String("out", "", "Output directory for reports")
	dbPath := fs.String("db", "", "SQLite database path")
	backupDir := fs.String("backup-dir", "", "Backup directory (project-relative)")
	includeRisky := fs.Bool("include-risky", false, "Also apply risky rewrites (script defer)")
	dryRun := fs.Bool("dry-run", false, "Report what would change without writing")
	_ = fs.Parse(args)

	cfg, _ := shared.LoadConfig(*configPath)
	shared.InitLogger(cfg.Logging.Format, cfg.Logging.Level)
	if *outDir == "" {
		*outDir = cfg.Reporting.OutDir
	}
	if *dbPath == "" {
		*dbPath = cfg.Database.DSN
	}
	if *backupDir == "" {
		*backupDir = cfg.Transform.BackupDir
	}

	p := resolveProject(*inPath, project.SourceExts, cfg)

	eng := &transform.Engine{
		Backups: &backup.Store{Dir: filepath.Join(p.Root, *backupDir)},
	}
	pol := transform.Policy{
		IncludeRisky: *includeRisky || cfg.Transform.IncludeRisky,
		DryRun:       *dryRun,
	}
	rep := eng.Run(p, pol)

	db := openDB(*dbPath)
	defer db.Close()

	run := newRun("optimize", p.Root)
	run.Transform = &rep
	saveAndReport(db, &run, *outDir)
	mode := "applied"
	if pol.DryRun {
		mode = "would apply"
	}
	fmt.Printf("  %s %d changes across %d files (%d errors)\n",
		mode, rep.TotalChanges, len(rep.FilesModified), len(rep.Errors))
}

func preloadCmd(args []string) {
	fs := flag.NewFlagSet("preload", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to YAML config (optional)")
	inPath := fs.String("path", "", "Path to the Astro project")
	outDir := fs.String("out", "", "Output directory for reports")
	dbPath := fs.String("db", "", "SQLite database path")
	_ = fs.Parse(args)

	cfg, _ := shared.LoadConfig(*configPath)
	shared.InitLogger(cfg.Logging.Format, cfg.Logging.Level)
	if *outDir == "" {
		*outDir = cfg.Reporting.OutDir
	}
	if *dbPath == "" {
		*dbPath = cfg.Database.DSN
	}

	p := resolveProject(*inPath, project.SourceExts, cfg)
	rep := preload.Extract(p)

	db := openDB(*dbPath)
	defer db.Close()

	run := newRun("preload", p.Root)
	run.Preload = &rep
	saveAndReport(db, &run, *outDir)
	fmt.Printf("  Preloads: %d (layout=%d page=%d fonts=%d images=%d)\n",
		rep.Summary.TotalPreloads, rep.Summary.LayoutScope, rep.Summary.PageScope,
		rep.Summary.Fonts, rep.Summary.Images)
	if rep.GeneratedHTML.Layout != "" {
		fmt.Printf("\nAdd to your layout <head>:\n%s\n", rep.GeneratedHTML.Layout)
	}
	if rep.GeneratedHTML.Page != "" {
		fmt.Printf("\nAdd to specific page <head>s:\n%s\n", rep.GeneratedHTML.Page)
	}
}

func patternsCmd(args []string) {
	fs := flag.NewFlagSet("patterns", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to YAML config (optional)")
	inPath := fs.String("path", "", "Path to the Astro project")
	outDir := fs.String("out", "", "Output directory for reports")
	dbPath := fs.String("db", "", "SQLite database path")
	_ = fs.Parse(args)

	cfg, _ := shared.LoadConfig(*configPath)
	shared.InitLogger(cfg.Logging.Format, cfg.Logging.Level)
	if *outDir == "" {
		*outDir = cfg.Reporting.OutDir
	}
	if *dbPath == "" {
		*dbPath = cfg.Database.DSN
	}

	p := resolveProject(*inPath, project.ScriptExts, cfg)
	rep := patterns.Detect(p)

	db := openDB(*dbPath)
	defer db.Close()

	run := newRun("patterns", p.Root)
	run.Patterns = &rep
	saveAndReport(db, &run, *outDir)
	fmt.Printf("  JS patterns: %d (high=%d medium=%d low=%d)\n",
		rep.Summary.Total,
		rep.Summary.BySeverity.High, rep.Summary.BySeverity.Medium, rep.Summary.BySeverity.Low)
}

func reportCmd(args []string) {
	fs := flag.NewFlagSet("report", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to YAML config (optional)")
	runID := fs.String("run", "", "Run ID")
	outDir := fs.String("out", "", "Output directory")
	dbPath := fs.String("db", "", "SQLite database path")
	_ = fs.Parse(args)

	cfg, _ := shared.LoadConfig(*configPath)
	shared.InitLogger(cfg.Logging.Format, cfg.Logging.Level)
	if *outDir == "" {
		*outDir = cfg.Reporting.OutDir
	}
	if *dbPath == "" {
		*dbPath = cfg.Database.DSN
	}
	if *runID == "" {
		fmt.Fprintln(os.Stderr, "report: --run is required")
		os.Exit(2)
	}

	db := openDB(*dbPath)
	defer db.Close()

	run, err := db.LoadRun(*runID)
	if err != nil {
		slog.Error("load run error", "run", *runID, "err", err)
		os.Exit(1)
	}
	jsonPath, _ := reporting.WriteJSON(run.ID, *outDir, &run)
	htmlPath, _ := reporting.WriteHTML(run.ID, *outDir, &run)
	fmt.Printf("Report OK\n  Run: %s\n  JSON: %s\n  HTML: %s\n", run.ID, jsonPath, htmlPath)
}

func restoreCmd(args []string) {
	fs := flag.NewFlagSet("restore", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to YAML config (optional)")
	inPath := fs.String("path", "", "Path to the Astro project")
	relFile := fs.String("file", "", "Project-relative file to restore (e.g. src/pages/index.astro)")
	backupDir := fs.String("backup-dir", "", "Backup directory (project-relative)")
	list := fs.Bool("list", false, "List available backups instead of restoring")
	_ = fs.Parse(args)

	cfg, _ := shared.LoadConfig(*configPath)
	shared.InitLogger(cfg.Logging.Format, cfg.Logging.Level)
	if *backupDir == "" {
		*backupDir = cfg.Transform.BackupDir
	}

	start := *inPath
	if start == "" {
		start = "."
	}
	root, _, err := project.FindRoot(start)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: no Astro project found at or above %s (missing astro.config.*)\n", start)
		os.Exit(1)
	}
	store := &backup.Store{Dir: filepath.Join(root, *backupDir)}

	if *list {
		base := ""
		if *relFile != "" {
			base = filepath.Base(*relFile)
		}
		names, err := store.List(base)
		if err != nil {
			slog.Error("list backups error", "err", err)
			os.Exit(1)
		}
		if len(names) == 0 {
			fmt.Println("No backups.")
			return
		}
		for _, n := range names {
			fmt.Println(n)
		}
		return
	}

	if *relFile == "" {
		fmt.Fprintln(os.Stderr, "restore: --file is required (or use --list)")
		os.Exit(2)
	}
	dest := filepath.Join(root, filepath.FromSlash(*relFile))
	from, err := store.RestoreLatest(dest)
	if err != nil {
		slog.Error("restore error", "file", *relFile, "err", err)
		os.Exit(1)
	}
	fmt.Printf("Restored %s from %s\n", *relFile, filepath.Base(from))
}

func serveCmd(args []string) {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to YAML config (optional)")
	addr := fs.String("addr", "", "Listen address")
	dbPath := fs.String("db", "", "SQLite database path")
	_ = fs.Parse(args)

	cfg, _ := shared.LoadConfig(*configPath)
	logger := shared.InitLogger(cfg.Logging.Format, cfg.Logging.Level)
	if *addr == "" {
		*addr = cfg.Server.Addr
	}
	if *dbPath == "" {
		*dbPath = cfg.Database.DSN
	}

	db := openDB(*dbPath)
	defer db.Close()

	srv := &api.Server{
		DB:              db,
		UserStore:       db,
		Logger:          logger,
		AllowedOrigins:  cfg.Server.AllowedOrigins,
		SessionDuration: time.Duration(cfg.Server.SessionTTLMinutes) * time.Minute,
	}
	slog.Info("serving API", "addr", *addr, "db", filepath.Clean(*dbPath))
	if err := http.ListenAndServe(*addr, srv.Routes()); err != nil {
		slog.Error("server error", "err", err)
		os.Exit(1)
	}
}

func userCmd(args []string) {
	if len(args) < 1 || args[0] != "add" {
		fmt.Fprintln(os.Stderr, "user: only 'user add' is supported")
		os.Exit(2)
	}
	fs := flag.NewFlagSet("user add", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to YAML config (optional)")
	username := fs.String("username", "", "Username")
	password := fs.String("password", "", "Password")
	role := fs.String("role", "viewer", "Role (viewer|admin)")
	dbPath := fs.String("db", "", "SQLite database path")
	_ = fs.Parse(args[1:])

	cfg, _ := shared.LoadConfig(*configPath)
	shared.InitLogger(cfg.Logging.Format, cfg.Logging.Level)
	if *dbPath == "" {
		*dbPath = cfg.Database.DSN
	}
	if *username == "" || *password == "" {
		fmt.Fprintln(os.Stderr, "user add: --username and --password are required")
		os.Exit(2)
	}

	hash, err := security.HashPassword(*password)
	if err != nil {
		slog.Error("hash error", "err", err)
		os.Exit(1)
	}
	db := openDB(*dbPath)
	defer db.Close()
	id, err := db.CreateUser(*username, hash, *role)
	if err != nil {
		slog.Error("create user error", "err", err)
		os.Exit(1)
	}
	fmt.Printf("User %s created (id=%d, role=%s)\n", *username, id, *role)
}
