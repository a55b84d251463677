package reporting

import (
	"fmt"
	"html"
	"os"
	"path/filepath"

	"github.com/codewithboateng/astrolift/internal/ir"
)

func WriteHTML(runID, outDir string, run *ir.Run) (string, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(outDir, runID+".html")
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	// Head + styles
	fmt.Fprintf(f, "<!doctype html><html><head><meta charset='utf-8'><title>%s</title>", html.EscapeString(runID))
	fmt.Fprint(f, "<style>body{font-family:system-ui,Arial,sans-serif;padding:20px;line-height:1.4} table{border-collapse:collapse;margin:8px 0} td,th{border:1px solid #ddd;padding:6px} h1,h2{margin:6px 0 4px} .dim{color:#666} .mono{font-family:ui-monospace,Menlo,Consolas,monospace}</style>")
	fmt.Fprint(f, "</head><body>")

	// Title + summary
	fmt.Fprintf(f, "<h1>astrolift report – <span class='mono'>%s</span></h1>", html.EscapeString(runID))
	fmt.Fprintf(f, "<p class='dim'>Project: <span class='mono'>%s</span></p>", html.EscapeString(run.ProjectPath))

	if rep := run.Report; rep != nil {
		fmt.Fprintf(f, "<p><b>Findings</b>: %d &nbsp; high=%d medium=%d low=%d &nbsp; safe=%d risky=%d &nbsp; auto-fixable=%d</p>",
			rep.Summary.Total,
			rep.Summary.BySeverity.High, rep.Summary.BySeverity.Medium, rep.Summary.BySeverity.Low,
			rep.Summary.ByRisk.Safe, rep.Summary.ByRisk.Risky,
			rep.Summary.AutoFixable,
		)
		if len(rep.Findings) > 0 {
			fmt.Fprint(f, "<h2>Findings</h2><table><tr><th>Severity</th><th>Risk</th><th>Type</th><th>File</th><th>Line</th><th>Message</th></tr>")
			for _, fd := range rep.Findings {
				line := ""
				if fd.Line != nil {
					line = fmt.Sprintf("%d", *fd.Line)
				}
				fmt.Fprintf(f, "<tr><td>%s</td><td>%s</td><td>%s</td><td class='mono'>%s</td><td>%s</td><td>%s</td></tr>",
					html.EscapeString(fd.Severity),
					html.EscapeString(fd.Risk),
					html.EscapeString(fd.RuleID),
					html.EscapeString(fd.File),
					line,
					html.EscapeString(fd.Message),
				)
			}
			fmt.Fprint(f, "</table>")
		} else {
			fmt.Fprint(f, "<h2>Findings</h2><p class='dim'>No findings at or above the configured threshold.</p>")
		}
	}

	if tr := run.Transform; tr != nil {
		fmt.Fprintf(f, "<h2>Applied fixes</h2><p>Files processed: %d &nbsp; modified: %d &nbsp; changes: %d</p>",
			len(tr.FilesProcessed), len(tr.FilesModified), tr.TotalChanges)
		if tr.DryRun {
			fmt.Fprint(f, "<p class='dim'>Dry run; no files were written.</p>")
		}
		if len(tr.FilesModified) > 0 {
			fmt.Fprint(f, "<table><tr><th>File</th><th>Changes</th></tr>")
			for _, m := range tr.FilesModified {
				fmt.Fprintf(f, "<tr><td class='mono'>%s</td><td>%s</td></tr>",
					html.EscapeString(m.File),
					html.EscapeString(fmt.Sprintf("%v", m.Changes)),
				)
			}
			fmt.Fprint(f, "</table>")
		}
		if len(tr.Errors) > 0 {
			fmt.Fprint(f, "<h2>Errors</h2><table><tr><th>File</th><th>Error</th></tr>")
			for _, e := range tr.Errors {
				fmt.Fprintf(f, "<tr><td class='mono'>%s</td><td>%s</td></tr>",
					html.EscapeString(e.File), html.EscapeString(e.Error))
			}
			fmt.Fprint(f, "</table>")
		}
	}

	if pr := run.Preload; pr != nil {
		fmt.Fprintf(f, "<h2>Preloads</h2><p>Total: %d &nbsp; layout=%d page=%d &nbsp; fonts=%d images=%d</p>",
			pr.Summary.TotalPreloads, pr.Summary.LayoutScope, pr.Summary.PageScope,
			pr.Summary.Fonts, pr.Summary.Images)
		if pr.GeneratedHTML.Layout != "" {
			fmt.Fprintf(f, "<h3>Layout head</h3><pre class='mono'>%s</pre>", html.EscapeString(pr.GeneratedHTML.Layout))
		}
		if pr.GeneratedHTML.Page != "" {
			fmt.Fprintf(f, "<h3>Page head</h3><pre class='mono'>%s</pre>", html.EscapeString(pr.GeneratedHTML.Page))
		}
	}

	if pat := run.Patterns; pat != nil {
		fmt.Fprintf(f, "<h2>JS patterns</h2><p>Total: %d &nbsp; high=%d medium=%d low=%d</p>",
			pat.Summary.Total,
			pat.Summary.BySeverity.High, pat.Summary.BySeverity.Medium, pat.Summary.BySeverity.Low)
		if len(pat.Findings) > 0 {
			fmt.Fprint(f, "<table><tr><th>Severity</th><th>Pattern</th><th>File</th><th>Solution</th></tr>")
			for _, pf := range pat.Findings {
				fmt.Fprintf(f, "<tr><td>%s</td><td>%s</td><td class='mono'>%s</td><td>%s</td></tr>",
					html.EscapeString(pf.Severity),
					html.EscapeString(pf.Pattern),
					html.EscapeString(pf.File),
					html.EscapeString(pf.HTMLCSSSolution),
				)
			}
			fmt.Fprint(f, "</table>")
		}
	}

	fmt.Fprint(f, "</body></html>")
	return path, nil
}
