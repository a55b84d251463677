package ir

import "time"

const Version = "1.0"

// Severity levels, lowest to highest.
const (
	SeverityLow    = "low"
	SeverityMedium = "medium"
	SeverityHigh   = "high"
)

// Risk tiers. Safe rewrites change no runtime behavior; risky ones might
// (e.g. deferring a script changes execution order).
const (
	RiskSafe  = "safe"
	RiskRisky = "risky"
)

// Run wraps one invocation of any pipeline for persistence. Exactly one of
// the payload fields is set, selected by Kind.
type Run struct {
	ID          string    `json:"id"`
	StartedAt   time.Time `json:"started_at"`
	Kind        string    `json:"kind"` // analyze|optimize|preload|patterns
	ProjectPath string    `json:"project_path,omitempty"`
	IRVersion   string    `json:"ir_version,omitempty"`

	Report    *Report          `json:"report,omitempty"`
	Transform *TransformReport `json:"transform,omitempty"`
	Preload   *PreloadReport   `json:"preload,omitempty"`
	Patterns  *PatternReport   `json:"patterns,omitempty"`
}

// Finding is one detected optimization opportunity, scoped to a rule and a
// file. At most one finding exists per (rule, file) pair in a report.
type Finding struct {
	RuleID      string `json:"type"`
	Severity    string `json:"severity"` // high|medium|low
	Risk        string `json:"risk"`     // safe|risky
	File        string `json:"file"`
	Line        *int   `json:"line"` // 1-based, null when the issue is file-wide
	Message     string `json:"message"`
	Suggestion  string `json:"suggestion"`
	AutoFixable bool   `json:"auto_fixable"`
}

// Report is the detection-mode output. Summary is always a pure fold over
// Findings and is recomputed whenever Findings change.
type Report struct {
	ProjectPath string    `json:"project_path"`
	Findings    []Finding `json:"findings"`
	Summary     Summary   `json:"summary"`
}

type Summary struct {
	Total       int            `json:"total"`
	BySeverity  SeverityCounts `json:"by_severity"`
	ByRisk      RiskCounts     `json:"by_risk"`
	AutoFixable int            `json:"auto_fixable"`
}

type SeverityCounts struct {
	High   int `json:"high"`
	Medium int `json:"medium"`
	Low    int `json:"low"`
}

type RiskCounts struct {
	Safe  int `json:"safe"`
	Risky int `json:"risky"`
}

// Summarize recomputes a report's summary from its finding list.
func (r *Report) Summarize() {
	var s Summary
	s.Total = len(r.Findings)
	for _, f := range r.Findings {
		switch f.Severity {
		case SeverityHigh:
			s.BySeverity.High++
		case SeverityMedium:
			s.BySeverity.Medium++
		default:
			s.BySeverity.Low++
		}
		if f.Risk == RiskRisky {
			s.ByRisk.Risky++
		} else {
			s.ByRisk.Safe++
		}
		if f.AutoFixable {
			s.AutoFixable++
		}
	}
	r.Summary = s
}

// FileResult is the per-file outcome of the transform engine. Backup is
// non-empty iff Changes is non-empty and the run was not a dry run.
type FileResult struct {
	File    string
	Changes []string
	Backup  string
	Err     error
}

// TransformReport is the fix-mode output.
type TransformReport struct {
	ProjectPath    string         `json:"project_path"`
	BackupDir      string         `json:"backup_dir"`
	IncludeRisky   bool           `json:"include_risky"`
	DryRun         bool           `json:"dry_run,omitempty"`
	FilesProcessed []string       `json:"files_processed"`
	FilesModified  []ModifiedFile `json:"files_modified"`
	TotalChanges   int            `json:"total_changes"`
	Errors         []FileError    `json:"errors"`
}

type ModifiedFile struct {
	File    string   `json:"file"`
	Changes []string `json:"changes"`
	Backup  *string  `json:"backup"` // null for dry runs
}

type FileError struct {
	File  string `json:"file"`
	Error string `json:"error"`
}

// PreloadDirective is a recommended early-fetch hint for a critical
// resource. Scope "layout" applies site-wide, "page" to a single page.
type PreloadDirective struct {
	Href        string `json:"href"`
	AsType      string `json:"as_type"` // font|style|script|image
	TypeAttr    string `json:"type_attr,omitempty"`
	Crossorigin bool   `json:"crossorigin"`
	Scope       string `json:"scope"` // layout|page
	SourceFile  string `json:"source_file"`
	Reason      string `json:"reason"`
}

type PreloadReport struct {
	Preloads      []PreloadDirective            `json:"preloads"`
	PageSpecific  map[string][]PreloadDirective `json:"page_specific"`
	GeneratedHTML GeneratedHTML                 `json:"generated_html"`
	Summary       PreloadSummary                `json:"summary"`
}

type GeneratedHTML struct {
	Layout string `json:"layout"`
	Page   string `json:"page"`
}

type PreloadSummary struct {
	TotalPreloads int `json:"total_preloads"`
	LayoutScope   int `json:"layout_scope"`
	PageScope     int `json:"page_scope"`
	Fonts         int `json:"fonts"`
	Images        int `json:"images"`
}

// PatternFinding reports a JS construct replaceable by native CSS/HTML.
type PatternFinding struct {
	Pattern         string `json:"pattern"`
	Severity        string `json:"severity"`
	File            string `json:"file"`
	Line            *int   `json:"line"`
	Evidence        string `json:"evidence"`
	HTMLCSSSolution string `json:"html_css_solution"`
	Explanation     string `json:"explanation"`
	ExampleBefore   string `json:"example_before"`
	ExampleAfter    string `json:"example_after"`
}

type PatternReport struct {
	Findings         []PatternFinding `json:"findings"`
	Summary          PatternSummary   `json:"summary"`
	PatternsDetected []string         `json:"patterns_detected"`
}

type PatternSummary struct {
	Total      int            `json:"total"`
	BySeverity SeverityCounts `json:"by_severity"`
	ByPattern  map[string]int `json:"by_pattern"`
}
