// Package patterns scans script-bearing sources for JS constructs that
// modern CSS/HTML can replace outright, paired with migration examples.
package patterns

import (
	"sort"
	"strings"

	"github.com/codewithboateng/astrolift/internal/ir"
	"github.com/codewithboateng/astrolift/internal/project"
)

// Detect scans every script-bearing file against the catalog. Each catalog
// entry reports at most once per file, anchored at the first sub-pattern
// match.
func Detect(p *project.Project) ir.PatternReport {
	rep := ir.PatternReport{
		Findings:         []ir.PatternFinding{},
		PatternsDetected: []string{},
	}
	rep.Summary.ByPattern = map[string]int{}

	seen := map[string]bool{}
	for _, f := range p.FilesByExt(project.ScriptExts...) {
		for i := range Catalog {
			def := &Catalog[i]
			key := def.Name + "|" + f.Rel
			if seen[key] {
				continue
			}
			loc := firstMatch(def, f.Text)
			if loc == nil {
				continue
			}
			seen[key] = true

			line := project.Line(f.Text, loc[0])
			rep.Findings = append(rep.Findings, ir.PatternFinding{
				Pattern:         def.Name,
				Severity:        def.Severity,
				File:            f.Rel,
				Line:            &line,
				Evidence:        evidence(f.Text, loc[0]),
				HTMLCSSSolution: def.Solution,
				Explanation:     def.Explanation,
				ExampleBefore:   def.Before,
				ExampleAfter:    def.After,
			})
		}
	}

	for _, pf := range rep.Findings {
		rep.Summary.Total++
		switch pf.Severity {
		case ir.SeverityHigh:
			rep.Summary.BySeverity.High++
		case ir.SeverityMedium:
			rep.Summary.BySeverity.Medium++
		default:
			rep.Summary.BySeverity.Low++
		}
		rep.Summary.ByPattern[pf.Pattern]++
	}
	for name := range rep.Summary.ByPattern {
		rep.PatternsDetected = append(rep.PatternsDetected, name)
	}
	sort.Strings(rep.PatternsDetected)
	return rep
}

// firstMatch returns the earliest location at which any of def's
// sub-patterns matches, or nil.
func firstMatch(def *Def, text string) []int {
	var best []int
	for _, re := range def.Patterns {
		loc := re.FindStringIndex(text)
		if loc == nil {
			continue
		}
		if best == nil || loc[0] < best[0] {
			best = loc
		}
	}
	return best
}

// evidence is the trimmed source line containing the match, truncated so
// reports stay readable.
func evidence(text string, off int) string {
	start := strings.LastIndexByte(text[:off], '\n') + 1
	end := strings.IndexByte(text[off:], '\n')
	if end < 0 {
		end = len(text)
	} else {
		end += off
	}
	line := strings.TrimSpace(text[start:end])
	if len(line) > 100 {
		line = line[:100] + "..."
	}
	return line
}
