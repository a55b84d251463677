package rules

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/codewithboateng/astrolift/internal/ir"
	"github.com/codewithboateng/astrolift/internal/project"
)

var (
	registry  []Rule
	ruleIndex = map[string]int{} // lower(ruleID) -> index
)

func Register(r Rule) {
	registry = append(registry, r)
	ruleIndex[strings.ToLower(strings.TrimSpace(r.ID))] = len(registry) - 1
}

// List returns enabled rules in catalog order.
func List() []Rule {
	out := make([]Rule, 0, len(registry))
	for _, r := range registry {
		if rsettings.Disabled[strings.ToLower(r.ID)] {
			continue
		}
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}

// Rewriters returns the rewrite-capable subset of List, same order.
func Rewriters() []Rule {
	var out []Rule
	for _, r := range List() {
		if r.Rewrite != nil {
			out = append(out, r)
		}
	}
	return out
}

// Get returns a rule by ID if registered.
func Get(id string) (Rule, bool) {
	idx, ok := ruleIndex[strings.ToLower(strings.TrimSpace(id))]
	if !ok || idx < 0 || idx >= len(registry) {
		return Rule{}, false
	}
	return registry[idx], true
}

// Evaluate runs every enabled detection rule over the project and returns
// findings in catalog-then-scan order, deduplicated per (rule, file).
func Evaluate(p *project.Project) []ir.Finding {
	return evaluateWith(List(), p)
}

func evaluateWith(rs []Rule, p *project.Project) []ir.Finding {
	var all []ir.Finding
	seen := make(map[string]struct{})

	for _, rule := range rs {
		fs, err := evalSafely(rule, p)
		if err != nil {
			// A broken matcher must never abort the run.
			slog.Warn("rule evaluation failed", "rule", rule.ID, "err", err)
			continue
		}
		for _, f := range fs {
			if f.RuleID == "" {
				f.RuleID = rule.ID
			}
			if f.Severity == "" {
				f.Severity = rule.Severity
			}
			if f.Risk == "" {
				f.Risk = rule.Risk
			}
			if f.Suggestion == "" {
				f.Suggestion = rule.Suggestion
			}
			if !f.AutoFixable {
				f.AutoFixable = rule.Fixable
			}
			if !severityOK(f.Severity) {
				continue
			}
			key := strings.ToLower(f.RuleID) + "|" + f.File
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			all = append(all, f)
		}
	}
	return all
}

func evalSafely(rule Rule, p *project.Project) (fs []ir.Finding, err error) {
	defer func() {
		if r := recover(); r != nil {
			fs = nil
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return rule.Eval(p), nil
}

func lineOf(text string, offset int) *int {
	n := project.Line(text, offset)
	return &n
}
