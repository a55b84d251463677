// Package rulesdsl loads YAML rule packs and registers them alongside the
// built-in catalog. Packs let site teams ship detection-only rules without
// recompiling.
package rulesdsl

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/codewithboateng/astrolift/internal/ir"
	"github.com/codewithboateng/astrolift/internal/project"
	"github.com/codewithboateng/astrolift/internal/rules"
)

type dslPack struct {
	Rules []dslRule `yaml:"rules"`
}

type dslRule struct {
	ID         string `yaml:"id"`
	Category   string `yaml:"category"`
	Summary    string `yaml:"summary"`
	Severity   string `yaml:"severity"` // low|medium|high
	Risk       string `yaml:"risk"`     // safe|risky (default risky)
	Message    string `yaml:"message"`
	Suggestion string `yaml:"suggestion"`

	Where struct {
		Ext      []string `yaml:"ext"`       // e.g. [".astro", ".css"]; empty = all source files
		Regex    string   `yaml:"regex"`     // required; case-insensitive
		NotRegex string   `yaml:"not_regex"` // optional; file skipped when it also matches
	} `yaml:"where"`
}

type compiled struct {
	rule  dslRule
	re    *regexp.Regexp
	reNot *regexp.Regexp
	exts  map[string]bool
}

// LoadAndRegister compiles every rule in the pack at path and registers it.
// Pack rules are detection-only; they never rewrite files.
func LoadAndRegister(path string) (int, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read rules pack: %w", err)
	}
	var pack dslPack
	if err := yaml.Unmarshal(b, &pack); err != nil {
		return 0, fmt.Errorf("parse yaml: %w", err)
	}
	var n int
	for _, r := range pack.Rules {
		cr, err := compile(r)
		if err != nil {
			return n, fmt.Errorf("compile rule %q: %w", r.ID, err)
		}
		registerCompiled(*cr)
		n++
	}
	return n, nil
}

func compile(r dslRule) (*compiled, error) {
	if r.ID == "" || r.Severity == "" || r.Message == "" || r.Where.Regex == "" {
		return nil, fmt.Errorf("missing required fields (id/severity/message/where.regex)")
	}
	switch strings.ToLower(r.Severity) {
	case ir.SeverityLow, ir.SeverityMedium, ir.SeverityHigh:
	default:
		return nil, fmt.Errorf("severity %q not one of low/medium/high", r.Severity)
	}
	c := &compiled{rule: r}
	re, err := regexp.Compile("(?i)" + r.Where.Regex)
	if err != nil {
		return nil, fmt.Errorf("regex: %w", err)
	}
	c.re = re
	if r.Where.NotRegex != "" {
		reNot, err := regexp.Compile("(?i)" + r.Where.NotRegex)
		if err != nil {
			return nil, fmt.Errorf("not_regex: %w", err)
		}
		c.reNot = reNot
	}
	if len(r.Where.Ext) > 0 {
		c.exts = map[string]bool{}
		for _, e := range r.Where.Ext {
			c.exts[strings.ToLower(strings.TrimSpace(e))] = true
		}
	}
	return c, nil
}

func registerCompiled(c compiled) {
	risk := strings.ToLower(c.rule.Risk)
	if risk != ir.RiskSafe {
		risk = ir.RiskRisky
	}
	rules.Register(rules.Rule{
		ID:         c.rule.ID,
		Category:   c.rule.Category,
		Severity:   strings.ToLower(c.rule.Severity),
		Risk:       risk,
		Summary:    c.rule.Summary,
		Suggestion: c.rule.Suggestion,
		Order:      100, // packs evaluate after the built-in catalog
		Eval: func(p *project.Project) []ir.Finding {
			var out []ir.Finding
			for _, f := range p.Files {
				if c.exts != nil && !c.exts[f.Ext] {
					continue
				}
				loc := c.re.FindStringIndex(f.Text)
				if loc == nil {
					continue
				}
				if c.reNot != nil && c.reNot.MatchString(f.Text) {
					continue
				}
				line := project.Line(f.Text, loc[0])
				out = append(out, ir.Finding{
					RuleID:  c.rule.ID,
					File:    f.Rel,
					Line:    &line,
					Message: c.rule.Message,
				})
			}
			return out
		},
	})
}
