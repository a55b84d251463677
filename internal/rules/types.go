package rules

import (
	"github.com/codewithboateng/astrolift/internal/ir"
	"github.com/codewithboateng/astrolift/internal/project"
)

// Rule is a single declarative detection rule, optionally carrying a
// rewrite. Category is metadata only; every rule is evaluated uniformly.
type Rule struct {
	ID         string
	Category   string // markup|stylesheet|script|resource|config
	Severity   string // high|medium|low
	Risk       string // safe|risky
	Summary    string
	Suggestion string

	// Order fixes catalog position for evaluation and rewrite composition.
	Order int

	// Fixable marks findings as mechanically resolvable. True for every
	// rule with a Rewrite, and for rules whose fix is emitted by another
	// component (e.g. the preload generator).
	Fixable bool

	// Eval inspects the scanned project and returns findings. It must be
	// stateless and pure; the registry deduplicates per (rule, file).
	Eval func(p *project.Project) []ir.Finding

	// Exts limits which files the rewrite applies to.
	Exts []string

	// Rewrite edits located spans in text, returning the new text and one
	// change description per edit. Nil means detection-only. Rewrites must
	// be idempotent: re-applying to fixed content is a no-op.
	Rewrite func(text string) (string, []string)
}
