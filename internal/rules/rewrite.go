package rules

import (
	"regexp"
	"strings"
)

// Span-location regexes shared by matchers and rewrites. Matching is
// textual, never syntactic: a span is a whole tag or block located by
// pattern, and rewrites only ever edit inside that span.
var (
	imgTagRe    = regexp.MustCompile(`(?i)<img[^>]*/?>`)
	fontFaceRe  = regexp.MustCompile(`(?i)@font-face\s*\{[^}]*\}`)
	extScriptRe = regexp.MustCompile(`(?i)<script[^>]*src=["']https?://[^"']+["'][^>]*>`)
)

// heroIndicators mark tags that are (or are about to become) above-fold
// imagery; lazy-loading must not touch them.
var heroIndicators = []string{"hero", "banner", "featured", "lcp", "above-fold", "fetchpriority"}

// insertAttr appends an attribute before a located tag's closing bracket.
// Truncated tags (no closing bracket in the span) are left untouched.
func insertAttr(tag, attr string) string {
	if strings.HasSuffix(tag, "/>") {
		return tag[:len(tag)-2] + " " + attr + " />"
	}
	if strings.HasSuffix(tag, ">") {
		return tag[:len(tag)-1] + " " + attr + ">"
	}
	return tag
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
