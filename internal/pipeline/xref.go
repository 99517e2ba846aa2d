package pipeline

import (
	"fmt"
	"regexp"
)

// labelGroup is the named submatch every rule pattern captures its display
// text in.
const labelGroup = "${label}"

// Rule rewrites one inline cross-reference syntax into its display text.
type Rule struct {
	Name    string
	Pattern *regexp.Regexp
}

// Apply replaces every occurrence of the rule's syntax on the line with its
// label. The boolean reports whether the rule matched.
func (r Rule) Apply(line string) (string, bool) {
	if !r.Pattern.MatchString(line) {
		return line, false
	}
	return r.Pattern.ReplaceAllString(line, labelGroup), true
}

// XRefStripper removes site-generator cross-references from readme lines.
// Rules are evaluated in order and the first match wins.
type XRefStripper struct {
	rules []Rule
}

// NewXRefStripper builds the rule list for a package. Module references are
// only recognized when they point inside pkg.
func NewXRefStripper(pkg string) *XRefStripper {
	return &XRefStripper{rules: XRefRules(pkg)}
}

// XRefRules returns the cross-reference rules in priority order. \x60 is a
// backtick.
func XRefRules(pkg string) []Rule {
	pkgPrefix := regexp.QuoteMeta(pkg) + `\.`
	return []Rule{
		{
			Name:    "module-label",
			Pattern: regexp.MustCompile(fmt.Sprintf(`:py:mod:\x60(?P<label>[^\x60<]+?)\s+<%s[^\x60>]+>\x60`, pkgPrefix)),
		},
		{
			Name:    "module",
			Pattern: regexp.MustCompile(fmt.Sprintf(`:py:mod:\x60%s(?P<label>[^\x60]+)\x60`, pkgPrefix)),
		},
		{
			Name:    "ref",
			Pattern: regexp.MustCompile(`:ref:\x60(?P<label>[^\x60<]+?)(?:\s+<[^\x60>]*>)?\x60`),
		},
		{
			Name:    "class",
			Pattern: regexp.MustCompile(`:py:class:\x60(?P<label>[^\x60]+)\x60`),
		},
		{
			Name:    "data",
			Pattern: regexp.MustCompile(`:py:data:\x60(?P<label>[^\x60]+)\x60`),
		},
	}
}

// Strip applies the first matching rule to the line. It returns the line
// unchanged and false when no rule matches.
func (s *XRefStripper) Strip(line string) (string, bool) {
	for _, rule := range s.rules {
		if out, ok := rule.Apply(line); ok {
			return out, true
		}
	}
	return line, false
}
