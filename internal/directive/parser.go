package directive

import (
	"regexp"
	"strings"

	"github.com/tinovyatkin/ziglint/internal/sourcemap"
)

// disablePattern matches both forms in one regex: the next-line/global split
// is made on whether "-next-line" is present, not on two separate patterns.
// The rule list is optional: a bare "// lint-disable" (or
// "// lint-disable-next-line") suppresses every rule in scope. An optional
// "; reason" suffix documents why the suppression exists.
var disablePattern = regexp.MustCompile(
	`(?i)//\s*lint-disable(-next-line)?(?:\s+([A-Za-z0-9_,\s/.-]+?))?(?:\s*;\s*(.*))?$`)

// RuleValidator checks whether a rule code is known to the registry.
type RuleValidator func(string) bool

// Parse extracts every disable directive from a SourceMap.
//
// firstCodeLine is the 1-based line of the first non-doc-comment token in
// the file; a global directive is only honored if it appears strictly
// before that line (the placement rule). Comments form part of the source,
// so doc comments themselves never count as code for this purpose.
//
// If validator is non-nil, unknown rule codes are reported as parse errors
// rather than silently accepted.
func Parse(sm *sourcemap.SourceMap, firstCodeLine int, validator RuleValidator) *ParseResult {
	result := &ParseResult{}

	for _, comment := range sm.Comments() {
		matches := disablePattern.FindStringSubmatch(comment.Text)
		if matches == nil {
			continue
		}

		isNextLine := matches[1] != ""
		rules, err := parseRuleList(matches[2])
		if err != nil {
			result.Errors = append(result.Errors, ParseError{
				Line:    comment.Line,
				Message: err.Error(),
				RawText: comment.Text,
			})
			continue
		}

		d := &Directive{
			Rules:   rules,
			Line:    comment.Line,
			RawText: comment.Text,
			Reason:  strings.TrimSpace(matches[3]),
		}

		if isNextLine {
			d.Type = TypeNextLine
			d.AppliesTo = nextLineRange(comment.Line)
		} else {
			d.Type = TypeGlobal
			if comment.Line >= firstCodeLine {
				result.Errors = append(result.Errors, ParseError{
					Line:    comment.Line,
					Message: "global lint-disable must appear before the first declaration in the file",
					RawText: comment.Text,
				})
				continue
			}
			d.AppliesTo = GlobalRange()
		}

		validateDirective(d, validator, result)
	}

	return result
}

// validateDirective checks rule codes against validator and records the
// directive (or an error) in result.
func validateDirective(d *Directive, validator RuleValidator, result *ParseResult) {
	if validator != nil {
		var unknown []string
		for _, rule := range d.Rules {
			if !validator(rule) {
				unknown = append(unknown, rule)
			}
		}
		if len(unknown) > 0 {
			result.Errors = append(result.Errors, ParseError{
				Line:    d.Line,
				Message: "unknown rule code(s): " + strings.Join(unknown, ", "),
				RawText: d.RawText,
			})
		}
	}
	result.Directives = append(result.Directives, *d)
}

// parseRuleList splits a comma-separated rule list. An empty or all-blank
// string is valid and means "every rule" (d.Rules stays nil).
func parseRuleList(s string) ([]string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	parts := strings.Split(s, ",")
	rules := make([]string, 0, len(parts))
	for _, part := range parts {
		rule := strings.TrimSpace(part)
		if rule != "" {
			rules = append(rules, rule)
		}
	}
	return rules, nil
}

// nextLineRange returns the single-line range exactly one past
// directiveLine: a node is covered by a `lint-disable-next-line` directive
// only if its first token's line is directiveLine + 1, no further. A
// directive followed by a blank line or another comment simply suppresses
// nothing and is reported as unused — it does not reach past to the next
// line that happens to hold code.
func nextLineRange(directiveLine int) LineRange {
	return LineRange{Start: directiveLine + 1, End: directiveLine + 1}
}
