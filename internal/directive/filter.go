package directive

import "github.com/tinovyatkin/ziglint/internal/rules"

// FilterResult contains the results of filtering violations through directives.
type FilterResult struct {
	Violations       []rules.Violation
	Suppressed       []rules.Violation
	UnusedDirectives []Directive
}

// Filter applies directives to a violation list. A violation is suppressed
// if some directive's line range contains the violation's line and its rule
// list matches the violation's rule code (or is empty, meaning "all rules").
//
// Matching uses first-match-wins: when multiple directives could suppress
// the same violation, only the first is marked Used. This keeps suppression
// deterministic at the cost of occasionally flagging a redundant later
// directive as unused.
func Filter(violations []rules.Violation, directives []Directive) *FilterResult {
	result := &FilterResult{
		Violations: make([]rules.Violation, 0, len(violations)),
		Suppressed: make([]rules.Violation, 0),
	}

	directiveCopies := make([]Directive, len(directives))
	copy(directiveCopies, directives)

	for _, v := range violations {
		suppressed := false
		line := v.Line()

		for i := range directiveCopies {
			d := &directiveCopies[i]
			if d.SuppressesLine(line) && d.SuppressesRule(v.RuleCode) {
				suppressed = true
				d.Used = true
				break
			}
		}

		if suppressed {
			result.Suppressed = append(result.Suppressed, v)
		} else {
			result.Violations = append(result.Violations, v)
		}
	}

	for _, d := range directiveCopies {
		if !d.Used {
			result.UnusedDirectives = append(result.UnusedDirectives, d)
		}
	}

	return result
}
