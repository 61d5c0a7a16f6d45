package lint

import (
	"fmt"
	"path/filepath"

	"github.com/tinovyatkin/ziglint/internal/rules"
	"github.com/tinovyatkin/ziglint/internal/sourcemap"
)

// dedup removes violations with the same file, line, and rule code, keeping
// the first occurrence. A NodeRunner or SymbolRunner rule can legitimately
// visit the same line more than once (e.g. a nested scope); this keeps a
// single reported diagnostic per (file, line, rule) tuple.
func dedup(violations []rules.Violation) []rules.Violation {
	seen := make(map[string]struct{}, len(violations))
	out := violations[:0:0]
	for _, v := range violations {
		key := fmt.Sprintf("%s:%d:%s", filepath.ToSlash(v.Location.File), v.Location.Start.Line, v.RuleCode)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, v)
	}
	return out
}

// supersede drops lower-severity violations at a file+line where an
// error-level violation also exists. A cosmetic style suggestion is
// meaningless once an error already flags the same line.
func supersede(violations []rules.Violation) []rules.Violation {
	type locKey struct {
		file string
		line int
	}

	errorLocations := make(map[locKey]struct{})
	for _, v := range violations {
		if v.Severity != rules.SeverityError {
			continue
		}
		if v.Location.File == "" || v.Location.Start.Line <= 0 {
			continue
		}
		errorLocations[locKey{filepath.ToSlash(v.Location.File), v.Location.Start.Line}] = struct{}{}
	}
	if len(errorLocations) == 0 {
		return violations
	}

	out := violations[:0:0]
	for _, v := range violations {
		if v.Severity == rules.SeverityError || v.Location.File == "" || v.Location.Start.Line <= 0 {
			out = append(out, v)
			continue
		}
		if _, superseded := errorLocations[locKey{filepath.ToSlash(v.Location.File), v.Location.Start.Line}]; superseded {
			continue
		}
		out = append(out, v)
	}
	return out
}

// attachSnippets populates each violation's SourceCode from sm, skipping
// file-level violations (no single line to extract) and any violation a
// rule already annotated itself.
func attachSnippets(violations []rules.Violation, sm *sourcemap.SourceMap) []rules.Violation {
	for i := range violations {
		v := &violations[i]
		if v.SourceCode != "" || v.Location.IsFileLevel() {
			continue
		}
		if v.Location.IsPointLocation() {
			v.SourceCode = sm.Line(v.Location.Start.Line)
			continue
		}
		end := v.Location.End.Line
		if v.Location.End.Column == 0 && end > v.Location.Start.Line {
			end--
		}
		v.SourceCode = sm.Snippet(v.Location.Start.Line, end)
	}
	return violations
}
