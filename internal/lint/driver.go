// Package lint implements the driver that ties parsing, semantic analysis,
// directive filtering, and rule execution into a single run over one file.
// Rules themselves (internal/rules and its subpackages) never see each
// other or decide when they run; the driver owns that orchestration so a
// rule can be added, removed, or made to panic without touching this code.
package lint

import (
	"fmt"
	"os"

	"github.com/tinovyatkin/ziglint/internal/config"
	"github.com/tinovyatkin/ziglint/internal/directive"
	"github.com/tinovyatkin/ziglint/internal/ids"
	"github.com/tinovyatkin/ziglint/internal/loggingctx"
	"github.com/tinovyatkin/ziglint/internal/rules"
	"github.com/tinovyatkin/ziglint/internal/semantic"
	"github.com/tinovyatkin/ziglint/internal/sourcemap"
	"github.com/tinovyatkin/ziglint/internal/zsyntax"
)

// metaRulePrefix namespaces diagnostics the driver itself emits about the
// directive grammar (as opposed to a pluggable rule's own violations), so
// they can never collide with a rule code a user configures.
const metaRulePrefix = rules.RulePrefix

// Input configures a single run of the driver.
type Input struct {
	// File is used for config discovery (when Config is nil) and for every
	// violation's location.
	File string

	// Content is the file's source. If nil, Run reads File from disk.
	Content []byte

	// Config is the resolved configuration. If nil, Run loads it via
	// config.Load(File).
	Config *config.Config

	// Registry is the rule set to run. If nil, Run uses
	// rules.DefaultRegistry().
	Registry *rules.Registry
}

// Result is everything a single Run produced.
type Result struct {
	File   string
	Config *config.Config

	Tree  *zsyntax.Tree
	Model *semantic.Model

	// Violations is the final list: rule output with configured severities
	// applied, directive suppression resolved, lower-severity violations at
	// an errored line dropped, (file, line, rule) duplicates collapsed, and
	// source snippets attached.
	Violations []rules.Violation

	// Suppressed lists violations a directive matched, for verbose/debug
	// output; never part of the fail-level decision.
	Suppressed []rules.Violation

	// UnusedDirectives lists disable comments that never matched a
	// violation, when InlineDirectives.WarnUnused surfaces them as
	// Violations this also holds the source directives they came from.
	UnusedDirectives []directive.Directive
}

// Run executes the full pipeline for one file: parse, build the semantic
// model, resolve directives, run every applicable rule, then filter.
//
// A panic from the front-end parser or the semantic builder is recovered
// and reported as ErrParseFailed / ErrAnalysisFailed; a panic from an
// individual rule is recovered per-rule (see runRule) and never aborts the
// run.
func Run(input Input) (result *Result, err error) {
	content := input.Content
	if content == nil {
		content, err = os.ReadFile(input.File)
		if err != nil {
			return nil, fmt.Errorf("%w: reading %s: %v", ErrParseFailed, input.File, err)
		}
	}

	cfg := input.Config
	if cfg == nil {
		cfg, err = config.Load(input.File)
		if err != nil {
			loggingctx.ForFile(input.File).WithError(err).Debug("falling back to default config: discovery or parse failed")
			cfg = config.Default()
		}
	}

	reg := input.Registry
	if reg == nil {
		reg = rules.DefaultRegistry()
	}

	tree, err := parseTree(content)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrParseFailed, input.File, err)
	}

	model, err := buildModel(tree, input.File)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrAnalysisFailed, input.File, err)
	}

	sm := sourcemap.New(content)

	directiveResult := &directive.ParseResult{}
	if cfg.InlineDirectives.Enabled {
		validator := directive.RuleValidator(reg.Has)
		if !cfg.InlineDirectives.ValidateRules {
			validator = nil
		}
		directiveResult = directive.Parse(sm, firstCodeLine(tree, sm), validator)
	}

	disableAll, disabledCodes := globalDisables(directiveResult.Directives)

	var violations []rules.Violation
	for _, rule := range reg.All() {
		meta := rule.Metadata()
		code := meta.Code

		if disableAll || disabledCodes[code] {
			continue
		}

		severity := cfg.SeverityFor(code, meta.DefaultSeverity)
		if severity == rules.SeverityOff {
			continue
		}

		ruleInput := rules.LintInput{
			File:     input.File,
			Source:   content,
			Semantic: model,
			Config:   cfg.OptionsFor(code),
		}

		out := runRule(rule, ruleInput, tree, model, input.File)
		for i := range out {
			out[i].Severity = severity
		}
		violations = append(violations, out...)
	}

	violations = append(violations, directiveGrammarViolations(input.File, cfg, directiveResult)...)

	filtered := directive.Filter(violations, directiveResult.Directives)

	if cfg.InlineDirectives.WarnUnused {
		filtered.Violations = append(filtered.Violations, unusedDirectiveViolations(input.File, filtered.UnusedDirectives)...)
	}

	filtered.Violations = attachSnippets(dedup(supersede(filtered.Violations)), sm)

	return &Result{
		File:             input.File,
		Config:           cfg,
		Tree:             tree,
		Model:            model,
		Violations:       filtered.Violations,
		Suppressed:       filtered.Suppressed,
		UnusedDirectives: filtered.UnusedDirectives,
	}, nil
}

// parseTree runs the front-end parser, converting a panic into an error
// instead of letting it escape — zsyntax is meant to degrade unknown syntax
// to opaque leaves, but a genuinely malformed file (mismatched brackets
// driving an index out of range, for instance) should fail this one file,
// not the whole run.
func parseTree(content []byte) (tree *zsyntax.Tree, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return zsyntax.Parse(content), nil
}

// buildModel runs the semantic builder with the same panic-to-error
// conversion as parseTree.
func buildModel(tree *zsyntax.Tree, file string) (model *semantic.Model, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return semantic.Build(tree, file)
}

// runRule invokes every check-style interface rule implements, isolating a
// panic from any one of them into a single failure diagnostic. A rule that
// panics midway through, say, its NodeRunner pass loses whatever
// violations it had already produced in this invocation: it is treated as
// having failed outright rather than partially succeeded.
func runRule(rule rules.Rule, input rules.LintInput, tree *zsyntax.Tree, model *semantic.Model, file string) (violations []rules.Violation) {
	code := rule.Metadata().Code
	defer func() {
		if r := recover(); r != nil {
			loggingctx.ForRule(loggingctx.ForFile(file), code).WithField("panic", r).Error("rule panicked")
			violations = []rules.Violation{
				rules.NewViolation(
					rules.NewFileLocation(input.File),
					code,
					fmt.Sprintf("Rule '%s' failed to run: %v", code, r),
					rules.SeverityError,
				),
			}
		}
	}()

	if once, ok := rule.(rules.OnceRunner); ok {
		violations = append(violations, once.CheckOnce(input)...)
	}
	if nr, ok := rule.(rules.NodeRunner); ok {
		for n := 0; n < tree.Len(); n++ {
			violations = append(violations, nr.CheckNode(input, zsyntax.NodeIndex(n))...)
		}
	}
	if sr, ok := rule.(rules.SymbolRunner); ok {
		for s := 1; s < len(model.Symbols); s++ {
			violations = append(violations, sr.CheckSymbol(input, ids.SymbolID(s))...)
		}
	}
	return violations
}

// globalDisables separates file-wide disable directives (which skip rule
// invocation entirely) from line-scoped ones (resolved later by
// directive.Filter against the violations the rules actually produced).
func globalDisables(directives []directive.Directive) (disableAll bool, codes map[string]bool) {
	codes = make(map[string]bool)
	for _, d := range directives {
		if d.Type != directive.TypeGlobal {
			continue
		}
		if len(d.Rules) == 0 {
			disableAll = true
			continue
		}
		for _, code := range d.Rules {
			codes[code] = true
		}
	}
	return disableAll, codes
}

// firstCodeLine returns the 1-based line of the first field or declaration
// in the root container, the boundary directive.Parse uses to decide
// whether a global disable comment appears early enough to count. A file
// with no declarations at all has no such boundary, so every remaining
// line still counts as "before the first declaration".
func firstCodeLine(tree *zsyntax.Tree, sm *sourcemap.SourceMap) int {
	root := tree.Root()
	first := -1
	consider := func(tok uint32) {
		line := sm.PositionFor(tree.Tokens.Starts[tok]).Line
		if first == -1 || line < first {
			first = line
		}
	}
	for _, f := range root.Fields {
		consider(tree.MainToken[f])
	}
	for _, d := range root.Decls {
		consider(tree.MainToken[d])
	}
	if first == -1 {
		return sm.LineCount() + 1
	}
	return first
}

// directiveGrammarViolations turns problems detectable from the parsed
// directives alone (unknown rule codes, missing reasons) into violations,
// each namespaced under metaRulePrefix so they never collide with a
// pluggable rule's own code. Unused-directive reporting needs the verdict
// directive.Filter produces, so it is handled separately by
// unusedDirectiveViolations once the run's violations are known.
func directiveGrammarViolations(file string, cfg *config.Config, result *directive.ParseResult) []rules.Violation {
	var out []rules.Violation

	for _, perr := range result.Errors {
		out = append(out, rules.NewViolation(
			rules.NewLineLocation(file, perr.Line),
			metaRulePrefix+"invalid-directive",
			perr.Message,
			rules.SeverityWarning,
		).WithDetail(perr.RawText))
	}

	if cfg.InlineDirectives.RequireReason {
		for _, d := range result.Directives {
			if d.Reason != "" {
				continue
			}
			out = append(out, rules.NewViolation(
				rules.NewLineLocation(file, d.Line),
				metaRulePrefix+"missing-directive-reason",
				"lint-disable directive has no \"; reason\" explanation",
				rules.SeverityWarning,
			).WithDetail(d.RawText))
		}
	}

	return out
}

// unusedDirectiveViolations reports every directive that suppressed
// nothing, once directive.Filter has run and settled that verdict.
func unusedDirectiveViolations(file string, unused []directive.Directive) []rules.Violation {
	out := make([]rules.Violation, 0, len(unused))
	for _, d := range unused {
		out = append(out, rules.NewViolation(
			rules.NewLineLocation(file, d.Line),
			metaRulePrefix+"unused-directive",
			"lint-disable directive did not suppress any violation",
			rules.SeverityWarning,
		).WithDetail(d.RawText))
	}
	return out
}

// CheckFailLevel reports ErrLintingFailed if any surviving violation is at
// least as severe as threshold, nil otherwise.
func (r *Result) CheckFailLevel(threshold rules.Severity) error {
	for _, v := range r.Violations {
		if v.Severity.IsAtLeast(threshold) {
			return ErrLintingFailed
		}
	}
	return nil
}
