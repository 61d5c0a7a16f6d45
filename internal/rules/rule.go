package rules

import (
	"github.com/tinovyatkin/ziglint/internal/sourcemap"
)

// LintInput contains everything a rule needs to check one file. Most rules
// consume the semantic model and the token/node tables built for the file;
// whole-file rules such as max-file-lines and indent-style read Source
// directly, so their diagnostics depend on formatting.
//
// LintInput is read-only: a rule must not mutate File, Source, Semantic, or
// Config. Copy first if a rule needs scratch state derived from them.
type LintInput struct {
	// File is the path to the file being linted.
	File string

	// Source is the raw source content, used for snippet extraction and
	// directive parsing.
	Source []byte

	// Semantic is the built semantic model for the file. Declared as any to
	// avoid an import cycle between rules and semantic; concrete rules type
	// assert it to *semantic.Model.
	Semantic any

	// Config is the rule-specific configuration, concrete type depends on
	// the rule (see ConfigurableRule).
	Config any
}

// SourceMap builds a SourceMap on demand for snippet extraction. Results are
// not cached; callers that need it more than once should keep a reference.
func (input LintInput) SourceMap() *sourcemap.SourceMap {
	return sourcemap.New(input.Source)
}

// SnippetForLocation extracts the source text at a location. File-level
// locations return "".
func (input LintInput) SnippetForLocation(loc Location) string {
	if loc.IsFileLevel() {
		return ""
	}
	sm := input.SourceMap()
	if loc.IsPointLocation() {
		return sm.Line(loc.Start.Line)
	}
	endLine := loc.End.Line
	if loc.End.Column == 1 && endLine > loc.Start.Line {
		endLine--
	}
	return sm.Snippet(loc.Start.Line, endLine)
}

// RuleMetadata is static information about a rule, independent of any one
// file it runs against.
type RuleMetadata struct {
	Code             string
	Name             string
	Description      string
	DocURL           string
	DefaultSeverity  Severity
	Category         string
	EnabledByDefault bool
	IsExperimental   bool
}

// Rule is the contract every lint rule implements. It carries no check
// logic itself: a rule also implements one or more of OnceRunner,
// NodeRunner, or SymbolRunner to say how the driver invokes it, the same way
// io.Reader implementations optionally add io.Closer.
type Rule interface {
	Metadata() RuleMetadata
}

// OnceRunner is implemented by rules that inspect the whole file a single
// time rather than per-node or per-symbol (e.g. a line-count limit).
type OnceRunner interface {
	Rule
	CheckOnce(input LintInput) []Violation
}

// NodeRunner is implemented by rules that want a callback for every syntax
// node in the file, in traversal order.
type NodeRunner interface {
	Rule
	CheckNode(input LintInput, node any) []Violation
}

// SymbolRunner is implemented by rules that want a callback for every symbol
// recorded in the semantic model.
type SymbolRunner interface {
	Rule
	CheckSymbol(input LintInput, symbol any) []Violation
}

// ConfigurableRule is implemented by rules that accept configuration beyond
// severity.
type ConfigurableRule interface {
	Rule
	DefaultConfig() any
	ValidateConfig(config any) error
}
