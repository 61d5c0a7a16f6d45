// Package undefinedvar flags reads of identifiers that never resolve to a
// declaration visible from their scope, the symbol-table analogue of
// tally's buildkit.UndefinedVarRule (which observes word expansion against
// the build environment rather than a lexical scope chain).
package undefinedvar

import (
	"fmt"

	"github.com/tinovyatkin/ziglint/internal/rules"
	"github.com/tinovyatkin/ziglint/internal/semantic"
	"github.com/tinovyatkin/ziglint/internal/sourcemap"
	"github.com/tinovyatkin/ziglint/internal/zsyntax"
)

// Rule implements the undefined-var check.
type Rule struct{}

// New returns a ready-to-register Rule.
func New() *Rule { return &Rule{} }

// Metadata returns the rule's static description.
func (r *Rule) Metadata() rules.RuleMetadata {
	return rules.RuleMetadata{
		Code:             "undefined-var",
		Name:             "Undefined Variable",
		Description:      "flags an identifier that does not resolve to any declaration visible in its scope",
		DocURL:           "https://github.com/tinovyatkin/ziglint/blob/main/docs/rules/undefined-var.md",
		DefaultSeverity:  rules.SeverityError,
		Category:         "correctness",
		EnabledByDefault: true,
	}
}

// CheckNode reports a violation when node is a bare identifier reference
// whose reference-table row never resolved to a symbol. Unresolved member
// components of a field-access chain (a.b.c's b and c) are skipped: they
// are field names, not variable reads, and the spec's no-type-checking
// non-goal means there is nothing to resolve them against anyway.
func (r *Rule) CheckNode(input rules.LintInput, node any) []rules.Violation {
	idx, ok := node.(zsyntax.NodeIndex)
	if !ok {
		return nil
	}
	model, ok := input.Semantic.(*semantic.Model)
	if !ok || model == nil {
		return nil
	}
	if model.Tree.Tags[idx] != zsyntax.TagIdentifier {
		return nil
	}

	tok := model.Tree.MainToken[idx]
	refID, ok := model.IdentifierRefs[tok]
	if !ok {
		return nil
	}
	ref := model.Reference(refID)
	if ref.Flags.Has(semantic.ReferenceMember) {
		return nil
	}
	if _, resolved := ref.Symbol.Get(); resolved {
		return nil
	}

	sm := sourcemap.New(input.Source)
	pos := sm.PositionFor(model.Tree.Tokens.Starts[tok])
	loc := rules.NewRangeLocation(input.File, pos.Line, pos.Column, pos.Line, pos.Column+len(ref.Name))

	meta := r.Metadata()
	return []rules.Violation{
		rules.NewViolation(loc, meta.Code,
			fmt.Sprintf("%q is not defined in this scope", ref.Name), meta.DefaultSeverity,
		).WithDocURL(meta.DocURL),
	}
}

func init() {
	rules.Register(New())
}
