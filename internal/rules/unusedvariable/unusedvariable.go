// Package unusedvariable flags a local variable or constant binding that is
// never read anywhere in the file.
package unusedvariable

import (
	"fmt"

	"github.com/tinovyatkin/ziglint/internal/ids"
	"github.com/tinovyatkin/ziglint/internal/rules"
	"github.com/tinovyatkin/ziglint/internal/semantic"
	"github.com/tinovyatkin/ziglint/internal/sourcemap"
)

// Rule implements the unused-variable check.
type Rule struct{}

// New returns a ready-to-register Rule.
func New() *Rule { return &Rule{} }

// Metadata returns the rule's static description.
func (r *Rule) Metadata() rules.RuleMetadata {
	return rules.RuleMetadata{
		Code:             "unused-variable",
		Name:             "Unused Variable",
		Description:      "flags a local variable or constant that is declared but never read",
		DocURL:           "https://github.com/tinovyatkin/ziglint/blob/main/docs/rules/unused-variable.md",
		DefaultSeverity:  rules.SeverityWarning,
		Category:         "suspicious",
		EnabledByDefault: true,
	}
}

// CheckSymbol reports a violation for every non-member, non-exported
// variable or constant symbol with no resolving reference. Parameters,
// container fields, functions, enum variants, catch payloads, and import
// bindings are out of scope for this rule — each has its own usage
// conventions unrelated to a plain local binding going unread.
func (r *Rule) CheckSymbol(input rules.LintInput, symbol any) []rules.Violation {
	id, ok := symbol.(ids.SymbolID)
	if !ok {
		return nil
	}
	model, ok := input.Semantic.(*semantic.Model)
	if !ok || model == nil {
		return nil
	}

	sym := model.Symbol(id)
	if sym.Kind != semantic.SymbolVariable && sym.Kind != semantic.SymbolConst {
		return nil
	}
	if sym.Flags.Has(semantic.FlagMember) || sym.Flags.Has(semantic.FlagExported) || sym.Flags.Has(semantic.FlagPub) {
		return nil
	}
	if sym.Name == "" || model.IsUsed(id) {
		return nil
	}

	sm := sourcemap.New(input.Source)
	pos := sm.PositionFor(model.Tree.Tokens.Starts[sym.NameToken])
	loc := rules.NewRangeLocation(input.File, pos.Line, pos.Column, pos.Line, pos.Column+len(sym.Name))

	meta := r.Metadata()
	return []rules.Violation{
		rules.NewViolation(loc, meta.Code,
			fmt.Sprintf("%q is declared but never used", sym.Name), meta.DefaultSeverity,
		).WithDocURL(meta.DocURL),
	}
}

func init() {
	rules.Register(New())
}
