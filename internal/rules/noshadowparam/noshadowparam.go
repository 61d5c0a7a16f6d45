// Package noshadowparam flags a block-scope variable declaration whose name
// shadows a binding from an enclosing function's parameter list.
package noshadowparam

import (
	"fmt"

	"github.com/tinovyatkin/ziglint/internal/rules"
	"github.com/tinovyatkin/ziglint/internal/semantic"
	"github.com/tinovyatkin/ziglint/internal/sourcemap"
	"github.com/tinovyatkin/ziglint/internal/zsyntax"
)

// Rule implements the no-shadow-param check.
type Rule struct{}

// New returns a ready-to-register Rule.
func New() *Rule { return &Rule{} }

// Metadata returns the rule's static description.
func (r *Rule) Metadata() rules.RuleMetadata {
	return rules.RuleMetadata{
		Code:             "no-shadow-param",
		Name:             "No Shadowing Parameters",
		Description:      "flags a local declaration whose name shadows an enclosing function parameter",
		DocURL:           "https://github.com/tinovyatkin/ziglint/blob/main/docs/rules/no-shadow-param.md",
		DefaultSeverity:  rules.SeverityWarning,
		Category:         "suspicious",
		EnabledByDefault: true,
	}
}

// CheckNode reports a violation when node is a const/var declaration in a
// block or function-body scope whose name matches a binding already visible
// in an enclosing parameter scope.
func (r *Rule) CheckNode(input rules.LintInput, node any) []rules.Violation {
	idx, ok := node.(zsyntax.NodeIndex)
	if !ok {
		return nil
	}
	model, ok := input.Semantic.(*semantic.Model)
	if !ok || model == nil {
		return nil
	}
	if model.Tree.Tags[idx] != zsyntax.TagVarDecl {
		return nil
	}

	scope := model.Scope(model.ScopeOf(idx))
	if scope.Kind != semantic.ScopeBlock && scope.Kind != semantic.ScopeBody {
		return nil
	}

	vd := model.Tree.Data[idx].(*zsyntax.VarDecl)
	name := model.Tree.TokenText(vd.NameToken)
	if name == "" {
		return nil
	}

	parent, ok := scope.Parent.Get()
	for ok {
		p := model.Scope(parent)
		if p.Kind == semantic.ScopeParameter {
			for _, symID := range p.Symbols {
				if model.Symbol(symID).Name != name {
					continue
				}
				sm := sourcemap.New(input.Source)
				pos := sm.PositionFor(model.Tree.Tokens.Starts[vd.NameToken])
				loc := rules.NewRangeLocation(input.File, pos.Line, pos.Column, pos.Line, pos.Column+len(name))
				meta := r.Metadata()
				return []rules.Violation{
					rules.NewViolation(loc, meta.Code,
						fmt.Sprintf("%q shadows a parameter of the enclosing function", name), meta.DefaultSeverity,
					).WithDocURL(meta.DocURL),
				}
			}
		}
		parent, ok = p.Parent.Get()
	}
	return nil
}

func init() {
	rules.Register(New())
}
