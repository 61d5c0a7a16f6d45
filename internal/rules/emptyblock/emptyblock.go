// Package emptyblock flags a non-comptime block with no statements, usually
// a sign of a forgotten implementation or dead branch.
package emptyblock

import (
	"github.com/tinovyatkin/ziglint/internal/rules"
	"github.com/tinovyatkin/ziglint/internal/semantic"
	"github.com/tinovyatkin/ziglint/internal/sourcemap"
	"github.com/tinovyatkin/ziglint/internal/zsyntax"
)

// Rule implements the empty-block check.
type Rule struct{}

// New returns a ready-to-register Rule.
func New() *Rule { return &Rule{} }

// Metadata returns the rule's static description.
func (r *Rule) Metadata() rules.RuleMetadata {
	return rules.RuleMetadata{
		Code:             "empty-block",
		Name:             "Empty Block",
		Description:      "flags a block with no statements",
		DocURL:           "https://github.com/tinovyatkin/ziglint/blob/main/docs/rules/empty-block.md",
		DefaultSeverity:  rules.SeverityInfo,
		Category:         "suspicious",
		EnabledByDefault: true,
	}
}

// CheckNode reports a violation when node is a block with zero statements.
// Comptime blocks are exempt: an empty `comptime {}` is occasionally used as
// a deliberate marker and is not the dead-code smell this rule targets.
func (r *Rule) CheckNode(input rules.LintInput, node any) []rules.Violation {
	idx, ok := node.(zsyntax.NodeIndex)
	if !ok {
		return nil
	}
	model, ok := input.Semantic.(*semantic.Model)
	if !ok || model == nil {
		return nil
	}
	if model.Tree.Tags[idx] != zsyntax.TagBlock {
		return nil
	}

	block := model.Tree.Data[idx].(*zsyntax.Block)
	if len(block.Statements) != 0 || block.IsComptime {
		return nil
	}

	sm := sourcemap.New(input.Source)
	pos := sm.PositionFor(model.Tree.Tokens.Starts[model.Tree.MainToken[idx]])
	loc := rules.NewLineLocation(input.File, pos.Line)

	meta := r.Metadata()
	return []rules.Violation{
		rules.NewViolation(loc, meta.Code, "block has no statements", meta.DefaultSeverity).
			WithDocURL(meta.DocURL),
	}
}

func init() {
	rules.Register(New())
}
