package unusedvariable

import (
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tinovyatkin/ziglint/internal/ids"
	"github.com/tinovyatkin/ziglint/internal/rules"
	"github.com/tinovyatkin/ziglint/internal/semantic"
	"github.com/tinovyatkin/ziglint/internal/zsyntax"
)

func TestUnusedVariableRule_Metadata(t *testing.T) {
	t.Parallel()
	snaps.MatchStandaloneJSON(t, New().Metadata())
}

func buildModel(t *testing.T, src string) *semantic.Model {
	t.Helper()
	tree := zsyntax.Parse([]byte(src))
	model, err := semantic.Build(tree, "test.zig")
	require.NoError(t, err)
	return model
}

func checkAll(t *testing.T, src string) []rules.Violation {
	t.Helper()
	model := buildModel(t, src)
	input := rules.LintInput{File: "test.zig", Source: []byte(src), Semantic: model}
	r := New()

	var out []rules.Violation
	for i := 1; i < len(model.Symbols); i++ {
		out = append(out, r.CheckSymbol(input, ids.SymbolID(i))...)
	}
	return out
}

func TestUnusedVariableFlagsNeverReadConst(t *testing.T) {
	violations := checkAll(t, `
fn f() void {
    const x = 1;
}
`)
	require.Len(t, violations, 1)
	assert.Equal(t, "unused-variable", violations[0].RuleCode)
	assert.Contains(t, violations[0].Message, "x")
}

func TestUnusedVariableAllowsReadBinding(t *testing.T) {
	violations := checkAll(t, `
fn f() i32 {
    const x = 1;
    return x;
}
`)
	assert.Empty(t, violations)
}

func TestUnusedVariableIgnoresParameters(t *testing.T) {
	violations := checkAll(t, `
fn f(a: i32) void {}
`)
	assert.Empty(t, violations, "unused parameters are not this rule's concern")
}
