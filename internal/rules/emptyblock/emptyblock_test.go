package emptyblock

import (
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tinovyatkin/ziglint/internal/rules"
	"github.com/tinovyatkin/ziglint/internal/semantic"
	"github.com/tinovyatkin/ziglint/internal/zsyntax"
)

func TestEmptyBlockRule_Metadata(t *testing.T) {
	t.Parallel()
	snaps.MatchStandaloneJSON(t, New().Metadata())
}

func checkAll(t *testing.T, src string) []rules.Violation {
	t.Helper()
	tree := zsyntax.Parse([]byte(src))
	model, err := semantic.Build(tree, "test.zig")
	require.NoError(t, err)

	input := rules.LintInput{File: "test.zig", Source: []byte(src), Semantic: model}
	r := New()

	var out []rules.Violation
	for n := 0; n < tree.Len(); n++ {
		out = append(out, r.CheckNode(input, zsyntax.NodeIndex(n))...)
	}
	return out
}

func TestEmptyBlockFlagsBlockWithNoStatements(t *testing.T) {
	violations := checkAll(t, `
fn f() void {
}
`)
	require.Len(t, violations, 1)
	assert.Equal(t, "empty-block", violations[0].RuleCode)
}

func TestEmptyBlockAllowsBlockWithStatements(t *testing.T) {
	violations := checkAll(t, `
fn f() void {
    const x = 1;
}
`)
	assert.Empty(t, violations)
}

func TestEmptyBlockAllowsEmptyComptimeBlock(t *testing.T) {
	violations := checkAll(t, `
fn f() void {
    comptime {
    }
}
`)
	assert.Empty(t, violations, "an empty comptime block is a deliberate marker, not dead code")
}
