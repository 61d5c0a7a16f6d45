package undefinedvar

import (
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tinovyatkin/ziglint/internal/rules"
	"github.com/tinovyatkin/ziglint/internal/semantic"
	"github.com/tinovyatkin/ziglint/internal/zsyntax"
)

func TestUndefinedVarRule_Metadata(t *testing.T) {
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

func TestUndefinedVarFlagsUnresolvedIdentifier(t *testing.T) {
	violations := checkAll(t, `
fn broken() i32 {
    return missing;
}
`)
	require.Len(t, violations, 1)
	assert.Equal(t, "undefined-var", violations[0].RuleCode)
	assert.Contains(t, violations[0].Message, "missing")
}

func TestUndefinedVarAllowsResolvedParameter(t *testing.T) {
	violations := checkAll(t, `
fn add(a: i32, b: i32) i32 {
    return a + b;
}
`)
	assert.Empty(t, violations)
}

func TestUndefinedVarSkipsMemberAccessComponents(t *testing.T) {
	violations := checkAll(t, `
fn use(a: Foo) void {
    const x = a.unknownField;
}
`)
	assert.Empty(t, violations, "member-access field names are never resolved and must not be flagged")
}

func TestUndefinedVarMetadata(t *testing.T) {
	meta := New().Metadata()
	assert.Equal(t, "undefined-var", meta.Code)
	assert.True(t, meta.EnabledByDefault)
}
