package fix

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnifiedDiffNoChanges(t *testing.T) {
	fc := &FileChange{
		Path:            "a.zig",
		OriginalContent: []byte("const x = 1;\n"),
		ModifiedContent: []byte("const x = 1;\n"),
	}
	assert.Empty(t, UnifiedDiff(fc))
}

func TestUnifiedDiffSingleLineChange(t *testing.T) {
	fc := &FileChange{
		Path:            "a.zig",
		OriginalContent: []byte("const x = 1;\nconst y = 2;\n"),
		ModifiedContent: []byte("const x = 1;\nconst y = 3;\n"),
	}
	// Force HasChanges() to report true: FixesApplied is normally populated
	// by the fixer, but diff rendering only needs content divergence.
	fc.FixesApplied = []AppliedFix{{RuleCode: "test"}}

	diff := UnifiedDiff(fc)
	assert.Contains(t, diff, "--- a/a.zig")
	assert.Contains(t, diff, "+++ b/a.zig")
	assert.Contains(t, diff, "-const y = 2;")
	assert.Contains(t, diff, "+const y = 3;")
	assert.Contains(t, diff, " const x = 1;")
}

func TestUnifiedDiffAddedLine(t *testing.T) {
	fc := &FileChange{
		Path:            "a.zig",
		OriginalContent: []byte("const x = 1;\n"),
		ModifiedContent: []byte("const x = 1;\nconst y = 2;\n"),
		FixesApplied:    []AppliedFix{{RuleCode: "test"}},
	}
	diff := UnifiedDiff(fc)
	assert.Contains(t, diff, "+const y = 2;")
}
