package directive

import (
	"testing"

	"github.com/tinovyatkin/ziglint/internal/sourcemap"
)

func TestParseNextLineDirective(t *testing.T) {
	src := []byte("const a = 1;\n// lint-disable-next-line unusedvariable\nconst b = 2;\n")
	sm := sourcemap.New(src)

	result := Parse(sm, 1, nil)
	if len(result.Directives) != 1 {
		t.Fatalf("len(Directives) = %d, want 1", len(result.Directives))
	}
	d := result.Directives[0]
	if d.Type != TypeNextLine {
		t.Errorf("Type = %v, want TypeNextLine", d.Type)
	}
	if len(d.Rules) != 1 || d.Rules[0] != "unusedvariable" {
		t.Errorf("Rules = %v, want [unusedvariable]", d.Rules)
	}
	if !d.SuppressesLine(3) {
		t.Error("expected directive to suppress line 3")
	}
	if d.SuppressesLine(1) {
		t.Error("directive should not suppress the line it's on")
	}
}

func TestParseGlobalDirectiveBeforeFirstCode(t *testing.T) {
	src := []byte("// lint-disable maxfilelines\nconst a = 1;\n")
	sm := sourcemap.New(src)

	result := Parse(sm, 2, nil)
	if len(result.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Directives) != 1 {
		t.Fatalf("len(Directives) = %d, want 1", len(result.Directives))
	}
	d := result.Directives[0]
	if d.Type != TypeGlobal {
		t.Errorf("Type = %v, want TypeGlobal", d.Type)
	}
	if !d.SuppressesLine(100) {
		t.Error("global directive should suppress any line")
	}
}

func TestParseGlobalDirectiveAfterFirstCodeIsAnError(t *testing.T) {
	src := []byte("const a = 1;\n// lint-disable maxfilelines\n")
	sm := sourcemap.New(src)

	result := Parse(sm, 1, nil)
	if len(result.Directives) != 0 {
		t.Fatalf("len(Directives) = %d, want 0", len(result.Directives))
	}
	if len(result.Errors) != 1 {
		t.Fatalf("len(Errors) = %d, want 1", len(result.Errors))
	}
}

func TestParseBareDisableSuppressesAllRules(t *testing.T) {
	src := []byte("// lint-disable-next-line\nconst a = 1;\n")
	sm := sourcemap.New(src)

	result := Parse(sm, 2, nil)
	if len(result.Directives) != 1 {
		t.Fatalf("len(Directives) = %d, want 1", len(result.Directives))
	}
	d := result.Directives[0]
	if len(d.Rules) != 0 {
		t.Errorf("Rules = %v, want empty (suppress all)", d.Rules)
	}
	if !d.SuppressesRule("anything") {
		t.Error("bare directive should suppress any rule code")
	}
}

func TestParseDirectiveWithReason(t *testing.T) {
	src := []byte("// lint-disable-next-line unusedvariable ; kept for debugging\nconst a = 1;\n")
	sm := sourcemap.New(src)

	result := Parse(sm, 2, nil)
	if len(result.Directives) != 1 {
		t.Fatalf("len(Directives) = %d, want 1", len(result.Directives))
	}
	if result.Directives[0].Reason != "kept for debugging" {
		t.Errorf("Reason = %q, want %q", result.Directives[0].Reason, "kept for debugging")
	}
}

func TestParseUnknownRuleCodeIsAnError(t *testing.T) {
	src := []byte("// lint-disable-next-line not-a-real-rule\nconst a = 1;\n")
	sm := sourcemap.New(src)

	validator := func(code string) bool { return code == "unusedvariable" }
	result := Parse(sm, 2, validator)
	if len(result.Errors) != 1 {
		t.Fatalf("len(Errors) = %d, want 1", len(result.Errors))
	}
}

func TestParseMultipleRuleCodes(t *testing.T) {
	src := []byte("// lint-disable-next-line unusedvariable, undefinedvar\nconst a = 1;\n")
	sm := sourcemap.New(src)

	result := Parse(sm, 2, nil)
	if len(result.Directives) != 1 {
		t.Fatalf("len(Directives) = %d, want 1", len(result.Directives))
	}
	if len(result.Directives[0].Rules) != 2 {
		t.Fatalf("len(Rules) = %d, want 2", len(result.Directives[0].Rules))
	}
}

func TestParseDirectiveAtEndOfFileHasNoTarget(t *testing.T) {
	src := []byte("const a = 1;\n// lint-disable-next-line unusedvariable\n")
	sm := sourcemap.New(src)

	result := Parse(sm, 1, nil)
	if len(result.Directives) != 1 {
		t.Fatalf("len(Directives) = %d, want 1", len(result.Directives))
	}
	if result.Directives[0].AppliesTo.Start != 3 {
		t.Errorf("AppliesTo.Start = %d, want 3 (directive line + 1, even past EOF)", result.Directives[0].AppliesTo.Start)
	}
	if result.Directives[0].SuppressesLine(2) {
		t.Error("directive should not reach back to its own line")
	}
}

func TestNextLineDirectiveDoesNotSkipBlankLines(t *testing.T) {
	src := []byte("// lint-disable-next-line unusedvariable\n\nconst a = 1;\n")
	sm := sourcemap.New(src)

	result := Parse(sm, 3, nil)
	if len(result.Directives) != 1 {
		t.Fatalf("len(Directives) = %d, want 1", len(result.Directives))
	}
	d := result.Directives[0]
	if d.SuppressesLine(3) {
		t.Error("directive should not reach past the blank line to line 3")
	}
	if !d.SuppressesLine(2) {
		t.Error("directive should apply to line 2, the line immediately following it, even though it's blank")
	}
}

func TestIgnoresPlainComments(t *testing.T) {
	src := []byte("// just a note\nconst a = 1;\n")
	sm := sourcemap.New(src)

	result := Parse(sm, 2, nil)
	if len(result.Directives) != 0 {
		t.Fatalf("len(Directives) = %d, want 0", len(result.Directives))
	}
}
