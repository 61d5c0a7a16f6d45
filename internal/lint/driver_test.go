package lint

import (
	"errors"
	"testing"

	"github.com/tinovyatkin/ziglint/internal/config"
	"github.com/tinovyatkin/ziglint/internal/rules"
)

// fixedRule is a minimal OnceRunner used to drive the dispatch loop from
// test code without depending on any real rule package.
type fixedRule struct {
	code     string
	severity rules.Severity
	result   []rules.Violation
	panics   bool
}

func (r fixedRule) Metadata() rules.RuleMetadata {
	return rules.RuleMetadata{
		Code:             r.code,
		Name:             r.code,
		DefaultSeverity:  r.severity,
		EnabledByDefault: true,
	}
}

func (r fixedRule) CheckOnce(input rules.LintInput) []rules.Violation {
	if r.panics {
		panic("boom")
	}
	return r.result
}

func newTestRegistry(rs ...rules.Rule) *rules.Registry {
	reg := rules.NewRegistry()
	for _, r := range rs {
		reg.Register(r)
	}
	return reg
}

const sampleSource = `const std = @import("std");

fn add(a: i32, b: i32) i32 {
    return a + b;
}
`

func TestRunReportsRuleViolation(t *testing.T) {
	rule := fixedRule{
		code:     "always-fires",
		severity: rules.SeverityWarning,
		result: []rules.Violation{
			rules.NewViolation(rules.NewFileLocation("f.zig"), "always-fires", "always fires", rules.SeverityWarning),
		},
	}

	result, err := Run(Input{
		File:     "f.zig",
		Content:  []byte(sampleSource),
		Config:   config.Default(),
		Registry: newTestRegistry(rule),
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(result.Violations) != 1 {
		t.Fatalf("expected 1 violation, got %d: %+v", len(result.Violations), result.Violations)
	}
	if result.Violations[0].RuleCode != "always-fires" {
		t.Errorf("RuleCode = %q, want %q", result.Violations[0].RuleCode, "always-fires")
	}
}

func TestRunHonorsConfiguredSeverityOverride(t *testing.T) {
	rule := fixedRule{
		code:     "always-fires",
		severity: rules.SeverityWarning,
		result: []rules.Violation{
			rules.NewViolation(rules.NewFileLocation("f.zig"), "always-fires", "always fires", rules.SeverityWarning),
		},
	}

	cfg := config.Default()
	cfg.Rules = map[string]map[string]any{
		"always-fires": {"severity": "error"},
	}

	result, err := Run(Input{
		File:     "f.zig",
		Content:  []byte(sampleSource),
		Config:   cfg,
		Registry: newTestRegistry(rule),
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(result.Violations) != 1 {
		t.Fatalf("expected 1 violation, got %d", len(result.Violations))
	}
	if result.Violations[0].Severity != rules.SeverityError {
		t.Errorf("Severity = %v, want %v", result.Violations[0].Severity, rules.SeverityError)
	}
}

func TestRunSkipsRuleDisabledBySeverityOff(t *testing.T) {
	rule := fixedRule{
		code:     "always-fires",
		severity: rules.SeverityWarning,
		result: []rules.Violation{
			rules.NewViolation(rules.NewFileLocation("f.zig"), "always-fires", "always fires", rules.SeverityWarning),
		},
	}

	cfg := config.Default()
	cfg.Rules = map[string]map[string]any{
		"always-fires": {"severity": "off"},
	}

	result, err := Run(Input{
		File:     "f.zig",
		Content:  []byte(sampleSource),
		Config:   cfg,
		Registry: newTestRegistry(rule),
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(result.Violations) != 0 {
		t.Fatalf("expected 0 violations with severity off, got %d", len(result.Violations))
	}
}

func TestRunSkipsRuleUnderGlobalDisable(t *testing.T) {
	rule := fixedRule{
		code:     "always-fires",
		severity: rules.SeverityWarning,
		result: []rules.Violation{
			rules.NewViolation(rules.NewFileLocation("f.zig"), "always-fires", "always fires", rules.SeverityWarning),
		},
	}

	source := "// lint-disable always-fires; reason: testing global disable\n" + sampleSource

	result, err := Run(Input{
		File:     "f.zig",
		Content:  []byte(source),
		Config:   config.Default(),
		Registry: newTestRegistry(rule),
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(result.Violations) != 0 {
		t.Fatalf("expected global disable to suppress the rule entirely, got %d violations", len(result.Violations))
	}
}

func TestRunIsolatesRulePanic(t *testing.T) {
	bad := fixedRule{code: "bad-rule", severity: rules.SeverityWarning, panics: true}
	good := fixedRule{
		code:     "good-rule",
		severity: rules.SeverityWarning,
		result: []rules.Violation{
			rules.NewViolation(rules.NewFileLocation("f.zig"), "good-rule", "fine", rules.SeverityWarning),
		},
	}

	result, err := Run(Input{
		File:     "f.zig",
		Content:  []byte(sampleSource),
		Config:   config.Default(),
		Registry: newTestRegistry(bad, good),
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	var sawPanicDiagnostic, sawGood bool
	for _, v := range result.Violations {
		switch v.RuleCode {
		case "bad-rule":
			sawPanicDiagnostic = true
			if v.Severity != rules.SeverityError {
				t.Errorf("panic diagnostic severity = %v, want %v", v.Severity, rules.SeverityError)
			}
		case "good-rule":
			sawGood = true
		}
	}
	if !sawPanicDiagnostic {
		t.Error("expected a diagnostic reporting the panicking rule")
	}
	if !sawGood {
		t.Error("a panic in one rule should not prevent another rule's violations from surfacing")
	}
}

func TestRunDirectiveSuppressesNextLineViolation(t *testing.T) {
	rule := fixedRule{
		code:     "always-fires",
		severity: rules.SeverityWarning,
		result: []rules.Violation{
			rules.NewViolation(rules.NewLineLocation("f.zig", 4), "always-fires", "always fires", rules.SeverityWarning),
		},
	}

	source := `const std = @import("std");

// lint-disable-next-line always-fires; reason: testing suppression
fn add(a: i32, b: i32) i32 {
    return a + b;
}
`

	result, err := Run(Input{
		File:     "f.zig",
		Content:  []byte(source),
		Config:   config.Default(),
		Registry: newTestRegistry(rule),
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(result.Violations) != 0 {
		t.Fatalf("expected the next-line directive to suppress the violation, got %d", len(result.Violations))
	}
	if len(result.Suppressed) != 1 {
		t.Fatalf("expected 1 suppressed violation recorded, got %d", len(result.Suppressed))
	}
}

func TestRunWarnsOnUnusedDirective(t *testing.T) {
	source := `const std = @import("std");

// lint-disable-next-line always-fires; reason: nothing to suppress here
fn add(a: i32, b: i32) i32 {
    return a + b;
}
`
	cfg := config.Default()
	cfg.InlineDirectives.WarnUnused = true

	result, err := Run(Input{
		File:     "f.zig",
		Content:  []byte(source),
		Config:   cfg,
		Registry: newTestRegistry(),
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	var found bool
	for _, v := range result.Violations {
		if v.RuleCode == metaRulePrefix+"unused-directive" {
			found = true
		}
	}
	if !found {
		t.Error("expected an unused-directive diagnostic")
	}
}

func TestRunFlagsMissingDirectiveReason(t *testing.T) {
	source := "// lint-disable-next-line always-fires\n" + sampleSource

	cfg := config.Default()
	cfg.InlineDirectives.RequireReason = true

	result, err := Run(Input{
		File:     "f.zig",
		Content:  []byte(source),
		Config:   cfg,
		Registry: newTestRegistry(),
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	var found bool
	for _, v := range result.Violations {
		if v.RuleCode == metaRulePrefix+"missing-directive-reason" {
			found = true
		}
	}
	if !found {
		t.Error("expected a missing-directive-reason diagnostic")
	}
}

func TestRunSkipsDirectiveProcessingWhenDisabled(t *testing.T) {
	rule := fixedRule{
		code:     "always-fires",
		severity: rules.SeverityWarning,
		result: []rules.Violation{
			rules.NewViolation(rules.NewLineLocation("f.zig", 4), "always-fires", "always fires", rules.SeverityWarning),
		},
	}

	source := `const std = @import("std");

// lint-disable-next-line always-fires; reason: should be ignored
fn add(a: i32, b: i32) i32 {
    return a + b;
}
`
	cfg := config.Default()
	cfg.InlineDirectives.Enabled = false

	result, err := Run(Input{
		File:     "f.zig",
		Content:  []byte(source),
		Config:   cfg,
		Registry: newTestRegistry(rule),
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(result.Violations) != 1 {
		t.Fatalf("with directives disabled the violation should not be suppressed, got %d violations", len(result.Violations))
	}
}

func TestCheckFailLevel(t *testing.T) {
	result := &Result{
		Violations: []rules.Violation{
			rules.NewViolation(rules.NewFileLocation("f.zig"), "r", "msg", rules.SeverityWarning),
		},
	}

	if err := result.CheckFailLevel(rules.SeverityError); err != nil {
		t.Errorf("CheckFailLevel(error) with only a warning present: got %v, want nil", err)
	}
	if err := result.CheckFailLevel(rules.SeverityWarning); !errors.Is(err, ErrLintingFailed) {
		t.Errorf("CheckFailLevel(warning) with a warning present: got %v, want ErrLintingFailed", err)
	}
}
