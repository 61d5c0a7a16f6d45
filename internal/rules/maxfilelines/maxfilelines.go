// Package maxfilelines ports tally's max-lines rule: a configurable ceiling
// on the number of lines a single file may contain.
package maxfilelines

import (
	"fmt"
	"strings"

	"github.com/tinovyatkin/ziglint/internal/rules"
	"github.com/tinovyatkin/ziglint/internal/rules/configutil"
	"github.com/tinovyatkin/ziglint/internal/schema"
)

// Config is the configuration for the max-file-lines rule.
type Config struct {
	// Max is the maximum number of lines allowed. 0 disables the rule.
	Max int `koanf:"max"`

	// SkipBlankLines excludes blank lines from the count.
	SkipBlankLines bool `koanf:"skip-blank-lines"`

	// SkipComments excludes `//`-led comment lines from the count.
	SkipComments bool `koanf:"skip-comments"`
}

// DefaultConfig returns the rule's default configuration: disabled until a
// project opts in with a max line count.
func DefaultConfig() Config {
	return Config{Max: 0, SkipBlankLines: false, SkipComments: false}
}

// Rule implements the max-file-lines check.
type Rule struct{}

// New returns a ready-to-register Rule.
func New() *Rule { return &Rule{} }

// Metadata returns the rule's static description.
func (r *Rule) Metadata() rules.RuleMetadata {
	return rules.RuleMetadata{
		Code:             "max-file-lines",
		Name:             "Maximum File Lines",
		Description:      "limits the number of lines a single source file may contain",
		DocURL:           "https://github.com/tinovyatkin/ziglint/blob/main/docs/rules/max-file-lines.md",
		DefaultSeverity:  rules.SeverityWarning,
		Category:         "maintainability",
		EnabledByDefault: false,
	}
}

// CheckOnce counts input.Source's lines under the resolved configuration and
// reports a single file-level violation if the count exceeds Max.
func (r *Rule) CheckOnce(input rules.LintInput) []rules.Violation {
	cfg := configutil.Resolve(optsMap(input.Config), DefaultConfig())
	if cfg.Max <= 0 {
		return nil
	}

	count := countLines(string(input.Source), cfg)
	if count <= cfg.Max {
		return nil
	}

	meta := r.Metadata()
	return []rules.Violation{
		rules.NewViolation(
			rules.NewFileLocation(input.File),
			meta.Code,
			fmt.Sprintf("file has %d lines, maximum allowed is %d", count, cfg.Max),
			meta.DefaultSeverity,
		).WithDocURL(meta.DocURL),
	}
}

// DefaultConfig implements rules.ConfigurableRule.
func (r *Rule) DefaultConfig() any { return DefaultConfig() }

// ValidateConfig implements rules.ConfigurableRule.
func (r *Rule) ValidateConfig(config any) error {
	opts, ok := config.(map[string]any)
	if !ok {
		return nil
	}
	cfg := configutil.Resolve(opts, DefaultConfig())
	if cfg.Max < 0 {
		return fmt.Errorf("max must be >= 0, got %d", cfg.Max)
	}
	return nil
}

// JSONSchema implements schema.Provider, describing Config's shape for
// external config tooling (spec.md §4.4).
func (r *Rule) JSONSchema() (*schema.Schema, error) {
	zero := 0
	return schema.Object(map[string]*schema.Schema{
		"max":              schema.Integer("maximum number of lines allowed; 0 disables the rule", &zero, nil),
		"skip-blank-lines": schema.Boolean("exclude blank lines from the count", false),
		"skip-comments":    schema.Boolean("exclude // comment lines from the count", false),
	}), nil
}

func optsMap(config any) map[string]any {
	opts, _ := config.(map[string]any)
	return opts
}

func countLines(source string, cfg Config) int {
	lines := strings.Split(source, "\n")
	count := 0
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if cfg.SkipBlankLines && trimmed == "" {
			continue
		}
		if cfg.SkipComments && strings.HasPrefix(trimmed, "//") {
			continue
		}
		count++
	}
	return count
}

func init() {
	rules.Register(New())
}
