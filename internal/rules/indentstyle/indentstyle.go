// Package indentstyle flags lines whose leading whitespace does not match
// the indentation style declared for the file, either by an .editorconfig
// entry or by explicit rule configuration.
package indentstyle

import (
	"fmt"
	"strings"

	editorconfig "github.com/editorconfig/editorconfig-core-go/v2"

	"github.com/tinovyatkin/ziglint/internal/rules"
	"github.com/tinovyatkin/ziglint/internal/rules/configutil"
	"github.com/tinovyatkin/ziglint/internal/schema"
)

// Config is the configuration for the indent-style rule.
type Config struct {
	// Style is "tab" or "space". Empty defers entirely to .editorconfig
	// discovery; if that also yields nothing, the rule is a no-op for the
	// file.
	Style string `koanf:"style"`

	// TabWidth is the number of spaces a fix substitutes for one tab when
	// converting a tab-indented line to spaces.
	TabWidth int `koanf:"tab-width"`
}

// DefaultConfig returns the rule's default configuration.
func DefaultConfig() Config {
	return Config{Style: "", TabWidth: 4}
}

// Rule implements the indent-style check.
type Rule struct {
	// lookup resolves the effective editorconfig definition for a path.
	// Overridable in tests; defaults to the real editorconfig-core-go
	// lookup.
	lookup func(path string) (*editorconfig.Definition, error)
}

// New returns a ready-to-register Rule.
func New() *Rule {
	return &Rule{lookup: editorconfig.GetDefinitionForFilename}
}

// Metadata returns the rule's static description.
func (r *Rule) Metadata() rules.RuleMetadata {
	return rules.RuleMetadata{
		Code:             "indent-style",
		Name:             "Indent Style",
		Description:      "flags leading whitespace that does not match the declared indent style",
		DocURL:           "https://github.com/tinovyatkin/ziglint/blob/main/docs/rules/indent-style.md",
		DefaultSeverity:  rules.SeverityStyle,
		Category:         "style",
		EnabledByDefault: true,
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
	switch cfg.Style {
	case "", "tab", "space":
	default:
		return fmt.Errorf("style must be %q or %q, got %q", "tab", "space", cfg.Style)
	}
	if cfg.TabWidth <= 0 {
		return fmt.Errorf("tab-width must be positive, got %d", cfg.TabWidth)
	}
	return nil
}

// CheckOnce reports a violation for every line whose leading whitespace
// mixes in the style the file does not use.
func (r *Rule) CheckOnce(input rules.LintInput) []rules.Violation {
	cfg := configutil.Resolve(optsMap(input.Config), DefaultConfig())
	style := cfg.Style
	if style == "" {
		style = r.discover(input.File)
	}
	if style == "" {
		return nil
	}

	meta := r.Metadata()
	lines := strings.Split(string(input.Source), "\n")
	var violations []rules.Violation
	for i, line := range lines {
		leading := leadingWhitespace(line)
		if leading == "" {
			continue
		}
		offender, ok := wrongChar(leading, style)
		if !ok {
			continue
		}

		loc := rules.NewRangeLocation(input.File, i+1, 1, i+1, len(leading)+1)
		v := rules.NewViolation(loc, meta.Code,
			fmt.Sprintf("line is indented with %s, expected %ss", describeChar(offender), style),
			meta.DefaultSeverity,
		).WithDocURL(meta.DocURL)

		if fix, ok := convert(leading, style, cfg.TabWidth); ok {
			v = v.WithSuggestedFix(&rules.SuggestedFix{
				Description: fmt.Sprintf("convert leading whitespace to %ss", style),
				Edits: []rules.TextEdit{
					{Location: loc, NewText: fix},
				},
				Safety: rules.FixSafe,
			})
		}
		violations = append(violations, v)
	}
	return violations
}

// JSONSchema implements schema.Provider, describing Config's shape for
// external config tooling (spec.md §4.4).
func (r *Rule) JSONSchema() (*schema.Schema, error) {
	one := 1
	return schema.Object(map[string]*schema.Schema{
		"style":     schema.String("indent style; empty defers to .editorconfig discovery", "", "tab", "space"),
		"tab-width": schema.Integer("spaces substituted for one tab when fixing", &one, nil),
	}), nil
}

func (r *Rule) discover(path string) string {
	if r.lookup == nil || path == "" {
		return ""
	}
	def, err := r.lookup(path)
	if err != nil || def == nil {
		return ""
	}
	switch def.IndentStyle {
	case "tab", "space":
		return def.IndentStyle
	default:
		return ""
	}
}

func optsMap(config any) map[string]any {
	opts, _ := config.(map[string]any)
	return opts
}

func leadingWhitespace(line string) string {
	i := 0
	for i < len(line) && (line[i] == ' ' || line[i] == '\t') {
		i++
	}
	return line[:i]
}

func wrongChar(leading, style string) (byte, bool) {
	switch style {
	case "space":
		if strings.ContainsRune(leading, '\t') {
			return '\t', true
		}
	case "tab":
		if strings.ContainsRune(leading, ' ') {
			return ' ', true
		}
	}
	return 0, false
}

func describeChar(c byte) string {
	if c == '\t' {
		return "a tab"
	}
	return "a space"
}

// convert rewrites leading into the requested style when the conversion is
// unambiguous: a pure run of tabs becomes tabWidth spaces each; a pure run
// of spaces only converts to tabs when it is an exact multiple of tabWidth.
func convert(leading, style string, tabWidth int) (string, bool) {
	switch style {
	case "space":
		if strings.ContainsRune(leading, ' ') {
			return "", false
		}
		return strings.Repeat(" ", len(leading)*tabWidth), true
	case "tab":
		if strings.ContainsRune(leading, '\t') {
			return "", false
		}
		if tabWidth <= 0 || len(leading)%tabWidth != 0 {
			return "", false
		}
		return strings.Repeat("\t", len(leading)/tabWidth), true
	default:
		return "", false
	}
}

func init() {
	rules.Register(New())
}
