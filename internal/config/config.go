// Package config provides configuration loading and discovery for ziglint.
//
// Configuration is loaded from multiple sources with the following priority
// (highest to lowest):
//  1. CLI flags / programmatic overrides
//  2. Environment variables (ZIGLINT_* prefix)
//  3. Config file (closest .ziglint.toml or ziglint.toml)
//  4. Built-in defaults
//
// Config file discovery follows a cascading pattern similar to Ruff:
// starting from the target file's directory, walk up the filesystem
// until a config file is found. The closest config wins (no merging).
//
// The in-memory shape this package resolves into is deliberately close to
// spec.md §6's "ordered list of (rule-name, severity, rule-specific-opaque-
// config) tuples": [Config.Tuples] walks the rule registry in registration
// order and pairs each rule code with whatever override this config carries
// for it, defaulting to the rule's own default severity.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/tinovyatkin/ziglint/internal/rules"
)

// ConfigFileNames defines the config file names to search for, in priority order.
var ConfigFileNames = []string{".ziglint.toml", "ziglint.toml"}

// EnvPrefix is the prefix for environment variables.
const EnvPrefix = "ZIGLINT_"

// Config represents the complete ziglint configuration.
type Config struct {
	// Rules carries per-rule overrides keyed by rule code (e.g.
	// "max-file-lines"). Each entry's "severity" and "fix" keys are
	// reserved; everything else is the rule's own opaque configuration,
	// handed to ConfigurableRule.ValidateConfig unchanged.
	Rules map[string]map[string]any `koanf:"rules"`

	// Output configures output format and destination.
	Output OutputConfig `koanf:"output"`

	// InlineDirectives controls inline suppression directives.
	InlineDirectives InlineDirectivesConfig `koanf:"inline-directives"`

	// Ignore is the front-end ignore-pattern list (spec.md §6: "used by
	// the front-end, not the core"). The engine never reads it; it is
	// carried here only because it is parsed as part of the same file.
	Ignore []string `koanf:"ignore"`

	// ConfigFile is the path to the config file that was loaded (if any).
	// This is metadata, not loaded from config.
	ConfigFile string `koanf:"-"`
}

// OutputConfig configures output formatting and behavior.
type OutputConfig struct {
	// Format specifies the output format: "text", "json", "sarif", "markdown".
	// Default: "text"
	Format string `koanf:"format"`

	// Path specifies where to write output: "stdout", "stderr", or a file path.
	// Default: "stdout"
	Path string `koanf:"path"`

	// ShowSource enables source code snippets in text output.
	// Default: true
	ShowSource bool `koanf:"show-source"`

	// FailLevel sets the minimum severity level that causes a non-zero exit code.
	// Valid values: "error", "warning", "info", "style", "off" ("off" never fails)
	// Default: "warning"
	FailLevel string `koanf:"fail-level"`
}

// InlineDirectivesConfig controls inline suppression directives.
// Supports the single `// lint-disable[-next-line] [rules]` grammar
// spec.md §4.3 specifies.
//
// Example TOML configuration:
//
//	[inline-directives]
//	enabled = true
//	warn-unused = false
//	validate-rules = true
//	require-reason = false
type InlineDirectivesConfig struct {
	// Enabled controls whether inline directives are processed.
	// Default: true
	Enabled bool `koanf:"enabled"`

	// WarnUnused reports warnings for directives that don't suppress any violations.
	// Default: false
	WarnUnused bool `koanf:"warn-unused"`

	// ValidateRules reports warnings for unknown rule codes in directives.
	// Default: false (an unrecognised rule name silently matches nothing,
	// per spec.md §4.6 step 1 rather than failing the run)
	ValidateRules bool `koanf:"validate-rules"`

	// RequireReason reports warnings for directives without a `; reason`
	// explanation.
	// Default: false
	RequireReason bool `koanf:"require-reason"`
}

// FixMode controls whether and how a rule's fixes are applied by --fix.
type FixMode string

const (
	// FixModeNever disables fixes even with --fix.
	FixModeNever FixMode = "never"

	// FixModeExplicit requires --fix-rule=<code> to apply.
	FixModeExplicit FixMode = "explicit"

	// FixModeAlways applies with --fix when the safety threshold is met.
	// This is the default for every rule unless overridden.
	FixModeAlways FixMode = "always"

	// FixModeUnsafeOnly requires --fix-unsafe to apply.
	FixModeUnsafeOnly FixMode = "unsafe-only"
)

// ParseFixMode parses s into a FixMode, falling back to FixModeAlways for
// anything unrecognised (an absent or malformed "fix" key should not
// silently disable a rule's fixes).
func ParseFixMode(s string) FixMode {
	switch FixMode(s) {
	case FixModeNever, FixModeExplicit, FixModeAlways, FixModeUnsafeOnly:
		return FixMode(s)
	default:
		return FixModeAlways
	}
}

// RuleTuple is one entry of the ordered (rule-name, severity, opaque-config)
// list spec.md §6 specifies as the in-memory shape the engine consumes.
type RuleTuple struct {
	Name     string
	Severity rules.Severity
	Config   map[string]any
}

// Tuples resolves this config against reg's registered rules, in
// registration (code-sorted) order, so the result is deterministic
// regardless of map iteration order or TOML key order.
func (c *Config) Tuples(reg *rules.Registry) []RuleTuple {
	all := reg.All()
	out := make([]RuleTuple, 0, len(all))
	for _, rule := range all {
		meta := rule.Metadata()
		out = append(out, RuleTuple{
			Name:     meta.Code,
			Severity: c.SeverityFor(meta.Code, meta.DefaultSeverity),
			Config:   c.OptionsFor(meta.Code),
		})
	}
	return out
}

// SeverityFor returns the configured severity override for code, or
// fallback if none is set or the override string doesn't parse.
func (c *Config) SeverityFor(code string, fallback rules.Severity) rules.Severity {
	entry, ok := c.Rules[code]
	if !ok {
		return fallback
	}
	s, ok := entry["severity"].(string)
	if !ok {
		return fallback
	}
	parsed, err := rules.ParseSeverity(s)
	if err != nil {
		return fallback
	}
	return parsed
}

// FixModeFor returns the configured fix mode for code, defaulting to
// FixModeAlways.
func (c *Config) FixModeFor(code string) FixMode {
	entry, ok := c.Rules[code]
	if !ok {
		return FixModeAlways
	}
	s, ok := entry["fix"].(string)
	if !ok {
		return FixModeAlways
	}
	return ParseFixMode(s)
}

// OptionsFor returns code's rule-specific configuration, with the
// reserved "severity" and "fix" keys stripped. Returns nil if code has no
// entry.
func (c *Config) OptionsFor(code string) map[string]any {
	entry, ok := c.Rules[code]
	if !ok {
		return nil
	}
	opts := make(map[string]any, len(entry))
	for k, v := range entry {
		if k == "severity" || k == "fix" {
			continue
		}
		opts[k] = v
	}
	if len(opts) == 0 {
		return nil
	}
	return opts
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Output: OutputConfig{
			Format:     "text",
			Path:       "stdout",
			ShowSource: true,
			FailLevel:  "warning",
		},
		InlineDirectives: InlineDirectivesConfig{
			Enabled:       true,
			WarnUnused:    false,
			ValidateRules: false,
			RequireReason: false,
		},
	}
}

// Load loads configuration for a target file path.
// It discovers the closest config file, loads it, and applies
// environment variable overrides.
func Load(targetPath string) (*Config, error) {
	return loadWithConfigPath(Discover(targetPath))
}

// LoadFromFile loads configuration from a specific config file path.
// Unlike Load, it does not perform config discovery.
func LoadFromFile(configPath string) (*Config, error) {
	return loadWithConfigPath(configPath)
}

// loadWithConfigPath is an internal helper that loads config with an optional config file path.
func loadWithConfigPath(configPath string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, err
	}
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), toml.Parser()); err != nil {
			return nil, err
		}
	}
	if err := k.Load(env.Provider(".", env.Opt{Prefix: EnvPrefix, TransformFunc: envKeyTransform}), nil); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	cfg.ConfigFile = configPath
	return cfg, nil
}

// knownHyphenatedKeys maps dot-separated patterns to their hyphenated equivalents.
var knownHyphenatedKeys = map[string]string{
	"inline.directives": "inline-directives",
	"warn.unused":       "warn-unused",
	"validate.rules":    "validate-rules",
	"require.reason":    "require-reason",
	"show.source":       "show-source",
	"fail.level":        "fail-level",
	"max.file.lines":    "max-file-lines",
	"indent.style":      "indent-style",
	"undefined.var":     "undefined-var",
	"unused.variable":   "unused-variable",
	"no.shadow.param":   "no-shadow-param",
	"empty.block":       "empty-block",
}

// envKeyTransform converts environment variable names to config keys.
// ZIGLINT_FORMAT -> format
// ZIGLINT_RULES_MAX_FILE_LINES_MAX -> rules.max-file-lines.max
func envKeyTransform(s string) string {
	s = strings.TrimPrefix(s, EnvPrefix)
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, "_", ".")
	for pattern, replacement := range knownHyphenatedKeys {
		s = strings.ReplaceAll(s, pattern, replacement)
	}
	return s
}

// Discover finds the closest config file for a target file path.
// It walks up the directory tree from the target's directory,
// checking for config files at each level.
// Returns empty string if no config file is found.
func Discover(targetPath string) string {
	absPath, err := filepath.Abs(targetPath)
	if err != nil {
		return ""
	}

	dir := filepath.Dir(absPath)
	for {
		for _, name := range ConfigFileNames {
			configPath := filepath.Join(dir, name)
			if fileExists(configPath) {
				return configPath
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

// fileExists checks if a file exists and is not a directory.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
