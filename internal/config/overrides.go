package config

import (
	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/tinovyatkin/ziglint/internal/ruleconfig"
)

// ConfigurationPreference controls how editor-provided overrides interact with
// filesystem config discovery.
//
// This is primarily used by editor integrations (LSP-style tooling) to
// decide whether caller-supplied settings or `.ziglint.toml` / `ziglint.toml`
// should take precedence.
type ConfigurationPreference string

const (
	ConfigurationPreferenceEditorFirst     ConfigurationPreference = "editorFirst"
	ConfigurationPreferenceFilesystemFirst ConfigurationPreference = "filesystemFirst"
	ConfigurationPreferenceEditorOnly      ConfigurationPreference = "editorOnly"
)

func normalizeConfigurationPreference(p ConfigurationPreference) ConfigurationPreference {
	switch p {
	case ConfigurationPreferenceEditorFirst, ConfigurationPreferenceFilesystemFirst, ConfigurationPreferenceEditorOnly:
		return p
	default:
		return ConfigurationPreferenceEditorFirst
	}
}

// LoadWithOverrides loads configuration for a target file path with an optional
// overrides map applied according to preference.
//
// Overrides are expected to use the same (nested) shape as the TOML config file,
// for example:
//
//	overrides := map[string]any{
//	  "output": map[string]any{"format": "json"},
//	  "rules": map[string]any{"max-file-lines": map[string]any{"max": 400}},
//	}
//
// Precedence:
//
// - editorFirst: defaults → filesystem config → env → overrides
// - filesystemFirst: defaults → overrides → filesystem config → env
// - editorOnly: defaults → env → overrides (filesystem discovery skipped)
func LoadWithOverrides(targetPath string, overrides map[string]any, preference ConfigurationPreference) (*Config, error) {
	preference = normalizeConfigurationPreference(preference)

	configPath := ""
	if preference != ConfigurationPreferenceEditorOnly {
		configPath = Discover(targetPath)
	}
	return loadWithConfigPathAndOverrides(configPath, overrides, preference)
}

func loadWithConfigPathAndOverrides(
	configPath string,
	overrides map[string]any,
	preference ConfigurationPreference,
) (*Config, error) {
	preference = normalizeConfigurationPreference(preference)

	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, err
	}

	switch preference {
	case ConfigurationPreferenceEditorOnly:
		if err := loadEnv(k); err != nil {
			return nil, err
		}
		if err := loadOverrides(k, overrides); err != nil {
			return nil, err
		}
	case ConfigurationPreferenceFilesystemFirst:
		if err := loadOverrides(k, overrides); err != nil {
			return nil, err
		}
		if err := loadConfigFile(k, configPath); err != nil {
			return nil, err
		}
		if err := loadEnv(k); err != nil {
			return nil, err
		}
	case ConfigurationPreferenceEditorFirst:
		if err := loadConfigFile(k, configPath); err != nil {
			return nil, err
		}
		if err := loadEnv(k); err != nil {
			return nil, err
		}
		if err := loadOverrides(k, overrides); err != nil {
			return nil, err
		}
	}

	cfg, err := decodeConfig(k.Raw())
	if err != nil {
		return nil, err
	}

	cfg.ConfigFile = configPath
	return cfg, nil
}

func loadConfigFile(k *koanf.Koanf, configPath string) error {
	if configPath == "" {
		return nil
	}
	return k.Load(file.Provider(configPath), toml.Parser())
}

func loadEnv(k *koanf.Koanf) error {
	return k.Load(env.Provider(".", env.Opt{
		Prefix:        EnvPrefix,
		TransformFunc: envKeyTransform,
	}), nil)
}

func loadOverrides(k *koanf.Koanf, overrides map[string]any) error {
	if len(overrides) == 0 {
		return nil
	}
	return k.Load(confmap.Provider(overrides, ""), nil)
}

// decodeConfig normalizes rule-option shorthand (a bare scalar where a
// {option: value} object is expected, e.g. `rules.max-file-lines = 400`)
// before unmarshalling the raw map into Config.
func decodeConfig(raw map[string]any) (*Config, error) {
	if rulesRaw, ok := raw["rules"].(map[string]any); ok {
		ruleconfig.CanonicalizeRulesMap(rulesRaw)
	}

	normalized := koanf.New(".")
	if err := normalized.Load(confmap.Provider(raw, ""), nil); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := normalized.Unmarshal("", cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
