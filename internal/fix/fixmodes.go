package fix

import "github.com/tinovyatkin/ziglint/internal/config"

// BuildFixModes extracts per-rule fix mode settings from a config, keyed by
// rule code.
//
// Nil is returned when cfg is nil.
func BuildFixModes(cfg *config.Config) map[string]FixMode {
	if cfg == nil {
		return nil
	}

	modes := make(map[string]FixMode, len(cfg.Rules))
	for code := range cfg.Rules {
		modes[code] = cfg.FixModeFor(code)
	}
	return modes
}
