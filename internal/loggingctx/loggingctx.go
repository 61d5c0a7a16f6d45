// Package loggingctx standardizes every ambient log line this repo emits
// (driver failure-isolation messages, config-discovery fallbacks, CLI
// diagnostics) on a single logrus.Entry-per-file convention, matching the
// leveled/structured logging tally's CLI and LSP layers use elsewhere in
// its tree even though tally's own internal/linter reaches for the
// standard log package in a couple of spots.
package loggingctx

import (
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	baseOnce sync.Once
	base     *logrus.Logger
)

// Base returns the process-wide logrus.Logger every entry in this package
// derives from. It is created lazily so packages that never log (most of
// the core) never pay for a logger they don't use, and configured once:
// text formatter, level from ZIGLINT_LOG_LEVEL (default "warning"), output
// to stderr so stdout stays clean for reporter output.
func Base() *logrus.Logger {
	baseOnce.Do(func() {
		base = logrus.New()
		base.Out = os.Stderr
		base.Formatter = &logrus.TextFormatter{
			DisableColors:    false,
			FullTimestamp:    false,
			DisableTimestamp: true,
		}
		base.Level = levelFromEnv()
	})
	return base
}

// levelFromEnv reads ZIGLINT_LOG_LEVEL, defaulting to WarnLevel on an
// empty or unparsable value rather than failing the run over a logging
// preference.
func levelFromEnv() logrus.Level {
	raw := os.Getenv("ZIGLINT_LOG_LEVEL")
	if raw == "" {
		return logrus.WarnLevel
	}
	level, err := logrus.ParseLevel(raw)
	if err != nil {
		return logrus.WarnLevel
	}
	return level
}

// ForFile returns a *logrus.Entry pre-tagged with the file being linted,
// the unit every driver and CLI log line is scoped to.
func ForFile(file string) *logrus.Entry {
	return Base().WithField("file", file)
}

// ForRule returns entry further tagged with the rule code currently
// running, used by the driver's per-rule failure-isolation path.
func ForRule(entry *logrus.Entry, code string) *logrus.Entry {
	return entry.WithField("rule", code)
}
