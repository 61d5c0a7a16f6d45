// Package cmd wires ziglint's urfave/cli/v3 command tree: "lint" (the
// main pipeline), "rules" (registry introspection and JSON-Schema export),
// and "version", mirroring tally's cmd/tally/cmd package shape at a
// fraction of the surface area (spec.md §1 places the CLI itself out of
// the core specification's scope; SPEC_FULL.md §12 names these
// subcommands).
package cmd

import (
	"context"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/tinovyatkin/ziglint/internal/version"
)

// NewApp builds the ziglint CLI application.
func NewApp() *cli.Command {
	return &cli.Command{
		Name:    "ziglint",
		Usage:   "A static analysis linter for Zig source files",
		Version: version.Version(),
		Description: `ziglint analyzes Zig source files and reports diagnostics from a
configurable library of rules run against a per-file semantic model
(symbol table, scope tree, and reference graph).

Examples:
  ziglint lint src/main.zig
  ziglint lint --fix src/
  ziglint rules --schema`,
		Commands: []*cli.Command{
			lintCommand(),
			rulesCommand(),
			versionCommand(),
		},
	}
}

// Execute runs the CLI application against os.Args.
func Execute() error {
	return NewApp().Run(context.Background(), os.Args)
}
