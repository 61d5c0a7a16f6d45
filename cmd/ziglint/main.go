// Command ziglint is the CLI front-end: a thin urfave/cli/v3 entry point
// over internal/lint's driver, internal/rules/all's rule library, and
// internal/reporter's output formatters. None of the core semantics live
// here; this package only does filesystem discovery, config/flag
// plumbing, and rendering (spec.md §1's explicit non-core boundary).
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/tinovyatkin/ziglint/cmd/ziglint/cmd"
	_ "github.com/tinovyatkin/ziglint/internal/rules/all"
)

func main() {
	if err := cmd.NewApp().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
