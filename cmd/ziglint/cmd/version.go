package cmd

import (
	stdcontext "context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/tinovyatkin/ziglint/internal/version"
)

func versionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Print version information",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "json", Usage: "Print as JSON"},
		},
		Action: func(_ stdcontext.Context, c *cli.Command) error {
			if c.Bool("json") {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(version.GetInfo())
			}
			fmt.Printf("ziglint %s (%s)\n", version.Version(), version.GoVersion())
			return nil
		},
	}
}
