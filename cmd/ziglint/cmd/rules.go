package cmd

import (
	stdcontext "context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/tinovyatkin/ziglint/internal/rules"
	"github.com/tinovyatkin/ziglint/internal/schema"
)

func rulesCommand() *cli.Command {
	return &cli.Command{
		Name:      "rules",
		Usage:     "List registered rules, or dump their JSON-Schema configuration shape",
		ArgsUsage: "[RULE-CODE]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "schema",
				Usage: "Print the JSON-Schema config document instead of a table",
			},
		},
		Action: runRules,
	}
}

func runRules(_ stdcontext.Context, c *cli.Command) error {
	reg := rules.DefaultRegistry()

	if code := c.Args().First(); code != "" {
		return printRuleSchema(reg, code)
	}

	if c.Bool("schema") {
		root, err := schema.ExportRoot(reg)
		if err != nil {
			return err
		}
		return printJSON(root)
	}

	return printRuleTable(reg)
}

func printRuleSchema(reg *rules.Registry, code string) error {
	rule := reg.Get(code)
	if rule == nil {
		return cli.Exit(fmt.Sprintf("unknown rule: %s", code), ExitConfigError)
	}
	provider, ok := rule.(schema.Provider)
	if !ok {
		return cli.Exit(fmt.Sprintf("rule %s has no configuration schema", code), ExitConfigError)
	}
	s, err := provider.JSONSchema()
	if err != nil {
		return err
	}
	return printJSON(s)
}

func printRuleTable(reg *rules.Registry) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 2, 2, ' ', 0)
	fmt.Fprintln(w, "CODE\tCATEGORY\tSEVERITY\tDEFAULT\tDESCRIPTION")
	for _, rule := range reg.All() {
		meta := rule.Metadata()
		fmt.Fprintf(w, "%s\t%s\t%s\t%v\t%s\n", meta.Code, meta.Category, meta.DefaultSeverity, meta.EnabledByDefault, meta.Description)
	}
	return w.Flush()
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
