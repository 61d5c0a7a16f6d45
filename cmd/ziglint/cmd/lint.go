package cmd

import (
	stdcontext "context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/tinovyatkin/ziglint/internal/config"
	"github.com/tinovyatkin/ziglint/internal/discovery"
	"github.com/tinovyatkin/ziglint/internal/fix"
	"github.com/tinovyatkin/ziglint/internal/lint"
	"github.com/tinovyatkin/ziglint/internal/loggingctx"
	"github.com/tinovyatkin/ziglint/internal/reporter"
	"github.com/tinovyatkin/ziglint/internal/rules"
)

// Exit codes, matching tally's own lint command convention.
const (
	ExitSuccess     = 0 // No violations at or above fail-level.
	ExitViolations  = 1 // Violations found at or above fail-level.
	ExitConfigError = 2 // Config or discovery error.
	ExitNoFiles     = 3 // No Zig files found for the given inputs.
)

func lintCommand() *cli.Command {
	return &cli.Command{
		Name:      "lint",
		Usage:     "Lint Zig source file(s) for issues",
		ArgsUsage: "[PATH...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file (default: auto-discover)",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: text, json, sarif, markdown",
				Sources: cli.EnvVars("ZIGLINT_FORMAT"),
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output destination: stdout, stderr, or a file path",
				Sources: cli.EnvVars("ZIGLINT_OUTPUT_PATH"),
			},
			&cli.BoolFlag{
				Name:  "no-color",
				Usage: "Disable colored output",
			},
			&cli.BoolFlag{
				Name:  "hide-source",
				Usage: "Hide source code snippets in text output",
			},
			&cli.StringFlag{
				Name:  "fail-level",
				Usage: "Minimum severity to cause a non-zero exit: error, warning, info, style, off",
			},
			&cli.BoolFlag{
				Name:  "no-inline-directives",
				Usage: "Disable lint-disable comment processing",
			},
			&cli.StringSliceFlag{
				Name:  "exclude",
				Usage: "Glob pattern to exclude files (can be repeated)",
			},
			&cli.BoolFlag{
				Name:  "fix",
				Usage: "Apply safe fixes automatically",
			},
			&cli.StringSliceFlag{
				Name:  "fix-rule",
				Usage: "Only fix specific rules (can be repeated)",
			},
			&cli.BoolFlag{
				Name:  "fix-unsafe",
				Usage: "Also apply suggestion/unsafe fixes (requires --fix)",
			},
			&cli.BoolFlag{
				Name:  "fix-dry-run",
				Usage: "Print a unified diff of fixes instead of writing them",
			},
		},
		Action: runLint,
	}
}

func runLint(ctx stdcontext.Context, c *cli.Command) error {
	inputs := c.Args().Slice()
	if len(inputs) == 0 {
		inputs = []string{"."}
	}

	var cfg *config.Config
	var err error
	if path := c.String("config"); path != "" {
		cfg, err = config.LoadFromFile(path)
	} else {
		cfg, err = config.Load(firstInput(inputs))
	}
	if err != nil {
		loggingctx.Base().WithError(err).Warn("falling back to default config")
		cfg = config.Default()
	}
	applyLintFlags(cfg, c)

	files, err := discovery.Discover(inputs, discovery.Options{ExcludePatterns: append(cfg.Ignore, c.StringSlice("exclude")...)})
	if err != nil {
		return cli.Exit(fmt.Sprintf("discovering files: %v", err), ExitConfigError)
	}
	if len(files) == 0 {
		fmt.Fprintln(os.Stderr, "no Zig files found")
		return cli.Exit("", ExitNoFiles)
	}

	sources := make(map[string][]byte, len(files))
	var allViolations []rules.Violation
	for _, file := range files {
		content, readErr := os.ReadFile(file)
		if readErr != nil {
			loggingctx.ForFile(file).WithError(readErr).Error("failed to read file")
			continue
		}
		sources[file] = content

		result, runErr := lint.Run(lint.Input{File: file, Content: content, Config: cfg})
		if runErr != nil {
			loggingctx.ForFile(file).WithError(runErr).Error("linting failed")
			continue
		}
		allViolations = append(allViolations, result.Violations...)
	}

	if c.Bool("fix") {
		if err := applyFixes(ctx, c, cfg, allViolations, sources); err != nil {
			return cli.Exit(err.Error(), ExitConfigError)
		}
	}

	if err := report(c, cfg, allViolations, sources, len(files)); err != nil {
		return cli.Exit(err.Error(), ExitConfigError)
	}

	failLevel, parseErr := rules.ParseSeverity(valueOr(c.String("fail-level"), cfg.Output.FailLevel))
	if parseErr != nil {
		failLevel = rules.SeverityWarning
	}
	if failLevel == rules.SeverityOff {
		return nil
	}
	for _, v := range allViolations {
		if v.Severity.IsAtLeast(failLevel) {
			return cli.Exit("", ExitViolations)
		}
	}
	return nil
}

func applyLintFlags(cfg *config.Config, c *cli.Command) {
	if v := c.String("format"); v != "" {
		cfg.Output.Format = v
	}
	if v := c.String("output"); v != "" {
		cfg.Output.Path = v
	}
	if c.Bool("hide-source") {
		cfg.Output.ShowSource = false
	}
	if v := c.String("fail-level"); v != "" {
		cfg.Output.FailLevel = v
	}
	if c.Bool("no-inline-directives") {
		cfg.InlineDirectives.Enabled = false
	}
}

func report(c *cli.Command, cfg *config.Config, violations []rules.Violation, sources map[string][]byte, filesScanned int) error {
	format, err := reporter.ParseFormat(valueOr(c.String("format"), cfg.Output.Format))
	if err != nil {
		return err
	}

	writer, closeFn, err := reporter.GetWriter(valueOr(c.String("output"), cfg.Output.Path))
	if err != nil {
		return err
	}
	defer closeFn()

	var color *bool
	if c.Bool("no-color") {
		f := false
		color = &f
	}

	rep, err := reporter.New(reporter.Options{
		Format:      format,
		Writer:      writer,
		Color:       color,
		ShowSource:  cfg.Output.ShowSource,
		ToolName:    "ziglint",
		ToolURI:     "https://github.com/tinovyatkin/ziglint",
		ToolVersion: "dev",
	})
	if err != nil {
		return err
	}

	return rep.Report(reporter.SortViolations(violations), sources, reporter.ReportMetadata{
		FilesScanned: filesScanned,
		RulesEnabled: len(rules.DefaultRegistry().All()),
	})
}

func applyFixes(ctx stdcontext.Context, c *cli.Command, cfg *config.Config, violations []rules.Violation, sources map[string][]byte) error {
	threshold := rules.FixSafe
	if c.Bool("fix-unsafe") {
		threshold = rules.FixUnsafe
	}

	modes := make(map[string]fix.FixMode)
	for _, t := range cfg.Tuples(rules.DefaultRegistry()) {
		modes[t.Name] = cfg.FixModeFor(t.Name)
	}
	fixModes := make(map[string]map[string]fix.FixMode, len(sources))
	for file := range sources {
		fixModes[file] = modes
	}

	fixer := &fix.Fixer{
		SafetyThreshold: threshold,
		RuleFilter:      c.StringSlice("fix-rule"),
		FixModes:        fixModes,
	}

	result, err := fixer.Apply(ctx, violations, sources)
	if err != nil {
		return err
	}

	dryRun := c.Bool("fix-dry-run")
	for path, change := range result.Changes {
		if !change.HasChanges() {
			continue
		}
		if dryRun {
			fmt.Print(fix.UnifiedDiff(change))
			continue
		}
		if err := os.WriteFile(path, change.ModifiedContent, 0o644); err != nil {
			return fmt.Errorf("writing fixed content to %s: %w", path, err)
		}
		sources[path] = change.ModifiedContent
	}
	return nil
}

func firstInput(inputs []string) string {
	if len(inputs) == 0 {
		return "."
	}
	return inputs[0]
}

func valueOr(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}
