package main

import (
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"github.com/caddie/caddie/pkg/insights"
)

func newLintCopyCmd() *cobra.Command {
	var variants int

	cmd := &cobra.Command{
		Use:   "lint-copy",
		Short: "Check every copy variant against the copy rules",
		Long: `Renders representative rounds at every variant index and reports banned
tokens, over-long sentences and message-3 prefix problems.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLintCopy(cmd.OutOrStdout(), variants)
		},
	}

	cmd.Flags().IntVar(&variants, "variants", 10, "Number of variant indexes to render per case")

	return cmd
}

func runLintCopy(w io.Writer, variants int) error {
	if variants < 1 {
		return fmt.Errorf("variants must be positive, got %d", variants)
	}
	guard := insights.NewCopyGuard(true)
	engine := insights.NewEngine(insights.WithCopyGuard(insights.NewCopyGuard(false)))

	var problems []string
	tables := insights.CopyTables()
	names := make([]string, 0, len(tables))
	for name := range tables {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if len(tables[name]) == 0 {
			problems = append(problems, fmt.Sprintf("%s: empty copy table", name))
		}
	}
	for _, err := range insights.Lint(engine, guard, variants) {
		problems = append(problems, err.Error())
	}

	if len(problems) > 0 {
		for _, p := range problems {
			fmt.Fprintf(w, "  ✗ %s\n", p)
		}
		return fmt.Errorf("%d copy problem(s) found", len(problems))
	}
	fmt.Fprintf(w, "✓ %d copy tables, %d cases, %d variants each: clean\n",
		len(tables), len(insights.RepresentativeCases()), variants)
	return nil
}
