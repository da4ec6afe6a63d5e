package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/caddie/caddie/internal/archive"
	"github.com/caddie/caddie/internal/store"
	"github.com/caddie/caddie/pkg/surface"
)

type archiveOpts struct {
	roundID   string
	version   string
	outputFmt string
	configDir string
}

func newArchiveCmd() *cobra.Command {
	var opts archiveOpts

	cmd := &cobra.Command{
		Use:   "archive",
		Short: "Read archived insight versions",
		Long: `Lists and prints the insight payloads archived after each generation.
The backend comes from the archive section of .caddie/config.yaml or the
CADDIE_ARCHIVE_* environment variables.`,
	}
	cmd.PersistentFlags().StringVar(&opts.roundID, "round", "", "Round id (required)")
	cmd.PersistentFlags().StringVar(&opts.configDir, "config-dir", "", "Directory containing .caddie/config.yaml (default: working directory)")
	_ = cmd.MarkPersistentFlagRequired("round")

	list := &cobra.Command{
		Use:   "list",
		Short: "List archived versions of a round, oldest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runArchiveList(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}

	get := &cobra.Command{
		Use:   "get",
		Short: "Print one archived version",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runArchiveGet(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}
	get.Flags().StringVar(&opts.version, "version", "", "Version to print (required)")
	get.Flags().StringVar(&opts.outputFmt, "output", "text", "Output format: text, json or markdown")
	_ = get.MarkFlagRequired("version")

	cmd.AddCommand(list, get)
	return cmd
}

func openArchive(ctx context.Context, configDir string) (archive.Archive, error) {
	cfg := loadConfig(configDir)
	a, err := archive.New(ctx, cfg.Archive)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, fmt.Errorf("archive is not configured (set archive.backend or CADDIE_ARCHIVE_BACKEND)")
	}
	return a, nil
}

func runArchiveList(ctx context.Context, w io.Writer, opts archiveOpts) error {
	a, err := openArchive(ctx, opts.configDir)
	if err != nil {
		return err
	}
	if c, ok := a.(io.Closer); ok {
		defer c.Close()
	}

	versions, err := a.Versions(ctx, opts.roundID)
	if err != nil {
		return err
	}
	if len(versions) == 0 {
		return fmt.Errorf("no archived versions for round %s", opts.roundID)
	}
	for _, v := range versions {
		fmt.Fprintln(w, v)
	}
	return nil
}

func runArchiveGet(ctx context.Context, w io.Writer, opts archiveOpts) error {
	a, err := openArchive(ctx, opts.configDir)
	if err != nil {
		return err
	}
	if c, ok := a.(io.Closer); ok {
		defer c.Close()
	}

	data, err := a.GetInsight(ctx, opts.roundID, opts.version)
	if err != nil {
		return fmt.Errorf("reading version %s of round %s: %w", opts.version, opts.roundID, err)
	}
	var in store.Insight
	if err := json.Unmarshal(data, &in); err != nil {
		return fmt.Errorf("parsing archived insight: %w", err)
	}
	return surface.ForFormat(opts.outputFmt).Render(w, &surface.Report{
		RoundID:       in.RoundID,
		Mode:          in.Mode,
		VariantOffset: in.VariantOffset,
		Output:        in.Output(),
	})
}
