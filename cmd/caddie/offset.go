package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/caddie/caddie/pkg/insights"
)

type offsetOpts struct {
	previous string
	force    bool
	bump     bool
}

func newOffsetCmd() *cobra.Command {
	var opts offsetOpts

	cmd := &cobra.Command{
		Use:   "offset",
		Short: "Resolve the variant offset for a regeneration request",
		Long: `Prints the variant offset a regeneration would render with, given the
stored variant_offset value as raw JSON (for example 2, 2.7 or "two").
Omit --previous when nothing is stored.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOffset(cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.previous, "previous", "", "Stored variant_offset as raw JSON")
	cmd.Flags().BoolVar(&opts.force, "force", false, "Force regeneration")
	cmd.Flags().BoolVar(&opts.bump, "bump", false, "Ask for a new variant")

	return cmd
}

func runOffset(w io.Writer, opts offsetOpts) error {
	var prev *insights.StoredPayload
	if raw := strings.TrimSpace(opts.previous); raw != "" {
		var v any
		dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
		dec.UseNumber()
		if err := dec.Decode(&v); err != nil {
			return fmt.Errorf("parsing --previous: %w", err)
		}
		prev = &insights.StoredPayload{VariantOffset: v}
	}

	offset := insights.ResolveOffset(prev, insights.RegenerateOptions{
		ForceRegenerate: opts.force,
		BumpVariant:     opts.bump,
	})
	_, err := fmt.Fprintln(w, offset)
	return err
}
