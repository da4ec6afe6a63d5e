package main

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/caddie/caddie/internal/store"
	"github.com/caddie/caddie/pkg/insights"
	"github.com/caddie/caddie/pkg/surface"
)

type onboardingOpts struct {
	round       int
	score       int
	toPar       int
	previous    int
	hasPrevious bool
	outputFmt   string
}

func newOnboardingCmd() *cobra.Command {
	var opts onboardingOpts

	cmd := &cobra.Command{
		Use:   "onboarding",
		Short: "Render onboarding insights for rounds 1-3",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.hasPrevious = cmd.Flags().Changed("previous")
			return runOnboarding(cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().IntVar(&opts.round, "round", 1, "Round number (1-3)")
	cmd.Flags().IntVar(&opts.score, "score", 0, "Total score (required)")
	cmd.Flags().IntVar(&opts.toPar, "to-par", 0, "Score relative to par")
	cmd.Flags().IntVar(&opts.previous, "previous", 0, "Previous round's score")
	cmd.Flags().StringVar(&opts.outputFmt, "output", "text", "Output format: text, json or markdown")
	_ = cmd.MarkFlagRequired("score")

	return cmd
}

func runOnboarding(w io.Writer, opts onboardingOpts) error {
	in := insights.OnboardingInput{
		RoundNumber: opts.round,
		Score:       opts.score,
		ToPar:       opts.toPar,
	}
	if opts.hasPrevious {
		prev := opts.previous
		in.PreviousScore = &prev
	}

	out, err := insights.GenerateOnboarding(in)
	if err != nil {
		return err
	}
	return surface.ForFormat(opts.outputFmt).Render(w, &surface.Report{
		Score:  opts.score,
		ToPar:  opts.toPar,
		Mode:   store.ModeOnboarding,
		Output: out,
	})
}
