package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/caddie/caddie/internal/rounds"
	"github.com/caddie/caddie/internal/store"
	"github.com/caddie/caddie/pkg/config"
	"github.com/caddie/caddie/pkg/insights"
	"github.com/caddie/caddie/pkg/surface"
)

// roundFile is the JSON document read by the insights command.
type roundFile struct {
	Round         rounds.Round       `json:"round"`
	StrokesGained insights.SGValues  `json:"strokes_gained"`
	Entitlement   rounds.Entitlement `json:"entitlement"`
}

type insightsOpts struct {
	inputPath string
	seed      string
	offset    int
	outputFmt string
	configDir string
}

func newInsightsCmd() *cobra.Command {
	var opts insightsOpts

	cmd := &cobra.Command{
		Use:   "insights",
		Short: "Generate the three insight messages for a round",
		Long: `Reads a round document (round, strokes_gained, entitlement) and prints the
insight messages and next-round focus. Rounds 1-3 use onboarding copy.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInsights(cmd.OutOrStdout(), cmd.InOrStdin(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.inputPath, "input", "", "Path to round JSON, or - for stdin (required)")
	cmd.Flags().StringVar(&opts.seed, "seed", "", "Variant seed (default: round id)")
	cmd.Flags().IntVar(&opts.offset, "offset", 0, "Variant offset")
	cmd.Flags().StringVar(&opts.outputFmt, "output", "text", "Output format: text, json or markdown")
	cmd.Flags().StringVar(&opts.configDir, "config-dir", "", "Directory containing .caddie/config.yaml (default: working directory)")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}

func runInsights(w io.Writer, stdin io.Reader, opts insightsOpts) error {
	if opts.offset < 0 {
		return fmt.Errorf("offset must not be negative, got %d", opts.offset)
	}
	doc, err := readRoundFile(opts.inputPath, stdin)
	if err != nil {
		return err
	}
	cfg := loadConfig(opts.configDir)
	engine := newEngine(cfg)

	report := &surface.Report{
		RoundID:       doc.Round.ID,
		Score:         doc.Round.Score,
		ToPar:         doc.Round.ToPar,
		VariantOffset: opts.offset,
	}
	producer := rounds.NewProducer(engine.Thresholds())

	if doc.Round.IsOnboarding() {
		in, err := producer.OnboardingInput(doc.Round)
		if err != nil {
			return err
		}
		out, err := insights.GenerateOnboarding(in)
		if err != nil {
			return err
		}
		report.Mode = store.ModeOnboarding
		report.Output = out
	} else {
		in, err := producer.PolicyInput(doc.Round, doc.StrokesGained, doc.Entitlement)
		if err != nil {
			return err
		}
		vo := insights.VariantOptions{Offset: opts.offset}.WithSeed(firstNonEmpty(opts.seed, doc.Round.ID))
		out, err := engine.Generate(in, vo)
		if err != nil {
			return err
		}
		focus, err := engine.Focus(in, vo)
		if err != nil {
			return err
		}
		report.Mode = store.ModeSteady
		report.Output = out
		report.Focus = focus
	}

	logger.Debug("insights generated",
		zap.String("round_id", doc.Round.ID),
		zap.String("mode", report.Mode),
		zap.Strings("outcomes", report.Output.Outcomes[:]))

	return surface.ForFormat(opts.outputFmt).Render(w, report)
}

func readRoundFile(path string, stdin io.Reader) (*roundFile, error) {
	var r io.Reader
	switch path {
	case "":
		return nil, fmt.Errorf("--input is required")
	case "-":
		r = stdin
	default:
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("opening round file: %w", err)
		}
		defer f.Close()
		r = f
	}

	var doc roundFile
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("parsing round file: %w", err)
	}
	return &doc, nil
}

func newEngine(cfg *config.Config) *insights.Engine {
	return insights.NewEngine(
		insights.WithThresholds(cfg.Thresholds()),
		insights.WithCopyGuard(cfg.NewCopyGuard()),
	)
}

func loadConfig(dir string) *config.Config {
	if dir == "" {
		dir, _ = os.Getwd()
	}
	cfg := config.DefaultConfig()
	if cfgFile := config.FindConfigFile(dir); cfgFile != "" {
		loaded, err := config.Load(cfgFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to load config: %v\n", err)
		} else {
			cfg = loaded
		}
	}
	cfg.ApplyEnv(os.Getenv)
	return cfg
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
