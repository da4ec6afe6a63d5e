package surface

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/caddie/caddie/pkg/insights"
)

// TerminalRenderer renders a Report as colored terminal output.
type TerminalRenderer struct{}

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorBlue   = "\033[34m"
	colorBold   = "\033[1m"
	colorDim    = "\033[2m"
)

func levelColor(level insights.Level) string {
	if noColor() {
		return ""
	}
	switch level {
	case insights.LevelSuccess:
		return colorGreen
	case insights.LevelWarning:
		return colorYellow
	case insights.LevelInfo:
		return colorBlue
	default:
		return ""
	}
}

func noColor() bool {
	_, ok := os.LookupEnv("NO_COLOR")
	return ok
}

func bold(s string) string {
	if noColor() {
		return s
	}
	return colorBold + s + colorReset
}

func dim(s string) string {
	if noColor() {
		return s
	}
	return colorDim + s + colorReset
}

func colored(s, color string) string {
	if noColor() || color == "" {
		return s
	}
	return color + s + colorReset
}

func (r *TerminalRenderer) Render(w io.Writer, report *Report) error {
	if report == nil || report.Output == nil {
		return fmt.Errorf("nothing to render")
	}

	header := fmt.Sprintf("Round insights: %d (%s)", report.Score, insights.FormatToPar(report.ToPar))
	if report.RoundID != "" {
		header = fmt.Sprintf("Round %s: %d (%s)", report.RoundID, report.Score, insights.FormatToPar(report.ToPar))
	}
	fmt.Fprintf(w, "%s\n", bold(header))
	if report.Mode == "onboarding" {
		fmt.Fprintf(w, "%s\n", dim("Onboarding round"))
	}
	fmt.Fprintln(w)

	out := report.Output
	for i, msg := range out.Messages {
		level := out.MessageLevels[i]
		fmt.Fprintf(w, "  %s %s\n", colored("●", levelColor(level)), bold(fmt.Sprintf("%d.", i+1)))
		for _, line := range wrapText(msg, 70) {
			fmt.Fprintf(w, "     %s\n", line)
		}
		fmt.Fprintf(w, "     %s\n\n", dim(fmt.Sprintf("%s / %s", out.Outcomes[i], level)))
	}

	if report.Focus != nil {
		fmt.Fprintf(w, "%s\n\n", report.Focus.Text)
	}

	if report.VariantOffset > 0 {
		fmt.Fprintf(w, "%s\n", dim(fmt.Sprintf("variant offset %d", report.VariantOffset)))
	}
	return nil
}

// wrapText wraps a string at the given width, returning lines.
func wrapText(s string, width int) []string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return nil
	}

	var lines []string
	current := words[0]

	for _, word := range words[1:] {
		if len(current)+1+len(word) > width {
			lines = append(lines, current)
			current = word
		} else {
			current += " " + word
		}
	}
	lines = append(lines, current)
	return lines
}
