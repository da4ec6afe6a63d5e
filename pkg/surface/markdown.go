package surface

import (
	"fmt"
	"io"
	"strings"

	"github.com/caddie/caddie/pkg/insights"
)

// MarkdownRenderer renders a Report as a Markdown summary, for release notes
// and copy review.
type MarkdownRenderer struct{}

func (r *MarkdownRenderer) Render(w io.Writer, report *Report) error {
	if report == nil || report.Output == nil {
		return fmt.Errorf("nothing to render")
	}
	_, err := io.WriteString(w, BuildMarkdown(report))
	return err
}

// BuildMarkdown returns the Markdown summary for a report.
func BuildMarkdown(report *Report) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("## Round insights: %d (%s)\n\n", report.Score, insights.FormatToPar(report.ToPar)))
	if report.RoundID != "" {
		sb.WriteString(fmt.Sprintf("Round `%s`, %s mode, variant offset %d.\n\n", report.RoundID, report.Mode, report.VariantOffset))
	}

	sb.WriteString("| Slot | Level | Outcome | Message |\n|------|-------|---------|---------|\n")
	out := report.Output
	for i, msg := range out.Messages {
		sb.WriteString(fmt.Sprintf("| %d | %s %s | `%s` | %s |\n",
			i+1, levelIcon(out.MessageLevels[i]), out.MessageLevels[i], out.Outcomes[i], escapePipes(msg)))
	}
	sb.WriteString("\n")

	if report.Focus != nil {
		sb.WriteString(fmt.Sprintf("> %s\n", report.Focus.Text))
	}
	return sb.String()
}

func levelIcon(level insights.Level) string {
	switch level {
	case insights.LevelSuccess:
		return ":green_circle:"
	case insights.LevelWarning:
		return ":orange_circle:"
	default:
		return ":blue_circle:"
	}
}

func escapePipes(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
