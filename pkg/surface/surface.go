// Package surface defines output rendering for generated round insights.
// Implementations handle different output targets: terminal, Markdown, JSON.
package surface

import (
	"io"

	"github.com/caddie/caddie/pkg/insights"
)

// Renderer produces formatted output from a Report.
type Renderer interface {
	// Render writes the formatted report to the writer.
	Render(w io.Writer, report *Report) error
}

// Report is one round's generated insights plus the context needed to show
// them.
type Report struct {
	RoundID       string                 `json:"round_id,omitempty"`
	Score         int                    `json:"score"`
	ToPar         int                    `json:"to_par"`
	Mode          string                 `json:"mode"` // steady or onboarding
	VariantOffset int                    `json:"variant_offset"`
	Output        *insights.PolicyOutput `json:"output"`
	Focus         *insights.Focus        `json:"focus,omitempty"`
}

// ForFormat returns the renderer for an --output flag value. Unknown formats
// fall back to the terminal renderer.
func ForFormat(format string) Renderer {
	switch format {
	case "json":
		return &JSONRenderer{}
	case "markdown", "md":
		return &MarkdownRenderer{}
	default:
		return &TerminalRenderer{}
	}
}
