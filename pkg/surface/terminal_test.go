package surface_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/caddie/caddie/pkg/insights"
	"github.com/caddie/caddie/pkg/surface"
)

func sampleReport() *surface.Report {
	return &surface.Report{
		RoundID:       "r-123",
		Score:         75,
		ToPar:         3,
		Mode:          "steady",
		VariantOffset: 1,
		Output: &insights.PolicyOutput{
			Outcomes:      [3]string{"M1-B", "M2-B", "M3-C"},
			MessageLevels: [3]insights.Level{insights.LevelInfo, insights.LevelWarning, insights.LevelWarning},
			Messages: [3]string{
				"Off the tee was your strongest area at +0.2 strokes, while putting trailed at -2.1.",
				"Putting cost the most at -2.1 strokes.",
				"Next round: Putting cost the most at -2.1 strokes. Spend ten minutes on lag putts from 30 feet before the round to cut down three-putts.",
			},
		},
		Focus: &insights.Focus{Code: insights.FocusAction, Text: "Next round focus: Putting cost the most at -2.1 strokes."},
	}
}

func TestTerminalRenderer_BasicOutput(t *testing.T) {
	// Set NO_COLOR to avoid ANSI codes in test comparison
	t.Setenv("NO_COLOR", "1")

	r := &surface.TerminalRenderer{}
	var buf bytes.Buffer

	if err := r.Render(&buf, sampleReport()); err != nil {
		t.Fatalf("Render() error: %v", err)
	}

	output := buf.String()

	if !strings.Contains(output, "Round r-123: 75 (+3)") {
		t.Errorf("expected header in output, got:\n%s", output)
	}
	if !strings.Contains(output, "M2-B / warning") {
		t.Error("expected outcome and level for slot 2")
	}
	if !strings.Contains(output, "Putting cost the most at -2.1 strokes.") {
		t.Error("expected message 2 in output")
	}
	if !strings.Contains(output, "Next round focus:") {
		t.Error("expected focus line in output")
	}
	if !strings.Contains(output, "variant offset 1") {
		t.Error("expected variant offset in output")
	}
	if strings.Contains(output, "\033[") {
		t.Error("expected no ANSI codes with NO_COLOR set")
	}
}

func TestTerminalRenderer_WrapsLongMessages(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	var buf bytes.Buffer
	if err := (&surface.TerminalRenderer{}).Render(&buf, sampleReport()); err != nil {
		t.Fatal(err)
	}
	for _, line := range strings.Split(buf.String(), "\n") {
		if len(line) > 80 {
			t.Errorf("line exceeds 80 columns: %q", line)
		}
	}
}

func TestTerminalRenderer_Onboarding(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	out, err := insights.GenerateOnboarding(insights.OnboardingInput{RoundNumber: 1, Score: 90, ToPar: 18})
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	report := &surface.Report{Score: 90, ToPar: 18, Mode: "onboarding", Output: out}
	if err := (&surface.TerminalRenderer{}).Render(&buf, report); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "Round insights: 90 (+18)") {
		t.Errorf("expected header without round id, got:\n%s", buf.String())
	}
	if !strings.Contains(buf.String(), "Onboarding round") {
		t.Error("expected onboarding marker")
	}
}

func TestRender_NilOutput(t *testing.T) {
	for _, r := range []surface.Renderer{&surface.TerminalRenderer{}, &surface.MarkdownRenderer{}} {
		if err := r.Render(&bytes.Buffer{}, &surface.Report{}); err == nil {
			t.Errorf("%T: expected error for empty report", r)
		}
	}
}

func TestJSONRenderer(t *testing.T) {
	var buf bytes.Buffer
	if err := (&surface.JSONRenderer{}).Render(&buf, sampleReport()); err != nil {
		t.Fatal(err)
	}

	var decoded struct {
		RoundID string `json:"round_id"`
		Output  struct {
			Outcomes []string `json:"outcomes"`
		} `json:"output"`
	}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if decoded.RoundID != "r-123" {
		t.Errorf("expected round_id r-123, got %q", decoded.RoundID)
	}
	if len(decoded.Output.Outcomes) != 3 || decoded.Output.Outcomes[2] != "M3-C" {
		t.Errorf("unexpected outcomes %v", decoded.Output.Outcomes)
	}
}

func TestMarkdown(t *testing.T) {
	md := surface.BuildMarkdown(sampleReport())

	if !strings.HasPrefix(md, "## Round insights: 75 (+3)") {
		t.Errorf("unexpected heading:\n%s", md)
	}
	if !strings.Contains(md, "| 2 | :orange_circle: warning | `M2-B` |") {
		t.Errorf("expected slot 2 row, got:\n%s", md)
	}
	if !strings.Contains(md, "> Next round focus:") {
		t.Error("expected focus quote")
	}
}

func TestForFormat(t *testing.T) {
	tests := map[string]surface.Renderer{
		"json":     &surface.JSONRenderer{},
		"markdown": &surface.MarkdownRenderer{},
		"text":     &surface.TerminalRenderer{},
		"":         &surface.TerminalRenderer{},
	}
	for format, want := range tests {
		got := surface.ForFormat(format)
		if gotType, wantType := typeName(got), typeName(want); gotType != wantType {
			t.Errorf("ForFormat(%q) = %s, want %s", format, gotType, wantType)
		}
	}
}

func typeName(r surface.Renderer) string {
	switch r.(type) {
	case *surface.JSONRenderer:
		return "json"
	case *surface.MarkdownRenderer:
		return "markdown"
	case *surface.TerminalRenderer:
		return "terminal"
	default:
		return "unknown"
	}
}
