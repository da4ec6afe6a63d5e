package insights_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/caddie/caddie/pkg/insights"
)

func guardedEngine() *insights.Engine {
	return insights.NewEngine(insights.WithCopyGuard(insights.NewCopyGuard(true)))
}

func endToEndInput() insights.PolicyInput {
	in := insights.PolicyInput{Score: 75, ToPar: 3, AvgScore: 74, Band: insights.BandExpected}
	insights.Select(insights.SGValues{
		OffTee:    f64p(0.2),
		Approach:  f64p(-0.8),
		Putting:   f64p(-2.1),
		Penalties: f64p(-0.2),
	}, insights.Defaults()).Apply(&in)
	return in
}

func caseByName(t *testing.T, name string) insights.PolicyInput {
	t.Helper()
	for _, c := range insights.RepresentativeCases() {
		if c.Name == name {
			return c.Input
		}
	}
	t.Fatalf("no representative case %q", name)
	return insights.PolicyInput{}
}

func TestGenerate_EndToEnd(t *testing.T) {
	out, err := guardedEngine().Generate(endToEndInput(), insights.VariantOptions{}.WithFixedIndex(0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantOutcomes := [3]string{insights.OutcomeM1Mixed, insights.OutcomeM2Opportunity, insights.OutcomeM3Focus}
	if out.Outcomes != wantOutcomes {
		t.Errorf("expected outcomes %v, got %v", wantOutcomes, out.Outcomes)
	}
	wantLevels := [3]insights.Level{insights.LevelInfo, insights.LevelWarning, insights.LevelWarning}
	if out.MessageLevels != wantLevels {
		t.Errorf("expected levels %v, got %v", wantLevels, out.MessageLevels)
	}
	wantMessages := [3]string{
		"Off the tee was your strongest area at +0.2 strokes, while putting trailed at -2.1.",
		"Putting cost the most at -2.1 strokes.",
		"Next round: Putting cost the most at -2.1 strokes. Spend ten minutes on lag putts from 30 feet before the round to cut down three-putts.",
	}
	if diff := cmp.Diff(wantMessages, out.Messages); diff != "" {
		t.Errorf("messages mismatch (-want +got):\n%s", diff)
	}
}

func TestGenerate_RepresentativeOutcomes(t *testing.T) {
	tests := map[string][3]string{
		"no components":                   {insights.OutcomeM1NoComponents, insights.OutcomeM2NoComponents, insights.OutcomeM3TrackAll},
		"no components even par":          {insights.OutcomeM1NoComponents, insights.OutcomeM2NoComponents, insights.OutcomeM3Focus},
		"all zero":                        {insights.OutcomeM1Neutral, insights.OutcomeM2AllZero, insights.OutcomeM3Focus},
		"strength above average":          {insights.OutcomeM1Strength, insights.OutcomeM2Opportunity, insights.OutcomeM3Focus},
		"mixed below average":             {insights.OutcomeM1Mixed, insights.OutcomeM2Opportunity, insights.OutcomeM3Focus},
		"weak separation":                 {insights.OutcomeM1Mixed, insights.OutcomeM2Opportunity, insights.OutcomeM3Focus},
		"mild opportunity":                {insights.OutcomeM1Mixed, insights.OutcomeM2Opportunity, insights.OutcomeM3Focus},
		"residual dominant":               {insights.OutcomeM1Mixed, insights.OutcomeM2Residual, insights.OutcomeM3Focus},
		"weak opportunity large residual": {insights.OutcomeM1Mixed, insights.OutcomeM2Opportunity, insights.OutcomeM3Focus},
		"one missing":                     {insights.OutcomeM1Mixed, insights.OutcomeM2Opportunity, insights.OutcomeM3TrackOne},
		"two missing":                     {insights.OutcomeM1Mixed, insights.OutcomeM2Opportunity, insights.OutcomeM3TrackSome},
		"single component":                {insights.OutcomeM1Mixed, insights.OutcomeM2SingleArea, insights.OutcomeM3TrackSome},
		"single zero component":           {insights.OutcomeM1Neutral, insights.OutcomeM2AllZero, insights.OutcomeM3TrackSome},
	}

	e := guardedEngine()
	cases := insights.RepresentativeCases()
	if len(cases) != len(tests) {
		t.Fatalf("expected %d representative cases, got %d", len(tests), len(cases))
	}
	for _, c := range cases {
		want, ok := tests[c.Name]
		if !ok {
			t.Errorf("unexpected case %q", c.Name)
			continue
		}
		out, err := e.Generate(c.Input, insights.VariantOptions{})
		if err != nil {
			t.Errorf("%s: unexpected error: %v", c.Name, err)
			continue
		}
		if out.Outcomes != want {
			t.Errorf("%s: expected %v, got %v", c.Name, want, out.Outcomes)
		}
		for _, code := range out.Outcomes {
			if strings.HasPrefix(code, insights.OnboardingPrefix) {
				t.Errorf("%s: steady-state engine returned onboarding code %s", c.Name, code)
			}
		}
	}
}

func TestGenerate_Decorations(t *testing.T) {
	e := guardedEngine()
	opts := insights.VariantOptions{}.WithFixedIndex(0)

	tests := []struct {
		name string
		slot int
		want string
	}{
		{"strength above average", 1, "Putting cost the most at -1.3 strokes (8/14 fairways hit)."},
		{"mixed below average", 0, "Approach was your strongest area at +0.3 strokes, while putting trailed at -2.6 (7/18 greens in regulation)."},
		{"weak opportunity large residual", 1, "Off the tee cost the most at -2.5 strokes. Residual was +2.3 strokes."},
	}
	for _, tt := range tests {
		out, err := e.Generate(caseByName(t, tt.name), opts)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tt.name, err)
		}
		if out.Messages[tt.slot] != tt.want {
			t.Errorf("%s: expected %q, got %q", tt.name, tt.want, out.Messages[tt.slot])
		}
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	e := guardedEngine()
	opts := insights.VariantOptions{Offset: 1}.WithSeed("round-99")
	first, err := e.Generate(endToEndInput(), opts)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 20; i++ {
		got, err := e.Generate(endToEndInput(), opts)
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(first, got); diff != "" {
			t.Fatalf("run %d differs (-first +got):\n%s", i, diff)
		}
	}
}

func TestGenerate_OffsetChangesWordingNotOutcomes(t *testing.T) {
	e := guardedEngine()
	for _, c := range insights.RepresentativeCases() {
		for _, seeded := range []bool{false, true} {
			base := insights.VariantOptions{}
			if seeded {
				base = base.WithSeed("round-" + c.Name)
			}
			bumped := base
			bumped.Offset = 1

			a, err := e.Generate(c.Input, base)
			if err != nil {
				t.Fatalf("%s: %v", c.Name, err)
			}
			b, err := e.Generate(c.Input, bumped)
			if err != nil {
				t.Fatalf("%s: %v", c.Name, err)
			}
			if a.Outcomes != b.Outcomes || a.MessageLevels != b.MessageLevels {
				t.Errorf("%s: offset changed classification: %v vs %v", c.Name, a.Outcomes, b.Outcomes)
			}
			for slot := range a.Messages {
				if a.Messages[slot] == b.Messages[slot] {
					t.Errorf("%s (seeded=%v): message %d unchanged by offset: %q", c.Name, seeded, slot+1, a.Messages[slot])
				}
			}
		}
	}
}

func TestGenerate_FocusTextNeverAsksToTrackWhenComplete(t *testing.T) {
	e := guardedEngine()
	for _, c := range insights.RepresentativeCases() {
		if c.Input.Missing.Count() > 0 {
			continue
		}
		for i := 0; i < 3; i++ {
			out, err := e.Generate(c.Input, insights.VariantOptions{}.WithFixedIndex(i))
			if err != nil {
				t.Fatal(err)
			}
			if strings.Contains(strings.ToLower(out.Messages[2]), "track") {
				t.Errorf("%s variant %d: unexpected tracking prompt: %q", c.Name, i, out.Messages[2])
			}
		}
	}
}

func TestFocus_MatchesMessageThree(t *testing.T) {
	e := guardedEngine()
	for _, c := range insights.RepresentativeCases() {
		for i := 0; i < 3; i++ {
			opts := insights.VariantOptions{}.WithFixedIndex(i)
			out, err := e.Generate(c.Input, opts)
			if err != nil {
				t.Fatal(err)
			}
			f, err := e.Focus(c.Input, opts)
			if err != nil {
				t.Fatal(err)
			}
			if !strings.HasPrefix(f.Text, insights.NextRoundFocusPrefix) {
				t.Errorf("%s: expected focus prefix, got %q", c.Name, f.Text)
			}
			body := strings.TrimPrefix(out.Messages[2], insights.NextRoundPrefix)
			if strings.TrimPrefix(f.Text, insights.NextRoundFocusPrefix) != body {
				t.Errorf("%s variant %d: focus %q does not match message 3 %q", c.Name, i, f.Text, out.Messages[2])
			}
		}
	}
}

func TestLint_Clean(t *testing.T) {
	errs := insights.Lint(insights.NewEngine(), insights.NewCopyGuard(true), 10)
	for _, err := range errs {
		t.Error(err)
	}
}

func TestWithThresholds(t *testing.T) {
	th := insights.Defaults()
	th.ResidualMentionThreshold = 5
	e := insights.NewEngine(insights.WithThresholds(th))
	if e.Thresholds().ResidualMentionThreshold != 5 {
		t.Errorf("expected mention threshold 5, got %v", e.Thresholds().ResidualMentionThreshold)
	}
	if e.Thresholds().WeaknessThreshold != insights.Defaults().WeaknessThreshold {
		t.Errorf("expected default weakness threshold to survive")
	}

	out, err := e.Generate(caseByName(t, "weak opportunity large residual"), insights.VariantOptions{}.WithFixedIndex(0))
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(out.Messages[1], "Residual") {
		t.Errorf("expected no residual sentence above the raised threshold, got %q", out.Messages[1])
	}
}
