package insights

import (
	"fmt"
	"strings"
)

// Case is a named PolicyInput used to exercise the copy tables.
type Case struct {
	Name  string
	Input PolicyInput
}

func f64(v float64) *float64 { return &v }

func fromValues(base PolicyInput, v SGValues) PolicyInput {
	Select(v, Defaults()).Apply(&base)
	return base
}

// RepresentativeCases covers every steady-state outcome code at least once.
func RepresentativeCases() []Case {
	allRecorded := MissingStats{}
	evidence := &RoundEvidence{FairwaysHit: 8, FairwaysPossible: 14, GreensHit: 7, GreensPossible: 18, PuttsTotal: 33, PenaltiesTotal: 1}
	return []Case{
		{"no components", PolicyInput{Score: 88, ToPar: 16, AvgScore: 90, Band: BandAbove, Missing: MissingStats{FIR: true, GIR: true, Putts: true, Penalties: true}}},
		{"no components even par", PolicyInput{Score: 72, ToPar: 0, AvgScore: 74.5, Band: BandExpected}},
		{"all zero", fromValues(PolicyInput{Score: 80, ToPar: 8, AvgScore: 80, Band: BandExpected, Missing: allRecorded},
			SGValues{OffTee: f64(0), Approach: f64(0), Putting: f64(0), Penalties: f64(0)})},
		{"strength above average", fromValues(PolicyInput{Score: 76, ToPar: 4, AvgScore: 80, Band: BandAbove, Missing: allRecorded, RoundEvidence: evidence},
			SGValues{OffTee: f64(1.4), Approach: f64(0.6), Putting: f64(-1.3), Penalties: f64(-0.2)})},
		{"mixed below average", fromValues(PolicyInput{Score: 91, ToPar: 19, AvgScore: 86, Band: BandBelow, Missing: allRecorded, RoundEvidence: evidence},
			SGValues{OffTee: f64(-0.4), Approach: f64(0.3), Putting: f64(-2.6), Penalties: f64(-1.1)})},
		{"weak separation", fromValues(PolicyInput{Score: 82, ToPar: 10, AvgScore: 82, Band: BandExpected, Missing: allRecorded},
			SGValues{OffTee: f64(-0.1), Approach: f64(0.1), Putting: f64(0.0), Penalties: f64(-0.2)})},
		{"mild opportunity", fromValues(PolicyInput{Score: 79, ToPar: 7, AvgScore: 80, Band: BandExpected, Missing: allRecorded},
			SGValues{OffTee: f64(0.9), Approach: f64(0.2), Putting: f64(-0.5), Penalties: f64(0)})},
		{"residual dominant", fromValues(PolicyInput{Score: 95, ToPar: 23, AvgScore: 88, Band: BandBelow, Missing: allRecorded, RoundEvidence: evidence},
			SGValues{OffTee: f64(-0.3), Approach: f64(0.2), Putting: f64(-0.4), Penalties: f64(0.1), Residual: f64(-4.6)})},
		{"weak opportunity large residual", fromValues(PolicyInput{Score: 90, ToPar: 18, AvgScore: 85, Band: BandBelow, Missing: allRecorded},
			SGValues{OffTee: f64(-2.5), Approach: f64(-1.8), Putting: f64(0.4), Penalties: f64(-1.2), Residual: f64(2.3)})},
		{"one missing", fromValues(PolicyInput{Score: 84, ToPar: 12, AvgScore: 83, Band: BandExpected, Missing: MissingStats{Penalties: true}},
			SGValues{OffTee: f64(0.5), Approach: f64(-1.4), Putting: f64(0.2)})},
		{"two missing", fromValues(PolicyInput{Score: 86, ToPar: 14, AvgScore: 85, Band: BandExpected, Missing: MissingStats{FIR: true, Putts: true}},
			SGValues{Approach: f64(-0.7), Penalties: f64(-0.1)})},
		{"single component", fromValues(PolicyInput{Score: 87, ToPar: 15, AvgScore: 86, Band: BandExpected, Missing: MissingStats{FIR: true, GIR: true, Penalties: true}},
			SGValues{Putting: f64(-0.9)})},
		{"single zero component", fromValues(PolicyInput{Score: 85, ToPar: 13, AvgScore: 85, Band: BandExpected, Missing: MissingStats{FIR: true, GIR: true, Penalties: true}},
			SGValues{Putting: f64(0)})},
	}
}

// Lint renders every representative case and onboarding outcome at variant
// indexes 0..variants-1 and returns every copy guard violation and
// message-3 prefix problem found.
func Lint(e *Engine, guard *CopyGuard, variants int) []error {
	var errs []error
	for _, c := range RepresentativeCases() {
		for i := 0; i < variants; i++ {
			opts := VariantOptions{}.WithFixedIndex(i)
			out, err := e.Generate(c.Input, opts)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s (variant %d): %w", c.Name, i, err))
				continue
			}
			errs = append(errs, checkOutput(c.Name, out, NextRoundPrefix, guard, i)...)

			f, err := e.Focus(c.Input, opts)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s focus (variant %d): %w", c.Name, i, err))
				continue
			}
			if strings.Count(f.Text, NextRoundFocusPrefix) != 1 || !strings.HasPrefix(f.Text, NextRoundFocusPrefix) {
				errs = append(errs, fmt.Errorf("%s focus (variant %d): bad prefix: %q", c.Name, i, f.Text))
			}
		}
	}
	for round := 1; round <= OnboardingRounds; round++ {
		for _, prev := range []*int{nil, intPtr(80), intPtr(84), intPtr(90)} {
			out, err := GenerateOnboarding(OnboardingInput{RoundNumber: round, Score: 84, ToPar: 12, PreviousScore: prev})
			if err != nil {
				errs = append(errs, fmt.Errorf("onboarding round %d: %w", round, err))
				continue
			}
			errs = append(errs, checkOutput(fmt.Sprintf("onboarding round %d", round), out, NextRoundPrefix, guard, 0)...)
		}
	}
	return errs
}

func checkOutput(name string, out *PolicyOutput, prefix string, guard *CopyGuard, variant int) []error {
	var errs []error
	for slot, msg := range out.Messages {
		if err := guard.Check(msg, GuardContext{Slot: slot + 1, Outcome: out.Outcomes[slot], VariantIndex: variant}); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
		if strings.Contains(msg, "{") {
			errs = append(errs, fmt.Errorf("%s: unfilled placeholder in message %d: %q", name, slot+1, msg))
		}
	}
	if !strings.HasPrefix(out.Messages[2], prefix) || strings.Count(out.Messages[2], prefix) != 1 {
		errs = append(errs, fmt.Errorf("%s: message 3 must start with %q exactly once: %q", name, prefix, out.Messages[2]))
	}
	return errs
}

func intPtr(v int) *int { return &v }
