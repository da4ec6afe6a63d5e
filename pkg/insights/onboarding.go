package insights

import (
	"errors"
	"fmt"
)

// ErrUnsupportedOnboardingRound is returned for round numbers outside 1-3.
// Rounds after onboarding go to Engine.Generate.
var ErrUnsupportedOnboardingRound = errors.New("unsupported onboarding round")

// OnboardingInput is what the onboarding policy needs for one round.
type OnboardingInput struct {
	RoundNumber   int  `json:"round_number"`
	Score         int  `json:"score"`
	ToPar         int  `json:"to_par"`
	PreviousScore *int `json:"previous_score,omitempty"`
}

// IsOnboardingRound reports whether roundNumber is handled by GenerateOnboarding.
func IsOnboardingRound(roundNumber int) bool {
	return roundNumber >= 1 && roundNumber <= OnboardingRounds
}

// GenerateOnboarding renders fixed onboarding copy for rounds 1-3. All three
// slots share one outcome code.
func GenerateOnboarding(in OnboardingInput) (*PolicyOutput, error) {
	if !IsOnboardingRound(in.RoundNumber) {
		return nil, fmt.Errorf("%w: round %d", ErrUnsupportedOnboardingRound, in.RoundNumber)
	}

	code, diff := onboardingOutcome(in)
	msgs := onboardingCopy[code]
	vars := map[string]string{
		"{round}":  fmt.Sprintf("%d", in.RoundNumber),
		"{score}":  fmt.Sprintf("%d", in.Score),
		"{to_par}": FormatToPar(in.ToPar),
		"{diff}":   strokes(diff),
	}
	if in.RoundNumber > 1 && in.PreviousScore == nil {
		msgs[0] = onboardingNoPrevious
	}

	out := &PolicyOutput{}
	levels := onboardingLevels(code)
	for i := range msgs {
		out.Outcomes[i] = code
		out.MessageLevels[i] = levels[i]
		out.Messages[i] = fill(msgs[i], vars)
	}
	return out, nil
}

// onboardingOutcome picks the outcome code and the absolute stroke difference
// from the previous round. A lower score is better.
func onboardingOutcome(in OnboardingInput) (string, int) {
	codes := map[int][3]string{
		2: {OutcomeOB2Better, OutcomeOB2Same, OutcomeOB2Worse},
		3: {OutcomeOB3Better, OutcomeOB3Same, OutcomeOB3Worse},
	}
	if in.RoundNumber == 1 {
		return OutcomeOB1, 0
	}
	c := codes[in.RoundNumber]
	if in.PreviousScore == nil {
		return c[1], 0
	}
	prev := *in.PreviousScore
	switch {
	case in.Score < prev:
		return c[0], prev - in.Score
	case in.Score > prev:
		return c[2], in.Score - prev
	default:
		return c[1], 0
	}
}

func onboardingLevels(code string) [3]Level {
	switch code {
	case OutcomeOB2Better, OutcomeOB3Better:
		return [3]Level{LevelSuccess, LevelInfo, LevelInfo}
	case OutcomeOB2Worse, OutcomeOB3Worse:
		return [3]Level{LevelWarning, LevelInfo, LevelInfo}
	default:
		return [3]Level{LevelInfo, LevelInfo, LevelInfo}
	}
}
