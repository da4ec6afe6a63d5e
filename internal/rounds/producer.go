// Package rounds turns stored round data into insight engine inputs. It is
// the one place entitlement gating happens: the engine never sees
// strokes-gained values a player is not entitled to.
package rounds

import (
	"errors"
	"fmt"
	"strings"

	"github.com/caddie/caddie/pkg/insights"
)

// ErrInvalidRound is returned when a round record cannot produce an input.
var ErrInvalidRound = errors.New("invalid round")

// Entitlement is the subscription state resolved by the caller.
type Entitlement struct {
	IsPremium         bool `json:"is_premium"`
	ShowStrokesGained bool `json:"show_strokes_gained"`
}

// AllowsStrokesGained reports whether strokes-gained messaging may be shown.
func (e Entitlement) AllowsStrokesGained() bool {
	return e.IsPremium && e.ShowStrokesGained
}

// Round is one logged round as the caller stores it.
type Round struct {
	ID            string                  `json:"id"`
	RoundNumber   int                     `json:"round_number"` // 1-based count of the player's rounds
	Score         int                     `json:"score"`
	ToPar         int                     `json:"to_par"`
	AvgScore      float64                 `json:"avg_score"`
	Band          insights.Band           `json:"band"`
	PreviousScore *int                    `json:"previous_score,omitempty"`
	Stats         insights.StatsRecord    `json:"stats"`
	Evidence      *insights.RoundEvidence `json:"evidence,omitempty"`
}

// ValidateID rejects round ids that are not a single path segment. Ids name
// archive objects and files, so separators and ".." are never allowed.
func ValidateID(id string) error {
	if strings.ContainsAny(id, "/\\\x00") || strings.Contains(id, "..") {
		return fmt.Errorf("%w: round id %q", ErrInvalidRound, id)
	}
	return nil
}

// Validate checks the fields every input needs. An empty id is allowed.
func (r Round) Validate() error {
	if err := ValidateID(r.ID); err != nil {
		return err
	}
	if r.RoundNumber < 1 {
		return fmt.Errorf("%w: round number %d", ErrInvalidRound, r.RoundNumber)
	}
	if r.Score <= 0 {
		return fmt.Errorf("%w: score %d", ErrInvalidRound, r.Score)
	}
	switch r.Band {
	case "", insights.BandAbove, insights.BandExpected, insights.BandBelow:
	default:
		return fmt.Errorf("%w: band %q", ErrInvalidRound, r.Band)
	}
	return nil
}

// IsOnboarding reports whether r is handled by the onboarding policy.
func (r Round) IsOnboarding() bool {
	return insights.IsOnboardingRound(r.RoundNumber)
}

// Producer builds engine inputs with a fixed set of thresholds.
type Producer struct {
	thresholds insights.Thresholds
}

// NewProducer creates a Producer.
func NewProducer(th insights.Thresholds) *Producer {
	return &Producer{thresholds: th}
}

// PolicyInput builds the steady-state input for r. Strokes-gained values are
// dropped entirely when ent does not allow them, so the engine falls back to
// its no-components outcomes.
func (p *Producer) PolicyInput(r Round, sg insights.SGValues, ent Entitlement) (insights.PolicyInput, error) {
	if err := r.Validate(); err != nil {
		return insights.PolicyInput{}, err
	}
	if !ent.AllowsStrokesGained() {
		sg = insights.SGValues{}
	}

	band := r.Band
	if band == "" {
		band = insights.BandExpected
	}
	in := insights.PolicyInput{
		Score:         r.Score,
		ToPar:         r.ToPar,
		AvgScore:      r.AvgScore,
		Band:          band,
		Missing:       insights.ClassifyMissing(r.Stats),
		RoundEvidence: r.Evidence,
	}
	insights.Select(sg, p.thresholds).Apply(&in)
	return in, nil
}

// OnboardingInput builds the onboarding input for r.
func (p *Producer) OnboardingInput(r Round) (insights.OnboardingInput, error) {
	if err := r.Validate(); err != nil {
		return insights.OnboardingInput{}, err
	}
	return insights.OnboardingInput{
		RoundNumber:   r.RoundNumber,
		Score:         r.Score,
		ToPar:         r.ToPar,
		PreviousScore: r.PreviousScore,
	}, nil
}
