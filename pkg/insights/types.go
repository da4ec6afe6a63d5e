// Package insights implements the caddie post-round insight policy engine.
// It classifies a round's strokes-gained facts into outcome codes and renders
// three short messages per round. The package performs no I/O.
package insights

// ComponentName identifies a measured strokes-gained category.
type ComponentName string

const (
	OffTee    ComponentName = "off_tee"
	Approach  ComponentName = "approach"
	Putting   ComponentName = "putting"
	Penalties ComponentName = "penalties"
)

// CanonicalOrder is the fixed order components are listed and tie-broken in.
var CanonicalOrder = []ComponentName{OffTee, Approach, Putting, Penalties}

// Label returns the human label for a component.
func (n ComponentName) Label() string {
	switch n {
	case OffTee:
		return "Off the tee"
	case Approach:
		return "Approach"
	case Putting:
		return "Putting"
	case Penalties:
		return "Penalties"
	default:
		return string(n)
	}
}

// Component is one measured strokes-gained value for a round.
type Component struct {
	Name  ComponentName `json:"name"`
	Label string        `json:"label"`
	Value float64       `json:"value"`
}

// Band classifies a round relative to the player's average.
type Band string

const (
	BandAbove    Band = "above"
	BandExpected Band = "expected"
	BandBelow    Band = "below"
)

// Level is the tone tag attached to each rendered message.
type Level string

const (
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelInfo    Level = "info"
)

// RoundEvidence holds raw counts used to decorate messages.
type RoundEvidence struct {
	FairwaysHit      int `json:"fairways_hit"`
	FairwaysPossible int `json:"fairways_possible"`
	GreensHit        int `json:"greens_hit"`
	GreensPossible   int `json:"greens_possible"`
	PuttsTotal       int `json:"putts_total"`
	PenaltiesTotal   int `json:"penalties_total"`
}

// PolicyInput is the per-round set of computed facts the engine classifies.
// Immutable once constructed by the caller.
type PolicyInput struct {
	Score              int            `json:"score"`
	ToPar              int            `json:"to_par"`
	AvgScore           float64        `json:"avg_score"`
	Band               Band           `json:"band"`
	MeasuredComponents []Component    `json:"measured_components"`
	BestMeasured       *Component     `json:"best_measured,omitempty"`
	WorstMeasured      *Component     `json:"worst_measured,omitempty"`
	OpportunityIsWeak  bool           `json:"opportunity_is_weak"`
	ResidualDominant   bool           `json:"residual_dominant"`
	WeakSeparation     bool           `json:"weak_separation"`
	Missing            MissingStats   `json:"missing"`
	ResidualValue      *float64       `json:"residual_value,omitempty"`
	RoundEvidence      *RoundEvidence `json:"round_evidence,omitempty"`
}

// PolicyOutput is the result of running a policy over one round.
type PolicyOutput struct {
	Outcomes      [3]string `json:"outcomes"`
	MessageLevels [3]Level  `json:"message_levels"`
	Messages      [3]string `json:"messages"`
}

// Slot outcome codes for the steady-state engine.
const (
	OutcomeM1NoComponents = "M1-A"
	OutcomeM1Mixed        = "M1-B"
	OutcomeM1Strength     = "M1-C"
	OutcomeM1Neutral      = "M1-D"

	OutcomeM2NoComponents = "M2-A"
	OutcomeM2Opportunity  = "M2-B"
	OutcomeM2AllZero      = "M2-C"
	OutcomeM2Residual     = "M2-D"
	OutcomeM2SingleArea   = "M2-E"

	OutcomeM3TrackAll  = "M3-A"
	OutcomeM3TrackOne  = "M3-B"
	OutcomeM3Focus     = "M3-C"
	OutcomeM3TrackSome = "M3-D"
)

// Onboarding outcome codes.
const (
	OutcomeOB1       = "OB-1"
	OutcomeOB2Better = "OB-2-BETTER"
	OutcomeOB2Same   = "OB-2-SAME"
	OutcomeOB2Worse  = "OB-2-WORSE"
	OutcomeOB3Better = "OB-3-BETTER"
	OutcomeOB3Same   = "OB-3-SAME"
	OutcomeOB3Worse  = "OB-3-WORSE"
	OnboardingPrefix = "OB-"
	OnboardingRounds = 3
)

// Message 3 prefixes. The round insight and the focus summary call sites use
// different literals and consumers match on them exactly.
const (
	NextRoundPrefix      = "Next round: "
	NextRoundFocusPrefix = "Next round focus: "
)
