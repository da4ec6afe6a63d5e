package insights

import (
	"fmt"
	"math"
	"strings"
)

// rule is one entry of a slot's decision list. Rules are checked in order and
// the first whose when() matches decides the slot.
type rule struct {
	code  string
	when  func(v *roundView) bool
	level func(v *roundView) Level
	copy  func(v *roundView) []string
	after func(v *roundView, text string) string
}

func always(*roundView) bool { return true }

func fixedLevel(l Level) func(*roundView) Level {
	return func(*roundView) Level { return l }
}

func table(t []string) func(*roundView) []string {
	return func(*roundView) []string { return t }
}

var slot1Rules = []rule{
	{
		code:  OutcomeM1NoComponents,
		when:  func(v *roundView) bool { return len(v.comps) == 0 },
		level: fixedLevel(LevelInfo),
		copy:  table(copyM1NoComponents),
	},
	{
		code:  OutcomeM1Neutral,
		when:  func(v *roundView) bool { return v.best.Value == 0 && v.low().Value == 0 },
		level: fixedLevel(LevelInfo),
		copy:  table(copyM1Neutral),
		after: (*roundView).decorateGreens,
	},
	{
		code:  OutcomeM1Strength,
		when:  func(v *roundView) bool { return v.in.Band == BandAbove && v.best.Value > 0 },
		level: fixedLevel(LevelSuccess),
		copy:  table(copyM1Strength),
		after: (*roundView).decorateGreens,
	},
	{
		code: OutcomeM1Mixed,
		when: always,
		level: func(v *roundView) Level {
			if v.in.Band == BandBelow {
				return LevelWarning
			}
			return LevelInfo
		},
		copy: func(v *roundView) []string {
			if v.opp == nil {
				return copyM1MixedSingle
			}
			return copyM1Mixed
		},
		after: (*roundView).decorateGreens,
	},
}

var slot2Rules = []rule{
	{
		code:  OutcomeM2NoComponents,
		when:  func(v *roundView) bool { return len(v.comps) == 0 },
		level: fixedLevel(LevelInfo),
		copy:  table(copyM2NoComponents),
	},
	{
		code:  OutcomeM2AllZero,
		when:  (*roundView).allZero,
		level: fixedLevel(LevelInfo),
		copy:  table(copyM2AllZero),
	},
	{
		code: OutcomeM2Residual,
		when: func(v *roundView) bool {
			return v.residualLarge() && (v.in.ResidualDominant || !v.in.OpportunityIsWeak)
		},
		level: fixedLevel(LevelWarning),
		copy:  table(copyM2Residual),
		after: (*roundView).decorateFairways,
	},
	{
		code: OutcomeM2Opportunity,
		when: func(v *roundView) bool { return v.opp != nil },
		level: func(v *roundView) Level {
			if v.in.OpportunityIsWeak {
				return LevelWarning
			}
			return LevelInfo
		},
		copy: func(v *roundView) []string {
			if v.in.OpportunityIsWeak {
				return copyM2OpportunityWeak
			}
			return copyM2OpportunityMild
		},
		after: func(v *roundView, text string) string {
			text = v.decorateFairways(text)
			if v.residualLarge() {
				text += " " + fill(residualSentence, v.baseVars())
			}
			return text
		},
	},
	{
		code:  OutcomeM2SingleArea,
		when:  always,
		level: fixedLevel(LevelInfo),
		copy:  table(copyM2SingleArea),
		after: (*roundView).decorateFairways,
	},
}

var slot3Rules = []rule{
	{
		code:  OutcomeM3TrackAll,
		when:  func(v *roundView) bool { return v.in.Missing.Count() == 4 },
		level: fixedLevel(LevelInfo),
		copy:  (*roundView).focusCopy,
	},
	{
		code:  OutcomeM3TrackOne,
		when:  func(v *roundView) bool { return v.in.Missing.Count() == 1 },
		level: fixedLevel(LevelInfo),
		copy:  (*roundView).focusCopy,
	},
	{
		code:  OutcomeM3TrackSome,
		when:  func(v *roundView) bool { return v.in.Missing.Count() > 1 },
		level: fixedLevel(LevelInfo),
		copy:  (*roundView).focusCopy,
	},
	{
		code: OutcomeM3Focus,
		when: always,
		level: func(v *roundView) Level {
			if v.opp != nil && v.in.OpportunityIsWeak && !v.in.WeakSeparation {
				return LevelWarning
			}
			return LevelSuccess
		},
		copy: (*roundView).focusCopy,
	},
}

func match(rules []rule, v *roundView) rule {
	for _, r := range rules {
		if r.when(v) {
			return r
		}
	}
	// Every slot ends with an always() rule.
	return rules[len(rules)-1]
}

// roundView is a PolicyInput with best and opportunity resolved.
type roundView struct {
	in    PolicyInput
	th    Thresholds
	comps []Component
	best  *Component
	opp   *Component
}

func newRoundView(in PolicyInput, th Thresholds) *roundView {
	v := &roundView{in: in, th: th, best: in.BestMeasured, opp: in.WorstMeasured}
	sel := SelectComponents(in.MeasuredComponents, in.ResidualValue, th)
	v.comps = sel.Components
	if v.best == nil {
		v.best = sel.Best
		v.opp = sel.Opportunity
	}
	return v
}

// low is the lowest measured component: the opportunity, or the only one.
func (v *roundView) low() *Component {
	if v.opp != nil {
		return v.opp
	}
	return v.best
}

func (v *roundView) allZero() bool {
	if len(v.comps) == 0 {
		return false
	}
	for _, c := range v.comps {
		if c.Value != 0 {
			return false
		}
	}
	return true
}

func (v *roundView) residualLarge() bool {
	return v.in.ResidualValue != nil && math.Abs(*v.in.ResidualValue) > v.th.ResidualMentionThreshold
}

func (v *roundView) involves(name ComponentName) bool {
	return (v.best != nil && v.best.Name == name) || (v.opp != nil && v.opp.Name == name)
}

func (v *roundView) decorateGreens(text string) string {
	ev := v.in.RoundEvidence
	if ev == nil || ev.GreensPossible == 0 || !v.involves(Approach) {
		return text
	}
	return decorateFirst(text, fmt.Sprintf("%d/%d greens in regulation", ev.GreensHit, ev.GreensPossible))
}

func (v *roundView) decorateFairways(text string) string {
	ev := v.in.RoundEvidence
	if ev == nil || ev.FairwaysPossible == 0 || !v.involves(OffTee) {
		return text
	}
	return decorateFirst(text, fmt.Sprintf("%d/%d fairways hit", ev.FairwaysHit, ev.FairwaysPossible))
}

func (v *roundView) focusInput(key string, opts VariantOptions) FocusInput {
	return FocusInput{
		Missing:           v.in.Missing,
		WorstMeasured:     v.opp,
		OpportunityIsWeak: v.in.OpportunityIsWeak,
		WeakSeparation:    v.in.WeakSeparation,
		Key:               key,
		Variant:           opts,
	}
}

func (v *roundView) focusCopy() []string {
	_, t := focusTable(v.focusInput("", VariantOptions{}))
	return t
}

func (v *roundView) bandPhrase() string {
	switch v.in.Band {
	case BandAbove:
		return "better than your average"
	case BandBelow:
		return "higher than your average"
	default:
		return "right around your average"
	}
}

func (v *roundView) baseVars() map[string]string {
	vars := map[string]string{
		"{score}":       fmt.Sprintf("%d", v.in.Score),
		"{to_par}":      FormatToPar(v.in.ToPar),
		"{avg}":         fmt.Sprintf("%.1f", v.in.AvgScore),
		"{band_phrase}": v.bandPhrase(),
		"{count}":       fmt.Sprintf("%d", len(v.comps)),
	}
	if v.best != nil {
		vars["{best}"] = labelOf(*v.best)
		vars["{best_lc}"] = lowerFirst(labelOf(*v.best))
		vars["{best_value}"] = signed(v.best.Value)
	}
	if v.opp != nil {
		vars["{opp}"] = labelOf(*v.opp)
		vars["{opp_lc}"] = lowerFirst(labelOf(*v.opp))
		vars["{opp_value}"] = signed(v.opp.Value)
	}
	if v.in.ResidualValue != nil {
		vars["{residual}"] = signed(*v.in.ResidualValue)
	}
	return vars
}

// vars merges base and focus placeholders for a slot keyed by code.
func (v *roundView) vars(code string, opts VariantOptions) map[string]string {
	vars := v.baseVars()
	for k, val := range focusVars(v.focusInput(code, opts), code) {
		vars[k] = val
	}
	return vars
}

// decorateFirst inserts " (note)" before the end of the first sentence.
func decorateFirst(text, note string) string {
	if i := strings.Index(text, ". "); i >= 0 {
		return decorate(text[:i+1], note) + text[i+1:]
	}
	return decorate(text, note)
}
