package insights

import "math"

// SGValues are the strokes-gained values supplied by the external model.
// A nil component was not measured for the round.
type SGValues struct {
	OffTee    *float64 `json:"off_tee"`
	Approach  *float64 `json:"approach"`
	Putting   *float64 `json:"putting"`
	Penalties *float64 `json:"penalties"`
	Residual  *float64 `json:"residual"`
	Total     *float64 `json:"total"`
}

// Selection is the selector's view of a round's measured components.
type Selection struct {
	Components        []Component `json:"components"` // canonical order
	Best              *Component  `json:"best"`
	Opportunity       *Component  `json:"opportunity"`
	OpportunityIsWeak bool        `json:"opportunity_is_weak"`
	ResidualDominant  bool        `json:"residual_dominant"`
	WeakSeparation    bool        `json:"weak_separation"`
	ComponentCount    int         `json:"component_count"`
	Residual          *float64    `json:"residual"`
}

// Select builds the component list and picks the best and opportunity areas.
func Select(v SGValues, th Thresholds) Selection {
	var comps []Component
	for i, val := range []*float64{v.OffTee, v.Approach, v.Putting, v.Penalties} {
		if val == nil {
			continue
		}
		name := CanonicalOrder[i]
		comps = append(comps, Component{Name: name, Label: name.Label(), Value: *val})
	}

	residual := v.Residual
	if residual == nil && v.Total != nil {
		r := *v.Total - sumValues(comps)
		residual = &r
	}

	return SelectComponents(comps, residual, th)
}

// SelectComponents runs selection over an already-built component list.
// The list is re-sorted into canonical order; insertion order is ignored.
func SelectComponents(comps []Component, residual *float64, th Thresholds) Selection {
	ordered := canonicalize(comps)
	sel := Selection{
		Components:     ordered,
		ComponentCount: len(ordered),
		Residual:       residual,
	}

	switch len(ordered) {
	case 0:
	case 1:
		best := ordered[0]
		sel.Best = &best
	default:
		best, opp := extremes(ordered)
		sel.Best = &best
		sel.Opportunity = &opp
	}

	if sel.Opportunity != nil {
		sel.OpportunityIsWeak = sel.Opportunity.Value <= th.WeaknessThreshold
		sel.WeakSeparation = sel.Best.Value-sel.Opportunity.Value < th.SeparationDelta
	}
	sel.ResidualDominant = residualDominant(residual, ordered, th)
	return sel
}

// Apply copies the selection's facts onto in.
func (s Selection) Apply(in *PolicyInput) {
	in.MeasuredComponents = s.Components
	in.BestMeasured = s.Best
	in.WorstMeasured = s.Opportunity
	in.OpportunityIsWeak = s.OpportunityIsWeak
	in.ResidualDominant = s.ResidualDominant
	in.WeakSeparation = s.WeakSeparation
	in.ResidualValue = s.Residual
}

// extremes returns argmax and argmin of ordered (len >= 2). Ties go to the
// earliest canonical component. When every value is equal the first and last
// components are returned so the two never coincide.
func extremes(ordered []Component) (Component, Component) {
	bi, oi := 0, 0
	for i := 1; i < len(ordered); i++ {
		if ordered[i].Value > ordered[bi].Value {
			bi = i
		}
		if ordered[i].Value < ordered[oi].Value {
			oi = i
		}
	}
	if bi == oi {
		bi, oi = 0, len(ordered)-1
	}
	return ordered[bi], ordered[oi]
}

func residualDominant(residual *float64, comps []Component, th Thresholds) bool {
	if residual == nil {
		return false
	}
	abs := math.Abs(*residual)
	var measured float64
	for _, c := range comps {
		measured += math.Abs(c.Value)
	}
	return abs > th.ResidualFloor && abs > th.ResidualRatio*measured
}

// canonicalize returns a copy of comps in canonical order with labels filled
// and unknown or duplicate names dropped.
func canonicalize(comps []Component) []Component {
	var out []Component
	for _, name := range CanonicalOrder {
		for _, c := range comps {
			if c.Name != name {
				continue
			}
			if c.Label == "" {
				c.Label = name.Label()
			}
			out = append(out, c)
			break
		}
	}
	return out
}

func sumValues(comps []Component) float64 {
	var sum float64
	for _, c := range comps {
		sum += c.Value
	}
	return sum
}
