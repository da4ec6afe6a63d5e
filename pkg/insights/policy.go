package insights

import "fmt"

// Engine runs the steady-state insight policy for rounds after onboarding.
// It is stateless and safe for concurrent use.
type Engine struct {
	thresholds Thresholds
	guard      *CopyGuard
}

// Option configures an Engine.
type Option func(*Engine)

// WithThresholds overrides the default thresholds.
func WithThresholds(th Thresholds) Option {
	return func(e *Engine) { e.thresholds = th }
}

// WithCopyGuard enables copy checks on every rendered message.
func WithCopyGuard(g *CopyGuard) Option {
	return func(e *Engine) { e.guard = g }
}

// NewEngine creates an engine with default thresholds and no copy guard.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{thresholds: Defaults()}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Thresholds returns the engine's thresholds.
func (e *Engine) Thresholds() Thresholds { return e.thresholds }

// Generate classifies in and renders the three round messages. Message 3
// starts with NextRoundPrefix. Best and opportunity are recomputed from the
// measured components when the caller did not supply them; the edge-condition
// flags are taken from in as given.
func (e *Engine) Generate(in PolicyInput, opts VariantOptions) (*PolicyOutput, error) {
	v := newRoundView(in, e.thresholds)
	out := &PolicyOutput{}

	for i, rules := range [3][]rule{slot1Rules, slot2Rules, slot3Rules} {
		r := match(rules, v)
		text, idx := e.render(r, v, opts)
		if i == 2 {
			text = NextRoundPrefix + text
		}
		if err := e.guard.Check(text, GuardContext{Slot: i + 1, Outcome: r.code, VariantIndex: idx}); err != nil {
			return nil, err
		}
		out.Outcomes[i] = r.code
		out.MessageLevels[i] = r.level(v)
		out.Messages[i] = text
	}
	return out, nil
}

// Focus renders only the next-round focus line, as shown on the round
// summary. It uses NextRoundFocusPrefix and the same wording as message 3.
func (e *Engine) Focus(in PolicyInput, opts VariantOptions) (*Focus, error) {
	v := newRoundView(in, e.thresholds)
	r := match(slot3Rules, v)
	f := BuildFocus(v.focusInput(r.code, opts))
	f.Text = NextRoundFocusPrefix + f.Text
	if err := e.guard.Check(f.Text, GuardContext{Slot: 3, Outcome: r.code, VariantIndex: f.VariantIndex}); err != nil {
		return nil, fmt.Errorf("focus: %w", err)
	}
	return &f, nil
}

func (e *Engine) render(r rule, v *roundView, opts VariantOptions) (string, int) {
	tmpl, idx := PickVariant(r.code, r.copy(v), opts)
	text := fill(tmpl, v.vars(r.code, opts))
	if r.after != nil {
		text = r.after(v, text)
	}
	return text, idx
}
