package behavior

import "github.com/pflow-xyz/shpn/petri"

// Immediate fires instantly once enabled; ties between multiple enabled
// immediate transitions are broken by the conflict resolver's policy (by
// t.Priority under the Priority policy), not here.
type Immediate struct{}

func (Immediate) Kind() petri.TransitionKind { return petri.Immediate }

func (Immediate) OnEnabled(*petri.Transition, *State, *Context)  {}
func (Immediate) OnDisabled(*petri.Transition, *State, *Context) {}

func (Immediate) CanFire(t *petri.Transition, _ *State, ctx *Context) bool {
	return ctx.Matrix.IsEnabled(t)
}

func (Immediate) Fire(t *petri.Transition, _ *State, ctx *Context) (Outcome, error) {
	if !ctx.Matrix.IsEnabled(t) {
		return Outcome{}, ErrNotEnabled
	}
	if err := ctx.Matrix.Fire(t); err != nil {
		return Outcome{}, err
	}
	return Outcome{Fired: true, Burst: 1}, nil
}

func (Immediate) Integrate(*petri.Transition, *State, *Context, float64) error { return nil }
