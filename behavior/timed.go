package behavior

import "github.com/pflow-xyz/shpn/petri"

// Timed implements Merlin-Farber timed-transition semantics: once
// structurally enabled, a [earliest, latest] firing window opens relative
// to the moment enablement began. The transition may not fire before the
// window opens and must fire no later than it closes; becoming disabled
// before firing resets the clock on the next enablement.
type Timed struct{}

func (Timed) Kind() petri.TransitionKind { return petri.Timed }

func (Timed) OnEnabled(t *petri.Transition, st *State, ctx *Context) {
	st.EnabledSince = ctx.Now
	st.HasEnabledSince = true
	st.WindowOpensAt = ctx.Now + t.Earliest
	st.WindowClosesAt = ctx.Now + t.Latest
	st.HasWindow = true
}

func (Timed) OnDisabled(_ *petri.Transition, st *State, _ *Context) {
	st.HasEnabledSince = false
	st.HasWindow = false
}

func (Timed) CanFire(t *petri.Transition, st *State, ctx *Context) bool {
	if !ctx.Matrix.IsEnabled(t) || !st.HasWindow {
		return false
	}
	return ctx.Now >= st.WindowOpensAt && ctx.Now <= st.WindowClosesAt
}

// IsUrgent reports whether the window has reached its deadline. Neither
// the conflict resolver nor the controller's step loop consults it.
func (Timed) IsUrgent(_ *petri.Transition, st *State, ctx *Context) bool {
	return st.HasWindow && ctx.Now >= st.WindowClosesAt
}

func (b Timed) Fire(t *petri.Transition, st *State, ctx *Context) (Outcome, error) {
	if !b.CanFire(t, st, ctx) {
		return Outcome{}, ErrNotEnabled
	}
	if err := ctx.Matrix.Fire(t); err != nil {
		return Outcome{}, err
	}
	st.HasWindow = false
	st.HasEnabledSince = false
	return Outcome{Fired: true, Burst: 1}, nil
}

func (Timed) Integrate(*petri.Transition, *State, *Context, float64) error { return nil }
