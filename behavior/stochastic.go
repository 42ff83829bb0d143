package behavior

import (
	"math"

	"github.com/pflow-xyz/shpn/petri"
)

// Stochastic implements exponential-interarrival firing: once enabled, a
// delay d = -ln(U)/rate is sampled from the controller's shared PRNG and
// the transition becomes eligible once that much simulation time has
// elapsed. A single eligible instant may fold up to the sampled burst
// count (at most t.MaxBurst) of consecutive firings into one Fire call; if
// tokens run out before that count is reached, the largest feasible burst
// fires instead of none at all.
type Stochastic struct{}

func (Stochastic) Kind() petri.TransitionKind { return petri.Stochastic }

func (Stochastic) OnEnabled(t *petri.Transition, st *State, ctx *Context) {
	st.EnabledSince = ctx.Now
	st.HasEnabledSince = true
	st.SampledBurst = sampleBurst(ctx, t)
	st.HasSampledBurst = true
	if t.Rate > 0 {
		st.NextFireAt = ctx.Now + sampleExponential(ctx, t.Rate)
		st.HasNextFireAt = true
	} else {
		st.HasNextFireAt = false
	}
}

func (Stochastic) OnDisabled(_ *petri.Transition, st *State, _ *Context) {
	st.HasEnabledSince = false
	st.HasNextFireAt = false
	st.HasSampledBurst = false
}

func (Stochastic) CanFire(t *petri.Transition, st *State, ctx *Context) bool {
	if !ctx.Matrix.IsEnabled(t) || !st.HasNextFireAt {
		return false
	}
	return ctx.Now >= st.NextFireAt
}

func (b Stochastic) Fire(t *petri.Transition, st *State, ctx *Context) (Outcome, error) {
	if !b.CanFire(t, st, ctx) {
		return Outcome{}, ErrNotEnabled
	}
	target := t.MaxBurst
	if target <= 0 {
		target = 1
	}
	if st.HasSampledBurst {
		target = st.SampledBurst
	}
	burst := 0
	for burst < target && ctx.Matrix.IsEnabled(t) {
		if err := ctx.Matrix.Fire(t); err != nil {
			break
		}
		burst++
	}
	if burst == 0 {
		return Outcome{}, ErrNotEnabled
	}
	if t.Rate > 0 {
		st.NextFireAt = ctx.Now + sampleExponential(ctx, t.Rate)
		st.HasNextFireAt = true
		st.SampledBurst = sampleBurst(ctx, t)
		st.HasSampledBurst = true
	} else {
		st.HasNextFireAt = false
		st.HasSampledBurst = false
	}
	return Outcome{Fired: true, Burst: burst}, nil
}

func (Stochastic) Integrate(*petri.Transition, *State, *Context, float64) error { return nil }

// sampleExponential draws d = -ln(U)/rate with U uniform on (0, 1], using
// 1 - Float64() so U is never exactly zero (which would make d infinite).
func sampleExponential(ctx *Context, rate float64) float64 {
	u := 1 - ctx.Rng.Float64()
	return -math.Log(u) / rate
}

// sampleBurst draws b ~ DiscreteUniform(1, max_burst) at the enablement
// edge and again after every successful Fire (spec §3 sampled_burst,
// §4.D). Fire clamps to the largest
// feasible b' <= b if tokens run out before b firings complete.
func sampleBurst(ctx *Context, t *petri.Transition) int {
	maxBurst := t.MaxBurst
	if maxBurst <= 0 {
		maxBurst = 1
	}
	return ctx.Rng.Intn(maxBurst) + 1
}
