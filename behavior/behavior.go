// Package behavior implements the four transition firing semantics
// (immediate, timed, stochastic, continuous) and the factory that assigns
// and caches a Behavior per transition, invalidating the cache when the
// net's structure changes underneath it.
package behavior

import (
	"math/rand"

	"github.com/pflow-xyz/shpn/petri"
)

// Outcome reports what Fire or Integrate actually did, for the
// controller and data collector to act on.
type Outcome struct {
	Fired bool
	Burst int // number of consecutive firings folded into one step (stochastic)
}

// Context is the read-only world a Behavior acts within for one
// evaluation: the net, its current incidence matrix, the simulation
// clock, and the shared PRNG (spec §4.G: one seedable PRNG owned by the
// controller, used by both stochastic sampling and the conflict resolver).
type Context struct {
	Net    *petri.Net
	Matrix *petri.Matrix
	Now    float64
	Rng    *rand.Rand
}

// State is the per-transition dynamic state a Behavior reads and writes
// across calls: the timed window, the next sampled stochastic fire time,
// and the lazily compiled continuous rate expression.
type State struct {
	EnabledSince    float64
	HasEnabledSince bool

	// Timed: absolute deadlines derived from EnabledSince + [Earliest, Latest].
	WindowOpensAt   float64
	WindowClosesAt  float64
	HasWindow       bool

	// Stochastic: absolute time of the next sampled firing, and the burst
	// count b ~ DiscreteUniform(1, max_burst) drawn at the enablement edge
	// (spec §3 TransitionState.sampled_burst).
	NextFireAt      float64
	HasNextFireAt   bool
	SampledBurst    int
	HasSampledBurst bool

	// Continuous: lazily compiled rate expression, recompiled if the
	// transition's RateExpr text or the net's identifier set changes.
	compiledExpr   compiledRate
	compiledSource string
}

// Behavior is the sum-type-by-interface dispatch of spec §4.D: exactly one
// implementation per petri.TransitionKind, selected and cached by Factory.
type Behavior interface {
	Kind() petri.TransitionKind
	OnEnabled(t *petri.Transition, st *State, ctx *Context)
	OnDisabled(t *petri.Transition, st *State, ctx *Context)
	CanFire(t *petri.Transition, st *State, ctx *Context) bool
	Fire(t *petri.Transition, st *State, ctx *Context) (Outcome, error)
	Integrate(t *petri.Transition, st *State, ctx *Context, dt float64) error
}
