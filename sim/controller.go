// Package sim implements the simulation controller (spec §4.G): the
// single-threaded, synchronous, deterministic step loop that ties the net
// model, the incidence matrix, the transition behaviors and the conflict
// resolver together.
package sim

import (
	"math/rand"

	"github.com/pflow-xyz/shpn/behavior"
	"github.com/pflow-xyz/shpn/conflict"
	"github.com/pflow-xyz/shpn/petri"
)

// Controller drives one net through time. It owns the single seedable
// PRNG shared by stochastic sampling and the conflict resolver's random
// policy, so an entire run is reproducible from its seed alone.
type Controller struct {
	net      *petri.Net
	mgr      *petri.Manager
	factory  *behavior.Factory
	resolver *conflict.Resolver
	rng      *rand.Rand
	clock    Clock
	cfg      Config

	observers   []Observer
	wasEnabled  map[*petri.Transition]bool
	idleStreak  int
}

// NewController wires a Controller around net per cfg.
func NewController(net *petri.Net, cfg Config) *Controller {
	rng := rand.New(rand.NewSource(cfg.Seed))
	c := &Controller{
		net:        net,
		mgr:        petri.NewManager(net),
		factory:    behavior.NewFactory(net),
		resolver:   conflict.New(cfg.Policy, rng),
		rng:        rng,
		cfg:        cfg,
		wasEnabled: make(map[*petri.Transition]bool),
	}
	return c
}

// AddObserver registers o to receive every StepOutcome.
func (c *Controller) AddObserver(o Observer) { c.observers = append(c.observers, o) }

// Now returns the controller's current simulation time.
func (c *Controller) Now() float64 { return c.clock.Now() }

// Net returns the net the controller drives.
func (c *Controller) Net() *petri.Net { return c.net }

func (c *Controller) ctx() *behavior.Context {
	return &behavior.Context{
		Net:    c.net,
		Matrix: c.mgr.Matrix(),
		Now:    c.clock.Now(),
		Rng:    c.rng,
	}
}

// Step advances the simulation by dt, performing, in order:
//  1. enablement update (fires OnEnabled/OnDisabled transitions)
//  2. discrete candidate gather, conflict resolution, and at most one fire
//  3. continuous integration over the post-firing marking
//  4. time advance
//  5. observation emit
func (c *Controller) Step(dt float64) StepOutcome {
	ctx := c.ctx()
	c.updateEnablement(ctx)

	var out StepOutcome
	fired, burst := c.fireOneDiscrete(ctx)
	out.FiredTransition = fired
	out.Burst = burst

	continuousFired, errs := c.integrateContinuous(ctx, dt)
	out.ContinuousFired = continuousFired
	out.Errors = errs

	c.clock.advance(dt)
	out.Time = c.clock.Now()

	for _, o := range c.observers {
		o.OnStep(out)
	}
	return out
}

func (c *Controller) updateEnablement(ctx *behavior.Context) {
	for _, t := range c.net.Transitions() {
		b, st := c.factory.Get(t)
		enabledNow := ctx.Matrix.IsEnabled(t)
		was := c.wasEnabled[t]
		if enabledNow && !was {
			b.OnEnabled(t, st, ctx)
		} else if !enabledNow && was {
			b.OnDisabled(t, st, ctx)
		}
		c.wasEnabled[t] = enabledNow
	}
}

func (c *Controller) fireOneDiscrete(ctx *behavior.Context) (*petri.Transition, int) {
	var candidates []*petri.Transition
	for _, t := range c.net.Transitions() {
		if t.Kind == petri.Continuous {
			continue
		}
		b, st := c.factory.Get(t)
		if b.CanFire(t, st, ctx) {
			candidates = append(candidates, t)
		}
	}
	chosen := c.resolver.Resolve(candidates)
	if chosen == nil {
		return nil, 0
	}
	b, st := c.factory.Get(chosen)
	result, err := b.Fire(chosen, st, ctx)
	if err != nil || !result.Fired {
		return nil, 0
	}
	return chosen, result.Burst
}

func (c *Controller) integrateContinuous(ctx *behavior.Context, dt float64) ([]*petri.Transition, []error) {
	var fired []*petri.Transition
	var errs []error
	for _, t := range c.net.Transitions() {
		if t.Kind != petri.Continuous {
			continue
		}
		b, st := c.factory.Get(t)
		if err := b.Integrate(t, st, ctx, dt); err != nil {
			errs = append(errs, err)
			continue
		}
		fired = append(fired, t)
	}
	return fired, errs
}

// Reset restores the net to its initial marking, resets the clock to
// zero, and drops every cached behavior state (spec §4.E: reset is one of
// the cache's invalidation triggers).
func (c *Controller) Reset() {
	c.net.ResetToInitial()
	c.clock.reset()
	c.factory.Reset()
	c.wasEnabled = make(map[*petri.Transition]bool)
	c.idleStreak = 0
}

// RunResult reports how RunUntil ended.
type RunResult struct {
	Steps      int
	Deadlocked bool
}

// RunUntil steps the controller with its configured Dt until the clock
// reaches tEnd, or until MaxDeadlockSteps consecutive steps produce
// neither a discrete firing nor a non-erroring continuous integration
// (whichever comes first).
func (c *Controller) RunUntil(tEnd float64) RunResult {
	steps := 0
	for c.clock.Now() < tEnd {
		out := c.Step(c.cfg.Dt)
		steps++
		if out.FiredTransition == nil && len(out.ContinuousFired) == 0 {
			c.idleStreak++
		} else {
			c.idleStreak = 0
		}
		if c.cfg.MaxDeadlockSteps > 0 && c.idleStreak >= c.cfg.MaxDeadlockSteps {
			return RunResult{Steps: steps, Deadlocked: true}
		}
	}
	return RunResult{Steps: steps}
}
