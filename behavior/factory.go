package behavior

import "github.com/pflow-xyz/shpn/petri"

// behaviors holds one stateless singleton per transition kind; the four
// kinds never need more than one instance because every piece of
// per-transition dynamic state lives in State, not in the Behavior value.
var behaviors = map[petri.TransitionKind]Behavior{
	petri.Immediate:  Immediate{},
	petri.Timed:      Timed{},
	petri.Stochastic: Stochastic{},
	petri.Continuous: Continuous{},
}

// Factory assigns and caches a (Behavior, *State) pair per transition,
// dropping a transition's cached state whenever the net notifies a
// structural change touching it: a kind change, an incident arc being
// added or removed, or the transition itself being removed. Registering a
// Factory as a petri.Observer is how the controller keeps it current
// without polling.
type Factory struct {
	net   *petri.Net
	cache map[*petri.Transition]*State
}

// NewFactory creates a Factory bound to net and subscribes it to the
// net's change notifications.
func NewFactory(net *petri.Net) *Factory {
	f := &Factory{net: net, cache: make(map[*petri.Transition]*State)}
	net.AddObserver(f)
	return f
}

// Get returns the Behavior and State for t, creating a fresh State on
// first use (or after a cache invalidation dropped the previous one).
func (f *Factory) Get(t *petri.Transition) (Behavior, *State) {
	st, ok := f.cache[t]
	if !ok {
		st = &State{}
		f.cache[t] = st
	}
	return behaviors[t.Kind], st
}

// Reset drops every cached state, used when the controller replaces the
// model wholesale or resets the simulation to its initial marking (spec
// §4.E: "reset" is one of the four invalidation triggers).
func (f *Factory) Reset() {
	f.cache = make(map[*petri.Transition]*State)
}

// OnModelChanged implements petri.Observer. Any structural change
// invalidates the cache for that specific object; a kind change
// (Mutated on a *Transition) or an added/removed arc touching a
// transition both drop that transition's State so the next Get starts it
// fresh under its (possibly new) kind.
func (f *Factory) OnModelChanged(c petri.ModelChanged) {
	switch v := c.Object.(type) {
	case *petri.Transition:
		delete(f.cache, v)
	case *petri.Arc:
		delete(f.cache, v.Transition)
	}
}
