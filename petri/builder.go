package petri

// Builder provides a fluent API for constructing nets in tests and
// examples. Internally it keeps a name -> object table so callers can
// chain arcs by name, but that table is private to the Builder — the Net
// itself never looks anything up by name (spec §3 identity contract).
//
// Example:
//
//	net := petri.Build().
//	    Place("S", 999).
//	    Place("I", 1).
//	    Place("R", 0).
//	    Transition("infect", petri.Immediate).
//	    Transition("recover", petri.Immediate).
//	    Arc("S", "infect", 1).
//	    Arc("I", "infect", 1).
//	    Arc("infect", "I", 2).
//	    Arc("I", "recover", 1).
//	    Arc("recover", "R", 1).
//	    MustDone()
type Builder struct {
	net         *Net
	places      map[string]*Place
	transitions map[string]*Transition
	err         error
}

// Build creates a new Builder around an empty net.
func Build() *Builder {
	return &Builder{
		net:         NewNet(),
		places:      make(map[string]*Place),
		transitions: make(map[string]*Transition),
	}
}

// Net returns the net under construction without finalizing the builder.
func (b *Builder) Net() *Net { return b.net }

// Place adds a place with the given name and initial token count.
func (b *Builder) Place(name string, initial float64) *Builder {
	p := b.net.CreatePlace(name)
	p.InitialMarking = initial
	p.Tokens = initial
	b.places[name] = p
	return b
}

// PlaceWithCapacity adds a place with an initial marking and a capacity.
func (b *Builder) PlaceWithCapacity(name string, initial, capacity float64) *Builder {
	b.Place(name, initial)
	b.places[name].Capacity = &capacity
	return b
}

// Transition adds a transition of the given kind.
func (b *Builder) Transition(name string, kind TransitionKind) *Builder {
	t := b.net.CreateTransition(name, kind)
	b.transitions[name] = t
	return b
}

// Arc connects a previously-declared place and transition by name; the
// direction is inferred from which side names a place and which names a
// transition. weight must be > 0.
func (b *Builder) Arc(source, target string, weight float64) *Builder {
	return b.arc(source, target, weight, Normal)
}

// InhibitorArc adds an inhibitor arc from a place to a transition.
func (b *Builder) InhibitorArc(source, target string, weight float64) *Builder {
	return b.arc(source, target, weight, Inhibitor)
}

// TestArc adds a test (read) arc from a place to a transition.
func (b *Builder) TestArc(source, target string, weight float64) *Builder {
	return b.arc(source, target, weight, Test)
}

func (b *Builder) arc(source, target string, weight float64, kind ArcKind) *Builder {
	if b.err != nil {
		return b
	}
	if p, ok := b.places[source]; ok {
		t, ok := b.transitions[target]
		if !ok {
			b.err = &InvalidArc{Reason: "unknown transition " + target}
			return b
		}
		if _, err := b.net.CreateArc(p, t, PlaceToTransition, weight, kind); err != nil {
			b.err = err
		}
		return b
	}
	if t, ok := b.transitions[source]; ok {
		p, ok := b.places[target]
		if !ok {
			b.err = &InvalidArc{Reason: "unknown place " + target}
			return b
		}
		if _, err := b.net.CreateArc(p, t, TransitionToPlace, weight, kind); err != nil {
			b.err = err
		}
		return b
	}
	b.err = &InvalidArc{Reason: "unknown source " + source}
	return b
}

// Flow adds a place -> transition -> place pair of normal arcs.
func (b *Builder) Flow(fromPlace, transition, toPlace string, weight float64) *Builder {
	return b.Arc(fromPlace, transition, weight).Arc(transition, toPlace, weight)
}

// PlaceByName returns a place previously declared on this builder, or nil.
func (b *Builder) PlaceByName(name string) *Place { return b.places[name] }

// TransitionByName returns a transition previously declared on this
// builder, or nil.
func (b *Builder) TransitionByName(name string) *Transition { return b.transitions[name] }

// Err returns the first construction error encountered, if any.
func (b *Builder) Err() error { return b.err }

// Done returns the completed net and any construction error encountered.
func (b *Builder) Done() (*Net, error) { return b.net, b.err }

// MustDone is Done but panics on error; convenient in tests and examples
// where a malformed builder chain is a programmer error.
func (b *Builder) MustDone() *Net {
	if b.err != nil {
		panic(b.err)
	}
	return b.net
}
