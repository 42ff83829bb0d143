// Package petri implements the structural layer of a hybrid Petri-net
// simulation engine: places, transitions, arcs, the mutation API that
// editors and importers drive, and the incidence-matrix representation
// derived from that structure.
//
// Identity is by object reference. Places, transitions and arcs are never
// looked up by name or numeric id at runtime; integer ids exist only to
// make `.shy` persistence possible. Each object keeps its id in a private
// field after a load resolves references back to pointers: Save writes it
// out again and the matrix manager's structural hash reads it, but no
// lookup goes through it.
package petri

import "fmt"

// ArcDirection is the direction an Arc connects its place and transition.
type ArcDirection int

const (
	// PlaceToTransition is an input arc: tokens flow from the place into
	// the transition's enablement check and, on firing, are consumed.
	PlaceToTransition ArcDirection = iota
	// TransitionToPlace is an output arc: tokens are produced into the
	// place when the transition fires.
	TransitionToPlace
)

func (d ArcDirection) String() string {
	if d == PlaceToTransition {
		return "P->T"
	}
	return "T->P"
}

// ArcKind distinguishes normal, inhibitor and test arcs (spec §3).
type ArcKind int

const (
	// Normal arcs consume (P->T) or produce (T->P) tokens on firing.
	Normal ArcKind = iota
	// Inhibitor arcs (always P->T) reverse enablement: the transition is
	// enabled only while the source place holds fewer tokens than the
	// arc's weight. Inhibitor arcs never consume tokens.
	Inhibitor
	// Test arcs (always P->T) gate enablement like a Normal arc but do
	// not consume tokens on firing; they contribute to F- only, never to
	// C = F+ - F-.
	Test
)

func (k ArcKind) String() string {
	switch k {
	case Inhibitor:
		return "inhibitor"
	case Test:
		return "test"
	default:
		return "normal"
	}
}

// Place holds tokens. Identity is the pointer; Name is a display label and
// is not used for lookup.
type Place struct {
	Name           string
	Tokens         float64
	InitialMarking float64
	Capacity       *float64 // nil = unlimited
	IsCatalyst     bool
	Metadata       map[string]any

	persistID uint64
}

// Transition is an event. Kind selects which of the four firing semantics
// governs it; the fields below the Kind line are the "properties bag" of
// spec §3, populated according to Kind and otherwise left at zero value.
type Transition struct {
	Name string
	Kind TransitionKind

	// Immediate
	Priority int

	// Timed (Merlin-Farber window [Earliest, Latest])
	Earliest float64
	Latest   float64

	// Stochastic (exponential interarrival with integer burst)
	Rate     float64
	MaxBurst int

	// Continuous (SHPN rate function, compiled by the rateexpr package)
	RateExpr string
	Params   map[string]float64

	IsSource bool
	IsSink   bool
	Metadata map[string]any

	persistID uint64
}

// TransitionKind is the sum-type discriminant for transition behavior.
type TransitionKind int

const (
	Immediate TransitionKind = iota
	Timed
	Stochastic
	Continuous
)

func (k TransitionKind) String() string {
	switch k {
	case Immediate:
		return "immediate"
	case Timed:
		return "timed"
	case Stochastic:
		return "stochastic"
	case Continuous:
		return "continuous"
	default:
		return "unknown"
	}
}

// Arc connects exactly one Place and one Transition by reference.
type Arc struct {
	Place      *Place
	Transition *Transition
	Direction  ArcDirection
	Weight     float64
	Kind       ArcKind

	persistID uint64
}

// ChangeKind classifies a ModelChanged notification.
type ChangeKind int

const (
	Added ChangeKind = iota
	Removed
	Mutated
)

func (k ChangeKind) String() string {
	switch k {
	case Added:
		return "added"
	case Removed:
		return "removed"
	default:
		return "mutated"
	}
}

// ModelChanged is emitted to observers by the net's mutation API
// (CreatePlace, CreateTransition, CreateArc, Remove, SetKind, SetMarking).
// Token changes made by firing or by ResetToInitial emit nothing.
type ModelChanged struct {
	Kind   ChangeKind
	Object any // *Place, *Transition, or *Arc
}

// Observer receives ModelChanged notifications. The matrix manager and the
// behavior cache are the two canonical observers (spec §4.C, §4.E).
type Observer interface {
	OnModelChanged(ModelChanged)
}

// ObserverFunc adapts a plain function to the Observer interface.
type ObserverFunc func(ModelChanged)

func (f ObserverFunc) OnModelChanged(c ModelChanged) { f(c) }

// InvalidArc is returned when an arc would violate the bipartite
// invariant, have a non-positive weight, or lack an endpoint.
type InvalidArc struct {
	Reason string
}

func (e *InvalidArc) Error() string { return "petri: invalid arc: " + e.Reason }

// Net owns places, transitions and arcs by reference. Collections are
// ordered slices (not maps) so that incidence-matrix column/row orderings
// are stable without a secondary index.
type Net struct {
	places      []*Place
	transitions []*Transition
	arcs        []*Arc
	observers   []Observer
	nextID      uint64
}

// NewNet creates an empty net.
func NewNet() *Net {
	return &Net{nextID: 1}
}

// Places returns the net's places in creation order. The returned slice is
// owned by the net; callers must not mutate it.
func (n *Net) Places() []*Place { return n.places }

// Transitions returns the net's transitions in creation order.
func (n *Net) Transitions() []*Transition { return n.transitions }

// Arcs returns the net's arcs in creation order.
func (n *Net) Arcs() []*Arc { return n.arcs }

// AddObserver registers an observer for ModelChanged notifications.
func (n *Net) AddObserver(o Observer) { n.observers = append(n.observers, o) }

func (n *Net) notify(c ModelChanged) {
	for _, o := range n.observers {
		o.OnModelChanged(c)
	}
}

func (n *Net) allocID() uint64 {
	id := n.nextID
	n.nextID++
	return id
}

// CreatePlace adds a new place with zero initial marking.
func (n *Net) CreatePlace(name string) *Place {
	p := &Place{Name: name, persistID: n.allocID()}
	n.places = append(n.places, p)
	n.notify(ModelChanged{Kind: Added, Object: p})
	return p
}

// CreateTransition adds a new transition of the given kind.
func (n *Net) CreateTransition(name string, kind TransitionKind) *Transition {
	t := &Transition{Name: name, Kind: kind, persistID: n.allocID()}
	n.transitions = append(n.transitions, t)
	n.notify(ModelChanged{Kind: Added, Object: t})
	return t
}

// CreateArc connects a place and a transition. direction must be
// PlaceToTransition or TransitionToPlace; weight must be > 0. Returns
// InvalidArc if place or transition is nil, doesn't belong to this net, or
// weight <= 0.
func (n *Net) CreateArc(place *Place, transition *Transition, direction ArcDirection, weight float64, kind ArcKind) (*Arc, error) {
	if place == nil || transition == nil {
		return nil, &InvalidArc{Reason: "arc must reference exactly one place and one transition"}
	}
	if weight <= 0 {
		return nil, &InvalidArc{Reason: "weight must be > 0"}
	}
	if kind == Inhibitor || kind == Test {
		if direction != PlaceToTransition {
			return nil, &InvalidArc{Reason: fmt.Sprintf("%s arcs must be place->transition", kind)}
		}
	}
	if !n.hasPlace(place) || !n.hasTransition(transition) {
		return nil, &InvalidArc{Reason: "endpoint does not belong to this net"}
	}
	a := &Arc{Place: place, Transition: transition, Direction: direction, Weight: weight, Kind: kind, persistID: n.allocID()}
	n.arcs = append(n.arcs, a)
	n.notify(ModelChanged{Kind: Added, Object: a})
	return a, nil
}

func (n *Net) hasPlace(p *Place) bool {
	for _, x := range n.places {
		if x == p {
			return true
		}
	}
	return false
}

func (n *Net) hasTransition(t *Transition) bool {
	for _, x := range n.transitions {
		if x == t {
			return true
		}
	}
	return false
}

// Remove deletes a place, transition or arc by reference. Removing a place
// or transition cascades: every incident arc is removed first, each with
// its own Removed notification, followed by one for the object itself.
func (n *Net) Remove(object any) error {
	switch v := object.(type) {
	case *Place:
		return n.removePlace(v)
	case *Transition:
		return n.removeTransition(v)
	case *Arc:
		return n.removeArc(v)
	default:
		return fmt.Errorf("petri: Remove: unsupported type %T", object)
	}
}

func (n *Net) removePlace(p *Place) error {
	idx := -1
	for i, x := range n.places {
		if x == p {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("petri: place not found in net")
	}
	for _, a := range n.incidentArcs(p, nil) {
		_ = n.removeArc(a)
	}
	n.places = append(n.places[:idx], n.places[idx+1:]...)
	n.notify(ModelChanged{Kind: Removed, Object: p})
	return nil
}

func (n *Net) removeTransition(t *Transition) error {
	idx := -1
	for i, x := range n.transitions {
		if x == t {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("petri: transition not found in net")
	}
	for _, a := range n.incidentArcs(nil, t) {
		_ = n.removeArc(a)
	}
	n.transitions = append(n.transitions[:idx], n.transitions[idx+1:]...)
	n.notify(ModelChanged{Kind: Removed, Object: t})
	return nil
}

func (n *Net) removeArc(a *Arc) error {
	idx := -1
	for i, x := range n.arcs {
		if x == a {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("petri: arc not found in net")
	}
	n.arcs = append(n.arcs[:idx], n.arcs[idx+1:]...)
	n.notify(ModelChanged{Kind: Removed, Object: a})
	return nil
}

// incidentArcs returns arcs touching place and/or transition (either may
// be nil to mean "any").
func (n *Net) incidentArcs(place *Place, transition *Transition) []*Arc {
	var out []*Arc
	for _, a := range n.arcs {
		if place != nil && a.Place != place {
			continue
		}
		if transition != nil && a.Transition != transition {
			continue
		}
		out = append(out, a)
	}
	return out
}

// InputArcs returns arcs feeding into transition (PlaceToTransition).
func (n *Net) InputArcs(t *Transition) []*Arc {
	var out []*Arc
	for _, a := range n.arcs {
		if a.Transition == t && a.Direction == PlaceToTransition {
			out = append(out, a)
		}
	}
	return out
}

// OutputArcs returns arcs produced by transition (TransitionToPlace).
func (n *Net) OutputArcs(t *Transition) []*Arc {
	var out []*Arc
	for _, a := range n.arcs {
		if a.Transition == t && a.Direction == TransitionToPlace {
			out = append(out, a)
		}
	}
	return out
}

// SetKind changes a transition's kind, invalidating any cached behavior
// (the behavior cache observes ModelChanged and drops the entry).
func (n *Net) SetKind(t *Transition, kind TransitionKind) {
	t.Kind = kind
	n.notify(ModelChanged{Kind: Mutated, Object: t})
}

// SetMarking sets a place's current token count directly (bypassing
// firing semantics), for use by editors.
func (n *Net) SetMarking(p *Place, tokens float64) {
	p.Tokens = tokens
	n.notify(ModelChanged{Kind: Mutated, Object: p})
}

// ResetToInitial restores every place's Tokens to its InitialMarking.
func (n *Net) ResetToInitial() {
	for _, p := range n.places {
		p.Tokens = p.InitialMarking
	}
}

// PersistID returns the transient integer id assigned at creation, for use
// only by the persist package.
func PersistID(object any) uint64 {
	switch v := object.(type) {
	case *Place:
		return v.persistID
	case *Transition:
		return v.persistID
	case *Arc:
		return v.persistID
	default:
		return 0
	}
}

// SetPersistID assigns a persistence id, used only while resolving a
// loaded document back to object references.
func SetPersistID(object any, id uint64) {
	switch v := object.(type) {
	case *Place:
		v.persistID = id
	case *Transition:
		v.persistID = id
	case *Arc:
		v.persistID = id
	}
}

// NextID reports the id the next Create* call would assign.
func (n *Net) NextID() uint64 { return n.nextID }

// RestoreIDCounter sets the id counter to max+1, called after a load
// resolves every id back to an object reference (spec §3, §6).
func (n *Net) RestoreIDCounter(max uint64) { n.nextID = max + 1 }
