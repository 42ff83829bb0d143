// Package locality implements the locality detector (spec §4.J):
// classifying transitions by their input/output place neighborhoods (•t
// and t•) without needing a general graph library — the classification
// is a direct membership check over petri.Net's own arc accessors.
package locality

import "github.com/pflow-xyz/shpn/petri"

// Classification is the four-way locality a transition falls into.
type Classification int

const (
	// Normal transitions have both input and output places.
	Normal Classification = iota
	// InputOnly transitions only consume (a sink).
	InputOnly
	// OutputOnly transitions only produce (a source).
	OutputOnly
	// Isolated transitions touch no places at all.
	Isolated
)

func (c Classification) String() string {
	switch c {
	case InputOnly:
		return "input-only"
	case OutputOnly:
		return "output-only"
	case Isolated:
		return "isolated"
	default:
		return "normal"
	}
}

// Of classifies t by whether it has input arcs (•t), output arcs (t•),
// both, or neither.
func Of(net *petri.Net, t *petri.Transition) Classification {
	hasInput := len(net.InputArcs(t)) > 0
	hasOutput := len(net.OutputArcs(t)) > 0
	switch {
	case hasInput && hasOutput:
		return Normal
	case hasInput:
		return InputOnly
	case hasOutput:
		return OutputOnly
	default:
		return Isolated
	}
}

// SharedOutputPlaces returns the places both t1 and t2 produce into
// (t1• ∩ t2•), the classic "competing producers" neighborhood used to
// spot transitions that may race to satisfy the same downstream demand.
func SharedOutputPlaces(net *petri.Net, t1, t2 *petri.Transition) []*petri.Place {
	outputs1 := make(map[*petri.Place]bool)
	for _, a := range net.OutputArcs(t1) {
		outputs1[a.Place] = true
	}
	var shared []*petri.Place
	seen := make(map[*petri.Place]bool)
	for _, a := range net.OutputArcs(t2) {
		if outputs1[a.Place] && !seen[a.Place] {
			shared = append(shared, a.Place)
			seen[a.Place] = true
		}
	}
	return shared
}

// IsValid reports whether every arc incident to t is well-formed: it
// belongs to net, connects exactly one place and one transition, carries
// a positive weight, and — for inhibitor/test arcs — runs place-to-
// transition. This is ValidateBipartite scoped to a single transition's
// neighborhood.
func IsValid(net *petri.Net, t *petri.Transition) bool {
	incident := append(append([]*petri.Arc{}, net.InputArcs(t)...), net.OutputArcs(t)...)
	violations := petri.ValidateBipartite(net)
	if len(violations) == 0 {
		return true
	}
	bad := make(map[*petri.Arc]bool, len(violations))
	for _, v := range violations {
		bad[v.Arc] = true
	}
	for _, a := range incident {
		if bad[a] {
			return false
		}
	}
	return true
}
