// Package conflict implements the discrete conflict resolver (spec §4.F):
// given a set of transitions simultaneously enabled this step, pick
// exactly one to fire.
package conflict

import (
	"math/rand"

	"github.com/pflow-xyz/shpn/petri"
)

// Policy selects how Resolver breaks ties among enabled candidates.
type Policy int

const (
	// Random picks uniformly among all candidates.
	Random Policy = iota
	// Priority picks the highest petri.Transition.Priority, breaking
	// remaining ties at random.
	Priority
	// TypeOrder picks the candidate whose Kind ranks highest
	// (Immediate > Timed > Stochastic > Continuous), breaking remaining
	// ties at random.
	TypeOrder
	// RoundRobin picks whichever eligible candidate has gone longest
	// without firing.
	RoundRobin
)

func (p Policy) String() string {
	switch p {
	case Priority:
		return "priority"
	case TypeOrder:
		return "type"
	case RoundRobin:
		return "round_robin"
	default:
		return "random"
	}
}

// ParsePolicy maps a config/CLI string to a Policy. Unknown strings
// (including "") resolve to Random.
func ParsePolicy(s string) Policy {
	switch s {
	case "priority":
		return Priority
	case "type":
		return TypeOrder
	case "round_robin":
		return RoundRobin
	default:
		return Random
	}
}

var typeRank = map[petri.TransitionKind]int{
	petri.Immediate:  0,
	petri.Timed:      1,
	petri.Stochastic: 2,
	petri.Continuous: 3,
}

// Resolver picks one transition to fire from a candidate set each step,
// using the controller's shared PRNG so a run is fully reproducible from
// its seed.
type Resolver struct {
	policy     Policy
	rng        *rand.Rand
	lastFired  map[*petri.Transition]uint64
	generation uint64
}

// New creates a Resolver. rng should be the same PRNG instance the
// controller uses for stochastic sampling (spec §4.G: one seedable PRNG
// shared by both).
func New(policy Policy, rng *rand.Rand) *Resolver {
	return &Resolver{policy: policy, rng: rng, lastFired: make(map[*petri.Transition]uint64)}
}

// Resolve returns exactly one transition from candidates, or nil if
// candidates is empty. It also records the chosen transition's firing
// generation for RoundRobin bookkeeping.
func (r *Resolver) Resolve(candidates []*petri.Transition) *petri.Transition {
	if len(candidates) == 0 {
		return nil
	}
	r.generation++
	var chosen *petri.Transition
	switch r.policy {
	case Priority:
		chosen = r.pickByPriority(candidates)
	case TypeOrder:
		chosen = r.pickByType(candidates)
	case RoundRobin:
		chosen = r.pickRoundRobin(candidates)
	default:
		chosen = candidates[r.rng.Intn(len(candidates))]
	}
	r.lastFired[chosen] = r.generation
	return chosen
}

func (r *Resolver) pickByPriority(candidates []*petri.Transition) *petri.Transition {
	best := candidates[0].Priority
	for _, c := range candidates {
		if c.Priority > best {
			best = c.Priority
		}
	}
	var tied []*petri.Transition
	for _, c := range candidates {
		if c.Priority == best {
			tied = append(tied, c)
		}
	}
	return tied[r.rng.Intn(len(tied))]
}

func (r *Resolver) pickByType(candidates []*petri.Transition) *petri.Transition {
	best := typeRank[candidates[0].Kind]
	for _, c := range candidates {
		if rank := typeRank[c.Kind]; rank < best {
			best = rank
		}
	}
	var tied []*petri.Transition
	for _, c := range candidates {
		if typeRank[c.Kind] == best {
			tied = append(tied, c)
		}
	}
	return tied[r.rng.Intn(len(tied))]
}

func (r *Resolver) pickRoundRobin(candidates []*petri.Transition) *petri.Transition {
	best := candidates[0]
	bestGen, ok := r.lastFired[best]
	if !ok {
		bestGen = 0
	}
	for _, c := range candidates[1:] {
		gen, ok := r.lastFired[c]
		if !ok {
			gen = 0
		}
		if gen < bestGen {
			best, bestGen = c, gen
		}
	}
	return best
}
