package petri

import (
	"fmt"
	"hash/fnv"
)

// Manager holds a reference to a Net and a lazily-rebuilt Matrix, the same
// hash-then-rebuild pattern the teacher's data collectors use to avoid
// recomputing derived state on every query.
type Manager struct {
	net         *Net
	matrix      *Matrix
	lastHash    uint64
	autoRebuild bool
	dirty       bool
}

// NewManager creates a manager for net and builds its first matrix.
func NewManager(net *Net) *Manager {
	mgr := &Manager{net: net, autoRebuild: true}
	net.AddObserver(mgr)
	mgr.rebuild()
	return mgr
}

// SetAutoRebuild toggles whether queries trigger an automatic rebuild on
// detected structural change (spec §4.C "auto_rebuild = false mode").
func (mgr *Manager) SetAutoRebuild(auto bool) { mgr.autoRebuild = auto }

// Invalidate marks the manager dirty, so the next query (with auto-rebuild
// on) re-hashes the net and rebuilds if the structural hash changed.
func (mgr *Manager) Invalidate() { mgr.dirty = true }

// OnModelChanged implements petri.Observer; any structural change marks
// the manager dirty. The hash recheck happens lazily on the next query,
// not here, so a burst of mutations costs one rebuild, not one per event.
func (mgr *Manager) OnModelChanged(ModelChanged) { mgr.dirty = true }

// Matrix returns the current incidence matrix. When the manager is dirty
// and auto-rebuild is on, it re-hashes the net first and rebuilds only if
// the structural hash changed since the last build.
func (mgr *Manager) Matrix() *Matrix {
	if mgr.dirty && mgr.autoRebuild {
		mgr.rebuildIfChanged()
	}
	return mgr.matrix
}

func (mgr *Manager) rebuildIfChanged() {
	h := structuralHash(mgr.net)
	if mgr.matrix == nil || h != mgr.lastHash {
		mgr.rebuild()
	} else {
		mgr.dirty = false
	}
}

func (mgr *Manager) rebuild() {
	mgr.matrix = BuildMatrix(mgr.net)
	mgr.lastHash = structuralHash(mgr.net)
	mgr.dirty = false
}

// structuralHash is a stable hash over (place ids & order, transition ids
// & order, arc tuples), per spec §4.C. It deliberately excludes token
// counts: marking changes do not require a matrix rebuild.
func structuralHash(n *Net) uint64 {
	h := fnv.New64a()
	write := func(s string) { _, _ = h.Write([]byte(s)) }

	for _, p := range n.Places() {
		write(fmt.Sprintf("P%d;", PersistID(p)))
	}
	for _, t := range n.Transitions() {
		write(fmt.Sprintf("T%d:%d;", PersistID(t), t.Kind))
	}
	for _, a := range n.Arcs() {
		write(fmt.Sprintf("A%d>%d:%d:%g;", PersistID(a.Place), PersistID(a.Transition), a.Kind, a.Weight))
	}
	return h.Sum64()
}

// GetMarkingFromModel returns the current token vector indexed by the
// matrix's place ordering.
func (mgr *Manager) GetMarkingFromModel() []float64 {
	m := mgr.Matrix()
	out := make([]float64, len(m.places))
	for i, p := range m.places {
		out[i] = p.Tokens
	}
	return out
}

// ApplyMarkingToModel writes a token vector (indexed by the matrix's place
// ordering) back onto the model's places.
func (mgr *Manager) ApplyMarkingToModel(v []float64) {
	m := mgr.Matrix()
	for i, p := range m.places {
		if i < len(v) {
			p.Tokens = v[i]
		}
	}
}

// IsEnabled delegates to the current matrix.
func (mgr *Manager) IsEnabled(t *Transition) bool { return mgr.Matrix().IsEnabled(t) }

// Fire delegates to the current matrix. This is structural-only: it does
// not advance time, notify a data collector, or check timing — that is the
// sim package's job (spec §4.C).
func (mgr *Manager) Fire(t *Transition) error { return mgr.Matrix().Fire(t) }
