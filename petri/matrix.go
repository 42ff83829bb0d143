package petri

import "fmt"

// ErrNotEnabled is returned by Fire when the caller did not check IsEnabled
// first; the controller treats this as an internal invariant violation
// (spec §4.G "Failure semantics").
var ErrNotEnabled = fmt.Errorf("petri: transition not enabled")

// inhibitorEdge is kept outside F-/F+/C per spec §3: inhibitor arcs never
// contribute to the state equation, only to enablement.
type inhibitorEdge struct {
	place  int
	weight float64
}

// sparseDensityThreshold and sparseSizeThreshold implement the
// representation decision of spec §3: sparse below 5% density or above
// 10,000 place*transition cells, dense otherwise.
const (
	sparseDensityThreshold = 0.05
	sparseSizeThreshold    = 10000
)

// Matrix is the incidence-matrix representation B of spec §4.B: F-, F+,
// C = F+ - F-, plus the inhibitor list and stable place/transition
// orderings. It is built once from a petri.Net and is immutable until
// rebuilt.
type Matrix struct {
	places      []*Place
	transitions []*Transition
	placeIndex  map[*Place]int
	transIndex  map[*Transition]int

	dense bool

	// dense representation
	fMinusDense [][]float64
	fPlusDense  [][]float64
	cDense      [][]float64

	// sparse representation: keyed by [place, transition]
	fMinusSparse map[[2]int]float64
	fPlusSparse  map[[2]int]float64
	cSparse      map[[2]int]float64

	// inhibitors[j] lists the inhibitor edges gating transition j.
	inhibitors [][]inhibitorEdge

	// columnNonzero[j] lists the place rows with a nonzero F- entry for
	// transition j, precomputed for O(1)-amortized enablement checks.
	columnNonzero [][]int
}

// BuildMatrix computes F-, F+, C, the inhibitor list and the
// place/transition orderings from the net's current structure. It is
// idempotent: calling it again on an unchanged net produces an equal
// matrix (spec §8).
func BuildMatrix(n *Net) *Matrix {
	places := n.Places()
	transitions := n.Transitions()

	m := &Matrix{
		places:      append([]*Place(nil), places...),
		transitions: append([]*Transition(nil), transitions...),
		placeIndex:  make(map[*Place]int, len(places)),
		transIndex:  make(map[*Transition]int, len(transitions)),
	}
	for i, p := range m.places {
		m.placeIndex[p] = i
	}
	for j, t := range m.transitions {
		m.transIndex[t] = j
	}

	cells := len(places) * len(transitions)
	nonzero := 0
	for _, a := range n.Arcs() {
		if a.Kind != Inhibitor {
			nonzero++
		}
	}
	density := 0.0
	if cells > 0 {
		density = float64(nonzero) / float64(cells)
	}
	m.dense = cells > 0 && cells <= sparseSizeThreshold && density >= sparseDensityThreshold

	if m.dense {
		m.fMinusDense = make([][]float64, len(places))
		m.fPlusDense = make([][]float64, len(places))
		m.cDense = make([][]float64, len(places))
		for i := range places {
			m.fMinusDense[i] = make([]float64, len(transitions))
			m.fPlusDense[i] = make([]float64, len(transitions))
			m.cDense[i] = make([]float64, len(transitions))
		}
	} else {
		m.fMinusSparse = make(map[[2]int]float64)
		m.fPlusSparse = make(map[[2]int]float64)
		m.cSparse = make(map[[2]int]float64)
	}

	m.inhibitors = make([][]inhibitorEdge, len(transitions))
	m.columnNonzero = make([][]int, len(transitions))

	for _, a := range n.Arcs() {
		i, iok := m.placeIndex[a.Place]
		j, jok := m.transIndex[a.Transition]
		if !iok || !jok {
			continue
		}
		switch a.Kind {
		case Inhibitor:
			m.inhibitors[j] = append(m.inhibitors[j], inhibitorEdge{place: i, weight: a.Weight})
			continue
		case Test:
			// Test arcs gate enablement (F-) but never affect C.
			m.addFMinus(i, j, a.Weight)
		case Normal:
			switch a.Direction {
			case PlaceToTransition:
				m.addFMinus(i, j, a.Weight)
				m.addC(i, j, -a.Weight)
			case TransitionToPlace:
				m.addFPlus(i, j, a.Weight)
				m.addC(i, j, a.Weight)
			}
		}
	}

	for j := range transitions {
		m.columnNonzero[j] = m.nonzeroRowsForColumn(j)
	}

	return m
}

func (m *Matrix) addFMinus(i, j int, w float64) {
	if m.dense {
		m.fMinusDense[i][j] += w
	} else {
		m.fMinusSparse[[2]int{i, j}] += w
	}
}

func (m *Matrix) addFPlus(i, j int, w float64) {
	if m.dense {
		m.fPlusDense[i][j] += w
	} else {
		m.fPlusSparse[[2]int{i, j}] += w
	}
}

func (m *Matrix) addC(i, j int, w float64) {
	if m.dense {
		m.cDense[i][j] += w
	} else {
		m.cSparse[[2]int{i, j}] += w
	}
}

func (m *Matrix) fMinus(i, j int) float64 {
	if m.dense {
		return m.fMinusDense[i][j]
	}
	return m.fMinusSparse[[2]int{i, j}]
}

func (m *Matrix) fPlus(i, j int) float64 {
	if m.dense {
		return m.fPlusDense[i][j]
	}
	return m.fPlusSparse[[2]int{i, j}]
}

func (m *Matrix) c(i, j int) float64 {
	if m.dense {
		return m.cDense[i][j]
	}
	return m.cSparse[[2]int{i, j}]
}

func (m *Matrix) nonzeroRowsForColumn(j int) []int {
	var rows []int
	if m.dense {
		for i := range m.places {
			if m.fMinusDense[i][j] != 0 {
				rows = append(rows, i)
			}
		}
		return rows
	}
	for i := range m.places {
		if v, ok := m.fMinusSparse[[2]int{i, j}]; ok && v != 0 {
			rows = append(rows, i)
		}
	}
	return rows
}

// IsDense reports which representation Build chose.
func (m *Matrix) IsDense() bool { return m.dense }

// Places returns the matrix's place ordering.
func (m *Matrix) Places() []*Place { return m.places }

// Transitions returns the matrix's transition ordering.
func (m *Matrix) Transitions() []*Transition { return m.transitions }

// ColumnWeight returns C[place, transition] — the net flow a single firing
// of transition applies to place. Used by behavior.Continuous for RK4
// ΔM(k) = k * C_column(t).
func (m *Matrix) ColumnWeight(p *Place, t *Transition) float64 {
	i, iok := m.placeIndex[p]
	j, jok := m.transIndex[t]
	if !iok || !jok {
		return 0
	}
	return m.c(i, j)
}

// InputWeight returns F-[place, transition] (zero weight if no such arc).
func (m *Matrix) InputWeight(p *Place, t *Transition) float64 {
	i, iok := m.placeIndex[p]
	j, jok := m.transIndex[t]
	if !iok || !jok {
		return 0
	}
	return m.fMinus(i, j)
}

// OutputWeight returns F+[place, transition].
func (m *Matrix) OutputWeight(p *Place, t *Transition) float64 {
	i, iok := m.placeIndex[p]
	j, jok := m.transIndex[t]
	if !iok || !jok {
		return 0
	}
	return m.fPlus(i, j)
}

// IsEnabled reports whether t is structurally enabled: every normal/test
// input arc's weight is covered by the place's current tokens, and every
// inhibitor arc into t is satisfied (source tokens < weight).
func (m *Matrix) IsEnabled(t *Transition) bool {
	j, ok := m.transIndex[t]
	if !ok {
		return false
	}
	for _, i := range m.columnNonzero[j] {
		if m.places[i].Tokens < m.fMinus(i, j) {
			return false
		}
	}
	for _, e := range m.inhibitors[j] {
		if m.places[e.place].Tokens >= e.weight {
			return false
		}
	}
	return true
}

// Fire applies C[:,t] to the marking: M'[i] = M[i] + C[i,t]. Test arcs
// contribute zero to C so they never consume tokens. Returns ErrNotEnabled
// if t is not structurally enabled — callers (behaviors) must check
// IsEnabled first; this is a last-resort invariant guard, not the normal
// enablement path.
func (m *Matrix) Fire(t *Transition) error {
	if !m.IsEnabled(t) {
		return ErrNotEnabled
	}
	j, ok := m.transIndex[t]
	if !ok {
		return fmt.Errorf("petri: transition not in matrix")
	}
	for i, p := range m.places {
		delta := m.c(i, j)
		if delta != 0 {
			p.Tokens += delta
		}
	}
	return nil
}

// EnabledSet returns every transition currently structurally enabled.
func (m *Matrix) EnabledSet() []*Transition {
	var out []*Transition
	for _, t := range m.transitions {
		if m.IsEnabled(t) {
			out = append(out, t)
		}
	}
	return out
}

// Violation describes one bipartite-invariant failure found by
// ValidateBipartite.
type Violation struct {
	Arc    *Arc
	Reason string
}

// ValidateBipartite checks every arc in the net connects exactly one place
// and one transition with a positive weight. Arcs are constructed through
// CreateArc which already enforces this, so violations here indicate the
// net was built or mutated through means that bypassed the API (e.g. a
// malformed load).
func ValidateBipartite(n *Net) []Violation {
	var violations []Violation
	for _, a := range n.Arcs() {
		if a.Place == nil || a.Transition == nil {
			violations = append(violations, Violation{Arc: a, Reason: "arc missing an endpoint"})
			continue
		}
		if a.Weight <= 0 {
			violations = append(violations, Violation{Arc: a, Reason: "arc weight must be > 0"})
		}
		if (a.Kind == Inhibitor || a.Kind == Test) && a.Direction != PlaceToTransition {
			violations = append(violations, Violation{Arc: a, Reason: fmt.Sprintf("%s arc must be place->transition", a.Kind)})
		}
	}
	return violations
}
