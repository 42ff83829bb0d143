// Package persist implements the `.shy` JSON persistence schema (spec
// §6): integer ids exist only on the wire, resolved back to object
// references as soon as a document loads, with the net's id counter
// restored to max(id)+1 afterward.
package persist

// SchemaVersion is the only schema version this package reads and
// writes.
const SchemaVersion = "2.0"

// Document is the top-level `.shy` document shape.
type Document struct {
	Schema      string          `json:"schema"`
	Metadata    Metadata        `json:"metadata"`
	Places      []PlaceDoc      `json:"places"`
	Transitions []TransitionDoc `json:"transitions"`
	Arcs        []ArcDoc        `json:"arcs"`
}

// Metadata carries document-level information that is not part of the
// net model itself. DocumentID is a document handle (wired from
// google/uuid, SPEC_FULL §11) distinct from any place/transition/arc
// persistence id: Save mints a fresh one on every save, and Load keeps the
// stored one, minting one only when the document has none.
type Metadata struct {
	DocumentID string `json:"document_id"`
	Name       string `json:"name,omitempty"`
}

// PlaceDoc is the wire representation of a petri.Place.
type PlaceDoc struct {
	ID             uint64         `json:"id"`
	Name           string         `json:"name"`
	Tokens         float64        `json:"tokens"`
	InitialMarking float64        `json:"initial_marking"`
	Capacity       *float64       `json:"capacity,omitempty"`
	IsCatalyst     bool           `json:"is_catalyst,omitempty"`
	Metadata       map[string]any `json:"metadata,omitempty"`
}

// TransitionDoc is the wire representation of a petri.Transition.
type TransitionDoc struct {
	ID       uint64             `json:"id"`
	Name     string             `json:"name"`
	Kind     string             `json:"kind"`
	Priority int                `json:"priority,omitempty"`
	Earliest float64            `json:"earliest,omitempty"`
	Latest   float64            `json:"latest,omitempty"`
	Rate     float64            `json:"rate,omitempty"`
	MaxBurst int                `json:"max_burst,omitempty"`
	RateExpr string             `json:"rate_expr,omitempty"`
	Params   map[string]float64 `json:"params,omitempty"`
	IsSource bool               `json:"is_source,omitempty"`
	IsSink   bool               `json:"is_sink,omitempty"`
	Metadata map[string]any     `json:"metadata,omitempty"`
}

// ArcDoc is the wire representation of a petri.Arc, referencing its
// endpoints by the transient integer ids assigned at creation.
type ArcDoc struct {
	ID           uint64  `json:"id"`
	PlaceID      uint64  `json:"place_id"`
	TransitionID uint64  `json:"transition_id"`
	Direction    string  `json:"direction"`
	Weight       float64 `json:"weight"`
	Kind         string  `json:"kind"`
}
