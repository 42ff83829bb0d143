package persist

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"

	"github.com/pflow-xyz/shpn/petri"
)

// ErrUnsupportedSchema is returned by Load when the document's schema
// field isn't SchemaVersion.
var ErrUnsupportedSchema = fmt.Errorf("persist: unsupported schema version")

// Unmarshal parses raw `.shy` JSON into a Document without building a net.
func Unmarshal(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("persist: decode: %w", err)
	}
	if doc.Schema != SchemaVersion {
		return nil, fmt.Errorf("%w: got %q, want %q", ErrUnsupportedSchema, doc.Schema, SchemaVersion)
	}
	return &doc, nil
}

// Load parses data and rebuilds a *petri.Net from it, resolving every
// place_id/transition_id reference back to an object pointer and
// restoring the net's id counter to max(id)+1 (spec §3, §6). If the
// document has no DocumentID, one is minted.
func Load(data []byte) (*petri.Net, *Document, error) {
	doc, err := Unmarshal(data)
	if err != nil {
		return nil, nil, err
	}
	if doc.Metadata.DocumentID == "" {
		doc.Metadata.DocumentID = uuid.NewString()
	}

	net := petri.NewNet()
	var maxID uint64

	placesByID := make(map[uint64]*petri.Place, len(doc.Places))
	for _, pd := range doc.Places {
		p := net.CreatePlace(pd.Name)
		p.Tokens = pd.Tokens
		p.InitialMarking = pd.InitialMarking
		p.IsCatalyst = pd.IsCatalyst
		p.Metadata = pd.Metadata
		if pd.Capacity != nil {
			cap := *pd.Capacity
			p.Capacity = &cap
		}
		petri.SetPersistID(p, pd.ID)
		placesByID[pd.ID] = p
		if pd.ID > maxID {
			maxID = pd.ID
		}
	}

	transitionsByID := make(map[uint64]*petri.Transition, len(doc.Transitions))
	for _, td := range doc.Transitions {
		kind, err := stringToKind(td.Kind)
		if err != nil {
			return nil, nil, err
		}
		t := net.CreateTransition(td.Name, kind)
		t.Priority = td.Priority
		t.Earliest = td.Earliest
		t.Latest = td.Latest
		t.Rate = td.Rate
		t.MaxBurst = td.MaxBurst
		t.RateExpr = td.RateExpr
		t.Params = td.Params
		t.IsSource = td.IsSource
		t.IsSink = td.IsSink
		t.Metadata = td.Metadata
		petri.SetPersistID(t, td.ID)
		transitionsByID[td.ID] = t
		if td.ID > maxID {
			maxID = td.ID
		}
	}

	for _, ad := range doc.Arcs {
		place, ok := placesByID[ad.PlaceID]
		if !ok {
			return nil, nil, fmt.Errorf("persist: arc %d references unknown place %d", ad.ID, ad.PlaceID)
		}
		transition, ok := transitionsByID[ad.TransitionID]
		if !ok {
			return nil, nil, fmt.Errorf("persist: arc %d references unknown transition %d", ad.ID, ad.TransitionID)
		}
		direction, err := stringToDirection(ad.Direction)
		if err != nil {
			return nil, nil, err
		}
		kind, err := stringToArcKind(ad.Kind)
		if err != nil {
			return nil, nil, err
		}
		a, err := net.CreateArc(place, transition, direction, ad.Weight, kind)
		if err != nil {
			return nil, nil, fmt.Errorf("persist: arc %d: %w", ad.ID, err)
		}
		petri.SetPersistID(a, ad.ID)
		if ad.ID > maxID {
			maxID = ad.ID
		}
	}

	net.RestoreIDCounter(maxID)
	return net, doc, nil
}

// LoadFile reads and loads a `.shy` document from path.
func LoadFile(path string) (*petri.Net, *Document, error) {
	data, err := os.ReadFile(NormalizeExtension(path))
	if err != nil {
		return nil, nil, fmt.Errorf("persist: read %s: %w", path, err)
	}
	return Load(data)
}

func stringToKind(s string) (petri.TransitionKind, error) {
	switch s {
	case "immediate", "":
		return petri.Immediate, nil
	case "timed":
		return petri.Timed, nil
	case "stochastic":
		return petri.Stochastic, nil
	case "continuous":
		return petri.Continuous, nil
	default:
		return 0, fmt.Errorf("persist: unknown transition kind %q", s)
	}
}

func stringToDirection(s string) (petri.ArcDirection, error) {
	switch s {
	case "p_to_t":
		return petri.PlaceToTransition, nil
	case "t_to_p":
		return petri.TransitionToPlace, nil
	default:
		return 0, fmt.Errorf("persist: unknown arc direction %q", s)
	}
}

func stringToArcKind(s string) (petri.ArcKind, error) {
	switch s {
	case "normal", "":
		return petri.Normal, nil
	case "inhibitor":
		return petri.Inhibitor, nil
	case "test":
		return petri.Test, nil
	default:
		return 0, fmt.Errorf("persist: unknown arc kind %q", s)
	}
}
