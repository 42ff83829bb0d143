package persist

import (
	"encoding/json"
	"os"

	"github.com/google/uuid"

	"github.com/pflow-xyz/shpn/petri"
)

// Save builds a Document snapshotting net's current structure and
// marking. A fresh DocumentID is minted for every save.
func Save(net *petri.Net, name string) *Document {
	doc := &Document{
		Schema:   SchemaVersion,
		Metadata: Metadata{DocumentID: uuid.NewString(), Name: name},
	}
	for _, p := range net.Places() {
		pd := PlaceDoc{
			ID:             petri.PersistID(p),
			Name:           p.Name,
			Tokens:         p.Tokens,
			InitialMarking: p.InitialMarking,
			IsCatalyst:     p.IsCatalyst,
			Metadata:       p.Metadata,
		}
		if p.Capacity != nil {
			cap := *p.Capacity
			pd.Capacity = &cap
		}
		doc.Places = append(doc.Places, pd)
	}
	for _, t := range net.Transitions() {
		doc.Transitions = append(doc.Transitions, TransitionDoc{
			ID:       petri.PersistID(t),
			Name:     t.Name,
			Kind:     t.Kind.String(),
			Priority: t.Priority,
			Earliest: t.Earliest,
			Latest:   t.Latest,
			Rate:     t.Rate,
			MaxBurst: t.MaxBurst,
			RateExpr: t.RateExpr,
			Params:   t.Params,
			IsSource: t.IsSource,
			IsSink:   t.IsSink,
			Metadata: t.Metadata,
		})
	}
	for _, a := range net.Arcs() {
		doc.Arcs = append(doc.Arcs, ArcDoc{
			ID:           petri.PersistID(a),
			PlaceID:      petri.PersistID(a.Place),
			TransitionID: petri.PersistID(a.Transition),
			Direction:    directionToString(a.Direction),
			Weight:       a.Weight,
			Kind:         arcKindToString(a.Kind),
		})
	}
	return doc
}

// Marshal renders doc as indented JSON.
func Marshal(doc *Document) ([]byte, error) {
	return json.MarshalIndent(doc, "", "  ")
}

// SaveFile saves net to path, normalizing the extension to ".shy"
// regardless of the case the caller passed in.
func SaveFile(path string, net *petri.Net, name string) error {
	data, err := Marshal(Save(net, name))
	if err != nil {
		return err
	}
	return os.WriteFile(NormalizeExtension(path), data, 0o644)
}

func directionToString(d petri.ArcDirection) string {
	if d == petri.TransitionToPlace {
		return "t_to_p"
	}
	return "p_to_t"
}

func arcKindToString(k petri.ArcKind) string {
	switch k {
	case petri.Inhibitor:
		return "inhibitor"
	case petri.Test:
		return "test"
	default:
		return "normal"
	}
}
