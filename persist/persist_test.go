package persist

import (
	"strings"
	"testing"

	"github.com/pflow-xyz/shpn/petri"
)

func sampleNet() *petri.Net {
	bld := petri.Build().
		Place("A", 3).
		Place("B", 0).
		Transition("t1", petri.Immediate)
	bld.Arc("A", "t1", 1).Arc("t1", "B", 1)
	return bld.MustDone()
}

func TestSaveThenLoadRoundTrips(t *testing.T) {
	net := sampleNet()
	net.Places()[0].Tokens = 2

	doc := Save(net, "sample")
	data, err := Marshal(doc)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	loaded, loadedDoc, err := Load(data)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loadedDoc.Metadata.DocumentID == "" {
		t.Error("expected a non-empty document id")
	}
	if len(loaded.Places()) != 2 || len(loaded.Transitions()) != 1 || len(loaded.Arcs()) != 2 {
		t.Fatalf("unexpected net shape: %d places, %d transitions, %d arcs",
			len(loaded.Places()), len(loaded.Transitions()), len(loaded.Arcs()))
	}
	if loaded.Places()[0].Tokens != 2 {
		t.Errorf("expected marking to round-trip, got %f", loaded.Places()[0].Tokens)
	}
	if loaded.Places()[0].Name != "A" || loaded.Places()[1].Name != "B" {
		t.Errorf("expected place order/names to be preserved")
	}
}

func TestLoadRestoresIDCounterAboveMax(t *testing.T) {
	net := sampleNet()
	doc := Save(net, "sample")
	data, _ := Marshal(doc)

	loaded, _, err := Load(data)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	nextID := loaded.NextID()
	newPlace := loaded.CreatePlace("C")
	if petri.PersistID(newPlace) != nextID {
		t.Errorf("expected new place to get id %d, got %d", nextID, petri.PersistID(newPlace))
	}
	for _, p := range loaded.Places() {
		if p == newPlace {
			continue
		}
		if petri.PersistID(p) >= nextID {
			t.Errorf("existing place id %d should be below restored counter %d", petri.PersistID(p), nextID)
		}
	}
}

func TestLoadRejectsUnknownSchema(t *testing.T) {
	_, err := Unmarshal([]byte(`{"schema":"1.0","metadata":{},"places":[],"transitions":[],"arcs":[]}`))
	if err == nil {
		t.Fatal("expected an error for an unsupported schema version")
	}
}

func TestLoadRejectsArcWithUnknownEndpoint(t *testing.T) {
	raw := `{
		"schema": "2.0",
		"metadata": {"document_id": "x"},
		"places": [{"id": 1, "name": "A"}],
		"transitions": [{"id": 2, "name": "t1", "kind": "immediate"}],
		"arcs": [{"id": 3, "place_id": 99, "transition_id": 2, "direction": "p_to_t", "weight": 1, "kind": "normal"}]
	}`
	_, _, err := Load([]byte(raw))
	if err == nil {
		t.Fatal("expected an error for an arc referencing a missing place")
	}
}

func TestNormalizeExtensionLowercasesShy(t *testing.T) {
	cases := map[string]string{
		"model.SHY":  "model.shy",
		"model.Shy":  "model.shy",
		"model.shy":  "model.shy",
		"model":      "model.shy",
		"path/x.SHY": "path/x.shy",
	}
	for in, want := range cases {
		if got := NormalizeExtension(in); got != want {
			t.Errorf("NormalizeExtension(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNormalizeExtensionLeavesOtherExtensionsAlone(t *testing.T) {
	if got := NormalizeExtension("model.json"); got != "model.json" {
		t.Errorf("expected non-.shy extension to be left alone, got %q", got)
	}
}

func TestDocumentIDsAreUUIDShaped(t *testing.T) {
	doc := Save(sampleNet(), "sample")
	if len(doc.Metadata.DocumentID) != 36 || !strings.Contains(doc.Metadata.DocumentID, "-") {
		t.Errorf("expected a UUID-shaped document id, got %q", doc.Metadata.DocumentID)
	}
}
