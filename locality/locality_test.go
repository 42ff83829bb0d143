package locality

import "testing"
import "github.com/pflow-xyz/shpn/petri"

func TestOfNormal(t *testing.T) {
	bld := petri.Build().
		Place("A", 1).
		Place("B", 0).
		Transition("t1", petri.Immediate)
	bld.Arc("A", "t1", 1).Arc("t1", "B", 1)
	net := bld.MustDone()

	if got := Of(net, bld.TransitionByName("t1")); got != Normal {
		t.Errorf("expected Normal, got %s", got)
	}
}

func TestOfInputOnly(t *testing.T) {
	bld := petri.Build().
		Place("A", 1).
		Transition("sink", petri.Immediate)
	bld.Arc("A", "sink", 1)
	net := bld.MustDone()

	if got := Of(net, bld.TransitionByName("sink")); got != InputOnly {
		t.Errorf("expected InputOnly, got %s", got)
	}
}

func TestOfOutputOnly(t *testing.T) {
	bld := petri.Build().
		Place("B", 0).
		Transition("source", petri.Immediate)
	bld.Arc("source", "B", 1)
	net := bld.MustDone()

	if got := Of(net, bld.TransitionByName("source")); got != OutputOnly {
		t.Errorf("expected OutputOnly, got %s", got)
	}
}

func TestOfIsolated(t *testing.T) {
	bld := petri.Build().Transition("lonely", petri.Immediate)
	net := bld.MustDone()

	if got := Of(net, bld.TransitionByName("lonely")); got != Isolated {
		t.Errorf("expected Isolated, got %s", got)
	}
}

func TestSharedOutputPlaces(t *testing.T) {
	bld := petri.Build().
		Place("A", 1).
		Place("B", 1).
		Place("Out", 0).
		Transition("t1", petri.Immediate).
		Transition("t2", petri.Immediate)
	bld.Arc("A", "t1", 1).Arc("t1", "Out", 1)
	bld.Arc("B", "t2", 1).Arc("t2", "Out", 1)
	net := bld.MustDone()

	shared := SharedOutputPlaces(net, bld.TransitionByName("t1"), bld.TransitionByName("t2"))
	if len(shared) != 1 || shared[0] != bld.PlaceByName("Out") {
		t.Errorf("expected shared output [Out], got %v", shared)
	}
}

func TestSharedOutputPlacesNoOverlap(t *testing.T) {
	bld := petri.Build().
		Place("A", 0).
		Place("B", 0).
		Transition("t1", petri.Immediate).
		Transition("t2", petri.Immediate)
	bld.Arc("t1", "A", 1).Arc("t2", "B", 1)
	net := bld.MustDone()

	shared := SharedOutputPlaces(net, bld.TransitionByName("t1"), bld.TransitionByName("t2"))
	if len(shared) != 0 {
		t.Errorf("expected no shared output places, got %v", shared)
	}
}

func TestIsValid(t *testing.T) {
	bld := petri.Build().
		Place("A", 1).
		Transition("t1", petri.Immediate)
	bld.Arc("A", "t1", 1)
	net := bld.MustDone()

	if !IsValid(net, bld.TransitionByName("t1")) {
		t.Error("expected a well-formed transition to be valid")
	}
}
