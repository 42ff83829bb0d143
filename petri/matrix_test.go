package petri

import "testing"

func TestBuildMatrixDenseForSmallNet(t *testing.T) {
	n := Build().
		Place("A", 2).
		Place("B", 0).
		Transition("t1", Immediate).
		Arc("A", "t1", 1).
		Arc("t1", "B", 1).
		MustDone()

	m := BuildMatrix(n)
	if !m.IsDense() {
		t.Error("small, dense net should pick the dense representation")
	}
}

func TestMatrixColumnWeights(t *testing.T) {
	bld := Build().
		Place("A", 2).
		Place("B", 0).
		Transition("t1", Immediate)
	bld.Arc("A", "t1", 1).Arc("t1", "B", 3)
	n := bld.MustDone()

	m := BuildMatrix(n)
	a := bld.PlaceByName("A")
	b := bld.PlaceByName("B")
	tr := bld.TransitionByName("t1")

	if got := m.InputWeight(a, tr); got != 1 {
		t.Errorf("expected F- 1, got %f", got)
	}
	if got := m.OutputWeight(b, tr); got != 3 {
		t.Errorf("expected F+ 3, got %f", got)
	}
	if got := m.ColumnWeight(a, tr); got != -1 {
		t.Errorf("expected C -1 for consumed place, got %f", got)
	}
	if got := m.ColumnWeight(b, tr); got != 3 {
		t.Errorf("expected C 3 for produced place, got %f", got)
	}
}

func TestIsEnabledRequiresSufficientTokens(t *testing.T) {
	bld := Build().
		Place("A", 1).
		Transition("t1", Immediate)
	bld.Arc("A", "t1", 2)
	n := bld.MustDone()

	m := BuildMatrix(n)
	tr := bld.TransitionByName("t1")
	if m.IsEnabled(tr) {
		t.Error("transition needing 2 tokens from a place with 1 should not be enabled")
	}

	bld.PlaceByName("A").Tokens = 2
	m = BuildMatrix(n)
	if !m.IsEnabled(tr) {
		t.Error("transition should be enabled once enough tokens are present")
	}
}

func TestInhibitorArcReversesEnablement(t *testing.T) {
	bld := Build().
		Place("A", 0).
		Transition("t1", Immediate)
	bld.InhibitorArc("A", "t1", 1)
	n := bld.MustDone()

	m := BuildMatrix(n)
	tr := bld.TransitionByName("t1")
	if !m.IsEnabled(tr) {
		t.Error("transition should be enabled while inhibitor place has fewer tokens than the weight")
	}

	bld.PlaceByName("A").Tokens = 1
	m = BuildMatrix(n)
	if m.IsEnabled(tr) {
		t.Error("transition should be disabled once the inhibitor place reaches the weight")
	}
}

func TestTestArcGatesWithoutConsuming(t *testing.T) {
	bld := Build().
		Place("A", 1).
		Place("B", 0).
		Transition("t1", Immediate)
	bld.TestArc("A", "t1", 1).Arc("t1", "B", 1)
	n := bld.MustDone()

	m := BuildMatrix(n)
	tr := bld.TransitionByName("t1")
	if err := m.Fire(tr); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bld.PlaceByName("A").Tokens != 1 {
		t.Error("test arc must not consume tokens on firing")
	}
	if bld.PlaceByName("B").Tokens != 1 {
		t.Error("output place should still receive tokens")
	}
}

func TestFireAppliesStateEquation(t *testing.T) {
	bld := Build().
		Place("A", 2).
		Place("B", 0).
		Transition("t1", Immediate)
	bld.Arc("A", "t1", 1).Arc("t1", "B", 1)
	n := bld.MustDone()

	m := BuildMatrix(n)
	tr := bld.TransitionByName("t1")
	if err := m.Fire(tr); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bld.PlaceByName("A").Tokens != 1 {
		t.Errorf("expected A=1 after firing, got %f", bld.PlaceByName("A").Tokens)
	}
	if bld.PlaceByName("B").Tokens != 1 {
		t.Errorf("expected B=1 after firing, got %f", bld.PlaceByName("B").Tokens)
	}
}

func TestFireReturnsErrNotEnabled(t *testing.T) {
	bld := Build().
		Place("A", 0).
		Transition("t1", Immediate)
	bld.Arc("A", "t1", 1)
	n := bld.MustDone()

	m := BuildMatrix(n)
	tr := bld.TransitionByName("t1")
	if err := m.Fire(tr); err != ErrNotEnabled {
		t.Errorf("expected ErrNotEnabled, got %v", err)
	}
}

func TestEnabledSet(t *testing.T) {
	bld := Build().
		Place("A", 1).
		Transition("t1", Immediate).
		Transition("t2", Immediate)
	bld.Arc("A", "t1", 1).Arc("A", "t2", 2)
	n := bld.MustDone()

	m := BuildMatrix(n)
	enabled := m.EnabledSet()
	if len(enabled) != 1 || enabled[0] != bld.TransitionByName("t1") {
		t.Errorf("expected only t1 enabled, got %v", enabled)
	}
}

func TestValidateBipartiteFlagsBadArcs(t *testing.T) {
	n := NewNet()
	p := n.CreatePlace("p1")
	tr := n.CreateTransition("t1", Immediate)
	a, err := n.CreateArc(p, tr, PlaceToTransition, 1, Normal)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	a.Weight = -1

	violations := ValidateBipartite(n)
	if len(violations) != 1 {
		t.Fatalf("expected 1 violation, got %d", len(violations))
	}
}
