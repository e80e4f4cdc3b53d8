package weights

import (
	"testing"

	"github.com/sadopc/hangboard/internal/catalog"
)

func exercises() []catalog.Exercise {
	return []catalog.Exercise{
		{ID: "edge", DefaultSet1Weight: 5, DefaultSet2Weight: 15},
		{ID: "pinch", DefaultSet1Weight: -45, DefaultSet2Weight: -35},
	}
}

func TestEffectiveResolutionOrder(t *testing.T) {
	m := New(exercises(), Stored{"pinch": {Set1: -40, Set2: -30}})

	if got := m.Effective("edge", 1); got != 5 {
		t.Fatalf("default set1 = %v, want 5", got)
	}
	if got := m.Effective("edge", 2); got != 15 {
		t.Fatalf("default set2 = %v, want 15", got)
	}
	if got := m.Effective("pinch", 1); got != -40 {
		t.Fatalf("stored set1 = %v, want -40", got)
	}

	m.SetSessionOverride("pinch", 1, 2.5)
	if got := m.Effective("pinch", 1); got != -37.5 {
		t.Fatalf("override set1 = %v, want -37.5", got)
	}
	// Unset slot of an override falls through to the stored weight.
	if got := m.Effective("pinch", 2); got != -30 {
		t.Fatalf("set2 without override = %v, want -30", got)
	}
}

func TestEffectiveUnknownIsZero(t *testing.T) {
	m := New(exercises(), nil)
	if got := m.Effective("nope", 1); got != 0 {
		t.Fatalf("unknown = %v, want 0", got)
	}
	if got := m.Base("nope"); got != (Pair{}) {
		t.Fatalf("unknown base = %+v", got)
	}
}

func TestAdjustNextWeightMonotonic(t *testing.T) {
	a := New(exercises(), nil)
	for i := 0; i < 3; i++ {
		a.AdjustNextWeight("edge", 1, 2.5)
	}
	b := New(exercises(), nil)
	b.AdjustNextWeight("edge", 1, 7.5)

	if a.Effective("edge", 1) != b.Effective("edge", 1) {
		t.Fatalf("3 x 2.5 = %v, 1 x 7.5 = %v", a.Effective("edge", 1), b.Effective("edge", 1))
	}
	if got := a.Effective("edge", 1); got != 12.5 {
		t.Fatalf("set1 = %v, want 12.5", got)
	}
	if got := a.Effective("edge", 2); got != 15 {
		t.Fatalf("set2 untouched = %v, want 15", got)
	}
}

func TestSessionOverrideDoesNotPersist(t *testing.T) {
	m := New(exercises(), nil)
	m.SetSessionOverride("edge", 2, -5)
	m.SetSessionOverride("edge", 2, -5)
	if got := m.Effective("edge", 2); got != 5 {
		t.Fatalf("override = %v, want 5", got)
	}
	if _, ok := m.Stored()["edge"]; ok {
		t.Fatal("override must not write stored weights")
	}

	m.ClearOverrides()
	if got := m.Effective("edge", 2); got != 15 {
		t.Fatalf("after clear = %v, want 15", got)
	}
}

func TestOverrideShadowsLaterAdjust(t *testing.T) {
	m := New(exercises(), nil)
	m.SetSessionOverride("edge", 1, 1)
	m.AdjustNextWeight("edge", 1, 10)
	if got := m.Effective("edge", 1); got != 6 {
		t.Fatalf("effective = %v, want override 6", got)
	}
	if got := m.Base("edge").Set1; got != 15 {
		t.Fatalf("base = %v, want 15", got)
	}
}

func TestSetsAfterSecondShareSet2(t *testing.T) {
	m := New(exercises(), nil)
	m.AdjustNextWeight("edge", 3, 1)
	if got := m.Effective("edge", 2); got != 16 {
		t.Fatalf("set2 = %v, want 16", got)
	}
}

func TestReset(t *testing.T) {
	m := New(exercises(), Stored{"edge": {Set1: 50, Set2: 50}})
	m.SetSessionOverride("pinch", 1, 1)
	got := m.Reset()
	if got["edge"] != (Pair{Set1: 5, Set2: 15}) {
		t.Fatalf("edge after reset = %+v", got["edge"])
	}
	if m.Effective("pinch", 1) != -45 {
		t.Fatal("reset should clear overrides")
	}
}

func TestNewCopiesStored(t *testing.T) {
	in := Stored{"edge": {Set1: 1, Set2: 2}}
	m := New(exercises(), in)
	m.AdjustNextWeight("edge", 1, 1)
	if in["edge"].Set1 != 1 {
		t.Fatal("New must not alias the caller's map")
	}
}
