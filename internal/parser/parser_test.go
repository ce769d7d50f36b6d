package parser

import (
	"testing"

	"github.com/talgya/ambition/internal/masterdata"
)

func testActions() []*masterdata.Action {
	return []*masterdata.Action{
		{ID: 1, Name: "Cook Energy Meal"},
		{ID: 2, Name: "Full Rest"},
		{ID: 3, Name: "Grind Session"},
		{ID: 4, Name: "Court Sponsors"},
	}
}

func TestNormalize(t *testing.T) {
	if got := Normalize("  Full   REST "); got != "full rest" {
		t.Fatalf("expected %q, got %q", "full rest", got)
	}
	if got := Normalize("   "); got != "" {
		t.Fatalf("expected empty string, got %q", got)
	}
}

func TestMatchExactCaseInsensitive(t *testing.T) {
	a, ok := Match("FULL rest", testActions())
	if !ok || a.ID != 2 {
		t.Fatalf("expected exact match on Full Rest, got %+v ok=%v", a, ok)
	}
}

func TestMatchToleratesTypos(t *testing.T) {
	a, ok := Match("grind sesion", testActions())
	if !ok || a.ID != 3 {
		t.Fatalf("expected fuzzy match on Grind Session, got %+v ok=%v", a, ok)
	}

	a, ok = Match("cook energy mael", testActions())
	if !ok || a.ID != 1 {
		t.Fatalf("expected fuzzy match on Cook Energy Meal, got %+v ok=%v", a, ok)
	}
}

func TestMatchRejectsGarbage(t *testing.T) {
	if _, ok := Match("open the pod bay doors", testActions()); ok {
		t.Fatal("expected no match for unrelated input")
	}
	if _, ok := Match("", testActions()); ok {
		t.Fatal("expected no match for empty input")
	}
}

func TestMatchShortNamesNeedCloseInput(t *testing.T) {
	actions := []*masterdata.Action{{ID: 1, Name: "Rest"}}
	if _, ok := Match("rust", actions); !ok {
		t.Fatal("one edit away from a short name should match")
	}
	if _, ok := Match("roast", actions); ok {
		t.Fatal("two edits away from a four-letter name must not match")
	}
}
