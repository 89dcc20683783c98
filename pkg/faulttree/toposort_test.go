package faulttree

import (
	"errors"
	"testing"
)

// buildDiamond wires TOP -> {A, B} -> SHARED and returns the gates in
// registration order.
func buildDiamond() (top, a, b, shared *Gate, all []*Gate) {
	top = NewGate("TOP", "and")
	a = NewGate("A", "or")
	b = NewGate("B", "or")
	shared = NewGate("SHARED", "and")
	top.AddArgument(a)
	top.AddArgument(b)
	a.AddArgument(shared)
	b.AddArgument(shared)
	return top, a, b, shared, []*Gate{top, a, b, shared}
}

func indexOf(gates []*Gate, g *Gate) int {
	for i, candidate := range gates {
		if candidate == g {
			return i
		}
	}
	return -1
}

func TestTopoSortGates_DependentsFirst(t *testing.T) {
	top, _, _, _, all := buildDiamond()

	sorted, err := TopoSortGates([]*Gate{top}, all)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(sorted) != len(all) {
		t.Fatalf("Expected %d gates, got %d", len(all), len(sorted))
	}

	seen := make(map[*Gate]int)
	for i, g := range sorted {
		if _, dup := seen[g]; dup {
			t.Errorf("Gate %s appears twice", g.Name())
		}
		seen[g] = i
	}

	// Every gate must precede each of its argument gates.
	for _, g := range sorted {
		for _, arg := range g.GateArgs() {
			if indexOf(sorted, g) > indexOf(sorted, arg) {
				t.Errorf("Gate %s must precede its argument %s", g.Name(), arg.Name())
			}
		}
	}
	if sorted[0] != top {
		t.Errorf("Expected the root first, got %s", sorted[0].Name())
	}
}

func TestTopoSortGates_RerunIsStable(t *testing.T) {
	top, _, _, _, all := buildDiamond()

	first, err := TopoSortGates([]*Gate{top}, all)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	// Traversal state is call-local, so a second run must behave
	// identically.
	second, err := TopoSortGates([]*Gate{top}, all)
	if err != nil {
		t.Fatalf("Unexpected error on re-run: %v", err)
	}
	if len(second) != len(first) {
		t.Fatalf("Re-run returned %d gates, want %d", len(second), len(first))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("Re-run order differs at %d: %s vs %s", i, first[i].Name(), second[i].Name())
		}
	}
}

func TestTopoSortGates_MultipleRoots(t *testing.T) {
	shared := NewGate("SHARED", "and")
	r1 := NewGate("R1", "or")
	r2 := NewGate("R2", "or")
	r1.AddArgument(shared)
	r2.AddArgument(shared)
	all := []*Gate{r1, r2, shared}

	sorted, err := TopoSortGates([]*Gate{r1, r2}, all)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(sorted) != 3 {
		t.Fatalf("Expected 3 gates, got %d", len(sorted))
	}
	if indexOf(sorted, shared) < indexOf(sorted, r1) || indexOf(sorted, shared) < indexOf(sorted, r2) {
		t.Errorf("Shared gate must come after both roots: %v", names(sorted))
	}
}

func TestTopoSortGates_CycleFails(t *testing.T) {
	a := NewGate("A", "and")
	b := NewGate("B", "and")
	a.AddArgument(b)
	b.AddArgument(a)
	all := []*Gate{a, b}

	_, err := TopoSortGates([]*Gate{a}, all)
	if !errors.Is(err, ErrCycle) {
		t.Fatalf("Expected ErrCycle, got %v", err)
	}

	// A failed run must not poison a later one.
	if _, err := TopoSortGates([]*Gate{a}, all); !errors.Is(err, ErrCycle) {
		t.Errorf("Expected ErrCycle on re-run, got %v", err)
	}
}

func TestTopoSortGates_SelfLoopFails(t *testing.T) {
	a := NewGate("A", "and")
	a.AddArgument(a)

	_, err := TopoSortGates([]*Gate{a}, []*Gate{a})
	if !errors.Is(err, ErrCycle) {
		t.Fatalf("Expected ErrCycle for self-referential gate, got %v", err)
	}
}

func TestTopoSortGates_UnreachableFails(t *testing.T) {
	top, _, _, _, all := buildDiamond()
	island := NewGate("ISLAND", "or")
	all = append(all, island)

	_, err := TopoSortGates([]*Gate{top}, all)
	if !errors.Is(err, ErrUnreachable) {
		t.Fatalf("Expected ErrUnreachable, got %v", err)
	}

	sorted, err := TopoSortGates([]*Gate{top, island}, all)
	if err != nil {
		t.Fatalf("Unexpected error with complete root set: %v", err)
	}
	if len(sorted) != len(all) {
		t.Errorf("Expected %d gates with complete root set, got %d", len(all), len(sorted))
	}
}

func TestTopoSortGates_Empty(t *testing.T) {
	sorted, err := TopoSortGates(nil, nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(sorted) != 0 {
		t.Errorf("Expected empty result, got %d gates", len(sorted))
	}
}

func names(gates []*Gate) []string {
	out := make([]string, len(gates))
	for i, g := range gates {
		out[i] = g.Name()
	}
	return out
}
