package cycles

import (
	"testing"

	"github.com/ritzau/fault-tree-analyzer/pkg/faulttree"
)

func TestFindGateCycles_NoCycles(t *testing.T) {
	top := faulttree.NewGate("TOP", "and")
	sub := faulttree.NewGate("SUB", "or")
	top.AddArgument(sub)

	cycles := FindGateCycles([]*faulttree.Gate{top, sub})

	if len(cycles) != 0 {
		t.Errorf("Expected no cycles, but found %d", len(cycles))
	}
}

func TestFindGateCycles_SimpleCycle(t *testing.T) {
	a := faulttree.NewGate("A", "and")
	b := faulttree.NewGate("B", "or")
	a.AddArgument(b)
	b.AddArgument(a)

	cycles := FindGateCycles([]*faulttree.Gate{a, b})

	if len(cycles) != 1 {
		t.Fatalf("Expected 1 cycle, but found %d", len(cycles))
	}

	inCycle := make(map[string]bool)
	for _, name := range cycles[0].Gates {
		inCycle[name] = true
	}
	if !inCycle["A"] || !inCycle["B"] {
		t.Errorf("Expected cycle to contain A and B, got %v", cycles[0].Gates)
	}
}

func TestFindGateCycles_ThreeGateCycle(t *testing.T) {
	a := faulttree.NewGate("A", "and")
	b := faulttree.NewGate("B", "and")
	c := faulttree.NewGate("C", "and")
	a.AddArgument(b)
	b.AddArgument(c)
	c.AddArgument(a)

	cycles := FindGateCycles([]*faulttree.Gate{a, b, c})

	if len(cycles) != 1 {
		t.Fatalf("Expected 1 cycle, but found %d", len(cycles))
	}
	if len(cycles[0].Gates) != 3 {
		t.Errorf("Expected cycle of length 3, got %d", len(cycles[0].Gates))
	}
}

func TestFindGateCycles_SelfLoop(t *testing.T) {
	a := faulttree.NewGate("A", "and")
	a.AddArgument(a)

	cycles := FindGateCycles([]*faulttree.Gate{a})

	if len(cycles) != 1 {
		t.Fatalf("Expected 1 cycle, but found %d", len(cycles))
	}
	if len(cycles[0].Gates) != 1 || cycles[0].Gates[0] != "A" {
		t.Errorf("Expected self-loop cycle [A], got %v", cycles[0].Gates)
	}
}

func TestFindGateCycles_MultipleCycles(t *testing.T) {
	// Cycle 1: A <-> B. Cycle 2: C -> D -> E -> C.
	a := faulttree.NewGate("A", "and")
	b := faulttree.NewGate("B", "and")
	a.AddArgument(b)
	b.AddArgument(a)

	c := faulttree.NewGate("C", "or")
	d := faulttree.NewGate("D", "or")
	e := faulttree.NewGate("E", "or")
	c.AddArgument(d)
	d.AddArgument(e)
	e.AddArgument(c)

	cycles := FindGateCycles([]*faulttree.Gate{a, b, c, d, e})

	if len(cycles) != 2 {
		t.Fatalf("Expected 2 cycles, but found %d", len(cycles))
	}
}
