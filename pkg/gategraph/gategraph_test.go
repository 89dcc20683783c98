package gategraph

import (
	"testing"

	"github.com/ritzau/fault-tree-analyzer/pkg/faulttree"
)

func TestNewGateGraph(t *testing.T) {
	gg := NewGateGraph()
	if gg == nil {
		t.Fatal("NewGateGraph() returned nil")
	}
	if gg.NumGates() != 0 {
		t.Errorf("New graph should have 0 gates, got %d", gg.NumGates())
	}
}

func TestAddGate_Idempotent(t *testing.T) {
	gg := NewGateGraph()
	g := faulttree.NewGate("G1", "and")

	gg.AddGate(g)
	gg.AddGate(g)

	if gg.NumGates() != 1 {
		t.Errorf("Expected 1 gate after duplicate add, got %d", gg.NumGates())
	}
}

func TestBuild_EdgesFollowGateArguments(t *testing.T) {
	top := faulttree.NewGate("TOP", "and")
	sub := faulttree.NewGate("SUB", "or")
	top.AddArgument(sub)
	top.AddArgument(faulttree.NewBasicEvent("E1", 0.01))

	gg := Build([]*faulttree.Gate{top, sub})

	if gg.NumGates() != 2 {
		t.Fatalf("Expected 2 gates, got %d", gg.NumGates())
	}
	// Basic events do not appear in the gate graph; only the TOP->SUB
	// edge exists.
	edges := gg.Graph().Edges()
	count := 0
	for edges.Next() {
		edge := edges.Edge()
		if gg.Gate(edge.From().ID()) != top || gg.Gate(edge.To().ID()) != sub {
			t.Errorf("Unexpected edge %v -> %v", edge.From().ID(), edge.To().ID())
		}
		count++
	}
	if count != 1 {
		t.Errorf("Expected 1 edge, got %d", count)
	}
}

func TestAddEdge_SkipsSelfLoop(t *testing.T) {
	g := faulttree.NewGate("G1", "and")
	g.AddArgument(g)

	// Build must not panic on the self-edge gonum rejects.
	gg := Build([]*faulttree.Gate{g})
	if gg.NumGates() != 1 {
		t.Errorf("Expected 1 gate, got %d", gg.NumGates())
	}
}
