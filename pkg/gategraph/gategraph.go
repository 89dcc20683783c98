// Package gategraph bridges the fault tree's gate containment edges
// into a gonum directed graph so graph algorithms can run over gates.
package gategraph

import (
	"gonum.org/v1/gonum/graph/simple"

	"github.com/ritzau/fault-tree-analyzer/pkg/faulttree"
)

// GateGraph is a directed graph whose nodes are gates and whose edges
// point from each gate to its argument gates.
type GateGraph struct {
	graph  *simple.DirectedGraph
	ids    map[*faulttree.Gate]int64
	byID   map[int64]*faulttree.Gate
	nextID int64
}

// NewGateGraph creates an empty gate graph.
func NewGateGraph() *GateGraph {
	return &GateGraph{
		graph: simple.NewDirectedGraph(),
		ids:   make(map[*faulttree.Gate]int64),
		byID:  make(map[int64]*faulttree.Gate),
	}
}

// Build constructs the gate graph for the given gates. Argument gates
// outside the slice are added as they are encountered.
func Build(gates []*faulttree.Gate) *GateGraph {
	gg := NewGateGraph()
	for _, g := range gates {
		gg.AddGate(g)
	}
	for _, g := range gates {
		for _, arg := range g.GateArgs() {
			gg.AddEdge(g, arg)
		}
	}
	return gg
}

// AddGate registers a gate, assigning it a stable ID in insertion
// order. Re-adding a gate is a no-op.
func (gg *GateGraph) AddGate(g *faulttree.Gate) {
	if _, exists := gg.ids[g]; exists {
		return
	}
	id := gg.nextID
	gg.nextID++
	gg.ids[g] = id
	gg.byID[id] = g
	gg.graph.AddNode(simple.Node(id))
}

// AddEdge adds a containment edge from a gate to one of its argument
// gates. Duplicate edges are ignored. Self-loops are skipped because
// gonum's simple graph rejects self-edges; callers that care about a
// gate listing itself must inspect GateArgs directly.
func (gg *GateGraph) AddEdge(from, to *faulttree.Gate) {
	gg.AddGate(from)
	gg.AddGate(to)
	fromID, toID := gg.ids[from], gg.ids[to]
	if fromID == toID {
		return
	}
	if !gg.graph.HasEdgeFromTo(fromID, toID) {
		gg.graph.SetEdge(gg.graph.NewEdge(gg.graph.Node(fromID), gg.graph.Node(toID)))
	}
}

// Graph returns the underlying gonum graph.
func (gg *GateGraph) Graph() *simple.DirectedGraph { return gg.graph }

// Gate returns the gate assigned the given graph ID.
func (gg *GateGraph) Gate(id int64) *faulttree.Gate { return gg.byID[id] }

// NumGates returns the number of registered gates.
func (gg *GateGraph) NumGates() int { return len(gg.ids) }
