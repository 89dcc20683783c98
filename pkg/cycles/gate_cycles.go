// Package cycles names the gates participating in argument cycles.
// faulttree.TopoSortGates only reports that a cycle exists; this
// package tells the user which gates form it.
package cycles

import (
	"github.com/ritzau/fault-tree-analyzer/pkg/faulttree"
	"github.com/ritzau/fault-tree-analyzer/pkg/gategraph"
)

// GateCycle is one circular dependency among gate arguments.
type GateCycle struct {
	Gates []string // Names of the gates in the cycle
}

// FindGateCycles finds every cycle among the gates' argument edges,
// including gates that list themselves as arguments.
func FindGateCycles(gates []*faulttree.Gate) []GateCycle {
	gg := gategraph.Build(gates)
	sccs := NewTarjanSCC(gg.Graph()).FindSCCs()

	cycles := make([]GateCycle, 0, len(sccs))
	for _, scc := range sccs {
		names := make([]string, 0, len(scc))
		for _, id := range scc {
			if g := gg.Gate(id); g != nil {
				names = append(names, g.Name())
			}
		}
		if len(names) > 1 {
			cycles = append(cycles, GateCycle{Gates: names})
		}
	}

	// Self-loops never reach the graph (simple graphs reject
	// self-edges), so collect them directly.
	for _, g := range gates {
		for _, arg := range g.GateArgs() {
			if arg == g {
				cycles = append(cycles, GateCycle{Gates: []string{g.Name()}})
				break
			}
		}
	}

	return cycles
}
