package cycles

import (
	"gonum.org/v1/gonum/graph"
)

// TarjanSCC finds strongly connected components with Tarjan's
// single-pass algorithm.
type TarjanSCC struct {
	g       graph.Directed
	counter int
	stack   []int64
	onStack map[int64]bool
	order   map[int64]int // visit order per node
	lowlink map[int64]int
	sccs    [][]int64
}

// NewTarjanSCC creates an SCC finder over a directed graph.
func NewTarjanSCC(g graph.Directed) *TarjanSCC {
	return &TarjanSCC{
		g:       g,
		onStack: make(map[int64]bool),
		order:   make(map[int64]int),
		lowlink: make(map[int64]int),
	}
}

// FindSCCs returns the components with more than one node. Nodes that
// belong to no cycle are omitted.
func (t *TarjanSCC) FindSCCs() [][]int64 {
	it := t.g.Nodes()
	for it.Next() {
		id := it.Node().ID()
		if _, seen := t.order[id]; !seen {
			t.connect(id)
		}
	}
	return t.sccs
}

func (t *TarjanSCC) connect(id int64) {
	t.order[id] = t.counter
	t.lowlink[id] = t.counter
	t.counter++
	t.stack = append(t.stack, id)
	t.onStack[id] = true

	succ := t.g.From(id)
	for succ.Next() {
		next := succ.Node().ID()
		if _, seen := t.order[next]; !seen {
			t.connect(next)
			t.lowlink[id] = min(t.lowlink[id], t.lowlink[next])
		} else if t.onStack[next] {
			t.lowlink[id] = min(t.lowlink[id], t.order[next])
		}
	}

	// id roots a component; pop everything above it off the stack.
	if t.lowlink[id] != t.order[id] {
		return
	}
	var scc []int64
	for {
		top := t.stack[len(t.stack)-1]
		t.stack = t.stack[:len(t.stack)-1]
		t.onStack[top] = false
		scc = append(scc, top)
		if top == id {
			break
		}
	}
	if len(scc) > 1 {
		t.sccs = append(t.sccs, scc)
	}
}
