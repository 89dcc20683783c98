package faulttree

import (
	"errors"
	"fmt"
	"slices"
)

// ErrCycle reports a cycle among gate arguments found during
// topological sorting. The input is not a valid gate DAG.
var ErrCycle = errors.New("cycle among gate arguments")

// ErrUnreachable reports gates that no supplied root reaches. The
// caller's root set is incomplete.
var ErrUnreachable = errors.New("gates unreachable from root gates")

// mark is the three-state tag used by the sort's depth-first
// traversal. Marks live in a map local to each call, never on the
// gates, so no traversal state survives between calls.
type mark uint8

const (
	unmarked mark = iota
	temporary
	permanent
)

// TopoSortGates orders gates so that every gate precedes all gates it
// lists as arguments: reading the result front to back visits
// dependents before their dependencies (roots first, leaves last);
// reading back to front gives evaluation order.
//
// The sort is a depth-first traversal with three-state marks,
// generalized to multiple roots visited in the supplied order. A cycle
// or an incomplete root set never yields a partial ordering.
func TopoSortGates(rootGates, gates []*Gate) ([]*Gate, error) {
	marks := make(map[*Gate]mark, len(gates))

	sorted := make([]*Gate, 0, len(gates))
	var visit func(g *Gate) error
	visit = func(g *Gate) error {
		switch marks[g] {
		case permanent:
			return nil
		case temporary:
			return fmt.Errorf("%w: gate %q is its own ancestor", ErrCycle, g.name)
		}
		marks[g] = temporary
		for _, arg := range g.gateArgs {
			if err := visit(arg); err != nil {
				return err
			}
		}
		marks[g] = permanent
		sorted = append(sorted, g)
		return nil
	}

	for _, root := range rootGates {
		if err := visit(root); err != nil {
			return nil, err
		}
	}
	if len(sorted) != len(gates) {
		return nil, fmt.Errorf("%w: reached %d of %d gates", ErrUnreachable, len(sorted), len(gates))
	}

	// visit appends a gate after its argument gates; reversing yields
	// the documented dependents-first order.
	slices.Reverse(sorted)
	return sorted, nil
}
