// Package faulttree provides the in-memory representation of a fault
// tree: basic events, house events, logical gates, and common-cause
// failure groups, wired into a DAG with parent back-references.
//
// The package only builds, validates, and serializes tree structure
// (OpenPSA MEF XML and shorthand notation). It performs no
// quantification.
package faulttree

import (
	"fmt"
	"strconv"
)

// Argument is anything a gate can take as a formula argument.
type Argument interface {
	Name() string
	AddParent(g *Gate)
}

// Node carries the identity and parent tracking shared by every fault
// tree element. It is embedded in BasicEvent, HouseEvent, and Gate; a
// bare *Node stands in for a forward-declared or otherwise untyped
// reference.
type Node struct {
	name    string
	parents []*Gate
}

// NewNode creates a placeholder node for a reference whose concrete
// kind is not yet known.
func NewNode(name string) *Node {
	return &Node{name: name}
}

// Name returns the unique identifier of the node.
func (n *Node) Name() string { return n.name }

// AddParent registers gate as a parent of the node. Registering the
// same gate twice is a bug in the caller and panics.
func (n *Node) AddParent(g *Gate) {
	for _, p := range n.parents {
		if p == g {
			panic(fmt.Sprintf("faulttree: gate %q is already a parent of %q", g.name, n.name))
		}
	}
	n.parents = append(n.parents, g)
}

// IsCommon reports whether the node is referenced by more than one gate.
func (n *Node) IsCommon() bool { return len(n.parents) > 1 }

// IsOrphan reports whether the node has no parents.
func (n *Node) IsOrphan() bool { return len(n.parents) == 0 }

// NumParents returns the number of unique parents.
func (n *Node) NumParents() int { return len(n.parents) }

// Parents returns the parent gates in registration order.
func (n *Node) Parents() []*Gate { return n.parents }

// BasicEvent is a leaf node with a failure probability. The
// probability is carried, never interpreted; range validation is the
// caller's responsibility.
type BasicEvent struct {
	Node
	prob float64
}

// NewBasicEvent creates a basic event with the given failure
// probability.
func NewBasicEvent(name string, prob float64) *BasicEvent {
	return &BasicEvent{Node: Node{name: name}, prob: prob}
}

// Prob returns the failure probability.
func (e *BasicEvent) Prob() float64 { return e.prob }

// SetProb replaces the failure probability. Identity and parents are
// unaffected; CCF adjustment uses this.
func (e *BasicEvent) SetProb(prob float64) { e.prob = prob }

// ToXML produces the OpenPSA MEF XML definition of the basic event.
func (e *BasicEvent) ToXML() string {
	return "<define-basic-event name=\"" + e.name + "\">\n" +
		"<float value=\"" + formatFloat(e.prob) + "\"/>\n" +
		"</define-basic-event>\n"
}

// ToShorthand produces the shorthand definition of the basic event.
func (e *BasicEvent) ToShorthand() string {
	return "p(" + e.name + ") = " + formatFloat(e.prob) + "\n"
}

// HouseEvent is a leaf node holding a boolean constant, represented by
// the token "true" or "false".
type HouseEvent struct {
	Node
	state string
}

// NewHouseEvent creates a house event with the given state token.
func NewHouseEvent(name, state string) *HouseEvent {
	return &HouseEvent{Node: Node{name: name}, state: state}
}

// State returns the boolean state token.
func (e *HouseEvent) State() string { return e.state }

// ToXML produces the OpenPSA MEF XML definition of the house event.
func (e *HouseEvent) ToXML() string {
	return "<define-house-event name=\"" + e.name + "\">\n" +
		"<constant value=\"" + e.state + "\"/>\n" +
		"</define-house-event>\n"
}

// ToShorthand produces the shorthand definition of the house event.
func (e *HouseEvent) ToShorthand() string {
	return "s(" + e.name + ") = " + e.state + "\n"
}

// formatFloat renders probabilities and factors in their shortest
// round-trip form, e.g. 0.01 rather than 1e-02.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
