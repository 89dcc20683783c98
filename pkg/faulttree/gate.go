package faulttree

import (
	"fmt"
	"strconv"
	"strings"
)

// Gate is an internal fault tree node combining its arguments with a
// logical operator. The operator set is open per the MEF; "atleast" is
// the only operator that uses KNum.
type Gate struct {
	Node
	operator string
	kNum     int

	// Arguments live in exactly one bucket each, decided by their
	// concrete kind when AddArgument runs.
	gateArgs  []*Gate
	basicArgs []*BasicEvent
	houseArgs []*HouseEvent
	undefArgs []*Node
}

// NewGate creates a gate with the given logical operator.
func NewGate(name, operator string) *Gate {
	return &Gate{Node: Node{name: name}, operator: operator}
}

// NewAtleastGate creates a k-out-of-n threshold gate.
func NewAtleastGate(name string, kNum int) *Gate {
	return &Gate{Node: Node{name: name}, operator: "atleast", kNum: kNum}
}

// Operator returns the logical operator of the gate's formula.
func (g *Gate) Operator() string { return g.operator }

// KNum returns the threshold of an atleast gate. It is meaningless for
// other operators.
func (g *Gate) KNum() int { return g.kNum }

// GateArgs returns the argument gates in registration order. Callers
// must not mutate the returned slice; arguments are added only through
// AddArgument.
func (g *Gate) GateArgs() []*Gate { return g.gateArgs }

// BasicArgs returns the basic event arguments in registration order.
func (g *Gate) BasicArgs() []*BasicEvent { return g.basicArgs }

// HouseArgs returns the house event arguments in registration order.
func (g *Gate) HouseArgs() []*HouseEvent { return g.houseArgs }

// UndefArgs returns the untyped placeholder arguments in registration
// order.
func (g *Gate) UndefArgs() []*Node { return g.undefArgs }

// NumArguments returns the total argument count across all buckets.
func (g *Gate) NumArguments() int {
	return len(g.gateArgs) + len(g.basicArgs) + len(g.houseArgs) + len(g.undefArgs)
}

// AddArgument buckets the argument by its concrete kind and registers
// this gate as its parent. This is the single mutation point that keeps
// the gate->argument and argument->parent edges consistent; argument
// collections must never be modified any other way.
func (g *Gate) AddArgument(arg Argument) {
	arg.AddParent(g)
	switch a := arg.(type) {
	case *Gate:
		g.gateArgs = append(g.gateArgs, a)
	case *BasicEvent:
		g.basicArgs = append(g.basicArgs, a)
	case *HouseEvent:
		g.houseArgs = append(g.houseArgs, a)
	case *Node:
		g.undefArgs = append(g.undefArgs, a)
	default:
		panic(fmt.Sprintf("faulttree: unknown argument kind %T for gate %q", arg, g.name))
	}
}

// Ancestors collects every gate reachable from this gate by following
// parent edges, including the gate itself. The visited check guarantees
// termination even on a malformed model with a parent cycle.
func (g *Gate) Ancestors() map[*Gate]bool {
	ancestors := map[*Gate]bool{g: true}
	queue := make([]*Gate, len(g.parents))
	copy(queue, g.parents)
	for len(queue) > 0 {
		parent := queue[0]
		queue = queue[1:]
		if ancestors[parent] {
			continue
		}
		ancestors[parent] = true
		queue = append(queue, parent.parents...)
	}
	return ancestors
}

// ToXML produces the OpenPSA MEF XML definition of the gate. nest
// controls how many levels of argument gates are inlined as nested
// formulas; at 0 argument gates are emitted as bare references. A
// "null" operator emits no wrapper element, only the argument list.
func (g *Gate) ToXML(nest int) string {
	var b strings.Builder
	b.WriteString("<define-gate name=\"" + g.name + "\">\n")
	writeFormula(&b, g, nest)
	b.WriteString("</define-gate>\n")
	return b.String()
}

// writeFormula converts the gate's formula into MEF XML, inlining
// argument gates while nest > 0.
func writeFormula(b *strings.Builder, g *Gate, nest int) {
	if g.operator != "null" {
		b.WriteString("<" + g.operator)
		if g.operator == "atleast" {
			b.WriteString(" min=\"" + strconv.Itoa(g.kNum) + "\"")
		}
		b.WriteString(">\n")
	}
	for _, h := range g.houseArgs {
		b.WriteString("<house-event name=\"" + h.name + "\"/>\n")
	}
	for _, e := range g.basicArgs {
		b.WriteString("<basic-event name=\"" + e.name + "\"/>\n")
	}
	for _, u := range g.undefArgs {
		b.WriteString("<event name=\"" + u.name + "\"/>\n")
	}
	if nest > 0 {
		for _, arg := range g.gateArgs {
			writeFormula(b, arg, nest-1)
		}
	} else {
		for _, arg := range g.gateArgs {
			b.WriteString("<gate name=\"" + arg.name + "\"/>\n")
		}
	}
	if g.operator != "null" {
		b.WriteString("</" + g.operator + ">\n")
	}
}

// ToShorthand produces the shorthand definition of the gate, e.g.
// "G1 := (E1 & E2)" or "G2 := @(2, [E1, E2, E3])".
func (g *Gate) ToShorthand() string {
	return g.name + " := " + formulaShorthand(g) + "\n"
}

// formulaShorthand renders the gate's formula in shorthand notation.
// Argument gates always appear as references; shorthand has no nesting.
func formulaShorthand(g *Gate) string {
	names := make([]string, 0, g.NumArguments())
	for _, h := range g.houseArgs {
		names = append(names, h.name)
	}
	for _, e := range g.basicArgs {
		names = append(names, e.name)
	}
	for _, u := range g.undefArgs {
		names = append(names, u.name)
	}
	for _, arg := range g.gateArgs {
		names = append(names, arg.name)
	}
	switch g.operator {
	case "and":
		return "(" + strings.Join(names, " & ") + ")"
	case "or":
		return "(" + strings.Join(names, " | ") + ")"
	case "xor":
		return "(" + strings.Join(names, " ^ ") + ")"
	case "not":
		return "~" + names[0]
	case "atleast":
		return "@(" + strconv.Itoa(g.kNum) + ", [" + strings.Join(names, ", ") + "])"
	case "null":
		return names[0]
	default:
		panic(fmt.Sprintf("faulttree: operator %q has no shorthand form", g.operator))
	}
}
