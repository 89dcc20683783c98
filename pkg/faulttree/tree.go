package faulttree

import "fmt"

// FaultTree is a named container for the elements of one model. It
// tracks registration order for deterministic serialization and
// rejects duplicate names across all element kinds.
type FaultTree struct {
	name     string
	topGates []*Gate

	gates       []*Gate
	basicEvents []*BasicEvent
	houseEvents []*HouseEvent
	ccfGroups   []*CcfGroup

	gatesByName map[string]*Gate
	basicByName map[string]*BasicEvent
	houseByName map[string]*HouseEvent
	usedNames   map[string]bool
}

// NewFaultTree creates an empty fault tree with the given model name.
func NewFaultTree(name string) *FaultTree {
	return &FaultTree{
		name:        name,
		gatesByName: make(map[string]*Gate),
		basicByName: make(map[string]*BasicEvent),
		houseByName: make(map[string]*HouseEvent),
		usedNames:   make(map[string]bool),
	}
}

// Name returns the model name.
func (ft *FaultTree) Name() string { return ft.name }

func (ft *FaultTree) claimName(name string) error {
	if ft.usedNames[name] {
		return fmt.Errorf("duplicate element name %q", name)
	}
	ft.usedNames[name] = true
	return nil
}

// AddGate registers a gate with the model.
func (ft *FaultTree) AddGate(g *Gate) error {
	if err := ft.claimName(g.name); err != nil {
		return err
	}
	ft.gates = append(ft.gates, g)
	ft.gatesByName[g.name] = g
	return nil
}

// AddBasicEvent registers a basic event with the model.
func (ft *FaultTree) AddBasicEvent(e *BasicEvent) error {
	if err := ft.claimName(e.name); err != nil {
		return err
	}
	ft.basicEvents = append(ft.basicEvents, e)
	ft.basicByName[e.name] = e
	return nil
}

// AddHouseEvent registers a house event with the model.
func (ft *FaultTree) AddHouseEvent(e *HouseEvent) error {
	if err := ft.claimName(e.name); err != nil {
		return err
	}
	ft.houseEvents = append(ft.houseEvents, e)
	ft.houseByName[e.name] = e
	return nil
}

// AddCcfGroup registers a CCF group with the model.
func (ft *FaultTree) AddCcfGroup(c *CcfGroup) error {
	if err := ft.claimName(c.name); err != nil {
		return err
	}
	ft.ccfGroups = append(ft.ccfGroups, c)
	return nil
}

// Gates returns all gates in registration order.
func (ft *FaultTree) Gates() []*Gate { return ft.gates }

// BasicEvents returns all basic events in registration order.
func (ft *FaultTree) BasicEvents() []*BasicEvent { return ft.basicEvents }

// HouseEvents returns all house events in registration order.
func (ft *FaultTree) HouseEvents() []*HouseEvent { return ft.houseEvents }

// CcfGroups returns all CCF groups in registration order.
func (ft *FaultTree) CcfGroups() []*CcfGroup { return ft.ccfGroups }

// Gate looks up a gate by name.
func (ft *FaultTree) Gate(name string) (*Gate, bool) {
	g, ok := ft.gatesByName[name]
	return g, ok
}

// BasicEvent looks up a basic event by name.
func (ft *FaultTree) BasicEvent(name string) (*BasicEvent, bool) {
	e, ok := ft.basicByName[name]
	return e, ok
}

// HouseEvent looks up a house event by name.
func (ft *FaultTree) HouseEvent(name string) (*HouseEvent, bool) {
	e, ok := ft.houseByName[name]
	return e, ok
}

// SetTopGates fixes the root gates explicitly, overriding the orphan
// default.
func (ft *FaultTree) SetTopGates(gates []*Gate) {
	ft.topGates = gates
}

// TopGates returns the root gates: the explicitly set roots if any,
// otherwise every registered gate without parents, in registration
// order.
func (ft *FaultTree) TopGates() []*Gate {
	if ft.topGates != nil {
		return ft.topGates
	}
	var tops []*Gate
	for _, g := range ft.gates {
		if g.IsOrphan() {
			tops = append(tops, g)
		}
	}
	return tops
}

// SortedGates returns the model's gates in dependents-first topological
// order, starting from TopGates.
func (ft *FaultTree) SortedGates() ([]*Gate, error) {
	return TopoSortGates(ft.TopGates(), ft.gates)
}
