// Package mef assembles whole-model documents from a fault tree:
// an OpenPSA MEF XML document and a shorthand-notation document.
package mef

import (
	"fmt"
	"io"

	"github.com/ritzau/fault-tree-analyzer/pkg/faulttree"
)

// WriteXML writes the complete OpenPSA MEF document for the model.
// Gates are defined in dependents-first topological order so every
// gate's definition precedes the definitions it references. nest is
// forwarded to each gate's formula serialization. Basic events that
// belong to a CCF group are defined by the group and excluded from
// model-data.
func WriteXML(w io.Writer, ft *faulttree.FaultTree, nest int) error {
	sorted, err := ft.SortedGates()
	if err != nil {
		return fmt.Errorf("ordering gates of %q: %w", ft.Name(), err)
	}

	if _, err := io.WriteString(w, "<?xml version=\"1.0\"?>\n<opsa-mef>\n"); err != nil {
		return err
	}
	if _, err := io.WriteString(w, "<define-fault-tree name=\""+ft.Name()+"\">\n"); err != nil {
		return err
	}
	for _, g := range sorted {
		if _, err := io.WriteString(w, g.ToXML(nest)); err != nil {
			return err
		}
	}
	for _, c := range ft.CcfGroups() {
		if _, err := io.WriteString(w, c.ToXML()); err != nil {
			return err
		}
	}
	if _, err := io.WriteString(w, "</define-fault-tree>\n<model-data>\n"); err != nil {
		return err
	}
	for _, h := range ft.HouseEvents() {
		if _, err := io.WriteString(w, h.ToXML()); err != nil {
			return err
		}
	}
	ccfMembers := ccfMemberSet(ft)
	for _, e := range ft.BasicEvents() {
		if ccfMembers[e] {
			continue
		}
		if _, err := io.WriteString(w, e.ToXML()); err != nil {
			return err
		}
	}
	_, err = io.WriteString(w, "</model-data>\n</opsa-mef>\n")
	return err
}

// WriteShorthand writes the shorthand-notation document for the model:
// the model name, gate definitions in dependents-first order, then
// basic and house event definitions. CCF groups have no shorthand form
// and are omitted.
func WriteShorthand(w io.Writer, ft *faulttree.FaultTree) error {
	sorted, err := ft.SortedGates()
	if err != nil {
		return fmt.Errorf("ordering gates of %q: %w", ft.Name(), err)
	}

	if _, err := io.WriteString(w, ft.Name()+"\n"); err != nil {
		return err
	}
	for _, g := range sorted {
		if _, err := io.WriteString(w, g.ToShorthand()); err != nil {
			return err
		}
	}
	for _, e := range ft.BasicEvents() {
		if _, err := io.WriteString(w, e.ToShorthand()); err != nil {
			return err
		}
	}
	for _, h := range ft.HouseEvents() {
		if _, err := io.WriteString(w, h.ToShorthand()); err != nil {
			return err
		}
	}
	return nil
}

func ccfMemberSet(ft *faulttree.FaultTree) map[*faulttree.BasicEvent]bool {
	members := make(map[*faulttree.BasicEvent]bool)
	for _, c := range ft.CcfGroups() {
		for _, m := range c.Members {
			members[m] = true
		}
	}
	return members
}
