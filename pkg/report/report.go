// Package report prints the console summary of a loaded fault tree.
package report

import (
	"fmt"

	"github.com/fatih/color"

	"github.com/ritzau/fault-tree-analyzer/pkg/cycles"
	"github.com/ritzau/fault-tree-analyzer/pkg/faulttree"
)

// PrintModelReport prints a nicely formatted validation report with colors
func PrintModelReport(ft *faulttree.FaultTree, gateCycles []cycles.GateCycle) {
	bold := color.New(color.Bold)
	red := color.New(color.FgRed)
	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)
	cyan := color.New(color.FgCyan)

	bold.Println("Fault Tree Analyzer - Model Report")
	bold.Println("==================================")
	fmt.Printf("Model: %s\n", ft.Name())
	fmt.Printf("Gates: %d\n", len(ft.Gates()))
	fmt.Printf("Basic events: %d\n", len(ft.BasicEvents()))
	fmt.Printf("House events: %d\n", len(ft.HouseEvents()))
	if len(ft.CcfGroups()) > 0 {
		fmt.Printf("CCF groups: %d\n", len(ft.CcfGroups()))
	}
	fmt.Println()

	tops := ft.TopGates()
	cyan.Println("TOP GATES:")
	for _, g := range tops {
		fmt.Printf("  %s (%s, %d arguments)\n", g.Name(), g.Operator(), g.NumArguments())
	}
	fmt.Println()

	common, orphans := classifyEvents(ft)
	if len(common) > 0 {
		yellow.Printf("Common events (shared by several gates): %d\n", len(common))
		for _, name := range common {
			fmt.Printf("  %s\n", name)
		}
	}
	if len(orphans) > 0 {
		yellow.Printf("Orphan events (never referenced): %d\n", len(orphans))
		for _, name := range orphans {
			fmt.Printf("  %s\n", name)
		}
	}

	if len(gateCycles) > 0 {
		red.Printf("CYCLES: %d circular gate definition(s)\n", len(gateCycles))
		for _, cycle := range gateCycles {
			yellow.Printf("  %v\n", cycle.Gates)
		}
		red.Println("The model is not a valid DAG and cannot be exported.")
		return
	}

	green.Printf("Summary: %d gates, %d events, model is a valid DAG\n",
		len(ft.Gates()), len(ft.BasicEvents())+len(ft.HouseEvents()))
}

// classifyEvents collects the names of common and orphan leaf events.
func classifyEvents(ft *faulttree.FaultTree) (common, orphans []string) {
	for _, e := range ft.BasicEvents() {
		if e.IsCommon() {
			common = append(common, e.Name())
		} else if e.IsOrphan() {
			orphans = append(orphans, e.Name())
		}
	}
	for _, e := range ft.HouseEvents() {
		if e.IsCommon() {
			common = append(common, e.Name())
		} else if e.IsOrphan() {
			orphans = append(orphans, e.Name())
		}
	}
	return common, orphans
}
