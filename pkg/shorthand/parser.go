// Package shorthand parses the compact fault-tree notation into a
// faulttree.FaultTree. The core model produces this notation but does
// not read it; this package is the loading collaborator.
//
// Grammar, one statement per line ('#' starts a comment):
//
//	ModelName                 bare identifier, names the model
//	G1 := (E1 & E2)           and gate
//	G2 := (G1 | E3)           or gate
//	G3 := @(2, [A, B, C])     atleast gate with threshold 2
//	G4 := ~E1                 not gate
//	G5 := (E1 ^ E2)           xor gate
//	G6 := E1                  null (pass-through) gate
//	p(E1) = 0.01              basic event probability
//	s(H1) = true              house event state
package shorthand

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/ritzau/fault-tree-analyzer/pkg/faulttree"
)

var (
	nameRe  = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)
	gateRe  = regexp.MustCompile(`^([A-Za-z][A-Za-z0-9_]*)\s*:=\s*(.+)$`)
	basicRe = regexp.MustCompile(`^p\(\s*([A-Za-z][A-Za-z0-9_]*)\s*\)\s*=\s*(\S+)$`)
	houseRe = regexp.MustCompile(`^s\(\s*([A-Za-z][A-Za-z0-9_]*)\s*\)\s*=\s*(true|false)$`)

	atleastRe = regexp.MustCompile(`^@\(\s*(\d+)\s*,\s*\[(.+)\]\s*\)$`)
	notRe     = regexp.MustCompile(`^~\s*([A-Za-z][A-Za-z0-9_]*)$`)
)

// gateDef is a gate statement before references are resolved.
type gateDef struct {
	name     string
	operator string
	kNum     int
	args     []string
	line     int
}

// ParseFile reads and parses a shorthand file.
func ParseFile(path string) (*faulttree.FaultTree, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening shorthand file: %w", err)
	}
	defer f.Close()
	ft, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ft, nil
}

// Parse reads shorthand statements and builds the fault tree. It works
// in two phases: collect all definitions, then materialize gates and
// resolve every argument reference. Unresolved references and
// duplicate definitions are errors.
func Parse(r io.Reader) (*faulttree.FaultTree, error) {
	modelName := ""
	var gateDefs []*gateDef
	defined := make(map[string]int) // name -> defining line

	type basicDef struct {
		prob float64
		line int
	}
	type houseDef struct {
		state string
		line  int
	}
	basics := make(map[string]basicDef)
	houses := make(map[string]houseDef)
	var basicOrder, houseOrder []string

	claim := func(name string, line int) error {
		if prev, ok := defined[name]; ok {
			return fmt.Errorf("line %d: %q already defined on line %d", line, name, prev)
		}
		defined[name] = line
		return nil
	}

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if i := strings.Index(line, "#"); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		switch {
		case gateRe.MatchString(line):
			m := gateRe.FindStringSubmatch(line)
			def, err := parseFormula(m[1], m[2], lineNo)
			if err != nil {
				return nil, err
			}
			if err := claim(def.name, lineNo); err != nil {
				return nil, err
			}
			gateDefs = append(gateDefs, def)

		case basicRe.MatchString(line):
			m := basicRe.FindStringSubmatch(line)
			prob, err := strconv.ParseFloat(m[2], 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: bad probability %q: %w", lineNo, m[2], err)
			}
			if err := claim(m[1], lineNo); err != nil {
				return nil, err
			}
			basics[m[1]] = basicDef{prob: prob, line: lineNo}
			basicOrder = append(basicOrder, m[1])

		case houseRe.MatchString(line):
			m := houseRe.FindStringSubmatch(line)
			if err := claim(m[1], lineNo); err != nil {
				return nil, err
			}
			houses[m[1]] = houseDef{state: m[2], line: lineNo}
			houseOrder = append(houseOrder, m[1])

		case nameRe.MatchString(line):
			if modelName != "" {
				return nil, fmt.Errorf("line %d: model already named %q", lineNo, modelName)
			}
			modelName = line

		default:
			return nil, fmt.Errorf("line %d: cannot parse statement %q", lineNo, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading shorthand input: %w", err)
	}
	if len(gateDefs) == 0 {
		return nil, fmt.Errorf("no gate definitions found")
	}
	if modelName == "" {
		modelName = "FaultTree"
	}

	// Materialize elements.
	ft := faulttree.NewFaultTree(modelName)
	gates := make(map[string]*faulttree.Gate, len(gateDefs))
	for _, def := range gateDefs {
		var g *faulttree.Gate
		if def.operator == "atleast" {
			g = faulttree.NewAtleastGate(def.name, def.kNum)
		} else {
			g = faulttree.NewGate(def.name, def.operator)
		}
		gates[def.name] = g
		if err := ft.AddGate(g); err != nil {
			return nil, fmt.Errorf("line %d: %w", def.line, err)
		}
	}
	basicEvents := make(map[string]*faulttree.BasicEvent, len(basics))
	for _, name := range basicOrder {
		e := faulttree.NewBasicEvent(name, basics[name].prob)
		basicEvents[name] = e
		if err := ft.AddBasicEvent(e); err != nil {
			return nil, fmt.Errorf("line %d: %w", basics[name].line, err)
		}
	}
	houseEvents := make(map[string]*faulttree.HouseEvent, len(houses))
	for _, name := range houseOrder {
		e := faulttree.NewHouseEvent(name, houses[name].state)
		houseEvents[name] = e
		if err := ft.AddHouseEvent(e); err != nil {
			return nil, fmt.Errorf("line %d: %w", houses[name].line, err)
		}
	}

	// Resolve references.
	for _, def := range gateDefs {
		g := gates[def.name]
		for _, arg := range def.args {
			switch {
			case gates[arg] != nil:
				g.AddArgument(gates[arg])
			case basicEvents[arg] != nil:
				g.AddArgument(basicEvents[arg])
			case houseEvents[arg] != nil:
				g.AddArgument(houseEvents[arg])
			default:
				return nil, fmt.Errorf("line %d: gate %q references undefined event %q",
					def.line, def.name, arg)
			}
		}
	}
	return ft, nil
}

// parseFormula classifies a single-operator gate expression.
func parseFormula(name, expr string, line int) (*gateDef, error) {
	expr = strings.TrimSpace(expr)

	if m := atleastRe.FindStringSubmatch(expr); m != nil {
		kNum, err := strconv.Atoi(m[1])
		if err != nil {
			return nil, fmt.Errorf("line %d: bad threshold %q: %w", line, m[1], err)
		}
		args, err := splitArgs(m[2], ",", line)
		if err != nil {
			return nil, err
		}
		if kNum < 1 || kNum >= len(args) {
			return nil, fmt.Errorf("line %d: atleast threshold %d out of range for %d arguments",
				line, kNum, len(args))
		}
		return &gateDef{name: name, operator: "atleast", kNum: kNum, args: args, line: line}, nil
	}

	if m := notRe.FindStringSubmatch(expr); m != nil {
		return &gateDef{name: name, operator: "not", args: []string{m[1]}, line: line}, nil
	}

	// One level of grouping parentheses is allowed around n-ary forms.
	if strings.HasPrefix(expr, "(") && strings.HasSuffix(expr, ")") {
		expr = strings.TrimSpace(expr[1 : len(expr)-1])
	}

	operators := []struct {
		token string
		name  string
	}{
		{"&", "and"},
		{"|", "or"},
		{"^", "xor"},
	}
	for _, op := range operators {
		if !strings.Contains(expr, op.token) {
			continue
		}
		for _, other := range operators {
			if other.token != op.token && strings.Contains(expr, other.token) {
				return nil, fmt.Errorf("line %d: mixed operators in formula %q", line, expr)
			}
		}
		args, err := splitArgs(expr, op.token, line)
		if err != nil {
			return nil, err
		}
		if len(args) < 2 {
			return nil, fmt.Errorf("line %d: operator %q needs at least two arguments", line, op.name)
		}
		return &gateDef{name: name, operator: op.name, args: args, line: line}, nil
	}

	if nameRe.MatchString(expr) {
		return &gateDef{name: name, operator: "null", args: []string{expr}, line: line}, nil
	}
	return nil, fmt.Errorf("line %d: cannot parse formula %q", line, expr)
}

func splitArgs(list, sep string, line int) ([]string, error) {
	parts := strings.Split(list, sep)
	args := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if !nameRe.MatchString(part) {
			return nil, fmt.Errorf("line %d: bad event reference %q", line, part)
		}
		args = append(args, part)
	}
	return args, nil
}
