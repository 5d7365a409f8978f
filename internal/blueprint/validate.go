package blueprint

import (
	"fmt"
	"sort"
)

// Validate checks the structural invariants of the graph and returns a
// *ValidationError listing every violation, or nil.
//
// The checks are:
//   - node ids are non-empty and unique
//   - socket ids are unique within a node's combined input and output set,
//     and every socket sits in the list matching its direction
//   - socket and variable types belong to the closed type set
//   - each connection leaves an output socket and enters an input socket of
//     existing nodes, with compatible types
//   - at most one connection terminates at each input socket
//   - the entry point, when set, names an existing node
func (g *Graph) Validate() error {
	var problems []string
	report := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	seenNodes := make(map[string]struct{}, len(g.Nodes))
	for _, n := range g.Nodes {
		if n.ID == "" {
			report("node of type %q has an empty id", n.Type)
			continue
		}
		if _, dup := seenNodes[n.ID]; dup {
			report("duplicate node id %q", n.ID)
		}
		seenNodes[n.ID] = struct{}{}

		seenSockets := make(map[string]struct{}, len(n.Inputs)+len(n.Outputs))
		check := func(s Socket, want Direction) {
			if _, dup := seenSockets[s.ID]; dup {
				report("node %q: duplicate socket id %q", n.ID, s.ID)
			}
			seenSockets[s.ID] = struct{}{}
			if s.Direction != want {
				report("node %q: socket %q is listed as %s but declares direction %q", n.ID, s.ID, want, s.Direction)
			}
			if !s.Type.Valid() {
				report("node %q: socket %q has unknown type %q", n.ID, s.ID, s.Type)
			}
		}
		for _, s := range n.Inputs {
			check(s, DirectionInput)
		}
		for _, s := range n.Outputs {
			check(s, DirectionOutput)
		}
	}

	inbound := make(map[string]int)
	for _, c := range g.Connections {
		from, okFrom := g.Node(c.FromNodeID)
		to, okTo := g.Node(c.ToNodeID)
		if !okFrom {
			report("connection %q: source node %q not found", c.ID, c.FromNodeID)
		}
		if !okTo {
			report("connection %q: destination node %q not found", c.ID, c.ToNodeID)
		}
		if !okFrom || !okTo {
			continue
		}
		out, okOut := from.Output(c.FromSocketID)
		in, okIn := to.Input(c.ToSocketID)
		if !okOut {
			report("connection %q: %q is not an output socket of node %q", c.ID, c.FromSocketID, c.FromNodeID)
		}
		if !okIn {
			report("connection %q: %q is not an input socket of node %q", c.ID, c.ToSocketID, c.ToNodeID)
		}
		if okOut && okIn && !Compatible(out.Type, in.Type) {
			report("connection %q: cannot connect %s output to %s input", c.ID, out.Type, in.Type)
		}
		inbound[c.ToNodeID+"/"+c.ToSocketID]++
	}
	keys := make([]string, 0, len(inbound))
	for key := range inbound {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if count := inbound[key]; count > 1 {
			report("input %s has %d connections; the last registered one wins", key, count)
		}
	}

	seenVars := make(map[string]struct{}, len(g.Variables))
	for _, v := range g.Variables {
		if v.Name == "" {
			report("variable %q has an empty name", v.ID)
			continue
		}
		if _, dup := seenVars[v.Name]; dup {
			report("duplicate variable name %q", v.Name)
		}
		seenVars[v.Name] = struct{}{}
		if !v.Type.Valid() {
			report("variable %q has unknown type %q", v.Name, v.Type)
		}
	}

	if g.EntryPoint != "" {
		if _, ok := g.Node(g.EntryPoint); !ok {
			report("entry point %q not found", g.EntryPoint)
		}
	}

	if len(problems) == 0 {
		return nil
	}
	return &ValidationError{GraphID: g.ID, Problems: problems}
}
