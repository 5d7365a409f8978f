package codegen

import (
	"context"
	"fmt"
	"strings"

	"github.com/vk/bpscript/internal/blueprint"
	"github.com/vk/bpscript/internal/ctxlog"
	"github.com/vk/bpscript/internal/registry"
)

// DefaultClassName is used when Generate is called without a class name.
const DefaultClassName = "GeneratedBlueprint"

const indentUnit = "    "

// DiagnosticKind says what happened to a node during lowering.
type DiagnosticKind string

const (
	Emitted     DiagnosticKind = "emitted"
	Unsupported DiagnosticKind = "unsupported"
)

// Diagnostic reports the lowering of one node.
type Diagnostic struct {
	Kind     DiagnosticKind
	NodeID   string
	NodeType string
	Reason   string
}

// Result is the output of one lowering.
type Result struct {
	Source      string
	Diagnostics []Diagnostic
}

// Unsupported returns the diagnostics of nodes that were replaced by a
// placeholder comment.
func (r Result) Unsupported() []Diagnostic {
	var out []Diagnostic
	for _, d := range r.Diagnostics {
		if d.Kind == Unsupported {
			out = append(out, d)
		}
	}
	return out
}

// eventMethods maps event node types to the Unity message methods they lower
// into, in emission order.
var eventMethods = []struct {
	nodeType  string
	signature string
}{
	{"Start", "void Start()"},
	{"OnUpdate", "void Update()"},
	{"OnTriggerEnter", "void OnTriggerEnter(Collider other)"},
}

// Generator lowers graphs into Unity C# MonoBehaviour source.
type Generator struct {
	registry *registry.Registry
}

// New creates a generator. The registry is consulted only to tell known node
// types from unknown ones.
func New(reg *registry.Registry) *Generator {
	return &Generator{registry: reg}
}

// Generate lowers graph into the source of a single class. It never fails:
// nodes it cannot express become comments and are reported as Unsupported.
func (g *Generator) Generate(ctx context.Context, graph *blueprint.Graph, className string) Result {
	logger := ctxlog.FromContext(ctx)
	if className == "" {
		className = DefaultClassName
	}

	e := &emitter{graph: graph, registry: g.registry, reported: make(map[string]bool)}
	e.line(0, "using UnityEngine;")
	e.line(0, "using System.Collections;")
	e.line(0, "")
	e.line(0, "public class %s : MonoBehaviour", identifier(className))
	e.line(0, "{")

	if len(graph.Variables) > 0 {
		e.line(1, "// Variables")
		for _, v := range graph.Variables {
			decl := fmt.Sprintf("private %s %s", CSharpType(v.Type), identifier(v.Name))
			if v.DefaultValue != nil {
				decl += " = " + FormatLiteral(v.DefaultValue, v.Type)
			}
			e.line(1, "%s;", decl)
		}
		e.line(0, "")
	}

	for _, m := range eventMethods {
		nodes := graph.NodesOfType(m.nodeType)
		if len(nodes) == 0 {
			continue
		}
		e.line(1, m.signature)
		e.line(1, "{")
		for _, n := range nodes {
			e.emitted(n)
			e.chain(n, "exec_out", 2, make(map[string]bool))
		}
		e.line(1, "}")
		e.line(0, "")
	}

	e.line(1, "// Helper methods")
	for i := range graph.Nodes {
		n := &graph.Nodes[i]
		if n.Kind != blueprint.KindData {
			continue
		}
		e.helper(n, i)
	}
	e.line(0, "}")

	logger.Debug("Generated C# source.", "graphID", graph.ID, "class", className, "unsupported", len(Result{Diagnostics: e.diags}.Unsupported()))
	return Result{Source: strings.Join(e.lines, "\n") + "\n", Diagnostics: e.diags}
}

type emitter struct {
	graph    *blueprint.Graph
	registry *registry.Registry
	lines    []string
	diags    []Diagnostic
	reported map[string]bool
}

func (e *emitter) line(indent int, format string, args ...any) {
	text := format
	if len(args) > 0 {
		text = fmt.Sprintf(format, args...)
	}
	if text == "" {
		e.lines = append(e.lines, "")
		return
	}
	e.lines = append(e.lines, strings.Repeat(indentUnit, indent)+text)
}

func (e *emitter) emitted(n *blueprint.Node) {
	if e.reported[n.ID] {
		return
	}
	e.reported[n.ID] = true
	e.diags = append(e.diags, Diagnostic{Kind: Emitted, NodeID: n.ID, NodeType: n.Type})
}

func (e *emitter) unsupported(n *blueprint.Node, reason string) {
	if e.reported[n.ID] {
		return
	}
	e.reported[n.ID] = true
	e.diags = append(e.diags, Diagnostic{Kind: Unsupported, NodeID: n.ID, NodeType: n.Type, Reason: reason})
}

// chain emits the statements reached from one exec output. path holds the
// nodes on the current chain so a loop becomes a comment.
func (e *emitter) chain(from *blueprint.Node, output string, indent int, path map[string]bool) {
	for _, c := range e.graph.ConnectionsFrom(from.ID, output) {
		next, ok := e.graph.Node(c.ToNodeID)
		if !ok {
			e.line(indent, "// Missing node %s", c.ToNodeID)
			continue
		}
		if next.Kind != blueprint.KindExec {
			continue
		}
		e.statement(next, indent, path)
	}
}

func (e *emitter) statement(n *blueprint.Node, indent int, path map[string]bool) {
	if path[n.ID] {
		e.line(indent, "// Loops back to %s", label(n))
		return
	}
	path[n.ID] = true
	defer delete(path, n.ID)

	if _, ok := e.registry.Get(n.Type); !ok {
		e.line(indent, "// Node %s not implemented", n.Type)
		e.unsupported(n, "no definition registered")
		return
	}

	tmpl, ok := statements[n.Type]
	if !ok {
		e.line(indent, "// %s node", n.Type)
		e.unsupported(n, "no statement template")
		for _, out := range n.ExecOutputs() {
			e.chain(n, out.ID, indent, path)
		}
		return
	}
	if reason := tmpl(e, n, indent, path); reason != "" {
		e.unsupported(n, reason)
		return
	}
	e.emitted(n)
}

// helper emits a private method returning the value of a data node.
func (e *emitter) helper(n *blueprint.Node, index int) {
	if _, ok := e.registry.Get(n.Type); !ok {
		e.line(1, "// Node %s not implemented", n.Type)
		e.unsupported(n, "no definition registered")
		return
	}
	tmpl, ok := expressions[n.Type]
	if !ok {
		e.line(1, "// %s node", n.Type)
		e.unsupported(n, "no expression template")
		return
	}
	expr, reason := tmpl(e, n)
	if reason != "" {
		e.line(1, "// %s node", n.Type)
		e.unsupported(n, reason)
		return
	}

	returnType := "object"
	if len(n.Outputs) > 0 {
		returnType = CSharpType(n.Outputs[0].Type)
	}
	e.line(1, "private %s %s_%d()", returnType, identifier(n.Type), index)
	e.line(1, "{")
	e.line(2, "return %s;", expr)
	e.line(1, "}")
	e.line(0, "")
	e.emitted(n)
}

// input renders the value of an input socket, looked up by display name.
func (e *emitter) input(n *blueprint.Node, name string) string {
	s, ok := n.InputByName(name)
	if !ok {
		return "0"
	}
	if _, connected := e.graph.ConnectionInto(n.ID, s.ID); connected {
		return ConnectedPlaceholder
	}
	if s.HasDefault() {
		return FormatLiteral(s.DefaultValue, s.Type)
	}
	return DefaultLiteral(s.Type)
}

// inputOrData is like input but prefers a literal from the node's data when
// the socket is neither connected nor defaulted.
func (e *emitter) inputOrData(n *blueprint.Node, name, key string) string {
	if s, ok := n.InputByName(name); ok {
		_, connected := e.graph.ConnectionInto(n.ID, s.ID)
		if !connected && !s.HasDefault() {
			if v, ok := n.Data[key]; ok && v != nil {
				return FormatLiteral(v, s.Type)
			}
		}
	}
	return e.input(n, name)
}

// literal returns the raw configured text of an input, taken from the
// node's data or the socket default. Connected inputs have none.
func (e *emitter) literal(n *blueprint.Node, name, key string) string {
	if s, ok := n.InputByName(name); ok {
		if _, connected := e.graph.ConnectionInto(n.ID, s.ID); connected {
			return ""
		}
		if v, ok := n.DataString(key); ok && v != "" {
			return v
		}
		if v, ok := s.DefaultValue.(string); ok {
			return v
		}
		return ""
	}
	v, _ := n.DataString(key)
	return v
}

func label(n *blueprint.Node) string {
	if n.Title != "" {
		return n.Title
	}
	return n.Type
}
