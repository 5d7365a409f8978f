package registry

import (
	"context"

	"github.com/vk/bpscript/internal/blueprint"
	"github.com/vk/bpscript/internal/value"
)

// ExecutionContext is the view of a running interpreter that behaviours get.
type ExecutionContext interface {
	// Graph returns the graph being executed. Behaviours must not modify it.
	Graph() *blueprint.Graph
	Variable(name string) (any, bool)
	SetVariable(name string, v any)
	// ExecuteNode runs another node. inputs are keyed by socket id or name.
	ExecuteNode(ctx context.Context, nodeID string, inputs map[string]any) (any, error)
	// Continue follows the connections leaving one exec output of nodeID.
	Continue(ctx context.Context, nodeID, outputSocketID string) error
	// SetOutput publishes the value of a data output on an exec or event
	// node. Downstream pulls read it instead of re-running the node.
	SetOutput(nodeID, outputSocketID string, v any)
	// SendToHost publishes a message for the host runtime. It is a no-op
	// when no host is attached.
	SendToHost(ctx context.Context, topic string, payload any) error
}

// Behavior gives a node type its runtime semantics. For exec nodes the
// returned value is the id of the output socket to continue from; for data
// nodes it is the node's value.
type Behavior interface {
	Execute(ctx context.Context, node *blueprint.Node, in Inputs, ec ExecutionContext) (any, error)
}

// BehaviorFunc adapts an ordinary function to Behavior.
type BehaviorFunc func(ctx context.Context, node *blueprint.Node, in Inputs, ec ExecutionContext) (any, error)

// Execute calls f.
func (f BehaviorFunc) Execute(ctx context.Context, node *blueprint.Node, in Inputs, ec ExecutionContext) (any, error) {
	return f(ctx, node, in, ec)
}

// Inputs holds a node's resolved input values keyed by socket name. An input
// that could not be resolved is absent.
type Inputs map[string]any

// Has reports whether the named input resolved to a value.
func (in Inputs) Has(name string) bool {
	v, ok := in[name]
	return ok && v != nil
}

// Float reads a numeric input, falling back when absent or non-numeric.
func (in Inputs) Float(name string, fallback float64) float64 {
	return value.FloatOr(in[name], fallback)
}

// Bool reads the truthiness of an input.
func (in Inputs) Bool(name string) bool {
	return value.Bool(in[name])
}

// String reads an input as text, falling back when absent or empty.
func (in Inputs) String(name, fallback string) string {
	return value.StringOr(in[name], fallback)
}

// Vector3 reads a vector input, falling back to the zero vector.
func (in Inputs) Vector3(name string) blueprint.Vector3 {
	return value.Vector3Or(in[name], blueprint.Vector3{})
}
