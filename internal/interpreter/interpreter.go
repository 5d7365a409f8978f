package interpreter

import (
	"context"
	"fmt"

	"github.com/vk/bpscript/internal/blueprint"
	"github.com/vk/bpscript/internal/ctxlog"
	"github.com/vk/bpscript/internal/registry"
	"github.com/vk/bpscript/internal/value"
)

// Interpreter executes one graph. Data inputs are pulled lazily from their
// source nodes on every use; control flow is pushed eagerly along exec
// connections once a node finishes.
//
// An Interpreter is single-threaded: callers that receive events from
// several goroutines must serialize their calls.
type Interpreter struct {
	graph    *blueprint.Graph
	registry *registry.Registry

	variables map[string]any
	outputs   map[string]map[string]any
	executing map[string]struct{}
	depth     int

	maxDepth        int
	policy          Policy
	send            HostSender
	propagateEvents bool
	diagnostics     []Diagnostic
}

var _ registry.ExecutionContext = (*Interpreter)(nil)

// New creates an interpreter for graph. Declared variables start at their
// default values.
func New(graph *blueprint.Graph, reg *registry.Registry, opts ...Option) *Interpreter {
	it := &Interpreter{
		graph:           graph,
		registry:        reg,
		variables:       make(map[string]any, len(graph.Variables)),
		outputs:         make(map[string]map[string]any),
		executing:       make(map[string]struct{}),
		maxDepth:        DefaultMaxDepth,
		propagateEvents: true,
	}
	for _, v := range graph.Variables {
		it.variables[v.Name] = v.DefaultValue
	}
	for _, opt := range opts {
		opt(it)
	}
	return it
}

// Graph returns the graph being executed.
func (it *Interpreter) Graph() *blueprint.Graph {
	return it.graph
}

// Execute runs the graph from entryPoint, or from the graph's own entry
// point when entryPoint is empty. A graph with neither is a no-op.
func (it *Interpreter) Execute(ctx context.Context, entryPoint string) error {
	logger := ctxlog.FromContext(ctx)
	if entryPoint == "" {
		entryPoint = it.graph.EntryPoint
	}
	if entryPoint == "" {
		logger.Debug("Graph has no entry point, nothing to execute.", "graphID", it.graph.ID)
		return nil
	}

	logger.Debug("Executing graph.", "graphID", it.graph.ID, "entryPoint", entryPoint)
	if _, err := it.ExecuteNode(ctx, entryPoint, nil); err != nil {
		return err
	}
	logger.Debug("Graph execution finished.", "graphID", it.graph.ID)
	return nil
}

// ExecuteNode runs a single node and whatever control flow it triggers, and
// returns the node's value. provided supplies input values directly, keyed
// by socket id or socket name; entries that name no input socket are passed
// to the behaviour as extra inputs, which is how event payloads arrive.
func (it *Interpreter) ExecuteNode(ctx context.Context, nodeID string, provided map[string]any) (any, error) {
	logger := ctxlog.FromContext(ctx)

	if _, busy := it.executing[nodeID]; busy {
		it.diagnose(DiagCycle, nodeID, "", "")
		if it.policy.StrictCycles {
			return nil, &NodeError{NodeID: nodeID, Err: ErrCycleDetected}
		}
		logger.Warn("Node is already executing, skipping re-entry.", "nodeID", nodeID)
		return nil, nil
	}
	if it.maxDepth > 0 && it.depth >= it.maxDepth {
		return nil, &NodeError{NodeID: nodeID, Err: fmt.Errorf("%w (limit %d)", ErrDepthExceeded, it.maxDepth)}
	}

	it.executing[nodeID] = struct{}{}
	it.depth++
	defer func() {
		delete(it.executing, nodeID)
		it.depth--
	}()

	node, ok := it.graph.Node(nodeID)
	if !ok {
		return nil, &NodeError{NodeID: nodeID, Err: ErrNodeNotFound}
	}
	def, ok := it.registry.Get(node.Type)
	if !ok {
		return nil, &NodeError{NodeID: nodeID, NodeType: node.Type, Err: ErrDefinitionNotFound}
	}

	inputs, err := it.resolveInputs(ctx, node, def, provided)
	if err != nil {
		return nil, err
	}

	logger.Debug("Executing node.", "nodeID", nodeID, "nodeType", node.Type)
	var result any
	if def.Behavior != nil {
		result, err = def.Behavior.Execute(ctx, node, inputs, it)
		if err != nil {
			return nil, nodeErr(nodeID, node.Type, err)
		}
	}

	if node.Kind == blueprint.KindExec || (it.propagateEvents && node.Kind == blueprint.KindEvent) {
		if branch, ok := result.(string); ok && branch != "" {
			if err := it.follow(ctx, node, branch); err != nil {
				return nil, err
			}
		}
	}
	return result, nil
}

// Continue follows the exec connections leaving one output of a node
// without running the node itself. Hosts use it to resume a flow that a node
// such as Delay suspended.
func (it *Interpreter) Continue(ctx context.Context, nodeID, outputSocketID string) error {
	node, ok := it.graph.Node(nodeID)
	if !ok {
		return &NodeError{NodeID: nodeID, Err: ErrNodeNotFound}
	}
	return it.follow(ctx, node, outputSocketID)
}

// follow pushes control flow along every connection leaving the given exec
// output, in connection order. Only exec-kind destinations run; data nodes
// wait to be pulled.
func (it *Interpreter) follow(ctx context.Context, node *blueprint.Node, branch string) error {
	logger := ctxlog.FromContext(ctx)
	if _, ok := node.Output(branch); !ok {
		it.diagnose(DiagUnknownBranch, node.ID, node.Type, branch)
		logger.Warn("Behavior selected an output the node does not have, stopping this flow.", "nodeID", node.ID, "nodeType", node.Type, "socket", branch)
		return nil
	}

	for _, c := range it.graph.ConnectionsFrom(node.ID, branch) {
		next, ok := it.graph.Node(c.ToNodeID)
		if !ok {
			return &NodeError{NodeID: c.ToNodeID, Err: ErrNodeNotFound}
		}
		if next.Kind != blueprint.KindExec {
			logger.Debug("Exec output reaches a non-exec node, not running it.", "from", node.ID, "to", next.ID)
			continue
		}
		if _, err := it.ExecuteNode(ctx, next.ID, nil); err != nil {
			return err
		}
	}
	return nil
}

// resolveInputs gathers a node's input values in socket declaration order.
// Exec inputs carry no value and are skipped. An input is taken from, in
// order: the provided values, its connection, the node data entry its
// definition names, and the socket default.
func (it *Interpreter) resolveInputs(ctx context.Context, node *blueprint.Node, def *registry.Definition, provided map[string]any) (registry.Inputs, error) {
	logger := ctxlog.FromContext(ctx)
	inputs := make(registry.Inputs, len(node.Inputs))
	consumed := make(map[string]struct{})

	for _, s := range node.Inputs {
		consumed[s.ID] = struct{}{}
		consumed[s.Name] = struct{}{}
		if s.Type == blueprint.TypeExec {
			continue
		}

		if v, ok := provided[s.ID]; ok {
			inputs[s.Name] = coerce(ctx, node, s, v)
			continue
		}
		if v, ok := provided[s.Name]; ok {
			inputs[s.Name] = coerce(ctx, node, s, v)
			continue
		}

		if c, ok := it.graph.ConnectionInto(node.ID, s.ID); ok {
			v, err := it.pull(ctx, c)
			if err != nil {
				return nil, err
			}
			inputs[s.Name] = v
			continue
		}

		if spec, ok := def.Input(s.ID); ok && spec.DataKey != "" {
			if v, ok := node.Data[spec.DataKey]; ok && v != nil {
				inputs[s.Name] = v
				continue
			}
		}

		if s.HasDefault() {
			inputs[s.Name] = s.DefaultValue
			continue
		}

		if s.Required {
			it.diagnose(DiagMissingInput, node.ID, node.Type, s.ID)
			if it.policy.StrictRequiredInputs {
				return nil, &NodeError{NodeID: node.ID, NodeType: node.Type, Err: fmt.Errorf("%w: %s", ErrMissingInput, s.Name)}
			}
			logger.Warn("Required input is not connected and has no default, leaving it unresolved.", "nodeID", node.ID, "nodeType", node.Type, "socket", s.ID)
		}
	}

	for k, v := range provided {
		if _, ok := consumed[k]; !ok {
			inputs[k] = v
		}
	}
	return inputs, nil
}

// coerce converts a provided value to the socket's type, so a host payload
// such as "2.5" reaches a float input as a number. A value that does not
// convert is passed through unchanged.
func coerce(ctx context.Context, node *blueprint.Node, s blueprint.Socket, v any) any {
	out, err := value.Coerce(v, s.Type)
	if err != nil {
		ctxlog.FromContext(ctx).Debug("Provided input does not match its socket type, passing it through.", "nodeID", node.ID, "socket", s.ID, "error", err)
		return v
	}
	return out
}

// pull evaluates the source of a data connection. Data sources run again on
// every pull. Exec and event sources are statements, so a pull reads the
// value they last published on that output instead of running them.
func (it *Interpreter) pull(ctx context.Context, c *blueprint.Connection) (any, error) {
	src, ok := it.graph.Node(c.FromNodeID)
	if ok && (src.Kind == blueprint.KindExec || src.Kind == blueprint.KindEvent) {
		v, published := it.outputs[src.ID][c.FromSocketID]
		if !published {
			it.diagnose(DiagUnpublished, src.ID, src.Type, c.FromSocketID)
			ctxlog.FromContext(ctx).Debug("Output has not been published yet.", "nodeID", src.ID, "socket", c.FromSocketID)
		}
		return v, nil
	}
	return it.ExecuteNode(ctx, c.FromNodeID, nil)
}

// SetOutput publishes a value on a data output of an exec or event node.
func (it *Interpreter) SetOutput(nodeID, outputSocketID string, v any) {
	outs, ok := it.outputs[nodeID]
	if !ok {
		outs = make(map[string]any)
		it.outputs[nodeID] = outs
	}
	outs[outputSocketID] = v
}

// Variable reads a runtime variable.
func (it *Interpreter) Variable(name string) (any, bool) {
	v, ok := it.variables[name]
	return v, ok
}

// SetVariable writes a runtime variable. Names need not be declared by the
// graph.
func (it *Interpreter) SetVariable(name string, v any) {
	it.variables[name] = v
}

// Variables returns a copy of every runtime variable.
func (it *Interpreter) Variables() map[string]any {
	out := make(map[string]any, len(it.variables))
	for k, v := range it.variables {
		out[k] = v
	}
	return out
}

// SendToHost forwards a message to the host sender, if one is attached.
func (it *Interpreter) SendToHost(ctx context.Context, topic string, payload any) error {
	if it.send == nil {
		it.diagnose(DiagNoHost, "", "", topic)
		ctxlog.FromContext(ctx).Debug("No host attached, dropping message.", "topic", topic)
		return nil
	}
	return it.send(ctx, topic, payload)
}
