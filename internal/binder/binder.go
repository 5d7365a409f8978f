package binder

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/vk/bpscript/internal/blueprint"
	"github.com/vk/bpscript/internal/bus"
	"github.com/vk/bpscript/internal/ctxlog"
	"github.com/vk/bpscript/internal/interpreter"
	"github.com/vk/bpscript/internal/registry"
)

// Bus topics.
const (
	TopicReady         = "blueprint.ready"
	TopicTrigger       = "blueprint.trigger"
	TopicEvent         = "blueprint.event"
	TopicVariableSet   = "blueprint.variable.set"
	TopicVariableGet   = "blueprint.variable.get"
	TopicVariable      = "blueprint.variable"
	TopicError         = "blueprint.error"
	TopicDelayComplete = "delay.complete"
)

// DelayCompletedOutput is the exec output resumed when the host reports a
// finished delay.
const DelayCompletedOutput = "completed_out"

// ErrNotBound is returned when an operation needs a bound graph.
var ErrNotBound = errors.New("no graph is bound")

// ErrClosed is returned by operations on a closed binder.
var ErrClosed = errors.New("binder is closed")

// Binder connects one graph at a time to a host over a message bus. It owns
// the graph's interpreter and serializes every entry into it, so bus
// callbacks may arrive on any goroutine.
type Binder struct {
	mu       sync.Mutex
	bus      bus.Bus
	registry *registry.Registry
	opts     []interpreter.Option

	graph  *blueprint.Graph
	interp *interpreter.Interpreter
	unsubs []func()
	closed bool
}

// New creates a binder and subscribes it to the host topics on b. opts are
// applied to every interpreter the binder creates.
func New(reg *registry.Registry, b bus.Bus, opts ...interpreter.Option) *Binder {
	bd := &Binder{bus: b, registry: reg, opts: opts}
	bd.unsubs = []func(){
		b.On(TopicTrigger, bd.handleTrigger),
		b.On(TopicEvent, bd.handleEvent),
		b.On(TopicVariableSet, bd.handleVariableSet),
		b.On(TopicVariableGet, bd.handleVariableGet),
		b.On(TopicDelayComplete, bd.handleDelayComplete),
	}
	return bd
}

// Bind replaces the bound graph with graph, starting a fresh interpreter,
// and announces it on TopicReady.
func (b *Binder) Bind(ctx context.Context, graph *blueprint.Graph) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return ErrClosed
	}

	opts := append([]interpreter.Option{interpreter.WithHostSender(b.bus.Send)}, b.opts...)
	b.graph = graph
	b.interp = interpreter.New(graph, b.registry, opts...)

	ctxlog.FromContext(ctx).Info("🚀 Graph bound.", "graphID", graph.ID, "name", graph.Name, "nodes", len(graph.Nodes))
	return b.bus.Send(ctx, TopicReady, map[string]any{"graphId": graph.ID, "name": graph.Name})
}

// Trigger executes the bound graph from entryPoint, or from the graph's own
// entry point when entryPoint is empty.
func (b *Binder) Trigger(ctx context.Context, entryPoint string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.ready(); err != nil {
		return err
	}
	ctxlog.FromContext(ctx).Info("▶️ Triggering graph.", "graphID", b.graph.ID, "entryPoint", entryPoint)
	return b.interp.Execute(ctx, entryPoint)
}

// OnHostEvent runs every node whose type tag, or data.eventType, equals
// eventType. A map payload supplies the node's inputs; any other payload is
// passed under the key "payload". Each matching node runs even if an earlier
// one failed; the failures are joined.
func (b *Binder) OnHostEvent(ctx context.Context, eventType string, payload any) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.ready(); err != nil {
		return err
	}

	provided, ok := payload.(map[string]any)
	if !ok && payload != nil {
		provided = map[string]any{"payload": payload}
	}

	logger := ctxlog.FromContext(ctx)
	var errs []error
	matched := 0
	for _, n := range b.matching(eventType) {
		matched++
		if _, err := b.interp.ExecuteNode(ctx, n.ID, provided); err != nil {
			errs = append(errs, err)
		}
	}
	logger.Debug("Host event dispatched.", "eventType", eventType, "matched", matched)
	return errors.Join(errs...)
}

func (b *Binder) matching(eventType string) []*blueprint.Node {
	var out []*blueprint.Node
	for i := range b.graph.Nodes {
		n := &b.graph.Nodes[i]
		if n.Type == eventType {
			out = append(out, n)
			continue
		}
		if et, ok := n.DataString("eventType"); ok && et == eventType {
			out = append(out, n)
		}
	}
	return out
}

// Continue resumes a suspended flow from one exec output of a node.
func (b *Binder) Continue(ctx context.Context, nodeID, outputSocketID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.ready(); err != nil {
		return err
	}
	return b.interp.Continue(ctx, nodeID, outputSocketID)
}

// Variable reads a runtime variable of the bound graph.
func (b *Binder) Variable(name string) (any, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.interp == nil {
		return nil, false
	}
	return b.interp.Variable(name)
}

// SetVariable writes a runtime variable of the bound graph.
func (b *Binder) SetVariable(name string, v any) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.ready(); err != nil {
		return err
	}
	b.interp.SetVariable(name, v)
	return nil
}

// Variables returns a copy of every runtime variable of the bound graph.
func (b *Binder) Variables() map[string]any {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.interp == nil {
		return map[string]any{}
	}
	return b.interp.Variables()
}

// Diagnostics returns the conditions the bound interpreter recovered from.
func (b *Binder) Diagnostics() []interpreter.Diagnostic {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.interp == nil {
		return nil
	}
	return b.interp.Diagnostics()
}

// Graph returns the bound graph, or nil.
func (b *Binder) Graph() *blueprint.Graph {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.graph
}

// Close unsubscribes every bus handler. The bus itself stays open.
func (b *Binder) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true
	for _, unsubscribe := range b.unsubs {
		unsubscribe()
	}
	b.unsubs = nil
	return nil
}

func (b *Binder) ready() error {
	if b.closed {
		return ErrClosed
	}
	if b.interp == nil {
		return ErrNotBound
	}
	return nil
}

// report logs a failed host request and forwards it on TopicError.
func (b *Binder) report(ctx context.Context, topic string, err error) {
	ctxlog.FromContext(ctx).Error("Host request failed.", "topic", topic, "error", err)
	payload := map[string]any{"topic": topic, "error": err.Error()}
	var ne *interpreter.NodeError
	if errors.As(err, &ne) {
		payload["nodeId"] = ne.NodeID
	}
	if sendErr := b.bus.Send(ctx, TopicError, payload); sendErr != nil {
		ctxlog.FromContext(ctx).Warn("Failed to report error to host.", "error", sendErr)
	}
}

func (b *Binder) handleTrigger(ctx context.Context, payload any) {
	entryPoint, _ := field(payload, "entryPoint").(string)
	if err := b.Trigger(ctx, entryPoint); err != nil {
		b.report(ctx, TopicTrigger, err)
	}
}

func (b *Binder) handleEvent(ctx context.Context, payload any) {
	eventType, _ := field(payload, "eventType").(string)
	if eventType == "" {
		b.report(ctx, TopicEvent, fmt.Errorf("event message has no eventType"))
		return
	}
	if err := b.OnHostEvent(ctx, eventType, field(payload, "payload")); err != nil {
		b.report(ctx, TopicEvent, err)
	}
}

func (b *Binder) handleVariableSet(ctx context.Context, payload any) {
	name, _ := field(payload, "name").(string)
	if name == "" {
		b.report(ctx, TopicVariableSet, fmt.Errorf("variable message has no name"))
		return
	}
	if err := b.SetVariable(name, field(payload, "value")); err != nil {
		b.report(ctx, TopicVariableSet, err)
	}
}

func (b *Binder) handleVariableGet(ctx context.Context, payload any) {
	name, _ := field(payload, "name").(string)
	v, found := b.Variable(name)
	reply := map[string]any{"name": name, "value": v, "found": found}
	if err := b.bus.Send(ctx, TopicVariable, reply); err != nil {
		ctxlog.FromContext(ctx).Warn("Failed to reply with variable.", "name", name, "error", err)
	}
}

func (b *Binder) handleDelayComplete(ctx context.Context, payload any) {
	nodeID, _ := field(payload, "nodeId").(string)
	if nodeID == "" {
		b.report(ctx, TopicDelayComplete, fmt.Errorf("delay completion has no nodeId"))
		return
	}
	if err := b.Continue(ctx, nodeID, DelayCompletedOutput); err != nil {
		b.report(ctx, TopicDelayComplete, err)
	}
}

func field(payload any, key string) any {
	m, ok := payload.(map[string]any)
	if !ok {
		return nil
	}
	return m[key]
}
