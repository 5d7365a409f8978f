package interpreter

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/bpscript/internal/blueprint"
	"github.com/vk/bpscript/internal/ctxlog"
	"github.com/vk/bpscript/internal/registry"
	"github.com/vk/bpscript/internal/testutil"
)

// fixture is a registry of small test node types plus a graph to place them in.
type fixture struct {
	t     *testing.T
	reg   *registry.Registry
	graph *blueprint.Graph
	trace []string
	logs  *testutil.SafeBuffer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		t:     t,
		reg:   registry.New(),
		graph: blueprint.NewGraph(t.Name()),
		logs:  &testutil.SafeBuffer{},
	}
	t.Cleanup(func() {
		if os.Getenv("BPS_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), f.logs.String())
		}
	})

	f.reg.Register(&registry.Definition{
		Type: "Start", Kind: blueprint.KindEvent, Title: "Start",
		Outputs: []registry.SocketSpec{{ID: "exec_out", Name: "Exec", Type: blueprint.TypeExec}},
		Behavior: registry.BehaviorFunc(func(context.Context, *blueprint.Node, registry.Inputs, registry.ExecutionContext) (any, error) {
			f.trace = append(f.trace, "Start")
			return "exec_out", nil
		}),
	})
	f.reg.Register(&registry.Definition{
		Type: "Const", Kind: blueprint.KindData, Title: "Const",
		Outputs: []registry.SocketSpec{{ID: "value_out", Name: "Value", Type: blueprint.TypeAny}},
		Behavior: registry.BehaviorFunc(func(_ context.Context, n *blueprint.Node, _ registry.Inputs, _ registry.ExecutionContext) (any, error) {
			return n.Data["value"], nil
		}),
	})
	f.reg.Register(&registry.Definition{
		Type: "Add", Kind: blueprint.KindData, Title: "Add",
		Inputs: []registry.SocketSpec{
			{ID: "a_in", Name: "A", Type: blueprint.TypeFloat, Default: 0.0, Required: true},
			{ID: "b_in", Name: "B", Type: blueprint.TypeFloat, Default: 0.0, Required: true},
		},
		Outputs: []registry.SocketSpec{{ID: "result_out", Name: "Result", Type: blueprint.TypeFloat}},
		Behavior: registry.BehaviorFunc(func(_ context.Context, _ *blueprint.Node, in registry.Inputs, _ registry.ExecutionContext) (any, error) {
			return in.Float("A", 0) + in.Float("B", 0), nil
		}),
	})
	f.reg.Register(&registry.Definition{
		Type: "Relay", Kind: blueprint.KindData, Title: "Relay",
		Inputs:  []registry.SocketSpec{{ID: "in", Name: "In", Type: blueprint.TypeAny}},
		Outputs: []registry.SocketSpec{{ID: "out", Name: "Out", Type: blueprint.TypeAny}},
		Behavior: registry.BehaviorFunc(func(_ context.Context, _ *blueprint.Node, in registry.Inputs, _ registry.ExecutionContext) (any, error) {
			return in["In"], nil
		}),
	})
	f.reg.Register(&registry.Definition{
		Type: "Branch", Kind: blueprint.KindExec, Title: "Branch",
		Inputs: []registry.SocketSpec{
			{ID: "exec_in", Name: "Exec", Type: blueprint.TypeExec},
			{ID: "condition_in", Name: "Condition", Type: blueprint.TypeBool, Required: true},
		},
		Outputs: []registry.SocketSpec{
			{ID: "true_out", Name: "True", Type: blueprint.TypeExec},
			{ID: "false_out", Name: "False", Type: blueprint.TypeExec},
		},
		Behavior: registry.BehaviorFunc(func(_ context.Context, _ *blueprint.Node, in registry.Inputs, _ registry.ExecutionContext) (any, error) {
			if in.Bool("Condition") {
				return "true_out", nil
			}
			return "false_out", nil
		}),
	})
	f.reg.Register(&registry.Definition{
		Type: "Record", Kind: blueprint.KindExec, Title: "Record",
		Inputs: []registry.SocketSpec{
			{ID: "exec_in", Name: "Exec", Type: blueprint.TypeExec},
			{ID: "label_in", Name: "Label", Type: blueprint.TypeString},
		},
		Outputs: []registry.SocketSpec{{ID: "exec_out", Name: "Exec", Type: blueprint.TypeExec}},
		Behavior: registry.BehaviorFunc(func(_ context.Context, n *blueprint.Node, in registry.Inputs, _ registry.ExecutionContext) (any, error) {
			f.trace = append(f.trace, in.String("Label", n.ID))
			return "exec_out", nil
		}),
	})
	return f
}

// place adds a node of a registered type under a fixed id.
func (f *fixture) place(nodeType, id string, data map[string]any) {
	f.t.Helper()
	def, ok := f.reg.Get(nodeType)
	require.True(f.t, ok, "unknown test node type %s", nodeType)
	n := def.Create(data)
	n.ID = id
	_, err := f.graph.AddNode(n)
	require.NoError(f.t, err)
}

// wire appends a connection without the editor's replace-on-input rule so
// tests can build graphs an editor would refuse.
func (f *fixture) wire(from, fromSocket, to, toSocket string) {
	f.graph.Connections = append(f.graph.Connections, blueprint.Connection{
		ID:           from + "." + fromSocket + "->" + to + "." + toSocket,
		FromNodeID:   from,
		FromSocketID: fromSocket,
		ToNodeID:     to,
		ToSocketID:   toSocket,
	})
}

func (f *fixture) ctx() context.Context {
	return ctxlog.WithLogger(context.Background(), testutil.NewLogger(f.logs))
}

func (f *fixture) interpreter(opts ...Option) *Interpreter {
	return New(f.graph, f.reg, opts...)
}
