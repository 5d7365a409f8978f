package variables

import (
	"context"

	"github.com/vk/bpscript/internal/blueprint"
	"github.com/vk/bpscript/internal/ctxlog"
	"github.com/vk/bpscript/internal/registry"
)

const (
	category = "Variables"
	color    = "#3498DB"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// variableName reads the Name input, falling back to data.variableName.
func variableName(n *blueprint.Node, in registry.Inputs) string {
	fallback, _ := n.DataString("variableName")
	return in.String("Name", fallback)
}

func getVariable(ctx context.Context, n *blueprint.Node, in registry.Inputs, ec registry.ExecutionContext) (any, error) {
	name := variableName(n, in)
	v, ok := ec.Variable(name)
	if !ok {
		ctxlog.FromContext(ctx).Debug("Variable is not set.", "nodeID", n.ID, "name", name)
	}
	return v, nil
}

func setVariable(ctx context.Context, n *blueprint.Node, in registry.Inputs, ec registry.ExecutionContext) (any, error) {
	name := variableName(n, in)
	if name == "" {
		ctxlog.FromContext(ctx).Warn("Variable name is empty, skipping assignment.", "nodeID", n.ID)
		return "exec_out", nil
	}
	ec.SetVariable(name, in["Value"])
	return "exec_out", nil
}

// Register registers the variable nodes with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.MustRegister(&registry.Definition{
		Type: "SetVariable", Kind: blueprint.KindExec, Title: "Set Variable",
		Description: "Set a variable value",
		Category:    category, Color: color,
		Inputs: []registry.SocketSpec{
			registry.ExecIn,
			{ID: "name_in", Name: "Name", Type: blueprint.TypeString, Required: true, DataKey: "variableName"},
			{ID: "value_in", Name: "Value", Type: blueprint.TypeAny, Required: true},
		},
		Outputs:  []registry.SocketSpec{registry.ExecOut},
		Data:     map[string]any{"variableName": ""},
		Behavior: registry.BehaviorFunc(setVariable),
	})
	r.MustRegister(&registry.Definition{
		Type: "GetVariable", Kind: blueprint.KindData, Title: "Get Variable",
		Description: "Get a variable value",
		Category:    category, Color: color,
		Inputs:   []registry.SocketSpec{{ID: "name_in", Name: "Name", Type: blueprint.TypeString, Required: true, DataKey: "variableName"}},
		Outputs:  []registry.SocketSpec{{ID: "value_out", Name: "Value", Type: blueprint.TypeAny}},
		Data:     map[string]any{"variableName": ""},
		Behavior: registry.BehaviorFunc(getVariable),
	})
}
