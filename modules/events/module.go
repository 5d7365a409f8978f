package events

import (
	"context"

	"github.com/vk/bpscript/internal/blueprint"
	"github.com/vk/bpscript/internal/ctxlog"
	"github.com/vk/bpscript/internal/registry"
	"github.com/vk/bpscript/internal/value"
)

const (
	category = "Events"
	color    = "#FFD700"
)

// KeyVariablePrefix prefixes the runtime variables GetKeyDown reads. Hosts
// set "input.key.Space" and friends each frame.
const KeyVariablePrefix = "input.key."

// Module implements the registry.Module interface for this package.
type Module struct{}

// fire starts the exec chain of an event node.
func fire(_ context.Context, _ *blueprint.Node, _ registry.Inputs, _ registry.ExecutionContext) (any, error) {
	return "exec_out", nil
}

// onTriggerEnter publishes the colliding object from the event payload
// before starting its chain.
func onTriggerEnter(ctx context.Context, n *blueprint.Node, in registry.Inputs, ec registry.ExecutionContext) (any, error) {
	other := in["other"]
	ctxlog.FromContext(ctx).Debug("Trigger entered.", "nodeID", n.ID, "other", other)
	ec.SetOutput(n.ID, "other_out", other)
	return "exec_out", nil
}

func getKeyDown(_ context.Context, n *blueprint.Node, in registry.Inputs, ec registry.ExecutionContext) (any, error) {
	fallback, _ := n.DataString("key")
	if fallback == "" {
		fallback = "Space"
	}
	v, _ := ec.Variable(KeyVariablePrefix + in.String("Key", fallback))
	return value.Bool(v), nil
}

// Register registers the event nodes with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.MustRegister(&registry.Definition{
		Type: "Start", Kind: blueprint.KindEvent, Title: "Start",
		Description: "Called when script starts",
		Category:    category, Color: color,
		Outputs:  []registry.SocketSpec{registry.ExecOut},
		Behavior: registry.BehaviorFunc(fire),
	})
	r.MustRegister(&registry.Definition{
		Type: "OnUpdate", Kind: blueprint.KindEvent, Title: "On Update",
		Description: "Called every frame",
		Category:    category, Color: color,
		Outputs:  []registry.SocketSpec{registry.ExecOut},
		Behavior: registry.BehaviorFunc(fire),
	})
	r.MustRegister(&registry.Definition{
		Type: "OnTriggerEnter", Kind: blueprint.KindEvent, Title: "On Trigger Enter",
		Description: "Called when trigger is entered",
		Category:    category, Color: color,
		Outputs: []registry.SocketSpec{
			registry.ExecOut,
			{ID: "other_out", Name: "Other", Type: blueprint.TypeObject},
		},
		Behavior: registry.BehaviorFunc(onTriggerEnter),
	})
	r.MustRegister(&registry.Definition{
		Type: "GetKeyDown", Kind: blueprint.KindData, Title: "Get Key Down",
		Description: "Check if key is pressed this frame",
		Category:    "Input", Color: "#9B59B6",
		Inputs:   []registry.SocketSpec{{ID: "key_in", Name: "Key", Type: blueprint.TypeString, Required: true, DataKey: "key"}},
		Outputs:  []registry.SocketSpec{{ID: "isdown_out", Name: "Is Down", Type: blueprint.TypeBool}},
		Data:     map[string]any{"key": "Space"},
		Behavior: registry.BehaviorFunc(getKeyDown),
	})
}
