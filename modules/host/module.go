package host

import (
	"context"
	"fmt"

	"github.com/vk/bpscript/internal/blueprint"
	"github.com/vk/bpscript/internal/ctxlog"
	"github.com/vk/bpscript/internal/registry"
)

// CommandTopic carries engine-side commands to the host.
const CommandTopic = "host.command"

const (
	unityColor = "#50C878"
	uiColor    = "#16A085"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Command forwards the node's resolved inputs to the host as
// {command, nodeId, args} and continues along exec_out.
func Command(ctx context.Context, n *blueprint.Node, in registry.Inputs, ec registry.ExecutionContext) (any, error) {
	args := make(map[string]any, len(in))
	for k, v := range in {
		if v != nil {
			args[k] = v
		}
	}
	ctxlog.FromContext(ctx).Debug("Sending host command.", "nodeID", n.ID, "command", n.Type)
	payload := map[string]any{"command": n.Type, "nodeId": n.ID, "args": args}
	if err := ec.SendToHost(ctx, CommandTopic, payload); err != nil {
		return nil, fmt.Errorf("failed to send %s command: %w", n.Type, err)
	}
	return "exec_out", nil
}

func object(id, name string) registry.SocketSpec {
	return registry.SocketSpec{ID: id, Name: name, Type: blueprint.TypeObject, Required: true}
}

func command(nodeType, title, description, category, color string, inputs []registry.SocketSpec, outputs ...registry.SocketSpec) *registry.Definition {
	return &registry.Definition{
		Type: nodeType, Kind: blueprint.KindExec, Title: title,
		Description: description,
		Category:    category, Color: color,
		Inputs:   append([]registry.SocketSpec{registry.ExecIn}, inputs...),
		Outputs:  append([]registry.SocketSpec{registry.ExecOut}, outputs...),
		Behavior: registry.BehaviorFunc(Command),
	}
}

// Register registers the Unity API nodes with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.MustRegister(command("SetPosition", "Set Position", "Set GameObject position", "Unity", unityColor,
		[]registry.SocketSpec{
			object("object_in", "Object"),
			{ID: "position_in", Name: "Position", Type: blueprint.TypeVector3, Required: true},
		}))
	r.MustRegister(command("PlaySound", "Play Sound", "Play audio clip", "Unity", unityColor,
		[]registry.SocketSpec{object("sound_in", "Sound")}))
	r.MustRegister(command("SpawnPrefab", "Spawn Prefab", "Instantiate a prefab at position", "Unity", unityColor,
		[]registry.SocketSpec{
			object("prefab_in", "Prefab"),
			{ID: "position_in", Name: "Position", Type: blueprint.TypeVector3},
		},
		registry.SocketSpec{ID: "spawned_out", Name: "Spawned", Type: blueprint.TypeObject}))
	r.MustRegister(command("DestroyObject", "Destroy", "Destroy a GameObject", "Unity", unityColor,
		[]registry.SocketSpec{object("object_in", "Object")}))
	r.MustRegister(command("SendMessage", "Send Message", "Send message to GameObject", "Unity", unityColor,
		[]registry.SocketSpec{
			object("target_in", "Target"),
			{ID: "method_in", Name: "Method", Type: blueprint.TypeString, Required: true},
			{ID: "value_in", Name: "Value", Type: blueprint.TypeAny},
		}))
	r.MustRegister(command("SetText", "Set UI Text", "Set text on UI element", "UI", uiColor,
		[]registry.SocketSpec{
			object("target_in", "Target"),
			{ID: "text_in", Name: "Text", Type: blueprint.TypeString, Required: true},
		}))
	r.MustRegister(command("ShowUI", "Show UI", "Show UI element", "UI", uiColor,
		[]registry.SocketSpec{object("target_in", "Target")}))
	r.MustRegister(command("HideUI", "Hide UI", "Hide UI element", "UI", uiColor,
		[]registry.SocketSpec{object("target_in", "Target")}))

	// Generation-only: these read engine state the runtime does not have.
	r.Register(&registry.Definition{
		Type: "GetPosition", Kind: blueprint.KindData, Title: "Get Position",
		Description: "Get GameObject position",
		Category:    "Unity", Color: unityColor,
		Inputs:  []registry.SocketSpec{object("object_in", "Object")},
		Outputs: []registry.SocketSpec{{ID: "position_out", Name: "Position", Type: blueprint.TypeVector3}},
	})
	r.Register(&registry.Definition{
		Type: "GetComponent", Kind: blueprint.KindData, Title: "Get Component",
		Description: "Get component from GameObject",
		Category:    "Unity", Color: unityColor,
		Inputs: []registry.SocketSpec{
			object("object_in", "Object"),
			{ID: "type_in", Name: "Component Type", Type: blueprint.TypeString, Required: true},
		},
		Outputs: []registry.SocketSpec{{ID: "component_out", Name: "Component", Type: blueprint.TypeObject}},
		Data:    map[string]any{"componentType": ""},
	})
}
