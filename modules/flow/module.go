package flow

import (
	"context"

	"github.com/vk/bpscript/internal/blueprint"
	"github.com/vk/bpscript/internal/ctxlog"
	"github.com/vk/bpscript/internal/registry"
	"github.com/vk/bpscript/internal/value"
)

const (
	category = "Flow"
	color    = "#4A90E2"
)

// DelayRequestTopic is sent to the host when a Delay node starts waiting.
// The host answers with delay.complete once the time has passed.
const DelayRequestTopic = "delay.request"

// Module implements the registry.Module interface for this package.
type Module struct{}

// Branch picks true_out or false_out from the condition's truthiness.
func Branch(_ context.Context, _ *blueprint.Node, in registry.Inputs, _ registry.ExecutionContext) (any, error) {
	if in.Bool("Condition") {
		return "true_out", nil
	}
	return "false_out", nil
}

// Sequence fires each Then output in order, each chain running to completion
// before the next starts.
func Sequence(ctx context.Context, n *blueprint.Node, _ registry.Inputs, ec registry.ExecutionContext) (any, error) {
	for _, out := range n.ExecOutputs() {
		if err := ec.Continue(ctx, n.ID, out.ID); err != nil {
			return nil, err
		}
	}
	return nil, nil
}

// Delay hands the wait to the host and takes no branch. The flow resumes
// from completed_out when the host reports completion.
func Delay(ctx context.Context, n *blueprint.Node, in registry.Inputs, ec registry.ExecutionContext) (any, error) {
	seconds := in.Float("Duration", value.FloatOr(n.Data["duration"], 1))
	ctxlog.FromContext(ctx).Debug("Requesting delay from host.", "nodeID", n.ID, "seconds", seconds)
	return nil, ec.SendToHost(ctx, DelayRequestTopic, map[string]any{"nodeId": n.ID, "seconds": seconds})
}

// Register registers the flow nodes with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.MustRegister(&registry.Definition{
		Type: "Branch", Kind: blueprint.KindExec, Title: "Branch",
		Description: "Conditional execution based on boolean value",
		Category:    category, Color: color,
		Inputs: []registry.SocketSpec{
			registry.ExecIn,
			{ID: "condition_in", Name: "Condition", Type: blueprint.TypeBool, Required: true},
		},
		Outputs: []registry.SocketSpec{
			{ID: "true_out", Name: "True", Type: blueprint.TypeExec},
			{ID: "false_out", Name: "False", Type: blueprint.TypeExec},
		},
		Behavior: registry.BehaviorFunc(Branch),
	})
	r.MustRegister(&registry.Definition{
		Type: "Sequence", Kind: blueprint.KindExec, Title: "Sequence",
		Description: "Execute multiple outputs in sequence",
		Category:    category, Color: color,
		Inputs: []registry.SocketSpec{registry.ExecIn},
		Outputs: []registry.SocketSpec{
			{ID: "then0_out", Name: "Then 0", Type: blueprint.TypeExec},
			{ID: "then1_out", Name: "Then 1", Type: blueprint.TypeExec},
			{ID: "then2_out", Name: "Then 2", Type: blueprint.TypeExec},
		},
		Behavior: registry.BehaviorFunc(Sequence),
	})
	r.MustRegister(&registry.Definition{
		Type: "Delay", Kind: blueprint.KindExec, Title: "Delay",
		Description: "Wait for specified seconds",
		Category:    category, Color: color,
		Inputs: []registry.SocketSpec{
			registry.ExecIn,
			{ID: "duration_in", Name: "Duration", Type: blueprint.TypeFloat, Default: 1.0, Required: true},
		},
		Outputs:  []registry.SocketSpec{{ID: "completed_out", Name: "Completed", Type: blueprint.TypeExec}},
		Data:     map[string]any{"duration": 1.0},
		Behavior: registry.BehaviorFunc(Delay),
	})
}
