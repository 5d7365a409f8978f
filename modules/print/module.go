package print

import (
	"context"
	"fmt"
	"io"

	"github.com/vk/bpscript/internal/blueprint"
	"github.com/vk/bpscript/internal/ctxlog"
	"github.com/vk/bpscript/internal/registry"
)

// LogTopic carries every printed message to the host.
const LogTopic = "blueprint.log"

// Module implements the registry.Module interface for this package. Printed
// lines are also written to Out when it is set.
type Module struct {
	Out io.Writer
}

func (m *Module) print(ctx context.Context, n *blueprint.Node, in registry.Inputs, ec registry.ExecutionContext) (any, error) {
	fallback, _ := n.DataString("message")
	msg := in.String("Message", fallback)

	ctxlog.FromContext(ctx).Info("[Blueprint] "+msg, "nodeID", n.ID)
	if m.Out != nil {
		fmt.Fprintf(m.Out, "[Blueprint] %s\n", msg)
	}
	if err := ec.SendToHost(ctx, LogTopic, map[string]any{"nodeId": n.ID, "message": msg}); err != nil {
		return nil, fmt.Errorf("failed to forward message to host: %w", err)
	}
	return "exec_out", nil
}

// Register registers the Print node with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.MustRegister(&registry.Definition{
		Type: "Print", Kind: blueprint.KindExec, Title: "Print",
		Description: "Print message to console",
		Category:    "Debug", Color: "#FF6B6B",
		Inputs: []registry.SocketSpec{
			registry.ExecIn,
			{ID: "message_in", Name: "Message", Type: blueprint.TypeString, Required: true, DataKey: "message"},
		},
		Outputs:  []registry.SocketSpec{registry.ExecOut},
		Data:     map[string]any{"message": ""},
		Behavior: registry.BehaviorFunc(m.print),
	})
}
