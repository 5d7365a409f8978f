package app

import (
	"context"
	"fmt"
	"io"

	"github.com/vk/bpscript/internal/codegen"
)

// Generate lowers the configured graph to a Unity C# class. With
// failOnUnsupported, any node the generator could not lower turns into
// ErrUnsupportedNodes after the source has been written.
func (a *App) Generate(ctx context.Context, failOnUnsupported bool) error {
	ctx = a.withLogger(ctx)

	graph, err := a.loadGraph(ctx)
	if err != nil {
		return err
	}

	className := a.config.ClassName
	if className == "" {
		className = codegen.DefaultClassName
	}
	result := codegen.New(a.registry).Generate(ctx, graph, className)

	if err := a.writeOutput(func(w io.Writer) error {
		_, err := io.WriteString(w, result.Source)
		return err
	}); err != nil {
		return err
	}

	unsupported := result.Unsupported()
	for _, d := range unsupported {
		a.logger.Warn("Node was not lowered.", "nodeID", d.NodeID, "nodeType", d.NodeType, "reason", d.Reason)
	}
	a.logger.Info("🏁 Generation finished.", "class", className, "nodes", len(result.Diagnostics), "unsupported", len(unsupported))

	if failOnUnsupported && len(unsupported) > 0 {
		return fmt.Errorf("%w: %d node(s)", ErrUnsupportedNodes, len(unsupported))
	}
	return nil
}
