package app

import (
	"context"
	"fmt"
	"io"

	"github.com/vk/bpscript/internal/blueprint"
)

// Export renders the configured graph as a Mermaid flowchart, or re-encodes
// it as JSON or YAML.
func (a *App) Export(ctx context.Context, format string) error {
	ctx = a.withLogger(ctx)

	var render func(w io.Writer, g *blueprint.Graph) error
	switch format {
	case "mermaid":
		render = func(w io.Writer, g *blueprint.Graph) error {
			_, err := io.WriteString(w, g.ToMermaid())
			return err
		}
	case string(blueprint.FormatJSON), string(blueprint.FormatYAML):
		render = func(w io.Writer, g *blueprint.Graph) error {
			return blueprint.Encode(w, g, blueprint.Format(format))
		}
	default:
		return fmt.Errorf("%w: %q (use mermaid, json or yaml)", ErrUnknownFormat, format)
	}

	graph, err := a.loadGraph(ctx)
	if err != nil {
		return err
	}
	return a.writeOutput(func(w io.Writer) error { return render(w, graph) })
}
