package app

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/vk/bpscript/internal/ctxlog"
	"github.com/vk/bpscript/internal/registry"
)

// ListNodes prints the registered node types, optionally narrowed to one
// category and to a search query.
func (a *App) ListNodes(ctx context.Context, category, query string) error {
	ctx = a.withLogger(ctx)

	var defs []*registry.Definition
	switch {
	case query != "":
		for _, def := range a.registry.Search(query) {
			if category == "" || def.Category == category {
				defs = append(defs, def)
			}
		}
	case category != "":
		defs = a.registry.ByCategory(category)
	default:
		defs = a.registry.All()
	}

	tw := tabwriter.NewWriter(a.outW, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TYPE\tKIND\tCATEGORY\tTITLE\tRUNTIME")
	for _, def := range defs {
		runtime := "yes"
		if !def.Executable() {
			runtime = "generate-only"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", def.Type, def.Kind, def.Category, def.Title, runtime)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	ctxlog.FromContext(ctx).Debug("Listed node definitions.", "count", len(defs), "category", category, "query", query)
	return nil
}
