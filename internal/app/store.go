package app

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/vk/bpscript/internal/blueprint"
	"github.com/vk/bpscript/internal/graphstore"
)

// StorePut saves the configured graph file into the library.
func (a *App) StorePut(ctx context.Context) error {
	ctx = a.withLogger(ctx)
	graph, err := a.loadGraph(ctx)
	if err != nil {
		return err
	}
	_, err = withStore(a, ctx, func(s *graphstore.SQLite) (struct{}, error) {
		return struct{}{}, s.Put(ctx, graph)
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.outW, "Stored graph %s (%s).\n", graph.ID, graph.Name)
	return nil
}

// StoreGet writes a stored graph as a document in the given format.
func (a *App) StoreGet(ctx context.Context, id string, format blueprint.Format) error {
	ctx = a.withLogger(ctx)
	graph, err := withStore(a, ctx, func(s *graphstore.SQLite) (*blueprint.Graph, error) {
		return s.Get(ctx, id)
	})
	if err != nil {
		return err
	}
	return a.writeOutput(func(w io.Writer) error { return blueprint.Encode(w, graph, format) })
}

// StoreList prints every stored graph.
func (a *App) StoreList(ctx context.Context) error {
	ctx = a.withLogger(ctx)
	list, err := withStore(a, ctx, func(s *graphstore.SQLite) ([]graphstore.Summary, error) {
		return s.List(ctx)
	})
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(a.outW, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tUPDATED")
	for _, sum := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", sum.ID, sum.Name, sum.UpdatedAt.UTC().Format(time.RFC3339))
	}
	return tw.Flush()
}

// StoreDelete removes a graph from the library.
func (a *App) StoreDelete(ctx context.Context, id string) error {
	ctx = a.withLogger(ctx)
	_, err := withStore(a, ctx, func(s *graphstore.SQLite) (struct{}, error) {
		return struct{}{}, s.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.outW, "Deleted graph %s.\n", id)
	return nil
}
