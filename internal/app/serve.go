package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/vk/bpscript/internal/binder"
	"github.com/vk/bpscript/internal/bus"
	"github.com/vk/bpscript/internal/ctxlog"
	"github.com/vk/bpscript/internal/nodepack"
	"github.com/vk/bpscript/internal/registry"
)

// Serve binds the configured graph to the host bus and keeps it bound until
// ctx is cancelled. It optionally runs the health check server and reloads
// node packs as they change on disk.
func (a *App) Serve(ctx context.Context) (err error) {
	ctx = a.withLogger(ctx)
	logger := ctxlog.FromContext(ctx)
	logger.Debug("App.Serve method started.")

	if a.config.BusURL == "" {
		return errors.New("serving requires a bus URL")
	}
	graph, err := a.loadGraph(ctx)
	if err != nil {
		return err
	}

	var bound atomic.Bool
	health, err := startHealthcheckServer(ctx, a.config.HealthcheckPort, bound.Load)
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, health.close(ctx)) }()

	b, err := a.dial(ctx, bus.SocketIOConfig{URL: a.config.BusURL, Namespace: a.config.BusNamespace})
	if err != nil {
		return fmt.Errorf("failed to connect to host bus: %w", err)
	}
	defer func() { err = errors.Join(err, b.Close()) }()

	bd := binder.New(a.registry, b, a.interpreterOptions()...)
	defer func() { err = errors.Join(err, bd.Close()) }()
	if err := bd.Bind(ctx, graph); err != nil {
		return fmt.Errorf("failed to bind graph: %w", err)
	}
	bound.Store(true)

	var wg sync.WaitGroup
	if a.config.WatchNodePacks {
		w, err := nodepack.NewWatcher(a.loader, []string{a.config.NodePackPath},
			nodepack.WithOnReload(func(_ []*registry.Definition, err error) {
				if err == nil {
					a.validateRegistry(ctx)
				}
			}))
		if err != nil {
			return err
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = w.Run(ctx)
		}()
	}

	logger.Info("✅ Serving graph.", "graphID", graph.ID, "bus", a.config.BusURL)
	<-ctx.Done()
	wg.Wait()
	logger.Info("🏁 Serving stopped.")
	return nil
}

// validateRegistry reports definitions a reload left inconsistent. A
// running graph keeps executing, so this only logs.
func (a *App) validateRegistry(ctx context.Context) {
	if err := a.registry.Validate(ctx); err != nil {
		ctxlog.FromContext(ctx).Warn("Registry is inconsistent after reload.", "error", err)
	}
}
