package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/vk/bpscript/internal/blueprint"
	"github.com/vk/bpscript/internal/bus"
	"github.com/vk/bpscript/internal/ctxlog"
	"github.com/vk/bpscript/internal/graphstore"
	"github.com/vk/bpscript/internal/interpreter"
	"github.com/vk/bpscript/internal/nodepack"
	"github.com/vk/bpscript/internal/registry"
)

// storePrefix marks a graph path that names a graph in the library.
const storePrefix = "store:"

// DialFunc opens the host bus for the serve use-case.
type DialFunc func(ctx context.Context, cfg bus.SocketIOConfig) (bus.Bus, error)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	registry *registry.Registry
	loader   *nodepack.Loader
	config   *Config

	dial  DialFunc
	sleep func(ctx context.Context, seconds float64) error
}

// NewApp is the constructor for the main application. Command output goes
// to outW and logs to logW. It returns a fully initialized App with its own
// isolated logger and registry; when no modules are given the core modules
// are registered. A node pack that fails to load or a registry that fails
// validation is a startup error and panics.
func NewApp(outW, logW io.Writer, cfg *Config, modules ...registry.Module) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	reg := registry.New()
	if len(modules) == 0 {
		modules = coreModules(outW)
	}
	reg.Use(modules...)
	logger.Debug("All Go modules registered.", "count", len(modules), "definitions", reg.Len())

	loader := nodepack.NewLoader(reg)
	if cfg.NodePackPath != "" {
		if _, err := loader.Load(ctx, cfg.NodePackPath); err != nil {
			panic(fmt.Errorf("failed to load node packs: %w", err))
		}
	}

	if err := reg.Validate(ctx); err != nil {
		panic(err)
	}
	logger.Debug("Registry validation passed.")

	return &App{
		outW:     outW,
		logger:   logger,
		registry: reg,
		loader:   loader,
		config:   cfg,
		dial: func(ctx context.Context, c bus.SocketIOConfig) (bus.Bus, error) {
			return bus.DialSocketIO(ctx, c)
		},
		sleep: sleepContext,
	}
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// withLogger attaches the app's logger to ctx.
func (a *App) withLogger(ctx context.Context) context.Context {
	return ctxlog.WithLogger(ctx, a.logger)
}

// interpreterOptions translates the configuration into interpreter options.
func (a *App) interpreterOptions() []interpreter.Option {
	opts := []interpreter.Option{interpreter.WithMaxDepth(a.config.MaxDepth)}
	if a.config.Strict {
		opts = append(opts, interpreter.WithPolicy(interpreter.Strict))
	}
	return opts
}

// loadGraph reads the configured graph from a file or from the library and
// validates its structure.
func (a *App) loadGraph(ctx context.Context) (*blueprint.Graph, error) {
	path := a.config.GraphPath
	if path == "" {
		return nil, ErrNoGraph
	}

	var (
		graph *blueprint.Graph
		err   error
	)
	if id, ok := strings.CutPrefix(path, storePrefix); ok {
		graph, err = withStore(a, ctx, func(s *graphstore.SQLite) (*blueprint.Graph, error) {
			return s.Get(ctx, id)
		})
	} else {
		graph, err = blueprint.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load graph %s: %w", path, err)
	}
	if err := graph.Validate(); err != nil {
		return nil, err
	}
	ctxlog.FromContext(ctx).Debug("Graph loaded.", "graphID", graph.ID, "nodes", len(graph.Nodes), "connections", len(graph.Connections))
	return graph, nil
}

// withStore opens the graph library for the duration of fn.
func withStore[T any](a *App, ctx context.Context, fn func(s *graphstore.SQLite) (T, error)) (T, error) {
	var zero T
	s, err := graphstore.Open(ctx, a.config.StorePath)
	if err != nil {
		return zero, err
	}
	defer s.Close()
	return fn(s)
}
