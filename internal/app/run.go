package app

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/vk/bpscript/internal/binder"
	"github.com/vk/bpscript/internal/ctxlog"
	"github.com/vk/bpscript/internal/interpreter"
	"github.com/vk/bpscript/internal/value"
	"github.com/vk/bpscript/modules/flow"
	"github.com/vk/bpscript/modules/host"
	"github.com/vk/bpscript/modules/print"
)

// delayRequest is a Delay node waiting for the local host to resume it.
type delayRequest struct {
	nodeID  string
	seconds float64
}

// localHost stands in for a game engine when a graph runs from the command
// line. It logs host commands and queues delays for the run loop.
type localHost struct {
	delays []delayRequest
}

func (h *localHost) send(ctx context.Context, topic string, payload any) error {
	logger := ctxlog.FromContext(ctx)
	fields, _ := payload.(map[string]any)

	switch topic {
	case flow.DelayRequestTopic:
		nodeID := value.String(fields["nodeId"])
		seconds := value.FloatOr(fields["seconds"], 0)
		logger.Debug("Delay requested.", "nodeID", nodeID, "seconds", seconds)
		h.delays = append(h.delays, delayRequest{nodeID: nodeID, seconds: seconds})
	case host.CommandTopic:
		logger.Info("🎮 Host command.", "command", fields["command"], "nodeID", fields["nodeId"], "args", fields["args"])
	case print.LogTopic:
		// Already written by the Print node.
	default:
		logger.Debug("Message for the host ignored.", "topic", topic)
	}
	return nil
}

// Run executes the configured graph from its entry point, resumes every
// delay the graph requests, and prints the final variables.
func (a *App) Run(ctx context.Context) error {
	ctx = a.withLogger(ctx)
	a.logger.Debug("App.Run method started.")

	graph, err := a.loadGraph(ctx)
	if err != nil {
		return err
	}

	h := &localHost{}
	opts := append(a.interpreterOptions(), interpreter.WithHostSender(h.send))
	interp := interpreter.New(graph, a.registry, opts...)

	a.logger.Info("🚀 Executing graph.", "graphID", graph.ID, "name", graph.Name, "entryPoint", a.config.EntryPoint)
	if err := interp.Execute(ctx, a.config.EntryPoint); err != nil {
		return fmt.Errorf("execution failed: %w", err)
	}

	for len(h.delays) > 0 {
		next := h.delays[0]
		h.delays = h.delays[1:]
		if err := a.sleep(ctx, next.seconds); err != nil {
			return err
		}
		a.logger.Debug("Resuming delayed flow.", "nodeID", next.nodeID)
		if err := interp.Continue(ctx, next.nodeID, binder.DelayCompletedOutput); err != nil {
			return fmt.Errorf("execution failed: %w", err)
		}
	}

	if diags := interp.Diagnostics(); len(diags) > 0 {
		a.logger.Warn("Execution recovered from problems.", "count", len(diags))
	}
	a.printVariables(interp.Variables())
	a.logger.Info("🏁 Execution finished.")
	return nil
}

func (a *App) printVariables(vars map[string]any) {
	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(a.outW, "%s = %s\n", name, value.String(vars[name]))
	}
}

// sleepContext waits for the given number of seconds or until ctx ends.
func sleepContext(ctx context.Context, seconds float64) error {
	if seconds <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(time.Duration(seconds * float64(time.Second)))
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
