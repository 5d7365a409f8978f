package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/vk/bpscript/internal/ctxlog"
)

// healthServer serves GET /health while the app is serving a graph.
type healthServer struct {
	srv   *http.Server
	ready func() bool
}

// healthHandler answers 200 OK once a graph is bound, 503 before.
func (h *healthServer) healthHandler(w http.ResponseWriter, r *http.Request) {
	logger := ctxlog.FromContext(r.Context())
	logger.Debug("Health check endpoint hit.", "remote_addr", r.RemoteAddr, "path", r.URL.Path)
	if h.ready != nil && !h.ready() {
		w.WriteHeader(http.StatusServiceUnavailable)
		fmt.Fprintln(w, "NOT READY")
		return
	}
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "OK")
}

// startHealthcheckServer initializes and runs the health check HTTP server.
// It returns nil when the port is 0.
func startHealthcheckServer(ctx context.Context, port int, ready func() bool) (*healthServer, error) {
	logger := ctxlog.FromContext(ctx)
	if port <= 0 {
		logger.Debug("Health check server not started: disabled.")
		return nil, nil
	}

	h := &healthServer{ready: ready}
	mux := http.NewServeMux()
	mux.HandleFunc("/health", h.healthHandler)

	addr := fmt.Sprintf(":%d", port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to start health check server: %w", err)
	}
	h.srv = &http.Server{
		Handler:     mux,
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	go func() {
		logger.Info("🩺 Health check server starting", "address", fmt.Sprintf("http://localhost%s/health", addr))
		// Serve returns ErrServerClosed on graceful shutdown.
		if err := h.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Health check server failed unexpectedly", "error", err)
		}
	}()
	return h, nil
}

func (h *healthServer) close(ctx context.Context) error {
	if h == nil {
		return nil
	}
	logger := ctxlog.FromContext(ctx)

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	logger.Info("🩺 Shutting down health check server...")
	if err := h.srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Health check server shutdown failed", "error", err)
		return err
	}
	logger.Debug("Health check server shut down gracefully.")
	return nil
}
