package app

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/bpscript/internal/binder"
	"github.com/vk/bpscript/internal/bus"
	"github.com/vk/bpscript/modules/flow"
	"github.com/vk/bpscript/modules/print"
)

func TestServe_BindsGraphToBus(t *testing.T) {
	// --- Arrange ---
	path, graph := WriteGraphFixture(t, "hello.json", helloGraph)
	a, out, _ := SetupAppTest(t, Config{GraphPath: path, BusURL: "http://host.test"})
	memory := bus.NewMemory()
	var dialed bus.SocketIOConfig
	a.dial = func(_ context.Context, cfg bus.SocketIOConfig) (bus.Bus, error) {
		dialed = cfg
		return memory, nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Serve(ctx) }()

	require.Eventually(t, func() bool { return len(memory.SentOn(binder.TopicReady)) == 1 },
		5*time.Second, 10*time.Millisecond, "graph was never bound")

	// --- Act ---
	require.NoError(t, memory.Send(ctx, binder.TopicTrigger, map[string]any{}))
	require.NoError(t, memory.Send(ctx, binder.TopicDelayComplete, map[string]any{"nodeId": "wait"}))
	cancel()

	// --- Assert ---
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancellation")
	}
	assert.Equal(t, "http://host.test", dialed.URL)
	assert.Equal(t, []any{map[string]any{"graphId": graph.ID, "name": "Hello"}}, memory.SentOn(binder.TopicReady))
	assert.Equal(t, []any{map[string]any{"nodeId": "wait", "seconds": 0.5}}, memory.SentOn(flow.DelayRequestTopic))
	assert.Len(t, memory.SentOn(print.LogTopic), 2)
	assert.Equal(t, "[Blueprint] Hello World\n[Blueprint] after delay\n", out.String())
	assert.Zero(t, memory.Subscribers(binder.TopicTrigger), "binder unsubscribes on shutdown")
}

func TestServe_Errors(t *testing.T) {
	path, _ := WriteGraphFixture(t, "hello.json", helloGraph)

	a, _, _ := SetupAppTest(t, Config{GraphPath: path})
	assert.ErrorContains(t, a.Serve(context.Background()), "bus URL")

	a, _, _ = SetupAppTest(t, Config{GraphPath: path, BusURL: "http://host.test"})
	errRefused := errors.New("connection refused")
	a.dial = func(context.Context, bus.SocketIOConfig) (bus.Bus, error) { return nil, errRefused }
	assert.ErrorIs(t, a.Serve(context.Background()), errRefused)
}

func TestHealthHandler(t *testing.T) {
	testCases := []struct {
		name     string
		ready    bool
		wantCode int
		wantBody string
	}{
		{"bound", true, http.StatusOK, "OK\n"},
		{"not bound yet", false, http.StatusServiceUnavailable, "NOT READY\n"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			h := &healthServer{ready: func() bool { return tc.ready }}
			rec := httptest.NewRecorder()

			h.healthHandler(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

			assert.Equal(t, tc.wantCode, rec.Code)
			assert.Equal(t, tc.wantBody, rec.Body.String())
		})
	}
}

func TestHealthcheckServer_DisabledOnZeroPort(t *testing.T) {
	h, err := startHealthcheckServer(context.Background(), 0, nil)
	require.NoError(t, err)
	assert.Nil(t, h)
	assert.NoError(t, h.close(context.Background()))
}
