package bus

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sioserver "github.com/zishang520/socket.io/v2/socket"
)

// echoHost starts a socket.io server that answers every "blueprint.log"
// message with a "host.ack" carrying the same payload.
func echoHost(t *testing.T) (string, <-chan any) {
	t.Helper()

	received := make(chan any, 4)
	io := sioserver.NewServer(nil, nil)
	require.NoError(t, io.On("connection", func(clients ...any) {
		client := clients[0].(*sioserver.Socket)
		_ = client.On("blueprint.log", func(args ...any) {
			var payload any
			if len(args) > 0 {
				payload = args[0]
			}
			received <- payload
			_ = client.Emit("host.ack", payload)
		})
	}))

	mux := http.NewServeMux()
	mux.Handle("/socket.io/", io.ServeHandler(nil))
	ts := httptest.NewServer(mux)
	t.Cleanup(func() {
		io.Close(nil)
		ts.Close()
	})
	return ts.URL, received
}

func TestSocketIO_SendAndReceive(t *testing.T) {
	// --- Arrange ---
	url, received := echoHost(t)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	b, err := DialSocketIO(ctx, SocketIOConfig{URL: url, ConnectTimeout: 5 * time.Second})
	require.NoError(t, err)
	defer b.Close()

	acks := make(chan any, 4)
	unsubscribe := b.On("host.ack", func(_ context.Context, p any) { acks <- p })
	defer unsubscribe()

	// --- Act ---
	err = b.Send(ctx, "blueprint.log", map[string]any{"nodeId": "p", "message": "hi"})

	// --- Assert ---
	require.NoError(t, err)
	want := map[string]any{"nodeId": "p", "message": "hi"}
	select {
	case got := <-received:
		assert.Equal(t, want, got, "host sees the payload")
	case <-ctx.Done():
		t.Fatal("host never received the message")
	}
	select {
	case got := <-acks:
		assert.Equal(t, want, got, "handler sees the host's reply")
	case <-ctx.Done():
		t.Fatal("handler never received the reply")
	}
}

func TestSocketIO_SendAfterClose(t *testing.T) {
	url, _ := echoHost(t)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	b, err := DialSocketIO(ctx, SocketIOConfig{URL: url, ConnectTimeout: 5 * time.Second})
	require.NoError(t, err)

	require.NoError(t, b.Close())
	require.NoError(t, b.Close(), "closing twice is harmless")
	assert.ErrorIs(t, b.Send(ctx, "blueprint.log", nil), ErrClosed)
}
