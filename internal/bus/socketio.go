package bus

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/vk/bpscript/internal/ctxlog"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

// DefaultConnectTimeout bounds the wait for the first connection.
const DefaultConnectTimeout = 15 * time.Second

// SocketIOConfig describes the host endpoint.
type SocketIOConfig struct {
	URL                string
	Namespace          string
	InsecureSkipVerify bool
	ConnectTimeout     time.Duration
}

// SocketIO is a Bus over a socket.io connection. Topics map one-to-one to
// socket.io event names and the payload travels as the single event
// argument.
type SocketIO struct {
	client *socket.Socket
	ctx    context.Context
	closed atomic.Bool
}

var _ Bus = (*SocketIO)(nil)

// DialSocketIO connects to a socket.io host and waits until the connection
// is established, fails, or times out. ctx also supplies the logger passed
// to handlers.
func DialSocketIO(ctx context.Context, cfg SocketIOConfig) (*SocketIO, error) {
	logger := ctxlog.FromContext(ctx).With("url", cfg.URL, "namespace", cfg.Namespace)
	logger.Info("🔌 Connecting to host bus.")

	parsedURL, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}
	if parsedURL.Scheme == "" || parsedURL.Host == "" {
		return nil, fmt.Errorf("bus URL %q must include a scheme and host", cfg.URL)
	}
	namespace := cfg.Namespace
	if namespace == "" {
		namespace = "/"
	}
	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = DefaultConnectTimeout
	}

	opts := socket.DefaultOptions()
	if parsedURL.Path != "" {
		opts.SetPath(parsedURL.Path)
	}
	if cfg.InsecureSkipVerify {
		logger.Warn("Skipping TLS certificate verification.")
		opts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	opts.SetTransports(types.NewSet(transports.WebSocket))

	connectChan := make(chan error, 1)
	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	manager := socket.NewManager(baseURL, opts)
	io := manager.Socket(namespace, opts)

	io.Once(types.EventName("connect"), func(...any) {
		logger.Debug("Bus connect event fired.", "sid", io.Id())
		select {
		case connectChan <- nil:
		default:
		}
	})
	io.Once(types.EventName("connect_error"), func(errs ...any) {
		err := fmt.Errorf("connect_error")
		if len(errs) > 0 {
			if e, ok := errs[0].(error); ok {
				err = e
			}
		}
		logger.Debug("Bus connect_error event fired.", "error", err)
		select {
		case connectChan <- err:
		default:
		}
	})

	io.Connect()

	select {
	case err := <-connectChan:
		if err != nil {
			io.Disconnect()
			return nil, fmt.Errorf("socket.io connection failed: %w", err)
		}
		logger.Info("✅ Connected to host bus.", "sid", io.Id())
		return &SocketIO{client: io, ctx: ctx}, nil
	case <-ctx.Done():
		io.Disconnect()
		return nil, fmt.Errorf("context cancelled while waiting for socket.io connection: %w", ctx.Err())
	case <-time.After(timeout):
		io.Disconnect()
		return nil, fmt.Errorf("timed out after %s waiting for socket.io connection", timeout)
	}
}

// Send implements Bus.
func (s *SocketIO) Send(ctx context.Context, topic string, payload any) error {
	if s.closed.Load() {
		return ErrClosed
	}
	if !s.client.Connected() {
		return ErrNotConnected
	}
	ctxlog.FromContext(ctx).Debug("Emitting bus message.", "topic", topic, "sid", s.client.Id())
	if err := s.client.Emit(topic, payload); err != nil {
		return fmt.Errorf("failed to emit %q: %w", topic, err)
	}
	return nil
}

// On implements Bus.
func (s *SocketIO) On(topic string, h Handler) func() {
	listener := func(data ...any) {
		var payload any
		if len(data) > 0 {
			payload = data[0]
		}
		h(s.ctx, payload)
	}
	event := types.EventName(topic)
	if err := s.client.On(event, listener); err != nil {
		ctxlog.FromContext(s.ctx).Warn("Failed to subscribe to bus topic.", "topic", topic, "error", err)
	}
	return func() {
		s.client.RemoveListener(event, listener)
	}
}

// Close implements Bus.
func (s *SocketIO) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	ctxlog.FromContext(s.ctx).Info("Disconnecting from host bus.", "sid", s.client.Id())
	s.client.Disconnect()
	return nil
}
