// Package bus carries named-topic messages between the runtime and its host.
//
// Payloads are plain JSON-shaped values: maps, slices, strings, float64,
// bool and nil. Handlers run on the transport's goroutine and must not
// block it for long.
package bus

import (
	"context"
	"errors"
)

// ErrClosed is returned by Send on a bus that has been closed.
var ErrClosed = errors.New("bus is closed")

// ErrNotConnected is returned by Send when the transport has no live
// connection.
var ErrNotConnected = errors.New("bus is not connected")

// Handler receives one message.
type Handler func(ctx context.Context, payload any)

// Bus is a bidirectional topic-keyed message channel.
type Bus interface {
	// Send delivers payload to every handler of topic on the other side.
	Send(ctx context.Context, topic string, payload any) error
	// On subscribes h to topic and returns a function that removes it.
	On(topic string, h Handler) (unsubscribe func())
	// Close releases the transport. Later sends fail with ErrClosed.
	Close() error
}
