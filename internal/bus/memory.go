package bus

import (
	"context"
	"sync"

	"github.com/vk/bpscript/internal/ctxlog"
)

// Message is one delivery recorded by a Memory bus.
type Message struct {
	Topic   string
	Payload any
}

type subscription struct {
	id int
	h  Handler
}

// Memory is an in-process Bus. Send calls every handler of the topic
// synchronously, in subscription order, on the caller's goroutine. A handler
// that sends back into a subscriber still holding a lock must do so from a
// new goroutine.
type Memory struct {
	mu       sync.RWMutex
	nextID   int
	handlers map[string][]subscription
	sent     []Message
	closed   bool
}

var _ Bus = (*Memory)(nil)

// NewMemory creates an empty in-process bus.
func NewMemory() *Memory {
	return &Memory{handlers: make(map[string][]subscription)}
}

// Send implements Bus.
func (m *Memory) Send(ctx context.Context, topic string, payload any) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrClosed
	}
	m.sent = append(m.sent, Message{Topic: topic, Payload: payload})
	subs := append([]subscription(nil), m.handlers[topic]...)
	m.mu.Unlock()

	ctxlog.FromContext(ctx).Debug("Delivering bus message.", "topic", topic, "handlers", len(subs))
	for _, s := range subs {
		s.h(ctx, payload)
	}
	return nil
}

// On implements Bus.
func (m *Memory) On(topic string, h Handler) func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	id := m.nextID
	m.handlers[topic] = append(m.handlers[topic], subscription{id: id, h: h})

	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			defer m.mu.Unlock()
			subs := m.handlers[topic]
			for i, s := range subs {
				if s.id == id {
					m.handlers[topic] = append(subs[:i:i], subs[i+1:]...)
					break
				}
			}
			if len(m.handlers[topic]) == 0 {
				delete(m.handlers, topic)
			}
		})
	}
}

// Close implements Bus.
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	m.handlers = make(map[string][]subscription)
	return nil
}

// Sent returns every message sent so far, in order.
func (m *Memory) Sent() []Message {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]Message(nil), m.sent...)
}

// SentOn returns the payloads sent on one topic, in order.
func (m *Memory) SentOn(topic string) []any {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []any
	for _, msg := range m.sent {
		if msg.Topic == topic {
			out = append(out, msg.Payload)
		}
	}
	return out
}

// Subscribers reports how many handlers are attached to topic.
func (m *Memory) Subscribers(topic string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.handlers[topic])
}
