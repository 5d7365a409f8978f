package interpreter

import "context"

// DefaultMaxDepth bounds nested ExecuteNode calls.
const DefaultMaxDepth = 10000

// Policy selects, per recoverable condition, whether it aborts the run. The
// zero value is lenient: both conditions are logged and the run continues.
type Policy struct {
	// StrictCycles turns a re-entered node into an ErrCycleDetected failure.
	StrictCycles bool
	// StrictRequiredInputs turns an unresolved required input into an
	// ErrMissingInput failure.
	StrictRequiredInputs bool
}

// Strict is the policy with every condition fatal.
var Strict = Policy{StrictCycles: true, StrictRequiredInputs: true}

// HostSender delivers a message to the host runtime.
type HostSender func(ctx context.Context, topic string, payload any) error

// Option configures an Interpreter.
type Option func(*Interpreter)

// WithMaxDepth limits nested node executions. Zero disables the limit.
func WithMaxDepth(n int) Option {
	return func(it *Interpreter) {
		if n < 0 {
			n = 0
		}
		it.maxDepth = n
	}
}

// WithPolicy sets the error policy.
func WithPolicy(p Policy) Option {
	return func(it *Interpreter) {
		it.policy = p
	}
}

// WithHostSender attaches the host bridge used by SendToHost.
func WithHostSender(send HostSender) Option {
	return func(it *Interpreter) {
		it.send = send
	}
}

// WithEventPropagation controls whether event nodes follow the exec output
// their behaviour returns, as exec nodes do. It is on by default.
func WithEventPropagation(enabled bool) Option {
	return func(it *Interpreter) {
		it.propagateEvents = enabled
	}
}
