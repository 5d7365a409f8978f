// Package interpreter executes blueprint graphs.
//
// Execution mixes two directions. Data connections are pulled: when a node
// runs, each of its inputs is resolved by running the connected source node,
// every time, with no caching. Exec connections are pushed: when an exec node
// finishes, its behaviour names one output socket and every exec node wired
// to that socket runs next, in connection order. Event nodes push the same
// way by default; WithEventPropagation(false) restricts the push to exec-kind
// nodes only, so an event's chain starts only when the host continues it.
//
// Exec and event nodes are statements and are never run by a pull. A data
// connection leaving one of them reads the value the node last published
// with SetOutput, or nil with an unpublished_output diagnostic before that.
//
// An unconnected input takes the node data entry its SocketSpec names in
// DataKey before the socket default, so Print reads data.message.
//
// Missing nodes and missing definitions abort the run with a *NodeError. A
// node re-entered while it is still executing, or a required input with no
// value, is logged and skipped unless a strict Policy is set. Nested
// executions are bounded by a configurable depth limit.
package interpreter
