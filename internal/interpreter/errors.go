package interpreter

import (
	"errors"
	"fmt"
)

// Errors that abort a run. They reach callers wrapped in a *NodeError.
var (
	ErrNodeNotFound       = errors.New("node not found in graph")
	ErrDefinitionNotFound = errors.New("no definition registered for node type")
	ErrDepthExceeded      = errors.New("maximum execution depth exceeded")
	// ErrCycleDetected and ErrMissingInput are only returned under a strict
	// Policy; by default both conditions are logged and the run continues.
	ErrCycleDetected = errors.New("node re-entered while still executing")
	ErrMissingInput  = errors.New("required input has no connection and no default")
)

// NodeError locates a fatal error in the graph. It is created once, at the
// innermost failing node, and passed up unchanged.
type NodeError struct {
	NodeID   string
	NodeType string
	Err      error
}

func (e *NodeError) Error() string {
	if e.NodeType == "" {
		return fmt.Sprintf("node %q: %v", e.NodeID, e.Err)
	}
	return fmt.Sprintf("node %q (%s): %v", e.NodeID, e.NodeType, e.Err)
}

func (e *NodeError) Unwrap() error {
	return e.Err
}

// nodeErr wraps err for the given node unless it already carries a location.
func nodeErr(nodeID, nodeType string, err error) error {
	var ne *NodeError
	if errors.As(err, &ne) {
		return err
	}
	return &NodeError{NodeID: nodeID, NodeType: nodeType, Err: err}
}
