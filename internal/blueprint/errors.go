package blueprint

import (
	"errors"
	"fmt"
	"strings"
)

// Graph editing and validation errors.
var (
	ErrInvalidGraph        = errors.New("invalid graph")
	ErrNodeExists          = errors.New("node already exists")
	ErrNodeNotFound        = errors.New("node not found")
	ErrSocketNotFound      = errors.New("socket not found")
	ErrIncompatibleSockets = errors.New("incompatible socket types")
	ErrSelfConnection      = errors.New("node cannot connect to itself")
	ErrUnsupportedFormat   = errors.New("unsupported graph format")
)

// ValidationError collects every structural violation found in a graph.
type ValidationError struct {
	GraphID  string
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("graph %q failed validation:\n- %s", e.GraphID, strings.Join(e.Problems, "\n- "))
}

// Unwrap lets callers match the error with errors.Is(err, ErrInvalidGraph).
func (e *ValidationError) Unwrap() error {
	return ErrInvalidGraph
}
