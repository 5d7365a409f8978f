package app

import "errors"

var (
	// ErrNoGraph is returned by use-cases that need a graph when none is
	// configured.
	ErrNoGraph = errors.New("no graph path given")
	// ErrUnsupportedNodes is returned by Generate when asked to fail on
	// nodes it could not lower.
	ErrUnsupportedNodes = errors.New("graph contains nodes the generator does not support")
	// ErrUnknownFormat is returned for an unknown export format.
	ErrUnknownFormat = errors.New("unknown export format")
)
