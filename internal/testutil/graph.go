package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/bpscript/internal/blueprint"
	"github.com/vk/bpscript/internal/registry"
)

// GraphBuilder places registered node types under fixed ids so tests can
// refer to them by name.
type GraphBuilder struct {
	t        *testing.T
	Registry *registry.Registry
	Graph    *blueprint.Graph
}

// NewGraphBuilder starts an empty graph named after the test.
func NewGraphBuilder(t *testing.T, reg *registry.Registry) *GraphBuilder {
	t.Helper()
	return &GraphBuilder{t: t, Registry: reg, Graph: blueprint.NewGraph(t.Name())}
}

// Node creates a node of a registered type with the given id.
func (b *GraphBuilder) Node(nodeType, id string, data map[string]any) *GraphBuilder {
	b.t.Helper()
	def, ok := b.Registry.Get(nodeType)
	require.True(b.t, ok, "node type %s is not registered", nodeType)
	n := def.Create(data)
	n.ID = id
	_, err := b.Graph.AddNode(n)
	require.NoError(b.t, err)
	return b
}

// Connect wires an output socket to an input socket.
func (b *GraphBuilder) Connect(from, fromSocket, to, toSocket string) *GraphBuilder {
	b.t.Helper()
	_, err := b.Graph.Connect(from, fromSocket, to, toSocket)
	require.NoError(b.t, err)
	return b
}

// Default sets the default value of one input socket on a placed node.
func (b *GraphBuilder) Default(nodeID, socketID string, v any) *GraphBuilder {
	b.t.Helper()
	n, ok := b.Graph.Node(nodeID)
	require.True(b.t, ok, "node %s not found", nodeID)
	s, ok := n.Input(socketID)
	require.True(b.t, ok, "socket %s not found on %s", socketID, nodeID)
	s.DefaultValue = v
	return b
}
