package blueprint

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// duplicateOffset is how far a duplicated node is moved on the canvas.
const duplicateOffset = 50

// NewGraph returns an empty graph with a fresh id.
func NewGraph(name string) *Graph {
	return &Graph{
		ID:          uuid.NewString(),
		Name:        name,
		Nodes:       []Node{},
		Connections: []Connection{},
		Variables:   []Variable{},
		Metadata: map[string]any{
			"createdAt": time.Now().UTC().Format(time.RFC3339),
		},
	}
}

// AddNode appends n to the graph. A node without an id is given one.
func (g *Graph) AddNode(n Node) (*Node, error) {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if _, exists := g.Node(n.ID); exists {
		return nil, fmt.Errorf("%w: %q", ErrNodeExists, n.ID)
	}
	g.Nodes = append(g.Nodes, n)
	return &g.Nodes[len(g.Nodes)-1], nil
}

// Connect wires an output socket to an input socket. Any connection already
// terminating at the input is replaced, so an input never has two sources.
// Connecting the same pair twice is a no-op that returns the existing edge.
func (g *Graph) Connect(fromNodeID, fromSocketID, toNodeID, toSocketID string) (Connection, error) {
	if fromNodeID == toNodeID {
		return Connection{}, fmt.Errorf("%w: %q", ErrSelfConnection, fromNodeID)
	}
	from, ok := g.Node(fromNodeID)
	if !ok {
		return Connection{}, fmt.Errorf("%w: %q", ErrNodeNotFound, fromNodeID)
	}
	to, ok := g.Node(toNodeID)
	if !ok {
		return Connection{}, fmt.Errorf("%w: %q", ErrNodeNotFound, toNodeID)
	}
	out, ok := from.Output(fromSocketID)
	if !ok {
		return Connection{}, fmt.Errorf("%w: output %q on node %q", ErrSocketNotFound, fromSocketID, fromNodeID)
	}
	in, ok := to.Input(toSocketID)
	if !ok {
		return Connection{}, fmt.Errorf("%w: input %q on node %q", ErrSocketNotFound, toSocketID, toNodeID)
	}
	if !Compatible(out.Type, in.Type) {
		return Connection{}, fmt.Errorf("%w: %s -> %s", ErrIncompatibleSockets, out.Type, in.Type)
	}

	for _, c := range g.Connections {
		if c.FromNodeID == fromNodeID && c.FromSocketID == fromSocketID &&
			c.ToNodeID == toNodeID && c.ToSocketID == toSocketID {
			return c, nil
		}
	}

	kept := g.Connections[:0]
	for _, c := range g.Connections {
		if c.ToNodeID == toNodeID && c.ToSocketID == toSocketID {
			continue
		}
		kept = append(kept, c)
	}
	conn := Connection{
		ID:           uuid.NewString(),
		FromNodeID:   fromNodeID,
		FromSocketID: fromSocketID,
		ToNodeID:     toNodeID,
		ToSocketID:   toSocketID,
	}
	g.Connections = append(kept, conn)
	return conn, nil
}

// Disconnect removes the connection with the given id and reports whether
// it existed.
func (g *Graph) Disconnect(connectionID string) bool {
	for i, c := range g.Connections {
		if c.ID == connectionID {
			g.Connections = append(g.Connections[:i], g.Connections[i+1:]...)
			return true
		}
	}
	return false
}

// RemoveNode deletes a node along with every connection touching it. The
// entry point is cleared if it named the removed node.
func (g *Graph) RemoveNode(id string) error {
	idx := -1
	for i := range g.Nodes {
		if g.Nodes[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("%w: %q", ErrNodeNotFound, id)
	}
	g.Nodes = append(g.Nodes[:idx], g.Nodes[idx+1:]...)

	kept := g.Connections[:0]
	for _, c := range g.Connections {
		if c.FromNodeID != id && c.ToNodeID != id {
			kept = append(kept, c)
		}
	}
	g.Connections = kept

	if g.EntryPoint == id {
		g.EntryPoint = ""
	}
	return nil
}

// DuplicateNode copies a node under a new id, offset on the canvas. Socket
// ids are kept since they only need to be unique within their node.
// Connections are not copied.
func (g *Graph) DuplicateNode(id string) (*Node, error) {
	src, ok := g.Node(id)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNodeNotFound, id)
	}
	dup := Node{
		ID:    uuid.NewString(),
		Type:  src.Type,
		Kind:  src.Kind,
		Title: src.Title,
		Position: Position{
			X: src.Position.X + duplicateOffset,
			Y: src.Position.Y + duplicateOffset,
		},
		Inputs:  cloneSockets(src.Inputs),
		Outputs: cloneSockets(src.Outputs),
		Data:    CloneData(src.Data),
	}
	return g.AddNode(dup)
}
