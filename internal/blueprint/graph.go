package blueprint

// Scope says where a variable is visible.
type Scope string

const (
	ScopeLocal  Scope = "local"
	ScopeGlobal Scope = "global"
)

// Variable is a named, typed slot declared by a graph.
type Variable struct {
	ID           string     `json:"id" yaml:"id"`
	Name         string     `json:"name" yaml:"name"`
	Type         SocketType `json:"type" yaml:"type"`
	DefaultValue any        `json:"defaultValue,omitempty" yaml:"defaultValue,omitempty"`
	Scope        Scope      `json:"scope" yaml:"scope"`
}

// Connection is a directed edge from an output socket to an input socket.
type Connection struct {
	ID           string `json:"id" yaml:"id"`
	FromNodeID   string `json:"fromNodeId" yaml:"fromNodeId"`
	FromSocketID string `json:"fromSocketId" yaml:"fromSocketId"`
	ToNodeID     string `json:"toNodeId" yaml:"toNodeId"`
	ToSocketID   string `json:"toSocketId" yaml:"toSocketId"`
}

// Graph is a complete visual program. Nodes and connections reference each
// other only by id, so a Graph has no pointer cycles and serializes as-is.
type Graph struct {
	ID          string         `json:"id" yaml:"id"`
	Name        string         `json:"name" yaml:"name"`
	Nodes       []Node         `json:"nodes" yaml:"nodes"`
	Connections []Connection   `json:"connections" yaml:"connections"`
	Variables   []Variable     `json:"variables" yaml:"variables"`
	EntryPoint  string         `json:"entryPoint,omitempty" yaml:"entryPoint,omitempty"`
	Metadata    map[string]any `json:"metadata" yaml:"metadata"`
}

// Node returns the node with the given id.
func (g *Graph) Node(id string) (*Node, bool) {
	for i := range g.Nodes {
		if g.Nodes[i].ID == id {
			return &g.Nodes[i], true
		}
	}
	return nil, false
}

// NodesOfType returns every node whose type tag equals typ, in graph order.
func (g *Graph) NodesOfType(typ string) []*Node {
	var out []*Node
	for i := range g.Nodes {
		if g.Nodes[i].Type == typ {
			out = append(out, &g.Nodes[i])
		}
	}
	return out
}

// ConnectionInto returns the connection terminating at the given input
// socket. If the graph violates the one-connection-per-input invariant, the
// connection registered last wins.
func (g *Graph) ConnectionInto(nodeID, socketID string) (*Connection, bool) {
	var found *Connection
	for i := range g.Connections {
		c := &g.Connections[i]
		if c.ToNodeID == nodeID && c.ToSocketID == socketID {
			found = c
		}
	}
	return found, found != nil
}

// ConnectionsFrom returns every connection leaving the given output socket,
// in connection-array order.
func (g *Graph) ConnectionsFrom(nodeID, socketID string) []Connection {
	var out []Connection
	for _, c := range g.Connections {
		if c.FromNodeID == nodeID && c.FromSocketID == socketID {
			out = append(out, c)
		}
	}
	return out
}

// Variable returns the declared variable with the given name.
func (g *Graph) Variable(name string) (*Variable, bool) {
	for i := range g.Variables {
		if g.Variables[i].Name == name {
			return &g.Variables[i], true
		}
	}
	return nil, false
}
