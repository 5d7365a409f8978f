package blueprint

// NodeKind classifies how the interpreter treats a node.
type NodeKind string

const (
	KindExec     NodeKind = "exec"
	KindData     NodeKind = "data"
	KindEvent    NodeKind = "event"
	KindVariable NodeKind = "variable"
	KindFunction NodeKind = "function"
)

// Valid reports whether k is one of the known node kinds.
func (k NodeKind) Valid() bool {
	switch k {
	case KindExec, KindData, KindEvent, KindVariable, KindFunction:
		return true
	}
	return false
}

// Position is the node's location on the editor canvas. The engine never
// reads it; it is carried so graphs round-trip losslessly.
type Position struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Node is one instance of a node definition inside a graph.
type Node struct {
	ID       string         `json:"id" yaml:"id"`
	Type     string         `json:"type" yaml:"type"`
	Kind     NodeKind       `json:"nodeType" yaml:"nodeType"`
	Title    string         `json:"title" yaml:"title"`
	Position Position       `json:"position" yaml:"position"`
	Inputs   []Socket       `json:"inputs" yaml:"inputs"`
	Outputs  []Socket       `json:"outputs" yaml:"outputs"`
	Data     map[string]any `json:"data" yaml:"data"`
}

// Input returns the input socket with the given id.
func (n *Node) Input(id string) (*Socket, bool) {
	return findSocket(n.Inputs, id)
}

// Output returns the output socket with the given id.
func (n *Node) Output(id string) (*Socket, bool) {
	return findSocket(n.Outputs, id)
}

// InputByName returns the first input socket carrying the given display name.
func (n *Node) InputByName(name string) (*Socket, bool) {
	for i := range n.Inputs {
		if n.Inputs[i].Name == name {
			return &n.Inputs[i], true
		}
	}
	return nil, false
}

// ExecOutputs returns the node's exec-typed output sockets in declaration order.
func (n *Node) ExecOutputs() []Socket {
	var out []Socket
	for _, s := range n.Outputs {
		if s.Type == TypeExec {
			out = append(out, s)
		}
	}
	return out
}

// DataString returns a string entry from the node's literal configuration.
func (n *Node) DataString(key string) (string, bool) {
	if n.Data == nil {
		return "", false
	}
	s, ok := n.Data[key].(string)
	return s, ok
}

func findSocket(sockets []Socket, id string) (*Socket, bool) {
	for i := range sockets {
		if sockets[i].ID == id {
			return &sockets[i], true
		}
	}
	return nil, false
}
