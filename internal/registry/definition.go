package registry

import (
	"github.com/google/uuid"
	"github.com/vk/bpscript/internal/blueprint"
)

// SocketSpec is the shape of a socket on a definition. The id is the stable
// socket id every created node receives.
type SocketSpec struct {
	ID       string
	Name     string
	Type     blueprint.SocketType
	Default  any
	Required bool
	// DataKey names the node data entry that supplies an unconnected input,
	// as Print's message comes from data.message.
	DataKey string
}

// The exec sockets shared by most flow nodes.
var (
	ExecIn  = SocketSpec{ID: "exec_in", Name: "Exec", Type: blueprint.TypeExec}
	ExecOut = SocketSpec{ID: "exec_out", Name: "Exec", Type: blueprint.TypeExec}
)

// Definition is the template for one node type.
type Definition struct {
	Type        string
	Kind        blueprint.NodeKind
	Title       string
	Description string
	Category    string
	Color       string
	Inputs      []SocketSpec
	Outputs     []SocketSpec
	// Data holds the literal configuration new nodes start with.
	Data map[string]any

	// Behavior runs the node. Generation-only nodes leave it nil.
	Behavior Behavior
	// BehaviorName records the catalogue entry a node pack bound Behavior
	// from. Empty for definitions registered from Go code.
	BehaviorName string
	// Source names where the definition was loaded from, if not Go code.
	Source string
}

// Executable reports whether the definition has runtime semantics.
func (d *Definition) Executable() bool {
	return d.Behavior != nil
}

// Create instantiates a node with a fresh id. The node's data starts as a
// copy of the definition's Data with the given entries laid over it.
func (d *Definition) Create(data map[string]any) blueprint.Node {
	n := blueprint.Node{
		ID:      uuid.NewString(),
		Type:    d.Type,
		Kind:    d.Kind,
		Title:   d.Title,
		Inputs:  make([]blueprint.Socket, 0, len(d.Inputs)),
		Outputs: make([]blueprint.Socket, 0, len(d.Outputs)),
		Data:    make(map[string]any, len(d.Data)+len(data)),
	}
	for _, s := range d.Inputs {
		n.Inputs = append(n.Inputs, s.socket(blueprint.DirectionInput))
	}
	for _, s := range d.Outputs {
		n.Outputs = append(n.Outputs, s.socket(blueprint.DirectionOutput))
	}
	for k, v := range d.Data {
		n.Data[k] = blueprint.CloneValue(v)
	}
	for k, v := range data {
		n.Data[k] = blueprint.CloneValue(v)
	}
	return n
}

// Input returns the input spec with the given socket id.
func (d *Definition) Input(id string) (SocketSpec, bool) {
	for _, s := range d.Inputs {
		if s.ID == id {
			return s, true
		}
	}
	return SocketSpec{}, false
}

func (s SocketSpec) socket(dir blueprint.Direction) blueprint.Socket {
	return blueprint.Socket{
		ID:           s.ID,
		Name:         s.Name,
		Type:         s.Type,
		Direction:    dir,
		DefaultValue: blueprint.CloneValue(s.Default),
		Required:     s.Required,
	}
}

func (d *Definition) clone() *Definition {
	c := *d
	c.Inputs = cloneSpecs(d.Inputs)
	c.Outputs = cloneSpecs(d.Outputs)
	c.Data = blueprint.CloneData(d.Data)
	return &c
}

func cloneSpecs(specs []SocketSpec) []SocketSpec {
	if specs == nil {
		return nil
	}
	out := make([]SocketSpec, len(specs))
	for i, s := range specs {
		s.Default = blueprint.CloneValue(s.Default)
		out[i] = s
	}
	return out
}
