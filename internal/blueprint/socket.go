package blueprint

// SocketType is the closed set of value types a socket can carry.
type SocketType string

const (
	TypeExec    SocketType = "exec"
	TypeBool    SocketType = "bool"
	TypeInt     SocketType = "int"
	TypeFloat   SocketType = "float"
	TypeString  SocketType = "string"
	TypeVector3 SocketType = "vector3"
	TypeObject  SocketType = "object"
	TypeAny     SocketType = "any"
)

// SocketTypes lists every member of the closed socket type set.
var SocketTypes = []SocketType{
	TypeExec, TypeBool, TypeInt, TypeFloat, TypeString, TypeVector3, TypeObject, TypeAny,
}

// Valid reports whether t belongs to the closed socket type set.
func (t SocketType) Valid() bool {
	for _, known := range SocketTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Compatible reports whether a value of type from may flow into a socket of
// type to: the types are equal or either side is any.
func Compatible(from, to SocketType) bool {
	return from == to || from == TypeAny || to == TypeAny
}

// Direction says whether a socket receives or produces values.
type Direction string

const (
	DirectionInput  Direction = "input"
	DirectionOutput Direction = "output"
)

// Socket is a typed connection point on a node.
type Socket struct {
	ID           string     `json:"id" yaml:"id"`
	Name         string     `json:"name" yaml:"name"`
	Type         SocketType `json:"type" yaml:"type"`
	Direction    Direction  `json:"direction" yaml:"direction"`
	DefaultValue any        `json:"defaultValue,omitempty" yaml:"defaultValue,omitempty"`
	Required     bool       `json:"required,omitempty" yaml:"required,omitempty"`
}

// HasDefault reports whether the socket declares a default value.
func (s *Socket) HasDefault() bool {
	return s.DefaultValue != nil
}
