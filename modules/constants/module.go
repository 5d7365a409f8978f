package constants

import (
	"context"

	"github.com/vk/bpscript/internal/blueprint"
	"github.com/vk/bpscript/internal/registry"
	"github.com/vk/bpscript/internal/value"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

type convert func(v any) any

func define(nodeType, title, description string, t blueprint.SocketType, initial any, fn convert) *registry.Definition {
	return &registry.Definition{
		Type: nodeType, Kind: blueprint.KindData, Title: title,
		Description: description,
		Category:    "Constants", Color: "#9B59B6",
		Outputs: []registry.SocketSpec{{ID: "value_out", Name: "Value", Type: t}},
		Data:    map[string]any{"value": initial},
		Behavior: registry.BehaviorFunc(func(_ context.Context, n *blueprint.Node, _ registry.Inputs, _ registry.ExecutionContext) (any, error) {
			return fn(n.Data["value"]), nil
		}),
	}
}

// Register registers the constant nodes with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.MustRegister(define("FloatConstant", "Float", "Float constant value", blueprint.TypeFloat, 0.0,
		func(v any) any { return value.FloatOr(v, 0) }))
	r.MustRegister(define("StringConstant", "String", "String constant value", blueprint.TypeString, "",
		func(v any) any { return value.String(v) }))
	r.MustRegister(define("BoolConstant", "Bool", "Boolean constant value", blueprint.TypeBool, false,
		func(v any) any { return value.Bool(v) }))
	r.MustRegister(define("IntConstant", "Int", "Integer constant value", blueprint.TypeInt, 0.0,
		func(v any) any {
			n, _ := value.Int(v)
			return float64(n)
		}))
	r.MustRegister(define("Vector3Constant", "Vector3", "Vector3 constant value", blueprint.TypeVector3, blueprint.Vector3{}.Map(),
		func(v any) any { return value.Vector3Or(v, blueprint.Vector3{}) }))
}
