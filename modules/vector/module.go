package vector

import (
	"context"

	"github.com/vk/bpscript/internal/blueprint"
	"github.com/vk/bpscript/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the vector math nodes with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.MustRegister(&registry.Definition{
		Type: "VectorAdd", Kind: blueprint.KindData, Title: "Vector Add",
		Description: "Add two Vector3 values",
		Category:    "Math", Color: "#7B68EE",
		Inputs: []registry.SocketSpec{
			{ID: "a_in", Name: "A", Type: blueprint.TypeVector3, Required: true},
			{ID: "b_in", Name: "B", Type: blueprint.TypeVector3, Required: true},
		},
		Outputs: []registry.SocketSpec{{ID: "result_out", Name: "Result", Type: blueprint.TypeVector3}},
		Behavior: registry.BehaviorFunc(func(_ context.Context, _ *blueprint.Node, in registry.Inputs, _ registry.ExecutionContext) (any, error) {
			return in.Vector3("A").Add(in.Vector3("B")), nil
		}),
	})
	r.MustRegister(&registry.Definition{
		Type: "VectorScale", Kind: blueprint.KindData, Title: "Vector Scale",
		Description: "Multiply vector by scalar",
		Category:    "Math", Color: "#7B68EE",
		Inputs: []registry.SocketSpec{
			{ID: "vector_in", Name: "Vector", Type: blueprint.TypeVector3, Required: true},
			{ID: "scale_in", Name: "Scale", Type: blueprint.TypeFloat, Default: 1.0, Required: true},
		},
		Outputs: []registry.SocketSpec{{ID: "result_out", Name: "Result", Type: blueprint.TypeVector3}},
		Behavior: registry.BehaviorFunc(func(_ context.Context, _ *blueprint.Node, in registry.Inputs, _ registry.ExecutionContext) (any, error) {
			return in.Vector3("Vector").Scale(in.Float("Scale", 1)), nil
		}),
	})
}
