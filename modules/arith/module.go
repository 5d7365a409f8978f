package arith

import (
	"context"
	"math"

	"github.com/vk/bpscript/internal/blueprint"
	"github.com/vk/bpscript/internal/registry"
)

const (
	category = "Math"
	color    = "#7B68EE"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

type binaryOp func(a, b float64) float64

func (op binaryOp) behavior() registry.Behavior {
	return registry.BehaviorFunc(func(_ context.Context, _ *blueprint.Node, in registry.Inputs, _ registry.ExecutionContext) (any, error) {
		return op(in.Float("A", 0), in.Float("B", 0)), nil
	})
}

// Divide returns zero for a zero divisor.
func Divide(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return a / b
}

// Modulo returns the remainder with the sign of a, and zero for a zero
// divisor.
func Modulo(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return math.Mod(a, b)
}

func define(nodeType, description string, defaultValue float64, op binaryOp) *registry.Definition {
	return &registry.Definition{
		Type: nodeType, Kind: blueprint.KindData, Title: nodeType,
		Description: description,
		Category:    category, Color: color,
		Inputs: []registry.SocketSpec{
			{ID: "a_in", Name: "A", Type: blueprint.TypeFloat, Default: defaultValue, Required: true},
			{ID: "b_in", Name: "B", Type: blueprint.TypeFloat, Default: defaultValue, Required: true},
		},
		Outputs:  []registry.SocketSpec{{ID: "result_out", Name: "Result", Type: blueprint.TypeFloat}},
		Behavior: op.behavior(),
	}
}

// Register registers the arithmetic nodes with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.MustRegister(define("Add", "Add two numbers", 0, func(a, b float64) float64 { return a + b }))
	r.MustRegister(define("Subtract", "Subtract two numbers", 0, func(a, b float64) float64 { return a - b }))
	r.MustRegister(define("Multiply", "Multiply two numbers", 1, func(a, b float64) float64 { return a * b }))
	r.MustRegister(define("Divide", "Divide two numbers", 1, Divide))
	r.MustRegister(define("Modulo", "Calculate remainder after division", 1, Modulo))
}
