package logic

import (
	"context"
	"math/rand/v2"

	"github.com/vk/bpscript/internal/blueprint"
	"github.com/vk/bpscript/internal/ctxlog"
	"github.com/vk/bpscript/internal/registry"
)

const (
	category = "Logic"
	color    = "#E74C3C"
)

// Module implements the registry.Module interface for this package. Rand
// supplies RandomRange with values in [0, 1); nil uses math/rand/v2.
type Module struct {
	Rand func() float64
}

// Compare applies one of the named comparison operators. Unknown operators
// compare for equality.
func Compare(op string, a, b float64) bool {
	switch op {
	case "NotEqual":
		return a != b
	case "Greater":
		return a > b
	case "GreaterEqual":
		return a >= b
	case "Less":
		return a < b
	case "LessEqual":
		return a <= b
	default:
		return a == b
	}
}

// Clamp limits v to [lo, hi]. When lo > hi the lower bound wins.
func Clamp(v, lo, hi float64) float64 {
	return max(lo, min(hi, v))
}

// Lerp interpolates linearly from a to b.
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

func compareBehavior(ctx context.Context, n *blueprint.Node, in registry.Inputs, _ registry.ExecutionContext) (any, error) {
	fallback, _ := n.DataString("operation")
	if fallback == "" {
		fallback = "Equal"
	}
	op := in.String("Operation", fallback)
	ctxlog.FromContext(ctx).Debug("Comparing values.", "nodeID", n.ID, "operation", op)
	return Compare(op, in.Float("A", 0), in.Float("B", 0)), nil
}

func (m *Module) randomRange(_ context.Context, _ *blueprint.Node, in registry.Inputs, _ registry.ExecutionContext) (any, error) {
	next := m.Rand
	if next == nil {
		next = rand.Float64
	}
	lo, hi := in.Float("Min", 0), in.Float("Max", 1)
	return next()*(hi-lo) + lo, nil
}

// Register registers the logic nodes with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.MustRegister(&registry.Definition{
		Type: "Compare", Kind: blueprint.KindData, Title: "Compare",
		Description: "Compare two values (greater than, less than, equal)",
		Category:    category, Color: color,
		Inputs: []registry.SocketSpec{
			{ID: "a_in", Name: "A", Type: blueprint.TypeFloat, Required: true},
			{ID: "b_in", Name: "B", Type: blueprint.TypeFloat, Required: true},
			{ID: "op_in", Name: "Operation", Type: blueprint.TypeString, Default: "Equal", Required: true, DataKey: "operation"},
		},
		Outputs:  []registry.SocketSpec{{ID: "result_out", Name: "Result", Type: blueprint.TypeBool}},
		Data:     map[string]any{"operation": "Equal"},
		Behavior: registry.BehaviorFunc(compareBehavior),
	})
	r.MustRegister(&registry.Definition{
		Type: "Clamp", Kind: blueprint.KindData, Title: "Clamp",
		Description: "Clamp value between min and max",
		Category:    category, Color: color,
		Inputs: []registry.SocketSpec{
			{ID: "value_in", Name: "Value", Type: blueprint.TypeFloat, Required: true},
			{ID: "min_in", Name: "Min", Type: blueprint.TypeFloat, Default: 0.0, Required: true},
			{ID: "max_in", Name: "Max", Type: blueprint.TypeFloat, Default: 1.0, Required: true},
		},
		Outputs: []registry.SocketSpec{{ID: "result_out", Name: "Result", Type: blueprint.TypeFloat}},
		Behavior: registry.BehaviorFunc(func(_ context.Context, _ *blueprint.Node, in registry.Inputs, _ registry.ExecutionContext) (any, error) {
			return Clamp(in.Float("Value", 0), in.Float("Min", 0), in.Float("Max", 1)), nil
		}),
	})
	r.MustRegister(&registry.Definition{
		Type: "Lerp", Kind: blueprint.KindData, Title: "Lerp",
		Description: "Linear interpolation between two values",
		Category:    category, Color: color,
		Inputs: []registry.SocketSpec{
			{ID: "a_in", Name: "A", Type: blueprint.TypeFloat, Default: 0.0, Required: true},
			{ID: "b_in", Name: "B", Type: blueprint.TypeFloat, Default: 1.0, Required: true},
			{ID: "t_in", Name: "T", Type: blueprint.TypeFloat, Default: 0.5, Required: true},
		},
		Outputs: []registry.SocketSpec{{ID: "result_out", Name: "Result", Type: blueprint.TypeFloat}},
		Behavior: registry.BehaviorFunc(func(_ context.Context, _ *blueprint.Node, in registry.Inputs, _ registry.ExecutionContext) (any, error) {
			return Lerp(in.Float("A", 0), in.Float("B", 1), in.Float("T", 0.5)), nil
		}),
	})
	r.MustRegister(&registry.Definition{
		Type: "RandomRange", Kind: blueprint.KindData, Title: "Random Range",
		Description: "Generate random number between min and max",
		Category:    category, Color: color,
		Inputs: []registry.SocketSpec{
			{ID: "min_in", Name: "Min", Type: blueprint.TypeFloat, Default: 0.0, Required: true},
			{ID: "max_in", Name: "Max", Type: blueprint.TypeFloat, Default: 1.0, Required: true},
		},
		Outputs:  []registry.SocketSpec{{ID: "result_out", Name: "Result", Type: blueprint.TypeFloat}},
		Behavior: registry.BehaviorFunc(m.randomRange),
	})
}
