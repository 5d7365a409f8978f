package registry

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/bpscript/internal/blueprint"
)

func returning(v any) Behavior {
	return BehaviorFunc(func(context.Context, *blueprint.Node, Inputs, ExecutionContext) (any, error) {
		return v, nil
	})
}

func mathDef(typ, title, category string) *Definition {
	return &Definition{
		Type:        typ,
		Kind:        blueprint.KindData,
		Title:       title,
		Description: title + " two numbers",
		Category:    category,
		Inputs: []SocketSpec{
			{ID: "a_in", Name: "A", Type: blueprint.TypeFloat, Default: 0.0, Required: true},
			{ID: "b_in", Name: "B", Type: blueprint.TypeFloat, Default: 0.0, Required: true},
		},
		Outputs: []SocketSpec{{ID: "result_out", Name: "Result", Type: blueprint.TypeFloat}},
	}
}

func TestRegister_LastWriteWins(t *testing.T) {
	// --- Arrange ---
	r := New()
	first := mathDef("Add", "Add", "Math")
	first.Behavior = returning("first")
	second := mathDef("Add", "Add (v2)", "Math")
	second.Behavior = returning("second")

	// --- Act ---
	r.Register(first)
	r.Register(second)

	// --- Assert ---
	got, ok := r.Get("Add")
	require.True(t, ok)
	assert.Equal(t, "Add (v2)", got.Title)
	out, err := got.Behavior.Execute(context.Background(), nil, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "second", out)
	assert.Equal(t, 1, r.Len())
}

func TestRegister_StoresPrivateCopy(t *testing.T) {
	r := New()
	def := mathDef("Add", "Add", "Math")
	r.Register(def)

	def.Title = "mutated"
	def.Inputs[0].Name = "mutated"

	got, _ := r.Get("Add")
	assert.Equal(t, "Add", got.Title)
	assert.Equal(t, "A", got.Inputs[0].Name)
}

func TestRegister_StoresDeepCopy(t *testing.T) {
	r := New()
	def := mathDef("Move", "Move", "Unity")
	def.Inputs[0].Default = map[string]any{"x": 1.0}
	def.Data = map[string]any{"target": map[string]any{"x": 0.0}}
	r.Register(def)

	def.Inputs[0].Default.(map[string]any)["x"] = 7.0
	def.Data["target"].(map[string]any)["x"] = 7.0

	got, _ := r.Get("Move")
	assert.Equal(t, map[string]any{"x": 1.0}, got.Inputs[0].Default)
	assert.Equal(t, map[string]any{"target": map[string]any{"x": 0.0}}, got.Data)
}

func TestGet_MissingIsNotAnError(t *testing.T) {
	_, ok := New().Get("Nope")
	assert.False(t, ok)
}

func TestReadViews(t *testing.T) {
	r := New()
	r.Register(mathDef("Subtract", "Subtract", "Math"))
	r.Register(mathDef("Add", "Add", "Math"))
	r.Register(&Definition{Type: "Print", Kind: blueprint.KindExec, Title: "Print", Description: "Print message to console", Category: "Debug"})

	types := func(defs []*Definition) []string {
		var out []string
		for _, d := range defs {
			out = append(out, d.Type)
		}
		return out
	}

	assert.Equal(t, []string{"Add", "Print", "Subtract"}, types(r.All()))
	assert.Equal(t, []string{"Add", "Subtract"}, types(r.ByCategory("Math")))
	assert.Empty(t, r.ByCategory("Nope"))
	assert.Equal(t, []string{"Debug", "Math"}, r.Categories())

	t.Run("search matches title, description, type and category case-insensitively", func(t *testing.T) {
		assert.Equal(t, []string{"Print"}, types(r.Search("CONSOLE")))
		assert.Equal(t, []string{"Add", "Subtract"}, types(r.Search("math")))
		assert.Equal(t, []string{"Subtract"}, types(r.Search("subt")))
		assert.Empty(t, r.Search("zzz"))
	})
}

func TestCreate_ManufacturesNodeFromSchema(t *testing.T) {
	def := mathDef("Add", "Add", "Math")
	def.Data = map[string]any{"precision": 2.0, "label": "sum"}

	a := def.Create(map[string]any{"label": "total"})
	b := def.Create(nil)

	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, "Add", a.Type)
	assert.Equal(t, blueprint.KindData, a.Kind)
	require.Len(t, a.Inputs, 2)
	assert.Equal(t, blueprint.Socket{
		ID: "a_in", Name: "A", Type: blueprint.TypeFloat, Direction: blueprint.DirectionInput,
		DefaultValue: 0.0, Required: true,
	}, a.Inputs[0])
	assert.Equal(t, blueprint.DirectionOutput, a.Outputs[0].Direction)
	assert.Equal(t, map[string]any{"precision": 2.0, "label": "total"}, a.Data)
	assert.Equal(t, map[string]any{"precision": 2.0, "label": "sum"}, b.Data)
}

func TestRegisterBehavior_PanicsOnDuplicate(t *testing.T) {
	r := New()
	r.RegisterBehavior("Double", returning(2.0))

	assert.Panics(t, func() { r.RegisterBehavior("Double", returning(4.0)) })
	_, ok := r.Behavior("Double")
	assert.True(t, ok)
	assert.Equal(t, []string{"Double"}, r.BehaviorNames())
}

type testModule struct{}

func (testModule) Register(r *Registry) {
	def := mathDef("Add", "Add", "Math")
	def.Behavior = returning(0.0)
	r.MustRegister(def)
}

func TestUse_RegistersModules(t *testing.T) {
	r := New()
	r.Use(testModule{})

	_, ok := r.Get("Add")
	assert.True(t, ok)
	_, ok = r.Behavior("Add")
	assert.True(t, ok, "built-in behaviours are catalogued under their type tag")
}

func TestValidate(t *testing.T) {
	// --- Arrange ---
	r := New()
	r.Use(testModule{})
	r.Register(&Definition{
		Type: "Broken",
		Kind: "gizmo",
		Inputs: []SocketSpec{
			{ID: "x", Name: "X", Type: "matrix"},
		},
		Outputs: []SocketSpec{
			{ID: "x", Name: "X", Type: blueprint.TypeFloat},
		},
		BehaviorName: "Missing",
	})

	// --- Act ---
	err := r.Validate(context.Background())

	// --- Assert ---
	require.Error(t, err)
	assert.Equal(t, "registry validation failed:\n"+
		"- definition 'Broken': unknown node kind 'gizmo'\n"+
		"- definition 'Broken': socket 'x' has unknown type 'matrix'\n"+
		"- definition 'Broken': duplicate socket id 'x'\n"+
		"- definition 'Broken': behavior 'Missing' is not registered", err.Error())
}

func TestRegistry_ConcurrentRegisterAndGet(t *testing.T) {
	r := New()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			r.Register(mathDef("Add", "Add", "Math"))
		}()
		go func() {
			defer wg.Done()
			if def, ok := r.Get("Add"); ok {
				assert.Len(t, def.Inputs, 2)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, r.Len())
}

func TestCreate_NodesDoNotShareNestedValues(t *testing.T) {
	// --- Arrange ---
	r := New()
	def := &Definition{
		Type: "Vector3Constant", Kind: blueprint.KindData, Title: "Vector3",
		Inputs:  []SocketSpec{{ID: "offset_in", Name: "Offset", Type: blueprint.TypeVector3, Default: map[string]any{"x": 0.0, "y": 0.0, "z": 0.0}}},
		Outputs: []SocketSpec{{ID: "value_out", Name: "Value", Type: blueprint.TypeVector3}},
		Data:    map[string]any{"value": map[string]any{"x": 0.0, "y": 0.0, "z": 0.0}},
	}
	r.Register(def)
	template, _ := r.Get("Vector3Constant")
	override := map[string]any{"tags": []any{"spawn"}}

	// --- Act ---
	a := template.Create(override)
	a.Data["value"].(map[string]any)["x"] = 5.0
	a.Data["tags"].([]any)[0] = "changed"
	a.Inputs[0].DefaultValue.(map[string]any)["y"] = 5.0
	b := template.Create(nil)

	// --- Assert ---
	zero := map[string]any{"x": 0.0, "y": 0.0, "z": 0.0}
	assert.Equal(t, zero, b.Data["value"], "a fresh node starts from the pristine template")
	assert.Equal(t, zero, b.Inputs[0].DefaultValue)
	assert.Equal(t, zero, template.Data["value"], "the registered template is untouched")
	assert.Equal(t, zero, template.Inputs[0].Default)
	assert.Equal(t, []any{"spawn"}, override["tags"], "caller data is copied, not aliased")
}
