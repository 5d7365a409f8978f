package constants

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/bpscript/internal/blueprint"
	"github.com/vk/bpscript/internal/interpreter"
	"github.com/vk/bpscript/internal/registry"
	"github.com/vk/bpscript/internal/testutil"
)

func TestConstants(t *testing.T) {
	testCases := []struct {
		nodeType string
		data     map[string]any
		want     any
	}{
		{"FloatConstant", map[string]any{"value": 2.5}, 2.5},
		{"FloatConstant", nil, 0.0},
		{"StringConstant", map[string]any{"value": "Player"}, "Player"},
		{"BoolConstant", map[string]any{"value": true}, true},
		{"BoolConstant", nil, false},
		{"IntConstant", map[string]any{"value": 2.7}, 2.0},
		{"IntConstant", map[string]any{"value": -2.5}, -3.0},
		{"Vector3Constant", map[string]any{"value": map[string]any{"x": 1.0, "y": 2.0, "z": 3.0}}, blueprint.Vector3{X: 1, Y: 2, Z: 3}},
		{"Vector3Constant", nil, blueprint.Vector3{}},
	}

	for _, tc := range testCases {
		t.Run(tc.nodeType, func(t *testing.T) {
			reg := registry.New()
			reg.Use(&Module{})
			b := testutil.NewGraphBuilder(t, reg).Node(tc.nodeType, "c", tc.data)

			got, err := interpreter.New(b.Graph, reg).ExecuteNode(context.Background(), "c", nil)

			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestVector3Constant_NodesAreIndependent(t *testing.T) {
	// --- Arrange ---
	reg := registry.New()
	reg.Use(&Module{})
	def, ok := reg.Get("Vector3Constant")
	require.True(t, ok)
	a := def.Create(nil)

	// --- Act ---
	a.Data["value"].(map[string]any)["x"] = 5.0
	b := def.Create(nil)

	// --- Assert ---
	assert.Equal(t, blueprint.Vector3{}.Map(), b.Data["value"])
	assert.Equal(t, blueprint.Vector3{}.Map(), def.Data["value"])
}
