package codegen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vk/bpscript/internal/blueprint"
)

func TestFormatLiteral(t *testing.T) {
	testCases := []struct {
		name string
		v    any
		t    blueprint.SocketType
		want string
	}{
		{"whole float", 100.0, blueprint.TypeFloat, "100f"},
		{"fractional float", 0.5, blueprint.TypeFloat, "0.5f"},
		{"int as float", 3, blueprint.TypeFloat, "3f"},
		{"int", 2.9, blueprint.TypeInt, "2"},
		{"negative int floors", -3.5, blueprint.TypeInt, "-4"},
		{"large int", 1e18, blueprint.TypeInt, "1000000000000000000"},
		{"int beyond int64", 1e21, blueprint.TypeInt, "1000000000000000000000"},
		{"non-numeric int", "many", blueprint.TypeInt, "many"},
		{"string", "Player", blueprint.TypeString, `"Player"`},
		{"string with quotes", `say "hi"`, blueprint.TypeString, `"say \"hi\""`},
		{"string with backslash", `C:\tmp`, blueprint.TypeString, `"C:\\tmp"`},
		{"bool", true, blueprint.TypeBool, "true"},
		{"falsy bool", 0.0, blueprint.TypeBool, "false"},
		{"vector", blueprint.Vector3{X: 1, Y: 2.5, Z: 0}, blueprint.TypeVector3, "new Vector3(1f, 2.5f, 0f)"},
		{"vector from map", map[string]any{"x": 1.0, "y": 0.0, "z": -1.0}, blueprint.TypeVector3, "new Vector3(1f, 0f, -1f)"},
		{"non-numeric float", "abc", blueprint.TypeFloat, "abc"},
		{"any falls back to raw", 7.0, blueprint.TypeAny, "7"},
		{"unknown type", "x", blueprint.SocketType("matrix"), "x"},
		{"nil object", nil, blueprint.TypeObject, "null"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, FormatLiteral(tc.v, tc.t))
		})
	}
}

func TestTypeTables(t *testing.T) {
	assert.Equal(t, "float", CSharpType(blueprint.TypeFloat))
	assert.Equal(t, "GameObject", CSharpType(blueprint.TypeObject))
	assert.Equal(t, "void", CSharpType(blueprint.TypeExec))
	assert.Equal(t, "object", CSharpType(blueprint.SocketType("matrix")))

	assert.Equal(t, "Vector3.zero", DefaultLiteral(blueprint.TypeVector3))
	assert.Equal(t, `""`, DefaultLiteral(blueprint.TypeString))
	assert.Equal(t, "null", DefaultLiteral(blueprint.TypeAny))
}

func TestIdentifier(t *testing.T) {
	assert.Equal(t, "player_name", identifier("player name"))
	assert.Equal(t, "_1st", identifier("1st"))
	assert.Equal(t, "_", identifier(""))
}
