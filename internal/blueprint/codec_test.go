package blueprint

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// everyTypeGraph builds a graph that uses every socket type at least once,
// including a nested vector-shaped default.
func everyTypeGraph() *Graph {
	return &Graph{
		ID:   "g1",
		Name: "Every Type",
		Nodes: []Node{
			{
				ID:       "start",
				Type:     "Start",
				Kind:     KindEvent,
				Title:    "Start",
				Position: Position{X: 10, Y: 20.5},
				Inputs:   []Socket{},
				Outputs: []Socket{
					{ID: "exec_out", Name: "Exec", Type: TypeExec, Direction: DirectionOutput},
				},
				Data: map[string]any{},
			},
			{
				ID:    "spawn",
				Type:  "SpawnPrefab",
				Kind:  KindExec,
				Title: "Spawn Prefab",
				Inputs: []Socket{
					{ID: "exec_in", Name: "Exec", Type: TypeExec, Direction: DirectionInput},
					{ID: "prefab_in", Name: "Prefab", Type: TypeObject, Direction: DirectionInput, Required: true},
					{ID: "position_in", Name: "Position", Type: TypeVector3, Direction: DirectionInput,
						DefaultValue: map[string]any{"x": 1.5, "y": 0.0, "z": -2.0}},
					{ID: "count_in", Name: "Count", Type: TypeInt, Direction: DirectionInput, DefaultValue: 3.0},
					{ID: "active_in", Name: "Active", Type: TypeBool, Direction: DirectionInput, DefaultValue: false},
					{ID: "tag_in", Name: "Tag", Type: TypeString, Direction: DirectionInput, DefaultValue: `say "hi"`},
					{ID: "scale_in", Name: "Scale", Type: TypeFloat, Direction: DirectionInput, DefaultValue: 0.25},
					{ID: "extra_in", Name: "Extra", Type: TypeAny, Direction: DirectionInput,
						DefaultValue: map[string]any{"nested": map[string]any{"x": 1.0, "y": 2.0, "z": 3.0}, "list": []any{"a", 1.0}}},
				},
				Outputs: []Socket{
					{ID: "exec_out", Name: "Exec", Type: TypeExec, Direction: DirectionOutput},
					{ID: "spawned_out", Name: "Spawned", Type: TypeObject, Direction: DirectionOutput},
				},
				Data: map[string]any{"note": "spawns things"},
			},
		},
		Connections: []Connection{
			{ID: "c1", FromNodeID: "start", FromSocketID: "exec_out", ToNodeID: "spawn", ToSocketID: "exec_in"},
		},
		Variables: []Variable{
			{ID: "v1", Name: "health", Type: TypeFloat, DefaultValue: 100.0, Scope: ScopeLocal},
			{ID: "v2", Name: "home", Type: TypeVector3, DefaultValue: map[string]any{"x": 0.0, "y": 1.0, "z": 0.0}, Scope: ScopeGlobal},
		},
		EntryPoint: "start",
		Metadata:   map[string]any{"author": "tests"},
	}
}

func TestJSON_RoundTripIsLossless(t *testing.T) {
	// --- Arrange ---
	original := everyTypeGraph()
	var buf bytes.Buffer

	// --- Act ---
	require.NoError(t, Encode(&buf, original, FormatJSON))
	decoded, err := Decode(&buf, FormatJSON)

	// --- Assert ---
	require.NoError(t, err)
	if diff := cmp.Diff(original, decoded); diff != "" {
		t.Errorf("graph changed across JSON round trip (-want +got):\n%s", diff)
	}
}

func TestJSON_UsesPersistenceFieldNames(t *testing.T) {
	data, err := everyTypeGraph().ToJSON()
	require.NoError(t, err)

	for _, field := range []string{`"fromNodeId"`, `"fromSocketId"`, `"toNodeId"`, `"toSocketId"`, `"nodeType"`, `"entryPoint"`, `"defaultValue"`} {
		assert.Contains(t, string(data), field)
	}
}

func TestYAML_RoundTripKeepsStructure(t *testing.T) {
	// --- Arrange ---
	// YAML has no integer/float distinction for whole numbers, so this graph
	// sticks to values that decode back to the same Go types.
	original := &Graph{
		ID:   "g2",
		Name: "yaml",
		Nodes: []Node{{
			ID:   "n1",
			Type: "Print",
			Kind: KindExec,
			Inputs: []Socket{
				{ID: "message_in", Name: "Message", Type: TypeString, Direction: DirectionInput, DefaultValue: "Hello"},
				{ID: "where_in", Name: "Where", Type: TypeVector3, Direction: DirectionInput,
					DefaultValue: map[string]any{"x": 0.5, "y": 1.5, "z": 2.5}},
				{ID: "loud_in", Name: "Loud", Type: TypeBool, Direction: DirectionInput, DefaultValue: true},
			},
			Outputs: []Socket{{ID: "exec_out", Name: "Exec", Type: TypeExec, Direction: DirectionOutput}},
			Data:    map[string]any{},
		}},
		Connections: []Connection{},
		Variables:   []Variable{{ID: "v", Name: "speed", Type: TypeFloat, DefaultValue: 2.5, Scope: ScopeLocal}},
		Metadata:    map[string]any{"author": "tests"},
	}
	path := filepath.Join(t.TempDir(), "graph.yaml")

	// --- Act ---
	require.NoError(t, WriteFile(path, original))
	decoded, err := ReadFile(path)

	// --- Assert ---
	require.NoError(t, err)
	if diff := cmp.Diff(original, decoded); diff != "" {
		t.Errorf("graph changed across YAML round trip (-want +got):\n%s", diff)
	}
}

func TestReadFile_RejectsUnknownExtension(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "graph.toml"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))
}
