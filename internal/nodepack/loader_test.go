package nodepack

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/bpscript/internal/blueprint"
	"github.com/vk/bpscript/internal/interpreter"
	"github.com/vk/bpscript/internal/registry"
	"github.com/vk/bpscript/internal/testutil"
	"github.com/vk/bpscript/modules/arith"
)

const doublePack = `
node "Double" {
  node_type   = "data"
  title       = "Double"
  category    = "Math"
  description = "Multiply by two"
  behavior    = "Multiply"

  input "A" {
    type     = float
    default  = 0
    required = true
  }
  input "B" {
    type    = float
    default = 2
  }
  output "Result" {
    type = float
  }
}
`

func newRegistry() *registry.Registry {
	reg := registry.New()
	reg.Use(&arith.Module{})
	return reg
}

func TestLoadSource_BindsCataloguedBehavior(t *testing.T) {
	// --- Arrange ---
	reg := newRegistry()
	loader := NewLoader(reg)

	// --- Act ---
	defs, err := loader.LoadSource(context.Background(), "double.hcl", []byte(doublePack))

	// --- Assert ---
	require.NoError(t, err)
	require.Len(t, defs, 1)

	def, ok := reg.Get("Double")
	require.True(t, ok)
	assert.Equal(t, blueprint.KindData, def.Kind)
	assert.Equal(t, "Math", def.Category)
	assert.Equal(t, "Multiply", def.BehaviorName)
	assert.Equal(t, "double.hcl", def.Source)
	assert.Equal(t, []registry.SocketSpec{
		{ID: "a_in", Name: "A", Type: blueprint.TypeFloat, Default: 0.0, Required: true},
		{ID: "b_in", Name: "B", Type: blueprint.TypeFloat, Default: 2.0},
	}, def.Inputs)
	assert.Equal(t, []registry.SocketSpec{{ID: "result_out", Name: "Result", Type: blueprint.TypeFloat}}, def.Outputs)
	require.NoError(t, reg.Validate(context.Background()))

	b := testutil.NewGraphBuilder(t, reg).Node("Double", "d", nil)
	got, err := interpreter.New(b.Graph, reg).ExecuteNode(context.Background(), "d", map[string]any{"A": 21.0})
	require.NoError(t, err)
	assert.Equal(t, 42.0, got)
}

func TestLoadSource_Variants(t *testing.T) {
	const src = `
node "Teleport" {
  category = "Unity"

  input "Exec" {
    type = exec
  }
  input "Target Name" {
    type    = "string"
    default = "Player"
  }
  input "Steps" {
    id      = "steps"
    type    = int
    default = 2.7
  }
  input "Anything" {}
  output "Exec" {
    type = exec
  }
}

node "Marker" {
  node_type = "data"
  data = {
    label = "spawn"
    size  = 3
  }
  output "Where" {
    type = vector3
  }
}
`
	reg := newRegistry()
	defs, err := NewLoader(reg).LoadSource(context.Background(), "misc.hcl", []byte(src))
	require.NoError(t, err)
	require.Len(t, defs, 2)

	teleport, ok := reg.Get("Teleport")
	require.True(t, ok)
	assert.Equal(t, blueprint.KindExec, teleport.Kind, "node_type defaults to exec")
	assert.Equal(t, "Teleport", teleport.Title, "title defaults to the type tag")
	assert.False(t, teleport.Executable(), "no behavior means generation-only")
	assert.Equal(t, []registry.SocketSpec{
		{ID: "exec_in", Name: "Exec", Type: blueprint.TypeExec},
		{ID: "targetname_in", Name: "Target Name", Type: blueprint.TypeString, Default: "Player"},
		{ID: "steps", Name: "Steps", Type: blueprint.TypeInt, Default: 2.0},
		{ID: "anything_in", Name: "Anything", Type: blueprint.TypeAny},
	}, teleport.Inputs)

	marker, ok := reg.Get("Marker")
	require.True(t, ok)
	assert.Equal(t, map[string]any{"label": "spawn", "size": 3.0}, marker.Data)
}

func TestLoadSource_Errors(t *testing.T) {
	testCases := []struct {
		name    string
		src     string
		wantErr error
		errText string
	}{
		{
			name:    "unknown behavior",
			src:     `node "X" { behavior = "Teleport" }`,
			wantErr: ErrUnknownBehavior,
		},
		{
			name:    "unknown node type",
			src:     `node "X" { node_type = "macro" }`,
			wantErr: ErrInvalidDefinition,
		},
		{
			name:    "unknown socket type",
			src: `
node "X" {
  input "A" {
    type = matrix
  }
}`,
			wantErr: ErrInvalidDefinition,
		},
		{
			name:    "output with default",
			src: `
node "X" {
  output "A" {
    type    = float
    default = 1
  }
}`,
			wantErr: ErrInvalidDefinition,
		},
		{
			name:    "output reading node data",
			src: `
node "X" {
  output "A" {
    type     = float
    data_key = "a"
  }
}`,
			wantErr: ErrInvalidDefinition,
		},
		{
			name:    "default of the wrong type",
			src: `
node "X" {
  input "A" {
    type    = float
    default = "lots"
  }
}`,
			errText: "invalid default",
		},
		{
			name:    "syntax error",
			src:     `node "X" {`,
			errText: "failed to parse node pack",
		},
		{
			name:    "unknown attribute",
			src:     `node "X" { colour = "#fff" }`,
			errText: "failed to decode node pack",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			reg := newRegistry()
			before := reg.Len()

			_, err := NewLoader(reg).LoadSource(context.Background(), "bad.hcl", []byte(tc.src))

			require.Error(t, err)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
			}
			if tc.errText != "" {
				assert.Contains(t, err.Error(), tc.errText)
			}
			assert.Equal(t, before, reg.Len(), "nothing is registered on failure")
		})
	}
}

func TestLoad_Directory(t *testing.T) {
	// --- Arrange ---
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "nested"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "double.hcl"), []byte(doublePack), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "nested", "half.hcl"), []byte(`
node "Half" {
  node_type = "data"
  behavior  = "Divide"
  input "A" {
    type = float
  }
  input "B" {
    type    = float
    default = 2
  }
  output "Result" {
    type = float
  }
}
`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("not a pack"), 0o644))
	reg := newRegistry()

	// --- Act ---
	defs, err := NewLoader(reg).Load(context.Background(), dir, filepath.Join(dir, "missing"))

	// --- Assert ---
	require.NoError(t, err)
	require.Len(t, defs, 2)
	assert.Equal(t, "Double", defs[0].Type)
	assert.Equal(t, "Half", defs[1].Type)
	assert.Equal(t, filepath.Join(dir, "nested", "half.hcl"), defs[1].Source)
	_, ok := reg.Get("Half")
	assert.True(t, ok)
}

func TestLoad_OverridesBuiltin(t *testing.T) {
	reg := newRegistry()
	_, err := NewLoader(reg).LoadSource(context.Background(), "add.hcl", []byte(`
node "Add" {
  node_type = "data"
  category  = "Custom"
  behavior  = "Subtract"
  input "A" {
    type = float
  }
  input "B" {
    type = float
  }
  output "Result" {
    type = float
  }
}
`))
	require.NoError(t, err)

	def, ok := reg.Get("Add")
	require.True(t, ok)
	assert.Equal(t, "Custom", def.Category)

	b := testutil.NewGraphBuilder(t, reg).Node("Add", "op", nil)
	got, err := interpreter.New(b.Graph, reg).ExecuteNode(context.Background(), "op", map[string]any{"A": 5.0, "B": 3.0})
	require.NoError(t, err)
	assert.Equal(t, 2.0, got)
}

func TestLoadSource_BindsHostProvidedBehavior(t *testing.T) {
	// --- Arrange ---
	reg := registry.New()
	reg.Use(&testutil.SimpleModule{
		Behaviors: map[string]registry.Behavior{
			"Shout": registry.BehaviorFunc(func(_ context.Context, _ *blueprint.Node, in registry.Inputs, _ registry.ExecutionContext) (any, error) {
				return strings.ToUpper(in.String("Text", "")) + "!", nil
			}),
		},
	})
	_, err := NewLoader(reg).LoadSource(context.Background(), "shout.hcl", []byte(`
node "Shout" {
  node_type = "data"
  behavior  = "Shout"
  input "Text" {
    type    = string
    default = "hi"
  }
  output "Result" {
    type = string
  }
}
`))
	require.NoError(t, err)
	b := testutil.NewGraphBuilder(t, reg).Node("Shout", "s", nil)

	// --- Act ---
	got, err := interpreter.New(b.Graph, reg).ExecuteNode(context.Background(), "s", nil)

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, "HI!", got)
}

func TestLoadSource_DataKeyFeedsUnconnectedInput(t *testing.T) {
	// --- Arrange ---
	reg := registry.New()
	reg.Use(&testutil.SimpleModule{
		Behaviors: map[string]registry.Behavior{
			"Shout": registry.BehaviorFunc(func(_ context.Context, _ *blueprint.Node, in registry.Inputs, _ registry.ExecutionContext) (any, error) {
				return strings.ToUpper(in.String("Text", "")) + "!", nil
			}),
		},
	})
	_, err := NewLoader(reg).LoadSource(context.Background(), "shout.hcl", []byte(`
node "Shout" {
  node_type = "data"
  behavior  = "Shout"
  data = {
    text = "hey"
  }
  input "Text" {
    type     = string
    required = true
    data_key = "text"
  }
  output "Result" {
    type = string
  }
}
`))
	require.NoError(t, err)
	def, ok := reg.Get("Shout")
	require.True(t, ok)
	require.Equal(t, "text", def.Inputs[0].DataKey)

	b := testutil.NewGraphBuilder(t, reg).
		Node("Shout", "default", nil).
		Node("Shout", "custom", map[string]any{"text": "ho"})
	it := interpreter.New(b.Graph, reg, interpreter.WithPolicy(interpreter.Strict))

	// --- Act ---
	fromDefinition, err1 := it.ExecuteNode(context.Background(), "default", nil)
	fromNode, err2 := it.ExecuteNode(context.Background(), "custom", nil)

	// --- Assert ---
	require.NoError(t, err1)
	require.NoError(t, err2)
	assert.Equal(t, "HEY!", fromDefinition)
	assert.Equal(t, "HO!", fromNode)
	assert.Empty(t, it.Diagnostics())
}
