package host

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/bpscript/internal/blueprint"
	"github.com/vk/bpscript/internal/interpreter"
	"github.com/vk/bpscript/internal/registry"
	"github.com/vk/bpscript/internal/testutil"
)

type sent struct {
	topic   string
	payload any
}

func TestCommand_SendsResolvedInputs(t *testing.T) {
	// --- Arrange ---
	reg := registry.New()
	reg.Use(&Module{})
	b := testutil.NewGraphBuilder(t, reg).
		Node("SetPosition", "move", nil).
		Node("PlaySound", "sound", nil).
		Connect("move", "exec_out", "sound", "exec_in").
		Default("move", "position_in", blueprint.Vector3{X: 1, Y: 2, Z: 3})
	var got []sent
	it := interpreter.New(b.Graph, reg, interpreter.WithHostSender(func(_ context.Context, topic string, payload any) error {
		got = append(got, sent{topic, payload})
		return nil
	}))

	// --- Act ---
	_, err := it.ExecuteNode(context.Background(), "move", map[string]any{"Object": "Player"})

	// --- Assert ---
	require.NoError(t, err)
	want := []sent{
		{CommandTopic, map[string]any{
			"command": "SetPosition",
			"nodeId":  "move",
			"args":    map[string]any{"Object": "Player", "Position": blueprint.Vector3{X: 1, Y: 2, Z: 3}},
		}},
		{CommandTopic, map[string]any{"command": "PlaySound", "nodeId": "sound", "args": map[string]any{}}},
	}
	assert.Equal(t, want, got)
}

func TestCommand_SendFailureStopsFlow(t *testing.T) {
	reg := registry.New()
	reg.Use(&Module{})
	b := testutil.NewGraphBuilder(t, reg).
		Node("ShowUI", "show", nil).
		Node("HideUI", "hide", nil).
		Connect("show", "exec_out", "hide", "exec_in")
	errOffline := errors.New("host offline")
	calls := 0
	it := interpreter.New(b.Graph, reg, interpreter.WithHostSender(func(context.Context, string, any) error {
		calls++
		return errOffline
	}))

	_, err := it.ExecuteNode(context.Background(), "show", nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, errOffline)
	assert.Equal(t, 1, calls)
}

func TestGenerationOnlyNodesHaveNoBehavior(t *testing.T) {
	reg := registry.New()
	reg.Use(&Module{})

	for _, nodeType := range []string{"GetPosition", "GetComponent"} {
		def, ok := reg.Get(nodeType)
		require.True(t, ok, nodeType)
		assert.Nil(t, def.Behavior, nodeType)
	}
}
