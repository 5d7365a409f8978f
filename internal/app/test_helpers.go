package app

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/bpscript/internal/blueprint"
	"github.com/vk/bpscript/internal/registry"
	"github.com/vk/bpscript/internal/testutil"
)

// SetupAppTest creates a new app instance for system testing. It returns
// the app with buffers capturing its command output and its debug log.
func SetupAppTest(t *testing.T, cfg Config, modules ...registry.Module) (*App, *testutil.SafeBuffer, *testutil.SafeBuffer) {
	t.Helper()

	out := &testutil.SafeBuffer{}
	logs := &testutil.SafeBuffer{}
	cfg.LogLevel = "debug"
	validated, err := NewConfig(cfg)
	require.NoError(t, err)
	testApp := NewApp(out, logs, validated, modules...)

	t.Cleanup(func() {
		if os.Getenv("BPS_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logs.String())
		}
	})

	return testApp, out, logs
}

// WriteGraphFixture builds a graph against the core node library and writes
// it to a file named name inside a temporary directory. build receives a
// builder whose registry holds the core modules.
func WriteGraphFixture(t *testing.T, name string, build func(b *testutil.GraphBuilder)) (string, *blueprint.Graph) {
	t.Helper()

	reg := registry.New()
	reg.Use(coreModules(io.Discard)...)
	b := testutil.NewGraphBuilder(t, reg)
	build(b)

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, blueprint.WriteFile(path, b.Graph))
	return path, b.Graph
}
