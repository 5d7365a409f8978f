package testutil

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// AssertNodeExecuted checks captured text-format log output for the record
// the interpreter writes when it runs a node.
func AssertNodeExecuted(t *testing.T, logOutput, nodeID string) {
	t.Helper()

	expected := fmt.Sprintf("nodeID=%s ", nodeID)
	for _, line := range strings.Split(logOutput, "\n") {
		if strings.Contains(line, `msg="Executing node."`) && strings.Contains(line, expected) {
			return
		}
	}
	require.Fail(t, "node was not executed", "expected an execution record for node '%s' in logs", nodeID)
}

// AssertNodeNotExecuted is the inverse of AssertNodeExecuted.
func AssertNodeNotExecuted(t *testing.T, logOutput, nodeID string) {
	t.Helper()

	expected := fmt.Sprintf("nodeID=%s ", nodeID)
	for _, line := range strings.Split(logOutput, "\n") {
		if strings.Contains(line, `msg="Executing node."`) && strings.Contains(line, expected) {
			require.Fail(t, "node was executed", "unexpected execution record for node '%s' in logs", nodeID)
		}
	}
}

// RequireLogContains fails unless every fragment appears in the log output.
func RequireLogContains(t *testing.T, logOutput string, fragments ...string) {
	t.Helper()
	for _, f := range fragments {
		require.True(t, strings.Contains(logOutput, f), "expected log output to contain %q", f)
	}
}
