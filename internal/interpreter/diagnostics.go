package interpreter

// DiagnosticKind classifies a condition the interpreter recovered from.
type DiagnosticKind string

const (
	DiagCycle         DiagnosticKind = "cycle"
	DiagMissingInput  DiagnosticKind = "missing_input"
	DiagUnknownBranch DiagnosticKind = "unknown_branch"
	DiagNoHost        DiagnosticKind = "no_host"
	DiagUnpublished   DiagnosticKind = "unpublished_output"
)

// Diagnostic records one recovered condition.
type Diagnostic struct {
	Kind     DiagnosticKind
	NodeID   string
	NodeType string
	Socket   string
}

// Diagnostics returns the conditions recovered from since the interpreter
// was created or last reset.
func (it *Interpreter) Diagnostics() []Diagnostic {
	return append([]Diagnostic(nil), it.diagnostics...)
}

// ResetDiagnostics clears the recorded diagnostics.
func (it *Interpreter) ResetDiagnostics() {
	it.diagnostics = nil
}

func (it *Interpreter) diagnose(kind DiagnosticKind, nodeID, nodeType, socket string) {
	it.diagnostics = append(it.diagnostics, Diagnostic{Kind: kind, NodeID: nodeID, NodeType: nodeType, Socket: socket})
}
