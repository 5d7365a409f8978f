package codegen

import (
	"fmt"

	"github.com/vk/bpscript/internal/blueprint"
)

// statementTemplate emits an exec node and the chains that follow it. A
// non-empty return marks the node Unsupported.
type statementTemplate func(e *emitter, n *blueprint.Node, indent int, path map[string]bool) string

// expressionTemplate returns the C# expression a data node evaluates to, or
// a reason it cannot be expressed.
type expressionTemplate func(e *emitter, n *blueprint.Node) (string, string)

var statements map[string]statementTemplate

var expressions map[string]expressionTemplate

func init() {
	statements = map[string]statementTemplate{
		"Print":         printStatement,
		"Branch":        branchStatement,
		"Sequence":      sequenceStatement,
		"Delay":         delayStatement,
		"SetVariable":   setVariableStatement,
		"SetPosition":   then("%s.transform.position = %s;", "Object", "Position"),
		"PlaySound":     then("%s.GetComponent<AudioSource>().Play();", "Sound"),
		"SpawnPrefab":   then("Instantiate(%s, %s, Quaternion.identity);", "Prefab", "Position"),
		"DestroyObject": then("Destroy(%s);", "Object"),
		"SetText":       then("%s.GetComponent<UnityEngine.UI.Text>().text = %s;", "Target", "Text"),
		"ShowUI":        then("%s.SetActive(true);", "Target"),
		"HideUI":        then("%s.SetActive(false);", "Target"),
		"SendMessage":   sendMessageStatement,
	}

	expressions = map[string]expressionTemplate{
		"Add":             binary("%s + %s"),
		"Subtract":        binary("%s - %s"),
		"Multiply":        binary("%s * %s"),
		"Divide":          guarded("/"),
		"Modulo":          guarded("%"),
		"Lerp":            call("Mathf.Lerp(%s, %s, %s)", "A", "B", "T"),
		"Clamp":           call("Mathf.Clamp(%s, %s, %s)", "Value", "Min", "Max"),
		"RandomRange":     call("Random.Range(%s, %s)", "Min", "Max"),
		"VectorAdd":       binary("%s + %s"),
		"VectorScale":     call("%s * %s", "Vector", "Scale"),
		"GetPosition":     call("%s.transform.position", "Object"),
		"Compare":         compareExpression,
		"GetComponent":    getComponentExpression,
		"GetVariable":     getVariableExpression,
		"GetKeyDown":      getKeyDownExpression,
		"FloatConstant":   constant(blueprint.TypeFloat),
		"IntConstant":     constant(blueprint.TypeInt),
		"StringConstant":  constant(blueprint.TypeString),
		"BoolConstant":    constant(blueprint.TypeBool),
		"Vector3Constant": constant(blueprint.TypeVector3),
	}
}

// then emits one statement built from the named inputs and continues along
// exec_out.
func then(format string, inputs ...string) statementTemplate {
	return func(e *emitter, n *blueprint.Node, indent int, path map[string]bool) string {
		args := make([]any, len(inputs))
		for i, name := range inputs {
			args[i] = e.input(n, name)
		}
		e.line(indent, format, args...)
		e.chain(n, "exec_out", indent, path)
		return ""
	}
}

func printStatement(e *emitter, n *blueprint.Node, indent int, path map[string]bool) string {
	msg := e.inputOrData(n, "Message", "message")
	if msg == DefaultLiteral(blueprint.TypeString) {
		msg = quote("Hello World")
	}
	e.line(indent, "Debug.Log(%s);", msg)
	e.chain(n, "exec_out", indent, path)
	return ""
}

func branchStatement(e *emitter, n *blueprint.Node, indent int, path map[string]bool) string {
	e.line(indent, "if (%s)", e.input(n, "Condition"))
	e.body(n, "true_out", "True branch", indent, path)
	e.line(indent, "else")
	e.body(n, "false_out", "False branch", indent, path)
	return ""
}

// body emits a braced block holding one exec chain, or a comment when the
// output leads nowhere.
func (e *emitter) body(n *blueprint.Node, output, empty string, indent int, path map[string]bool) {
	e.line(indent, "{")
	before := len(e.lines)
	e.chain(n, output, indent+1, path)
	if len(e.lines) == before {
		e.line(indent+1, "// %s", empty)
	}
	e.line(indent, "}")
}

func sequenceStatement(e *emitter, n *blueprint.Node, indent int, path map[string]bool) string {
	for _, out := range n.ExecOutputs() {
		e.chain(n, out.ID, indent, path)
	}
	return ""
}

func delayStatement(e *emitter, n *blueprint.Node, indent int, path map[string]bool) string {
	e.line(indent, "// Delay %s needs a coroutine; the following statements run immediately", e.input(n, "Duration"))
	e.chain(n, "completed_out", indent, path)
	return "needs a coroutine"
}

func setVariableStatement(e *emitter, n *blueprint.Node, indent int, path map[string]bool) string {
	name := e.literal(n, "Name", "variableName")
	if name == "" {
		e.line(indent, "// %s node", n.Type)
		e.chain(n, "exec_out", indent, path)
		return "variable name is not a literal"
	}
	e.line(indent, "%s = %s;", identifier(name), e.input(n, "Value"))
	e.chain(n, "exec_out", indent, path)
	return ""
}

func sendMessageStatement(e *emitter, n *blueprint.Node, indent int, path map[string]bool) string {
	target := e.input(n, "Target")
	method := e.inputOrData(n, "Method", "methodName")
	if s, ok := n.InputByName("Value"); ok {
		if _, connected := e.graph.ConnectionInto(n.ID, s.ID); connected || s.HasDefault() {
			e.line(indent, "%s.SendMessage(%s, %s);", target, method, e.input(n, "Value"))
			e.chain(n, "exec_out", indent, path)
			return ""
		}
	}
	e.line(indent, "%s.SendMessage(%s);", target, method)
	e.chain(n, "exec_out", indent, path)
	return ""
}

func binary(format string) expressionTemplate {
	return call(format, "A", "B")
}

func call(format string, inputs ...string) expressionTemplate {
	return func(e *emitter, n *blueprint.Node) (string, string) {
		args := make([]any, len(inputs))
		for i, name := range inputs {
			args[i] = e.input(n, name)
		}
		return fmt.Sprintf(format, args...), ""
	}
}

// guarded renders a division-like operator that yields zero for a zero
// divisor.
func guarded(op string) expressionTemplate {
	return func(e *emitter, n *blueprint.Node) (string, string) {
		a, b := e.input(n, "A"), e.input(n, "B")
		return fmt.Sprintf("%s != 0f ? %s %s %s : 0f", b, a, op, b), ""
	}
}

var compareOperators = map[string]string{
	"Equal":        "==",
	"NotEqual":     "!=",
	"Greater":      ">",
	"GreaterEqual": ">=",
	"Less":         "<",
	"LessEqual":    "<=",
}

func compareExpression(e *emitter, n *blueprint.Node) (string, string) {
	op, ok := compareOperators[e.literal(n, "Operation", "operation")]
	if !ok {
		op = "=="
	}
	return fmt.Sprintf("%s %s %s", e.input(n, "A"), op, e.input(n, "B")), ""
}

func getComponentExpression(e *emitter, n *blueprint.Node) (string, string) {
	typeName := e.literal(n, "Component Type", "componentType")
	if typeName == "" {
		return "", "component type is not a literal"
	}
	return fmt.Sprintf("%s.GetComponent(%s)", e.input(n, "Object"), quote(typeName)), ""
}

func getVariableExpression(e *emitter, n *blueprint.Node) (string, string) {
	name := e.literal(n, "Name", "variableName")
	if name == "" {
		return "", "variable name is not a literal"
	}
	return identifier(name), ""
}

func getKeyDownExpression(e *emitter, n *blueprint.Node) (string, string) {
	key := e.literal(n, "Key", "key")
	if key == "" {
		key = "Space"
	}
	return fmt.Sprintf("Input.GetKeyDown(KeyCode.%s)", identifier(key)), ""
}

func constant(t blueprint.SocketType) expressionTemplate {
	return func(_ *emitter, n *blueprint.Node) (string, string) {
		v, ok := n.Data["value"]
		if !ok || v == nil {
			return DefaultLiteral(t), ""
		}
		return FormatLiteral(v, t), ""
	}
}
