package codegen

import (
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/vk/bpscript/internal/blueprint"
	"github.com/vk/bpscript/internal/value"
)

// ConnectedPlaceholder stands in for an input whose value comes from a
// connection. Connected expressions are not inlined.
const ConnectedPlaceholder = "/* connected value */"

var csharpTypes = map[blueprint.SocketType]string{
	blueprint.TypeBool:    "bool",
	blueprint.TypeInt:     "int",
	blueprint.TypeFloat:   "float",
	blueprint.TypeString:  "string",
	blueprint.TypeVector3: "Vector3",
	blueprint.TypeObject:  "GameObject",
	blueprint.TypeExec:    "void",
	blueprint.TypeAny:     "object",
}

var defaultLiterals = map[blueprint.SocketType]string{
	blueprint.TypeBool:    "false",
	blueprint.TypeInt:     "0",
	blueprint.TypeFloat:   "0f",
	blueprint.TypeString:  `""`,
	blueprint.TypeVector3: "Vector3.zero",
	blueprint.TypeObject:  "null",
}

// CSharpType names the C# type used for a socket type. Unknown types map to
// object.
func CSharpType(t blueprint.SocketType) string {
	if name, ok := csharpTypes[t]; ok {
		return name
	}
	return "object"
}

// DefaultLiteral is the literal used for an input with neither a connection
// nor a declared default.
func DefaultLiteral(t blueprint.SocketType) string {
	if lit, ok := defaultLiterals[t]; ok {
		return lit
	}
	return "null"
}

// FormatLiteral renders a value as a C# literal of the given socket type.
// Values that do not fit the type, and types outside the known set, fall
// back to the value's plain string form.
func FormatLiteral(v any, t blueprint.SocketType) string {
	switch t {
	case blueprint.TypeString:
		return quote(value.String(v))
	case blueprint.TypeBool:
		if value.Bool(v) {
			return "true"
		}
		return "false"
	case blueprint.TypeFloat:
		return floatLiteral(v)
	case blueprint.TypeVector3:
		if vec, ok := value.Vector3(v); ok {
			return "new Vector3(" + floatLiteral(vec.X) + ", " + floatLiteral(vec.Y) + ", " + floatLiteral(vec.Z) + ")"
		}
		return raw(v)
	case blueprint.TypeInt:
		return intLiteral(v)
	default:
		return raw(v)
	}
}

// intLiteral always writes whole numbers in positional notation, never as
// 1e+21.
func intLiteral(v any) string {
	if n, ok := value.Int(v); ok {
		return strconv.FormatInt(n, 10)
	}
	if f, ok := value.Float(v); ok && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return strconv.FormatFloat(math.Floor(f), 'f', -1, 64)
	}
	return raw(v)
}

func floatLiteral(v any) string {
	if f, ok := value.Float(v); ok {
		return value.String(f) + "f"
	}
	return raw(v)
}

func raw(v any) string {
	if v == nil {
		return "null"
	}
	return value.String(v)
}

func quote(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\r", `\r`, "\t", `\t`)
	return `"` + r.Replace(s) + `"`
}

// identifier turns arbitrary text into a valid C# identifier.
func identifier(s string) string {
	var b strings.Builder
	for i, r := range s {
		switch {
		case unicode.IsLetter(r) || r == '_':
			b.WriteRune(r)
		case unicode.IsDigit(r):
			if i == 0 {
				b.WriteRune('_')
			}
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "_"
	}
	return b.String()
}
