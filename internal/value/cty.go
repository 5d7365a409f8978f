package value

import (
	"fmt"

	"github.com/vk/bpscript/internal/blueprint"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// Vector3Type is the cty shape of a vector3 socket value.
var Vector3Type = cty.Object(map[string]cty.Type{
	"x": cty.Number,
	"y": cty.Number,
	"z": cty.Number,
})

// CtyType maps a socket type onto the cty type system. Types that carry no
// checkable shape map to cty.DynamicPseudoType.
func CtyType(t blueprint.SocketType) cty.Type {
	switch t {
	case blueprint.TypeBool:
		return cty.Bool
	case blueprint.TypeInt, blueprint.TypeFloat:
		return cty.Number
	case blueprint.TypeString:
		return cty.String
	case blueprint.TypeVector3:
		return Vector3Type
	default:
		return cty.DynamicPseudoType
	}
}

// FromCty converts a cty.Value into the plain Go shapes used in graph
// documents: float64, bool, string, map[string]any and []any.
func FromCty(val cty.Value) (any, error) {
	if !val.IsKnown() || val.IsNull() {
		return nil, nil
	}
	ty := val.Type()
	if ty.IsPrimitiveType() {
		switch ty {
		case cty.String:
			return val.AsString(), nil
		case cty.Number:
			var f float64
			if err := gocty.FromCtyValue(val, &f); err != nil {
				return nil, err
			}
			return f, nil
		case cty.Bool:
			return val.True(), nil
		default:
			return nil, fmt.Errorf("unsupported primitive type: %s", ty.FriendlyName())
		}
	}
	if ty.IsObjectType() || ty.IsMapType() {
		out := make(map[string]any)
		for it := val.ElementIterator(); it.Next(); {
			k, v := it.Element()
			elem, err := FromCty(v)
			if err != nil {
				return nil, err
			}
			out[k.AsString()] = elem
		}
		return out, nil
	}
	if ty.IsTupleType() || ty.IsListType() || ty.IsSetType() {
		out := []any{}
		for it := val.ElementIterator(); it.Next(); {
			_, v := it.Element()
			elem, err := FromCty(v)
			if err != nil {
				return nil, err
			}
			out = append(out, elem)
		}
		return out, nil
	}
	return nil, fmt.Errorf("unsupported cty.Type for conversion: %s", ty.FriendlyName())
}

// ToCty converts a plain Go value into a cty.Value.
func ToCty(data any) (cty.Value, error) {
	if data == nil {
		return cty.NullVal(cty.DynamicPseudoType), nil
	}
	switch v := data.(type) {
	case string:
		return cty.StringVal(v), nil
	case bool:
		return cty.BoolVal(v), nil
	case blueprint.Vector3:
		return gocty.ToCtyValue(v, Vector3Type)
	case map[string]any:
		attrs := make(map[string]cty.Value, len(v))
		for key, elem := range v {
			cv, err := ToCty(elem)
			if err != nil {
				return cty.NilVal, err
			}
			attrs[key] = cv
		}
		return cty.ObjectVal(attrs), nil
	case []any:
		elems := make([]cty.Value, 0, len(v))
		for _, elem := range v {
			cv, err := ToCty(elem)
			if err != nil {
				return cty.NilVal, err
			}
			elems = append(elems, cv)
		}
		return cty.TupleVal(elems), nil
	}
	if f, ok := Float(data); ok {
		return cty.NumberFloatVal(f), nil
	}
	return cty.NilVal, fmt.Errorf("unsupported type for conversion to cty.Value: %T", data)
}

// Coerce converts v to the shape declared by a socket type, for example the
// string "2.5" into the number 2.5 for a float socket. Types without a
// checkable shape pass v through unchanged.
func Coerce(v any, t blueprint.SocketType) (any, error) {
	want := CtyType(t)
	if want == cty.DynamicPseudoType || v == nil {
		return v, nil
	}
	cv, err := ToCty(v)
	if err != nil {
		return nil, err
	}
	return CoerceCty(cv, t)
}

// CoerceCty is Coerce for a value that is already a cty.Value, as produced by
// an HCL expression.
func CoerceCty(cv cty.Value, t blueprint.SocketType) (any, error) {
	want := CtyType(t)
	converted, err := convert.Convert(cv, want)
	if err != nil {
		return nil, fmt.Errorf("cannot use %s as %s: %w", cv.Type().FriendlyName(), t, err)
	}
	out, err := FromCty(converted)
	if err != nil {
		return nil, err
	}
	if t == blueprint.TypeInt {
		if n, ok := Int(out); ok {
			return float64(n), nil
		}
	}
	return out, nil
}
