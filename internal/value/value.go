package value

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/vk/bpscript/internal/blueprint"
)

// Float coerces a dynamic value to float64. Only numeric values convert;
// anything else reports false.
func Float(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

// FloatOr is Float with a fallback for absent or non-numeric values.
func FloatOr(v any, fallback float64) float64 {
	if f, ok := Float(v); ok {
		return f
	}
	return fallback
}

// Int floors a numeric value. Values outside the int64 range do not
// convert.
func Int(v any) (int64, bool) {
	f, ok := Float(v)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	f = math.Floor(f)
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}

// Bool reports the truthiness of a dynamic value: nil, false, zero, NaN and
// the empty string are false, everything else is true.
func Bool(v any) bool {
	switch b := v.(type) {
	case nil:
		return false
	case bool:
		return b
	case string:
		return b != ""
	}
	if f, ok := Float(v); ok {
		return f != 0 && !math.IsNaN(f)
	}
	return true
}

// String renders a dynamic value for display. nil renders as the empty
// string.
func String(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case bool:
		return strconv.FormatBool(s)
	case blueprint.Vector3:
		return fmt.Sprintf("(%s, %s, %s)", formatFloat(s.X), formatFloat(s.Y), formatFloat(s.Z))
	}
	if f, ok := Float(v); ok {
		return formatFloat(f)
	}
	if vec, ok := Vector3(v); ok {
		return String(vec)
	}
	return fmt.Sprint(v)
}

// StringOr is String with a fallback for nil and the empty string.
func StringOr(v any, fallback string) string {
	if s := String(v); s != "" {
		return s
	}
	return fallback
}

// Vector3 accepts a blueprint.Vector3 or the {x, y, z} map a vector becomes
// after a JSON round trip. Missing components are zero.
func Vector3(v any) (blueprint.Vector3, bool) {
	switch vec := v.(type) {
	case blueprint.Vector3:
		return vec, true
	case *blueprint.Vector3:
		if vec == nil {
			return blueprint.Vector3{}, false
		}
		return *vec, true
	case map[string]any:
		_, hasX := vec["x"]
		_, hasY := vec["y"]
		_, hasZ := vec["z"]
		if !hasX && !hasY && !hasZ {
			return blueprint.Vector3{}, false
		}
		return blueprint.Vector3{
			X: FloatOr(vec["x"], 0),
			Y: FloatOr(vec["y"], 0),
			Z: FloatOr(vec["z"], 0),
		}, true
	default:
		return blueprint.Vector3{}, false
	}
}

// Vector3Or is Vector3 with a fallback.
func Vector3Or(v any, fallback blueprint.Vector3) blueprint.Vector3 {
	if vec, ok := Vector3(v); ok {
		return vec
	}
	return fallback
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
