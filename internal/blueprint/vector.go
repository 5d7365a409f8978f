package blueprint

// Vector3 is the value carried by vector3 sockets. It serializes as
// {"x":..,"y":..,"z":..} so graph documents stay plain JSON.
type Vector3 struct {
	X float64 `json:"x" yaml:"x" cty:"x"`
	Y float64 `json:"y" yaml:"y" cty:"y"`
	Z float64 `json:"z" yaml:"z" cty:"z"`
}

// Add returns the component-wise sum.
func (v Vector3) Add(o Vector3) Vector3 {
	return Vector3{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z}
}

// Scale multiplies every component by s.
func (v Vector3) Scale(s float64) Vector3 {
	return Vector3{X: v.X * s, Y: v.Y * s, Z: v.Z * s}
}

// Map returns the vector in the shape it takes after a JSON round trip.
func (v Vector3) Map() map[string]any {
	return map[string]any{"x": v.X, "y": v.Y, "z": v.Z}
}
