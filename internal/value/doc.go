// Package value coerces the dynamic values that flow between nodes.
//
// Socket values are plain Go values (float64, bool, string, map[string]any)
// so that graphs and payloads survive JSON encoding. Behaviours use the
// helpers here to read them leniently, and node-pack loading uses the cty
// bridge to turn HCL literals into typed defaults.
package value
