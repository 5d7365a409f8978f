// Package codegen lowers a blueprint graph into a Unity C# MonoBehaviour.
//
// Event nodes become Unity message methods (Start, Update, OnTriggerEnter)
// whose bodies follow the exec chains leaving them. Data nodes with a known
// template become private helper methods. Inputs render as their literal
// default, or as ConnectedPlaceholder when wired; connected expressions are
// not inlined. Anything without a template becomes a comment and is reported
// through Result.Diagnostics.
package codegen
