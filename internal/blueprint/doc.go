// Package blueprint defines the graph model of a visual script: typed
// sockets, node instances, the connections between them, and graph-level
// variables.
//
// Nodes and connections refer to each other by id only, so a Graph is a
// plain value that serializes to JSON or YAML without loss. The package also
// carries structural validation, the editor-side mutation helpers used by
// collaborators that build graphs, and a Mermaid export for documentation.
//
// Nothing in this package executes a graph; see the interpreter and codegen
// packages for that.
package blueprint
