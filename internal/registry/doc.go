// Package registry provides the central "glue" for the node system.
//
// The Registry maps the string type tags stored on graph nodes (e.g. "Branch")
// to Definitions: the socket schema a node is created with and the Behavior
// that gives it runtime semantics. Built-in node packs are Modules that
// register their definitions at startup; declarative node packs loaded from
// HCL bind to behaviours by name through the registry's catalogue.
//
// Registration may happen at any time. Re-registering a type tag replaces
// the previous definition, which is how node packs are hot reloaded.
package registry
