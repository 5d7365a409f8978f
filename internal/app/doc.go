// Package app contains the core application logic. It builds the node
// registry from the compiled-in modules and any node packs, then runs one of
// the use-cases (run, generate, nodes, export, serve, store) against a graph,
// decoupled from any specific entrypoint like a CLI.
package app
