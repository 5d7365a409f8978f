package testutil

import "github.com/vk/bpscript/internal/registry"

// SimpleModule is a test helper for registering ad-hoc node definitions and
// named behaviours as one module.
type SimpleModule struct {
	Definitions []*registry.Definition
	Behaviors   map[string]registry.Behavior
}

// Register implements the registry.Module interface.
func (m *SimpleModule) Register(r *registry.Registry) {
	for name, b := range m.Behaviors {
		r.RegisterBehavior(name, b)
	}
	for _, def := range m.Definitions {
		r.Register(def)
	}
}
