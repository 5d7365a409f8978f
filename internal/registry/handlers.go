package registry

import (
	"fmt"
	"log/slog"
	"sort"
)

// RegisterBehavior adds a named behaviour to the catalogue that node packs
// bind to by name. Names are unique; registering one twice is a programming
// error and panics.
func (r *Registry) RegisterBehavior(name string, b Behavior) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.behaviors[name]; exists {
		panic(fmt.Sprintf("behavior with name '%s' already registered", name))
	}
	slog.Debug("Registering behavior.", "name", name)
	r.behaviors[name] = b
}

// Behavior looks up a catalogued behaviour by name.
func (r *Registry) Behavior(name string) (Behavior, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.behaviors[name]
	return b, ok
}

// BehaviorNames lists the catalogue, sorted.
func (r *Registry) BehaviorNames() []string {
	r.mu.RLock()
	names := make([]string, 0, len(r.behaviors))
	for name := range r.behaviors {
		names = append(names, name)
	}
	r.mu.RUnlock()
	sort.Strings(names)
	return names
}

// MustRegister is used by built-in modules: it catalogues the definition's
// behaviour under its type tag and then registers the definition.
func (r *Registry) MustRegister(def *Definition) {
	if def.Behavior != nil {
		r.RegisterBehavior(def.Type, def.Behavior)
	}
	r.Register(def)
}
