package registry

import (
	"log/slog"
	"sort"
	"strings"
	"sync"
)

// Module is the interface that every node pack compiled into the binary
// implements to add its definitions to a registry.
type Module interface {
	Register(r *Registry)
}

// Registry maps node type tags to their definitions and holds the catalogue
// of named behaviours that declarative node packs bind to.
//
// It is safe for concurrent use. Definitions are stored as private copies, so
// a lookup always observes either the previous or the next registration of a
// type, never a partial one.
type Registry struct {
	mu          sync.RWMutex
	definitions map[string]*Definition
	behaviors   map[string]Behavior
}

// New creates and initializes an empty Registry.
func New() *Registry {
	return &Registry{
		definitions: make(map[string]*Definition),
		behaviors:   make(map[string]Behavior),
	}
}

// Use registers every module in order.
func (r *Registry) Use(modules ...Module) {
	for _, mod := range modules {
		mod.Register(r)
	}
}

// Register stores a definition under its type tag. Registering a tag again
// replaces the previous definition; nodes already created from it keep their
// structure and execute with the new behaviour from then on.
func (r *Registry) Register(def *Definition) {
	stored := def.clone()

	r.mu.Lock()
	_, replaced := r.definitions[stored.Type]
	r.definitions[stored.Type] = stored
	r.mu.Unlock()

	slog.Debug("Registering node definition.", "type", stored.Type, "replaced", replaced)
}

// Get returns the definition registered for a type tag. A missing tag is not
// an error by itself; callers decide.
func (r *Registry) Get(nodeType string) (*Definition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.definitions[nodeType]
	return def, ok
}

// All returns every definition sorted by type tag.
func (r *Registry) All() []*Definition {
	return r.filter(func(*Definition) bool { return true })
}

// ByCategory returns the definitions in one category, sorted by type tag.
func (r *Registry) ByCategory(category string) []*Definition {
	return r.filter(func(d *Definition) bool { return d.Category == category })
}

// Search matches the query case-insensitively against title, description,
// type tag and category.
func (r *Registry) Search(query string) []*Definition {
	q := strings.ToLower(query)
	return r.filter(func(d *Definition) bool {
		return strings.Contains(strings.ToLower(d.Title), q) ||
			strings.Contains(strings.ToLower(d.Description), q) ||
			strings.Contains(strings.ToLower(d.Type), q) ||
			strings.Contains(strings.ToLower(d.Category), q)
	})
}

// Categories returns the distinct categories in use, sorted.
func (r *Registry) Categories() []string {
	r.mu.RLock()
	seen := make(map[string]struct{})
	for _, d := range r.definitions {
		seen[d.Category] = struct{}{}
	}
	r.mu.RUnlock()

	out := make([]string, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of registered definitions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.definitions)
}

func (r *Registry) filter(keep func(*Definition) bool) []*Definition {
	r.mu.RLock()
	out := make([]*Definition, 0, len(r.definitions))
	for _, d := range r.definitions {
		if keep(d) {
			out = append(out, d)
		}
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Type < out[j].Type })
	return out
}
