package registry

import (
	"fmt"
	"log/slog"
	"maps"
	"slices"
)

// Module is the interface that node packs implement to be registered.
type Module interface {
	Register(r *Registry)
}

// Registry holds the node definitions for a single application instance.
type Registry struct {
	defs map[string]*Definition
}

// New creates an empty Registry and registers every given module into it.
func New(modules ...Module) *Registry {
	r := &Registry{defs: make(map[string]*Definition)}
	for _, m := range modules {
		m.Register(r)
	}
	return r
}

// Register adds a definition. It panics when the class is already
// registered or the definition has no function.
func (r *Registry) Register(def *Definition) {
	if def.Class == "" {
		panic("node definition without class type")
	}
	if def.Fn == nil {
		panic(fmt.Sprintf("node '%s' has no function", def.Class))
	}
	if _, exists := r.defs[def.Class]; exists {
		panic(fmt.Sprintf("node class '%s' already registered", def.Class))
	}
	slog.Debug("Registering node class.", "class", def.Class, "output_node", def.OutputNode)
	r.defs[def.Class] = def
}

// Lookup returns the definition of a class.
func (r *Registry) Lookup(class string) (*Definition, bool) {
	def, ok := r.defs[class]
	return def, ok
}

// IsOutputNode reports whether class is a registered output node.
func (r *Registry) IsOutputNode(class string) bool {
	def, ok := r.defs[class]
	return ok && def.OutputNode
}

// Classes returns the registered class types in sorted order.
func (r *Registry) Classes() []string {
	return slices.Sorted(maps.Keys(r.defs))
}
