package registry

import (
	"errors"
	"fmt"

	"github.com/vk/playtraversal/internal/prompt"
)

// Validate checks a prompt against the registry: every class must be
// registered, required inputs must be present, and no node may set an input
// its class does not declare.
func (r *Registry) Validate(p prompt.Prompt) error {
	var errs []error
	for _, id := range p.IDs() {
		n := p[id]
		def, ok := r.defs[n.ClassType]
		if !ok {
			errs = append(errs, fmt.Errorf("node '%s': unknown class type '%s'", id, n.ClassType))
			continue
		}
		for _, name := range def.Required {
			if _, ok := n.Inputs[name]; !ok {
				errs = append(errs, fmt.Errorf("node '%s' (%s): missing required input '%s'", id, n.ClassType, name))
			}
		}
		declared := make(map[string]struct{}, len(def.Required)+len(def.Optional)+len(def.Hidden))
		for _, group := range [][]string{def.Required, def.Optional, def.Hidden} {
			for _, name := range group {
				declared[name] = struct{}{}
			}
		}
		for _, name := range n.InputNames() {
			if _, ok := declared[name]; !ok {
				errs = append(errs, fmt.Errorf("node '%s' (%s): unknown input '%s'", id, n.ClassType, name))
			}
		}
		for _, name := range def.RawLinks {
			if in, ok := n.Inputs[name]; ok && !in.IsLink() {
				errs = append(errs, fmt.Errorf("node '%s' (%s): input '%s' must be a link", id, n.ClassType, name))
			}
		}
	}
	return errors.Join(errs...)
}
