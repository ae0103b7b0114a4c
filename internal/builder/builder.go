package builder

import (
	"context"
	"fmt"

	"github.com/vk/playtraversal/internal/ctxlog"
	"github.com/vk/playtraversal/internal/graph"
	"github.com/vk/playtraversal/internal/prompt"
	"github.com/vk/playtraversal/internal/registry"
	"github.com/vk/playtraversal/internal/task"
)

// Builder transforms a graph node into an executable task.
//
// Build() returns an error when a linked producer has not recorded outputs
// or the linked slot does not exist.
type Builder interface {
	Build(ctx context.Context, id string, n *prompt.Node, def *registry.Definition) (*task.Task, error)
}

// DefaultBuilder resolves links against a graph.
type DefaultBuilder struct {
	g graph.Graph
}

// New creates a new default builder.
func New(g graph.Graph) Builder {
	return &DefaultBuilder{g: g}
}

// Build implements the Builder interface.
func (b *DefaultBuilder) Build(ctx context.Context, id string, n *prompt.Node, def *registry.Definition) (*task.Task, error) {
	resolved := make(map[string]any, len(n.Inputs))
	for _, name := range n.InputNames() {
		in := n.Inputs[name]
		link, isLink := in.Link()
		switch {
		case !isLink:
			resolved[name] = in.Value()
		case def != nil && def.IsRawLink(name):
			resolved[name] = link
		default:
			v, ok := b.g.Resolve(ctx, link)
			if !ok {
				return nil, fmt.Errorf("node '%s' input '%s': no output at slot %d of node '%s'", id, name, link.Slot, link.NodeID)
			}
			resolved[name] = v
		}
	}
	ctxlog.FromContext(ctx).Debug("Built task.", "node", id, "class", n.ClassType, "inputs", len(resolved))
	return &task.Task{
		ID:             id,
		Node:           n,
		Definition:     def,
		ResolvedInputs: resolved,
	}, nil
}
