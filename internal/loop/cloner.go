package loop

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"github.com/vk/playtraversal/internal/graph"
	"github.com/vk/playtraversal/internal/perr"
	"github.com/vk/playtraversal/internal/prompt"
)

// RecurseID is the local id of the cloned close node inside an expansion.
const RecurseID = "Recurse"

// Clone copies the nodes in ids into a new expansion built under prefix.
//
// Links between copied nodes are rewired to the copies. Links to nodes
// outside ids are frozen to the value the producer already returned, so an
// iteration never re-runs work outside the loop body. A link to an outside
// producer that has not completed yet is a MalformedStateError. Every copy
// displays as the node it was copied from. The copy of openID receives next
// as literal inputs, replacing what it had. The expansion returns output 0 of
// the copied close node.
func Clone(ctx context.Context, g GraphView, prefix string, ids []string, openID, closeID string, next map[string]any) (*graph.Expansion, error) {
	contained := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		contained[id] = struct{}{}
	}
	if _, ok := contained[openID]; !ok {
		return nil, fmt.Errorf("open node '%s' is not part of the loop body", openID)
	}
	if _, ok := contained[closeID]; !ok {
		return nil, fmt.Errorf("close node '%s' is not part of the loop body", closeID)
	}
	local := func(id string) string {
		if id == closeID {
			return RecurseID
		}
		return id
	}

	b := graph.NewBuilder(prefix)
	for _, id := range ids {
		if id == RecurseID && id != closeID {
			return nil, fmt.Errorf("node id '%s' is reserved for the loop close", RecurseID)
		}
		n, ok := g.Node(ctx, id)
		if !ok {
			return nil, fmt.Errorf("node '%s' not found while cloning loop body", id)
		}
		b.Node(n.ClassType, local(id)).SetOverrideDisplayID(id)
	}

	for _, id := range ids {
		n, _ := g.Node(ctx, id)
		clone := b.Lookup(local(id))
		for _, name := range n.InputNames() {
			in := n.Inputs[name]
			link, ok := in.Link()
			if !ok {
				clone.SetInput(name, in)
				continue
			}
			if _, inside := contained[link.NodeID]; inside {
				clone.SetInput(name, b.Lookup(local(link.NodeID)).Out(link.Slot))
				continue
			}
			if v, ok := g.Resolve(ctx, link); ok {
				clone.SetValue(name, v)
				continue
			}
			return nil, perr.Malformedf("node '%s' input '%s' links to '%s' outside the loop body, which has not run yet", id, name, link.NodeID)
		}
	}

	open := b.Lookup(local(openID))
	for _, name := range slices.Sorted(maps.Keys(next)) {
		open.SetValue(name, next[name])
	}

	recurse := b.Lookup(RecurseID)
	return &graph.Expansion{
		Graph:  b.Finalize(),
		Result: []prompt.Input{recurse.Out(0)},
	}, nil
}
