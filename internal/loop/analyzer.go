package loop

import (
	"context"
	"fmt"
	"slices"

	"github.com/vk/playtraversal/internal/nodeid"
	"github.com/vk/playtraversal/internal/perr"
	"github.com/vk/playtraversal/internal/prompt"
)

// GraphView is the part of the run graph the analyzer and the cloner read.
// graph.Graph satisfies it.
type GraphView interface {
	Node(ctx context.Context, id string) (*prompt.Node, bool)
	Original() prompt.Prompt
	DisplayID(ctx context.Context, id string) string
	Resolve(ctx context.Context, link prompt.Link) (any, bool)
}

// Analyzer finds the loop body between an open and a close node.
type Analyzer struct {
	// Markers are the loop boundary classes. Producers displayed as one of
	// these never count as loop parents for output discovery.
	Markers []string
	// IsOutput reports whether a class is an output node.
	IsOutput func(classType string) bool
}

type walk struct {
	ctx context.Context
	g   GraphView
	a   Analyzer

	upstream  map[string][]string
	parentIDs map[string]struct{}
}

// Closure returns the ids of every node that must run again for one more
// iteration of the loop closed by closeID and opened by openID, in natural
// order. It contains the nodes reachable downstream from openID within the
// upstream cone of closeID, the output nodes hanging off that cone, and
// openID and closeID themselves.
func (a Analyzer) Closure(ctx context.Context, g GraphView, closeID, openID string) ([]string, error) {
	w := &walk{
		ctx:       ctx,
		g:         g,
		a:         a,
		upstream:  make(map[string][]string),
		parentIDs: make(map[string]struct{}),
	}
	if err := w.exploreUpstream(closeID); err != nil {
		return nil, err
	}
	w.exploreOutputs()

	contained := make(map[string]struct{})
	w.collect(openID, contained)
	contained[closeID] = struct{}{}
	contained[openID] = struct{}{}

	ids := make([]string, 0, len(contained))
	for id := range contained {
		if _, ok := g.Node(ctx, id); !ok {
			return nil, perr.Malformedf("loop body references node '%s' which is not in the graph", id)
		}
		ids = append(ids, id)
	}
	prompt.SortIDs(ids)
	return ids, nil
}

func (w *walk) exploreUpstream(id string) error {
	n, ok := w.g.Node(w.ctx, id)
	if !ok {
		return fmt.Errorf("node '%s' not found while exploring loop body", id)
	}
	for _, name := range n.InputNames() {
		link, ok := n.Inputs[name].Link()
		if !ok {
			continue
		}
		producer := link.NodeID
		display := w.g.DisplayID(w.ctx, producer)
		dn, ok := w.g.Node(w.ctx, display)
		if !ok {
			return fmt.Errorf("display node '%s' of '%s' not found", display, producer)
		}
		if !slices.Contains(w.a.Markers, dn.ClassType) {
			w.parentIDs[display] = struct{}{}
		}
		if _, seen := w.upstream[producer]; !seen {
			w.upstream[producer] = nil
			if err := w.exploreUpstream(producer); err != nil {
				return err
			}
		}
		w.upstream[producer] = append(w.upstream[producer], id)
	}
	return nil
}

// exploreOutputs attaches authored output nodes to the cone. An output node
// whose producer is a loop parent becomes a consumer of every upstream node
// displayed as that producer. Inside an expansion the output id is moved to
// the same nesting prefix.
func (w *walk) exploreOutputs() {
	if w.a.IsOutput == nil {
		return
	}
	original := w.g.Original()
	outputs := make(map[string][]string)
	for _, id := range original.IDs() {
		n := original[id]
		if !w.a.IsOutput(n.ClassType) {
			continue
		}
		for _, name := range n.InputNames() {
			if link, ok := n.Inputs[name].Link(); ok {
				outputs[id] = append(outputs[id], link.NodeID)
			}
		}
	}
	if len(outputs) == 0 {
		return
	}
	outIDs := make([]string, 0, len(outputs))
	for id := range outputs {
		outIDs = append(outIDs, id)
	}
	prompt.SortIDs(outIDs)

	parents := make([]string, 0, len(w.upstream))
	for id := range w.upstream {
		parents = append(parents, id)
	}
	prompt.SortIDs(parents)

	for _, parent := range parents {
		display := w.g.DisplayID(w.ctx, parent)
		addr, err := nodeid.Parse(parent)
		nested := err == nil && addr.IsNested()
		for _, outID := range outIDs {
			for _, producer := range outputs[outID] {
				if _, ok := w.parentIDs[producer]; !ok || producer != display {
					continue
				}
				target := outID
				if nested {
					target = nodeid.ReplaceLast(parent, outID)
					if _, ok := w.g.Node(w.ctx, target); !ok {
						continue
					}
				}
				if !slices.Contains(w.upstream[parent], target) {
					w.upstream[parent] = append(w.upstream[parent], target)
				}
			}
		}
	}
}

func (w *walk) collect(id string, contained map[string]struct{}) {
	for _, child := range w.upstream[id] {
		if _, ok := contained[child]; ok {
			continue
		}
		contained[child] = struct{}{}
		w.collect(child, contained)
	}
}
