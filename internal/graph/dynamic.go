package graph

import (
	"context"
	"fmt"
	"sync"

	"github.com/vk/playtraversal/internal/ctxlog"
	"github.com/vk/playtraversal/internal/node"
	"github.com/vk/playtraversal/internal/nodeid"
	"github.com/vk/playtraversal/internal/nodestore"
	"github.com/vk/playtraversal/internal/prompt"
	"github.com/vk/playtraversal/internal/topologystore"
)

// Dynamic is the reference Graph implementation. It composes a topology
// store and a node store and tracks the parent and display chains of
// ephemeral nodes.
type Dynamic struct {
	original prompt.Prompt
	topology topologystore.Store
	state    nodestore.Store

	mu      sync.RWMutex
	parents map[string]string
	display map[string]string
}

// NewDynamic loads the authored prompt into ts and returns the facade.
// Links to producers absent from the prompt are rejected.
func NewDynamic(ctx context.Context, original prompt.Prompt, ts topologystore.Store, ns nodestore.Store) (*Dynamic, error) {
	d := &Dynamic{
		original: original,
		topology: ts,
		state:    ns,
		parents:  make(map[string]string),
		display:  make(map[string]string),
	}
	if err := d.load(ctx, original); err != nil {
		return nil, err
	}
	return d, nil
}

// AddEphemeral implements Graph.
func (d *Dynamic) AddEphemeral(ctx context.Context, parentID string, nodes prompt.Prompt) error {
	if err := d.load(ctx, nodes); err != nil {
		return fmt.Errorf("expansion of node '%s': %w", parentID, err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	for id, n := range nodes {
		d.parents[id] = parentID
		displayID := n.OverrideDisplayID
		if displayID == "" {
			displayID = parentID
		}
		if displayID != id {
			d.display[id] = displayID
		}
	}
	ctxlog.FromContext(ctx).Debug("Added ephemeral nodes.", "parent", parentID, "count", len(nodes))
	return nil
}

// load adds every node first and then its links, so nodes may link to each
// other in any order.
func (d *Dynamic) load(ctx context.Context, nodes prompt.Prompt) error {
	ids := nodes.IDs()
	addrs := make(map[string]nodeid.Address, len(ids))
	for _, id := range ids {
		addr, err := nodeid.Parse(id)
		if err != nil {
			return fmt.Errorf("invalid node id %q: %w", id, err)
		}
		if err := d.topology.AddNode(ctx, *addr, nodes[id]); err != nil {
			return err
		}
		addrs[id] = *addr
	}
	for _, id := range ids {
		for _, name := range nodes[id].InputNames() {
			link, ok := nodes[id].Inputs[name].Link()
			if !ok {
				continue
			}
			from, err := nodeid.Parse(link.NodeID)
			if err != nil {
				return fmt.Errorf("node '%s' input '%s': invalid producer id %q: %w", id, name, link.NodeID, err)
			}
			if err := d.topology.AddDependency(ctx, *from, addrs[id]); err != nil {
				return fmt.Errorf("node '%s' input '%s': %w", id, name, err)
			}
		}
	}
	return nil
}

// Node implements Graph.
func (d *Dynamic) Node(ctx context.Context, id string) (*prompt.Node, bool) {
	addr, err := nodeid.Parse(id)
	if err != nil {
		return nil, false
	}
	return d.topology.GetNode(ctx, *addr)
}

// Original implements Graph.
func (d *Dynamic) Original() prompt.Prompt {
	return d.original
}

// DisplayID implements Graph.
func (d *Dynamic) DisplayID(ctx context.Context, id string) string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	// the chain is finite: every display id was assigned before its node was
	// added, so it can only point at an older node
	for {
		next, ok := d.display[id]
		if !ok {
			return id
		}
		id = next
	}
}

// ParentID implements Graph.
func (d *Dynamic) ParentID(ctx context.Context, id string) (string, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	p, ok := d.parents[id]
	return p, ok
}

// AllIDs implements Graph.
func (d *Dynamic) AllIDs(ctx context.Context) []string {
	addrs := d.topology.AllNodes(ctx)
	ids := make([]string, 0, len(addrs))
	for _, a := range addrs {
		ids = append(ids, a.String())
	}
	return ids
}

// DependenciesOf implements Graph.
func (d *Dynamic) DependenciesOf(ctx context.Context, id string) ([]string, error) {
	addr, err := nodeid.Parse(id)
	if err != nil {
		return nil, err
	}
	deps, err := d.topology.DependenciesOf(ctx, *addr)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(deps))
	for _, a := range deps {
		out = append(out, a.String())
	}
	return out, nil
}

// NodeStatus implements Graph.
func (d *Dynamic) NodeStatus(ctx context.Context, id string) node.Status {
	addr, err := nodeid.Parse(id)
	if err != nil {
		return node.StatusPending
	}
	s, err := d.state.GetStatus(ctx, *addr)
	if err != nil {
		return node.StatusPending
	}
	return s
}

// MarkRunning implements Graph.
func (d *Dynamic) MarkRunning(ctx context.Context, id string) error {
	addr, err := nodeid.Parse(id)
	if err != nil {
		return err
	}
	return d.state.SetStatus(ctx, *addr, node.StatusRunning)
}

// MarkCompleted implements Graph. Outputs are recorded before the status so
// that a Completed node always resolves.
func (d *Dynamic) MarkCompleted(ctx context.Context, id string, out node.Outputs) error {
	addr, err := nodeid.Parse(id)
	if err != nil {
		return err
	}
	if err := d.state.SetOutput(ctx, *addr, out); err != nil {
		return err
	}
	return d.state.SetStatus(ctx, *addr, node.StatusCompleted)
}

// MarkFailed implements Graph.
func (d *Dynamic) MarkFailed(ctx context.Context, id string, nodeErr error) error {
	addr, err := nodeid.Parse(id)
	if err != nil {
		return err
	}
	if err := d.state.SetError(ctx, *addr, nodeErr); err != nil {
		return err
	}
	return d.state.SetStatus(ctx, *addr, node.StatusFailed)
}

// Outputs implements Graph.
func (d *Dynamic) Outputs(ctx context.Context, id string) (node.Outputs, bool) {
	addr, err := nodeid.Parse(id)
	if err != nil {
		return nil, false
	}
	return d.state.GetOutput(ctx, *addr)
}

// Resolve implements Graph.
func (d *Dynamic) Resolve(ctx context.Context, link prompt.Link) (any, bool) {
	return d.state.Resolve(ctx, link)
}
