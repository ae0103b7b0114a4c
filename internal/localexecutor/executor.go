// Package localexecutor provides a concrete, in-process implementation of the
// executor.Executor interface.
package localexecutor

import (
	"context"
	"fmt"

	"github.com/vk/playtraversal/internal/builder"
	"github.com/vk/playtraversal/internal/ctxlog"
	"github.com/vk/playtraversal/internal/executor"
	"github.com/vk/playtraversal/internal/graph"
	"github.com/vk/playtraversal/internal/node"
	"github.com/vk/playtraversal/internal/prompt"
	"github.com/vk/playtraversal/internal/registry"
	"github.com/vk/playtraversal/internal/scheduler"
)

// Executor implements the executor.Executor interface for local execution.
// Nodes run one at a time on the calling goroutine.
type Executor struct {
	sched    scheduler.Scheduler
	g        graph.Graph
	builder  builder.Builder
	registry *registry.Registry

	calls   map[string]int
	waiting map[string][]prompt.Input
}

// New creates a new local executor.
func New(
	sch scheduler.Scheduler,
	g graph.Graph,
	b builder.Builder,
	reg *registry.Registry,
) executor.Executor {
	return &Executor{
		sched:    sch,
		g:        g,
		builder:  b,
		registry: reg,
		calls:    make(map[string]int),
		waiting:  make(map[string][]prompt.Input),
	}
}

// Execute runs every output node of the authored prompt and everything they
// need. Cancellation is checked between nodes.
func (e *Executor) Execute(ctx context.Context) (*executor.Result, error) {
	logger := ctxlog.FromContext(ctx)
	res := &executor.Result{Outputs: make(map[string]node.Outputs)}

	original := e.g.Original()
	for _, id := range original.IDs() {
		if e.registry.IsOutputNode(original[id].ClassType) {
			if err := e.sched.Stage(ctx, id); err != nil {
				return nil, err
			}
		}
	}
	logger.Debug("Staged output nodes.", "pending", e.sched.Pending())

	for {
		if err := ctx.Err(); err != nil {
			return res, fmt.Errorf("run cancelled: %w", err)
		}
		id, ok, err := e.sched.Next(ctx)
		if err != nil {
			return res, err
		}
		if !ok {
			break
		}

		completed, err := e.step(ctx, id)
		if err != nil {
			return res, err
		}
		if completed == nil {
			continue
		}
		e.sched.Done(ctx, id)
		res.Executed = append(res.Executed, id)
		if n, _ := e.g.Node(ctx, id); e.registry.IsOutputNode(n.ClassType) {
			res.Outputs[id] = completed
		}
	}

	logger.Info("✅ Run finished.", "executed", len(res.Executed))
	return res, nil
}

// step advances one node. It returns the node's outputs when the node
// completed, or nil when it expanded and now waits for its subgraph.
func (e *Executor) step(ctx context.Context, id string) (node.Outputs, error) {
	if results, ok := e.waiting[id]; ok {
		delete(e.waiting, id)
		out, err := e.resolveResults(ctx, id, results)
		if err != nil {
			return nil, e.fail(ctx, id, err)
		}
		if err := e.g.MarkCompleted(ctx, id, out); err != nil {
			return nil, err
		}
		return out, nil
	}

	n, ok := e.g.Node(ctx, id)
	if !ok {
		return nil, fmt.Errorf("node '%s' not found", id)
	}
	logger := ctxlog.FromContext(ctx).With("node", id, "class", n.ClassType)

	def, ok := e.registry.Lookup(n.ClassType)
	if !ok {
		return nil, e.fail(ctx, id, fmt.Errorf("unknown class type '%s'", n.ClassType))
	}
	if err := e.g.MarkRunning(ctx, id); err != nil {
		return nil, err
	}

	t, err := e.builder.Build(ctx, id, n, def)
	if err != nil {
		return nil, e.fail(ctx, id, err)
	}

	callIndex := e.calls[id]
	e.calls[id]++
	call := &registry.Call{
		UniqueID: id,
		Prefix:   fmt.Sprintf("%s.%d.", id, callIndex),
		Graph:    e.g,
		Registry: e.registry,
		Inputs:   t.ResolvedInputs,
	}

	logger.Debug("▶️ Starting node")
	result, err := def.Fn(ctxlog.WithLogger(ctx, logger), call)
	if err != nil {
		return nil, e.fail(ctx, id, err)
	}

	if result.Expansion != nil {
		if err := e.expand(ctx, id, result.Expansion); err != nil {
			return nil, e.fail(ctx, id, err)
		}
		return nil, nil
	}

	if err := e.g.MarkCompleted(ctx, id, result.Outputs); err != nil {
		return nil, err
	}
	logger.Debug("Finished node.", "outputs", len(result.Outputs))
	if result.Outputs == nil {
		return node.Outputs{}, nil
	}
	return result.Outputs, nil
}

// expand adds an expansion to the graph and makes id wait for its results.
func (e *Executor) expand(ctx context.Context, id string, exp *graph.Expansion) error {
	if err := e.g.AddEphemeral(ctx, id, exp.Graph); err != nil {
		return err
	}

	for _, nid := range exp.Graph.IDs() {
		if e.registry.IsOutputNode(exp.Graph[nid].ClassType) {
			if err := e.sched.Stage(ctx, nid); err != nil {
				return err
			}
		}
	}

	var producers []string
	for _, in := range exp.Result {
		if l, ok := in.Link(); ok {
			producers = append(producers, l.NodeID)
		}
	}
	if err := e.sched.Wait(ctx, id, producers); err != nil {
		return err
	}
	e.waiting[id] = exp.Result

	ctxlog.FromContext(ctx).Info("Node expanded.", "node", id, "nodes", len(exp.Graph), "results", len(exp.Result))
	return nil
}

func (e *Executor) resolveResults(ctx context.Context, id string, results []prompt.Input) (node.Outputs, error) {
	out := make(node.Outputs, len(results))
	for i, in := range results {
		l, ok := in.Link()
		if !ok {
			out[i] = in.Value()
			continue
		}
		v, ok := e.g.Resolve(ctx, l)
		if !ok {
			return nil, fmt.Errorf("expansion result %d: no output at slot %d of node '%s'", i, l.Slot, l.NodeID)
		}
		out[i] = v
	}
	return out, nil
}

// fail records the error on the node and wraps it with the node's identity.
func (e *Executor) fail(ctx context.Context, id string, err error) error {
	class := ""
	if n, ok := e.g.Node(ctx, id); ok {
		class = n.ClassType
	}
	if markErr := e.g.MarkFailed(ctx, id, err); markErr != nil {
		ctxlog.FromContext(ctx).Error("Failed to record node error.", "node", id, "error", markErr)
	}
	ctxlog.FromContext(ctx).Error("❌ Node failed.", "node", id, "class", class, "error", err)
	return fmt.Errorf("node '%s' (%s): %w", id, class, err)
}
