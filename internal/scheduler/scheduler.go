package scheduler

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/vk/playtraversal/internal/ctxlog"
	"github.com/vk/playtraversal/internal/graph"
	"github.com/vk/playtraversal/internal/node"
)

// DefaultScheduler is the reference implementation of the Scheduler interface.
//
// It is not safe for concurrent use; the executor drives it from a single
// goroutine.
type DefaultScheduler struct {
	g       graph.Graph
	pending []string
	staged  map[string]bool
	extra   map[string][]string
}

// New creates a new default scheduler over g.
func New(g graph.Graph) Scheduler {
	return &DefaultScheduler{
		g:      g,
		staged: make(map[string]bool),
		extra:  make(map[string][]string),
	}
}

// Stage implements the Scheduler interface.
func (s *DefaultScheduler) Stage(ctx context.Context, id string) error {
	if s.staged[id] || s.g.NodeStatus(ctx, id) == node.StatusCompleted {
		return nil
	}
	if _, ok := s.g.Node(ctx, id); !ok {
		return fmt.Errorf("cannot stage unknown node '%s'", id)
	}
	// mark before recursing so a cycle stalls instead of recursing forever
	s.staged[id] = true

	deps, err := s.g.DependenciesOf(ctx, id)
	if err != nil {
		return err
	}
	for _, dep := range deps {
		if err := s.Stage(ctx, dep); err != nil {
			return err
		}
	}
	s.pending = append(s.pending, id)
	ctxlog.FromContext(ctx).Debug("Staged node.", "node", id, "pending", len(s.pending))
	return nil
}

// Wait implements the Scheduler interface.
func (s *DefaultScheduler) Wait(ctx context.Context, id string, producers []string) error {
	if !slices.Contains(s.pending, id) {
		return fmt.Errorf("node '%s' is not pending", id)
	}
	for _, p := range producers {
		if err := s.Stage(ctx, p); err != nil {
			return err
		}
	}
	s.extra[id] = append(s.extra[id], producers...)
	return nil
}

// Next implements the Scheduler interface.
func (s *DefaultScheduler) Next(ctx context.Context) (string, bool, error) {
	if len(s.pending) == 0 {
		return "", false, nil
	}
	for _, id := range s.pending {
		ready, err := s.ready(ctx, id)
		if err != nil {
			return "", false, err
		}
		if ready {
			return id, true, nil
		}
	}
	return "", false, fmt.Errorf("execution stalled with %d pending nodes: %s", len(s.pending), strings.Join(s.pending, ", "))
}

func (s *DefaultScheduler) ready(ctx context.Context, id string) (bool, error) {
	deps, err := s.g.DependenciesOf(ctx, id)
	if err != nil {
		return false, err
	}
	for _, dep := range append(deps, s.extra[id]...) {
		switch s.g.NodeStatus(ctx, dep) {
		case node.StatusCompleted:
		case node.StatusFailed:
			return false, fmt.Errorf("node '%s' cannot run: producer '%s' failed", id, dep)
		default:
			return false, nil
		}
	}
	return true, nil
}

// Done implements the Scheduler interface.
func (s *DefaultScheduler) Done(ctx context.Context, id string) {
	if i := slices.Index(s.pending, id); i >= 0 {
		s.pending = slices.Delete(s.pending, i, i+1)
	}
	delete(s.extra, id)
	delete(s.staged, id)
}

// Pending implements the Scheduler interface.
func (s *DefaultScheduler) Pending() int {
	return len(s.pending)
}
