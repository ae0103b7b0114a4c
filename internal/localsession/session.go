// Package localsession provides a concrete implementation of the session.Session
// and session.SessionFactory interfaces for local, in-process execution.
package localsession

import (
	"context"
	"fmt"

	"github.com/vk/playtraversal/internal/builder"
	"github.com/vk/playtraversal/internal/ctxlog"
	"github.com/vk/playtraversal/internal/dag"
	"github.com/vk/playtraversal/internal/executor"
	"github.com/vk/playtraversal/internal/graph"
	"github.com/vk/playtraversal/internal/inmemorystore"
	"github.com/vk/playtraversal/internal/inmemorytopology"
	"github.com/vk/playtraversal/internal/localexecutor"
	"github.com/vk/playtraversal/internal/prompt"
	"github.com/vk/playtraversal/internal/registry"
	"github.com/vk/playtraversal/internal/scheduler"
	"github.com/vk/playtraversal/internal/session"
)

// SessionFactory implements session.SessionFactory for local runs.
type SessionFactory struct{}

// NewSession validates the prompt and wires a local session for it.
func (f *SessionFactory) NewSession(
	ctx context.Context,
	p prompt.Prompt,
	reg *registry.Registry,
) (session.Session, error) {
	logger := ctxlog.FromContext(ctx)

	if err := reg.Validate(p); err != nil {
		return nil, fmt.Errorf("invalid prompt: %w", err)
	}
	links, err := dag.FromPrompt(p)
	if err != nil {
		return nil, fmt.Errorf("invalid prompt: %w", err)
	}
	if err := links.DetectCycles(); err != nil {
		return nil, fmt.Errorf("invalid prompt: %w", err)
	}

	g, err := graph.NewDynamic(ctx, p, inmemorytopology.New(), inmemorystore.New())
	if err != nil {
		return nil, err
	}
	exec := localexecutor.New(scheduler.New(g), g, builder.New(g), reg)
	logger.Debug("Local session ready.", "nodes", len(p))

	return &Session{executor: exec, graph: g}, nil
}

// Session implements session.Session for local runs.
type Session struct {
	executor executor.Executor
	graph    graph.Graph
}

// GetExecutor returns the executor that was created and wired up by the factory.
func (s *Session) GetExecutor() (executor.Executor, error) {
	return s.executor, nil
}

// Graph returns the run's graph.
func (s *Session) Graph() graph.Graph {
	return s.graph
}

// Close releases the session. Local sessions hold no external resources.
func (s *Session) Close(ctx context.Context) error {
	ctxlog.FromContext(ctx).Debug("Local session closed.")
	return nil
}
