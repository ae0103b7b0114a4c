// Package session defines the core interfaces for creating and managing an
// execution session. It abstracts away how a run is wired together.
package session

import (
	"context"

	"github.com/vk/playtraversal/internal/executor"
	"github.com/vk/playtraversal/internal/graph"
	"github.com/vk/playtraversal/internal/prompt"
	"github.com/vk/playtraversal/internal/registry"
)

// SessionFactory creates an execution Session for one prompt.
type SessionFactory interface {
	NewSession(
		ctx context.Context,
		p prompt.Prompt,
		reg *registry.Registry,
	) (Session, error)
}

// Session represents a single execution run and manages its lifecycle.
type Session interface {
	GetExecutor() (executor.Executor, error)
	// Graph exposes the run's graph, mainly for inspection after Execute.
	Graph() graph.Graph
	// Close releases any resources held by the session. It accepts a context
	// to allow for graceful cleanup operations.
	Close(ctx context.Context) error
}
