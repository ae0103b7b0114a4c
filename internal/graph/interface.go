package graph

import (
	"context"

	"github.com/vk/playtraversal/internal/node"
	"github.com/vk/playtraversal/internal/prompt"
)

// Graph is the interface the executor, the scheduler and node functions use
// to query and update one run.
type Graph interface {
	// Node returns the node stored under id, authored or ephemeral.
	Node(ctx context.Context, id string) (*prompt.Node, bool)

	// Original returns the authored prompt. Callers must not modify it.
	Original() prompt.Prompt

	// DisplayID resolves id to the authored node it stands in for. Authored
	// ids resolve to themselves.
	DisplayID(ctx context.Context, id string) string

	// ParentID returns the node whose expansion added id.
	ParentID(ctx context.Context, id string) (string, bool)

	// AddEphemeral adds the nodes of an expansion of parentID. A node's
	// display id is its OverrideDisplayID, or parentID when unset.
	AddEphemeral(ctx context.Context, parentID string, nodes prompt.Prompt) error

	// AllIDs returns every node id in natural order.
	AllIDs(ctx context.Context) []string

	// DependenciesOf returns the producers id links to.
	DependenciesOf(ctx context.Context, id string) ([]string, error)

	// NodeStatus returns the execution status of id.
	NodeStatus(ctx context.Context, id string) node.Status

	MarkRunning(ctx context.Context, id string) error
	MarkCompleted(ctx context.Context, id string, out node.Outputs) error
	MarkFailed(ctx context.Context, id string, nodeErr error) error

	// Outputs returns the outputs recorded for a completed node.
	Outputs(ctx context.Context, id string) (node.Outputs, bool)

	// Resolve returns the value a link points to, if its producer has
	// completed.
	Resolve(ctx context.Context, link prompt.Link) (any, bool)
}
