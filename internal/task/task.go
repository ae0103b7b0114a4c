package task

import (
	"github.com/vk/playtraversal/internal/prompt"
	"github.com/vk/playtraversal/internal/registry"
)

// Task represents a node that is fully prepared for execution.
// It is the output of a builder.Builder and the input for the node function.
type Task struct {
	// ID is the node id within the run.
	ID string

	// Node is the node as stored in the graph.
	Node *prompt.Node

	// Definition is the registered class of the node.
	Definition *registry.Definition

	// ResolvedInputs contains the final input values, with every link
	// replaced by its producer's output.
	ResolvedInputs map[string]any
}
