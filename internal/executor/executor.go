// Package executor defines the interface for the graph execution engine.
package executor

import (
	"context"

	"github.com/vk/playtraversal/internal/node"
)

// Executor is responsible for orchestrating the end-to-end execution of a
// run. It interacts with the scheduler, builds tasks, dispatches node
// functions and applies expansions.
type Executor interface {
	Execute(ctx context.Context) (*Result, error)
}

// Result summarizes a finished run.
type Result struct {
	// Executed lists node ids in completion order.
	Executed []string
	// Outputs holds the outputs of every executed output node, by id.
	Outputs map[string]node.Outputs
}
