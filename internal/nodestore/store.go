// Package nodestore defines the interface for storing and retrieving the
// dynamic, mutable execution state of nodes during workflow execution.
//
// # Why Node Store Exists
//
// The node store implements a critical separation of concerns in the host:
// it isolates **mutable execution state** (status, outputs, errors) from the
// **node table** (nodes, links) managed by topologystore.
//
// This separation provides several architectural benefits:
//   - **Clarity:** State updates (executor) don't interfere with structure queries (scheduler)
//   - **Testability:** Execution state can be validated independently of DAG structure
//   - **Flexibility:** Different storage backends can be swapped (in-memory, distributed, persistent)
//
// # Lifecycle and Usage
//
// The node store is:
//   1. **Created** once per execution session (ephemeral, not persistent across runs)
//   2. **Initialized** with all nodes in Pending status before execution starts
//   3. **Mutated** continuously during execution as nodes transition through states
//   4. **Queried** by the builder to resolve links, and by the loop cloner to
//      freeze links that leave a loop body
//   5. **Discarded** when the session ends
//
// During execution:
//   - **Executor** calls SetStatus/SetOutput/SetError as nodes execute
//   - **Builder** calls Resolve to turn a link ["5", 0] into slot 0 of node 5
//   - **Scheduler** queries the store (via graph) to track which nodes have completed
//
// # State Transitions
//
// Nodes follow this lifecycle:
//   Pending → Running → Completed (with output) OR Failed (with error)
package nodestore

import (
	"context"

	"github.com/vk/playtraversal/internal/node"
	"github.com/vk/playtraversal/internal/nodeid"
	"github.com/vk/playtraversal/internal/prompt"
)

// Store is the interface for managing the mutable execution state of nodes.
//
// The node store is responsible for tracking:
//   - **Status**: Current execution state (Pending, Running, Completed, Failed)
//   - **Outputs**: The tuple a completed node produced, indexed by slot
//   - **Error**: Failure information for debugging and error handling
//
// # Thread-Safety Requirements
//
// Implementations MUST be thread-safe for concurrent reads and writes.
//
// # Typical Implementation
//
// See internal/inmemorystore for the reference in-memory implementation using
// sync.Map.
type Store interface {
	// SetStatus updates the execution status of a node.
	SetStatus(ctx context.Context, id nodeid.Address, status node.Status) error

	// GetStatus retrieves the current execution status of a node.
	//
	// Returns StatusPending if no status has been set for this node yet.
	GetStatus(ctx context.Context, id nodeid.Address) (node.Status, error)

	// SetOutput records the output tuple of a completed node.
	SetOutput(ctx context.Context, id nodeid.Address, output node.Outputs) error

	// GetOutput retrieves the recorded outputs of a completed node.
	//
	// ok is false if the node hasn't completed yet.
	GetOutput(ctx context.Context, id nodeid.Address) (output node.Outputs, ok bool)

	// Resolve returns the value at the slot a link points to.
	//
	// ok is false if the producer has no recorded outputs or the slot is out
	// of range. A recorded nil value resolves with ok true.
	Resolve(ctx context.Context, link prompt.Link) (value any, ok bool)

	// SetError records the failure error of a node.
	SetError(ctx context.Context, id nodeid.Address, nodeErr error) error

	// GetError retrieves the recorded error of a failed node.
	//
	// Returns nil if the node succeeded or hasn't executed yet.
	GetError(ctx context.Context, id nodeid.Address) error
}
