// Package topologystore defines the interface for storing and retrieving the
// node table of a run: the authored prompt plus every node added later by
// expansions.
//
// # Why Topology Store Exists
//
// The topology store isolates the **structure** of a run (which nodes exist,
// what class they are, which producers they link to) from the **execution
// state** (status, outputs, errors) managed by nodestore.
//
// This separation keeps structure queries (scheduler, loop analyzer) apart
// from state updates (executor), and lets either side be swapped or tested on
// its own.
//
// # Lifecycle and Usage
//
// The topology store is:
//  1. **Created** once per run (ephemeral, not persistent across runs)
//  2. **Populated** with the authored prompt before execution starts
//  3. **Extended** during execution whenever a node returns an expansion
//  4. **Discarded** when the run ends
//
// Unlike a static DAG, nodes are only ever added, never removed or replaced,
// so any node read from the store stays valid for the whole run.
package topologystore

import (
	"context"

	"github.com/vk/playtraversal/internal/nodeid"
	"github.com/vk/playtraversal/internal/prompt"
)

// Store is the interface for managing the node table of a run.
//
// # Thread-Safety Requirements
//
// Implementations MUST be safe for concurrent use. The executor runs nodes
// sequentially, but node functions (for example the loop close node) read the
// table while the executor owns the run.
//
// # Typical Implementation
//
// See internal/inmemorytopology for the reference in-memory implementation
// using maps and sync.RWMutex.
type Store interface {
	// AddNode registers a node under id.
	//
	// Adding a node under an id that is already taken returns an error; node
	// ids are unique for the whole run, including expansion nodes.
	AddNode(ctx context.Context, id nodeid.Address, n *prompt.Node) error

	// AddDependency records that 'to' consumes an output of 'from'.
	//
	// Both nodes must already exist in the topology.
	AddDependency(ctx context.Context, from, to nodeid.Address) error

	// GetNode retrieves a single node by its address.
	GetNode(ctx context.Context, id nodeid.Address) (*prompt.Node, bool)

	// AllNodes returns the addresses of every node, in natural id order.
	AllNodes(ctx context.Context) []nodeid.Address

	// DependenciesOf returns the producers 'id' links to, in natural id order.
	//
	// Returns an error if 'id' does not exist in the topology.
	DependenciesOf(ctx context.Context, id nodeid.Address) ([]nodeid.Address, error)
}
