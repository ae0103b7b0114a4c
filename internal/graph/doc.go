// Package graph provides a unified facade over one run's node table and its
// execution state, and the builder nodes use to describe expansions.
//
// # Why Graph Package Exists
//
// A run starts from an authored prompt, but it does not stay static: a node
// may return an Expansion, a freshly built subgraph the host executes as if it
// had been authored, and whose chosen outputs become the node's own result.
// Nodes added this way are "ephemeral". They have a parent (the node that
// expanded them) and a display id (the authored node they stand in for).
//
// The Graph facade keeps these concerns behind one API:
//
//	┌─────────────────────────────────────┐
//	│           Graph Facade              │
//	│  (authored prompt + ephemeral       │
//	│   nodes + display ids)              │
//	└──────────┬────────────┬─────────────┘
//	           │            │
//	           ▼            ▼
//	  ┌────────────┐  ┌────────────┐
//	  │  Topology  │  │ Node State │
//	  │   Store    │  │   Store    │
//	  │ (Nodes)    │  │ (Outputs)  │
//	  └────────────┘  └────────────┘
//
// # Display Ids
//
// DisplayID follows the display chain until it reaches an authored id. After
// two loop iterations a node authored as "5" may live under
// "3.0.Recurse.0.3.0.5"; its display id is still "5". The loop analyzer relies
// on this to match nodes against the authored prompt.
//
// # Thread-Safety
//
// All Graph methods are thread-safe.
package graph
