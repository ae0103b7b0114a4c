package dag

import "sync"

// Graph is the link graph of a prompt: one vertex per node id and one edge
// per input link, from the producing node to the consuming one. It is used to
// reject cyclic prompts before a run. Safe for concurrent use.
type Graph struct {
	mutex sync.RWMutex
	nodes map[string]*node
}

// node is a prompt node id with its links in both directions.
type node struct {
	id string
	// deps are the producers this node reads inputs from.
	deps map[string]*node
	// dependents are the consumers of this node's outputs.
	dependents map[string]*node
}
