package dag

import (
	"fmt"
	"slices"
	"strings"

	"github.com/vk/playtraversal/internal/prompt"
)

// New creates and returns an initialized, empty Graph.
func New() *Graph {
	return &Graph{
		nodes: make(map[string]*node),
	}
}

// FromPrompt builds the link graph of a prompt. Every link becomes an edge
// from the producer to the consumer. A link to an id absent from the prompt
// is an error.
func FromPrompt(p prompt.Prompt) (*Graph, error) {
	g := New()
	ids := p.IDs()
	for _, id := range ids {
		g.AddNode(id)
	}
	for _, id := range ids {
		n := p[id]
		for _, name := range n.InputNames() {
			link, ok := n.Inputs[name].Link()
			if !ok {
				continue
			}
			if _, exists := p[link.NodeID]; !exists {
				return nil, fmt.Errorf("node '%s' input '%s' links to missing node '%s'", id, name, link.NodeID)
			}
			if err := g.AddEdge(link.NodeID, id); err != nil {
				return nil, fmt.Errorf("node '%s' input '%s': %w", id, name, err)
			}
		}
	}
	return g, nil
}

// AddNode adds a new node with the given ID to the graph. If a node with
// the same ID already exists, the function does nothing.
func (g *Graph) AddNode(id string) {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	if _, ok := g.nodes[id]; ok {
		return
	}

	g.nodes[id] = &node{
		id:         id,
		deps:       make(map[string]*node),
		dependents: make(map[string]*node),
	}
}

// AddEdge creates a directed edge from the `fromID` node to the `toID` node.
// This signifies that `toID` has a dependency on `fromID`. An error is returned
// if either node does not exist or if the edge would create a self-reference.
func (g *Graph) AddEdge(fromID, toID string) error {
	if fromID == toID {
		return fmt.Errorf("self-referential edge not allowed: %s -> %s", fromID, fromID)
	}

	g.mutex.Lock()
	defer g.mutex.Unlock()

	fromNode, ok := g.nodes[fromID]
	if !ok {
		return fmt.Errorf("source node not found: %s", fromID)
	}

	toNode, ok := g.nodes[toID]
	if !ok {
		return fmt.Errorf("destination node not found: %s", toID)
	}

	toNode.deps[fromID] = fromNode
	fromNode.dependents[toID] = toNode

	return nil
}

// Dependencies returns the IDs the given node depends on, in natural order.
func (g *Graph) Dependencies(id string) ([]string, error) {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	n, ok := g.nodes[id]
	if !ok {
		return nil, fmt.Errorf("node not found: %s", id)
	}
	return sortedKeys(n.deps), nil
}

// Dependents returns the IDs that depend on the given node, in natural order.
func (g *Graph) Dependents(id string) ([]string, error) {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	n, ok := g.nodes[id]
	if !ok {
		return nil, fmt.Errorf("node not found: %s", id)
	}
	return sortedKeys(n.dependents), nil
}

// DetectCycles checks the graph for cycles. The error names the nodes on the
// first cycle found, visiting nodes in natural id order.
func (g *Graph) DetectCycles() error {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	// permanent: fully visited and not on a cycle.
	// stack: the current DFS path, temporary marks live in onStack.
	permanent := make(map[string]bool)
	onStack := make(map[string]bool)
	var stack []string

	var visit func(n *node) error
	visit = func(n *node) error {
		if permanent[n.id] {
			return nil
		}
		if onStack[n.id] {
			start := slices.Index(stack, n.id)
			path := append(slices.Clone(stack[start:]), n.id)
			return fmt.Errorf("cycle detected: %s", strings.Join(path, " -> "))
		}

		onStack[n.id] = true
		stack = append(stack, n.id)
		for _, depID := range sortedKeys(n.dependents) {
			if err := visit(n.dependents[depID]); err != nil {
				return err
			}
		}
		stack = stack[:len(stack)-1]
		delete(onStack, n.id)
		permanent[n.id] = true
		return nil
	}

	for _, id := range sortedKeys(g.nodes) {
		if err := visit(g.nodes[id]); err != nil {
			return err
		}
	}
	return nil
}

func sortedKeys(m map[string]*node) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	prompt.SortIDs(keys)
	return keys
}
