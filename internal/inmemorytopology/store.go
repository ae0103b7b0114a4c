package inmemorytopology

import (
	"context"
	"fmt"
	"sync"

	"github.com/vk/playtraversal/internal/nodeid"
	"github.com/vk/playtraversal/internal/prompt"
	"github.com/vk/playtraversal/internal/topologystore"
)

// Store implements the topologystore.Store interface using maps and a mutex
// for thread-safe concurrent access.
type Store struct {
	mu    sync.RWMutex
	nodes map[string]*prompt.Node
	deps  map[string]map[string]struct{} // Key: node ID, Value: set of producer IDs
}

// New creates a new, empty in-memory topology store.
func New() topologystore.Store {
	return &Store{
		nodes: make(map[string]*prompt.Node),
		deps:  make(map[string]map[string]struct{}),
	}
}

// AddNode adds a new node to the store.
func (s *Store) AddNode(ctx context.Context, id nodeid.Address, n *prompt.Node) error {
	if n == nil {
		return fmt.Errorf("node '%s' is nil", id.String())
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	key := id.String()
	if _, exists := s.nodes[key]; exists {
		return fmt.Errorf("node '%s' already exists in topology", key)
	}
	s.nodes[key] = n
	return nil
}

// AddDependency records that 'to' consumes an output of 'from'.
func (s *Store) AddDependency(ctx context.Context, from, to nodeid.Address) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	fromKey := from.String()
	toKey := to.String()

	if _, exists := s.nodes[fromKey]; !exists {
		return fmt.Errorf("dependency source node '%s' not found in topology", fromKey)
	}
	if _, exists := s.nodes[toKey]; !exists {
		return fmt.Errorf("dependency target node '%s' not found in topology", toKey)
	}

	if s.deps[toKey] == nil {
		s.deps[toKey] = make(map[string]struct{})
	}
	s.deps[toKey][fromKey] = struct{}{}
	return nil
}

// GetNode retrieves a single node by its address.
func (s *Store) GetNode(ctx context.Context, id nodeid.Address) (*prompt.Node, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n, ok := s.nodes[id.String()]
	return n, ok
}

// AllNodes returns the addresses of all nodes in natural id order.
func (s *Store) AllNodes(ctx context.Context) []nodeid.Address {
	s.mu.RLock()
	keys := make([]string, 0, len(s.nodes))
	for k := range s.nodes {
		keys = append(keys, k)
	}
	s.mu.RUnlock()

	return toAddresses(keys)
}

// DependenciesOf returns the addresses of all producers of the given node.
func (s *Store) DependenciesOf(ctx context.Context, id nodeid.Address) ([]nodeid.Address, error) {
	s.mu.RLock()
	key := id.String()
	if _, exists := s.nodes[key]; !exists {
		s.mu.RUnlock()
		return nil, fmt.Errorf("node '%s' not found in topology", key)
	}
	keys := make([]string, 0, len(s.deps[key]))
	for depKey := range s.deps[key] {
		keys = append(keys, depKey)
	}
	s.mu.RUnlock()

	return toAddresses(keys), nil
}

// toAddresses sorts keys and parses them. Keys were produced by
// Address.String, so parsing cannot fail.
func toAddresses(keys []string) []nodeid.Address {
	prompt.SortIDs(keys)
	out := make([]nodeid.Address, 0, len(keys))
	for _, k := range keys {
		out = append(out, *nodeid.MustParse(k))
	}
	return out
}
