package inmemorystore

import (
	"context"
	"sync"

	"github.com/vk/playtraversal/internal/node"
	"github.com/vk/playtraversal/internal/nodeid"
	"github.com/vk/playtraversal/internal/nodestore"
	"github.com/vk/playtraversal/internal/prompt"
)

// Store is an in-memory implementation of nodestore.Store using sync.Map.
//
// The store maintains three independent sync.Maps:
//   - states: Maps node ID strings to node.Status
//   - outputs: Maps node ID strings to node.Outputs
//   - errors: Maps node ID strings to error objects for failed nodes
type Store struct {
	states  sync.Map // Key: node ID string, Value: node.Status
	outputs sync.Map // Key: node ID string, Value: node.Outputs
	errors  sync.Map // Key: node ID string, Value: error
}

// New creates a new, empty in-memory node state store.
func New() nodestore.Store {
	return &Store{}
}

// SetStatus updates the execution status of a specific node.
func (s *Store) SetStatus(ctx context.Context, id nodeid.Address, status node.Status) error {
	s.states.Store(id.String(), status)
	return nil
}

// GetStatus retrieves the execution status of a specific node.
// If a status has not been set, it returns StatusPending.
func (s *Store) GetStatus(ctx context.Context, id nodeid.Address) (node.Status, error) {
	status, ok := s.states.Load(id.String())
	if !ok {
		return node.StatusPending, nil
	}
	return status.(node.Status), nil
}

// SetOutput records the outputs of a node.
func (s *Store) SetOutput(ctx context.Context, id nodeid.Address, output node.Outputs) error {
	s.outputs.Store(id.String(), output)
	return nil
}

// GetOutput retrieves the recorded outputs of a completed node.
func (s *Store) GetOutput(ctx context.Context, id nodeid.Address) (node.Outputs, bool) {
	output, ok := s.outputs.Load(id.String())
	if !ok {
		return nil, false
	}
	return output.(node.Outputs), true
}

// Resolve returns the value a link points to.
func (s *Store) Resolve(ctx context.Context, link prompt.Link) (any, bool) {
	output, ok := s.outputs.Load(link.NodeID)
	if !ok {
		return nil, false
	}
	return output.(node.Outputs).Slot(link.Slot)
}

// SetError records the failure error of a node.
func (s *Store) SetError(ctx context.Context, id nodeid.Address, nodeErr error) error {
	s.errors.Store(id.String(), nodeErr)
	return nil
}

// GetError retrieves the recorded error of a failed node.
func (s *Store) GetError(ctx context.Context, id nodeid.Address) error {
	err, ok := s.errors.Load(id.String())
	if !ok {
		return nil
	}
	return err.(error)
}
