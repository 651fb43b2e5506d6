package memory

import (
	"context"
	"sync"

	"github.com/meikuraledutech/flow"
)

// Store implements flow.OutputStore in memory.
// Safe for concurrent use. Outputs keep the order in which nodes first saved them.
type Store struct {
	runs map[string][]flow.Node
	mu   sync.RWMutex
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		runs: make(map[string][]flow.Node),
	}
}

// SaveOutput inserts or replaces the output of node within runID.
func (s *Store) SaveOutput(ctx context.Context, runID string, node *flow.Node) error {
	if runID == "" || node == nil || node.ID == "" {
		return flow.ErrEmptyID
	}
	copied := clone(*node)

	s.mu.Lock()
	defer s.mu.Unlock()

	outputs := s.runs[runID]
	for i := range outputs {
		if outputs[i].ID == node.ID {
			outputs[i] = copied
			return nil
		}
	}
	s.runs[runID] = append(outputs, copied)
	return nil
}

// GetOutput returns nil, nil if the node has no stored output.
func (s *Store) GetOutput(ctx context.Context, runID, nodeID string) (*flow.Node, error) {
	if runID == "" || nodeID == "" {
		return nil, flow.ErrEmptyID
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, n := range s.runs[runID] {
		if n.ID == nodeID {
			ret := clone(n)
			return &ret, nil
		}
	}
	return nil, nil
}

// ListOutputs returns an empty slice (not nil) if the run is unknown.
func (s *Store) ListOutputs(ctx context.Context, runID string) ([]flow.Node, error) {
	if runID == "" {
		return nil, flow.ErrEmptyID
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	nodes := make([]flow.Node, 0, len(s.runs[runID]))
	for _, n := range s.runs[runID] {
		nodes = append(nodes, clone(n))
	}
	return nodes, nil
}

// DeleteOutput removes one node output. No error if it doesn't exist.
func (s *Store) DeleteOutput(ctx context.Context, runID, nodeID string) error {
	if runID == "" || nodeID == "" {
		return flow.ErrEmptyID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	outputs := s.runs[runID]
	for i := range outputs {
		if outputs[i].ID == nodeID {
			s.runs[runID] = append(outputs[:i:i], outputs[i+1:]...)
			break
		}
	}
	if len(s.runs[runID]) == 0 {
		delete(s.runs, runID)
	}
	return nil
}

// DeleteRun removes every output of runID.
func (s *Store) DeleteRun(ctx context.Context, runID string) error {
	if runID == "" {
		return flow.ErrEmptyID
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.runs, runID)
	return nil
}

// clone copies the top level of the output map so callers can't mutate stored
// outputs by reference.
func clone(n flow.Node) flow.Node {
	if n.OutputData == nil {
		return n
	}
	data := make(map[string]any, len(n.OutputData))
	for k, v := range n.OutputData {
		data[k] = v
	}
	n.OutputData = data
	return n
}
