package flow

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
)

var (
	ErrCycleDetected = errors.New("flow: cycle detected, graph is not acyclic")
	ErrEmptyID       = errors.New("flow: empty id")
)

// OutputStore persists the outputs produced by nodes of a workflow run.
// It is the snapshot source the evaluator reads from; the evaluator itself never writes.
type OutputStore interface {
	// SaveOutput inserts or replaces the output of node within runID.
	SaveOutput(ctx context.Context, runID string, node *Node) error
	// GetOutput returns nil, nil if the node has no stored output.
	GetOutput(ctx context.Context, runID, nodeID string) (*Node, error)
	// ListOutputs returns an empty slice (not nil) for unknown runs.
	ListOutputs(ctx context.Context, runID string) ([]Node, error)
	DeleteOutput(ctx context.Context, runID, nodeID string) error
	DeleteRun(ctx context.Context, runID string) error
}

// DecodeOutputData decodes stored output JSON. Numbers are kept as json.Number
// so integers render exactly as they were written.
func DecodeOutputData(data []byte) (map[string]any, error) {
	if len(data) == 0 {
		return nil, nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var out map[string]any
	if err := dec.Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}
