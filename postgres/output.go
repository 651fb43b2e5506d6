package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/meikuraledutech/flow"
)

// SaveOutput inserts or replaces a node output within a run.
// A nil OutputData is stored as SQL NULL and read back as nil.
func (s *PGStore) SaveOutput(ctx context.Context, runID string, node *flow.Node) error {
	if runID == "" || node == nil || node.ID == "" {
		return flow.ErrEmptyID
	}

	var data []byte
	if node.OutputData != nil {
		var err error
		if data, err = json.Marshal(node.OutputData); err != nil {
			return fmt.Errorf("flow: encode output %s: %w", node.ID, err)
		}
	}

	_, err := s.db.Exec(ctx,
		`INSERT INTO flow_node_outputs (run_id, node_id, data) VALUES ($1, $2, $3)
		 ON CONFLICT (run_id, node_id) DO UPDATE SET data = EXCLUDED.data, updated_at = NOW()`,
		runID, node.ID, data,
	)
	if err != nil {
		return fmt.Errorf("flow: save output %s: %w", node.ID, err)
	}
	return nil
}

// GetOutput fetches a single node output.
// Returns nil, nil if not found.
func (s *PGStore) GetOutput(ctx context.Context, runID, nodeID string) (*flow.Node, error) {
	if runID == "" || nodeID == "" {
		return nil, flow.ErrEmptyID
	}

	var data []byte
	err := s.db.QueryRow(ctx,
		`SELECT data FROM flow_node_outputs WHERE run_id = $1 AND node_id = $2`, runID, nodeID,
	).Scan(&data)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("flow: get output: %w", err)
	}

	out, err := flow.DecodeOutputData(data)
	if err != nil {
		return nil, fmt.Errorf("flow: decode output %s: %w", nodeID, err)
	}
	return &flow.Node{ID: nodeID, OutputData: out}, nil
}

// ListOutputs returns all node outputs of a run, ordered by created_at.
// Returns an empty slice (not nil) if none found.
func (s *PGStore) ListOutputs(ctx context.Context, runID string) ([]flow.Node, error) {
	if runID == "" {
		return nil, flow.ErrEmptyID
	}

	rows, err := s.db.Query(ctx,
		`SELECT node_id, data FROM flow_node_outputs WHERE run_id = $1 ORDER BY created_at, node_id`, runID)
	if err != nil {
		return nil, fmt.Errorf("flow: list outputs: %w", err)
	}
	defer rows.Close()

	nodes := []flow.Node{}
	for rows.Next() {
		var (
			n    flow.Node
			data []byte
		)
		if err := rows.Scan(&n.ID, &data); err != nil {
			return nil, fmt.Errorf("flow: scan output: %w", err)
		}
		if n.OutputData, err = flow.DecodeOutputData(data); err != nil {
			return nil, fmt.Errorf("flow: decode output %s: %w", n.ID, err)
		}
		nodes = append(nodes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("flow: rows outputs: %w", err)
	}

	return nodes, nil
}

// DeleteOutput deletes one node output.
// No error if it doesn't exist.
func (s *PGStore) DeleteOutput(ctx context.Context, runID, nodeID string) error {
	if runID == "" || nodeID == "" {
		return flow.ErrEmptyID
	}

	_, err := s.db.Exec(ctx, `DELETE FROM flow_node_outputs WHERE run_id = $1 AND node_id = $2`, runID, nodeID)
	if err != nil {
		return fmt.Errorf("flow: delete output: %w", err)
	}
	return nil
}

// DeleteRun removes all outputs of a run.
// No error if the run doesn't exist.
func (s *PGStore) DeleteRun(ctx context.Context, runID string) error {
	if runID == "" {
		return flow.ErrEmptyID
	}

	_, err := s.db.Exec(ctx, `DELETE FROM flow_node_outputs WHERE run_id = $1`, runID)
	if err != nil {
		return fmt.Errorf("flow: delete run: %w", err)
	}
	return nil
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
