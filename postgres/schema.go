package postgres

import "context"

const schemaSQL = `
CREATE TABLE IF NOT EXISTS flow_node_outputs (
    run_id     TEXT NOT NULL,
    node_id    TEXT NOT NULL,
    data       JSONB,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    PRIMARY KEY (run_id, node_id)
);

CREATE INDEX IF NOT EXISTS idx_flow_node_outputs_created ON flow_node_outputs(run_id, created_at);
`

// CreateSchema creates the flow_node_outputs table if it doesn't exist.
func (s *PGStore) CreateSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, schemaSQL)
	return err
}

// DropSchema drops the flow_node_outputs table.
func (s *PGStore) DropSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, `DROP TABLE IF EXISTS flow_node_outputs CASCADE;`)
	return err
}
