package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/meikuraledutech/flow"
	backend "github.com/redis/go-redis/v9"
)

// Store implements flow.OutputStore using Redis.
// Each run is one hash: field = node ID, value = JSON encoded output data.
type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

type Option func(*Store)

// WithTTL expires a run this long after its last saved output.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix for runs.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// New creates a new Redis store with options.
func New(address, password string, db int, opts ...Option) *Store {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: "flow:run:",
	}

	for _, opt := range opts {
		opt(store)
	}

	return store
}

// Close closes the underlying client.
func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) key(runID string) string {
	return s.prefix + runID
}

// SaveOutput writes the node output and refreshes the run TTL, if any.
func (s *Store) SaveOutput(ctx context.Context, runID string, node *flow.Node) error {
	if runID == "" || node == nil || node.ID == "" {
		return flow.ErrEmptyID
	}

	data, err := json.Marshal(node.OutputData)
	if err != nil {
		return fmt.Errorf("flow: encode output %s: %w", node.ID, err)
	}

	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, s.key(runID), node.ID, data)
	if s.ttl > 0 {
		pipe.Expire(ctx, s.key(runID), s.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("flow: save output %s: %w", node.ID, err)
	}
	return nil
}

// GetOutput returns nil, nil if the node has no stored output.
func (s *Store) GetOutput(ctx context.Context, runID, nodeID string) (*flow.Node, error) {
	if runID == "" || nodeID == "" {
		return nil, flow.ErrEmptyID
	}

	val, err := s.client.HGet(ctx, s.key(runID), nodeID).Bytes()
	if err != nil {
		if err == backend.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("flow: get output: %w", err)
	}

	return decode(nodeID, val)
}

// ListOutputs returns the outputs of a run sorted by node ID.
// Returns an empty slice (not nil) if none found.
func (s *Store) ListOutputs(ctx context.Context, runID string) ([]flow.Node, error) {
	if runID == "" {
		return nil, flow.ErrEmptyID
	}

	fields, err := s.client.HGetAll(ctx, s.key(runID)).Result()
	if err != nil {
		return nil, fmt.Errorf("flow: list outputs: %w", err)
	}

	ids := make([]string, 0, len(fields))
	for id := range fields {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	nodes := make([]flow.Node, 0, len(ids))
	for _, id := range ids {
		n, err := decode(id, []byte(fields[id]))
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, *n)
	}
	return nodes, nil
}

// DeleteOutput removes one node output. No error if it doesn't exist.
func (s *Store) DeleteOutput(ctx context.Context, runID, nodeID string) error {
	if runID == "" || nodeID == "" {
		return flow.ErrEmptyID
	}

	if err := s.client.HDel(ctx, s.key(runID), nodeID).Err(); err != nil {
		return fmt.Errorf("flow: delete output: %w", err)
	}
	return nil
}

// DeleteRun removes every output of the run.
func (s *Store) DeleteRun(ctx context.Context, runID string) error {
	if runID == "" {
		return flow.ErrEmptyID
	}

	if err := s.client.Del(ctx, s.key(runID)).Err(); err != nil {
		return fmt.Errorf("flow: delete run: %w", err)
	}
	return nil
}

func decode(nodeID string, data []byte) (*flow.Node, error) {
	out, err := flow.DecodeOutputData(data)
	if err != nil {
		return nil, fmt.Errorf("flow: decode output %s: %w", nodeID, err)
	}
	return &flow.Node{ID: nodeID, OutputData: out}, nil
}
