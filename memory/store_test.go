package memory_test

import (
	"context"
	"sync"
	"testing"

	"github.com/meikuraledutech/flow"
	"github.com/meikuraledutech/flow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_SaveAndList(t *testing.T) {
	ctx := context.Background()
	store := memory.New()

	require.NoError(t, store.SaveOutput(ctx, "run-1", &flow.Node{ID: "b", OutputData: map[string]any{"v": 1}}))
	require.NoError(t, store.SaveOutput(ctx, "run-1", &flow.Node{ID: "a", OutputData: map[string]any{"v": 2}}))
	require.NoError(t, store.SaveOutput(ctx, "run-1", &flow.Node{ID: "b", OutputData: map[string]any{"v": 3}}))

	nodes, err := store.ListOutputs(ctx, "run-1")
	require.NoError(t, err)
	require.Len(t, nodes, 2)
	assert.Equal(t, "b", nodes[0].ID)
	assert.Equal(t, 3, nodes[0].OutputData["v"])
	assert.Equal(t, "a", nodes[1].ID)

	empty, err := store.ListOutputs(ctx, "unknown")
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestStore_GetOutput(t *testing.T) {
	ctx := context.Background()
	store := memory.New()

	n, err := store.GetOutput(ctx, "run-1", "missing")
	require.NoError(t, err)
	assert.Nil(t, n)

	original := &flow.Node{ID: "n1", OutputData: map[string]any{"status": "success"}}
	require.NoError(t, store.SaveOutput(ctx, "run-1", original))
	original.OutputData["status"] = "mutated"

	n, err = store.GetOutput(ctx, "run-1", "n1")
	require.NoError(t, err)
	require.NotNil(t, n)
	assert.Equal(t, "success", n.OutputData["status"])

	n.OutputData["status"] = "mutated again"
	again, err := store.GetOutput(ctx, "run-1", "n1")
	require.NoError(t, err)
	assert.Equal(t, "success", again.OutputData["status"])
}

func TestStore_Delete(t *testing.T) {
	ctx := context.Background()
	store := memory.New()

	require.NoError(t, store.SaveOutput(ctx, "run-1", &flow.Node{ID: "a"}))
	require.NoError(t, store.SaveOutput(ctx, "run-1", &flow.Node{ID: "b"}))
	require.NoError(t, store.SaveOutput(ctx, "run-2", &flow.Node{ID: "a"}))

	require.NoError(t, store.DeleteOutput(ctx, "run-1", "a"))
	require.NoError(t, store.DeleteOutput(ctx, "run-1", "missing"))

	nodes, err := store.ListOutputs(ctx, "run-1")
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	assert.Equal(t, "b", nodes[0].ID)

	require.NoError(t, store.DeleteRun(ctx, "run-1"))
	nodes, err = store.ListOutputs(ctx, "run-1")
	require.NoError(t, err)
	assert.Empty(t, nodes)

	nodes, err = store.ListOutputs(ctx, "run-2")
	require.NoError(t, err)
	assert.Len(t, nodes, 1)
}

func TestStore_EmptyIDs(t *testing.T) {
	ctx := context.Background()
	store := memory.New()

	assert.ErrorIs(t, store.SaveOutput(ctx, "", &flow.Node{ID: "a"}), flow.ErrEmptyID)
	assert.ErrorIs(t, store.SaveOutput(ctx, "run", &flow.Node{}), flow.ErrEmptyID)
	assert.ErrorIs(t, store.SaveOutput(ctx, "run", nil), flow.ErrEmptyID)
	_, err := store.GetOutput(ctx, "run", "")
	assert.ErrorIs(t, err, flow.ErrEmptyID)
	_, err = store.ListOutputs(ctx, "")
	assert.ErrorIs(t, err, flow.ErrEmptyID)
	assert.ErrorIs(t, store.DeleteOutput(ctx, "", "a"), flow.ErrEmptyID)
	assert.ErrorIs(t, store.DeleteRun(ctx, ""), flow.ErrEmptyID)
}

func TestStore_Concurrent(t *testing.T) {
	ctx := context.Background()
	store := memory.New()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			node := &flow.Node{ID: "n", OutputData: map[string]any{"i": i}}
			assert.NoError(t, store.SaveOutput(ctx, "run", node))
			_, err := store.ListOutputs(ctx, "run")
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	nodes, err := store.ListOutputs(ctx, "run")
	require.NoError(t, err)
	assert.Len(t, nodes, 1)
}

var _ flow.OutputStore = (*memory.Store)(nil)
