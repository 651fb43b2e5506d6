package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/meikuraledutech/flow"
	"github.com/meikuraledutech/flow/config"
	"github.com/meikuraledutech/flow/memory"
	"github.com/meikuraledutech/flow/redis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const nodesYAML = `
- id: node-1
  output_data:
    status: success
    count: 15
    message: Hello world
    user:
      name: John
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func TestResolveCmd(t *testing.T) {
	nodes := writeFile(t, "nodes.yaml", nodesYAML)

	out, err := run(t, "", "resolve", "--nodes", nodes, "Hi {{node-1.user}}, status={{node-1.status}} {{node-2.x}}")
	require.NoError(t, err)
	assert.Equal(t, `Hi {"name":"John"}, status=success {{node-2.x}}`, out)
}

func TestResolveCmd_Stdin(t *testing.T) {
	nodes := writeFile(t, "nodes.yaml", nodesYAML)

	out, err := run(t, "count={{node-1.count}}", "resolve", "-n", nodes)
	require.NoError(t, err)
	assert.Equal(t, "count=15", out)
}

func TestResolveCmd_NoNodes(t *testing.T) {
	out, err := run(t, "", "resolve", "No variables here")
	require.NoError(t, err)
	assert.Equal(t, "No variables here", out)
}

func TestEvaluateCmd(t *testing.T) {
	nodes := writeFile(t, "nodes.yaml", nodesYAML)

	testCases := []struct {
		name     string
		set      string
		expected string
	}{
		{
			name: "and",
			set: `
root_logic: AND
conditions:
  - left_operand: "{{node-1.status}}"
    operator: equals
    right_operand: success
  - left_operand: "{{node-1.count}}"
    operator: greater_than
    right_operand: "10"
`,
			expected: "true\n",
		},
		{
			name: "or none hold",
			set: `
root_logic: OR
conditions:
  - left_operand: "{{node-1.status}}"
    operator: equals
    right_operand: failure
  - left_operand: "{{node-1.count}}"
    operator: greater_than
    right_operand: "20"
`,
			expected: "false\n",
		},
		{
			name:     "json file",
			set:      `{"root_logic": "AND", "conditions": [{"left_operand": "{{node-1.message}}", "operator": "starts_with", "right_operand": "Hello"}]}`,
			expected: "true\n",
		},
		{
			name:     "empty set",
			set:      `conditions: []`,
			expected: "true\n",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			set := writeFile(t, "set.yaml", tc.set)
			out, err := run(t, "", "evaluate", "--nodes", nodes, "--conditions", set)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, out)
		})
	}
}

func TestEvaluateCmd_Errors(t *testing.T) {
	_, err := run(t, "", "evaluate")
	assert.Error(t, err)

	set := writeFile(t, "set.yaml", "root_logic: XOR\nconditions:\n  - left_operand: a\n    operator: equals\n    right_operand: a\n")
	_, err = run(t, "", "evaluate", "--conditions", set)
	assert.ErrorContains(t, err, "root_logic")

	_, err = run(t, "", "evaluate", "--conditions", filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestOpenStore(t *testing.T) {
	ctx := context.Background()

	t.Run("memory", func(t *testing.T) {
		cfg := &config.Config{}
		cfg.Store.Backend = config.BackendMemory

		store, closeStore, err := openStore(ctx, cfg)
		require.NoError(t, err)
		defer closeStore()
		assert.IsType(t, &memory.Store{}, store)
	})

	t.Run("redis", func(t *testing.T) {
		mr, err := miniredis.Run()
		require.NoError(t, err)
		defer mr.Close()

		cfg := &config.Config{}
		cfg.Store.Backend = config.BackendRedis
		cfg.Store.Redis.Addr = mr.Addr()
		cfg.Store.Redis.Prefix = "cli:"

		store, closeStore, err := openStore(ctx, cfg)
		require.NoError(t, err)
		defer closeStore()
		assert.IsType(t, &redis.Store{}, store)

		require.NoError(t, store.SaveOutput(ctx, "run", &flow.Node{ID: "n1", OutputData: map[string]any{"v": 1}}))
		assert.True(t, mr.Exists("cli:run"))
	})

	t.Run("unknown", func(t *testing.T) {
		cfg := &config.Config{}
		cfg.Store.Backend = "sqlite"

		_, _, err := openStore(ctx, cfg)
		assert.Error(t, err)
	})
}
