package flow

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeOutputData(t *testing.T) {
	data, err := DecodeOutputData([]byte(`{"count": 12345678901234567890, "user": {"name": "John"}, "none": null}`))
	require.NoError(t, err)

	assert.Equal(t, json.Number("12345678901234567890"), data["count"])
	assert.Equal(t, map[string]any{"name": "John"}, data["user"])
	assert.Contains(t, data, "none")

	nodes := []Node{{ID: "n1", OutputData: data}}
	assert.Equal(t, "12345678901234567890", ResolveVariables("{{n1.count}}", nodes))
	assert.Equal(t, `{"name":"John"}`, ResolveVariables("{{n1.user}}", nodes))
}

func TestDecodeOutputData_Empty(t *testing.T) {
	data, err := DecodeOutputData(nil)
	require.NoError(t, err)
	assert.Nil(t, data)

	_, err = DecodeOutputData([]byte(`not json`))
	assert.Error(t, err)
}
