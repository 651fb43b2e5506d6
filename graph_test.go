package flow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectEdges(t *testing.T) {
	nodes := sampleNodes()
	edges := []Edge{
		{ID: "ok", FromNodeID: "node-1", ToNodeID: "notify", When: &ConditionSet{
			Conditions: []Condition{{LeftOperand: "{{node-1.status}}", Operator: OpEquals, RightOperand: "success"}},
			RootLogic:  LogicAnd,
		}},
		{ID: "fail", FromNodeID: "node-1", ToNodeID: "alert", When: &ConditionSet{
			Conditions: []Condition{{LeftOperand: "{{node-1.status}}", Operator: OpEquals, RightOperand: "failure"}},
			RootLogic:  LogicAnd,
		}},
		{ID: "always", FromNodeID: "node-1", ToNodeID: "audit"},
		{ID: "vacuous", FromNodeID: "node-1", ToNodeID: "archive", When: &ConditionSet{RootLogic: LogicOr}},
		{ID: "other", FromNodeID: "notify", ToNodeID: "done"},
	}

	selected := SelectEdges(edges, "node-1", nodes)
	ids := make([]string, 0, len(selected))
	for _, e := range selected {
		ids = append(ids, e.ID)
	}
	assert.Equal(t, []string{"ok", "always", "vacuous"}, ids)

	none := SelectEdges(edges, "unknown", nodes)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestValidateAcyclic(t *testing.T) {
	t.Run("tree", func(t *testing.T) {
		edges := []Edge{
			{FromNodeID: "q1", ToNodeID: "q2"},
			{FromNodeID: "q1", ToNodeID: "q3"},
			{FromNodeID: "q2", ToNodeID: "q4"},
			{FromNodeID: "q3", ToNodeID: "q4"},
		}
		require.NoError(t, ValidateAcyclic(edges))
	})

	t.Run("empty", func(t *testing.T) {
		require.NoError(t, ValidateAcyclic(nil))
	})

	t.Run("cycle", func(t *testing.T) {
		edges := []Edge{
			{FromNodeID: "a", ToNodeID: "b"},
			{FromNodeID: "b", ToNodeID: "c"},
			{FromNodeID: "c", ToNodeID: "a"},
		}
		assert.ErrorIs(t, ValidateAcyclic(edges), ErrCycleDetected)
	})

	t.Run("self loop", func(t *testing.T) {
		assert.ErrorIs(t, ValidateAcyclic([]Edge{{FromNodeID: "a", ToNodeID: "a"}}), ErrCycleDetected)
	})
}
