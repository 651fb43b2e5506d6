// Package flow resolves {{node.field}} variables against workflow node outputs
// and evaluates the branching conditions built on top of them.
//
// Both operations are pure: they only read the snapshot passed in, never fail,
// and may be called concurrently.
package flow

// Node is a vertex of a workflow graph as seen by the evaluator.
// OutputData holds the most recent (or sample) output the node produced.
// A nil OutputData means the node has not produced anything yet.
type Node struct {
	ID         string         `json:"id" yaml:"id"`
	OutputData map[string]any `json:"output_data,omitempty" yaml:"output_data,omitempty"`
}

// Operator names a comparison applied to the two resolved operands of a Condition.
type Operator string

const (
	OpEquals      Operator = "equals"
	OpNotEquals   Operator = "not_equals"
	OpContains    Operator = "contains"
	OpNotContains Operator = "not_contains"
	OpStartsWith  Operator = "starts_with"
	OpEndsWith    Operator = "ends_with"
	OpGreaterThan Operator = "greater_than"
	OpLessThan    Operator = "less_than"
	OpExists      Operator = "exists"
	OpIsEmpty     Operator = "is_empty"
)

// Logic is the combinator applied across all conditions of a set.
type Logic string

const (
	LogicAnd Logic = "AND"
	LogicOr  Logic = "OR"
)

// Condition is a single (left, operator, right) clause.
// Operands are raw templates and may contain {{node.field}} tokens.
type Condition struct {
	LeftOperand  string   `json:"left_operand" yaml:"left_operand"`
	Operator     Operator `json:"operator" yaml:"operator"`
	RightOperand string   `json:"right_operand,omitempty" yaml:"right_operand,omitempty"`
}

// ConditionSet gates a branch of the workflow.
type ConditionSet struct {
	Conditions []Condition `json:"conditions" yaml:"conditions"`
	RootLogic  Logic       `json:"root_logic" yaml:"root_logic"`
}

// Evaluate reports whether the set holds against nodes.
func (s ConditionSet) Evaluate(nodes []Node) bool {
	return EvaluateConditionSet(s.Conditions, s.RootLogic, nodes)
}

// Edge is a directed connection between two nodes.
// When is nil for unconditional edges.
type Edge struct {
	ID         string        `json:"id,omitempty" yaml:"id,omitempty"`
	FromNodeID string        `json:"from_node_id" yaml:"from_node_id"`
	ToNodeID   string        `json:"to_node_id" yaml:"to_node_id"`
	When       *ConditionSet `json:"when,omitempty" yaml:"when,omitempty"`
}
