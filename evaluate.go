package flow

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// EvaluateConditionSet reduces conditions to a single boolean with rootLogic.
// An empty set is true so that ungated branches always proceed.
// Any rootLogic other than AND is reduced as OR.
func EvaluateConditionSet(conditions []Condition, rootLogic Logic, nodes []Node) bool {
	if len(conditions) == 0 {
		return true
	}

	if rootLogic == LogicAnd {
		for _, c := range conditions {
			if !EvaluateCondition(c, nodes) {
				return false
			}
		}
		return true
	}

	for _, c := range conditions {
		if EvaluateCondition(c, nodes) {
			return true
		}
	}
	return false
}

// EvaluateCondition resolves both operands of c against nodes and applies its operator.
// Unknown operators never match.
func EvaluateCondition(c Condition, nodes []Node) bool {
	left := ResolveVariables(c.LeftOperand, nodes)
	right := ResolveVariables(c.RightOperand, nodes)
	return compare(c.Operator, left, right)
}

func compare(op Operator, left, right string) bool {
	switch op {
	case OpEquals:
		return left == right
	case OpNotEquals:
		return left != right
	case OpContains:
		return strings.Contains(left, right)
	case OpNotContains:
		return !strings.Contains(left, right)
	case OpStartsWith:
		return strings.HasPrefix(left, right)
	case OpEndsWith:
		return strings.HasSuffix(left, right)
	case OpGreaterThan:
		return parseNumber(left) > parseNumber(right)
	case OpLessThan:
		return parseNumber(left) < parseNumber(right)
	case OpExists:
		return left != ""
	case OpIsEmpty:
		return left == ""
	default:
		return false
	}
}

// parseNumber reads the longest decimal prefix of s after leading whitespace.
// It returns NaN when s does not start with a number, so every comparison fails.
func parseNumber(s string) float64 {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)

	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	if strings.HasPrefix(s[i:], "Infinity") {
		if s[0] == '-' {
			return math.Inf(-1)
		}
		return math.Inf(1)
	}

	digits := 0
	for i < len(s) && isDigit(s[i]) {
		i++
		digits++
	}
	if i < len(s) && s[i] == '.' {
		i++
		for i < len(s) && isDigit(s[i]) {
			i++
			digits++
		}
	}
	if digits == 0 {
		return math.NaN()
	}
	end := i

	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		if j < len(s) && isDigit(s[j]) {
			for j < len(s) && isDigit(s[j]) {
				j++
			}
			end = j
		}
	}

	// Out-of-range input parses to ±Inf (or 0) alongside ErrRange.
	f, err := strconv.ParseFloat(s[:end], 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return math.NaN()
	}
	return f
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
