package flow

import (
	"bytes"
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// tokenPattern matches {{nodeRef.fieldKey}}. The node reference stops at the first
// dot; the field key runs to the first closing brace.
var tokenPattern = regexp.MustCompile(`\{\{([^.]+)\.([^}]+)\}\}`)

// ResolveVariables replaces every {{nodeRef.fieldKey}} token in content with the
// matching value from nodes. Tokens that cannot be resolved are left verbatim.
// The string is scanned once, so substituted values are never expanded again.
func ResolveVariables(content string, nodes []Node) string {
	if content == "" {
		return content
	}

	matches := tokenPattern.FindAllStringSubmatchIndex(content, -1)
	if len(matches) == 0 {
		return content
	}

	var b strings.Builder
	b.Grow(len(content))
	last := 0
	for _, m := range matches {
		b.WriteString(content[last:m[0]])
		nodeRef := content[m[2]:m[3]]
		fieldKey := content[m[4]:m[5]]
		if value, ok := lookup(nodes, nodeRef, fieldKey); ok {
			b.WriteString(value)
		} else {
			b.WriteString(content[m[0]:m[1]])
		}
		last = m[1]
	}
	b.WriteString(content[last:])
	return b.String()
}

// lookup finds the stringified field of the first node whose ID equals nodeRef.
func lookup(nodes []Node, nodeRef, fieldKey string) (string, bool) {
	node := findNode(nodes, nodeRef)
	if node == nil || node.OutputData == nil {
		return "", false
	}
	value, ok := node.OutputData[fieldKey]
	if !ok {
		return "", false
	}
	return stringify(value)
}

func findNode(nodes []Node, id string) *Node {
	for i := range nodes {
		if nodes[i].ID == id {
			return &nodes[i]
		}
	}
	return nil
}

// stringify renders a field value the way it appears in a rendered template.
// Scalars use their plain text form; everything else becomes compact JSON.
func stringify(value any) (string, bool) {
	switch v := value.(type) {
	case nil:
		return "null", true
	case string:
		return v, true
	case bool:
		return strconv.FormatBool(v), true
	case json.Number:
		return v.String(), true
	case float64:
		return formatNumber(v), true
	case float32:
		return formatNumber(float64(v)), true
	case int:
		return strconv.Itoa(v), true
	case int8, int16, int32, int64:
		return strconv.FormatInt(toInt64(v), 10), true
	case uint, uint8, uint16, uint32, uint64:
		return strconv.FormatUint(toUint64(v), 10), true
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(value); err != nil {
		return "", false
	}
	return strings.TrimSuffix(buf.String(), "\n"), true
}

// formatNumber produces the shortest decimal text for f, switching to exponent
// notation outside [1e-6, 1e21) the way browsers and Node print numbers.
func formatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0"
	}

	abs := math.Abs(f)
	if abs >= 1e21 || abs < 1e-6 {
		s := strconv.FormatFloat(f, 'e', -1, 64)
		// Go pads the exponent to two digits ("1e-07").
		mantissa, exp, _ := strings.Cut(s, "e")
		sign := exp[:1]
		digits := strings.TrimLeft(exp[1:], "0")
		return mantissa + "e" + sign + digits
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func toInt64(v any) int64 {
	switch n := v.(type) {
	case int8:
		return int64(n)
	case int16:
		return int64(n)
	case int32:
		return int64(n)
	case int64:
		return n
	}
	return 0
}

func toUint64(v any) uint64 {
	switch n := v.(type) {
	case uint:
		return uint64(n)
	case uint8:
		return uint64(n)
	case uint16:
		return uint64(n)
	case uint32:
		return uint64(n)
	case uint64:
		return n
	}
	return 0
}
