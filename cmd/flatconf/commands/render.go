package commands

import (
	"fmt"
	"math"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/flatconf/flatconf/pkg/value"
)

// render formats a value as single-line YAML, so sequences print as
// [a, b] and strings that look like other types are quoted.
func render(v value.Value) (string, error) {
	var node yaml.Node
	if err := node.Encode(v.Interface()); err != nil {
		return "", fmt.Errorf("failed to encode value: %w", err)
	}
	if node.Kind == yaml.SequenceNode || node.Kind == yaml.MappingNode {
		node.Style = yaml.FlowStyle
	}

	out, err := yaml.Marshal(&node)
	if err != nil {
		return "", fmt.Errorf("failed to render value: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}

// jsonValue converts v for encoding/json. Infinite and NaN floats have no
// JSON form and become their YAML spelling (.inf, -.inf, .nan).
func jsonValue(v value.Value) any {
	return jsonSafe(v.Interface())
}

func jsonSafe(in any) any {
	switch x := in.(type) {
	case float64:
		switch {
		case math.IsInf(x, 1):
			return ".inf"
		case math.IsInf(x, -1):
			return "-.inf"
		case math.IsNaN(x):
			return ".nan"
		}
		return x
	case []any:
		for i, item := range x {
			x[i] = jsonSafe(item)
		}
		return x
	case map[string]any:
		for k, item := range x {
			x[k] = jsonSafe(item)
		}
		return x
	default:
		return in
	}
}
