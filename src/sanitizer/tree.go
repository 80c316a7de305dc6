package sanitizer

import (
	"encoding/json"
	"strconv"
)

// walk copies node, calling visit on the copy of every mapping before its
// children are walked. Containers are always copied, so visit may rewrite the
// mapping it receives without touching the input tree.
func walk(node any, path string, visit func(m map[string]any, path string)) any {
	switch v := node.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, child := range v {
			out[k] = child
		}
		if visit != nil {
			visit(out, path)
		}
		for k, child := range out {
			switch child.(type) {
			case map[string]any, []any:
				out[k] = walk(child, fieldPath(path, k), visit)
			}
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, child := range v {
			out[i] = walk(child, indexPath(path, i), visit)
		}
		return out
	default:
		return node
	}
}

func fieldPath(parent, key string) string {
	if parent == "" {
		return key
	}
	return parent + "." + key
}

func indexPath(parent string, i int) string {
	return parent + "[" + strconv.Itoa(i) + "]"
}

// stringify renders a value the way it is compared against identity map
// keys and measured for custom-field scrubbing. Strings are used as-is;
// everything else is rendered in Python object syntax.
func stringify(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case json.Number:
		return numberText(s)
	case bool:
		if s {
			return "True"
		}
		return "False"
	case nil:
		return "None"
	case float64:
		return floatText(s)
	case int:
		return strconv.Itoa(s)
	default:
		return repr(s)
	}
}
