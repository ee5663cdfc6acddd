package sanitize

import (
	"fmt"
	"slices"
	"strings"
)

// Args renders positional arguments for diagnostics, e.g.
// ('show456', 42). Empty input renders as "".
func Args(args []any) string {
	if len(args) == 0 {
		return ""
	}
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = repr(Value(a, ""))
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// Kwargs renders named arguments for diagnostics with keys sorted, e.g.
// {'access_token': '[REDACTED]', 'show_id': '456'}. Empty input renders
// as "".
func Kwargs(kwargs map[string]any) string {
	if len(kwargs) == 0 {
		return ""
	}
	return repr(Value(kwargs, ""))
}

func repr(v any) string {
	switch val := v.(type) {
	case nil:
		return "None"
	case string:
		return "'" + strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(val) + "'"
	case bool:
		if val {
			return "True"
		}
		return "False"
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = repr(k) + ": " + repr(val[k])
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case []any:
		parts := make([]string, len(val))
		for i, inner := range val {
			parts[i] = repr(inner)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	default:
		return fmt.Sprint(val)
	}
}
