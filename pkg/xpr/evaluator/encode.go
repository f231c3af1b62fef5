package evaluator

import (
	"encoding/json"
	"time"

	"github.com/fmahebert/eckit/pkg/xpr/errors"
	"gopkg.in/yaml.v3"
)

// ToNative converts a Value to plain Go data for encoders: bool,
// int64, float64, string, time.Time, []any, or nil for Undef.
func ToNative(v Value) any {
	switch n := v.(type) {
	case *Boolean:
		return n.Value
	case *Integer:
		return n.Value
	case *Real:
		return n.Value
	case *String:
		return n.Value
	case *Date:
		return n.Value
	case *Path:
		return n.Value
	case *List:
		out := make([]any, len(n.Elements))
		for i, e := range n.Elements {
			out[i] = ToNative(e)
		}
		return out
	case *Undef:
		return nil
	}
	return nil
}

// FromNative converts plain Go data to a Value. It accepts the types
// ToNative produces plus the widths JSON and SQL drivers hand back.
func FromNative(v any) (Value, error) {
	switch n := v.(type) {
	case nil:
		return NewUndef(), nil
	case bool:
		return NewBoolean(n), nil
	case int:
		return NewInteger(int64(n)), nil
	case int32:
		return NewInteger(int64(n)), nil
	case int64:
		return NewInteger(n), nil
	case float32:
		return NewReal(float64(n)), nil
	case float64:
		// JSON numbers arrive as float64; keep whole numbers integral.
		if n == float64(int64(n)) {
			return NewInteger(int64(n)), nil
		}
		return NewReal(n), nil
	case string:
		return NewString(n), nil
	case []byte:
		return NewString(string(n)), nil
	case time.Time:
		return NewDate(n), nil
	case []any:
		elements := make([]Value, len(n))
		for i, e := range n {
			v, err := FromNative(e)
			if err != nil {
				return nil, err
			}
			elements[i] = v
		}
		return &List{Elements: elements}, nil
	}
	return nil, errors.New("FMT-0002", map[string]any{
		"Kind": "unsupported Go type", "Format": "value",
	})
}

// EncodeJSON renders a Value as JSON.
func EncodeJSON(v Value) ([]byte, error) {
	b, err := json.Marshal(ToNative(v))
	if err != nil {
		return nil, errors.New("FMT-0001", map[string]any{
			"Format": "json", "GoError": err.Error(),
		})
	}
	return b, nil
}

// EncodeYAML renders a Value as YAML.
func EncodeYAML(v Value) ([]byte, error) {
	b, err := yaml.Marshal(ToNative(v))
	if err != nil {
		return nil, errors.New("FMT-0001", map[string]any{
			"Format": "yaml", "GoError": err.Error(),
		})
	}
	return b, nil
}

// DecodeJSON parses JSON into a Value.
func DecodeJSON(data []byte) (Value, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.New("FMT-0001", map[string]any{
			"Format": "json", "GoError": err.Error(),
		})
	}
	return FromNative(raw)
}
