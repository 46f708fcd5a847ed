package brand

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
)

// Encode turns a field value into its column representation. A nil result
// means NULL. Array and object values are stored as JSON; strings handed in
// for those kinds are assumed to be serialized already and pass through.
func Encode(f Field, value any) (*string, error) {
	if value == nil {
		return nil, nil
	}
	if s, ok := value.(string); ok {
		return &s, nil
	}
	if f.Kind == KindText {
		if st, ok := value.(fmt.Stringer); ok {
			s := st.String()
			return &s, nil
		}
		switch value.(type) {
		case bool, int, int32, int64, float32, float64:
			s := fmt.Sprint(value)
			return &s, nil
		}
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", f.Name, err)
	}
	s := string(raw)
	return &s, nil
}

// Decode is the inverse of Encode. Column values that fail to parse as JSON
// for array/object fields are returned unchanged.
func Decode(f Field, raw *string) any {
	if raw == nil {
		return nil
	}
	if f.Kind == KindText {
		return *raw
	}
	var v any
	if err := json.Unmarshal([]byte(*raw), &v); err != nil {
		return *raw
	}
	return v
}

// Truthy reports whether a value carries content worth showing to a model:
// non-blank strings and non-empty collections.
func Truthy(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case string:
		return strings.TrimSpace(v) != ""
	case bool:
		return v
	case []any:
		return len(v) > 0
	case map[string]any:
		return len(v) > 0
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len() > 0
	case reflect.Pointer:
		return !rv.IsNil() && Truthy(rv.Elem().Interface())
	default:
		return !rv.IsZero()
	}
}

// Format renders a value for inclusion in a prompt line.
func Format(value any) string {
	switch v := value.(type) {
	case string:
		return strings.TrimSpace(v)
	case []any:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			parts = append(parts, Format(item))
		}
		return strings.Join(parts, ", ")
	case []string:
		return strings.Join(v, ", ")
	default:
		raw, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(raw)
	}
}
