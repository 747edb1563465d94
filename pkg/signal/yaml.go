package signal

import "gopkg.in/yaml.v3"

// UnmarshalYAML lets Value appear directly in task/block description
// literals: any YAML scalar, sequence,
// or mapping decodes via the Native()/FromNative() bridge that MarshalYAML
// also uses.
func (v *Value) UnmarshalYAML(node *yaml.Node) error {
	var raw any
	if err := node.Decode(&raw); err != nil {
		return err
	}
	*v = FromNative(normalizeYAML(raw))
	return nil
}

// normalizeYAML recursively converts the map[string]interface{}/[]interface{}
// shape yaml.v3 produces (via Decode into `any`) into the map[string]any
// FromNative expects, since yaml.v3 decodes mapping keys as `any` rather
// than always `string`.
func normalizeYAML(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = normalizeYAML(e)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			if ks, ok := k.(string); ok {
				out[ks] = normalizeYAML(e)
			}
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = normalizeYAML(e)
		}
		return out
	default:
		return t
	}
}

// MarshalYAML lets Value serialize back out via its Native() representation.
func (v Value) MarshalYAML() (any, error) {
	return v.Native(), nil
}
