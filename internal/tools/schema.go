package tools

// Schema is a JSON Schema object describing tool parameters.
type Schema map[string]any

func object(props map[string]any, required ...string) Schema {
	s := Schema{
		"type":       "object",
		"properties": props,
	}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}

func prop(typ, description string) map[string]any {
	return map[string]any{"type": typ, "description": description}
}

func arrayOf(itemType, description string) map[string]any {
	return map[string]any{
		"type":        "array",
		"items":       map[string]any{"type": itemType},
		"description": description,
	}
}

// Properties returns the schema's property map, or an empty one.
func (s Schema) Properties() map[string]any {
	if p, ok := s["properties"].(map[string]any); ok {
		return p
	}
	return map[string]any{}
}

// Required returns the names of required properties.
func (s Schema) Required() []string {
	if r, ok := s["required"].([]string); ok {
		return r
	}
	return nil
}
