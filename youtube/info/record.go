package info

// Record is a loosely typed JSON object from a platform response. Helpers
// navigate nested keys and tolerate any missing or mistyped step by
// returning zero values.
type Record map[string]any

// Map walks nested objects by key.
func (r Record) Map(keys ...string) Record {
	cur := r
	for _, key := range keys {
		next, ok := cur[key].(map[string]any)
		if !ok {
			return nil
		}
		cur = next
	}
	return cur
}

// Slice returns the array at the nested key path.
func (r Record) Slice(keys ...string) []any {
	if len(keys) == 0 {
		return nil
	}
	parent := r.Map(keys[:len(keys)-1]...)
	if parent == nil {
		return nil
	}
	s, _ := parent[keys[len(keys)-1]].([]any)
	return s
}

// String returns the string at the nested key path.
func (r Record) String(keys ...string) string {
	if len(keys) == 0 {
		return ""
	}
	parent := r.Map(keys[:len(keys)-1]...)
	if parent == nil {
		return ""
	}
	s, _ := parent[keys[len(keys)-1]].(string)
	return s
}

// Bool returns the bool at the nested key path.
func (r Record) Bool(keys ...string) bool {
	if len(keys) == 0 {
		return false
	}
	parent := r.Map(keys[:len(keys)-1]...)
	if parent == nil {
		return false
	}
	b, _ := parent[keys[len(keys)-1]].(bool)
	return b
}

// Float returns the number at the nested key path.
func (r Record) Float(keys ...string) float64 {
	if len(keys) == 0 {
		return 0
	}
	parent := r.Map(keys[:len(keys)-1]...)
	if parent == nil {
		return 0
	}
	f, _ := parent[keys[len(keys)-1]].(float64)
	return f
}

// text resolves the two shapes the platform uses for display strings: either
// {"simpleText": "..."} or {"runs": [{"text": "..."}]}.
func text(v any) string {
	obj, ok := v.(map[string]any)
	if !ok {
		return ""
	}
	if s, ok := obj["simpleText"].(string); ok {
		return s
	}
	if runs, ok := obj["runs"].([]any); ok && len(runs) > 0 {
		if run, ok := runs[0].(map[string]any); ok {
			s, _ := run["text"].(string)
			return s
		}
	}
	return ""
}

// merge copies source's non-nil values over target. Either side may be nil,
// in which case the other wins.
func merge(target, source Record) Record {
	if target == nil || source == nil {
		if target != nil {
			return target
		}
		return source
	}
	for key, value := range source {
		if value != nil {
			target[key] = value
		}
	}
	return target
}
