package blueprint

// CloneValue returns a deep copy of a literal value as found in node data or
// socket defaults. Maps and slices are copied recursively; every other value
// is returned as is.
func CloneValue(v any) any {
	switch v := v.(type) {
	case map[string]any:
		return CloneData(v)
	case []any:
		out := make([]any, len(v))
		for i, elem := range v {
			out[i] = CloneValue(elem)
		}
		return out
	default:
		return v
	}
}

// CloneData deep-copies a node's literal configuration. A nil map stays nil.
func CloneData(data map[string]any) map[string]any {
	if data == nil {
		return nil
	}
	out := make(map[string]any, len(data))
	for k, v := range data {
		out[k] = CloneValue(v)
	}
	return out
}

// cloneSockets copies sockets together with their default values.
func cloneSockets(sockets []Socket) []Socket {
	if sockets == nil {
		return nil
	}
	out := make([]Socket, len(sockets))
	for i, s := range sockets {
		s.DefaultValue = CloneValue(s.DefaultValue)
		out[i] = s
	}
	return out
}
