package document

// Merge recursively merges src into dst and returns dst.
// Values in src override values in dst. Mappings are merged
// recursively; other types are replaced. Merged-in values are cloned
// so later mutation of src does not leak into dst.
func Merge(dst, src Document) Document {
	if dst == nil {
		dst = make(Document)
	}
	if src == nil {
		return dst
	}

	for key, srcVal := range src {
		dstVal, exists := dst[key]
		if !exists {
			dst[key] = cloneValue(srcVal)
			continue
		}

		srcMap, srcIsMap := asMap(srcVal)
		dstMap, dstIsMap := asMap(dstVal)
		if srcIsMap && dstIsMap {
			dst[key] = map[string]any(Merge(dstMap, srcMap))
		} else {
			dst[key] = cloneValue(srcVal)
		}
	}

	return dst
}

// Clone creates a deep copy of the document.
func (d Document) Clone() Document {
	if d == nil {
		return nil
	}

	dst := make(Document, len(d))
	for key, val := range d {
		dst[key] = cloneValue(val)
	}
	return dst
}

// Flatten converts the document into a single-level map with
// dot-separated keys. Only mapping nodes are descended; sequences are
// leaves.
func (d Document) Flatten() map[string]any {
	result := make(map[string]any)
	flattenInto(d, "", result)
	return result
}

// Unflatten converts a map with dot-separated keys back into a nested
// document.
func Unflatten(flat map[string]any) Document {
	result := make(Document)
	for path, val := range flat {
		if path == "" {
			continue
		}
		_ = result.Set(path, val)
	}
	return result
}

func flattenInto(data map[string]any, prefix string, result map[string]any) {
	for key, val := range data {
		fullKey := key
		if prefix != "" {
			fullKey = prefix + "." + key
		}

		if nested, ok := asMap(val); ok {
			flattenInto(nested, fullKey, result)
		} else {
			result[fullKey] = val
		}
	}
}

// cloneValue creates a deep copy of a value.
func cloneValue(val any) any {
	switch v := val.(type) {
	case map[string]any:
		return cloneMap(v)
	case Document:
		return map[string]any(cloneMap(v))
	case []any:
		return cloneSlice(v)
	default:
		return val
	}
}

func cloneMap(src map[string]any) map[string]any {
	dst := make(map[string]any, len(src))
	for key, val := range src {
		dst[key] = cloneValue(val)
	}
	return dst
}

func cloneSlice(src []any) []any {
	dst := make([]any, len(src))
	for i, val := range src {
		dst[i] = cloneValue(val)
	}
	return dst
}
