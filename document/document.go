// Package document provides the nested document model shared by the
// language and configuration registries.
//
// A Document is a decoded JSON-like tree of mappings, sequences, and
// scalars. Locations within a document are addressed by dot-separated
// paths. A dot always separates segments, so keys containing literal
// dots are not addressable.
package document

import (
	"errors"
	"strings"
)

// ErrEmptyPath indicates an empty path was passed to a write operation.
var ErrEmptyPath = errors.New("empty document path")

// ErrNilDocument indicates a write against a nil document.
var ErrNilDocument = errors.New("nil document")

// Document is a tree of nested mappings with string keys.
type Document map[string]any

// Get retrieves the value at a dot-separated path.
// Descent requires a mapping at every intermediate segment; a missing
// key or a non-mapping intermediate yields false. An empty path yields
// false.
func (d Document) Get(path string) (any, bool) {
	if d == nil || path == "" {
		return nil, false
	}

	current := any(map[string]any(d))
	for _, part := range strings.Split(path, ".") {
		m, ok := asMap(current)
		if !ok {
			return nil, false
		}

		val, exists := m[part]
		if !exists {
			return nil, false
		}
		current = val
	}

	return current, true
}

// Set writes value at a dot-separated path, mutating the document in
// place. Whenever an intermediate segment is absent or holds a
// non-mapping value, a fresh empty mapping replaces it and the prior
// value is discarded. The final segment is overwritten unconditionally.
// Writing into a nil document is ErrNilDocument; an empty path is
// ErrEmptyPath.
func (d Document) Set(path string, value any) error {
	if d == nil {
		return ErrNilDocument
	}
	if path == "" {
		return ErrEmptyPath
	}

	parts := strings.Split(path, ".")
	current := map[string]any(d)

	for _, part := range parts[:len(parts)-1] {
		next, ok := asMap(current[part])
		if !ok {
			next = make(map[string]any)
			current[part] = next
		}
		current = next
	}

	current[parts[len(parts)-1]] = value
	return nil
}

// Delete removes the value at a dot-separated path.
// Returns true if the value was found and deleted.
func (d Document) Delete(path string) bool {
	if d == nil || path == "" {
		return false
	}

	parts := strings.Split(path, ".")
	current := map[string]any(d)

	for _, part := range parts[:len(parts)-1] {
		next, ok := asMap(current[part])
		if !ok {
			return false
		}
		current = next
	}

	key := parts[len(parts)-1]
	if _, exists := current[key]; exists {
		delete(current, key)
		return true
	}

	return false
}

// Has reports whether a value exists at the given path.
func (d Document) Has(path string) bool {
	_, ok := d.Get(path)
	return ok
}

// asMap unwraps a value into a mapping. Nested values produced by the
// decoders are map[string]any; values inserted by callers may be
// Document.
func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case Document:
		return m, true
	default:
		return nil, false
	}
}
