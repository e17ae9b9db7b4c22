// Package registry implements the named document store shared by the
// language and configuration domains.
//
// A Registry maps unique names to loaded documents. Map-level
// operations (install, remove, snapshot) are guarded so each logical
// registry mutation is atomic from the caller's perspective; stored
// documents themselves are mutated in place without document-level
// locking, so concurrent writers to one document must supply their own
// mutual exclusion.
package registry

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/dshills/easyjson/document"
)

// ErrEntryNotFound indicates a write against a name with no loaded
// document.
var ErrEntryNotFound = errors.New("entry not found")

// Registry is a name-to-document store. The zero value is not usable;
// use New.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]document.Document
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		entries: make(map[string]document.Document),
	}
}

// Load installs doc under name, replacing any prior entry with that
// name. There is no merge with prior content.
func (r *Registry) Load(name string, doc document.Document) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[name] = doc
}

// Get returns the document stored under name.
func (r *Registry) Get(name string) (document.Document, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	doc, ok := r.entries[name]
	return doc, ok
}

// All returns a snapshot of every entry. Adding or removing entries in
// the returned map does not affect the registry; the documents
// themselves are shared.
func (r *Registry) All() map[string]document.Document {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make(map[string]document.Document, len(r.entries))
	for name, doc := range r.entries {
		result[name] = doc
	}
	return result
}

// Remove deletes the entry if present. An absent name is a no-op.
func (r *Registry) Remove(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, name)
}

// RemoveMany removes each named entry. Unknown names are skipped.
func (r *Registry) RemoveMany(names []string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, name := range names {
		delete(r.entries, name)
	}
}

// Clear removes every entry.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = make(map[string]document.Document)
}

// Len returns the number of loaded entries.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Names returns the loaded entry names sorted lexically.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Value resolves a dot-separated path within the named document.
// An unknown name, empty path, or unresolvable path yields false,
// never an error.
func (r *Registry) Value(name, path string) (any, bool) {
	r.mu.RLock()
	doc, ok := r.entries[name]
	r.mu.RUnlock()

	if !ok {
		return nil, false
	}
	return doc.Get(path)
}

// SetValue assigns value at a dot-separated path within the named
// document, creating intermediate mappings as needed. Unlike Remove,
// a write against an unknown name is reported as ErrEntryNotFound.
func (r *Registry) SetValue(name, path string, value any) error {
	r.mu.RLock()
	doc, ok := r.entries[name]
	r.mu.RUnlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrEntryNotFound, name)
	}
	return doc.Set(path, value)
}

// Exchange assigns value at a dot-separated path within the named
// document and returns the value previously stored there. The lookup
// and the write happen under the registry write lock, so concurrent
// Exchange calls against one path observe each other's values rather
// than a stale read.
func (r *Registry) Exchange(name, path string, value any) (any, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, ok := r.entries[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrEntryNotFound, name)
	}

	old, _ := doc.Get(path)
	if err := doc.Set(path, value); err != nil {
		return nil, err
	}
	return old, nil
}
