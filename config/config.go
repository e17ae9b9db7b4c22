// Package config implements the configuration domain: a registry of
// named configuration documents with dotted-path value access and
// explicit export back to disk.
package config

import (
	"errors"
	"sync"

	"github.com/dshills/easyjson/document"
	"github.com/dshills/easyjson/loader"
	"github.com/dshills/easyjson/notify"
	"github.com/dshills/easyjson/registry"
	"github.com/dshills/easyjson/watcher"
)

// DefaultName is the configuration name used when none is given.
const DefaultName = "default"

// Service owns the configuration registry.
// A fresh Service starts empty; construct one per test for isolation.
type Service struct {
	reg *registry.Registry
	ld  *loader.Loader

	notifier *notify.Notifier

	mu    sync.RWMutex
	paths map[string]string // name -> source file
}

// Option configures a Service.
type Option func(*Service)

// WithNotifier attaches a change notifier.
func WithNotifier(n *notify.Notifier) Option {
	return func(s *Service) {
		s.notifier = n
	}
}

// WithFileSystem sets the file system used for loading.
func WithFileSystem(fsys loader.FileSystem) Option {
	return func(s *Service) {
		s.ld = loader.NewWithFS(fsys)
	}
}

// New creates an empty configuration service.
func New(opts ...Option) *Service {
	s := &Service{
		reg:   registry.New(),
		ld:    loader.New(),
		paths: make(map[string]string),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Load decodes the file at path and installs it as the configuration
// name, replacing any prior entry with that name.
func (s *Service) Load(name, path string) error {
	if err := s.ld.Load(s.reg, name, path); err != nil {
		return err
	}

	s.mu.Lock()
	s.paths[name] = path
	s.mu.Unlock()

	if s.notifier != nil {
		s.notifier.NotifyLoad(notify.DomainConfiguration, name)
	}
	return nil
}

// LoadAll loads each entry in order, fail-fast.
func (s *Service) LoadAll(entries []loader.Entry) error {
	for _, e := range entries {
		if err := s.Load(e.Name, e.Path); err != nil {
			return err
		}
	}
	return nil
}

// AsyncLoad performs Load in a goroutine; the buffered channel
// delivers the single result.
func (s *Service) AsyncLoad(name, path string) <-chan error {
	result := make(chan error, 1)
	go func() {
		result <- s.Load(name, path)
	}()
	return result
}

// AsyncLoadAll launches every member load concurrently and returns
// once all have completed, with failures joined. Successes are
// installed regardless of other members' failures.
func (s *Service) AsyncLoadAll(entries []loader.Entry) error {
	errs := make([]error, len(entries))

	var wg sync.WaitGroup
	for i, e := range entries {
		wg.Add(1)
		go func(i int, e loader.Entry) {
			defer wg.Done()
			errs[i] = s.Load(e.Name, e.Path)
		}(i, e)
	}
	wg.Wait()

	return errors.Join(errs...)
}

// Get returns the document loaded as the configuration name.
func (s *Service) Get(name string) (document.Document, bool) {
	return s.reg.Get(name)
}

// All returns a snapshot of every loaded configuration.
func (s *Service) All() map[string]document.Document {
	return s.reg.All()
}

// Names returns the loaded configuration names sorted lexically.
func (s *Service) Names() []string {
	return s.reg.Names()
}

// Remove deletes the named configuration. An absent name is a no-op.
func (s *Service) Remove(name string) {
	s.reg.Remove(name)

	s.mu.Lock()
	delete(s.paths, name)
	s.mu.Unlock()

	if s.notifier != nil {
		s.notifier.NotifyRemove(notify.DomainConfiguration, name)
	}
}

// RemoveMany removes each named configuration; unknown names are
// skipped.
func (s *Service) RemoveMany(names []string) {
	for _, name := range names {
		s.Remove(name)
	}
}

// Clear removes every configuration.
func (s *Service) Clear() {
	s.reg.Clear()

	s.mu.Lock()
	s.paths = make(map[string]string)
	s.mu.Unlock()
}

// Value resolves a dot-separated path within the named configuration,
// defaulting to "default". An unknown name or unresolvable path yields
// false, never an error.
func (s *Service) Value(path string, name ...string) (any, bool) {
	return s.reg.Value(pickName(name), path)
}

// SetValue assigns value at a dot-separated path within the named
// configuration, defaulting to "default", creating intermediate
// mappings as needed. A write against an unloaded name is reported as
// registry.ErrEntryNotFound.
func (s *Service) SetValue(path string, value any, name ...string) error {
	target := pickName(name)

	old, err := s.reg.Exchange(target, path, value)
	if err != nil {
		return err
	}

	if s.notifier != nil {
		s.notifier.NotifySet(notify.DomainConfiguration, target, path, old, value)
	}
	return nil
}

// AsyncSetValue performs SetValue in a goroutine; the buffered channel
// delivers the single result.
func (s *Service) AsyncSetValue(path string, value any, name ...string) <-chan error {
	result := make(chan error, 1)
	go func() {
		result <- s.SetValue(path, value, name...)
	}()
	return result
}

// WatchLoaded registers every currently-loaded configuration file with
// w. A changed file is reloaded under its name; a deleted file removes
// the entry.
func (s *Service) WatchLoaded(w *watcher.Watcher) error {
	s.mu.RLock()
	paths := make(map[string]string, len(s.paths))
	for name, path := range s.paths {
		paths[name] = path
	}
	s.mu.RUnlock()

	for name, path := range paths {
		name, path := name, path
		err := w.Watch(path,
			func() error {
				if err := s.ld.Load(s.reg, name, path); err != nil {
					return err
				}
				if s.notifier != nil {
					s.notifier.NotifyReload(notify.DomainConfiguration, name)
				}
				return nil
			},
			func() { s.Remove(name) },
		)
		if err != nil {
			return err
		}
	}
	return nil
}

// pickName returns the first non-empty optional name, or DefaultName.
func pickName(name []string) string {
	if len(name) > 0 && name[0] != "" {
		return name[0]
	}
	return DefaultName
}
