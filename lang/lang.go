// Package lang implements the language domain: a registry of
// translation documents, the process-wide active language pointer, and
// message lookup with key-echo fallback.
package lang

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"text/template"

	"github.com/dshills/easyjson/document"
	"github.com/dshills/easyjson/loader"
	"github.com/dshills/easyjson/notify"
	"github.com/dshills/easyjson/registry"
	"github.com/dshills/easyjson/watcher"
)

// Service owns the language registry and the active language.
// A fresh Service starts with an empty registry and no active
// language; construct one per test for isolation.
type Service struct {
	reg *registry.Registry
	ld  *loader.Loader

	notifier *notify.Notifier

	mu        sync.RWMutex
	active    string
	activeSet bool
	paths     map[string]string // name -> source file

	tmu       sync.Mutex
	templates map[string]*template.Template
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

// New creates an empty language service.
func New(opts ...Option) *Service {
	s := &Service{
		reg:       registry.New(),
		ld:        loader.New(),
		paths:     make(map[string]string),
		templates: make(map[string]*template.Template),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Load decodes the file at path and installs it as the language name,
// replacing any prior entry with that name.
func (s *Service) Load(name, path string) error {
	if err := s.ld.Load(s.reg, name, path); err != nil {
		return err
	}

	s.mu.Lock()
	s.paths[name] = path
	s.mu.Unlock()

	if s.notifier != nil {
		s.notifier.NotifyLoad(notify.DomainLanguage, name)
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

// Get returns the document loaded as the language name.
func (s *Service) Get(name string) (document.Document, bool) {
	return s.reg.Get(name)
}

// All returns a snapshot of every loaded language.
func (s *Service) All() map[string]document.Document {
	return s.reg.All()
}

// Names returns the loaded language names sorted lexically.
func (s *Service) Names() []string {
	return s.reg.Names()
}

// Remove deletes the named language. An absent name is a no-op.
func (s *Service) Remove(name string) {
	s.reg.Remove(name)

	s.mu.Lock()
	delete(s.paths, name)
	s.mu.Unlock()

	if s.notifier != nil {
		s.notifier.NotifyRemove(notify.DomainLanguage, name)
	}
}

// RemoveMany removes each named language; unknown names are skipped.
func (s *Service) RemoveMany(names []string) {
	for _, name := range names {
		s.Remove(name)
	}
}

// Clear removes every language. The active language name is kept; a
// later Translate against it simply echoes the key.
func (s *Service) Clear() {
	s.reg.Clear()

	s.mu.Lock()
	s.paths = make(map[string]string)
	s.mu.Unlock()
}

// SetActive stores name as the active language. The name is not
// required to be loaded; translation against a missing active name
// yields the key-echo fallback, not an error.
func (s *Service) SetActive(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = name
	s.activeSet = true
}

// Active returns the active language name, and false while unset.
func (s *Service) Active() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active, s.activeSet
}

// Translate resolves a dot-separated key against the language named by
// the optional explicit name, or the active language otherwise. When
// no language applies, the entry is missing, or the key does not
// resolve, the key itself is returned so missing translations stay
// identifiable in output. Non-string values are formatted with %v.
func (s *Service) Translate(key string, name ...string) string {
	msg, ok := s.resolve(key, name...)
	if !ok {
		return key
	}
	return msg
}

// TranslateData translates a key and renders the message as a
// text/template with data. Template failures fall back to the raw
// message; a missing translation echoes the key.
func (s *Service) TranslateData(key string, data map[string]any, name ...string) string {
	msg, ok := s.resolve(key, name...)
	if !ok {
		return key
	}
	if data == nil {
		return msg
	}
	return s.render(msg, data)
}

// resolve looks up the message for key in the target language.
func (s *Service) resolve(key string, name ...string) (string, bool) {
	var target string
	switch {
	case len(name) > 0 && name[0] != "":
		target = name[0]
	default:
		active, ok := s.Active()
		if !ok {
			return "", false
		}
		target = active
	}

	val, ok := s.reg.Value(target, key)
	if !ok {
		return "", false
	}

	if str, isStr := val.(string); isStr {
		return str, true
	}
	return fmt.Sprintf("%v", val), true
}

// render executes msg as a template with data, caching compiled
// templates by message text.
func (s *Service) render(msg string, data map[string]any) string {
	s.tmu.Lock()
	tmpl, ok := s.templates[msg]
	if !ok {
		var err error
		tmpl, err = template.New("message").Parse(msg)
		if err != nil {
			s.tmu.Unlock()
			return msg
		}
		s.templates[msg] = tmpl
	}
	s.tmu.Unlock()

	var buf strings.Builder
	if err := tmpl.Execute(&buf, data); err != nil {
		return msg
	}
	return buf.String()
}

// WatchLoaded registers every currently-loaded language file with w.
// A changed file is reloaded under its name; a deleted file removes
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
					s.notifier.NotifyReload(notify.DomainLanguage, name)
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
