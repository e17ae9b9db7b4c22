// Package loader reads documents from files and installs them into a
// registry.
//
// The loader treats decoding as a single opaque step: read the file,
// decode it by format, install the resulting document under a name.
// Synchronous batch loads are sequential and fail-fast; asynchronous
// batch loads run every member concurrently and report all failures
// together. No load operation supports cancellation or timeout;
// callers needing a bounded wait impose it around the AsyncLoad
// channel.
package loader

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"

	"github.com/dshills/easyjson/registry"
)

// Entry names one document and the file it is loaded from.
type Entry struct {
	Name string
	Path string
}

// LoadError reports a failed load, identifying the file and the
// underlying cause.
type LoadError struct {
	Path string
	Err  error
}

// Error implements the error interface.
func (e *LoadError) Error() string {
	return fmt.Sprintf("loading %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *LoadError) Unwrap() error {
	return e.Err
}

// FileSystem is an abstraction for file system reads, allowing
// in-memory doubles in tests.
type FileSystem interface {
	fs.FS
	// ReadFile reads the entire file at path.
	ReadFile(path string) ([]byte, error)
}

// OSFS implements FileSystem using the real OS file system.
type OSFS struct{}

// Open implements fs.FS.
func (OSFS) Open(name string) (fs.File, error) {
	return os.Open(name)
}

// ReadFile reads the entire file at path.
func (OSFS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// Loader decodes files into documents and installs them into a
// registry.
type Loader struct {
	fs FileSystem
}

// New creates a loader backed by the OS file system.
func New() *Loader {
	return &Loader{fs: OSFS{}}
}

// NewWithFS creates a loader with a custom file system.
func NewWithFS(fsys FileSystem) *Loader {
	return &Loader{fs: fsys}
}

// Load decodes the file at path and installs the document into reg
// under name. Nothing is installed on failure.
func (l *Loader) Load(reg *registry.Registry, name, path string) error {
	data, err := l.fs.ReadFile(path)
	if err != nil {
		return &LoadError{Path: path, Err: err}
	}

	doc, err := decode(DetectFormat(path), data)
	if err != nil {
		return &LoadError{Path: path, Err: err}
	}

	reg.Load(name, doc)
	return nil
}

// LoadAll loads each entry in order. The policy is fail-fast: the
// first failure aborts remaining loads and is returned; entries loaded
// before the failure stay installed.
func (l *Loader) LoadAll(reg *registry.Registry, entries []Entry) error {
	for _, e := range entries {
		if err := l.Load(reg, e.Name, e.Path); err != nil {
			return err
		}
	}
	return nil
}

// AsyncLoad performs Load in a goroutine. The returned channel is
// buffered and delivers the single result; callers may run many
// AsyncLoad operations concurrently.
func (l *Loader) AsyncLoad(reg *registry.Registry, name, path string) <-chan error {
	result := make(chan error, 1)
	go func() {
		result <- l.Load(reg, name, path)
	}()
	return result
}

// AsyncLoadAll launches every member load concurrently and returns
// once all have completed. A member failure does not stop the others;
// every success is installed, and all failures are joined into the
// returned error. This deliberately differs from the sequential
// fail-fast policy of LoadAll.
func (l *Loader) AsyncLoadAll(reg *registry.Registry, entries []Entry) error {
	errs := make([]error, len(entries))

	var wg sync.WaitGroup
	for i, e := range entries {
		wg.Add(1)
		go func(i int, e Entry) {
			defer wg.Done()
			errs[i] = l.Load(reg, e.Name, e.Path)
		}(i, e)
	}
	wg.Wait()

	return errors.Join(errs...)
}
