package easyjson

import (
	"sync"

	"github.com/dshills/easyjson/config"
	"github.com/dshills/easyjson/document"
	"github.com/dshills/easyjson/lang"
	"github.com/dshills/easyjson/loader"
)

// Document is a loaded JSON-like tree of nested mappings.
type Document = document.Document

// Entry names one document and the file it is loaded from, for batch
// loads.
type Entry = loader.Entry

// Process-wide services. Constructed once with empty registries and no
// active language; the two registries never interact or share names.
var (
	mu    sync.RWMutex
	langs = lang.New()
	confs = config.New()
)

// Languages returns the process-wide language service, for callers
// that prefer passing an explicit instance.
func Languages() *lang.Service {
	mu.RLock()
	defer mu.RUnlock()
	return langs
}

// Configurations returns the process-wide configuration service.
func Configurations() *config.Service {
	mu.RLock()
	defer mu.RUnlock()
	return confs
}

// Reset replaces both process-wide services with fresh empty ones.
// Intended for tests.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	langs = lang.New()
	confs = config.New()
}

// LoadLanguage loads a language file under name, replacing any prior
// entry with that name.
func LoadLanguage(name, path string) error {
	return Languages().Load(name, path)
}

// LoadLanguages loads multiple language files in order, fail-fast.
func LoadLanguages(entries []Entry) error {
	return Languages().LoadAll(entries)
}

// AsyncLoadLanguage loads a language file in a goroutine; the buffered
// channel delivers the single result.
func AsyncLoadLanguage(name, path string) <-chan error {
	return Languages().AsyncLoad(name, path)
}

// AsyncLoadLanguages loads every language file concurrently and
// returns once all have completed, with failures joined.
func AsyncLoadLanguages(entries []Entry) error {
	return Languages().AsyncLoadAll(entries)
}

// SetLanguage sets the active language name. The name is not required
// to be loaded.
func SetLanguage(name string) {
	Languages().SetActive(name)
}

// CurrentLanguage returns the active language name, and false while
// unset.
func CurrentLanguage() (string, bool) {
	return Languages().Active()
}

// GetLanguage returns the document loaded as the language name.
func GetLanguage(name string) (Document, bool) {
	return Languages().Get(name)
}

// GetLanguages returns a snapshot of every loaded language.
func GetLanguages() map[string]Document {
	return Languages().All()
}

// RemoveLanguage deletes the named language. An absent name is a
// no-op.
func RemoveLanguage(name string) {
	Languages().Remove(name)
}

// RemoveLanguages removes each named language; unknown names are
// skipped.
func RemoveLanguages(names []string) {
	Languages().RemoveMany(names)
}

// RemoveAllLanguages removes every loaded language.
func RemoveAllLanguages() {
	Languages().Clear()
}

// TranslateMessage resolves a dot-separated key against the language
// named by the optional explicit name, or the active language
// otherwise. A missing language or key echoes the key back.
func TranslateMessage(key string, name ...string) string {
	return Languages().Translate(key, name...)
}

// LoadConfiguration loads a configuration file under name, replacing
// any prior entry with that name.
func LoadConfiguration(name, path string) error {
	return Configurations().Load(name, path)
}

// LoadConfigurations loads multiple configuration files in order,
// fail-fast.
func LoadConfigurations(entries []Entry) error {
	return Configurations().LoadAll(entries)
}

// AsyncLoadConfiguration loads a configuration file in a goroutine;
// the buffered channel delivers the single result.
func AsyncLoadConfiguration(name, path string) <-chan error {
	return Configurations().AsyncLoad(name, path)
}

// AsyncLoadConfigurations loads every configuration file concurrently
// and returns once all have completed, with failures joined.
func AsyncLoadConfigurations(entries []Entry) error {
	return Configurations().AsyncLoadAll(entries)
}

// GetConfigValue resolves a dot-separated path within the named
// configuration, defaulting to "default". An unknown name or
// unresolvable path yields false, never an error.
func GetConfigValue(path string, name ...string) (any, bool) {
	return Configurations().Value(path, name...)
}

// SetConfigValue assigns a value at a dot-separated path within the
// named configuration, defaulting to "default". A write against an
// unloaded name is reported as an error.
func SetConfigValue(path string, value any, name ...string) error {
	return Configurations().SetValue(path, value, name...)
}

// AsyncSetConfigValue performs SetConfigValue in a goroutine; the
// buffered channel delivers the single result.
func AsyncSetConfigValue(path string, value any, name ...string) <-chan error {
	return Configurations().AsyncSetValue(path, value, name...)
}

// GetConfiguration returns the document loaded as the configuration
// name.
func GetConfiguration(name string) (Document, bool) {
	return Configurations().Get(name)
}

// GetConfigurations returns a snapshot of every loaded configuration.
func GetConfigurations() map[string]Document {
	return Configurations().All()
}

// RemoveConfiguration deletes the named configuration. An absent name
// is a no-op.
func RemoveConfiguration(name string) {
	Configurations().Remove(name)
}

// RemoveAllConfigurations removes every loaded configuration.
func RemoveAllConfigurations() {
	Configurations().Clear()
}
