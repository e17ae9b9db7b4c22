// Package easyjson provides process-wide registries of named JSON
// documents with dotted-path access, in two parallel domains:
// languages (translation catalogs) and configurations.
//
// # Architecture
//
// Two structurally identical subsystems share one design:
//
//   - loader: decode file → document, synchronous and asynchronous,
//     single and batch
//   - registry: name → document store, one per domain
//   - document: dotted-path resolution and write-with-creation over
//     nested mappings
//   - lang: language registry plus the active language pointer used by
//     translation lookups
//   - config: configuration registry with the literal default name
//     "default" and explicit JSON export
//   - notify: change notification for loads, sets, removals, reloads
//   - watcher: fsnotify-based live reload of loaded files
//
// # Basic Usage
//
// Load a configuration and read values by dotted path:
//
//	if err := easyjson.LoadConfiguration("default", "config.json"); err != nil {
//	    return err
//	}
//
//	host, ok := easyjson.GetConfigValue("server.host")
//	if err := easyjson.SetConfigValue("server.port", 8080); err != nil {
//	    return err
//	}
//
// Load languages and translate messages, with the key echoed back when
// a translation is missing:
//
//	_ = easyjson.LoadLanguages([]easyjson.Entry{
//	    {Name: "en", Path: "locales/en.json"},
//	    {Name: "es", Path: "locales/es.json"},
//	})
//	easyjson.SetLanguage("en")
//
//	msg := easyjson.TranslateMessage("errors.notFound")
//
// # Batch Loading
//
// Synchronous batch loads run sequentially and fail fast: the first
// failure aborts the remaining loads. Asynchronous batch loads run
// every member concurrently, install every success, and join all
// failures into one error. The two policies are deliberately distinct.
//
// # Concurrency
//
// Each registry guards its name-to-document map, so loads, removals,
// and snapshots are atomic and concurrent asynchronous loads are safe.
// Documents themselves are mutated in place without locking; callers
// writing to one document from multiple goroutines must supply their
// own mutual exclusion. No load operation supports cancellation or
// timeout.
package easyjson
