// Package logging provides a minimal logging interface and adapters for
// artiload.
//
// The Logger interface defines the standard logging methods (Debug, Info,
// Warn, Error) that loaders use for observability. This package includes:
//
//   - Logger interface for dependency injection
//   - SlogAdapter wrapping Go's structured logging
//   - NoOpLogger for silent operation (testing, minimal setups)
//   - LoaderLogger with contextual helpers and loader-domain logging methods
//
// Usage:
//
//	logger := logging.NewLoaderLogger(logging.LogLevelDebug, "json", false)
//	l := loader.New(activator, func(o *loader.Options) { o.Logger = logger })
//
// The design intentionally keeps the interface minimal to avoid vendor
// lock-in while supporting structured logging where available. Loaders
// default to the NoOp logger so the library emits nothing unless configured.
package logging
