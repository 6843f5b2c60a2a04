// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about generation runs, cache operations, and driver
// lifecycle.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// This approach:
//   - Avoids import cycles (hooks are registered by main, not by libraries)
//   - Keeps the core library dependency-free from observability frameworks
//   - Allows different backends (OpenTelemetry, Prometheus, DataDog, etc.)
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetGenerateHooks(&myGenerateHooks{})
//	    observability.SetCacheHooks(&myCacheHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Generate().OnLoadStart(ctx, source)
//	// ... load the schema ...
//	observability.Generate().OnLoadComplete(ctx, source, interfaceCount, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Generate Hooks
// =============================================================================

// GenerateHooks receives events from the generation pipeline.
type GenerateHooks interface {
	// Load events
	OnLoadStart(ctx context.Context, source string)
	OnLoadComplete(ctx context.Context, source string, interfaceCount int, duration time.Duration, err error)

	// Build events
	OnBuildStart(ctx context.Context, interfaceCount int)
	OnBuildComplete(ctx context.Context, duration time.Duration, err error)

	// Emit events
	OnEmitStart(ctx context.Context, pkg string)
	OnEmitComplete(ctx context.Context, pkg string, fileCount int, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// Driver Hooks
// =============================================================================

// DriverHooks receives events from driver lifecycle operations.
type DriverHooks interface {
	// OnDownloadStart records the start of a driver bundle download.
	OnDownloadStart(ctx context.Context, version, platform string)

	// OnDownloadComplete records the outcome of a driver bundle download.
	OnDownloadComplete(ctx context.Context, version, platform string, duration time.Duration, err error)

	// OnDriverStart records a driver process spawn.
	OnDriverStart(ctx context.Context, version, sessionID string)

	// OnDriverStop records a driver process shutdown.
	OnDriverStop(ctx context.Context, version, sessionID string, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopGenerateHooks is a no-op implementation of GenerateHooks.
type NoopGenerateHooks struct{}

func (NoopGenerateHooks) OnLoadStart(context.Context, string)                                 {}
func (NoopGenerateHooks) OnLoadComplete(context.Context, string, int, time.Duration, error)   {}
func (NoopGenerateHooks) OnBuildStart(context.Context, int)                                   {}
func (NoopGenerateHooks) OnBuildComplete(context.Context, time.Duration, error)               {}
func (NoopGenerateHooks) OnEmitStart(context.Context, string)                                 {}
func (NoopGenerateHooks) OnEmitComplete(context.Context, string, int, time.Duration, error)   {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopDriverHooks is a no-op implementation of DriverHooks.
type NoopDriverHooks struct{}

func (NoopDriverHooks) OnDownloadStart(context.Context, string, string)                        {}
func (NoopDriverHooks) OnDownloadComplete(context.Context, string, string, time.Duration, error) {
}
func (NoopDriverHooks) OnDriverStart(context.Context, string, string)       {}
func (NoopDriverHooks) OnDriverStop(context.Context, string, string, error) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	generateHooks GenerateHooks = NoopGenerateHooks{}
	cacheHooks    CacheHooks    = NoopCacheHooks{}
	driverHooks   DriverHooks   = NoopDriverHooks{}
	hooksMu       sync.RWMutex
)

// SetGenerateHooks registers custom generation hooks.
// This should be called once at application startup before any generation runs.
func SetGenerateHooks(h GenerateHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		generateHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetDriverHooks registers custom driver hooks.
// This should be called once at application startup before any driver operations.
func SetDriverHooks(h DriverHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		driverHooks = h
	}
}

// Generate returns the registered generation hooks.
func Generate() GenerateHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return generateHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Driver returns the registered driver hooks.
func Driver() DriverHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return driverHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	generateHooks = NoopGenerateHooks{}
	cacheHooks = NoopCacheHooks{}
	driverHooks = NoopDriverHooks{}
}
