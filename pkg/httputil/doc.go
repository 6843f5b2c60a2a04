// Package httputil provides HTTP utilities for the driver CDN client.
//
// # Overview
//
// This package provides infrastructure used when talking to the driver's
// release CDN:
//
//   - [Cache]: File-based HTTP response caching
//   - [Retry]: Automatic retry with exponential backoff
//
// # Caching
//
// [Cache] stores HTTP responses in the filesystem (~/.cache/playwright-go/)
// with configurable TTL. This avoids re-fetching release metadata on every
// install or generate run.
//
// Usage:
//
//	cache, err := httputil.NewCache("", 24*time.Hour)
//	ok, _ := cache.Get("cdn:releases", &releases)
//	if !ok {
//	    releases = fetchFromCDN()
//	    _ = cache.Set("cdn:releases", releases)
//	}
//
// Cache keys should be namespaced by source to avoid collisions.
//
// # Retry
//
// [Retry] wraps operations with automatic retry for transient failures:
//
//   - Network errors
//   - 5xx server errors
//
// Only errors wrapped with [RetryableError] are retried; everything else is
// surfaced immediately. The delay doubles after each failed attempt.
//
// # Configuration
//
// Default settings are suitable for most use cases:
//
//   - Cache directory: ~/.cache/playwright-go/
//   - Max retries: 3
//   - Base backoff: 1 second
//
// The cache can be cleared via `playwright cache clear` or by deleting
// the cache directory.
package httputil
