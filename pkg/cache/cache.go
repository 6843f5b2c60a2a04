// Package cache provides pluggable caching for the generation pipeline.
//
// The pipeline caches three kinds of data:
//   - Schemas: API descriptions fetched from the installed driver
//   - Generated source: emitted Go files keyed by schema hash and options
//   - Graph artifacts: DOT/SVG renderings of the API reference graph
//
// Backends:
//   - file: Directory-backed cache for CLI usage (default)
//   - redis: Shared cache for CI fleets regenerating against many driver builds
//   - null: Disabled caching
//
// Keys are produced by a [Keyer] so that file and Redis backends agree on
// the key layout, and so multiple driver versions can share one backend
// without collisions (see [ScopedKeyer]).
package cache

import (
	"context"
	"time"
)

// TTLs for the different cache entry kinds.
const (
	// TTLSchema bounds how long a driver's self-reported API description is
	// trusted without re-asking the driver.
	TTLSchema = 24 * time.Hour

	// TTLGenerated applies to emitted source bundles. Keys embed the schema
	// hash, so entries never go stale; the TTL only bounds disk usage.
	TTLGenerated = 0

	// TTLArtifact applies to rendered graph artifacts.
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache is the backend interface for pipeline caching.
//
// Get returns (data, true, nil) on a hit and (nil, false, nil) on a miss.
// Errors are reserved for backend failures (I/O, connection loss); a corrupt
// or expired entry is reported as a miss.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// SchemaKeyOpts parameterizes schema cache keys.
type SchemaKeyOpts struct {
	// DriverVersion is the installed driver release the schema came from.
	DriverVersion string
}

// GenKeyOpts parameterizes generated-source cache keys.
type GenKeyOpts struct {
	// ConfigHash is the hash of the generator config (type overrides, skips).
	ConfigHash string
	// Package is the Go package name of the emitted files.
	Package string
}

// GraphKeyOpts parameterizes graph artifact cache keys.
type GraphKeyOpts struct {
	// Format is the artifact format ("dot" or "svg").
	Format string
	// Detailed is whether node labels carry member counts.
	Detailed bool
}

// Keyer generates cache keys for the pipeline stages.
type Keyer interface {
	// SchemaKey generates a key for a cached API description.
	SchemaKey(source string, opts SchemaKeyOpts) string

	// GenKey generates a key for an emitted source bundle.
	GenKey(schemaHash string, opts GenKeyOpts) string

	// GraphKey generates a key for a rendered graph artifact.
	GraphKey(schemaHash string, opts GraphKeyOpts) string
}

// DefaultKeyer is the standard key generator.
// Keys are "kind:sha256(parts)" so they are safe for both file names
// (after backend hashing) and Redis keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// SchemaKey generates a key for a cached API description.
func (k *DefaultKeyer) SchemaKey(source string, opts SchemaKeyOpts) string {
	return hashKey("schema", source, opts.DriverVersion)
}

// GenKey generates a key for an emitted source bundle.
func (k *DefaultKeyer) GenKey(schemaHash string, opts GenKeyOpts) string {
	return hashKey("gen", schemaHash, opts.ConfigHash, opts.Package)
}

// GraphKey generates a key for a rendered graph artifact.
func (k *DefaultKeyer) GraphKey(schemaHash string, opts GraphKeyOpts) string {
	return hashKey("graph", schemaHash, opts.Format, opts.Detailed)
}

// Ensure DefaultKeyer implements Keyer.
var _ Keyer = (*DefaultKeyer)(nil)
