// Package pipeline provides the generation pipeline: load the API
// description, build the output object graph, and emit Go source.
//
// This package centralizes the load → build → emit flow so the CLI and the
// serve endpoint behave identically, including caching. Each stage can run
// independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Source: pipeline.SourceDriver,
//	    Config: gen.DefaultConfig(),
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for name, src := range result.Files {
//	    // write src to disk
//	}
package pipeline

import (
	"time"

	"github.com/microsoft/playwright-go-sub009/pkg/api"
	"github.com/microsoft/playwright-go-sub009/pkg/buildinfo"
	"github.com/microsoft/playwright-go-sub009/pkg/errors"
	"github.com/microsoft/playwright-go-sub009/pkg/gen"
)

// SourceDriver asks the pipeline to obtain the API description from the
// installed driver's print-api-json subcommand. Any other Source value is
// treated as a file path.
const SourceDriver = "driver"

// Graph artifact formats.
const (
	FormatDOT = "dot"
	FormatSVG = "svg"
)

// ValidFormats is the set of supported graph artifact formats.
var ValidFormats = map[string]bool{
	FormatDOT: true,
	FormatSVG: true,
}

// Options configures a pipeline run.
type Options struct {
	// Source is SourceDriver or a path to an api.json file.
	Source string

	// DriverVersion selects the driver release when Source is SourceDriver.
	// Empty means the pinned default.
	DriverVersion string

	// Config is the generator configuration.
	Config gen.Config

	// Refresh bypasses the cache for every stage.
	Refresh bool
}

// ValidateAndSetDefaults fills unset options and rejects invalid ones.
func (o *Options) ValidateAndSetDefaults() error {
	if o.Source == "" {
		o.Source = SourceDriver
	}
	if o.DriverVersion == "" {
		o.DriverVersion = buildinfo.DriverVersion
	}
	if err := errors.ValidateDriverVersion(o.DriverVersion); err != nil {
		return err
	}
	if o.Config.Package == "" {
		o.Config.Package = gen.DefaultConfig().Package
	}
	return nil
}

// ValidateFormat rejects unknown graph artifact formats.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "unknown format %q (valid: dot, svg)", format)
	}
	return nil
}

// Result is the outcome of a complete pipeline run.
type Result struct {
	// Schema is the loaded API description.
	Schema *api.Schema

	// SchemaHash is the content hash of the schema, used in cache keys.
	SchemaHash string

	// Files maps emitted file names to formatted Go source.
	Files map[string][]byte

	// Stats reports per-stage timings and sizes.
	Stats Stats

	// CacheInfo reports which stages were served from cache.
	CacheInfo CacheInfo
}

// Stats holds per-stage metrics for a pipeline run.
type Stats struct {
	LoadTime       time.Duration
	BuildEmitTime  time.Duration
	InterfaceCount int
	FileCount      int
}

// CacheInfo reports cache hits per stage.
type CacheInfo struct {
	SchemaHit bool
	GenHit    bool
}
