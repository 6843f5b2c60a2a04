package pipeline

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/microsoft/playwright-go-sub009/pkg/api"
	"github.com/microsoft/playwright-go-sub009/pkg/cache"
	"github.com/microsoft/playwright-go-sub009/pkg/driver"
	"github.com/microsoft/playwright-go-sub009/pkg/errors"
	"github.com/microsoft/playwright-go-sub009/pkg/gen"
	"github.com/microsoft/playwright-go-sub009/pkg/observability"
)

// Runner executes the generation pipeline with caching.
//
// The Runner is stateless except for the cache and logger; it does not
// store results. Multiple goroutines can safely share one Runner.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// APISource obtains the raw API description for a driver version.
	// Defaults to running the installed driver's print-api-json; tests
	// substitute a fixture.
	APISource func(ctx context.Context, version string) ([]byte, error)
}

// NewRunner creates a runner with the given cache and keyer.
// Nil arguments fall back to a null cache, the default keyer, and the
// default logger.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:     c,
		Keyer:     keyer,
		Logger:    logger,
		APISource: driverAPISource(logger),
	}
}

func driverAPISource(logger *log.Logger) func(ctx context.Context, version string) ([]byte, error) {
	return func(ctx context.Context, version string) ([]byte, error) {
		d, err := driver.New(version, logger)
		if err != nil {
			return nil, err
		}
		if err := d.Ensure(ctx, driver.NewDownloader(logger)); err != nil {
			return nil, err
		}
		return d.PrintAPIJSON(ctx)
	}
}

// Execute runs the complete load → build → emit pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{}

	loadStart := time.Now()
	schema, raw, schemaHit, err := r.LoadWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, err
	}
	result.Schema = schema
	result.SchemaHash = cache.Hash(raw)
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.InterfaceCount = len(schema.Interfaces)
	result.CacheInfo.SchemaHit = schemaHit

	r.Logger.Info("loaded api description",
		"source", opts.Source,
		"interfaces", len(schema.Interfaces),
		"cached", schemaHit,
		"duration", result.Stats.LoadTime)

	emitStart := time.Now()
	files, genHit, err := r.GenerateWithCacheInfo(ctx, schema, result.SchemaHash, opts)
	if err != nil {
		return nil, err
	}
	result.Files = files
	result.Stats.BuildEmitTime = time.Since(emitStart)
	result.Stats.FileCount = len(files)
	result.CacheInfo.GenHit = genHit

	r.Logger.Info("generated sources",
		"package", opts.Config.Package,
		"files", len(files),
		"cached", genHit,
		"duration", result.Stats.BuildEmitTime)

	return result, nil
}

// LoadWithCacheInfo obtains and parses the API description, returning the
// schema, its raw bytes, and whether the cache served them. Driver-sourced
// descriptions are cached per version; file sources are read directly.
func (r *Runner) LoadWithCacheInfo(ctx context.Context, opts Options) (*api.Schema, []byte, bool, error) {
	observability.Generate().OnLoadStart(ctx, opts.Source)
	start := time.Now()

	schema, raw, hit, err := r.load(ctx, opts)

	count := 0
	if schema != nil {
		count = len(schema.Interfaces)
	}
	observability.Generate().OnLoadComplete(ctx, opts.Source, count, time.Since(start), err)
	return schema, raw, hit, err
}

func (r *Runner) load(ctx context.Context, opts Options) (*api.Schema, []byte, bool, error) {
	if opts.Source != SourceDriver {
		raw, err := os.ReadFile(opts.Source)
		if err != nil {
			return nil, nil, false, errors.Wrap(errors.ErrCodeFileNotFound, err, "read api description %s", opts.Source)
		}
		schema, err := api.Parse(raw)
		if err != nil {
			return nil, nil, false, err
		}
		return schema, raw, false, nil
	}

	key := r.Keyer.SchemaKey(opts.Source, cache.SchemaKeyOpts{DriverVersion: opts.DriverVersion})
	if !opts.Refresh {
		if raw, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			if schema, err := api.Parse(raw); err == nil {
				observability.Cache().OnCacheHit(ctx, "schema")
				return schema, raw, true, nil
			}
		}
	}
	observability.Cache().OnCacheMiss(ctx, "schema")

	raw, err := r.APISource(ctx, opts.DriverVersion)
	if err != nil {
		return nil, nil, false, err
	}
	schema, err := api.Parse(raw)
	if err != nil {
		return nil, nil, false, err
	}
	if err := r.Cache.Set(ctx, key, raw, cache.TTLSchema); err == nil {
		observability.Cache().OnCacheSet(ctx, "schema", len(raw))
	}
	return schema, raw, false, nil
}

// GenerateWithCacheInfo builds and emits the generated sources, returning
// the file map and whether the cache served it. The cache key covers the
// schema content and the generator config, so entries never go stale.
func (r *Runner) GenerateWithCacheInfo(ctx context.Context, schema *api.Schema, schemaHash string, opts Options) (map[string][]byte, bool, error) {
	key := r.Keyer.GenKey(schemaHash, cache.GenKeyOpts{
		ConfigHash: opts.Config.Hash(),
		Package:    opts.Config.Package,
	})
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			var files map[string][]byte
			if err := json.Unmarshal(data, &files); err == nil {
				observability.Cache().OnCacheHit(ctx, "gen")
				return files, true, nil
			}
		}
	}
	observability.Cache().OnCacheMiss(ctx, "gen")

	files, err := r.generate(ctx, schema, opts)
	if err != nil {
		return nil, false, err
	}

	if data, err := json.Marshal(files); err == nil {
		if err := r.Cache.Set(ctx, key, data, cache.TTLGenerated); err == nil {
			observability.Cache().OnCacheSet(ctx, "gen", len(data))
		}
	}
	return files, false, nil
}

func (r *Runner) generate(ctx context.Context, schema *api.Schema, opts Options) (map[string][]byte, error) {
	observability.Generate().OnBuildStart(ctx, len(schema.Interfaces))
	buildStart := time.Now()
	defs, err := gen.New(schema, opts.Config).Build()
	observability.Generate().OnBuildComplete(ctx, time.Since(buildStart), err)
	if err != nil {
		return nil, err
	}

	observability.Generate().OnEmitStart(ctx, opts.Config.Package)
	emitStart := time.Now()
	files, err := gen.Emit(defs, opts.Config)
	observability.Generate().OnEmitComplete(ctx, opts.Config.Package, len(files), time.Since(emitStart), err)
	return files, err
}

// GraphWithCacheInfo renders the API reference graph in format, cached per
// schema content.
func (r *Runner) GraphWithCacheInfo(ctx context.Context, schema *api.Schema, schemaHash string, opts Options, format string, graphOpts gen.GraphOptions) ([]byte, bool, error) {
	if err := ValidateFormat(format); err != nil {
		return nil, false, err
	}

	key := r.Keyer.GraphKey(schemaHash, cache.GraphKeyOpts{Format: format, Detailed: graphOpts.Detailed})
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			observability.Cache().OnCacheHit(ctx, "graph")
			return data, true, nil
		}
	}
	observability.Cache().OnCacheMiss(ctx, "graph")

	dot := gen.ToDOT(schema, graphOpts)
	var artifact []byte
	if format == FormatDOT {
		artifact = []byte(dot)
	} else {
		svg, err := gen.RenderSVG(ctx, dot)
		if err != nil {
			return nil, false, err
		}
		artifact = svg
	}

	if err := r.Cache.Set(ctx, key, artifact, cache.TTLArtifact); err == nil {
		observability.Cache().OnCacheSet(ctx, "graph", len(artifact))
	}
	return artifact, false, nil
}
