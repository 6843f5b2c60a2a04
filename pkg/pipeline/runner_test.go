package pipeline

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/microsoft/playwright-go-sub009/pkg/cache"
	"github.com/microsoft/playwright-go-sub009/pkg/errors"
	"github.com/microsoft/playwright-go-sub009/pkg/gen"
)

func fixtureJSON(t *testing.T) []byte {
	t.Helper()
	data, err := os.ReadFile("../api/testdata/api.json")
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	return data
}

// testRunner builds a Runner backed by a file cache and a fixture API
// source that counts invocations.
func testRunner(t *testing.T) (*Runner, *atomic.Int32) {
	t.Helper()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("file cache: %v", err)
	}
	t.Cleanup(func() { c.Close() })

	var calls atomic.Int32
	fixture := fixtureJSON(t)
	r := NewRunner(c, nil, log.New(io.Discard))
	r.APISource = func(ctx context.Context, version string) ([]byte, error) {
		calls.Add(1)
		return fixture, nil
	}
	return r, &calls
}

func TestExecute(t *testing.T) {
	r, calls := testRunner(t)

	result, err := r.Execute(t.Context(), Options{})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if result.Stats.InterfaceCount != 3 {
		t.Errorf("InterfaceCount = %d, want 3", result.Stats.InterfaceCount)
	}
	if result.Stats.FileCount != 3 {
		t.Errorf("FileCount = %d, want 3", result.Stats.FileCount)
	}
	if result.SchemaHash == "" {
		t.Error("SchemaHash is empty")
	}
	if result.CacheInfo.SchemaHit || result.CacheInfo.GenHit {
		t.Error("first run reported cache hits")
	}
	if !strings.Contains(string(result.Files["page.go"]), "type Page interface") {
		t.Error("page.go missing generated interface")
	}
	if calls.Load() != 1 {
		t.Errorf("api source called %d times, want 1", calls.Load())
	}
}

func TestExecute_CacheHits(t *testing.T) {
	r, calls := testRunner(t)

	first, err := r.Execute(t.Context(), Options{})
	if err != nil {
		t.Fatalf("first Execute() error: %v", err)
	}
	second, err := r.Execute(t.Context(), Options{})
	if err != nil {
		t.Fatalf("second Execute() error: %v", err)
	}
	if !second.CacheInfo.SchemaHit || !second.CacheInfo.GenHit {
		t.Errorf("second run CacheInfo = %+v, want both hits", second.CacheInfo)
	}
	if calls.Load() != 1 {
		t.Errorf("api source called %d times, want cache to absorb the second run", calls.Load())
	}
	if second.SchemaHash != first.SchemaHash {
		t.Error("schema hash changed between runs")
	}
	for name, src := range first.Files {
		if string(second.Files[name]) != string(src) {
			t.Errorf("%s differs between cached and fresh runs", name)
		}
	}
}

func TestExecute_Refresh(t *testing.T) {
	r, calls := testRunner(t)

	if _, err := r.Execute(t.Context(), Options{}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	result, err := r.Execute(t.Context(), Options{Refresh: true})
	if err != nil {
		t.Fatalf("Execute(refresh) error: %v", err)
	}
	if result.CacheInfo.SchemaHit || result.CacheInfo.GenHit {
		t.Error("refresh run reported cache hits")
	}
	if calls.Load() != 2 {
		t.Errorf("api source called %d times, want refresh to bypass the cache", calls.Load())
	}
}

func TestExecute_FileSource(t *testing.T) {
	r, calls := testRunner(t)

	path := filepath.Join(t.TempDir(), "api.json")
	if err := os.WriteFile(path, fixtureJSON(t), 0o644); err != nil {
		t.Fatal(err)
	}

	result, err := r.Execute(t.Context(), Options{Source: path})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if result.Stats.InterfaceCount != 3 {
		t.Errorf("InterfaceCount = %d, want 3", result.Stats.InterfaceCount)
	}
	if calls.Load() != 0 {
		t.Error("file source still invoked the driver")
	}

	_, err = r.Execute(t.Context(), Options{Source: filepath.Join(t.TempDir(), "missing.json")})
	if errors.GetCode(err) != errors.ErrCodeFileNotFound {
		t.Errorf("Execute(missing) error = %v, want ErrCodeFileNotFound", err)
	}
}

func TestExecute_ConfigChangesKey(t *testing.T) {
	r, _ := testRunner(t)

	first, err := r.Execute(t.Context(), Options{})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	cfg := gen.DefaultConfig()
	cfg.Skip = []string{"Locator"}
	second, err := r.Execute(t.Context(), Options{Config: cfg})
	if err != nil {
		t.Fatalf("Execute(skip) error: %v", err)
	}
	if second.CacheInfo.GenHit {
		t.Error("changed config was served from the old cache entry")
	}
	if len(second.Files) >= len(first.Files) {
		t.Errorf("skip config emitted %d files, want fewer than %d", len(second.Files), len(first.Files))
	}
}

func TestExecute_InvalidVersion(t *testing.T) {
	r, _ := testRunner(t)
	_, err := r.Execute(t.Context(), Options{DriverVersion: "nope"})
	if errors.GetCode(err) != errors.ErrCodeInvalidVersion {
		t.Errorf("Execute() error = %v, want ErrCodeInvalidVersion", err)
	}
}

func TestGraph(t *testing.T) {
	r, _ := testRunner(t)

	result, err := r.Execute(t.Context(), Options{})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}

	dot, hit, err := r.GraphWithCacheInfo(t.Context(), result.Schema, result.SchemaHash, Options{}, FormatDOT, gen.GraphOptions{})
	if err != nil {
		t.Fatalf("Graph() error: %v", err)
	}
	if hit {
		t.Error("first graph render reported a cache hit")
	}
	if !strings.Contains(string(dot), `"Browser" -> "Page"`) {
		t.Error("DOT artifact missing reference edge")
	}

	_, hit, err = r.GraphWithCacheInfo(t.Context(), result.Schema, result.SchemaHash, Options{}, FormatDOT, gen.GraphOptions{})
	if err != nil {
		t.Fatalf("second Graph() error: %v", err)
	}
	if !hit {
		t.Error("second graph render missed the cache")
	}

	_, _, err = r.GraphWithCacheInfo(t.Context(), result.Schema, result.SchemaHash, Options{}, "png", gen.GraphOptions{})
	if errors.GetCode(err) != errors.ErrCodeInvalidFormat {
		t.Errorf("Graph(png) error = %v, want ErrCodeInvalidFormat", err)
	}
}
