package cli

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/microsoft/playwright-go-sub009/pkg/errors"
	"github.com/microsoft/playwright-go-sub009/pkg/pipeline"
)

func TestWriteFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "generated")
	files := map[string][]byte{
		"page.go":    []byte("package generated\n"),
		"browser.go": []byte("package generated\n"),
	}

	if err := writeFiles(dir, files); err != nil {
		t.Fatalf("writeFiles() error: %v", err)
	}
	for name, want := range files {
		got, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		if string(got) != string(want) {
			t.Errorf("%s content = %q, want %q", name, got, want)
		}
	}
}

func TestSortedFileNames(t *testing.T) {
	files := map[string][]byte{
		"page.go":    nil,
		"browser.go": nil,
		"locator.go": nil,
	}
	got := sortedFileNames(files)
	want := []string{"browser.go", "locator.go", "page.go"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("sortedFileNames() = %v, want %v", got, want)
	}
}

func TestRunGenerate_RejectsBadOutput(t *testing.T) {
	c := testCLI()

	for _, output := range []string{"", "../escape", "a/../../b"} {
		err := c.runGenerate(t.Context(), pipeline.Options{}, output, true)
		if errors.GetCode(err) != errors.ErrCodeInvalidPath {
			t.Errorf("runGenerate(output=%q) error = %v, want ErrCodeInvalidPath", output, err)
		}
	}
}

func TestLoadGenConfig(t *testing.T) {
	cfg, err := loadGenConfig("")
	if err != nil {
		t.Fatalf("loadGenConfig(\"\") error: %v", err)
	}
	if cfg.Package == "" {
		t.Error("default config has no package name")
	}

	path := filepath.Join(t.TempDir(), "gen.toml")
	content := "package = \"pw\"\nskip = [\"Android\"]\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err = loadGenConfig(path)
	if err != nil {
		t.Fatalf("loadGenConfig() error: %v", err)
	}
	if cfg.Package != "pw" {
		t.Errorf("Package = %q, want pw", cfg.Package)
	}
	if len(cfg.Skip) != 1 || cfg.Skip[0] != "Android" {
		t.Errorf("Skip = %v, want [Android]", cfg.Skip)
	}

	if _, err := loadGenConfig(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("loadGenConfig(missing) returned nil error")
	}
}
