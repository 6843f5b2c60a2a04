package cli

import (
	"io"
	"path/filepath"
	"testing"
)

func testCLI() *CLI {
	return New(io.Discard, LogInfo)
}

func TestRootCommand(t *testing.T) {
	root := testCLI().RootCommand()

	if root.Use != "playwright" {
		t.Errorf("Use = %q, want playwright", root.Use)
	}

	want := []string{"install", "uninstall", "generate", "api-json", "graph", "serve", "cache", "completion"}
	for _, name := range want {
		found := false
		for _, cmd := range root.Commands() {
			if cmd.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("root command missing subcommand %q", name)
		}
	}
}

func TestGenerateFlags(t *testing.T) {
	root := testCLI().RootCommand()

	for _, cmd := range root.Commands() {
		if cmd.Name() != "generate" {
			continue
		}
		for _, flag := range []string{"source", "output", "package", "config", "driver-version", "refresh", "no-cache"} {
			if cmd.Flags().Lookup(flag) == nil {
				t.Errorf("generate missing flag --%s", flag)
			}
		}
		return
	}
	t.Fatal("generate command not registered")
}

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	if filepath.Base(dir) != appName {
		t.Errorf("cacheDir() = %q, want it to end in %q", dir, appName)
	}
}

func TestNewCache_Disabled(t *testing.T) {
	store, err := newCache(t.Context(), true)
	if err != nil {
		t.Fatalf("newCache() error: %v", err)
	}
	defer store.Close()

	// Null cache never stores anything.
	if err := store.Set(t.Context(), "k", []byte("v"), 0); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	if _, hit, _ := store.Get(t.Context(), "k"); hit {
		t.Error("disabled cache returned a hit")
	}
}

func TestNewCache_FileBacked(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	t.Setenv(envRedisAddr, "")

	store, err := newCache(t.Context(), false)
	if err != nil {
		t.Fatalf("newCache() error: %v", err)
	}
	defer store.Close()

	if err := store.Set(t.Context(), "k", []byte("v"), 0); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	data, hit, err := store.Get(t.Context(), "k")
	if err != nil || !hit {
		t.Fatalf("Get() = %v, hit=%v", err, hit)
	}
	if string(data) != "v" {
		t.Errorf("Get() = %q, want v", data)
	}
}
