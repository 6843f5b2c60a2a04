package driver

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/microsoft/playwright-go-sub009/pkg/buildinfo"
	"github.com/microsoft/playwright-go-sub009/pkg/errors"
)

func TestNew_DefaultVersion(t *testing.T) {
	d, err := New("", testLogger())
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if d.Version != buildinfo.DriverVersion {
		t.Errorf("Version = %q, want pinned default %q", d.Version, buildinfo.DriverVersion)
	}
	if !strings.Contains(d.Dir, filepath.Join("playwright-go", "driver", d.Version)) {
		t.Errorf("Dir = %q, want managed cache path", d.Dir)
	}
}

func TestNew_InvalidVersion(t *testing.T) {
	_, err := New("not a version", testLogger())
	if errors.GetCode(err) != errors.ErrCodeInvalidVersion {
		t.Errorf("New() error = %v, want ErrCodeInvalidVersion", err)
	}
}

func TestNew_PathOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(EnvDriverPath, dir)
	d, err := New("1.45.0", testLogger())
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if d.Dir != dir {
		t.Errorf("Dir = %q, want env override %q", d.Dir, dir)
	}
}

func installFakeDriver(t *testing.T, dir string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Join(dir, "package"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "node"), []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "package", "cli.js"), []byte("// cli\n"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestDriver_Installed(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(EnvDriverPath, dir)
	d, err := New("1.45.0", testLogger())
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	if d.Installed() {
		t.Error("Installed() = true for empty dir")
	}
	installFakeDriver(t, dir)
	if !d.Installed() {
		t.Error("Installed() = false with bundle present")
	}
}

func TestDriver_EnsureSkipDownload(t *testing.T) {
	t.Setenv(EnvDriverPath, t.TempDir())
	t.Setenv(EnvSkipDownload, "1")
	d, err := New("1.45.0", testLogger())
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	err = d.Ensure(t.Context(), NewDownloader(testLogger()))
	if errors.GetCode(err) != errors.ErrCodeDriverNotFound {
		t.Errorf("Ensure() error = %v, want ErrCodeDriverNotFound", err)
	}
}

func TestDriver_EnsureAlreadyInstalled(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(EnvDriverPath, dir)
	installFakeDriver(t, dir)
	d, err := New("1.45.0", testLogger())
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	// No downloader calls expected; nil would panic if one were made.
	if err := d.Ensure(t.Context(), nil); err != nil {
		t.Errorf("Ensure() error: %v", err)
	}
}

func TestDriver_Uninstall(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(EnvDriverPath, dir)
	installFakeDriver(t, dir)
	d, err := New("1.45.0", testLogger())
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if err := d.Uninstall(); err != nil {
		t.Fatalf("Uninstall() error: %v", err)
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Error("driver dir still present after Uninstall()")
	}
}

func TestDriver_Command(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(EnvDriverPath, dir)
	d, err := New("1.45.0", testLogger())
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	cmd := d.Command(t.Context(), "print-api-json")
	if len(cmd.Args) != 3 {
		t.Fatalf("Command args = %v, want [node cli.js print-api-json]", cmd.Args)
	}
	if !strings.HasSuffix(cmd.Args[1], filepath.Join("package", "cli.js")) {
		t.Errorf("Command script = %q, want package/cli.js", cmd.Args[1])
	}
	if cmd.Args[2] != "print-api-json" {
		t.Errorf("Command subcommand = %q, want print-api-json", cmd.Args[2])
	}
	var hasLang bool
	for _, env := range cmd.Env {
		if env == "PW_LANG_NAME=go" {
			hasLang = true
		}
	}
	if !hasLang {
		t.Error("Command env missing PW_LANG_NAME=go")
	}
}
