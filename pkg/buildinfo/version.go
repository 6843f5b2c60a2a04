// Package buildinfo provides build-time version information.
//
// Variables are set via ldflags during build:
//
//	go build -ldflags "-X github.com/microsoft/playwright-go-sub009/pkg/buildinfo.Version=v1.0.0 \
//	    -X github.com/microsoft/playwright-go-sub009/pkg/buildinfo.Commit=$(git rev-parse HEAD) \
//	    -X github.com/microsoft/playwright-go-sub009/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
package buildinfo

import "fmt"

var (
	// Version is the semantic version (e.g., "v1.2.3").
	// Set via ldflags: -X github.com/microsoft/playwright-go-sub009/pkg/buildinfo.Version=...
	Version = "dev"

	// Commit is the git commit SHA.
	// Set via ldflags: -X github.com/microsoft/playwright-go-sub009/pkg/buildinfo.Commit=...
	Commit = "none"

	// Date is the build timestamp.
	// Set via ldflags: -X github.com/microsoft/playwright-go-sub009/pkg/buildinfo.Date=...
	Date = "unknown"
)

// DriverVersion is the driver release this library is built against.
// The install command downloads this version unless told otherwise.
const DriverVersion = "1.45.0"

// String returns the formatted build information.
func String() string {
	return fmt.Sprintf("version: %s\ncommit: %s\nbuilt: %s\ndriver: %s", Version, Commit, Date, DriverVersion)
}

// Template returns the version template string for cobra.
func Template() string {
	return fmt.Sprintf("{{.Name}} version %s\ncommit: %s\nbuilt: %s\ndriver: %s\n", Version, Commit, Date, DriverVersion)
}
