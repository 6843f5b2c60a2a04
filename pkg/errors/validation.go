package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// versionRe matches driver version strings like "1.45.0" or "1.46.0-beta-1720000000000".
var versionRe = regexp.MustCompile(`^\d+\.\d+\.\d+(-[a-z]+-?\d*)?$`)

// ValidateDriverVersion validates a driver version string.
// Versions appear in download URLs and install directory names, so the
// validation is intentionally conservative.
func ValidateDriverVersion(version string) error {
	if version == "" {
		return New(ErrCodeInvalidVersion, "driver version cannot be empty")
	}
	if len(version) > 64 {
		return New(ErrCodeInvalidVersion, "driver version too long (max 64 characters)")
	}
	if !versionRe.MatchString(version) {
		return New(ErrCodeInvalidVersion, "invalid driver version: %q", version)
	}
	return nil
}

// ValidateInterfaceName validates a schema interface name.
// Interface names become Go type names and output file names, so they must
// be simple identifiers without path components.
func ValidateInterfaceName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidSchema, "interface name cannot be empty")
	}
	if len(name) > 128 {
		return New(ErrCodeInvalidSchema, "interface name too long (max 128 characters)")
	}
	for i, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidSchema, "interface name contains control characters")
		}
		if i == 0 && !unicode.IsLetter(r) {
			return New(ErrCodeInvalidSchema, "interface name must start with a letter: %q", name)
		}
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return New(ErrCodeInvalidSchema, "interface name contains invalid character %q", r)
		}
	}
	return nil
}

// ValidateOutputPath validates a generator output path for safety.
// It prevents path traversal and ensures reasonable path length.
func ValidateOutputPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "output path cannot be empty")
	}
	if len(path) > 500 {
		return New(ErrCodeInvalidPath, "output path too long (max 500 characters)")
	}
	for _, r := range path {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "output path contains control characters")
		}
	}
	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "output path cannot contain %q", "..")
	}
	return nil
}
