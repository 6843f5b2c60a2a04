package gen

import (
	"bytes"
	"sort"

	"github.com/BurntSushi/toml"

	"github.com/microsoft/playwright-go-sub009/pkg/errors"
)

// scalarTypes maps scalar schema type names to Go types.
// An empty value means "no value" (void, null).
type scalarType struct {
	goType  string
	pointer bool // whether an optional occurrence becomes a pointer
}

var scalarTypes = map[string]scalarType{
	"string":             {"string", true},
	"boolean":            {"bool", true},
	"int":                {"int", true},
	"long":               {"int64", true},
	"float":              {"float64", true},
	"void":               {"", false},
	"null":               {"", false},
	"binary":             {"[]byte", false},
	"Buffer":             {"[]byte", false},
	"path":               {"string", true},
	"any":                {"any", false},
	"unknown":            {"any", false},
	"Serializable":       {"any", false},
	"EvaluationArgument": {"any", false},
	"function":           {"string", true},
	"RegExp":             {"*regexp.Regexp", false},
	"Date":               {"time.Time", false},
}

// defaultOverrides resolves ambiguous shapes at specific schema paths.
// Keys are dotted paths ("Interface.member.arg"); values are the Go type to
// emit there. The table mirrors historical driver quirks: shapes like
// Object|function|string that carry a JavaScript expression are strings on
// this side of the wire.
var defaultOverrides = map[string]string{
	"Page.evaluate.expression":        "string",
	"Page.evaluateHandle.expression":  "string",
	"Frame.evaluate.expression":       "string",
	"Locator.evaluate.expression":     "string",
	"Page.waitForFunction.expression": "string",
	"Page.url.url":                    "string",
	"Route.fulfill.options.body":      "string",
}

// Config is the generator configuration, loadable from TOML.
//
// Example:
//
//	package = "generated"
//	skip = ["Android", "Electron"]
//
//	[overrides]
//	"Page.evaluate.arg" = "any"
type Config struct {
	// Package is the Go package name for emitted files.
	Package string `toml:"package"`
	// Skip lists interface names to exclude from generation.
	Skip []string `toml:"skip"`
	// Overrides adds or replaces per-path type resolutions.
	Overrides map[string]string `toml:"overrides"`
}

// DefaultConfig returns the configuration used when no TOML file is given.
func DefaultConfig() Config {
	return Config{Package: "generated"}
}

// LoadConfig reads a generator config from TOML data and validates it.
func LoadConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse generator config")
	}
	if cfg.Package == "" {
		cfg.Package = "generated"
	}
	for _, name := range cfg.Skip {
		if err := errors.ValidateInterfaceName(name); err != nil {
			return Config{}, err
		}
	}
	return cfg, nil
}

// Hash returns a stable content hash of the config, used in cache keys.
func (c Config) Hash() string {
	var buf bytes.Buffer
	buf.WriteString(c.Package)
	skip := append([]string(nil), c.Skip...)
	sort.Strings(skip)
	for _, s := range skip {
		buf.WriteByte(0)
		buf.WriteString(s)
	}
	keys := make([]string, 0, len(c.Overrides))
	for k := range c.Overrides {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		buf.WriteByte(0)
		buf.WriteString(k)
		buf.WriteByte(0)
		buf.WriteString(c.Overrides[k])
	}
	return hashString(buf.String())
}

// skips reports whether the interface is excluded by the config.
func (c Config) skips(name string) bool {
	for _, s := range c.Skip {
		if s == name {
			return true
		}
	}
	return false
}

// overrideFor returns the configured Go type for a path, checking the
// user config before the built-in table.
func (c Config) overrideFor(path string) (string, bool) {
	if t, ok := c.Overrides[path]; ok {
		return t, true
	}
	t, ok := defaultOverrides[path]
	return t, ok
}
