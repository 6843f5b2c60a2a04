package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/microsoft/playwright-go-sub009/pkg/errors"
	"github.com/microsoft/playwright-go-sub009/pkg/gen"
	"github.com/microsoft/playwright-go-sub009/pkg/pipeline"
)

// generateCommand creates the generate command for emitting the typed client.
func (c *CLI) generateCommand() *cobra.Command {
	var (
		source     string
		output     string
		pkgName    string
		configPath string
		version    string
		refresh    bool
		noCache    bool
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate the typed Go client from the API description",
		Long: `Generate the typed Go client from the driver's API description.

By default the API description is obtained from the installed driver and
both the description and the generated sources are cached locally. Point
--source at an api.json file to generate from a snapshot instead.

Generator behavior (skipped interfaces, type overrides) is configured via
a TOML file passed with --config.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := pipeline.Options{
				Source:        source,
				DriverVersion: version,
				Refresh:       refresh,
			}

			cfg, err := loadGenConfig(configPath)
			if err != nil {
				return err
			}
			if pkgName != "" {
				cfg.Package = pkgName
			}
			opts.Config = cfg

			return c.runGenerate(cmd.Context(), opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&source, "source", "s", "", "api.json file to generate from (default: installed driver)")
	cmd.Flags().StringVarP(&output, "output", "o", "generated", "output directory for generated sources")
	cmd.Flags().StringVarP(&pkgName, "package", "p", "", "package name for generated sources")
	cmd.Flags().StringVar(&configPath, "config", "", "generator config file (TOML)")
	cmd.Flags().StringVar(&version, "driver-version", "", "driver version to query")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "bypass cached schema and sources")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// loadGenConfig reads the generator config file, or returns defaults when
// no path is given.
func loadGenConfig(path string) (gen.Config, error) {
	if path == "" {
		return gen.DefaultConfig(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return gen.Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	return gen.LoadConfig(data)
}

// runGenerate executes the pipeline and writes the emitted sources.
func (c *CLI) runGenerate(ctx context.Context, opts pipeline.Options, output string, noCache bool) error {
	if err := errors.ValidateOutputPath(output); err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Cache.Close()

	prog := newProgress(c.Logger)
	spinner := newSpinnerWithContext(ctx, "Generating client...")
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Generation failed")
		return err
	}
	spinner.Stop()

	if err := writeFiles(output, result.Files); err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Generated %d files", len(result.Files)))

	printSuccess("Client generated")
	for _, name := range sortedFileNames(result.Files) {
		printFile(filepath.Join(output, name))
	}
	printStats(result.Stats.InterfaceCount, result.Stats.FileCount, result.CacheInfo.GenHit)
	return nil
}

// writeFiles writes the emitted sources into dir, creating it as needed.
func writeFiles(dir string, files map[string][]byte) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir %s: %w", dir, err)
	}
	for name, src := range files {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, src, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	return nil
}

func sortedFileNames(files map[string][]byte) []string {
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
