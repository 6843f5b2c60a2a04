package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/microsoft/playwright-go-sub009/pkg/cache"
	"github.com/microsoft/playwright-go-sub009/pkg/gen"
	"github.com/microsoft/playwright-go-sub009/pkg/pipeline"
)

// graphCommand creates the graph command for rendering the API reference graph.
func (c *CLI) graphCommand() *cobra.Command {
	var (
		source   string
		format   string
		output   string
		version  string
		detailed bool
		refresh  bool
		noCache  bool
	)

	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Render the API reference graph",
		Long: `Render the API interface reference graph as DOT or SVG.

Nodes are interfaces; an edge from A to B means a member of A refers to B.
Use --detailed to include member counts in node labels.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := pipeline.ValidateFormat(format); err != nil {
				return err
			}

			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Cache.Close()

			opts := pipeline.Options{Source: source, DriverVersion: version, Refresh: refresh}
			if err := opts.ValidateAndSetDefaults(); err != nil {
				return err
			}

			schema, raw, _, err := runner.LoadWithCacheInfo(ctx, opts)
			if err != nil {
				return err
			}

			artifact, hit, err := runner.GraphWithCacheInfo(ctx, schema, cache.Hash(raw), opts, format, gen.GraphOptions{Detailed: detailed})
			if err != nil {
				return err
			}

			if output == "" {
				output = "api." + format
			}
			if err := os.WriteFile(output, artifact, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}

			printSuccess("Graph rendered")
			printFile(output)
			printStats(len(schema.Interfaces), 0, hit)
			return nil
		},
	}

	cmd.Flags().StringVarP(&source, "source", "s", "", "api.json file to read (default: installed driver)")
	cmd.Flags().StringVarP(&format, "format", "f", pipeline.FormatDOT, "output format: dot (default), svg")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: api.<format>)")
	cmd.Flags().StringVar(&version, "driver-version", "", "driver version to query")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "include member counts in node labels")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "bypass cached artifacts")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}
