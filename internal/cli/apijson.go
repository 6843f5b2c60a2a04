package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/microsoft/playwright-go-sub009/pkg/pipeline"
)

// apiJSONCommand creates the api-json command for printing the raw API description.
func (c *CLI) apiJSONCommand() *cobra.Command {
	var (
		output  string
		version string
		refresh bool
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "api-json",
		Short: "Print the driver's API description",
		Long: `Print the driver's machine-readable API description as JSON.

The description is obtained from the installed driver and cached locally.
Pipe the output to a file to snapshot the description for offline
generation with 'generate --source'.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, err := c.newRunner(cmd.Context(), noCache)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Cache.Close()

			opts := pipeline.Options{DriverVersion: version, Refresh: refresh}
			if err := opts.ValidateAndSetDefaults(); err != nil {
				return err
			}

			_, raw, _, err := runner.LoadWithCacheInfo(cmd.Context(), opts)
			if err != nil {
				return err
			}

			if output == "" {
				_, err := os.Stdout.Write(raw)
				return err
			}
			if err := os.WriteFile(output, raw, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			printSuccess("Wrote API description")
			printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write to file instead of stdout")
	cmd.Flags().StringVar(&version, "driver-version", "", "driver version to query")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "bypass the cached description")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}
