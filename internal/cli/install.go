package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/microsoft/playwright-go-sub009/pkg/buildinfo"
	"github.com/microsoft/playwright-go-sub009/pkg/driver"
	"github.com/microsoft/playwright-go-sub009/pkg/errors"
)

// installCommand creates the install command for downloading the driver.
func (c *CLI) installCommand() *cobra.Command {
	var (
		force bool
		pick  bool
	)

	cmd := &cobra.Command{
		Use:   "install [version]",
		Short: "Download and unpack the driver bundle",
		Long: `Download and unpack the driver bundle for the current platform.

Without arguments the driver version this build was made for is installed.
An explicit version argument overrides it, and --pick opens an interactive
version selector.

The download host can be overridden with PLAYWRIGHT_DOWNLOAD_HOST, and an
already unpacked bundle can be pointed at with PLAYWRIGHT_DRIVER_PATH.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			version := ""
			if len(args) == 1 {
				version = args[0]
			}
			if pick {
				selected, err := pickDriverVersion()
				if err != nil {
					return err
				}
				if selected == "" {
					printInfo("No version selected")
					return nil
				}
				version = selected
			}
			return c.runInstall(cmd.Context(), version, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "reinstall even if already present")
	cmd.Flags().BoolVar(&pick, "pick", false, "select the version interactively")

	return cmd
}

// runInstall downloads the driver bundle unless it is already present.
func (c *CLI) runInstall(ctx context.Context, version string, force bool) error {
	d, err := driver.New(version, c.Logger)
	if err != nil {
		return err
	}

	if d.Installed() && !force {
		printSuccess("Driver %s already installed", d.Version)
		printDetail("Directory: %s", d.Dir)
		return nil
	}
	if force {
		if err := d.Uninstall(); err != nil {
			return fmt.Errorf("remove existing driver: %w", err)
		}
	}

	dl := driver.NewDownloader(c.Logger)
	if ok, err := dl.Available(ctx, d.Version); err == nil && !ok {
		return errors.New(errors.ErrCodeDriverNotFound, "no driver bundle for version %s on this platform", d.Version)
	}

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Downloading driver %s...", d.Version))
	spinner.Start()

	if err := d.Ensure(ctx, dl); err != nil {
		spinner.StopWithError("Download failed")
		return err
	}
	spinner.StopWithSuccess(fmt.Sprintf("Installed driver %s", d.Version))
	printDetail("Directory: %s", d.Dir)
	printNextStep("Generate the client", "playwright generate")
	return nil
}

// uninstallCommand creates the uninstall command for removing the driver.
func (c *CLI) uninstallCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "uninstall [version]",
		Short: "Remove an installed driver bundle",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			version := buildinfo.DriverVersion
			if len(args) == 1 {
				version = args[0]
			}
			d, err := driver.New(version, c.Logger)
			if err != nil {
				return err
			}
			if !d.Installed() {
				printInfo("Driver %s is not installed", d.Version)
				return nil
			}
			if err := d.Uninstall(); err != nil {
				return err
			}
			printSuccess("Removed driver %s", d.Version)
			return nil
		},
	}
}
