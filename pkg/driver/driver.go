package driver

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/microsoft/playwright-go-sub009/pkg/buildinfo"
	"github.com/microsoft/playwright-go-sub009/pkg/errors"
	"github.com/microsoft/playwright-go-sub009/pkg/observability"
)

// Env vars honored by the driver layer, mirroring the upstream bindings.
const (
	// EnvDriverPath points at an existing driver directory, bypassing the
	// managed cache entirely.
	EnvDriverPath = "PLAYWRIGHT_DRIVER_PATH"
	// EnvSkipDownload disables downloading; Ensure fails if the driver is
	// not already installed.
	EnvSkipDownload = "PLAYWRIGHT_SKIP_DRIVER_DOWNLOAD"
)

// Driver describes one driver installation: a version and the directory
// that holds (or will hold) its unpacked bundle.
type Driver struct {
	Version string
	Dir     string

	logger *log.Logger
}

// New creates a Driver for the given version (empty means the pinned
// default, [buildinfo.DriverVersion]). The install directory defaults to
// <cache>/driver/<version> under the user cache dir and can be redirected
// with PLAYWRIGHT_DRIVER_PATH.
func New(version string, logger *log.Logger) (*Driver, error) {
	if version == "" {
		version = buildinfo.DriverVersion
	}
	if err := errors.ValidateDriverVersion(version); err != nil {
		return nil, err
	}

	dir := os.Getenv(EnvDriverPath)
	if dir == "" {
		base, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		dir = filepath.Join(base, version)
	}
	return &Driver{Version: version, Dir: dir, logger: logger}, nil
}

// DefaultDir returns the root directory for managed driver installs.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "resolve home directory")
	}
	return filepath.Join(home, ".cache", "playwright-go", "driver"), nil
}

// nodeExecutable returns the bundled node binary path.
func (d *Driver) nodeExecutable() string {
	name := "node"
	if runtime.GOOS == "windows" {
		name = "node.exe"
	}
	return filepath.Join(d.Dir, name)
}

// cliScript returns the driver entry point script path.
func (d *Driver) cliScript() string {
	return filepath.Join(d.Dir, "package", "cli.js")
}

// Installed reports whether the bundle is unpacked and runnable.
func (d *Driver) Installed() bool {
	if _, err := os.Stat(d.nodeExecutable()); err != nil {
		return false
	}
	_, err := os.Stat(d.cliScript())
	return err == nil
}

// Ensure makes the driver runnable, downloading the bundle if needed.
// With PLAYWRIGHT_SKIP_DRIVER_DOWNLOAD set, a missing install is an error
// instead.
func (d *Driver) Ensure(ctx context.Context, dl *Downloader) error {
	if d.Installed() {
		d.logger.Debug("driver already installed", "version", d.Version, "dir", d.Dir)
		return nil
	}
	if os.Getenv(EnvSkipDownload) != "" {
		return errors.New(errors.ErrCodeDriverNotFound,
			"driver %s not installed at %s and downloads are disabled", d.Version, d.Dir)
	}
	return dl.Download(ctx, d.Version, d.Dir)
}

// Uninstall removes the driver install directory.
func (d *Driver) Uninstall() error {
	if err := os.RemoveAll(d.Dir); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "remove %s", d.Dir)
	}
	d.logger.Info("driver removed", "version", d.Version, "dir", d.Dir)
	return nil
}

// Command builds an exec.Cmd running the driver CLI with the given
// subcommand and arguments.
func (d *Driver) Command(ctx context.Context, args ...string) *exec.Cmd {
	cmdArgs := append([]string{d.cliScript()}, args...)
	cmd := exec.CommandContext(ctx, d.nodeExecutable(), cmdArgs...)
	cmd.Env = append(os.Environ(), "PW_LANG_NAME=go", "PW_CLI_DISPLAY_VERSION="+buildinfo.Version)
	return cmd
}

// PrintAPIJSON runs the driver's print-api-json subcommand and returns the
// raw API description.
func (d *Driver) PrintAPIJSON(ctx context.Context) ([]byte, error) {
	if !d.Installed() {
		return nil, errors.New(errors.ErrCodeDriverNotFound, "driver %s not installed at %s", d.Version, d.Dir)
	}
	var stdout, stderr bytes.Buffer
	cmd := d.Command(ctx, "print-api-json")
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeDriverCrash, err,
			"print-api-json failed: %s", strings.TrimSpace(stderr.String()))
	}
	return stdout.Bytes(), nil
}

// Process is a running driver child process with a live protocol
// connection.
type Process struct {
	Conn *Connection

	cmd     *exec.Cmd
	version string
}

// Run spawns the driver's run-driver subcommand and wires its stdio into a
// new Connection. Stop the process with [Process.Close].
func (d *Driver) Run(ctx context.Context) (*Process, error) {
	if !d.Installed() {
		return nil, errors.New(errors.ErrCodeDriverNotFound, "driver %s not installed at %s", d.Version, d.Dir)
	}

	cmd := d.Command(ctx, "run-driver")
	cmd.Stderr = os.Stderr
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "open driver stdin")
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "open driver stdout")
	}
	if err := cmd.Start(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeDriverCrash, err, "start driver")
	}
	d.logger.Debug("driver started", "version", d.Version, "pid", cmd.Process.Pid)

	conn := NewConnection(NewTransport(stdout, stdin), d.logger)
	observability.Driver().OnDriverStart(ctx, d.Version, conn.SessionID())
	return &Process{Conn: conn, cmd: cmd, version: d.Version}, nil
}

// Close shuts down the connection and waits for the child to exit.
func (p *Process) Close() error {
	_ = p.Conn.Close()
	if p.cmd.Process != nil {
		_ = p.cmd.Process.Kill()
	}
	err := p.cmd.Wait()
	observability.Driver().OnDriverStop(context.Background(), p.version, p.Conn.SessionID(), err)
	return err
}
