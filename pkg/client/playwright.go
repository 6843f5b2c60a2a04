package client

import (
	"context"
	"encoding/json"

	"github.com/charmbracelet/log"

	"github.com/microsoft/playwright-go-sub009/pkg/driver"
	"github.com/microsoft/playwright-go-sub009/pkg/errors"
)

// guidRef is the wire shape of an object reference in params, results and
// initializers.
type guidRef struct {
	GUID string `json:"guid"`
}

// Playwright is the root handle, created once per driver process. It owns
// the browser type entry points.
type Playwright struct {
	Chromium *BrowserType
	Firefox  *BrowserType
	WebKit   *BrowserType

	conn    *driver.Connection
	process *driver.Process
}

// Run ensures the pinned driver is installed, spawns it, and performs the
// initialize handshake. Close must be called to shut the driver down.
func Run(ctx context.Context, logger *log.Logger) (*Playwright, error) {
	d, err := driver.New("", logger)
	if err != nil {
		return nil, err
	}
	if err := d.Ensure(ctx, driver.NewDownloader(logger)); err != nil {
		return nil, err
	}
	process, err := d.Run(ctx)
	if err != nil {
		return nil, err
	}
	pw, err := Connect(ctx, process.Conn)
	if err != nil {
		_ = process.Close()
		return nil, err
	}
	pw.process = process
	return pw, nil
}

// Connect performs the initialize handshake over an existing connection
// and builds the root handle. Used directly by tests and by callers that
// manage the driver process themselves.
func Connect(ctx context.Context, conn *driver.Connection) (*Playwright, error) {
	result, err := conn.Call(ctx, "", "initialize", map[string]any{"sdkLanguage": "go"})
	if err != nil {
		return nil, err
	}
	var init struct {
		Playwright guidRef `json:"playwright"`
	}
	if err := json.Unmarshal(result, &init); err != nil {
		return nil, errors.Wrap(errors.ErrCodeProtocol, err, "malformed initialize result")
	}
	root, ok := conn.Object(init.Playwright.GUID)
	if !ok {
		return nil, errors.New(errors.ErrCodeProtocol, "initialize did not announce the root object")
	}

	var rootInit struct {
		Chromium guidRef `json:"chromium"`
		Firefox  guidRef `json:"firefox"`
		WebKit   guidRef `json:"webkit"`
	}
	if err := json.Unmarshal(root.Initializer, &rootInit); err != nil {
		return nil, errors.Wrap(errors.ErrCodeProtocol, err, "malformed root initializer")
	}

	pw := &Playwright{conn: conn}
	pw.Chromium = &BrowserType{conn: conn, guid: rootInit.Chromium.GUID, Name: "chromium"}
	pw.Firefox = &BrowserType{conn: conn, guid: rootInit.Firefox.GUID, Name: "firefox"}
	pw.WebKit = &BrowserType{conn: conn, guid: rootInit.WebKit.GUID, Name: "webkit"}
	return pw, nil
}

// Close shuts down the connection and, when this handle spawned the
// driver, the child process.
func (p *Playwright) Close() error {
	if p.process != nil {
		return p.process.Close()
	}
	return p.conn.Close()
}

// BrowserType launches one browser flavor.
type BrowserType struct {
	Name string

	conn *driver.Connection
	guid string
}

// LaunchOptions configures BrowserType.Launch.
type LaunchOptions struct {
	Headless *bool    `json:"headless,omitempty"`
	Args     []string `json:"args,omitempty"`
	SlowMo   *float64 `json:"slowMo,omitempty"`
}

// Launch starts a browser instance.
func (bt *BrowserType) Launch(ctx context.Context, options ...LaunchOptions) (*Browser, error) {
	var opts any
	if len(options) > 0 {
		opts = options[0]
	}
	result, err := bt.conn.Call(ctx, bt.guid, "launch", opts)
	if err != nil {
		return nil, err
	}
	var parsed struct {
		Browser guidRef `json:"browser"`
	}
	if err := json.Unmarshal(result, &parsed); err != nil {
		return nil, errors.Wrap(errors.ErrCodeProtocol, err, "malformed launch result")
	}
	return &Browser{conn: bt.conn, guid: parsed.Browser.GUID}, nil
}
