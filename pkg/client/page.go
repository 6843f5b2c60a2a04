package client

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/microsoft/playwright-go-sub009/pkg/driver"
	"github.com/microsoft/playwright-go-sub009/pkg/errors"
)

// Page is a handle on one browser tab.
type Page struct {
	conn *driver.Connection
	guid string

	mu      sync.Mutex
	onClose []func()
	wired   bool
}

// GUID returns the driver-side object id, for logs.
func (p *Page) GUID() string { return p.guid }

// GotoOptions configures Page.Goto.
type GotoOptions struct {
	Timeout   *float64 `json:"timeout,omitempty"`
	WaitUntil *string  `json:"waitUntil,omitempty"`
}

// Goto navigates to the url and waits for the load state.
func (p *Page) Goto(ctx context.Context, url string, options ...GotoOptions) error {
	params := map[string]any{"url": url}
	if len(options) > 0 {
		mergeOptions(params, options[0])
	}
	_, err := p.conn.Call(ctx, p.guid, "goto", params)
	return err
}

// ClickOptions configures Page.Click.
type ClickOptions struct {
	Button     *string  `json:"button,omitempty"`
	ClickCount *int     `json:"clickCount,omitempty"`
	Timeout    *float64 `json:"timeout,omitempty"`
}

// Click clicks the element matching selector.
func (p *Page) Click(ctx context.Context, selector string, options ...ClickOptions) error {
	params := map[string]any{"selector": selector}
	if len(options) > 0 {
		mergeOptions(params, options[0])
	}
	_, err := p.conn.Call(ctx, p.guid, "click", params)
	return err
}

// Fill sets the value of the input matching selector.
func (p *Page) Fill(ctx context.Context, selector, value string) error {
	_, err := p.conn.Call(ctx, p.guid, "fill", map[string]any{"selector": selector, "value": value})
	return err
}

// Title returns the page title.
func (p *Page) Title(ctx context.Context) (string, error) {
	return stringCall(ctx, p.conn, p.guid, "title", nil)
}

// URL returns the current page URL.
func (p *Page) URL(ctx context.Context) (string, error) {
	return stringCall(ctx, p.conn, p.guid, "url", nil)
}

// ScreenshotOptions configures Page.Screenshot.
type ScreenshotOptions struct {
	FullPage *bool   `json:"fullPage,omitempty"`
	Type     *string `json:"type,omitempty"`
}

// Screenshot captures the page and returns the image bytes.
func (p *Page) Screenshot(ctx context.Context, options ...ScreenshotOptions) ([]byte, error) {
	var params any
	if len(options) > 0 {
		params = options[0]
	}
	var encoded string
	if err := valueCall(ctx, p.conn, p.guid, "screenshot", params, &encoded); err != nil {
		return nil, err
	}
	data, err := decodeBase64(encoded)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeProtocol, err, "decode screenshot data")
	}
	return data, nil
}

// Locator returns a handle for elements matching selector. No driver call
// happens until an operation runs on the locator.
func (p *Page) Locator(selector string) *Locator {
	return &Locator{page: p, selector: selector}
}

// OnClose registers a handler invoked when the page closes. The first
// registration subscribes the page to connection events.
func (p *Page) OnClose(handler func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onClose = append(p.onClose, handler)
	if p.wired {
		return
	}
	p.wired = true
	p.conn.Subscribe(p.guid, "close", func(json.RawMessage) {
		p.mu.Lock()
		handlers := append([]func(){}, p.onClose...)
		p.mu.Unlock()
		for _, h := range handlers {
			h()
		}
	})
}

// Close closes the page.
func (p *Page) Close(ctx context.Context) error {
	_, err := p.conn.Call(ctx, p.guid, "close", nil)
	return err
}

// mergeOptions folds an options struct into the params map via its JSON
// form, so omitempty fields stay off the wire.
func mergeOptions(params map[string]any, opts any) {
	data, err := json.Marshal(opts)
	if err != nil {
		return
	}
	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		return
	}
	for k, v := range fields {
		params[k] = v
	}
}
