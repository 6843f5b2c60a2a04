package client

import (
	"context"
	"encoding/base64"
)

// Locator addresses elements matching a selector on a page. Creating one
// is free; resolution happens on every operation, which is what makes
// polling assertions in pkg/expect work against live pages.
type Locator struct {
	page     *Page
	selector string
}

// Selector returns the locator's selector string.
func (l *Locator) Selector() string { return l.selector }

func (l *Locator) params(extra map[string]any) map[string]any {
	p := map[string]any{"selector": l.selector}
	for k, v := range extra {
		p[k] = v
	}
	return p
}

// Click clicks the first matching element.
func (l *Locator) Click(ctx context.Context, options ...ClickOptions) error {
	params := l.params(nil)
	if len(options) > 0 {
		mergeOptions(params, options[0])
	}
	_, err := l.page.conn.Call(ctx, l.page.guid, "click", params)
	return err
}

// Fill sets the value of the first matching input.
func (l *Locator) Fill(ctx context.Context, value string) error {
	_, err := l.page.conn.Call(ctx, l.page.guid, "fill", l.params(map[string]any{"value": value}))
	return err
}

// TextContent returns the text content of the first matching element, or
// nil when the node has none.
func (l *Locator) TextContent(ctx context.Context) (*string, error) {
	var v *string
	err := valueCall(ctx, l.page.conn, l.page.guid, "textContent", l.params(nil), &v)
	return v, err
}

// IsVisible reports whether the first matching element is visible.
func (l *Locator) IsVisible(ctx context.Context) (bool, error) {
	var v bool
	err := valueCall(ctx, l.page.conn, l.page.guid, "isVisible", l.params(nil), &v)
	return v, err
}

// Count returns the number of matching elements.
func (l *Locator) Count(ctx context.Context) (int, error) {
	var v int
	err := valueCall(ctx, l.page.conn, l.page.guid, "count", l.params(nil), &v)
	return v, err
}

// AllTextContents returns the text content of every matching element.
func (l *Locator) AllTextContents(ctx context.Context) ([]string, error) {
	var v []string
	err := valueCall(ctx, l.page.conn, l.page.guid, "allTextContents", l.params(nil), &v)
	return v, err
}

func decodeBase64(s string) ([]byte, error) {
	return base64.StdEncoding.DecodeString(s)
}
