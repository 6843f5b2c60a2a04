package client

import (
	"context"
	"encoding/json"

	"github.com/microsoft/playwright-go-sub009/pkg/driver"
	"github.com/microsoft/playwright-go-sub009/pkg/errors"
)

// Browser is a handle on one launched browser instance.
type Browser struct {
	conn *driver.Connection
	guid string
}

// GUID returns the driver-side object id, for logs.
func (b *Browser) GUID() string { return b.guid }

// NewPage opens a tab in a fresh browser context.
func (b *Browser) NewPage(ctx context.Context) (*Page, error) {
	result, err := b.conn.Call(ctx, b.guid, "newPage", nil)
	if err != nil {
		return nil, err
	}
	var parsed struct {
		Page guidRef `json:"page"`
	}
	if err := json.Unmarshal(result, &parsed); err != nil {
		return nil, errors.Wrap(errors.ErrCodeProtocol, err, "malformed newPage result")
	}
	return &Page{conn: b.conn, guid: parsed.Page.GUID}, nil
}

// Version reports the browser build version.
func (b *Browser) Version(ctx context.Context) (string, error) {
	return stringCall(ctx, b.conn, b.guid, "version", nil)
}

// Close shuts the browser down, closing every context and page in it.
func (b *Browser) Close(ctx context.Context) error {
	_, err := b.conn.Call(ctx, b.guid, "close", nil)
	return err
}

// valueResult is the wire shape of scalar replies.
type valueResult struct {
	Value json.RawMessage `json:"value"`
}

func stringCall(ctx context.Context, conn *driver.Connection, guid, method string, params any) (string, error) {
	var v string
	err := valueCall(ctx, conn, guid, method, params, &v)
	return v, err
}

// valueCall performs a call and decodes the scalar "value" field of the
// reply into out.
func valueCall(ctx context.Context, conn *driver.Connection, guid, method string, params, out any) error {
	result, err := conn.Call(ctx, guid, method, params)
	if err != nil {
		return err
	}
	var parsed valueResult
	if err := json.Unmarshal(result, &parsed); err != nil {
		return errors.Wrap(errors.ErrCodeProtocol, err, "malformed %s result", method)
	}
	if parsed.Value == nil {
		return nil
	}
	if err := json.Unmarshal(parsed.Value, out); err != nil {
		return errors.Wrap(errors.ErrCodeProtocol, err, "decode %s value", method)
	}
	return nil
}
