// Package client provides the runtime handles for driving a browser
// through a running driver process: Playwright, BrowserType, Browser,
// Page, and Locator.
//
// Handles are thin proxies. Every operation marshals a call onto the
// driver connection and blocks until the reply arrives, so all methods
// take a context for cancellation. Handles are cheap to create and safe
// for concurrent use; a Locator in particular holds no driver-side state
// until an operation runs.
package client
