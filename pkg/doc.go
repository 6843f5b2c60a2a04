// Package pkg provides the core libraries for the Playwright Go binding.
//
// # Overview
//
// The binding talks to the Playwright driver, a bundled Node.js process
// that exposes browser automation over a length-prefixed JSON protocol on
// stdio. The same driver also describes its own API as machine-readable
// JSON, which the generator turns into typed Go client code. The pkg
// directory is organized into four main areas:
//
//  1. [api], [gen] - API description parsing and client code generation
//  2. [driver] - Driver download, process management, protocol transport
//  3. [client], [expect] - Runtime proxies and polling assertions
//  4. [cache], [pipeline], [httputil], [observability] - Infrastructure
//
// # Architecture
//
// The typical data flow for generation:
//
//	Driver (print-api-json)
//	         ↓
//	    [api] package (parse + validate the description)
//	         ↓
//	    [gen] package (resolve types, build interfaces, emit Go)
//	         ↓
//	    formatted .go source files
//
// And at runtime:
//
//	[driver] package (spawn run-driver, frame messages)
//	         ↓
//	    [client] package (typed proxies over remote objects)
//	         ↓
//	    [expect] package (polling assertions against live pages)
//
// # Quick Start
//
// Generate the client from the installed driver:
//
//	runner := pipeline.NewRunner(nil, nil, nil)
//	result, _ := runner.Execute(ctx, pipeline.Options{})
//	for name, src := range result.Files {
//	    os.WriteFile(name, src, 0o644)
//	}
//
// Drive a browser:
//
//	pw, _ := client.Run(ctx, logger)
//	defer pw.Close()
//	browser, _ := pw.Chromium.Launch(ctx, client.LaunchOptions{Headless: true})
//	page, _ := browser.NewPage(ctx)
//	_ = page.Goto(ctx, "https://example.com")
//	_ = expect.That(page.Locator("h1")).ToBeVisible(ctx)
//
// # Main Packages
//
// [api] - Schema types for the driver's API description and its loader.
//
// [gen] - The code generator: type resolution with per-path overrides,
// enum and options-struct synthesis, and gofmt-formatted emission.
//
// [driver] - Bundle download with retry, installation management, process
// spawning, and the stdio protocol connection with remote object tracking.
//
// [client] - Hand-written proxy handles (Playwright, BrowserType, Browser,
// Page, Locator) over the protocol connection.
//
// [expect] - Polling assertions with timeout, negation, and soft
// collection.
//
// [pipeline] - Orchestration of load, generate, and graph stages with
// per-stage caching. Used by the CLI and the serve command.
//
// [cache] - Cache backends (file, Redis, null) and content-hash keying.
//
// [httputil] - Shared HTTP retry and caching helpers.
//
// [observability] - Hook registries for generation, cache, and driver
// lifecycle events.
//
// [api]: https://pkg.go.dev/github.com/microsoft/playwright-go-sub009/pkg/api
// [gen]: https://pkg.go.dev/github.com/microsoft/playwright-go-sub009/pkg/gen
// [driver]: https://pkg.go.dev/github.com/microsoft/playwright-go-sub009/pkg/driver
// [client]: https://pkg.go.dev/github.com/microsoft/playwright-go-sub009/pkg/client
// [expect]: https://pkg.go.dev/github.com/microsoft/playwright-go-sub009/pkg/expect
// [pipeline]: https://pkg.go.dev/github.com/microsoft/playwright-go-sub009/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/microsoft/playwright-go-sub009/pkg/cache
// [httputil]: https://pkg.go.dev/github.com/microsoft/playwright-go-sub009/pkg/httputil
// [observability]: https://pkg.go.dev/github.com/microsoft/playwright-go-sub009/pkg/observability
package pkg
