package expect

import (
	"context"
	"fmt"
	"time"
)

// PageAssertions asserts on page-level state.
type PageAssertions struct {
	page Page
	opts options
}

// ThatPage starts an assertion chain on a page.
func ThatPage(page Page) *PageAssertions {
	return &PageAssertions{page: page, opts: defaultOptions()}
}

// Not inverts the assertion.
func (a *PageAssertions) Not() *PageAssertions {
	c := *a
	c.opts.negated = !c.opts.negated
	return &c
}

// WithTimeout overrides the polling timeout.
func (a *PageAssertions) WithTimeout(d time.Duration) *PageAssertions {
	c := *a
	c.opts.timeout = d
	return &c
}

// WithInterval overrides the polling interval.
func (a *PageAssertions) WithInterval(d time.Duration) *PageAssertions {
	c := *a
	c.opts.interval = d
	return &c
}

// ToHaveTitle asserts the page title equals expected.
func (a *PageAssertions) ToHaveTitle(ctx context.Context, expected string) error {
	return poll(ctx, a.opts, fmt.Sprintf("title %q", expected), func(ctx context.Context) (checkResult, error) {
		title, err := a.page.Title(ctx)
		if err != nil {
			return checkResult{}, err
		}
		return checkResult{ok: title == expected, actual: fmt.Sprintf("title %q", title)}, nil
	})
}

// ToHaveURL asserts the page URL equals expected.
func (a *PageAssertions) ToHaveURL(ctx context.Context, expected string) error {
	return poll(ctx, a.opts, fmt.Sprintf("url %q", expected), func(ctx context.Context) (checkResult, error) {
		url, err := a.page.URL(ctx)
		if err != nil {
			return checkResult{}, err
		}
		return checkResult{ok: url == expected, actual: fmt.Sprintf("url %q", url)}, nil
	})
}
