package expect

import (
	"context"
	"fmt"
	"time"
)

// LocatorAssertions asserts on the elements a locator matches.
type LocatorAssertions struct {
	loc  Locator
	opts options
}

// That starts an assertion chain on a locator.
func That(loc Locator) *LocatorAssertions {
	return &LocatorAssertions{loc: loc, opts: defaultOptions()}
}

// Not inverts the assertion.
func (a *LocatorAssertions) Not() *LocatorAssertions {
	c := *a
	c.opts.negated = !c.opts.negated
	return &c
}

// WithTimeout overrides the polling timeout.
func (a *LocatorAssertions) WithTimeout(d time.Duration) *LocatorAssertions {
	c := *a
	c.opts.timeout = d
	return &c
}

// WithInterval overrides the polling interval.
func (a *LocatorAssertions) WithInterval(d time.Duration) *LocatorAssertions {
	c := *a
	c.opts.interval = d
	return &c
}

// ToBeVisible asserts the first matching element is visible.
func (a *LocatorAssertions) ToBeVisible(ctx context.Context) error {
	return poll(ctx, a.opts, "visible", func(ctx context.Context) (checkResult, error) {
		visible, err := a.loc.IsVisible(ctx)
		if err != nil {
			return checkResult{}, err
		}
		actual := "hidden"
		if visible {
			actual = "visible"
		}
		return checkResult{ok: visible, actual: actual}, nil
	})
}

// ToHaveText asserts the first matching element's text content equals
// expected.
func (a *LocatorAssertions) ToHaveText(ctx context.Context, expected string) error {
	return poll(ctx, a.opts, fmt.Sprintf("text %q", expected), func(ctx context.Context) (checkResult, error) {
		text, err := a.loc.TextContent(ctx)
		if err != nil {
			return checkResult{}, err
		}
		if text == nil {
			return checkResult{ok: false, actual: "no text"}, nil
		}
		return checkResult{ok: *text == expected, actual: fmt.Sprintf("text %q", *text)}, nil
	})
}

// ToHaveCount asserts the number of matching elements equals expected.
func (a *LocatorAssertions) ToHaveCount(ctx context.Context, expected int) error {
	return poll(ctx, a.opts, describeCount(expected), func(ctx context.Context) (checkResult, error) {
		n, err := a.loc.Count(ctx)
		if err != nil {
			return checkResult{}, err
		}
		return checkResult{ok: n == expected, actual: describeCount(n)}, nil
	})
}
