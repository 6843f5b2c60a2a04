// Package expect implements polling assertions over live pages. An
// assertion re-runs its driver query on an interval until the predicate
// holds or the timeout elapses, which absorbs the asynchronous settling
// of real pages. Negated variants come from Not; soft collectors record
// failures instead of returning them.
package expect

import (
	"context"
	"fmt"
	"time"

	"github.com/microsoft/playwright-go-sub009/pkg/errors"
)

// Polling defaults, overridable per assertion with WithTimeout and
// WithInterval.
const (
	DefaultTimeout  = 5 * time.Second
	DefaultInterval = 100 * time.Millisecond
)

// Locator is the query surface assertions need from a locator handle.
// *client.Locator satisfies it.
type Locator interface {
	TextContent(ctx context.Context) (*string, error)
	IsVisible(ctx context.Context) (bool, error)
	Count(ctx context.Context) (int, error)
}

// Page is the query surface assertions need from a page handle.
// *client.Page satisfies it.
type Page interface {
	Title(ctx context.Context) (string, error)
	URL(ctx context.Context) (string, error)
}

// options carries the polling knobs and failure sink shared by all
// assertion types.
type options struct {
	timeout  time.Duration
	interval time.Duration
	negated  bool
	soft     *Soft
}

func defaultOptions() options {
	return options{timeout: DefaultTimeout, interval: DefaultInterval}
}

// checkResult is one observation of the page: whether the predicate held
// and a description of what was actually seen.
type checkResult struct {
	ok     bool
	actual string
}

// poll re-runs check until it matches the (possibly negated) expectation
// or the timeout elapses. Query errors do not abort the loop; pages
// settle and handles attach asynchronously, so a failing query may
// succeed on the next tick. The last observation is reported on timeout.
func poll(ctx context.Context, opts options, want string, check func(context.Context) (checkResult, error)) error {
	deadline := time.NewTimer(opts.timeout)
	defer deadline.Stop()
	ticker := time.NewTicker(opts.interval)
	defer ticker.Stop()

	expectation := want
	if opts.negated {
		expectation = "not " + want
	}

	var last checkResult
	var lastErr error
	for {
		res, err := check(ctx)
		if err == nil {
			last, lastErr = res, nil
			if res.ok != opts.negated {
				return nil
			}
		} else {
			if errors.GetCode(err) == errors.ErrCodeTargetClosed {
				return opts.fail(errors.Wrap(errors.ErrCodeTargetClosed, err, "expected %s", expectation))
			}
			lastErr = err
		}

		select {
		case <-ctx.Done():
			return opts.fail(errors.Wrap(errors.ErrCodeTimeout, ctx.Err(), "expected %s", expectation))
		case <-deadline.C:
			if lastErr != nil {
				return opts.fail(errors.Wrap(errors.ErrCodeTimeout, lastErr,
					"expected %s after %s", expectation, opts.timeout))
			}
			return opts.fail(errors.New(errors.ErrCodeTimeout,
				"expected %s after %s, got %s", expectation, opts.timeout, last.actual))
		case <-ticker.C:
		}
	}
}

// fail routes an assertion failure: recorded when soft, returned otherwise.
func (o options) fail(err error) error {
	if o.soft != nil {
		o.soft.record(err)
		return nil
	}
	return err
}

func describeCount(n int) string { return fmt.Sprintf("count %d", n) }
