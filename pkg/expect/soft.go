package expect

import (
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/microsoft/playwright-go-sub009/pkg/errors"
)

// Soft collects assertion failures instead of returning them, so a test
// can report everything wrong with a page at once. Safe for concurrent
// use.
type Soft struct {
	id string

	mu       sync.Mutex
	failures []error
}

// NewSoft creates an empty collector. The id ties the group's failures
// together in logs and error output.
func NewSoft() *Soft {
	return &Soft{id: uuid.NewString()}
}

// ID returns the collector's group id.
func (s *Soft) ID() string { return s.id }

// That starts a soft assertion chain on a locator.
func (s *Soft) That(loc Locator) *LocatorAssertions {
	a := That(loc)
	a.opts.soft = s
	return a
}

// ThatPage starts a soft assertion chain on a page.
func (s *Soft) ThatPage(page Page) *PageAssertions {
	a := ThatPage(page)
	a.opts.soft = s
	return a
}

func (s *Soft) record(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = append(s.failures, err)
}

// Failures returns the recorded failures in order.
func (s *Soft) Failures() []error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]error(nil), s.failures...)
}

// Err aggregates the recorded failures into one error, or nil when every
// assertion passed.
func (s *Soft) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.failures) == 0 {
		return nil
	}
	var b strings.Builder
	for i, err := range s.failures {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(errors.UserMessage(err))
	}
	return errors.New(errors.ErrCodeTimeout, "%d soft assertion(s) failed [group %s]: %s",
		len(s.failures), s.id, b.String())
}
