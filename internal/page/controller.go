// Package page holds the per-page state machines of the client: each page
// validates a submission, issues one backend call and keeps only the result
// of its latest submission.
package page

import (
	"context"
	"log/slog"

	"stockdesk/internal/analytics"
)

// State is the observable state of a page.
type State[T any] struct {
	Loading bool
	Err     string // localized message, empty when the last fetch succeeded
	Data    T
	Loaded  bool // Data holds a successful result
}

// Controller drives one page. It is not safe for concurrent use: a single
// event loop calls Mount, Begin and Resolve, while Fetch may run elsewhere.
type Controller[Q, T any] struct {
	name     string
	errText  string
	fetch    func(context.Context, Q) (T, error)
	validate func(Q) error
	event    func(Q) map[string]any
	rec      analytics.Recorder
	log      *slog.Logger

	seq     uint64
	pending Q
	state   State[T]
}

// Name returns the analytics page name.
func (c *Controller[Q, T]) Name() string { return c.name }

// State returns a copy of the current state.
func (c *Controller[Q, T]) State() State[T] { return c.state }

// Mount records a page view. The state is not touched.
func (c *Controller[Q, T]) Mount() {
	c.rec.Record(analytics.ActionPageView, map[string]any{"page": c.name})
}

// Begin validates q and, when valid, enters the loading state and returns
// the sequence number the result must carry. An invalid submission returns a
// *ValidationError and leaves the state unchanged.
func (c *Controller[Q, T]) Begin(q Q) (uint64, error) {
	if err := c.validate(q); err != nil {
		return 0, err
	}
	c.seq++
	c.pending = q
	c.state.Loading = true
	c.state.Err = ""
	return c.seq, nil
}

// Fetch performs the backend call for q. It reads no controller state and may
// run off the event loop.
func (c *Controller[Q, T]) Fetch(ctx context.Context, q Q) (T, error) {
	return c.fetch(ctx, q)
}

// Resolve applies the outcome of the request numbered seq. Results of any
// request other than the latest are dropped and Resolve reports false.
func (c *Controller[Q, T]) Resolve(seq uint64, data T, err error) bool {
	if seq != c.seq || !c.state.Loading {
		c.log.Debug("dropping stale response", "page", c.name, "seq", seq, "latest", c.seq)
		return false
	}

	c.state.Loading = false
	if err != nil {
		var zero T
		c.state.Data = zero
		c.state.Loaded = false
		c.state.Err = c.errText
		c.log.Warn("fetch failed", "page", c.name, "seq", seq, "error", err)
		return true
	}

	c.state.Data = data
	c.state.Loaded = true
	c.state.Err = ""
	c.rec.Record(analytics.ActionSearch, c.event(c.pending))
	return true
}

// Run submits q and blocks until its result is applied. It returns the
// validation or fetch error, if any.
func (c *Controller[Q, T]) Run(ctx context.Context, q Q) error {
	seq, err := c.Begin(q)
	if err != nil {
		return err
	}
	data, err := c.Fetch(ctx, q)
	c.Resolve(seq, data, err)
	return err
}
