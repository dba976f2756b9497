// Package concurrency implements the bounded, scoped query runner that
// spec section 4.1 calls the "concurrent query runner": a fork/join
// region where `Execute` schedules one backend call, whose completion
// callback may itself call `Execute` again, and leaving the scope
// blocks until every transitively enqueued call has finished.
//
// The shape is grounded on the errgroup+buffered-channel-semaphore
// pattern used for parallel sub-query fan-out elsewhere in this
// codebase's lineage, generalized from a fixed batch of work to a
// dynamically growing one driven by callbacks.
package concurrency

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"
)

// DefaultMaxInFlight is the recommended default in-flight cap (spec
// section 4.1: "a small integer such as the backend session's
// recommended concurrent-request ceiling; 20 is a reasonable
// default").
const DefaultMaxInFlight = 20

// Rows is the sequence of result rows a query execution yields to its
// callback. Its concrete element type is opaque to this package; the
// backend and graph store agree on what it contains.
type Rows = []any

// QueryFunc performs one backend call and returns its rows (or an
// error). It is supplied by the caller of Execute, closing over the
// prepared statement and bound parameters.
type QueryFunc func(ctx context.Context) (Rows, error)

// Callback is invoked with a completed query's rows. It may call
// Execute again on the same Scope to enqueue further work — that is
// the mechanism traversal_search and mmr_traversal_search use to
// expand the graph breadth-first.
type Callback func(rows Rows)

// Scope is one fork/join region: `New` opens it cheaply, `Execute`
// schedules work against it (possibly from within another query's
// callback), and `Close` blocks until every query — including those
// enqueued transitively — has completed, then re-raises the first
// error encountered.
//
// A Scope is safe for concurrent use by multiple goroutines, which is
// the normal case: query callbacks run on worker goroutines and may
// call Execute concurrently with each other.
type Scope struct {
	group    *errgroup.Group
	ctx      context.Context
	sem      chan struct{}
	logger   *slog.Logger
	mu       sync.Mutex
	poisoned bool
}

// New opens a concurrent query scope bounded to maxInFlight concurrent
// backend calls. A maxInFlight <= 0 uses DefaultMaxInFlight.
func New(ctx context.Context, maxInFlight int, logger *slog.Logger) *Scope {
	if maxInFlight <= 0 {
		maxInFlight = DefaultMaxInFlight
	}
	if logger == nil {
		logger = slog.Default()
	}
	group, gctx := errgroup.WithContext(ctx)
	return &Scope{
		group:  group,
		ctx:    gctx,
		sem:    make(chan struct{}, maxInFlight),
		logger: logger,
	}
}

// Execute schedules one backend call. It blocks the caller when the
// in-flight limit is saturated (spec section 4.1's backpressure
// requirement) and returns immediately once the call has been
// scheduled — it does not wait for the call to finish. If the scope
// has already been poisoned by an earlier error, Execute fast-fails
// (no-ops) rather than scheduling more work or deadlocking.
//
// The in-flight slot is released as soon as the query itself returns,
// before its callback runs. Callbacks commonly call Execute again to
// schedule the next depth of a traversal; holding the slot across the
// callback would mean a scope with N simultaneous branches beyond
// maxInFlight could never free a slot for the very callbacks it's
// waiting on, deadlocking. Releasing early caps outstanding backend
// statements, not callback-driven recursive scheduling.
func (s *Scope) Execute(query QueryFunc, callback Callback) {
	s.mu.Lock()
	poisoned := s.poisoned
	s.mu.Unlock()
	if poisoned {
		return
	}

	select {
	case s.sem <- struct{}{}:
	case <-s.ctx.Done():
		return
	}

	s.group.Go(func() error {
		rows, err := query(s.ctx)
		<-s.sem
		if err != nil {
			s.poison()
			return err
		}

		if callback != nil {
			if perr := s.runCallback(callback, rows); perr != nil {
				s.poison()
				return perr
			}
		}
		return nil
	})
}

// runCallback invokes callback, converting a panic into an error so a
// misbehaving callback poisons the scope instead of crashing the
// process (spec section 4.1: "an exception raised inside a callback
// poisons the scope").
func (s *Scope) runCallback(callback Callback, rows Rows) (err error) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("query callback panicked", slog.Any("panic", r))
			err = &CallbackPanic{Value: r}
		}
	}()
	callback(rows)
	return nil
}

func (s *Scope) poison() {
	s.mu.Lock()
	s.poisoned = true
	s.mu.Unlock()
}

// Close blocks until every statement ever scheduled on this scope —
// including those scheduled transitively from callbacks — has
// finished, then returns the first error encountered, if any.
func (s *Scope) Close() error {
	return s.group.Wait()
}

// CallbackPanic wraps a value recovered from a panicking callback so
// it can be surfaced through the normal error-returning Close path.
type CallbackPanic struct {
	Value any
}

func (p *CallbackPanic) Error() string {
	return "query callback panicked"
}

// Run opens a scope, runs body with it, and closes the scope before
// returning — the Go equivalent of the original's
// `with self._concurrent_queries() as cq:` block. If body itself
// returns an error that error is returned without waiting for
// in-flight queries to be inspected further; Close is still called so
// no goroutine is leaked past Run's return.
func Run(ctx context.Context, maxInFlight int, logger *slog.Logger, body func(s *Scope) error) error {
	s := New(ctx, maxInFlight, logger)
	bodyErr := body(s)
	closeErr := s.Close()
	if bodyErr != nil {
		return bodyErr
	}
	return closeErr
}
