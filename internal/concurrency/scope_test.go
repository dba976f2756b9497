package concurrency

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_WaitsForTransitivelyScheduledWork(t *testing.T) {
	var count int64

	err := Run(context.Background(), 4, nil, func(s *Scope) error {
		var schedule func(depth int)
		schedule = func(depth int) {
			s.Execute(func(ctx context.Context) (Rows, error) {
				atomic.AddInt64(&count, 1)
				return Rows{depth}, nil
			}, func(rows Rows) {
				d := rows[0].(int)
				if d < 3 {
					schedule(d + 1)
				}
			})
		}
		schedule(0)
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, int64(4), atomic.LoadInt64(&count))
}

func TestRun_BoundsInFlightConcurrency(t *testing.T) {
	const maxInFlight = 2
	var (
		mu      sync.Mutex
		current int
		peak    int
	)

	err := Run(context.Background(), maxInFlight, nil, func(s *Scope) error {
		for i := 0; i < 20; i++ {
			s.Execute(func(ctx context.Context) (Rows, error) {
				mu.Lock()
				current++
				if current > peak {
					peak = current
				}
				mu.Unlock()

				time.Sleep(time.Millisecond)

				mu.Lock()
				current--
				mu.Unlock()
				return nil, nil
			}, nil)
		}
		return nil
	})

	require.NoError(t, err)
	assert.LessOrEqual(t, peak, maxInFlight)
}

func TestRun_PropagatesQueryError(t *testing.T) {
	boom := errors.New("boom")

	err := Run(context.Background(), 4, nil, func(s *Scope) error {
		s.Execute(func(ctx context.Context) (Rows, error) {
			return nil, boom
		}, nil)
		return nil
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}

func TestRun_PropagatesCallbackPanicAsError(t *testing.T) {
	err := Run(context.Background(), 4, nil, func(s *Scope) error {
		s.Execute(func(ctx context.Context) (Rows, error) {
			return Rows{}, nil
		}, func(rows Rows) {
			panic("callback exploded")
		})
		return nil
	})

	require.Error(t, err)
	var panicErr *CallbackPanic
	assert.ErrorAs(t, err, &panicErr)
}

func TestRun_WideRecursiveBranchingDoesNotDeadlock(t *testing.T) {
	// Each callback fans out branchFactor children, well beyond
	// maxInFlight, the way traversal_search expands a node's adjacent
	// tags from inside an Execute callback. If a slot stayed reserved
	// across the callback, enough simultaneous branches would wedge
	// every in-flight goroutine waiting on a slot only a blocked sibling
	// could free.
	const maxInFlight = 2
	const branchFactor = 8
	const maxDepth = 3

	var count int64
	done := make(chan error, 1)

	go func() {
		done <- Run(context.Background(), maxInFlight, nil, func(s *Scope) error {
			var schedule func(depth int)
			schedule = func(depth int) {
				for i := 0; i < branchFactor; i++ {
					s.Execute(func(ctx context.Context) (Rows, error) {
						atomic.AddInt64(&count, 1)
						return Rows{depth}, nil
					}, func(rows Rows) {
						d := rows[0].(int)
						if d < maxDepth {
							schedule(d + 1)
						}
					})
				}
			}
			schedule(0)
			return nil
		})
	}()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run deadlocked under wide recursive branching")
	}

	var want int64
	n := int64(branchFactor)
	for d := 0; d <= maxDepth; d++ {
		want += n
		n *= branchFactor
	}
	assert.Equal(t, want, atomic.LoadInt64(&count))
}

func TestExecute_NoOpsAfterPoisoned(t *testing.T) {
	boom := errors.New("boom")
	var ranAfterPoison int64

	err := Run(context.Background(), 1, nil, func(s *Scope) error {
		s.Execute(func(ctx context.Context) (Rows, error) {
			return nil, boom
		}, nil)

		// Give the first query a chance to poison the scope before
		// scheduling more work against it.
		time.Sleep(10 * time.Millisecond)

		s.Execute(func(ctx context.Context) (Rows, error) {
			atomic.AddInt64(&ranAfterPoison, 1)
			return nil, nil
		}, nil)
		return nil
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, int64(0), atomic.LoadInt64(&ranAfterPoison), "Execute must not run queries once the scope is poisoned")
}
