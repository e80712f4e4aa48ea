package seq

import (
	"context"
	"errors"
	"fmt"
	"time"
)

const (
	defaultMaxAttempts    = 5
	ambiguityCheckTimeout = 2 * time.Second
)

// Allocator hands out sequence numbers: candidate from the counter store,
// insert into the durable store, retry on a uniqueness collision. No lock is
// taken; safety rests on the counter's atomic increment and the durable
// store's unique index.
type Allocator struct {
	counters    CounterStore
	durable     DurableStore
	maxAttempts int
	onExhausted func(scope string)
}

type AllocatorOption func(*Allocator)

// WithMaxAttempts overrides the retry bound.
func WithMaxAttempts(n int) AllocatorOption {
	return func(a *Allocator) {
		if n > 0 {
			a.maxAttempts = n
		}
	}
}

// WithExhaustionHook registers a callback fired when the retry bound is hit
// for a scope. Used to trigger reconciliation out-of-band; must not block.
func WithExhaustionHook(fn func(scope string)) AllocatorOption {
	return func(a *Allocator) {
		a.onExhausted = fn
	}
}

func NewAllocator(counters CounterStore, durable DurableStore, opts ...AllocatorOption) *Allocator {
	a := &Allocator{
		counters:    counters,
		durable:     durable,
		maxAttempts: defaultMaxAttempts,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Allocate reserves the next number in scope and persists the caller's entity
// under it via insert. On success the returned number is unique within the
// scope and >= 1. Uniqueness collisions are retried up to the bound with a
// fresh candidate each time; every discarded candidate leaves a permitted gap
// in the counter, never a duplicate persisted number.
func (a *Allocator) Allocate(ctx context.Context, scope string, insert InsertFunc) (int64, error) {
	exists, err := a.durable.ScopeExists(ctx, scope)
	if err != nil {
		return 0, &PersistenceError{Scope: scope, Err: fmt.Errorf("checking scope: %w", err)}
	}
	if !exists {
		return 0, fmt.Errorf("%w: %s", ErrScopeNotFound, scope)
	}

	for attempt := 0; attempt < a.maxAttempts; attempt++ {
		// A timeout here aborts the attempt without side effects.
		n, err := a.counters.Increment(ctx, scope)
		if err != nil {
			return 0, &PersistenceError{Scope: scope, Err: fmt.Errorf("incrementing counter: %w", err)}
		}

		err = insert(ctx, n)
		switch {
		case err == nil:
			return n, nil
		case errors.Is(err, ErrDuplicateNumber):
			// Counter behind the durable maximum; the increment we just took
			// moved it forward, so the retry converges.
			continue
		case errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled):
			return 0, a.resolveAmbiguous(ctx, scope, n, err)
		default:
			return 0, &PersistenceError{Scope: scope, Err: err}
		}
	}

	if a.onExhausted != nil {
		a.onExhausted(scope)
	}
	return 0, fmt.Errorf("%w: scope %s after %d attempts", ErrAllocationExhausted, scope, a.maxAttempts)
}

// resolveAmbiguous decides what a timed-out insert means. If (scope, n) is
// absent the insert did not commit and the failure is plain persistence; if
// present we cannot tell our insert from a collision with an older row, so
// the ambiguity is surfaced for the caller to resolve.
func (a *Allocator) resolveAmbiguous(ctx context.Context, scope string, n int64, cause error) error {
	// The request context is already done; bound the re-check separately.
	rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), ambiguityCheckTimeout)
	defer cancel()

	committed, err := a.durable.NumberExists(rctx, scope, n)
	if err != nil {
		return &AmbiguousCommitError{Scope: scope, Number: n, Err: cause}
	}
	if !committed {
		return &PersistenceError{Scope: scope, Err: cause}
	}
	return &AmbiguousCommitError{Scope: scope, Number: n, Err: cause}
}
